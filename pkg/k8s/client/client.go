// Package client builds Kubernetes clients for qbench commands.
package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// UserAgent is sent with every API request made by qbench.
const UserAgent = "qbench"

var (
	clientOnce   sync.Once
	cachedClient *kubernetes.Clientset
	cachedConfig *rest.Config
	clientErr    error
)

// GetKubeClient returns the process-wide client built from the default
// kubeconfig discovery chain. The first call builds it; later calls reuse it.
func GetKubeClient() (*kubernetes.Clientset, *rest.Config, error) {
	clientOnce.Do(func() {
		cachedClient, cachedConfig, clientErr = BuildKubeClient("")
	})
	return cachedClient, cachedConfig, clientErr
}

// ResolveKubeconfig returns the kubeconfig path that BuildKubeClient would use.
// Order: explicit path, KUBECONFIG, ~/.kube/config when present. An empty
// result means in-cluster configuration.
func ResolveKubeconfig(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}

// BuildKubeClient creates a client from the given kubeconfig, bypassing the
// cache. The rest config is returned as well since pod exec needs it to open
// streaming connections.
func BuildKubeClient(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	config, err := clientcmd.BuildConfigFromFlags("", ResolveKubeconfig(kubeconfig))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build kube config: %w", err)
	}
	config.UserAgent = UserAgent

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return client, config, nil
}
