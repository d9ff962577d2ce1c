// Package pod locates the Quobyte management pod and runs commands inside it.
package pod

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/qbench/pkg/defaults"
)

const (
	// DefaultNamespace is the namespace the Quobyte services run in.
	DefaultNamespace = "quobyte"

	// DefaultName is the name of the pod that ships the qmgmt CLI.
	DefaultName = "qmgmt-pod"
)

// lookupTimeout bounds the pod Get independently of the caller's deadline.
var lookupTimeout = defaults.K8sAPITimeout

// ErrNotFound is returned by Lookup when the management pod does not exist.
var ErrNotFound = errors.New("management pod not found")

// Lookup fetches the management pod. A missing pod yields an error wrapping
// ErrNotFound; any other API failure is returned wrapped as-is.
func Lookup(ctx context.Context, client kubernetes.Interface, namespace, name string) (*corev1.Pod, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	p, err := client.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("pod %s/%s: %w", namespace, name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pod %s/%s: %w", namespace, name, err)
	}

	if p.Status.Phase != corev1.PodRunning {
		slog.Warn("management pod is not running",
			slog.String("namespace", namespace),
			slog.String("pod", name),
			slog.String("phase", string(p.Status.Phase)),
		)
	}

	return p, nil
}
