package pod

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
)

// Executor runs commands in a container of a pod through the pods/exec
// subresource. Stdin and TTY are never attached.
type Executor struct {
	Client    kubernetes.Interface
	Config    *rest.Config
	Namespace string
	Pod       string

	// Container is optional; the API server picks the only container when empty.
	Container string
}

// Exec runs command and returns the captured stdout and stderr. A non-zero
// remote exit status is reported as an error alongside the captured output.
func (e *Executor) Exec(ctx context.Context, command []string) (string, string, error) {
	if e.Client == nil || e.Config == nil {
		return "", "", fmt.Errorf("executor for pod %s/%s is not configured", e.Namespace, e.Pod)
	}

	req := e.Client.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(e.Pod).
		Namespace(e.Namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: e.Container,
			Command:   command,
			Stdin:     false,
			Stdout:    true,
			Stderr:    true,
			TTY:       false,
		}, scheme.ParameterCodec)

	exec, err := remotecommand.NewSPDYExecutor(e.Config, "POST", req.URL())
	if err != nil {
		return "", "", fmt.Errorf("failed to create executor: %w", err)
	}

	slog.Debug("exec in pod",
		slog.String("namespace", e.Namespace),
		slog.String("pod", e.Pod),
		slog.Any("command", command),
	)

	var stdout, stderr bytes.Buffer
	err = exec.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("exec in pod %s/%s failed: %w", e.Namespace, e.Pod, err)
	}

	return stdout.String(), stderr.String(), nil
}
