package job

import (
	"context"
	"fmt"
	"log/slog"

	batchv1 "k8s.io/api/batch/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/qbench/pkg/defaults"
)

const (
	// RunIDLabel marks Jobs and their pods with the benchmark run that created them.
	RunIDLabel = "qbench.io/run-id"

	// ManagedByLabel marks Jobs created by qbench.
	ManagedByLabel = "app.kubernetes.io/managed-by"

	managedByValue = "qbench"
)

// Manager creates, deletes and watches benchmark Jobs.
type Manager struct {
	clientset kubernetes.Interface
}

// NewManager creates a Manager using the given clientset.
func NewManager(clientset kubernetes.Interface) *Manager {
	return &Manager{clientset: clientset}
}

// CreateOptions adjusts a Job before it is submitted.
type CreateOptions struct {
	// NodeSelector is merged into the pod template node selector.
	NodeSelector map[string]string

	// RunID is stored in the RunIDLabel of the Job and its pods.
	RunID string
}

// Create submits j. A Job with the same name is deleted first and Create waits
// for it to disappear. Jobs without a backoff limit get zero retries so a
// failed benchmark is not silently re-run.
func (m *Manager) Create(ctx context.Context, j *batchv1.Job, opts CreateOptions) (*batchv1.Job, error) {
	if err := ValidateImages(j); err != nil {
		return nil, err
	}

	desired := j.DeepCopy()
	desired.ResourceVersion = ""
	desired.Status = batchv1.JobStatus{}
	if desired.Namespace == "" {
		desired.Namespace = DefaultNamespace
	}
	if desired.Spec.BackoffLimit == nil {
		desired.Spec.BackoffLimit = ptr.To[int32](0)
	}

	labels := map[string]string{ManagedByLabel: managedByValue}
	if opts.RunID != "" {
		labels[RunIDLabel] = opts.RunID
	}
	desired.Labels = mergeStrings(desired.Labels, labels)
	desired.Spec.Template.Labels = mergeStrings(desired.Spec.Template.Labels, labels)
	if len(opts.NodeSelector) > 0 {
		desired.Spec.Template.Spec.NodeSelector = mergeStrings(desired.Spec.Template.Spec.NodeSelector, opts.NodeSelector)
	}

	if err := m.Delete(ctx, desired.Namespace, desired.Name); err != nil {
		return nil, fmt.Errorf("failed to delete existing job: %w", err)
	}

	created, err := m.clientset.BatchV1().Jobs(desired.Namespace).Create(ctx, desired, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create job %s/%s: %w", desired.Namespace, desired.Name, err)
	}

	slog.Info("created job",
		slog.String("namespace", created.Namespace),
		slog.String("name", created.Name),
		slog.String("run_id", opts.RunID),
	)
	return created, nil
}

// Delete removes a Job and its pods and waits until the Job is gone. A
// missing Job is not an error.
func (m *Manager) Delete(ctx context.Context, namespace, name string) error {
	jobs := m.clientset.BatchV1().Jobs(namespace)

	err := jobs.Delete(ctx, name, metav1.DeleteOptions{
		PropagationPolicy: ptr.To(metav1.DeletePropagationBackground),
	})
	if apierrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete job %s/%s: %w", namespace, name, err)
	}

	slog.Debug("deleted job, waiting for removal", slog.String("namespace", namespace), slog.String("name", name))

	return wait.PollUntilContextTimeout(ctx, defaults.JobDeletePollInterval, defaults.JobDeleteTimeout, true, func(ctx context.Context) (bool, error) {
		_, err := jobs.Get(ctx, name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return true, nil
		}
		return false, err
	})
}

func mergeStrings(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
