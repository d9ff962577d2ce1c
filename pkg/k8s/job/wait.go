package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agnivade/levenshtein"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/NVIDIA/qbench/pkg/defaults"
)

// DefaultPollInterval is how often the Job status is read while waiting.
const DefaultPollInterval = defaults.JobPollInterval

var (
	// ErrJobFailed is returned when the Job reports a Failed condition.
	ErrJobFailed = errors.New("job failed")

	// ErrJobNotFound is returned when the Job does not exist.
	ErrJobNotFound = errors.New("job not found")
)

// WaitOptions controls WaitForCompletion.
type WaitOptions struct {
	// Interval between status reads. Defaults to DefaultPollInterval.
	Interval time.Duration

	// Timeout bounds the wait. Zero waits until ctx is done.
	Timeout time.Duration
}

// WaitForCompletion polls the Job until it has a succeeded pod or a Complete
// condition. It returns the last observed Job.
func (m *Manager) WaitForCompletion(ctx context.Context, namespace, name string, opts WaitOptions) (*batchv1.Job, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	start := time.Now()
	var last *batchv1.Job

	condition := func(ctx context.Context) (bool, error) {
		j, err := m.clientset.BatchV1().Jobs(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			if apierrors.IsNotFound(err) {
				return false, m.notFound(ctx, namespace, name)
			}
			return false, fmt.Errorf("failed to read job status: %w", err)
		}
		last = j

		if done, err := finished(j); done || err != nil {
			return done, err
		}

		slog.Info("waiting for job to finish",
			slog.String("namespace", namespace),
			slog.String("name", name),
			slog.Int("active", int(j.Status.Active)),
			slog.Int("succeeded", int(j.Status.Succeeded)),
			slog.Int("failed", int(j.Status.Failed)),
			slog.Duration("elapsed", time.Since(start).Round(time.Second)),
		)
		return false, nil
	}

	var err error
	if opts.Timeout > 0 {
		err = wait.PollUntilContextTimeout(ctx, interval, opts.Timeout, true, condition)
	} else {
		err = wait.PollUntilContextCancel(ctx, interval, true, condition)
	}
	jobWaitDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		jobWaitTotal.WithLabelValues("succeeded").Inc()
		slog.Info("job completed",
			slog.String("namespace", namespace),
			slog.String("name", name),
			slog.Duration("duration", time.Since(start).Round(time.Second)),
		)
		return last, nil
	case errors.Is(err, ErrJobFailed):
		jobWaitTotal.WithLabelValues("failed").Inc()
		return last, err
	case errors.Is(err, ErrJobNotFound):
		jobWaitTotal.WithLabelValues("not_found").Inc()
		return nil, err
	case wait.Interrupted(err):
		jobWaitTotal.WithLabelValues("timeout").Inc()
		return last, fmt.Errorf("timed out waiting for job %s/%s: %w", namespace, name, err)
	default:
		jobWaitTotal.WithLabelValues("error").Inc()
		return last, err
	}
}

// finished reports whether the Job is done. A Failed condition is an error.
func finished(j *batchv1.Job) (bool, error) {
	for _, c := range j.Status.Conditions {
		if c.Status != corev1.ConditionTrue {
			continue
		}
		switch c.Type {
		case batchv1.JobFailed:
			return false, fmt.Errorf("job %s/%s: %w: %s", j.Namespace, j.Name, ErrJobFailed, c.Message)
		case batchv1.JobComplete:
			return true, nil
		}
	}
	return j.Status.Succeeded > 0, nil
}

// notFound builds an ErrJobNotFound error that suggests the closest existing
// Job name in the namespace.
func (m *Manager) notFound(ctx context.Context, namespace, name string) error {
	err := fmt.Errorf("job %s/%s: %w", namespace, name, ErrJobNotFound)

	list, lerr := m.clientset.BatchV1().Jobs(namespace).List(ctx, metav1.ListOptions{})
	if lerr != nil {
		slog.Debug("failed to list jobs for suggestion", slog.String("error", lerr.Error()))
		return err
	}

	names := make([]string, 0, len(list.Items))
	for _, j := range list.Items {
		names = append(names, j.Name)
	}
	if s := closest(name, names); s != "" {
		return fmt.Errorf("%w (did you mean %q?)", err, s)
	}
	return err
}

// closest returns the candidate with the smallest edit distance to name, or
// "" when none is within a third of the name length (at least 2 edits).
func closest(name string, candidates []string) string {
	limit := len(name) / 3
	if limit < 2 {
		limit = 2
	}

	best, bestDist := "", limit+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
