package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/qbench/pkg/device"
	"github.com/NVIDIA/qbench/pkg/header"
	"github.com/NVIDIA/qbench/pkg/k8s/job"
	"github.com/NVIDIA/qbench/pkg/k8s/pod"
	"github.com/NVIDIA/qbench/pkg/volume"
)

// ReportKind is the header kind of a benchmark run report.
const ReportKind = "BenchmarkReport"

// Job outcome statuses.
const (
	JobSucceeded = "Succeeded"
	JobFailed    = "Failed"
	JobError     = "Error"
)

// Remote is the set of qmgmt operations a run needs.
type Remote interface {
	volume.Manager
	device.Issuer
	ListDevices(ctx context.Context) (string, error)
}

// JobOutcome records how waiting for one Job ended.
type JobOutcome struct {
	Manifest  string `json:"manifest" yaml:"manifest"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Name      string `json:"name" yaml:"name"`
	Created   bool   `json:"created" yaml:"created"`
	Status    string `json:"status" yaml:"status"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the result of a run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	RunID   string            `json:"runId" yaml:"runId"`
	Volumes []*volume.Result  `json:"volumes,omitempty" yaml:"volumes,omitempty"`
	Devices *device.TagResult `json:"devices,omitempty" yaml:"devices,omitempty"`
	Jobs    []JobOutcome      `json:"jobs,omitempty" yaml:"jobs,omitempty"`
}

// Runner executes a Plan.
type Runner struct {
	plan      *Plan
	clientset kubernetes.Interface
	remote    Remote
	jobs      *job.Manager
	runID     string
}

// Option configures a Runner.
type Option func(*Runner)

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// NewRunner creates a Runner. The clientset is used for the management pod
// lookup and for Jobs; remote carries the qmgmt commands.
func NewRunner(plan *Plan, clientset kubernetes.Interface, remote Remote, opts ...Option) *Runner {
	r := &Runner{
		plan:      plan,
		clientset: clientset,
		remote:    remote,
		jobs:      job.NewManager(clientset),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r
}

// RunID returns the identifier attached to the report and created Jobs.
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes the plan. On error the partial report is returned alongside.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	start := time.Now()
	defer func() { runDuration.Observe(time.Since(start).Seconds()) }()

	rep := &Report{Header: *header.New(header.WithMetadata(header.RunIDKey, r.runID)), RunID: r.runID}
	rep.Set(ReportKind)

	log := slog.With(slog.String("run", r.runID))
	log.Info("starting benchmark run",
		slog.Int("volumes", len(r.plan.Volumes)),
		slog.Int("jobs", len(r.plan.Jobs)),
		slog.Bool("tagDevices", r.plan.TagDevices),
	)

	if _, err := pod.Lookup(ctx, r.clientset, r.plan.Namespace, r.plan.Pod); err != nil {
		return rep, err
	}

	vols, err := r.resetVolumes(ctx)
	rep.Volumes = vols
	if err != nil {
		return rep, err
	}

	if r.plan.TagDevices {
		res, err := r.tagDevices(ctx)
		rep.Devices = res
		if err != nil {
			return rep, err
		}
	}

	selector, err := r.jobSelector(rep.Devices)
	if err != nil {
		return rep, err
	}

	for _, path := range r.plan.Jobs {
		out, err := r.runJob(ctx, path, selector)
		if out != nil {
			rep.Jobs = append(rep.Jobs, *out)
		}
		if err != nil {
			return rep, err
		}
	}

	log.Info("benchmark run finished", slog.Duration("duration", time.Since(start).Round(time.Millisecond)))
	return rep, nil
}

// resetVolumes resets the plan volumes with at most Parallelism in flight.
// The first failure cancels the remaining resets.
func (r *Runner) resetVolumes(ctx context.Context) ([]*volume.Result, error) {
	if len(r.plan.Volumes) == 0 {
		return nil, nil
	}

	results := make([]*volume.Result, len(r.plan.Volumes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.plan.Parallelism)
	for i, spec := range r.plan.Volumes {
		g.Go(func() error {
			res, err := volume.Reset(gctx, r.remote, spec)
			results[i] = res
			return err
		})
	}
	err := g.Wait()

	out := make([]*volume.Result, 0, len(results))
	for _, res := range results {
		if res != nil {
			out = append(out, res)
		}
	}
	return out, err
}

func (r *Runner) tagDevices(ctx context.Context) (*device.TagResult, error) {
	listing, err := r.remote.ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	groups, err := device.ParseListing(listing)
	if err != nil {
		return nil, err
	}

	res, err := device.NewTagger(r.remote).Apply(ctx, groups)
	if err != nil {
		return res, err
	}

	slog.Info("tagged devices",
		slog.Int("hosts", groups.Len()),
		slog.Int("devices", groups.DeviceCount()),
		slog.Int("failed", len(res.Failed)),
		slog.String("third", res.Third()),
		slog.String("fourth", res.Fourth()),
	)
	return res, nil
}

// jobSelector returns the node selector for created Jobs: the plan selector,
// plus the hostname of the pinned tracked host when pinning is on.
func (r *Runner) jobSelector(tagged *device.TagResult) (map[string]string, error) {
	if r.plan.PinJobsToHost == nil {
		return r.plan.NodeSelector, nil
	}

	idx := *r.plan.PinJobsToHost
	host := ""
	if tagged != nil {
		host = tagged.TrackedHost(idx)
	}
	if host == "" {
		return nil, fmt.Errorf("cannot pin jobs: no host was tagged %s", device.Tag(idx))
	}

	selector := make(map[string]string, len(r.plan.NodeSelector)+1)
	for k, v := range r.plan.NodeSelector {
		selector[k] = v
	}
	selector[corev1.LabelHostname] = host
	slog.Info("pinning jobs to tracked host", slog.String("host", host), slog.String("tag", device.Tag(idx)))
	return selector, nil
}

// runJob loads a manifest, optionally creates the Job, and waits for it.
// Wait failures are recorded in the outcome; only manifest, create and
// context errors are returned.
func (r *Runner) runJob(ctx context.Context, path string, selector map[string]string) (*JobOutcome, error) {
	j, err := job.LoadManifest(path)
	if err != nil {
		return nil, err
	}

	out := &JobOutcome{Manifest: path, Namespace: j.Namespace, Name: j.Name}

	if r.plan.CreateJobs {
		if _, err := r.jobs.Create(ctx, j, job.CreateOptions{
			NodeSelector: selector,
			RunID:        r.runID,
		}); err != nil {
			out.Status = JobError
			out.Error = err.Error()
			return out, err
		}
		out.Created = true
	}

	_, err = r.jobs.WaitForCompletion(ctx, j.Namespace, j.Name, job.WaitOptions{
		Interval: r.plan.PollInterval,
		Timeout:  r.plan.Timeout,
	})
	switch {
	case err == nil:
		out.Status = JobSucceeded
	case ctx.Err() != nil:
		out.Status = JobError
		out.Error = err.Error()
		return out, ctx.Err()
	default:
		out.Status = JobError
		if errors.Is(err, job.ErrJobFailed) {
			out.Status = JobFailed
		}
		out.Error = err.Error()
		slog.Warn("job did not complete",
			slog.String("namespace", j.Namespace),
			slog.String("name", j.Name),
			slog.String("error", err.Error()),
		)
	}
	return out, nil
}
