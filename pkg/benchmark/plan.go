package benchmark

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/NVIDIA/qbench/pkg/device"
	"github.com/NVIDIA/qbench/pkg/k8s/job"
	"github.com/NVIDIA/qbench/pkg/k8s/pod"
	"github.com/NVIDIA/qbench/pkg/qmgmt"
	"github.com/NVIDIA/qbench/pkg/volume"
	"gopkg.in/yaml.v3"
)

// Plan describes one benchmark run.
type Plan struct {
	// Namespace and Pod locate the management pod running qmgmt.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Pod       string `json:"pod,omitempty" yaml:"pod,omitempty"`
	Container string `json:"container,omitempty" yaml:"container,omitempty"`

	// API is the qmgmt API endpoint, passed as "-u".
	API string `json:"api,omitempty" yaml:"api,omitempty"`

	Volumes []volume.Spec `json:"volumes,omitempty" yaml:"volumes,omitempty"`

	// Jobs are paths to batch/v1 Job manifests, waited on in order.
	Jobs []string `json:"jobs,omitempty" yaml:"jobs,omitempty"`

	// CreateJobs (re)creates each Job before waiting. Otherwise the Jobs are
	// expected to be submitted by someone else.
	CreateJobs   bool              `json:"createJobs,omitempty" yaml:"createJobs,omitempty"`
	NodeSelector map[string]string `json:"nodeSelector,omitempty" yaml:"nodeSelector,omitempty"`

	PollInterval time.Duration `json:"pollInterval,omitempty" yaml:"pollInterval,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	TagDevices bool `json:"tagDevices,omitempty" yaml:"tagDevices,omitempty"`

	// PinJobsToHost places created Jobs on the host tagged with this counter
	// value (2 is the third host, "host2"). Requires tagDevices and createJobs.
	PinJobsToHost *int `json:"pinJobsToHost,omitempty" yaml:"pinJobsToHost,omitempty"`

	// Parallelism bounds concurrent volume resets. 1 is sequential.
	Parallelism int `json:"parallelism,omitempty" yaml:"parallelism,omitempty"`

	// QPS limits qmgmt commands per second. Zero is unlimited.
	QPS float64 `json:"qps,omitempty" yaml:"qps,omitempty"`
}

// LoadPlan reads a YAML plan from path. Unknown fields are rejected.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan %q: %w", path, err)
	}
	p, err := ParsePlan(data)
	if err != nil {
		return nil, fmt.Errorf("invalid plan %q: %w", path, err)
	}
	return p, nil
}

// ParsePlan decodes a YAML plan and fills in defaults.
func ParsePlan(data []byte) (*Plan, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("plan is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}

	p.SetDefaults()
	return &p, nil
}

// SetDefaults fills unset fields.
func (p *Plan) SetDefaults() {
	if p.Namespace == "" {
		p.Namespace = pod.DefaultNamespace
	}
	if p.Pod == "" {
		p.Pod = pod.DefaultName
	}
	if p.API == "" {
		p.API = qmgmt.DefaultAPI
	}
	if p.PollInterval == 0 {
		p.PollInterval = job.DefaultPollInterval
	}
	if p.Parallelism == 0 {
		p.Parallelism = 1
	}
}

// Validate checks the plan for values that cannot be run.
func (p *Plan) Validate() error {
	var errs []error

	if strings.TrimSpace(p.API) == "" || strings.ContainsAny(p.API, " \t") {
		errs = append(errs, fmt.Errorf("api %q is not a valid endpoint", p.API))
	}
	if p.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism must be at least 1, got %d", p.Parallelism))
	}
	if p.QPS < 0 {
		errs = append(errs, fmt.Errorf("qps must not be negative, got %v", p.QPS))
	}
	if p.PollInterval < 0 || p.Timeout < 0 {
		errs = append(errs, errors.New("pollInterval and timeout must not be negative"))
	}

	seen := make(map[string]bool, len(p.Volumes))
	for _, v := range p.Volumes {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[v.Name] {
			errs = append(errs, fmt.Errorf("volume %q is listed more than once", v.Name))
		}
		seen[v.Name] = true
	}

	for i, path := range p.Jobs {
		if strings.TrimSpace(path) == "" {
			errs = append(errs, fmt.Errorf("jobs[%d]: path is empty", i))
		}
	}

	if p.PinJobsToHost != nil {
		if *p.PinJobsToHost < 0 || *p.PinJobsToHost >= device.TrackedHostCount {
			errs = append(errs, fmt.Errorf("pinJobsToHost must be between 0 and %d, got %d", device.TrackedHostCount-1, *p.PinJobsToHost))
		}
		if !p.TagDevices || !p.CreateJobs {
			errs = append(errs, errors.New("pinJobsToHost requires tagDevices and createJobs"))
		}
	}

	if len(p.Volumes) == 0 && len(p.Jobs) == 0 && !p.TagDevices {
		errs = append(errs, errors.New("plan has nothing to do: no volumes, no jobs and tagDevices is off"))
	}

	return errors.Join(errs...)
}
