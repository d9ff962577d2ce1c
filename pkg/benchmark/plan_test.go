package benchmark

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/qbench/pkg/k8s/job"
	"github.com/NVIDIA/qbench/pkg/k8s/pod"
	"github.com/NVIDIA/qbench/pkg/qmgmt"
	"github.com/NVIDIA/qbench/pkg/volume"
)

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan([]byte(`
volumes:
  - name: bench-a
    config: BASE
jobs:
  - manifests/fio.yaml
timeout: 3h
tagDevices: true
qps: 5
`))
	require.NoError(t, err)

	assert.Equal(t, pod.DefaultNamespace, p.Namespace)
	assert.Equal(t, pod.DefaultName, p.Pod)
	assert.Equal(t, qmgmt.DefaultAPI, p.API)
	assert.Equal(t, job.DefaultPollInterval, p.PollInterval)
	assert.Equal(t, 3*time.Hour, p.Timeout)
	assert.Equal(t, 1, p.Parallelism)
	assert.InDelta(t, 5.0, p.QPS, 0)
	assert.True(t, p.TagDevices)
	assert.False(t, p.CreateJobs)
	assert.Equal(t, []volume.Spec{{Name: "bench-a", Config: "BASE"}}, p.Volumes)
	require.NoError(t, p.Validate())
}

func TestParsePlan_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", "  \n"},
		{"unknown field", "volumez: []\n"},
		{"bad duration", "pollInterval: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pod: other\ntagDevices: true\n"), 0o600))

	p, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "other", p.Pod)

	_, err = LoadPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPlan_Validate(t *testing.T) {
	valid := func() *Plan {
		p := &Plan{Volumes: []volume.Spec{{Name: "a", Config: "BASE"}}}
		p.SetDefaults()
		return p
	}

	tests := []struct {
		name   string
		mutate func(*Plan)
		errMsg string
	}{
		{"nothing to do", func(p *Plan) { p.Volumes = nil }, "nothing to do"},
		{"duplicate volume", func(p *Plan) { p.Volumes = append(p.Volumes, p.Volumes[0]) }, "more than once"},
		{"volume without config", func(p *Plan) { p.Volumes[0].Config = "" }, "configuration is required"},
		{"negative parallelism", func(p *Plan) { p.Parallelism = -1 }, "parallelism"},
		{"negative qps", func(p *Plan) { p.QPS = -1 }, "qps"},
		{"negative timeout", func(p *Plan) { p.Timeout = -time.Second }, "must not be negative"},
		{"empty job path", func(p *Plan) { p.Jobs = []string{" "} }, "jobs[0]"},
		{"api with spaces", func(p *Plan) { p.API = "api 7860" }, "valid endpoint"},
		{"pin without tagging", func(p *Plan) { pin := 2; p.PinJobsToHost = &pin; p.CreateJobs = true }, "requires tagDevices"},
		{"pin out of range", func(p *Plan) {
			pin := 4
			p.PinJobsToHost = &pin
			p.TagDevices = true
			p.CreateJobs = true
		}, "between 0 and 3"},
	}

	require.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
