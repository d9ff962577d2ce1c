package qmgmt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/qbench/pkg/qmgmt"
	"github.com/NVIDIA/qbench/pkg/qmgmt/qmgmttest"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name string
		api  string
		args string
		want []string
	}{
		{
			name: "default api",
			args: "device list",
			want: []string{"/bin/sh", "-c", "qmgmt -u api:7860 device list"},
		},
		{
			name: "custom api",
			api:  "qb-api.quobyte:7860",
			args: "volume show bench",
			want: []string{"/bin/sh", "-c", "qmgmt -u qb-api.quobyte:7860 volume show bench"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, qmgmt.Command(tt.api, tt.args))
		})
	}
}

func TestClient_TypedCommands(t *testing.T) {
	ctx := context.Background()
	exec := qmgmttest.NewExecutor()
	c := qmgmt.NewClient(exec)

	_, err := c.DeleteVolume(ctx, "bench")
	require.NoError(t, err)
	_, err = c.CreateVolume(ctx, "bench", "BASE")
	require.NoError(t, err)
	_, err = c.ListDevices(ctx)
	require.NoError(t, err)
	require.NoError(t, c.AddDeviceTag(ctx, "17", "host2"))

	assert.Equal(t, []string{
		"qmgmt -u api:7860 volume delete -f bench",
		"qmgmt -u api:7860 volume create bench root root BASE 0777",
		"qmgmt -u api:7860 device list",
		"qmgmt -u api:7860 device update add-tags 17 host2",
	}, exec.Scripts())
}

func TestClient_RunCombinesOutput(t *testing.T) {
	exec := qmgmttest.NewExecutor().On("device list", qmgmttest.Response{
		Stdout: "out\n",
		Stderr: "warn\n",
	})
	c := qmgmt.NewClient(exec, qmgmt.WithAPI("api:1234"))

	out, err := c.ListDevices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "out\nwarn\n", out)
	assert.Equal(t, "api:1234", c.API())
}

func TestClient_RunErrorKeepsOutput(t *testing.T) {
	exec := qmgmttest.NewExecutor().On("volume delete", qmgmttest.Response{
		Stderr: "permission denied",
		Err:    errors.New("command terminated with exit code 1"),
	})
	c := qmgmt.NewClient(exec)

	out, err := c.DeleteVolume(context.Background(), "bench")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "volume delete -f bench")
	assert.Equal(t, "permission denied", out)
}

func TestClient_VolumeExists(t *testing.T) {
	tests := []struct {
		name    string
		resp    qmgmttest.Response
		want    bool
		wantErr bool
	}{
		{
			name: "existing volume",
			resp: qmgmttest.Response{Stdout: "Name: bench\nConfiguration: BASE\n"},
			want: true,
		},
		{
			name: "missing volume",
			resp: qmgmttest.Response{Stdout: "No such volume: bench\n"},
			want: false,
		},
		{
			name: "missing volume with non-zero exit",
			resp: qmgmttest.Response{
				Stderr: "No such volume: bench\n",
				Err:    errors.New("command terminated with exit code 2"),
			},
			want: false,
		},
		{
			name: "other volume missing does not count",
			resp: qmgmttest.Response{Stdout: "No such volume: bench2\n"},
			want: true,
		},
		{
			name: "missing volume on stderr after unterminated stdout",
			resp: qmgmttest.Response{
				Stdout: "Connecting to api:7860",
				Stderr: "No such volume: bench",
				Err:    errors.New("command terminated with exit code 2"),
			},
			want: false,
		},
		{
			name: "volume with longer name missing does not count",
			resp: qmgmttest.Response{Stdout: "No such volume: bench-old"},
			want: true,
		},
		{
			name: "missing volume among other lines",
			resp: qmgmttest.Response{Stdout: "Connecting to api:7860\r\n  No such volume: bench  \n"},
			want: false,
		},
		{
			name:    "transport failure",
			resp:    qmgmttest.Response{Err: errors.New("connection refused")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := qmgmttest.NewExecutor().On("volume show", tt.resp)
			got, err := qmgmt.NewClient(exec).VolumeExists(context.Background(), "bench")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_WithQPS(t *testing.T) {
	exec := qmgmttest.NewExecutor()
	c := qmgmt.NewClient(exec, qmgmt.WithQPS(20))

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.ListDevices(context.Background())
		require.NoError(t, err)
	}

	// burst of one: the 2nd and 3rd call each wait ~50ms
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	assert.Len(t, exec.Commands(), 3)
}

func TestClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := qmgmttest.NewExecutor()
	_, err := qmgmt.NewClient(exec, qmgmt.WithQPS(1)).ListDevices(ctx)
	require.Error(t, err)
	assert.Empty(t, exec.Commands())
}

func TestClient_RecordsMetrics(t *testing.T) {
	before := testutil.ToFloat64(qmgmt.CommandTotal().WithLabelValues("volume show", "success"))

	exec := qmgmttest.NewExecutor()
	_, err := qmgmt.NewClient(exec).ShowVolume(context.Background(), "metrics-vol")
	require.NoError(t, err)

	after := testutil.ToFloat64(qmgmt.CommandTotal().WithLabelValues("volume show", "success"))
	assert.Equal(t, before+1, after)
}
