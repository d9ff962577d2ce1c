package qmgmt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Executor runs a command remotely and returns its stdout and stderr.
type Executor interface {
	Exec(ctx context.Context, command []string) (stdout string, stderr string, err error)
}

// Client issues qmgmt commands through an Executor.
type Client struct {
	exec    Executor
	api     string
	limiter *rate.Limiter
}

// Option is a functional option for configuring Client instances.
type Option func(*Client)

// WithAPI sets the qmgmt API endpoint passed with -u.
func WithAPI(api string) Option {
	return func(c *Client) {
		if api != "" {
			c.api = api
		}
	}
}

// WithQPS limits the number of commands per second. Zero or negative disables the limit.
func WithQPS(qps float64) Option {
	return func(c *Client) {
		if qps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(qps), 1)
	}
}

// NewClient creates a Client bound to exec.
func NewClient(exec Executor, opts ...Option) *Client {
	c := &Client{
		exec:    exec,
		api:     DefaultAPI,
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// API returns the configured qmgmt endpoint.
func (c *Client) API() string {
	return c.api
}

// Run executes "qmgmt -u <api> <args>" and returns stdout followed by stderr
// on a new line.
// The output is returned even when the command fails so callers can inspect it.
func (c *Client) Run(ctx context.Context, args string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("qmgmt %s: %w", args, err)
	}

	label := commandLabel(args)
	start := time.Now()
	stdout, stderr, err := c.exec.Exec(ctx, Command(c.api, args))
	commandDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	out := combine(stdout, stderr)
	if err != nil {
		commandTotal.WithLabelValues(label, "error").Inc()
		return out, fmt.Errorf("qmgmt %s: %w", args, err)
	}
	commandTotal.WithLabelValues(label, "success").Inc()

	slog.Debug("qmgmt command completed",
		slog.String("args", args),
		slog.Int("output_bytes", len(out)),
		slog.Duration("duration", time.Since(start)),
	)
	return out, nil
}

// ShowVolume returns the output of "volume show <name>".
func (c *Client) ShowVolume(ctx context.Context, name string) (string, error) {
	return c.Run(ctx, "volume show "+name)
}

// VolumeExists reports whether qmgmt knows the volume. The volume is assumed to
// exist unless a line of the output reads exactly "No such volume: <name>".
func (c *Client) VolumeExists(ctx context.Context, name string) (bool, error) {
	out, err := c.ShowVolume(ctx, name)
	missing := noSuchVolume(name)
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == missing {
			return false, nil
		}
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteVolume force-deletes a volume.
func (c *Client) DeleteVolume(ctx context.Context, name string) (string, error) {
	return c.Run(ctx, fmt.Sprintf("volume delete -f %s", name))
}

// CreateVolume creates a volume owned by root:root with mode 0777 using the
// named volume configuration.
func (c *Client) CreateVolume(ctx context.Context, name, config string) (string, error) {
	return c.Run(ctx, fmt.Sprintf("volume create %s root root %s 0777", name, config))
}

// ListDevices returns the raw "device list" table.
func (c *Client) ListDevices(ctx context.Context) (string, error) {
	return c.Run(ctx, "device list")
}

// AddDeviceTag attaches tag to a device. Tags accumulate; adding the same tag
// twice is not rejected.
func (c *Client) AddDeviceTag(ctx context.Context, device, tag string) error {
	_, err := c.Run(ctx, fmt.Sprintf("device update add-tags %s %s", device, tag))
	return err
}

// combine appends stderr to stdout, starting it on its own line.
func combine(stdout, stderr string) string {
	if stdout != "" && stderr != "" && !strings.HasSuffix(stdout, "\n") {
		return stdout + "\n" + stderr
	}
	return stdout + stderr
}

func noSuchVolume(name string) string {
	return "No such volume: " + name
}
