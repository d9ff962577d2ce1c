// Package volume resets Quobyte volumes used as benchmark fixtures.
package volume

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Manager is the subset of the qmgmt client needed to reset a volume.
type Manager interface {
	VolumeExists(ctx context.Context, name string) (bool, error)
	DeleteVolume(ctx context.Context, name string) (string, error)
	CreateVolume(ctx context.Context, name, config string) (string, error)
}

// Spec names a volume and the volume configuration it is created with.
type Spec struct {
	Name   string `json:"name" yaml:"name"`
	Config string `json:"config" yaml:"config"`
}

// Validate checks that both fields are set and contain no whitespace, since
// they are spliced into a shell command line.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("volume name is required")
	}
	if s.Config == "" {
		return fmt.Errorf("volume %q: configuration is required", s.Name)
	}
	if hasSpace(s.Name) || hasSpace(s.Config) {
		return fmt.Errorf("volume %q: name and configuration must not contain whitespace", s.Name)
	}
	return nil
}

// Result describes what Reset did.
type Result struct {
	Name    string `json:"name" yaml:"name"`
	Config  string `json:"config" yaml:"config"`
	Deleted bool   `json:"deleted" yaml:"deleted"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty"`
}

// Reset brings a volume into a fresh state: an existing volume is
// force-deleted, then the volume is created from its configuration.
// Output holds what qmgmt printed for the create call.
func Reset(ctx context.Context, m Manager, spec Spec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	slog.Info("resetting volume", slog.String("volume", spec.Name), slog.String("config", spec.Config))
	res := &Result{Name: spec.Name, Config: spec.Config}

	exists, err := m.VolumeExists(ctx, spec.Name)
	if err != nil {
		volumeResetTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to look up volume %q: %w", spec.Name, err)
	}

	if exists {
		if _, err := m.DeleteVolume(ctx, spec.Name); err != nil {
			volumeResetTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("failed to delete volume %q: %w", spec.Name, err)
		}
		res.Deleted = true
		slog.Debug("deleted existing volume", slog.String("volume", spec.Name))
	}

	out, err := m.CreateVolume(ctx, spec.Name, spec.Config)
	res.Output = out
	if err != nil {
		volumeResetTotal.WithLabelValues("error").Inc()
		return res, fmt.Errorf("failed to create volume %q: %w", spec.Name, err)
	}

	if res.Deleted {
		volumeResetTotal.WithLabelValues("recreated").Inc()
	} else {
		volumeResetTotal.WithLabelValues("created").Inc()
	}
	return res, nil
}

func hasSpace(s string) bool {
	return strings.ContainsAny(s, " \t\r\n")
}
