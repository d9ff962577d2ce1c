// Package header provides the Kubernetes-style envelope shared by qbench reports.
package header

import (
	"fmt"
	"time"
)

var (
	APIVersionDomain = "qbench.io"
	APIVersionV1     = "v1alpha1"
)

const (
	// TimestampKey is the metadata key holding the report creation time.
	TimestampKey = "timestamp"

	// RunIDKey is the metadata key holding the benchmark run identifier.
	RunIDKey = "run-id"
)

// Option configures a Header.
type Option func(*Header)

// WithMetadata adds a metadata key-value pair.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind sets the Kind.
func WithKind(kind string) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// New creates a Header with the given options applied.
func New(opts ...Option) *Header {
	h := &Header{
		Metadata: make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header carries kind, version and metadata for a report.
type Header struct {
	Kind       string            `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Set stamps the header with kind, the current API version and a UTC
// timestamp. Existing metadata other than the timestamp is preserved.
func (h *Header) Set(kind string) {
	h.Kind = kind
	h.APIVersion = fmt.Sprintf("%s/%s", APIVersionDomain, APIVersionV1)
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata[TimestampKey] = time.Now().UTC().Format(time.RFC3339)
}
