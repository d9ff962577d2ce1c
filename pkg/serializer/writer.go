// Package serializer writes qbench reports as JSON, YAML or text tables.
package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Serializer writes a value to its destination.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is implemented by serializers that own their destination.
type Closer interface {
	Close() error
}

// Writer serializes values into an io.Writer in a fixed format.
type Writer struct {
	format Format
	out    io.Writer

	closeOnce sync.Once
	closer    io.Closer
	closeErr  error
}

// NewWriter creates a Writer for out. Unknown formats fall back to JSON.
func NewWriter(format Format, out io.Writer) *Writer {
	if format.IsUnknown() {
		slog.Debug("unknown output format, using json", slog.String("format", string(format)))
		format = FormatJSON
	}
	if out == nil {
		out = os.Stdout
	}
	return &Writer{format: format, out: out}
}

// NewStdoutWriter creates a Writer for stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout creates a Writer for path, or for stdout when path is
// empty or "-". The file is truncated.
func NewFileWriterOrStdout(format Format, path string) (Serializer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}

	w := NewWriter(format, f)
	w.closer = f
	return w, nil
}

// Serialize writes v in the writer's format.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return writeTable(w.out, v)
	default:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		return nil
	}
}

// Close releases the underlying file, if any. It is safe to call repeatedly.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		if w.closer != nil {
			w.closeErr = w.closer.Close()
		}
	})
	return w.closeErr
}
