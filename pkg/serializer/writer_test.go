package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type volumeRow struct {
	Name   string `json:"name" yaml:"name"`
	Config string `json:"config" yaml:"config"`
}

type tagTable struct {
	rows [][]string
}

func (t tagTable) TableHeader() []string { return []string{"host", "tag", "devices"} }
func (t tagTable) TableRows() [][]string { return t.rows }

func TestWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)

	in := []volumeRow{{Name: "bench-1", Config: "BASE"}, {Name: "bench-2", Config: "EC"}}
	require.NoError(t, w.Serialize(context.Background(), in))

	var out []volumeRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, in, out)
}

func TestWriterYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)

	in := volumeRow{Name: "bench-1", Config: "BASE"}
	require.NoError(t, w.Serialize(context.Background(), in))
	assert.Contains(t, buf.String(), "name: bench-1")

	var out volumeRow
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, in, out)
}

func TestWriterUnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter("xml", &buf)

	require.NoError(t, w.Serialize(context.Background(), volumeRow{Name: "v"}))

	var out volumeRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "v", out.Name)
}

func TestWriterCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := NewWriter(FormatJSON, &buf).Serialize(ctx, volumeRow{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestWriterTableFlattened(t *testing.T) {
	type inner struct {
		Devices []string
		Count   *int
	}
	type outer struct {
		Host   string
		Inner  inner
		Labels map[string]string
	}

	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)
	in := outer{
		Host:   "node-a",
		Inner:  inner{Devices: []string{"1", "2"}},
		Labels: map[string]string{"role": "data"},
	}
	require.NoError(t, w.Serialize(context.Background(), in))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "Inner.Devices[1]")
	assert.Contains(t, out, "Inner.Count")
	assert.Contains(t, out, "<nil>")
	assert.Contains(t, out, "Labels.role")
	assert.Contains(t, out, "node-a")
}

func TestWriterTableSliceKeys(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(context.Background(), []volumeRow{{Name: "a"}, {Name: "b"}}))
	assert.Contains(t, buf.String(), "[0].Name")
	assert.Contains(t, buf.String(), "[1].Config")
}

func TestWriterTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(context.Background(), []volumeRow{}))
	assert.Contains(t, buf.String(), "<empty>")
}

func TestWriterTableTabular(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	in := tagTable{rows: [][]string{
		{"node-a", "host1", "1,2"},
		{"node-b", "host2", "3"},
	}}
	require.NoError(t, w.Serialize(context.Background(), in))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"HOST", "TAG", "DEVICES"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"node-b", "host2", "3"}, strings.Fields(lines[2]))
}

func TestWriterCloseIdempotent(t *testing.T) {
	w := NewStdoutWriter(FormatJSON)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestNewFileWriterOrStdout(t *testing.T) {
	for _, path := range []string{"", "  ", StdoutURI} {
		s, err := NewFileWriterOrStdout(FormatJSON, path)
		require.NoError(t, err, "path %q", path)
		w, ok := s.(*Writer)
		require.True(t, ok)
		assert.Nil(t, w.closer, "path %q should write to stdout", path)
	}
}

func TestNewFileWriterOrStdoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")

	s, err := NewFileWriterOrStdout(FormatYAML, path)
	require.NoError(t, err)
	require.NoError(t, s.Serialize(context.Background(), volumeRow{Name: "bench-1", Config: "BASE"}))

	c, ok := s.(Closer)
	require.True(t, ok)
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out volumeRow
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, "bench-1", out.Name)
}

func TestNewFileWriterOrStdoutInvalidPath(t *testing.T) {
	_, err := NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestFormat(t *testing.T) {
	for _, f := range SupportedFormats() {
		assert.False(t, Format(f).IsUnknown(), f)
	}
	assert.True(t, Format("xml").IsUnknown())
	assert.True(t, Format("").IsUnknown())

	assert.Equal(t, FormatYAML, FormatFromPath("out.YML"))
	assert.Equal(t, FormatTable, FormatFromPath("out.txt"))
	assert.Equal(t, FormatJSON, FormatFromPath("out"))
}
