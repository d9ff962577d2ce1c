package serializer

import (
	"path/filepath"
	"strings"
)

// Format is an output format for reports.
type Format string

const (
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"

	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"

	// FormatTable renders aligned text columns.
	FormatTable Format = "table"
)

// StdoutURI is the special output path meaning stdout.
const StdoutURI = "-"

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return string(f)
}

// SupportedFormats returns the names of all supported formats.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".txt", ".table":
		return FormatTable
	default:
		return FormatJSON
	}
}
