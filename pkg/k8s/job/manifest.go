package job

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/distribution/reference"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"
)

// DefaultNamespace is used for manifests that do not set a namespace.
const DefaultNamespace = "default"

// LoadManifest reads a Job manifest in YAML or JSON form.
func LoadManifest(path string) (*batchv1.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job manifest %q: %w", path, err)
	}

	j, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("job manifest %q: %w", path, err)
	}

	slog.Debug("loaded job manifest",
		slog.String("path", path),
		slog.String("namespace", j.Namespace),
		slog.String("name", j.Name),
	)
	return j, nil
}

// ParseManifest decodes a Job manifest. Name is required; Kind and
// APIVersion, when present, must be Job and batch/v1.
func ParseManifest(data []byte) (*batchv1.Job, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("manifest body is empty")
	}

	var j batchv1.Job
	if err := yaml.UnmarshalStrict(data, &j); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}

	if j.Kind != "" && j.Kind != "Job" {
		return nil, fmt.Errorf("unexpected kind %q, expected Job", j.Kind)
	}
	if j.APIVersion != "" && j.APIVersion != batchv1.SchemeGroupVersion.String() {
		return nil, fmt.Errorf("unexpected apiVersion %q, expected %s", j.APIVersion, batchv1.SchemeGroupVersion)
	}
	if j.Name == "" {
		return nil, fmt.Errorf("metadata.name is required")
	}
	if j.Namespace == "" {
		j.Namespace = DefaultNamespace
	}

	return &j, nil
}

// ValidateImages checks that every container image of the Job is a valid
// image reference.
func ValidateImages(j *batchv1.Job) error {
	spec := j.Spec.Template.Spec
	containers := make([]corev1.Container, 0, len(spec.InitContainers)+len(spec.Containers))
	containers = append(containers, spec.InitContainers...)
	containers = append(containers, spec.Containers...)

	if len(spec.Containers) == 0 {
		return fmt.Errorf("job %s has no containers", j.Name)
	}

	for _, c := range containers {
		if _, err := reference.ParseNormalizedNamed(c.Image); err != nil {
			return fmt.Errorf("container %q: invalid image %q: %w", c.Name, c.Image, err)
		}
	}
	return nil
}

// ParseNodeSelectors parses key=value pairs into a node selector map.
func ParseNodeSelectors(selectors []string) (map[string]string, error) {
	out := make(map[string]string, len(selectors))
	for _, s := range selectors {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid node selector %q, expected key=value", s)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
