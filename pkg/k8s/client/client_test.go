package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveKubeconfig_ExplicitWins(t *testing.T) {
	t.Setenv("KUBECONFIG", "/from/env")

	if got := ResolveKubeconfig("/explicit"); got != "/explicit" {
		t.Errorf("expected explicit path, got %q", got)
	}
}

func TestResolveKubeconfig_Env(t *testing.T) {
	t.Setenv("KUBECONFIG", "/from/env")

	if got := ResolveKubeconfig(""); got != "/from/env" {
		t.Errorf("expected env path, got %q", got)
	}
}

func TestResolveKubeconfig_HomeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("KUBECONFIG", "")
	t.Setenv("HOME", home)

	if got := ResolveKubeconfig(""); got != "" {
		t.Errorf("expected in-cluster (empty) without ~/.kube/config, got %q", got)
	}

	path := filepath.Join(home, ".kube", "config")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("apiVersion: v1\nkind: Config\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := ResolveKubeconfig(""); got != path {
		t.Errorf("expected %q, got %q", path, got)
	}
}

func TestBuildKubeClient_InvalidPath(t *testing.T) {
	if _, _, err := BuildKubeClient(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing kubeconfig")
	}
}
