package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
max_call_depth: 200
trace: true
history_file: /tmp/carp_history
prompt: ">> "
color: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxCallDepth != 200 || !cfg.Trace || cfg.Color {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Prompt != ">> " {
		t.Errorf("expected prompt '>> ', got %q", cfg.Prompt)
	}
	if cfg.HistoryFile != "/tmp/carp_history" {
		t.Errorf("unexpected history file %q", cfg.HistoryFile)
	}
	if cfg.Path != path {
		t.Errorf("expected path %s, got %s", path, cfg.Path)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "trace: true\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.MaxCallDepth != def.MaxCallDepth || cfg.Prompt != def.Prompt || cfg.Color != def.Color {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestEmptyConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxCallDepth != 1024 {
		t.Errorf("expected default depth, got %d", cfg.MaxCallDepth)
	}
}

func TestUnknownKeyRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "max_depth: 3\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "max_depth") {
		t.Errorf("expected key name in error, got %v", err)
	}
}

func TestValidation(t *testing.T) {
	_, err := Load(writeConfig(t, "max_call_depth: -1\nprompt: \"\"\n"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Errorf("expected 2 issues, got %v", verr.Issues)
	}
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestMissingDefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("expected defaults without a path, got %q", cfg.Path)
	}
}

func TestCallDepthLimit(t *testing.T) {
	cfg := Default()
	if cfg.CallDepthLimit() != 1024 {
		t.Errorf("expected 1024, got %d", cfg.CallDepthLimit())
	}
	cfg.MaxCallDepth = 0
	if cfg.CallDepthLimit() >= 0 {
		t.Errorf("expected unlimited, got %d", cfg.CallDepthLimit())
	}
}
