package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTracesConfig_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	// Fresh state: empty registry, no error.
	cfg, err := loadTracesConfig()
	if err != nil {
		t.Fatalf("loadTracesConfig() error: %v", err)
	}
	if len(cfg.Traces) != 0 || cfg.Active != "" {
		t.Fatalf("fresh config = %+v, want empty", cfg)
	}

	cfg.Traces["run1"] = Trace{Path: "/traces/run1.sqlite", Label: "baseline"}
	cfg.Traces["run2"] = Trace{Path: "/traces/run2.sqlite"}
	cfg.Active = "run1"
	if err := saveTracesConfig(cfg); err != nil {
		t.Fatalf("saveTracesConfig() error: %v", err)
	}

	got, err := loadTracesConfig()
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if got.Active != "run1" {
		t.Errorf("active = %q, want %q", got.Active, "run1")
	}
	if got.Traces["run1"].Path != "/traces/run1.sqlite" || got.Traces["run1"].Label != "baseline" {
		t.Errorf("run1 = %+v", got.Traces["run1"])
	}
	if got.Traces["run2"].Path != "/traces/run2.sqlite" {
		t.Errorf("run2 = %+v", got.Traces["run2"])
	}

	if p := activeTracePath(); p != "/traces/run1.sqlite" {
		t.Errorf("activeTracePath() = %q", p)
	}
}

func TestTracesConfigPath_CreatesStateDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := tracesConfigPath()
	if err != nil {
		t.Fatalf("tracesConfigPath() error: %v", err)
	}
	wantDir := filepath.Join(home, ".local", "state", "ktrace")
	if filepath.Dir(path) != wantDir {
		t.Errorf("config dir = %q, want %q", filepath.Dir(path), wantDir)
	}
	if _, err := os.Stat(wantDir); err != nil {
		t.Errorf("state dir not created: %v", err)
	}
}

func TestActiveTracePath_Unset(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if p := activeTracePath(); p != "" {
		t.Errorf("activeTracePath() = %q, want empty with no registry", p)
	}
}
