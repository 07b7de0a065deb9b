package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// TracesConfig holds all named traces and tracks which one is active.
type TracesConfig struct {
	Active string           `toml:"active"`
	Traces map[string]Trace `toml:"traces"`
}

// Trace is a named profiler export.
type Trace struct {
	Path  string `toml:"path"`
	Label string `toml:"label,omitempty"`
}

func tracesConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "state", "ktrace")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "traces.toml"), nil
}

func loadTracesConfig() (TracesConfig, error) {
	path, err := tracesConfigPath()
	if err != nil {
		return TracesConfig{}, err
	}
	var cfg TracesConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return TracesConfig{Traces: map[string]Trace{}}, nil
		}
		return TracesConfig{}, err
	}
	if cfg.Traces == nil {
		cfg.Traces = map[string]Trace{}
	}
	return cfg, nil
}

func saveTracesConfig(cfg TracesConfig) error {
	path, err := tracesConfigPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// activeTracePath returns the path of the active registry entry, or "".
func activeTracePath() string {
	cfg, err := loadTracesConfig()
	if err != nil || cfg.Active == "" {
		return ""
	}
	return cfg.Traces[cfg.Active].Path
}
