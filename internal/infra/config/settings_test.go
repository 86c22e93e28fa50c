package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettings_Defaults(t *testing.T) {
	cfg, err := LoadSettings(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if cfg.MaxHistory() != 50 {
		t.Errorf("MaxHistory = %d, want 50", cfg.MaxHistory())
	}
	if cfg.MaxSaves() != 10 {
		t.Errorf("MaxSaves = %d, want 10", cfg.MaxSaves())
	}
	if cfg.SaveVersion() != "1.0.0" {
		t.Errorf("SaveVersion = %s", cfg.SaveVersion())
	}
	if cfg.StderrLevel() != "warn" {
		t.Errorf("StderrLevel = %s", cfg.StderrLevel())
	}
	if cfg.ConfigSource() != "default" {
		t.Errorf("ConfigSource = %s", cfg.ConfigSource())
	}
}

func TestLoadSettings_FromJSON(t *testing.T) {
	dir := t.TempDir()
	content := `{"max_history": 20, "max_saves": 3, "save_version": "2.1.0"}`
	if err := os.WriteFile(filepath.Join(dir, "setting.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if cfg.MaxHistory() != 20 || cfg.MaxSaves() != 3 {
		t.Errorf("limits = %d/%d, want 20/3", cfg.MaxHistory(), cfg.MaxSaves())
	}
	if cfg.SaveVersion() != "2.1.0" {
		t.Errorf("SaveVersion = %s", cfg.SaveVersion())
	}
	// Unset keys fall back to defaults rooted at the base dir
	if cfg.SavesDir() != filepath.Join(dir, "saves") {
		t.Errorf("SavesDir = %s", cfg.SavesDir())
	}
	if cfg.ConfigSource() != "json" {
		t.Errorf("ConfigSource = %s", cfg.ConfigSource())
	}
	if cfg.SettingPath() == "" {
		t.Error("SettingPath should point at the loaded file")
	}
}

func TestLoadSettings_EnvOverridesJSON(t *testing.T) {
	dir := t.TempDir()
	content := `{"max_saves": 3, "stderr_level": "info"}`
	if err := os.WriteFile(filepath.Join(dir, "setting.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("EMBERFALL_MAX_SAVES", "7")
	t.Setenv("EMBERFALL_SAVE_VERSION", "3.0.0")

	cfg, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if cfg.MaxSaves() != 7 {
		t.Errorf("MaxSaves = %d, want env override 7", cfg.MaxSaves())
	}
	if cfg.SaveVersion() != "3.0.0" {
		t.Errorf("SaveVersion = %s, want env override 3.0.0", cfg.SaveVersion())
	}
	// JSON keys without env overrides survive
	if cfg.StderrLevel() != "info" {
		t.Errorf("StderrLevel = %s, want info", cfg.StderrLevel())
	}
}

func TestLoadSettings_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "setting.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(dir); err == nil {
		t.Error("expected error for malformed setting.json")
	}
}

func TestLoadSettings_EmptyBaseDir(t *testing.T) {
	cfg, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if cfg.Home() != DefaultHome {
		t.Errorf("Home = %s, want %s", cfg.Home(), DefaultHome)
	}
}
