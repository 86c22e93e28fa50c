package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/hollowmere/emberfall/internal/app/config"
)

// DefaultHome is the base directory when nothing else is configured
const DefaultHome = ".emberfall"

// RawSettings represents the structure of setting.json. Pointer
// fields distinguish "absent" from zero values so later sources only
// override what they actually set.
type RawSettings struct {
	Home        *string `json:"home"`
	SavesDir    *string `json:"saves_dir"`
	StatePath   *string `json:"state_path"`
	RulesPath   *string `json:"rules_path"`
	JournalPath *string `json:"journal_path"`

	MaxHistory *int `json:"max_history"`
	MaxSaves   *int `json:"max_saves"`

	SaveVersion *string `json:"save_version"`
	StderrLevel *string `json:"stderr_level"`
}

// envSettings holds the environment variable overrides
type envSettings struct {
	Home        *string `env:"EMBERFALL_HOME"`
	SavesDir    *string `env:"EMBERFALL_SAVES_DIR"`
	StatePath   *string `env:"EMBERFALL_STATE_PATH"`
	RulesPath   *string `env:"EMBERFALL_RULES_PATH"`
	JournalPath *string `env:"EMBERFALL_JOURNAL_PATH"`
	MaxHistory  *int    `env:"EMBERFALL_MAX_HISTORY"`
	MaxSaves    *int    `env:"EMBERFALL_MAX_SAVES"`
	SaveVersion *string `env:"EMBERFALL_SAVE_VERSION"`
	StderrLevel *string `env:"EMBERFALL_STDERR_LEVEL"`
}

// LoadSettings loads configuration for the given base directory.
// Priority: environment > setting.json > defaults.
func LoadSettings(baseDir string) (*config.AppConfig, error) {
	if baseDir == "" {
		baseDir = DefaultHome
	}

	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	jsonPath := filepath.Join(baseDir, "setting.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
		configSource = "json"
		settingPath = jsonPath
	}

	var overrides envSettings
	if err := env.Parse(&overrides); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if applyEnv(settings, overrides) && configSource == "default" {
		configSource = "env"
	}

	applyDefaults(settings, baseDir)

	return buildAppConfig(settings, configSource, settingPath), nil
}

// applyEnv copies set environment values over the file settings and
// reports whether any override was applied
func applyEnv(settings *RawSettings, overrides envSettings) bool {
	applied := false
	if overrides.Home != nil {
		settings.Home = overrides.Home
		applied = true
	}
	if overrides.SavesDir != nil {
		settings.SavesDir = overrides.SavesDir
		applied = true
	}
	if overrides.StatePath != nil {
		settings.StatePath = overrides.StatePath
		applied = true
	}
	if overrides.RulesPath != nil {
		settings.RulesPath = overrides.RulesPath
		applied = true
	}
	if overrides.JournalPath != nil {
		settings.JournalPath = overrides.JournalPath
		applied = true
	}
	if overrides.MaxHistory != nil {
		settings.MaxHistory = overrides.MaxHistory
		applied = true
	}
	if overrides.MaxSaves != nil {
		settings.MaxSaves = overrides.MaxSaves
		applied = true
	}
	if overrides.SaveVersion != nil {
		settings.SaveVersion = overrides.SaveVersion
		applied = true
	}
	if overrides.StderrLevel != nil {
		settings.StderrLevel = overrides.StderrLevel
		applied = true
	}
	return applied
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings, baseDir string) {
	if settings.Home == nil {
		v := baseDir
		settings.Home = &v
	}
	if settings.SavesDir == nil {
		v := filepath.Join(*settings.Home, "saves")
		settings.SavesDir = &v
	}
	if settings.StatePath == nil {
		v := filepath.Join(*settings.Home, "state.json")
		settings.StatePath = &v
	}
	if settings.RulesPath == nil {
		v := filepath.Join(*settings.Home, "rules.yml")
		settings.RulesPath = &v
	}
	if settings.JournalPath == nil {
		v := filepath.Join(*settings.Home, "history.ndjson")
		settings.JournalPath = &v
	}
	if settings.MaxHistory == nil {
		v := 50
		settings.MaxHistory = &v
	}
	if settings.MaxSaves == nil {
		v := 10
		settings.MaxSaves = &v
	}
	if settings.SaveVersion == nil {
		v := "1.0.0"
		settings.SaveVersion = &v
	}
	if settings.StderrLevel == nil {
		v := "warn"
		settings.StderrLevel = &v
	}
}

// buildAppConfig converts resolved settings into the app-layer config
func buildAppConfig(settings *RawSettings, configSource, settingPath string) *config.AppConfig {
	return config.NewAppConfig(
		*settings.Home,
		*settings.SavesDir,
		*settings.StatePath,
		*settings.RulesPath,
		*settings.JournalPath,
		*settings.MaxHistory,
		*settings.MaxSaves,
		*settings.SaveVersion,
		*settings.StderrLevel,
		configSource,
		settingPath,
	)
}
