package config

// Config provides read-only access to application configuration.
// This interface abstracts the configuration source (JSON, ENV,
// defaults) and keeps the app layer free of infrastructure details.
type Config interface {
	// Paths
	Home() string        // Base directory for Emberfall (EMBERFALL_HOME)
	SavesDir() string    // Save artifact directory (EMBERFALL_SAVES_DIR)
	StatePath() string   // Exported manager state (EMBERFALL_STATE_PATH)
	RulesPath() string   // Optional validation rule overlay (EMBERFALL_RULES_PATH)
	JournalPath() string // Snapshot journal (EMBERFALL_JOURNAL_PATH)

	// Limits
	MaxHistory() int // Snapshot history capacity (EMBERFALL_MAX_HISTORY)
	MaxSaves() int   // Save catalog retention bound (EMBERFALL_MAX_SAVES)

	// Versioning and logging
	SaveVersion() string // Semantic version stamped into saves (EMBERFALL_SAVE_VERSION)
	StderrLevel() string // Stderr log level (EMBERFALL_STDERR_LEVEL)

	// Metadata
	ConfigSource() string // Source of configuration: "json", "env", or "default"
	SettingPath() string  // Path to setting.json if loaded from file
}

// AppConfig is the concrete implementation of Config.
type AppConfig struct {
	home        string
	savesDir    string
	statePath   string
	rulesPath   string
	journalPath string

	maxHistory int
	maxSaves   int

	saveVersion string
	stderrLevel string

	configSource string
	settingPath  string
}

// Home returns the base directory for Emberfall
func (c *AppConfig) Home() string {
	return c.home
}

// SavesDir returns the save artifact directory
func (c *AppConfig) SavesDir() string {
	return c.savesDir
}

// StatePath returns the exported manager state path
func (c *AppConfig) StatePath() string {
	return c.statePath
}

// RulesPath returns the validation rule overlay path
func (c *AppConfig) RulesPath() string {
	return c.rulesPath
}

// JournalPath returns the snapshot journal path
func (c *AppConfig) JournalPath() string {
	return c.journalPath
}

// MaxHistory returns the snapshot history capacity
func (c *AppConfig) MaxHistory() int {
	return c.maxHistory
}

// MaxSaves returns the save catalog retention bound
func (c *AppConfig) MaxSaves() int {
	return c.maxSaves
}

// SaveVersion returns the semantic version stamped into saves
func (c *AppConfig) SaveVersion() string {
	return c.saveVersion
}

// StderrLevel returns the stderr log level
func (c *AppConfig) StderrLevel() string {
	return c.stderrLevel
}

// ConfigSource returns the source of configuration
func (c *AppConfig) ConfigSource() string {
	return c.configSource
}

// SettingPath returns the path to setting.json if loaded from file
func (c *AppConfig) SettingPath() string {
	return c.settingPath
}

// NewAppConfig creates a new AppConfig with the given values.
// Typically called by the infrastructure layer after loading and
// merging configuration sources.
func NewAppConfig(
	home, savesDir, statePath, rulesPath, journalPath string,
	maxHistory, maxSaves int,
	saveVersion, stderrLevel string,
	configSource, settingPath string,
) *AppConfig {
	return &AppConfig{
		home:         home,
		savesDir:     savesDir,
		statePath:    statePath,
		rulesPath:    rulesPath,
		journalPath:  journalPath,
		maxHistory:   maxHistory,
		maxSaves:     maxSaves,
		saveVersion:  saveVersion,
		stderrLevel:  stderrLevel,
		configSource: configSource,
		settingPath:  settingPath,
	}
}
