package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configDir  = ".config/codenotes"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary.
type rawConfig struct {
	Storage rawStorageConfig `json:"storage"`
	Editor  rawEditorConfig  `json:"editor"`
	UI      rawUIConfig      `json:"ui"`
	Export  rawExportConfig  `json:"export"`
}

type rawStorageConfig struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
	Key     string `json:"key"`
	Driver  string `json:"driver"`
	Watch   *bool  `json:"watch"`
}

type rawEditorConfig struct {
	TabWidth    *int   `json:"tabWidth"`
	LineNumbers *bool  `json:"lineNumbers"`
	Placeholder string `json:"placeholder"`
}

type rawUIConfig struct {
	Theme         string `json:"theme"`
	SyntaxStyle   string `json:"syntaxStyle"`
	ShowFooter    *bool  `json:"showFooter"`
	ToastDuration string `json:"toastDuration"`
}

type rawExportConfig struct {
	Dir    string `json:"dir"`
	Format string `json:"format"`
}

// testConfigPath overrides ConfigPath in tests.
var testConfigPath string

// SetTestConfigPath points Load and Save at path.
func SetTestConfigPath(path string) { testConfigPath = path }

// ResetTestConfigPath restores the default config location.
func ResetTestConfigPath() { testConfigPath = "" }

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/codenotes/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if path == "" {
			return cfg, nil // Return defaults when home is unknown
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &raw)

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Export.Dir = ExpandPath(cfg.Export.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Storage
	if raw.Storage.Backend != "" {
		cfg.Storage.Backend = strings.ToLower(raw.Storage.Backend)
	}
	if raw.Storage.Path != "" {
		cfg.Storage.Path = raw.Storage.Path
	}
	if raw.Storage.Key != "" {
		cfg.Storage.Key = raw.Storage.Key
	}
	if raw.Storage.Driver != "" {
		cfg.Storage.Driver = raw.Storage.Driver
	}
	if raw.Storage.Watch != nil {
		cfg.Storage.Watch = *raw.Storage.Watch
	}

	// Editor
	if raw.Editor.TabWidth != nil {
		cfg.Editor.TabWidth = *raw.Editor.TabWidth
	}
	if raw.Editor.LineNumbers != nil {
		cfg.Editor.LineNumbers = *raw.Editor.LineNumbers
	}
	if raw.Editor.Placeholder != "" {
		cfg.Editor.Placeholder = raw.Editor.Placeholder
	}

	// UI
	if raw.UI.Theme != "" {
		cfg.UI.Theme = raw.UI.Theme
	}
	if raw.UI.SyntaxStyle != "" {
		cfg.UI.SyntaxStyle = raw.UI.SyntaxStyle
	}
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.ToastDuration != "" {
		if d, err := time.ParseDuration(raw.UI.ToastDuration); err == nil {
			cfg.UI.ToastDuration = d
		} else {
			slog.Warn("invalid toastDuration", "value", raw.UI.ToastDuration)
		}
	}

	// Export
	if raw.Export.Dir != "" {
		cfg.Export.Dir = raw.Export.Dir
	}
	if raw.Export.Format != "" {
		cfg.Export.Format = strings.ToLower(raw.Export.Format)
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
