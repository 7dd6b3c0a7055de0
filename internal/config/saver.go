package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Storage StorageConfig `json:"storage"`
	Editor  EditorConfig  `json:"editor"`
	UI      saveUIConfig  `json:"ui"`
	Export  ExportConfig  `json:"export"`
}

type saveUIConfig struct {
	Theme         string `json:"theme"`
	SyntaxStyle   string `json:"syntaxStyle,omitempty"`
	ShowFooter    bool   `json:"showFooter"`
	ToastDuration string `json:"toastDuration"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Storage: cfg.Storage,
		Editor:  cfg.Editor,
		UI: saveUIConfig{
			Theme:         cfg.UI.Theme,
			SyntaxStyle:   cfg.UI.SyntaxStyle,
			ShowFooter:    cfg.UI.ShowFooter,
			ToastDuration: cfg.UI.ToastDuration.String(),
		},
		Export: cfg.Export,
	}
}

// Save writes the config to ~/.config/codenotes/config.json.
// Top-level keys it does not manage are preserved.
func Save(cfg *Config) error {
	path := ConfigPath()
	if path == "" {
		return errors.New("config path unknown")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	merged := make(map[string]json.RawMessage)
	if existing, err := os.ReadFile(path); err == nil {
		// A corrupt file is overwritten rather than blocking the save.
		_ = json.Unmarshal(existing, &merged)
	}

	managed, err := json.Marshal(toSaveConfig(cfg))
	if err != nil {
		return err
	}
	var managedKeys map[string]json.RawMessage
	if err := json.Unmarshal(managed, &managedKeys); err != nil {
		return err
	}
	for k, v := range managedKeys {
		merged[k] = v
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SaveTheme updates only the theme name in config and saves.
func SaveTheme(themeName string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.UI.Theme = themeName
	return Save(cfg)
}
