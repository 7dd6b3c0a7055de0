package config

import (
	"os"
	"path/filepath"
	"time"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// SQLite drivers.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverCgo     = "sqlite3" // github.com/mattn/go-sqlite3
)

// Config is the root configuration structure.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Editor  EditorConfig  `json:"editor"`
	UI      UIConfig      `json:"ui"`
	Export  ExportConfig  `json:"export"`
}

// StorageConfig selects where the note collection is persisted.
type StorageConfig struct {
	Backend string `json:"backend"` // file, sqlite, badger or memory
	Path    string `json:"path"`    // empty = default under the data dir
	Key     string `json:"key"`     // slot key for keyed backends
	Driver  string `json:"driver"`  // sqlite driver name
	Watch   bool   `json:"watch"`   // reload when the file backend changes on disk
}

// EditorConfig configures the highlighted editor.
type EditorConfig struct {
	TabWidth    int    `json:"tabWidth"`
	LineNumbers bool   `json:"lineNumbers"`
	Placeholder string `json:"placeholder,omitempty"` // empty = per-language default
}

// UIConfig configures UI appearance.
type UIConfig struct {
	Theme         string        `json:"theme"`
	SyntaxStyle   string        `json:"syntaxStyle,omitempty"` // chroma style; empty = theme default
	ShowFooter    bool          `json:"showFooter"`
	ToastDuration time.Duration `json:"toastDuration"`
}

// ExportConfig configures exports.
type ExportConfig struct {
	Dir    string `json:"dir"`
	Format string `json:"format"` // json or md
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     "notes-app-data",
			Driver:  DriverModernc,
			Watch:   true,
		},
		Editor: EditorConfig{
			TabWidth:    2,
			LineNumbers: true,
		},
		UI: UIConfig{
			Theme:         "default",
			ShowFooter:    true,
			ToastDuration: 2 * time.Second,
		},
		Export: ExportConfig{
			Dir:    ".",
			Format: "json",
		},
	}
}

// Validate checks the configuration for errors, replacing bad values with defaults.
func (c *Config) Validate() error {
	d := Default()
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendBadger, BackendMemory:
	default:
		c.Storage.Backend = d.Storage.Backend
	}
	switch c.Storage.Driver {
	case DriverModernc, DriverCgo:
	default:
		c.Storage.Driver = d.Storage.Driver
	}
	if c.Storage.Key == "" {
		c.Storage.Key = d.Storage.Key
	}
	if c.Editor.TabWidth <= 0 || c.Editor.TabWidth > 16 {
		c.Editor.TabWidth = d.Editor.TabWidth
	}
	if c.UI.ToastDuration <= 0 {
		c.UI.ToastDuration = d.UI.ToastDuration
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.Export.Format != "json" && c.Export.Format != "md" {
		c.Export.Format = d.Export.Format
	}
	if c.Export.Dir == "" {
		c.Export.Dir = d.Export.Dir
	}
	return nil
}

// StoragePath returns the configured storage path, or the backend's default
// location under the data dir.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return ExpandPath(c.Storage.Path)
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		return filepath.Join(DataDir(), "notes.db")
	case BackendBadger:
		return filepath.Join(DataDir(), "notes.badger")
	default:
		return filepath.Join(DataDir(), "notes.json")
	}
}

// DataDir returns $XDG_DATA_HOME/codenotes, falling back to ~/.local/share/codenotes.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "codenotes")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "codenotes")
	}
	return filepath.Join(home, ".local", "share", "codenotes")
}
