package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Storage.Backend != BackendFile {
		t.Errorf("got backend %q, want 'file'", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != "notes-app-data" {
		t.Errorf("got key %q, want 'notes-app-data'", cfg.Storage.Key)
	}
	if cfg.Editor.TabWidth != 2 {
		t.Errorf("got tab width %d, want 2", cfg.Editor.TabWidth)
	}
	if !cfg.Editor.LineNumbers {
		t.Error("line numbers should be enabled by default")
	}
	if cfg.UI.ToastDuration != 2*time.Second {
		t.Errorf("got toast duration %v, want 2s", cfg.UI.ToastDuration)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.json")
	if err != nil {
		t.Errorf("should not error on missing file: %v", err)
	}
	if cfg == nil {
		t.Error("should return default config")
	}
}

func TestLoadFrom_ValidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := []byte(`{
		"storage": {
			"backend": "SQLite",
			"driver": "sqlite3",
			"watch": false
		},
		"editor": {
			"tabWidth": 4
		},
		"ui": {
			"showFooter": false,
			"toastDuration": "5s"
		}
	}`)

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("got backend %q, want 'sqlite'", cfg.Storage.Backend)
	}
	if cfg.Storage.Driver != DriverCgo {
		t.Errorf("got driver %q, want 'sqlite3'", cfg.Storage.Driver)
	}
	if cfg.Storage.Watch {
		t.Error("watch should be disabled")
	}
	if cfg.Editor.TabWidth != 4 {
		t.Errorf("got tab width %d, want 4", cfg.Editor.TabWidth)
	}
	if cfg.UI.ShowFooter {
		t.Error("showFooter should be false")
	}
	if cfg.UI.ToastDuration != 5*time.Second {
		t.Errorf("got toast duration %v, want 5s", cfg.UI.ToastDuration)
	}
	// Default values should still be present
	if !cfg.Editor.LineNumbers {
		t.Error("line numbers should still be enabled (default)")
	}
	if cfg.Storage.Key != "notes-app-data" {
		t.Errorf("got key %q, want default", cfg.Storage.Key)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte(`{invalid`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("should error on invalid JSON")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input  string
		expect string
	}{
		{"~/notes", filepath.Join(home, "notes")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tc := range tests {
		got := ExpandPath(tc.input)
		if got != tc.expect {
			t.Errorf("ExpandPath(%q) = %q, want %q", tc.input, got, tc.expect)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "postgres"
	cfg.Storage.Driver = "odbc"
	cfg.Editor.TabWidth = -1
	cfg.UI.ToastDuration = 0
	cfg.Export.Format = "pdf"

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	// Bad values should be corrected
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("got backend %q, want 'file' after validation", cfg.Storage.Backend)
	}
	if cfg.Storage.Driver != DriverModernc {
		t.Errorf("got driver %q, want 'sqlite' after validation", cfg.Storage.Driver)
	}
	if cfg.Editor.TabWidth != 2 {
		t.Errorf("got tab width %d, want 2 after validation", cfg.Editor.TabWidth)
	}
	if cfg.UI.ToastDuration != 2*time.Second {
		t.Errorf("got %v, want 2s after validation", cfg.UI.ToastDuration)
	}
	if cfg.Export.Format != "json" {
		t.Errorf("got format %q, want 'json' after validation", cfg.Export.Format)
	}
}

func TestStoragePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	tests := []struct {
		backend string
		path    string
		want    string
	}{
		{BackendFile, "", "/data/codenotes/notes.json"},
		{BackendSQLite, "", "/data/codenotes/notes.db"},
		{BackendBadger, "", "/data/codenotes/notes.badger"},
		{BackendFile, "/tmp/x.json", "/tmp/x.json"},
	}
	for _, tc := range tests {
		cfg := Default()
		cfg.Storage.Backend = tc.backend
		cfg.Storage.Path = tc.path
		if got := cfg.StoragePath(); got != tc.want {
			t.Errorf("StoragePath(%s, %q) = %q, want %q", tc.backend, tc.path, got, tc.want)
		}
	}
}
