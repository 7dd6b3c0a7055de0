package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSave_PreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Write a config file that includes keys not managed by Save
	initial := []byte(`{
  "snippets": [{"name": "header", "body": "#!/bin/sh"}],
  "customKey": "should survive"
}`)
	if err := os.WriteFile(path, initial, 0644); err != nil {
		t.Fatal(err)
	}

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal saved config: %v", err)
	}

	if _, ok := raw["snippets"]; !ok {
		t.Error("Save() deleted 'snippets' key from config.json")
	}
	if _, ok := raw["customKey"]; !ok {
		t.Error("Save() deleted 'customKey' from config.json")
	}
	for _, key := range []string{"storage", "editor", "ui", "export"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("Save() did not write %q key", key)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	cfg.Storage.Backend = BackendBadger
	cfg.UI.ToastDuration = 3 * time.Second
	cfg.UI.Theme = "light"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Storage.Backend != BackendBadger {
		t.Errorf("got backend %q, want 'badger'", loaded.Storage.Backend)
	}
	if loaded.UI.ToastDuration != 3*time.Second {
		t.Errorf("got toast duration %v, want 3s", loaded.UI.ToastDuration)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("got theme %q, want 'light'", loaded.UI.Theme)
	}
}

func TestSaveTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	if err := SaveTheme("light"); err != nil {
		t.Fatalf("SaveTheme failed: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("got theme %q, want 'light'", cfg.UI.Theme)
	}
}
