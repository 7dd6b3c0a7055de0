package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Sidebar width bounds (columns).
const (
	DefaultSidebarWidth = 32
	minSidebarWidth     = 20
	maxSidebarWidth     = 80
)

// State holds persistent UI preferences. The notes themselves live in storage.
type State struct {
	SelectedNoteID  string `json:"selectedNoteId,omitempty"`  // Restored at startup when still present
	SidebarWidth    int    `json:"sidebarWidth,omitempty"`    // 0 = use default
	MarkdownPreview bool   `json:"markdownPreview,omitempty"` // Render markdown notes with glamour
	LastImportPath  string `json:"lastImportPath,omitempty"`  // Prefills the import prompt
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

// Init loads state from the default location.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "codenotes"))
}

// InitWithDir loads state from a specified directory.
// This is primarily for testing to avoid reading real user state.
func InitWithDir(dir string) error {
	path = filepath.Join(dir, "state.json")
	return Load()
}

// Load reads state from disk.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // no state file yet, use defaults
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, current)
}

// Save writes state to disk.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil || path == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// update applies fn under the lock and persists.
func update(fn func(s *State)) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	fn(current)
	mu.Unlock()
	return Save()
}

// GetSelectedNoteID returns the last selected note id.
func GetSelectedNoteID() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.SelectedNoteID
}

// SetSelectedNoteID saves the selected note id.
func SetSelectedNoteID(id string) error {
	if GetSelectedNoteID() == id {
		return nil
	}
	return update(func(s *State) { s.SelectedNoteID = id })
}

// GetSidebarWidth returns the saved sidebar width, clamped to sane bounds.
func GetSidebarWidth() int {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil || current.SidebarWidth == 0 {
		return DefaultSidebarWidth
	}
	return min(max(current.SidebarWidth, minSidebarWidth), maxSidebarWidth)
}

// SetSidebarWidth saves the sidebar width.
func SetSidebarWidth(width int) error {
	width = min(max(width, minSidebarWidth), maxSidebarWidth)
	return update(func(s *State) { s.SidebarWidth = width })
}

// GetMarkdownPreview reports whether markdown notes render as a preview.
func GetMarkdownPreview() bool {
	mu.RLock()
	defer mu.RUnlock()
	return current != nil && current.MarkdownPreview
}

// SetMarkdownPreview saves the markdown preview toggle.
func SetMarkdownPreview(on bool) error {
	return update(func(s *State) { s.MarkdownPreview = on })
}

// GetLastImportPath returns the last path given to the import prompt.
func GetLastImportPath() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.LastImportPath
}

// SetLastImportPath saves the last import path.
func SetLastImportPath(p string) error {
	return update(func(s *State) { s.LastImportPath = p })
}
