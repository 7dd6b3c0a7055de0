// Package transfer moves notes between the store and files on disk:
// JSON exports, markdown exports with YAML front matter, and batch imports
// from paths or glob patterns.
package transfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/marcus/codenotes/internal/config"
	"github.com/marcus/codenotes/internal/notes"
)

// Export formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "md"
)

// ExportJSON writes the whole collection to dir/notes-export-<date>.json and
// returns the file path.
func ExportJSON(s *notes.Store, dir string, now time.Time) (string, error) {
	data, err := s.Export()
	if err != nil {
		return "", err
	}
	dir = config.ExpandPath(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, notes.ExportFilename(now))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

type frontMatter struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Language string    `yaml:"language"`
	Created  time.Time `yaml:"created"`
	Updated  time.Time `yaml:"updated"`
}

// ExportMarkdown writes one markdown file per note into dir. Code notes are
// wrapped in a fenced block tagged with their language.
func ExportMarkdown(list []notes.Note, dir string) (int, error) {
	dir = config.ExpandPath(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}

	used := make(map[string]int)
	for i, n := range list {
		data, err := MarkdownDocument(n)
		if err != nil {
			return i, err
		}
		name := sanitizeFilename(n.Title)
		if used[name]++; used[name] > 1 {
			name = fmt.Sprintf("%s-%d", name, used[name])
		}
		if err := os.WriteFile(filepath.Join(dir, name+".md"), data, 0644); err != nil {
			return i, fmt.Errorf("write %s: %w", name, err)
		}
	}
	return len(list), nil
}

// MarkdownDocument renders a note as a markdown document with front matter.
func MarkdownDocument(n notes.Note) ([]byte, error) {
	fm, err := yaml.Marshal(frontMatter{
		ID:       n.ID,
		Title:    n.Title,
		Language: string(n.Language),
		Created:  n.CreatedAt,
		Updated:  n.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(fm)
	sb.WriteString("---\n\n")
	if n.Language == notes.Markdown || n.Language == notes.Plaintext {
		sb.WriteString(n.Content)
	} else {
		sb.WriteString("```" + string(n.Language) + "\n")
		sb.WriteString(n.Content)
		if !strings.HasSuffix(n.Content, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("```\n")
	}
	return []byte(sb.String()), nil
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	name = strings.TrimSpace(replacer.Replace(name))
	if name == "" {
		name = "note"
	}
	if r := []rune(name); len(r) > 100 {
		name = string(r[:100])
	}
	return name
}

// Expand resolves paths and doublestar glob patterns to a de-duplicated
// list of files in pattern order. A pattern that matches nothing is an error.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range patterns {
		p = config.ExpandPath(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		var matches []string
		if hasMeta(p) {
			m, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", p, err)
			}
			matches = m
		} else if _, err := os.Stat(p); err == nil {
			matches = []string{p}
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", p)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// FileResult is the outcome of importing one file.
type FileResult struct {
	Path  string
	Count int
	Err   error
}

// Result summarizes a multi-file import.
type Result struct {
	Files []FileResult
}

// Imported is the number of notes added across all files.
func (r Result) Imported() int {
	total := 0
	for _, f := range r.Files {
		total += f.Count
	}
	return total
}

// Failed returns the files that could not be imported.
func (r Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Err joins every per-file error.
func (r Result) Err() error {
	var errs []error
	for _, f := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
	}
	return errors.Join(errs...)
}

// ImportFiles imports each file as its own batch. A malformed file leaves the
// store untouched and does not stop the remaining files.
func ImportFiles(s *notes.Store, paths []string) Result {
	var res Result
	for _, p := range paths {
		fr := FileResult{Path: p}
		data, err := os.ReadFile(p) //nolint:gosec // user-selected import path
		if err != nil {
			fr.Err = err
		} else {
			fr.Count, fr.Err = s.Import(data)
		}
		res.Files = append(res.Files, fr)
	}
	return res
}
