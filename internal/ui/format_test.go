package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/marcus/codenotes/internal/notes"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		if got := RelativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("RelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
	if got := RelativeTime(now.Add(-30*24*time.Hour), now); !strings.Contains(got, "2024") {
		t.Errorf("old timestamps should show a date, got %q", got)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("nt-1a2b3c4d-1"); got != "nt-1a2b3c4d-1" {
		t.Errorf("ShortID(generated) = %q", got)
	}
	if got := ShortID("9f3c2a1e-7b4d-4c1a-8e2f-0a1b2c3d4e5f"); got != "9f3c2a1e-7b4d-4c" {
		t.Errorf("ShortID(long) = %q", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID(short) = %q", got)
	}
}

func TestFormatNoteListItem(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	n := notes.Note{ID: "nt-x-1", Title: "Query", Language: notes.SQL, UpdatedAt: time.Now()}
	out := FormatNoteListItem(n)
	for _, want := range []string{"nt-x-1", "Query", "[SQL]", "Updated:"} {
		if !strings.Contains(out, want) {
			t.Errorf("list item missing %q:\n%s", want, out)
		}
	}
}

func TestFormatMarkdown_Renders(t *testing.T) {
	out := FormatMarkdown("# Heading\n\nbody text", "dark", 60)
	if !strings.Contains(out, "Heading") || !strings.Contains(out, "body text") {
		t.Errorf("FormatMarkdown() lost text:\n%s", out)
	}
}
