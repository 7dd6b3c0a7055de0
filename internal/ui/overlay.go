// Package ui provides shared UI components and helpers for the TUI and CLI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle greys out the content behind a dialog. ANSI codes are stripped
// first because SGR 2 (faint) doesn't reliably combine with existing colors.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// maxLineWidth returns the maximum visual width of the given lines.
func maxLineWidth(lines []string) int {
	widest := 0
	for _, line := range lines {
		widest = max(widest, ansi.StringWidth(line))
	}
	return widest
}

// dimLine strips ANSI codes and applies dim gray styling.
func dimLine(s string) string {
	return DimStyle.Render(ansi.Strip(s))
}

// compositeRow places boxLine over bgLine starting at column x.
// The background on both sides is dimmed.
func compositeRow(bgLine, boxLine string, x, boxWidth, totalWidth int) string {
	var b strings.Builder

	stripped := ansi.Strip(bgLine)
	bgWidth := ansi.StringWidth(stripped)

	if x > 0 {
		left := ansi.Truncate(stripped, x, "")
		b.WriteString(DimStyle.Render(left))
		// Pad if background is shorter than the box position
		if w := ansi.StringWidth(left); w < x {
			b.WriteString(strings.Repeat(" ", x-w))
		}
	}

	b.WriteString(boxLine)

	if right := x + boxWidth; right < totalWidth && bgWidth > right {
		b.WriteString(DimStyle.Render(ansi.Cut(stripped, right, bgWidth)))
	}
	return b.String()
}

// Overlay centers box over a dimmed background of the given size.
func Overlay(background, box string, width, height int) string {
	bgLines := strings.Split(background, "\n")
	boxLines := strings.Split(box, "\n")

	boxWidth := maxLineWidth(boxLines)
	x := max((width-boxWidth)/2, 0)
	y0 := max((height-len(boxLines))/2, 0)

	out := make([]string, 0, height)
	for y := 0; y < height; y++ {
		bg := ""
		if y < len(bgLines) {
			bg = bgLines[y]
		}
		if i := y - y0; i >= 0 && i < len(boxLines) {
			out = append(out, compositeRow(bg, boxLines[i], x, boxWidth, width))
			continue
		}
		out = append(out, dimLine(bg))
	}
	return strings.Join(out, "\n")
}
