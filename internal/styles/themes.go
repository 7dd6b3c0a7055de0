package styles

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu protects access to themeRegistry and currentTheme for thread safety
var themeMu sync.RWMutex

// ColorPalette holds all theme colors
type ColorPalette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`

	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`

	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`
	TextSubtle    string `json:"textSubtle"`

	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`

	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`

	ToastSuccessText string `json:"toastSuccessText"`
	ToastErrorText   string `json:"toastErrorText"`

	// Third-party theme names
	SyntaxTheme   string `json:"syntaxTheme"`   // Chroma style name
	MarkdownTheme string `json:"markdownTheme"` // Glamour style name
}

// Theme represents a complete theme configuration
type Theme struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Colors      ColorPalette `json:"colors"`
}

// Built-in themes
var (
	DefaultTheme = Theme{
		Name:        "default",
		DisplayName: "Default Dark",
		Colors: ColorPalette{
			Primary:   "#7C3AED",
			Secondary: "#3B82F6",
			Accent:    "#F59E0B",

			Success: "#10B981",
			Warning: "#F59E0B",
			Error:   "#EF4444",

			TextPrimary:   "#F9FAFB",
			TextSecondary: "#9CA3AF",
			TextMuted:     "#6B7280",
			TextSubtle:    "#4B5563",

			BgSecondary: "#1F2937",
			BgTertiary:  "#374151",

			BorderNormal: "#374151",
			BorderActive: "#7C3AED",

			ToastSuccessText: "#000000",
			ToastErrorText:   "#FFFFFF",

			SyntaxTheme:   "monokai",
			MarkdownTheme: "dark",
		},
	}

	LightTheme = Theme{
		Name:        "light",
		DisplayName: "Light",
		Colors: ColorPalette{
			Primary:   "#6D28D9",
			Secondary: "#2563EB",
			Accent:    "#B45309",

			Success: "#047857",
			Warning: "#B45309",
			Error:   "#B91C1C",

			TextPrimary:   "#111827",
			TextSecondary: "#374151",
			TextMuted:     "#6B7280",
			TextSubtle:    "#9CA3AF",

			BgSecondary: "#F3F4F6",
			BgTertiary:  "#E5E7EB",

			BorderNormal: "#D1D5DB",
			BorderActive: "#6D28D9",

			ToastSuccessText: "#FFFFFF",
			ToastErrorText:   "#FFFFFF",

			SyntaxTheme:   "github",
			MarkdownTheme: "light",
		},
	}
)

// themeRegistry holds all available themes
var themeRegistry = map[string]Theme{
	"default": DefaultTheme,
	"light":   LightTheme,
}

// currentTheme tracks the active theme name
var currentTheme = "default"

// IsValidTheme checks if a theme name exists in the registry
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := themeRegistry[name]
	return ok
}

// GetTheme returns a theme by name, or the default theme if not found
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return DefaultTheme
}

// GetCurrentThemeName returns the name of the currently active theme
func GetCurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ListThemes returns the names of all available themes in sorted order
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextTheme returns the theme after the current one in sorted order.
func NextTheme() string {
	names := ListThemes()
	cur := GetCurrentThemeName()
	for i, n := range names {
		if n == cur {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// ApplyTheme applies a theme by name, updating all style variables.
// Unknown names apply the default theme.
func ApplyTheme(name string) {
	theme := GetTheme(name)
	ApplyThemeColors(theme)
	themeMu.Lock()
	currentTheme = theme.Name
	themeMu.Unlock()
}

// ApplyThemeColors updates the color variables and rebuilds the styles.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Secondary = lipgloss.Color(c.Secondary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Warning = lipgloss.Color(c.Warning)
	Error = lipgloss.Color(c.Error)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)
	TextSubtle = lipgloss.Color(c.TextSubtle)

	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)

	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)

	ToastSuccessTextColor = lipgloss.Color(c.ToastSuccessText)
	ToastErrorTextColor = lipgloss.Color(c.ToastErrorText)

	// Store syntax/markdown theme names for external use
	CurrentSyntaxTheme = c.SyntaxTheme
	CurrentMarkdownTheme = c.MarkdownTheme

	rebuildStyles()
}

// rebuildStyles recreates all lipgloss styles with current colors
func rebuildStyles() {
	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Subtle = lipgloss.NewStyle().
		Foreground(TextSubtle)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	ToastSuccess = lipgloss.NewStyle().
		Background(Success).
		Foreground(ToastSuccessTextColor).
		Bold(true).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
		Background(Error).
		Foreground(ToastErrorTextColor).
		Bold(true).
		Padding(0, 1)

	ListItemNormal = lipgloss.NewStyle().
		Foreground(TextPrimary)

	ListItemSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary)

	ListCursor = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	BarChip = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	BarChipActive = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Padding(0, 1).
		Bold(true)

	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Background(BgSecondary).
		Padding(1, 2)

	ModalTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true).
		MarginBottom(1)

	Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Padding(0, 2).
		Bold(true)
}

// GetSyntaxTheme returns the current syntax highlighting theme name
func GetSyntaxTheme() string {
	return CurrentSyntaxTheme
}

// GetMarkdownTheme returns the current markdown rendering theme name
func GetMarkdownTheme() string {
	return CurrentMarkdownTheme
}
