package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/naehbuch/internal/model"
)

// Theme defines the color scheme and styles for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Status family colors
	StatusIdea       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusPlanned    lipgloss.Color
	StatusDone       lipgloss.Color
	StatusNone       lipgloss.Color
}

// StatusStyle is the badge color pairing for a status
type StatusStyle struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
}

// StatusAccent returns the accent color of the status family (card stripes,
// list markers)
func (t Theme) StatusAccent(status string) lipgloss.Color {
	switch model.StatusFamilyOf(status) {
	case model.FamilyDone:
		return t.StatusDone
	case model.FamilyInProgress:
		return t.StatusInProgress
	case model.FamilyPlanned:
		return t.StatusPlanned
	case model.FamilyIdea:
		return t.StatusIdea
	default:
		return t.StatusNone
	}
}

// StatusStyle returns the badge pairing of the status family. Unknown and
// empty statuses get the neutral pairing.
func (t Theme) StatusStyle(status string) StatusStyle {
	if model.StatusFamilyOf(status) == model.FamilyNone {
		return StatusStyle{Background: t.Highlight, Foreground: t.Subtle}
	}
	return StatusStyle{Background: t.StatusAccent(status), Foreground: t.Background}
}

// Badge renders the status as a colored badge
func (s StatusStyle) Badge(text string) string {
	return lipgloss.NewStyle().
		Background(s.Background).
		Foreground(s.Foreground).
		Padding(0, 1).
		Render(text)
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	// Base styles
	App    lipgloss.Style
	Header lipgloss.Style
	Footer lipgloss.Style

	// Project styles
	ItemNormal   lipgloss.Style
	ItemSelected lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style

	// Component styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Tag      lipgloss.Style
	Date     lipgloss.Style
	Link     lipgloss.Style

	// Input styles
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Placeholder  lipgloss.Style

	// Panel styles
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	// Status bar
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusValue lipgloss.Style

	// Banners
	ErrorBanner   lipgloss.Style
	SuccessBanner lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		// Base styles
		App: lipgloss.NewStyle().
			Background(t.Background).
			Foreground(t.Foreground),

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		// Project styles
		ItemNormal: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		ItemSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		CardSelected: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		// Component styles
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Tag: lipgloss.NewStyle().
			Foreground(t.Info).
			Background(t.Highlight).
			Padding(0, 1).
			MarginRight(1),

		Date: lipgloss.NewStyle().
			Foreground(t.Warning),

		Link: lipgloss.NewStyle().
			Foreground(t.Info).
			Underline(true),

		// Input styles
		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		Placeholder: lipgloss.NewStyle().
			Foreground(t.Subtle),

		// Panel styles
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		// Help styles
		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),

		// Status bar
		StatusBar: lipgloss.NewStyle().
			Background(t.Highlight).
			Foreground(t.Foreground).
			Padding(0, 1),

		StatusKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		StatusValue: lipgloss.NewStyle().
			Foreground(t.Foreground),

		// Banners
		ErrorBanner: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Error).
			Bold(true).
			Padding(0, 1),

		SuccessBanner: lipgloss.NewStyle().
			Foreground(t.Success).
			Padding(0, 1),
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Nord,
	Styles: NewStyles(Nord),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// StatusStyleFor returns the badge pairing of status in the current theme
func StatusStyleFor(status string) StatusStyle {
	return Current.Theme.StatusStyle(status)
}

// StatusAccentFor returns the accent color of status in the current theme
func StatusAccentFor(status string) lipgloss.Color {
	return Current.Theme.StatusAccent(status)
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Catppuccin,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Next returns the theme after the current one, wrapping around
func Next() Theme {
	themes := Available()
	for i, t := range themes {
		if t.Name == Current.Theme.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
