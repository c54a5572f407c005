package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/naehbuch/internal/model"
	"github.com/dori/naehbuch/internal/ui/theme"
)

// StatsBar shows the rollup totals of the project collection
type StatsBar struct {
	stats model.Stats
	width int
}

// NewStatsBar creates an empty stats bar
func NewStatsBar() StatsBar {
	return StatsBar{}
}

// SetStats replaces the totals
func (v StatsBar) SetStats(stats model.Stats) StatsBar {
	v.stats = stats
	return v
}

// SetSize sets the available width
func (v StatsBar) SetSize(width int) StatsBar {
	v.width = width
	return v
}

// Stats returns the displayed totals
func (v StatsBar) Stats() model.Stats {
	return v.stats
}

// View renders the four totals side by side, or stacked when the terminal
// is too narrow
func (v StatsBar) View() string {
	t := theme.Current.Theme

	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		Width(18)

	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	card := func(value, label string) string {
		return cardStyle.Render(valueStyle.Render(value) + "\n" + labelStyle.Render(label))
	}

	cards := []string{
		card(fmt.Sprintf("%d", v.stats.Count), "Projekte"),
		card(model.FormatMoney(v.stats.TotalMoney), "Ausgaben"),
		card(model.FormatFabric(v.stats.TotalFabric), "Stoff"),
		card(model.FormatDuration(v.stats.TotalTime), "Zeit"),
	}

	if v.width > 0 && v.width < lipgloss.Width(cards[0])*len(cards) {
		return v.compact()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// compact renders the totals on one line
func (v StatsBar) compact() string {
	styles := theme.Current.Styles
	sep := styles.HelpSeparator.Render(" │ ")
	item := func(label, value string) string {
		return styles.StatusKey.Render(label) + " " + styles.StatusValue.Render(value)
	}
	return item("Projekte", fmt.Sprintf("%d", v.stats.Count)) + sep +
		item("Ausgaben", model.FormatMoney(v.stats.TotalMoney)) + sep +
		item("Stoff", model.FormatFabric(v.stats.TotalFabric)) + sep +
		item("Zeit", model.FormatDuration(v.stats.TotalTime))
}
