package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/naehbuch/internal/model"
	"github.com/dori/naehbuch/internal/ui/theme"
)

// displayDateLayout is the German day.month.year form
const displayDateLayout = "02.01.2006"

// maxCardWidth keeps cards readable on wide terminals
const maxCardWidth = 72

// renderCard renders a project as a bordered card with a status colored
// stripe on the left
func renderCard(p model.Project, isCursor bool, width int) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	cardWidth := width - 2
	if cardWidth > maxCardWidth {
		cardWidth = maxCardWidth
	}
	if cardWidth < 24 {
		cardWidth = 24
	}
	// Border and padding
	inner := cardWidth - 4

	var lines []string

	lines = append(lines, styles.Title.Render(truncate(p.Name, inner)))

	if meta := renderMeta(p); meta != "" {
		lines = append(lines, meta)
	}

	if p.HasDetails() {
		lines = append(lines, "")
		lines = append(lines, renderDetails(p, inner)...)
	}

	if p.InstagramLink != "" {
		lines = append(lines, styles.Link.Render(truncate(p.InstagramLink, inner)))
	}

	if p.Comments != "" {
		commentStyle := lipgloss.NewStyle().Foreground(t.Subtle).Italic(true)
		lines = append(lines, "")
		for _, l := range strings.Split(wrapText(p.Comments, inner), "\n") {
			lines = append(lines, commentStyle.Render(l))
		}
	}

	style := styles.Card
	if isCursor {
		style = styles.CardSelected
	}
	style = style.
		BorderLeftForeground(theme.StatusAccentFor(p.Status)).
		Width(cardWidth)

	return style.Render(strings.Join(lines, "\n"))
}

// renderMeta renders the date and status badge line; either part may be missing
func renderMeta(p model.Project) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var parts []string
	if p.ProjectDate != nil {
		parts = append(parts, styles.Date.Render(p.ProjectDate.Format(displayDateLayout)))
	}
	if p.Status != "" {
		parts = append(parts, theme.StatusStyleFor(p.Status).Badge(p.Status))
	}
	sep := lipgloss.NewStyle().Foreground(t.Subtle).Render(" — ")
	return strings.Join(parts, sep)
}

// renderDetails renders the numeric and text details that are set
func renderDetails(p model.Project, width int) []string {
	styles := theme.Current.Styles
	t := theme.Current.Theme
	valueStyle := lipgloss.NewStyle().Foreground(t.Foreground).Bold(true)

	detail := func(label, value string) string {
		return styles.Label.Render(label+" ") + valueStyle.Render(value)
	}

	var lines []string

	var numbers []string
	if p.MoneySpent != 0 {
		numbers = append(numbers, detail("Kosten", model.FormatMoney(p.MoneySpent)))
	}
	if p.FabricUsed != 0 {
		numbers = append(numbers, detail("Stoff", model.FormatFabric(p.FabricUsed)))
	}
	if p.TimeSpent != 0 {
		numbers = append(numbers, detail("Zeit", model.FormatDuration(p.TimeSpent)))
	}
	if len(numbers) > 0 {
		lines = append(lines, strings.Join(numbers, "  "))
	}

	if p.PatternBrand != "" {
		lines = append(lines, detail("Schnitt", truncate(p.PatternBrand, width-8)))
	}
	if p.PurchasedFrom != "" {
		lines = append(lines, detail("Gekauft bei", truncate(p.PurchasedFrom, width-12)))
	}

	if len(p.Fabrics) > 0 {
		var tags []string
		for _, fabric := range p.Fabrics {
			tags = append(tags, styles.Tag.Render(fabric))
		}
		lines = append(lines, wrapBlocks(tags, width))
	}

	return lines
}

// renderRow renders a project as a single table row
func renderRow(p model.Project, isCursor bool, width int) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	marker := lipgloss.NewStyle().Foreground(theme.StatusAccentFor(p.Status)).Render("▌")

	date := ""
	if p.ProjectDate != nil {
		date = p.ProjectDate.Format(displayDateLayout)
	}

	fabrics := p.Fabrics
	more := ""
	if len(fabrics) > 2 {
		more = fmt.Sprintf(" +%d", len(fabrics)-2)
		fabrics = fabrics[:2]
	}

	numStyle := lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
	stats := numStyle.Render(model.FormatMoney(p.MoneySpent)) +
		numStyle.Render(model.FormatFabric(p.FabricUsed)) +
		numStyle.Render(model.FormatDuration(p.TimeSpent))

	dateCol := lipgloss.NewStyle().Foreground(t.Warning).Width(11).Render(date)
	statusCol := ""
	if p.Status != "" {
		statusCol = theme.StatusStyleFor(p.Status).Badge(truncate(p.Status, 22))
	}
	statusCol = lipgloss.NewStyle().Width(24).Render(statusCol)

	fixed := lipgloss.Width(marker) + 1 + lipgloss.Width(dateCol) + lipgloss.Width(statusCol) + lipgloss.Width(stats)
	rest := width - fixed - 2
	if rest < 16 {
		rest = 16
	}
	nameWidth := rest * 3 / 5
	fabricWidth := rest - nameWidth

	name := lipgloss.NewStyle().Width(nameWidth).Render(truncate(p.Name, nameWidth-1))
	fabricCol := lipgloss.NewStyle().Foreground(t.Info).Width(fabricWidth).
		Render(truncate(strings.Join(fabrics, ", ")+more, fabricWidth-1))

	line := marker + " " + name + dateCol + statusCol + fabricCol + stats

	if isCursor {
		return styles.ItemSelected.Render(line)
	}
	return styles.ItemNormal.Render(line)
}

// renderRowHeader renders the column titles for the list layout
func renderRowHeader(width int) string {
	t := theme.Current.Theme
	header := lipgloss.NewStyle().Foreground(t.Subtle).Bold(true)

	numStyle := lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
	stats := numStyle.Render("Kosten") + numStyle.Render("Stoff") + numStyle.Render("Zeit")

	fixed := 2 + 11 + 24 + lipgloss.Width(stats)
	rest := width - fixed - 2
	if rest < 16 {
		rest = 16
	}
	nameWidth := rest * 3 / 5
	fabricWidth := rest - nameWidth

	line := "  " +
		lipgloss.NewStyle().Width(nameWidth).Render("Projekt") +
		lipgloss.NewStyle().Width(11).Render("Datum") +
		lipgloss.NewStyle().Width(24).Render("Status") +
		lipgloss.NewStyle().Width(fabricWidth).Render("Stoffe") +
		stats
	return theme.Current.Styles.ItemNormal.Render(header.Render(line))
}

// truncate shortens s to width cells, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// wrapBlocks joins rendered blocks into lines no wider than width
func wrapBlocks(blocks []string, width int) string {
	var lines []string
	var current string
	for _, b := range blocks {
		if current != "" && lipgloss.Width(current)+lipgloss.Width(b) > width {
			lines = append(lines, current)
			current = ""
		}
		current += b
	}
	if current != "" {
		lines = append(lines, current)
	}
	return strings.Join(lines, "\n")
}

// wrapText wraps text at word boundaries to fit within maxWidth
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 || lipgloss.Width(text) <= maxWidth {
		return text
	}

	var result strings.Builder
	for i, paragraph := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if lipgloss.Width(currentLine)+1+lipgloss.Width(word) <= maxWidth {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
	}

	return result.String()
}
