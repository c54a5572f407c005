package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/naehbuch/internal/model"
	"github.com/dori/naehbuch/internal/ui/theme"
)

// CollectionMode represents the current input mode of the collection
type CollectionMode int

const (
	CollectionModeNormal CollectionMode = iota
	CollectionModeConfirmDelete
)

// EditRequestMsg asks the shell to open the form for a project
type EditRequestMsg struct {
	Project model.Project
}

// DeleteRequestMsg asks the shell to delete a project. It is only sent after
// the user confirmed.
type DeleteRequestMsg struct {
	ID   string
	Name string
}

// Collection shows the projects as cards or rows with a cursor
type Collection struct {
	projects []model.Project
	viewMode model.ViewMode

	cursor       int
	scrollOffset int
	width        int
	height       int

	mode         CollectionMode
	deleteTarget model.Project

	// Set while the shell is loading; edit and delete are ignored
	disabled bool
}

// NewCollection creates an empty collection in the given view mode
func NewCollection(viewMode model.ViewMode) Collection {
	return Collection{viewMode: viewMode}
}

// SetProjects replaces the displayed projects. The cursor stays on the
// same project when it is still present, otherwise at the same position.
func (v Collection) SetProjects(projects []model.Project) Collection {
	var currentID string
	if p, ok := v.Selected(); ok {
		currentID = p.ID
	}

	v.projects = projects
	for i, p := range projects {
		if p.ID == currentID {
			v.cursor = i
			break
		}
	}

	if v.mode == CollectionModeConfirmDelete && !v.contains(v.deleteTarget.ID) {
		v.mode = CollectionModeNormal
	}
	v.ensureCursorVisible()
	return v
}

func (v Collection) contains(id string) bool {
	for _, p := range v.projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Projects returns the displayed projects in display order
func (v Collection) Projects() []model.Project {
	return v.projects
}

// SetViewMode switches between cards and rows
func (v Collection) SetViewMode(mode model.ViewMode) Collection {
	v.viewMode = mode
	v.ensureCursorVisible()
	return v
}

// ViewMode returns the current layout
func (v Collection) ViewMode() model.ViewMode {
	return v.viewMode
}

// SetDisabled blocks edit and delete requests
func (v Collection) SetDisabled(disabled bool) Collection {
	v.disabled = disabled
	return v
}

// SetSize updates the view dimensions
func (v Collection) SetSize(width, height int) Collection {
	v.width = width
	v.height = height
	v.ensureCursorVisible()
	return v
}

// Cursor returns the cursor index
func (v Collection) Cursor() int {
	return v.cursor
}

// Selected returns the project under the cursor
func (v Collection) Selected() (model.Project, bool) {
	if v.cursor < 0 || v.cursor >= len(v.projects) {
		return model.Project{}, false
	}
	return v.projects[v.cursor], true
}

// IsInputMode returns true while a delete confirmation is pending
func (v Collection) IsInputMode() bool {
	return v.mode == CollectionModeConfirmDelete
}

// available returns the number of lines the items may use
func (v Collection) available() int {
	// Reserve lines for the confirm prompt, column header and scroll indicators
	available := v.height - 4
	if available < 1 {
		available = 1
	}
	return available
}

// itemHeight returns the rendered height of project i
func (v Collection) itemHeight(i int) int {
	if v.viewMode == model.ViewList {
		return 1
	}
	return lipgloss.Height(renderCard(v.projects[i], i == v.cursor, v.width))
}

// ensureCursorVisible adjusts scrollOffset to keep cursor in view
func (v *Collection) ensureCursorVisible() {
	if len(v.projects) == 0 {
		v.cursor = 0
		v.scrollOffset = 0
		return
	}
	if v.cursor >= len(v.projects) {
		v.cursor = len(v.projects) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}

	// Cursor above viewport - scroll up
	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}

	// Cursor below viewport - scroll down until it fits
	for v.scrollOffset < v.cursor && v.linesBetween(v.scrollOffset, v.cursor) > v.available() {
		v.scrollOffset++
	}

	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// linesBetween sums the heights of items from..to inclusive
func (v Collection) linesBetween(from, to int) int {
	lines := 0
	for i := from; i <= to; i++ {
		lines += v.itemHeight(i)
	}
	return lines
}

// Update handles messages for the collection
func (v Collection) Update(msg tea.Msg) (Collection, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if v.mode == CollectionModeConfirmDelete {
		return v.handleDeleteConfirm(keyMsg)
	}
	return v.handleNormalMode(keyMsg)
}

func (v Collection) handleNormalMode(msg tea.KeyMsg) (Collection, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.projects)-1 {
			v.cursor++
		}
	case "g", "home":
		v.cursor = 0
	case "G", "end":
		v.cursor = len(v.projects) - 1
	case "pgup", "ctrl+u":
		v.cursor -= v.pageSize()
	case "pgdown", "ctrl+d":
		v.cursor += v.pageSize()

	case "enter", "e":
		p, ok := v.Selected()
		if !ok || v.disabled {
			return v, nil
		}
		return v, func() tea.Msg { return EditRequestMsg{Project: p} }

	case "d", "delete":
		p, ok := v.Selected()
		if !ok || v.disabled {
			return v, nil
		}
		v.mode = CollectionModeConfirmDelete
		v.deleteTarget = p
		return v, nil
	}

	v.ensureCursorVisible()
	return v, nil
}

func (v Collection) pageSize() int {
	if v.viewMode == model.ViewList {
		return v.available()
	}
	return 3
}

func (v Collection) handleDeleteConfirm(msg tea.KeyMsg) (Collection, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = CollectionModeNormal
		target := v.deleteTarget
		v.deleteTarget = model.Project{}
		if v.disabled {
			return v, nil
		}
		return v, func() tea.Msg { return DeleteRequestMsg{ID: target.ID, Name: target.Name} }
	case "n", "N", "esc":
		v.mode = CollectionModeNormal
		v.deleteTarget = model.Project{}
	}
	return v, nil
}

// View renders the collection
func (v Collection) View() string {
	t := theme.Current.Theme

	var b strings.Builder

	// Delete confirmation
	if v.mode == CollectionModeConfirmDelete {
		confirmStyle := lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true)
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Möchten Sie %q wirklich löschen? (y/n)", v.deleteTarget.Name)))
		b.WriteString("\n\n")
	}

	if len(v.projects) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true).
			Padding(2, 0)
		b.WriteString(emptyStyle.Render("Noch keine Projekte. Drücke 'n' für dein erstes Projekt."))
		return b.String()
	}

	scrollStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	if v.viewMode == model.ViewList {
		b.WriteString(renderRowHeader(v.width))
		b.WriteString("\n")
	}

	// Show scroll indicator if there are projects above
	if v.scrollOffset > 0 {
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↑ %d more above", v.scrollOffset)))
		b.WriteString("\n")
	}

	used := 0
	endIdx := v.scrollOffset
	for i := v.scrollOffset; i < len(v.projects); i++ {
		var item string
		if v.viewMode == model.ViewList {
			item = renderRow(v.projects[i], i == v.cursor, v.width)
		} else {
			item = renderCard(v.projects[i], i == v.cursor, v.width)
		}
		h := lipgloss.Height(item)
		if used > 0 && used+h > v.available() {
			break
		}
		b.WriteString(item)
		b.WriteString("\n")
		used += h
		endIdx = i + 1
	}

	// Show scroll indicator if there are projects below
	if remaining := len(v.projects) - endIdx; remaining > 0 {
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
		b.WriteString("\n")
	}

	return b.String()
}
