package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dori/naehbuch/internal/model"
	"github.com/dori/naehbuch/internal/ui/theme"
	"github.com/dori/naehbuch/internal/ui/views"
)

// ProjectStore is the part of the store the shell calls
type ProjectStore interface {
	List(ctx context.Context) ([]model.Project, error)
	Create(ctx context.Context, p model.Project) (model.Project, error)
	Update(ctx context.Context, id string, patch model.Patch) (model.Project, error)
	Delete(ctx context.Context, id string) error
}

// ViewModeSaver persists the last used view mode
type ViewModeSaver interface {
	SaveViewMode(mode model.ViewMode) error
}

// ChangeNotifier announces changes made elsewhere
type ChangeNotifier interface {
	SendProjectChanged(kind model.ChangeKind, name string) error
}

// Deps are the collaborators of the shell. Prefs and Notifier are optional.
type Deps struct {
	Store    ProjectStore
	Prefs    ViewModeSaver
	Notifier ChangeNotifier
	Logger   *zap.Logger
	ViewMode model.ViewMode
}

// Shell is the top-level model. It owns the project list and all
// presentation state and turns child intents into store calls.
type Shell struct {
	store    ProjectStore
	prefs    ViewModeSaver
	notifier ChangeNotifier
	logger   *zap.Logger

	keys   KeyMap
	help   help.Model
	width  int
	height int

	// Projects as returned by the last list, in store order
	projects []model.Project
	sortMode model.SortMode
	viewMode model.ViewMode

	formOpen   bool
	form       views.ProjectForm
	editTarget string

	// loading is set from issuing a store call until the following list
	// has arrived; mutating input is ignored meanwhile
	loading bool
	loadSeq int

	// ownChange is the ID of the last project changed from this shell, so
	// its echo on the change feed is not announced
	ownChange string

	errorBanner string
	statusMsg   string
	helpVisible bool

	stats      views.StatsBar
	collection views.Collection
}

// NewShell creates the shell in the loading state
func NewShell(deps Deps) Shell {
	h := help.New()
	h.ShowAll = false

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	viewMode := deps.ViewMode
	if viewMode == "" {
		viewMode = model.ViewCards
	}

	return Shell{
		store:      deps.Store,
		prefs:      deps.Prefs,
		notifier:   deps.Notifier,
		logger:     logger.Named("ui"),
		keys:       DefaultKeyMap(),
		help:       h,
		viewMode:   viewMode,
		sortMode:   model.SortDateDesc,
		loading:    true,
		stats:      views.NewStatsBar(),
		collection: views.NewCollection(viewMode).SetDisabled(true),
	}
}

// Init starts the first load
func (m Shell) Init() tea.Cmd {
	return m.loadProjects(m.loadSeq)
}

// Projects returns the loaded projects in display order
func (m Shell) Projects() []model.Project {
	return m.collection.Projects()
}

// ViewMode returns the current layout
func (m Shell) ViewMode() model.ViewMode {
	return m.viewMode
}

// SortMode returns the current ordering
func (m Shell) SortMode() model.SortMode {
	return m.sortMode
}

// FormOpen reports whether the create or edit form is visible
func (m Shell) FormOpen() bool {
	return m.formOpen
}

// EditTarget returns the ID of the project being edited
func (m Shell) EditTarget() string {
	return m.editTarget
}

// Loading reports whether a store call is outstanding
func (m Shell) Loading() bool {
	return m.loading
}

// ErrorBanner returns the visible error message
func (m Shell) ErrorBanner() string {
	return m.errorBanner
}

// Status returns the status line
func (m Shell) Status() string {
	return m.statusMsg
}

// Update handles messages
func (m Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.layout()
	return m, cmd
}

func (m Shell) update(msg tea.Msg) (Shell, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case projectsLoadedMsg:
		if msg.seq != m.loadSeq {
			m.logger.Debug("dropping stale project list",
				zap.Int("seq", msg.seq), zap.Int("current", m.loadSeq))
			return m, nil
		}
		m.setLoading(false)
		if msg.err != nil {
			m.errorBanner = msg.err.Error()
			return m, nil
		}
		m.projects = msg.projects
		m.refresh()
		return m, nil

	case projectSavedMsg:
		if msg.err != nil {
			// Form stays open with its contents
			m.setLoading(false)
			m.errorBanner = msg.err.Error()
			return m, nil
		}
		m.formOpen = false
		m.editTarget = ""
		m.ownChange = msg.project.ID
		if msg.created {
			m.statusMsg = fmt.Sprintf("Projekt angelegt: %s", msg.project.Name)
		} else {
			m.statusMsg = fmt.Sprintf("Projekt gespeichert: %s", msg.project.Name)
		}
		return m, m.reload()

	case projectDeletedMsg:
		if msg.err != nil {
			m.setLoading(false)
			m.errorBanner = msg.err.Error()
			return m, nil
		}
		m.ownChange = msg.id
		m.statusMsg = fmt.Sprintf("Projekt gelöscht: %s", msg.name)
		return m, m.reload()

	case prefsSavedMsg:
		if msg.err != nil {
			m.errorBanner = msg.err.Error()
		}
		return m, nil

	case ChangeEventMsg:
		return m.handleChange(msg.Event)

	case views.SubmitMsg:
		if m.loading || !m.formOpen {
			return m, nil
		}
		m.setLoading(true)
		if msg.EditingID != "" {
			return m, m.updateProject(msg.EditingID, msg.Patch)
		}
		return m, m.createProject(msg.Project)

	case views.CancelMsg:
		m.formOpen = false
		m.editTarget = ""
		return m, nil

	case views.EditRequestMsg:
		if m.loading {
			return m, nil
		}
		return m, m.openForm(&msg.Project)

	case views.DeleteRequestMsg:
		if m.loading {
			return m, nil
		}
		m.setLoading(true)
		return m, m.deleteProject(msg.ID, msg.Name)

	case ErrorMsg:
		m.errorBanner = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil
	}

	// Cursor blink and other component messages
	if m.formOpen {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey routes a key press to the shell, the form or the collection
func (m Shell) handleKey(msg tea.KeyMsg) (Shell, tea.Cmd) {
	// Clear status on any keypress; the banner stays until dismissed
	m.statusMsg = ""

	// Global keybindings
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.ThemeCycle):
		next := theme.Next()
		theme.SetTheme(next)
		return m, func() tea.Msg { return ThemeChangedMsg{ThemeName: next.Name} }
	}

	if m.formOpen {
		if msg.String() == "ctrl+x" {
			m.errorBanner = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}

	if m.collection.IsInputMode() {
		var cmd tea.Cmd
		m.collection, cmd = m.collection.Update(msg)
		return m, cmd
	}

	if m.helpVisible {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.helpVisible = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = true
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.errorBanner = ""
		return m, nil

	case key.Matches(msg, m.keys.New):
		if m.loading {
			return m, nil
		}
		return m, m.openForm(nil)

	case key.Matches(msg, m.keys.ToggleView):
		m.viewMode = m.viewMode.Toggle()
		m.collection = m.collection.SetViewMode(m.viewMode)
		m.statusMsg = fmt.Sprintf("Ansicht: %s", m.viewMode.Label())
		return m, m.saveViewMode(m.viewMode)

	case key.Matches(msg, m.keys.CycleSort):
		m.sortMode = m.sortMode.Next()
		m.refresh()
		m.statusMsg = fmt.Sprintf("Sortierung: %s", m.sortMode.Label())
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		return m, m.reload()
	}

	var cmd tea.Cmd
	m.collection, cmd = m.collection.Update(msg)
	return m, cmd
}

// handleChange reacts to a change notification. Changes made from this
// shell are already reloaded after the mutation.
func (m Shell) handleChange(e model.ChangeEvent) (Shell, tea.Cmd) {
	own := m.loading || (e.ID != "" && e.ID == m.ownChange)
	if own {
		return m, nil
	}

	name := m.projectName(e)
	switch e.Kind {
	case model.ChangeInserted:
		m.statusMsg = fmt.Sprintf("Neues Projekt: %s", name)
	case model.ChangeUpdated:
		m.statusMsg = fmt.Sprintf("Projekt geändert: %s", name)
	case model.ChangeDeleted:
		m.statusMsg = fmt.Sprintf("Projekt gelöscht: %s", name)
	}

	var cmds []tea.Cmd
	if m.notifier != nil {
		notifier := m.notifier
		logger := m.logger
		cmds = append(cmds, func() tea.Msg {
			if err := notifier.SendProjectChanged(e.Kind, name); err != nil {
				logger.Debug("notification failed", zap.Error(err))
			}
			return nil
		})
	}
	if !m.formOpen {
		cmds = append(cmds, m.reload())
	}
	return m, tea.Batch(cmds...)
}

// projectName finds a display name for the project of e
func (m Shell) projectName(e model.ChangeEvent) string {
	if e.Project != nil {
		return e.Project.Name
	}
	for _, p := range m.projects {
		if p.ID == e.ID {
			return p.Name
		}
	}
	return e.ID
}

// openForm shows the form, pre-filled when editing
func (m *Shell) openForm(target *model.Project) tea.Cmd {
	if target != nil {
		m.form = views.EditProjectForm(*target)
		m.editTarget = target.ID
	} else {
		m.form = views.NewProjectForm()
		m.editTarget = ""
	}
	m.form = m.form.SetSize(m.width)
	m.formOpen = true
	return m.form.Init()
}

func (m *Shell) setLoading(loading bool) {
	m.loading = loading
	m.collection = m.collection.SetDisabled(loading)
}

// refresh recomputes the displayed order and the totals
func (m *Shell) refresh() {
	m.collection = m.collection.SetProjects(model.SortedBy(m.projects, m.sortMode))
	m.stats = m.stats.SetStats(model.Aggregate(m.projects))
}

// layout sizes the children to the space left by header, stats and footer
func (m *Shell) layout() {
	m.stats = m.stats.SetSize(m.width)
	if m.formOpen {
		m.form = m.form.SetSize(m.width)
	}

	used := 1 + lipgloss.Height(m.stats.View()) + 3
	if m.errorBanner != "" {
		used++
	}
	m.collection = m.collection.SetSize(m.width, m.height-used)
}

// Store commands

func (m *Shell) reload() tea.Cmd {
	m.loadSeq++
	m.setLoading(true)
	return m.loadProjects(m.loadSeq)
}

func (m Shell) loadProjects(seq int) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		projects, err := store.List(context.Background())
		return projectsLoadedMsg{seq: seq, projects: projects, err: err}
	}
}

func (m Shell) createProject(p model.Project) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		created, err := store.Create(context.Background(), p)
		return projectSavedMsg{project: created, created: true, err: err}
	}
}

func (m Shell) updateProject(id string, patch model.Patch) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		updated, err := store.Update(context.Background(), id, patch)
		return projectSavedMsg{project: updated, err: err}
	}
}

func (m Shell) deleteProject(id, name string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		err := store.Delete(context.Background(), id)
		return projectDeletedMsg{id: id, name: name, err: err}
	}
}

func (m Shell) saveViewMode(mode model.ViewMode) tea.Cmd {
	if m.prefs == nil {
		return nil
	}
	prefs := m.prefs
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.SaveViewMode(mode)}
	}
}

// View renders the UI
func (m Shell) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.stats.View())

	if m.errorBanner != "" {
		banner := theme.Current.Styles.ErrorBanner.Render("Fehler: " + m.errorBanner)
		hint := theme.Current.Styles.HelpDesc.Render("  x zum Schließen")
		sections = append(sections, banner+hint)
	}

	var content string
	switch {
	case m.helpVisible:
		content = m.renderHelp()
	case m.formOpen:
		content = m.form.View()
	default:
		content = m.collection.View()
	}
	sections = append(sections, content)

	// Ensure content fills available space
	body := strings.Join(sections, "\n")
	footer := m.renderFooter()
	if gap := m.height - lipgloss.Height(body) - lipgloss.Height(footer); gap > 0 {
		body += strings.Repeat("\n", gap)
	}

	return body + "\n" + footer
}

// renderHeader renders the header bar
func (m Shell) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("nähbuch")

	infoStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	info := fmt.Sprintf("[%d Projekte · %s · %s]",
		len(m.projects), m.sortMode.Label(), m.viewMode.Label())
	indicator := infoStyle.Render(info)

	if m.loading {
		indicator += lipgloss.NewStyle().Foreground(t.Info).Italic(true).Render("lädt…")
	}

	themeIndicator := infoStyle.Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, indicator)
	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(themeIndicator)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + themeIndicator
}

// renderFooter renders the status line and context-aware key hints
func (m Shell) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	hint := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}

	var lines []string
	if m.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Italic(true).Render(m.statusMsg))
	}

	switch {
	case m.formOpen:
		lines = append(lines, m.themedHelp().ShortHelpView(m.keys.FormHelp()))
	case m.collection.IsInputMode():
		lines = append(lines, hint("y", "delete")+styles.HelpSeparator.Render(" │ ")+hint("n/esc", "keep"))
	default:
		lines = append(lines, m.themedHelp().View(m.keys))
	}

	return strings.Join(lines, "\n")
}

// themedHelp returns the help model styled with the current theme
func (m Shell) themedHelp() help.Model {
	styles := theme.Current.Styles
	h := m.help
	h.ShortSeparator = " │ "
	h.Styles.ShortKey = styles.HelpKey
	h.Styles.ShortDesc = styles.HelpDesc
	h.Styles.ShortSeparator = styles.HelpSeparator
	return h
}

// helpSections titles the groups of KeyMap.FullHelp
var helpSections = []string{"Navigation", "Projekte", "Ansicht", "Formular", "System"}

// renderHelp renders the help overlay from the key map
func (m Shell) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Nähbuch Hilfe"))
	b.WriteString("\n")

	for i, group := range m.keys.FullHelp() {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(helpSections[i]))
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(descStyle.Render(h.Desc))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press ? or esc to close"))

	return b.String()
}
