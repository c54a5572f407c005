package views

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/naehbuch/internal/model"
	"github.com/dori/naehbuch/internal/ui/theme"
)

// SubmitMsg is sent when the form is submitted with valid input.
// EditingID is empty for a new project; otherwise Patch carries every
// editable field.
type SubmitMsg struct {
	EditingID string
	Project   model.Project
	Patch     model.Patch
}

// CancelMsg is sent when the form is dismissed
type CancelMsg struct{}

// formField identifies a focusable form element
type formField int

const (
	fieldName formField = iota
	fieldStatus
	fieldDate
	fieldFabric
	fieldMoney
	fieldFabricUsed
	fieldHours
	fieldMinutes
	fieldPattern
	fieldPurchased
	fieldLink
	fieldComments
	fieldCount
)

// ProjectForm creates or edits a single project
type ProjectForm struct {
	editingID string
	width     int

	focus    formField
	inputs   [fieldCount]textinput.Model
	comments textarea.Model

	// Status options; index 0 is "no status"
	statuses    []string
	statusIndex int

	fabrics []string

	// Edit mode: the stored project and the prefilled input, so untouched
	// fields submit the stored values unchanged
	original        model.Project
	initial         [fieldCount]string
	initialComments string
	initialStatus   int

	err string
}

// NewProjectForm returns an empty creation form focused on the name
func NewProjectForm() ProjectForm {
	f := ProjectForm{
		statuses: append([]string{""}, model.Statuses...),
	}

	f.inputs[fieldName] = newInput("z.B. Blumen-Sommerkleid", 200)
	f.inputs[fieldDate] = newInput("JJJJ-MM-TT", 10)
	f.inputs[fieldFabric] = newInput("z.B. Baumwolle mit Blumenmuster", 100)
	f.inputs[fieldMoney] = newInput("0,00", 24)
	f.inputs[fieldFabricUsed] = newInput("0,0", 24)
	f.inputs[fieldHours] = newInput("0", 5)
	f.inputs[fieldMinutes] = newInput("00", 2)
	f.inputs[fieldPattern] = newInput("z.B. Burda, Vogue...", 200)
	f.inputs[fieldPurchased] = newInput("z.B. Stoffladen...", 200)
	f.inputs[fieldLink] = newInput("https://instagram.com/p/...", 500)

	ta := textarea.New()
	ta.Placeholder = "Notizen zum Projekt, Herausforderungen, was du gelernt hast..."
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	f.comments = ta

	f.focus = fieldName
	f.setFocus(fieldName)
	return f
}

// EditProjectForm returns a form pre-filled from p. Decimal time is split
// into hours and minutes. Fields left untouched submit p's values as stored.
func EditProjectForm(p model.Project) ProjectForm {
	f := NewProjectForm()
	f.editingID = p.ID

	f.setValue(fieldName, p.Name)
	f.setValue(fieldDate, p.DateString())
	f.setValue(fieldMoney, formatAmount(p.MoneySpent))
	f.setValue(fieldFabricUsed, formatAmount(p.FabricUsed))
	hours, minutes := model.SplitHours(p.TimeSpent)
	if hours > 0 || minutes > 0 {
		f.setValue(fieldHours, strconv.Itoa(hours))
		f.setValue(fieldMinutes, strconv.Itoa(minutes))
	}
	f.setValue(fieldPattern, p.PatternBrand)
	f.setValue(fieldPurchased, p.PurchasedFrom)
	f.setValue(fieldLink, p.InstagramLink)
	f.comments.SetValue(p.Comments)
	f.fabrics = append([]string{}, p.Fabrics...)
	f.selectStatus(p.Status)

	f.original = p
	for i := range f.inputs {
		f.initial[i] = f.inputs[i].Value()
	}
	f.initialComments = f.comments.Value()
	f.initialStatus = f.statusIndex
	return f
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	return ti
}

// selectStatus points the selector at status, adding it as an extra option
// when it is not part of the vocabulary
func (f *ProjectForm) selectStatus(status string) {
	for i, s := range f.statuses {
		if strings.EqualFold(s, status) {
			f.statusIndex = i
			return
		}
	}
	f.statuses = append(f.statuses, status)
	f.statusIndex = len(f.statuses) - 1
}

// Init starts the cursor blinking
func (f ProjectForm) Init() tea.Cmd {
	return textinput.Blink
}

// IsEditing reports whether the form edits an existing project
func (f ProjectForm) IsEditing() bool {
	return f.editingID != ""
}

// EditingID returns the ID of the project being edited
func (f ProjectForm) EditingID() string {
	return f.editingID
}

// Fabrics returns the fabric chips in entry order
func (f ProjectForm) Fabrics() []string {
	return f.fabrics
}

// Status returns the selected status label
func (f ProjectForm) Status() string {
	return f.statuses[f.statusIndex]
}

// Err returns the current validation message
func (f ProjectForm) Err() string {
	return f.err
}

// SetSize updates the form width
func (f ProjectForm) SetSize(width int) ProjectForm {
	f.width = width
	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	for i := range f.inputs {
		f.inputs[i].Width = inputWidth
	}
	f.comments.SetWidth(inputWidth)
	return f
}

// Update handles key input for the focused field
func (f ProjectForm) Update(msg tea.Msg) (ProjectForm, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.updateFocused(msg)
	}

	switch keyMsg.String() {
	case "esc":
		return f, func() tea.Msg { return CancelMsg{} }

	case "ctrl+s":
		return f.submit()

	case "tab":
		return f, f.moveFocus(1)

	case "shift+tab":
		return f, f.moveFocus(-1)

	case "ctrl+d":
		if len(f.fabrics) > 0 {
			f.fabrics = f.fabrics[:len(f.fabrics)-1]
		}
		return f, nil

	case "left", "right":
		if f.focus == fieldStatus {
			delta := 1
			if keyMsg.String() == "left" {
				delta = -1
			}
			f.statusIndex = (f.statusIndex + delta + len(f.statuses)) % len(f.statuses)
			return f, nil
		}

	case "enter":
		switch f.focus {
		case fieldFabric:
			f.addFabric()
			return f, nil
		case fieldComments:
			// Newline in the textarea
		default:
			return f, f.moveFocus(1)
		}
	}

	return f.updateFocused(msg)
}

func (f ProjectForm) updateFocused(msg tea.Msg) (ProjectForm, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldStatus:
	case fieldComments:
		f.comments, cmd = f.comments.Update(msg)
	default:
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	}
	return f, cmd
}

// addFabric turns the fabric input into a chip
func (f *ProjectForm) addFabric() {
	fabric := strings.TrimSpace(f.inputs[fieldFabric].Value())
	if fabric == "" {
		return
	}
	f.fabrics = append(f.fabrics, fabric)
	f.inputs[fieldFabric].SetValue("")
}

func (f *ProjectForm) moveFocus(delta int) tea.Cmd {
	next := (int(f.focus) + delta + int(fieldCount)) % int(fieldCount)
	return f.setFocus(formField(next))
}

func (f *ProjectForm) setFocus(field formField) tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.comments.Blur()
	f.focus = field

	switch field {
	case fieldStatus:
		return nil
	case fieldComments:
		return f.comments.Focus()
	default:
		return f.inputs[field].Focus()
	}
}

func (f *ProjectForm) setValue(field formField, value string) {
	f.inputs[field].SetValue(value)
}

func (f ProjectForm) value(field formField) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

// untouched reports whether an edit form still holds the prefilled text
func (f ProjectForm) untouched(fields ...formField) bool {
	if !f.IsEditing() {
		return false
	}
	for _, field := range fields {
		if f.inputs[field].Value() != f.initial[field] {
			return false
		}
	}
	return true
}

// submit validates the input and emits a SubmitMsg. On failure the form
// keeps its contents and shows the message.
func (f ProjectForm) submit() (ProjectForm, tea.Cmd) {
	// A fabric typed but not yet added still counts
	f.addFabric()

	p, err := f.Project()
	if err != nil {
		f.err = err.Error()
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			if field, ok := fieldByName[ve.Field]; ok {
				f.setFocus(field)
			}
		}
		return f, nil
	}
	f.err = ""

	submit := SubmitMsg{EditingID: f.editingID}
	if f.IsEditing() {
		p.ID = f.editingID
		submit.Patch = model.PatchFromProject(p)
	} else {
		submit.Project = p
	}
	return f, func() tea.Msg { return submit }
}

var fieldByName = map[string]formField{
	"name":          fieldName,
	"projectDate":   fieldDate,
	"moneySpent":    fieldMoney,
	"fabricUsed":    fieldFabricUsed,
	"hours":         fieldHours,
	"minutes":       fieldMinutes,
	"instagramLink": fieldLink,
}

// Project builds a project from the current input
func (f ProjectForm) Project() (model.Project, error) {
	p := model.Project{
		Name:          f.value(fieldName),
		InstagramLink: f.value(fieldLink),
		Fabrics:       append([]string{}, f.fabrics...),
		Comments:      strings.TrimSpace(f.comments.Value()),
		Status:        f.Status(),
		PatternBrand:  f.value(fieldPattern),
		PurchasedFrom: f.value(fieldPurchased),
	}
	if f.IsEditing() {
		f.keepUntouchedText(&p)
	}
	if err := p.Validate(); err != nil {
		return model.Project{}, err
	}

	date, err := model.ParseDate(f.value(fieldDate))
	if err != nil {
		return model.Project{}, err
	}
	p.ProjectDate = date

	if f.untouched(fieldMoney) {
		p.MoneySpent = f.original.MoneySpent
	} else if p.MoneySpent, err = parseAmount("moneySpent", "Ausgaben", f.value(fieldMoney)); err != nil {
		return model.Project{}, err
	}
	if f.untouched(fieldFabricUsed) {
		p.FabricUsed = f.original.FabricUsed
	} else if p.FabricUsed, err = parseAmount("fabricUsed", "Stoff", f.value(fieldFabricUsed)); err != nil {
		return model.Project{}, err
	}

	// Hours and minutes hold whole minutes only
	if f.untouched(fieldHours, fieldMinutes) {
		p.TimeSpent = f.original.TimeSpent
		return p, nil
	}
	hours, err := parseCount("hours", "Stunden", f.value(fieldHours))
	if err != nil {
		return model.Project{}, err
	}
	minutes, err := parseCount("minutes", "Minuten", f.value(fieldMinutes))
	if err != nil {
		return model.Project{}, err
	}
	if minutes > 59 {
		return model.Project{}, &model.ValidationError{Field: "minutes", Message: "Minuten müssen zwischen 0 und 59 liegen"}
	}
	p.TimeSpent = model.JoinHours(hours, minutes)

	return p, nil
}

// keepUntouchedText restores the stored text of fields the user did not
// edit, so trimming and status casing never rewrite them
func (f ProjectForm) keepUntouchedText(p *model.Project) {
	text := []struct {
		field formField
		dst   *string
		src   string
	}{
		{fieldName, &p.Name, f.original.Name},
		{fieldLink, &p.InstagramLink, f.original.InstagramLink},
		{fieldPattern, &p.PatternBrand, f.original.PatternBrand},
		{fieldPurchased, &p.PurchasedFrom, f.original.PurchasedFrom},
	}
	for _, t := range text {
		if f.untouched(t.field) {
			*t.dst = t.src
		}
	}
	if f.comments.Value() == f.initialComments {
		p.Comments = f.original.Comments
	}
	if f.statusIndex == f.initialStatus {
		p.Status = f.original.Status
	}
}

// parseAmount parses a non-negative decimal. Empty input is zero and a
// decimal comma is accepted.
func parseAmount(field, label, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &model.ValidationError{Field: field, Message: fmt.Sprintf("%s: ungültige Zahl %q", label, s)}
	}
	if v < 0 {
		return 0, &model.ValidationError{Field: field, Message: fmt.Sprintf("%s darf nicht negativ sein", label)}
	}
	return v, nil
}

func parseCount(field, label, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &model.ValidationError{Field: field, Message: fmt.Sprintf("%s: ungültige Zahl %q", label, s)}
	}
	if n < 0 {
		return 0, &model.ValidationError{Field: field, Message: fmt.Sprintf("%s darf nicht negativ sein", label)}
	}
	return n, nil
}

// formatAmount renders v for an input field; zero stays empty
func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// View renders the form
func (f ProjectForm) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder

	title := "Neues Projekt"
	if f.IsEditing() {
		title = "Projekt bearbeiten"
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n\n")

	label := func(field formField, text string) string {
		style := styles.Label
		if f.focus == field {
			style = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
		}
		return style.Render(text)
	}

	row := func(field formField, text string) {
		b.WriteString(label(field, text))
		b.WriteString(" ")
		b.WriteString(f.inputs[field].View())
		b.WriteString("\n")
	}

	row(fieldName, "Projektname *")
	b.WriteString(label(fieldStatus, "Status"))
	b.WriteString(" ")
	b.WriteString(f.renderStatus())
	b.WriteString("\n")
	row(fieldDate, "Projektdatum")

	row(fieldFabric, "Verwendete Stoffe")
	if len(f.fabrics) > 0 {
		var chips []string
		for _, fabric := range f.fabrics {
			chips = append(chips, styles.Tag.Render(fabric))
		}
		b.WriteString("  ")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chips...))
		b.WriteString("\n")
	}

	row(fieldMoney, "Ausgaben (€)")
	row(fieldFabricUsed, "Stoff (Meter)")
	b.WriteString(label(fieldHours, "Zeit"))
	b.WriteString(" ")
	b.WriteString(f.inputs[fieldHours].View())
	b.WriteString(label(fieldMinutes, " h "))
	b.WriteString(f.inputs[fieldMinutes].View())
	b.WriteString(styles.Label.Render(" min"))
	b.WriteString("\n")
	row(fieldPattern, "Schnitt/Label")
	row(fieldPurchased, "Gekauft bei")
	row(fieldLink, "Instagram Link")

	b.WriteString(label(fieldComments, "Kommentare"))
	b.WriteString("\n")
	b.WriteString(f.comments.View())
	b.WriteString("\n")

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render(f.err))
		b.WriteString("\n")
	}

	hintStyle := lipgloss.NewStyle().Foreground(t.Subtle).Italic(true)
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab next • ←/→ status • enter add fabric • ctrl+d remove fabric • ctrl+s save • esc cancel"))

	style := styles.Panel
	if f.width > 0 {
		style = style.Width(f.width - 2)
	}
	return style.Render(b.String())
}

func (f ProjectForm) renderStatus() string {
	status := f.Status()
	text := "-- Bitte wählen --"
	if status != "" {
		text = status
	}
	badge := theme.StatusStyleFor(status).Badge(text)
	if f.focus == fieldStatus {
		arrows := lipgloss.NewStyle().Foreground(theme.Current.Theme.Primary)
		return arrows.Render("← ") + badge + arrows.Render(" →")
	}
	return badge
}
