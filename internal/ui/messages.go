package ui

import (
	"github.com/dori/naehbuch/internal/model"
)

// Messages for inter-component communication

// projectsLoadedMsg contains a list result. seq identifies the load so that
// a slow, superseded load cannot overwrite a newer one.
type projectsLoadedMsg struct {
	seq      int
	projects []model.Project
	err      error
}

// projectSavedMsg indicates a create or update finished
type projectSavedMsg struct {
	project model.Project
	created bool
	err     error
}

// projectDeletedMsg indicates a delete finished
type projectDeletedMsg struct {
	id   string
	name string
	err  error
}

// prefsSavedMsg reports the result of persisting the view mode
type prefsSavedMsg struct {
	err error
}

// ChangeEventMsg carries a store change notification into the program
type ChangeEventMsg struct {
	Event model.ChangeEvent
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
