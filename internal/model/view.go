package model

import "fmt"

// ViewMode selects how the project collection is rendered
type ViewMode string

const (
	ViewCards ViewMode = "cards"
	ViewList  ViewMode = "list"
)

// Toggle switches between cards and list
func (v ViewMode) Toggle() ViewMode {
	if v == ViewList {
		return ViewCards
	}
	return ViewList
}

// Label returns the display name of the view mode
func (v ViewMode) Label() string {
	if v == ViewList {
		return "Liste"
	}
	return "Karten"
}

// ParseViewMode parses "cards" or "list"
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewCards, ViewList:
		return ViewMode(s), nil
	}
	return ViewCards, fmt.Errorf("unknown view mode %q (cards, list)", s)
}
