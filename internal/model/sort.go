package model

import (
	"fmt"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects how a project collection is ordered
type SortMode int

const (
	SortDateDesc SortMode = iota
	SortDateAsc
	SortName
)

func (m SortMode) String() string {
	switch m {
	case SortDateAsc:
		return "date-asc"
	case SortName:
		return "name"
	default:
		return "date-desc"
	}
}

// Label returns the display name used by the sort selector
func (m SortMode) Label() string {
	switch m {
	case SortDateAsc:
		return "Älteste zuerst"
	case SortName:
		return "Projektname"
	default:
		return "Neueste zuerst"
	}
}

// Next cycles through the sort modes in selector order
func (m SortMode) Next() SortMode {
	switch m {
	case SortDateDesc:
		return SortDateAsc
	case SortDateAsc:
		return SortName
	default:
		return SortDateDesc
	}
}

// ParseSortMode parses "name", "date-desc" or "date-asc"
func ParseSortMode(s string) (SortMode, error) {
	switch s {
	case "date-desc", "":
		return SortDateDesc, nil
	case "date-asc":
		return SortDateAsc, nil
	case "name":
		return SortName, nil
	}
	return SortDateDesc, fmt.Errorf("unknown sort mode %q (name, date-desc, date-asc)", s)
}

// SortedBy returns a stably sorted copy of projects; the input is not modified.
// Undated projects count as the epoch, so they sort last under SortDateDesc
// and first under SortDateAsc.
func SortedBy(projects []Project, mode SortMode) []Project {
	sorted := slices.Clone(projects)

	switch mode {
	case SortName:
		c := collate.New(language.German)
		slices.SortStableFunc(sorted, func(a, b Project) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortDateAsc:
		slices.SortStableFunc(sorted, func(a, b Project) int {
			return dateKey(a).Compare(dateKey(b))
		})
	default:
		slices.SortStableFunc(sorted, func(a, b Project) int {
			return dateKey(b).Compare(dateKey(a))
		})
	}

	return sorted
}

func dateKey(p Project) time.Time {
	if p.ProjectDate == nil {
		return time.Unix(0, 0).UTC()
	}
	return *p.ProjectDate
}
