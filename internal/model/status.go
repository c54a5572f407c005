package model

import "strings"

// Status labels offered by the project form. Status stays free text
// everywhere else; unknown labels are displayed as-is.
const (
	StatusIdea          = "Idee"
	StatusInProgress    = "In Bearbeitung"
	StatusPlannedSpring = "Geplant für Frühling"
	StatusPlannedSummer = "Geplant für Sommer"
	StatusPlannedAutumn = "Geplant für Herbst"
	StatusPlannedWinter = "Geplant für Winter"
	StatusDone          = "Fertig"
)

// Statuses lists the status vocabulary in form order
var Statuses = []string{
	StatusIdea,
	StatusInProgress,
	StatusPlannedSpring,
	StatusPlannedSummer,
	StatusPlannedAutumn,
	StatusPlannedWinter,
	StatusDone,
}

// StatusFamily groups status labels that share a color
type StatusFamily int

const (
	FamilyNone StatusFamily = iota
	FamilyIdea
	FamilyInProgress
	FamilyPlanned
	FamilyDone
)

func (f StatusFamily) String() string {
	switch f {
	case FamilyIdea:
		return "idee"
	case FamilyInProgress:
		return "in-bearbeitung"
	case FamilyPlanned:
		return "geplant"
	case FamilyDone:
		return "fertig"
	default:
		return "none"
	}
}

// StatusFamilyOf classifies a free-text status label.
// Matching is case-insensitive; all "geplant ..." variants share one family.
func StatusFamilyOf(status string) StatusFamily {
	s := strings.ToLower(strings.TrimSpace(status))
	switch {
	case s == "":
		return FamilyNone
	case s == "fertig":
		return FamilyDone
	case s == "in bearbeitung":
		return FamilyInProgress
	case strings.HasPrefix(s, "geplant"):
		return FamilyPlanned
	case s == "idee":
		return FamilyIdea
	default:
		return FamilyNone
	}
}

// MatchStatus resolves user input to a vocabulary label.
// Exact (case-insensitive) matches win, then unique prefixes, and a bare
// season name maps to its "Geplant für" label. Unknown input is returned trimmed.
func MatchStatus(input string) string {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return ""
	}
	for _, s := range Statuses {
		if strings.ToLower(s) == in {
			return s
		}
	}
	var found []string
	for _, s := range Statuses {
		lower := strings.ToLower(s)
		if strings.HasPrefix(lower, in) || strings.HasSuffix(lower, " "+in) {
			found = append(found, s)
		}
	}
	if len(found) == 1 {
		return found[0]
	}
	return strings.TrimSpace(input)
}
