package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the wire and input format of a project date
const DateLayout = "2006-01-02"

// Project represents a single sewing journal entry
type Project struct {
	ID            string     `json:"id,omitempty"`
	Name          string     `json:"name"`
	InstagramLink string     `json:"instagramLink,omitempty"`
	Fabrics       []string   `json:"fabrics"`
	MoneySpent    float64    `json:"moneySpent"`
	FabricUsed    float64    `json:"fabricUsed"` // Meters
	TimeSpent     float64    `json:"timeSpent"`  // Decimal hours
	Comments      string     `json:"comments,omitempty"`
	ProjectDate   *time.Time `json:"projectDate,omitempty"`
	Status        string     `json:"status,omitempty"`
	PatternBrand  string     `json:"patternBrand,omitempty"`
	PurchasedFrom string     `json:"purchasedFrom,omitempty"`
	CreatedAt     time.Time  `json:"createdAt,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt,omitempty"`
}

// HasDetails reports whether the project has anything worth a details block
func (p *Project) HasDetails() bool {
	return p.MoneySpent != 0 || p.FabricUsed != 0 || p.TimeSpent != 0 ||
		p.PatternBrand != "" || p.PurchasedFrom != "" || len(p.Fabrics) > 0
}

// DateString returns the project date as YYYY-MM-DD, or "" when unset
func (p *Project) DateString() string {
	if p.ProjectDate == nil {
		return ""
	}
	return p.ProjectDate.Format(DateLayout)
}

// Validate checks the fields the creation form enforces
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "Projektname ist erforderlich"}
	}
	return nil
}

// Patch describes a partial update. Nil fields are left unchanged.
type Patch struct {
	Name          *string
	InstagramLink *string
	Fabrics       *[]string
	MoneySpent    *float64
	FabricUsed    *float64
	TimeSpent     *float64
	Comments      *string
	ProjectDate   **time.Time
	Status        *string
	PatternBrand  *string
	PurchasedFrom *string
}

// IsEmpty reports whether no field is supplied
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.InstagramLink == nil && p.Fabrics == nil &&
		p.MoneySpent == nil && p.FabricUsed == nil && p.TimeSpent == nil &&
		p.Comments == nil && p.ProjectDate == nil && p.Status == nil &&
		p.PatternBrand == nil && p.PurchasedFrom == nil
}

// PatchFromProject supplies every editable field of p
func PatchFromProject(p Project) Patch {
	fabrics := append([]string{}, p.Fabrics...)
	date := p.ProjectDate
	return Patch{
		Name:          &p.Name,
		InstagramLink: &p.InstagramLink,
		Fabrics:       &fabrics,
		MoneySpent:    &p.MoneySpent,
		FabricUsed:    &p.FabricUsed,
		TimeSpent:     &p.TimeSpent,
		Comments:      &p.Comments,
		ProjectDate:   &date,
		Status:        &p.Status,
		PatternBrand:  &p.PatternBrand,
		PurchasedFrom: &p.PurchasedFrom,
	}
}

// Apply returns a copy of p with the supplied fields replaced
func (p Patch) Apply(project Project) Project {
	if p.Name != nil {
		project.Name = *p.Name
	}
	if p.InstagramLink != nil {
		project.InstagramLink = *p.InstagramLink
	}
	if p.Fabrics != nil {
		project.Fabrics = append([]string{}, (*p.Fabrics)...)
	}
	if p.MoneySpent != nil {
		project.MoneySpent = *p.MoneySpent
	}
	if p.FabricUsed != nil {
		project.FabricUsed = *p.FabricUsed
	}
	if p.TimeSpent != nil {
		project.TimeSpent = *p.TimeSpent
	}
	if p.Comments != nil {
		project.Comments = *p.Comments
	}
	if p.ProjectDate != nil {
		project.ProjectDate = *p.ProjectDate
	}
	if p.Status != nil {
		project.Status = *p.Status
	}
	if p.PatternBrand != nil {
		project.PatternBrand = *p.PatternBrand
	}
	if p.PurchasedFrom != nil {
		project.PurchasedFrom = *p.PurchasedFrom
	}
	return project
}

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
// An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, &ValidationError{Field: "projectDate", Message: fmt.Sprintf("ungültiges Datum %q (JJJJ-MM-TT)", s)}
	}
	return &t, nil
}

// DateOf truncates t to its calendar date in UTC
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SplitHours decomposes decimal hours into whole hours and minutes
func SplitHours(h float64) (hours, minutes int) {
	total := int(math.Round(h * 60))
	if total < 0 {
		total = 0
	}
	return total / 60, total % 60
}

// JoinHours recomposes hours and minutes into decimal hours
func JoinHours(hours, minutes int) float64 {
	return float64(hours) + float64(minutes)/60
}

// FormatDuration renders decimal hours as "2h 30m", "2h" or "30m"
func FormatDuration(h float64) string {
	hours, minutes := SplitHours(h)
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// FormatMoney renders an amount in euros
func FormatMoney(v float64) string {
	return fmt.Sprintf("%.2f€", v)
}

// FormatFabric renders a fabric length in meters
func FormatFabric(v float64) string {
	return fmt.Sprintf("%.1fm", v)
}

// ValidationError is a client-side input error caught before any store call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
