package store

import (
	"strings"
	"time"

	"github.com/dori/naehbuch/internal/db"
	"github.com/dori/naehbuch/internal/model"
)

// ToDomain converts a stored row to a project. NULL columns become their
// zero values and fabrics are never nil.
func ToDomain(row db.ProjectRow) model.Project {
	p := model.Project{
		ID:            row.ID,
		Name:          row.Name,
		InstagramLink: text(row.InstagramLink),
		Fabrics:       append([]string{}, row.Fabrics...),
		MoneySpent:    number(row.MoneySpent),
		FabricUsed:    number(row.FabricUsed),
		TimeSpent:     number(row.TimeSpent),
		Comments:      text(row.Comments),
		Status:        text(row.Status),
		PatternBrand:  text(row.PatternBrand),
		PurchasedFrom: text(row.PurchasedFrom),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.ProjectDate != nil {
		// Backends only store YYYY-MM-DD; anything else is treated as unset
		if d, err := time.ParseInLocation(model.DateLayout, *row.ProjectDate, time.UTC); err == nil {
			p.ProjectDate = &d
		}
	}
	return p
}

// ToRow converts a project to a row. Empty optional text becomes NULL.
func ToRow(p model.Project) db.ProjectRow {
	fabrics := append([]string{}, p.Fabrics...)
	return db.ProjectRow{
		ID:            p.ID,
		Name:          p.Name,
		InstagramLink: nullable(p.InstagramLink),
		Fabrics:       fabrics,
		MoneySpent:    &p.MoneySpent,
		FabricUsed:    &p.FabricUsed,
		TimeSpent:     &p.TimeSpent,
		Comments:      nullable(p.Comments),
		ProjectDate:   date(p.ProjectDate),
		Status:        nullable(p.Status),
		PatternBrand:  nullable(p.PatternBrand),
		PurchasedFrom: nullable(p.PurchasedFrom),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// PatchToRow converts the supplied fields of a patch. A supplied empty
// optional text clears the column.
func PatchToRow(p model.Patch) db.RowPatch {
	var r db.RowPatch

	if p.Name != nil {
		name := *p.Name
		r.Name = &name
	}
	if p.InstagramLink != nil {
		r.InstagramLink = db.SetTo(nullable(*p.InstagramLink))
	}
	if p.Fabrics != nil {
		fabrics := append([]string{}, (*p.Fabrics)...)
		r.Fabrics = &fabrics
	}
	if p.MoneySpent != nil {
		v := *p.MoneySpent
		r.MoneySpent = &v
	}
	if p.FabricUsed != nil {
		v := *p.FabricUsed
		r.FabricUsed = &v
	}
	if p.TimeSpent != nil {
		v := *p.TimeSpent
		r.TimeSpent = &v
	}
	if p.Comments != nil {
		r.Comments = db.SetTo(nullable(*p.Comments))
	}
	if p.ProjectDate != nil {
		r.ProjectDate = db.SetTo(date(*p.ProjectDate))
	}
	if p.Status != nil {
		r.Status = db.SetTo(nullable(*p.Status))
	}
	if p.PatternBrand != nil {
		r.PatternBrand = db.SetTo(nullable(*p.PatternBrand))
	}
	if p.PurchasedFrom != nil {
		r.PurchasedFrom = db.SetTo(nullable(*p.PurchasedFrom))
	}

	return r
}

// ToChangeEvent converts a backend change to the domain shape
func ToChangeEvent(e db.ChangeEvent) model.ChangeEvent {
	out := model.ChangeEvent{ID: e.ID}
	switch e.Op {
	case db.OpInsert:
		out.Kind = model.ChangeInserted
	case db.OpUpdate:
		out.Kind = model.ChangeUpdated
	default:
		out.Kind = model.ChangeDeleted
	}
	if e.Row != nil {
		p := ToDomain(*e.Row)
		out.Project = &p
	}
	return out
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func number(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func date(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(model.DateLayout)
	return &s
}
