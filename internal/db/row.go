package db

import (
	"errors"
	"time"
)

// ErrNoRows is returned by backends when a project id does not exist
var ErrNoRows = errors.New("no rows")

// ProjectRow is a project as stored by a backend (snake_case columns).
// Nil pointers are NULL columns.
type ProjectRow struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	InstagramLink *string   `json:"instagram_link"`
	Fabrics       []string  `json:"fabrics"`
	MoneySpent    *float64  `json:"money_spent"`
	FabricUsed    *float64  `json:"fabric_used"`
	TimeSpent     *float64  `json:"time_spent"`
	Comments      *string   `json:"comments"`
	ProjectDate   *string   `json:"project_date"` // YYYY-MM-DD
	Status        *string   `json:"status"`
	PatternBrand  *string   `json:"pattern_brand"`
	PurchasedFrom *string   `json:"purchased_from"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RowPatch is a partial row update. A field is written only when its Set
// flag is true; a set field with a nil value writes NULL.
type RowPatch struct {
	Name          *string
	InstagramLink Nullable[string]
	Fabrics       *[]string
	MoneySpent    *float64
	FabricUsed    *float64
	TimeSpent     *float64
	Comments      Nullable[string]
	ProjectDate   Nullable[string]
	Status        Nullable[string]
	PatternBrand  Nullable[string]
	PurchasedFrom Nullable[string]
}

// Nullable is an optional write of a nullable column
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// SetTo returns a Nullable that writes v (nil means NULL)
func SetTo[T any](v *T) Nullable[T] {
	return Nullable[T]{Set: true, Value: v}
}

// Apply writes the patch onto a row in memory
func (p RowPatch) Apply(row ProjectRow) ProjectRow {
	if p.Name != nil {
		row.Name = *p.Name
	}
	if p.InstagramLink.Set {
		row.InstagramLink = p.InstagramLink.Value
	}
	if p.Fabrics != nil {
		row.Fabrics = append([]string{}, (*p.Fabrics)...)
	}
	if p.MoneySpent != nil {
		row.MoneySpent = p.MoneySpent
	}
	if p.FabricUsed != nil {
		row.FabricUsed = p.FabricUsed
	}
	if p.TimeSpent != nil {
		row.TimeSpent = p.TimeSpent
	}
	if p.Comments.Set {
		row.Comments = p.Comments.Value
	}
	if p.ProjectDate.Set {
		row.ProjectDate = p.ProjectDate.Value
	}
	if p.Status.Set {
		row.Status = p.Status.Value
	}
	if p.PatternBrand.Set {
		row.PatternBrand = p.PatternBrand.Value
	}
	if p.PurchasedFrom.Set {
		row.PurchasedFrom = p.PurchasedFrom.Value
	}
	return row
}

// Totals are the summed numeric columns of all project rows
type Totals struct {
	Count      int
	MoneySpent float64
	FabricUsed float64
	TimeSpent  float64
}

// ChangeOp is the operation carried by a change event
type ChangeOp string

const (
	OpInsert ChangeOp = "INSERT"
	OpUpdate ChangeOp = "UPDATE"
	OpDelete ChangeOp = "DELETE"
)

// ChangeEvent is a row-level change delivered by a backend change feed.
// Row is nil for deletes.
type ChangeEvent struct {
	Op  ChangeOp    `json:"op"`
	ID  string      `json:"id"`
	Row *ProjectRow `json:"row,omitempty"`
}

// Timestamp returns the current time at the precision every backend keeps
func Timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NextUpdatedAt returns a timestamp strictly after prev
func NextUpdatedAt(prev time.Time) time.Time {
	now := Timestamp()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}
