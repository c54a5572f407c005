package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dori/naehbuch/internal/db"
)

// record is one project in the camelCase file shape written by the browser
// version of the journal
type record struct {
	ID            flexString `json:"id"`
	Name          string     `json:"name"`
	InstagramLink string     `json:"instagramLink,omitempty"`
	Fabrics       []string   `json:"fabrics"`
	MoneySpent    flexNumber `json:"moneySpent"`
	FabricUsed    flexNumber `json:"fabricUsed"`
	TimeSpent     flexNumber `json:"timeSpent"`
	Comments      string     `json:"comments,omitempty"`
	ProjectDate   string     `json:"projectDate,omitempty"`
	Status        string     `json:"status,omitempty"`
	PatternBrand  string     `json:"patternBrand,omitempty"`
	PurchasedFrom string     `json:"purchasedFrom,omitempty"`
	CreatedAt     string     `json:"createdAt,omitempty"`
	UpdatedAt     string     `json:"updatedAt,omitempty"`
}

// flexString accepts a JSON string or number. Old exports used Date.now()
// as the project id.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*s = flexString(n.String())
	return nil
}

// flexNumber accepts a JSON number, a numeric string, "" or null.
// Form inputs were stored verbatim, so "12.50" is common.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		v = strings.TrimSpace(strings.Replace(v, ",", ".", 1))
		if v == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", v, err)
		}
		*n = flexNumber(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = flexNumber(f)
	return nil
}

// Decode reads a JSON array of projects. Records without timestamps get
// one derived from a millisecond id, or the current time.
func Decode(r io.Reader) ([]db.ProjectRow, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	rows := make([]db.ProjectRow, 0, len(records))
	for i, rec := range records {
		row, err := rec.toRow()
		if err != nil {
			return nil, fmt.Errorf("project %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Encode writes rows as an indented JSON array in the camelCase shape
func Encode(w io.Writer, rows []db.ProjectRow) error {
	records := make([]record, 0, len(rows))
	for _, row := range rows {
		records = append(records, fromRow(row))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

func (rec record) toRow() (db.ProjectRow, error) {
	row := db.ProjectRow{
		ID:            strings.TrimSpace(string(rec.ID)),
		Name:          rec.Name,
		InstagramLink: optional(rec.InstagramLink),
		Fabrics:       append([]string{}, rec.Fabrics...),
		MoneySpent:    number(rec.MoneySpent),
		FabricUsed:    number(rec.FabricUsed),
		TimeSpent:     number(rec.TimeSpent),
		Comments:      optional(rec.Comments),
		Status:        optional(rec.Status),
		PatternBrand:  optional(rec.PatternBrand),
		PurchasedFrom: optional(rec.PurchasedFrom),
	}

	if date := strings.TrimSpace(rec.ProjectDate); date != "" {
		// Browsers sometimes stored a full ISO timestamp
		if len(date) > len("2006-01-02") {
			date = date[:len("2006-01-02")]
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return db.ProjectRow{}, fmt.Errorf("invalid project date %q", rec.ProjectDate)
		}
		row.ProjectDate = &date
	}

	var err error
	if row.CreatedAt, err = parseTimestamp(rec.CreatedAt); err != nil {
		return db.ProjectRow{}, err
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = createdFromID(row.ID)
	}
	if row.UpdatedAt, err = parseTimestamp(rec.UpdatedAt); err != nil {
		return db.ProjectRow{}, err
	}
	if row.UpdatedAt.Before(row.CreatedAt) {
		row.UpdatedAt = row.CreatedAt
	}
	return row, nil
}

func fromRow(row db.ProjectRow) record {
	rec := record{
		ID:            flexString(row.ID),
		Name:          row.Name,
		InstagramLink: deref(row.InstagramLink),
		Fabrics:       row.Fabrics,
		MoneySpent:    flexNumber(derefNumber(row.MoneySpent)),
		FabricUsed:    flexNumber(derefNumber(row.FabricUsed)),
		TimeSpent:     flexNumber(derefNumber(row.TimeSpent)),
		Comments:      deref(row.Comments),
		ProjectDate:   deref(row.ProjectDate),
		Status:        deref(row.Status),
		PatternBrand:  deref(row.PatternBrand),
		PurchasedFrom: deref(row.PurchasedFrom),
	}
	if rec.Fabrics == nil {
		rec.Fabrics = []string{}
	}
	if !row.CreatedAt.IsZero() {
		rec.CreatedAt = row.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if !row.UpdatedAt.IsZero() {
		rec.UpdatedAt = row.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return rec
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC().Truncate(time.Microsecond), nil
}

// createdFromID recovers the creation time of ids minted with Date.now()
func createdFromID(id string) time.Time {
	ms, err := strconv.ParseInt(id, 10, 64)
	// 2001-09-09 .. 2286-11-20 in milliseconds
	if err == nil && ms >= 1e12 && ms < 1e13 {
		return time.UnixMilli(ms).UTC()
	}
	return db.Timestamp()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func number(n flexNumber) *float64 {
	f := float64(n)
	return &f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefNumber(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
