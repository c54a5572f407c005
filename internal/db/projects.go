package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayout keeps timestamps lexically sortable in TEXT columns
const timeLayout = "2006-01-02T15:04:05.000000Z"

const projectColumns = `id, name, instagram_link, fabrics, money_spent, fabric_used, time_spent,
       comments, project_date, status, pattern_brand, purchased_from, created_at, updated_at`

// SelectProjects returns all rows, newest project date first (undated last),
// then newest created first
func (db *DB) SelectProjects(ctx context.Context) ([]ProjectRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY project_date DESC NULLS LAST, created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []ProjectRow
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// SelectProject returns a single row by ID, or ErrNoRows
func (db *DB) SelectProject(ctx context.Context, id string) (ProjectRow, error) {
	return selectProject(ctx, db.DB, id)
}

// InsertProject stores a new row. The ID and both timestamps are assigned here.
func (db *DB) InsertProject(ctx context.Context, row ProjectRow) (ProjectRow, error) {
	row.ID = uuid.New().String()
	now := Timestamp()
	row.CreatedAt = now
	row.UpdatedAt = now
	if row.Fabrics == nil {
		row.Fabrics = []string{}
	}

	fabrics, err := json.Marshal(row.Fabrics)
	if err != nil {
		return ProjectRow{}, fmt.Errorf("failed to encode fabrics: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO projects (id, name, instagram_link, fabrics, money_spent, fabric_used, time_spent,
		                      comments, project_date, status, pattern_brand, purchased_from, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, row.ID, row.Name, row.InstagramLink, string(fabrics),
		numberOrZero(row.MoneySpent), numberOrZero(row.FabricUsed), numberOrZero(row.TimeSpent),
		row.Comments, row.ProjectDate, row.Status, row.PatternBrand, row.PurchasedFrom,
		formatTime(now), formatTime(now))
	if err != nil {
		return ProjectRow{}, err
	}

	return db.SelectProject(ctx, row.ID)
}

// UpdateProject writes the supplied columns and always refreshes updated_at.
// Returns ErrNoRows when the ID does not exist.
func (db *DB) UpdateProject(ctx context.Context, id string, patch RowPatch) (ProjectRow, error) {
	var updated ProjectRow
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		current, err := selectProject(ctx, tx, id)
		if err != nil {
			return err
		}

		sets, args, err := patchAssignments(patch)
		if err != nil {
			return err
		}
		sets = append(sets, "updated_at = ?")
		args = append(args, formatTime(NextUpdatedAt(current.UpdatedAt)), id)

		query := fmt.Sprintf("UPDATE projects SET %s WHERE id = ?", strings.Join(sets, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}

		updated, err = selectProject(ctx, tx, id)
		return err
	})
	if err != nil {
		return ProjectRow{}, err
	}
	return updated, nil
}

// DeleteProject removes a row. Deleting a missing ID is not an error.
func (db *DB) DeleteProject(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}

// ProjectTotals sums the numeric columns across all rows
func (db *DB) ProjectTotals(ctx context.Context) (Totals, error) {
	var t Totals
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(money_spent), 0),
		       COALESCE(SUM(fabric_used), 0),
		       COALESCE(SUM(time_spent), 0)
		FROM projects
	`).Scan(&t.Count, &t.MoneySpent, &t.FabricUsed, &t.TimeSpent)
	return t, err
}

// Helper functions

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func selectProject(ctx context.Context, q queryer, id string) (ProjectRow, error) {
	row := q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return ProjectRow{}, ErrNoRows
	}
	return p, err
}

func scanProject(s scanner) (ProjectRow, error) {
	var p ProjectRow
	var fabrics sql.NullString
	var money, fabric, spent sql.NullFloat64
	var createdAt, updatedAt string

	err := s.Scan(
		&p.ID, &p.Name, &p.InstagramLink, &fabrics, &money, &fabric, &spent,
		&p.Comments, &p.ProjectDate, &p.Status, &p.PatternBrand, &p.PurchasedFrom,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return ProjectRow{}, err
	}

	if fabrics.Valid && fabrics.String != "" {
		if err := json.Unmarshal([]byte(fabrics.String), &p.Fabrics); err != nil {
			return ProjectRow{}, fmt.Errorf("failed to decode fabrics of %s: %w", p.ID, err)
		}
	}
	if money.Valid {
		p.MoneySpent = &money.Float64
	}
	if fabric.Valid {
		p.FabricUsed = &fabric.Float64
	}
	if spent.Valid {
		p.TimeSpent = &spent.Float64
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return ProjectRow{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return ProjectRow{}, err
	}

	return p, nil
}

func patchAssignments(patch RowPatch) ([]string, []any, error) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.InstagramLink.Set {
		add("instagram_link", patch.InstagramLink.Value)
	}
	if patch.Fabrics != nil {
		fabrics := *patch.Fabrics
		if fabrics == nil {
			fabrics = []string{}
		}
		encoded, err := json.Marshal(fabrics)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode fabrics: %w", err)
		}
		add("fabrics", string(encoded))
	}
	if patch.MoneySpent != nil {
		add("money_spent", *patch.MoneySpent)
	}
	if patch.FabricUsed != nil {
		add("fabric_used", *patch.FabricUsed)
	}
	if patch.TimeSpent != nil {
		add("time_spent", *patch.TimeSpent)
	}
	if patch.Comments.Set {
		add("comments", patch.Comments.Value)
	}
	if patch.ProjectDate.Set {
		add("project_date", patch.ProjectDate.Value)
	}
	if patch.Status.Set {
		add("status", patch.Status.Value)
	}
	if patch.PatternBrand.Set {
		add("pattern_brand", patch.PatternBrand.Value)
	}
	if patch.PurchasedFrom.Set {
		add("purchased_from", patch.PurchasedFrom.Value)
	}

	return sets, args, nil
}

func numberOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by other tools may use RFC 3339
		if t2, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
			return t2.UTC(), nil
		}
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
