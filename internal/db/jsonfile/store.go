// Package jsonfile keeps all projects in a single JSON array on disk, the
// format the browser version of the journal used. The file is read once at
// open and rewritten in full after every mutation.
package jsonfile

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/dori/naehbuch/internal/db"
)

// Store is a file backed project backend
type Store struct {
	path string
	lock *flock.Flock

	mu   sync.Mutex
	rows []db.ProjectRow
}

// Open loads the file at path. A missing file is an empty journal.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	s := &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return s, nil
	}

	rows, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.New().String()
		}
	}
	s.rows = rows
	return s, nil
}

// Path returns the file the store writes to
func (s *Store) Path() string {
	return s.path
}

// SelectProjects returns all rows, newest project date first (undated last),
// then newest created first
func (s *Store) SelectProjects(ctx context.Context) ([]db.ProjectRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]db.ProjectRow, len(s.rows))
	for i, r := range s.rows {
		rows[i] = cloneRow(r)
	}
	slices.SortStableFunc(rows, compareRows)
	return rows, nil
}

// SelectProject returns a single row by ID, or db.ErrNoRows
func (s *Store) SelectProject(ctx context.Context, id string) (db.ProjectRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return db.ProjectRow{}, db.ErrNoRows
	}
	return cloneRow(s.rows[i]), nil
}

// InsertProject stores a new row with a fresh ID and timestamps
func (s *Store) InsertProject(ctx context.Context, row db.ProjectRow) (db.ProjectRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row = cloneRow(row)
	row.ID = uuid.New().String()
	now := db.Timestamp()
	row.CreatedAt = now
	row.UpdatedAt = now
	for _, n := range []**float64{&row.MoneySpent, &row.FabricUsed, &row.TimeSpent} {
		if *n == nil {
			zero := 0.0
			*n = &zero
		}
	}

	next := append([]db.ProjectRow{row}, s.rows...)
	if err := s.save(next); err != nil {
		return db.ProjectRow{}, err
	}
	s.rows = next
	return cloneRow(row), nil
}

// UpdateProject writes the supplied fields and moves updated_at forward.
// Returns db.ErrNoRows when the ID does not exist.
func (s *Store) UpdateProject(ctx context.Context, id string, patch db.RowPatch) (db.ProjectRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return db.ProjectRow{}, db.ErrNoRows
	}

	updated := patch.Apply(cloneRow(s.rows[i]))
	updated.ID = s.rows[i].ID
	updated.CreatedAt = s.rows[i].CreatedAt
	updated.UpdatedAt = db.NextUpdatedAt(s.rows[i].UpdatedAt)

	next := slices.Clone(s.rows)
	next[i] = updated
	if err := s.save(next); err != nil {
		return db.ProjectRow{}, err
	}
	s.rows = next
	return cloneRow(updated), nil
}

// DeleteProject removes a row. Deleting a missing ID is not an error.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	next := slices.Delete(slices.Clone(s.rows), i, i+1)
	if err := s.save(next); err != nil {
		return err
	}
	s.rows = next
	return nil
}

// ProjectTotals sums the numeric fields across all rows
func (s *Store) ProjectTotals(ctx context.Context) (db.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := db.Totals{Count: len(s.rows)}
	for _, r := range s.rows {
		t.MoneySpent += derefNumber(r.MoneySpent)
		t.FabricUsed += derefNumber(r.FabricUsed)
		t.TimeSpent += derefNumber(r.TimeSpent)
	}
	return t, nil
}

// Close is a no-op; every mutation is already on disk
func (s *Store) Close() error {
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.rows, func(r db.ProjectRow) bool { return r.ID == id })
}

// save replaces the file with rows. Caller holds s.mu.
func (s *Store) save(rows []db.ProjectRow) error {
	var buf bytes.Buffer
	if err := Encode(&buf, rows); err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", s.path, err)
	}
	defer s.lock.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write projects: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync projects: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

func compareRows(a, b db.ProjectRow) int {
	switch {
	case a.ProjectDate == nil && b.ProjectDate != nil:
		return 1
	case a.ProjectDate != nil && b.ProjectDate == nil:
		return -1
	case a.ProjectDate != nil && b.ProjectDate != nil:
		if c := cmp.Compare(*b.ProjectDate, *a.ProjectDate); c != 0 {
			return c
		}
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

func cloneRow(r db.ProjectRow) db.ProjectRow {
	if r.Fabrics == nil {
		r.Fabrics = []string{}
	} else {
		r.Fabrics = slices.Clone(r.Fabrics)
	}
	return r
}
