package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestInsertAssignsIdentityAndTimestamps(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	row, err := db.InsertProject(ctx, ProjectRow{
		ID:         "client-supplied",
		Name:       "Summer Dress",
		Fabrics:    []string{"cotton", "lining", "cotton"},
		MoneySpent: floatPtr(12.5),
		Status:     strPtr("Fertig"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, row.ID)
	assert.NotEqual(t, "client-supplied", row.ID)
	assert.False(t, row.CreatedAt.IsZero())
	assert.Equal(t, row.CreatedAt, row.UpdatedAt)
	assert.Equal(t, []string{"cotton", "lining", "cotton"}, row.Fabrics)
	require.NotNil(t, row.FabricUsed)
	assert.Equal(t, 0.0, *row.FabricUsed)
	assert.Nil(t, row.Comments)
}

func TestSelectProjectMissing(t *testing.T) {
	db := openTestDB(t)

	_, err := db.SelectProject(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestSelectProjectsOrdering(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	insert := func(name string, date *string) {
		_, err := db.InsertProject(ctx, ProjectRow{Name: name, ProjectDate: date})
		require.NoError(t, err)
		// created_at has microsecond precision
		time.Sleep(2 * time.Millisecond)
	}

	insert("undated-old", nil)
	insert("january", strPtr("2024-01-01"))
	insert("june", strPtr("2024-06-01"))
	insert("undated-new", nil)
	insert("june-later", strPtr("2024-06-01"))

	rows, err := db.SelectProjects(ctx)
	require.NoError(t, err)

	var names []string
	for _, r := range rows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"june-later", "june", "january", "undated-new", "undated-old"}, names)
}

func TestUpdateProjectPartial(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	original, err := db.InsertProject(ctx, ProjectRow{
		Name:         "Rock",
		Fabrics:      []string{"Wolle"},
		Comments:     strPtr("Futter fehlt"),
		PatternBrand: strPtr("Burda"),
	})
	require.NoError(t, err)

	updated, err := db.UpdateProject(ctx, original.ID, RowPatch{
		TimeSpent: floatPtr(3.5),
		Comments:  SetTo[string](nil),
	})
	require.NoError(t, err)

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "Rock", updated.Name)
	assert.Equal(t, []string{"Wolle"}, updated.Fabrics)
	assert.Equal(t, "Burda", *updated.PatternBrand)
	assert.Nil(t, updated.Comments)
	assert.Equal(t, 3.5, *updated.TimeSpent)
	assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)

	// An empty patch still refreshes updated_at
	again, err := db.UpdateProject(ctx, original.ID, RowPatch{})
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))
}

func TestUpdateProjectMissing(t *testing.T) {
	db := openTestDB(t)

	_, err := db.UpdateProject(context.Background(), "nope", RowPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	row, err := db.InsertProject(ctx, ProjectRow{Name: "Tasche"})
	require.NoError(t, err)

	require.NoError(t, db.DeleteProject(ctx, row.ID))
	// Deleting again is a no-op
	require.NoError(t, db.DeleteProject(ctx, row.ID))

	rows, err := db.SelectProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestProjectTotals(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	totals, err := db.ProjectTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, Totals{}, totals)

	_, err = db.InsertProject(ctx, ProjectRow{Name: "a", MoneySpent: floatPtr(10), TimeSpent: floatPtr(1.5)})
	require.NoError(t, err)
	_, err = db.InsertProject(ctx, ProjectRow{Name: "b", MoneySpent: floatPtr(2.5), FabricUsed: floatPtr(2)})
	require.NoError(t, err)

	totals, err = db.ProjectTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, Totals{Count: 2, MoneySpent: 12.5, FabricUsed: 2, TimeSpent: 1.5}, totals)
}

// TestNestedQueriesNoDeadlock guards against holding the single SQLite
// connection open while issuing a second query (SetMaxOpenConns(1)).
func TestNestedQueriesNoDeadlock(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	for _, name := range []string{"a", "b", "c"} {
		_, err := db.InsertProject(ctx, ProjectRow{Name: name})
		require.NoError(t, err)
	}

	done := make(chan error, 1)
	go func() {
		rows, err := db.SelectProjects(ctx)
		if err != nil {
			done <- err
			return
		}
		for _, r := range rows {
			if _, err := db.UpdateProject(ctx, r.ID, RowPatch{Status: SetTo(strPtr("Idee"))}); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out - possible deadlock detected")
	}
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	boom := errors.New("boom")
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO projects (id, name, fabrics, created_at, updated_at)
			VALUES ('tx', 'Rolled back', '[]', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = db.SelectProject(ctx, "tx")
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestReopenKeepsProjects(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	db, err := Open(path)
	require.NoError(t, err)
	row, err := db.InsertProject(ctx, ProjectRow{Name: "Tote Bag"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.SelectProject(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tote Bag", got.Name)
}
