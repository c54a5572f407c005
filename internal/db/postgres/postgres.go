// Package postgres implements the project row backend on a hosted PostgreSQL
// database, including a LISTEN/NOTIFY change feed.
package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dori/naehbuch/internal/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Channel is the NOTIFY channel written by the projects trigger
const Channel = "naehbuch_projects"

// DB wraps a pgx connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// Config holds database connection configuration
type Config struct {
	URL             string
	MaxConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Open creates a connection pool, verifies it and runs migrations
func Open(ctx context.Context, cfg Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConnections
	if poolConfig.MaxConns == 0 {
		// One connection is held by the change feed
		poolConfig.MaxConns = 4
	}
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	if poolConfig.MaxConnLifetime == 0 {
		poolConfig.MaxConnLifetime = time.Hour
	}
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	if poolConfig.MaxConnIdleTime == 0 {
		poolConfig.MaxConnIdleTime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d := &DB{Pool: pool}
	if err := d.migrate(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

func (d *DB) migrate() error {
	sqlDB := stdlib.OpenDBFromPool(d.Pool)
	defer sqlDB.Close()

	goose.SetLogger(log.New(io.Discard, "", 0))
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Ping verifies the pool can reach the server
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool
func (d *DB) Close() error {
	d.Pool.Close()
	return nil
}

const projectColumns = `id, name, instagram_link, fabrics, money_spent, fabric_used, time_spent,
       comments, to_char(project_date, 'YYYY-MM-DD'), status, pattern_brand, purchased_from,
       created_at, updated_at`

// SelectProjects returns all rows, newest project date first (undated last),
// then newest created first
func (d *DB) SelectProjects(ctx context.Context) ([]db.ProjectRow, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY project_date DESC NULLS LAST, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []db.ProjectRow
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

// SelectProject returns a single row by ID, or db.ErrNoRows
func (d *DB) SelectProject(ctx context.Context, id string) (db.ProjectRow, error) {
	row := d.Pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.ProjectRow{}, db.ErrNoRows
	}
	return p, err
}

// InsertProject stores a new row; the server assigns the ID and timestamps
func (d *DB) InsertProject(ctx context.Context, row db.ProjectRow) (db.ProjectRow, error) {
	fabrics := row.Fabrics
	if fabrics == nil {
		fabrics = []string{}
	}

	query := `
		INSERT INTO projects (name, instagram_link, fabrics, money_spent, fabric_used, time_spent,
		                      comments, project_date, status, pattern_brand, purchased_from)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date, $9, $10, $11)
		RETURNING ` + projectColumns

	inserted, err := scanProject(d.Pool.QueryRow(ctx, query,
		row.Name, row.InstagramLink, fabrics,
		numberOrZero(row.MoneySpent), numberOrZero(row.FabricUsed), numberOrZero(row.TimeSpent),
		row.Comments, row.ProjectDate, row.Status, row.PatternBrand, row.PurchasedFrom,
	))
	if err != nil {
		return db.ProjectRow{}, err
	}
	return inserted, nil
}

// UpdateProject writes the supplied columns and always moves updated_at forward.
// Returns db.ErrNoRows when the ID does not exist.
func (d *DB) UpdateProject(ctx context.Context, id string, patch db.RowPatch) (db.ProjectRow, error) {
	sets, args := patchAssignments(patch)
	sets = append(sets, "updated_at = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), projectColumns)

	updated, err := scanProject(d.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return db.ProjectRow{}, db.ErrNoRows
	}
	if err != nil {
		return db.ProjectRow{}, err
	}
	return updated, nil
}

// DeleteProject removes a row. Deleting a missing ID is not an error.
func (d *DB) DeleteProject(ctx context.Context, id string) error {
	_, err := d.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

// ProjectTotals sums the numeric columns server side
func (d *DB) ProjectTotals(ctx context.Context) (db.Totals, error) {
	var t db.Totals
	err := d.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(money_spent), 0),
		       COALESCE(SUM(fabric_used), 0),
		       COALESCE(SUM(time_spent), 0)
		FROM projects`).Scan(&t.Count, &t.MoneySpent, &t.FabricUsed, &t.TimeSpent)
	return t, err
}

type notification struct {
	Op string `json:"op"`
	ID string `json:"id"`
}

// Watch listens on the projects channel and calls fn for every change until
// ctx is cancelled. Inserted and updated rows are re-read before delivery.
func (d *DB) Watch(ctx context.Context, fn func(db.ChangeEvent)) error {
	conn, err := d.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", Channel, err)
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed waiting for notification: %w", err)
		}

		var payload notification
		if err := json.Unmarshal([]byte(n.Payload), &payload); err != nil {
			continue
		}

		event := db.ChangeEvent{Op: db.ChangeOp(payload.Op), ID: payload.ID}
		if event.Op != db.OpDelete {
			row, err := d.SelectProject(ctx, payload.ID)
			if errors.Is(err, db.ErrNoRows) {
				// Deleted before we could read it
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("failed to read changed project %s: %w", payload.ID, err)
			}
			event.Row = &row
		}
		fn(event)
	}
}

// Helper functions

func scanProject(row pgx.Row) (db.ProjectRow, error) {
	var p db.ProjectRow
	err := row.Scan(
		&p.ID, &p.Name, &p.InstagramLink, &p.Fabrics, &p.MoneySpent, &p.FabricUsed, &p.TimeSpent,
		&p.Comments, &p.ProjectDate, &p.Status, &p.PatternBrand, &p.PurchasedFrom,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return db.ProjectRow{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func patchAssignments(patch db.RowPatch) ([]string, []any) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
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
		add("fabrics", fabrics)
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
		args = append(args, patch.ProjectDate.Value)
		sets = append(sets, fmt.Sprintf("project_date = $%d::date", len(args)))
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

	return sets, args
}

func numberOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
