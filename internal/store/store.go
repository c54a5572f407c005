// Package store is the domain-level access layer over a project backend.
// It maps rows to projects, validates input, normalises errors and fans
// change notifications out to subscribers.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dori/naehbuch/internal/db"
	"github.com/dori/naehbuch/internal/logging"
	"github.com/dori/naehbuch/internal/model"
)

// Backend stores project rows
type Backend interface {
	SelectProjects(ctx context.Context) ([]db.ProjectRow, error)
	SelectProject(ctx context.Context, id string) (db.ProjectRow, error)
	InsertProject(ctx context.Context, row db.ProjectRow) (db.ProjectRow, error)
	UpdateProject(ctx context.Context, id string, patch db.RowPatch) (db.ProjectRow, error)
	DeleteProject(ctx context.Context, id string) error
	ProjectTotals(ctx context.Context) (db.Totals, error)
	Close() error
}

// Watcher is a backend with its own change feed. Watch blocks until ctx is
// cancelled or the feed fails.
type Watcher interface {
	Watch(ctx context.Context, fn func(db.ChangeEvent)) error
}

// Pinger is a backend that can check its connection
type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	watchInitialDelay = 500 * time.Millisecond
	watchMaxDelay     = 30 * time.Second
)

// Store provides project operations over a Backend
type Store struct {
	backend Backend
	logger  *zap.Logger

	mu      sync.Mutex
	subs    map[int]func(model.ChangeEvent)
	nextSub int
	stop    context.CancelFunc
	stopped chan struct{}
}

// New wraps backend. A nil logger discards log output.
func New(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backend: backend,
		logger:  logger.Named("store"),
		subs:    make(map[int]func(model.ChangeEvent)),
	}
}

// Ping checks the backend connection when the backend supports it
func (s *Store) Ping(ctx context.Context) error {
	p, ok := s.backend.(Pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return s.fail("ping", "failed to reach database", err)
	}
	return nil
}

// List returns all projects, newest project date first (undated last),
// then newest created first
func (s *Store) List(ctx context.Context) ([]model.Project, error) {
	rows, err := s.backend.SelectProjects(ctx)
	if err != nil {
		return nil, s.fail("list", "failed to load projects", err)
	}

	projects := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, ToDomain(row))
	}
	return projects, nil
}

// Get returns a single project, or nil when it does not exist
func (s *Store) Get(ctx context.Context, id string) (*model.Project, error) {
	row, err := s.backend.SelectProject(ctx, id)
	if errors.Is(err, db.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get", "failed to load project", err)
	}
	p := ToDomain(row)
	return &p, nil
}

// Create validates and stores a new project. The backend assigns the ID and
// timestamps; any supplied by the caller are ignored.
func (s *Store) Create(ctx context.Context, p model.Project) (model.Project, error) {
	if err := p.Validate(); err != nil {
		return model.Project{}, err
	}

	row := ToRow(p)
	row.ID = ""
	row.CreatedAt = time.Time{}
	row.UpdatedAt = time.Time{}

	inserted, err := s.backend.InsertProject(ctx, row)
	if err != nil {
		return model.Project{}, s.fail("create", "failed to create project", err)
	}

	created := ToDomain(inserted)
	s.logger.Debug("project created", zap.String("id", created.ID))
	s.publishLocal(model.ChangeEvent{Kind: model.ChangeInserted, ID: created.ID, Project: &created})
	return created, nil
}

// Update writes the supplied fields of patch. Updating a missing project
// fails with an error wrapping ErrNotFound.
func (s *Store) Update(ctx context.Context, id string, patch model.Patch) (model.Project, error) {
	if patch.Name != nil {
		check := model.Project{Name: *patch.Name}
		if err := check.Validate(); err != nil {
			return model.Project{}, err
		}
	}

	row, err := s.backend.UpdateProject(ctx, id, PatchToRow(patch))
	if errors.Is(err, db.ErrNoRows) {
		return model.Project{}, s.fail("update", "failed to update project", ErrNotFound)
	}
	if err != nil {
		return model.Project{}, s.fail("update", "failed to update project", err)
	}

	updated := ToDomain(row)
	s.logger.Debug("project updated", zap.String("id", id))
	s.publishLocal(model.ChangeEvent{Kind: model.ChangeUpdated, ID: id, Project: &updated})
	return updated, nil
}

// Delete removes a project. Deleting a missing project succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteProject(ctx, id); err != nil {
		return s.fail("delete", "failed to delete project", err)
	}

	s.logger.Debug("project deleted", zap.String("id", id))
	s.publishLocal(model.ChangeEvent{Kind: model.ChangeDeleted, ID: id})
	return nil
}

// AggregateStats returns totals over every stored project
func (s *Store) AggregateStats(ctx context.Context) (model.Stats, error) {
	t, err := s.backend.ProjectTotals(ctx)
	if err != nil {
		return model.Stats{}, s.fail("stats", "failed to load statistics", err)
	}
	return model.Stats{
		Count:       t.Count,
		TotalMoney:  t.MoneySpent,
		TotalFabric: t.FabricUsed,
		TotalTime:   t.TimeSpent,
	}, nil
}

// Subscribe registers fn for change notifications and returns a function
// that unregisters it. With a watching backend the events come from the
// backend feed and include changes made by other clients; otherwise they are
// this store's own successful mutations. fn runs on a background goroutine
// for backend feeds and must not block.
func (s *Store) Subscribe(fn func(model.ChangeEvent)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	if len(s.subs) == 1 {
		s.startWatch()
	}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			if len(s.subs) == 0 {
				// Not waited on: fn may be the caller
				s.stopWatch()
			}
		})
	}
}

// Close stops the change feed and closes the backend
func (s *Store) Close() error {
	s.mu.Lock()
	s.subs = make(map[int]func(model.ChangeEvent))
	wait := s.stopWatch()
	s.mu.Unlock()
	if wait != nil {
		<-wait
	}
	return s.backend.Close()
}

// publishLocal delivers an event produced by this store when the backend has
// no feed of its own
func (s *Store) publishLocal(e model.ChangeEvent) {
	if _, ok := s.backend.(Watcher); ok {
		return
	}
	s.publish(e)
}

func (s *Store) publish(e model.ChangeEvent) {
	s.mu.Lock()
	fns := make([]func(model.ChangeEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// startWatch runs the backend feed until stopWatch. Caller holds s.mu.
func (s *Store) startWatch() {
	w, ok := s.backend.(Watcher)
	if !ok || s.stop != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.stop = cancel
	s.stopped = done

	go func() {
		defer close(done)
		delay := watchInitialDelay
		for {
			err := w.Watch(ctx, func(e db.ChangeEvent) {
				s.publish(ToChangeEvent(e))
			})
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				s.logger.Warn("change feed failed, reconnecting",
					zap.String("error", logging.SanitizeError(err)),
					zap.Duration("delay", delay))
			}
			select {
			case <-time.After(delay):
				delay *= 2
				if delay > watchMaxDelay {
					delay = watchMaxDelay
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// stopWatch cancels the feed and returns a channel closed when it has
// exited, or nil when none was running. Caller holds s.mu.
func (s *Store) stopWatch() chan struct{} {
	if s.stop == nil {
		return nil
	}
	s.stop()
	done := s.stopped
	s.stop = nil
	s.stopped = nil
	return done
}

// fail logs err and wraps it as a store error
func (s *Store) fail(op, message string, err error) error {
	if errors.Is(err, ErrNotFound) {
		s.logger.Info(message, zap.String("op", op), zap.Error(err))
	} else {
		s.logger.Error(message, zap.String("op", op), zap.String("error", logging.SanitizeError(err)))
	}
	return &Error{Op: op, Message: message, Err: err}
}
