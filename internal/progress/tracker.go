// Package progress converts engine location events into durable
// reading progress and tracks reading sessions with derived
// statistics.
package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/openleaf/reader/internal/entities"
	"github.com/openleaf/reader/internal/render"
	"github.com/openleaf/reader/internal/storage"
)

// ErrInvalidLocation is returned when a progress write carries no
// position token. Nothing is persisted in that case.
var ErrInvalidLocation = errors.New("invalid location: missing position token")

// Tracker is the progress and session tracker. It exclusively owns the
// in-memory active-sessions map; durable records belong to the store
// and are never cached here beyond a single operation.
type Tracker struct {
	store storage.Store

	mu     sync.Mutex
	active map[string]time.Time

	now func() time.Time
}

// NewTracker creates a tracker backed by store.
func NewTracker(store storage.Store) *Tracker {
	return &Tracker{
		store:  store,
		active: make(map[string]time.Time),
		now:    time.Now,
	}
}

// RecordOptions adjusts a progress write.
type RecordOptions struct {
	// TotalPages overrides the location's total page count when > 0.
	TotalPages int
	// SessionStart, when set, makes the stored ReadingTime the seconds
	// elapsed since it.
	SessionStart *time.Time
}

// RecordProgress persists the given location as the book's progress
// record and returns the persisted value. The location's percentage is
// the engine fraction in [0,1]; it is clamped and stored as 0-100.
func (t *Tracker) RecordProgress(ctx context.Context, bookID string, location render.Location, opts RecordOptions) (*entities.ReadingProgress, error) {
	if location.Token == "" {
		return nil, fmt.Errorf("%w (book %s)", ErrInvalidLocation, bookID)
	}

	now := t.now()

	fraction := location.Percentage
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	totalPages := location.TotalPages
	if opts.TotalPages > 0 {
		totalPages = opts.TotalPages
	}

	var readingTime int64
	if opts.SessionStart != nil {
		readingTime = secondsBetween(now, *opts.SessionStart)
	}

	record := &entities.ReadingProgress{
		BookID:         bookID,
		Location:       location.Token,
		Percentage:     fraction * 100,
		CurrentPage:    location.Page,
		TotalPages:     totalPages,
		CurrentChapter: location.Chapter,
		ReadingTime:    readingTime,
		SessionStart:   opts.SessionStart,
		LastUpdated:    now,
	}

	if err := t.store.SaveProgress(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetProgress reads the book's progress record, (nil, nil) when none
// exists.
func (t *Tracker) GetProgress(ctx context.Context, bookID string) (*entities.ReadingProgress, error) {
	return t.store.GetProgress(ctx, bookID)
}

// StartSession records the wall-clock start of a reading session for
// the book. A repeated start replaces the previous one; the abandoned
// interval is discarded, not persisted.
func (t *Tracker) StartSession(bookID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active[bookID] = t.now()
}

// EndSession finalizes and persists the book's open session, returning
// it. Without a matching start it returns (nil, nil), so a double end
// is a harmless no-op.
func (t *Tracker) EndSession(ctx context.Context, bookID string, pagesRead int) (*entities.ReadingSession, error) {
	t.mu.Lock()
	start, ok := t.active[bookID]
	t.mu.Unlock()
	if !ok {
		return nil, nil
	}

	end := t.now()
	session := &entities.ReadingSession{
		BookID:    bookID,
		StartTime: start,
		EndTime:   end,
		PagesRead: pagesRead,
		Duration:  secondsBetween(end, start),
	}

	if err := t.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	t.mu.Lock()
	delete(t.active, bookID)
	t.mu.Unlock()

	return session, nil
}

func secondsBetween(a, b time.Time) int64 {
	return int64(a.Sub(b) / time.Second)
}
