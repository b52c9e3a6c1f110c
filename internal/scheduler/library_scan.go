// Package scheduler runs the periodic library scan that picks up new
// EPUB files dropped into the import directory.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/openleaf/reader/internal/files"
	"github.com/openleaf/reader/internal/storage"
	"github.com/openleaf/reader/internal/tasks"
)

// LibraryScanScheduler periodically enumerates the import directory and
// enqueues an import task for each file not seen before.
type LibraryScanScheduler struct {
	adapter  *files.LocalAdapter
	store    storage.Store
	queue    *tasks.Client
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isScanning bool
	seen       map[string]struct{}
	cancelFunc context.CancelFunc
}

// NewLibraryScanScheduler creates a scheduler. The adapter must have
// been constructed over the import directory.
func NewLibraryScanScheduler(adapter *files.LocalAdapter, store storage.Store, queue *tasks.Client, schedule string) *LibraryScanScheduler {
	return &LibraryScanScheduler{
		adapter:  adapter,
		store:    store,
		queue:    queue,
		schedule: schedule,
		seen:     make(map[string]struct{}),
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. A path-only adapter cannot scan, so the
// scheduler refuses to start rather than failing on every tick.
func (s *LibraryScanScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.adapter.Capability() != files.CapabilityDirectoryScan {
		return fmt.Errorf("library scan: import directory is not readable")
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runScan(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule library scan: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true
	log.Printf("Library scan scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running scan to finish, then halts the cron loop.
func (s *LibraryScanScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Library scan scheduler: stopped")
}

// RunNow triggers an immediate scan.
func (s *LibraryScanScheduler) RunNow(ctx context.Context) {
	go s.runScan(ctx)
}

// IsRunning reports whether the scheduler is active.
func (s *LibraryScanScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next scan will fire, nil when stopped.
func (s *LibraryScanScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runScan enqueues one import task per new file. Overlapping scans are
// skipped rather than queued.
func (s *LibraryScanScheduler) runScan(ctx context.Context) {
	s.mu.Lock()
	if s.isScanning {
		s.mu.Unlock()
		log.Printf("Library scan: skipped (already scanning)")
		return
	}
	s.isScanning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isScanning = false
		s.mu.Unlock()
	}()

	candidates, err := s.adapter.ListCandidates(files.OpenOptions{Accept: []string{".epub"}})
	if err != nil {
		log.Printf("Library scan: failed to list import directory: %v", err)
		return
	}

	known, err := s.knownTitles(ctx)
	if err != nil {
		log.Printf("Library scan: failed to read library: %v", err)
		return
	}

	enqueued := 0
	for _, name := range candidates {
		s.mu.Lock()
		_, alreadySeen := s.seen[name]
		s.mu.Unlock()
		if alreadySeen {
			continue
		}

		title := strings.TrimSuffix(name, filepath.Ext(name))
		if _, exists := known[strings.ToLower(title)]; exists {
			s.markSeen(name)
			continue
		}

		if _, err := s.queue.Add(tasks.ImportBookTask{Filename: name}).Save(); err != nil {
			log.Printf("Library scan: failed to enqueue %s: %v", name, err)
			continue
		}
		s.markSeen(name)
		enqueued++
	}

	if enqueued > 0 {
		log.Printf("Library scan: enqueued %d import task(s)", enqueued)
	}
}

func (s *LibraryScanScheduler) markSeen(name string) {
	s.mu.Lock()
	s.seen[name] = struct{}{}
	s.mu.Unlock()
}

// knownTitles indexes existing book titles so re-scans do not reimport
// files that already made it into the library.
func (s *LibraryScanScheduler) knownTitles(ctx context.Context) (map[string]struct{}, error) {
	list, err := s.store.GetAllBooks(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(list))
	for _, book := range list {
		known[strings.ToLower(book.Title)] = struct{}{}
	}
	return known, nil
}
