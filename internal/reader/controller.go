// Package reader binds the rendering engine's event stream to the
// progress tracker. It owns the view-level state machine, debounces
// progress writes during rapid page flipping, and guards navigation
// against reentrancy.
package reader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openleaf/reader/internal/entities"
	"github.com/openleaf/reader/internal/progress"
	"github.com/openleaf/reader/internal/render"
)

// State is the controller's lifecycle state. Transitions: Idle →
// Loading → Ready ⇄ Navigating, and any state → Error. There is no
// automatic recovery from Error; the caller reloads.
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateNavigating State = "navigating"
	StateError      State = "error"
)

// DefaultDebounce is the quiet period before a relocation is
// persisted.
const DefaultDebounce = 750 * time.Millisecond

// Callbacks notify the embedding view. All callbacks are optional and
// are invoked without holding controller locks held across their body
// re-entrantly calling the controller is not supported.
type Callbacks struct {
	OnLocationChange func(render.Location)
	OnProgress       func(*entities.ReadingProgress)
	OnReady          func()
	// OnError receives both terminal load/render failures and
	// non-blocking background-save failures. Whether the failure was
	// terminal is visible via State.
	OnError func(error)
}

// Config tunes the controller.
type Config struct {
	// Surface names the rendering surface handed to the engine.
	Surface string
	// Flow is the initial rendering flow; empty means paginated.
	Flow render.Flow
	// Debounce is the progress-write quiet period; 0 means
	// DefaultDebounce.
	Debounce time.Duration
}

// Controller is the reading orchestrator for a single book at a time.
// The engine instance is exclusively owned by the active load cycle: a
// new Load always destroys the previous engine session first.
type Controller struct {
	engine  render.Engine
	tracker *progress.Tracker
	cfg     Config
	cb      Callbacks

	mu               sync.Mutex
	state            State
	lastErr          error
	bookID           string
	current          *render.Location
	lastSavedToken   string
	pendingLocation  render.Location
	saveTimer        *time.Timer
	sessionStart     *time.Time
	sessionStartPage int
	lastPage         int
	closed           bool
	loopDone         chan struct{}

	now func() time.Time
}

// NewController creates a controller around an engine and tracker.
func NewController(engine render.Engine, tracker *progress.Tracker, cfg Config, cb Callbacks) *Controller {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Surface == "" {
		cfg.Surface = "viewer"
	}
	if cfg.Flow == "" {
		cfg.Flow = render.FlowPaginated
	}
	return &Controller{
		engine:  engine,
		tracker: tracker,
		cfg:     cfg,
		cb:      cb,
		state:   StateIdle,
		now:     time.Now,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that drove the controller into StateError.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// CurrentLocation returns the last known location, which always
// reflects the most recent relocation event even when the debounced
// write has not fired yet.
func (c *Controller) CurrentLocation() *render.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	copied := *c.current
	return &copied
}

// Load opens a book: it tears down any previous engine session, loads
// the binary, resumes at restoreLocation (or the persisted progress
// token), starts a reading session and renders. On success the
// controller is Ready and the current location has been emitted.
func (c *Controller) Load(ctx context.Context, bookID string, data []byte, restoreLocation string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("controller is closed")
	}
	c.state = StateLoading
	c.lastErr = nil
	c.bookID = bookID
	c.current = nil
	c.lastSavedToken = ""
	c.sessionStart = nil
	c.sessionStartPage = 0
	c.lastPage = 0
	c.stopSaveTimerLocked()
	prevLoop := c.loopDone
	c.loopDone = nil
	c.mu.Unlock()

	// Only one rendition may exist against the engine at a time.
	_ = c.engine.Destroy(ctx)
	if prevLoop != nil {
		<-prevLoop
	}

	if err := c.engine.LoadBook(ctx, data); err != nil {
		return c.fail(fmt.Errorf("failed to load book: %w", err))
	}

	resume := restoreLocation
	if existing, err := c.tracker.GetProgress(ctx, bookID); err == nil && existing != nil {
		c.mu.Lock()
		c.lastSavedToken = existing.Location
		c.sessionStartPage = existing.CurrentPage
		c.lastPage = existing.CurrentPage
		c.mu.Unlock()
		if resume == "" {
			resume = existing.Location
		}
	}

	c.tracker.StartSession(bookID)
	start := c.now()
	c.mu.Lock()
	c.sessionStart = &start
	c.mu.Unlock()

	if err := c.engine.RenderTo(ctx, c.cfg.Surface, render.RenderOptions{
		Flow:            c.cfg.Flow,
		RestoreLocation: resume,
	}); err != nil {
		return c.fail(fmt.Errorf("failed to render book: %w", err))
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.state = StateReady
	c.loopDone = done
	c.mu.Unlock()

	go c.eventLoop(done)

	if c.cb.OnReady != nil {
		c.cb.OnReady()
	}
	if location := c.engine.CurrentLocation(); location != nil {
		c.handleRelocated(*location)
	}
	return nil
}

// Next turns to the next page. A call while not Ready, or while a
// navigation is already outstanding, is a silent no-op.
func (c *Controller) Next(ctx context.Context) error {
	return c.navigate(ctx, c.engine.NextPage)
}

// Prev turns to the previous page under the same guard as Next.
func (c *Controller) Prev(ctx context.Context) error {
	return c.navigate(ctx, c.engine.PrevPage)
}

// GoTo jumps to a position token.
func (c *Controller) GoTo(ctx context.Context, token string) error {
	return c.navigate(ctx, func(ctx context.Context) error {
		return c.engine.GoTo(ctx, token)
	})
}

// GoToHref jumps to a chapter reference.
func (c *Controller) GoToHref(ctx context.Context, href string) error {
	return c.navigate(ctx, func(ctx context.Context) error {
		return c.engine.GoToHref(ctx, href)
	})
}

func (c *Controller) navigate(ctx context.Context, op func(context.Context) error) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return nil
	}
	c.state = StateNavigating
	c.mu.Unlock()

	if err := op(ctx); err != nil {
		return c.fail(fmt.Errorf("failed to display location: %w", err))
	}
	// The relocation event returns the state to Ready.
	return nil
}

// Handle dispatches an input command resolved by CommandForKey or
// CommandForSwipe.
func (c *Controller) Handle(ctx context.Context, cmd Command) error {
	switch cmd {
	case CommandNext:
		return c.Next(ctx)
	case CommandPrev:
		return c.Prev(ctx)
	}
	return nil
}

// Close tears the controller down: it cancels any pending debounced
// write, fires one final synchronous progress write of the last known
// location, ends the reading session with the pages read since load,
// and destroys the engine session. Errors are suppressed so teardown
// never blocks the caller.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopSaveTimerLocked()
	last := c.current
	sessionStart := c.sessionStart
	pagesRead := c.lastPage - c.sessionStartPage
	if pagesRead < 0 {
		pagesRead = 0
	}
	bookID := c.bookID
	loop := c.loopDone
	c.state = StateIdle
	c.mu.Unlock()

	ctx := context.Background()

	if last != nil && last.Token != "" {
		c.saveProgress(ctx, *last, true)
	}
	if sessionStart != nil {
		if _, err := c.tracker.EndSession(ctx, bookID, pagesRead); err != nil && c.cb.OnError != nil {
			c.cb.OnError(err)
		}
	}
	_ = c.engine.Destroy(ctx)
	if loop != nil {
		<-loop
	}
}

// eventLoop consumes engine notifications until the engine closes its
// stream on Destroy.
func (c *Controller) eventLoop(done chan struct{}) {
	defer close(done)
	for event := range c.engine.Events() {
		switch event.Kind {
		case render.EventRelocated, render.EventRendered, render.EventDisplayed:
			location := event.Location
			if location == nil {
				location = c.engine.CurrentLocation()
			}
			if location != nil {
				c.handleRelocated(*location)
			} else {
				c.clearNavigating()
			}
		}
	}
}

// handleRelocated records the new location, clears an outstanding
// navigation and schedules a debounced write when the position token
// has not been persisted yet.
func (c *Controller) handleRelocated(location render.Location) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.state == StateNavigating {
		c.state = StateReady
	}
	copied := location
	c.current = &copied
	if location.Page > 0 {
		c.lastPage = location.Page
	}
	schedule := location.Token != "" && location.Token != c.lastSavedToken
	if schedule {
		c.pendingLocation = location
		c.stopSaveTimerLocked()
		c.saveTimer = time.AfterFunc(c.cfg.Debounce, c.flushPending)
	}
	c.mu.Unlock()

	if c.cb.OnLocationChange != nil {
		c.cb.OnLocationChange(location)
	}
}

func (c *Controller) clearNavigating() {
	c.mu.Lock()
	if c.state == StateNavigating {
		c.state = StateReady
	}
	c.mu.Unlock()
}

// flushPending runs on the debounce timer; only the last location
// scheduled within the window is written.
func (c *Controller) flushPending() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	location := c.pendingLocation
	c.mu.Unlock()

	c.saveProgress(context.Background(), location, false)
}

// saveProgress persists one location. Failures are soft: they reach
// OnError but never interrupt reading, and are fully suppressed during
// teardown.
func (c *Controller) saveProgress(ctx context.Context, location render.Location, teardown bool) {
	c.mu.Lock()
	bookID := c.bookID
	sessionStart := c.sessionStart
	c.mu.Unlock()

	updated, err := c.tracker.RecordProgress(ctx, bookID, location, progress.RecordOptions{
		TotalPages:   location.TotalPages,
		SessionStart: sessionStart,
	})
	if err != nil {
		if !teardown && c.cb.OnError != nil {
			c.cb.OnError(err)
		}
		return
	}

	c.mu.Lock()
	c.lastSavedToken = updated.Location
	if updated.CurrentPage > 0 {
		c.lastPage = updated.CurrentPage
	}
	c.mu.Unlock()

	if !teardown && c.cb.OnProgress != nil {
		c.cb.OnProgress(updated)
	}
}

// fail records a terminal error and reports it.
func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.state = StateError
	c.lastErr = err
	c.mu.Unlock()
	if c.cb.OnError != nil {
		c.cb.OnError(err)
	}
	return err
}

func (c *Controller) stopSaveTimerLocked() {
	if c.saveTimer != nil {
		c.saveTimer.Stop()
		c.saveTimer = nil
	}
}
