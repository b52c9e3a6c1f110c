package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openleaf/reader/internal/entities"
	"github.com/openleaf/reader/internal/progress"
	"github.com/openleaf/reader/internal/render"
)

// SessionsStore defines the session queries the HTTP layer needs
// beyond what the tracker exposes.
type SessionsStore interface {
	GetSessions(ctx context.Context, bookID string, dateFrom, dateTo *time.Time) ([]entities.ReadingSession, error)
}

type ReadingController struct {
	tracker  *progress.Tracker
	sessions SessionsStore
}

func NewReadingController(tracker *progress.Tracker, sessions SessionsStore) *ReadingController {
	return &ReadingController{tracker: tracker, sessions: sessions}
}

// ProgressRequest carries an engine location to persist. Percentage is
// the engine fraction in [0,1]; it is stored as 0-100.
type ProgressRequest struct {
	Token      string  `json:"token"`
	Percentage float64 `json:"percentage"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	Chapter    string  `json:"chapter"`
}

// GetProgress returns a book's saved reading position.
// GET /api/books/:id/progress
func (rc *ReadingController) GetProgress(c *gin.Context) {
	record, err := rc.tracker.GetProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "get progress")
		return
	}
	if record == nil {
		respondNotFound(c, "progress")
		return
	}

	c.JSON(http.StatusOK, record)
}

// SaveProgress persists a reading position for the book.
// PUT /api/books/:id/progress
func (rc *ReadingController) SaveProgress(c *gin.Context) {
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	location := render.Location{
		Token:      req.Token,
		Percentage: req.Percentage,
		Page:       req.Page,
		TotalPages: req.TotalPages,
		Chapter:    req.Chapter,
	}

	record, err := rc.tracker.RecordProgress(c.Request.Context(), c.Param("id"), location, progress.RecordOptions{})
	if errors.Is(err, progress.ErrInvalidLocation) {
		respondBadRequest(c, "location token is required")
		return
	}
	if err != nil {
		respondInternalError(c, err, "save progress")
		return
	}

	c.JSON(http.StatusOK, record)
}

// StartSession opens a reading session for the book. Starting again
// discards the previous open session.
// POST /api/books/:id/sessions/start
func (rc *ReadingController) StartSession(c *gin.Context) {
	rc.tracker.StartSession(c.Param("id"))
	respondSuccess(c, "session started")
}

// EndSessionRequest carries the page delta observed over the session.
type EndSessionRequest struct {
	PagesRead int `json:"pages_read"`
}

// EndSession finalizes the book's open session. Ending without an open
// session is a no-op that returns 200 with no session payload.
// POST /api/books/:id/sessions/end
func (rc *ReadingController) EndSession(c *gin.Context) {
	var req EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	if req.PagesRead < 0 {
		req.PagesRead = 0
	}

	session, err := rc.tracker.EndSession(c.Request.Context(), c.Param("id"), req.PagesRead)
	if err != nil {
		respondInternalError(c, err, "end session")
		return
	}
	if session == nil {
		respondSuccess(c, "no open session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "session ended", "session": session})
}

// ListSessions returns reading sessions filtered by optional book_id,
// from and to (RFC 3339) parameters.
// GET /api/sessions
func (rc *ReadingController) ListSessions(c *gin.Context) {
	from, ok := parseTimeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		return
	}

	sessions, err := rc.sessions.GetSessions(c.Request.Context(), c.Query("book_id"), from, to)
	if err != nil {
		respondInternalError(c, err, "list sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

// GetStatistics returns aggregate reading statistics over the optional
// from/to range.
// GET /api/statistics
func (rc *ReadingController) GetStatistics(c *gin.Context) {
	from, ok := parseTimeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		return
	}

	stats, err := rc.tracker.GetStatistics(c.Request.Context(), from, to)
	if err != nil {
		respondInternalError(c, err, "compute statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetBookStatistics returns per-book reading aggregates.
// GET /api/books/:id/statistics
func (rc *ReadingController) GetBookStatistics(c *gin.Context) {
	stats, err := rc.tracker.GetBookStatistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "compute book statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// parseTimeQuery reads an optional RFC 3339 query parameter. The bool
// result is false only when the value was present but malformed, in
// which case a 400 has been written already.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respondBadRequest(c, name+" must be an RFC 3339 timestamp")
		return nil, false
	}
	return &parsed, true
}
