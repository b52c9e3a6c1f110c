package progress

import (
	"context"
	"sort"
	"time"

	"github.com/openleaf/reader/internal/entities"
)

// Statistics are aggregate reading statistics, computed on demand and
// never stored.
type Statistics struct {
	TotalReadingTime    int64                      `json:"total_reading_time"` // seconds
	BooksInProgress     int                        `json:"books_in_progress"`
	BooksCompleted      int                        `json:"books_completed"`
	BooksRead           int                        `json:"books_read"` // distinct books with sessions
	CurrentStreak       int                        `json:"current_streak"`
	LongestStreak       int                        `json:"longest_streak"`
	AveragePagesPerDay  float64                    `json:"average_pages_per_day"`
	AverageReadingSpeed float64                    `json:"average_reading_speed"` // pages per hour
	History             []entities.ReadingSession  `json:"history"`
}

// BookStatistics are per-book aggregates.
type BookStatistics struct {
	BookID           string     `json:"book_id"`
	TotalReadingTime int64      `json:"total_reading_time"` // seconds
	PagesRead        int        `json:"pages_read"`
	LastReadAt       *time.Time `json:"last_read_at,omitempty"`
	AnnotationCount  int        `json:"annotation_count"`
}

// GetStatistics computes aggregate statistics over the sessions in the
// optional date range (filtered on session start) and all progress
// records.
func (t *Tracker) GetStatistics(ctx context.Context, dateFrom, dateTo *time.Time) (*Statistics, error) {
	sessions, err := t.store.GetSessions(ctx, "", dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	progressList, err := t.store.GetAllProgress(ctx)
	if err != nil {
		return nil, err
	}

	var totalTime int64
	var totalPages int
	bookIDs := make(map[string]struct{})
	for _, session := range sessions {
		totalTime += session.Duration
		totalPages += session.PagesRead
		bookIDs[session.BookID] = struct{}{}
	}

	completed := 0
	for _, record := range progressList {
		if record.Percentage >= 100 {
			completed++
		}
	}

	current, longest := t.calculateStreaks(sessions)

	stats := &Statistics{
		TotalReadingTime:    totalTime,
		BooksInProgress:     len(progressList) - completed,
		BooksCompleted:      completed,
		BooksRead:           len(bookIDs),
		CurrentStreak:       current,
		LongestStreak:       longest,
		AveragePagesPerDay:  averagePagesPerDay(sessions),
		AverageReadingSpeed: averageSpeed(totalPages, totalTime),
		History:             sessions,
	}
	return stats, nil
}

// GetBookStatistics sums one book's sessions and counts its
// annotations.
func (t *Tracker) GetBookStatistics(ctx context.Context, bookID string) (*BookStatistics, error) {
	sessions, err := t.store.GetSessions(ctx, bookID, nil, nil)
	if err != nil {
		return nil, err
	}

	stats := &BookStatistics{BookID: bookID}
	for _, session := range sessions {
		stats.TotalReadingTime += session.Duration
		stats.PagesRead += session.PagesRead
	}
	if len(sessions) > 0 {
		last := sessions[len(sessions)-1].EndTime
		stats.LastReadAt = &last
	}

	annotations, err := t.store.GetAnnotations(ctx, bookID, "")
	if err != nil {
		return nil, err
	}
	stats.AnnotationCount = len(annotations)

	return stats, nil
}

// averagePagesPerDay divides the total pages read by the number of
// distinct calendar dates that have at least one session.
func averagePagesPerDay(sessions []entities.ReadingSession) float64 {
	pagesByDate := make(map[string]int)
	for _, session := range sessions {
		pagesByDate[dayKey(session.StartTime)] += session.PagesRead
	}
	if len(pagesByDate) == 0 {
		return 0
	}

	total := 0
	for _, pages := range pagesByDate {
		total += pages
	}
	return float64(total) / float64(len(pagesByDate))
}

func averageSpeed(totalPages int, totalDuration int64) float64 {
	if totalDuration == 0 {
		return 0
	}
	return float64(totalPages) / float64(totalDuration) * 3600
}

// calculateStreaks walks the distinct session dates in ascending
// order: a gap of exactly one day extends the current streak, a larger
// gap resets it. A streak only counts as current while it is live as
// of today.
func (t *Tracker) calculateStreaks(sessions []entities.ReadingSession) (current, longest int) {
	if len(sessions) == 0 {
		return 0, 0
	}

	seen := make(map[string]struct{})
	var days []time.Time
	for _, session := range sessions {
		key := dayKey(session.StartTime)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, dayStart(session.StartTime))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	current, longest = 1, 1
	for i := 1; i < len(days); i++ {
		gap := int(days[i].Sub(days[i-1]).Hours() / 24)
		if gap == 1 {
			current++
			if current > longest {
				longest = current
			}
		} else if gap > 1 {
			current = 1
		}
	}

	if !sameDay(t.now(), days[len(days)-1]) {
		current = 0
	}
	return current, longest
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month() && au.Day() == bu.Day()
}
