// Package render defines the contract for the EPUB rendering engine.
//
// The engine itself is an external collaborator (a webview-embedded
// renderer in the desktop shell); the reader core depends only on the
// navigation API and the event stream declared here.
package render

import (
	"context"
)

// Flow selects the rendering strategy: discrete page turns or a single
// scrolling column.
type Flow string

const (
	FlowPaginated Flow = "paginated"
	FlowScrolled  Flow = "scrolled"
)

// EventKind names the engine notifications the reader core reacts to.
type EventKind string

const (
	EventRelocated EventKind = "relocated"
	EventRendered  EventKind = "rendered"
	EventDisplayed EventKind = "displayed"
	EventResized   EventKind = "resized"
)

// Event is a single engine notification. Relocation events carry the
// location reported by the engine at emission time.
type Event struct {
	Kind     EventKind
	Location *Location
}

// Location describes a precise reading position. Token is the engine's
// opaque position identifier; Percentage is the engine fraction in
// [0,1], not the stored 0-100 form.
type Location struct {
	Token      string  `json:"token"`
	Percentage float64 `json:"percentage"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	Chapter    string  `json:"chapter,omitempty"`
}

// TocItem is one table-of-contents entry.
type TocItem struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Href     string    `json:"href"`
	Subitems []TocItem `json:"subitems,omitempty"`
}

// ThemeStyles maps CSS selectors to declaration blocks. Styles are
// registered per theme id so switching themes needs no recomputation.
type ThemeStyles map[string]map[string]string

// RenderOptions controls the initial render of a loaded book.
type RenderOptions struct {
	Flow            Flow
	RestoreLocation string // position token to resume at; empty starts at the beginning
}

// Engine is the rendering port. All methods may fail with the engine's
// own errors; the core propagates them unchanged except where a load or
// render failure is wrapped with context.
//
// Events returns the engine's notification stream. The channel is
// owned by the engine and closed on Destroy.
type Engine interface {
	LoadBook(ctx context.Context, data []byte) error
	RenderTo(ctx context.Context, surface string, opts RenderOptions) error
	Destroy(ctx context.Context) error

	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	GoTo(ctx context.Context, token string) error
	GoToHref(ctx context.Context, href string) error

	GetToc(ctx context.Context) ([]TocItem, error)
	CurrentLocation() *Location

	ApplyTheme(themeID string, styles ThemeStyles) error
	SetFlow(flow Flow) error

	Events() <-chan Event
}
