// Package settings implements the settings engine: it turns whatever
// is in storage into an always-valid settings value, persists partial
// updates, and derives the theme stylesheet the rendering engine
// consumes.
package settings

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/openleaf/reader/internal/entities"
	"github.com/openleaf/reader/internal/render"
	"github.com/openleaf/reader/internal/storage"
)

// Cache holds the memoized normalized settings. It is owned by the
// engine instance rather than being process-wide state, so tests and
// multiple engines can hold independent caches.
type Cache struct {
	mu       sync.Mutex
	settings *entities.Settings
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) get() *entities.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settings == nil {
		return nil
	}
	copied := *c.settings
	return &copied
}

func (c *Cache) put(s entities.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = &s
}

// Service is the settings engine.
type Service struct {
	store storage.Store
	cache *Cache
}

// NewService creates a settings engine backed by store. A nil cache
// gets a fresh one.
func NewService(store storage.Store, cache *Cache) *Service {
	if cache == nil {
		cache = NewCache()
	}
	return &Service{store: store, cache: cache}
}

// Load returns the memoized normalized settings. On first call or when
// forceReload is set it fetches from storage, substituting the default
// template for a missing record.
func (s *Service) Load(ctx context.Context, forceReload bool) (entities.Settings, error) {
	if !forceReload {
		if cached := s.cache.get(); cached != nil {
			return *cached, nil
		}
	}

	stored, err := s.store.GetSettings(ctx)
	if err != nil {
		return entities.Settings{}, err
	}
	if stored == nil {
		defaults := entities.DefaultSettings()
		stored = &defaults
	}

	normalized := Normalize(*stored)
	s.cache.put(normalized)
	return normalized, nil
}

// Update merges a partial update onto the current settings,
// re-normalizes, persists and caches the result. Margins merge
// key-wise; ClearCustomTheme drops the custom palette; every other
// field replaces wholesale. Invalid values are corrected by
// normalization, never rejected.
func (s *Service) Update(ctx context.Context, update Update) (entities.Settings, error) {
	current, err := s.Load(ctx, false)
	if err != nil {
		return entities.Settings{}, err
	}

	next := Normalize(update.applyTo(current))
	if err := s.store.SaveSettings(ctx, &next); err != nil {
		return entities.Settings{}, err
	}

	s.cache.put(next)
	return next, nil
}

// Reset persists and returns the default template.
func (s *Service) Reset(ctx context.Context) (entities.Settings, error) {
	defaults := Normalize(entities.DefaultSettings())
	if err := s.store.SaveSettings(ctx, &defaults); err != nil {
		return entities.Settings{}, err
	}
	s.cache.put(defaults)
	return defaults, nil
}

// ApplyOptions selects which settings ApplyToRenderer uses. An
// explicit Settings value wins over the cache.
type ApplyOptions struct {
	Settings    *entities.Settings
	ForceReload bool
}

// ApplyToRenderer switches the engine's flow mode and installs the
// theme stylesheet derived from the effective settings, which it
// returns.
func (s *Service) ApplyToRenderer(ctx context.Context, engine render.Engine, opts ApplyOptions) (entities.Settings, error) {
	var resolved entities.Settings
	if opts.Settings != nil {
		resolved = Normalize(*opts.Settings)
	} else {
		loaded, err := s.Load(ctx, opts.ForceReload)
		if err != nil {
			return entities.Settings{}, err
		}
		resolved = loaded
	}

	flow := render.FlowPaginated
	if resolved.ViewMode == entities.ViewModeContinuous {
		flow = render.FlowScrolled
	}
	if err := engine.SetFlow(flow); err != nil {
		return entities.Settings{}, err
	}
	if err := engine.ApplyTheme(string(resolved.Theme), BuildThemeStyles(resolved)); err != nil {
		return entities.Settings{}, err
	}

	return resolved, nil
}

// Normalize is a total function over any settings value: enum fields
// fall back to defaults, numeric fields are clamped to their fixed
// ranges, and the max-content-width invariant is restored. It is
// idempotent.
func Normalize(in entities.Settings) entities.Settings {
	defaults := entities.DefaultSettings()
	out := in

	out.Theme = normalizeTheme(in.Theme, defaults.Theme)
	out.ViewMode = normalizeViewMode(in.ViewMode, defaults.ViewMode)
	out.SpreadMode = normalizeSpreadMode(in.SpreadMode, defaults.SpreadMode)
	out.TextAlign = normalizeTextAlign(in.TextAlign, defaults.TextAlign)
	out.DefaultLibraryView = normalizeLibraryView(in.DefaultLibraryView, defaults.DefaultLibraryView)

	if in.SidebarPosition != entities.SidebarRight {
		out.SidebarPosition = entities.SidebarLeft
	}

	out.FontSize = clamp(in.FontSize, 8, 48, defaults.FontSize)
	out.LineHeight = clamp(in.LineHeight, 1, 3, defaults.LineHeight)
	out.LetterSpacing = clamp(in.LetterSpacing, -1, 5, defaults.LetterSpacing)
	out.ParagraphSpacing = clamp(in.ParagraphSpacing, 0, 8, defaults.ParagraphSpacing)
	out.PageWidth = clamp(in.PageWidth, 360, 1440, defaults.PageWidth)
	out.MaxContentWidth = clamp(in.MaxContentWidth, 480, 1920, defaults.MaxContentWidth)
	out.AutoSaveInterval = int(math.Floor(clamp(float64(in.AutoSaveInterval), 5, 600, float64(defaults.AutoSaveInterval))))

	out.Margins = entities.Margins{
		Top:    clamp(in.Margins.Top, 0, 200, defaults.Margins.Top),
		Right:  clamp(in.Margins.Right, 0, 200, defaults.Margins.Right),
		Bottom: clamp(in.Margins.Bottom, 0, 200, defaults.Margins.Bottom),
		Left:   clamp(in.Margins.Left, 0, 200, defaults.Margins.Left),
	}

	if out.MaxContentWidth < out.PageWidth {
		out.MaxContentWidth = out.PageWidth
	}

	if strings.TrimSpace(in.FontFamily) == "" {
		out.FontFamily = defaults.FontFamily
	}

	if in.CustomTheme != nil {
		copied := *in.CustomTheme
		out.CustomTheme = &copied
	}

	return out
}

func clamp(value, min, max, fallback float64) float64 {
	if math.IsNaN(value) {
		return fallback
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func normalizeTheme(t entities.Theme, fallback entities.Theme) entities.Theme {
	switch t {
	case entities.ThemeLight, entities.ThemeDark, entities.ThemeSepia, entities.ThemeBlack, entities.ThemeCustom:
		return t
	}
	return fallback
}

func normalizeViewMode(v entities.ViewMode, fallback entities.ViewMode) entities.ViewMode {
	switch v {
	case entities.ViewModePaginated, entities.ViewModeContinuous:
		return v
	}
	return fallback
}

func normalizeSpreadMode(v entities.SpreadMode, fallback entities.SpreadMode) entities.SpreadMode {
	switch v {
	case entities.SpreadModeSingle, entities.SpreadModeDouble:
		return v
	}
	return fallback
}

func normalizeTextAlign(v entities.TextAlign, fallback entities.TextAlign) entities.TextAlign {
	switch v {
	case entities.TextAlignLeft, entities.TextAlignJustify, entities.TextAlignRight, entities.TextAlignCenter:
		return v
	}
	return fallback
}

func normalizeLibraryView(v entities.LibraryView, fallback entities.LibraryView) entities.LibraryView {
	switch v {
	case entities.LibraryViewGrid, entities.LibraryViewList, entities.LibraryViewCompact:
		return v
	}
	return fallback
}
