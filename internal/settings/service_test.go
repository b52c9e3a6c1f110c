package settings

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openleaf/reader/internal/database"
	"github.com/openleaf/reader/internal/entities"
	"github.com/openleaf/reader/internal/render"
	"github.com/openleaf/reader/internal/storage/sqlitestore"
)

func setupTestStore(t *testing.T) (*sqlitestore.Store, func()) {
	t.Helper()
	dbPath := "./test_settings_" + t.Name() + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return sqlitestore.New(db), cleanup
}

func TestNormalize(t *testing.T) {
	t.Run("clamps numeric fields to their ranges", func(t *testing.T) {
		in := entities.DefaultSettings()
		in.FontSize = 100
		in.LineHeight = 0.5
		in.LetterSpacing = 9
		in.ParagraphSpacing = -2
		in.PageWidth = 100
		in.AutoSaveInterval = 2

		out := Normalize(in)
		assert.Equal(t, 48.0, out.FontSize)
		assert.Equal(t, 1.0, out.LineHeight)
		assert.Equal(t, 5.0, out.LetterSpacing)
		assert.Equal(t, 0.0, out.ParagraphSpacing)
		assert.Equal(t, 360.0, out.PageWidth)
		assert.Equal(t, 5, out.AutoSaveInterval)
	})

	t.Run("NaN falls back to the default", func(t *testing.T) {
		in := entities.DefaultSettings()
		in.FontSize = math.NaN()

		out := Normalize(in)
		assert.Equal(t, 16.0, out.FontSize)
	})

	t.Run("unknown enum values fall back", func(t *testing.T) {
		in := entities.DefaultSettings()
		in.Theme = "neon"
		in.ViewMode = "diagonal"
		in.TextAlign = "wavy"
		in.SidebarPosition = "top"

		out := Normalize(in)
		assert.Equal(t, entities.ThemeLight, out.Theme)
		assert.Equal(t, entities.ViewModePaginated, out.ViewMode)
		assert.Equal(t, entities.TextAlignLeft, out.TextAlign)
		assert.Equal(t, entities.SidebarLeft, out.SidebarPosition)
	})

	t.Run("max content width never narrower than page width", func(t *testing.T) {
		in := entities.DefaultSettings()
		in.PageWidth = 1200
		in.MaxContentWidth = 600

		out := Normalize(in)
		assert.Equal(t, 1200.0, out.PageWidth)
		assert.Equal(t, 1200.0, out.MaxContentWidth)
	})

	t.Run("margins clamp independently", func(t *testing.T) {
		in := entities.DefaultSettings()
		in.Margins = entities.Margins{Top: -5, Right: 300, Bottom: 40, Left: 24}

		out := Normalize(in)
		assert.Equal(t, entities.Margins{Top: 0, Right: 200, Bottom: 40, Left: 24}, out.Margins)
	})

	t.Run("blank font family falls back", func(t *testing.T) {
		in := entities.DefaultSettings()
		in.FontFamily = "   "

		out := Normalize(in)
		assert.Equal(t, "'Inter', system-ui", out.FontFamily)
	})

	t.Run("is idempotent", func(t *testing.T) {
		in := entities.DefaultSettings()
		in.FontSize = 1000
		in.Theme = "bogus"
		in.MaxContentWidth = 100

		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice)
	})
}

func TestServiceLoad(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	service := NewService(store, nil)

	t.Run("empty storage yields defaults", func(t *testing.T) {
		loaded, err := service.Load(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultSettings(), loaded)
	})

	t.Run("cache survives direct storage writes until force reload", func(t *testing.T) {
		changed := entities.DefaultSettings()
		changed.FontSize = 22
		require.NoError(t, store.SaveSettings(ctx, &changed))

		cached, err := service.Load(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 16.0, cached.FontSize)

		fresh, err := service.Load(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, 22.0, fresh.FontSize)
	})

	t.Run("out-of-range stored values come back corrected", func(t *testing.T) {
		broken := entities.DefaultSettings()
		broken.FontSize = 500
		require.NoError(t, store.SaveSettings(ctx, &broken))

		loaded, err := service.Load(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, 48.0, loaded.FontSize)
	})
}

func TestServiceUpdate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	service := NewService(store, nil)

	t.Run("updated value persists across a fresh engine", func(t *testing.T) {
		size := 18.0
		updated, err := service.Update(ctx, Update{FontSize: &size})
		require.NoError(t, err)
		assert.Equal(t, 18.0, updated.FontSize)

		reloaded := NewService(store, NewCache())
		loaded, err := reloaded.Load(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 18.0, loaded.FontSize)
	})

	t.Run("margins merge key-wise", func(t *testing.T) {
		top := 50.0
		updated, err := service.Update(ctx, Update{Margins: &MarginsUpdate{Top: &top}})
		require.NoError(t, err)
		assert.Equal(t, entities.Margins{Top: 50, Right: 24, Bottom: 20, Left: 24}, updated.Margins)
	})

	t.Run("invalid values are corrected, not rejected", func(t *testing.T) {
		size := 500.0
		updated, err := service.Update(ctx, Update{FontSize: &size})
		require.NoError(t, err)
		assert.Equal(t, 48.0, updated.FontSize)
	})

	t.Run("custom theme set and cleared", func(t *testing.T) {
		theme := entities.ThemeCustom
		custom := entities.CustomTheme{
			BackgroundColor: "#101010",
			TextColor:       "#fafafa",
			LinkColor:       "#8888ff",
			HighlightColor:  "#333333",
		}
		updated, err := service.Update(ctx, Update{Theme: &theme, CustomTheme: &custom})
		require.NoError(t, err)
		require.NotNil(t, updated.CustomTheme)
		assert.Equal(t, "#101010", updated.CustomTheme.BackgroundColor)

		cleared, err := service.Update(ctx, Update{ClearCustomTheme: true})
		require.NoError(t, err)
		assert.Nil(t, cleared.CustomTheme)
		// the theme selection itself is untouched
		assert.Equal(t, entities.ThemeCustom, cleared.Theme)
	})

	t.Run("reset restores the default template", func(t *testing.T) {
		defaults, err := service.Reset(ctx)
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultSettings(), defaults)

		loaded, err := service.Load(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultSettings(), loaded)
	})
}

// recordingEngine captures the theme and flow pushed to the renderer.
type recordingEngine struct {
	flow    render.Flow
	themeID string
	styles  render.ThemeStyles
	events  chan render.Event
}

func newRecordingEngine() *recordingEngine {
	return &recordingEngine{events: make(chan render.Event)}
}

func (e *recordingEngine) LoadBook(context.Context, []byte) error { return nil }
func (e *recordingEngine) RenderTo(context.Context, string, render.RenderOptions) error {
	return nil
}
func (e *recordingEngine) Destroy(context.Context) error         { return nil }
func (e *recordingEngine) NextPage(context.Context) error        { return nil }
func (e *recordingEngine) PrevPage(context.Context) error        { return nil }
func (e *recordingEngine) GoTo(context.Context, string) error    { return nil }
func (e *recordingEngine) GoToHref(context.Context, string) error { return nil }
func (e *recordingEngine) GetToc(context.Context) ([]render.TocItem, error) {
	return nil, nil
}
func (e *recordingEngine) CurrentLocation() *render.Location { return nil }
func (e *recordingEngine) ApplyTheme(themeID string, styles render.ThemeStyles) error {
	e.themeID = themeID
	e.styles = styles
	return nil
}
func (e *recordingEngine) SetFlow(flow render.Flow) error {
	e.flow = flow
	return nil
}
func (e *recordingEngine) Events() <-chan render.Event { return e.events }

func TestApplyToRenderer(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	service := NewService(store, nil)

	t.Run("paginated settings select the paginated flow", func(t *testing.T) {
		engine := newRecordingEngine()
		applied, err := service.ApplyToRenderer(ctx, engine, ApplyOptions{})
		require.NoError(t, err)
		assert.Equal(t, render.FlowPaginated, engine.flow)
		assert.Equal(t, "light", engine.themeID)
		assert.Equal(t, entities.DefaultSettings(), applied)
	})

	t.Run("explicit continuous settings win over the cache", func(t *testing.T) {
		engine := newRecordingEngine()
		explicit := entities.DefaultSettings()
		explicit.ViewMode = entities.ViewModeContinuous
		explicit.Theme = entities.ThemeDark

		_, err := service.ApplyToRenderer(ctx, engine, ApplyOptions{Settings: &explicit})
		require.NoError(t, err)
		assert.Equal(t, render.FlowScrolled, engine.flow)
		assert.Equal(t, "dark", engine.themeID)
		assert.Equal(t, "#0f172a", engine.styles["body"]["background-color"])
	})
}

func TestBuildThemeStyles(t *testing.T) {
	t.Run("light palette and typography", func(t *testing.T) {
		s := entities.DefaultSettings()
		styles := BuildThemeStyles(s)

		body := styles["body"]
		assert.Equal(t, "#ffffff", body["background-color"])
		assert.Equal(t, "#0f172a", body["color"])
		assert.Equal(t, "16px", body["font-size"])
		assert.Equal(t, "1.5", body["line-height"])
		assert.Equal(t, "20px 24px 20px 24px", body["padding"])
		assert.Equal(t, "800px", body["column-width"])
		assert.Equal(t, "inherit", body["hyphens"])
		assert.Equal(t, "#2563eb", styles["a"]["color"])
		assert.Equal(t, "#fde68a", styles["::selection"]["background-color"])
	})

	t.Run("continuous mode drops the column width", func(t *testing.T) {
		s := entities.DefaultSettings()
		s.ViewMode = entities.ViewModeContinuous

		body := BuildThemeStyles(s)["body"]
		_, hasColumn := body["column-width"]
		assert.False(t, hasColumn)
	})

	t.Run("overriding book styles forces hyphenation", func(t *testing.T) {
		s := entities.DefaultSettings()
		s.OverrideBookStyles = true

		assert.Equal(t, "auto", BuildThemeStyles(s)["body"]["hyphens"])
	})

	t.Run("custom theme uses the supplied palette", func(t *testing.T) {
		s := entities.DefaultSettings()
		s.Theme = entities.ThemeCustom
		s.CustomTheme = &entities.CustomTheme{
			BackgroundColor: "#123456",
			TextColor:       "#654321",
			LinkColor:       "#abcdef",
			HighlightColor:  "#fedcba",
		}

		styles := BuildThemeStyles(s)
		assert.Equal(t, "#123456", styles["body"]["background-color"])
		assert.Equal(t, "#abcdef", styles["a"]["color"])
	})

	t.Run("custom theme without palette falls back to light", func(t *testing.T) {
		s := entities.DefaultSettings()
		s.Theme = entities.ThemeCustom

		assert.Equal(t, "#ffffff", BuildThemeStyles(s)["body"]["background-color"])
	})
}
