package entities

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSepia  Theme = "sepia"
	ThemeBlack  Theme = "black"
	ThemeCustom Theme = "custom"
)

type ViewMode string

const (
	ViewModePaginated  ViewMode = "paginated"
	ViewModeContinuous ViewMode = "continuous"
)

type SpreadMode string

const (
	SpreadModeSingle SpreadMode = "single"
	SpreadModeDouble SpreadMode = "double"
)

type TextAlign string

const (
	TextAlignLeft    TextAlign = "left"
	TextAlignJustify TextAlign = "justify"
	TextAlignRight   TextAlign = "right"
	TextAlignCenter  TextAlign = "center"
)

type LibraryView string

const (
	LibraryViewGrid    LibraryView = "grid"
	LibraryViewList    LibraryView = "list"
	LibraryViewCompact LibraryView = "compact"
)

type SidebarPosition string

const (
	SidebarLeft  SidebarPosition = "left"
	SidebarRight SidebarPosition = "right"
)

// CustomTheme is the user-supplied palette used when Theme is "custom".
type CustomTheme struct {
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	LinkColor       string `json:"link_color"`
	HighlightColor  string `json:"highlight_color"`
}

type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Settings is the single per-installation display/layout record. It is
// persisted as one JSON row and only ever handled in normalized form
// outside the settings engine.
type Settings struct {
	Theme              Theme           `json:"theme"`
	CustomTheme        *CustomTheme    `json:"custom_theme,omitempty"`
	FontFamily         string          `json:"font_family"`
	FontSize           float64         `json:"font_size"`
	LineHeight         float64         `json:"line_height"`
	LetterSpacing      float64         `json:"letter_spacing"`
	TextAlign          TextAlign       `json:"text_align"`
	ParagraphSpacing   float64         `json:"paragraph_spacing"`
	OverrideBookStyles bool            `json:"override_book_styles"`
	ViewMode           ViewMode        `json:"view_mode"`
	SpreadMode         SpreadMode      `json:"spread_mode"`
	PageWidth          float64         `json:"page_width"`
	Margins            Margins         `json:"margins"`
	MaxContentWidth    float64         `json:"max_content_width"`
	AutoSaveInterval   int             `json:"auto_save_interval"` // seconds
	GesturesEnabled    bool            `json:"gestures_enabled"`
	AnimationsEnabled  bool            `json:"animations_enabled"`
	DefaultLibraryView LibraryView     `json:"default_library_view"`
	SidebarPosition    SidebarPosition `json:"sidebar_position"`
	EnableTelemetry    bool            `json:"enable_telemetry"`
}

// DefaultSettings returns the default template. Callers get a fresh
// value each time; the template itself is never mutated.
func DefaultSettings() Settings {
	return Settings{
		Theme:              ThemeLight,
		FontFamily:         "'Inter', system-ui",
		FontSize:           16,
		LineHeight:         1.5,
		LetterSpacing:      0,
		TextAlign:          TextAlignLeft,
		ParagraphSpacing:   1,
		OverrideBookStyles: false,
		ViewMode:           ViewModePaginated,
		SpreadMode:         SpreadModeSingle,
		PageWidth:          800,
		Margins:            Margins{Top: 20, Right: 24, Bottom: 20, Left: 24},
		MaxContentWidth:    960,
		AutoSaveInterval:   30,
		GesturesEnabled:    true,
		AnimationsEnabled:  true,
		DefaultLibraryView: LibraryViewGrid,
		SidebarPosition:    SidebarLeft,
		EnableTelemetry:    false,
	}
}
