package settings

import (
	"fmt"

	"github.com/openleaf/reader/internal/entities"
	"github.com/openleaf/reader/internal/render"
)

// Palette is the resolved set of colors a theme paints with.
type Palette struct {
	Background string
	Text       string
	Link       string
	Highlight  string
}

var themePalettes = map[entities.Theme]Palette{
	entities.ThemeLight: {
		Background: "#ffffff",
		Text:       "#0f172a",
		Link:       "#2563eb",
		Highlight:  "#fde68a",
	},
	entities.ThemeDark: {
		Background: "#0f172a",
		Text:       "#e2e8f0",
		Link:       "#60a5fa",
		Highlight:  "#1e293b",
	},
	entities.ThemeSepia: {
		Background: "#f4ecd8",
		Text:       "#5b4636",
		Link:       "#b45309",
		Highlight:  "#f59e0b",
	},
	entities.ThemeBlack: {
		Background: "#000000",
		Text:       "#f9fafb",
		Link:       "#93c5fd",
		Highlight:  "#1f2937",
	},
	entities.ThemeCustom: {
		Background: "#ffffff",
		Text:       "#0f172a",
		Link:       "#2563eb",
		Highlight:  "#fde68a",
	},
}

// ResolvePalette picks the custom palette when the theme is "custom"
// and one is present, otherwise the fixed palette for the theme.
func ResolvePalette(s entities.Settings) Palette {
	if s.Theme == entities.ThemeCustom && s.CustomTheme != nil {
		return Palette{
			Background: s.CustomTheme.BackgroundColor,
			Text:       s.CustomTheme.TextColor,
			Link:       s.CustomTheme.LinkColor,
			Highlight:  s.CustomTheme.HighlightColor,
		}
	}
	if palette, ok := themePalettes[s.Theme]; ok {
		return palette
	}
	return themePalettes[entities.ThemeLight]
}

// BuildThemeStyles derives the theme-scoped stylesheet for normalized
// settings. The declaration is keyed by theme id on the engine side,
// so multiple themes can be pre-registered and switched without
// recomputation.
func BuildThemeStyles(s entities.Settings) render.ThemeStyles {
	palette := ResolvePalette(s)

	hyphens := "inherit"
	if s.OverrideBookStyles {
		hyphens = "auto"
	}

	body := map[string]string{
		"background-color": palette.Background,
		"color":            palette.Text,
		"font-family":      s.FontFamily,
		"font-size":        fmt.Sprintf("%gpx", s.FontSize),
		"line-height":      fmt.Sprintf("%g", s.LineHeight),
		"letter-spacing":   fmt.Sprintf("%gpx", s.LetterSpacing),
		"text-align":       string(s.TextAlign),
		"max-width":        fmt.Sprintf("%gpx", s.MaxContentWidth),
		"margin":           "0 auto",
		"padding": fmt.Sprintf("%gpx %gpx %gpx %gpx",
			s.Margins.Top, s.Margins.Right, s.Margins.Bottom, s.Margins.Left),
		"hyphens": hyphens,
	}

	// A fixed column width only makes sense for discrete page turns.
	if s.ViewMode == entities.ViewModePaginated {
		body["column-width"] = fmt.Sprintf("%gpx", s.PageWidth)
	}

	return render.ThemeStyles{
		"body": body,
		"a": {
			"color": palette.Link,
		},
		"p": {
			"margin-bottom": fmt.Sprintf("%gem", s.ParagraphSpacing),
		},
		"::selection": {
			"background-color": palette.Highlight,
			"color":            palette.Text,
		},
	}
}
