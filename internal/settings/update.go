package settings

import (
	"github.com/openleaf/reader/internal/entities"
)

// Update is a partial settings change. Nil fields keep the current
// value. The merge rules are deliberate and behaviorally significant:
// Margins merges key-wise, ClearCustomTheme removes the custom palette
// rather than merging it, and everything else replaces wholesale.
type Update struct {
	Theme              *entities.Theme           `json:"theme,omitempty"`
	CustomTheme        *entities.CustomTheme     `json:"custom_theme,omitempty"`
	ClearCustomTheme   bool                      `json:"clear_custom_theme,omitempty"`
	FontFamily         *string                   `json:"font_family,omitempty"`
	FontSize           *float64                  `json:"font_size,omitempty"`
	LineHeight         *float64                  `json:"line_height,omitempty"`
	LetterSpacing      *float64                  `json:"letter_spacing,omitempty"`
	TextAlign          *entities.TextAlign       `json:"text_align,omitempty"`
	ParagraphSpacing   *float64                  `json:"paragraph_spacing,omitempty"`
	OverrideBookStyles *bool                     `json:"override_book_styles,omitempty"`
	ViewMode           *entities.ViewMode        `json:"view_mode,omitempty"`
	SpreadMode         *entities.SpreadMode      `json:"spread_mode,omitempty"`
	PageWidth          *float64                  `json:"page_width,omitempty"`
	Margins            *MarginsUpdate            `json:"margins,omitempty"`
	MaxContentWidth    *float64                  `json:"max_content_width,omitempty"`
	AutoSaveInterval   *int                      `json:"auto_save_interval,omitempty"`
	GesturesEnabled    *bool                     `json:"gestures_enabled,omitempty"`
	AnimationsEnabled  *bool                     `json:"animations_enabled,omitempty"`
	DefaultLibraryView *entities.LibraryView     `json:"default_library_view,omitempty"`
	SidebarPosition    *entities.SidebarPosition `json:"sidebar_position,omitempty"`
	EnableTelemetry    *bool                     `json:"enable_telemetry,omitempty"`
}

// MarginsUpdate changes individual margin components, leaving the rest
// untouched.
type MarginsUpdate struct {
	Top    *float64 `json:"top,omitempty"`
	Right  *float64 `json:"right,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
	Left   *float64 `json:"left,omitempty"`
}

// applyTo merges the update onto current and returns the merged value,
// not yet normalized.
func (u Update) applyTo(current entities.Settings) entities.Settings {
	next := current

	if u.Theme != nil {
		next.Theme = *u.Theme
	}
	if u.ClearCustomTheme {
		next.CustomTheme = nil
	} else if u.CustomTheme != nil {
		copied := *u.CustomTheme
		next.CustomTheme = &copied
	}
	if u.FontFamily != nil {
		next.FontFamily = *u.FontFamily
	}
	if u.FontSize != nil {
		next.FontSize = *u.FontSize
	}
	if u.LineHeight != nil {
		next.LineHeight = *u.LineHeight
	}
	if u.LetterSpacing != nil {
		next.LetterSpacing = *u.LetterSpacing
	}
	if u.TextAlign != nil {
		next.TextAlign = *u.TextAlign
	}
	if u.ParagraphSpacing != nil {
		next.ParagraphSpacing = *u.ParagraphSpacing
	}
	if u.OverrideBookStyles != nil {
		next.OverrideBookStyles = *u.OverrideBookStyles
	}
	if u.ViewMode != nil {
		next.ViewMode = *u.ViewMode
	}
	if u.SpreadMode != nil {
		next.SpreadMode = *u.SpreadMode
	}
	if u.PageWidth != nil {
		next.PageWidth = *u.PageWidth
	}
	if u.Margins != nil {
		if u.Margins.Top != nil {
			next.Margins.Top = *u.Margins.Top
		}
		if u.Margins.Right != nil {
			next.Margins.Right = *u.Margins.Right
		}
		if u.Margins.Bottom != nil {
			next.Margins.Bottom = *u.Margins.Bottom
		}
		if u.Margins.Left != nil {
			next.Margins.Left = *u.Margins.Left
		}
	}
	if u.MaxContentWidth != nil {
		next.MaxContentWidth = *u.MaxContentWidth
	}
	if u.AutoSaveInterval != nil {
		next.AutoSaveInterval = *u.AutoSaveInterval
	}
	if u.GesturesEnabled != nil {
		next.GesturesEnabled = *u.GesturesEnabled
	}
	if u.AnimationsEnabled != nil {
		next.AnimationsEnabled = *u.AnimationsEnabled
	}
	if u.DefaultLibraryView != nil {
		next.DefaultLibraryView = *u.DefaultLibraryView
	}
	if u.SidebarPosition != nil {
		next.SidebarPosition = *u.SidebarPosition
	}
	if u.EnableTelemetry != nil {
		next.EnableTelemetry = *u.EnableTelemetry
	}

	return next
}
