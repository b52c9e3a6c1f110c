package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandForKey(t *testing.T) {
	tests := []struct {
		name             string
		key              string
		interactiveFocus bool
		want             Command
	}{
		{"arrow right advances", KeyArrowRight, false, CommandNext},
		{"page down advances", KeyPageDown, false, CommandNext},
		{"space advances", KeySpace, false, CommandNext},
		{"arrow left goes back", KeyArrowLeft, false, CommandPrev},
		{"page up goes back", KeyPageUp, false, CommandPrev},
		{"unmapped key does nothing", "x", false, CommandNone},
		{"typing in an input is never navigation", KeyArrowRight, true, CommandNone},
		{"space in an input is never navigation", KeySpace, true, CommandNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CommandForKey(tt.key, tt.interactiveFocus))
		})
	}
}

func TestCommandForSwipe(t *testing.T) {
	tests := []struct {
		name     string
		dx, dy   float64
		gestures bool
		want     Command
	}{
		{"leftward swipe advances", -60, 5, true, CommandNext},
		{"rightward swipe goes back", 60, -5, true, CommandPrev},
		{"short travel is ignored", 39, 0, true, CommandNone},
		{"exactly at the threshold is ignored", 40, 0, true, CommandNone},
		{"just past the threshold fires", 41, 0, true, CommandPrev},
		{"vertical scroll dominates", 50, 80, true, CommandNone},
		{"disabled gestures do nothing", -120, 0, false, CommandNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CommandForSwipe(tt.dx, tt.dy, tt.gestures))
		})
	}
}
