package reader

// Command is a resolved navigation intent.
type Command int

const (
	CommandNone Command = iota
	CommandNext
	CommandPrev
)

// SwipeThreshold is the minimum horizontal travel, in pixels, before a
// touch gesture counts as a page turn.
const SwipeThreshold = 40

// Key names follow the DOM KeyboardEvent.key convention the shells
// forward to the backend.
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeyPageDown   = "PageDown"
	KeyPageUp     = "PageUp"
	KeySpace      = " "
)

// CommandForKey maps a key press to a navigation command.
// interactiveFocus suppresses navigation while the focus sits inside
// an input control, so typing never flips pages.
func CommandForKey(key string, interactiveFocus bool) Command {
	if interactiveFocus {
		return CommandNone
	}
	switch key {
	case KeyArrowRight, KeyPageDown, KeySpace:
		return CommandNext
	case KeyArrowLeft, KeyPageUp:
		return CommandPrev
	}
	return CommandNone
}

// CommandForSwipe maps a completed touch gesture to a navigation
// command. The vertical axis must not dominate, and the horizontal
// travel must exceed SwipeThreshold. A leftward swipe advances, a
// rightward swipe goes back.
func CommandForSwipe(deltaX, deltaY float64, gesturesEnabled bool) Command {
	if !gesturesEnabled {
		return CommandNone
	}
	if abs(deltaY) > abs(deltaX) {
		return CommandNone
	}
	if deltaX > SwipeThreshold {
		return CommandPrev
	}
	if deltaX < -SwipeThreshold {
		return CommandNext
	}
	return CommandNone
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
