package ui

import "github.com/gdamore/tcell/v2"

// TiltAction is a simulated tilt adjustment from the keyboard, standing
// in for a device accelerometer on desktop terminals.
type TiltAction int

const (
	TiltNone TiltAction = iota
	TiltLeft
	TiltRight
	TiltUp
	TiltDown
	TiltCenter // level the device out
)

// KeyToTilt converts a key event to a tilt adjustment.
func KeyToTilt(key tcell.Key, r rune) TiltAction {
	switch key {
	case tcell.KeyLeft:
		return TiltLeft
	case tcell.KeyRight:
		return TiltRight
	case tcell.KeyUp:
		return TiltUp
	case tcell.KeyDown:
		return TiltDown
	case tcell.KeyRune:
		switch r {
		case 'a', 'A':
			return TiltLeft
		case 'd', 'D':
			return TiltRight
		case 'w', 'W':
			return TiltUp
		case 's', 'S':
			return TiltDown
		case ' ':
			return TiltCenter
		}
	}
	return TiltNone
}

// IsQuitKey returns true if the key should quit the application.
func IsQuitKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyEscape || key == tcell.KeyCtrlC {
		return true
	}
	return key == tcell.KeyRune && (r == 'q' || r == 'Q')
}

// IsPauseKey returns true if the key toggles pause.
func IsPauseKey(key tcell.Key, r rune) bool {
	return key == tcell.KeyRune && (r == 'p' || r == 'P')
}

// IsResetKey returns true if the key forces the ball back to the start.
func IsResetKey(key tcell.Key, r rune) bool {
	return key == tcell.KeyRune && (r == 'r' || r == 'R')
}

// IsHolesKey returns true if the key toggles hole/goal visibility.
func IsHolesKey(key tcell.Key, r rune) bool {
	return key == tcell.KeyRune && (r == 'h' || r == 'H')
}
