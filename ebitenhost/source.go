package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/boardkit"
)

// Frame is one tick of device state in window coordinates.
type Frame struct {
	X, Y float64
	// Buttons is indexed by boardkit.MouseButton (left, middle, right).
	Buttons [3]bool
	// WheelX and WheelY follow the DOM sign convention: positive Y scrolls
	// the content up (wheel toward the user).
	WheelX, WheelY float64
	WheelMode      int
	Modifiers      boardkit.Modifiers
	// Escape is true on the tick the key went down.
	Escape bool
}

// Pressed returns the button that is held, preferring left, then right,
// then middle, and whether any is held.
func (f Frame) Pressed() (boardkit.MouseButton, bool) {
	switch {
	case f.Buttons[boardkit.MouseButtonLeft]:
		return boardkit.MouseButtonLeft, true
	case f.Buttons[boardkit.MouseButtonRight]:
		return boardkit.MouseButtonRight, true
	case f.Buttons[boardkit.MouseButtonMiddle]:
		return boardkit.MouseButtonMiddle, true
	}
	return boardkit.MouseButtonNone, false
}

// Source produces one Frame per tick.
type Source interface {
	Poll() Frame
}

// CursorSink is implemented by sources that can change the pointer shape.
type CursorSink interface {
	SetCursor(css string)
}

// --- Ebitengine source ---

// EbitenSource reads the mouse and keyboard through Ebitengine.
type EbitenSource struct{}

// Poll reads the current device state.
func (EbitenSource) Poll() Frame {
	mx, my := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()
	f := Frame{
		X: float64(mx),
		Y: float64(my),
		// Ebitengine reports wheel-up as positive; DOM deltas are the
		// opposite and counted in lines.
		WheelX:    -wx,
		WheelY:    -wy,
		WheelMode: boardkit.DeltaModeLine,
		Modifiers: readModifiers(),
		Escape:    inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
	f.Buttons[boardkit.MouseButtonLeft] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	f.Buttons[boardkit.MouseButtonMiddle] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	f.Buttons[boardkit.MouseButtonRight] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	return f
}

// SetCursor maps a CSS cursor name onto the closest Ebitengine shape.
func (EbitenSource) SetCursor(css string) {
	ebiten.SetCursorShape(cursorShape(css))
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() boardkit.Modifiers {
	var mods boardkit.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods.Shift = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods.Ctrl = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods.Alt = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods.Meta = true
	}
	return mods
}

func cursorShape(css string) ebiten.CursorShapeType {
	switch css {
	case boardkit.CursorText:
		return ebiten.CursorShapeText
	case boardkit.CursorCrosshair:
		return ebiten.CursorShapeCrosshair
	case boardkit.CursorMove, boardkit.CursorGrab, boardkit.CursorGrabbing:
		return ebiten.CursorShapeMove
	case boardkit.CursorEWResize:
		return ebiten.CursorShapeEWResize
	case boardkit.CursorNSResize:
		return ebiten.CursorShapeNSResize
	case boardkit.CursorNESWResize:
		return ebiten.CursorShapeNESWResize
	case boardkit.CursorNWSEResize:
		return ebiten.CursorShapeNWSEResize
	case CursorPointer:
		return ebiten.CursorShapePointer
	default:
		return ebiten.CursorShapeDefault
	}
}

// CursorPointer is shown while hovering an element in idle mode.
const CursorPointer = "pointer"
