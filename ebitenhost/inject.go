package ebitenhost

import "github.com/phanxgames/boardkit"

// Injector is a Source fed from a queue of synthetic frames. Coordinates are
// window coordinates, exactly as a real mouse would report them, so injected
// input goes through the same container offset and camera conversion.
//
// Each Poll consumes one queued frame. With the queue empty it repeats the
// last position and buttons, or defers to Fallback when one is set.
type Injector struct {
	Fallback Source

	queue  []Frame
	last   Frame
	cursor string
}

// NewInjector returns an empty injector. fallback may be nil.
func NewInjector(fallback Source) *Injector {
	return &Injector{Fallback: fallback}
}

// Pending returns the number of queued frames.
func (in *Injector) Pending() int { return len(in.queue) }

// Poll pops the next frame.
func (in *Injector) Poll() Frame {
	if len(in.queue) == 0 {
		if in.Fallback != nil {
			return in.Fallback.Poll()
		}
		f := in.last
		f.WheelX, f.WheelY, f.Escape = 0, 0, false
		return f
	}
	f := in.queue[0]
	copy(in.queue, in.queue[1:])
	in.queue = in.queue[:len(in.queue)-1]
	in.last = f
	return f
}

// SetCursor records the cursor the host asked for.
func (in *Injector) SetCursor(css string) { in.cursor = css }

// Cursor returns the last cursor set by the host.
func (in *Injector) Cursor() string { return in.cursor }

// tail returns the frame new events build on: the last queued one, or the
// last polled one.
func (in *Injector) tail() Frame {
	f := in.last
	if n := len(in.queue); n > 0 {
		f = in.queue[n-1]
	}
	f.WheelX, f.WheelY, f.Escape = 0, 0, false
	return f
}

// Inject queues a raw frame.
func (in *Injector) Inject(f Frame) {
	in.queue = append(in.queue, f)
}

// InjectPress queues a press of button at (x, y).
func (in *Injector) InjectPress(x, y float64, button boardkit.MouseButton, mods boardkit.Modifiers) {
	f := in.tail()
	f.X, f.Y, f.Modifiers = x, y, mods
	f.Buttons = [3]bool{}
	f.Buttons[button] = true
	in.Inject(f)
}

// InjectMove queues a move to (x, y), keeping the held buttons.
func (in *Injector) InjectMove(x, y float64) {
	f := in.tail()
	f.X, f.Y = x, y
	in.Inject(f)
}

// InjectRelease queues the release of every button at (x, y).
func (in *Injector) InjectRelease(x, y float64) {
	f := in.tail()
	f.X, f.Y = x, y
	f.Buttons = [3]bool{}
	in.Inject(f)
}

// InjectClick queues a left press followed by a release at the same point.
// Consumes two ticks.
func (in *Injector) InjectClick(x, y float64) {
	in.InjectPress(x, y, boardkit.MouseButtonLeft, boardkit.Modifiers{})
	in.InjectRelease(x, y)
}

// InjectDrag queues a full left-button drag: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate ticks, and release
// at (toX, toY). Minimum frames is 2 (press + release).
func (in *Injector) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	in.InjectButtonDrag(boardkit.MouseButtonLeft, boardkit.Modifiers{}, fromX, fromY, toX, toY, frames)
}

// InjectButtonDrag is InjectDrag with an explicit button and modifiers.
func (in *Injector) InjectButtonDrag(button boardkit.MouseButton, mods boardkit.Modifiers, fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	in.InjectPress(fromX, fromY, button, mods)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		in.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	in.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel tick at (x, y) with pixel deltas.
func (in *Injector) InjectWheel(x, y, dx, dy float64, mods boardkit.Modifiers) {
	f := in.tail()
	f.X, f.Y = x, y
	f.WheelX, f.WheelY = dx, dy
	f.WheelMode = boardkit.DeltaModePixel
	f.Modifiers = mods
	in.Inject(f)
}

// InjectEscape queues an Escape key press.
func (in *Injector) InjectEscape() {
	f := in.tail()
	f.Escape = true
	in.Inject(f)
}
