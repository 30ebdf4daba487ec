package ebitenhost

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/boardkit"
)

// Handler receives the canvas events a Host produces.
type Handler interface {
	HandlePointer(evt boardkit.CanvasPointerEvent)
	// HandleWheel may call evt.PreventDefault to stop the default camera
	// zoom/pan.
	HandleWheel(evt boardkit.WheelCanvasEvent)
}

// Canceler is implemented by handlers that hold gesture state of their own
// and must drop it on Escape.
type Canceler interface {
	Cancel()
}

// Panel is a floating UI rectangle over the canvas, in window coordinates.
// Pointer events inside it are classified as panel hits.
type Panel struct {
	Name string
	Rect boardkit.Rect
}

// --- Host ---

// Host feeds one board from one Source. It tracks button edges, the pointer
// entering and leaving the container, and pointer capture: while the active
// mode requires capture, moves outside the container keep being delivered.
type Host struct {
	board    *boardkit.Board
	src      Source
	cursor   CursorSink
	logger   *log.Logger
	handlers []Handler
	panels   []Panel

	root *boardkit.DOMNode

	polled     bool
	lastX      float64
	lastY      float64
	down       bool
	button     boardkit.MouseButton
	inside     bool
	lastCursor string
}

// NewHost creates a host for board reading from src. If src implements
// CursorSink, the host keeps its cursor in step with the interaction mode.
func NewHost(board *boardkit.Board, src Source) *Host {
	h := &Host{
		board:  board,
		src:    src,
		logger: board.Config().Logger,
		root:   boardkit.NewDOMNode(nil, "canvas", boardkit.AttrCanvas, ""),
	}
	if cs, ok := src.(CursorSink); ok {
		h.cursor = cs
	}
	return h
}

// Board returns the hosted board.
func (h *Host) Board() *boardkit.Board { return h.board }

// AddHandler appends a handler. Handlers run in registration order.
func (h *Host) AddHandler(handler Handler) {
	h.handlers = append(h.handlers, handler)
}

// SetPanels replaces the floating panel rectangles.
func (h *Host) SetPanels(panels ...Panel) {
	h.panels = append(h.panels[:0], panels...)
}

// Update polls one frame, dispatches its events, advances camera animations
// by dt seconds, and re-syncs the graph with the element store.
func (h *Host) Update(dt float32) error {
	f := h.src.Poll()

	if f.Escape {
		h.cancel()
	}
	h.processPointer(f)
	h.processWheel(f)

	h.board.Update(dt)
	if _, err := h.board.Refresh(context.Background()); err != nil {
		return err
	}
	h.updateCursor()
	return nil
}

func (h *Host) cancel() {
	h.board.Cancel()
	for _, handler := range h.handlers {
		if c, ok := handler.(Canceler); ok {
			c.Cancel()
		}
	}
}

// processPointer runs the pointer state machine for the mouse.
func (h *Host) processPointer(f Frame) {
	container := h.board.ContainerRect()
	inside := container.IsEmpty() || container.Contains(f.X, f.Y)
	moved := !h.polled || f.X != h.lastX || f.Y != h.lastY
	button, pressed := f.Pressed()
	captured := h.down && boardkit.RequiresPointerCapture(h.board.Interaction().Mode())

	if inside != h.inside && h.polled {
		typ := boardkit.PointerLeave
		if inside {
			typ = boardkit.PointerEnter
		}
		h.dispatch(f, typ, boardkit.MouseButtonNone)
	}
	h.inside = inside

	if moved && (inside || captured) {
		b := boardkit.MouseButtonNone
		if h.down {
			b = h.button
		}
		h.dispatch(f, boardkit.PointerMove, b)
	}

	switch {
	case pressed && !h.down:
		// Presses outside the container belong to the surrounding UI.
		if inside {
			h.down = true
			h.button = button
			h.dispatch(f, boardkit.PointerDown, button)
		}
	case !pressed && h.down:
		h.down = false
		h.dispatch(f, boardkit.PointerUp, h.button)
	}

	h.polled = true
	h.lastX, h.lastY = f.X, f.Y
}

func (h *Host) processWheel(f Frame) {
	if f.WheelX == 0 && f.WheelY == 0 {
		return
	}
	container := h.board.ContainerRect()
	if !container.IsEmpty() && !container.Contains(f.X, f.Y) {
		return
	}
	evt := h.board.WheelEvent(boardkit.NativeWheelEvent{
		ClientX:   f.X,
		ClientY:   f.Y,
		DeltaX:    f.WheelX,
		DeltaY:    f.WheelY,
		DeltaMode: f.WheelMode,
		Modifiers: f.Modifiers,
		Target:    h.targetAt(f.X, f.Y),
	})
	for _, handler := range h.handlers {
		handler.HandleWheel(evt)
	}
	if !evt.DefaultPrevented() {
		h.board.ApplyWheel(evt)
	}
}

func (h *Host) dispatch(f Frame, typ boardkit.PointerEventType, button boardkit.MouseButton) {
	native := boardkit.NativePointerEvent{
		ClientX:     f.X,
		ClientY:     f.Y,
		Button:      button,
		PointerType: "mouse",
		Modifiers:   f.Modifiers,
		Target:      h.targetAt(f.X, f.Y),
	}
	evt := h.board.PointerEvent(native, typ)
	if h.logger.GetLevel() <= log.DebugLevel && typ != boardkit.PointerMove {
		h.logger.Debug("pointer", "type", typ, "button", button, "x", f.X, "y", f.Y)
	}
	for _, handler := range h.handlers {
		if evt.PropagationStopped() {
			break
		}
		handler.HandlePointer(evt)
	}
}

// targetAt builds the target chain for a window point: a panel, an element
// on the canvas, or the bare canvas.
func (h *Host) targetAt(x, y float64) boardkit.Target {
	for _, p := range h.panels {
		if p.Rect.Contains(x, y) {
			return boardkit.NewDOMNode(nil, "panel", boardkit.AttrPanel, p.Name)
		}
	}
	world := h.board.ScreenToWorld(x, y)
	if n, ok := h.board.Graph().HitTest(world); ok {
		return boardkit.NewDOMNode(h.root, "element", boardkit.AttrElementID, n.ID)
	}
	return h.root
}

func (h *Host) updateCursor() {
	if h.cursor == nil {
		return
	}
	st := h.board.Interaction()
	css := st.Cursor()
	if st.IsMode(boardkit.ModeIdle) && h.inside {
		world := h.board.ScreenToWorld(h.lastX, h.lastY)
		if _, ok := h.board.Graph().HitTest(world); ok {
			css = CursorPointer
		}
	}
	if css != h.lastCursor {
		h.cursor.SetCursor(css)
		h.lastCursor = css
	}
}
