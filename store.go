package boardkit

import (
	"github.com/charmbracelet/log"
)

// ModeChange describes one accepted transition.
type ModeChange struct {
	From ModeKind
	To   ModeKind
	Mode Mode
}

// ModeSink receives every accepted transition. The ecs package provides a
// Donburi-backed implementation.
type ModeSink interface {
	EmitModeChange(change ModeChange)
}

// --- Handler registry ---

type modeHandler struct {
	id uint32
	fn func(ModeChange)
}

type modeHandlerRegistry struct {
	handlers []modeHandler
	nextID   uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id  uint32
	reg *modeHandlerRegistry
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.handlers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = modeHandler{}
			h.reg.handlers = s[:len(s)-1]
			return
		}
	}
}

// --- Store ---

// Store holds the single active interaction mode of a board and the cursor
// derived from it. Every change goes through the transition table; illegal
// requests are refused with a warning and leave the mode untouched.
//
// Store is not safe for concurrent use; drive it from the input loop.
type Store struct {
	mode     Mode
	cursor   string
	logger   *log.Logger
	deadZone float64
	sink     ModeSink
	handlers modeHandlerRegistry
}

// NewStore creates a store in idle mode using cfg's logger and drag dead zone.
func NewStore(cfg Config) *Store {
	cfg = cfg.WithDefaults()
	idle := NewIdleMode()
	return &Store{
		mode:     idle,
		cursor:   CursorForMode(idle),
		logger:   cfg.Logger,
		deadZone: cfg.DragDeadZone,
	}
}

// Mode returns the active mode. Callers may read the payload; mutate it only
// through the Update methods.
func (s *Store) Mode() Mode { return s.mode }

// Cursor returns the CSS cursor for the active mode.
func (s *Store) Cursor() string { return s.cursor }

// ModeKind returns the kind of the active mode.
func (s *Store) ModeKind() ModeKind { return s.mode.Kind() }

// IsMode reports whether the active mode has the given kind.
func (s *Store) IsMode(kind ModeKind) bool { return s.mode.Kind() == kind }

// SetModeSink forwards accepted transitions to sink. Nil disables forwarding.
func (s *Store) SetModeSink(sink ModeSink) { s.sink = sink }

// OnModeChange registers a callback fired after every accepted transition.
func (s *Store) OnModeChange(fn func(ModeChange)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.handlers = append(s.handlers.handlers, modeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers}
}

// TransitionTo makes m the active mode if the table allows it. It never
// panics: a nil or illegal mode is refused with a warning and false.
func (s *Store) TransitionTo(m Mode) bool {
	from := s.mode.Kind()
	if isNilMode(m) {
		s.logger.Warn("refused transition to nil mode", "from", from)
		return false
	}
	to := m.Kind()
	if !CanTransitionKind(from, to) {
		s.logger.Warn("refused illegal transition", "from", from, "to", to)
		return false
	}
	s.mode = m
	s.cursor = CursorForMode(m)
	s.logger.Debug("mode transition", "from", from, "to", to)

	change := ModeChange{From: from, To: to, Mode: m}
	// Handlers may remove themselves (or others) while running.
	hs := append([]modeHandler(nil), s.handlers.handlers...)
	for _, h := range hs {
		h.fn(change)
	}
	if s.sink != nil {
		s.sink.EmitModeChange(change)
	}
	return true
}

// isNilMode reports whether m is nil or a nil variant pointer.
func isNilMode(m Mode) bool {
	switch v := m.(type) {
	case nil:
		return true
	case *IdleMode:
		return v == nil
	case *PanningMode:
		return v == nil
	case *DraggingMode:
		return v == nil
	case *BoxSelectMode:
		return v == nil
	case *TypingMode:
		return v == nil
	case *DrawingMode:
		return v == nil
	case *ConnectingMode:
		return v == nil
	case *ResizingMode:
		return v == nil
	case *RotatingMode:
		return v == nil
	}
	return false
}

// ResetToIdle returns to idle from any mode. Bound to Escape and pointer
// cancel by hosts.
func (s *Store) ResetToIdle() {
	s.TransitionTo(NewIdleMode())
}

// --- Starters ---

// StartPanning enters PanningMode.
func (s *Store) StartPanning(startScreen, startPan Vec2) bool {
	return s.TransitionTo(NewPanningMode(startScreen, startPan))
}

// StartDragging enters DraggingMode.
func (s *Store) StartDragging(nodeIDs []string, startWorld Vec2, startPositions map[string]Vec2) bool {
	return s.TransitionTo(NewDraggingMode(nodeIDs, startWorld, startPositions))
}

// StartBoxSelect enters BoxSelectMode.
func (s *Store) StartBoxSelect(startWorld Vec2, additive bool) bool {
	return s.TransitionTo(NewBoxSelectMode(startWorld, additive))
}

// StartTyping enters TypingMode for nodeID.
func (s *Store) StartTyping(nodeID, editorID string) bool {
	return s.TransitionTo(NewTypingMode(nodeID, editorID))
}

// StartDrawing enters DrawingMode. An empty strokeID gets a fresh UUID.
func (s *Store) StartDrawing(tool string, startWorld Vec2, strokeID string) bool {
	return s.TransitionTo(NewDrawingMode(tool, startWorld, strokeID))
}

// StartConnecting enters ConnectingMode.
func (s *Store) StartConnecting(sourceNodeID string, sourceAnchor AnchorPosition, startWorld Vec2) bool {
	return s.TransitionTo(NewConnectingMode(sourceNodeID, sourceAnchor, startWorld))
}

// StartResizing enters ResizingMode.
func (s *Store) StartResizing(nodeIDs []string, handle ResizeHandle, startWorld Vec2, startBounds map[string]Rect, aspectLocked, fromCenter bool) bool {
	return s.TransitionTo(NewResizingMode(nodeIDs, handle, startWorld, startBounds, aspectLocked, fromCenter))
}

// StartRotating enters RotatingMode.
func (s *Store) StartRotating(nodeIDs []string, centerWorld Vec2, startAngle float64, startRotations map[string]float64) bool {
	return s.TransitionTo(NewRotatingMode(nodeIDs, centerWorld, startAngle, startRotations))
}

// --- Updaters ---
//
// Each updater changes only the active payload and is a no-op returning false
// when the store is in another mode.

// UpdateDragging records the pointer's world position. IsDragStarted flips
// once the pointer has moved farther than the dead zone in screen pixels at
// the given zoom, and then stays set.
func (s *Store) UpdateDragging(currentWorld Vec2, zoom float64) bool {
	m, ok := s.mode.(*DraggingMode)
	if !ok {
		return false
	}
	m.CurrentWorld = currentWorld
	if !m.IsDragStarted {
		d := WorldDeltaToScreen(currentWorld.X-m.StartWorld.X, currentWorld.Y-m.StartWorld.Y, zoom)
		if d.Len() > s.deadZone {
			m.IsDragStarted = true
		}
	}
	return true
}

// UpdateBoxSelect moves the marquee's free corner.
func (s *Store) UpdateBoxSelect(currentWorld Vec2) bool {
	m, ok := s.mode.(*BoxSelectMode)
	if !ok {
		return false
	}
	m.CurrentWorld = currentWorld
	return true
}

// UpdateConnecting moves the connector's free end and records the node and
// anchor under it (empty when none).
func (s *Store) UpdateConnecting(currentWorld Vec2, hoveredNodeID string, hoveredAnchor AnchorPosition) bool {
	m, ok := s.mode.(*ConnectingMode)
	if !ok {
		return false
	}
	m.CurrentWorld = currentWorld
	m.HoveredNodeID = hoveredNodeID
	m.HoveredAnchor = hoveredAnchor
	return true
}

// UpdateResizing toggles the modifier-driven resize options mid-gesture.
func (s *Store) UpdateResizing(aspectLocked, fromCenter bool) bool {
	m, ok := s.mode.(*ResizingMode)
	if !ok {
		return false
	}
	m.AspectLocked = aspectLocked
	m.FromCenter = fromCenter
	return true
}

// --- Payload helpers ---

// Delta returns how far the drag has moved in world units.
func (m *DraggingMode) Delta() Vec2 {
	return m.CurrentWorld.Sub(m.StartWorld)
}

// PositionOf returns where node id should be drawn during the drag.
func (m *DraggingMode) PositionOf(id string) (Vec2, bool) {
	p, ok := m.StartPositions[id]
	if !ok {
		return Vec2{}, false
	}
	if !m.IsDragStarted {
		return p, true
	}
	return p.Add(m.Delta()), true
}

// Bounds returns the marquee rectangle in world space.
func (m *BoxSelectMode) Bounds() Rect {
	return RectFromPoints(m.StartWorld, m.CurrentWorld)
}
