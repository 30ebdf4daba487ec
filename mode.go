package boardkit

import "github.com/google/uuid"

// ModeKind is the tag of an interaction mode.
type ModeKind uint8

const (
	ModeIdle ModeKind = iota
	ModePanning
	ModeDragging
	ModeBoxSelect
	ModeTyping
	ModeDrawing
	ModeConnecting
	ModeResizing
	ModeRotating

	modeKindCount
)

var modeKindNames = [modeKindCount]string{
	"idle", "panning", "dragging", "boxSelect", "typing",
	"drawing", "connecting", "resizing", "rotating",
}

// String returns the kind's name.
func (k ModeKind) String() string {
	if k < modeKindCount {
		return modeKindNames[k]
	}
	return "unknown"
}

// ParseModeKind returns the kind with the given name.
func ParseModeKind(name string) (ModeKind, bool) {
	for i, n := range modeKindNames {
		if n == name {
			return ModeKind(i), true
		}
	}
	return ModeIdle, false
}

// AllModeKinds returns every kind in declaration order.
func AllModeKinds() []ModeKind {
	kinds := make([]ModeKind, modeKindCount)
	for i := range kinds {
		kinds[i] = ModeKind(i)
	}
	return kinds
}

// Mode is one of the nine interaction modes. The set is closed: only the
// variant types in this file implement it.
type Mode interface {
	Kind() ModeKind
	isMode()
}

// --- Variants ---

// IdleMode is the initial mode: no gesture in progress.
type IdleMode struct{}

// PanningMode moves the camera with the pointer.
type PanningMode struct {
	StartScreen Vec2
	StartPan    Vec2
}

// DraggingMode moves the selected nodes. IsDragStarted stays false until the
// pointer leaves the drag dead zone, so a click does not nudge anything.
type DraggingMode struct {
	NodeIDs        []string
	StartWorld     Vec2
	StartPositions map[string]Vec2
	CurrentWorld   Vec2
	IsDragStarted  bool
}

// BoxSelectMode draws a marquee from StartWorld to CurrentWorld.
type BoxSelectMode struct {
	StartWorld   Vec2
	CurrentWorld Vec2
	Additive     bool
}

// TypingMode edits the text of one node.
type TypingMode struct {
	NodeID   string
	EditorID string
}

// DrawingMode records a freehand or shape stroke.
type DrawingMode struct {
	Tool       string
	StartWorld Vec2
	StrokeID   string
}

// ConnectingMode drags a connector out of a node anchor.
type ConnectingMode struct {
	SourceNodeID  string
	SourceAnchor  AnchorPosition
	CurrentWorld  Vec2
	HoveredNodeID string
	HoveredAnchor AnchorPosition
}

// ResizeHandle identifies the bounding box handle being dragged.
type ResizeHandle uint8

const (
	HandleNorthWest ResizeHandle = iota
	HandleNorth
	HandleNorthEast
	HandleEast
	HandleSouthEast
	HandleSouth
	HandleSouthWest
	HandleWest
)

var resizeHandleNames = [...]string{"nw", "n", "ne", "e", "se", "s", "sw", "w"}

// String returns the compass abbreviation of the handle.
func (h ResizeHandle) String() string {
	if int(h) < len(resizeHandleNames) {
		return resizeHandleNames[h]
	}
	return "unknown"
}

// ResizingMode scales the selected nodes from one handle.
type ResizingMode struct {
	NodeIDs      []string
	Handle       ResizeHandle
	StartWorld   Vec2
	StartBounds  map[string]Rect
	AspectLocked bool
	FromCenter   bool
}

// RotatingMode rotates the selected nodes about CenterWorld.
type RotatingMode struct {
	NodeIDs        []string
	CenterWorld    Vec2
	StartAngle     float64
	StartRotations map[string]float64
}

func (*IdleMode) Kind() ModeKind       { return ModeIdle }
func (*PanningMode) Kind() ModeKind    { return ModePanning }
func (*DraggingMode) Kind() ModeKind   { return ModeDragging }
func (*BoxSelectMode) Kind() ModeKind  { return ModeBoxSelect }
func (*TypingMode) Kind() ModeKind     { return ModeTyping }
func (*DrawingMode) Kind() ModeKind    { return ModeDrawing }
func (*ConnectingMode) Kind() ModeKind { return ModeConnecting }
func (*ResizingMode) Kind() ModeKind   { return ModeResizing }
func (*RotatingMode) Kind() ModeKind   { return ModeRotating }

func (*IdleMode) isMode()       {}
func (*PanningMode) isMode()    {}
func (*DraggingMode) isMode()   {}
func (*BoxSelectMode) isMode()  {}
func (*TypingMode) isMode()     {}
func (*DrawingMode) isMode()    {}
func (*ConnectingMode) isMode() {}
func (*ResizingMode) isMode()   {}
func (*RotatingMode) isMode()   {}

// --- Constructors ---

// NewIdleMode returns the idle mode.
func NewIdleMode() *IdleMode { return &IdleMode{} }

// NewPanningMode starts a pan at a screen point with the camera's current pan.
func NewPanningMode(startScreen, startPan Vec2) *PanningMode {
	return &PanningMode{StartScreen: startScreen, StartPan: startPan}
}

// NewDraggingMode starts a drag of nodeIDs. startPositions is copied.
func NewDraggingMode(nodeIDs []string, startWorld Vec2, startPositions map[string]Vec2) *DraggingMode {
	pos := make(map[string]Vec2, len(startPositions))
	for id, p := range startPositions {
		pos[id] = p
	}
	return &DraggingMode{
		NodeIDs:        append([]string(nil), nodeIDs...),
		StartWorld:     startWorld,
		StartPositions: pos,
		CurrentWorld:   startWorld,
	}
}

// NewBoxSelectMode starts a marquee at startWorld.
func NewBoxSelectMode(startWorld Vec2, additive bool) *BoxSelectMode {
	return &BoxSelectMode{StartWorld: startWorld, CurrentWorld: startWorld, Additive: additive}
}

// NewTypingMode starts editing nodeID. editorID may be empty.
func NewTypingMode(nodeID, editorID string) *TypingMode {
	return &TypingMode{NodeID: nodeID, EditorID: editorID}
}

// NewDrawingMode starts a stroke with tool. An empty strokeID is replaced by
// a fresh UUID.
func NewDrawingMode(tool string, startWorld Vec2, strokeID string) *DrawingMode {
	if strokeID == "" {
		strokeID = uuid.NewString()
	}
	return &DrawingMode{Tool: tool, StartWorld: startWorld, StrokeID: strokeID}
}

// NewConnectingMode starts a connector from an anchor of sourceNodeID.
func NewConnectingMode(sourceNodeID string, sourceAnchor AnchorPosition, startWorld Vec2) *ConnectingMode {
	return &ConnectingMode{SourceNodeID: sourceNodeID, SourceAnchor: sourceAnchor, CurrentWorld: startWorld}
}

// NewResizingMode starts a resize. startBounds is copied.
func NewResizingMode(nodeIDs []string, handle ResizeHandle, startWorld Vec2, startBounds map[string]Rect, aspectLocked, fromCenter bool) *ResizingMode {
	b := make(map[string]Rect, len(startBounds))
	for id, r := range startBounds {
		b[id] = r
	}
	return &ResizingMode{
		NodeIDs:      append([]string(nil), nodeIDs...),
		Handle:       handle,
		StartWorld:   startWorld,
		StartBounds:  b,
		AspectLocked: aspectLocked,
		FromCenter:   fromCenter,
	}
}

// NewRotatingMode starts a rotation about centerWorld. startRotations is copied.
func NewRotatingMode(nodeIDs []string, centerWorld Vec2, startAngle float64, startRotations map[string]float64) *RotatingMode {
	r := make(map[string]float64, len(startRotations))
	for id, v := range startRotations {
		r[id] = v
	}
	return &RotatingMode{
		NodeIDs:        append([]string(nil), nodeIDs...),
		CenterWorld:    centerWorld,
		StartAngle:     startAngle,
		StartRotations: r,
	}
}

// --- Transition table ---

// transitions[from][to] is true when the move is legal. Every gesture must
// return to idle before another one starts; the two typing exceptions let
// the caret hop between nodes and allow a middle-button pan mid-edit.
var transitions = func() (t [modeKindCount][modeKindCount]bool) {
	for k := ModeKind(0); k < modeKindCount; k++ {
		t[ModeIdle][k] = true
		t[k][ModeIdle] = true
	}
	t[ModeTyping][ModeTyping] = true
	t[ModeTyping][ModePanning] = true
	return t
}()

// CanTransition reports whether the table allows moving from current to
// target. A nil current is treated as idle.
func CanTransition(current Mode, target ModeKind) bool {
	from := ModeIdle
	if current != nil {
		from = current.Kind()
	}
	return CanTransitionKind(from, target)
}

// CanTransitionKind is CanTransition keyed by kinds.
func CanTransitionKind(from, to ModeKind) bool {
	if from >= modeKindCount || to >= modeKindCount {
		return false
	}
	return transitions[from][to]
}

// --- Derived helpers ---

// Cursor names, matching CSS cursor keywords.
const (
	CursorDefault    = "default"
	CursorGrab       = "grab"
	CursorGrabbing   = "grabbing"
	CursorMove       = "move"
	CursorCrosshair  = "crosshair"
	CursorText       = "text"
	CursorNWSEResize = "nwse-resize"
	CursorNESWResize = "nesw-resize"
	CursorNSResize   = "ns-resize"
	CursorEWResize   = "ew-resize"
)

// CursorForMode returns the CSS cursor to show while m is active.
func CursorForMode(m Mode) string {
	switch v := m.(type) {
	case *PanningMode:
		return CursorGrab
	case *DraggingMode:
		return CursorMove
	case *BoxSelectMode, *DrawingMode, *ConnectingMode:
		return CursorCrosshair
	case *TypingMode:
		return CursorText
	case *ResizingMode:
		return CursorForHandle(v.Handle)
	case *RotatingMode:
		return CursorGrabbing
	default:
		return CursorDefault
	}
}

// CursorForHandle returns the resize cursor for a bounding box handle.
func CursorForHandle(h ResizeHandle) string {
	switch h {
	case HandleNorthWest, HandleSouthEast:
		return CursorNWSEResize
	case HandleNorthEast, HandleSouthWest:
		return CursorNESWResize
	case HandleNorth, HandleSouth:
		return CursorNSResize
	case HandleEast, HandleWest:
		return CursorEWResize
	default:
		return CursorDefault
	}
}

// ShouldBlockToolShortcuts reports whether single-key tool hotkeys must be
// ignored because keystrokes belong to the active gesture.
func ShouldBlockToolShortcuts(m Mode) bool {
	return isKind(m, ModeTyping, ModeConnecting)
}

// ShouldBlockSelection reports whether box selection must not start.
func ShouldBlockSelection(m Mode) bool {
	return isKind(m, ModeTyping, ModeDrawing)
}

// RequiresPointerCapture reports whether the host must capture the pointer so
// move and up events keep arriving outside the canvas.
func RequiresPointerCapture(m Mode) bool {
	return isKind(m, ModePanning, ModeDragging, ModeResizing, ModeRotating, ModeConnecting)
}

func isKind(m Mode, kinds ...ModeKind) bool {
	if m == nil {
		return false
	}
	k := m.Kind()
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
