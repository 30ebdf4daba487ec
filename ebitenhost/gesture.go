package ebitenhost

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/phanxgames/boardkit"
)

// Tool selects what a primary-button press does.
type Tool uint8

const (
	ToolSelect  Tool = iota // select, drag, and box select
	ToolPan                 // drag the view
	ToolDraw                // freehand strokes
	ToolConnect             // drag connectors between anchors
)

var toolNames = [...]string{"select", "pan", "draw", "connect"}

// String returns the tool's name.
func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return "unknown"
}

// ParseTool returns the tool with the given name.
func ParseTool(name string) (Tool, bool) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), true
		}
	}
	return ToolSelect, false
}

// Mover is implemented by element stores that can move one element.
// boardkit.MemoryElementStore satisfies it.
type Mover interface {
	Move(id string, position boardkit.Vec2) bool
}

// Upserter is implemented by element stores that accept new elements.
// boardkit.MemoryElementStore satisfies it.
type Upserter interface {
	Upsert(e boardkit.Element)
}

// Connection is a connector the user finished dragging.
type Connection struct {
	SourceNodeID string
	SourceAnchor boardkit.AnchorPosition
	TargetNodeID string
	TargetAnchor boardkit.AnchorPosition
}

// Stroke is a finished freehand stroke in world coordinates.
type Stroke struct {
	ID     string
	Tool   string
	Points []boardkit.Vec2
}

// Gestures turns canvas events into interaction modes and element edits. It
// uses only the board's public API.
//
// Finished edits go to the On* callbacks when set; otherwise they are
// written to the board's element store when it implements Mover or
// Upserter.
type Gestures struct {
	board *boardkit.Board
	tool  Tool
	pen   string

	selection []string
	stroke    []boardkit.Vec2

	OnMove    func(moves map[string]boardkit.Vec2)
	OnStroke  func(s Stroke)
	OnConnect func(c Connection)
	OnSelect  func(ids []string)
}

// NewGestures creates a gesture layer for board with the select tool.
func NewGestures(board *boardkit.Board) *Gestures {
	return &Gestures{board: board, pen: "pen"}
}

// Tool returns the active tool.
func (g *Gestures) Tool() Tool { return g.tool }

// SetTool switches tools. It is ignored while the interaction mode blocks
// tool shortcuts (typing or connecting). Reports whether the tool changed.
func (g *Gestures) SetTool(t Tool) bool {
	if boardkit.ShouldBlockToolShortcuts(g.board.Interaction().Mode()) {
		return false
	}
	g.tool = t
	return true
}

// Selection returns the selected node ids.
func (g *Gestures) Selection() []string {
	return append([]string(nil), g.selection...)
}

// Select replaces the selection.
func (g *Gestures) Select(ids ...string) {
	g.selection = append(g.selection[:0], ids...)
	if g.OnSelect != nil {
		g.OnSelect(g.Selection())
	}
}

func (g *Gestures) selected(id string) bool {
	for _, s := range g.selection {
		if s == id {
			return true
		}
	}
	return false
}

func (g *Gestures) toggle(id string) {
	for i, s := range g.selection {
		if s == id {
			g.Select(append(g.Selection()[:i], g.selection[i+1:]...)...)
			return
		}
	}
	g.Select(append(g.Selection(), id)...)
}

// BeginEdit enters typing mode on the single selected node. Reports whether
// typing started.
func (g *Gestures) BeginEdit() bool {
	if len(g.selection) != 1 {
		return false
	}
	n, ok := g.board.Graph().Node(g.selection[0])
	if !ok || n.Locked {
		return false
	}
	return g.board.Interaction().StartTyping(n.ID, "")
}

// Cancel drops in-progress stroke points. The board resets the mode itself.
func (g *Gestures) Cancel() {
	g.stroke = nil
}

// HandleWheel leaves wheel events to the default camera handling.
func (g *Gestures) HandleWheel(boardkit.WheelCanvasEvent) {}

// HandlePointer implements Handler.
func (g *Gestures) HandlePointer(evt boardkit.CanvasPointerEvent) {
	switch evt.Type {
	case boardkit.PointerDown:
		g.down(evt)
	case boardkit.PointerMove:
		g.move(evt)
	case boardkit.PointerUp:
		g.up(evt)
	}
}

// --- Press ---

func (g *Gestures) down(evt boardkit.CanvasPointerEvent) {
	st := g.board.Interaction()

	if m, ok := st.Mode().(*boardkit.TypingMode); ok {
		if id, _ := boardkit.ElementIDOf(evt.Target); id == m.NodeID && evt.Button == boardkit.MouseButtonLeft {
			return // caret placement inside the editor
		}
		if evt.Button != boardkit.MouseButtonMiddle {
			st.ResetToIdle()
		}
	}

	if evt.Button == boardkit.MouseButtonMiddle || (evt.Button == boardkit.MouseButtonLeft && g.tool == ToolPan) {
		if st.StartPanning(evt.ScreenPoint, g.board.Camera().Pan) {
			evt.PreventDefault()
		}
		return
	}
	if evt.Button != boardkit.MouseButtonLeft || boardkit.IsPanel(evt.Target) {
		return
	}

	switch g.tool {
	case ToolDraw:
		if st.StartDrawing(g.pen, evt.WorldPoint, "") {
			g.stroke = []boardkit.Vec2{evt.WorldPoint}
		}
	case ToolConnect:
		g.startConnect(evt)
	default:
		g.startSelect(evt)
	}
}

func (g *Gestures) startConnect(evt boardkit.CanvasPointerEvent) {
	id, ok := boardkit.ElementIDOf(evt.Target)
	if !ok {
		return
	}
	anchor := boardkit.AnchorCenter
	if m, ok := g.board.FindNearestAnchor(id, evt.WorldPoint); ok {
		anchor = m.Anchor.Position
	}
	g.board.Interaction().StartConnecting(id, anchor, evt.WorldPoint)
}

func (g *Gestures) startSelect(evt boardkit.CanvasPointerEvent) {
	st := g.board.Interaction()
	additive := evt.Modifiers.Shift

	id, onElement := boardkit.ElementIDOf(evt.Target)
	if !onElement {
		if boardkit.ShouldBlockSelection(st.Mode()) {
			return
		}
		if !additive && len(g.selection) > 0 {
			g.Select()
		}
		st.StartBoxSelect(evt.WorldPoint, additive)
		return
	}

	switch {
	case additive:
		g.toggle(id)
	case !g.selected(id):
		g.Select(id)
	}
	if !g.selected(id) {
		return
	}

	graph := g.board.Graph()
	ids := make([]string, 0, len(g.selection))
	starts := make(map[string]boardkit.Vec2, len(g.selection))
	for _, sid := range g.selection {
		n, ok := graph.Node(sid)
		if !ok || n.Locked {
			continue
		}
		ids = append(ids, sid)
		starts[sid] = n.Position
	}
	if len(ids) > 0 {
		st.StartDragging(ids, evt.WorldPoint, starts)
	}
}

// --- Move ---

func (g *Gestures) move(evt boardkit.CanvasPointerEvent) {
	st := g.board.Interaction()
	switch m := st.Mode().(type) {
	case *boardkit.PanningMode:
		cam := g.board.Camera()
		cam.Pan = m.StartPan.Add(evt.ScreenPoint.Sub(m.StartScreen))
		g.board.CameraController().SetCamera(cam)
	case *boardkit.DraggingMode:
		st.UpdateDragging(evt.WorldPoint, g.board.Camera().Zoom)
	case *boardkit.BoxSelectMode:
		st.UpdateBoxSelect(evt.WorldPoint)
	case *boardkit.DrawingMode:
		// Skip points closer than one screen pixel to the previous one.
		minDist := 1 / g.board.Camera().Zoom
		if n := len(g.stroke); n == 0 || g.stroke[n-1].Dist(evt.WorldPoint) >= minDist {
			g.stroke = append(g.stroke, evt.WorldPoint)
		}
	case *boardkit.ConnectingMode:
		hovered, anchor := "", boardkit.AnchorNone
		if n, ok := g.board.Graph().HitTest(evt.WorldPoint); ok && n.ID != m.SourceNodeID {
			hovered, anchor = n.ID, boardkit.AnchorCenter
			if a, ok := g.board.FindNearestAnchor(n.ID, evt.WorldPoint); ok {
				anchor = a.Anchor.Position
			}
		}
		st.UpdateConnecting(evt.WorldPoint, hovered, anchor)
	}
}

// --- Release ---

func (g *Gestures) up(evt boardkit.CanvasPointerEvent) {
	st := g.board.Interaction()
	switch m := st.Mode().(type) {
	case *boardkit.IdleMode, *boardkit.TypingMode:
		return
	case *boardkit.DraggingMode:
		if m.IsDragStarted {
			moves := make(map[string]boardkit.Vec2, len(m.NodeIDs))
			for _, id := range m.NodeIDs {
				if p, ok := m.PositionOf(id); ok {
					moves[id] = p
				}
			}
			g.commitMoves(moves)
		}
	case *boardkit.BoxSelectMode:
		g.finishBoxSelect(m)
	case *boardkit.DrawingMode:
		g.commitStroke(Stroke{ID: m.StrokeID, Tool: m.Tool, Points: g.stroke})
		g.stroke = nil
	case *boardkit.ConnectingMode:
		if m.HoveredNodeID != "" {
			g.commitConnection(Connection{
				SourceNodeID: m.SourceNodeID,
				SourceAnchor: m.SourceAnchor,
				TargetNodeID: m.HoveredNodeID,
				TargetAnchor: m.HoveredAnchor,
			})
		}
	}
	st.ResetToIdle()
}

func (g *Gestures) finishBoxSelect(m *boardkit.BoxSelectMode) {
	bounds := m.Bounds()
	visible := true
	hits := g.board.Graph().QueryNodes(boardkit.NodeQuery{Bounds: &bounds, Visible: &visible})

	ids := make([]string, 0, len(hits))
	if m.Additive {
		ids = append(ids, g.selection...)
	}
	for _, n := range hits {
		if !m.Additive || !g.selected(n.ID) {
			ids = append(ids, n.ID)
		}
	}
	g.Select(ids...)
}

func (g *Gestures) commitMoves(moves map[string]boardkit.Vec2) {
	if g.OnMove != nil {
		g.OnMove(moves)
		return
	}
	if mv, ok := g.board.Elements().(Mover); ok {
		for id, p := range moves {
			mv.Move(id, p)
		}
		g.refresh()
	}
}

func (g *Gestures) commitStroke(s Stroke) {
	if len(s.Points) == 0 {
		return
	}
	if g.OnStroke != nil {
		g.OnStroke(s)
		return
	}
	up, ok := g.board.Elements().(Upserter)
	if !ok {
		return
	}
	bounds := strokeBounds(s.Points)
	up.Upsert(boardkit.Element{
		ID:       s.ID,
		Type:     boardkit.ElementShape,
		Position: bounds.Min(),
		Size:     boardkit.Vec2{X: bounds.Width, Y: bounds.Height},
		Visible:  true,
		ZIndex:   g.topZ() + 1,
		Data:     map[string]any{"stroke": s.Points, "tool": s.Tool},
	})
	g.refresh()
}

func (g *Gestures) commitConnection(c Connection) {
	if g.OnConnect != nil {
		g.OnConnect(c)
		return
	}
	up, ok := g.board.Elements().(Upserter)
	if !ok {
		return
	}
	up.Upsert(boardkit.Element{
		ID:      uuid.NewString(),
		Type:    boardkit.ElementConnector,
		Visible: true,
		ZIndex:  g.topZ() + 1,
		Connector: &boardkit.ConnectorData{
			Source:  boardkit.Endpoint{NodeID: c.SourceNodeID, Anchor: c.SourceAnchor},
			Target:  boardkit.Endpoint{NodeID: c.TargetNodeID, Anchor: c.TargetAnchor},
			Routing: boardkit.EdgeArrow,
		},
	})
	g.refresh()
}

func (g *Gestures) topZ() int {
	z := 0
	for _, n := range g.board.Graph().Nodes() {
		z = max(z, n.ZIndex)
	}
	for _, e := range g.board.Graph().Edges() {
		z = max(z, e.ZIndex)
	}
	return z
}

func (g *Gestures) refresh() {
	if _, err := g.board.Refresh(context.Background()); err != nil {
		g.board.Config().Logger.Error("refresh after edit", "err", err)
	}
}

func strokeBounds(points []boardkit.Vec2) boardkit.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	return boardkit.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
