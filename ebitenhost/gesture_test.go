package ebitenhost

import (
	"context"
	"testing"

	"github.com/phanxgames/boardkit"
)

// win converts a world point to window coordinates for the default camera
// and testContainer.
func win(x, y float64) (float64, float64) {
	return x + testContainer.X, y + testContainer.Y
}

func TestClickSelects(t *testing.T) {
	h := newHarness(t, rect("n1", 100, 100, 100, 100))
	var selected []string
	h.gestures.OnSelect = func(ids []string) { selected = ids }

	h.in.InjectClick(win(150, 150))
	h.run(t)
	if got := h.gestures.Selection(); len(got) != 1 || got[0] != "n1" {
		t.Errorf("Selection = %v, want [n1]", got)
	}
	if len(selected) != 1 {
		t.Errorf("OnSelect got %v", selected)
	}
	if !h.board.Interaction().IsMode(boardkit.ModeIdle) {
		t.Errorf("mode after click = %v", h.board.Interaction().ModeKind())
	}
	if n, _ := h.board.Graph().Node("n1"); n.Position != (boardkit.Vec2{X: 100, Y: 100}) {
		t.Errorf("click moved the node to %v", n.Position)
	}
}

func TestDragMovesElement(t *testing.T) {
	h := newHarness(t, rect("n1", 100, 100, 100, 100))
	x0, y0 := win(150, 150)
	x1, y1 := win(200, 210)
	h.in.InjectDrag(x0, y0, x1, y1, 5)
	h.run(t)

	want := boardkit.Vec2{X: 150, Y: 160}
	if el, _ := h.store.Element("n1"); el.Position != want {
		t.Errorf("store position = %v, want %v", el.Position, want)
	}
	if n, _ := h.board.Graph().Node("n1"); n.Position != want {
		t.Errorf("graph position = %v, want %v", n.Position, want)
	}
}

func TestDragInsideDeadZoneDoesNotMove(t *testing.T) {
	h := newHarness(t, rect("n1", 100, 100, 100, 100))
	x0, y0 := win(150, 150)
	h.in.InjectDrag(x0, y0, x0+2, y0+1, 3)
	h.run(t)
	if el, _ := h.store.Element("n1"); el.Position != (boardkit.Vec2{X: 100, Y: 100}) {
		t.Errorf("position = %v, want unchanged", el.Position)
	}
	if h.store.Version() != 0 {
		t.Error("store written for a click")
	}
}

func TestDragLockedNodeIsIgnored(t *testing.T) {
	locked := rect("n1", 100, 100, 100, 100)
	locked.Locked = true
	h := newHarness(t, locked)
	x0, y0 := win(150, 150)
	h.in.InjectDrag(x0, y0, x0+100, y0, 4)
	h.run(t)
	if el, _ := h.store.Element("n1"); el.Position.X != 100 {
		t.Errorf("locked node moved to %v", el.Position)
	}
}

func TestDragOnMoveCallback(t *testing.T) {
	h := newHarness(t, rect("n1", 100, 100, 100, 100))
	var got map[string]boardkit.Vec2
	h.gestures.OnMove = func(m map[string]boardkit.Vec2) { got = m }
	x0, y0 := win(150, 150)
	h.in.InjectDrag(x0, y0, x0+40, y0, 3)
	h.run(t)
	if got["n1"] != (boardkit.Vec2{X: 140, Y: 100}) {
		t.Errorf("OnMove = %v", got)
	}
	if h.store.Version() != 0 {
		t.Error("store written although OnMove was set")
	}
}

func TestEscapeAbandonsDrag(t *testing.T) {
	h := newHarness(t, rect("n1", 100, 100, 100, 100))
	x0, y0 := win(150, 150)
	h.in.InjectPress(x0, y0, boardkit.MouseButtonLeft, boardkit.Modifiers{})
	h.in.InjectMove(x0+60, y0)
	h.in.InjectEscape()
	h.in.InjectRelease(x0+60, y0)
	h.run(t)
	if el, _ := h.store.Element("n1"); el.Position.X != 100 {
		t.Errorf("abandoned drag moved node to %v", el.Position)
	}
}

func TestBoxSelect(t *testing.T) {
	h := newHarness(t, rect("a", 100, 100, 50, 50), rect("b", 400, 400, 50, 50))
	x0, y0 := win(90, 90)
	x1, y1 := win(160, 160)
	h.in.InjectDrag(x0, y0, x1, y1, 3)
	h.run(t)
	if got := h.gestures.Selection(); len(got) != 1 || got[0] != "a" {
		t.Errorf("Selection = %v, want [a]", got)
	}
}

func TestBoxSelectAdditive(t *testing.T) {
	h := newHarness(t, rect("a", 100, 100, 50, 50), rect("b", 400, 400, 50, 50))
	h.gestures.Select("b")
	x0, y0 := win(90, 90)
	x1, y1 := win(160, 160)
	h.in.InjectButtonDrag(boardkit.MouseButtonLeft, boardkit.Modifiers{Shift: true}, x0, y0, x1, y1, 3)
	h.run(t)
	got := h.gestures.Selection()
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("Selection = %v, want [b a]", got)
	}
}

func TestShiftClickToggles(t *testing.T) {
	h := newHarness(t, rect("a", 100, 100, 50, 50), rect("b", 400, 400, 50, 50))
	h.gestures.Select("a")
	shift := boardkit.Modifiers{Shift: true}
	bx, by := win(425, 425)
	h.in.InjectPress(bx, by, boardkit.MouseButtonLeft, shift)
	h.in.InjectRelease(bx, by)
	h.run(t)
	if got := h.gestures.Selection(); len(got) != 2 {
		t.Fatalf("Selection = %v, want two ids", got)
	}
	ax, ay := win(125, 125)
	h.in.InjectPress(ax, ay, boardkit.MouseButtonLeft, shift)
	h.in.InjectRelease(ax, ay)
	h.run(t)
	if got := h.gestures.Selection(); len(got) != 1 || got[0] != "b" {
		t.Errorf("Selection = %v, want [b]", got)
	}
}

func TestPanTool(t *testing.T) {
	h := newHarness(t, rect("n1", 0, 0, 800, 600))
	if !h.gestures.SetTool(ToolPan) {
		t.Fatal("SetTool refused")
	}
	h.in.InjectDrag(100, 100, 150, 120, 3)
	h.run(t)
	if got := h.board.Camera().Pan; got != (boardkit.Vec2{X: 50, Y: 20}) {
		t.Errorf("Pan = %v, want (50,20)", got)
	}
	if h.store.Version() != 0 {
		t.Error("pan tool moved an element")
	}
}

func TestDrawTool(t *testing.T) {
	h := newHarness(t)
	h.gestures.SetTool(ToolDraw)
	var strokes []Stroke
	h.gestures.OnStroke = func(s Stroke) { strokes = append(strokes, s) }

	h.in.InjectDrag(100, 100, 200, 200, 6)
	h.run(t)
	if len(strokes) != 1 {
		t.Fatalf("strokes = %d, want 1", len(strokes))
	}
	s := strokes[0]
	if s.ID == "" || s.Tool != "pen" || len(s.Points) != 6 {
		t.Errorf("stroke = %+v", s)
	}
}

func TestDrawToolStoresElement(t *testing.T) {
	h := newHarness(t)
	h.gestures.SetTool(ToolDraw)
	h.in.InjectDrag(100, 100, 200, 200, 4)
	h.run(t)

	els, _ := h.store.Elements(context.Background())
	if len(els) != 1 {
		t.Fatalf("elements = %d, want 1", len(els))
	}
	el := els[0]
	if _, ok := el.Data["stroke"]; !ok {
		t.Errorf("element data = %v", el.Data)
	}
	if el.Position != (boardkit.Vec2{X: 100, Y: 50}) || el.Size != (boardkit.Vec2{X: 100, Y: 100}) {
		t.Errorf("stroke bounds = %v %v", el.Position, el.Size)
	}
}

func TestConnectTool(t *testing.T) {
	h := newHarness(t, rect("a", 100, 100, 100, 100), rect("b", 400, 100, 100, 100))
	h.gestures.SetTool(ToolConnect)
	x0, y0 := win(200, 150) // right anchor of a
	x1, y1 := win(400, 150) // left anchor of b
	h.in.InjectDrag(x0, y0, x1, y1, 4)
	h.run(t)

	edges := h.board.Graph().Edges()
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}
	e := edges[0]
	if e.Source.NodeID != "a" || e.Source.Anchor != boardkit.AnchorRight ||
		e.Target.NodeID != "b" || e.Target.Anchor != boardkit.AnchorLeft {
		t.Errorf("edge = %+v", e)
	}
}

func TestConnectToNothingIsDropped(t *testing.T) {
	h := newHarness(t, rect("a", 100, 100, 100, 100))
	h.gestures.SetTool(ToolConnect)
	var conns []Connection
	h.gestures.OnConnect = func(c Connection) { conns = append(conns, c) }
	x0, y0 := win(150, 150)
	h.in.InjectDrag(x0, y0, x0+300, y0, 3)
	h.run(t)
	if len(conns) != 0 {
		t.Errorf("connections = %v, want none", conns)
	}
}

func TestToolShortcutsBlockedWhileConnecting(t *testing.T) {
	h := newHarness(t, rect("a", 100, 100, 100, 100))
	h.gestures.SetTool(ToolConnect)
	x0, y0 := win(150, 150)
	h.in.InjectPress(x0, y0, boardkit.MouseButtonLeft, boardkit.Modifiers{})
	h.in.InjectMove(x0+20, y0)
	h.run(t)
	if !h.board.Interaction().IsMode(boardkit.ModeConnecting) {
		t.Fatalf("mode = %v", h.board.Interaction().ModeKind())
	}
	if h.gestures.SetTool(ToolSelect) {
		t.Error("SetTool accepted while connecting")
	}
	if h.gestures.Tool() != ToolConnect {
		t.Errorf("Tool = %v", h.gestures.Tool())
	}
}

func TestTypingThenClickAway(t *testing.T) {
	h := newHarness(t, rect("n1", 100, 100, 100, 100))
	h.in.InjectClick(win(150, 150))
	h.run(t)
	if !h.gestures.BeginEdit() {
		t.Fatal("BeginEdit refused")
	}
	st := h.board.Interaction()
	if !st.IsMode(boardkit.ModeTyping) {
		t.Fatalf("mode = %v", st.ModeKind())
	}

	// Clicking inside the edited node keeps typing.
	h.in.InjectClick(win(160, 160))
	h.run(t)
	if !st.IsMode(boardkit.ModeTyping) {
		t.Errorf("click inside editor left typing: %v", st.ModeKind())
	}

	h.in.InjectClick(win(600, 500))
	h.run(t)
	if !st.IsMode(boardkit.ModeIdle) {
		t.Errorf("click away left mode %v", st.ModeKind())
	}
	if len(h.gestures.Selection()) != 0 {
		t.Errorf("Selection = %v, want cleared", h.gestures.Selection())
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range []Tool{ToolSelect, ToolPan, ToolDraw, ToolConnect} {
		got, ok := ParseTool(tool.String())
		if !ok || got != tool {
			t.Errorf("ParseTool(%q) = %v, %v", tool.String(), got, ok)
		}
	}
	if _, ok := ParseTool("lasso"); ok {
		t.Error("ParseTool accepted an unknown tool")
	}
}
