package boardkit

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestBoard(elements ...Element) (*Board, *MemoryElementStore) {
	store := NewMemoryElementStore(elements...)
	b := NewBoard(quietConfig(), store)
	b.SetContainerRect(Rect{X: 0, Y: 40, Width: 800, Height: 600})
	if _, err := b.Refresh(context.Background()); err != nil {
		panic(err)
	}
	return b, store
}

func TestNewBoardDefaults(t *testing.T) {
	b := NewBoard(Config{}, nil)
	if b.Camera() != DefaultCamera() || !b.Interaction().IsMode(ModeIdle) {
		t.Error("new board not at default state")
	}
	if b.Elements() == nil {
		t.Error("nil element store not replaced")
	}
}

func TestBoardsAreIndependent(t *testing.T) {
	a, _ := newTestBoard()
	b, _ := newTestBoard()
	a.CameraController().ZoomAt(Vec2{}, 3)
	a.Interaction().StartPanning(Vec2{}, Vec2{})
	if b.Camera().Zoom != 1 || !b.Interaction().IsMode(ModeIdle) {
		t.Error("state leaked between boards")
	}
}

func TestBoardPointerEventUsesCurrentGeometry(t *testing.T) {
	b, _ := newTestBoard()
	b.CameraController().SetCamera(Camera{Zoom: 2, Pan: Vec2{10, 0}})
	evt := b.PointerEvent(NativePointerEvent{ClientX: 110, ClientY: 140}, PointerDown)
	if !vecApprox(evt.WorldPoint, Vec2{50, 50}, epsilon) {
		t.Errorf("WorldPoint = %v, want (50,50)", evt.WorldPoint)
	}
	if evt.ScreenPoint != (Vec2{110, 100}) {
		t.Errorf("ScreenPoint = %v", evt.ScreenPoint)
	}
	if got := b.ScreenToWorld(110, 140); !vecApprox(got, evt.WorldPoint, epsilon) {
		t.Errorf("ScreenToWorld disagrees with the pipeline: %v", got)
	}
}

func TestBoardPointerCancelResets(t *testing.T) {
	b, _ := newTestBoard()
	b.Interaction().StartBoxSelect(Vec2{}, false)
	b.PointerEvent(NativePointerEvent{}, PointerCancel)
	if !b.Interaction().IsMode(ModeIdle) {
		t.Errorf("mode after cancel = %v", b.Interaction().ModeKind())
	}
}

func TestBoardWheelZoom(t *testing.T) {
	b, _ := newTestBoard()
	native := NativeWheelEvent{ClientX: 200, ClientY: 240, DeltaY: -120, Modifiers: Modifiers{Ctrl: true}}
	before := b.ScreenToWorld(200, 240)
	evt := b.WheelEvent(native)
	if !b.ApplyWheel(evt) {
		t.Fatal("ApplyWheel reported no change")
	}
	if b.Camera().Zoom <= 1 {
		t.Errorf("Zoom = %v, want > 1", b.Camera().Zoom)
	}
	if after := b.ScreenToWorld(200, 240); !vecApprox(before, after, 1e-9) {
		t.Errorf("point under cursor moved: %v -> %v", before, after)
	}
}

func TestBoardDragScenario(t *testing.T) {
	b, store := newTestBoard(shape("n1", 100, 100, 50, 50))
	ctx := context.Background()

	down := b.PointerEvent(NativePointerEvent{ClientX: 120, ClientY: 160}, PointerDown)
	n, ok := b.Graph().HitTest(down.WorldPoint)
	if !ok || n.ID != "n1" {
		t.Fatalf("HitTest = %v, %v", n, ok)
	}
	st := b.Interaction()
	if !st.StartDragging([]string{n.ID}, down.WorldPoint, map[string]Vec2{n.ID: n.Position}) {
		t.Fatal("StartDragging refused")
	}
	if st.StartTyping("n1", "") {
		t.Error("StartTyping accepted mid-drag")
	}

	move := b.PointerEvent(NativePointerEvent{ClientX: 150, ClientY: 160}, PointerMove)
	st.UpdateDragging(move.WorldPoint, b.Camera().Zoom)
	m := st.Mode().(*DraggingMode)
	pos, _ := m.PositionOf("n1")
	if !m.IsDragStarted || pos != (Vec2{130, 100}) {
		t.Fatalf("drag state = %+v pos=%v", m, pos)
	}

	store.Move("n1", pos)
	b.Cancel()
	if _, err := b.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := b.Graph().Node("n1"); n.Position != (Vec2{130, 100}) {
		t.Errorf("graph position = %v", n.Position)
	}
}

func TestBoardReparentAndAnchor(t *testing.T) {
	b, _ := newTestBoard(shape("x", 0, 0, 10, 10), shape("y", 0, 0, 100, 100))
	if err := b.Reparent(context.Background(), []string{"x"}, "y"); err != nil {
		t.Fatal(err)
	}
	if p, ok := b.Graph().GetParent("x"); !ok || p.ID != "y" {
		t.Error("Reparent not applied")
	}
	m, ok := b.FindNearestAnchor("y", Vec2{100, 60})
	if !ok || m.Anchor.Position != AnchorRight {
		t.Errorf("FindNearestAnchor = %+v, %v", m, ok)
	}
}

func TestBoardCanvasTransform(t *testing.T) {
	b, _ := newTestBoard()
	ct := b.CanvasTransform(0, 800, 600)
	if ct.DPR != 1 || ct.BackingWidth != 800 {
		t.Errorf("CanvasTransform = %+v", ct)
	}
	vb := b.VisibleBounds()
	if vb.Width != 800 || vb.Height != 600 {
		t.Errorf("VisibleBounds = %+v", vb)
	}
}

func TestBoardDebugMode(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logger = NewLogger(&buf, log.WarnLevel)
	b := NewBoard(cfg, NewMemoryElementStore(shape("a", 0, 0, 1, 1)))

	b.SetDebugMode(true)
	if !b.DebugMode() {
		t.Fatal("DebugMode = false")
	}
	b.Refresh(context.Background())
	b.Interaction().StartPanning(Vec2{}, Vec2{})
	out := buf.String()
	if !strings.Contains(out, "mode transition") || !strings.Contains(out, "graph") {
		t.Errorf("debug output missing: %q", out)
	}

	b.SetDebugMode(false)
	if cfg.Logger.GetLevel() != log.WarnLevel {
		t.Errorf("level not restored: %v", cfg.Logger.GetLevel())
	}
}
