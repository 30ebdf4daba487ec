package ecs

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/boardkit"
)

var _ boardkit.ModeSink = (*Bridge)(nil)

func newBoard() *boardkit.Board {
	cfg := boardkit.DefaultConfig()
	cfg.Logger = boardkit.NewLogger(io.Discard, log.WarnLevel)
	return boardkit.NewBoard(cfg, nil)
}

func TestNewBridgeStartsIdle(t *testing.T) {
	world := donburi.NewWorld()
	b := NewBridge(world)
	st := b.State()
	if st.Mode != boardkit.ModeIdle || st.Cursor != boardkit.CursorDefault || st.Changes != 0 {
		t.Errorf("State = %+v", st)
	}
	if !world.Valid(b.Entity()) {
		t.Error("bridge entity is not valid")
	}
}

func TestBridgePublishesModeChanges(t *testing.T) {
	world := donburi.NewWorld()
	board := newBoard()
	b := Attach(board, world)

	var got []boardkit.ModeChange
	ModeChangeEventType.Subscribe(world, func(w donburi.World, c boardkit.ModeChange) {
		got = append(got, c)
	})

	st := board.Interaction()
	st.StartPanning(boardkit.Vec2{}, boardkit.Vec2{})
	if s := b.State(); s.Mode != boardkit.ModePanning || s.Cursor != boardkit.CursorGrab {
		t.Errorf("State after pan = %+v", s)
	}
	st.ResetToIdle()

	// Queued until processed.
	if len(got) != 0 {
		t.Fatalf("received %d events before processing", len(got))
	}
	ModeChangeEventType.ProcessEvents(world)

	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].From != boardkit.ModeIdle || got[0].To != boardkit.ModePanning {
		t.Errorf("event 0: %v -> %v", got[0].From, got[0].To)
	}
	if got[1].To != boardkit.ModeIdle {
		t.Errorf("event 1 to %v", got[1].To)
	}
	if s := b.State(); s.Mode != boardkit.ModeIdle || s.Changes != 2 {
		t.Errorf("State = %+v", s)
	}
}

func TestBridgeIgnoresRefusedTransitions(t *testing.T) {
	world := donburi.NewWorld()
	board := newBoard()
	b := Attach(board, world)

	st := board.Interaction()
	st.StartPanning(boardkit.Vec2{}, boardkit.Vec2{})
	st.StartTyping("n1", "") // panning -> typing is refused
	if s := b.State(); s.Mode != boardkit.ModePanning || s.Changes != 1 {
		t.Errorf("State = %+v", s)
	}
}

func TestBridgePublishesCanvasEvents(t *testing.T) {
	world := donburi.NewWorld()
	b := NewBridge(world)

	var pointers []boardkit.CanvasPointerEvent
	var wheels int
	PointerEventType.Subscribe(world, func(w donburi.World, e boardkit.CanvasPointerEvent) {
		pointers = append(pointers, e)
	})
	WheelEventType.Subscribe(world, func(w donburi.World, e boardkit.WheelCanvasEvent) {
		wheels++
	})

	board := newBoard()
	board.SetContainerRect(boardkit.Rect{Width: 800, Height: 600})
	b.HandlePointer(board.PointerEvent(boardkit.NativePointerEvent{ClientX: 10, ClientY: 20}, boardkit.PointerDown))
	b.HandleWheel(board.WheelEvent(boardkit.NativeWheelEvent{DeltaY: 1}))
	events.ProcessAllEvents(world)

	if len(pointers) != 1 || pointers[0].Type != boardkit.PointerDown {
		t.Fatalf("pointer events = %+v", pointers)
	}
	if pointers[0].WorldPoint != (boardkit.Vec2{X: 10, Y: 20}) {
		t.Errorf("WorldPoint = %v", pointers[0].WorldPoint)
	}
	if wheels != 1 {
		t.Errorf("wheel events = %d", wheels)
	}
}

func TestBridgeMultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	b := NewBridge(world)

	var count1, count2 int
	ModeChangeEventType.Subscribe(world, func(w donburi.World, c boardkit.ModeChange) { count1++ })
	ModeChangeEventType.Subscribe(world, func(w donburi.World, c boardkit.ModeChange) { count2++ })

	b.EmitModeChange(boardkit.ModeChange{From: boardkit.ModeIdle, To: boardkit.ModeDrawing, Mode: boardkit.NewIdleMode()})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
