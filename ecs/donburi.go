package ecs

import (
	"github.com/phanxgames/boardkit"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ModeChangeEventType carries every accepted interaction-mode transition.
var ModeChangeEventType = events.NewEventType[boardkit.ModeChange]()

// PointerEventType carries canvas pointer events routed through the bridge.
var PointerEventType = events.NewEventType[boardkit.CanvasPointerEvent]()

// WheelEventType carries canvas wheel events routed through the bridge.
var WheelEventType = events.NewEventType[boardkit.WheelCanvasEvent]()

// InteractionState mirrors the board's interaction store for ECS systems
// that poll instead of subscribing.
type InteractionState struct {
	Mode    boardkit.ModeKind
	Cursor  string
	Changes int // accepted transitions since the bridge was created
}

// Interaction is the component holding InteractionState on the bridge's
// singleton entity.
var Interaction = donburi.NewComponentType[InteractionState]()

// Bridge publishes board interaction into a Donburi world. Events are
// queued; call events.ProcessAllEvents (or ProcessEvents per type) from the
// world's update to deliver them.
type Bridge struct {
	world  donburi.World
	entity donburi.Entity
}

// NewBridge creates a bridge and its singleton entity in world.
func NewBridge(world donburi.World) *Bridge {
	entity := world.Create(Interaction)
	Interaction.SetValue(world.Entry(entity), InteractionState{
		Mode:   boardkit.ModeIdle,
		Cursor: boardkit.CursorDefault,
	})
	return &Bridge{world: world, entity: entity}
}

// Attach creates a bridge and installs it as board's mode sink.
func Attach(board *boardkit.Board, world donburi.World) *Bridge {
	b := NewBridge(world)
	board.Interaction().SetModeSink(b)
	return b
}

// Entity returns the entity carrying the Interaction component.
func (b *Bridge) Entity() donburi.Entity { return b.entity }

// State returns the mirrored interaction state.
func (b *Bridge) State() InteractionState {
	return *Interaction.Get(b.world.Entry(b.entity))
}

// EmitModeChange implements boardkit.ModeSink.
func (b *Bridge) EmitModeChange(change boardkit.ModeChange) {
	st := Interaction.Get(b.world.Entry(b.entity))
	st.Mode = change.To
	st.Cursor = boardkit.CursorForMode(change.Mode)
	st.Changes++
	ModeChangeEventType.Publish(b.world, change)
}

// HandlePointer publishes evt.
func (b *Bridge) HandlePointer(evt boardkit.CanvasPointerEvent) {
	PointerEventType.Publish(b.world, evt)
}

// HandleWheel publishes evt.
func (b *Bridge) HandleWheel(evt boardkit.WheelCanvasEvent) {
	WheelEventType.Publish(b.world, evt)
}
