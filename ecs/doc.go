// Package ecs bridges boardkit interaction state into a Donburi world.
//
// [NewBridge] returns a [Bridge] that implements boardkit.ModeSink and the
// ebitenhost handler methods. Accepted mode transitions are published as
// [ModeChangeEventType] events and mirrored into an [Interaction]
// component on a singleton entity; canvas pointer and wheel events are
// published as [PointerEventType] and [WheelEventType].
//
// Usage:
//
//	bridge := ecs.Attach(board, world)
//	host.AddHandler(bridge)
//	ecs.ModeChangeEventType.Subscribe(world, onModeChange)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
