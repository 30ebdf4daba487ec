// Package boardkit is the interaction and coordinate kernel of a
// collaborative whiteboard.
//
// It owns four things every whiteboard front end needs and none of the
// rendering: the mapping between world space (where elements live) and
// screen space (where pointers are), the normalization of native pointer and
// wheel input into canvas events, the state machine that lets exactly one
// gesture run at a time, and a graph of the board's elements with their
// hierarchy, connectors, and anchors.
//
// # Quick start
//
// Create one [Board] per canvas surface and feed it native events:
//
//	elements := boardkit.NewMemoryElementStore(els...)
//	board := boardkit.NewBoard(boardkit.DefaultConfig(), elements)
//	board.SetContainerRect(boardkit.Rect{X: 0, Y: 64, Width: 1280, Height: 656})
//	_, _ = board.Refresh(ctx)
//
//	evt := board.PointerEvent(native, boardkit.PointerDown)
//	if n, ok := board.Graph().HitTest(evt.WorldPoint); ok {
//		board.Interaction().StartDragging([]string{n.ID}, evt.WorldPoint,
//			map[string]boardkit.Vec2{n.ID: n.Position})
//	}
//
// The ebitenhost package runs a board inside an Ebitengine game, and the ecs
// package bridges mode changes into a Donburi world.
//
// # Coordinates
//
// screen = world*zoom + pan (+ container origin). [WorldToScreen] and
// [ScreenToWorld] are exact inverses for every valid camera; degenerate
// cameras are sanitized rather than allowed to produce NaN. Zoom is clamped
// to [MinZoom, MaxZoom] by the [CameraController].
//
// # Interaction modes
//
// [Mode] is a closed sum type with nine variants. The [Store] holds exactly
// one and validates every change against a fixed transition table: an
// illegal request (for example typing while dragging) is refused with a
// warning, never a panic. [Store.ResetToIdle] is valid from every mode.
//
// # Element graph
//
// [Graph] is a projection of the external element list, rebuilt by
// [GraphSync] whenever the list changes. Connectors whose nodes have been
// deleted are dangling and silently left out of every query. Anchor
// positions are always computed from a node's current geometry.
package boardkit
