// Package ebitenhost runs a boardkit.Board inside an Ebitengine game.
//
// A [Host] polls a [Source] once per tick, turns edges in button state into
// pointer down/up/move events, routes wheel input to the camera, and keeps
// the window cursor in step with the interaction mode. [Gestures] is a
// reference tool layer (select, drag, box select, pan, draw, connect) built
// only from the board's public API, and [Game] ties both to a [Renderer]
// behind the ebiten.Game interface.
//
// Tests and scripted demos drive the same code through an [Injector], which
// queues synthetic frames in screen coordinates instead of reading devices.
// A [Script] replays a JSON list of such inputs, tool switches, and
// screenshots frame by frame:
//
//	{"steps": [
//		{"action": "click", "x": 100, "y": 200},
//		{"action": "drag", "fromX": 100, "fromY": 200, "toX": 300, "toY": 200, "frames": 10},
//		{"action": "screenshot", "label": "moved"}
//	]}
package ebitenhost
