package ebitenhost

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/boardkit"
)

func TestAffineGeoM(t *testing.T) {
	a := boardkit.CameraAffine(boardkit.Camera{Zoom: 2, Pan: boardkit.Vec2{X: 10, Y: -5}}).
		Multiply(boardkit.RotateAboutAffine(0.4, 3, 3))
	m := affineGeoM(a)
	p := boardkit.Vec2{X: 7, Y: -2}
	gx, gy := m.Apply(p.X, p.Y)
	want := a.Apply(p)
	if math.Abs(gx-want.X) > 1e-9 || math.Abs(gy-want.Y) > 1e-9 {
		t.Errorf("GeoM.Apply = (%v,%v), want %v", gx, gy, want)
	}
}

func TestEdgePoints(t *testing.T) {
	from, to := boardkit.Vec2{X: 0, Y: 0}, boardkit.Vec2{X: 100, Y: 50}
	tests := []struct {
		name string
		edge boardkit.GraphEdge
		want []boardkit.Vec2
	}{
		{"straight", boardkit.GraphEdge{Type: boardkit.EdgeArrow}, []boardkit.Vec2{from, to}},
		{"orthogonal", boardkit.GraphEdge{Type: boardkit.EdgeOrthogonal}, []boardkit.Vec2{from, {X: 50, Y: 0}, {X: 50, Y: 50}, to}},
		{"control points", boardkit.GraphEdge{ControlPoints: []boardkit.Vec2{{X: 10, Y: 90}}}, []boardkit.Vec2{from, {X: 10, Y: 90}, to}},
	}
	for _, tt := range tests {
		got := edgePoints(from, to, &tt.edge)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
				break
			}
		}
	}
}

func TestStrokePointsAfterJSON(t *testing.T) {
	pts := []boardkit.Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}}
	if got, ok := strokePoints(map[string]any{"stroke": pts}); !ok || len(got) != 2 {
		t.Errorf("direct = %v, %v", got, ok)
	}

	raw, _ := json.Marshal(map[string]any{"stroke": pts})
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	got, ok := strokePoints(decoded)
	if !ok || len(got) != 2 || got[1] != (boardkit.Vec2{X: 3, Y: 4}) {
		t.Errorf("decoded = %v, %v", got, ok)
	}
	if _, ok := strokePoints(map[string]any{}); ok {
		t.Error("no stroke reported ok")
	}
}

func TestCursorShape(t *testing.T) {
	tests := []struct {
		css  string
		want ebiten.CursorShapeType
	}{
		{boardkit.CursorDefault, ebiten.CursorShapeDefault},
		{boardkit.CursorText, ebiten.CursorShapeText},
		{boardkit.CursorGrab, ebiten.CursorShapeMove},
		{boardkit.CursorNWSEResize, ebiten.CursorShapeNWSEResize},
		{CursorPointer, ebiten.CursorShapePointer},
		{"zoom-in", ebiten.CursorShapeDefault},
	}
	for _, tt := range tests {
		if got := cursorShape(tt.css); got != tt.want {
			t.Errorf("cursorShape(%q) = %v, want %v", tt.css, got, tt.want)
		}
	}
}
