package ebitenhost

import (
	"strings"
	"testing"

	"github.com/phanxgames/boardkit"
)

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "drag", "fromX": 1, "fromY": 2, "toX": 3, "toY": 4, "button": "middle"}
		]
	}`)
	s, err := LoadScript(data, NewInjector(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(s.steps))
	}
	if s.steps[1].Action != "click" || s.steps[1].X != 100 || s.steps[1].Y != 200 {
		t.Errorf("step 1 = %+v", s.steps[1])
	}
	if s.steps[3].Button != "middle" || s.steps[3].ToY != 4 {
		t.Errorf("step 3 = %+v", s.steps[3])
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid json", `not json`, "parse script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "jump"}]}`, "unknown action"},
		{"unknown button", `{"steps": [{"action": "click", "button": "fourth"}]}`, "unknown button"},
		{"unknown tool", `{"steps": [{"action": "tool", "tool": "lasso"}]}`, "unknown tool"},
	}
	for _, tt := range tests {
		_, err := LoadScript([]byte(tt.data), NewInjector(nil))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want containing %q", tt.name, err, tt.want)
		}
	}
}

// runScript steps the script and the host together until the script is done.
func runScript(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 200 && !g.Script.Done(); i++ {
		g.Script.step(g)
		if err := g.Host.Update(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	if !g.Script.Done() {
		t.Fatal("script did not finish")
	}
}

func TestScriptDrivesGame(t *testing.T) {
	h := newHarness(t, rect("a", 100, 100, 100, 100), rect("b", 400, 100, 100, 100))
	g := NewGame(h.board, h.in)
	data := []byte(`{"steps": [
		{"action": "click", "x": 150, "y": 200},
		{"action": "drag", "fromX": 150, "fromY": 200, "toX": 180, "toY": 220, "frames": 4},
		{"action": "tool", "tool": "connect"},
		{"action": "drag", "fromX": 200, "fromY": 200, "toX": 400, "toY": 200, "frames": 4},
		{"action": "wait", "frames": 2},
		{"action": "screenshot", "label": "after connect"}
	]}`)
	s, err := LoadScript(data, h.in)
	if err != nil {
		t.Fatal(err)
	}
	g.Script = s
	runScript(t, g)

	if el, _ := h.store.Element("a"); el.Position != (boardkit.Vec2{X: 130, Y: 120}) {
		t.Errorf("a moved to %v, want (130,120)", el.Position)
	}
	if g.Gestures.Tool() != ToolConnect {
		t.Errorf("Tool = %v", g.Gestures.Tool())
	}
	if n := len(h.board.Graph().Edges()); n != 1 {
		t.Errorf("edges = %d, want 1", n)
	}
	if len(g.shots) != 1 || g.shots[0] != "after connect" {
		t.Errorf("queued screenshots = %v", g.shots)
	}
	if saved := g.Screenshots(); len(saved) != 0 {
		t.Errorf("Screenshots before Draw = %v, want none", saved)
	}
}

func TestScriptWheelAndEscape(t *testing.T) {
	h := newHarness(t)
	g := NewGame(h.board, h.in)
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "wheel", "x": 400, "y": 350, "dy": -100, "ctrl": true},
		{"action": "escape"}
	]}`), h.in)
	if err != nil {
		t.Fatal(err)
	}
	g.Script = s
	runScript(t, g)
	if z := h.board.Camera().Zoom; z <= 1 {
		t.Errorf("Zoom = %v, want > 1", z)
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"initial", "initial"},
		{"after connect", "after_connect"},
		{"  ", "unlabeled"},
		{"a/b\\c.png", "a_b_c.png"},
		{"zoom 2x: ok?", "zoom_2x__ok_"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
