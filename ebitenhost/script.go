package ebitenhost

import (
	"encoding/json"
	"fmt"

	"github.com/phanxgames/boardkit"
)

// ScriptStep is one action of an input script. Coordinates are window
// (client) coordinates.
type ScriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Tool   string  `json:"tool,omitempty"`
	Button string  `json:"button,omitempty"` // left (default), middle, right
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Shift  bool    `json:"shift,omitempty"`
	Ctrl   bool    `json:"ctrl,omitempty"`
}

type scriptFile struct {
	Steps []ScriptStep `json:"steps"`
}

// Script replays a sequence of injected input, tool switches, and
// screenshots across frames for automated demos and visual checks. Attach it
// to a Game; each step waits for the previous step's frames to drain.
type Script struct {
	in        *Injector
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool
}

var scriptActions = map[string]bool{
	"click": true, "drag": true, "wheel": true, "escape": true,
	"tool": true, "edit": true, "wait": true, "screenshot": true,
}

// LoadScript parses a JSON script that injects its input through in.
func LoadScript(data []byte, in *Injector) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
		if _, ok := parseButton(st.Button); !ok {
			return nil, fmt.Errorf("parse script: step %d: unknown button %q", i, st.Button)
		}
		if _, ok := ParseTool(st.Tool); st.Action == "tool" && !ok {
			return nil, fmt.Errorf("parse script: step %d: unknown tool %q", i, st.Tool)
		}
	}
	return &Script{in: in, steps: f.Steps}, nil
}

// Done reports whether every step has run and its input has drained.
func (r *Script) Done() bool { return r.done }

func parseButton(name string) (boardkit.MouseButton, bool) {
	switch name {
	case "", "left":
		return boardkit.MouseButtonLeft, true
	case "middle":
		return boardkit.MouseButtonMiddle, true
	case "right":
		return boardkit.MouseButtonRight, true
	}
	return boardkit.MouseButtonNone, false
}

// step advances the script by one frame. Called from Game.Update before the
// host polls.
func (r *Script) step(g *Game) {
	if r.done {
		return
	}
	if r.in.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	mods := boardkit.Modifiers{Shift: st.Shift, Ctrl: st.Ctrl}
	button, _ := parseButton(st.Button)
	switch st.Action {
	case "screenshot":
		g.Screenshot(st.Label)
	case "click":
		r.in.InjectPress(st.X, st.Y, button, mods)
		r.in.InjectRelease(st.X, st.Y)
	case "drag":
		r.in.InjectButtonDrag(button, mods, st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wheel":
		r.in.InjectWheel(st.X, st.Y, st.DX, st.DY, mods)
	case "escape":
		r.in.InjectEscape()
	case "tool":
		t, _ := ParseTool(st.Tool)
		g.Gestures.SetTool(t)
	case "edit":
		g.Gestures.BeginEdit()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.in.Pending() == 0 {
		r.done = true
	}
}
