package ebitenhost

import (
	"testing"

	"github.com/phanxgames/boardkit"
)

func TestInjectorQueueOrder(t *testing.T) {
	in := NewInjector(nil)
	in.InjectPress(10, 20, boardkit.MouseButtonLeft, boardkit.Modifiers{})
	in.InjectMove(30, 40)
	in.InjectRelease(50, 60)
	if in.Pending() != 3 {
		t.Fatalf("Pending = %d, want 3", in.Pending())
	}

	f := in.Poll()
	if b, ok := f.Pressed(); !ok || b != boardkit.MouseButtonLeft || f.X != 10 {
		t.Errorf("press frame = %+v", f)
	}
	f = in.Poll()
	if _, ok := f.Pressed(); !ok || f.X != 30 || f.Y != 40 {
		t.Errorf("move frame should keep the button: %+v", f)
	}
	f = in.Poll()
	if _, ok := f.Pressed(); ok || f.X != 50 {
		t.Errorf("release frame = %+v", f)
	}
}

func TestInjectorRepeatsLastFrame(t *testing.T) {
	in := NewInjector(nil)
	in.InjectWheel(5, 5, 0, 120, boardkit.Modifiers{})
	in.Poll()
	f := in.Poll()
	if f.X != 5 || f.WheelY != 0 {
		t.Errorf("idle poll = %+v, want position kept and wheel cleared", f)
	}
}

type fixedSource struct{ f Frame }

func (s fixedSource) Poll() Frame { return s.f }

func TestInjectorFallback(t *testing.T) {
	in := NewInjector(fixedSource{Frame{X: 99}})
	if f := in.Poll(); f.X != 99 {
		t.Errorf("fallback not used: %+v", f)
	}
	in.InjectMove(1, 1)
	if f := in.Poll(); f.X != 1 {
		t.Errorf("queued frame not preferred: %+v", f)
	}
}

func TestInjectDragFrames(t *testing.T) {
	tests := []struct {
		frames int
		want   int
	}{
		{0, 2},
		{2, 2},
		{5, 5},
	}
	for _, tt := range tests {
		in := NewInjector(nil)
		in.InjectDrag(0, 0, 100, 0, tt.frames)
		if in.Pending() != tt.want {
			t.Errorf("InjectDrag(frames=%d) queued %d, want %d", tt.frames, in.Pending(), tt.want)
		}
	}

	in := NewInjector(nil)
	in.InjectDrag(0, 0, 100, 0, 5)
	var xs []float64
	for in.Pending() > 0 {
		xs = append(xs, in.Poll().X)
	}
	want := []float64{0, 25, 50, 75, 100}
	for i := range want {
		if xs[i] != want[i] {
			t.Fatalf("drag xs = %v, want %v", xs, want)
		}
	}
}

func TestInjectEscape(t *testing.T) {
	in := NewInjector(nil)
	in.InjectPress(1, 1, boardkit.MouseButtonLeft, boardkit.Modifiers{})
	in.InjectEscape()
	in.Poll()
	f := in.Poll()
	if !f.Escape {
		t.Error("Escape not set")
	}
	if _, ok := f.Pressed(); !ok {
		t.Error("Escape frame dropped the held button")
	}
}

func TestInjectClickModifiers(t *testing.T) {
	in := NewInjector(nil)
	in.InjectPress(3, 4, boardkit.MouseButtonRight, boardkit.Modifiers{Alt: true})
	f := in.Poll()
	if b, _ := f.Pressed(); b != boardkit.MouseButtonRight || !f.Modifiers.Alt {
		t.Errorf("frame = %+v", f)
	}
}
