package boardkit

import "math"

// Zoom limits enforced by the zoom tools. The kernel itself only guards
// against zero, negative, and non-finite zoom.
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// Camera is the view state of one board: screen = world*Zoom + Pan.
type Camera struct {
	Zoom float64
	Pan  Vec2
}

// DefaultCamera returns the identity camera (zoom 1, no pan).
func DefaultCamera() Camera {
	return Camera{Zoom: 1}
}

// Valid reports whether the camera can be used without sanitizing: a positive
// finite zoom and a finite pan.
func (c Camera) Valid() bool {
	return c.Zoom > 0 && isFinite(c.Zoom) && c.Pan.finite()
}

// ClampZoom limits z to [MinZoom, MaxZoom]. A NaN becomes 1.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(z, MaxZoom))
}

// SanitizeCamera replaces a degenerate zoom (<= 0, NaN, Inf) with 1 and any
// non-finite pan component with 0, so conversions never produce NaN or Inf.
func SanitizeCamera(c Camera) Camera {
	if !(c.Zoom > 0) || math.IsInf(c.Zoom, 0) {
		c.Zoom = 1
	}
	if !isFinite(c.Pan.X) {
		c.Pan.X = 0
	}
	if !isFinite(c.Pan.Y) {
		c.Pan.Y = 0
	}
	return c
}

// containerOffset returns the container's screen-space origin, or (0, 0) for
// an empty or non-finite rectangle.
func containerOffset(container Rect) Vec2 {
	if container.IsEmpty() || !container.Min().finite() {
		return Vec2{}
	}
	return container.Min()
}

// --- Coordinate conversion ---

// WorldToScreen converts a world-space point to screen space:
// point*zoom + pan, plus the container origin when container is non-empty.
// Pass a zero Rect when coordinates are already container-relative.
func WorldToScreen(p Vec2, cam Camera, container Rect) Vec2 {
	cam = SanitizeCamera(cam)
	off := containerOffset(container)
	return Vec2{
		X: p.X*cam.Zoom + cam.Pan.X + off.X,
		Y: p.Y*cam.Zoom + cam.Pan.Y + off.Y,
	}
}

// ScreenToWorld is the exact inverse of WorldToScreen:
// (screen - container origin - pan) / zoom.
func ScreenToWorld(sx, sy float64, cam Camera, container Rect) Vec2 {
	cam = SanitizeCamera(cam)
	off := containerOffset(container)
	return Vec2{
		X: (sx - off.X - cam.Pan.X) / cam.Zoom,
		Y: (sy - off.Y - cam.Pan.Y) / cam.Zoom,
	}
}

// ScreenDeltaToWorld scales a screen-space movement into world units. It does
// not translate, so the result is independent of pan. A degenerate zoom is
// treated as 1.
func ScreenDeltaToWorld(dx, dy, zoom float64) Vec2 {
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		zoom = 1
	}
	return Vec2{X: dx / zoom, Y: dy / zoom}
}

// WorldDeltaToScreen is the inverse of ScreenDeltaToWorld.
func WorldDeltaToScreen(dx, dy, zoom float64) Vec2 {
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		zoom = 1
	}
	return Vec2{X: dx * zoom, Y: dy * zoom}
}

// VisibleWorldBounds returns the world-space rectangle visible through a
// container of the given size.
func VisibleWorldBounds(cam Camera, container Rect) Rect {
	cam = SanitizeCamera(cam)
	return Rect{
		X:      -cam.Pan.X / cam.Zoom,
		Y:      -cam.Pan.Y / cam.Zoom,
		Width:  math.Max(container.Width, 0) / cam.Zoom,
		Height: math.Max(container.Height, 0) / cam.Zoom,
	}
}
