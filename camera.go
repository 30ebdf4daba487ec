package boardkit

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Wheel delta modes, matching WheelEvent.deltaMode.
const (
	DeltaModePixel = 0
	DeltaModeLine  = 1
	DeltaModePage  = 2
)

const (
	wheelLinePixels = 16.0
	wheelPagePixels = 800.0
)

// cameraAnim holds active tweens for an animated pan or zoom.
type cameraAnim struct {
	tweenX    *gween.Tween
	tweenY    *gween.Tween
	tweenZoom *gween.Tween
	// anchor is set for zoom animations: the screen point whose world
	// position stays fixed while zoom changes.
	anchorScreen Vec2
	anchorWorld  Vec2
	doneX        bool
	doneY        bool
	doneZoom     bool
}

// CameraController owns a board's Camera and is the only place it changes.
// Every change is clamped to the configured zoom range and sanitized.
type CameraController struct {
	cam        Camera
	minZoom    float64
	maxZoom    float64
	wheelSpeed float64

	anim *cameraAnim
}

// NewCameraController creates a controller at the default camera using the
// zoom limits and wheel speed from cfg.
func NewCameraController(cfg Config) *CameraController {
	cfg = cfg.WithDefaults()
	// Configs built in code skip Validate; keep their limits in range too.
	minZoom := math.Max(MinZoom, math.Min(cfg.MinZoom, MaxZoom))
	maxZoom := math.Max(minZoom, math.Min(cfg.MaxZoom, MaxZoom))
	return &CameraController{
		cam:        DefaultCamera(),
		minZoom:    minZoom,
		maxZoom:    maxZoom,
		wheelSpeed: cfg.WheelZoomSpeed,
	}
}

// Camera returns the current camera.
func (c *CameraController) Camera() Camera {
	return c.cam
}

// SetCamera replaces the camera, clamping zoom and cancelling any animation.
func (c *CameraController) SetCamera(cam Camera) {
	c.anim = nil
	c.cam = c.sanitize(cam)
}

func (c *CameraController) clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return c.cam.Zoom
	}
	return math.Max(c.minZoom, math.Min(z, c.maxZoom))
}

func (c *CameraController) sanitize(cam Camera) Camera {
	cam = SanitizeCamera(cam)
	cam.Zoom = c.clampZoom(cam.Zoom)
	return cam
}

// PanBy moves the view by a screen-space delta.
func (c *CameraController) PanBy(dx, dy float64) {
	c.anim = nil
	c.cam = c.sanitize(Camera{Zoom: c.cam.Zoom, Pan: Vec2{c.cam.Pan.X + dx, c.cam.Pan.Y + dy}})
}

// ZoomAt sets the zoom while keeping the world point under screen (container
// relative) fixed on screen. Returns the zoom actually applied.
func (c *CameraController) ZoomAt(screen Vec2, zoom float64) float64 {
	c.anim = nil
	c.cam = zoomAbout(c.cam, screen, c.clampZoom(zoom))
	return c.cam.Zoom
}

// zoomAbout returns cam with the new zoom and a pan chosen so that screen maps
// to the same world point before and after.
func zoomAbout(cam Camera, screen Vec2, zoom float64) Camera {
	world := ScreenToWorld(screen.X, screen.Y, cam, Rect{})
	return SanitizeCamera(Camera{
		Zoom: zoom,
		Pan:  Vec2{screen.X - world.X*zoom, screen.Y - world.Y*zoom},
	})
}

// HandleWheel applies a wheel event: a zoom about the pointer when
// evt.IsZoom, otherwise a pan by the wheel deltas. Shift turns a vertical
// wheel into horizontal panning. Reports whether the camera changed.
func (c *CameraController) HandleWheel(evt WheelCanvasEvent) bool {
	before := c.cam
	dx, dy := wheelPixels(evt.DeltaX, evt.DeltaMode), wheelPixels(evt.DeltaY, evt.DeltaMode)
	if evt.IsZoom {
		factor := math.Exp(-dy * c.wheelSpeed)
		c.ZoomAt(evt.ScreenPoint, c.cam.Zoom*factor)
	} else {
		if evt.Modifiers.Shift && dx == 0 {
			dx, dy = dy, 0
		}
		c.PanBy(-dx, -dy)
	}
	return c.cam != before
}

func wheelPixels(delta float64, mode int) float64 {
	switch mode {
	case DeltaModeLine:
		return delta * wheelLinePixels
	case DeltaModePage:
		return delta * wheelPagePixels
	default:
		return delta
	}
}

// FitBounds zooms and pans so that world bounds fill a container of the given
// size with padding screen pixels on every side.
func (c *CameraController) FitBounds(bounds Rect, container Rect, padding float64) {
	bounds = bounds.Normalize()
	availW := container.Width - 2*padding
	availH := container.Height - 2*padding
	if bounds.IsEmpty() || availW <= 0 || availH <= 0 {
		return
	}
	zoom := c.clampZoom(math.Min(availW/bounds.Width, availH/bounds.Height))
	center := bounds.Center()
	c.SetCamera(Camera{
		Zoom: zoom,
		Pan: Vec2{
			X: container.Width/2 - center.X*zoom,
			Y: container.Height/2 - center.Y*zoom,
		},
	})
}

// --- Animation ---

// ScrollTo animates the pan to the given value over duration seconds.
func (c *CameraController) ScrollTo(pan Vec2, duration float32, easeFn ease.TweenFunc) {
	c.anim = &cameraAnim{
		tweenX:   gween.New(float32(c.cam.Pan.X), float32(pan.X), duration, easeFn),
		tweenY:   gween.New(float32(c.cam.Pan.Y), float32(pan.Y), duration, easeFn),
		doneZoom: true,
	}
}

// ZoomTo animates the zoom to the given value over duration seconds, keeping
// the world point under screen fixed throughout.
func (c *CameraController) ZoomTo(screen Vec2, zoom float64, duration float32, easeFn ease.TweenFunc) {
	zoom = c.clampZoom(zoom)
	c.anim = &cameraAnim{
		tweenZoom:    gween.New(float32(c.cam.Zoom), float32(zoom), duration, easeFn),
		anchorScreen: screen,
		anchorWorld:  ScreenToWorld(screen.X, screen.Y, c.cam, Rect{}),
		doneX:        true,
		doneY:        true,
	}
}

// AnimateTo animates to target over duration seconds. A zoom change runs as
// a zoom about the one screen point both cameras map to the same world
// point, so pan and zoom arrive together.
func (c *CameraController) AnimateTo(target Camera, duration float32, easeFn ease.TweenFunc) {
	target = c.sanitize(target)
	k := target.Zoom / c.cam.Zoom
	if math.Abs(k-1) < 1e-9 {
		c.ScrollTo(target.Pan, duration, easeFn)
		return
	}
	fixed := Vec2{
		X: (target.Pan.X - c.cam.Pan.X*k) / (1 - k),
		Y: (target.Pan.Y - c.cam.Pan.Y*k) / (1 - k),
	}
	c.ZoomTo(fixed, target.Zoom, duration, easeFn)
}

// Animating reports whether a ScrollTo, ZoomTo, or AnimateTo is in progress.
func (c *CameraController) Animating() bool {
	return c.anim != nil
}

// StopAnimation cancels any animation, leaving the camera where it is.
func (c *CameraController) StopAnimation() {
	c.anim = nil
}

// Update advances animations by dt seconds. Reports whether the camera moved.
func (c *CameraController) Update(dt float32) bool {
	a := c.anim
	if a == nil {
		return false
	}
	before := c.cam
	next := c.cam

	if !a.doneX {
		val, done := a.tweenX.Update(dt)
		next.Pan.X = float64(val)
		a.doneX = done
	}
	if !a.doneY {
		val, done := a.tweenY.Update(dt)
		next.Pan.Y = float64(val)
		a.doneY = done
	}
	if !a.doneZoom {
		val, done := a.tweenZoom.Update(dt)
		next.Zoom = c.clampZoom(float64(val))
		next.Pan = Vec2{
			X: a.anchorScreen.X - a.anchorWorld.X*next.Zoom,
			Y: a.anchorScreen.Y - a.anchorWorld.Y*next.Zoom,
		}
		a.doneZoom = done
	}

	c.cam = SanitizeCamera(next)
	if a.doneX && a.doneY && a.doneZoom {
		c.anim = nil
	}
	return c.cam != before
}
