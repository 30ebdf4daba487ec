package boardkit

import (
	"fmt"
	"math"
)

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// The layout matches CanvasRenderingContext2D.setTransform(a, b, c, d, e, f).
type Affine [6]float64

// IdentityAffine is the identity matrix.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// CameraAffine returns the world-to-screen matrix for a camera, ignoring any
// container offset.
func CameraAffine(cam Camera) Affine {
	cam = SanitizeCamera(cam)
	return Affine{cam.Zoom, 0, 0, cam.Zoom, cam.Pan.X, cam.Pan.Y}
}

// ScaleAffine returns a uniform scale matrix.
func ScaleAffine(s float64) Affine {
	return Affine{s, 0, 0, s, 0, 0}
}

// TranslateAffine returns a translation matrix.
func TranslateAffine(tx, ty float64) Affine {
	return Affine{1, 0, 0, 1, tx, ty}
}

// RotateAboutAffine returns a rotation of angle radians about (cx, cy).
func RotateAboutAffine(angle, cx, cy float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{
		cos, sin, -sin, cos,
		cx - cos*cx + sin*cy,
		cy - sin*cx - cos*cy,
	}
}

// Multiply returns m * o (o is applied first).
func (m Affine) Multiply(o Affine) Affine {
	return Affine{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Invert returns the inverse of m.
// Returns the identity matrix if m is singular (determinant ≈ 0).
func (m Affine) Invert() Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms a point by m.
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// CSS formats m as a CSS matrix() transform.
func (m Affine) CSS() string {
	return fmt.Sprintf("matrix(%g, %g, %g, %g, %g, %g)", m[0], m[1], m[2], m[3], m[4], m[5])
}

// --- Canvas transform ---

// CanvasTransform describes how to configure a canvas element and its 2D
// context so strokes stay crisp on high-density displays.
type CanvasTransform struct {
	// Matrix is the context transform: device-pixel scale * camera.
	Matrix Affine
	// CSS is the transform for a DOM layer stacked on the canvas (CSS pixels,
	// no device scale).
	CSS string
	// BackingWidth and BackingHeight are the canvas backing-store dimensions
	// in device pixels.
	BackingWidth  int
	BackingHeight int
	// DPR is the device pixel ratio actually used.
	DPR float64
}

// CanvasTransformFor builds the canvas transform for a camera, a device pixel
// ratio, and the canvas element's CSS size (offsetWidth/offsetHeight).
// A dpr that is not a positive finite number is treated as 1.
func CanvasTransformFor(cam Camera, dpr, offsetWidth, offsetHeight float64) CanvasTransform {
	if !(dpr > 0) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	cam = SanitizeCamera(cam)
	view := CameraAffine(cam)
	return CanvasTransform{
		Matrix:        ScaleAffine(dpr).Multiply(view),
		CSS:           fmt.Sprintf("translate(%gpx, %gpx) scale(%g)", cam.Pan.X, cam.Pan.Y, cam.Zoom),
		BackingWidth:  backingPixels(offsetWidth, dpr),
		BackingHeight: backingPixels(offsetHeight, dpr),
		DPR:           dpr,
	}
}

func backingPixels(css, dpr float64) int {
	if !(css > 0) || math.IsInf(css, 0) {
		return 0
	}
	return int(math.Round(css * dpr))
}
