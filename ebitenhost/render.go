package ebitenhost

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/boardkit"
)

// Palette colors the Renderer uses.
type Palette struct {
	Background color.RGBA
	Node       color.RGBA
	Frame      color.RGBA
	Sticky     color.RGBA
	Text       color.RGBA
	Edge       color.RGBA
	Selection  color.RGBA
	Marquee    color.RGBA
	Stroke     color.RGBA
}

// DefaultPalette is a light whiteboard theme.
var DefaultPalette = Palette{
	Background: color.RGBA{R: 248, G: 248, B: 246, A: 255},
	Node:       color.RGBA{R: 120, G: 160, B: 220, A: 255},
	Frame:      color.RGBA{R: 225, G: 225, B: 225, A: 255},
	Sticky:     color.RGBA{R: 250, G: 220, B: 110, A: 255},
	Text:       color.RGBA{R: 60, G: 60, B: 60, A: 255},
	Edge:       color.RGBA{R: 70, G: 70, B: 90, A: 255},
	Selection:  color.RGBA{R: 30, G: 120, B: 255, A: 255},
	Marquee:    color.RGBA{R: 30, G: 120, B: 255, A: 60},
	Stroke:     color.RGBA{R: 20, G: 20, B: 20, A: 255},
}

// Renderer draws a board's graph and the active gesture with solid-color
// quads. It draws in container-relative screen space.
type Renderer struct {
	board    *boardkit.Board
	gestures *Gestures
	Palette  Palette

	pixel *ebiten.Image
	op    ebiten.DrawImageOptions
}

// NewRenderer creates a renderer. gestures may be nil; it supplies the
// selection and the in-progress stroke.
func NewRenderer(board *boardkit.Board, gestures *Gestures) *Renderer {
	return &Renderer{board: board, gestures: gestures, Palette: DefaultPalette}
}

// affineGeoM converts a boardkit matrix into an ebiten.GeoM.
func affineGeoM(a boardkit.Affine) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, a[0])
	m.SetElement(1, 0, a[1])
	m.SetElement(0, 1, a[2])
	m.SetElement(1, 1, a[3])
	m.SetElement(0, 2, a[4])
	m.SetElement(1, 2, a[5])
	return m
}

// Draw renders the board onto dst.
func (r *Renderer) Draw(dst *ebiten.Image) {
	if r.pixel == nil {
		r.pixel = ebiten.NewImage(1, 1)
		r.pixel.Fill(color.White)
	}
	dst.Fill(r.Palette.Background)

	cam := r.board.Camera()
	view := boardkit.CameraAffine(cam)
	graph := r.board.Graph()
	mode := r.board.Interaction().Mode()
	drag, _ := mode.(*boardkit.DraggingMode)

	for _, e := range graph.Edges() {
		from, ok1 := graph.ResolveEndpoint(e.Source)
		to, ok2 := graph.ResolveEndpoint(e.Target)
		if !ok1 || !ok2 {
			continue
		}
		r.polyline(dst, view, r.Palette.Edge, 2, edgePoints(from, to, e)...)
	}

	for _, n := range graph.Nodes() {
		if !n.Visible {
			continue
		}
		pos := n.Position
		if drag != nil {
			if p, ok := drag.PositionOf(n.ID); ok {
				pos = p
			}
		}
		if pts, ok := strokePoints(n.Data); ok {
			r.polyline(dst, view, r.Palette.Stroke, 2, pts...)
			continue
		}
		r.box(dst, view, pos, n.Size, n.Rotation, r.nodeColor(n.Type))
	}

	if r.gestures != nil {
		for _, id := range r.gestures.selection {
			if n, ok := graph.Node(id); ok {
				pos := n.Position
				if drag != nil {
					if p, ok := drag.PositionOf(id); ok {
						pos = p
					}
				}
				r.outline(dst, view, pos, n.Size, n.Rotation, r.Palette.Selection)
			}
		}
	}

	switch m := mode.(type) {
	case *boardkit.BoxSelectMode:
		b := m.Bounds()
		r.box(dst, view, b.Min(), boardkit.Vec2{X: b.Width, Y: b.Height}, 0, r.Palette.Marquee)
		r.outline(dst, view, b.Min(), boardkit.Vec2{X: b.Width, Y: b.Height}, 0, r.Palette.Selection)
	case *boardkit.ConnectingMode:
		if n, ok := graph.Node(m.SourceNodeID); ok {
			r.polyline(dst, view, r.Palette.Selection, 2, n.AnchorPoint(m.SourceAnchor), m.CurrentWorld)
		}
	case *boardkit.DrawingMode:
		if r.gestures != nil {
			r.polyline(dst, view, r.Palette.Stroke, 2, r.gestures.stroke...)
		}
	}
}

func (r *Renderer) nodeColor(t boardkit.NodeType) color.RGBA {
	switch t {
	case boardkit.ElementFrame:
		return r.Palette.Frame
	case boardkit.ElementSticky:
		return r.Palette.Sticky
	case boardkit.ElementText:
		return r.Palette.Text
	default:
		return r.Palette.Node
	}
}

// box fills a world-space rectangle rotated about its center.
func (r *Renderer) box(dst *ebiten.Image, view boardkit.Affine, pos, size boardkit.Vec2, rotation float64, c color.RGBA) {
	r.op.GeoM.Reset()
	r.op.GeoM.Scale(size.X, size.Y)
	r.op.GeoM.Translate(-size.X/2, -size.Y/2)
	r.op.GeoM.Rotate(rotation)
	r.op.GeoM.Translate(pos.X+size.X/2, pos.Y+size.Y/2)
	r.op.GeoM.Concat(affineGeoM(view))
	r.op.ColorScale.Reset()
	r.op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(r.pixel, &r.op)
}

// outline strokes the rotated rectangle's edges with a 1px screen-space line.
func (r *Renderer) outline(dst *ebiten.Image, view boardkit.Affine, pos, size boardkit.Vec2, rotation float64, c color.RGBA) {
	cx, cy := pos.X+size.X/2, pos.Y+size.Y/2
	m := boardkit.RotateAboutAffine(rotation, cx, cy)
	corners := []boardkit.Vec2{
		m.Apply(pos),
		m.Apply(boardkit.Vec2{X: pos.X + size.X, Y: pos.Y}),
		m.Apply(boardkit.Vec2{X: pos.X + size.X, Y: pos.Y + size.Y}),
		m.Apply(boardkit.Vec2{X: pos.X, Y: pos.Y + size.Y}),
		m.Apply(pos),
	}
	r.polyline(dst, view, c, 1, corners...)
}

// polyline strokes world-space points with a line width in screen pixels.
func (r *Renderer) polyline(dst *ebiten.Image, view boardkit.Affine, c color.RGBA, width float64, pts ...boardkit.Vec2) {
	for i := 1; i < len(pts); i++ {
		a, b := view.Apply(pts[i-1]), view.Apply(pts[i])
		d := b.Sub(a)
		length := d.Len()
		if length == 0 {
			continue
		}
		r.op.GeoM.Reset()
		r.op.GeoM.Scale(length, width)
		r.op.GeoM.Translate(0, -width/2)
		r.op.GeoM.Rotate(math.Atan2(d.Y, d.X))
		r.op.GeoM.Translate(a.X, a.Y)
		r.op.ColorScale.Reset()
		r.op.ColorScale.ScaleWithColor(c)
		dst.DrawImage(r.pixel, &r.op)
	}
}

// edgePoints returns the polyline of an edge. Orthogonal edges without
// control points get a single elbow at the horizontal midpoint.
func edgePoints(from, to boardkit.Vec2, e *boardkit.GraphEdge) []boardkit.Vec2 {
	pts := make([]boardkit.Vec2, 0, len(e.ControlPoints)+3)
	pts = append(pts, from)
	switch {
	case len(e.ControlPoints) > 0:
		pts = append(pts, e.ControlPoints...)
	case e.Type == boardkit.EdgeOrthogonal:
		midX := (from.X + to.X) / 2
		pts = append(pts, boardkit.Vec2{X: midX, Y: from.Y}, boardkit.Vec2{X: midX, Y: to.Y})
	}
	return append(pts, to)
}

// strokePoints extracts freehand points stored by Gestures. Data that went
// through JSON arrives as []any of {"x","y"} maps.
func strokePoints(data map[string]any) ([]boardkit.Vec2, bool) {
	raw, ok := data["stroke"]
	if !ok {
		return nil, false
	}
	switch v := raw.(type) {
	case []boardkit.Vec2:
		return v, true
	case []any:
		pts := make([]boardkit.Vec2, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			x, _ := m["x"].(float64)
			y, _ := m["y"].(float64)
			pts = append(pts, boardkit.Vec2{X: x, Y: y})
		}
		return pts, true
	}
	return nil, false
}
