package boardkit

import "math"

// AnchorPosition names a connection point on a node's bounding box.
type AnchorPosition string

const (
	AnchorNone   AnchorPosition = ""
	AnchorTop    AnchorPosition = "top"
	AnchorBottom AnchorPosition = "bottom"
	AnchorLeft   AnchorPosition = "left"
	AnchorRight  AnchorPosition = "right"
	AnchorCenter AnchorPosition = "center"
)

// anchorPositions is the fixed anchor set, in the order anchors are listed.
var anchorPositions = [...]AnchorPosition{AnchorTop, AnchorBottom, AnchorLeft, AnchorRight, AnchorCenter}

// AnchorPositions returns the fixed anchor set.
func AnchorPositions() []AnchorPosition {
	return append([]AnchorPosition(nil), anchorPositions[:]...)
}

// Valid reports whether p is one of the fixed positions.
func (p AnchorPosition) Valid() bool {
	for _, a := range anchorPositions {
		if a == p {
			return true
		}
	}
	return false
}

// Anchor is a named connection point. It carries no coordinates: positions
// are computed from the node's current geometry whenever they are needed.
type Anchor struct {
	ID       string         `json:"id"`
	Position AnchorPosition `json:"position"`
}

// AnchorsFor returns the deterministic anchor set for a node id.
func AnchorsFor(nodeID string) []Anchor {
	anchors := make([]Anchor, len(anchorPositions))
	for i, p := range anchorPositions {
		anchors[i] = Anchor{ID: nodeID + "-" + string(p), Position: p}
	}
	return anchors
}

// AnchorMatch is the result of FindNearestAnchor.
type AnchorMatch struct {
	Anchor   Anchor
	Position Vec2
	Distance float64
}

// AnchorPoint returns the world position of anchor p on a box at position
// with the given size, rotated by rotation radians about its center.
func AnchorPoint(position, size Vec2, rotation float64, p AnchorPosition) Vec2 {
	cx := position.X + size.X/2
	cy := position.Y + size.Y/2
	var local Vec2
	switch p {
	case AnchorTop:
		local = Vec2{cx, position.Y}
	case AnchorBottom:
		local = Vec2{cx, position.Y + size.Y}
	case AnchorLeft:
		local = Vec2{position.X, cy}
	case AnchorRight:
		local = Vec2{position.X + size.X, cy}
	default:
		local = Vec2{cx, cy}
	}
	if rotation == 0 {
		return local
	}
	return RotateAboutAffine(rotation, cx, cy).Apply(local)
}

// AnchorPoint returns the live world position of anchor p on n.
func (n *GraphNode) AnchorPoint(p AnchorPosition) Vec2 {
	return AnchorPoint(n.Position, n.Size, n.Rotation, p)
}

// nearestAnchor returns the closest anchor of n to point within threshold.
func nearestAnchor(n *GraphNode, point Vec2, threshold float64) (AnchorMatch, bool) {
	best := AnchorMatch{Distance: math.Inf(1)}
	found := false
	for _, a := range n.Anchors {
		pos := n.AnchorPoint(a.Position)
		d := pos.Dist(point)
		if d <= threshold && d < best.Distance {
			best = AnchorMatch{Anchor: a, Position: pos, Distance: d}
			found = true
		}
	}
	return best, found
}
