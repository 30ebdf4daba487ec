package boardkit

// Data attributes inspected by the hit classification helpers.
const (
	AttrElementID   = "data-element-id"
	AttrBoundingBox = "data-bounding-box"
	AttrPanel       = "data-panel"
	AttrCanvas      = "data-canvas"
)

// Target is the element an event was dispatched to, seen as a chain of
// ancestors carrying data attributes.
type Target interface {
	Attr(name string) (string, bool)
	ParentTarget() Target
}

// DOMNode is a minimal concrete Target: a tag, its attributes, and a parent.
type DOMNode struct {
	Tag    string
	Attrs  map[string]string
	Parent *DOMNode
}

// NewDOMNode creates a node with the given tag and attributes under parent
// (which may be nil). attrs alternates name, value.
func NewDOMNode(parent *DOMNode, tag string, attrs ...string) *DOMNode {
	n := &DOMNode{Tag: tag, Parent: parent, Attrs: make(map[string]string, len(attrs)/2)}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attrs[attrs[i]] = attrs[i+1]
	}
	return n
}

// Attr returns the attribute value and whether it is present.
func (n *DOMNode) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// ParentTarget returns the parent, or nil at the root.
func (n *DOMNode) ParentTarget() Target {
	if n == nil || n.Parent == nil {
		return nil
	}
	return n.Parent
}

// closestAttr walks from t up through its ancestors and returns the first
// value of the named attribute.
func closestAttr(t Target, name string) (string, bool) {
	for cur := t; cur != nil && !isNilTarget(cur); cur = cur.ParentTarget() {
		if v, ok := cur.Attr(name); ok {
			return v, true
		}
	}
	return "", false
}

// isNilTarget catches a typed nil *DOMNode stored in the interface.
func isNilTarget(t Target) bool {
	n, ok := t.(*DOMNode)
	return ok && n == nil
}

// --- Classification ---

// ElementIDOf returns the id of the canvas element that contains t.
func ElementIDOf(t Target) (string, bool) {
	id, ok := closestAttr(t, AttrElementID)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// IsCanvasElement reports whether t is, or is inside, a canvas element.
func IsCanvasElement(t Target) bool {
	_, ok := ElementIDOf(t)
	return ok
}

// IsBoundingBox reports whether t is part of a selection bounding box
// (including its resize and rotate handles).
func IsBoundingBox(t Target) bool {
	_, ok := closestAttr(t, AttrBoundingBox)
	return ok
}

// IsPanel reports whether t is inside a floating UI panel over the canvas.
func IsPanel(t Target) bool {
	_, ok := closestAttr(t, AttrPanel)
	return ok
}

// IsEmptyCanvasClick reports whether t is the canvas surface itself: inside
// the canvas and not on an element, bounding box, or panel. A pointer-down
// here starts a box select rather than a drag.
func IsEmptyCanvasClick(t Target) bool {
	if IsCanvasElement(t) || IsBoundingBox(t) || IsPanel(t) {
		return false
	}
	_, ok := closestAttr(t, AttrCanvas)
	return ok
}
