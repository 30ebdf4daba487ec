package boardkit

// ElementType is the type of an element in the external element list.
type ElementType string

// Element types. Arrow and connector elements become graph edges; every other
// type becomes a node.
const (
	ElementShape     ElementType = "shape"
	ElementText      ElementType = "text"
	ElementImage     ElementType = "image"
	ElementFrame     ElementType = "frame"
	ElementFile      ElementType = "file"
	ElementSticky    ElementType = "sticky"
	ElementArrow     ElementType = "arrow"
	ElementConnector ElementType = "connector"
)

// IsConnector reports whether elements of this type project to edges.
func (t ElementType) IsConnector() bool {
	return t == ElementArrow || t == ElementConnector
}

// Element is the minimal record the board reads from the external element
// list. Rotation is in radians, clockwise.
type Element struct {
	ID       string         `json:"id"`
	Type     ElementType    `json:"type"`
	Position Vec2           `json:"position"`
	Size     Vec2           `json:"size"`
	Rotation float64        `json:"rotation,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Style    map[string]any `json:"style,omitempty"`
	Visible  bool           `json:"visible"`
	Locked   bool           `json:"locked,omitempty"`
	LayerID  string         `json:"layerId,omitempty"`
	ZIndex   int            `json:"zIndex"`
	ParentID string         `json:"parentId,omitempty"`

	// Connector is set for arrow and connector elements.
	Connector *ConnectorData `json:"connector,omitempty"`
}

// Bounds returns the element's unrotated world bounds.
func (e Element) Bounds() Rect {
	return Rect{X: e.Position.X, Y: e.Position.Y, Width: e.Size.X, Height: e.Size.Y}.Normalize()
}

// ConnectorData holds the endpoints and routing of a connector element.
type ConnectorData struct {
	Source        Endpoint `json:"source"`
	Target        Endpoint `json:"target"`
	ControlPoints []Vec2   `json:"controlPoints,omitempty"`
	Routing       EdgeType `json:"routing,omitempty"`
	Label         string   `json:"label,omitempty"`
}

// Endpoint is one end of a connector. With NodeID set it is attached to that
// node (at Anchor if given); otherwise it floats at Position.
type Endpoint struct {
	NodeID   string         `json:"nodeId,omitempty"`
	Anchor   AnchorPosition `json:"anchor,omitempty"`
	Position Vec2           `json:"position"`
	Style    string         `json:"style,omitempty"`
}

// Attached reports whether the endpoint references a node.
func (e Endpoint) Attached() bool {
	return e.NodeID != ""
}
