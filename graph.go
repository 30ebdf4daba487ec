package boardkit

import (
	"math"
	"sort"
)

// NodeType is the element type of a graph node.
type NodeType = ElementType

// EdgeType is the routing style of a graph edge.
type EdgeType string

const (
	EdgeArrow      EdgeType = "arrow"
	EdgeOrthogonal EdgeType = "orthogonal"
)

// GraphNode mirrors one non-connector element.
type GraphNode struct {
	ID       string
	Type     NodeType
	Position Vec2
	Size     Vec2
	Rotation float64
	Anchors  []Anchor
	ParentID string
	ChildIDs []string
	LayerID  string
	ZIndex   int
	Visible  bool
	Locked   bool
	Data     map[string]any
}

// Bounds returns the unrotated world bounds.
func (n *GraphNode) Bounds() Rect {
	return Rect{X: n.Position.X, Y: n.Position.Y, Width: n.Size.X, Height: n.Size.Y}.Normalize()
}

// Center returns the center of the node's bounds.
func (n *GraphNode) Center() Vec2 {
	return n.Bounds().Center()
}

// WorldAABB returns the axis-aligned box enclosing the rotated node.
func (n *GraphNode) WorldAABB() Rect {
	b := n.Bounds()
	if n.Rotation == 0 {
		return b
	}
	c := b.Center()
	m := RotateAboutAffine(n.Rotation, c.X, c.Y)
	p0 := m.Apply(Vec2{b.X, b.Y})
	p1 := m.Apply(Vec2{b.X + b.Width, b.Y})
	p2 := m.Apply(Vec2{b.X + b.Width, b.Y + b.Height})
	p3 := m.Apply(Vec2{b.X, b.Y + b.Height})

	minX := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	minY := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	maxX := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	maxY := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ContainsPoint reports whether the world point lies inside the rotated node.
func (n *GraphNode) ContainsPoint(p Vec2) bool {
	b := n.Bounds()
	if n.Rotation != 0 {
		c := b.Center()
		p = RotateAboutAffine(-n.Rotation, c.X, c.Y).Apply(p)
	}
	return b.Contains(p.X, p.Y)
}

func (n *GraphNode) clone() *GraphNode {
	c := *n
	c.Anchors = append([]Anchor(nil), n.Anchors...)
	c.ChildIDs = nil
	return &c
}

// GraphEdge mirrors one connector element.
type GraphEdge struct {
	ID            string
	Type          EdgeType
	Source        Endpoint
	Target        Endpoint
	ControlPoints []Vec2
	Style         map[string]any
	Label         string
	ZIndex        int
}

// Snapshot is the input to Graph.Import: the projected nodes and edges.
type Snapshot struct {
	Nodes []GraphNode
	Edges []GraphEdge
}

// NodeQuery filters QueryNodes. Zero fields match everything.
type NodeQuery struct {
	Types   []NodeType
	LayerID string
	Visible *bool
	// Bounds keeps nodes whose rotated world AABB intersects it.
	Bounds *Rect
}

// GraphStats summarizes the graph. Dangling edges are not counted.
type GraphStats struct {
	NodeCount      int
	EdgeCount      int
	ConnectedNodes int
	IsolatedNodes  int
}

// --- Graph ---

// Graph is a rebuildable projection of the element list: nodes with their
// hierarchy and anchors, plus the connectors between them. It never creates
// nodes on its own; Import replaces its whole content.
//
// Edges whose attached endpoints reference missing nodes are dangling. They
// are kept so a later import can revive them, but no query returns them.
type Graph struct {
	nodes     map[string]*GraphNode
	order     []*GraphNode // paint order: ZIndex, then ID
	edges     map[string]*GraphEdge
	edgeOrder []*GraphEdge
	nodeEdges map[string][]*GraphEdge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     map[string]*GraphNode{},
		edges:     map[string]*GraphEdge{},
		nodeEdges: map[string][]*GraphEdge{},
	}
}

// Import replaces the graph's content with snap. ChildIDs are derived from
// each node's ParentID so both sides of the hierarchy always agree; a
// ParentID naming a missing node or the node itself leaves it a root.
// Duplicate ids keep the last occurrence.
func (g *Graph) Import(snap Snapshot) {
	g.nodes = make(map[string]*GraphNode, len(snap.Nodes))
	for i := range snap.Nodes {
		n := snap.Nodes[i].clone()
		if len(n.Anchors) == 0 {
			n.Anchors = AnchorsFor(n.ID)
		}
		g.nodes[n.ID] = n
	}
	g.order = g.order[:0]
	for _, n := range g.nodes {
		g.order = append(g.order, n)
	}
	sortNodes(g.order)

	for _, n := range g.order {
		if p := g.nodes[n.ParentID]; p != nil && p != n {
			p.ChildIDs = append(p.ChildIDs, n.ID)
		}
	}

	g.edges = make(map[string]*GraphEdge, len(snap.Edges))
	for i := range snap.Edges {
		e := snap.Edges[i]
		e.ControlPoints = append([]Vec2(nil), e.ControlPoints...)
		g.edges[e.ID] = &e
	}
	g.edgeOrder = g.edgeOrder[:0]
	for _, e := range g.edges {
		g.edgeOrder = append(g.edgeOrder, e)
	}
	sort.Slice(g.edgeOrder, func(i, j int) bool {
		a, b := g.edgeOrder[i], g.edgeOrder[j]
		if a.ZIndex != b.ZIndex {
			return a.ZIndex < b.ZIndex
		}
		return a.ID < b.ID
	})

	g.nodeEdges = make(map[string][]*GraphEdge, len(g.nodes))
	for _, e := range g.edgeOrder {
		if e.Source.NodeID != "" {
			g.nodeEdges[e.Source.NodeID] = append(g.nodeEdges[e.Source.NodeID], e)
		}
		if e.Target.NodeID != "" && e.Target.NodeID != e.Source.NodeID {
			g.nodeEdges[e.Target.NodeID] = append(g.nodeEdges[e.Target.NodeID], e)
		}
	}
}

func sortNodes(nodes []*GraphNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].ZIndex != nodes[j].ZIndex {
			return nodes[i].ZIndex < nodes[j].ZIndex
		}
		return nodes[i].ID < nodes[j].ID
	})
}

// isDangling reports whether an attached endpoint of e no longer resolves.
func (g *Graph) isDangling(e *GraphEdge) bool {
	if e.Source.NodeID != "" && g.nodes[e.Source.NodeID] == nil {
		return true
	}
	if e.Target.NodeID != "" && g.nodes[e.Target.NodeID] == nil {
		return true
	}
	return false
}

// --- Queries ---

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*GraphNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node in paint order.
func (g *Graph) Nodes() []*GraphNode {
	return append([]*GraphNode(nil), g.order...)
}

// Edge returns the edge with the given id unless it is dangling.
func (g *Graph) Edge(id string) (*GraphEdge, bool) {
	e, ok := g.edges[id]
	if !ok || g.isDangling(e) {
		return nil, false
	}
	return e, true
}

// Edges returns every non-dangling edge, ordered by ZIndex then ID.
func (g *Graph) Edges() []*GraphEdge {
	out := make([]*GraphEdge, 0, len(g.edgeOrder))
	for _, e := range g.edgeOrder {
		if !g.isDangling(e) {
			out = append(out, e)
		}
	}
	return out
}

// QueryNodes returns the nodes matching q in paint order.
func (g *Graph) QueryNodes(q NodeQuery) []*GraphNode {
	var out []*GraphNode
	for _, n := range g.order {
		if len(q.Types) > 0 && !containsType(q.Types, n.Type) {
			continue
		}
		if q.LayerID != "" && n.LayerID != q.LayerID {
			continue
		}
		if q.Visible != nil && n.Visible != *q.Visible {
			continue
		}
		if q.Bounds != nil && !n.WorldAABB().Intersects(q.Bounds.Normalize()) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func containsType(types []NodeType, t NodeType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// GetNodeEdges returns the non-dangling edges whose source or target is nodeID.
func (g *Graph) GetNodeEdges(nodeID string) []*GraphEdge {
	var out []*GraphEdge
	for _, e := range g.nodeEdges[nodeID] {
		if !g.isDangling(e) {
			out = append(out, e)
		}
	}
	return out
}

// GetChildren returns the children of nodeID in paint order.
func (g *Graph) GetChildren(nodeID string) []*GraphNode {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nil
	}
	out := make([]*GraphNode, 0, len(n.ChildIDs))
	for _, id := range n.ChildIDs {
		if c := g.nodes[id]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// GetParent returns the parent of nodeID, if it has one that exists.
func (g *Graph) GetParent(nodeID string) (*GraphNode, bool) {
	n, ok := g.nodes[nodeID]
	if !ok || n.ParentID == "" || n.ParentID == n.ID {
		return nil, false
	}
	p, ok := g.nodes[n.ParentID]
	return p, ok
}

// Ancestors returns the parent chain of nodeID, nearest first. A cycle in
// the imported data ends the walk.
func (g *Graph) Ancestors(nodeID string) []*GraphNode {
	var out []*GraphNode
	seen := map[string]bool{nodeID: true}
	for p, ok := g.GetParent(nodeID); ok && !seen[p.ID]; p, ok = g.GetParent(p.ID) {
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// HitTest returns the topmost visible node containing the world point.
func (g *Graph) HitTest(world Vec2) (*GraphNode, bool) {
	// Iterate backward (reverse paint order): topmost node first.
	for i := len(g.order) - 1; i >= 0; i-- {
		n := g.order[i]
		if n.Visible && n.ContainsPoint(world) {
			return n, true
		}
	}
	return nil, false
}

// FindNearestAnchor returns the anchor of nodeID closest to point, if it lies
// within threshold world units. A threshold <= 0 uses the default of 20.
func (g *Graph) FindNearestAnchor(nodeID string, point Vec2, threshold float64) (AnchorMatch, bool) {
	if threshold <= 0 {
		threshold = defaultAnchorThreshold
	}
	n, ok := g.nodes[nodeID]
	if !ok {
		return AnchorMatch{}, false
	}
	return nearestAnchor(n, point, threshold)
}

// ResolveEndpoint returns the live world position of an endpoint: the anchor
// point (or center) of its node when attached, its stored position when
// floating. Reports false when the attached node is missing.
func (g *Graph) ResolveEndpoint(ep Endpoint) (Vec2, bool) {
	if !ep.Attached() {
		return ep.Position, true
	}
	n, ok := g.nodes[ep.NodeID]
	if !ok {
		return Vec2{}, false
	}
	if ep.Anchor == AnchorNone {
		return n.Center(), true
	}
	return n.AnchorPoint(ep.Anchor), true
}

// Stats summarizes the graph, ignoring dangling edges.
func (g *Graph) Stats() GraphStats {
	connected := map[string]bool{}
	edgeCount := 0
	for _, e := range g.edgeOrder {
		if g.isDangling(e) {
			continue
		}
		edgeCount++
		if e.Source.NodeID != "" {
			connected[e.Source.NodeID] = true
		}
		if e.Target.NodeID != "" {
			connected[e.Target.NodeID] = true
		}
	}
	return GraphStats{
		NodeCount:      len(g.nodes),
		EdgeCount:      edgeCount,
		ConnectedNodes: len(connected),
		IsolatedNodes:  len(g.nodes) - len(connected),
	}
}

// --- Hierarchy mutation ---

// PlanReparent validates moving nodeIDs under newParentID (empty detaches)
// and returns the resulting nodeID -> parentID changes. Nothing is modified.
func (g *Graph) PlanReparent(nodeIDs []string, newParentID string) (map[string]string, error) {
	if newParentID != "" {
		if _, ok := g.nodes[newParentID]; !ok {
			return nil, NewError(ErrCodeInvalidParent, "parent %q does not exist", newParentID)
		}
	}
	changes := make(map[string]string, len(nodeIDs))
	for _, id := range nodeIDs {
		if _, ok := g.nodes[id]; !ok {
			return nil, NewError(ErrCodeNodeNotFound, "node %q does not exist", id)
		}
		if id == newParentID {
			return nil, NewError(ErrCodeInvalidParent, "node %q cannot be its own parent", id)
		}
		changes[id] = newParentID
	}
	if newParentID != "" {
		for _, a := range g.Ancestors(newParentID) {
			if _, moving := changes[a.ID]; moving {
				return nil, NewError(ErrCodeReparentCycle, "node %q is an ancestor of %q", a.ID, newParentID)
			}
		}
	}
	return changes, nil
}

// Reparent moves every node in nodeIDs under newParentID (empty detaches to
// the root). It is all-or-nothing: if any id is unknown, the parent is
// missing, or the move would create a cycle, nothing changes.
func (g *Graph) Reparent(nodeIDs []string, newParentID string) error {
	changes, err := g.PlanReparent(nodeIDs, newParentID)
	if err != nil {
		return err
	}
	g.applyParents(changes)
	return nil
}

// applyParents updates ParentID and both parents' ChildIDs for each change.
func (g *Graph) applyParents(changes map[string]string) {
	touched := map[string]bool{}
	for id, parentID := range changes {
		n := g.nodes[id]
		if n == nil || n.ParentID == parentID {
			continue
		}
		if old := g.nodes[n.ParentID]; old != nil {
			old.ChildIDs = removeString(old.ChildIDs, id)
		}
		n.ParentID = parentID
		if p := g.nodes[parentID]; p != nil {
			p.ChildIDs = append(p.ChildIDs, id)
			touched[parentID] = true
		}
	}
	for id := range touched {
		g.sortChildIDs(g.nodes[id])
	}
}

// sortChildIDs keeps ChildIDs in paint order, matching Import.
func (g *Graph) sortChildIDs(p *GraphNode) {
	sort.Slice(p.ChildIDs, func(i, j int) bool {
		a, b := g.nodes[p.ChildIDs[i]], g.nodes[p.ChildIDs[j]]
		if a.ZIndex != b.ZIndex {
			return a.ZIndex < b.ZIndex
		}
		return a.ID < b.ID
	})
}

func removeString(s []string, v string) []string {
	for i := range s {
		if s[i] == v {
			copy(s[i:], s[i+1:])
			return s[:len(s)-1]
		}
	}
	return s
}
