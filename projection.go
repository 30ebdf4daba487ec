package boardkit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Project converts an element list into a graph snapshot. Connector elements
// become edges; every other element becomes a node. It is pure: the same
// elements always produce the same snapshot.
func Project(elements []Element) Snapshot {
	var snap Snapshot
	for i := range elements {
		el := &elements[i]
		if el.Type.IsConnector() {
			snap.Edges = append(snap.Edges, projectEdge(el))
			continue
		}
		snap.Nodes = append(snap.Nodes, GraphNode{
			ID:       el.ID,
			Type:     el.Type,
			Position: el.Position,
			Size:     el.Size,
			Rotation: el.Rotation,
			Anchors:  AnchorsFor(el.ID),
			ParentID: el.ParentID,
			LayerID:  el.LayerID,
			ZIndex:   el.ZIndex,
			Visible:  el.Visible,
			Locked:   el.Locked,
			Data:     el.Data,
		})
	}
	return snap
}

func projectEdge(el *Element) GraphEdge {
	e := GraphEdge{
		ID:     el.ID,
		Type:   EdgeArrow,
		Style:  el.Style,
		ZIndex: el.ZIndex,
	}
	c := el.Connector
	if c == nil {
		// A connector without endpoint data spans its own bounds.
		e.Source = Endpoint{Position: el.Position}
		e.Target = Endpoint{Position: el.Position.Add(el.Size)}
		return e
	}
	if c.Routing == EdgeOrthogonal {
		e.Type = EdgeOrthogonal
	}
	e.Source = c.Source
	e.Target = c.Target
	e.ControlPoints = append([]Vec2(nil), c.ControlPoints...)
	e.Label = c.Label
	return e
}

// ContentHash returns a SHA-256 hex digest of the JSON encoding of elements.
// Reports false if the elements cannot be encoded (e.g. a NaN coordinate or
// an unsupported value in Data).
func ContentHash(elements []Element) (string, bool) {
	data, err := json.Marshal(elements)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), true
}

// ProjectionCache remembers the last projected element list so unchanged
// lists skip the rebuild. A version counter, when the source provides one,
// is checked first; otherwise the content hash decides.
type ProjectionCache struct {
	version    uint64
	hasVersion bool
	hash       string
	snap       Snapshot
	valid      bool
}

// Project returns the snapshot for elements and whether it differs from the
// previous call. version is the source's change counter; pass 0 when the
// source has none.
func (c *ProjectionCache) Project(elements []Element, version uint64) (Snapshot, bool) {
	if c.valid && version != 0 && c.hasVersion && version == c.version {
		return c.snap, false
	}
	hash, ok := ContentHash(elements)
	if c.valid && ok && hash == c.hash {
		c.version, c.hasVersion = version, version != 0
		return c.snap, false
	}
	c.snap = Project(elements)
	c.hash = hash
	c.version, c.hasVersion = version, version != 0
	c.valid = ok
	return c.snap, true
}

// Invalidate forces the next Project call to rebuild.
func (c *ProjectionCache) Invalidate() {
	c.valid = false
}
