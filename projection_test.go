package boardkit

import (
	"math"
	"testing"
)

func TestContentHashStable(t *testing.T) {
	els := []Element{shape("a", 0, 0, 10, 10), connector("e", "a", "b")}
	h1, ok1 := ContentHash(els)
	h2, ok2 := ContentHash(append([]Element(nil), els...))
	if !ok1 || !ok2 || h1 != h2 {
		t.Errorf("hash not stable: %q %q", h1, h2)
	}
	els[0].Position.X = 1
	if h3, _ := ContentHash(els); h3 == h1 {
		t.Error("hash ignored a position change")
	}
}

func TestContentHashUnencodable(t *testing.T) {
	el := shape("a", math.NaN(), 0, 10, 10)
	if _, ok := ContentHash([]Element{el}); ok {
		t.Error("NaN element hashed")
	}
}

func TestProjectionCache(t *testing.T) {
	var c ProjectionCache
	els := []Element{shape("a", 0, 0, 10, 10)}

	if _, changed := c.Project(els, 1); !changed {
		t.Fatal("first projection reported unchanged")
	}
	if _, changed := c.Project(els, 1); changed {
		t.Error("same version rebuilt")
	}
	// A new version with identical content is caught by the hash.
	if _, changed := c.Project(els, 2); changed {
		t.Error("identical content under new version rebuilt")
	}
	els[0].Size.X = 20
	snap, changed := c.Project(els, 3)
	if !changed || snap.Nodes[0].Size.X != 20 {
		t.Errorf("content change missed: changed=%v snap=%+v", changed, snap)
	}

	c.Invalidate()
	if _, changed := c.Project(els, 3); !changed {
		t.Error("Invalidate did not force a rebuild")
	}
}

func TestProjectionCacheWithoutVersion(t *testing.T) {
	var c ProjectionCache
	els := []Element{shape("a", 0, 0, 10, 10)}
	c.Project(els, 0)
	if _, changed := c.Project(els, 0); changed {
		t.Error("unchanged content rebuilt with version 0")
	}
	els[0].Visible = false
	if _, changed := c.Project(els, 0); !changed {
		t.Error("content change missed with version 0")
	}
}
