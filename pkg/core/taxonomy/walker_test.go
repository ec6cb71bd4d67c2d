package taxonomy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xbrlgraph/pkg/core/xbrl"
)

// flatten renders a forest as indented lines for order-sensitive comparison.
func flatten(f *Forest) string {
	var b strings.Builder
	var descend func(n *Node, depth int)
	descend = func(n *Node, depth int) {
		fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", depth), n.QName)
		for _, c := range n.Children {
			descend(c, depth+1)
		}
	}
	for _, r := range f.Roots {
		descend(r, 0)
	}
	return b.String()
}

func TestWalkOrdersSiblingsByOrderThenQName(t *testing.T) {
	set := xbrl.RelationshipSet{
		Role: xbrl.RoleParentChild,
		Edges: []xbrl.RelationshipEdge{
			{From: "root", To: "b", Order: 2},
			{From: "root", To: "z", Order: 1},
			{From: "root", To: "a", Order: 1}, // ties with z, qname breaks it
		},
	}
	forest, diags := NewWalker().Walk(set)
	require.Empty(t, diags)
	require.Len(t, forest.Roots, 1)

	var names []string
	for _, c := range forest.Roots[0].Children {
		names = append(names, c.QName)
	}
	assert.Equal(t, []string{"a", "z", "b"}, names)
}

func TestWalkIsDeterministic(t *testing.T) {
	set := xbrl.RelationshipSet{
		Role: xbrl.RoleParentChild,
		Edges: []xbrl.RelationshipEdge{
			{From: "r2", To: "x", Order: 1},
			{From: "r1", To: "y", Order: 1},
			{From: "r1", To: "x", Order: 1},
			{From: "x", To: "leaf", Order: 1},
		},
	}
	w := NewWalker()
	first, _ := w.Walk(set)
	second, _ := w.Walk(set)
	assert.Equal(t, flatten(first), flatten(second))
}

func TestWalkDropsCycleEdges(t *testing.T) {
	set := xbrl.RelationshipSet{
		Role: xbrl.RoleParentChild,
		Edges: []xbrl.RelationshipEdge{
			{From: "entry", To: "a", Order: 1},
			{From: "a", To: "b", Order: 1},
			{From: "b", To: "c", Order: 1},
			{From: "c", To: "a", Order: 1}, // closes a→b→c→a
		},
	}
	forest, diags := NewWalker().Walk(set)

	assert.Equal(t, 1, diags.Count(xbrl.KindCyclicRelationship))
	// a appears once under entry; the back edge is gone.
	assert.Equal(t, "entry\n  a\n    b\n      c\n", flatten(forest))
}

func TestWalkPureCycleIsEnteredAndReported(t *testing.T) {
	set := xbrl.RelationshipSet{
		Role: xbrl.RoleParentChild,
		Edges: []xbrl.RelationshipEdge{
			{From: "a", To: "b", Order: 1},
			{From: "b", To: "c", Order: 1},
			{From: "c", To: "a", Order: 1}, // no concept is without an incoming edge
		},
	}
	forest, diags := NewWalker().Walk(set)

	// One warning for the rootless component, one for the dropped closing
	// edge; the concepts themselves stay in the forest.
	assert.Equal(t, 2, diags.Count(xbrl.KindCyclicRelationship))
	assert.Equal(t, "a\n  b\n    c\n", flatten(forest))
	assert.Equal(t, []string{"a"}, forest.RootsOf("c"))
}

func TestWalkDisjointCyclesEachReported(t *testing.T) {
	set := xbrl.RelationshipSet{
		Role: xbrl.RoleParentChild,
		Edges: []xbrl.RelationshipEdge{
			{From: "a", To: "b", Order: 1},
			{From: "b", To: "a", Order: 1},
			{From: "x", To: "y", Order: 1},
			{From: "y", To: "x", Order: 1},
		},
	}
	forest, diags := NewWalker().Walk(set)

	assert.Equal(t, 4, diags.Count(xbrl.KindCyclicRelationship))
	assert.Equal(t, "a\n  b\nx\n  y\n", flatten(forest))
}

func TestWalkDepthGuard(t *testing.T) {
	var edges []xbrl.RelationshipEdge
	for i := 0; i < 10; i++ {
		edges = append(edges, xbrl.RelationshipEdge{
			From: fmt.Sprintf("n%d", i), To: fmt.Sprintf("n%d", i+1), Order: 1,
		})
	}
	w := &Walker{MaxDepth: 3}
	forest, diags := w.Walk(xbrl.RelationshipSet{Role: xbrl.RoleParentChild, Edges: edges})

	assert.Equal(t, 1, diags.Count(xbrl.KindMaxDepthExceeded))
	assert.Equal(t, "n0\n  n1\n    n2\n", flatten(forest))
}

func TestWalkConceptUnderMultipleParents(t *testing.T) {
	set := xbrl.RelationshipSet{
		Role: xbrl.RoleParentChild,
		Edges: []xbrl.RelationshipEdge{
			{From: "p1", To: "shared", Order: 1},
			{From: "p2", To: "shared", Order: 1},
		},
	}
	forest, diags := NewWalker().Walk(set)
	require.Empty(t, diags)
	assert.Equal(t, []string{"p1", "p2"}, forest.RootsOf("shared"))
}

func TestVisitEdgesCarriesOrderAndWeight(t *testing.T) {
	set := xbrl.RelationshipSet{
		Role: xbrl.RoleSummationItem,
		Edges: []xbrl.RelationshipEdge{
			{From: "Assets", To: "AssetsCurrent", Order: 1, Weight: 1},
			{From: "Assets", To: "AssetsNoncurrent", Order: 2, Weight: 1},
		},
	}
	forest, _ := NewWalker().Walk(set)

	var seen []string
	forest.VisitEdges(func(parent, child *Node) {
		seen = append(seen, fmt.Sprintf("%s→%s(%.0f,%.0f)", parent.QName, child.QName, child.Order, child.Weight))
	})
	assert.Equal(t, []string{"Assets→AssetsCurrent(1,1)", "Assets→AssetsNoncurrent(2,1)"}, seen)
}
