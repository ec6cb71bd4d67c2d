// Package taxonomy turns the flat relationship edges of one arcrole into an
// ordered concept forest. Traversal is iterative with an explicit stack so
// malformed input can neither recurse unboundedly nor hang the walker.
package taxonomy

import (
	"sort"

	"xbrlgraph/pkg/core/xbrl"
)

// DefaultMaxDepth bounds traversal depth on malformed input. Real statement
// hierarchies are a dozen levels deep at most.
const DefaultMaxDepth = 100

// Node is one position of a concept inside the forest. A concept appearing
// under several parents yields one Node per position.
type Node struct {
	QName    string
	Order    float64
	Weight   float64
	Children []*Node
}

// Forest is the ordered traversal result for one arcrole.
type Forest struct {
	Role  string
	Roots []*Node

	rootsByConcept map[string][]string
}

// RootsOf returns the root concepts under which qname appears, in lexical
// order. Used by the statement classifier to resolve ambiguous concepts by
// their statement-root ancestor.
func (f *Forest) RootsOf(qname string) []string {
	if f == nil {
		return nil
	}
	return f.rootsByConcept[qname]
}

// VisitEdges walks the forest depth-first in sibling order, calling visit
// for every parent→child pair. The visit order is deterministic across runs.
func (f *Forest) VisitEdges(visit func(parent, child *Node)) {
	if f == nil {
		return
	}
	var descend func(n *Node)
	descend = func(n *Node) {
		for _, c := range n.Children {
			visit(n, c)
			descend(c)
		}
	}
	for _, r := range f.Roots {
		descend(r)
	}
}

// Walker builds ordered forests from relationship sets.
type Walker struct {
	// MaxDepth caps how deep traversal descends before dropping edges.
	MaxDepth int
}

// NewWalker returns a walker with the default depth guard.
func NewWalker() *Walker {
	return &Walker{MaxDepth: DefaultMaxDepth}
}

type walkFrame struct {
	node  *Node
	edges []xbrl.RelationshipEdge
	next  int
}

// Walk traverses one relationship set from its roots.
//
// Roots are the concepts with no incoming edge of the role, visited in
// lexical order. Children sort by edge order ascending with qname breaking
// ties. An edge that would close a cycle on the current root-to-node path is
// dropped and recorded as a cyclic-relationship warning; traversal continues.
// A component with no root at all (a pure cycle) is entered at its lexically
// smallest concept and reported, so no concept silently disappears.
func (w *Walker) Walk(set xbrl.RelationshipSet) (*Forest, xbrl.Diagnostics) {
	maxDepth := w.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	children := make(map[string][]xbrl.RelationshipEdge)
	incoming := make(map[string]bool)
	concepts := make(map[string]bool)
	for _, e := range set.Edges {
		children[e.From] = append(children[e.From], e)
		incoming[e.To] = true
		concepts[e.From] = true
		concepts[e.To] = true
	}
	for _, edges := range children {
		sort.SliceStable(edges, func(i, j int) bool {
			if edges[i].Order != edges[j].Order {
				return edges[i].Order < edges[j].Order
			}
			return edges[i].To < edges[j].To
		})
	}

	var rootNames []string
	for qname := range concepts {
		if !incoming[qname] {
			rootNames = append(rootNames, qname)
		}
	}
	sort.Strings(rootNames)

	// Topological reachability from the real roots, ignoring the depth
	// guard. Anything left over sits in a cycle with no entry point.
	reachable := make(map[string]bool, len(concepts))
	markReachable := func(from string) {
		queue := []string{from}
		for len(queue) > 0 {
			qname := queue[0]
			queue = queue[1:]
			if reachable[qname] {
				continue
			}
			reachable[qname] = true
			for _, e := range children[qname] {
				queue = append(queue, e.To)
			}
		}
	}
	for _, rootName := range rootNames {
		markReachable(rootName)
	}

	forest := &Forest{
		Role:           set.Role,
		rootsByConcept: make(map[string][]string),
	}
	var diags xbrl.Diagnostics
	depthExceeded := false

	seenUnderRoot := make(map[string]map[string]bool)
	addUnderRoot := func(root, qname string) {
		if seenUnderRoot[qname] == nil {
			seenUnderRoot[qname] = make(map[string]bool)
		}
		seenUnderRoot[qname][root] = true
	}

	walkFrom := func(rootName string) {
		root := &Node{QName: rootName}
		forest.Roots = append(forest.Roots, root)
		addUnderRoot(rootName, rootName)

		onPath := map[string]bool{rootName: true}
		stack := []walkFrame{{node: root, edges: children[rootName]}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(top.edges) {
				delete(onPath, top.node.QName)
				stack = stack[:len(stack)-1]
				continue
			}
			edge := top.edges[top.next]
			top.next++

			if onPath[edge.To] {
				diags.Add(xbrl.KindCyclicRelationship, xbrl.SeverityWarning, edge.To,
					"dropping edge %s → %s: closes a cycle in role %s", edge.From, edge.To, set.Role)
				continue
			}
			if len(stack) >= maxDepth {
				if !depthExceeded {
					diags.Add(xbrl.KindMaxDepthExceeded, xbrl.SeverityWarning, edge.To,
						"traversal of role %s exceeded max depth %d; deeper edges dropped", set.Role, maxDepth)
					depthExceeded = true
				}
				continue
			}

			child := &Node{QName: edge.To, Order: edge.Order, Weight: edge.Weight}
			top.node.Children = append(top.node.Children, child)
			addUnderRoot(rootName, edge.To)
			onPath[edge.To] = true
			stack = append(stack, walkFrame{node: child, edges: children[edge.To]})
		}
	}

	for _, rootName := range rootNames {
		walkFrom(rootName)
	}

	// A relationship set that is a pure cycle (A→B→C→A) has no concept
	// without an incoming edge, so the root scan finds nothing. Enter each
	// such component at its lexically smallest concept and report it; the
	// closing edge is then dropped like any other cycle edge.
	for {
		var orphaned []string
		for qname := range concepts {
			if !reachable[qname] {
				orphaned = append(orphaned, qname)
			}
		}
		if len(orphaned) == 0 {
			break
		}
		sort.Strings(orphaned)
		entry := orphaned[0]
		diags.Add(xbrl.KindCyclicRelationship, xbrl.SeverityWarning, entry,
			"role %s has concepts reachable from no root; entering cycle at %s", set.Role, entry)
		markReachable(entry)
		walkFrom(entry)
	}

	for qname, roots := range seenUnderRoot {
		sorted := make([]string, 0, len(roots))
		for r := range roots {
			sorted = append(sorted, r)
		}
		sort.Strings(sorted)
		forest.rootsByConcept[qname] = sorted
	}
	return forest, diags
}
