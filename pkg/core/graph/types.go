// Package graph projects the normalized fact model into a semantic
// subject–predicate–object graph with deterministic node identifiers.
package graph

// NodeType tags what kind of entity a node represents.
type NodeType string

const (
	NodeFact      NodeType = "fact"
	NodeConcept   NodeType = "concept"
	NodeContext   NodeType = "context"
	NodeDimension NodeType = "dimension"
)

// Structural predicates. Hierarchy edges instead carry the short name of
// their relationship role ("parent-child", "summation-item").
const (
	PredHasConcept   = "has-concept"
	PredHasContext   = "has-context"
	PredHasDimension = "has-dimension"
)

// Node is one graph vertex. Value carries the raw reported value for fact
// nodes and the member qname for dimension nodes.
type Node struct {
	ID    string   `json:"id"`
	Type  NodeType `json:"type"`
	Label string   `json:"label"`
	Value string   `json:"value,omitempty"`
}

// Edge is one triple. Order and Weight are hierarchy edge attributes; nil
// when the predicate is structural.
type Edge struct {
	Subject   string   `json:"subject"`
	Predicate string   `json:"predicate"`
	Object    string   `json:"object"`
	Order     *float64 `json:"order,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
}

// Graph is the complete projection: an edge list plus the node table.
// Node and edge order is deterministic for a given input.
type Graph struct {
	Nodes map[string]Node `json:"nodes"`
	Edges []Edge          `json:"edges"`

	nodeOrder []string
}

// NodeList returns the nodes in emission order.
func (g *Graph) NodeList() []Node {
	nodes := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.Nodes[id])
	}
	return nodes
}

func (g *Graph) addNode(n Node) {
	if _, ok := g.Nodes[n.ID]; ok {
		return
	}
	g.Nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
}

func (g *Graph) addEdge(e Edge) {
	g.Edges = append(g.Edges, e)
}

// Node identifiers are pure functions of natural keys — no counters, no
// object identity — so re-projecting unchanged input yields byte-identical
// ids, which makes graphs from repeated runs diffable.

// ConceptNodeID mints the id for a concept node.
func ConceptNodeID(qname string) string { return "concept:" + qname }

// ContextNodeID mints the id for a context node.
func ContextNodeID(contextID string) string { return "context:" + contextID }

// FactNodeID mints the id for a fact node from its composite natural key.
func FactNodeID(conceptQName, contextID, unitID string) string {
	return "fact:" + conceptQName + "|" + contextID + "|" + unitID
}

// DimensionNodeID mints the id for one axis/member dimension value.
func DimensionNodeID(axis, member string) string {
	return "dimension:" + axis + "=" + member
}
