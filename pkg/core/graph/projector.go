package graph

import (
	"sort"

	"xbrlgraph/pkg/core/taxonomy"
	"xbrlgraph/pkg/core/xbrl"
)

// Projector maps the normalized model into a triple graph. Roles it does
// not recognize are reported and skipped, never silently dropped.
type Projector struct {
	predicates map[string]string
}

// NewProjector returns a projector knowing the standard presentation and
// calculation arcroles.
func NewProjector() *Projector {
	return &Projector{predicates: map[string]string{
		xbrl.RoleParentChild:   "parent-child",
		xbrl.RoleSummationItem: "summation-item",
	}}
}

// RegisterRole teaches the projector the edge predicate for an additional
// arcrole URI.
func (p *Projector) RegisterRole(roleURI, predicate string) {
	p.predicates[roleURI] = predicate
}

// Project emits the complete graph for the filing: every concept, context,
// dimension value, and fact as nodes, then edges in fixed order —
// fact→concept, fact→context, context→dimension, and one hierarchy edge set
// per requested role. Hierarchy edges carry order, and weight on the
// calculation role.
func (p *Projector) Project(n *xbrl.Normalized, forests map[string]*taxonomy.Forest, roles []string) (*Graph, xbrl.Diagnostics) {
	g := &Graph{Nodes: make(map[string]Node)}
	var diags xbrl.Diagnostics

	for _, qname := range sortedKeys(n.Concepts) {
		concept := n.Concepts[qname]
		g.addNode(Node{
			ID:    ConceptNodeID(qname),
			Type:  NodeConcept,
			Label: concept.Label,
		})
	}
	for _, id := range sortedKeys(n.Contexts) {
		g.addNode(Node{
			ID:    ContextNodeID(id),
			Type:  NodeContext,
			Label: id,
			Value: n.Contexts[id].Period.Key(),
		})
	}

	// Fact nodes plus fact→concept edges, in document order.
	for _, fact := range n.Facts {
		factID := FactNodeID(fact.Concept, fact.ContextRef, fact.UnitRef)
		g.addNode(Node{
			ID:    factID,
			Type:  NodeFact,
			Label: xbrl.LocalName(fact.Concept),
			Value: fact.Value,
		})
		g.addEdge(Edge{Subject: factID, Predicate: PredHasConcept, Object: ConceptNodeID(fact.Concept)})
	}

	for _, fact := range n.Facts {
		factID := FactNodeID(fact.Concept, fact.ContextRef, fact.UnitRef)
		g.addEdge(Edge{Subject: factID, Predicate: PredHasContext, Object: ContextNodeID(fact.ContextRef)})
	}

	for _, id := range sortedKeys(n.Contexts) {
		ctx := n.Contexts[id]
		dims := append([]xbrl.Dimension(nil), ctx.Dimensions...)
		sort.Slice(dims, func(i, j int) bool {
			if dims[i].Axis != dims[j].Axis {
				return dims[i].Axis < dims[j].Axis
			}
			return dims[i].Member < dims[j].Member
		})
		for _, dim := range dims {
			dimID := DimensionNodeID(dim.Axis, dim.Member)
			g.addNode(Node{
				ID:    dimID,
				Type:  NodeDimension,
				Label: xbrl.LocalName(dim.Member),
				Value: dim.Member,
			})
			g.addEdge(Edge{Subject: ContextNodeID(id), Predicate: PredHasDimension, Object: dimID})
		}
	}

	for _, role := range roles {
		predicate, ok := p.predicates[role]
		if !ok {
			diags.Add(xbrl.KindUnrecognizedRole, xbrl.SeverityError, role,
				"relationship role %s has no projection semantics; skipped", role)
			continue
		}
		forest := forests[role]
		if forest == nil {
			continue
		}
		withWeight := role == xbrl.RoleSummationItem
		forest.VisitEdges(func(parent, child *taxonomy.Node) {
			edge := Edge{
				Subject:   ConceptNodeID(parent.QName),
				Predicate: predicate,
				Object:    ConceptNodeID(child.QName),
				Order:     float64Ptr(child.Order),
			}
			if withWeight {
				edge.Weight = float64Ptr(child.Weight)
			}
			g.addNode(Node{ID: ConceptNodeID(parent.QName), Type: NodeConcept, Label: xbrl.LocalName(parent.QName)})
			g.addNode(Node{ID: ConceptNodeID(child.QName), Type: NodeConcept, Label: xbrl.LocalName(child.QName)})
			g.addEdge(edge)
		})
	}

	return g, diags
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func float64Ptr(v float64) *float64 { return &v }
