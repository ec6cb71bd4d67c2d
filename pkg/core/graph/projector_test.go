package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xbrlgraph/pkg/core/taxonomy"
	"xbrlgraph/pkg/core/xbrl"
)

func projectionFixture() *xbrl.Normalized {
	revenue := 1000.0
	segment := 400.0
	return &xbrl.Normalized{
		Facts: []xbrl.Fact{
			{Concept: "us-gaap:Revenues", Value: "1000", ContextRef: "C1", UnitRef: "U1", Numeric: &revenue},
			{Concept: "us-gaap:Revenues", Value: "400", ContextRef: "C2", UnitRef: "U1", Numeric: &segment},
		},
		Concepts: map[string]xbrl.Concept{
			"us-gaap:Revenues": {QName: "us-gaap:Revenues", Label: "Revenues"},
		},
		Contexts: map[string]xbrl.Context{
			"C1": {ID: "C1", Period: xbrl.Period{StartDate: "2024-01-01", EndDate: "2024-12-31"}},
			"C2": {ID: "C2", Period: xbrl.Period{StartDate: "2024-01-01", EndDate: "2024-12-31"},
				Dimensions: []xbrl.Dimension{{Axis: "us-gaap:StatementBusinessSegmentsAxis", Member: "acme:CloudMember"}}},
		},
		Units: map[string]xbrl.Unit{"U1": {ID: "U1", Measure: "USD"}},
	}
}

func calcForest(t *testing.T) map[string]*taxonomy.Forest {
	t.Helper()
	forest, diags := taxonomy.NewWalker().Walk(xbrl.RelationshipSet{
		Role: xbrl.RoleSummationItem,
		Edges: []xbrl.RelationshipEdge{
			{From: "us-gaap:GrossProfit", To: "us-gaap:Revenues", Order: 1, Weight: 1},
			{From: "us-gaap:GrossProfit", To: "us-gaap:CostOfRevenue", Order: 2, Weight: -1},
		},
	})
	require.Empty(t, diags)
	return map[string]*taxonomy.Forest{xbrl.RoleSummationItem: forest}
}

func TestProjectEmitsStructuralTriples(t *testing.T) {
	g, diags := NewProjector().Project(projectionFixture(), nil, nil)
	require.Empty(t, diags)

	// Two facts of the same concept in different contexts are distinct
	// nodes; the shared concept node appears once.
	assert.Contains(t, g.Nodes, "fact:us-gaap:Revenues|C1|U1")
	assert.Contains(t, g.Nodes, "fact:us-gaap:Revenues|C2|U1")
	assert.Contains(t, g.Nodes, "concept:us-gaap:Revenues")
	assert.Contains(t, g.Nodes, "dimension:us-gaap:StatementBusinessSegmentsAxis=acme:CloudMember")

	var preds []string
	for _, e := range g.Edges {
		preds = append(preds, e.Predicate)
	}
	// Edge phases are fixed: fact→concept, fact→context, context→dimension.
	assert.Equal(t, []string{
		PredHasConcept, PredHasConcept,
		PredHasContext, PredHasContext,
		PredHasDimension,
	}, preds)
}

func TestProjectIsDeterministic(t *testing.T) {
	n := projectionFixture()
	forests := calcForest(t)
	roles := []string{xbrl.RoleSummationItem}

	first, _ := NewProjector().Project(n, forests, roles)
	second, _ := NewProjector().Project(n, forests, roles)

	assert.Equal(t, first.Edges, second.Edges)
	assert.Equal(t, first.NodeList(), second.NodeList())
}

func TestProjectCalculationEdgesCarryOrderAndWeight(t *testing.T) {
	g, diags := NewProjector().Project(projectionFixture(), calcForest(t), []string{xbrl.RoleSummationItem})
	require.Empty(t, diags)

	var calc []Edge
	for _, e := range g.Edges {
		if e.Predicate == "summation-item" {
			calc = append(calc, e)
		}
	}
	require.Len(t, calc, 2)

	assert.Equal(t, "concept:us-gaap:GrossProfit", calc[0].Subject)
	assert.Equal(t, "concept:us-gaap:Revenues", calc[0].Object)
	require.NotNil(t, calc[0].Weight)
	assert.Equal(t, 1.0, *calc[0].Weight)
	require.NotNil(t, calc[1].Weight)
	assert.Equal(t, -1.0, *calc[1].Weight)
	require.NotNil(t, calc[0].Order)
	assert.Equal(t, 1.0, *calc[0].Order)

	// Concepts that only appear in the hierarchy still become nodes.
	assert.Contains(t, g.Nodes, "concept:us-gaap:GrossProfit")
}

func TestProjectPresentationEdgesOmitWeight(t *testing.T) {
	forest, _ := taxonomy.NewWalker().Walk(xbrl.RelationshipSet{
		Role: xbrl.RoleParentChild,
		Edges: []xbrl.RelationshipEdge{
			{From: "us-gaap:IncomeStatementAbstract", To: "us-gaap:Revenues", Order: 1},
		},
	})
	forests := map[string]*taxonomy.Forest{xbrl.RoleParentChild: forest}

	g, _ := NewProjector().Project(projectionFixture(), forests, []string{xbrl.RoleParentChild})
	var found bool
	for _, e := range g.Edges {
		if e.Predicate == "parent-child" {
			found = true
			assert.NotNil(t, e.Order)
			assert.Nil(t, e.Weight)
		}
	}
	assert.True(t, found)
}

func TestProjectUnrecognizedRoleIsReportedAndSkipped(t *testing.T) {
	role := "http://example.com/arcrole/custom-link"
	g, diags := NewProjector().Project(projectionFixture(), nil, []string{role})

	require.Equal(t, 1, diags.Count(xbrl.KindUnrecognizedRole))
	assert.Equal(t, xbrl.SeverityError, diags[0].Severity)
	for _, e := range g.Edges {
		assert.NotEqual(t, role, e.Predicate)
	}
}

func TestRegisterRoleEnablesProjection(t *testing.T) {
	role := "http://www.xbrl.org/2003/arcrole/concept-label"
	forest, _ := taxonomy.NewWalker().Walk(xbrl.RelationshipSet{
		Role:  role,
		Edges: []xbrl.RelationshipEdge{{From: "us-gaap:Revenues", To: "us-gaap:RevenuesLabel", Order: 1}},
	})

	p := NewProjector()
	p.RegisterRole(role, "concept-label")
	g, diags := p.Project(projectionFixture(), map[string]*taxonomy.Forest{role: forest}, []string{role})

	assert.Empty(t, diags)
	var found bool
	for _, e := range g.Edges {
		if e.Predicate == "concept-label" {
			found = true
		}
	}
	assert.True(t, found)
}
