package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xbrlgraph/pkg/core/graph"
	"xbrlgraph/pkg/core/pipeline"
	"xbrlgraph/pkg/core/ratios"
	"xbrlgraph/pkg/core/statements"
	"xbrlgraph/pkg/core/xbrl"
)

func reportFixture() *pipeline.Result {
	order := 1.0
	weight := 1.0
	g := &graph.Graph{Nodes: map[string]graph.Node{
		"concept:us-gaap:Revenues": {ID: "concept:us-gaap:Revenues", Type: graph.NodeConcept},
	}}
	g.Edges = []graph.Edge{
		{Subject: "fact:us-gaap:Revenues|C1|U1", Predicate: graph.PredHasConcept, Object: "concept:us-gaap:Revenues"},
		{Subject: "concept:us-gaap:GrossProfit", Predicate: "summation-item", Object: "concept:us-gaap:Revenues", Order: &order, Weight: &weight},
	}

	return &pipeline.Result{
		RunID: "test-run",
		Company: xbrl.CompanyInfo{
			Name:         "Acme Corp",
			CIK:          "0000320193",
			DocumentType: "10-K",
		},
		Statements: &statements.Table{Buckets: map[statements.Bucket]map[string][]statements.LineItem{
			statements.BucketIncome: {
				"2024-12-31": {
					{Bucket: statements.BucketIncome, Concept: "us-gaap:Revenues", Label: "Revenues", Period: "2024-12-31", Value: 1000, Unit: "USD"},
					{Bucket: statements.BucketIncome, Concept: "us-gaap:Revenues", Label: "Cloud segment", Period: "2024-12-31", Value: 400, Unit: "USD", Dimensioned: true},
				},
			},
		}},
		Ratios: map[string]map[string]ratios.Result{
			"net_margin":     {"2024-12-31": {Name: "net_margin", Period: "2024-12-31", Value: 0.1}},
			"debt_to_equity": {"2024-12-31": {Name: "debt_to_equity", Period: "2024-12-31", Undefined: true}},
		},
		Graph: g,
		Diagnostics: xbrl.Diagnostics{
			{Kind: xbrl.KindDanglingReference, Severity: xbrl.SeverityError, Subject: "f9", Message: "fact 9 references missing context CX"},
		},
	}
}

func TestMarkdownReport(t *testing.T) {
	md := Markdown(reportFixture())

	assert.True(t, strings.HasPrefix(md, "# Acme Corp\n"))
	assert.Contains(t, md, "| CIK | 0000320193 |")
	assert.Contains(t, md, "### Income Statement")
	assert.Contains(t, md, "| Revenues | 1000.00 | USD |")
	// Segment rows are excluded from the consolidated statement tables.
	assert.NotContains(t, md, "Cloud segment")

	assert.Contains(t, md, "| net_margin | 2024-12-31 | 0.1 |")
	assert.Contains(t, md, "| debt_to_equity | 2024-12-31 | undefined |")

	assert.Contains(t, md, "1 nodes, 2 edges.")
	assert.Contains(t, md, "[error] dangling_reference: fact 9 references missing context CX")
}

func TestMarkdownReportFallbackTitle(t *testing.T) {
	result := reportFixture()
	result.Company = xbrl.CompanyInfo{}
	md := Markdown(result)
	assert.True(t, strings.HasPrefix(md, "# XBRL Extraction\n"))
}

func TestHTMLReport(t *testing.T) {
	page, err := HTML(reportFixture())
	require.NoError(t, err)

	assert.Contains(t, page, "<title>Acme Corp</title>")
	// GFM tables render as HTML tables.
	assert.Contains(t, page, "<td>net_margin</td>")
	// The full edge table includes hierarchy attributes.
	assert.Contains(t, page, "<td>summation-item</td>")
	assert.Contains(t, page, "<td>1</td><td>1</td>")
	assert.Contains(t, page, "</html>")
}
