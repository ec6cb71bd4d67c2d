// Package report renders an extraction result as a human-readable markdown
// document, optionally converted to a standalone HTML page.
package report

import (
	"fmt"
	"sort"
	"strings"

	"xbrlgraph/pkg/core/pipeline"
	"xbrlgraph/pkg/core/statements"
)

// Markdown renders the statements, ratios, graph summary, and diagnostics
// of one extraction run.
func Markdown(result *pipeline.Result) string {
	var b strings.Builder

	title := result.Company.Name
	if title == "" {
		title = "XBRL Extraction"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if result.Company.CIK != "" || result.Company.DocumentType != "" {
		b.WriteString("| | |\n|---|---|\n")
		writeMetaRow(&b, "CIK", result.Company.CIK)
		writeMetaRow(&b, "Ticker", result.Company.Ticker)
		writeMetaRow(&b, "Document", result.Company.DocumentType)
		writeMetaRow(&b, "Period end", result.Company.PeriodEndDate)
		b.WriteString("\n")
	}

	bucketTitles := []struct {
		bucket statements.Bucket
		title  string
	}{
		{statements.BucketIncome, "Income Statement"},
		{statements.BucketBalance, "Balance Sheet"},
		{statements.BucketCashFlow, "Cash Flow"},
	}

	for _, period := range result.Statements.Periods() {
		wrote := false
		for _, bt := range bucketTitles {
			items := result.Statements.Items(bt.bucket, period)
			if len(items) == 0 {
				continue
			}
			if !wrote {
				fmt.Fprintf(&b, "## Period %s\n\n", period)
				wrote = true
			}
			fmt.Fprintf(&b, "### %s\n\n", bt.title)
			b.WriteString("| Line item | Value | Unit |\n|---|---:|---|\n")
			for _, item := range items {
				if item.Dimensioned {
					continue // consolidated view; segment rows stay in the graph
				}
				fmt.Fprintf(&b, "| %s | %.2f | %s |\n", item.Label, item.Value, item.Unit)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Ratios\n\n| Ratio | Period | Value |\n|---|---|---|\n")
	ratioNames := make([]string, 0, len(result.Ratios))
	for name := range result.Ratios {
		ratioNames = append(ratioNames, name)
	}
	sort.Strings(ratioNames)
	for _, name := range ratioNames {
		byPeriod := result.Ratios[name]
		periods := make([]string, 0, len(byPeriod))
		for p := range byPeriod {
			periods = append(periods, p)
		}
		sort.Strings(periods)
		for _, p := range periods {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", name, p, byPeriod[p])
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Graph\n\n%d nodes, %d edges.\n\n",
		len(result.Graph.Nodes), len(result.Graph.Edges))

	if len(result.Diagnostics) > 0 {
		b.WriteString("## Diagnostics\n\n")
		for _, d := range result.Diagnostics {
			fmt.Fprintf(&b, "- %s\n", d)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeMetaRow(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "| %s | %s |\n", label, value)
	}
}
