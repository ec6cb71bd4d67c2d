package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"xbrlgraph/pkg/core/pipeline"
)

var renderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the markdown report as a standalone HTML page and appends
// the full graph edge table for interactive exploration in a browser.
func HTML(result *pipeline.Result) (string, error) {
	var body bytes.Buffer
	if err := renderer.Convert([]byte(Markdown(result)), &body); err != nil {
		return "", fmt.Errorf("render report markdown: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(result.Company.Name))
	b.WriteString("<style>body{font-family:sans-serif;max-width:72rem;margin:2rem auto;padding:0 1rem}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:0.25rem 0.5rem}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())

	b.WriteString("<h2>Graph edges</h2>\n<table>\n<tr><th>Subject</th><th>Predicate</th><th>Object</th><th>Order</th><th>Weight</th></tr>\n")
	for _, e := range result.Graph.Edges {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(e.Subject), html.EscapeString(e.Predicate), html.EscapeString(e.Object),
			formatAttr(e.Order), formatAttr(e.Weight))
	}
	b.WriteString("</table>\n</body>\n</html>\n")
	return b.String(), nil
}

func formatAttr(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}
