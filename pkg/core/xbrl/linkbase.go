package xbrl

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"
)

// Linkbase documents connect concepts with typed arcs. Locators bind an
// xlink label to a concept href within one extended link; arcs reference
// those labels. Labels are scoped per extended link, so each
// presentationLink/calculationLink element is resolved independently.

type locXML struct {
	Href  string `xml:"href,attr"`
	Label string `xml:"label,attr"`
}

type arcXML struct {
	From    string `xml:"from,attr"`
	To      string `xml:"to,attr"`
	Arcrole string `xml:"arcrole,attr"`
	Order   string `xml:"order,attr"`
	Weight  string `xml:"weight,attr"`
}

type extendedLinkXML struct {
	Locs             []locXML `xml:"loc"`
	PresentationArcs []arcXML `xml:"presentationArc"`
	CalculationArcs  []arcXML `xml:"calculationArc"`
}

// LoadLinkbaseFile parses a linkbase document from disk and merges its
// relationship edges into the filing.
func LoadLinkbaseFile(filing *Filing, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &LoadError{Source: path, Reason: "cannot open linkbase", Err: err}
	}
	defer f.Close()
	return LoadLinkbase(filing, f, path)
}

// LoadLinkbase parses presentation and calculation extended links and
// appends their edges to the filing's relationship sets, keyed by arcrole.
func LoadLinkbase(filing *Filing, r io.Reader, source string) error {
	decoder := xml.NewDecoder(r)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &LoadError{Source: source, Reason: "malformed linkbase XML", Err: err}
		}

		elem, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if elem.Name.Local != "presentationLink" && elem.Name.Local != "calculationLink" {
			continue
		}

		var link extendedLinkXML
		if err := decoder.DecodeElement(&link, &elem); err != nil {
			return &LoadError{Source: source, Reason: "extended link decode", Err: err}
		}
		mergeExtendedLink(filing, link)
	}
	return nil
}

func mergeExtendedLink(filing *Filing, link extendedLinkXML) {
	labels := make(map[string]string, len(link.Locs))
	for _, loc := range link.Locs {
		qname := hrefToQName(loc.Href)
		if qname == "" {
			continue
		}
		labels[loc.Label] = qname
		ensureConcept(filing, qname)
	}

	appendArcs := func(arcs []arcXML, defaultRole string) {
		for _, arc := range arcs {
			from, okFrom := labels[arc.From]
			to, okTo := labels[arc.To]
			if !okFrom || !okTo {
				continue // locator missing; arc cannot be resolved
			}
			role := arc.Arcrole
			if role == "" {
				role = defaultRole
			}
			set := filing.Relationships[role]
			set.Role = role
			set.Edges = append(set.Edges, RelationshipEdge{
				From:   from,
				To:     to,
				Order:  parseDecimal(arc.Order),
				Weight: parseDecimal(arc.Weight),
			})
			filing.Relationships[role] = set
		}
	}

	appendArcs(link.PresentationArcs, RoleParentChild)
	appendArcs(link.CalculationArcs, RoleSummationItem)
}

// hrefToQName extracts the concept qname from a locator href fragment:
// "us-gaap-2023.xsd#us-gaap_Assets" → "us-gaap:Assets".
func hrefToQName(href string) string {
	i := strings.LastIndex(href, "#")
	if i < 0 || i == len(href)-1 {
		return ""
	}
	frag := href[i+1:]
	if j := strings.Index(frag, "_"); j >= 0 {
		return frag[:j] + ":" + frag[j+1:]
	}
	return frag
}

func parseDecimal(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
