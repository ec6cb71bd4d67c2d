package xbrl

import (
	"encoding/xml"
	"io"
	"os"
	"strings"
)

// XBRL facts are dynamic elements (us-gaap:Cash, dei:DocumentType, ...), so
// the instance loader walks the XML token stream and treats any element
// carrying a contextRef attribute as a fact, the same way the rest of the
// document-level structures (context, unit) are decoded by local name.

type memberXML struct {
	Dimension string `xml:"dimension,attr"`
	Value     string `xml:",chardata"`
}

type contextXML struct {
	ID         string `xml:"id,attr"`
	Identifier struct {
		Scheme string `xml:"scheme,attr"`
		Value  string `xml:",chardata"`
	} `xml:"entity>identifier"`
	SegmentMembers  []memberXML `xml:"entity>segment>explicitMember"`
	ScenarioMembers []memberXML `xml:"scenario>explicitMember"`
	Instant         string      `xml:"period>instant"`
	StartDate       string      `xml:"period>startDate"`
	EndDate         string      `xml:"period>endDate"`
}

type unitXML struct {
	ID          string `xml:"id,attr"`
	Measure     string `xml:"measure"`
	Numerator   string `xml:"divide>unitNumerator>measure"`
	Denominator string `xml:"divide>unitDenominator>measure"`
}

// LoadInstanceFile loads an XBRL instance document from disk.
func LoadInstanceFile(path string) (*Filing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "cannot open instance document", Err: err}
	}
	defer f.Close()
	return LoadInstance(f, path)
}

// LoadInstance parses an XBRL instance document into a Filing: contexts,
// units, and facts in document order. Concepts are synthesized from the
// fact vocabulary; linkbase loading may enrich them afterwards.
// A malformed document yields a LoadError.
func LoadInstance(r io.Reader, source string) (*Filing, error) {
	filing := &Filing{
		Contexts:      make(map[string]Context),
		Units:         make(map[string]Unit),
		Concepts:      make(map[string]Concept),
		Relationships: make(map[string]RelationshipSet),
	}

	decoder := xml.NewDecoder(r)
	prefixes := map[string]string{}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Source: source, Reason: "malformed XML", Err: err}
		}

		elem, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		// xmlns declarations appear as attributes in the "xmlns" space;
		// remember them so fact names can carry their declared prefixes.
		for _, attr := range elem.Attr {
			if attr.Name.Space == "xmlns" {
				prefixes[attr.Value] = attr.Name.Local
			}
		}

		switch elem.Name.Local {
		case "context":
			var cx contextXML
			if err := decoder.DecodeElement(&cx, &elem); err != nil {
				filing.LoadErrors = append(filing.LoadErrors, "context decode: "+err.Error())
				continue
			}
			filing.Contexts[cx.ID] = contextFromXML(cx)

		case "unit":
			var ux unitXML
			if err := decoder.DecodeElement(&ux, &elem); err != nil {
				filing.LoadErrors = append(filing.LoadErrors, "unit decode: "+err.Error())
				continue
			}
			filing.Units[ux.ID] = unitFromXML(ux)

		default:
			contextRef := attrValue(elem.Attr, "contextRef")
			if contextRef == "" {
				continue // structural element, not a fact
			}
			var value string
			if err := decoder.DecodeElement(&value, &elem); err != nil {
				filing.LoadErrors = append(filing.LoadErrors, "fact decode "+elem.Name.Local+": "+err.Error())
				continue
			}
			qname := qualifiedName(elem.Name, prefixes)
			fact := Fact{
				Concept:    qname,
				Value:      strings.TrimSpace(value),
				ContextRef: contextRef,
				UnitRef:    attrValue(elem.Attr, "unitRef"),
				Decimals:   attrValue(elem.Attr, "decimals"),
			}
			filing.Facts = append(filing.Facts, fact)
			ensureConcept(filing, qname)
		}
	}

	if len(filing.Facts) == 0 && len(filing.Contexts) == 0 {
		return nil, &LoadError{Source: source, Reason: "no XBRL content found"}
	}
	return filing, nil
}

func contextFromXML(cx contextXML) Context {
	ctx := Context{
		ID:     cx.ID,
		Entity: strings.TrimSpace(cx.Identifier.Value),
		Scheme: cx.Identifier.Scheme,
		Period: Period{
			Instant:   strings.TrimSpace(cx.Instant),
			StartDate: strings.TrimSpace(cx.StartDate),
			EndDate:   strings.TrimSpace(cx.EndDate),
		},
	}
	for _, m := range append(cx.SegmentMembers, cx.ScenarioMembers...) {
		ctx.Dimensions = append(ctx.Dimensions, Dimension{
			Axis:   m.Dimension,
			Member: strings.TrimSpace(m.Value),
		})
	}
	return ctx
}

func unitFromXML(ux unitXML) Unit {
	// Drop measure namespace prefixes: iso4217:USD → USD.
	measure := LocalName(strings.TrimSpace(ux.Measure))
	if ux.Numerator != "" {
		measure = LocalName(strings.TrimSpace(ux.Numerator)) + "/" + LocalName(strings.TrimSpace(ux.Denominator))
	}
	return Unit{ID: ux.ID, Measure: measure}
}

// ensureConcept registers a minimal concept for a qname seen in the wild so
// every fact's concept reference resolves even without a schema on hand.
func ensureConcept(f *Filing, qname string) {
	if _, ok := f.Concepts[qname]; ok {
		return
	}
	f.Concepts[qname] = Concept{QName: qname, Label: LocalName(qname)}
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// qualifiedName rebuilds the prefixed concept name from the element's
// namespace URI, falling back to a prefix derived from the URI itself when
// the declaration was not seen (e.g. "http://fasb.org/us-gaap/2023" → "us-gaap").
func qualifiedName(name xml.Name, prefixes map[string]string) string {
	if name.Space == "" {
		return name.Local
	}
	if p, ok := prefixes[name.Space]; ok && p != "" {
		return p + ":" + name.Local
	}
	return derivePrefix(name.Space) + ":" + name.Local
}

func derivePrefix(uri string) string {
	trimmed := strings.TrimSuffix(uri, "/")
	parts := strings.Split(trimmed, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		seg := parts[i]
		if seg == "" {
			continue
		}
		// Skip trailing year segments like "2023" or "2024-01-31".
		if len(seg) >= 4 && seg[0] >= '0' && seg[0] <= '9' {
			continue
		}
		return seg
	}
	return "ns"
}
