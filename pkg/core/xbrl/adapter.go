package xbrl

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Normalized is the flat, serializable view of one filing that every
// downstream component consumes: facts in document order plus the three
// lookup tables. Facts with unresolvable references have been dropped and
// reported; remaining facts always resolve.
type Normalized struct {
	Facts    []Fact
	Concepts map[string]Concept
	Contexts map[string]Context
	Units    map[string]Unit
}

// Normalize adapts a loaded filing into the normalized fact model.
//
// A nil filing or one carrying load errors is rejected with a LoadError;
// nothing is extracted from a partially loaded model. A fact whose context
// or unit reference does not resolve is excluded and recorded as a
// dangling-reference diagnostic so one bad fact never loses the rest.
func Normalize(filing *Filing) (*Normalized, Diagnostics, error) {
	if filing == nil {
		return nil, nil, &LoadError{Source: "filing", Reason: "no model loaded"}
	}
	if len(filing.LoadErrors) > 0 {
		return nil, nil, &LoadError{
			Source: "filing",
			Reason: "partially loaded: " + strings.Join(filing.LoadErrors, "; "),
		}
	}

	var diags Diagnostics
	norm := &Normalized{
		Facts:    make([]Fact, 0, len(filing.Facts)),
		Concepts: filing.Concepts,
		Contexts: filing.Contexts,
		Units:    filing.Units,
	}

	for _, fact := range filing.Facts {
		if _, ok := filing.Contexts[fact.ContextRef]; !ok {
			diags.Add(KindDanglingReference, SeverityError, fact.Concept,
				"fact %s references missing context %q", fact.Concept, fact.ContextRef)
			continue
		}
		if fact.UnitRef != "" {
			if _, ok := filing.Units[fact.UnitRef]; !ok {
				diags.Add(KindDanglingReference, SeverityError, fact.Concept,
					"fact %s references missing unit %q", fact.Concept, fact.UnitRef)
				continue
			}
		}
		fact.Numeric = parseNumeric(fact.Value)
		norm.Facts = append(norm.Facts, fact)
	}

	if n := diags.Count(KindDanglingReference); n > 0 {
		log.Warn().Int("dropped", n).Int("kept", len(norm.Facts)).
			Msg("facts with dangling references excluded")
	}
	return norm, diags, nil
}

// parseNumeric parses a reported value as a number, tolerating the comma
// grouping and surrounding whitespace seen in filed values. Non-numeric
// values (text blocks, dates, booleans) pass through as strings.
func parseNumeric(value string) *float64 {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
