package ratios

import (
	"strconv"
	"strings"

	"xbrlgraph/pkg/core/statements"
	"xbrlgraph/pkg/core/xbrl"
)

// Result is one ratio outcome for one period. Undefined marks "could not
// compute" — a required input was absent or the denominator was zero —
// which callers must distinguish from a computed zero.
type Result struct {
	Name      string  `json:"name"`
	Period    string  `json:"period"`
	Value     float64 `json:"value"`
	Undefined bool    `json:"undefined"`
}

func (r Result) String() string {
	if r.Undefined {
		return "undefined"
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// Engine evaluates a ratio catalog against classified line items. It has no
// side effects; results are a pure function of the inputs.
type Engine struct {
	defs []Definition
}

// NewEngine returns an engine over the given definitions, defaulting to the
// built-in catalog.
func NewEngine(defs []Definition) *Engine {
	if len(defs) == 0 {
		defs = DefaultCatalog()
	}
	return &Engine{defs: defs}
}

// Compute evaluates every ratio for every reporting period in the table.
// The result maps ratio name → period → result, with an entry for every
// (ratio, period) pair so undefined outcomes are explicit, never missing.
func (e *Engine) Compute(table *statements.Table) map[string]map[string]Result {
	out := make(map[string]map[string]Result, len(e.defs))
	for _, def := range e.defs {
		out[def.Name] = make(map[string]Result)
	}
	for _, period := range table.Periods() {
		items := table.ClassifiedItems(period)
		for _, def := range e.defs {
			out[def.Name][period] = e.evaluate(def, items, period)
		}
	}
	return out
}

// ComputeForPeriod evaluates the catalog against one period's line items.
func (e *Engine) ComputeForPeriod(items []statements.LineItem, period string) []Result {
	results := make([]Result, 0, len(e.defs))
	for _, def := range e.defs {
		results = append(results, e.evaluate(def, items, period))
	}
	return results
}

func (e *Engine) evaluate(def Definition, items []statements.LineItem, period string) Result {
	undefined := Result{Name: def.Name, Period: period, Undefined: true}

	numerator := 0.0
	for _, concept := range def.Numerator {
		v, ok := sumConcept(items, concept)
		if !ok {
			return undefined
		}
		numerator += v
	}
	for _, concept := range def.Subtract {
		v, ok := sumConcept(items, concept)
		if !ok {
			return undefined
		}
		numerator -= v
	}

	denominator := 0.0
	for _, concept := range def.Denominator {
		v, ok := sumConcept(items, concept)
		if !ok {
			return undefined
		}
		denominator += v
	}
	if denominator == 0 {
		return undefined
	}

	return Result{Name: def.Name, Period: period, Value: numerator / denominator}
}

// sumConcept sums the line items reporting the concept (matched on local
// name, case-insensitive). Dimensioned items are skipped so segment and
// member breakdowns never double-count into a consolidated ratio.
func sumConcept(items []statements.LineItem, concept string) (float64, bool) {
	total := 0.0
	found := false
	for _, item := range items {
		if item.Dimensioned {
			continue
		}
		if strings.EqualFold(xbrl.LocalName(item.Concept), concept) {
			total += item.Value
			found = true
		}
	}
	return total, found
}
