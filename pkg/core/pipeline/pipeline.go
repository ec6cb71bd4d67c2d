// Package pipeline runs the full extraction pass over one loaded filing:
// normalize, walk, classify, derive ratios, and project the graph. The pass
// is single-threaded and synchronous; all four outputs are produced together
// or not at all, with recovered anomalies accumulated into the diagnostics
// list. Concurrent extraction requires independent Filing instances.
package pipeline

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"xbrlgraph/pkg/core/graph"
	"xbrlgraph/pkg/core/ratios"
	"xbrlgraph/pkg/core/statements"
	"xbrlgraph/pkg/core/taxonomy"
	"xbrlgraph/pkg/core/xbrl"
)

// calculationTolerance allows for the rounding differences filed values
// legitimately carry.
const calculationTolerance = 0.01

// Options configures one extraction pass. Zero values mean defaults.
type Options struct {
	// Catalog overrides the built-in classification keyword catalog.
	Catalog *statements.Catalog
	// RatioDefs overrides the built-in ratio catalog.
	RatioDefs []ratios.Definition
	// Roles are the arcrole URIs projected as hierarchy edges. Defaults
	// to presentation and calculation.
	Roles []string
	// MaxDepth bounds relationship traversal depth.
	MaxDepth int
	// SkipCalculationCheck disables summation-item consistency checking.
	SkipCalculationCheck bool
}

// Result is everything one pass derives from a filing.
type Result struct {
	RunID       string                              `json:"run_id"`
	Company     xbrl.CompanyInfo                    `json:"company"`
	Facts       []xbrl.Fact                         `json:"facts"`
	Statements  *statements.Table                   `json:"statements"`
	Ratios      map[string]map[string]ratios.Result `json:"ratios"`
	Graph       *graph.Graph                        `json:"graph"`
	Diagnostics xbrl.Diagnostics                    `json:"diagnostics"`
}

// Run executes the pipeline over a loaded filing. Only a LoadError aborts;
// every other anomaly is recovered, recorded, and returned alongside the
// best-effort result.
func Run(filing *xbrl.Filing, opts Options) (*Result, error) {
	normalized, diags, err := xbrl.Normalize(filing)
	if err != nil {
		return nil, err
	}

	roles := opts.Roles
	if len(roles) == 0 {
		roles = []string{xbrl.RoleParentChild, xbrl.RoleSummationItem}
	}

	walker := taxonomy.NewWalker()
	if opts.MaxDepth > 0 {
		walker.MaxDepth = opts.MaxDepth
	}

	forests := make(map[string]*taxonomy.Forest, len(roles)+1)
	walkRole := func(role string) *taxonomy.Forest {
		if f, ok := forests[role]; ok {
			return f
		}
		set, ok := filing.RelationshipSet(role)
		if !ok {
			return nil
		}
		forest, walkDiags := walker.Walk(set)
		diags = append(diags, walkDiags...)
		forests[role] = forest
		return forest
	}

	presentation := walkRole(xbrl.RoleParentChild)
	for _, role := range roles {
		walkRole(role)
	}

	classifier := statements.NewClassifier(opts.Catalog, presentation)
	table := classifier.Classify(normalized)

	engine := ratios.NewEngine(opts.RatioDefs)
	ratioResults := engine.Compute(table)

	projector := graph.NewProjector()
	projected, projDiags := projector.Project(normalized, forests, roles)
	diags = append(diags, projDiags...)

	if !opts.SkipCalculationCheck {
		if set, ok := filing.RelationshipSet(xbrl.RoleSummationItem); ok {
			checkCalculations(normalized, set, &diags)
		}
	}

	result := &Result{
		RunID:       uuid.NewString(),
		Company:     xbrl.ExtractCompanyInfo(normalized),
		Facts:       normalized.Facts,
		Statements:  table,
		Ratios:      ratioResults,
		Graph:       projected,
		Diagnostics: diags,
	}

	log.Info().
		Str("run_id", result.RunID).
		Int("facts", len(result.Facts)).
		Int("graph_edges", len(projected.Edges)).
		Int("diagnostics", len(diags)).
		Msg("extraction pass complete")
	return result, nil
}

// checkCalculations recomputes each summation-item parent from its weighted
// children per context and reports mismatches beyond the rounding tolerance.
func checkCalculations(n *xbrl.Normalized, set xbrl.RelationshipSet, diags *xbrl.Diagnostics) {
	values := make(map[string]map[string]float64)
	for _, fact := range n.Facts {
		if !fact.IsNumeric() {
			continue
		}
		byCtx := values[fact.Concept]
		if byCtx == nil {
			byCtx = make(map[string]float64)
			values[fact.Concept] = byCtx
		}
		if _, dup := byCtx[fact.ContextRef]; !dup {
			byCtx[fact.ContextRef] = *fact.Numeric
		}
	}

	byParent := make(map[string][]xbrl.RelationshipEdge)
	var parents []string
	for _, e := range set.Edges {
		if _, seen := byParent[e.From]; !seen {
			parents = append(parents, e.From)
		}
		byParent[e.From] = append(byParent[e.From], e)
	}

	for _, parent := range parents {
		ctxIDs := make([]string, 0, len(values[parent]))
		for ctxID := range values[parent] {
			ctxIDs = append(ctxIDs, ctxID)
		}
		sort.Strings(ctxIDs)
		for _, ctxID := range ctxIDs {
			actual := values[parent][ctxID]
			sum := 0.0
			matched := false
			for _, e := range byParent[parent] {
				if v, ok := values[e.To][ctxID]; ok {
					sum += v * e.Weight
					matched = true
				}
			}
			if matched && math.Abs(sum-actual) > calculationTolerance {
				diags.Add(xbrl.KindCalculationInconsistency, xbrl.SeverityWarning, parent,
					"%s in context %s: children sum to %.2f, reported %.2f", parent, ctxID, sum, actual)
			}
		}
	}
}
