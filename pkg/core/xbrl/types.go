// Package xbrl defines the flat fact/context/concept model extracted from an
// XBRL filing, plus the loaders that populate it from instance and linkbase
// documents. All downstream components reference these records through
// explicit key lookups; nothing carries back-pointers into a shared graph.
package xbrl

import "strings"

// Standard arcrole URIs for the relationship sets the pipeline consumes.
const (
	RoleParentChild   = "http://www.xbrl.org/2003/arcrole/parent-child"
	RoleSummationItem = "http://www.xbrl.org/2003/arcrole/summation-item"
)

// Period is the time scope of a context: either an instant (balance sheet)
// or a start/end duration (income statement, cash flow).
type Period struct {
	Instant   string `json:"instant,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// IsInstant reports whether the period is a point in time.
func (p Period) IsInstant() bool {
	return p.Instant != ""
}

// Key returns the reporting-period key used to align facts across
// statements: the instant date for instant periods, the end date otherwise.
// Balance-sheet instants therefore group with the income-statement durations
// ending on the same day.
func (p Period) Key() string {
	if p.Instant != "" {
		return p.Instant
	}
	return p.EndDate
}

// Dimension is one axis/member pair refining a context beyond entity+period.
type Dimension struct {
	Axis   string `json:"axis"`
	Member string `json:"member"`
}

// Context is the entity/period/dimension scope under which facts are
// reported, keyed by an id unique within the filing.
type Context struct {
	ID         string      `json:"id"`
	Entity     string      `json:"entity"`
	Scheme     string      `json:"scheme,omitempty"`
	Period     Period      `json:"period"`
	Dimensions []Dimension `json:"dimensions,omitempty"`
}

// Unit is a measurement unit referenced by numeric facts, e.g. "USD" or a
// ratio such as "USD/shares".
type Unit struct {
	ID      string `json:"id"`
	Measure string `json:"measure"`
}

// Concept is a taxonomy vocabulary term facts report against.
type Concept struct {
	QName             string `json:"qname"`
	Label             string `json:"label"`
	Type              string `json:"type,omitempty"`
	PeriodType        string `json:"period_type,omitempty"`
	Balance           string `json:"balance,omitempty"`
	Abstract          bool   `json:"abstract,omitempty"`
	SubstitutionGroup string `json:"substitution_group,omitempty"`
}

// Fact is one reported data point. Value holds the raw string as filed;
// Numeric is populated during normalization for parseable numeric facts.
// Facts are immutable once extracted.
type Fact struct {
	Concept    string   `json:"concept"`
	Value      string   `json:"value"`
	ContextRef string   `json:"context_ref"`
	UnitRef    string   `json:"unit_ref,omitempty"`
	Decimals   string   `json:"decimals,omitempty"`
	Numeric    *float64 `json:"numeric,omitempty"`
}

// IsNumeric reports whether the fact parsed as a number.
func (f Fact) IsNumeric() bool {
	return f.Numeric != nil
}

// RelationshipEdge is one directed typed edge between two concepts.
// Order controls sibling ordering; Weight is the signed multiplier on
// calculation (summation-item) edges and zero elsewhere.
type RelationshipEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Order  float64 `json:"order"`
	Weight float64 `json:"weight,omitempty"`
}

// RelationshipSet is every edge of one arcrole in the filing's taxonomy.
type RelationshipSet struct {
	Role  string             `json:"role"`
	Edges []RelationshipEdge `json:"edges"`
}

// Filing is the in-memory model of one loaded filing: the narrow contract
// the pipeline consumes. Facts keep document order; lookup tables are keyed
// by their natural ids.
type Filing struct {
	Facts         []Fact
	Contexts      map[string]Context
	Units         map[string]Unit
	Concepts      map[string]Concept
	Relationships map[string]RelationshipSet

	// LoadErrors collects fatal structural problems found while loading.
	// A filing with load errors is rejected by Normalize.
	LoadErrors []string
}

// RelationshipSet returns the edges for one arcrole URI.
func (f *Filing) RelationshipSet(role string) (RelationshipSet, bool) {
	set, ok := f.Relationships[role]
	return set, ok
}

// LocalName strips the namespace prefix from a qualified name:
// "us-gaap:Assets" → "Assets".
func LocalName(qname string) string {
	if i := strings.LastIndex(qname, ":"); i >= 0 {
		return qname[i+1:]
	}
	return qname
}
