package statements

import (
	"sort"

	"xbrlgraph/pkg/core/taxonomy"
	"xbrlgraph/pkg/core/xbrl"
)

// LineItem is one fact placed on a statement.
type LineItem struct {
	Bucket      Bucket  `json:"bucket"`
	Concept     string  `json:"concept"`
	Label       string  `json:"label"`
	Period      string  `json:"period"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit,omitempty"`
	Dimensioned bool    `json:"dimensioned,omitempty"`
}

// Table is the structured statement output: (bucket, period) → line items
// in fact document order.
type Table struct {
	Buckets map[Bucket]map[string][]LineItem
}

// Periods returns every reporting period key present, sorted.
func (t *Table) Periods() []string {
	seen := map[string]bool{}
	for _, periods := range t.Buckets {
		for p := range periods {
			seen[p] = true
		}
	}
	periods := make([]string, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	return periods
}

// Items returns the line items for one bucket and period.
func (t *Table) Items(bucket Bucket, period string) []LineItem {
	if t.Buckets[bucket] == nil {
		return nil
	}
	return t.Buckets[bucket][period]
}

// ClassifiedItems returns every classified (non-unclassified) line item for
// one period, in bucket precedence order then fact order.
func (t *Table) ClassifiedItems(period string) []LineItem {
	var items []LineItem
	for _, bucket := range ClassifiedBuckets {
		items = append(items, t.Items(bucket, period)...)
	}
	return items
}

// Classifier assigns facts to statement buckets using the keyword catalog
// with the presentation forest as tie-breaker.
type Classifier struct {
	catalog      *Catalog
	presentation *taxonomy.Forest
}

// NewClassifier builds a classifier. A nil catalog means the default
// catalog; a nil forest disables hierarchy tie-breaking (first keyword
// match wins for ambiguous concepts).
func NewClassifier(catalog *Catalog, presentation *taxonomy.Forest) *Classifier {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Classifier{catalog: catalog, presentation: presentation}
}

// BucketFor classifies a single concept qname.
//
// A concept matching keywords for exactly one bucket takes that bucket.
// When it matches several, the presentation hierarchy decides: the concept
// belongs to whichever statement root it descends from; with no such
// ancestor, the first matching bucket in fixed catalog order wins. A
// concept matching nothing is unclassified.
func (c *Classifier) BucketFor(qname string) Bucket {
	var matched []Bucket
	for _, bucket := range ClassifiedBuckets {
		if c.catalog.matchesKeyword(bucket, qname) {
			matched = append(matched, bucket)
		}
	}
	switch len(matched) {
	case 0:
		return BucketUnclassified
	case 1:
		return matched[0]
	}

	for _, root := range c.presentation.RootsOf(qname) {
		for _, bucket := range matched {
			if c.catalog.matchesRoot(bucket, root) {
				return bucket
			}
		}
	}
	return matched[0]
}

// Classify assigns every fact to exactly one bucket and groups numeric
// facts by reporting period. Non-numeric facts land in unclassified with a
// zero value; they stay visible here but are excluded from ratio inputs and
// statement rendering.
func (c *Classifier) Classify(n *xbrl.Normalized) *Table {
	table := &Table{Buckets: map[Bucket]map[string][]LineItem{
		BucketIncome:       {},
		BucketBalance:      {},
		BucketCashFlow:     {},
		BucketUnclassified: {},
	}}

	for _, fact := range n.Facts {
		bucket := c.BucketFor(fact.Concept)
		if !fact.IsNumeric() {
			bucket = BucketUnclassified
		}

		ctx := n.Contexts[fact.ContextRef]
		item := LineItem{
			Bucket:      bucket,
			Concept:     fact.Concept,
			Label:       conceptLabel(n, fact.Concept),
			Period:      ctx.Period.Key(),
			Dimensioned: len(ctx.Dimensions) > 0,
		}
		if fact.IsNumeric() {
			item.Value = *fact.Numeric
		}
		if fact.UnitRef != "" {
			item.Unit = n.Units[fact.UnitRef].Measure
		}
		table.Buckets[bucket][item.Period] = append(table.Buckets[bucket][item.Period], item)
	}
	return table
}

func conceptLabel(n *xbrl.Normalized, qname string) string {
	if concept, ok := n.Concepts[qname]; ok && concept.Label != "" {
		return concept.Label
	}
	return xbrl.LocalName(qname)
}
