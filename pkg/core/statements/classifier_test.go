package statements

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xbrlgraph/pkg/core/taxonomy"
	"xbrlgraph/pkg/core/xbrl"
)

func float64Ptr(v float64) *float64 { return &v }

func normalizedFixture() *xbrl.Normalized {
	return &xbrl.Normalized{
		Facts: []xbrl.Fact{
			{Concept: "us-gaap:Revenues", Value: "1000", ContextRef: "C1", UnitRef: "U1", Numeric: float64Ptr(1000)},
			{Concept: "us-gaap:NetIncomeLoss", Value: "100", ContextRef: "C1", UnitRef: "U1", Numeric: float64Ptr(100)},
			{Concept: "us-gaap:Assets", Value: "500", ContextRef: "C2", UnitRef: "U1", Numeric: float64Ptr(500)},
			{Concept: "us-gaap:NetCashProvidedByUsedInOperatingActivities", Value: "250", ContextRef: "C1", UnitRef: "U1", Numeric: float64Ptr(250)},
			{Concept: "custom:SomethingObscure", Value: "7", ContextRef: "C1", UnitRef: "U1", Numeric: float64Ptr(7)},
			{Concept: "dei:DocumentType", Value: "10-K", ContextRef: "C1"},
		},
		Concepts: map[string]xbrl.Concept{},
		Contexts: map[string]xbrl.Context{
			"C1": {ID: "C1", Period: xbrl.Period{StartDate: "2024-01-01", EndDate: "2024-12-31"}},
			"C2": {ID: "C2", Period: xbrl.Period{Instant: "2024-12-31"}},
		},
		Units: map[string]xbrl.Unit{"U1": {ID: "U1", Measure: "USD"}},
	}
}

func TestClassifyAssignsEveryFactExactlyOnce(t *testing.T) {
	n := normalizedFixture()
	table := NewClassifier(nil, nil).Classify(n)

	total := 0
	for _, byPeriod := range table.Buckets {
		for _, items := range byPeriod {
			total += len(items)
		}
	}
	assert.Equal(t, len(n.Facts), total)
}

func TestClassifyBuckets(t *testing.T) {
	table := NewClassifier(nil, nil).Classify(normalizedFixture())

	income := table.Items(BucketIncome, "2024-12-31")
	require.Len(t, income, 2)
	assert.Equal(t, "us-gaap:Revenues", income[0].Concept)
	assert.Equal(t, "us-gaap:NetIncomeLoss", income[1].Concept)

	balance := table.Items(BucketBalance, "2024-12-31")
	require.Len(t, balance, 1)
	assert.Equal(t, 500.0, balance[0].Value)

	cash := table.Items(BucketCashFlow, "2024-12-31")
	require.Len(t, cash, 1)

	// Unknown concepts and non-numeric facts stay unclassified.
	unclassified := table.Items(BucketUnclassified, "2024-12-31")
	assert.Len(t, unclassified, 2)
}

func TestBucketForAmbiguousConceptUsesHierarchy(t *testing.T) {
	catalog := &Catalog{
		IncomeStatement: []string{"Revenue"},
		BalanceSheet:    []string{"Deferred"},
		StatementRoots:  DefaultCatalog().StatementRoots,
	}
	// DeferredRevenue matches both income ("Revenue") and balance ("Deferred").
	qname := "us-gaap:DeferredRevenue"

	forest, _ := taxonomy.NewWalker().Walk(xbrl.RelationshipSet{
		Role: xbrl.RoleParentChild,
		Edges: []xbrl.RelationshipEdge{
			{From: "us-gaap:StatementOfFinancialPositionAbstract", To: "us-gaap:LiabilitiesCurrentAbstract", Order: 1},
			{From: "us-gaap:LiabilitiesCurrentAbstract", To: qname, Order: 1},
		},
	})

	withForest := NewClassifier(catalog, forest)
	assert.Equal(t, BucketBalance, withForest.BucketFor(qname))

	// Without a hierarchy ancestor, the first matching bucket in fixed
	// catalog order wins.
	withoutForest := NewClassifier(catalog, nil)
	assert.Equal(t, BucketIncome, withoutForest.BucketFor(qname))
}

func TestBucketForSingleMatchIgnoresHierarchy(t *testing.T) {
	c := NewClassifier(nil, nil)
	assert.Equal(t, BucketIncome, c.BucketFor("us-gaap:NetIncomeLoss"))
	assert.Equal(t, BucketUnclassified, c.BucketFor("custom:Widget"))
}

func TestLoadCatalogYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `income_statement: [Revenue]
balance_sheet: [Assets]
cash_flow: [CashFlow]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Revenue"}, catalog.IncomeStatement)
	// Roots fall back to defaults when omitted.
	assert.NotEmpty(t, catalog.StatementRoots)
}

func TestLoadCatalogHJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.hjson")
	content := `{
  # keywords may carry comments in hjson
  income_statement: [Revenue, NetIncomeLoss]
  balance_sheet: [Assets]
  cash_flow: [CashFlow]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Revenue", "NetIncomeLoss"}, catalog.IncomeStatement)
}

func TestLoadCatalogUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	_, err := LoadCatalog(path)
	assert.Error(t, err)
}
