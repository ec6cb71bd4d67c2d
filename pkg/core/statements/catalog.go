// Package statements classifies normalized facts into financial-statement
// buckets and groups them into the structured statement table.
package statements

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"
)

// Bucket is one of the fixed financial-statement assignments.
type Bucket string

const (
	BucketIncome       Bucket = "income_statement"
	BucketBalance      Bucket = "balance_sheet"
	BucketCashFlow     Bucket = "cash_flow"
	BucketUnclassified Bucket = "unclassified"
)

// ClassifiedBuckets is the fixed precedence order used when a concept
// matches keywords for more than one bucket and no hierarchy ancestor
// settles it.
var ClassifiedBuckets = []Bucket{BucketIncome, BucketBalance, BucketCashFlow}

// Catalog is the keyword configuration driving classification. It is data,
// not code: extend or replace it from a YAML or HJSON file without touching
// traversal logic. Keywords match case-insensitively as substrings of the
// concept qname; statement roots match the same way against presentation
// root concepts.
type Catalog struct {
	IncomeStatement []string            `yaml:"income_statement" json:"income_statement"`
	BalanceSheet    []string            `yaml:"balance_sheet" json:"balance_sheet"`
	CashFlow        []string            `yaml:"cash_flow" json:"cash_flow"`
	StatementRoots  map[string][]string `yaml:"statement_roots" json:"statement_roots"`
}

// DefaultCatalog returns the built-in keyword catalog, derived from the
// standard us-gaap statement concepts.
func DefaultCatalog() *Catalog {
	return &Catalog{
		IncomeStatement: []string{
			"Revenue",
			"CostOfRevenue",
			"CostOfGoodsAndServicesSold",
			"GrossProfit",
			"OperatingExpenses",
			"OperatingIncomeLoss",
			"NetIncomeLoss",
			"IncomeTaxExpense",
			"EarningsPerShare",
		},
		BalanceSheet: []string{
			"Assets",
			"Liabilities",
			"StockholdersEquity",
			"RetainedEarnings",
			"Inventory",
			"AccountsReceivable",
			"AccountsPayable",
			"LongTermDebt",
		},
		CashFlow: []string{
			"CashFlow",
			"NetCashProvidedByUsedIn",
			"PaymentsToAcquire",
			"ProceedsFrom",
			"CashAndCashEquivalents",
		},
		StatementRoots: map[string][]string{
			string(BucketIncome):   {"IncomeStatementAbstract", "StatementOfIncome"},
			string(BucketBalance):  {"StatementOfFinancialPositionAbstract", "BalanceSheetAbstract"},
			string(BucketCashFlow): {"StatementOfCashFlowsAbstract"},
		},
	}
}

// LoadCatalog reads a catalog from a YAML (.yaml/.yml) or HJSON (.hjson)
// file. Omitted statement roots fall back to the defaults so a file only
// has to override the keyword lists.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var catalog Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hjson":
		// hjson decodes into generic maps; round-trip through JSON to
		// land in the typed catalog.
		var raw interface{}
		if err := hjson.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse hjson catalog: %w", err)
		}
		jsonBytes, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("convert hjson catalog: %w", err)
		}
		if err := json.Unmarshal(jsonBytes, &catalog); err != nil {
			return nil, fmt.Errorf("decode hjson catalog: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("parse yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}

	if len(catalog.StatementRoots) == 0 {
		catalog.StatementRoots = DefaultCatalog().StatementRoots
	}
	return &catalog, nil
}

// keywords returns the pattern list for one classified bucket.
func (c *Catalog) keywords(bucket Bucket) []string {
	switch bucket {
	case BucketIncome:
		return c.IncomeStatement
	case BucketBalance:
		return c.BalanceSheet
	case BucketCashFlow:
		return c.CashFlow
	}
	return nil
}

// matchesKeyword reports whether qname matches any pattern of the bucket.
func (c *Catalog) matchesKeyword(bucket Bucket, qname string) bool {
	lower := strings.ToLower(qname)
	for _, kw := range c.keywords(bucket) {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// matchesRoot reports whether a presentation root concept identifies the
// bucket's statement.
func (c *Catalog) matchesRoot(bucket Bucket, rootQName string) bool {
	lower := strings.ToLower(rootQName)
	for _, fragment := range c.StatementRoots[string(bucket)] {
		if strings.Contains(lower, strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}
