// Package ratios computes the fixed catalog of financial ratios from
// classified line items, one reporting period at a time.
package ratios

// Definition declares one ratio as numerator / denominator concept sets.
// Each set is combined by summing the matching line items; Subtract lists
// concepts removed from the numerator sum (quick ratio backs inventory out
// of current assets). Every listed concept is a required input: if any is
// absent from the period's line items the ratio is undefined.
type Definition struct {
	Name        string
	Numerator   []string
	Subtract    []string
	Denominator []string
}

// DefaultCatalog is the built-in ratio catalog. It is fixed at build time,
// not user-supplied; extend it here.
func DefaultCatalog() []Definition {
	return []Definition{
		{
			Name:        "current_ratio",
			Numerator:   []string{"AssetsCurrent"},
			Denominator: []string{"LiabilitiesCurrent"},
		},
		{
			Name:        "quick_ratio",
			Numerator:   []string{"AssetsCurrent"},
			Subtract:    []string{"InventoryNet"},
			Denominator: []string{"LiabilitiesCurrent"},
		},
		{
			Name:        "debt_to_equity",
			Numerator:   []string{"Liabilities"},
			Denominator: []string{"StockholdersEquity"},
		},
		{
			Name:        "net_margin",
			Numerator:   []string{"NetIncomeLoss"},
			Denominator: []string{"Revenues"},
		},
		{
			Name:        "return_on_assets",
			Numerator:   []string{"NetIncomeLoss"},
			Denominator: []string{"Assets"},
		},
		{
			Name:        "return_on_equity",
			Numerator:   []string{"NetIncomeLoss"},
			Denominator: []string{"StockholdersEquity"},
		},
	}
}
