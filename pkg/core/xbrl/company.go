package xbrl

// CompanyInfo is the document-and-entity header of a filing, assembled from
// the DEI facts most filings carry.
type CompanyInfo struct {
	Name              string `json:"name,omitempty"`
	CIK               string `json:"cik,omitempty"`
	Ticker            string `json:"ticker,omitempty"`
	DocumentType      string `json:"document_type,omitempty"`
	PeriodEndDate     string `json:"period_end_date,omitempty"`
	FiscalYearFocus   string `json:"fiscal_year_focus,omitempty"`
	FiscalPeriodFocus string `json:"fiscal_period_focus,omitempty"`
}

var deiFields = map[string]func(*CompanyInfo, string){
	"EntityRegistrantName":      func(c *CompanyInfo, v string) { c.Name = v },
	"EntityCentralIndexKey":     func(c *CompanyInfo, v string) { c.CIK = v },
	"TradingSymbol":             func(c *CompanyInfo, v string) { c.Ticker = v },
	"DocumentType":              func(c *CompanyInfo, v string) { c.DocumentType = v },
	"DocumentPeriodEndDate":     func(c *CompanyInfo, v string) { c.PeriodEndDate = v },
	"DocumentFiscalYearFocus":   func(c *CompanyInfo, v string) { c.FiscalYearFocus = v },
	"DocumentFiscalPeriodFocus": func(c *CompanyInfo, v string) { c.FiscalPeriodFocus = v },
}

// ExtractCompanyInfo pulls entity metadata out of the normalized facts.
// Missing DEI facts simply leave fields blank.
func ExtractCompanyInfo(n *Normalized) CompanyInfo {
	var info CompanyInfo
	for _, fact := range n.Facts {
		if set, ok := deiFields[LocalName(fact.Concept)]; ok {
			set(&info, fact.Value)
		}
	}
	return info
}
