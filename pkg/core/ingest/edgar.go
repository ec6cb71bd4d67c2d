// Package ingest retrieves filings from SEC EDGAR: ticker resolution,
// filing metadata, and instance-document discovery. It is a collaborator of
// the pipeline, not part of it — the pipeline only ever sees a loaded
// Filing model.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

const (
	defaultUserAgent  = "xbrlgraph research tool contact@example.com"
	companyTickersURL = "https://www.sec.gov/files/company_tickers.json"
	submissionsURL    = "https://data.sec.gov/submissions/CIK%s.json"
	archivesDirURL    = "https://www.sec.gov/Archives/edgar/data/%s/%s/"

	// SEC fair-access guidelines cap clients at 10 requests per second.
	requestDelay = 110 * time.Millisecond
)

// Client talks to SEC EDGAR with the required identification headers and
// rate etiquette. One Client is safe for concurrent use.
type Client struct {
	http      *http.Client
	userAgent string

	// Endpoint templates, overridable in tests.
	tickersURL     string
	submissionsURL string
	archivesURL    string
	siteBase       string

	mu      sync.Mutex
	tickers map[string]string // ticker → zero-padded CIK
}

// NewClient builds an EDGAR client. SEC requires a User-Agent naming the
// operator and a contact address; pass yours or the placeholder default is
// used.
func NewClient(userAgent string) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		http:           &http.Client{Timeout: 60 * time.Second},
		userAgent:      userAgent,
		tickersURL:     companyTickersURL,
		submissionsURL: submissionsURL,
		archivesURL:    archivesDirURL,
		siteBase:       "https://www.sec.gov",
	}
}

// FilingRef identifies one filing in the EDGAR archives.
type FilingRef struct {
	CIK             string `json:"cik"`
	AccessionNumber string `json:"accession_number"`
	Form            string `json:"form"`
	FilingDate      string `json:"filing_date"`
	PrimaryDocument string `json:"primary_document"`
}

type submissionsResponse struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// LookupCIK resolves a ticker symbol to a zero-padded CIK using SEC's
// company_tickers.json, cached after the first call.
func (c *Client) LookupCIK(ctx context.Context, ticker string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(ticker))

	c.mu.Lock()
	defer c.mu.Unlock()

	if cik, ok := c.tickers[normalized]; ok {
		return cik, nil
	}
	if len(c.tickers) == 0 {
		if err := c.loadTickersLocked(ctx); err != nil {
			return "", err
		}
		if cik, ok := c.tickers[normalized]; ok {
			return cik, nil
		}
	}
	return "", fmt.Errorf("ticker %s not found in SEC database", ticker)
}

func (c *Client) loadTickersLocked(ctx context.Context) error {
	body, err := c.get(ctx, c.tickersURL)
	if err != nil {
		return fmt.Errorf("fetch company tickers: %w", err)
	}
	var entries map[string]struct {
		CIK    int64  `json:"cik_str"`
		Ticker string `json:"ticker"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return fmt.Errorf("decode company tickers: %w", err)
	}
	c.tickers = make(map[string]string, len(entries))
	for _, e := range entries {
		c.tickers[strings.ToUpper(e.Ticker)] = fmt.Sprintf("%010d", e.CIK)
	}
	log.Debug().Int("tickers", len(c.tickers)).Msg("loaded SEC ticker table")
	return nil
}

// LatestFiling returns the most recent filing of the given form type
// (e.g. "10-K") for a zero-padded CIK.
func (c *Client) LatestFiling(ctx context.Context, cik, form string) (*FilingRef, error) {
	body, err := c.get(ctx, fmt.Sprintf(c.submissionsURL, cik))
	if err != nil {
		return nil, fmt.Errorf("fetch submissions for CIK %s: %w", cik, err)
	}
	var subs submissionsResponse
	if err := json.Unmarshal(body, &subs); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	recent := subs.Filings.Recent
	for i, f := range recent.Form {
		if f != form {
			continue
		}
		return &FilingRef{
			CIK:             cik,
			AccessionNumber: recent.AccessionNumber[i],
			Form:            f,
			FilingDate:      recent.FilingDate[i],
			PrimaryDocument: recent.PrimaryDocument[i],
		}, nil
	}
	return nil, fmt.Errorf("no %s filing found for CIK %s", form, cik)
}

// InstanceDocumentURL scans the filing's archive directory listing for the
// XBRL instance document ("<ticker>-<date>_htm.xml").
func (c *Client) InstanceDocumentURL(ctx context.Context, ref *FilingRef) (string, error) {
	dirURL := fmt.Sprintf(c.archivesURL,
		strings.TrimLeft(ref.CIK, "0"),
		strings.ReplaceAll(ref.AccessionNumber, "-", ""))

	body, err := c.get(ctx, dirURL)
	if err != nil {
		return "", fmt.Errorf("fetch filing index: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse filing index: %w", err)
	}

	var instance string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if strings.HasSuffix(href, "_htm.xml") {
			instance = href
			return false
		}
		return true
	})
	if instance == "" {
		return "", fmt.Errorf("no XBRL instance document in %s", dirURL)
	}
	if strings.HasPrefix(instance, "/") {
		return c.siteBase + instance, nil
	}
	return dirURL + instance, nil
}

// FetchInstance downloads the instance document bytes.
func (c *Client) FetchInstance(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	delay := time.NewTimer(requestDelay)
	defer delay.Stop()
	select {
	case <-delay.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("SEC denied access to %s: set a User-Agent naming your organization and contact email, and respect the 10 req/s limit", url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
