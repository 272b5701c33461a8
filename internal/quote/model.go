// Package quote implements the scrape-and-extract price discovery pipeline:
// URL building, header policy, HTML extraction, cache-aside lookups,
// per-site scraping, bounded-concurrency fan-out, and best-match selection.
package quote

// QuoteItem is a single product query in a run.
type QuoteItem struct {
	Query string `json:"query"`
	Qty   uint   `json:"qty"`
}

// QuoteOptions carries per-request overrides.
type QuoteOptions struct {
	CacheTTL *int64 `json:"cache_ttl,omitempty"`
}

// SiteOverrides maps a site id to a URL template containing a literal "{q}".
type SiteOverrides map[string]string

// QuoteRequest is the decoded body of both the collect and stream endpoints.
type QuoteRequest struct {
	RunID         string        `json:"run_id,omitempty"`
	Items         []QuoteItem   `json:"items"`
	Category      string        `json:"category,omitempty"`
	SitePlan      []string      `json:"site_plan"`
	SiteOverrides SiteOverrides `json:"site_overrides,omitempty"`
	Options       *QuoteOptions `json:"options,omitempty"`
}

// MatchStatus enumerates the terminal states of a single site scrape.
type MatchStatus string

const (
	StatusOK            MatchStatus = "ok"
	StatusNotFound      MatchStatus = "not_found"
	StatusCached        MatchStatus = "cached"
	StatusBlocked       MatchStatus = "blocked"
	StatusUnsupportedJS MatchStatus = "unsupported_js"
	StatusError         MatchStatus = "error"
)

// SiteMatch is the outcome of scraping one site for one query.
type SiteMatch struct {
	Site      string      `json:"site"`
	Title     *string     `json:"title,omitempty"`
	Price     *float64    `json:"price,omitempty"`
	Currency  string      `json:"currency"`
	URL       *string     `json:"url,omitempty"`
	Status    MatchStatus `json:"status"`
	Message   *string     `json:"message,omitempty"`
	LatencyMs int64       `json:"latency_ms"`
}

// BestMatch is the cheapest non-outlier SiteMatch for an item.
type BestMatch struct {
	Site  string  `json:"site"`
	Price float64 `json:"price"`
	URL   string  `json:"url"`
}

// ItemResult bundles all site matches and the best pick for one query.
type ItemResult struct {
	Query   string      `json:"query"`
	Matches []SiteMatch `json:"matches"`
	Best    *BestMatch  `json:"best,omitempty"`
}

// QuoteResponse is the synchronous collect-mode response envelope.
type QuoteResponse struct {
	RunID      string       `json:"run_id"`
	StartedAt  string       `json:"started_at"`
	DurationMs int64        `json:"duration_ms"`
	Items      []ItemResult `json:"items"`
}

// strPtr and f64Ptr are small helpers for constructing SiteMatch literals
// without repeating the address-of-local-copy idiom at every call site.
func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
