package quote

import "net/http"

// userAgentPool is the fixed pool of user-agents deterministically selected
// by seedUserAgent. Order matters: selection is an index into this slice.
var userAgentPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_3 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Mobile/15E148 Safari/604.1",
}

// applyHeaders sets the request headers used for every scrape attempt: a
// deterministically chosen user-agent plus a browser-like Accept set,
// including the sec-fetch-* triad real browsers send on a top-level
// document navigation. A malformed or out-of-range UA index falls back to
// the first pool entry rather than failing request construction.
func applyHeaders(req *http.Request, site, query string, attempt int) {
	req.Header.Set("User-Agent", userAgent(site, query, attempt))
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("sec-fetch-dest", "document")
	req.Header.Set("sec-fetch-mode", "navigate")
	req.Header.Set("sec-fetch-site", "none")
}

// userAgent deterministically selects a pool entry for (site, query, attempt):
// seed starts at attempt, then mixes in every byte of site++query with the
// multiplier 131, and the pool index is seed mod len(pool). The mixing
// constant and formula are fixed by contract so fixtures stay reproducible.
func userAgent(site, query string, attempt int) string {
	idx := seedUserAgentIndex(site, query, attempt)
	if idx < 0 || idx >= len(userAgentPool) {
		return userAgentPool[0]
	}
	return userAgentPool[idx]
}

func seedUserAgentIndex(site, query string, attempt int) int {
	var seed uint64 = uint64(attempt)
	for i := 0; i < len(site); i++ {
		seed = seed*131 + uint64(site[i])
	}
	for i := 0; i < len(query); i++ {
		seed = seed*131 + uint64(query[i])
	}
	return int(seed % uint64(len(userAgentPool)))
}
