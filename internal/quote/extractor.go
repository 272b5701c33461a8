package quote

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	priceMin = 3.0
	priceMax = 50000.0
)

// extracted is the result of running the extractor over one response body.
type extracted struct {
	Title *string
	Price *float64
	URL   *string
}

// jsonLDPriceRe matches `"price" : <number>` with optional surrounding
// quotes and up to two decimal places, as emitted by schema.org JSON-LD
// blocks and many inline product JSON payloads.
var jsonLDPriceRe = regexp.MustCompile(`"price"\s*:\s*"?([0-9]+(?:\.[0-9]{1,2})?)"?`)

// amazonWholeRe / amazonFractionRe extract Amazon's split whole/fraction
// price DOM markup: <span class="a-price-whole">129</span><span
// class="a-price-fraction">99</span>.
var amazonWholeRe = regexp.MustCompile(`a-price-whole">([0-9]+(?:\.[0-9]+)?)<`)
var amazonFractionRe = regexp.MustCompile(`a-price-fraction">([0-9]{1,2})<`)

// genericDollarRe matches a dollar-prefixed price anywhere in the raw body.
var genericDollarRe = regexp.MustCompile(`\$\s?([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)`)

// titleRe captures the content of the first <title> element, case
// insensitive and spanning newlines.
var titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

var contextSuppressTokens = []string{
	"/mo", "month", "monthly", "financing", "per wk", "weekly",
}

// extractFromBody runs the three price strategies in order, short-circuiting
// on the first that yields a candidate, then extracts the title and, for
// amazon/amazon_business/newegg/bestbuy/ebay/target, the per-site result URL.
func extractFromBody(site, body string) extracted {
	var result extracted

	if price, ok := extractJSONLDPrice(body); ok {
		result.Price = f64Ptr(price)
	} else if price, ok := extractAmazonDOMPrice(site, body); ok {
		result.Price = f64Ptr(price)
	} else if price, ok := extractGenericDollarPrice(body); ok {
		result.Price = f64Ptr(price)
	}

	if title, ok := extractTitle(body); ok {
		result.Title = strPtr(title)
	}

	if resultURL, ok := extractResultURL(site, body); ok {
		result.URL = strPtr(resultURL)
	}

	return result
}

// extractJSONLDPrice scans up to the first 80 "price": N occurrences, keeps
// those within [priceMin, priceMax], and returns the median.
func extractJSONLDPrice(body string) (float64, bool) {
	matches := jsonLDPriceRe.FindAllStringSubmatch(body, 80)
	var candidates []float64
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if v < priceMin || v > priceMax {
			continue
		}
		candidates = append(candidates, v)
	}
	return medianOf(candidates)
}

// extractAmazonDOMPrice collects up to 20 a-price-whole values (range
// [5, 50000]) and pairs each positionally with an a-price-fraction to form
// N.DD, then returns the median of the combined candidate set. Only applies
// to the amazon family.
func extractAmazonDOMPrice(site, body string) (float64, bool) {
	if site != "amazon" && site != "amazon_business" {
		return 0, false
	}

	wholeMatches := amazonWholeRe.FindAllStringSubmatch(body, 20)
	fracMatches := amazonFractionRe.FindAllStringSubmatch(body, 20)

	var candidates []float64
	for _, m := range wholeMatches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v < 5 || v > 50000 {
			continue
		}
		candidates = append(candidates, v)
	}
	for i := 0; i < len(wholeMatches) && i < len(fracMatches); i++ {
		combined := wholeMatches[i][1] + "." + fracMatches[i][1]
		v, err := strconv.ParseFloat(combined, 64)
		if err != nil || v < 5 || v > 50000 {
			continue
		}
		candidates = append(candidates, v)
	}

	return medianOf(candidates)
}

// extractGenericDollarPrice matches up to 60 dollar-prefixed amounts,
// filters by a 24-character lowercased context window on each side, then
// returns the smallest survivor at or above 0.35x the median (the
// "best-guess" price), falling back to the median itself.
func extractGenericDollarPrice(body string) (float64, bool) {
	lower := strings.ToLower(body)
	locs := genericDollarRe.FindAllStringSubmatchIndex(body, 60)

	var candidates []float64
	for _, loc := range locs {
		matchStart, matchEnd := loc[0], loc[1]
		numStart, numEnd := loc[2], loc[3]

		raw := strings.ReplaceAll(body[numStart:numEnd], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}

		ctxStart := matchStart - 24
		if ctxStart < 0 {
			ctxStart = 0
		}
		ctxEnd := matchEnd + 24
		if ctxEnd > len(lower) {
			ctxEnd = len(lower)
		}
		context := lower[ctxStart:ctxEnd]

		if containsAny(context, contextSuppressTokens) {
			continue
		}
		if strings.Contains(context, "shipping") && v < 20.0 {
			continue
		}
		if v < 10 && !strings.Contains(raw, ".") {
			continue
		}
		if v < priceMin || v > priceMax {
			continue
		}

		candidates = append(candidates, v)
	}

	if len(candidates) == 0 {
		return 0, false
	}

	sorted := append([]float64(nil), candidates...)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]
	floor := median * 0.35

	best := median
	found := false
	for _, v := range candidates {
		if v >= floor && (!found || v < best) {
			best = v
			found = true
		}
	}
	if !found {
		return median, true
	}
	return best, true
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// medianOf sorts candidates ascending and returns the index-floor(n/2)
// element. Returns (0, false) for an empty slice.
func medianOf(candidates []float64) (float64, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), candidates...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2], true
}

// extractTitle returns the first <title> element's text with internal
// whitespace collapsed to single spaces and outer whitespace trimmed.
func extractTitle(body string) (string, bool) {
	m := titleRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	collapsed := strings.Join(strings.Fields(m[1]), " ")
	if collapsed == "" {
		return "", false
	}
	return collapsed, true
}

// Per-site result-URL patterns. Each regex's first capture group is the
// path (or, for sites matched absolutely, the whole URL) to decode and
// return. escapeUnicodeAmp undoes the JSON unicode escape of `&` (a
// backslash followed by u0026) some sites embed in inline JSON hrefs.
var (
	amazonResultRe  = regexp.MustCompile(`(/(?:gp|dp|[^"]*?/dp/)[^"]+)`)
	newEggResultRe  = regexp.MustCompile(`https://www\.newegg\.com/p/[^"'\s\\]+`)
	bestBuyResultRe = regexp.MustCompile(`(/site/[^"'\s\\]+\.p(?:\?[^"'\s\\]*)?)`)
	ebayResultRe    = regexp.MustCompile(`https://www\.ebay\.com/itm/[^"'\s\\]+`)
	targetResultRe  = regexp.MustCompile(`https://www\.target\.com/p/[^"'\s\\]+`)
)

func extractResultURL(site, body string) (string, bool) {
	switch site {
	case "amazon", "amazon_business":
		if m := amazonResultRe.FindString(body); m != "" {
			return "https://www.amazon.com" + escapeUnicodeAmp(m), true
		}
	case "newegg":
		if m := newEggResultRe.FindString(body); m != "" {
			return escapeUnicodeAmp(m), true
		}
	case "bestbuy":
		if m := bestBuyResultRe.FindString(body); m != "" {
			return "https://www.bestbuy.com" + escapeUnicodeAmp(m), true
		}
	case "ebay":
		if m := ebayResultRe.FindString(body); m != "" {
			return escapeUnicodeAmp(m), true
		}
	case "target":
		if m := targetResultRe.FindString(body); m != "" {
			return escapeUnicodeAmp(m), true
		}
	}
	return "", false
}

// escapeUnicodeAmp undoes the JSON unicode escape of `&` (a backslash
// followed by u0026) some sites embed in inline href attributes, turning it
// back into a literal `&`.
func escapeUnicodeAmp(s string) string {
	return strings.ReplaceAll(s, `\u0026`, "&")
}
