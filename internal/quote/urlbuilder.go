package quote

import "net/url"

// siteSearchURLs is the built-in table of retailer search-page templates.
// Every entry contains at least one "%s"; each occurrence is replaced by the
// percent-encoded query.
var siteSearchURLs = map[string]string{
	"amazon":              "https://www.amazon.com/s?k=%s",
	"amazon_business":     "https://www.amazon.com/s?k=%s",
	"bestbuy":             "https://www.bestbuy.com/site/searchpage.jsp?st=%s",
	"newegg":              "https://www.newegg.com/p/pl?d=%s",
	"bhphotovideo":        "https://www.bhphotovideo.com/c/search?q=%s",
	"walmart":             "https://www.walmart.com/search?q=%s",
	"walmart_business":    "https://www.walmart.com/search?q=%s",
	"staples":             "https://www.staples.com/%s/directory_%s",
	"officedepot":         "https://www.officedepot.com/a/search/?q=%s",
	"quill":               "https://www.quill.com/search?keywords=%s",
	"uline":               "https://www.uline.com/Search/Results?keywords=%s",
	"target":              "https://www.target.com/s?searchTerm=%s",
	"webstaurantstore":    "https://www.webstaurantstore.com/search/%s.html",
	"katom":               "https://www.katom.com/search.html?query=%s",
	"centralrestaurant":   "https://www.centralrestaurant.com/search/%s",
	"therestaurantstore":  "https://www.therestaurantstore.com/search/%s",
	"restaurantdepot":     "https://www.restaurantdepot.com/catalogsearch/result/?q=%s",
	"ace_mart":            "https://www.acemart.com/catalogsearch/result/?q=%s",
	"grainger":            "https://www.grainger.com/search?searchQuery=%s",
	"zoro":                "https://www.zoro.com/search?q=%s",
	"homedepot":           "https://www.homedepot.com/s/%s",
	"platt":               "https://www.platt.com/search.aspx?q=%s",
	"cityelectricsupply":  "https://www.cityelectricsupply.com/search?text=%s",
	"lowes":               "https://www.lowes.com/search?searchTerm=%s",
	"mcmaster":            "https://www.mcmaster.com/%s/",
	"adorama":             "https://www.adorama.com/l/?searchinfo=%s",
	"microcenter":         "https://www.microcenter.com/search/search_results.aspx?Ntt=%s",
	"ebay":                "https://www.ebay.com/sch/i.html?_nkw=%s",
}

// fallbackSearchURL is used for any site_id not present in siteSearchURLs
// and not covered by a caller-supplied override.
const fallbackSearchURL = "https://www.google.com/search?q=%s+buy"

// buildSiteURL maps (siteID, query, overrides) to a concrete absolute
// search URL. It percent-encodes the query once, then prefers a caller
// override (substituting every "{q}" occurrence in its template) over the
// built-in table, falling back to a generic web search when the site is
// unknown. Pure and idempotent.
func buildSiteURL(siteID, query string, overrides SiteOverrides) string {
	// url.PathEscape encodes space as "%20" rather than "+", matching the
	// literal substitution contract callers rely on for {q} templates.
	encoded := url.PathEscape(query)

	if overrides != nil {
		if tmpl, ok := overrides[siteID]; ok {
			return substituteQuery(tmpl, encoded)
		}
	}

	if tmpl, ok := siteSearchURLs[siteID]; ok {
		return fillPercentTemplate(tmpl, encoded)
	}

	return fillPercentTemplate(fallbackSearchURL, encoded)
}

// fillPercentTemplate substitutes every "%s" verbatim placeholder in a
// built-in template with the already-encoded query, without invoking
// fmt.Sprintf (which would choke on literal "%" characters elsewhere in a
// URL template, however unlikely).
func fillPercentTemplate(tmpl, encoded string) string {
	out := make([]byte, 0, len(tmpl)+len(encoded))
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '%' && i+1 < len(tmpl) && tmpl[i+1] == 's' {
			out = append(out, encoded...)
			i++
			continue
		}
		out = append(out, tmpl[i])
	}
	return string(out)
}

// substituteQuery replaces every literal "{q}" occurrence in a caller
// override template with the encoded query.
func substituteQuery(tmpl, encoded string) string {
	const placeholder = "{q}"
	out := make([]byte, 0, len(tmpl)+len(encoded))
	for {
		idx := indexOf(tmpl, placeholder)
		if idx < 0 {
			out = append(out, tmpl...)
			break
		}
		out = append(out, tmpl[:idx]...)
		out = append(out, encoded...)
		tmpl = tmpl[idx+len(placeholder):]
	}
	return string(out)
}

func indexOf(s, substr string) int {
	n, m := len(s), len(substr)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == substr {
			return i
		}
	}
	return -1
}
