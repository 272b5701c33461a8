package quote

import "sort"

// selectBest reduces a set of SiteMatch to the cheapest non-outlier pick.
// Only entries with status "ok" and both price and url set are eligible.
// With at least 3 eligible entries, prices below 0.4x the median are
// trimmed as outliers before picking the minimum; the median itself always
// survives its own floor, so the safeguard fallback to the untrimmed set
// is unreachable in practice but kept for defense.
func selectBest(matches []SiteMatch) *BestMatch {
	var eligible []SiteMatch
	for _, m := range matches {
		if m.Status == StatusOK && m.Price != nil && m.URL != nil {
			eligible = append(eligible, m)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	sorted := append([]SiteMatch(nil), eligible...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return *sorted[i].Price < *sorted[j].Price
	})

	pool := sorted
	if len(sorted) >= 3 {
		median := *sorted[len(sorted)/2].Price
		floor := median * 0.4

		var trimmed []SiteMatch
		for _, m := range sorted {
			if *m.Price >= floor {
				trimmed = append(trimmed, m)
			}
		}
		if len(trimmed) > 0 {
			pool = trimmed
		}
	}

	best := pool[0]
	return &BestMatch{
		Site:  best.Site,
		Price: *best.Price,
		URL:   *best.URL,
	}
}
