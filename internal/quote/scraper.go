package quote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxBodyBytes = 512 * 1024

var botChallengeKeywords = []string{
	"enable javascript",
	"captcha",
	"pardon our interruption",
	"are you a human",
	"cloudflare",
	"access denied",
	"bot detection",
}

var blockingStatusCodes = map[int]bool{
	http.StatusForbidden:           true,
	http.StatusTooManyRequests:     true,
	http.StatusServiceUnavailable: true,
}

// attemptTimeout returns the per-attempt HTTP deadline: 5s on the first
// attempt, 3s on the retry.
func attemptTimeout(attempt int) time.Duration {
	if attempt == 0 {
		return 5 * time.Second
	}
	return 3 * time.Second
}

// scrape runs the full per-(site, query) state machine: cache check,
// up to two HTTP attempts with retry/backoff, bot-challenge detection,
// body-size capping, and extraction. It never returns an error — every
// failure mode collapses into a terminal SiteMatch.
func scrape(ctx context.Context, cache *CacheClient, site, query string, ttl int64, overrides SiteOverrides) SiteMatch {
	start := time.Now()
	searchURL := buildSiteURL(site, query, overrides)

	if cached, ok := cache.Get(site, query, ttl); ok {
		m := *cached
		m.Status = StatusCached
		m.LatencyMs = time.Since(start).Milliseconds()
		return m
	}

	var (
		body         []byte
		bodyAcquired bool
		blocked      bool
		challenged   bool
		lastMessage  string
	)

attempts:
	for attempt := 0; attempt < 2; attempt++ {
		reqCtx, cancel := context.WithTimeout(ctx, attemptTimeout(attempt))
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, searchURL, nil)
		if err != nil {
			cancel()
			lastMessage = "request_failed"
			break
		}
		applyHeaders(req, site, query, attempt)

		client := &http.Client{Timeout: attemptTimeout(attempt)}
		resp, err := client.Do(req)

		if err != nil {
			if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
				lastMessage = "timeout"
			} else {
				lastMessage = err.Error()
			}
			cancel()
			if attempt == 0 {
				time.Sleep(250 * time.Millisecond)
				continue
			}
			break
		}

		if blockingStatusCodes[resp.StatusCode] {
			resp.Body.Close()
			cancel()
			lastMessage = fmt.Sprintf("http_status_%d", resp.StatusCode)
			blocked = true
			if attempt == 0 {
				time.Sleep(300 * time.Millisecond)
				continue
			}
			break
		}

		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		blocked = false

		if containsBotChallenge(raw) {
			challenged = true
			if attempt == 0 {
				cancel()
				time.Sleep(300 * time.Millisecond)
				continue
			}
			cancel()
			return SiteMatch{
				Site:      site,
				Currency:  "USD",
				URL:       strPtr(searchURL),
				Status:    StatusUnsupportedJS,
				Message:   strPtr("site requires browser execution or anti-bot challenge"),
				LatencyMs: time.Since(start).Milliseconds(),
			}
		}

		body = raw
		bodyAcquired = true
		cancel()
		break attempts
	}

	if !bodyAcquired {
		latency := time.Since(start).Milliseconds()
		if blocked || challenged {
			return SiteMatch{
				Site:      site,
				Currency:  "USD",
				URL:       strPtr(searchURL),
				Status:    StatusBlocked,
				Message:   strPtr(lastMessage),
				LatencyMs: latency,
			}
		}
		if lastMessage == "" {
			lastMessage = "request_failed"
		}
		return SiteMatch{
			Site:      site,
			Currency:  "USD",
			URL:       strPtr(searchURL),
			Status:    StatusError,
			Message:   strPtr(lastMessage),
			LatencyMs: latency,
		}
	}

	result := extractFromBody(site, string(body))

	resultURL := searchURL
	if result.URL != nil && *result.URL != "" {
		resultURL = *result.URL
	}

	status := StatusNotFound
	if result.Price != nil {
		status = StatusOK
	}

	match := SiteMatch{
		Site:      site,
		Title:     result.Title,
		Price:     result.Price,
		Currency:  "USD",
		URL:       strPtr(resultURL),
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
	}

	cache.Put(site, query, match)

	return match
}

func containsBotChallenge(body []byte) bool {
	lower := strings.ToLower(string(body))
	for _, kw := range botChallengeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
