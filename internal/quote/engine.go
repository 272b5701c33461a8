package quote

import (
	"context"
	"sort"
	"sync"
)

const maxConcurrentScrapes = 20

// Engine fans out per-site scrapes under a shared concurrency cap. One
// Engine is built at process start (see cmd/api/main.go) and shared by every
// run, so its semaphore bounds the scrapes of all concurrent requests
// together: items are processed sequentially by the caller (see
// Orchestrator), but within an item up to maxConcurrentScrapes sites run in
// parallel against the same semaphore.
type Engine struct {
	cache *CacheClient
	sem   chan struct{}
	once  sync.Once
	closed chan struct{}
}

// NewEngine builds an Engine backed by cache, with a fresh semaphore of
// maxConcurrentScrapes permits.
func NewEngine(cache *CacheClient) *Engine {
	return &Engine{
		cache:  cache,
		sem:    make(chan struct{}, maxConcurrentScrapes),
		closed: make(chan struct{}),
	}
}

// Close marks the engine's semaphore closed; in-flight and future acquire
// attempts synthesize a semaphore_closed error match instead of blocking
// or panicking.
func (e *Engine) Close() {
	e.once.Do(func() { close(e.closed) })
}

func (e *Engine) acquire() bool {
	select {
	case <-e.closed:
		return false
	default:
	}
	select {
	case e.sem <- struct{}{}:
		return true
	case <-e.closed:
		return false
	}
}

func (e *Engine) release() {
	<-e.sem
}

// siteTask wraps the outcome of one site's scrape.
type siteTask struct {
	match SiteMatch
}

// RunItemCollect fans out one scrape per entry of sitePlan, waits for all
// to complete, and returns them sorted ascending by site id (collect mode
// ordering).
func (e *Engine) RunItemCollect(ctx context.Context, query string, sitePlan []string, overrides SiteOverrides, ttl int64) []SiteMatch {
	matches := e.runItemSites(ctx, query, sitePlan, overrides, ttl, nil)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Site < matches[j].Site
	})
	return matches
}

// RunItemStream fans out one scrape per entry of sitePlan, invoking onMatch
// as each completes (arrival order, unsorted), and returns the full set
// once every site has reported in.
func (e *Engine) RunItemStream(ctx context.Context, query string, sitePlan []string, overrides SiteOverrides, ttl int64, onMatch func(SiteMatch)) []SiteMatch {
	return e.runItemSites(ctx, query, sitePlan, overrides, ttl, onMatch)
}

func (e *Engine) runItemSites(ctx context.Context, query string, sitePlan []string, overrides SiteOverrides, ttl int64, onMatch func(SiteMatch)) []SiteMatch {
	if len(sitePlan) == 0 {
		return nil
	}

	results := make(chan SiteMatch, len(sitePlan))
	var wg sync.WaitGroup

	for _, site := range sitePlan {
		wg.Add(1)
		go func(site string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results <- SiteMatch{
						Site:     site,
						Currency: "USD",
						Status:   StatusError,
						Message:  strPtr("panic"),
					}
				}
			}()

			if !e.acquire() {
				results <- SiteMatch{
					Site:    site,
					Currency: "USD",
					Status:  StatusError,
					Message: strPtr("semaphore_closed"),
				}
				return
			}
			defer e.release()

			results <- scrape(ctx, e.cache, site, query, ttl, overrides)
		}(site)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	matches := make([]SiteMatch, 0, len(sitePlan))
	for m := range results {
		if onMatch != nil {
			onMatch(m)
		}
		matches = append(matches, m)
	}
	return matches
}
