package quote

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Orchestrator ties the Engine and Selector together: it stamps run
// identity and timing metadata and iterates items in declared order,
// starting item n+1 only after item n's matches are fully collected (or,
// in stream mode, fully streamed).
type Orchestrator struct {
	engine *Engine
}

// NewOrchestrator builds an Orchestrator around engine.
func NewOrchestrator(engine *Engine) *Orchestrator {
	return &Orchestrator{engine: engine}
}

func resolveRunID(requested string) string {
	if requested != "" {
		return requested
	}
	return uuid.New().String()
}

func effectiveTTL(opts *QuoteOptions) int64 {
	env := loadCacheEnv()
	if opts != nil && opts.CacheTTL != nil {
		return *opts.CacheTTL
	}
	return env.TTLSeconds
}

// Collect runs req to completion and returns the full synchronous response.
func (o *Orchestrator) Collect(ctx context.Context, req QuoteRequest) QuoteResponse {
	runID := resolveRunID(req.RunID)
	startedAt := time.Now().UTC()
	clockStart := time.Now()
	ttl := effectiveTTL(req.Options)

	items := make([]ItemResult, 0, len(req.Items))
	for _, item := range req.Items {
		matches := o.engine.RunItemCollect(ctx, item.Query, req.SitePlan, req.SiteOverrides, ttl)
		items = append(items, ItemResult{
			Query:   item.Query,
			Matches: matches,
			Best:    selectBest(matches),
		})
	}

	return QuoteResponse{
		RunID:      runID,
		StartedAt:  startedAt.Format(time.RFC3339),
		DurationMs: time.Since(clockStart).Milliseconds(),
		Items:      items,
	}
}

// Stream runs req to completion, invoking emit for each SSE frame in
// contract order: started, then per-item match/item_done pairs in arrival
// order, then done last.
func (o *Orchestrator) Stream(ctx context.Context, req QuoteRequest, emit func(StreamEvent)) {
	runID := resolveRunID(req.RunID)
	startedAt := time.Now().UTC()
	clockStart := time.Now()
	ttl := effectiveTTL(req.Options)

	emit(StreamEvent{
		Type:      EventStarted,
		RunID:     runID,
		StartedAt: startedAt.Format(time.RFC3339),
	})

	for idx, item := range req.Items {
		idx := idx
		matches := o.engine.RunItemStream(ctx, item.Query, req.SitePlan, req.SiteOverrides, ttl, func(m SiteMatch) {
			emit(StreamEvent{
				Type:      EventMatch,
				ItemIndex: intPtr(idx),
				Query:     item.Query,
				Match:     &m,
			})
		})

		emit(StreamEvent{
			Type:      EventItemDone,
			ItemIndex: intPtr(idx),
			Query:     item.Query,
			Best:      selectBest(matches),
		})
	}

	duration := time.Since(clockStart).Milliseconds()
	emit(StreamEvent{
		Type:       EventDone,
		DurationMs: &duration,
	})
}
