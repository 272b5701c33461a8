package quote

// StreamEvent is one SSE frame's JSON payload for the streaming endpoint.
// Only the fields relevant to Type are populated; the rest are omitted.
type StreamEvent struct {
	Type       string     `json:"type"`
	RunID      string     `json:"run_id,omitempty"`
	StartedAt  string     `json:"started_at,omitempty"`
	ItemIndex  *int       `json:"item_index,omitempty"`
	Query      string     `json:"query,omitempty"`
	Match      *SiteMatch `json:"match,omitempty"`
	Best       *BestMatch `json:"best,omitempty"`
	DurationMs *int64     `json:"duration_ms,omitempty"`
	Message    string     `json:"message,omitempty"`
}

const (
	EventStarted  = "started"
	EventMatch    = "match"
	EventItemDone = "item_done"
	EventDone     = "done"
	EventError    = "error"
)

func intPtr(i int) *int { return &i }
