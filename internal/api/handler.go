package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/priceradar/api/internal/quote"
)

// Handler wires the HTTP surface to the quote package's orchestrator. One
// Handler instance is shared across all requests; the orchestrator's
// Engine owns the single process-wide semaphore used by every call.
type Handler struct {
	orchestrator *quote.Orchestrator
}

// NewHandler builds a Handler around orchestrator.
func NewHandler(orchestrator *quote.Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator}
}

// HealthCheck reports liveness for load balancers and uptime probes.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "priceradar",
	})
}

// Quote handles the synchronous collect-all endpoint: POST /api/quote.
func (h *Handler) Quote(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method_not_allowed"})
		return
	}

	var req quote.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_json",
			"message": err.Error(),
		})
		return
	}

	resp, err := h.runCollect(c, req)
	if err != nil {
		getLogger(c).Error("quote failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "quote_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// runCollect wraps Orchestrator.Collect with a panic guard so a panic on
// the request goroutine surfaces as the quote_failed envelope, not a
// process crash; a panic inside a fan-out task is already turned into an
// error match by the Engine.
func (h *Handler) runCollect(c *gin.Context, req quote.QuoteRequest) (resp quote.QuoteResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	resp = h.orchestrator.Collect(c.Request.Context(), req)
	return resp, nil
}

// QuoteStream handles the incremental server-sent-events endpoint:
// POST /api/quote/stream.
func (h *Handler) QuoteStream(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method_not_allowed"})
		return
	}

	var req quote.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_json",
			"message": err.Error(),
		})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	// events is bounded to approximate the ~64-frame back-pressure window
	// spec.md §9 calls for: a slow consumer blocks the producer goroutine
	// on send rather than dropping frames.
	events := make(chan quote.StreamEvent, 64)

	go func() {
		defer close(events)
		defer func() {
			if r := recover(); r != nil {
				events <- quote.StreamEvent{Type: quote.EventError, Message: fmt.Sprintf("panic: %v", r)}
			}
		}()
		h.orchestrator.Stream(c.Request.Context(), req, func(ev quote.StreamEvent) {
			events <- ev
		})
	}()

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		data, err := json.Marshal(ev)
		if err != nil {
			return true
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		return true
	})
}
