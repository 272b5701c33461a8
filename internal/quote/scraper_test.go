package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func disableCache() {
	os.Unsetenv("NEXT_PUBLIC_SUPABASE_URL")
	os.Unsetenv("SUPABASE_SERVICE_ROLE_KEY")
	os.Unsetenv("SUPABASE_SECRET_KEY")
}

func TestScrape_OKWhenPriceFound(t *testing.T) {
	disableCache()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><title>Great Chair</title>$129.99</html>`))
	}))
	defer server.Close()

	overrides := SiteOverrides{"testsite": server.URL + "/?q={q}"}
	cache := NewCacheClient()
	match := scrape(context.Background(), cache, "testsite", "chair", 0, overrides)

	assert.Equal(t, StatusOK, match.Status)
	require.NotNil(t, match.Price)
	assert.InDelta(t, 129.99, *match.Price, 0.001)
	assert.GreaterOrEqual(t, match.LatencyMs, int64(0))
}

func TestScrape_NotFoundWhenNoPriceInBody(t *testing.T) {
	disableCache()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><title>No products found</title></html>`))
	}))
	defer server.Close()

	overrides := SiteOverrides{"testsite": server.URL + "/?q={q}"}
	cache := NewCacheClient()
	match := scrape(context.Background(), cache, "testsite", "chair", 0, overrides)

	assert.Equal(t, StatusNotFound, match.Status)
	assert.Nil(t, match.Price)
}

func TestScrape_BotChallengeOnBothAttemptsReturnsUnsupportedJS(t *testing.T) {
	disableCache()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>Pardon Our Interruption while we verify you are human</html>`))
	}))
	defer server.Close()

	overrides := SiteOverrides{"testsite": server.URL + "/?q={q}"}
	cache := NewCacheClient()
	match := scrape(context.Background(), cache, "testsite", "chair", 0, overrides)

	assert.Equal(t, StatusUnsupportedJS, match.Status)
	require.NotNil(t, match.Message)
	assert.Equal(t, "site requires browser execution or anti-bot challenge", *match.Message)
}

func TestScrape_RetrySucceedsAfter503(t *testing.T) {
	disableCache()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`$899.00`))
	}))
	defer server.Close()

	overrides := SiteOverrides{"testsite": server.URL + "/?q={q}"}
	cache := NewCacheClient()
	match := scrape(context.Background(), cache, "testsite", "chair", 0, overrides)

	assert.Equal(t, StatusOK, match.Status)
	require.NotNil(t, match.Price)
	assert.InDelta(t, 899.00, *match.Price, 0.001)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestScrape_BlockedOnFinalAttempt(t *testing.T) {
	disableCache()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	overrides := SiteOverrides{"testsite": server.URL + "/?q={q}"}
	cache := NewCacheClient()
	match := scrape(context.Background(), cache, "testsite", "chair", 0, overrides)

	assert.Equal(t, StatusBlocked, match.Status)
}

func TestScrape_ConnectionRefusedErrorIsNotMislabeledTimeout(t *testing.T) {
	disableCache()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`$10.00`))
	}))
	closedURL := server.URL
	server.Close()

	overrides := SiteOverrides{"testsite": closedURL + "/?q={q}"}
	cache := NewCacheClient()
	match := scrape(context.Background(), cache, "testsite", "chair", 0, overrides)

	assert.Equal(t, StatusError, match.Status)
	require.NotNil(t, match.Message)
	assert.NotEqual(t, "timeout", *match.Message)
	assert.Contains(t, *match.Message, "connect")
}

func TestScrape_CacheHitReturnsStatusCached(t *testing.T) {
	os.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://example.invalid")
	os.Setenv("SUPABASE_SERVICE_ROLE_KEY", "test-key")
	defer os.Unsetenv("NEXT_PUBLIC_SUPABASE_URL")
	defer os.Unsetenv("SUPABASE_SERVICE_ROLE_KEY")
	cache := NewCacheClient()
	cache.l1.SetDefault(cacheKey("testsite", "chair"), SiteMatch{
		Site:     "testsite",
		Price:    f64Ptr(42.0),
		Currency: "USD",
		URL:      strPtr("https://testsite.example/item"),
		Status:   StatusOK,
	})

	match := scrape(context.Background(), cache, "testsite", "chair", 300, nil)
	assert.Equal(t, StatusCached, match.Status)
	require.NotNil(t, match.Price)
	assert.Equal(t, 42.0, *match.Price)
}
