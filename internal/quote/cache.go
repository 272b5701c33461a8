package quote

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
	supabase "github.com/supabase-community/supabase-go"
)

const cacheTable = "price_cache"

// cacheRow mirrors the price_cache table: key (primary), site, query_hash,
// payload (the serialized SiteMatch), updated_at.
type cacheRow struct {
	Key       string          `json:"key"`
	Site      string          `json:"site"`
	QueryHash string          `json:"query_hash"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt string          `json:"updated_at"`
}

// CacheClient is a cache-aside front end for the Supabase-backed
// price_cache table, with an L1 go-cache layer that shortcuts repeated
// (site, query) lookups within a single process before they reach
// PostgREST. It never performs I/O, L1 included, when ttl == 0.
type CacheClient struct {
	l1 *gocache.Cache
}

// NewCacheClient builds a CacheClient with a short-lived L1: entries expire
// after 5 minutes, swept every 10. The L1 is shared by every run that uses
// this client, so an entry stored during one run can serve later runs until
// it expires.
func NewCacheClient() *CacheClient {
	return &CacheClient{l1: gocache.New(5*time.Minute, 10*time.Minute)}
}

// queryHash returns the lowercase hex SHA-256 of the raw query bytes.
func queryHash(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

func cacheKey(site, query string) string {
	return site + ":" + queryHash(query)
}

// Get returns a cached SiteMatch for (site, query). Returns (nil, false)
// immediately, with no I/O at all, if ttl <= 0 or Supabase credentials are
// absent from the environment. An entry present in the L1 is returned as
// is: its age is not checked against ttl, only the L1's own 5-minute
// expiry applies. On an L1 miss the price_cache row is returned only if it
// is fresh under ttl; any failure along the network/parse chain is
// swallowed the same way — cache misses are never fatal to a scrape.
func (c *CacheClient) Get(site, query string, ttl int64) (*SiteMatch, bool) {
	if ttl <= 0 {
		return nil, false
	}

	env := loadCacheEnv()
	if !env.Configured {
		return nil, false
	}

	key := cacheKey(site, query)

	if cached, ok := c.l1.Get(key); ok {
		if match, ok := cached.(SiteMatch); ok {
			return &match, true
		}
	}

	client, err := supabase.NewClient(env.SupabaseURL, env.ServiceKey, nil)
	if err != nil {
		return nil, false
	}

	data, _, err := client.From(cacheTable).
		Select("payload,updated_at", "", false).
		Eq("key", key).
		Execute()
	if err != nil {
		return nil, false
	}

	var rows []cacheRow
	if err := json.Unmarshal(data, &rows); err != nil || len(rows) == 0 {
		return nil, false
	}

	row := rows[0]
	updatedAt, err := time.Parse(time.RFC3339, row.UpdatedAt)
	if err != nil {
		return nil, false
	}
	if time.Since(updatedAt) > time.Duration(ttl)*time.Second {
		return nil, false
	}

	var match SiteMatch
	if err := json.Unmarshal(row.Payload, &match); err != nil {
		return nil, false
	}

	c.l1.SetDefault(key, match)
	return &match, true
}

// Put upserts match under (site, query), fire-and-forget: any error is
// discarded. It is a no-op, performing no I/O, when CACHE_TTL_SECONDS is
// <= 0 (caching disabled) or Supabase credentials are absent. Callers are
// expected to invoke Put only for status ok or not_found, never for errors
// or bot challenges, per the cache client's contract.
func (c *CacheClient) Put(site, query string, match SiteMatch) {
	env := loadCacheEnv()
	if env.TTLSeconds <= 0 || !env.Configured {
		return
	}

	key := cacheKey(site, query)
	payload, err := json.Marshal(match)
	if err != nil {
		return
	}

	row := cacheRow{
		Key:       key,
		Site:      site,
		QueryHash: queryHash(query),
		Payload:   payload,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	client, err := supabase.NewClient(env.SupabaseURL, env.ServiceKey, nil)
	if err != nil {
		return
	}

	_, _, _ = client.From(cacheTable).Upsert(row, "", "", "").Execute()

	c.l1.SetDefault(key, match)
}
