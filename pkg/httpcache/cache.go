// Package httpcache keeps successful upstream HTTP responses in memory for a
// short while so repeated lookups do not hit the network.
package httpcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/maypok86/otter/v2"
)

// Entry is a cached response body.
type Entry struct {
	ExpiresAt time.Time
	ETag      string
	Data      []byte
}

// OtterCache is an in-memory response cache keyed by request URL.
type OtterCache struct {
	cache  *otter.Cache[string, Entry]
	logger *slog.Logger
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewOtterCache creates a cache whose entries live for ttl.
func NewOtterCache(ttl time.Duration, logger *slog.Logger) *OtterCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &OtterCache{
		cache: otter.Must(&otter.Options[string, Entry]{
			MaximumSize:      10_000,
			InitialCapacity:  256,
			ExpiryCalculator: otter.ExpiryWriting[string, Entry](ttl),
		}),
		ttl:    ttl,
		logger: logger,
	}
}

func key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

// Get returns the cached body and ETag for url.
func (c *OtterCache) Get(url string) ([]byte, string, bool) {
	k := key(url)
	entry, found := c.cache.GetIfPresent(k)
	if !found {
		c.misses.Add(1)
		c.logger.Debug("cache miss", "url", url)
		return nil, "", false
	}
	if time.Now().After(entry.ExpiresAt) {
		c.misses.Add(1)
		c.logger.Debug("cache miss", "url", url, "reason", "expired", "expired_at", entry.ExpiresAt)
		c.cache.Invalidate(k)
		return nil, "", false
	}
	c.hits.Add(1)
	return entry.Data, entry.ETag, true
}

// Set stores a response body for url.
func (c *OtterCache) Set(url string, data []byte, etag string) {
	entry := Entry{
		Data:      data,
		ExpiresAt: time.Now().Add(c.ttl),
		ETag:      etag,
	}
	c.cache.Set(key(url), entry)
	c.logger.Debug("cache set", "url", url, "expires_at", entry.ExpiresAt, "size", len(data))
}

// Stats reports entry count and hit counters.
func (c *OtterCache) Stats() map[string]int64 {
	return map[string]int64{
		"size":   int64(c.cache.EstimatedSize()),
		"hits":   c.hits.Load(),
		"misses": c.misses.Load(),
	}
}

// Close drops all entries.
func (c *OtterCache) Close() error {
	c.cache.InvalidateAll()
	return nil
}

// HTTPClient is the subset of *http.Client the cache wraps.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CachedHTTPClient serves GET requests from the cache when it can.
type CachedHTTPClient struct {
	cache      *OtterCache
	httpClient HTTPClient
	logger     *slog.Logger
}

// NewCachedHTTPClient wraps httpClient. A nil cache disables caching.
func NewCachedHTTPClient(cache *OtterCache, httpClient HTTPClient, logger *slog.Logger) *CachedHTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedHTTPClient{
		cache:      cache,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Do performs req, answering GETs from the cache and caching 200 responses.
// Cached responses carry an X-From-Cache header.
func (c *CachedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if c.cache == nil || req.Method != http.MethodGet {
		return c.httpClient.Do(req)
	}

	url := req.URL.String()
	if data, etag, found := c.cache.Get(url); found {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Body:       io.NopCloser(bytes.NewReader(data)),
			Header:     make(http.Header),
			Request:    req,
		}
		resp.Header.Set("X-From-Cache", "true")
		if etag != "" {
			resp.Header.Set("ETag", etag)
		}
		return resp, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	if closeErr := resp.Body.Close(); closeErr != nil {
		c.logger.Debug("failed to close response body", "error", closeErr)
	}
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	c.cache.Set(url, body, resp.Header.Get("ETag"))
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
