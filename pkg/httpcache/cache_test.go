package httpcache

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestCachedHTTPClient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = io.WriteString(w, "payload "+r.URL.RawQuery)
	}))
	defer srv.Close()

	cache := NewOtterCache(time.Minute, nil)
	client := NewCachedHTTPClient(cache, srv.Client(), nil)
	ctx := context.Background()

	get := func(path string) *http.Response {
		t.Helper()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+path, http.NoBody)
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		resp, err := client.Do(ctx, req)
		if err != nil {
			t.Fatalf("Do(%s): %v", path, err)
		}
		return resp
	}

	first := get("/forecast?x=1")
	body, _ := io.ReadAll(first.Body)
	_ = first.Body.Close()
	if string(body) != "payload x=1" || first.Header.Get("X-From-Cache") != "" {
		t.Errorf("first response = %q, cached=%q", body, first.Header.Get("X-From-Cache"))
	}

	second := get("/forecast?x=1")
	body, _ = io.ReadAll(second.Body)
	_ = second.Body.Close()
	if string(body) != "payload x=1" || second.Header.Get("X-From-Cache") != "true" {
		t.Errorf("second response = %q, cached=%q", body, second.Header.Get("X-From-Cache"))
	}
	if second.Header.Get("ETag") != `"v1"` {
		t.Errorf("cached ETag = %q", second.Header.Get("ETag"))
	}
	if calls.Load() != 1 {
		t.Errorf("upstream called %d times, want 1", calls.Load())
	}

	_ = get("/forecast?x=2").Body.Close()
	if calls.Load() != 2 {
		t.Errorf("different query should miss: %d calls", calls.Load())
	}

	for range 2 {
		resp := get("/missing")
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("missing status = %d", resp.StatusCode)
		}
	}
	if calls.Load() != 4 {
		t.Errorf("errors must not be cached: %d calls", calls.Load())
	}

	if s := cache.Stats(); s["hits"] != 1 {
		t.Errorf("Stats = %v, want 1 hit", s)
	}
}

func TestOtterCacheExpiry(t *testing.T) {
	c := NewOtterCache(time.Minute, nil)
	c.Set("http://example/a", []byte("a"), "")
	if data, _, ok := c.Get("http://example/a"); !ok || string(data) != "a" {
		t.Fatalf("Get = %q, %v", data, ok)
	}

	c.cache.Set(key("http://example/b"), Entry{Data: []byte("b"), ExpiresAt: time.Now().Add(-time.Second)})
	if _, _, ok := c.Get("http://example/b"); ok {
		t.Error("expired entry was served")
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, _, ok := c.Get("http://example/a"); ok {
		t.Error("entry survived Close")
	}
}

func TestNilCachePassesThrough(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewCachedHTTPClient(nil, srv.Client(), nil)
	for range 2 {
		req, _ := http.NewRequest(http.MethodGet, srv.URL, http.NoBody)
		resp, err := client.Do(context.Background(), req)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		_ = resp.Body.Close()
	}
	if calls.Load() != 2 {
		t.Errorf("upstream called %d times, want 2", calls.Load())
	}
}
