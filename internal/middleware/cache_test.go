package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/config"
)

func TestCacheEntryRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"ok":true}`)

	bs, err := packEntry(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("packEntry: %v", err)
	}
	status, gotHdr, gotBody, ok := unpackEntry(bs)
	if !ok {
		t.Fatal("unpackEntry returned ok=false")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
	if got := gotHdr.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
}

func TestCacheEntryRejectsCorrupt(t *testing.T) {
	if _, _, _, ok := unpackEntry([]byte{0, 0, 0}); ok {
		t.Error("short payload accepted")
	}
	// Header length pointing past the buffer.
	bs, err := packEntry(200, http.Header{}, []byte("x"))
	if err != nil {
		t.Fatalf("packEntry: %v", err)
	}
	bs[7] = 0xFF
	if _, _, _, ok := unpackEntry(bs); ok {
		t.Error("corrupt header length accepted")
	}
}

func TestTeeWriterOverflowSkipsCaching(t *testing.T) {
	w := &teeWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 8}
	if _, err := w.Write([]byte("12345678")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if w.overflowed() {
		t.Fatal("overflowed at exactly the limit")
	}
	if _, err := w.Write([]byte("9")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !w.overflowed() {
		t.Fatal("not overflowed past the limit")
	}
}

func TestCacheKeyDependsOnQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	keyFor := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/venues")
		return buildCacheKey(cfg, c)
	}

	a := keyFor("/v1/venues?page=1")
	b := keyFor("/v1/venues?page=2")
	if a == b {
		t.Error("different queries produced the same key")
	}
	if a != keyFor("/v1/venues?page=1") {
		t.Error("same request produced different keys")
	}
}

func TestBuildRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/ingest", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/ingest")
	c.Set("client_id", "batch-loader")

	cases := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:10.0.0.9"},
		{"client", "rl:client:batch-loader"},
		{"client_route", "rl:client:batch-loader:route:POST /v1/ingest"},
		{"ip_client_route", "rl:ip:10.0.0.9:client:batch-loader:route:POST /v1/ingest"},
	}
	for _, tc := range cases {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tc.strategy}
		if got := buildRateKey(cfg, c); got != tc.want {
			t.Errorf("strategy %s: key = %q, want %q", tc.strategy, got, tc.want)
		}
	}
}

func TestBuildRateKeyAnonymousClient(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/venues", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/venues")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "client"}
	if got := buildRateKey(cfg, c); got != "rl:client:anon" {
		t.Errorf("key = %q, want rl:client:anon", got)
	}
}
