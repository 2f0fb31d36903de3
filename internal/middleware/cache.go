package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/config"
)

// teeWriter streams the response to the client while keeping a bounded
// copy for the cache. Once size passes limit the copy stops growing and
// the entry is discarded on store.
type teeWriter struct {
	http.ResponseWriter
	status int
	copy   bytes.Buffer
	size   int64
	limit  int64
}

func (w *teeWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.size += int64(len(b))
	if w.limit <= 0 || w.size <= w.limit {
		w.copy.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) overflowed() bool {
	return w.limit > 0 && w.size > w.limit
}

// buildCacheKey hashes the request attributes named by the strategy into
// a fixed-width key under the configured prefix. Venue and listing reads
// vary only by route and query, which is the default strategy.
func buildCacheKey(cfg config.CacheConfig, c echo.Context) string {
	var tail string
	r := c.Request()
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		tail = c.Path()
	case "method_route":
		tail = r.Method + " " + c.Path()
	case "method_route_query":
		tail = r.Method + " " + c.Path() + "?" + r.URL.RawQuery
	default: // route_query
		tail = c.Path() + "?" + r.URL.RawQuery
	}
	sum := sha256.Sum256([]byte(tail))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:16])
}

// Cache entries pack status, headers and body into one value:
// [4 bytes status][4 bytes header length][header JSON][body].

func packEntry(status int, header http.Header, body []byte) ([]byte, error) {
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8, 8+len(hdr)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	out = append(out, hdr...)
	out = append(out, body...)
	return out, nil
}

func unpackEntry(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

func serveCached(c echo.Context, status int, header http.Header, body []byte) error {
	for k, vals := range header {
		if strings.EqualFold(k, "Content-Length") {
			continue
		}
		for _, v := range vals {
			c.Response().Header().Add(k, v)
		}
	}
	c.Response().Header().Set("X-Cache", "HIT")
	c.Response().WriteHeader(status)
	if len(body) > 0 {
		_, _ = c.Response().Write(body)
	}
	return nil
}

// NewRedisCache caches successful responses on the browse surface so
// repeated storefront reads of venues, sections and listings skip MySQL
// for the TTL. Only configured methods participate; non-200 responses,
// oversized bodies and Redis failures fall through uncached.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			key := buildCacheKey(cfg, c)

			if bs, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				if status, hdr, body, ok := unpackEntry(bs); ok {
					return serveCached(c, status, hdr, body)
				}
			}

			tw := &teeWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = tw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if tw.status != http.StatusOK || tw.overflowed() {
				return nil
			}

			hdr := make(http.Header, len(c.Response().Header()))
			for k, vals := range c.Response().Header() {
				hdr[k] = append([]string(nil), vals...)
			}
			if entry, err := packEntry(tw.status, hdr, tw.copy.Bytes()); err == nil {
				// The request context may already be done; storing uses its own.
				sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				_ = rdb.SetEx(sctx, key, entry, ttl).Err()
				cancel()
			}
			return nil
		}
	}
}
