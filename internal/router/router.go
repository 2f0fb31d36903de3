// Package router wires the HTTP surface onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/config"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/handler"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/middleware"
)

// Handlers groups everything the routes need.
type Handlers struct {
	Venues    *handler.VenueHandler
	Ingest    *handler.IngestHandler
	Inventory *handler.InventoryHandler
}

// RegisterRoutes registers the whole API. Browse reads are public and sit
// behind the response cache; mutating routes require a service token and
// are rate limited.
func RegisterRoutes(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Public browse surface, cached.
	browse := e.Group("/v1", rl, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	browse.GET("/venues", h.Venues.List)
	browse.GET("/venues/:id/sections", h.Venues.ListSections)
	browse.GET("/events/:id/listings", h.Inventory.ListListings)

	// Mutating surface, service token required.
	admin := e.Group("/v1", rl, middleware.ServiceAuth(cfg.JWTSecret))
	admin.POST("/venues", h.Venues.Create)
	admin.POST("/venues/:id/map", h.Venues.AttachMap)
	admin.POST("/venues/:id/sections/seed", h.Venues.SeedSections)
	admin.POST("/ingest", h.Ingest.Ingest)
	admin.POST("/events/:id/inventory", h.Inventory.Generate)
	admin.POST("/events/:id/discount", h.Inventory.Discount)
}
