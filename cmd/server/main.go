package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/catalog"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/config"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/database"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/handler"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/ingest"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/inventory"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/queue"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/repository"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/router"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/svgmap"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("ensure schema: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	bands, err := config.LoadBands(cfg.RulesFile)
	if err != nil {
		log.Fatalf("load section rules: %v", err)
	}

	extractor := &svgmap.EnrichedExtractor{
		Base:    svgmap.New(bands),
		Timeout: cfg.OracleTimeout,
	}
	if cfg.OracleURL != "" {
		extractor.Oracle = &svgmap.HTTPOracle{URL: cfg.OracleURL}
	}

	venues := repository.NewVenueRepo(db)
	sections := repository.NewSectionRepo(db)
	events := repository.NewEventRepo(db)
	eventSections := repository.NewEventSectionRepo(db)
	listings := repository.NewListingRepo(db)

	synchronizer := &catalog.Synchronizer{Sections: sections}
	orchestrator := &ingest.Orchestrator{
		Extractor: extractor,
		Venues:    venues,
		Catalog:   synchronizer,
	}
	invService := &inventory.Service{
		Events:        events,
		Sections:      sections,
		EventSections: eventSections,
		Listings:      listings,
		Engine:        inventory.NewEngine(time.Now().UnixNano()),
	}

	h := router.Handlers{
		Venues: &handler.VenueHandler{
			Venues:    venues,
			Sections:  sections,
			Extractor: extractor,
			Catalog:   synchronizer,
		},
		Ingest: &handler.IngestHandler{
			Orchestrator:   orchestrator,
			Venues:         venues,
			Events:         events,
			DefaultWorkers: cfg.IngestWorkers,
		},
		Inventory: &handler.InventoryHandler{
			Inventory: invService,
			Events:    events,
			Listings:  listings,
		},
	}

	e := echo.New()
	router.RegisterRoutes(e, h, cfg, rdb)

	go func() {
		if err := queue.StartIngestionConsumer(); err != nil {
			log.Printf("ingestion consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
