// Package handler exposes the HTTP surface: venue and listing browsing,
// map ingestion and inventory synthesis.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/catalog"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/queue"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/repository"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/service"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/svgmap"
)

// VenueHandler bundles the dependencies for venue browsing and per-venue
// map operations.
type VenueHandler struct {
	Venues    *repository.VenueRepo
	Sections  *repository.SectionRepo
	Extractor svgmap.DocumentExtractor
	Catalog   *catalog.Synchronizer
}

// ----- DTOs -----

type createVenueReq struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

type venueView struct {
	ID     uint64  `json:"id"`
	Name   string  `json:"name"`
	City   string  `json:"city"`
	State  *string `json:"state,omitempty"`
	HasMap bool    `json:"has_map"`
}

type sectionView struct {
	ID                 uint64  `json:"id"`
	Name               string  `json:"name"`
	SectionType        string  `json:"section_type"`
	SVGPath            *string `json:"svg_path,omitempty"`
	Capacity           int     `json:"capacity"`
	IsGeneralAdmission bool    `json:"is_general_admission"`
	SortOrder          int     `json:"sort_order"`
}

type attachMapReq struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Replace  bool   `json:"replace"`
}

func toVenueView(v model.Venue) venueView {
	view := venueView{ID: v.ID, Name: v.Name, City: v.City, HasMap: v.HasMap()}
	if v.State.Valid {
		view.State = &v.State.String
	}
	return view
}

func toSectionView(s model.Section) sectionView {
	view := sectionView{
		ID:                 s.ID,
		Name:               s.Name,
		SectionType:        s.SectionType,
		Capacity:           s.Capacity,
		IsGeneralAdmission: s.IsGeneralAdmission,
		SortOrder:          s.SortOrder,
	}
	if s.SVGPath.Valid {
		view.SVGPath = &s.SVGPath.String
	}
	return view
}

// Create registers a new venue. Venues form the pool that ingested map
// documents are matched against, so they must exist before ingestion.
func (h *VenueHandler) Create(c echo.Context) error {
	var req createVenueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/city required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v := model.Venue{Name: req.Name, City: req.City}
	if s := strings.TrimSpace(req.State); s != "" {
		v.State.Valid = true
		v.State.String = s
	}
	if err := h.Venues.Create(ctx, &v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create venue failed"})
	}
	return c.JSON(http.StatusCreated, toVenueView(v))
}

// List returns every venue.
func (h *VenueHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	venues, err := h.Venues.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list venues failed"})
	}
	views := make([]venueView, 0, len(venues))
	for _, v := range venues {
		views = append(views, toVenueView(v))
	}
	return c.JSON(http.StatusOK, views)
}

// ListSections returns the section catalog of one venue.
func (h *VenueHandler) ListSections(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Venues.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load venue failed"})
	}

	sections, err := h.Sections.ListByVenue(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list sections failed"})
	}
	views := make([]sectionView, 0, len(sections))
	for _, s := range sections {
		views = append(views, toSectionView(s))
	}
	return c.JSON(http.StatusOK, views)
}

// AttachMap uploads one map document straight to a known venue, bypassing
// the name matcher. A venue that already has a map is left untouched
// unless ?force=true. The section catalog is synchronized from whatever
// the document yields.
func (h *VenueHandler) AttachMap(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	var req attachMapReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}
	force := c.QueryParam("force") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	venue, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load venue failed"})
	}
	if venue.HasMap() && !force {
		return c.JSON(http.StatusConflict, echo.Map{"error": "venue already has a map; use force=true to replace"})
	}

	doc := model.MapDocument{Filename: req.Filename, Content: req.Content}
	extracted, err := h.Extractor.Extract(ctx, doc)
	if err != nil {
		if errors.Is(err, svgmap.ErrNoMarkupFound) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no map markup found in document"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "extract failed"})
	}

	if err := h.Venues.SetMapDocument(ctx, id, req.Content); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "attach map failed"})
	}
	syncRes, err := h.Catalog.Sync(ctx, id, extracted.Candidates, req.Replace)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog sync failed"})
	}

	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		_ = service.PublishCatalogSynced(pctx, queue.CatalogSyncedEvent{
			VenueID:         id,
			VenueName:       venue.Name,
			SectionsCreated: syncRes.Created,
			SectionsLinked:  syncRes.Updated,
			Warnings:        syncRes.Warnings,
			SyncedAt:        time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"venue_id":         id,
		"candidates":       len(extracted.Candidates),
		"sections_created": syncRes.Created,
		"sections_linked":  syncRes.Updated,
		"warnings":         syncRes.Warnings,
	})
}

// SeedSections creates the generic placeholder catalog for a venue whose
// map yielded no usable sections. No-op when the venue already has any.
func (h *VenueHandler) SeedSections(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Venues.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load venue failed"})
	}

	res, err := h.Catalog.SeedGeneric(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seed sections failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sections_created": res.Created})
}
