package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/inventory"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/queue"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/repository"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/service"
)

// InventoryHandler exposes inventory synthesis, discount application and
// listing browsing for events.
type InventoryHandler struct {
	Inventory *inventory.Service
	Events    *repository.EventRepo
	Listings  *repository.ListingRepo
}

type generateReq struct {
	TicketsPerSection int `json:"tickets_per_section"`
}

type discountReq struct {
	Percent           float64 `json:"percent"`
	TicketsPerSection int     `json:"tickets_per_section"`
	ClearExisting     bool    `json:"clear_existing"`
}

type inventoryResp struct {
	EventID       uint64  `json:"event_id"`
	EventSections int     `json:"event_sections"`
	Listings      int     `json:"listings"`
	PriceFrom     float64 `json:"price_from"`
	PriceTo       float64 `json:"price_to"`
}

type listingView struct {
	ID             uint64  `json:"id"`
	EventSectionID uint64  `json:"event_section_id"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	RowName        *string `json:"row_name,omitempty"`
	SeatNumbers    *string `json:"seat_numbers,omitempty"`
	IsResale       bool    `json:"is_resale"`
	IsLowestPrice  bool    `json:"is_lowest_price"`
	HasClearView   bool    `json:"has_clear_view"`
	Status         string  `json:"status"`
}

func toListingView(l model.TicketListing) listingView {
	view := listingView{
		ID:             l.ID,
		EventSectionID: l.EventSectionID,
		Price:          l.Price,
		Quantity:       l.Quantity,
		IsResale:       l.IsResale,
		IsLowestPrice:  l.IsLowestPrice,
		HasClearView:   l.HasClearView,
		Status:         l.Status,
	}
	if l.RowName.Valid {
		view.RowName = &l.RowName.String
	}
	if l.SeatNumbers.Valid {
		view.SeatNumbers = &l.SeatNumbers.String
	}
	return view
}

// Generate synthesizes event sections and ticket listings for an event
// from its price envelope.
func (h *InventoryHandler) Generate(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req generateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	res, err := h.Inventory.Generate(ctx, eventID, req.TicketsPerSection)
	if err != nil {
		return inventoryError(c, err)
	}

	h.publishGenerated(ctx, eventID, res, 0)
	return c.JSON(http.StatusOK, inventoryResp{
		EventID:       eventID,
		EventSections: res.EventSections,
		Listings:      res.Listings,
		PriceFrom:     res.PriceFrom,
		PriceTo:       res.PriceTo,
	})
}

// Discount rescales the event's price envelope, optionally clears prior
// listings, and regenerates inventory at the discounted prices.
func (h *InventoryHandler) Discount(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req discountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Percent < 0 || req.Percent >= 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "percent must be in [0, 100)"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	res, err := h.Inventory.ApplyDiscountAndRegenerate(ctx, eventID, req.Percent, req.TicketsPerSection, req.ClearExisting)
	if err != nil {
		return inventoryError(c, err)
	}

	h.publishGenerated(ctx, eventID, res, req.Percent)
	return c.JSON(http.StatusOK, inventoryResp{
		EventID:       eventID,
		EventSections: res.EventSections,
		Listings:      res.Listings,
		PriceFrom:     res.PriceFrom,
		PriceTo:       res.PriceTo,
	})
}

// ListListings returns the synthesized listings of an event.
func (h *InventoryHandler) ListListings(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	listings, err := h.Listings.ListByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list listings failed"})
	}
	views := make([]listingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, toListingView(l))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *InventoryHandler) publishGenerated(ctx context.Context, eventID uint64, res *inventory.Result, discountPct float64) {
	ev, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		return
	}
	msg := queue.InventoryGeneratedEvent{
		EventID:      eventID,
		EventName:    ev.Name,
		VenueID:      ev.VenueID,
		SectionCount: res.EventSections,
		ListingCount: res.Listings,
		PriceFrom:    res.PriceFrom,
		PriceTo:      res.PriceTo,
		DiscountPct:  discountPct,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		_ = service.PublishInventoryGenerated(pctx, msg)
	}()
}

func inventoryError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, inventory.ErrNoSectionsFound):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "event's venue has no sections"})
	case errors.Is(err, inventory.ErrNoPriceEnvelope):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "event has no price envelope"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "inventory operation failed"})
	}
}
