package inventory

import (
	"context"
	"fmt"
	"math"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// Store interfaces cover the slice of the record store the service needs;
// the repository package provides the MySQL implementations.

type EventStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	UpdatePriceEnvelope(ctx context.Context, id uint64, from, to float64) error
}

type SectionSource interface {
	ListByVenue(ctx context.Context, venueID uint64) ([]model.Section, error)
}

type EventSectionStore interface {
	ListByEvent(ctx context.Context, eventID uint64) ([]model.EventSection, error)
	Create(ctx context.Context, es *model.EventSection) error
}

type ListingStore interface {
	CreateBulk(ctx context.Context, listings []model.TicketListing) error
	DeleteByEventSections(ctx context.Context, eventSectionIDs []uint64) error
}

// Service wires the engine to the record store and exposes the externally
// callable synthesis operations.
type Service struct {
	Events        EventStore
	Sections      SectionSource
	EventSections EventSectionStore
	Listings      ListingStore
	Engine        *Engine
}

// Result reports what one synthesis run produced.
type Result struct {
	EventSections int
	Listings      int
	PriceFrom     float64
	PriceTo       float64
}

// Generate synthesizes event sections (where missing) and a fresh batch of
// listings for the event, using the event's own price envelope. Event
// sections already present are reused, preserving the one-per-(event,
// section) invariant.
func (s *Service) Generate(ctx context.Context, eventID uint64, ticketsPerSection int) (*Result, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	env := PriceEnvelope{From: ev.PriceFrom, To: ev.PriceTo}
	if !env.valid() {
		return nil, ErrNoPriceEnvelope
	}
	return s.generate(ctx, ev, env, ticketsPerSection)
}

// ApplyDiscountAndRegenerate rescales the event's price envelope by
// (100-discountPercent)/100 with guardrails (the source minimum is floored
// at $40 and the source maximum raised to at least twice the minimum before
// discounting), optionally clears prior listings, regenerates, and writes
// the discounted envelope back to the event. With clearExisting the
// listing set is replaced rather than accumulated. Each call discounts the
// event's current envelope, so repeated calls compound; the $40 source
// floor bounds how far compounding can drive the minimum.
func (s *Service) ApplyDiscountAndRegenerate(ctx context.Context, eventID uint64, discountPercent float64, ticketsPerSection int, clearExisting bool) (*Result, error) {
	if discountPercent < 0 || discountPercent >= 100 {
		return nil, fmt.Errorf("discount percent %.1f out of range", discountPercent)
	}
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	srcFrom := math.Max(40, ev.PriceFrom)
	srcTo := math.Max(srcFrom*2, ev.PriceTo)
	factor := (100 - discountPercent) / 100
	env := PriceEnvelope{From: Round2(srcFrom * factor), To: Round2(srcTo * factor)}

	if clearExisting {
		existing, err := s.EventSections.ListByEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("list event sections: %w", err)
		}
		ids := make([]uint64, 0, len(existing))
		for _, es := range existing {
			ids = append(ids, es.ID)
		}
		if len(ids) > 0 {
			if err := s.Listings.DeleteByEventSections(ctx, ids); err != nil {
				return nil, fmt.Errorf("clear listings: %w", err)
			}
		}
	}

	res, err := s.generate(ctx, ev, env, ticketsPerSection)
	if err != nil {
		return nil, err
	}
	if err := s.Events.UpdatePriceEnvelope(ctx, eventID, env.From, env.To); err != nil {
		return nil, fmt.Errorf("write back envelope: %w", err)
	}
	res.PriceFrom, res.PriceTo = env.From, env.To
	return res, nil
}

func (s *Service) generate(ctx context.Context, ev *model.Event, env PriceEnvelope, ticketsPerSection int) (*Result, error) {
	sections, err := s.Sections.ListByVenue(ctx, ev.VenueID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	if len(sections) == 0 {
		return nil, ErrNoSectionsFound
	}

	existing, err := s.EventSections.ListByEvent(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("list event sections: %w", err)
	}
	bySection := make(map[uint64]model.EventSection, len(existing))
	for _, es := range existing {
		bySection[es.SectionID] = es
	}

	var missing []model.Section
	for _, sec := range sections {
		if _, ok := bySection[sec.ID]; !ok {
			missing = append(missing, sec)
		}
	}
	created := 0
	if len(missing) > 0 {
		fresh, err := s.Engine.SynthesizeEventSections(ev.ID, missing, env)
		if err != nil {
			return nil, err
		}
		for i := range fresh {
			if err := s.EventSections.Create(ctx, &fresh[i]); err != nil {
				return nil, fmt.Errorf("create event section: %w", err)
			}
			bySection[fresh[i].SectionID] = fresh[i]
			created++
		}
	}

	pairs := make([]SectionInventory, 0, len(sections))
	for _, sec := range sections {
		es, ok := bySection[sec.ID]
		if !ok {
			continue
		}
		pairs = append(pairs, SectionInventory{Section: sec, EventSectionID: es.ID})
	}
	listings := s.Engine.SynthesizeListings(pairs, env, ticketsPerSection)
	if len(listings) > 0 {
		if err := s.Listings.CreateBulk(ctx, listings); err != nil {
			return nil, fmt.Errorf("create listings: %w", err)
		}
	}
	return &Result{
		EventSections: created,
		Listings:      len(listings),
		PriceFrom:     env.From,
		PriceTo:       env.To,
	}, nil
}
