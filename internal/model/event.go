package model

import "time"

// Event is an external record; the core reads only venue_id and the price
// envelope [price_from, price_to], and writes the envelope back when a bulk
// discount is applied.
type Event struct {
	ID        uint64    // events.id
	VenueID   uint64    // events.venue_id
	Name      string    // events.name
	StartsAt  time.Time // events.starts_at
	PriceFrom float64   // events.price_from
	PriceTo   float64   // events.price_to
	CreatedAt time.Time // events.created_at
	UpdatedAt time.Time // events.updated_at
}

// EventSection prices one section for one event. Uniqueness on
// (event_id, section_id) is enforced by the schema.
type EventSection struct {
	ID             uint64  // event_sections.id
	EventID        uint64  // event_sections.event_id
	SectionID      uint64  // event_sections.section_id
	Price          float64 // event_sections.price
	ServiceFee     float64 // event_sections.service_fee
	Capacity       int     // event_sections.capacity
	AvailableCount int     // event_sections.available_count
}
