// Package queue defines message payloads exchanged over the message broker.
package queue

// CatalogSyncedEvent is published after seating maps are attached and the
// section catalogs reconciled. Single-venue attaches carry the venue
// identity; batch runs carry the number of venues updated instead.
// Downstream consumers get the sync outcome without querying the primary
// database.
type CatalogSyncedEvent struct {
	RunID           string   `json:"run_id"`
	VenueID         uint64   `json:"venue_id,omitempty"`
	VenueName       string   `json:"venue_name,omitempty"`
	VenuesUpdated   int      `json:"venues_updated,omitempty"`
	SectionsCreated int      `json:"sections_created"`
	SectionsLinked  int      `json:"sections_linked"`
	Warnings        []string `json:"warnings,omitempty"`
	SyncedAt        string   `json:"synced_at"`
}

// InventoryGeneratedEvent is published when ticket inventory has been
// synthesized (or regenerated after a discount) for an event.
type InventoryGeneratedEvent struct {
	EventID      uint64  `json:"event_id"`
	EventName    string  `json:"event_name"`
	VenueID      uint64  `json:"venue_id"`
	SectionCount int     `json:"section_count"`
	ListingCount int     `json:"listing_count"`
	PriceFrom    float64 `json:"price_from"`
	PriceTo      float64 `json:"price_to"`
	DiscountPct  float64 `json:"discount_pct,omitempty"`
	GeneratedAt  string  `json:"generated_at"`
}
