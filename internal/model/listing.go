package model

import "database/sql"

// Ticket listing status values.
const (
	ListingAvailable = "AVAILABLE"
	ListingReserved  = "RESERVED"
	ListingSold      = "SOLD"
)

// TicketListing is a sellable group of seats within an event section.
// Listings are generated in batches by the inventory engine; IsLowestPrice
// is recomputed per section after generation so that exactly one
// minimum-price listing carries the flag.
type TicketListing struct {
	ID             uint64         // ticket_listings.id
	EventSectionID uint64         // ticket_listings.event_section_id
	Price          float64        // ticket_listings.price
	Quantity       int            // ticket_listings.quantity
	RowName        sql.NullString // ticket_listings.row_name
	SeatNumbers    sql.NullString // ticket_listings.seat_numbers, e.g. "4-7"
	IsResale       bool           // ticket_listings.is_resale
	IsLowestPrice  bool           // ticket_listings.is_lowest_price
	HasClearView   bool           // ticket_listings.has_clear_view
	Status         string         // ticket_listings.status
}
