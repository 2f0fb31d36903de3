package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// ListingRepo provides access to generated ticket listings.
type ListingRepo struct {
	db *sql.DB
}

// NewListingRepo constructs a ListingRepo with the given DB handle.
func NewListingRepo(db *sql.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

// CreateBulk inserts generated listings in a single statement.
func (r *ListingRepo) CreateBulk(ctx context.Context, listings []model.TicketListing) error {
	if len(listings) == 0 {
		return nil
	}
	query := `INSERT INTO ticket_listings
	          (event_section_id, price, quantity, row_name, seat_numbers,
	           is_resale, is_lowest_price, has_clear_view, status) VALUES `
	args := make([]interface{}, 0, len(listings)*9)
	for i, l := range listings {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, l.EventSectionID, l.Price, l.Quantity, l.RowName, l.SeatNumbers,
			l.IsResale, l.IsLowestPrice, l.HasClearView, l.Status)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteByEventSections removes all listings of the given event sections,
// used when a discount run clears prior inventory before regenerating.
func (r *ListingRepo) DeleteByEventSections(ctx context.Context, eventSectionIDs []uint64) error {
	if len(eventSectionIDs) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(eventSectionIDs))
	query := `DELETE FROM ticket_listings WHERE event_section_id IN (` +
		placeholders[:len(placeholders)-1] + `)`
	args := make([]interface{}, 0, len(eventSectionIDs))
	for _, id := range eventSectionIDs {
		args = append(args, id)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ListByEvent retrieves an event's listings joined through event_sections,
// ordered by section then price.
func (r *ListingRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.TicketListing, error) {
	const q = `SELECT l.id, l.event_section_id, l.price, l.quantity, l.row_name,
	                  l.seat_numbers, l.is_resale, l.is_lowest_price, l.has_clear_view, l.status
	           FROM ticket_listings l
	           JOIN event_sections es ON es.id = l.event_section_id
	           WHERE es.event_id = ?
	           ORDER BY l.event_section_id, l.price`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.TicketListing
	for rows.Next() {
		var l model.TicketListing
		if err := rows.Scan(&l.ID, &l.EventSectionID, &l.Price, &l.Quantity, &l.RowName,
			&l.SeatNumbers, &l.IsResale, &l.IsLowestPrice, &l.HasClearView, &l.Status); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
