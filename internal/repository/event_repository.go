package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// EventRepo provides access to event records. The core reads the venue
// reference and the price envelope, and writes the envelope back after a
// bulk discount.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// Create inserts an event. On success the event's ID is populated.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events (venue_id, name, starts_at, price_from, price_to)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, ev.VenueID, ev.Name, ev.StartsAt, ev.PriceFrom, ev.PriceTo)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	return nil
}

// GetByID retrieves one event.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT id, venue_id, name, starts_at, price_from, price_to, created_at, updated_at
	           FROM events WHERE id = ?`
	var ev model.Event
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&ev.ID, &ev.VenueID, &ev.Name, &ev.StartsAt, &ev.PriceFrom, &ev.PriceTo,
			&ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// UpdatePriceEnvelope writes a new [price_from, price_to] range, used when
// a bulk discount rescales the event's pricing.
func (r *EventRepo) UpdatePriceEnvelope(ctx context.Context, id uint64, from, to float64) error {
	const q = `UPDATE events
	           SET price_from = ?, price_to = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, from, to, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}
	return nil
}
