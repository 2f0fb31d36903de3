package repository

import (
	"context"
	"database/sql"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// EventSectionRepo provides access to the per-event section pricing rows.
// A unique key on (event_id, section_id) enforces one row per pair.
type EventSectionRepo struct {
	db *sql.DB
}

// NewEventSectionRepo constructs an EventSectionRepo with the given DB handle.
func NewEventSectionRepo(db *sql.DB) *EventSectionRepo {
	return &EventSectionRepo{db: db}
}

// Create inserts one event section. On success the row's ID is populated.
func (r *EventSectionRepo) Create(ctx context.Context, es *model.EventSection) error {
	const q = `INSERT INTO event_sections
	           (event_id, section_id, price, service_fee, capacity, available_count)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, es.EventID, es.SectionID, es.Price,
		es.ServiceFee, es.Capacity, es.AvailableCount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	es.ID = uint64(id)
	return nil
}

// ListByEvent retrieves all priced sections of an event.
func (r *EventSectionRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.EventSection, error) {
	const q = `SELECT id, event_id, section_id, price, service_fee, capacity, available_count
	           FROM event_sections
	           WHERE event_id = ?
	           ORDER BY section_id`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.EventSection
	for rows.Next() {
		var es model.EventSection
		if err := rows.Scan(&es.ID, &es.EventID, &es.SectionID, &es.Price,
			&es.ServiceFee, &es.Capacity, &es.AvailableCount); err != nil {
			return nil, err
		}
		result = append(result, es)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
