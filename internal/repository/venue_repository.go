package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// VenueRepo provides access to venue records.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// Create inserts a venue and fills in its assigned ID.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, city, state) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.City, v.State)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// ListAll retrieves every venue ordered by name. The result doubles as the
// matcher pool during ingestion.
func (r *VenueRepo) ListAll(ctx context.Context) ([]model.Venue, error) {
	const q = `SELECT id, name, city, state, map_document, created_at, updated_at
	           FROM venues
	           ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Venue
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.City, &v.State, &v.MapDocument,
			&v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves one venue.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = `SELECT id, name, city, state, map_document, created_at, updated_at
	           FROM venues WHERE id = ?`
	var v model.Venue
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&v.ID, &v.Name, &v.City, &v.State, &v.MapDocument, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// SetMapDocument attaches (or replaces) the raw map markup on a venue.
func (r *VenueRepo) SetMapDocument(ctx context.Context, id uint64, content string) error {
	const q = `UPDATE venues
	           SET map_document = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, content, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVenueNotFound
	}
	return nil
}
