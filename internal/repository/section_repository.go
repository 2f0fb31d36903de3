package repository

import (
	"context"
	"database/sql"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// SectionRepo provides access to venue sections. It backs both catalog
// synchronization and inventory synthesis.
type SectionRepo struct {
	db *sql.DB
}

// NewSectionRepo constructs a SectionRepo with the given DB handle.
func NewSectionRepo(db *sql.DB) *SectionRepo {
	return &SectionRepo{db: db}
}

// ListByVenue retrieves a venue's sections ordered by sort_order.
func (r *SectionRepo) ListByVenue(ctx context.Context, venueID uint64) ([]model.Section, error) {
	const q = `SELECT id, venue_id, name, section_type, svg_path, capacity,
	                  row_count, seats_per_row, is_general_admission, sort_order
	           FROM sections
	           WHERE venue_id = ?
	           ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Section
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.VenueID, &s.Name, &s.SectionType, &s.SVGPath,
			&s.Capacity, &s.RowCount, &s.SeatsPerRow, &s.IsGeneralAdmission, &s.SortOrder); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateBulk inserts multiple sections in a single statement.
func (r *SectionRepo) CreateBulk(ctx context.Context, sections []model.Section) error {
	if len(sections) == 0 {
		return nil
	}
	query := `INSERT INTO sections
	          (venue_id, name, section_type, svg_path, capacity, row_count,
	           seats_per_row, is_general_admission, sort_order) VALUES `
	args := make([]interface{}, 0, len(sections)*9)
	for i, s := range sections {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, s.VenueID, s.Name, s.SectionType, s.SVGPath, s.Capacity,
			s.RowCount, s.SeatsPerRow, s.IsGeneralAdmission, s.SortOrder)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// SetSVGPath backfills the map link on an existing section. The unique key
// on (venue_id, svg_path) guarantees at most one section per venue owns a
// given map element.
func (r *SectionRepo) SetSVGPath(ctx context.Context, sectionID uint64, svgPath string) error {
	const q = `UPDATE sections SET svg_path = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, svgPath, sectionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSectionNotFound
	}
	return nil
}
