package model

import "database/sql"

// Section type constants. These are coarse pricing/placement categories,
// not exact venue levels.
const (
	SectionFloor    = "FLOOR"
	SectionLower    = "LOWER"
	SectionUpper    = "UPPER"
	SectionPremium  = "PREMIUM"
	SectionStandard = "STANDARD"
)

// Section is a persisted seating section of a venue.
//
// SVGPath, when set, is the id of the map element the section was derived
// from; its presence makes the section "mappable" (visually selectable on
// the seating chart). At most one section per venue may carry a given
// non-null svg_path.
type Section struct {
	ID                 uint64         // sections.id
	VenueID            uint64         // sections.venue_id
	Name               string         // sections.name
	SectionType        string         // sections.section_type
	SVGPath            sql.NullString // sections.svg_path
	Capacity           int            // sections.capacity
	RowCount           sql.NullInt32  // sections.row_count
	SeatsPerRow        sql.NullInt32  // sections.seats_per_row
	IsGeneralAdmission bool           // sections.is_general_admission
	SortOrder          int            // sections.sort_order
}

// Mappable reports whether the section is linked to a map element.
func (s *Section) Mappable() bool {
	return s.SVGPath.Valid && s.SVGPath.String != ""
}
