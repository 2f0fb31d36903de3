package model

import (
	"database/sql"
	"time"
)

// Venue represents a physical venue that hosts events. The seating map
// document, when present, is the raw markup uploaded during ingestion;
// sections derived from it live in the sections table and reference the
// venue by id.
type Venue struct {
	ID          uint64         // venues.id
	Name        string         // venues.name
	City        string         // venues.city
	State       sql.NullString // venues.state (optional)
	MapDocument sql.NullString // venues.map_document, raw markup text
	CreatedAt   time.Time      // venues.created_at
	UpdatedAt   time.Time      // venues.updated_at
}

// HasMap reports whether a map document is already attached.
func (v *Venue) HasMap() bool {
	return v.MapDocument.Valid && v.MapDocument.String != ""
}
