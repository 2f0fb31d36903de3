package model

// MapDocument is the transient form of an uploaded seating-chart document:
// raw text plus free-form header metadata found before the markup block.
// It exists only during ingestion and is never persisted as-is.
type MapDocument struct {
	Filename string
	Content  string
	Metadata map[string]string
}

// SectionCandidate is a seating area provisionally extracted from a map
// document, not yet reconciled into the persistent catalog. RawID is the
// original map element id (including its "-group" suffix) and is what
// becomes a section's svg_path on reconciliation.
type SectionCandidate struct {
	RawID              string
	DisplayName        string
	SectionType        string
	IsGeneralAdmission bool
}
