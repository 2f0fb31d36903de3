// Package catalog reconciles extracted section candidates against a venue's
// persisted section records. Reconciliation is additive and idempotent:
// existing non-generic sections are never deleted, an unchanged map synced
// twice creates and updates nothing, and a would-be duplicate svg_path is
// skipped with a warning rather than overwritten.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/namematch"
)

// SectionStore is the slice of the record store the synchronizer needs.
type SectionStore interface {
	ListByVenue(ctx context.Context, venueID uint64) ([]model.Section, error)
	CreateBulk(ctx context.Context, sections []model.Section) error
	SetSVGPath(ctx context.Context, sectionID uint64, svgPath string) error
}

// genericNames are the recognized placeholder catalogs. A venue whose
// sections all carry these names was seeded without a real map, so an
// incoming map replaces the catalog additively.
var genericNames = map[string]bool{
	"club":       true,
	"floor":      true,
	"lower bowl": true,
	"upper bowl": true,
	"orchestra":  true,
	"mezzanine":  true,
	"balcony":    true,
}

// groupSuffix mirrors the extractor's selectable-region convention; it is
// stripped before name matching.
const groupSuffix = "-group"

// Result reports what one sync run changed.
type Result struct {
	Created  int
	Updated  int
	Warnings []string
}

// Link backfills an existing section's svg_path.
type Link struct {
	SectionID uint64
	SVGPath   string
}

// Plan is the computed reconciliation: sections to create and links to
// apply. Building the plan is pure; applying it is the synchronizer's job.
type Plan struct {
	Create   []model.Section
	Links    []Link
	Warnings []string
}

// BuildPlan reconciles candidates against the venue's existing sections.
//
// When replace is set, or the catalog is empty or entirely generic, every
// candidate whose id is not already in use as an svg_path (case-insensitive)
// becomes a new section. Otherwise the plan only backfills svg_path on
// existing sections that lack one, matching normalized section names against
// candidate ids stripped of the "-group" suffix.
func BuildPlan(venueID uint64, candidates []model.SectionCandidate, existing []model.Section, replace bool) Plan {
	used := map[string]bool{}
	for _, s := range existing {
		if s.Mappable() {
			used[strings.ToLower(s.SVGPath.String)] = true
		}
	}

	var plan Plan
	if replace || allGeneric(existing) {
		sortOrder := len(existing)
		for _, c := range candidates {
			id := strings.ToLower(c.RawID)
			if used[id] {
				continue
			}
			used[id] = true
			plan.Create = append(plan.Create, newSection(venueID, c, sortOrder))
			sortOrder++
		}
		return plan
	}

	for _, s := range existing {
		if s.Mappable() {
			continue
		}
		want := namematch.Normalize(s.Name)
		if want == "" {
			continue
		}
		for _, c := range candidates {
			id := strings.ToLower(c.RawID)
			if namematch.Normalize(strings.TrimSuffix(id, groupSuffix)) != want {
				continue
			}
			if used[id] {
				plan.Warnings = append(plan.Warnings, fmt.Sprintf(
					"section %q: map id %q already linked to another section, skipped", s.Name, id))
				break
			}
			used[id] = true
			plan.Links = append(plan.Links, Link{SectionID: s.ID, SVGPath: id})
			break
		}
	}
	return plan
}

func allGeneric(sections []model.Section) bool {
	for _, s := range sections {
		if !genericNames[namematch.Normalize(s.Name)] {
			return false
		}
	}
	return true
}

func newSection(venueID uint64, c model.SectionCandidate, sortOrder int) model.Section {
	return model.Section{
		VenueID:            venueID,
		Name:               c.DisplayName,
		SectionType:        c.SectionType,
		SVGPath:            nullString(strings.ToLower(c.RawID)),
		Capacity:           defaultCapacity,
		IsGeneralAdmission: c.IsGeneralAdmission,
		SortOrder:          sortOrder,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// defaultCapacity seeds a plausible per-section capacity; the record store
// may later be updated with real numbers.
const defaultCapacity = 100

// genericCatalog is the placeholder section set, in sort order, seeded for
// venues whose map yielded no usable candidates.
var genericCatalog = []struct {
	name        string
	sectionType string
}{
	{"Floor", model.SectionFloor},
	{"Lower Bowl", model.SectionLower},
	{"Club", model.SectionPremium},
	{"Upper Bowl", model.SectionUpper},
}

// GenericSections builds the fallback catalog for a venue. The names are
// all members of the recognized generic set, so a later map upload will
// replace them additively.
func GenericSections(venueID uint64) []model.Section {
	out := make([]model.Section, 0, len(genericCatalog))
	for i, g := range genericCatalog {
		out = append(out, model.Section{
			VenueID:            venueID,
			Name:               g.name,
			SectionType:        g.sectionType,
			Capacity:           defaultCapacity,
			IsGeneralAdmission: g.sectionType == model.SectionFloor,
			SortOrder:          i,
		})
	}
	return out
}

// Synchronizer applies reconciliation plans through the section store.
type Synchronizer struct {
	Sections SectionStore
}

// Sync loads the venue's catalog, builds the plan and applies it. Running
// it twice on identical input yields Created=0, Updated=0 on the second run.
func (s *Synchronizer) Sync(ctx context.Context, venueID uint64, candidates []model.SectionCandidate, replace bool) (Result, error) {
	existing, err := s.Sections.ListByVenue(ctx, venueID)
	if err != nil {
		return Result{}, fmt.Errorf("list sections: %w", err)
	}
	plan := BuildPlan(venueID, candidates, existing, replace)

	if len(plan.Create) > 0 {
		if err := s.Sections.CreateBulk(ctx, plan.Create); err != nil {
			return Result{}, fmt.Errorf("create sections: %w", err)
		}
	}
	res := Result{Created: len(plan.Create), Warnings: plan.Warnings}
	for _, l := range plan.Links {
		if err := s.Sections.SetSVGPath(ctx, l.SectionID, l.SVGPath); err != nil {
			return res, fmt.Errorf("link section %d: %w", l.SectionID, err)
		}
		res.Updated++
	}
	return res, nil
}

// SeedGeneric creates the placeholder catalog for a venue that has no
// sections at all. It is a no-op when any section already exists, so
// repeated calls stay idempotent.
func (s *Synchronizer) SeedGeneric(ctx context.Context, venueID uint64) (Result, error) {
	existing, err := s.Sections.ListByVenue(ctx, venueID)
	if err != nil {
		return Result{}, fmt.Errorf("list sections: %w", err)
	}
	if len(existing) > 0 {
		return Result{}, nil
	}
	secs := GenericSections(venueID)
	if err := s.Sections.CreateBulk(ctx, secs); err != nil {
		return Result{}, fmt.Errorf("seed sections: %w", err)
	}
	return Result{Created: len(secs)}, nil
}
