package catalog

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// fakeStore is an in-memory SectionStore.
type fakeStore struct {
	sections []model.Section
	nextID   uint64
}

func (f *fakeStore) ListByVenue(ctx context.Context, venueID uint64) ([]model.Section, error) {
	var out []model.Section
	for _, s := range f.sections {
		if s.VenueID == venueID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateBulk(ctx context.Context, sections []model.Section) error {
	for _, s := range sections {
		f.nextID++
		s.ID = f.nextID
		f.sections = append(f.sections, s)
	}
	return nil
}

func (f *fakeStore) SetSVGPath(ctx context.Context, sectionID uint64, svgPath string) error {
	for i := range f.sections {
		if f.sections[i].ID == sectionID {
			f.sections[i].SVGPath = sql.NullString{String: svgPath, Valid: true}
		}
	}
	return nil
}

func candidates() []model.SectionCandidate {
	return []model.SectionCandidate{
		{RawID: "101-group", DisplayName: "Section 101", SectionType: model.SectionLower},
		{RawID: "102-group", DisplayName: "Section 102", SectionType: model.SectionLower},
		{RawID: "floor-a-group", DisplayName: "Floor A", SectionType: model.SectionFloor, IsGeneralAdmission: true},
	}
}

func TestSyncCreatesIntoEmptyCatalog(t *testing.T) {
	st := &fakeStore{}
	sync := &Synchronizer{Sections: st}
	res, err := sync.Sync(context.Background(), 1, candidates(), false)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if res.Created != 3 || res.Updated != 0 {
		t.Fatalf("got created=%d updated=%d, want 3/0", res.Created, res.Updated)
	}
	for i, s := range st.sections {
		if !s.Mappable() {
			t.Errorf("section %d missing svg_path: %+v", i, s)
		}
		if s.SortOrder != i {
			t.Errorf("section %d sort order = %d", i, s.SortOrder)
		}
	}
}

func TestSyncIdempotent(t *testing.T) {
	st := &fakeStore{}
	sync := &Synchronizer{Sections: st}
	if _, err := sync.Sync(context.Background(), 1, candidates(), false); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	res, err := sync.Sync(context.Background(), 1, candidates(), false)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if res.Created != 0 || res.Updated != 0 {
		t.Fatalf("second run must be a no-op, got created=%d updated=%d", res.Created, res.Updated)
	}
	if len(st.sections) != 3 {
		t.Fatalf("sections duplicated: %d", len(st.sections))
	}
}

func TestSyncReplacesGenericCatalog(t *testing.T) {
	st := &fakeStore{}
	_ = st.CreateBulk(context.Background(), GenericSections(1))
	sync := &Synchronizer{Sections: st}
	res, err := sync.Sync(context.Background(), 1, candidates(), false)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if res.Created != 3 {
		t.Fatalf("expected 3 created over generic catalog, got %d", res.Created)
	}
	// Additive: the generic sections are not deleted.
	if len(st.sections) != 7 {
		t.Fatalf("expected 7 sections total, got %d", len(st.sections))
	}
}

func TestSyncBackfillsSVGPathByName(t *testing.T) {
	st := &fakeStore{}
	_ = st.CreateBulk(context.Background(), []model.Section{
		{VenueID: 1, Name: "Floor A", SectionType: model.SectionFloor, Capacity: 100},
		{VenueID: 1, Name: "Terrace East", SectionType: model.SectionUpper, Capacity: 100},
	})
	sync := &Synchronizer{Sections: st}
	res, err := sync.Sync(context.Background(), 1, candidates(), false)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if res.Created != 0 || res.Updated != 1 {
		t.Fatalf("got created=%d updated=%d, want 0/1", res.Created, res.Updated)
	}
	if !st.sections[0].Mappable() || st.sections[0].SVGPath.String != "floor-a-group" {
		t.Errorf("Floor A not linked: %+v", st.sections[0])
	}
	if st.sections[1].Mappable() {
		t.Errorf("Terrace East should remain unlinked: %+v", st.sections[1])
	}
}

func TestSyncConflictSkippedWithWarning(t *testing.T) {
	existing := []model.Section{
		{ID: 1, VenueID: 1, Name: "Other", SectionType: model.SectionLower,
			SVGPath: sql.NullString{String: "floor-a-group", Valid: true}},
		{ID: 2, VenueID: 1, Name: "Floor A", SectionType: model.SectionFloor},
	}
	plan := BuildPlan(1, candidates(), existing, false)
	if len(plan.Links) != 0 {
		t.Fatalf("conflicting link must be skipped, got %+v", plan.Links)
	}
	if len(plan.Warnings) != 1 || !strings.Contains(plan.Warnings[0], "floor-a-group") {
		t.Fatalf("expected one conflict warning, got %+v", plan.Warnings)
	}
}

func TestSyncReplaceModeSkipsUsedIDsCaseInsensitive(t *testing.T) {
	existing := []model.Section{
		{ID: 1, VenueID: 1, Name: "Section 101", SectionType: model.SectionLower,
			SVGPath: sql.NullString{String: "101-GROUP", Valid: true}},
	}
	plan := BuildPlan(1, candidates(), existing, true)
	if len(plan.Create) != 2 {
		t.Fatalf("expected 2 creations (101 already mapped), got %d", len(plan.Create))
	}
	for _, s := range plan.Create {
		if s.SVGPath.String == "101-group" {
			t.Fatalf("duplicate svg_path planned: %+v", s)
		}
	}
}

func TestSeedGeneric(t *testing.T) {
	st := &fakeStore{}
	sync := &Synchronizer{Sections: st}
	res, err := sync.SeedGeneric(context.Background(), 1)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if res.Created != 4 {
		t.Fatalf("expected 4 generic sections, got %d", res.Created)
	}
	res, err = sync.SeedGeneric(context.Background(), 1)
	if err != nil || res.Created != 0 {
		t.Fatalf("second seed must be a no-op, got %+v err=%v", res, err)
	}
}
