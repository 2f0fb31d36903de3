package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/catalog"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/namematch"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/svgmap"
)

type fakeVenues struct {
	mu     sync.Mutex
	venues map[uint64]*model.Venue
}

func (f *fakeVenues) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.venues[id]
	if !ok {
		return nil, errors.New("venue not found")
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVenues) SetMapDocument(ctx context.Context, id uint64, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.venues[id]
	if !ok {
		return errors.New("venue not found")
	}
	v.MapDocument = sql.NullString{String: content, Valid: true}
	return nil
}

type fakeSections struct {
	mu       sync.Mutex
	sections []model.Section
	nextID   uint64
}

func (f *fakeSections) ListByVenue(ctx context.Context, venueID uint64) ([]model.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Section
	for _, s := range f.sections {
		if s.VenueID == venueID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSections) CreateBulk(ctx context.Context, sections []model.Section) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range sections {
		f.nextID++
		s.ID = f.nextID
		f.sections = append(f.sections, s)
	}
	return nil
}

func (f *fakeSections) SetSVGPath(ctx context.Context, sectionID uint64, svgPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.sections {
		if f.sections[i].ID == sectionID {
			f.sections[i].SVGPath = sql.NullString{String: svgPath, Valid: true}
		}
	}
	return nil
}

func newOrchestrator() (*Orchestrator, *fakeVenues, *fakeSections) {
	venues := &fakeVenues{venues: map[uint64]*model.Venue{
		1: {ID: 1, Name: "Example Arena", City: "Springfield"},
		2: {ID: 2, Name: "Riverside Amphitheater", City: "Riverton"},
	}}
	sections := &fakeSections{}
	o := &Orchestrator{
		Extractor: &svgmap.EnrichedExtractor{Base: svgmap.New(svgmap.DefaultBands())},
		Venues:    venues,
		Catalog:   &catalog.Synchronizer{Sections: sections},
	}
	return o, venues, sections
}

func pool() []namematch.Entry {
	return []namematch.Entry{
		{ID: 1, Name: "Example Arena"},
		{ID: 2, Name: "Riverside Amphitheater"},
	}
}

const exampleDoc = "Venue: Example Arena\n<svg>" +
	`<g id="101-group"/><g id="102-group"/><g id="floor-a-group"/></svg>`

func TestIngestEndToEnd(t *testing.T) {
	o, venues, sections := newOrchestrator()
	res := o.IngestBatch(context.Background(), []Item{
		{Filename: "upload.svg", Content: exampleDoc},
	}, pool(), Options{})

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	if res.VenuesUpdated != 1 || res.SectionsCreated != 3 {
		t.Fatalf("got venues=%d created=%d, want 1/3", res.VenuesUpdated, res.SectionsCreated)
	}
	v, _ := venues.GetByID(context.Background(), 1)
	if !v.HasMap() {
		t.Fatal("map not attached to resolved venue")
	}
	wantTypes := []string{model.SectionLower, model.SectionLower, model.SectionFloor}
	if len(sections.sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections.sections))
	}
	for i, s := range sections.sections {
		if s.VenueID != 1 || s.SectionType != wantTypes[i] {
			t.Errorf("section %d: got venue=%d type=%s, want 1/%s", i, s.VenueID, s.SectionType, wantTypes[i])
		}
	}
}

func TestIngestFallsBackToFilename(t *testing.T) {
	o, _, _ := newOrchestrator()
	res := o.IngestBatch(context.Background(), []Item{
		{Filename: "riverside-amphitheater.svg", Content: `<svg><g id="201-group"/></svg>`},
	}, pool(), Options{})
	if res.VenuesUpdated != 1 || res.Unmatched != 0 {
		t.Fatalf("filename fallback failed: %+v", res)
	}
}

func TestIngestUnmatchedHeldNotDiscarded(t *testing.T) {
	o, _, sections := newOrchestrator()
	res := o.IngestBatch(context.Background(), []Item{
		{Filename: "unknown-place.svg", Content: `<svg><g id="101-group"/></svg>`},
	}, pool(), Options{})
	if res.Unmatched != 1 {
		t.Fatalf("expected 1 unmatched, got %+v", res)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("unmatched document must be reported: %+v", res.Errors)
	}
	if len(sections.sections) != 0 {
		t.Fatal("unmatched document must not touch the catalog")
	}
}

func TestIngestBadDocumentDoesNotAbortBatch(t *testing.T) {
	o, _, _ := newOrchestrator()
	res := o.IngestBatch(context.Background(), []Item{
		{Filename: "broken.txt", Content: "no markup at all"},
		{Filename: "example-arena.svg", Content: `<svg><g id="101-group"/></svg>`},
	}, pool(), Options{})
	if res.VenuesUpdated != 1 {
		t.Fatalf("good document must still process: %+v", res)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Message, "no markup") {
		t.Fatalf("bad document must be reported: %+v", res.Errors)
	}
}

func TestIngestSkipsVenueWithMapUnlessForced(t *testing.T) {
	o, venues, _ := newOrchestrator()
	venues.venues[1].MapDocument = sql.NullString{String: "<svg/>", Valid: true}

	res := o.IngestBatch(context.Background(), []Item{
		{Filename: "example-arena.svg", Content: exampleDoc},
	}, pool(), Options{})
	if res.Skipped != 1 || res.VenuesUpdated != 0 {
		t.Fatalf("expected skip without force: %+v", res)
	}

	res = o.IngestBatch(context.Background(), []Item{
		{Filename: "example-arena.svg", Content: exampleDoc},
	}, pool(), Options{Force: true})
	if res.VenuesUpdated != 1 {
		t.Fatalf("force must re-attach: %+v", res)
	}
	v, _ := venues.GetByID(context.Background(), 1)
	if v.MapDocument.String != exampleDoc {
		t.Fatal("forced attach did not replace the map")
	}
}

func TestIngestWorkerFanOut(t *testing.T) {
	o, _, sections := newOrchestrator()
	items := []Item{
		{Filename: "example-arena.svg", Content: `<svg><g id="101-group"/></svg>`},
		{Filename: "riverside-amphitheater.svg", Content: `<svg><g id="301-group"/></svg>`},
	}
	res := o.IngestBatch(context.Background(), items, pool(), Options{Workers: 4})
	if res.VenuesUpdated != 2 || res.SectionsCreated != 2 {
		t.Fatalf("fan-out run wrong: %+v", res)
	}
	if len(sections.sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections.sections))
	}
}

func TestIngestStopsOnCancelledContext(t *testing.T) {
	o, venues, _ := newOrchestrator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := o.IngestBatch(ctx, []Item{
		{Filename: "upload.svg", Content: exampleDoc},
		{Filename: "riverside-amphitheater.svg", Content: `<svg><g id="301-group"/></svg>`},
	}, pool(), Options{})

	if res.VenuesUpdated != 0 || res.SectionsCreated != 0 {
		t.Fatalf("cancelled batch still did work: %+v", res)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected an error per item, got %d", len(res.Errors))
	}
	for _, e := range res.Errors {
		if !strings.Contains(e.Message, context.Canceled.Error()) {
			t.Errorf("item %s: error %q does not report cancellation", e.Filename, e.Message)
		}
	}
	v, _ := venues.GetByID(context.Background(), 1)
	if v.HasMap() {
		t.Fatal("map attached despite cancelled context")
	}
}

func TestIngestErrorListBounded(t *testing.T) {
	o, _, _ := newOrchestrator()
	var items []Item
	for i := 0; i < maxReportedErrors+5; i++ {
		items = append(items, Item{Filename: "bad.txt", Content: "nothing"})
	}
	res := o.IngestBatch(context.Background(), items, pool(), Options{})
	if len(res.Errors) != maxReportedErrors {
		t.Fatalf("error list not bounded: %d", len(res.Errors))
	}
	if res.Suppressed != 5 {
		t.Fatalf("suppressed count = %d, want 5", res.Suppressed)
	}
}

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

func TestReadArchive(t *testing.T) {
	data := buildArchive(t, map[string]string{
		"maps/example-arena.svg": exampleDoc,
		"maps/notes.pdf":         "ignored",
		"events.csv": "venue,event,date,price_from,price_to\n" +
			"Example Arena,Spring Concert,2026-05-01,50,150\n" +
			"Nowhere Hall,Ghost Show,not-a-date,10,20\n",
	})
	items, rows, errs, err := ReadArchive(data)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if len(items) != 1 || items[0].Filename != "example-arena.svg" {
		t.Fatalf("items = %+v", items)
	}
	if len(rows) != 1 || rows[0].EventName != "Spring Concert" || rows[0].PriceTo != 150 {
		t.Fatalf("manifest rows = %+v", rows)
	}
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "bad date") {
		t.Fatalf("manifest errors = %+v", errs)
	}
}

type fakeEventCreator struct {
	events []model.Event
}

func (f *fakeEventCreator) Create(ctx context.Context, ev *model.Event) error {
	ev.ID = uint64(len(f.events) + 1)
	f.events = append(f.events, *ev)
	return nil
}

func TestApplyManifest(t *testing.T) {
	rows := []EventRow{
		{VenueName: "Example Arena", EventName: "Spring Concert", PriceFrom: 50, PriceTo: 150},
		{VenueName: "Unknown Hall", EventName: "Ghost Show", PriceFrom: 10, PriceTo: 20},
	}
	creator := &fakeEventCreator{}
	created, errs := ApplyManifest(context.Background(), creator, rows, pool())
	if created != 1 || len(creator.events) != 1 {
		t.Fatalf("created = %d, events = %+v", created, creator.events)
	}
	if creator.events[0].VenueID != 1 {
		t.Fatalf("event bound to wrong venue: %+v", creator.events[0])
	}
	if len(errs) != 1 {
		t.Fatalf("unresolvable row must be reported: %+v", errs)
	}
}
