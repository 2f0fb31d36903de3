package inventory

import (
	"database/sql"
	"math"
	"sync"
	"testing"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

func section(id uint64, name, sectionType, svgPath string) model.Section {
	return model.Section{
		ID:          id,
		VenueID:     1,
		Name:        name,
		SectionType: sectionType,
		SVGPath:     sql.NullString{String: svgPath, Valid: svgPath != ""},
		Capacity:    100,
	}
}

func TestTierMultipliers(t *testing.T) {
	cases := []struct {
		sec  model.Section
		want float64
	}{
		{section(1, "Floor A", model.SectionFloor, "floor-a-group"), 2.5},
		{section(2, "Pit", model.SectionFloor, ""), 2.5},
		{section(3, "VIP Suite", model.SectionPremium, ""), 3.0},
		{section(4, "Club East", model.SectionPremium, ""), 2.0},
		{section(5, "Section 101", model.SectionLower, "101-group"), 1.8},
		{section(6, "Section 305", model.SectionUpper, ""), 0.8},
		{section(7, "Terrace", model.SectionStandard, ""), 1.0},
	}
	for _, c := range cases {
		if got := TierMultiplier(c.sec); got != c.want {
			t.Errorf("TierMultiplier(%s) = %v, want %v", c.sec.Name, got, c.want)
		}
	}
}

func TestSynthesizeEventSectionPrices(t *testing.T) {
	e := NewEngine(1)
	sections := []model.Section{
		section(1, "Section 101", model.SectionLower, "101-group"),
		section(2, "Section 102", model.SectionLower, "102-group"),
		section(3, "Floor A", model.SectionFloor, "floor-a-group"),
	}
	out, err := e.SynthesizeEventSections(9, sections, PriceEnvelope{From: 50, To: 150})
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	want := []float64{90, 90, 125}
	for i, es := range out {
		if es.Price != want[i] {
			t.Errorf("section %d price = %v, want %v", i, es.Price, want[i])
		}
		if es.EventID != 9 || es.SectionID != sections[i].ID {
			t.Errorf("section %d keys wrong: %+v", i, es)
		}
		if es.Capacity != 100 || es.AvailableCount != 100 {
			t.Errorf("section %d capacity/available = %d/%d", i, es.Capacity, es.AvailableCount)
		}
	}
}

func TestSynthesizeEventSectionsPreconditions(t *testing.T) {
	e := NewEngine(1)
	if _, err := e.SynthesizeEventSections(1, nil, PriceEnvelope{From: 50, To: 150}); err != ErrNoSectionsFound {
		t.Errorf("expected ErrNoSectionsFound, got %v", err)
	}
	secs := []model.Section{section(1, "Section 101", model.SectionLower, "")}
	if _, err := e.SynthesizeEventSections(1, secs, PriceEnvelope{}); err != ErrNoPriceEnvelope {
		t.Errorf("expected ErrNoPriceEnvelope, got %v", err)
	}
}

func TestCapacityDefault(t *testing.T) {
	e := NewEngine(1)
	sec := section(1, "Section 101", model.SectionLower, "")
	sec.Capacity = 0
	out, err := e.SynthesizeEventSections(1, []model.Section{sec}, PriceEnvelope{From: 50, To: 150})
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if out[0].Capacity != 100 || out[0].AvailableCount != 100 {
		t.Errorf("unset capacity should default to 100, got %+v", out[0])
	}
}

func TestListingPriceBounds(t *testing.T) {
	env := PriceEnvelope{From: 50, To: 150}
	floor := math.Max(12, 0.75*env.From)
	for seed := int64(0); seed < 20; seed++ {
		e := NewEngine(seed)
		pairs := []SectionInventory{
			{Section: section(1, "Section 101", model.SectionLower, "101-group"), EventSectionID: 1},
			{Section: section(2, "VIP Suite", model.SectionPremium, "vip-suite-group"), EventSectionID: 2},
		}
		for _, l := range e.SynthesizeListings(pairs, env, 30) {
			if l.Price < floor {
				t.Fatalf("seed %d: price %v below floor %v", seed, l.Price, floor)
			}
			if l.Price > 1200 {
				t.Fatalf("seed %d: price %v above cap", seed, l.Price)
			}
			if l.Quantity < 1 || l.Quantity > 6 {
				t.Fatalf("seed %d: quantity %d out of range", seed, l.Quantity)
			}
			if l.Status != model.ListingAvailable {
				t.Fatalf("seed %d: status %q", seed, l.Status)
			}
		}
	}
}

func TestSynthesizeListingsConcurrent(t *testing.T) {
	e := NewEngine(7)
	env := PriceEnvelope{From: 50, To: 150}
	pairs := []SectionInventory{
		{Section: section(1, "Section 101", model.SectionLower, "101-group"), EventSectionID: 1},
		{Section: section(2, "Floor A", model.SectionFloor, "floor-a-group"), EventSectionID: 2},
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if got := e.SynthesizeListings(pairs, env, 30); len(got) == 0 {
					t.Error("concurrent run produced no listings")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestExactlyOneLowestPriceFlag(t *testing.T) {
	e := NewEngine(42)
	pairs := []SectionInventory{
		{Section: section(1, "Section 101", model.SectionLower, "101-group"), EventSectionID: 10},
		{Section: section(2, "Floor A", model.SectionFloor, "floor-a-group"), EventSectionID: 20},
	}
	listings := e.SynthesizeListings(pairs, PriceEnvelope{From: 50, To: 150}, 30)

	perSection := map[uint64][]model.TicketListing{}
	for _, l := range listings {
		perSection[l.EventSectionID] = append(perSection[l.EventSectionID], l)
	}
	for esID, ls := range perSection {
		flagged := 0
		min := ls[0].Price
		for _, l := range ls {
			if l.Price < min {
				min = l.Price
			}
			if l.IsLowestPrice {
				flagged++
			}
		}
		if flagged != 1 {
			t.Errorf("event section %d: %d lowest-price flags, want exactly 1", esID, flagged)
		}
		for _, l := range ls {
			if l.IsLowestPrice && l.Price != min {
				t.Errorf("event section %d: flagged listing price %v is not the minimum %v", esID, l.Price, min)
			}
		}
	}
}

func TestCapacityConservation(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		e := NewEngine(seed)
		target := 30
		// Max target per run is 1.4x the request, clamped to 80.
		maxTickets := int(1.4 * float64(target))
		pairs := []SectionInventory{
			{Section: section(1, "Section 101", model.SectionLower, "101-group"), EventSectionID: 1},
		}
		total := 0
		for _, l := range e.SynthesizeListings(pairs, PriceEnvelope{From: 50, To: 150}, target) {
			total += l.Quantity
		}
		if total > maxTickets {
			t.Fatalf("seed %d: %d tickets exceed run target ceiling %d", seed, total, maxTickets)
		}
	}
}

func TestDeterministicJitter(t *testing.T) {
	a := SectionJitter("101-group")
	b := SectionJitter("101-group")
	if a != b {
		t.Fatalf("jitter not deterministic: %v vs %v", a, b)
	}
	if a < 0.9 || a > 1.1 {
		t.Fatalf("jitter %v outside [0.9, 1.1]", a)
	}
	if SectionJitter("101-group") == SectionJitter("102-group") {
		t.Fatal("distinct sections produced identical jitter")
	}
}

func TestListingCountRange(t *testing.T) {
	e := NewEngine(7)
	pairs := []SectionInventory{
		{Section: section(1, "Section 101", model.SectionLower, "101-group"), EventSectionID: 1},
	}
	n := len(e.SynthesizeListings(pairs, PriceEnvelope{From: 50, To: 150}, 30))
	if n < 1 || n > 24 {
		t.Fatalf("listing count %d outside expected range", n)
	}
}

func TestGeneralAdmissionListingsHaveNoRows(t *testing.T) {
	e := NewEngine(3)
	ga := section(1, "GA Lawn", model.SectionFloor, "ga-lawn-group")
	ga.IsGeneralAdmission = true
	listings := e.SynthesizeListings([]SectionInventory{{Section: ga, EventSectionID: 1}}, PriceEnvelope{From: 50, To: 150}, 20)
	for _, l := range listings {
		if l.RowName.Valid || l.SeatNumbers.Valid {
			t.Fatalf("GA listing carries row/seat data: %+v", l)
		}
	}
}

func TestRowLabel(t *testing.T) {
	cases := map[int]string{0: "A", 1: "B", 25: "Z", 26: "AA", 27: "AB"}
	for in, want := range cases {
		if got := rowLabel(in); got != want {
			t.Errorf("rowLabel(%d) = %q, want %q", in, got, want)
		}
	}
}
