package inventory

import (
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// Engine generates section pricing and ticket listings. The seed is
// injectable so tests can fix it; the per-section jitter is deterministic
// regardless of the RNG. Each synthesis run draws its own rand.Rand from
// the seed source, so one engine serves concurrent requests.
type Engine struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewEngine returns an engine seeded with the given value.
func NewEngine(seed int64) *Engine {
	return &Engine{src: rand.New(rand.NewSource(seed))}
}

// newRun derives a run-local RNG. Only the derivation touches shared
// state; the returned rand.Rand is owned by the caller.
func (e *Engine) newRun() *rand.Rand {
	e.mu.Lock()
	defer e.mu.Unlock()
	return rand.New(rand.NewSource(e.src.Int63()))
}

// Listing generation bounds.
const (
	minTargetTickets = 6
	maxTargetTickets = 80
	minRows          = 8
	maxRows          = 22
	minListings      = 4
	maxListings      = 24
	priceCap         = 1200.0
	priceFloorAbs    = 12.0
	rowPremium       = 0.12
)

// SectionInventory pairs a section with its priced event-section record.
type SectionInventory struct {
	Section        model.Section
	EventSectionID uint64
}

// SynthesizeListings generates listings for every section. Counts, rows and
// quantities are randomized so the inventory looks organic rather than
// uniform; prices skew toward the envelope's low end while permitting high
// outliers. A section whose target count rounds to zero is simply skipped.
func (e *Engine) SynthesizeListings(secs []SectionInventory, env PriceEnvelope, targetPerSection int) []model.TicketListing {
	rng := e.newRun()
	var out []model.TicketListing
	for _, si := range secs {
		out = append(out, sectionListings(rng, si, env, targetPerSection)...)
	}
	return out
}

func sectionListings(rng *rand.Rand, si SectionInventory, env PriceEnvelope, targetPerSection int) []model.TicketListing {
	if targetPerSection <= 0 {
		return nil
	}
	// Target ticket count: 0.6x-1.4x of the request, clamped.
	lo := int(0.6 * float64(targetPerSection))
	hi := int(1.4 * float64(targetPerSection))
	target := lo
	if hi > lo {
		target += rng.Intn(hi - lo + 1)
	}
	target = clampInt(target, minTargetTickets, maxTargetTickets)

	rowCount := minRows + rng.Intn(maxRows-minRows+1)
	listingBudget := minListings + rng.Intn(maxListings-minListings+1)

	mult := TierMultiplier(si.Section)
	jitter := SectionJitter(sectionKey(si.Section))
	floor := math.Max(priceFloorAbs, 0.75*env.From)

	var listings []model.TicketListing
	remaining := target
	for i := 0; i < listingBudget && remaining > 0; i++ {
		qty := smallBiasedQuantity(rng)
		if qty > remaining {
			qty = remaining
		}
		remaining -= qty

		rowIdx := rng.Intn(rowCount)
		price := listingPrice(rng, env, mult, jitter, rowIdx, rowCount, floor)

		seatStart := 1 + rng.Intn(20)
		seats := fmt.Sprintf("%d", seatStart)
		if qty > 1 {
			seats = fmt.Sprintf("%d-%d", seatStart, seatStart+qty-1)
		}
		listing := model.TicketListing{
			EventSectionID: si.EventSectionID,
			Price:          price,
			Quantity:       qty,
			IsResale:       rng.Float64() < 0.3,
			HasClearView:   rng.Float64() < 0.85,
			Status:         model.ListingAvailable,
		}
		if !si.Section.IsGeneralAdmission {
			listing.RowName = sql.NullString{String: rowLabel(rowIdx), Valid: true}
			listing.SeatNumbers = sql.NullString{String: seats, Valid: true}
		}
		listings = append(listings, listing)
	}
	flagLowestPrice(listings)
	return listings
}

// listingPrice draws one price: envelope position skewed low, tier
// multiplier, stable section jitter, a front-row premium up to +12%
// interpolated linearly across rows, then floor, cap and a cent-level
// offset so prices do not repeat suspiciously.
func listingPrice(rng *rand.Rand, env PriceEnvelope, mult, jitter float64, rowIdx, rowCount int, floor float64) float64 {
	skew := math.Pow(rng.Float64(), 1.8)
	price := env.From + (env.To-env.From)*skew
	price *= mult * jitter
	if rowCount > 1 {
		front := 1 - float64(rowIdx)/float64(rowCount-1)
		price *= 1 + rowPremium*front
	}
	if price < floor {
		price = floor
	}
	if price > priceCap {
		price = priceCap
	}
	price = Round2(price) + float64(rng.Intn(10))/100
	if price > priceCap {
		price = priceCap
	}
	return Round2(price)
}

// smallBiasedQuantity draws 1-6 tickets, biased toward small groups.
func smallBiasedQuantity(rng *rand.Rand) int {
	q := 1 + int(math.Pow(rng.Float64(), 1.5)*6)
	if q > 6 {
		q = 6
	}
	return q
}

// flagLowestPrice marks exactly one minimum-price listing per section,
// first by creation order on ties.
func flagLowestPrice(listings []model.TicketListing) {
	if len(listings) == 0 {
		return
	}
	lowest := 0
	for i := 1; i < len(listings); i++ {
		if listings[i].Price < listings[lowest].Price {
			lowest = i
		}
	}
	for i := range listings {
		listings[i].IsLowestPrice = i == lowest
	}
}

// rowLabel converts a zero-based row index into a letter label (A, B, ...,
// AA past Z).
func rowLabel(i int) string {
	if i < 0 {
		return ""
	}
	var runes []rune
	for {
		runes = append(runes, rune('A'+i%26))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(runes)-1; j < k; j, k = j+1, k-1 {
		runes[j], runes[k] = runes[k], runes[j]
	}
	return string(runes)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
