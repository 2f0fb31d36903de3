// Package inventory synthesizes per-event section pricing and ticket
// listings from venue section metadata and an event's price envelope. The
// output is plausible and internally consistent, not a mirror of any real
// box office.
package inventory

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// ErrNoSectionsFound is reported when an event's venue has no sections to
// price. The engine never fabricates sections.
var ErrNoSectionsFound = errors.New("no sections found for event")

// ErrNoPriceEnvelope is reported when the event carries no usable
// [price_from, price_to] range.
var ErrNoPriceEnvelope = errors.New("event has no price envelope")

// PriceEnvelope is the base price range listings are derived from.
type PriceEnvelope struct {
	From float64
	To   float64
}

func (p PriceEnvelope) valid() bool {
	return p.From > 0 && p.To >= p.From
}

// serviceFeeRate is applied on top of the section price.
const serviceFeeRate = 0.15

// TierMultiplier returns the pricing multiplier for a section's coarse
// category. Name vocabulary is checked before the stored type so that a
// "Club" section in the 200-level premium band still prices at the club
// rate.
func TierMultiplier(s model.Section) float64 {
	name := strings.ToLower(s.Name)
	switch {
	case containsAnyWord(name, "floor", "pit", "ga"):
		return 2.5
	case containsAnyWord(name, "vip", "suite", "premium"):
		return 3.0
	case containsAnyWord(name, "club"):
		return 2.0
	}
	switch s.SectionType {
	case model.SectionFloor:
		return 2.5
	case model.SectionPremium:
		return 3.0
	case model.SectionLower:
		return 1.8
	case model.SectionUpper:
		return 0.8
	default:
		return 1.0
	}
}

func containsAnyWord(name string, words ...string) bool {
	segs := strings.Fields(name)
	for _, w := range words {
		for _, s := range segs {
			if s == w {
				return true
			}
		}
	}
	return false
}

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SectionJitter derives a stable per-section price perturbation in
// [0.9, 1.1] from an FNV-1a hash of the section's identifier. Determinism
// is a property of the function, not of call order: the same section always
// jitters the same way, which keeps repeated generation runs comparable.
func SectionJitter(key string) float64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return 0.9 + 0.2*float64(h.Sum64()%100000)/99999.0
}

// sectionKey is the identifier hashed for jitter: the map element id when
// the section is mappable, otherwise the record id and name.
func sectionKey(s model.Section) string {
	if s.Mappable() {
		return s.SVGPath.String
	}
	return fmt.Sprintf("%d:%s", s.ID, strings.ToLower(s.Name))
}

// SynthesizeEventSections prices every venue section for one event. The
// base price is the envelope's lower bound; each section's price is
// round2(base × tier multiplier). Capacity defaults to the section's own
// capacity (100 when unset) and availability starts full.
func (e *Engine) SynthesizeEventSections(eventID uint64, sections []model.Section, env PriceEnvelope) ([]model.EventSection, error) {
	if len(sections) == 0 {
		return nil, ErrNoSectionsFound
	}
	if !env.valid() {
		return nil, ErrNoPriceEnvelope
	}
	out := make([]model.EventSection, 0, len(sections))
	for _, s := range sections {
		capacity := s.Capacity
		if capacity <= 0 {
			capacity = 100
		}
		price := Round2(env.From * TierMultiplier(s))
		out = append(out, model.EventSection{
			EventID:        eventID,
			SectionID:      s.ID,
			Price:          price,
			ServiceFee:     Round2(price * serviceFeeRate),
			Capacity:       capacity,
			AvailableCount: capacity,
		})
	}
	return out, nil
}
