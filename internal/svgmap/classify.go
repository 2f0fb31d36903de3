package svgmap

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// Bands holds the numeric section-type boundaries. The defaults reflect the
// common US arena numbering scheme (floor sections below 100, 100-level
// bowl, 200-level club ring, 300-level upper deck) but are heuristic and
// venue-dependent, so they are configurable rather than constant.
type Bands struct {
	FloorBelow   int `yaml:"floor_below"`
	LowerBelow   int `yaml:"lower_below"`
	PremiumBelow int `yaml:"premium_below"`
}

// DefaultBands returns the stock numbering boundaries.
func DefaultBands() Bands {
	return Bands{FloorBelow: 100, LowerBelow: 200, PremiumBelow: 300}
}

func (b Bands) typeFor(n int) string {
	switch {
	case n < b.FloorBelow:
		return model.SectionFloor
	case n < b.LowerBelow:
		return model.SectionLower
	case n < b.PremiumBelow:
		return model.SectionPremium
	default:
		return model.SectionUpper
	}
}

// sectionVocab are the name fragments that mark an id as a named section
// even when it is neither numeric nor letter+digits.
var sectionVocab = []string{
	"floor", "pit", "ga", "vip", "club", "premium", "box", "suite",
	"terrace", "orchestra", "mezzanine", "balcony", "loge",
}

// vocabType maps a vocabulary word to the coarse section type.
var vocabType = map[string]string{
	"floor":     model.SectionFloor,
	"pit":       model.SectionFloor,
	"ga":        model.SectionFloor,
	"vip":       model.SectionPremium,
	"club":      model.SectionPremium,
	"premium":   model.SectionPremium,
	"box":       model.SectionPremium,
	"suite":     model.SectionPremium,
	"terrace":   model.SectionUpper,
	"balcony":   model.SectionUpper,
	"orchestra": model.SectionLower,
	"mezzanine": model.SectionLower,
	"loge":      model.SectionLower,
}

// letterPrefix expands the single-letter prefix of lettered sections like
// "f2" or "l14" into a display word.
var letterPrefix = map[byte]string{
	'f': "Floor",
	'l': "Loge",
	'b': "Balcony",
	'm': "Mezzanine",
	't': "Terrace",
	'o': "Orchestra",
	'p': "Pit",
	's': "Suite",
	'c': "Club",
}

var (
	numericID  = regexp.MustCompile(`^[0-9]{1,3}$`)
	letteredID = regexp.MustCompile(`^[a-z][0-9]+$`)
)

// classifyRule is one entry of the ordered classification table. Rules are
// evaluated top to bottom; the first match wins, and ids matching no rule
// are dropped.
type classifyRule struct {
	match func(id string) bool
	build func(id string, b Bands) model.SectionCandidate
}

var classifyRules = []classifyRule{
	{
		// Pure 1-3 digit ids: numbered bowl sections.
		match: func(id string) bool { return numericID.MatchString(id) },
		build: func(id string, b Bands) model.SectionCandidate {
			n, _ := strconv.Atoi(id)
			return model.SectionCandidate{
				DisplayName: "Section " + id,
				SectionType: b.typeFor(n),
			}
		},
	},
	{
		// Single letter plus digits: lettered sections, expanded through
		// the prefix dictionary when the letter is known.
		match: func(id string) bool { return letteredID.MatchString(id) },
		build: func(id string, b Bands) model.SectionCandidate {
			word, ok := letterPrefix[id[0]]
			if !ok {
				return model.SectionCandidate{
					DisplayName: strings.ToUpper(id),
					SectionType: model.SectionStandard,
				}
			}
			return model.SectionCandidate{
				DisplayName:        word + " " + id[1:],
				SectionType:        vocabType[strings.ToLower(word)],
				IsGeneralAdmission: word == "Pit",
			}
		},
	},
	{
		// Named sections containing a vocabulary word.
		match: func(id string) bool { return vocabWord(id) != "" },
		build: func(id string, b Bands) model.SectionCandidate {
			word := vocabWord(id)
			return model.SectionCandidate{
				DisplayName:        titleName(id),
				SectionType:        vocabType[word],
				IsGeneralAdmission: isGeneralAdmission(id, word),
			}
		},
	},
}

// classify maps a surviving map id (already stripped of its "-group"
// suffix and lower-cased) to a candidate, or returns false when the id
// matches no rule.
func classify(id string, b Bands) (model.SectionCandidate, bool) {
	for _, r := range classifyRules {
		if r.match(id) {
			c := r.build(id, b)
			if c.SectionType == "" {
				c.SectionType = model.SectionStandard
			}
			return c, true
		}
	}
	return model.SectionCandidate{}, false
}

// vocabWord returns the first vocabulary word appearing as a whole word
// segment of the id, or "".
func vocabWord(id string) string {
	segs := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for _, v := range sectionVocab {
		for _, s := range segs {
			if s == v {
				return v
			}
		}
	}
	return ""
}

// isGeneralAdmission marks standing-room areas: GA and pit always, floor
// when the id carries no section number.
func isGeneralAdmission(id, word string) bool {
	switch word {
	case "ga", "pit":
		return true
	case "floor":
		return !strings.ContainsAny(id, "0123456789")
	}
	return false
}

// titleName renders a raw id like "vip-suite" as "VIP Suite".
func titleName(id string) string {
	segs := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, s := range segs {
		switch s {
		case "vip", "ga":
			segs[i] = strings.ToUpper(s)
		default:
			segs[i] = strings.ToUpper(s[:1]) + s[1:]
		}
	}
	return strings.Join(segs, " ")
}
