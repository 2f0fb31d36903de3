// Package svgmap extracts candidate seating sections from raw seating-chart
// documents. A document is loosely structured: an optional free-text
// metadata header followed by an embedded SVG markup block. Extraction is
// deliberately precision-over-recall — only ids following the "-group"
// convention survive, so decorative markup never corrupts the catalog.
package svgmap

import (
	"errors"
	"regexp"
	"strings"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// ErrNoMarkupFound is returned when a document contains no markup block.
// Fatal for that document only; batch callers record it and move on.
var ErrNoMarkupFound = errors.New("no markup block found in document")

// Result is the outcome of extracting one document.
type Result struct {
	Candidates []model.SectionCandidate
	// VenueName is the venue declared in the metadata header, "" when the
	// header is absent or carries no venue field.
	VenueName string
}

// markupStart marks the beginning of the embedded markup block.
const markupStart = "<svg"

// idAttr matches id attributes inside the markup block, in either quoting
// style.
var idAttr = regexp.MustCompile(`\bid\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// headerVenue matches a declared venue name in the metadata header, in
// "Venue: X" or "venue=X" form.
var headerVenue = regexp.MustCompile(`(?i)^\s*venue(?:[ _-]?name)?\s*[:=]\s*(.+?)\s*$`)

// noisePatterns exclude structural and decorative markup ids before any
// section heuristics run. Matched against the lower-cased id. The set is
// deliberately broad: a false positive here costs one ungrouped section, a
// false negative pollutes the catalog.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^defs`),
	regexp.MustCompile(`gradient`),
	regexp.MustCompile(`^mask`),
	regexp.MustCompile(`^clip`),
	regexp.MustCompile(`^pattern`),
	regexp.MustCompile(`^filter`),
	regexp.MustCompile(`^stop`),
	regexp.MustCompile(`^marker`),
	regexp.MustCompile(`^symbol`),
	regexp.MustCompile(`^layer[_-]?[0-9]*$`),
	regexp.MustCompile(`^g[0-9]+$`),
	regexp.MustCompile(`^(?:svg|path|rect|circle|ellipse|polygon|polyline|line|text|tspan|use)[_-]?[0-9]*$`),
	regexp.MustCompile(`stage`),
	regexp.MustCompile(`court`),
	regexp.MustCompile(`^ice`),
	regexp.MustCompile(`field`),
	regexp.MustCompile(`background`),
	regexp.MustCompile(`border`),
	regexp.MustCompile(`outline`),
	regexp.MustCompile(`logo`),
}

// groupSuffix marks an interactive, selectable region. Ids without it are
// dropped even when they look like sections; ungrouped sections are the
// known false-negative cost of that choice.
const groupSuffix = "-group"

// Extractor is the deterministic, regex-based document extractor. It is the
// mandatory local implementation; the optional oracle only decorates it.
type Extractor struct {
	bands Bands
}

// New returns an Extractor classifying numeric sections with the given
// band boundaries.
func New(bands Bands) *Extractor {
	return &Extractor{bands: bands}
}

// Extract parses one map document into ordered section candidates plus the
// declared venue name, if any. Zero surviving candidates is not an error;
// the caller decides whether to fall back to a generic catalog.
func (e *Extractor) Extract(doc model.MapDocument) (*Result, error) {
	start := strings.Index(doc.Content, markupStart)
	if start < 0 {
		return nil, ErrNoMarkupFound
	}

	res := &Result{VenueName: headerVenueName(doc.Content[:start])}
	if res.VenueName == "" {
		res.VenueName = doc.Metadata["venue"]
	}

	seen := map[string]bool{}
	for _, m := range idAttr.FindAllStringSubmatch(doc.Content[start:], -1) {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		id := strings.ToLower(strings.TrimSpace(raw))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		if isNoise(id) || !strings.HasSuffix(id, groupSuffix) {
			continue
		}
		cand, ok := classify(strings.TrimSuffix(id, groupSuffix), e.bands)
		if !ok {
			continue
		}
		cand.RawID = id
		res.Candidates = append(res.Candidates, cand)
	}
	return res, nil
}

func isNoise(id string) bool {
	for _, p := range noisePatterns {
		if p.MatchString(id) {
			return true
		}
	}
	return false
}

// headerVenueName scans the metadata header lines preceding the markup
// block for a declared venue name.
func headerVenueName(header string) string {
	for _, line := range strings.Split(header, "\n") {
		if m := headerVenue.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}
