package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/svgmap"
)

// rulesFile is the on-disk shape of a section classification override.
// Example:
//
//	bands:
//	  floor_below: 50
//	  lower_below: 100
//	  premium_below: 200
type rulesFile struct {
	Bands svgmap.Bands `yaml:"bands"`
}

// LoadBands returns the section classification bands, overridden by the
// YAML rules file when one is configured. The numeric boundaries are venue
// population heuristics, not universal truths, which is why they are file
// configuration rather than constants.
func LoadBands(path string) (svgmap.Bands, error) {
	bands := svgmap.DefaultBands()
	if path == "" {
		return bands, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return bands, fmt.Errorf("read rules file: %w", err)
	}
	var rf rulesFile
	if err := yaml.Unmarshal(raw, &rf); err != nil {
		return bands, fmt.Errorf("parse rules file: %w", err)
	}
	if rf.Bands.FloorBelow > 0 {
		bands.FloorBelow = rf.Bands.FloorBelow
	}
	if rf.Bands.LowerBelow > bands.FloorBelow {
		bands.LowerBelow = rf.Bands.LowerBelow
	}
	if rf.Bands.PremiumBelow > bands.LowerBelow {
		bands.PremiumBelow = rf.Bands.PremiumBelow
	}
	return bands, nil
}
