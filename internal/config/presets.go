package config

import (
	"sort"
	"time"
)

// QualityPresets maps a quality name to the per-series point budget.
var QualityPresets = map[string]int{
	"low":    100,
	"medium": 200,
	"high":   400,
}

// UpdatePresets maps an update rate name to the render tick interval.
var UpdatePresets = map[string]time.Duration{
	"low":    1000 * time.Millisecond,
	"medium": 400 * time.Millisecond,
	"high":   100 * time.Millisecond,
}

func GetQuality(name string) (int, bool) {
	n, ok := QualityPresets[name]
	return n, ok
}

func GetUpdateRate(name string) (time.Duration, bool) {
	d, ok := UpdatePresets[name]
	return d, ok
}

// QualityNames lists the quality presets from coarsest to finest.
func QualityNames() []string {
	names := make([]string, 0, len(QualityPresets))
	for name := range QualityPresets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return QualityPresets[names[i]] < QualityPresets[names[j]]
	})
	return names
}

// UpdateRateNames lists the update rates from slowest to fastest.
func UpdateRateNames() []string {
	names := make([]string, 0, len(UpdatePresets))
	for name := range UpdatePresets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return UpdatePresets[names[i]] > UpdatePresets[names[j]]
	})
	return names
}
