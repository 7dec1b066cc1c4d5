package solunar

import (
	"math"
	"time"
)

// PhaseName identifies one of the eight moon phase buckets.
type PhaseName string

const (
	NewMoon        PhaseName = "New Moon"
	WaxingCrescent PhaseName = "Waxing Crescent"
	FirstQuarter   PhaseName = "First Quarter"
	WaxingGibbous  PhaseName = "Waxing Gibbous"
	FullMoon       PhaseName = "Full Moon"
	WaningGibbous  PhaseName = "Waning Gibbous"
	LastQuarter    PhaseName = "Last Quarter"
	WaningCrescent PhaseName = "Waning Crescent"
)

const (
	// SynodicMonth is the mean length of the lunar cycle in days.
	SynodicMonth = 29.530588853

	dayMillis = 1000 * 60 * 60 * 24
)

// referenceNewMoon is a known new moon instant.
var referenceNewMoon = time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)

type phaseInfo struct {
	local string
	emoji string
}

var phaseTable = map[PhaseName]phaseInfo{
	NewMoon:        {"Lună nouă", "🌑"},
	WaxingCrescent: {"Semilună crescătoare", "🌒"},
	FirstQuarter:   {"Primul pătrar", "🌓"},
	WaxingGibbous:  {"Lună crescătoare", "🌔"},
	FullMoon:       {"Lună plină", "🌕"},
	WaningGibbous:  {"Lună descrescătoare", "🌖"},
	LastQuarter:    {"Ultimul pătrar", "🌗"},
	WaningCrescent: {"Semilună descrescătoare", "🌘"},
}

// Romanian returns the Romanian label for the phase.
func (p PhaseName) Romanian() string {
	return phaseTable[p].local
}

// Emoji returns the glyph for the phase.
func (p PhaseName) Emoji() string {
	return phaseTable[p].emoji
}

// CalculateMoonPhase returns the moon phase at t. Only the instant matters,
// not t's location.
func CalculateMoonPhase(t time.Time) MoonPhase {
	position := cyclePosition(t)
	name := phaseNameFor(position)

	return MoonPhase{
		Phase:        position,
		PhaseName:    name,
		LocalName:    name.Romanian(),
		Illumination: illumination(position),
		Emoji:        name.Emoji(),
	}
}

// cyclePosition is the floor-modulo position of t in the lunar cycle, in [0,1).
// Unix milliseconds avoid time.Duration's ±292 year range.
func cyclePosition(t time.Time) float64 {
	days := float64(t.UnixMilli()-referenceNewMoon.UnixMilli()) / dayMillis

	m := math.Mod(days, SynodicMonth)
	if m < 0 {
		m += SynodicMonth
	}
	position := m / SynodicMonth
	if position >= 1 || position == 0 {
		// folds -0 and the rounding edge at a full cycle back to the new moon
		return 0
	}
	return position
}

func phaseNameFor(position float64) PhaseName {
	switch {
	case position < 0.03 || position > 0.97:
		return NewMoon
	case position < 0.22:
		return WaxingCrescent
	case position < 0.28:
		return FirstQuarter
	case position < 0.47:
		return WaxingGibbous
	case position < 0.53:
		return FullMoon
	case position < 0.72:
		return WaningGibbous
	case position < 0.78:
		return LastQuarter
	default:
		return WaningCrescent
	}
}

// illumination is 0 at the new moon and 100 at the full moon.
func illumination(position float64) int {
	return int(math.Round(50 * (1 - math.Cos(2*math.Pi*position))))
}
