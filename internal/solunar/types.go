// Package solunar derives the moon phase, sunrise/sunset and an hourly
// fishing activity score for a single fixed location.
//
// Every function in this package is pure: results depend only on the input
// time and package constants, so they are safe to call from any goroutine.
// Sun times use a simplified declination/hour-angle approximation with no
// refraction and no equation of time.
package solunar

import "time"

// HoursPerDay is the number of hourly scores produced for a date.
const HoursPerDay = 24

// Location is the observer position used for sun times.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`  // degrees, north positive
	Longitude float64 `json:"longitude"` // degrees, east positive
}

// Timisoara is the default fishing location.
var Timisoara = Location{
	Name:      "Timișoara",
	Latitude:  45.7489,
	Longitude: 21.2087,
}

type MoonPhase struct {
	Phase        float64   `json:"phase"` // [0,1), 0 = new moon, 0.5 = full moon
	PhaseName    PhaseName `json:"phaseName"`
	LocalName    string    `json:"localName"`
	Illumination int       `json:"illumination"` // percent
	Emoji        string    `json:"emoji"`
}

type SunTimes struct {
	Sunrise   time.Time `json:"sunrise"`
	Sunset    time.Time `json:"sunset"`
	DayLength float64   `json:"dayLength"` // hours
}

// BestTime is one of the top scoring hours of a day.
type BestTime struct {
	Hour  int `json:"hour"`
	Score int `json:"score"`
}

// Data is the full solunar forecast for one date.
type Data struct {
	Date         time.Time        `json:"date"`
	Location     Location         `json:"location"`
	MoonPhase    MoonPhase        `json:"moonPhase"`
	SunTimes     SunTimes         `json:"sunTimes"`
	DailyScore   int              `json:"dailyScore"`
	Rating       Rating           `json:"rating"`
	HourlyScores [HoursPerDay]int `json:"hourlyScores"`
	BestTimes    []BestTime       `json:"bestTimes"`
}

// Summary is the compact per-day view used by multi-day forecasts.
type Summary struct {
	Date         string    `json:"date"`
	DailyScore   int       `json:"dailyScore"`
	Rating       Rating    `json:"rating"`
	PhaseName    PhaseName `json:"phaseName"`
	Emoji        string    `json:"emoji"`
	Illumination int       `json:"illumination"`
	Sunrise      string    `json:"sunrise"`
	Sunset       string    `json:"sunset"`
	BestHours    []int     `json:"bestHours"`
}

// Summarize reduces d to a Summary.
func (d *Data) Summarize() Summary {
	hours := make([]int, 0, len(d.BestTimes))
	for _, bt := range d.BestTimes {
		hours = append(hours, bt.Hour)
	}
	return Summary{
		Date:         d.Date.Format("2006-01-02"),
		DailyScore:   d.DailyScore,
		Rating:       d.Rating,
		PhaseName:    d.MoonPhase.PhaseName,
		Emoji:        d.MoonPhase.Emoji,
		Illumination: d.MoonPhase.Illumination,
		Sunrise:      d.SunTimes.Sunrise.Format("15:04"),
		Sunset:       d.SunTimes.Sunset.Format("15:04"),
		BestHours:    hours,
	}
}
