package solunar

import (
	"math"
	"sort"
	"time"
)

const (
	dawnBoost     = 30
	duskBoost     = 25
	nightBonus    = 15
	middayPenalty = 20
	moonWeight    = 0.6
	bestThreshold = 75
	maxBestTimes  = 4
	dailyTopHours = 6
	minScore      = 0
	maxScore      = 100
)

// Engine computes forecasts for one location. It holds no mutable state.
type Engine struct {
	location Location
}

func NewEngine(loc Location) *Engine {
	return &Engine{location: loc}
}

func (e *Engine) Location() Location {
	return e.location
}

// SunTimes returns sunrise and sunset for t at the engine's location.
func (e *Engine) SunTimes(t time.Time) SunTimes {
	return sunTimesAt(e.location, t)
}

// Compute returns the forecast at the default location.
func Compute(t time.Time) Data {
	return NewEngine(Timisoara).Compute(t)
}

// Compute builds the full forecast for t's calendar date.
func (e *Engine) Compute(t time.Time) Data {
	moon := CalculateMoonPhase(t)
	sun := e.SunTimes(t)

	base := moonScore(moon.Phase) * moonWeight
	sunriseHour := sun.Sunrise.Hour()
	sunsetHour := sun.Sunset.Hour()
	nightMoon := moon.Phase < 0.2 || moon.Phase > 0.8

	var hourly [HoursPerDay]int
	best := make([]BestTime, 0, HoursPerDay)

	for h := 0; h < HoursPerDay; h++ {
		score := base

		if absInt(h-sunriseHour) <= 1 {
			score += dawnBoost
		}
		if absInt(h-sunsetHour) <= 1 {
			score += duskBoost
		}
		if (h < 6 || h > 20) && nightMoon {
			score += nightBonus
		}
		if h > 10 && h < 16 {
			score -= middayPenalty
		}

		score = clamp(score)
		rounded := int(math.Round(score))
		hourly[h] = rounded

		// threshold applies to the clamped value before rounding
		if score > bestThreshold {
			best = append(best, BestTime{Hour: h, Score: rounded})
		}
	}

	sort.SliceStable(best, func(i, j int) bool {
		return best[i].Score > best[j].Score
	})
	if len(best) > maxBestTimes {
		best = best[:maxBestTimes]
	}

	daily := dailyScore(hourly)

	return Data{
		Date:         t,
		Location:     e.location,
		MoonPhase:    moon,
		SunTimes:     sun,
		DailyScore:   daily,
		Rating:       RatingFor(daily),
		HourlyScores: hourly,
		BestTimes:    best,
	}
}

// moonScore is a step function of the cycle position. Branch order matters.
func moonScore(phase float64) float64 {
	switch {
	case phase < 0.1 || phase > 0.9:
		return 95
	case phase > 0.4 && phase < 0.6:
		return 90
	case phase < 0.3 || phase > 0.7:
		return 75
	default:
		return 60
	}
}

// dailyScore is the rounded mean of the six highest hourly scores.
func dailyScore(hourly [HoursPerDay]int) int {
	sorted := hourly
	sort.Sort(sort.Reverse(sort.IntSlice(sorted[:])))

	sum := 0
	for _, s := range sorted[:dailyTopHours] {
		sum += s
	}
	return int(math.Round(float64(sum) / dailyTopHours))
}

func clamp(v float64) float64 {
	return math.Max(minScore, math.Min(maxScore, v))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
