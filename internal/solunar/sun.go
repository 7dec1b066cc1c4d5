package solunar

import (
	"math"
	"time"
)

const (
	standardOffsetHours = 2
	summerOffsetHours   = 3

	maxDeclinationDeg = 23.45
)

var (
	zoneEET  = time.FixedZone("EET", standardOffsetHours*60*60)
	zoneEEST = time.FixedZone("EEST", summerOffsetHours*60*60)
)

// CalculateSunTimes returns sunrise and sunset at the default location.
func CalculateSunTimes(t time.Time) SunTimes {
	return sunTimesAt(Timisoara, t)
}

// sunTimesAt computes sun times on t's calendar date, read in t's location.
// Results are civil time in EET or EEST depending on the DST window.
func sunTimesAt(loc Location, t time.Time) SunTimes {
	year, month, day := t.Date()

	lat := deg2rad(loc.Latitude)
	declination := deg2rad(maxDeclinationDeg) * math.Sin(2*math.Pi*float64(284+t.YearDay())/365)
	// clamped so polar day and polar night give 24h and 0h instead of NaN
	cosHourAngle := math.Max(-1, math.Min(1, -math.Tan(lat)*math.Tan(declination)))
	hourAngle := math.Acos(cosHourAngle)

	sunriseUTC := 12 - hourAngle*12/math.Pi - loc.Longitude/15
	sunsetUTC := 12 + hourAngle*12/math.Pi - loc.Longitude/15

	offset, zone := float64(standardOffsetHours), zoneEET
	if IsDaylightSavingTime(t) {
		offset, zone = summerOffsetHours, zoneEEST
	}

	midnight := time.Date(year, month, day, 0, 0, 0, 0, zone)
	sunrise := midnight.Add(hoursToDuration(sunriseUTC + offset))
	sunset := midnight.Add(hoursToDuration(sunsetUTC + offset))

	return SunTimes{
		Sunrise:   sunrise,
		Sunset:    sunset,
		DayLength: sunset.Sub(sunrise).Hours(),
	}
}

// hoursToDuration converts decimal hours, truncated to whole minutes.
func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour)).Truncate(time.Minute)
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180.0
}
