package solunar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	testEET  = time.FixedZone("EET", 2*60*60)
	testEEST = time.FixedZone("EEST", 3*60*60)
)

func TestCalculateSunTimes_Winter(t *testing.T) {
	sun := CalculateSunTimes(time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC))

	require.Equal(t, "EET", sun.Sunrise.Location().String())
	require.Equal(t, 8, sun.Sunrise.Hour())
	require.Equal(t, 12, sun.Sunrise.Minute())
	require.Equal(t, 16, sun.Sunset.Hour())
	require.Equal(t, 57, sun.Sunset.Minute())
	require.InDelta(t, 8.75, sun.DayLength, 0.01)
}

func TestCalculateSunTimes_SummerBounds(t *testing.T) {
	for _, d := range []time.Time{
		time.Date(2024, time.June, 1, 0, 0, 0, 0, testEEST),
		time.Date(2024, time.June, 21, 12, 0, 0, 0, testEEST),
		time.Date(2024, time.July, 1, 0, 0, 0, 0, testEEST),
		time.Date(2025, time.August, 15, 9, 0, 0, 0, testEEST),
	} {
		sun := CalculateSunTimes(d)
		require.Equal(t, "EEST", sun.Sunrise.Location().String(), d.String())
		require.Less(t, sun.Sunrise.Hour(), 7, d.String())
		require.GreaterOrEqual(t, sun.Sunset.Hour(), 19, d.String())
		require.Greater(t, sun.DayLength, 12.0, d.String())
	}
}

func TestCalculateSunTimes_SameCalendarDate(t *testing.T) {
	d := time.Date(2024, time.July, 1, 23, 30, 0, 0, testEEST)
	sun := CalculateSunTimes(d)

	y, m, day := sun.Sunrise.Date()
	require.Equal(t, 2024, y)
	require.Equal(t, time.July, m)
	require.Equal(t, 1, day)
	require.Equal(t, 5, sun.Sunrise.Hour())
	require.Equal(t, 51, sun.Sunrise.Minute())
	require.Equal(t, 21, sun.Sunset.Hour())
	require.Equal(t, 18, sun.Sunset.Minute())
}

func TestEngineSunTimes_UsesLocation(t *testing.T) {
	d := time.Date(2024, time.July, 1, 0, 0, 0, 0, testEEST)
	east := NewEngine(Location{Name: "Constanța", Latitude: 44.1598, Longitude: 28.6348})

	west := CalculateSunTimes(d)
	other := east.SunTimes(d)

	// further east means an earlier sunrise on the same civil clock
	require.True(t, other.Sunrise.Before(west.Sunrise))
	require.Equal(t, Timisoara, NewEngine(Timisoara).Location())
}

func TestEngineSunTimes_PolarDayAndNight(t *testing.T) {
	tromso := NewEngine(Location{Name: "Tromsø", Latitude: 69.65, Longitude: 18.96})

	summer := tromso.SunTimes(time.Date(2024, time.June, 21, 0, 0, 0, 0, testEEST))
	require.Equal(t, 2024, summer.Sunrise.Year())
	require.Equal(t, time.June, summer.Sunrise.Month())
	require.InDelta(t, 24, summer.DayLength, 0.02)

	winter := tromso.SunTimes(time.Date(2024, time.December, 21, 0, 0, 0, 0, testEET))
	require.Equal(t, 2024, winter.Sunrise.Year())
	require.Equal(t, 12, winter.Sunrise.Hour())
	require.Equal(t, winter.Sunrise, winter.Sunset)
	require.Zero(t, winter.DayLength)

	data := tromso.Compute(time.Date(2024, time.June, 21, 0, 0, 0, 0, testEEST))
	require.Equal(t, 2024, data.SunTimes.Sunset.Year())
	for _, score := range data.HourlyScores {
		require.GreaterOrEqual(t, score, 0)
		require.LessOrEqual(t, score, 100)
	}
}

func TestIsDaylightSavingTime(t *testing.T) {
	for _, year := range []int{2023, 2024, 2025, 2030} {
		require.False(t, IsDaylightSavingTime(time.Date(year, time.January, 1, 12, 0, 0, 0, testEET)), year)
		require.True(t, IsDaylightSavingTime(time.Date(year, time.July, 1, 12, 0, 0, 0, testEET)), year)
		require.False(t, IsDaylightSavingTime(time.Date(year, time.December, 1, 12, 0, 0, 0, testEET)), year)
	}
}

func TestIsDaylightSavingTime_WindowEdges(t *testing.T) {
	// 2024: last Sunday of March is the 31st, of October the 27th.
	require.False(t, IsDaylightSavingTime(time.Date(2024, time.March, 30, 23, 59, 0, 0, testEET)))
	require.True(t, IsDaylightSavingTime(time.Date(2024, time.March, 31, 0, 0, 0, 0, testEET)))
	require.True(t, IsDaylightSavingTime(time.Date(2024, time.October, 26, 23, 59, 0, 0, testEET)))
	require.False(t, IsDaylightSavingTime(time.Date(2024, time.October, 27, 0, 0, 0, 0, testEET)))
}

func TestLastSunday(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		day   int
	}{
		{2024, time.March, 31},
		{2024, time.October, 27},
		{2025, time.March, 30},
		{2025, time.October, 26},
		{2026, time.March, 29},
		{2026, time.October, 25},
	}
	for _, tc := range cases {
		got := lastSunday(tc.year, tc.month, time.UTC)
		require.Equal(t, time.Sunday, got.Weekday())
		require.Equal(t, tc.day, got.Day(), "%d %s", tc.year, tc.month)
	}
}
