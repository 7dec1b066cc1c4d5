package journal

import (
	"math"
	"sort"
	"time"

	"fishing-solunar/internal/storage"
)

var monthNames = [...]string{
	"Ianuarie", "Februarie", "Martie", "Aprilie", "Mai", "Iunie",
	"Iulie", "August", "Septembrie", "Octombrie", "Noiembrie", "Decembrie",
}

var shortMonthNames = [...]string{
	"Ian", "Feb", "Mar", "Apr", "Mai", "Iun",
	"Iul", "Aug", "Sep", "Oct", "Noi", "Dec",
}

type LargestCatch struct {
	Species  string    `json:"species"`
	WeightKg float64   `json:"weight_kg"`
	LengthCm float64   `json:"length_cm"`
	CaughtAt time.Time `json:"caught_at"`
}

// MonthStats is one calendar month of the yearly breakdown.
type MonthStats struct {
	Month    string  `json:"month"`
	Catches  int     `json:"catches"`
	WeightKg float64 `json:"weight_kg"`
}

type SpeciesStats struct {
	Species     string  `json:"species"`
	Count       int     `json:"count"`
	WeightKg    float64 `json:"weight_kg"`
	AvgLengthCm float64 `json:"avg_length_cm"`
}

type Stats struct {
	TotalCatches         int            `json:"total_catches"`
	TotalWeightKg        float64        `json:"total_weight_kg"`
	LargestCatch         *LargestCatch  `json:"largest_catch,omitempty"`
	FavoriteSpecies      string         `json:"favorite_species"`
	FavoriteSpot         string         `json:"favorite_spot"`
	BestMonth            string         `json:"best_month"`
	SpeciesCount         int            `json:"species_count"`
	ReleaseRate          float64        `json:"release_rate"` // percent
	AverageSolunarRating float64        `json:"average_solunar_rating"`
	ByMonth              []MonthStats   `json:"by_month,omitempty"`
	BySpecies            []SpeciesStats `json:"by_species,omitempty"`
}

// ComputeStats aggregates entries. Months are taken in zone.
func ComputeStats(entries []storage.CatchEntry, zone *time.Location) Stats {
	if len(entries) == 0 {
		return Stats{}
	}
	if zone == nil {
		zone = time.UTC
	}

	var (
		weight   float64
		released int
		rating   int
		largest  *LargestCatch
	)
	species := map[string]int{}
	spots := map[string]int{}
	months := map[string]int{}

	for _, e := range entries {
		weight += e.WeightKg
		rating += e.SolunarRating
		if e.Released {
			released++
		}
		if largest == nil || e.WeightKg > largest.WeightKg {
			largest = &LargestCatch{
				Species:  e.Species,
				WeightKg: e.WeightKg,
				LengthCm: e.LengthCm,
				CaughtAt: e.CaughtAt,
			}
		}
		species[e.Species]++
		if e.SpotName != "" {
			spots[e.SpotName]++
		}
		months[monthNames[e.CaughtAt.In(zone).Month()-1]]++
	}

	n := len(entries)
	var stats Stats
	stats.TotalCatches = n
	stats.TotalWeightKg = round(weight, 2)
	stats.LargestCatch = largest
	stats.FavoriteSpecies = mostFrequent(species)
	stats.FavoriteSpot = mostFrequent(spots)
	stats.BestMonth = mostFrequent(months)
	stats.SpeciesCount = len(species)
	stats.ReleaseRate = round(float64(released)/float64(n)*100, 1)
	stats.AverageSolunarRating = round(float64(rating)/float64(n), 1)
	stats.ByMonth = MonthlyStats(entries, zone)
	stats.BySpecies = SpeciesBreakdown(entries)
	return stats
}

// MonthlyStats buckets entries into the twelve calendar months of zone,
// January first. Months without catches are included with zero values.
func MonthlyStats(entries []storage.CatchEntry, zone *time.Location) []MonthStats {
	if zone == nil {
		zone = time.UTC
	}

	months := make([]MonthStats, len(shortMonthNames))
	for i, name := range shortMonthNames {
		months[i].Month = name
	}
	for _, e := range entries {
		m := &months[e.CaughtAt.In(zone).Month()-1]
		m.Catches++
		m.WeightKg += e.WeightKg
	}
	for i := range months {
		months[i].WeightKg = round(months[i].WeightKg, 2)
	}
	return months
}

// SpeciesBreakdown groups entries by species, most caught first; ties go
// to the alphabetically first species.
func SpeciesBreakdown(entries []storage.CatchEntry) []SpeciesStats {
	bySpecies := map[string]*SpeciesStats{}
	lengths := map[string]float64{}
	for _, e := range entries {
		s, ok := bySpecies[e.Species]
		if !ok {
			s = &SpeciesStats{Species: e.Species}
			bySpecies[e.Species] = s
		}
		s.Count++
		s.WeightKg += e.WeightKg
		lengths[e.Species] += e.LengthCm
	}

	out := make([]SpeciesStats, 0, len(bySpecies))
	for name, s := range bySpecies {
		s.WeightKg = round(s.WeightKg, 2)
		s.AvgLengthCm = round(lengths[name]/float64(s.Count), 1)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Species < out[j].Species
	})
	return out
}

// mostFrequent returns the key with the highest count; ties go to the
// alphabetically first key.
func mostFrequent(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
