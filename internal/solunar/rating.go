package solunar

import "math"

// Rating is the qualitative label shown next to a score.
type Rating string

const (
	RatingExcellent Rating = "Excelent"
	RatingGood      Rating = "Bun"
	RatingModerate  Rating = "Moderat"
	RatingPoor      Rating = "Slab"
)

func RatingFor(score int) Rating {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	case score >= 40:
		return RatingModerate
	default:
		return RatingPoor
	}
}

// JournalRating maps a 0-100 daily score to the journal's 1-10 scale.
func JournalRating(score int) int {
	r := int(math.Round(float64(score) / 10))
	if r < 1 {
		return 1
	}
	if r > 10 {
		return 10
	}
	return r
}
