package storage

import (
	"time"

	"gorm.io/gorm"
)

type CatchEntry struct {
	gorm.Model `json:"-"`
	UUID       string    `gorm:"uniqueIndex;size:36" json:"id"`
	CaughtAt   time.Time `gorm:"index" json:"caught_at"`

	// Catch
	Species  string  `gorm:"index" json:"species"`
	LengthCm float64 `json:"length_cm"`
	WeightKg float64 `json:"weight_kg"`
	Released bool    `json:"released"`

	// Where
	SpotName  string `json:"spot_name"`
	WaterBody string `json:"water_body,omitempty"`

	// Tackle
	Bait   string `json:"bait,omitempty"`
	Method string `json:"method,omitempty"`
	Rig    string `json:"rig,omitempty"`
	Notes  string `json:"notes,omitempty"`

	// Solunar conditions at catch time
	MoonPhase     string `json:"moon_phase"`
	Illumination  int    `json:"illumination"`
	HourScore     int    `json:"hour_score"`
	SolunarRating int    `json:"solunar_rating"`
}

// CatchFilter narrows ListCatches. Zero values mean "no constraint".
type CatchFilter struct {
	From    time.Time
	To      time.Time
	Species string
	Limit   int
}
