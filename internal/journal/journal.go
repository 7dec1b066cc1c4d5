// Package journal records catches and stamps each one with the solunar
// conditions of the moment it was caught.
package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fishing-solunar/internal/logger"
	"fishing-solunar/internal/solunar"
	"fishing-solunar/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidCatch = errors.New("invalid catch")
	ErrNotFound     = storage.ErrNotFound
)

// Store is the persistence the journal needs.
type Store interface {
	SaveCatch(entry *storage.CatchEntry) error
	GetCatch(id string) (*storage.CatchEntry, error)
	ListCatches(filter storage.CatchFilter) ([]storage.CatchEntry, error)
	DeleteCatch(id string) error
}

// NewCatch is the input for Record.
type NewCatch struct {
	CaughtAt  time.Time `json:"caught_at"`
	Species   string    `json:"species"`
	LengthCm  float64   `json:"length_cm"`
	WeightKg  float64   `json:"weight_kg"`
	Released  bool      `json:"released"`
	SpotName  string    `json:"spot_name"`
	WaterBody string    `json:"water_body"`
	Bait      string    `json:"bait"`
	Method    string    `json:"method"`
	Rig       string    `json:"rig"`
	Notes     string    `json:"notes"`
}

type Journal struct {
	store  Store
	engine *solunar.Engine
	zone   *time.Location
	log    *logger.Logger
	newID  func() string
	now    func() time.Time
}

func New(store Store, engine *solunar.Engine, zone *time.Location, log *logger.Logger) *Journal {
	if zone == nil {
		zone = time.Local
	}
	return &Journal{
		store:  store,
		engine: engine,
		zone:   zone,
		log:    log.Named("journal"),
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
	}
}

// Record validates in, stamps it with the solunar conditions of its catch
// hour and saves it.
func (j *Journal) Record(in NewCatch) (*storage.CatchEntry, error) {
	if err := j.validate(&in); err != nil {
		return nil, err
	}

	local := in.CaughtAt.In(j.zone)
	forecast := j.engine.Compute(local)

	entry := &storage.CatchEntry{
		UUID:          j.newID(),
		CaughtAt:      local.UTC(),
		Species:       in.Species,
		LengthCm:      in.LengthCm,
		WeightKg:      in.WeightKg,
		Released:      in.Released,
		SpotName:      in.SpotName,
		WaterBody:     in.WaterBody,
		Bait:          in.Bait,
		Method:        in.Method,
		Rig:           in.Rig,
		Notes:         in.Notes,
		MoonPhase:     forecast.MoonPhase.LocalName,
		Illumination:  forecast.MoonPhase.Illumination,
		HourScore:     forecast.HourlyScores[local.Hour()],
		SolunarRating: solunar.JournalRating(forecast.DailyScore),
	}

	if err := j.store.SaveCatch(entry); err != nil {
		return nil, fmt.Errorf("save catch: %w", err)
	}

	j.log.Infow("catch recorded",
		"id", entry.UUID,
		"species", entry.Species,
		"weight_kg", entry.WeightKg,
		"moon_phase", entry.MoonPhase,
		"solunar_rating", entry.SolunarRating,
	)
	return entry, nil
}

func (j *Journal) validate(in *NewCatch) error {
	in.Species = strings.TrimSpace(in.Species)
	in.SpotName = strings.TrimSpace(in.SpotName)

	if in.Species == "" {
		return fmt.Errorf("%w: species is required", ErrInvalidCatch)
	}
	if in.WeightKg < 0 || in.LengthCm < 0 {
		return fmt.Errorf("%w: weight and length cannot be negative", ErrInvalidCatch)
	}

	now := j.now()
	if in.CaughtAt.IsZero() {
		in.CaughtAt = now
	}
	if in.CaughtAt.After(now) {
		return fmt.Errorf("%w: caught_at is in the future", ErrInvalidCatch)
	}
	return nil
}

func (j *Journal) Get(id string) (*storage.CatchEntry, error) {
	return j.store.GetCatch(id)
}

func (j *Journal) List(filter storage.CatchFilter) ([]storage.CatchEntry, error) {
	entries, err := j.store.ListCatches(filter)
	if err != nil {
		return nil, fmt.Errorf("list catches: %w", err)
	}
	return entries, nil
}

func (j *Journal) Delete(id string) error {
	if err := j.store.DeleteCatch(id); err != nil {
		return err
	}
	j.log.Infow("catch deleted", "id", id)
	return nil
}

// Stats summarizes the catches matching filter.
func (j *Journal) Stats(filter storage.CatchFilter) (Stats, error) {
	entries, err := j.List(filter)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(entries, j.zone), nil
}
