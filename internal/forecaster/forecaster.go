package forecaster

import (
	"context"
	"sync"
	"time"

	"fishing-solunar/internal/logger"
	"fishing-solunar/internal/solunar"
)

// Publisher receives every freshly computed forecast.
type Publisher interface {
	Publish(data *solunar.Data) error
}

// Forecaster recomputes today's solunar data on a fixed interval and keeps
// the latest result for readers.
type Forecaster struct {
	engine    *solunar.Engine
	publisher Publisher
	interval  time.Duration
	enabled   bool
	zone      *time.Location
	log       *logger.Logger
	now       func() time.Time

	mu        sync.RWMutex
	latest    *solunar.Data
	isRunning bool
}

type Config struct {
	Engine    *solunar.Engine
	Publisher Publisher
	Interval  time.Duration
	Enabled   bool
	Zone      *time.Location
	Logger    *logger.Logger
}

func New(cfg Config) *Forecaster {
	zone := cfg.Zone
	if zone == nil {
		zone = time.Local
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Forecaster{
		engine:    cfg.Engine,
		publisher: cfg.Publisher,
		interval:  cfg.Interval,
		enabled:   cfg.Enabled,
		zone:      zone,
		log:       log.Named("forecaster"),
		now:       time.Now,
	}
}

// Start refreshes immediately and then on every tick until ctx is done.
func (f *Forecaster) Start(ctx context.Context) error {
	if !f.enabled {
		f.log.Info("forecaster is disabled")
		return nil
	}

	f.mu.Lock()
	f.isRunning = true
	f.mu.Unlock()

	f.log.Infow("starting forecaster", "interval", f.interval)

	f.refresh()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.log.Info("forecaster stopped")
			f.mu.Lock()
			f.isRunning = false
			f.mu.Unlock()
			return nil
		case <-ticker.C:
			f.refresh()
		}
	}
}

func (f *Forecaster) refresh() {
	data := f.RefreshOnce()

	if f.publisher != nil {
		if err := f.publisher.Publish(data); err != nil {
			f.log.Warnw("error publishing forecast", "error", err)
		}
	}

	f.log.Infow("forecast updated",
		"date", data.Date.Format("2006-01-02"),
		"dailyScore", data.DailyScore,
		"rating", data.Rating,
		"moonPhase", data.MoonPhase.PhaseName,
	)
}

// RefreshOnce computes the forecast for the current instant in the
// configured zone and stores it as the latest result.
func (f *Forecaster) RefreshOnce() *solunar.Data {
	data := f.engine.Compute(f.now().In(f.zone))

	f.mu.Lock()
	f.latest = &data
	f.mu.Unlock()

	return &data
}

func (f *Forecaster) Latest() *solunar.Data {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest
}

func (f *Forecaster) IsRunning() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.isRunning
}
