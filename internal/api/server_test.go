package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"fishing-solunar/internal/journal"
	"fishing-solunar/internal/logger"
	"fishing-solunar/internal/solunar"
	"fishing-solunar/internal/storage"
	"fishing-solunar/internal/weather"

	"github.com/stretchr/testify/require"
)

// ---- Test doubles ----

type stubForecaster struct {
	latest *solunar.Data
}

func (f *stubForecaster) Latest() *solunar.Data { return f.latest }
func (f *stubForecaster) IsRunning() bool       { return f.latest != nil }

type stubWeather struct {
	calls int
	err   error
}

func (w *stubWeather) Get(ctx context.Context) (*weather.Data, error) {
	w.calls++
	if w.err != nil {
		return nil, w.err
	}
	return &weather.Data{
		Provider:    "stub",
		Temperature: 12,
		Condition:   weather.ConditionClear,
		Sunrise:     time.Date(2024, time.January, 11, 6, 12, 0, 0, time.UTC),
		Sunset:      time.Date(2024, time.January, 11, 14, 57, 0, 0, time.UTC),
	}, nil
}

type stubBroker struct {
	connected bool
}

func (b *stubBroker) IsConnected() bool { return b.connected }

type stubCounter struct {
	count int64
	err   error
}

func (c *stubCounter) CountCatches() (int64, error) { return c.count, c.err }

type fixture struct {
	server *Server
	now    time.Time
}

func newFixture(t *testing.T, cfg ServerConfig) *fixture {
	t.Helper()

	engine := solunar.NewEngine(solunar.Timisoara)
	cfg.Engine = engine
	cfg.Zone = time.UTC
	cfg.Logger = logger.Nop()

	if cfg.Journal == nil {
		db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "journal.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		cfg.Journal = journal.New(db, engine, time.UTC, logger.Nop())
	}

	f := &fixture{now: time.Date(2024, time.January, 11, 6, 0, 0, 0, time.UTC)}
	f.server = NewServer(cfg)
	f.server.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// ---- Solunar ----

func TestHealth(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decode(t, rec, &body)
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, false, body["has_forecast"])
	require.Equal(t, false, body["mqtt_connected"])
	require.Equal(t, 0.0, body["catch_count"])
}

func TestHealthReportsBrokerAndCatches(t *testing.T) {
	f := newFixture(t, ServerConfig{
		Publisher: &stubBroker{connected: true},
		Catches:   &stubCounter{count: 12},
	})

	rec := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decode(t, rec, &body)
	require.Equal(t, true, body["mqtt_connected"])
	require.Equal(t, 12.0, body["catch_count"])
}

func TestHealthSurvivesCountFailure(t *testing.T) {
	f := newFixture(t, ServerConfig{Catches: &stubCounter{err: errors.New("locked")}})

	rec := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"catch_count":0`)
}

func TestSolunarForDate(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodGet, "/api/v1/solunar?date=2024-01-11", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data solunar.Data
	decode(t, rec, &data)
	require.Equal(t, 83, data.DailyScore)
	require.Equal(t, solunar.RatingExcellent, data.Rating)
	require.Equal(t, []solunar.BestTime{{Hour: 7, Score: 87}, {Hour: 8, Score: 87}, {Hour: 9, Score: 87}, {Hour: 16, Score: 82}}, data.BestTimes)
}

func TestSolunarDefaultsToNow(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodGet, "/api/v1/solunar", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data solunar.Data
	decode(t, rec, &data)
	require.True(t, data.Date.Equal(f.now))
}

func TestSolunarBadDate(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodGet, "/api/v1/solunar?date=11.01.2024", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "error")
}

func TestToday(t *testing.T) {
	forecaster := &stubForecaster{}
	f := newFixture(t, ServerConfig{Forecaster: forecaster})

	rec := f.do(t, http.MethodGet, "/api/v1/solunar/today", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	data := solunar.Compute(f.now)
	forecaster.latest = &data

	rec = f.do(t, http.MethodGet, "/api/v1/solunar/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got solunar.Data
	decode(t, rec, &got)
	require.Equal(t, data.DailyScore, got.DailyScore)
}

func TestForecast(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodGet, "/api/v1/solunar/forecast?from=2024-01-11&days=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Location solunar.Location  `json:"location"`
		Days     []solunar.Summary `json:"days"`
	}
	decode(t, rec, &body)
	require.Equal(t, solunar.Timisoara, body.Location)
	require.Len(t, body.Days, 3)
	require.Equal(t, "2024-01-11", body.Days[0].Date)
	require.Equal(t, "2024-01-13", body.Days[2].Date)
	require.Equal(t, 83, body.Days[0].DailyScore)
	require.Equal(t, []int{7, 8, 9, 16}, body.Days[0].BestHours)
}

func TestForecastDefaultDays(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodGet, "/api/v1/solunar/forecast", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Days []solunar.Summary `json:"days"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Days, defaultForecastDays)
}

func TestForecastDaysOutOfRange(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	for _, days := range []string{"0", "32", "x"} {
		rec := f.do(t, http.MethodGet, "/api/v1/solunar/forecast?days="+days, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, days)
	}
}

func TestMoon(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodGet, "/api/v1/moon?date=2024-01-11", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Date      string            `json:"date"`
		MoonPhase solunar.MoonPhase `json:"moonPhase"`
	}
	decode(t, rec, &body)
	require.Equal(t, "2024-01-11", body.Date)
	require.Equal(t, solunar.NewMoon, body.MoonPhase.PhaseName)
	require.Equal(t, "Lună nouă", body.MoonPhase.LocalName)
	require.Equal(t, 0, body.MoonPhase.Illumination)
}

func TestSun(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodGet, "/api/v1/sun?date=2024-01-11", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SunTimes solunar.SunTimes `json:"sunTimes"`
	}
	decode(t, rec, &body)
	require.Equal(t, "08:12", body.SunTimes.Sunrise.Format("15:04"))
	require.Equal(t, "16:57", body.SunTimes.Sunset.Format("15:04"))
}

// ---- Weather ----

func TestWeatherDisabled(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodGet, "/api/v1/weather", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWeatherIsCached(t *testing.T) {
	provider := &stubWeather{}
	f := newFixture(t, ServerConfig{Weather: provider})

	rec := f.do(t, http.MethodGet, "/api/v1/weather", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/v1/weather", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, provider.calls)

	var data weather.Data
	decode(t, rec, &data)
	require.Equal(t, weather.ConditionClear, data.Condition)

	f.now = f.now.Add(weatherCacheTTL)
	f.do(t, http.MethodGet, "/api/v1/weather", nil)
	require.Equal(t, 2, provider.calls)
}

func TestWeatherServesStaleOnFailure(t *testing.T) {
	provider := &stubWeather{}
	f := newFixture(t, ServerConfig{Weather: provider})

	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/weather", nil).Code)

	provider.err = errors.New("timeout")
	f.now = f.now.Add(time.Hour)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/weather", nil).Code)
	require.Equal(t, 2, provider.calls)
}

func TestWeatherReportsDaylight(t *testing.T) {
	provider := &stubWeather{}
	f := newFixture(t, ServerConfig{Weather: provider})

	var body map[string]interface{}
	decode(t, f.do(t, http.MethodGet, "/api/v1/weather", nil), &body)
	require.Equal(t, false, body["is_daylight"])
	require.Equal(t, weather.ConditionClear, body["condition"])

	f.now = time.Date(2024, time.January, 11, 10, 0, 0, 0, time.UTC)
	body = nil
	decode(t, f.do(t, http.MethodGet, "/api/v1/weather", nil), &body)
	require.Equal(t, true, body["is_daylight"])
}

func TestWeatherUnavailable(t *testing.T) {
	f := newFixture(t, ServerConfig{Weather: &stubWeather{err: errors.New("down")}})

	rec := f.do(t, http.MethodGet, "/api/v1/weather", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// ---- Journal ----

func TestJournalLifecycle(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodPost, "/api/v1/journal", map[string]interface{}{
		"caught_at": "2024-01-11T08:30:00Z",
		"species":   "Crap",
		"weight_kg": 4.2,
		"length_cm": 58,
		"spot_name": "Lacul Surduc",
		"released":  true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created storage.CatchEntry
	decode(t, rec, &created)
	require.NotEmpty(t, created.UUID)
	require.Equal(t, "Lună nouă", created.MoonPhase)
	require.Equal(t, 87, created.HourScore)
	require.Equal(t, 8, created.SolunarRating)

	rec = f.do(t, http.MethodGet, "/api/v1/journal/"+created.UUID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/journal?from=2024-01-11&to=2024-01-11", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []storage.CatchEntry
	decode(t, rec, &entries)
	require.Len(t, entries, 1)

	rec = f.do(t, http.MethodGet, "/api/v1/journal?from=2024-01-12", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries = nil
	decode(t, rec, &entries)
	require.Empty(t, entries)

	rec = f.do(t, http.MethodGet, "/api/v1/journal/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats journal.Stats
	decode(t, rec, &stats)
	require.Equal(t, 1, stats.TotalCatches)
	require.Equal(t, "Crap", stats.FavoriteSpecies)
	require.Equal(t, 100.0, stats.ReleaseRate)

	rec = f.do(t, http.MethodDelete, "/api/v1/journal/"+created.UUID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/journal/"+created.UUID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/journal/"+created.UUID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordCatchValidation(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodPost, "/api/v1/journal", map[string]interface{}{"species": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/journal", "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCatchesBadDate(t *testing.T) {
	f := newFixture(t, ServerConfig{})

	rec := f.do(t, http.MethodGet, "/api/v1/journal?from=yesterday", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/journal/stats?to=2024/01/01", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
