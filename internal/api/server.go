package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"fishing-solunar/internal/journal"
	"fishing-solunar/internal/logger"
	"fishing-solunar/internal/solunar"
	"fishing-solunar/internal/storage"
	"fishing-solunar/internal/weather"

	"github.com/gin-gonic/gin"
)

const (
	dateLayout          = "2006-01-02"
	defaultForecastDays = 7
	maxForecastDays     = 31
	defaultListLimit    = 100
	maxListLimit        = 1000
	weatherCacheTTL     = 10 * time.Minute
)

// LatestSource exposes the background forecaster's state.
type LatestSource interface {
	Latest() *solunar.Data
	IsRunning() bool
}

// ConnectionStatus reports whether the MQTT publisher reaches its broker.
type ConnectionStatus interface {
	IsConnected() bool
}

// CatchCounter counts stored catches.
type CatchCounter interface {
	CountCatches() (int64, error)
}

// CatchJournal is the journal API the handlers use.
type CatchJournal interface {
	Record(in journal.NewCatch) (*storage.CatchEntry, error)
	Get(id string) (*storage.CatchEntry, error)
	List(filter storage.CatchFilter) ([]storage.CatchEntry, error)
	Delete(id string) error
	Stats(filter storage.CatchFilter) (journal.Stats, error)
}

type Server struct {
	router     *gin.Engine
	server     *http.Server
	engine     *solunar.Engine
	forecaster LatestSource
	journal    CatchJournal
	publisher  ConnectionStatus
	catches    CatchCounter
	zone       *time.Location
	port       int
	log        *logger.Logger
	now        func() time.Time

	weatherMu   sync.Mutex
	weather     weather.Provider
	weatherData *weather.Data
	weatherAt   time.Time
}

type ServerConfig struct {
	Port       int
	Engine     *solunar.Engine
	Forecaster LatestSource
	Journal    CatchJournal
	Publisher  ConnectionStatus
	Catches    CatchCounter
	Weather    weather.Provider
	Zone       *time.Location
	Logger     *logger.Logger
}

func NewServer(cfg ServerConfig) *Server {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("api")

	zone := cfg.Zone
	if zone == nil {
		zone = time.Local
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	s := &Server{
		router:     router,
		engine:     cfg.Engine,
		forecaster: cfg.Forecaster,
		journal:    cfg.Journal,
		publisher:  cfg.Publisher,
		catches:    cfg.Catches,
		weather:    cfg.Weather,
		zone:       zone,
		port:       cfg.Port,
		log:        log,
		now:        time.Now,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler)

	api := s.router.Group("/api/v1")
	{
		api.GET("/solunar", s.solunarHandler)
		api.GET("/solunar/today", s.todayHandler)
		api.GET("/solunar/forecast", s.forecastHandler)
		api.GET("/moon", s.moonHandler)
		api.GET("/sun", s.sunHandler)
		api.GET("/weather", s.weatherHandler)

		api.GET("/journal", s.listCatchesHandler)
		api.POST("/journal", s.recordCatchHandler)
		api.GET("/journal/stats", s.catchStatsHandler)
		api.GET("/journal/:id", s.getCatchHandler)
		api.DELETE("/journal/:id", s.deleteCatchHandler)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Infow("API server starting", "port", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugw("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	running := false
	hasForecast := false
	if s.forecaster != nil {
		running = s.forecaster.IsRunning()
		hasForecast = s.forecaster.Latest() != nil
	}

	mqttConnected := false
	if s.publisher != nil {
		mqttConnected = s.publisher.IsConnected()
	}

	var catchCount int64
	if s.catches != nil {
		count, err := s.catches.CountCatches()
		if err != nil {
			s.log.Warnw("counting catches failed", "error", err)
		}
		catchCount = count
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"forecasting":    running,
		"has_forecast":   hasForecast,
		"mqtt_connected": mqttConnected,
		"catch_count":    catchCount,
		"location":       s.engine.Location(),
		"timestamp":      s.now(),
	})
}

// dateParam reads the named query parameter as a calendar date in the
// server zone. A missing parameter means now.
func (s *Server) dateParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return s.now().In(s.zone), true
	}
	date, err := time.ParseInLocation(dateLayout, raw, s.zone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid '%s' date format, expected YYYY-MM-DD", name)})
		return time.Time{}, false
	}
	return date, true
}

func (s *Server) solunarHandler(c *gin.Context) {
	date, ok := s.dateParam(c, "date")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.engine.Compute(date))
}

func (s *Server) todayHandler(c *gin.Context) {
	var data *solunar.Data
	if s.forecaster != nil {
		data = s.forecaster.Latest()
	}
	if data == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "No forecast available yet",
		})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) forecastHandler(c *gin.Context) {
	from, ok := s.dateParam(c, "from")
	if !ok {
		return
	}

	days := defaultForecastDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxForecastDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("'days' must be between 1 and %d", maxForecastDays)})
			return
		}
		days = n
	}

	summaries := make([]solunar.Summary, 0, days)
	for i := 0; i < days; i++ {
		data := s.engine.Compute(from.AddDate(0, 0, i))
		summaries = append(summaries, data.Summarize())
	}

	c.JSON(http.StatusOK, gin.H{
		"location": s.engine.Location(),
		"days":     summaries,
	})
}

func (s *Server) moonHandler(c *gin.Context) {
	date, ok := s.dateParam(c, "date")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":      date.Format(dateLayout),
		"moonPhase": solunar.CalculateMoonPhase(date),
	})
}

func (s *Server) sunHandler(c *gin.Context) {
	date, ok := s.dateParam(c, "date")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":     date.Format(dateLayout),
		"location": s.engine.Location(),
		"sunTimes": s.engine.SunTimes(date),
	})
}

// writeError maps journal errors to status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, journal.ErrInvalidCatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, journal.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
