package api

import (
	"context"
	"net/http"
	"time"

	"fishing-solunar/internal/weather"

	"github.com/gin-gonic/gin"
)

type weatherResponse struct {
	*weather.Data
	IsDaylight bool `json:"is_daylight"`
}

func (s *Server) weatherHandler(c *gin.Context) {
	if s.weather == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Weather is disabled"})
		return
	}

	now := s.now()
	data := s.getWeather(c.Request.Context(), now)
	if data == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Weather data unavailable"})
		return
	}
	c.JSON(http.StatusOK, weatherResponse{Data: data, IsDaylight: data.IsDaylight(now)})
}

// getWeather returns the cached conditions while they are fresh. On a
// failed refresh the stale copy, if any, is returned.
func (s *Server) getWeather(ctx context.Context, now time.Time) *weather.Data {
	s.weatherMu.Lock()
	defer s.weatherMu.Unlock()

	if s.weather == nil {
		return nil
	}

	if s.weatherData != nil && now.Sub(s.weatherAt) < weatherCacheTTL {
		return s.weatherData
	}

	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()

	data, err := s.weather.Get(ctx)
	if err != nil {
		s.log.Warnw("weather fetch failed", "error", err)
		return s.weatherData
	}

	s.weatherData = data
	s.weatherAt = now
	return data
}
