package weather

import (
	"context"
	"fmt"
	"time"
)

type Provider interface {
	Get(ctx context.Context) (*Data, error)
}

// Settings selects and configures a provider.
type Settings struct {
	Provider  string
	APIKey    string
	City      string
	Country   string
	Latitude  float64
	Longitude float64
}

// NewProvider builds the client named by s.Provider ("openweather" or
// "openmeteo").
func NewProvider(s Settings) (Provider, error) {
	switch s.Provider {
	case "openweather":
		return NewOpenWeatherClient(s.APIKey, s.City, s.Country, s.Latitude, s.Longitude), nil
	case "openmeteo":
		return NewOpenMeteoClient(s.City, s.Country, s.Latitude, s.Longitude), nil
	default:
		return nil, fmt.Errorf("weather provider not supported: %q", s.Provider)
	}
}

// Data is the current weather at the fishing location, in metric units.
type Data struct {
	Provider      string    `json:"provider"`
	Temperature   float64   `json:"temperature_c"`
	Humidity      int       `json:"humidity"`
	Pressure      int       `json:"pressure_mbar"`
	WindSpeed     float64   `json:"wind_speed_kmh"`
	WindDirection string    `json:"wind_direction"`
	Condition     string    `json:"condition"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon,omitempty"`
	Clouds        int       `json:"clouds"`
	Sunrise       time.Time `json:"sunrise"`
	Sunset        time.Time `json:"sunset"`
	ObservedAt    time.Time `json:"observed_at"`
}

func (d *Data) IsDaylight(at time.Time) bool {
	if d == nil || d.Sunrise.IsZero() || d.Sunset.IsZero() {
		return false
	}
	return at.After(d.Sunrise) && at.Before(d.Sunset)
}
