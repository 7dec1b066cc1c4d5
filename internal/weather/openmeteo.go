package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	openMeteoForecastURL  = "https://api.open-meteo.com/v1/forecast"
	openMeteoGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
)

type OpenMeteoClient struct {
	city         string
	country      string
	latitude     float64
	longitude    float64
	forecastURL  string
	geocodingURL string
	client       *http.Client
}

func NewOpenMeteoClient(city, country string, latitude, longitude float64) *OpenMeteoClient {
	return &OpenMeteoClient{
		city:         city,
		country:      country,
		latitude:     latitude,
		longitude:    longitude,
		forecastURL:  openMeteoForecastURL,
		geocodingURL: openMeteoGeocodingURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type openMeteoResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Time             string  `json:"time"`
		Temperature      float64 `json:"temperature_2m"`
		RelativeHumidity float64 `json:"relative_humidity_2m"`
		SurfacePressure  float64 `json:"surface_pressure"`
		WindSpeed        float64 `json:"wind_speed_10m"`
		WindDirection    float64 `json:"wind_direction_10m"`
		WeatherCode      int     `json:"weather_code"`
		CloudCover       float64 `json:"cloud_cover"`
	} `json:"current"`
	Daily struct {
		Sunrise []string `json:"sunrise"`
		Sunset  []string `json:"sunset"`
	} `json:"daily"`
}

type openMeteoGeoResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

func (c *OpenMeteoClient) Get(ctx context.Context) (*Data, error) {
	lat, lon, err := c.resolveLocation(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.6f", lat))
	query.Set("longitude", fmt.Sprintf("%.6f", lon))
	query.Set("current", "temperature_2m,relative_humidity_2m,surface_pressure,wind_speed_10m,wind_direction_10m,weather_code,cloud_cover")
	query.Set("daily", "sunrise,sunset")
	query.Set("timezone", "auto")
	query.Set("forecast_days", "1")
	query.Set("wind_speed_unit", "kmh")

	var payload openMeteoResponse
	if err := c.getJSON(ctx, c.forecastURL, query, &payload); err != nil {
		return nil, fmt.Errorf("open-meteo %w", err)
	}

	if strings.TrimSpace(payload.Current.Time) == "" {
		return nil, fmt.Errorf("open-meteo current data missing")
	}

	observed := parseOpenMeteoTime(payload.Current.Time, payload.Timezone)
	sunrise, sunset := pickOpenMeteoSunTimes(observed, payload.Timezone, payload.Daily.Sunrise, payload.Daily.Sunset)
	condition, description := openMeteoDescribe(payload.Current.WeatherCode)

	return &Data{
		Provider:      "openmeteo",
		Temperature:   math.Round(payload.Current.Temperature),
		Humidity:      int(math.Round(payload.Current.RelativeHumidity)),
		Pressure:      int(math.Round(payload.Current.SurfacePressure)),
		WindSpeed:     math.Round(payload.Current.WindSpeed),
		WindDirection: WindDirection(payload.Current.WindDirection),
		Condition:     condition,
		Description:   description,
		Clouds:        int(math.Round(payload.Current.CloudCover)),
		Sunrise:       sunrise,
		Sunset:        sunset,
		ObservedAt:    observed,
	}, nil
}

func (c *OpenMeteoClient) resolveLocation(ctx context.Context) (float64, float64, error) {
	if c.latitude != 0 || c.longitude != 0 {
		return c.latitude, c.longitude, nil
	}

	if strings.TrimSpace(c.city) == "" {
		return 0, 0, fmt.Errorf("open-meteo location is empty")
	}

	query := url.Values{}
	query.Set("name", c.city)
	query.Set("count", "1")
	query.Set("language", "ro")
	query.Set("format", "json")
	if strings.TrimSpace(c.country) != "" {
		query.Set("country", c.country)
	}

	var payload openMeteoGeoResponse
	if err := c.getJSON(ctx, c.geocodingURL, query, &payload); err != nil {
		return 0, 0, fmt.Errorf("open-meteo geocoding %w", err)
	}

	if len(payload.Results) == 0 {
		return 0, 0, fmt.Errorf("open-meteo geocoding found no results")
	}

	c.latitude = payload.Results[0].Latitude
	c.longitude = payload.Results[0].Longitude

	return c.latitude, c.longitude, nil
}

func (c *OpenMeteoClient) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func parseOpenMeteoTime(value, timezone string) time.Time {
	loc := time.UTC
	if strings.TrimSpace(timezone) != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			loc = parsed
		}
	}

	if t, err := time.ParseInLocation("2006-01-02T15:04", value, loc); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(time.RFC3339, value, loc); err == nil {
		return t
	}
	return time.Time{}
}

// pickOpenMeteoSunTimes returns the sunrise/sunset pair on the observed
// date, or the closest one when the response does not cover it.
func pickOpenMeteoSunTimes(observed time.Time, timezone string, sunrises, sunsets []string) (time.Time, time.Time) {
	count := len(sunrises)
	if len(sunsets) < count {
		count = len(sunsets)
	}

	observedDate := time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, observed.Location())
	closestDiff := time.Duration(1<<63 - 1)
	var closestSunrise, closestSunset time.Time

	for i := 0; i < count; i++ {
		sunrise := parseOpenMeteoTime(sunrises[i], timezone)
		sunset := parseOpenMeteoTime(sunsets[i], timezone)
		if sunrise.IsZero() || sunset.IsZero() {
			continue
		}
		if sameDate(observed, sunrise) {
			return sunrise, sunset
		}

		sunriseDate := time.Date(sunrise.Year(), sunrise.Month(), sunrise.Day(), 0, 0, 0, 0, sunrise.Location())
		diff := observedDate.Sub(sunriseDate)
		if diff < 0 {
			diff = -diff
		}
		if diff < closestDiff {
			closestDiff = diff
			closestSunrise = sunrise
			closestSunset = sunset
		}
	}

	return closestSunrise, closestSunset
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
