package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

type OpenWeatherClient struct {
	apiKey    string
	city      string
	country   string
	latitude  float64
	longitude float64
	baseURL   string
	client    *http.Client
}

func NewOpenWeatherClient(apiKey, city, country string, latitude, longitude float64) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:    apiKey,
		city:      city,
		country:   country,
		latitude:  latitude,
		longitude: longitude,
		baseURL:   openWeatherBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type openWeatherResponse struct {
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
		Pressure int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Dt       int64 `json:"dt"`
	Timezone int64 `json:"timezone"`
	Sys      struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

func (c *OpenWeatherClient) Get(ctx context.Context) (*Data, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is empty")
	}

	query := url.Values{}
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	query.Set("lang", "ro")

	if c.latitude != 0 || c.longitude != 0 {
		query.Set("lat", fmt.Sprintf("%.6f", c.latitude))
		query.Set("lon", fmt.Sprintf("%.6f", c.longitude))
	} else if c.city != "" {
		if c.country != "" {
			query.Set("q", fmt.Sprintf("%s,%s", c.city, c.country))
		} else {
			query.Set("q", c.city)
		}
	} else {
		return nil, fmt.Errorf("openweather location is empty")
	}

	endpoint := c.baseURL + "/weather?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("openweather request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openweather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openweather bad status: %s", resp.Status)
	}

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("openweather decode: %w", err)
	}

	condition := ConditionUnknown
	description := ""
	icon := ""
	if len(payload.Weather) > 0 {
		condition = openWeatherCondition(payload.Weather[0].ID)
		description = payload.Weather[0].Description
		icon = payload.Weather[0].Icon
	}

	zone := time.FixedZone("", int(payload.Timezone))

	return &Data{
		Provider:      "openweather",
		Temperature:   math.Round(payload.Main.Temp),
		Humidity:      payload.Main.Humidity,
		Pressure:      payload.Main.Pressure,
		WindSpeed:     math.Round(payload.Wind.Speed * 3.6),
		WindDirection: WindDirection(payload.Wind.Deg),
		Condition:     condition,
		Description:   description,
		Icon:          icon,
		Clouds:        payload.Clouds.All,
		Sunrise:       time.Unix(payload.Sys.Sunrise, 0).In(zone),
		Sunset:        time.Unix(payload.Sys.Sunset, 0).In(zone),
		ObservedAt:    time.Unix(payload.Dt, 0).In(zone),
	}, nil
}
