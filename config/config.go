package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Location LocationConfig `mapstructure:"location"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	API      APIConfig      `mapstructure:"api"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Database DatabaseConfig `mapstructure:"database"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Log      LogConfig      `mapstructure:"log"`
}

type LocationConfig struct {
	Name      string  `mapstructure:"name"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Timezone  string  `mapstructure:"timezone"`
}

type ForecastConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type APIConfig struct {
	Port    int  `mapstructure:"port"`
	Enabled bool `mapstructure:"enabled"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// WeatherConfig selects the current-conditions provider. Units are always
// metric. City, when set, is geocoded instead of using the location
// coordinates.
type WeatherConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	City     string `mapstructure:"city"`
	Country  string `mapstructure:"country"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configPath (or config.yaml from the usual directories) and
// applies SOLUNAR_* environment overrides on top of the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/fishing-solunar")
	}

	v.SetEnvPrefix("solunar")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("location.name", "Timișoara")
	v.SetDefault("location.latitude", 45.7489)
	v.SetDefault("location.longitude", 21.2087)
	v.SetDefault("location.timezone", "Europe/Bucharest")
	v.SetDefault("forecast.enabled", true)
	v.SetDefault("forecast.interval", "1h")
	v.SetDefault("api.port", 8046)
	v.SetDefault("api.enabled", true)
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.topic_prefix", "fishing")
	v.SetDefault("mqtt.client_id", "fishing-solunar")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("database.path", "./journal.db")
	v.SetDefault("weather.enabled", false)
	v.SetDefault("weather.provider", "openmeteo")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.city", "")
	v.SetDefault("weather.country", "")
	v.SetDefault("log.level", "info")
}

// MaxLatitude keeps the sunrise hour angle defined on every day of the
// year (sun never circumpolar).
const MaxLatitude = 66.5

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if math.Abs(c.Location.Latitude) > MaxLatitude {
		return fmt.Errorf("location.latitude %v out of range, sun times need |latitude| <= %v", c.Location.Latitude, MaxLatitude)
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		return fmt.Errorf("location.longitude %v out of range", c.Location.Longitude)
	}
	if c.Forecast.Enabled && c.Forecast.Interval <= 0 {
		return errors.New("forecast.interval must be positive")
	}
	if c.API.Enabled && (c.API.Port <= 0 || c.API.Port > 65535) {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if c.Weather.Enabled {
		switch NormalizeProvider(c.Weather.Provider) {
		case ProviderOpenWeather:
			if c.Weather.APIKey == "" {
				return errors.New("weather.api_key is required for openweather")
			}
		case ProviderOpenMeteo:
		default:
			return fmt.Errorf("weather.provider %q not supported", c.Weather.Provider)
		}
	}
	return nil
}

const (
	ProviderOpenWeather = "openweather"
	ProviderOpenMeteo   = "openmeteo"
)

// NormalizeProvider folds the spellings accepted for provider names.
func NormalizeProvider(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openweather", "openweathermap":
		return ProviderOpenWeather
	case "openmeteo", "open-meteo", "open_meteo":
		return ProviderOpenMeteo
	default:
		return ""
	}
}

// TimeZone resolves the configured zone, falling back to a fixed EET
// offset when the tz database is unavailable.
func (l LocationConfig) TimeZone() *time.Location {
	if l.Timezone != "" {
		if loc, err := time.LoadLocation(l.Timezone); err == nil {
			return loc
		}
	}
	return time.FixedZone("EET", 2*60*60)
}
