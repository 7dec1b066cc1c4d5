package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fishing-solunar/config"
	"fishing-solunar/internal/api"
	"fishing-solunar/internal/forecaster"
	"fishing-solunar/internal/journal"
	"fishing-solunar/internal/logger"
	"fishing-solunar/internal/mqtt"
	"fishing-solunar/internal/solunar"
	"fishing-solunar/internal/storage"
	"fishing-solunar/internal/weather"

	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fishing-solunar",
		Short: "Solunar fishing forecast",
		Long:  "Moon phase, sun times and hourly fishing activity scores for a fixed location",

		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(todayCmd())
	rootCmd.AddCommand(forecastCmd())
	rootCmd.AddCommand(moonCmd())
	rootCmd.AddCommand(journalCmd())
	rootCmd.AddCommand(weatherCmd())
	return rootCmd
}

// setup loads the configuration and the logger shared by all commands.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = logger.DebugLevel
	}
	return cfg, logger.Get(level), nil
}

func newEngine(cfg *config.Config) *solunar.Engine {
	return solunar.NewEngine(solunar.Location{
		Name:      cfg.Location.Name,
		Latitude:  cfg.Location.Latitude,
		Longitude: cfg.Location.Longitude,
	})
}

func newWeatherProvider(cfg *config.Config) (weather.Provider, error) {
	if !cfg.Weather.Enabled {
		return nil, nil
	}

	lat, lon := cfg.Location.Latitude, cfg.Location.Longitude
	if cfg.Weather.City != "" {
		lat, lon = 0, 0
	}
	return weather.NewProvider(weather.Settings{
		Provider:  config.NormalizeProvider(cfg.Weather.Provider),
		APIKey:    cfg.Weather.APIKey,
		City:      cfg.Weather.City,
		Country:   cfg.Weather.Country,
		Latitude:  lat,
		Longitude: lon,
	})
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the forecast service",
		Long:  "Start the forecaster, API server, and MQTT publisher",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			zone := cfg.Location.TimeZone()
			engine := newEngine(cfg)

			db, err := storage.NewDatabase(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			log.Infow("database opened", "path", cfg.Database.Path)

			publisher, err := mqtt.NewPublisher(mqtt.PublisherConfig{
				Broker:      cfg.MQTT.Broker,
				ClientID:    cfg.MQTT.ClientID,
				Username:    cfg.MQTT.Username,
				Password:    cfg.MQTT.Password,
				TopicPrefix: cfg.MQTT.TopicPrefix,
				Enabled:     cfg.MQTT.Enabled,
			}, log)
			if err != nil {
				log.Warnw("MQTT connection failed, publishing disabled", "error", err)
				publisher, _ = mqtt.NewPublisher(mqtt.PublisherConfig{Enabled: false}, log)
			} else if cfg.MQTT.Enabled {
				if err := publisher.PublishHomeAssistantDiscovery(); err != nil {
					log.Warnw("Home Assistant discovery failed", "error", err)
				}
			}
			defer publisher.Close()

			provider, err := newWeatherProvider(cfg)
			if err != nil {
				return err
			}

			fc := forecaster.New(forecaster.Config{
				Engine:    engine,
				Publisher: publisher,
				Interval:  cfg.Forecast.Interval,
				Enabled:   cfg.Forecast.Enabled,
				Zone:      zone,
				Logger:    log,
			})

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			go func() {
				if err := fc.Start(ctx); err != nil {
					log.Errorw("forecaster error", "error", err)
				}
			}()

			var server *api.Server
			if cfg.API.Enabled {
				server = api.NewServer(api.ServerConfig{
					Port:       cfg.API.Port,
					Engine:     engine,
					Forecaster: fc,
					Journal:    journal.New(db, engine, zone, log),
					Publisher:  publisher,
					Catches:    db,
					Weather:    provider,
					Zone:       zone,
					Logger:     log,
				})

				go func() {
					if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Errorw("API server error", "error", err)
						cancel()
					}
				}()
			}

			log.Infow("fishing solunar started", "location", cfg.Location.Name)

			<-ctx.Done()
			log.Info("shutting down")

			if server != nil {
				shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
				defer stop()
				if err := server.Stop(shutdownCtx); err != nil {
					log.Warnw("API shutdown", "error", err)
				}
			}
			return nil
		},
	}
}
