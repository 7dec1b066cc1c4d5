package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"fishing-solunar/internal/journal"
	"fishing-solunar/internal/solunar"
	"fishing-solunar/internal/storage"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// parseDate reads YYYY-MM-DD in zone; an empty value means now.
func parseDate(value string, zone *time.Location) (time.Time, error) {
	if value == "" {
		return time.Now().In(zone), nil
	}
	t, err := time.ParseInLocation(dateLayout, value, zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func printJSON(w io.Writer, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func printForecast(w io.Writer, data solunar.Data) {
	fmt.Fprintf(w, "%s, %s\n", data.Location.Name, data.Date.Format(dateLayout))
	fmt.Fprintf(w, "  Score:        %d/100 (%s)\n", data.DailyScore, data.Rating)
	fmt.Fprintf(w, "  Moon:         %s %s, %d%% illuminated\n", data.MoonPhase.Emoji, data.MoonPhase.LocalName, data.MoonPhase.Illumination)
	fmt.Fprintf(w, "  Sunrise:      %s\n", data.SunTimes.Sunrise.Format("15:04"))
	fmt.Fprintf(w, "  Sunset:       %s\n", data.SunTimes.Sunset.Format("15:04"))

	if len(data.BestTimes) == 0 {
		fmt.Fprintln(w, "  Best hours:   none above threshold")
		return
	}
	hours := make([]string, 0, len(data.BestTimes))
	for _, bt := range data.BestTimes {
		hours = append(hours, fmt.Sprintf("%02d:00 (%d)", bt.Hour, bt.Score))
	}
	fmt.Fprintf(w, "  Best hours:   %s\n", strings.Join(hours, ", "))
}

func todayCmd() *cobra.Command {
	var (
		date   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the solunar forecast for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			t, err := parseDate(date, cfg.Location.TimeZone())
			if err != nil {
				return err
			}

			data := newEngine(cfg).Compute(t)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), data)
			}
			printForecast(cmd.OutOrStdout(), data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full forecast as JSON")
	return cmd
}

func forecastCmd() *cobra.Command {
	var (
		from string
		days int
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Show daily scores for the coming days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 || days > 31 {
				return fmt.Errorf("days must be between 1 and 31")
			}

			cfg, _, err := setup()
			if err != nil {
				return err
			}

			start, err := parseDate(from, cfg.Location.TimeZone())
			if err != nil {
				return err
			}

			engine := newEngine(cfg)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tSCORE\tRATING\tMOON\tSUNRISE\tSUNSET\tBEST HOURS")
			for i := 0; i < days; i++ {
				data := engine.Compute(start.AddDate(0, 0, i))
				s := data.Summarize()
				best := make([]string, 0, len(s.BestHours))
				for _, h := range s.BestHours {
					best = append(best, fmt.Sprintf("%02d", h))
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s %s\t%s\t%s\t%s\n",
					s.Date, s.DailyScore, s.Rating, s.Emoji, data.MoonPhase.LocalName,
					s.Sunrise, s.Sunset, strings.Join(best, " "))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD), defaults to today")
	cmd.Flags().IntVarP(&days, "days", "n", 7, "number of days (1-31)")
	return cmd
}

func moonCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "moon",
		Short: "Show the moon phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			t, err := parseDate(date, cfg.Location.TimeZone())
			if err != nil {
				return err
			}

			moon := solunar.CalculateMoonPhase(t)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s (%s)\n", moon.Emoji, moon.LocalName, moon.PhaseName)
			fmt.Fprintf(out, "  Phase:        %.3f\n", moon.Phase)
			fmt.Fprintf(out, "  Illumination: %d%%\n", moon.Illumination)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date (YYYY-MM-DD), defaults to now")
	return cmd
}

func weatherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weather",
		Short: "Show current weather at the fishing location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			provider, err := newWeatherProvider(cfg)
			if err != nil {
				return err
			}
			if provider == nil {
				return fmt.Errorf("weather is disabled in the configuration")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			data, err := provider.Get(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
}

// openJournal opens the catch database and wraps it in a journal.
func openJournal() (*journal.Journal, *storage.Database, *time.Location, error) {
	cfg, log, err := setup()
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := storage.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	zone := cfg.Location.TimeZone()
	return journal.New(db, newEngine(cfg), zone, log), db, zone, nil
}

func journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Record and review catches",
	}
	cmd.AddCommand(journalAddCmd())
	cmd.AddCommand(journalListCmd())
	cmd.AddCommand(journalStatsCmd())
	return cmd
}

func journalAddCmd() *cobra.Command {
	var (
		in journal.NewCatch
		at string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a catch",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, db, zone, err := openJournal()
			if err != nil {
				return err
			}
			defer db.Close()

			if at != "" {
				t, err := time.ParseInLocation("2006-01-02 15:04", at, zone)
				if err != nil {
					return fmt.Errorf("invalid --at %q, expected \"YYYY-MM-DD HH:MM\"", at)
				}
				in.CaughtAt = t
			}

			entry, err := j.Record(in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entry)
		},
	}
	cmd.Flags().StringVar(&in.Species, "species", "", "species caught")
	cmd.Flags().Float64Var(&in.WeightKg, "weight", 0, "weight in kg")
	cmd.Flags().Float64Var(&in.LengthCm, "length", 0, "length in cm")
	cmd.Flags().BoolVar(&in.Released, "released", false, "fish was released")
	cmd.Flags().StringVar(&in.SpotName, "spot", "", "fishing spot")
	cmd.Flags().StringVar(&in.WaterBody, "water", "", "lake or river")
	cmd.Flags().StringVar(&in.Bait, "bait", "", "bait used")
	cmd.Flags().StringVar(&in.Method, "method", "", "fishing method")
	cmd.Flags().StringVar(&in.Rig, "rig", "", "rig used")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free text notes")
	cmd.Flags().StringVar(&at, "at", "", "catch time \"YYYY-MM-DD HH:MM\", defaults to now")
	_ = cmd.MarkFlagRequired("species")
	return cmd
}

func journalListCmd() *cobra.Command {
	var (
		species string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded catches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, db, zone, err := openJournal()
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := j.List(storage.CatchFilter{Species: species, Limit: limit})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CAUGHT\tSPECIES\tKG\tCM\tSPOT\tMOON\tRATING")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%.0f\t%s\t%s\t%d/10\n",
					e.CaughtAt.In(zone).Format("2006-01-02 15:04"), e.Species, e.WeightKg, e.LengthCm,
					e.SpotName, e.MoonPhase, e.SolunarRating)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&species, "species", "", "only this species")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of catches")
	return cmd
}

func journalStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the catch journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, db, _, err := openJournal()
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := j.Stats(storage.CatchFilter{})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}
