package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gsmforecast/internal/api"
	"gsmforecast/internal/config"
	"gsmforecast/internal/present"

	"github.com/joho/godotenv"
)

type options struct {
	latitude  float64
	longitude float64
	hours     int
	format    string
	city      string
}

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	lat := flag.Float64("lat", 35.6762, "Latitude")
	lng := flag.Float64("lng", 139.6503, "Longitude")
	hours := flag.Int("hours", api.DefaultHours, "Forecast hours to keep")
	format := flag.String("format", "text", "Output format: text, json or csv")
	token := flag.String("token", "", "API token (default: WEATHER_API_TOKEN, then the public sample token)")
	city := flag.String("city", "", "Location label for text and json output")
	baseURL := flag.String("url", api.DefaultBaseURL, "Forecast API base URL")
	timeout := flag.Duration("timeout", api.DefaultTimeout, "Request timeout")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := api.NewClient(resolveToken(*token), api.WithBaseURL(*baseURL), api.WithTimeout(*timeout))

	start := time.Now()
	err := run(ctx, os.Stdout, client, options{
		latitude:  *lat,
		longitude: *lng,
		hours:     *hours,
		format:    *format,
		city:      *city,
	})
	if err != nil {
		cancel()
		log.Fatalf("Failed to fetch forecast: %v", err)
	}
	log.Printf("Done in %v", time.Since(start).Round(time.Millisecond))
}

func resolveToken(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if token := os.Getenv("WEATHER_API_TOKEN"); token != "" {
		return token
	}
	return config.SampleToken
}

func run(ctx context.Context, w io.Writer, f api.Forecaster, o options) error {
	switch o.format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}

	fc, err := f.FetchForecast(ctx, o.latitude, o.longitude, o.hours)
	if err != nil {
		return err
	}

	switch o.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(present.NewReport(fc, o.city))
	case "csv":
		return present.WriteCSV(w, fc)
	}
	_, err = io.WriteString(w, present.FormatText(fc, o.city))
	return err
}
