package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"gsmforecast/internal/api"
	"gsmforecast/internal/config"
	"gsmforecast/internal/present"
	"gsmforecast/internal/stream"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

type publisher interface {
	Publish(ctx context.Context, p stream.Payload) (string, error)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	interval := flag.Duration("interval", 0, "Repeat collection at this interval (0 collects once)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if len(cfg.Locations) == 0 {
		log.Fatalf("No locations configured in %s", *configPath)
	}

	redisCfg := cfg.RedisSettings()
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	defer redisClient.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis at %s: %v", redisCfg.Addr, err)
	}

	pub := stream.NewPublisher(redisClient, redisCfg.Stream)
	forecaster := api.NewForecaster(cfg)
	log.Printf("Publishing %d locations to Redis stream %s", len(cfg.Locations), pub.Stream())

	if *interval <= 0 {
		published, failed := collect(ctx, forecaster, pub, cfg.Locations, cfg.Forecast.Hours)
		log.Printf("Data collection completed: %d published, %d failed. Exiting", published, failed)
		if failed > 0 {
			cancel()
			os.Exit(1)
		}
		return
	}

	log.Printf("Collector running every %v. Press Ctrl+C to stop...", *interval)
	runEvery(ctx, *interval, func() {
		published, failed := collect(ctx, forecaster, pub, cfg.Locations, cfg.Forecast.Hours)
		log.Printf("Collection round: %d published, %d failed", published, failed)
	})
	log.Println("Shutting down collector...")
}

// runEvery calls fn immediately and then on every tick until ctx is done
func runEvery(ctx context.Context, d time.Duration, fn func()) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		fn()
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// collect fetches every location concurrently and publishes one payload per success
func collect(ctx context.Context, f api.Forecaster, pub publisher, locations []config.Location, hours int) (published, failed int) {
	var ok, bad atomic.Int64
	var wg sync.WaitGroup

	for _, location := range locations {
		wg.Add(1)
		go func(loc config.Location) {
			defer wg.Done()

			if err := collectLocation(ctx, f, pub, loc, hours); err != nil {
				log.Printf("%v", err)
				bad.Add(1)
				return
			}
			ok.Add(1)
		}(location)
	}

	wg.Wait()
	return int(ok.Load()), int(bad.Load())
}

func collectLocation(ctx context.Context, f api.Forecaster, pub publisher, loc config.Location, hours int) error {
	log.Printf("Fetching forecast for: %s", loc.Name)
	fc, err := f.FetchForecast(ctx, loc.Latitude, loc.Longitude, hours)
	if err != nil {
		return fmt.Errorf("failed to fetch forecast for %s: %w", loc.Name, err)
	}

	id, err := pub.Publish(ctx, stream.Payload{
		Location:  loc,
		Report:    present.NewReport(fc, loc.Name),
		Hours:     hours,
		FetchedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish forecast for %s: %w", loc.Name, err)
	}

	log.Printf("Published %d hours for %s to Redis (%s)", fc.Len(), loc.Name, id)
	return nil
}
