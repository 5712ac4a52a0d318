package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gsmforecast/internal/config"
	"gsmforecast/internal/database"
	"gsmforecast/internal/present"
	"gsmforecast/internal/stream"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type reportStore interface {
	StoreReport(ctx context.Context, location string, r present.Report, fetchedAt time.Time) (int64, error)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	group := flag.String("group", "forecast_store", "Redis consumer group")
	name := flag.String("name", "", "Consumer name, stable across restarts (default: store-<hostname>)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	redisCfg := cfg.RedisSettings()
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	defer redisClient.Close()

	db, err := database.NewDB(config.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	consumerName := *name
	if consumerName == "" {
		consumerName = defaultConsumerName(os.Hostname)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-quit
		log.Println("Shutting down store service...")
		cancel()
	}()

	consumer := stream.NewConsumer(redisClient, redisCfg.Stream, *group, consumerName)
	if err := consumer.EnsureGroup(ctx); err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("Store into db started as %s, reading from Redis stream %s. Press Ctrl+C to stop...", consumerName, redisCfg.Stream)

	if err := consumer.Run(ctx, storeHandler(db)); err != nil {
		log.Printf("Consumer stopped: %v", err)
	}

	log.Println("Store service stopped")
}

// defaultConsumerName derives the name from the host so a restarted store picks up
// its own pending entries. A random name is used when the hostname is unknown.
func defaultConsumerName(hostname func() (string, error)) string {
	if host, err := hostname(); err == nil && host != "" {
		return "store-" + host
	}
	return "store-" + uuid.NewString()
}

// storeHandler archives each payload; a failure leaves the entry pending and the consumer reads it again later
func storeHandler(db reportStore) stream.Handler {
	return func(ctx context.Context, p stream.Payload) error {
		fetchedAt := p.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = time.Now().UTC()
		}
		_, err := db.StoreReport(ctx, p.Location.Name, p.Report, fetchedAt)
		return err
	}
}
