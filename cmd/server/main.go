package main

import (
	"flag"
	"log"

	"gsmforecast/internal/api"
	"gsmforecast/internal/config"
	"gsmforecast/internal/database"
	"gsmforecast/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	withArchive := flag.Bool("archive", true, "Serve archived runs from MySQL under /history")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	forecaster := api.NewForecaster(cfg)

	var archive server.Archive
	if *withArchive {
		db, err := database.NewDB(config.GetDatabaseDSN())
		if err != nil {
			log.Printf("Archive disabled: %v", err)
		} else {
			defer db.Close()
			archive = db
		}
	}

	httpServer := server.NewServer(forecaster, cfg, archive)

	log.Printf("Starting server on %s (%d locations)", cfg.Server.Addr, len(cfg.Locations))
	if err := httpServer.Start(cfg.Server.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
