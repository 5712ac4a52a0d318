package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"gsmforecast/internal/forecast"
	"gsmforecast/internal/metrics"
	"gsmforecast/internal/present"

	_ "github.com/go-sql-driver/mysql"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 500
)

// ErrRunNotFound is returned by GetRun for an unknown id
var ErrRunNotFound = errors.New("forecast run not found")

// DB is the forecast archive
type DB struct {
	conn *sql.DB
}

// Run is one archived forecast fetch
type Run struct {
	ID            int64           `json:"id"`
	Location      string          `json:"location"`
	Latitude      float64         `json:"latitude"`
	Longitude     float64         `json:"longitude"`
	DataTime      string          `json:"data_time"`
	ReferenceTime *time.Time      `json:"reference_time,omitempty"`
	FetchedAt     time.Time       `json:"fetched_at"`
	Hours         int             `json:"hours"`
	Summary       present.Summary `json:"summary"`
}

// NewDB opens the archive and creates its tables
// dsn format: "username:password@tcp(host:port)/dbname?parseTime=true"
func NewDB(dsn string) (*DB, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func (db *DB) initSchema() error {
	// one statement per Exec
	statements := []string{
		`CREATE TABLE IF NOT EXISTS forecast_runs (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			location VARCHAR(255) NOT NULL DEFAULT '',
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			grib2file_time VARCHAR(32) NOT NULL,
			reference_time DATETIME NULL,
			fetched_at DATETIME(6) NOT NULL,
			hours INT NOT NULL,
			min_temp DOUBLE NOT NULL,
			max_temp DOUBLE NOT NULL,
			avg_humidity DOUBLE NOT NULL,
			total_precipitation DOUBLE NOT NULL,
			max_wind_speed DOUBLE NOT NULL,
			rainy_hours INT NOT NULL,
			INDEX idx_forecast_runs_location (location),
			INDEX idx_forecast_runs_fetched_at (fetched_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS forecast_hours (
			run_id BIGINT NOT NULL,
			hour_offset INT NOT NULL,
			datetime VARCHAR(32) NOT NULL,
			temperature DOUBLE NOT NULL,
			precipitation DOUBLE NOT NULL,
			wind_speed DOUBLE NOT NULL,
			wind_direction DOUBLE NOT NULL,
			compass VARCHAR(3) NOT NULL,
			humidity DOUBLE NOT NULL,
			cloud_cover DOUBLE NOT NULL,
			pressure DOUBLE NOT NULL,
			icon VARCHAR(16) NOT NULL,
			PRIMARY KEY (run_id, hour_offset),
			CONSTRAINT fk_forecast_hours_run FOREIGN KEY (run_id) REFERENCES forecast_runs (id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

// StoreReport archives a report and its hours in one transaction and returns the run id
func (db *DB) StoreReport(ctx context.Context, location string, r present.Report, fetchedAt time.Time) (int64, error) {
	defer db.updateStats()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	queryStart := time.Now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO forecast_runs (location, latitude, longitude, grib2file_time, reference_time, fetched_at, hours,
			min_temp, max_temp, avg_humidity, total_precipitation, max_wind_speed, rainy_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		location, r.Location.Latitude, r.Location.Longitude, r.DataTime, referenceTime(r.DataTime), fetchedAt.UTC(), len(r.Forecast),
		r.Summary.MinTemperature, r.Summary.MaxTemperature, r.Summary.AverageHumidity,
		r.Summary.TotalPrecipitation, r.Summary.MaxWindSpeed, r.Summary.RainyHours)
	metrics.RecordDBQuery("INSERT", "forecast_runs", time.Since(queryStart), err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run for %s: %w", location, err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO forecast_hours (run_id, hour_offset, datetime, temperature, precipitation, wind_speed, wind_direction,
			compass, humidity, cloud_cover, pressure, icon)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, h := range r.Forecast {
		queryStart := time.Now()
		_, err := stmt.ExecContext(ctx, hourArgs(runID, i, h)...)
		metrics.RecordDBQuery("INSERT", "forecast_hours", time.Since(queryStart), err)
		if err != nil {
			return 0, fmt.Errorf("failed to insert hour %d of run %d: %w", i, runID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✓ Stored run %d for %s (%d hours)", runID, location, len(r.Forecast))
	return runID, nil
}

const runColumns = `id, location, latitude, longitude, grib2file_time, reference_time, fetched_at, hours,
	min_temp, max_temp, avg_humidity, total_precipitation, max_wind_speed, rainy_hours`

// ListRuns returns the newest runs for location, or for every location when it is empty
func (db *DB) ListRuns(ctx context.Context, location string, limit int) ([]Run, error) {
	defer db.updateStats()

	limit = clampLimit(limit)

	var rows *sql.Rows
	var err error
	queryStart := time.Now()
	if location == "" {
		rows, err = db.conn.QueryContext(ctx,
			`SELECT `+runColumns+` FROM forecast_runs ORDER BY fetched_at DESC, id DESC LIMIT ?`, limit)
	} else {
		rows, err = db.conn.QueryContext(ctx,
			`SELECT `+runColumns+` FROM forecast_runs WHERE location = ? ORDER BY fetched_at DESC, id DESC LIMIT ?`, location, limit)
	}
	metrics.RecordDBQuery("SELECT", "forecast_runs", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun returns a single run by id
func (db *DB) GetRun(ctx context.Context, id int64) (Run, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+runColumns+` FROM forecast_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return run, err
}

// GetRunHours returns the archived hours of a run in forecast order
func (db *DB) GetRunHours(ctx context.Context, runID int64) ([]forecast.Flat, error) {
	queryStart := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT datetime, temperature, precipitation, wind_speed, wind_direction, compass, humidity, cloud_cover, pressure, icon
		FROM forecast_hours WHERE run_id = ? ORDER BY hour_offset`, runID)
	metrics.RecordDBQuery("SELECT", "forecast_hours", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query hours of run %d: %w", runID, err)
	}
	defer rows.Close()

	hours := []forecast.Flat{}
	for rows.Next() {
		var h forecast.Flat
		if err := rows.Scan(&h.Datetime, &h.Temperature, &h.Precipitation, &h.WindSpeed, &h.WindDirection,
			&h.WindDirectionCompass, &h.Humidity, &h.CloudCover, &h.Pressure, &h.WeatherIcon); err != nil {
			return nil, fmt.Errorf("failed to scan hour: %w", err)
		}
		hours = append(hours, h)
	}

	return hours, rows.Err()
}

// GetLocationsWithData returns every location that has at least one archived run
func (db *DB) GetLocationsWithData(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT DISTINCT location FROM forecast_runs ORDER BY location`)
	if err != nil {
		return nil, fmt.Errorf("failed to get locations with data: %w", err)
	}
	defer rows.Close()

	locations := []string{}
	for rows.Next() {
		var location string
		if err := rows.Scan(&location); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, location)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

func (db *DB) updateStats() {
	stats := db.conn.Stats()
	metrics.UpdateDBConnectionStats(stats.OpenConnections, stats.InUse, stats.Idle)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var run Run
	var ref sql.NullTime
	err := s.Scan(&run.ID, &run.Location, &run.Latitude, &run.Longitude, &run.DataTime, &ref, &run.FetchedAt, &run.Hours,
		&run.Summary.MinTemperature, &run.Summary.MaxTemperature, &run.Summary.AverageHumidity,
		&run.Summary.TotalPrecipitation, &run.Summary.MaxWindSpeed, &run.Summary.RainyHours)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	if ref.Valid {
		t := ref.Time
		run.ReferenceTime = &t
	}
	run.Summary.Hours = run.Hours
	return run, nil
}

// referenceTime is NULL when the model run time does not parse
func referenceTime(dataTime string) sql.NullTime {
	t, err := present.ParseReferenceTime(dataTime)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func hourArgs(runID int64, offset int, h forecast.Flat) []any {
	return []any{
		runID, offset, h.Datetime, h.Temperature, h.Precipitation, h.WindSpeed, h.WindDirection,
		h.WindDirectionCompass, h.Humidity, h.CloudCover, h.Pressure, string(h.WeatherIcon),
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
