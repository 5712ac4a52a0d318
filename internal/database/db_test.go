package database

import (
	"errors"
	"testing"
	"time"

	"gsmforecast/internal/forecast"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, DefaultListLimit},
		{0, DefaultListLimit},
		{1, 1},
		{50, 50},
		{MaxListLimit, MaxListLimit},
		{MaxListLimit + 1, MaxListLimit},
	}

	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReferenceTime(t *testing.T) {
	got := referenceTime("20240101060000")
	if !got.Valid {
		t.Fatal("referenceTime() should be valid")
	}
	if want := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC); !got.Time.Equal(want) {
		t.Errorf("referenceTime() = %v, want %v", got.Time, want)
	}

	if referenceTime("not a time").Valid {
		t.Error("referenceTime() should be NULL for an unparsable value")
	}
}

func TestHourArgs(t *testing.T) {
	h := forecast.Flat{
		Datetime:             "2024-01-01T00:00:00Z",
		Temperature:          10.5,
		Precipitation:        0.2,
		WindSpeed:            3,
		WindDirection:        90,
		WindDirectionCompass: "E",
		Humidity:             70,
		CloudCover:           80,
		Pressure:             1012,
		WeatherIcon:          forecast.IconLightRain,
	}

	args := hourArgs(7, 3, h)
	if len(args) != 12 {
		t.Fatalf("len(hourArgs()) = %d, want 12", len(args))
	}
	if args[0] != int64(7) || args[1] != 3 {
		t.Errorf("run id/offset = %v/%v", args[0], args[1])
	}
	if args[7] != "E" {
		t.Errorf("compass = %v, want E", args[7])
	}
	if args[11] != "LIGHT_RAIN" {
		t.Errorf("icon = %v, want LIGHT_RAIN", args[11])
	}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *int:
			*p = r.values[i].(int)
		case *string:
			*p = r.values[i].(string)
		case *float64:
			*p = r.values[i].(float64)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case interface{ Scan(any) error }:
			if err := p.Scan(r.values[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func TestScanRun(t *testing.T) {
	fetched := time.Date(2024, 1, 1, 6, 5, 0, 0, time.UTC)
	ref := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)

	row := fakeRow{values: []any{
		int64(1), "Tokyo", 35.68, 139.65, "20240101060000", ref, fetched, 24,
		3.0, 12.0, 55.0, 1.5, 8.0, 2,
	}}

	run, err := scanRun(row)
	if err != nil {
		t.Fatalf("scanRun() error = %v", err)
	}
	if run.ID != 1 || run.Location != "Tokyo" || run.Hours != 24 {
		t.Errorf("scanRun() = %+v", run)
	}
	if run.ReferenceTime == nil || !run.ReferenceTime.Equal(ref) {
		t.Errorf("ReferenceTime = %v, want %v", run.ReferenceTime, ref)
	}
	if run.Summary.Hours != 24 || run.Summary.RainyHours != 2 || run.Summary.MaxTemperature != 12 {
		t.Errorf("Summary = %+v", run.Summary)
	}
}

func TestScanRun_NullReferenceTime(t *testing.T) {
	row := fakeRow{values: []any{
		int64(2), "Osaka", 34.69, 135.50, "bad", nil, time.Now(), 0,
		0.0, 0.0, 0.0, 0.0, 0.0, 0,
	}}

	run, err := scanRun(row)
	if err != nil {
		t.Fatalf("scanRun() error = %v", err)
	}
	if run.ReferenceTime != nil {
		t.Errorf("ReferenceTime = %v, want nil", run.ReferenceTime)
	}
}

func TestScanRun_Error(t *testing.T) {
	boom := errors.New("boom")
	if _, err := scanRun(fakeRow{err: boom}); !errors.Is(err, boom) {
		t.Errorf("scanRun() error = %v, want wrapped boom", err)
	}
}
