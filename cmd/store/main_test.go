package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gsmforecast/internal/config"
	"gsmforecast/internal/present"
	"gsmforecast/internal/stream"
)

type stubStore struct {
	location  string
	report    present.Report
	fetchedAt time.Time
	err       error
}

func (s *stubStore) StoreReport(ctx context.Context, location string, r present.Report, fetchedAt time.Time) (int64, error) {
	s.location = location
	s.report = r
	s.fetchedAt = fetchedAt
	return 1, s.err
}

func TestStoreHandler(t *testing.T) {
	store := &stubStore{}
	fetched := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)

	err := storeHandler(store)(context.Background(), stream.Payload{
		Location:  config.Location{Name: "Tokyo"},
		Report:    present.Report{DataTime: "20240101000000"},
		FetchedAt: fetched,
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if store.location != "Tokyo" || store.report.DataTime != "20240101000000" || !store.fetchedAt.Equal(fetched) {
		t.Errorf("StoreReport(%q, %+v, %v)", store.location, store.report, store.fetchedAt)
	}
}

func TestStoreHandler_MissingFetchedAt(t *testing.T) {
	store := &stubStore{}
	before := time.Now()

	if err := storeHandler(store)(context.Background(), stream.Payload{Location: config.Location{Name: "Osaka"}}); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if store.fetchedAt.Before(before.Add(-time.Second)) {
		t.Errorf("fetchedAt = %v, want about now", store.fetchedAt)
	}
}

func TestStoreHandler_Error(t *testing.T) {
	boom := errors.New("deadlock found")
	err := storeHandler(&stubStore{err: boom})(context.Background(), stream.Payload{})
	if !errors.Is(err, boom) {
		t.Errorf("handler error = %v, want %v", err, boom)
	}
}

func TestDefaultConsumerName(t *testing.T) {
	host := func() (string, error) { return "worker-1", nil }
	if got := defaultConsumerName(host); got != "store-worker-1" {
		t.Errorf("defaultConsumerName() = %v, want store-worker-1", got)
	}

	unknown := func() (string, error) { return "", errors.New("no hostname") }
	got := defaultConsumerName(unknown)
	if !strings.HasPrefix(got, "store-") || len(got) != len("store-")+36 {
		t.Errorf("defaultConsumerName() = %v, want store-<uuid>", got)
	}
	if got == defaultConsumerName(unknown) {
		t.Error("fallback names should differ between calls")
	}
}
