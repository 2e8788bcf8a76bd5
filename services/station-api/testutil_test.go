package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failingStore simuluje nedostupný sdílený backend.
type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (failingStore) Put(context.Context, Snapshot) error       { return errStoreDown }
func (failingStore) Latest(context.Context) (*Snapshot, error) { return nil, errStoreDown }
func (failingStore) Name() string                              { return "failing" }
func (failingStore) Close()                                    {}

// newTestServer sestaví stejný handler jako main(), jen s pevnými hodinami.
func newTestServer(store Store) (http.Handler, *Ingestor) {
	logger := discardLogger()

	ing := NewIngestor(store, logger)
	ing.now = func() time.Time { return fixedNow }

	status := NewStatusService(store, logger)
	status.now = func() time.Time { return status.started.Add(90 * time.Second) }
	status.probe = func(context.Context) (HostStats, error) {
		return HostStats{CPULoad: 12.5, RamUsedMB: 512, RamTotalMB: 2048}, nil
	}

	mux := http.NewServeMux()
	NewAPIHandler(ing, status, logger, 1024).RegisterRoutes(mux)
	return RequestLogMiddleware(logger, CorsMiddleware(mux)), ing
}
