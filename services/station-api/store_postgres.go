package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore drží slot jako jediný řádek tabulky station_last_reading.
// CHECK (slot = 1) hlídá, že tabulka nikdy nemá víc než jeden řádek.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS station_last_reading (
		slot        SMALLINT PRIMARY KEY CHECK (slot = 1),
		payload     JSONB       NOT NULL,
		received_at TIMESTAMPTZ NOT NULL
	)
`

// NewPostgresStore vytvoří pool, ověří spojení a založí tabulku, pokud chybí.
func NewPostgresStore(ctx context.Context, url string, logger *slog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("chyba konfigurace DB: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("DB není dostupná: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("nelze založit tabulku station_last_reading: %w", err)
	}

	logger.Info("Postgres slot připraven")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Put(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap.Fields)
	if err != nil {
		return fmt.Errorf("serializace měření: %w", err)
	}

	// UPSERT: první zápis řádek vloží, každý další ho přepíše.
	query := `
		INSERT INTO station_last_reading (slot, payload, received_at)
		VALUES (1, $1, $2)
		ON CONFLICT (slot) DO UPDATE
		SET payload = EXCLUDED.payload, received_at = EXCLUDED.received_at
	`
	if _, err := s.pool.Exec(ctx, query, string(payload), snap.ReceivedAt); err != nil {
		return fmt.Errorf("chyba upsertu do PG: %w", err)
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context) (*Snapshot, error) {
	var (
		payload []byte
		snap    Snapshot
	)
	err := s.pool.QueryRow(ctx, `SELECT payload, received_at FROM station_last_reading WHERE slot = 1`).
		Scan(&payload, &snap.ReceivedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chyba čtení z PG: %w", err)
	}

	fields, err := decodeObject(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("poškozený payload v PG: %w", err)
	}
	snap.Fields = fields
	snap.ReceivedAt = snap.ReceivedAt.UTC()
	return &snap, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Close() {
	s.pool.Close()
}
