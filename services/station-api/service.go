package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Ingestor je "business logika" relay: přijmout měření, razítkovat ho, uložit.
// Sdílí ho HTTP handler i MQTT ingest, obě cesty se tak chovají stejně.
type Ingestor struct {
	store  Store
	logger *slog.Logger

	// now je hodiny serveru. V testech se dá podvrhnout.
	now func() time.Time
}

// NewIngestor je konstruktor (Dependency Injection).
func NewIngestor(store Store, logger *slog.Logger) *Ingestor {
	return &Ingestor{store: store, logger: logger, now: time.Now}
}

// Ingest přečte jeden JSON objekt z r a přepíše jím slot.
//
// Vrací chybu obalující ErrInvalidPayload, pokud tělo není JSON objekt.
// V tom případě se slot NEMĚNÍ.
func (i *Ingestor) Ingest(ctx context.Context, r io.Reader) (Snapshot, error) {
	// KROK 1: Parsing. Žádná validace polí, bereme cokoliv, co je JSON objekt.
	fields, err := decodeObject(r)
	if err != nil {
		return Snapshot{}, err
	}

	// KROK 2: Razítko serveru
	snap := Snapshot{
		Fields:     fields,
		ReceivedAt: i.now().UTC(),
	}

	// KROK 3: Přepsání slotu
	if err := i.store.Put(ctx, snap); err != nil {
		return Snapshot{}, fmt.Errorf("uložení měření selhalo: %w", err)
	}

	i.logger.Info("Nový údaj ze stanice",
		"temperatura", fields["temperatura"],
		"humedad", fields["humedad"],
		"luz", fields["luz"],
		"vibraciones", fields["vibraciones"],
		"receivedAt", snap.ReceivedAt,
	)
	return snap, nil
}

// Latest vrací poslední měření, nebo nil, pokud zatím žádné není.
func (i *Ingestor) Latest(ctx context.Context) (*Snapshot, error) {
	snap, err := i.store.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("čtení posledního měření: %w", err)
	}
	return snap, nil
}
