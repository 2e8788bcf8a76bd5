package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Store je slot pro poslední měření. Drží vždy nejvýše JEDEN Snapshot.
// Vytváří se v main() a předává se dál (Dependency Injection), žádná globální proměnná.
type Store interface {
	// Put přepíše slot (last-write-wins).
	Put(ctx context.Context, snap Snapshot) error

	// Latest vrací aktuální měření, nebo nil, pokud ještě nic nepřišlo.
	Latest(ctx context.Context) (*Snapshot, error)

	// Name vrací název backendu (pro /api/status a logy).
	Name() string

	Close()
}

// MemoryStore drží slot v paměti procesu. Po restartu je prázdný.
type MemoryStore struct {
	// mu chrání slot. Souběžné POSTy se serializují, vyhrává ten poslední.
	mu   sync.RWMutex
	last *Snapshot
}

// NewMemoryStore vrací prázdný paměťový slot.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Put(_ context.Context, snap Snapshot) error {
	// Kopie mapy: volající může se svou mapou dál pracovat.
	fields := make(map[string]any, len(snap.Fields))
	for k, v := range snap.Fields {
		fields[k] = v
	}
	snap.Fields = fields

	m.mu.Lock()
	m.last = &snap
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Latest(_ context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.last == nil {
		return nil, nil
	}
	out := *m.last
	return &out, nil
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Close() {}

// NewStore vybere backend podle STORE_BACKEND a ověří spojení.
func NewStore(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	switch cfg.StoreBackend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "valkey", "redis":
		return NewValkeyStore(ctx, cfg.ValkeyAddr, cfg.ValkeyKey, cfg.ValkeyTTL)
	case "postgres":
		return NewPostgresStore(ctx, cfg.PostgresURL, logger)
	default:
		return nil, fmt.Errorf("neznámý STORE_BACKEND %q (memory|valkey|postgres)", cfg.StoreBackend)
	}
}
