package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyStore drží slot jako jeden klíč ve Valkey (Redis).
// Hodí se, když běží víc replik API a dashboard se může trefit do kterékoliv z nich.
type ValkeyStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewValkeyStore se připojí a ověří spojení (Ping).
func NewValkeyStore(ctx context.Context, addr, key string, ttl time.Duration) (*ValkeyStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("Valkey není dostupný: %w", err)
	}
	return newValkeyStore(rdb, key, ttl), nil
}

func newValkeyStore(rdb *redis.Client, key string, ttl time.Duration) *ValkeyStore {
	return &ValkeyStore{rdb: rdb, key: key, ttl: ttl}
}

func (s *ValkeyStore) Put(ctx context.Context, snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("serializace měření: %w", err)
	}
	// SET přepisuje starou hodnotu. ttl 0 = bez expirace.
	if err := s.rdb.Set(ctx, s.key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("chyba update Valkey: %w", err)
	}
	return nil
}

func (s *ValkeyStore) Latest(ctx context.Context) (*Snapshot, error) {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Klíč neexistuje = zatím žádná data (nebo expirovala).
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chyba čtení z Valkey: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("poškozený záznam ve Valkey (%s): %w", s.key, err)
	}
	return &snap, nil
}

func (s *ValkeyStore) Name() string { return "valkey" }

func (s *ValkeyStore) Close() {
	s.rdb.Close()
}
