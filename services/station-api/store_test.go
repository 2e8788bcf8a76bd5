package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreEmpty(t *testing.T) {
	s := NewMemoryStore()
	snap, err := s.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected no data, got %#v", snap)
	}
}

func TestMemoryStoreLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := Snapshot{Fields: map[string]any{"luz": json.Number("100")}, ReceivedAt: fixedNow}
	second := Snapshot{Fields: map[string]any{"luz": json.Number("200")}, ReceivedAt: fixedNow.Add(time.Millisecond)}

	if err := s.Put(ctx, first); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, second); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, _ := s.Latest(ctx)
	if got.Fields["luz"] != json.Number("200") || !got.ReceivedAt.Equal(second.ReceivedAt) {
		t.Fatalf("expected second snapshot, got %#v", got)
	}
}

func TestMemoryStoreCopiesFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	fields := map[string]any{"humedad": json.Number("55")}
	_ = s.Put(ctx, Snapshot{Fields: fields, ReceivedAt: fixedNow})
	fields["humedad"] = json.Number("99")

	got, _ := s.Latest(ctx)
	if got.Fields["humedad"] != json.Number("55") {
		t.Fatalf("stored snapshot changed through caller map: %v", got.Fields["humedad"])
	}
}

func TestMemoryStoreConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Put(ctx, Snapshot{Fields: map[string]any{"n": i}, ReceivedAt: fixedNow})
			_, _ = s.Latest(ctx)
		}(i)
	}
	wg.Wait()

	got, _ := s.Latest(ctx)
	if got == nil {
		t.Fatal("expected one of the snapshots to win")
	}
	if n, ok := got.Fields["n"].(int); !ok || n < 0 || n >= 50 {
		t.Fatalf("unexpected winner %v", got.Fields["n"])
	}
}

func TestNewStoreRejectsUnknownBackend(t *testing.T) {
	_, err := NewStore(context.Background(), Config{StoreBackend: "etcd"}, discardLogger())
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNewStoreDefaultsToMemory(t *testing.T) {
	for _, backend := range []string{"", "memory"} {
		t.Run(fmt.Sprintf("backend=%q", backend), func(t *testing.T) {
			s, err := NewStore(context.Background(), Config{StoreBackend: backend}, discardLogger())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Name() != "memory" {
				t.Fatalf("expected memory store, got %s", s.Name())
			}
		})
	}
}
