package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats je snímek zátěže stroje, na kterém relay běží.
type HostStats struct {
	CPULoad    float64 `json:"cpu_load"`     // Procenta 0-100, průměr přes všechna jádra
	RamUsedMB  float64 `json:"ram_used_mb"`  // Total - Available (bez diskové cache)
	RamTotalMB float64 `json:"ram_total_mb"` // Celková fyzická paměť
}

// StatusReport vrací GET /api/status. Dashboard z něj kreslí patičku "stav relay".
type StatusReport struct {
	Store          string     `json:"store"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	HasData        bool       `json:"has_data"`
	LastReceivedAt *time.Time `json:"last_received_at"`
	StoreError     string     `json:"store_error,omitempty"`
	Host           *HostStats `json:"host,omitempty"`
}

// StatusService skládá StatusReport ze slotu a z gopsutil.
type StatusService struct {
	store   Store
	logger  *slog.Logger
	started time.Time

	// probe měří zátěž stroje. V testech se nahrazuje stubem.
	probe func(ctx context.Context) (HostStats, error)
	now   func() time.Time
}

// NewStatusService - konstruktor. started = okamžik startu služby.
func NewStatusService(store Store, logger *slog.Logger) *StatusService {
	return &StatusService{
		store:   store,
		logger:  logger,
		started: time.Now(),
		probe:   CollectHostStats,
		now:     time.Now,
	}
}

// Report nikdy nevrací chybu. Co nejde změřit, zůstane prázdné.
func (s *StatusService) Report(ctx context.Context) StatusReport {
	rep := StatusReport{
		Store:         s.store.Name(),
		UptimeSeconds: int64(s.now().Sub(s.started).Seconds()),
	}

	snap, err := s.store.Latest(ctx)
	if err != nil {
		rep.StoreError = err.Error()
	} else if snap != nil {
		rep.HasData = true
		t := snap.ReceivedAt
		rep.LastReceivedAt = &t
	}

	host, err := s.probe(ctx)
	if err != nil {
		s.logger.Warn("Nelze změřit zátěž stroje", "error", err)
	} else {
		rep.Host = &host
	}
	return rep
}

// CollectHostStats čte CPU a RAM přes gopsutil.
func CollectHostStats(ctx context.Context) (HostStats, error) {
	var stats HostStats

	// Interval 0 = porovnání s předchozím voláním, nic neuspáváme.
	// Request na /api/status tak nečeká celou sekundu jako system-monitor.
	percentages, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return stats, err
	}
	if len(percentages) > 0 {
		stats.CPULoad = percentages[0]
	}

	vMem, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return stats, err
	}
	// Linux používá volnou RAM jako cache. "Obsazená" paměť je proto Total - Available.
	stats.RamUsedMB = float64(vMem.Total-vMem.Available) / 1024.0 / 1024.0
	stats.RamTotalMB = float64(vMem.Total) / 1024.0 / 1024.0

	return stats, nil
}
