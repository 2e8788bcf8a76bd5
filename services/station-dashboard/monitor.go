package main

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// LatestFetcher je to jediné, co Monitor potřebuje od API klienta.
type LatestFetcher interface {
	GetLatest(ctx context.Context) (*Reading, error)
}

// defaultReading se zobrazuje, než přijde první skutečné měření.
var defaultReading = Reading{Temperature: 25.0, Humidity: 65.0, Light: 450}

// State je snímek toho, co dashboard právě zobrazuje.
type State struct {
	Reading         Reading    `json:"reading"`
	HasReading      bool       `json:"has_reading"`      // Přišlo už někdy skutečné měření?
	Connected       bool       `json:"connected"`        // Poslední dotaz vrátil data
	AlertActive     bool       `json:"alert_active"`     // Svítí seismický alarm
	AlertUntil      *time.Time `json:"alert_until"`      // Kdy alarm vyprší (nil = nikdy nebyl)
	TotalDetections int        `json:"total_detections"` // Součet otřesů přes všechna nová měření
	LastPoll        time.Time  `json:"last_poll"`
}

// Monitor se periodicky ptá Station API a drží stav pro HTML handlery.
//
// Běží v jedné goroutině s Tickerem. Pomalá odpověď další dotaz jen zdrží,
// dotazy se nepřekrývají (Ticker přebytečné tiky zahodí).
type Monitor struct {
	client   LatestFetcher
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	// mu chrání vše níže. Zapisuje jen polling goroutina, čtou HTTP handlery.
	mu           sync.RWMutex
	reading      Reading
	hasReading   bool
	connected    bool
	alert        *SeismicAlert
	lastObserved Reading
	observedAny  bool
	total        int
	lastPoll     time.Time
}

// NewMonitor - konstruktor.
func NewMonitor(client LatestFetcher, interval time.Duration, logger *slog.Logger) *Monitor {
	return &Monitor{
		client:   client,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		reading:  defaultReading,
		alert:    NewSeismicAlert(),
	}
}

// Run se ptá hned po startu a pak každý interval, dokud ctx neskončí.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// Poll provede jeden dotaz a promítne výsledek do stavu.
func (m *Monitor) Poll(ctx context.Context) {
	reading, err := m.client.GetLatest(ctx)
	if err != nil {
		m.logger.Warn("Station API nedostupné", "error", err)
	}
	m.apply(reading, err)
}

// apply je čistá logika pollingu, odtržená od sítě kvůli testům.
func (m *Monitor) apply(reading *Reading, err error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastPoll = now

	// Chyba nebo "data": null = odpojeno. Naposledy zobrazené hodnoty NEMAŽEME.
	if err != nil || reading == nil {
		if m.connected {
			m.logger.Info("Stanice odpojena")
		}
		m.connected = false
		return
	}

	if !m.connected {
		m.logger.Info("Stanice připojena")
	}
	m.connected = true
	m.reading = *reading
	m.hasReading = true

	// Stejné měření vracené opakovaně (ESP32 mezitím nic neposlala) alarm neprodlužuje.
	// Porovnáváme celé měření, receivedAt má jen milisekundové rozlišení.
	if m.observedAny && *reading == m.lastObserved {
		return
	}
	m.observedAny = true
	m.lastObserved = *reading

	if reading.Vibration > 0 {
		m.total += reading.Vibration
	}
	if m.alert.Qualifies(*reading) {
		m.alert.Trigger(now)
		m.logger.Warn("ALERTA SÍSMICA", "vibraciones", reading.Vibration, "until", m.alert.Until())
	}
}

// State vrací kopii aktuálního stavu.
func (m *Monitor) State() State {
	now := m.now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	st := State{
		Reading:         m.reading,
		HasReading:      m.hasReading,
		Connected:       m.connected,
		AlertActive:     m.alert.Active(now),
		TotalDetections: m.total,
		LastPoll:        m.lastPoll,
	}
	if until := m.alert.Until(); !until.IsZero() {
		st.AlertUntil = &until
	}
	return st
}
