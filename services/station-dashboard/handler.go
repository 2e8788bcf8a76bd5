package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"
)

// StatusFetcher vrací stav relay pro patičku stránky.
type StatusFetcher interface {
	GetStatus(ctx context.Context) (*RelayStatus, error)
}

// WebHandler slouží jako "Controller". Bere stav z Monitoru a renderuje HTML.
type WebHandler struct {
	monitor *Monitor
	status  StatusFetcher
	logger  *slog.Logger
	tmpl    *template.Template
}

// StateView je State doplněný o hodnoty vypočtené pro panely.
// Stejnou strukturu dostává šablona i JS, který stránku každou sekundu obnovuje.
type StateView struct {
	State
	Light           LightBand `json:"light_band"`
	TempIcon        string    `json:"temp_icon"`
	HumidityIcon    string    `json:"humidity_icon"`
	TempPercent     float64   `json:"temp_percent"`
	HumidityPercent float64   `json:"humidity_percent"`
	DarknessPercent float64   `json:"darkness_percent"`
}

// NewStateView dopočítá panelové hodnoty ze State.
func NewStateView(st State) StateView {
	return StateView{
		State:           st,
		Light:           ClassifyLight(st.Reading.Light),
		TempIcon:        TemperatureIcon(st.Reading.Temperature),
		HumidityIcon:    HumidityIcon(st.Reading.Humidity),
		TempPercent:     TemperaturePercent(st.Reading.Temperature),
		HumidityPercent: HumidityPercent(st.Reading.Humidity),
		DarknessPercent: DarknessPercent(st.Reading.Light),
	}
}

// NewWebHandler načte šablony z templateDir.
func NewWebHandler(monitor *Monitor, status StatusFetcher, logger *slog.Logger, templateDir string) (*WebHandler, error) {
	// Funkce pro šablony musí být zaregistrované PŘED parsováním souborů.
	funcMap := template.FuncMap{
		"to_json": func(v interface{}) template.JS {
			a, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(a)
		},
		"uptime": func(sec int64) string {
			return (time.Duration(sec) * time.Second).String()
		},
	}

	tmpl, err := template.New("base").Funcs(funcMap).ParseGlob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}

	return &WebHandler{
		monitor: monitor,
		status:  status,
		logger:  logger,
		tmpl:    tmpl,
	}, nil
}

// RegisterRoutes mapuje URL cesty na metody handleru.
func (h *WebHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("GET /api/state", h.HandleState)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
}

// HandleIndex: Dashboard stanice
func (h *WebHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	// Stav relay je jen doplněk. Když API neodpoví, patička ukáže "nedostupné".
	relay, err := h.status.GetStatus(r.Context())
	if err != nil {
		h.logger.Debug("Stav relay nedostupný", "error", err)
		relay = nil
	}

	data := map[string]interface{}{
		"Title": "Estación Forestal",
		"View":  NewStateView(h.monitor.State()),
		"Relay": relay,
		"Page":  "index",
	}

	// layout.html volá {{ template "content" . }} z index.html.
	if err := h.tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.Error("Chyba renderování", "error", err)
	}
}

// HandleState: GET /api/state (JSON pro obnovovací skript stránky)
func (h *WebHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(NewStateView(h.monitor.State())); err != nil {
		h.logger.Error("Chyba při zápisu JSON odpovědi", "error", err)
	}
}
