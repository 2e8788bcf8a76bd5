package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// APIHandler obsluhuje HTTP požadavky ESP32 (zápis) a dashboardu (čtení).
type APIHandler struct {
	ing     *Ingestor
	status  *StatusService
	logger  *slog.Logger
	maxBody int64
}

// NewAPIHandler vytváří novou instanci handleru.
func NewAPIHandler(ing *Ingestor, status *StatusService, logger *slog.Logger, maxBody int64) *APIHandler {
	return &APIHandler{ing: ing, status: status, logger: logger, maxBody: maxBody}
}

// RegisterRoutes mapuje URL cesty na metody handleru (Go 1.22+ router s metodami).
// Cesta /api/sensores odpovídá tomu, kam posílá data firmware ESP32.
func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sensores", h.handleSubmit)
	mux.HandleFunc("GET /api/sensores", h.handleLatest)
	mux.HandleFunc("GET /api/status", h.handleStatus)

	// Jednoduchý healthcheck pro Docker
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
}

// handleSubmit: POST /api/sensores
func (h *APIHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	// Tělo omezíme, aby nás nikdo nezahltil gigabajtovým "JSONem".
	body := http.MaxBytesReader(w, r.Body, h.maxBody)

	_, err := h.ing.Ingest(r.Context(), body)
	switch {
	case errors.Is(err, ErrInvalidPayload):
		h.logger.Warn("Neplatný JSON od zařízení", "remote", r.RemoteAddr, "error", err)
		writeJSON(w, http.StatusBadRequest, ackResponse{OK: false, Error: "Invalid JSON"})
		return
	case err != nil:
		h.logger.Error("Chyba při ukládání měření", "error", err)
		writeJSON(w, http.StatusInternalServerError, ackResponse{OK: false, Error: "store unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, ackResponse{OK: true})
}

// handleLatest: GET /api/sensores
func (h *APIHandler) handleLatest(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ing.Latest(r.Context())
	if err != nil {
		h.logger.Error("Chyba při čtení měření", "error", err)
		writeJSON(w, http.StatusInternalServerError, ackResponse{OK: false, Error: "store unavailable"})
		return
	}

	// snap == nil se serializuje jako "data": null (ESP32 ještě nic neposlala).
	writeJSON(w, http.StatusOK, latestResponse{OK: true, Data: snap})
}

// handleStatus: GET /api/status
func (h *APIHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status.Report(r.Context()))
}

// writeJSON nastaví hlavičku, status a zapíše tělo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Chyba při zápisu JSON odpovědi", "error", err)
	}
}
