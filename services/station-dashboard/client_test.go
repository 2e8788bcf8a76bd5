package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func serveBody(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sensores" && r.URL.Path != "/api/status" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
}

func TestGetLatestMapsReading(t *testing.T) {
	srv := serveBody(http.StatusOK, `{"ok":true,"data":{"temperatura":26.4,"humedad":58.1,"luz":3900,"vibraciones":3,"alertaSismica":true,"receivedAt":1741953600000}}`)
	defer srv.Close()

	r, err := NewAPIClient(srv.URL, time.Second).GetLatest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Reading{Temperature: 26.4, Humidity: 58.1, Light: 3900, Vibration: 3, SeismicAlert: true, ReceivedAtMs: 1741953600000}
	if r == nil || *r != want {
		t.Fatalf("expected %+v, got %+v", want, r)
	}
	if !r.ObservedAt().Equal(time.UnixMilli(1741953600000)) {
		t.Fatalf("unexpected observedAt %v", r.ObservedAt())
	}
}

func TestGetLatestAcceptsFractionalCounts(t *testing.T) {
	srv := serveBody(http.StatusOK, `{"ok":true,"data":{"temperatura":20,"humedad":50,"luz":120.0,"vibraciones":3.0,"receivedAt":1741953600000}}`)
	defer srv.Close()

	r, err := NewAPIClient(srv.URL, time.Second).GetLatest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Light != 120 || r.Vibration != 3 {
		t.Fatalf("expected luz=120 vibraciones=3, got %+v", r)
	}
	if !NewSeismicAlert().Qualifies(*r) {
		t.Fatal("vibraciones 3.0 must qualify for the alert")
	}
}

func TestReadingTruncatesFractions(t *testing.T) {
	var r Reading
	if err := json.Unmarshal([]byte(`{"luz":450.9,"vibraciones":2.7}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Light != 450 || r.Vibration != 2 {
		t.Fatalf("expected truncation to 450/2, got %d/%d", r.Light, r.Vibration)
	}
}

func TestGetLatestNoData(t *testing.T) {
	srv := serveBody(http.StatusOK, `{"ok":true,"data":null}`)
	defer srv.Close()

	r, err := NewAPIClient(srv.URL, time.Second).GetLatest(context.Background())
	if err != nil || r != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", r, err)
	}
}

func TestGetLatestFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"ok":false,"error":"store unavailable"}`},
		{"not json", http.StatusOK, `<html>`},
		{"ok false", http.StatusOK, `{"ok":false}`},
		{"wrong field type", http.StatusOK, `{"ok":true,"data":{"luz":"bright"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveBody(tt.status, tt.body)
			defer srv.Close()

			if _, err := NewAPIClient(srv.URL, time.Second).GetLatest(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGetLatestUnreachable(t *testing.T) {
	srv := serveBody(http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	if _, err := NewAPIClient(url, 200*time.Millisecond).GetLatest(context.Background()); err == nil {
		t.Fatal("expected network error")
	}
}

func TestGetStatus(t *testing.T) {
	srv := serveBody(http.StatusOK, `{"store":"valkey","uptime_seconds":75,"has_data":true,"last_received_at":"2025-03-14T12:00:00Z","host":{"cpu_load":3.5,"ram_used_mb":700,"ram_total_mb":3900}}`)
	defer srv.Close()

	st, err := NewAPIClient(srv.URL, time.Second).GetStatus(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Store != "valkey" || st.UptimeSeconds != 75 || st.Host == nil || st.Host.RamTotalMB != 3900 {
		t.Fatalf("unexpected status %+v", st)
	}
}
