package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// --- DATOVÉ MODELY (DTO) ---
// Musí odpovídat tomu, co posílá Station API (a tedy i firmware ESP32).

// Reading je jedno měření ze stanice v typované podobě.
type Reading struct {
	Temperature  float64 `json:"temperatura"`   // °C
	Humidity     float64 `json:"humedad"`       // % (0-100)
	Light        int     `json:"luz"`           // Analogová hodnota 0-4095, víc = tma
	Vibration    int     `json:"vibraciones"`   // Počet otřesů od posledního odeslání
	SeismicAlert bool    `json:"alertaSismica"` // Alarm nastavený přímo zařízením
	ReceivedAtMs int64   `json:"receivedAt"`    // Čas přijetí serverem (unix ms)
}

// UnmarshalJSON přijme luz a vibraciones i jako desetinné číslo (např. 3.0).
// API čísla přeposílá beze změny, takže je tady usekneme na celé.
func (r *Reading) UnmarshalJSON(b []byte) error {
	wire := struct {
		Temperature  float64 `json:"temperatura"`
		Humidity     float64 `json:"humedad"`
		Light        float64 `json:"luz"`
		Vibration    float64 `json:"vibraciones"`
		SeismicAlert bool    `json:"alertaSismica"`
		ReceivedAtMs int64   `json:"receivedAt"`
	}{
		Temperature:  r.Temperature,
		Humidity:     r.Humidity,
		Light:        float64(r.Light),
		Vibration:    float64(r.Vibration),
		SeismicAlert: r.SeismicAlert,
		ReceivedAtMs: r.ReceivedAtMs,
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	*r = Reading{
		Temperature:  wire.Temperature,
		Humidity:     wire.Humidity,
		Light:        int(wire.Light),
		Vibration:    int(wire.Vibration),
		SeismicAlert: wire.SeismicAlert,
		ReceivedAtMs: wire.ReceivedAtMs,
	}
	return nil
}

// ObservedAt vrací čas přijetí měření serverem.
func (r Reading) ObservedAt() time.Time {
	if r.ReceivedAtMs == 0 {
		return time.Time{}
	}
	return time.UnixMilli(r.ReceivedAtMs).UTC()
}

// latestEnvelope je obálka odpovědi GET /api/sensores.
// Data je nil, dokud stanice nic neposlala.
type latestEnvelope struct {
	OK   bool     `json:"ok"`
	Data *Reading `json:"data"`
}

// RelayStatus je podmnožina GET /api/status, kterou zobrazujeme v patičce.
type RelayStatus struct {
	Store          string     `json:"store"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	HasData        bool       `json:"has_data"`
	LastReceivedAt *time.Time `json:"last_received_at"`
	Host           *struct {
		CPULoad    float64 `json:"cpu_load"`
		RamUsedMB  float64 `json:"ram_used_mb"`
		RamTotalMB float64 `json:"ram_total_mb"`
	} `json:"host"`
}

// APIClient zapouzdřuje HTTP volání na Station API.
type APIClient struct {
	BaseURL    string
	httpClient *http.Client
}

// NewAPIClient vytváří klienta. Timeout nastavujeme VŽDY,
// defaultní http.Client žádný nemá a dashboard by při výpadku API visel.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetLatest zavolá GET /api/sensores.
// Vrací (nil, nil), pokud API odpoví "data": null.
func (c *APIClient) GetLatest(ctx context.Context) (*Reading, error) {
	var env latestEnvelope
	if err := c.getJSON(ctx, "/api/sensores", &env); err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, errors.New("API vrátilo ok=false")
	}
	return env.Data, nil
}

// GetStatus zavolá GET /api/status.
func (c *APIClient) GetStatus(ctx context.Context) (*RelayStatus, error) {
	var st RelayStatus
	if err := c.getJSON(ctx, "/api/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *APIClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("nelze sestavit požadavek: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chyba sítě při volání API: %w", err)
	}
	// Body musíme vždy zavřít, jinak tečou file descriptory.
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API vrátilo chybný status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("chyba při parsování JSONu: %w", err)
	}
	return nil
}
