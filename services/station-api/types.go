package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrInvalidPayload označuje tělo zprávy, které není JSON objekt.
// Je to jediná chyba, kterou ingest vrací klientovi (HTTP 400).
var ErrInvalidPayload = errors.New("invalid payload")

// receivedAtField je klíč, pod kterým server přidává čas přijetí (unix ms).
const receivedAtField = "receivedAt"

// Snapshot je uložená podoba jednoho měření ze stanice.
//
// Fields drží pole přesně tak, jak je zařízení poslalo (temperatura, humedad,
// luz, vibraciones, alertaSismica, ...). Nic se nevaliduje, hodnoty mimo
// rozsah nebo chybějící pole projdou beze změny až na dashboard.
type Snapshot struct {
	Fields     map[string]any
	ReceivedAt time.Time
}

// MarshalJSON vrátí pole zařízení doplněná o receivedAt.
// Případné receivedAt od klienta se přepíše časem serveru.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Fields)+1)
	for k, v := range s.Fields {
		out[k] = v
	}
	out[receivedAtField] = s.ReceivedAt.UnixMilli()
	return json.Marshal(out)
}

// UnmarshalJSON je opak MarshalJSON. Používají ho sdílené backendy (Valkey).
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	fields, err := decodeObject(bytes.NewReader(b))
	if err != nil {
		return err
	}

	var receivedAt time.Time
	if raw, ok := fields[receivedAtField]; ok {
		num, ok := raw.(json.Number)
		if !ok {
			return fmt.Errorf("%w: receivedAt není číslo", ErrInvalidPayload)
		}
		ms, err := num.Int64()
		if err != nil {
			return fmt.Errorf("%w: receivedAt: %v", ErrInvalidPayload, err)
		}
		receivedAt = time.UnixMilli(ms).UTC()
		delete(fields, receivedAtField)
	}

	s.Fields = fields
	s.ReceivedAt = receivedAt
	return nil
}

// decodeObject přečte z r právě jeden JSON objekt.
// Čísla necháváme jako json.Number, aby se vrátila klientovi přesně tak, jak přišla.
func decodeObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	// Za objektem už nesmí nic následovat (např. "{}{}" nebo "{} x").
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, fmt.Errorf("%w: neočekávaná data za JSON objektem", ErrInvalidPayload)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: očekáván JSON objekt, přišlo %T", ErrInvalidPayload, v)
	}
	return obj, nil
}

// ackResponse je odpověď na POST (a na chyby).
type ackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// latestResponse je odpověď na GET. Data je nil (JSON null), dokud ESP32 nic nepošle.
type latestResponse struct {
	OK   bool      `json:"ok"`
	Data *Snapshot `json:"data"`
}
