package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecodeObject(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "object", body: `{"temperatura":23.5,"luz":4095}`},
		{name: "empty object", body: `{}`},
		{name: "trailing whitespace", body: "{\"luz\":1}\n"},
		{name: "out of range values pass", body: `{"luz":99999,"humedad":-4}`},
		{name: "empty body", body: ``, wantErr: true},
		{name: "truncated", body: `{"temperatura":`, wantErr: true},
		{name: "array", body: `[1,2,3]`, wantErr: true},
		{name: "number", body: `42`, wantErr: true},
		{name: "null", body: `null`, wantErr: true},
		{name: "two objects", body: `{}{}`, wantErr: true},
		{name: "garbage after object", body: `{} x`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeObject(strings.NewReader(tt.body))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPayload) {
					t.Fatalf("expected ErrInvalidPayload, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecodeObjectKeepsNumbersVerbatim(t *testing.T) {
	fields, err := decodeObject(strings.NewReader(`{"temperatura":23.50,"luz":4095}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := fields["temperatura"]; got != json.Number("23.50") {
		t.Fatalf("expected 23.50 verbatim, got %#v", got)
	}
}

func TestSnapshotMarshalOverridesReceivedAt(t *testing.T) {
	snap := Snapshot{
		Fields: map[string]any{
			"vibraciones": json.Number("4"),
			"receivedAt":  json.Number("1"),
		},
		ReceivedAt: fixedNow,
	}

	b, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := int64(out["receivedAt"].(float64)); got != fixedNow.UnixMilli() {
		t.Fatalf("expected server receivedAt %d, got %d", fixedNow.UnixMilli(), got)
	}
	if out["vibraciones"].(float64) != 4 {
		t.Fatalf("expected vibraciones 4, got %v", out["vibraciones"])
	}
}

func TestSnapshotUnmarshalRestoresReceivedAt(t *testing.T) {
	in := Snapshot{
		Fields:     map[string]any{"alertaSismica": true, "luz": json.Number("300")},
		ReceivedAt: fixedNow,
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Snapshot
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.ReceivedAt.Equal(fixedNow) {
		t.Fatalf("expected %v, got %v", fixedNow, out.ReceivedAt)
	}
	if _, ok := out.Fields["receivedAt"]; ok {
		t.Fatal("receivedAt must not stay among device fields")
	}
	if out.Fields["luz"] != json.Number("300") || out.Fields["alertaSismica"] != true {
		t.Fatalf("unexpected fields %#v", out.Fields)
	}
}

func TestSnapshotUnmarshalRejectsBadReceivedAt(t *testing.T) {
	var s Snapshot
	err := json.Unmarshal([]byte(`{"receivedAt":"yesterday"}`), &s)
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}
