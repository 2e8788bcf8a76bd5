package main

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MqttLogWriter implementuje io.Writer. Každý řádek slogu pošle do MQTT,
// kde si ho vyzvedne log-collector.
type MqttLogWriter struct {
	client mqtt.Client
	topic  string
}

// NewMqttLogWriter vytvoří writer publikující na "logs/<serviceName>".
func NewMqttLogWriter(client mqtt.Client, serviceName string) *MqttLogWriter {
	return &MqttLogWriter{
		client: client,
		topic:  "logs/" + serviceName,
	}
}

// Write volá slog pro každý záznam.
// Fire-and-forget: na token nečekáme, logování nesmí brzdit ingest.
func (w *MqttLogWriter) Write(p []byte) (int, error) {
	// slog buffer 'p' recykluje, musíme si ho zkopírovat.
	payload := make([]byte, len(p))
	copy(payload, p)

	if w.client.IsConnectionOpen() {
		w.client.Publish(w.topic, 0, false, payload)
	}
	return len(p), nil
}
