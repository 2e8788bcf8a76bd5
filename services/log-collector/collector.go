package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Collector ukládá logy služeb (station-api, ...) do souborů <dir>/<služba>.log.
type Collector struct {
	dir    string
	logger *slog.Logger

	// mu serializuje zápisy. Paho může volat handler z více goroutin
	// a dva řádky do stejného souboru se nesmí proplést.
	mu sync.Mutex
}

// NewCollector připraví adresář pro logy (včetně podadresářů).
func NewCollector(dir string, logger *slog.Logger) (*Collector, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("nelze vytvořit adresář pro logy: %w", err)
	}
	return &Collector{dir: dir, logger: logger}, nil
}

// HandleMessage je MQTT callback pro každou logovací zprávu.
func (c *Collector) HandleMessage(_ mqtt.Client, msg mqtt.Message) {
	service, ok := serviceFromTopic(msg.Topic())
	if !ok {
		c.logger.Warn("Ignoruji zprávu se špatným formátem topicu", "topic", msg.Topic())
		return
	}

	if err := c.Append(service, msg.Payload()); err != nil {
		c.logger.Error("Chyba při zápisu do souboru", "service", service, "error", err)
	}
}

// serviceFromTopic vytáhne název služby z "logs/<služba>[/...]".
// Název musí být jeden bezpečný prvek cesty, jinak by šlo psát mimo LOG_DIR.
func serviceFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 || parts[0] != "logs" {
		return "", false
	}

	name := parts[1]
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `\:`) {
		return "", false
	}
	return name, true
}

// Append připíše payload jako jeden řádek do <dir>/<service>.log.
// Pattern "Open-Write-Close" pro každý zápis snese rotaci logů zvenku (logrotate).
func (c *Collector) Append(service string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	filename := filepath.Join(c.dir, service+".log")
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	// slog JSONHandler končí řádek '\n', jiní publisheři nemusí.
	line := data
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(append(make([]byte, 0, len(data)+1), data...), '\n')
	}
	_, err = f.Write(line)
	return err
}
