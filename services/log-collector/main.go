package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func main() {
	// 1. Vlastní logger collectoru jde jen na stdout.
	// Kdyby šel do MQTT, sbíral by sám sebe.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := LoadConfig()
	logger.Info("Startuji Log Collector", "dir", cfg.LogDir, "topic", cfg.LogTopic)

	// 2. Příprava adresáře pro logy
	collector, err := NewCollector(cfg.LogDir, logger)
	if err != nil {
		logger.Error("Kritická chyba", "error", err)
		os.Exit(1)
	}

	// 3. Připojení k MQTT. Subscribe děláme v OnConnect,
	// takže se po výpadku brokera obnoví samo.
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	opts.OnConnect = func(c mqtt.Client) {
		if token := c.Subscribe(cfg.LogTopic, 0, collector.HandleMessage); token.Wait() && token.Error() != nil {
			logger.Error("Subscribe selhal", "topic", cfg.LogTopic, "error", token.Error())
			return
		}
		logger.Info("Poslouchám logy", "topic", cfg.LogTopic)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn("Spojení s MQTT ztraceno", "error", err)
	}

	client := mqtt.NewClient(opts)
	logger.Info("Připojuji se k MQTT brokeru", "broker", cfg.MQTTBroker)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		logger.Error("MQTT Connection failed", "error", token.Error())
		os.Exit(1)
	}
	defer client.Disconnect(250)

	// 4. Čekání na signál ukončení
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Ukončuji Log Collector...")
}
