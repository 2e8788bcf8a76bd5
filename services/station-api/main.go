package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func main() {
	// 1. Načtení konfigurace
	cfg := LoadConfig()

	// Ctrl+C / docker stop zruší tento context a spustí graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. MQTT (volitelné). Klient musí vzniknout DŘÍVE než logger,
	// protože logger do něj zrcadlí logy.
	var mqttClient mqtt.Client
	var logOut io.Writer = os.Stdout
	readings := NewReadingSubscription(cfg.InputTopic)
	if cfg.MQTTBroker != "" {
		mqttClient = NewMQTTClient(cfg, readings)
		slog.Info("Připojuji se k MQTT brokeru", "broker", cfg.MQTTBroker)
		if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
			slog.Error("Fatal MQTT Error", "err", token.Error())
			os.Exit(1)
		}
		defer mqttClient.Disconnect(250)
		logOut = io.MultiWriter(os.Stdout, NewMqttLogWriter(mqttClient, "station-api"))
	}

	// 3. Logger (JSON, standard pro kontejnery)
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("Startuji Station API", "port", cfg.HTTPPort, "store", cfg.StoreBackend, "mqtt", cfg.MQTTBroker != "")

	// 4. Slot pro poslední měření. Vzniká tady a předává se dál, žádná globální proměnná.
	store, err := NewStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Kritická chyba: Nelze připravit úložiště", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 5. Inicializace komponent (Wiring)
	ing := NewIngestor(store, logger)
	status := NewStatusService(store, logger)
	api := NewAPIHandler(ing, status, logger, cfg.MaxBodyBytes)

	// 6. MQTT ingest - stejná cesta jako HTTP POST
	if mqttClient != nil {
		if err := readings.Start(ctx, mqttClient, ing, logger); err != nil {
			logger.Error("Subscribe selhal", "topic", cfg.InputTopic, "error", err)
			os.Exit(1)
		}
		logger.Info("Poslouchám na topicu", "topic", cfg.InputTopic)
	}

	// 7. Router + HTTP server
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           RequestLogMiddleware(logger, CorsMiddleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("HTTP server naslouchá", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server spadl", "error", err)
			os.Exit(1)
		}
	}()

	// 8. Graceful shutdown
	<-ctx.Done()
	logger.Info("Ukončuji službu...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Chyba při vypínání serveru", "error", err)
	}
	// Zde proběhnou defery (close store, disconnect mqtt)
}
