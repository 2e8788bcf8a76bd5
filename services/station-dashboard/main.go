package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// 1. Načtení Konfigurace
	cfg := LoadConfig()

	// 2. Inicializace Loggeru (strukturovaný JSON pro Docker/Loki)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("Startuji Station Dashboard", "port", cfg.HTTPPort, "api_url", cfg.APIURL, "poll", cfg.PollInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Inicializace komponent (Dependency Injection)
	client := NewAPIClient(cfg.APIURL, cfg.RequestTimeout)
	monitor := NewMonitor(client, cfg.PollInterval, logger)

	handler, err := NewWebHandler(monitor, client, logger, cfg.TemplateDir)
	if err != nil {
		logger.Error("Kritická chyba: Nepodařilo se načíst HTML šablony", "error", err)
		os.Exit(1)
	}

	// 4. Polling na pozadí (goroutina). Skončí se zrušením ctx.
	go monitor.Run(ctx)

	// 5. Routování
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Web server naslouchá", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server nečekaně spadl", "error", err)
			os.Exit(1)
		}
	}()

	// 6. Graceful shutdown
	<-ctx.Done()
	logger.Info("Ukončuji dashboard...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Chyba při vypínání serveru", "error", err)
	}
}
