package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "inventory-ledger/internal/adapters/web"
	"inventory-ledger/internal/app"
	"inventory-ledger/internal/config"
	"inventory-ledger/internal/core"
	"inventory-ledger/internal/db"
	"inventory-ledger/internal/export"
	"inventory-ledger/internal/logger"
	"inventory-ledger/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "inventory-ledger-server",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormatOrDefault(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sinks := []export.Sink{export.NewDirSink(cfg.Export.Dir)}
	if cfg.Export.PDF {
		sinks = append(sinks, export.NewPDFSink(cfg.Export.Dir))
	}
	if cfg.Export.PostgresEnabled() {
		pool, err := db.NewPool(ctx, cfg.Export.DatabaseURL)
		if err != nil {
			log.Error(ctx, "database unavailable", err)
			os.Exit(1)
		}
		defer pool.Close()
		sinks = append(sinks, export.NewPostgresSink(pool))
	}

	store := core.NewLedgerStore(core.StoreOptions{
		Seed:      cfg.Ledger.Seed,
		TxIDWidth: cfg.Ledger.TxIDWidth,
		Logger:    log,
	})
	svc := app.NewAppService(app.Options{
		Store:          store,
		Sinks:          sinks,
		Metrics:        metrics.NewLedgerMetrics(reg),
		Logger:         log,
		TopN:           cfg.Ledger.TopN,
		CurrencySymbol: cfg.Ledger.CurrencySymbol,
	})

	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.WithField(ctx, "port", cfg.Server.Port), "server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server stopped", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "shutdown", err)
		}
		log.Info(shutdownCtx, "server stopped")
	}
}
