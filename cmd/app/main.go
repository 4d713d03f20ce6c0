package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"inventory-ledger/internal/adapters/cli"
	"inventory-ledger/internal/adapters/repl"
	"inventory-ledger/internal/app"
	"inventory-ledger/internal/config"
	"inventory-ledger/internal/core"
	"inventory-ledger/internal/db"
	"inventory-ledger/internal/export"
	"inventory-ledger/internal/logger"
	"inventory-ledger/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Stdout belongs to the REPL and CLI output.
	log := logger.New(logger.Options{
		ServiceName: "inventory-ledger",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormatOrDefault(),
		Output:      os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
		Metrics:        metrics.NewLedgerMetrics(prometheus.NewRegistry()),
		Logger:         log,
		TopN:           cfg.Ledger.TopN,
		CurrencySymbol: cfg.Ledger.CurrencySymbol,
	})

	if len(os.Args) > 1 {
		if err := cli.Run(ctx, svc, os.Args[1:], os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout)
}
