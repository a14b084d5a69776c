package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mr1hm/go-wait-dashboard/internal/backend"
	"github.com/mr1hm/go-wait-dashboard/internal/config"
	"github.com/mr1hm/go-wait-dashboard/internal/logging"
	"github.com/mr1hm/go-wait-dashboard/internal/render"
	"github.com/mr1hm/go-wait-dashboard/internal/view"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}

	filterFlag := flag.String("filter", string(view.FilterAll), "severity to show: all, critical, high, moderate, low, unknown")
	sortFlag := flag.String("sort", string(view.SortWaitDesc), "order: wait-desc, wait-asc, name-asc, name-desc")
	backendURL := flag.String("backend", cfg.Backend.URL, "wait-times backend base URL")
	flag.Parse()

	// stdout carries the table; logs go to stderr
	logging.SetupWriter(os.Stderr, cfg.Logging.Level)

	filter, err := view.ParseFilter(*filterFlag)
	if err != nil {
		logging.Fatalf("%v", err)
	}
	key, err := view.ParseSortKey(*sortFlag)
	if err != nil {
		logging.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := backend.NewClient(*backendURL, cfg.Backend.Timeout)
	data, err := client.FetchWaitTimes(ctx)
	if err != nil {
		logging.Fatalf("Failed to fetch wait times: %v", err)
	}
	slog.Info("fetched wait times", "hospitals", len(data.Data), "last_updated", data.LastUpdated)

	records := view.Apply(data.Data, filter, key)
	if err := render.WriteTable(os.Stdout, records); err != nil {
		logging.Fatalf("Failed to write table: %v", err)
	}
}
