package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goldwatch/internal/cache"
	"goldwatch/internal/config"
	"goldwatch/internal/feed"
	"goldwatch/internal/httpapi"
	"goldwatch/internal/monitor"
	"goldwatch/internal/storage"
	"goldwatch/internal/store"
)

func main() {
	cfg := config.Load()

	var addr string
	var interval time.Duration
	var historyCap int
	var logDir string
	flag.StringVar(&addr, "http", cfg.Addr, "HTTP listen address")
	flag.DurationVar(&interval, "interval", cfg.Interval, "Poll interval")
	flag.IntVar(&historyCap, "history", cfg.HistoryCap, "In-memory history capacity per source")
	flag.StringVar(&logDir, "log-dir", cfg.LogDir, "Journal directory")
	flag.Parse()

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.NewStore()
	hub := httpapi.NewHub()
	go hub.Run(ctx)

	opts := monitor.Options{
		Interval:   interval,
		HistoryCap: historyCap,
		LogDir:     logDir,
		Hub:        hub,
		Logger:     logger,
	}

	var quoteCache httpapi.QuoteCache
	if cfg.RedisAddr != "" {
		c, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, continuing without cache", "error", err)
		} else {
			defer c.Close()
			opts.Cache = c
			quoteCache = c
			logger.Info("redis connected", "addr", cfg.RedisAddr)
		}
	}

	var stats httpapi.StatsProvider
	var dbPing httpapi.Pinger
	if cfg.PostgresDSN != "" {
		pg, err := storage.New(cfg.PostgresDSN)
		if err != nil {
			logger.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		opts.Sink = pg
		stats = pg
		dbPing = pg
		logger.Info("postgres connected")
	}

	client := feed.NewClient(cfg.VendorTimeout)
	mon := monitor.New(client, st, cfg.Sources, opts)

	monDone := make(chan struct{})
	go func() {
		defer close(monDone)
		mon.Run(ctx)
	}()

	mux := http.NewServeMux()
	routes := httpapi.NewRoutes(st, mon, hub, stats, quoteCache, dbPing)
	routes.Register(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("goldwatch listening", "addr", addr, "interval", interval.String())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("http server error", "error", err)
		os.Exit(1)
	}

	<-monDone
	logger.Info("shutdown complete")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
