package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/saddleworks/rccemu/internal/config"
	"github.com/saddleworks/rccemu/internal/db"
	"github.com/saddleworks/rccemu/internal/debuglog"
	"github.com/saddleworks/rccemu/internal/gameserver"
	"github.com/saddleworks/rccemu/internal/httpserver"
	"github.com/saddleworks/rccemu/internal/policy"
)

const ConfigPath = "config/rccserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Configure slog
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	slog.Info("rccemu server starting")

	// Load config
	cfgPath := ConfigPath
	if p := os.Getenv("RCC_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.Info("config loaded",
		"host", cfg.Host,
		"tcp_port", cfg.TCPPort,
		"http_port", cfg.HTTPPort,
		"policy_port", cfg.PolicyPort)

	logs := debuglog.New(cfg.Debug)

	// Connect to database
	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	// Run migrations
	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	users := db.NewPostgresUserRepository(database.Pool())

	// Game channel server (clients on :27130)
	gameServer := gameserver.NewServer(cfg, users, logs)

	// HTTP/WebSocket server (debug API on :80)
	httpServer := httpserver.NewServer(cfg, users, gameServer, logs)

	// Flash policy server (:27132)
	policyServer := policy.NewServer(cfg.Host, cfg.PolicyPort)

	// Run all three servers in parallel
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting game server")
		if err := gameServer.Run(gctx); err != nil {
			return fmt.Errorf("game server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting http server")
		if err := httpServer.Run(gctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting policy server")
		if err := policyServer.Run(gctx); err != nil {
			return fmt.Errorf("policy server: %w", err)
		}
		return nil
	})

	// Wait for all servers to finish
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
