package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tailscale.com/tsnet"

	"github.com/claude/fitrec/internal/config"
	"github.com/claude/fitrec/internal/logging"
	"github.com/claude/fitrec/internal/recommend"
	"github.com/claude/fitrec/internal/scoring"
	"github.com/claude/fitrec/internal/server"
	"github.com/claude/fitrec/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	envFile := flag.String("env-file", ".env", "optional dotenv file loaded before the config")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fitrec", Version)
		return
	}

	boot := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := config.LoadEnvFile(*envFile); err != nil {
		boot.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log, closer, err := logging.New(cfg.Logging)
	if err != nil {
		boot.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closer.Close()
	log.Info("fitrec starting", "version", Version)

	ctx := context.Background()

	// Optional run log
	var (
		db  *storage.DB
		rec recommend.Recorder
		st  server.StatsStore
	)
	if cfg.Database.Enabled() {
		dsn := cfg.Database.DSN()
		version, err := storage.RunMigrations(dsn, cfg.Database.MigrationsPath)
		if err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied", "schema_version", version)

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		db, err = storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		rec, st = db, db
		log.Info("database connected")
	} else if *migrateOnly {
		log.Error("migrate-only requires a database section in the config")
		os.Exit(1)
	} else {
		log.Info("no database configured, recommendation logging disabled")
	}

	// Model artifacts are required; refuse to serve without them.
	model, err := scoring.Load(scoring.Paths{
		Metadata: cfg.Model.MetadataPath(),
		Scaler:   cfg.Model.ScalerPath(),
		Weights:  cfg.Model.WeightsPath(),
	})
	if err != nil {
		log.Error("failed to load model", "error", err)
		os.Exit(1)
	}
	info := model.Info()
	log.Info("model loaded", "model_version", info.ModelVersion, "schema_version", info.SchemaVersion)

	svc := recommend.NewService(model, rec, recommend.Options{
		DefaultTopK:        cfg.Recommend.DefaultTopK,
		MaxTopK:            cfg.Recommend.MaxTopK,
		MinSuitability:     cfg.Recommend.MinSuitability,
		DefaultDurationMin: cfg.Recommend.DefaultDurationMin,
		DefaultMET:         cfg.Recommend.DefaultMET,
	}, log)

	srv := server.New(svc, st, server.Options{
		APIKey:         cfg.Auth.APIKey,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	}, log)

	// Listener: tsnet or plain TCP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
