package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/fitrec/internal/config"
	"github.com/claude/fitrec/internal/logging"
	fitmcp "github.com/claude/fitrec/internal/mcp"
	"github.com/claude/fitrec/internal/recommend"
	"github.com/claude/fitrec/internal/scoring"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	envFile := flag.String("env-file", ".env", "optional dotenv file loaded before the config")
	serverURL := flag.String("server", "", "fitrec server URL; when set, tools call the HTTP API instead of a local model")
	apiKey := flag.String("api-key", "", "API key for -server (defaults to FITREC_AUTH_API_KEY)")
	flag.Parse()

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := config.LoadEnvFile(*envFile); err != nil {
		log.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	var ds fitmcp.DataSource
	if *serverURL != "" {
		key := *apiKey
		if key == "" {
			key = os.Getenv("FITREC_AUTH_API_KEY")
		}
		ds = fitmcp.NewHTTPClient(*serverURL, key)
		log.Info("mcp using remote server", "url", *serverURL)
	} else {
		svc, closer, err := localService(*configPath)
		if err != nil {
			log.Error("failed to start local model", "error", err)
			os.Exit(1)
		}
		defer closer.Close()
		ds = fitmcp.NewLocal(svc)
	}

	s := fitmcp.New(ds, Version, log)
	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return recommend.WithRequester(ctx, "mcp")
	}))
	if err != nil {
		log.Error("mcp server stopped", "error", err)
	}
}

// localService loads the model named in the config. Recommendation logging
// stays off in local mode.
func localService(configPath string) (*recommend.Service, io.Closer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, closer, err := logging.NewTo(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up logging: %w", err)
	}
	svc, err := newService(cfg, log)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return svc, closer, nil
}

func newService(cfg *config.Config, log *slog.Logger) (*recommend.Service, error) {
	model, err := scoring.Load(scoring.Paths{
		Metadata: cfg.Model.MetadataPath(),
		Scaler:   cfg.Model.ScalerPath(),
		Weights:  cfg.Model.WeightsPath(),
	})
	if err != nil {
		return nil, err
	}
	info := model.Info()
	log.Info("model loaded", "model_version", info.ModelVersion, "schema_version", info.SchemaVersion)
	return recommend.NewService(model, nil, recommend.Options{
		DefaultTopK:        cfg.Recommend.DefaultTopK,
		MaxTopK:            cfg.Recommend.MaxTopK,
		MinSuitability:     cfg.Recommend.MinSuitability,
		DefaultDurationMin: cfg.Recommend.DefaultDurationMin,
		DefaultMET:         cfg.Recommend.DefaultMET,
	}, log), nil
}
