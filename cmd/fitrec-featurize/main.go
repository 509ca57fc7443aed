package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/claude/fitrec/internal/config"
	"github.com/claude/fitrec/internal/dataset"
	"github.com/claude/fitrec/internal/features"
	"github.com/claude/fitrec/internal/models"
	"github.com/claude/fitrec/internal/scoring"
	"github.com/claude/fitrec/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional, enables the run log)")
	input := flag.String("input", "", "path to the training CSV (required)")
	outDir := flag.String("out", "featurized", "output directory")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel workers")
	cacheDir := flag.String("cache", "", "coefficient cache directory (disabled when empty)")
	fitScaler := flag.Bool("fit-scaler", false, "also fit and write scaler.json")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *input == "" {
		fmt.Fprintf(os.Stderr, "Usage: fitrec-featurize -input data.csv [-out dir] [-workers N] [-cache dir] [-fit-scaler] [-config config.yaml]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional run log
	var db *storage.DB
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		if cfg.Database.Enabled() {
			dsn := cfg.Database.DSN()
			if _, err := storage.RunMigrations(dsn, cfg.Database.MigrationsPath); err != nil {
				log.Error("migration failed", "error", err)
				os.Exit(1)
			}
			db, err = storage.New(ctx, dsn)
			if err != nil {
				log.Error("failed to connect database", "error", err)
				os.Exit(1)
			}
			defer db.Close()
			log.Info("database connected, run log enabled")
		}
	}

	run := models.FeaturizeRunRow{
		ID:            uuid.New(),
		StartedAt:     time.Now().UTC(),
		Source:        filepath.Base(*input),
		SchemaVersion: features.SchemaVersion,
		Status:        storage.RunRunning,
	}
	if db != nil {
		if err := db.InsertFeaturizeRun(ctx, run); err != nil {
			log.Warn("failed to record run start", "error", err)
			db = nil
		}
	}

	stats, err := featurize(ctx, log, *input, *outDir, *cacheDir, *workers, *fitScaler)
	if stats != nil {
		printStats(log, stats)
	}
	if db != nil {
		finishRun(context.Background(), log, db, run, stats, err)
	}
	if err != nil {
		log.Error("featurize failed", "error", err)
		os.Exit(1)
	}
	log.Info("featurize complete", "out", *outDir)
}

func featurize(ctx context.Context, log *slog.Logger, input, outDir, cacheDir string, workers int, fitScaler bool) (*dataset.Stats, error) {
	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	rows, err := dataset.ReadRows(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	log.Info("rows loaded", "rows", len(rows), "workers", workers)

	var cache dataset.CoefficientCache
	if cacheDir != "" {
		c, err := dataset.OpenCache(cacheDir)
		if err != nil {
			return nil, err
		}
		defer c.Close()
		if n, err := c.Len(); err == nil {
			log.Info("coefficient cache opened", "dir", cacheDir, "entries", n)
		}
		cache = c
	}

	examples, stats, err := dataset.NewFeaturizer(cache, log, workers).Featurize(ctx, rows)
	if err != nil {
		return stats, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return stats, fmt.Errorf("creating output dir: %w", err)
	}
	if err := writeFile(filepath.Join(outDir, "branch_a.csv"), func(f *os.File) error {
		return dataset.WriteBranchA(f, examples)
	}); err != nil {
		return stats, err
	}
	if err := writeFile(filepath.Join(outDir, "branch_b.csv"), func(f *os.File) error {
		return dataset.WriteBranchB(f, examples)
	}); err != nil {
		return stats, err
	}
	if err := writeFile(filepath.Join(outDir, "stats.json"), func(f *os.File) error {
		return dataset.WriteStats(f, stats)
	}); err != nil {
		return stats, err
	}
	if fitScaler {
		if err := scoring.SaveScaler(filepath.Join(outDir, "scaler.json"), dataset.FitScaler(examples)); err != nil {
			return stats, err
		}
		log.Info("scaler written")
	}
	return stats, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func finishRun(ctx context.Context, log *slog.Logger, db *storage.DB, run models.FeaturizeRunRow, stats *dataset.Stats, runErr error) {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Status = storage.RunSuccess
	if runErr != nil {
		run.Status = storage.RunError
		msg := runErr.Error()
		run.ErrorMessage = &msg
	}
	if stats != nil {
		run.RowsRead = stats.RowsRead
		run.RowsWritten = stats.RowsRead
		run.Fallbacks = stats.Quality.Fallbacks
		run.DroppedSegments = stats.Quality.DroppedSegments
		run.Clamps = stats.Quality.Clamps
		run.CacheHits = stats.CacheHits
	}
	if runErr != nil {
		run.RowsWritten = 0
	}
	if err := db.UpdateFeaturizeRun(ctx, run); err != nil {
		log.Warn("failed to record run result", "error", err)
	}
}

func printStats(log *slog.Logger, stats *dataset.Stats) {
	log.Info("featurize stats",
		"rows_read", stats.RowsRead,
		"rows_labeled", stats.RowsLabeled,
		"cache_hits", stats.CacheHits,
		"cache_errors", stats.CacheErrors,
		"fallbacks", stats.Quality.Fallbacks,
		"dropped_segments", stats.Quality.DroppedSegments,
		"clamps", stats.Quality.Clamps,
		"duration", stats.Duration,
	)
	if len(stats.Quality.FallbackFields) > 0 {
		log.Info("fallback fields", "fields", stats.Quality.FallbackFields)
	}
}
