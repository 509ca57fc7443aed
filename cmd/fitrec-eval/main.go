package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/claude/fitrec/internal/evaluate"
)

var (
	header = color.New(color.FgCyan, color.Bold)
	good   = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
	bad    = color.New(color.FgRed)
)

func main() {
	input := flag.String("input", "", "path to the predictions CSV (required)")
	jsonOut := flag.String("json", "", "also write the report as JSON to this path")
	tolerance := flag.Float64("tolerance", 0.1, "readiness zone tolerance")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *input == "" {
		fmt.Fprintf(os.Stderr, "Usage: fitrec-eval -input predictions.csv [-json report.json] [-tolerance 0.1]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *noColor {
		color.NoColor = true
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Error("failed to open predictions", "error", err)
		os.Exit(1)
	}
	samples, targets, err := evaluate.ReadSamples(f)
	f.Close()
	if err != nil {
		log.Error("failed to read predictions", "error", err)
		os.Exit(1)
	}

	rep := evaluate.EvaluateDecoding(samples)
	printHeadMetrics(samples, targets, *tolerance)
	printReport(rep)

	if *jsonOut != "" {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			log.Error("failed to encode report", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*jsonOut, data, 0o644); err != nil {
			log.Error("failed to write report", "error", err)
			os.Exit(1)
		}
		log.Info("report written", "path", *jsonOut)
	}
}

func printHeadMetrics(samples []evaluate.Sample, t evaluate.Targets, tol float64) {
	pi, ps, pr := evaluate.Predictions(samples)
	heads := []struct {
		name   string
		pred   []float64
		target []float64
	}{
		{"intensity", pi, t.Intensity},
		{"suitability", ps, t.Suitability},
		{"readiness", pr, t.Readiness},
	}
	printed := false
	for _, h := range heads {
		if h.target == nil {
			continue
		}
		if !printed {
			header.Println("HEAD METRICS")
			printed = true
		}
		r, err := evaluate.Regress(h.pred, h.target)
		if err != nil {
			bad.Printf("  %-12s %v\n", h.name, err)
			continue
		}
		fmt.Printf("  %-12s n=%d mae=%.4f rmse=%.4f r2=%s pearson=%.4f\n",
			h.name, r.N, r.MAE, r.RMSE, colorScore(r.R2, 0.5, 0.2), r.Pearson)
		switch h.name {
		case "readiness":
			if acc, err := evaluate.ZoneAccuracy(h.pred, h.target, tol); err == nil {
				fmt.Printf("  %-12s zone accuracy (±%.2f) %s\n", "", tol, colorScore(acc, 0.8, 0.6))
			}
		case "suitability":
			if acc, err := evaluate.BinaryAccuracy(h.pred, h.target, 0.75); err == nil {
				fmt.Printf("  %-12s binary accuracy %s\n", "", colorScore(acc, 0.8, 0.6))
			}
		}
	}
	if printed {
		fmt.Println()
	}
}

func printReport(rep evaluate.Report) {
	header.Printf("DECODING (%d samples)\n", rep.Samples)
	for _, g := range rep.Goals {
		fmt.Printf("  %-12s quality=%s appropriate=%s suitability=%.3f readiness=%.3f\n",
			g.Goal, colorScore(g.AvgQuality, 0.7, 0.5), colorScore(g.AppropriateRate, 0.8, 0.5),
			g.AvgSuitability, g.AvgReadiness)
	}
	fmt.Println()

	header.Println("SUITABILITY DISTRIBUTION")
	bands := make([]string, 0, len(rep.Distribution))
	for b := range rep.Distribution {
		bands = append(bands, b)
	}
	sort.Strings(bands)
	for _, b := range bands {
		share := rep.Distribution[b]
		fmt.Printf("  %-18s %5.1f%% %s\n", b, share*100, strings.Repeat("█", int(share*40)))
	}
}

func colorScore(v, hi, lo float64) string {
	s := fmt.Sprintf("%.3f", v)
	switch {
	case v >= hi:
		return good.Sprint(s)
	case v >= lo:
		return warn.Sprint(s)
	default:
		return bad.Sprint(s)
	}
}
