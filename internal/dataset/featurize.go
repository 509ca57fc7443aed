package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/claude/fitrec/internal/features"
	"github.com/claude/fitrec/internal/models"
)

// Example is one featurized row with its training targets.
type Example struct {
	Line        int
	Goal        models.Goal
	A           features.BranchA
	B           features.BranchB
	Intensity   float64
	Suitability float64
	Readiness   float64
	// Labeled reports whether the targets came from the input rather than
	// the heuristic labelers.
	Labeled bool
}

// Stats tracks what a featurize run did.
type Stats struct {
	RowsRead    int
	RowsLabeled int
	CacheHits   int
	CacheErrors int
	Duration    time.Duration
	Quality     features.Quality
}

// Featurizer builds Branch A and Branch B vectors for training rows in
// parallel. Each worker owns a contiguous partition of the rows and its own
// Quality counters, which are merged once all workers finish.
type Featurizer struct {
	cache   CoefficientCache
	log     *slog.Logger
	workers int
}

// cacheCounters are shared by the workers of one Featurize call.
type cacheCounters struct {
	hits atomic.Int64
	errs atomic.Int64
}

// NewFeaturizer creates a Featurizer. cache may be nil. workers below 1 is
// treated as 1.
func NewFeaturizer(cache CoefficientCache, log *slog.Logger, workers int) *Featurizer {
	if workers < 1 {
		workers = 1
	}
	return &Featurizer{cache: cache, log: log, workers: workers}
}

// Featurize converts rows to examples, preserving input order.
func (f *Featurizer) Featurize(ctx context.Context, rows []Row) ([]Example, *Stats, error) {
	start := time.Now()
	out := make([]Example, len(rows))
	parts := partition(len(rows), f.workers)
	qualities := make([]features.Quality, len(parts))
	var counters cacheCounters

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, p := range parts {
		g.Go(func() error {
			q := &qualities[i]
			for j := p.lo; j < p.hi; j++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				out[j] = f.featurizeRow(rows[j], q, &counters)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("featurizing rows: %w", err)
	}

	stats := &Stats{
		RowsRead:    len(rows),
		CacheHits:   int(counters.hits.Load()),
		CacheErrors: int(counters.errs.Load()),
		Duration:    time.Since(start),
	}
	for _, q := range qualities {
		stats.Quality.Merge(q)
	}
	for _, ex := range out {
		if ex.Labeled {
			stats.RowsLabeled++
		}
	}

	f.log.Info("featurize complete",
		"rows", stats.RowsRead,
		"labeled", stats.RowsLabeled,
		"cache_hits", stats.CacheHits,
		"fallbacks", stats.Quality.Fallbacks,
		"dropped_segments", stats.Quality.DroppedSegments,
		"clamps", stats.Quality.Clamps,
		"duration", stats.Duration,
	)
	return out, stats, nil
}

func (f *Featurizer) featurizeRow(r Row, q *features.Quality, counters *cacheCounters) Example {
	for _, field := range r.Missing {
		q.Fallback(field)
	}

	p := r.Profile
	p.ExperienceLevel = float64(features.ExperienceScale.Map(r.Experience, q))
	state := features.MapState(r.Mood, r.Fatigue, r.Effort, q)
	coeffs := f.coefficients(r.Workout, p.Estimated1RM, p.MaxPace, q, counters)
	readiness := features.EstimateReadiness(state)

	in := features.Input{
		Profile:      p,
		State:        state,
		Exercise:     models.Exercise{Name: r.ExerciseName, Workout: r.Workout},
		Coefficients: coeffs,
		Health:       r.Health,
		Readiness:    readiness,
	}

	ex := Example{
		Line:      r.Line,
		Goal:      p.Goal,
		Readiness: readiness,
		Labeled:   r.Intensity != nil && r.Suitability != nil,
	}
	if r.Intensity != nil {
		ex.Intensity = *r.Intensity
	} else {
		ex.Intensity = HeuristicIntensity(coeffs)
	}
	if r.Suitability != nil {
		ex.Suitability = *r.Suitability
	} else {
		ex.Suitability = HeuristicSuitability(coeffs, readiness, p.ExperienceLevel, state)
	}

	ex.A = features.BuildBranchA(in)
	ex.B = features.BuildBranchB(in, ex.Intensity, q)
	return ex
}

// coefficients consults the cache before computing. Cache failures are
// logged and the value is computed directly.
func (f *Featurizer) coefficients(workout string, oneRM, pace float64, q *features.Quality, counters *cacheCounters) models.IntensityCoefficients {
	if f.cache == nil {
		return features.CoefficientsFromWorkout(workout, oneRM, pace, q)
	}

	key := CacheKey(oneRM, pace, workout)
	cached, ok, err := f.cache.Get(key)
	if err != nil {
		counters.errs.Add(1)
		f.log.Warn("coefficient cache read failed", "error", err)
	}
	if ok {
		counters.hits.Add(1)
		q.Merge(cached.Quality)
		return cached.Coefficients
	}

	var local features.Quality
	c := features.CoefficientsFromWorkout(workout, oneRM, pace, &local)
	q.Merge(local)
	if err := f.cache.Put(key, CachedCoefficients{Coefficients: c, Quality: local}); err != nil {
		counters.errs.Add(1)
		f.log.Warn("coefficient cache write failed", "error", err)
	}
	return c
}

type span struct{ lo, hi int }

// partition splits n items into at most k contiguous, near-equal spans.
func partition(n, k int) []span {
	if n == 0 {
		return nil
	}
	if k > n {
		k = n
	}
	spans := make([]span, 0, k)
	size, extra := n/k, n%k
	lo := 0
	for i := 0; i < k; i++ {
		hi := lo + size
		if i < extra {
			hi++
		}
		spans = append(spans, span{lo, hi})
		lo = hi
	}
	return spans
}
