package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/claude/fitrec/internal/models"
	"github.com/claude/fitrec/internal/recommend"
	"github.com/claude/fitrec/internal/scoring"
	"github.com/claude/fitrec/internal/storage"
)

// Recommender ranks candidate exercises. *recommend.Service implements it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	ModelInfo() scoring.Info
}

var _ Recommender = (*recommend.Service)(nil)

// StatsStore reads recorded activity. *storage.DB implements it.
type StatsStore interface {
	GetDataStats(ctx context.Context, topN int) (*storage.DataStats, error)
	GetRecommendationStats(ctx context.Context, start, end time.Time) ([]storage.GoalStats, error)
	QueryRecommendationLogs(ctx context.Context, limit int) ([]models.RecommendationLogRow, error)
	QueryFeaturizeRuns(ctx context.Context, limit int) ([]models.FeaturizeRunRow, error)
	Ping(ctx context.Context) error
}

var _ StatsStore = (*storage.DB)(nil)

// Options configure the HTTP surface.
type Options struct {
	APIKey         string
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    Recommender
	store  StatsStore
	whois  WhoIser
	log    *slog.Logger
	opts   Options
	router chi.Router
}

// New creates a new Server with all routes configured. store may be nil, in
// which case the stats endpoints are not mounted.
func New(svc Recommender, store StatsStore, opts Options, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		store:  store,
		log:    log,
		opts:   opts,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale enables tailnet identity lookups for recommendation logs.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS(s.opts.CORSOrigins))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.opts.APIKey != "" {
			r.Use(APIKeyAuth(s.opts.APIKey))
		}
		if s.opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.opts.RequestTimeout))
		}
		r.Use(s.identity)

		r.Get("/me", s.handleMe)
		r.Get("/model", s.handleModel)
		r.Post("/recommend", s.handleRecommend)
		r.Post("/coefficients", s.handleCoefficients)
		r.Post("/readiness", s.handleReadiness)
		r.Post("/classify", s.handleClassify)
		r.Post("/decode", s.handleDecode)

		if s.store != nil {
			r.Get("/stats", s.handleStats)
			r.Get("/stats/goals", s.handleGoalStats)
			r.Get("/logs", s.handleLogs)
			r.Get("/runs", s.handleRuns)
		}
	})
}
