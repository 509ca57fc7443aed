package mcp

import (
	"context"

	"github.com/claude/fitrec/internal/recommend"
	"github.com/claude/fitrec/internal/scoring"
)

// DataSource abstracts the recommendation backend for MCP tools. Both Local
// (in-process model) and HTTPClient (remote via REST API) satisfy this
// interface.
type DataSource interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	ModelInfo(ctx context.Context) (scoring.Info, error)
	ComputeIntensity(ctx context.Context, req recommend.IntensityRequest) (*recommend.IntensityResponse, error)
	AssessReadiness(ctx context.Context, req recommend.ReadinessRequest) (*recommend.ReadinessResponse, error)
	Classify(ctx context.Context, req recommend.ClassifyRequest) (*recommend.ClassifyResponse, error)
	Decode(ctx context.Context, req recommend.DecodeRequest) (*recommend.DecodeResponse, error)
}

// Local serves tools from a service running in this process.
type Local struct {
	svc *recommend.Service
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal wraps svc as a DataSource.
func NewLocal(svc *recommend.Service) *Local {
	return &Local{svc: svc}
}

func (l *Local) Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
	return l.svc.Recommend(ctx, req)
}

func (l *Local) ModelInfo(context.Context) (scoring.Info, error) {
	return l.svc.ModelInfo(), nil
}

func (l *Local) ComputeIntensity(_ context.Context, req recommend.IntensityRequest) (*recommend.IntensityResponse, error) {
	return recommend.ComputeIntensity(req)
}

func (l *Local) AssessReadiness(_ context.Context, req recommend.ReadinessRequest) (*recommend.ReadinessResponse, error) {
	resp := recommend.AssessReadiness(req)
	return &resp, nil
}

func (l *Local) Classify(_ context.Context, req recommend.ClassifyRequest) (*recommend.ClassifyResponse, error) {
	return recommend.ClassifyScores(req)
}

func (l *Local) Decode(_ context.Context, req recommend.DecodeRequest) (*recommend.DecodeResponse, error) {
	return recommend.DecodeWorkout(req)
}
