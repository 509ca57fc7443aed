package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitrec/internal/recommend"
	"github.com/claude/fitrec/internal/scoring"
)

// fakeSource records the requests it receives and answers with the real
// stateless operations.
type fakeSource struct {
	Local
	recommendReq recommend.Request
	decodeReq    recommend.DecodeRequest
	err          error
}

func (f *fakeSource) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	f.recommendReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &recommend.Response{Goal: "strength", Considered: len(req.Candidates)}, nil
}

func (f *fakeSource) ModelInfo(context.Context) (scoring.Info, error) {
	return scoring.Info{ModelVersion: "v4.0.0"}, f.err
}

func (f *fakeSource) Decode(_ context.Context, req recommend.DecodeRequest) (*recommend.DecodeResponse, error) {
	f.decodeReq = req
	return recommend.DecodeWorkout(req)
}

func newHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestRecommendExercisesBindsArguments verifies nested arguments reach the
// data source as a recommend.Request.
func TestRecommendExercisesBindsArguments(t *testing.T) {
	fs := &fakeSource{}
	h := newHandlers(fs)
	res, err := h.recommendExercises(context.Background(), callRequest("recommend_exercises", map[string]any{
		"health_profile": map[string]any{"age": 30.0, "height_cm": 175.0, "weight_kg": 70.0},
		"current_state":  map[string]any{"mood": "Good", "fatigue": 2.0},
		"goal":           "strength",
		"candidates": []any{
			map[string]any{"name": "Squat", "workout": "5x100x5"},
			map[string]any{"name": "Running"},
		},
		"top_k": 3.0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	got := fs.recommendReq
	if got.Health.Age != 30 || got.Goal != "strength" || got.TopK != 3 || len(got.Candidates) != 2 {
		t.Errorf("bound request = %+v", got)
	}
	if got.State.Mood.Text != "Good" || got.State.Fatigue.Number == nil || *got.State.Fatigue.Number != 2 {
		t.Errorf("state = %+v", got.State)
	}
	if got.Candidates[0].Workout != "5x100x5" {
		t.Errorf("candidate workout = %q", got.Candidates[0].Workout)
	}
}

// TestRecommendExercisesInvalid verifies validation errors surface as tool errors.
func TestRecommendExercisesInvalid(t *testing.T) {
	h := newHandlers(&fakeSource{err: recommend.ErrInvalidRequest})
	res, err := h.recommendExercises(context.Background(), callRequest("recommend_exercises", map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error")
	}
}

func TestComputeIntensityTool(t *testing.T) {
	h := newHandlers(&fakeSource{})
	res, err := h.computeIntensity(context.Background(), callRequest("compute_intensity", map[string]any{
		"workout":       "10x50x3",
		"estimated_1rm": 100.0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	var resp recommend.IntensityResponse
	if err := json.Unmarshal([]byte(resultText(t, res)), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Canonical != "10x50x3" || resp.Coefficients.ResistanceIntensity != 1.5 {
		t.Errorf("response = %+v", resp)
	}

	missing, err := h.computeIntensity(context.Background(), callRequest("compute_intensity", map[string]any{"workout": "10x50x3"}))
	if err != nil {
		t.Fatal(err)
	}
	if !missing.IsError {
		t.Error("expected error without estimated_1rm")
	}
}

func TestAssessReadinessTool(t *testing.T) {
	h := newHandlers(&fakeSource{})
	res, err := h.assessReadiness(context.Background(), callRequest("assess_readiness", map[string]any{
		"mood": "Very Good", "fatigue": "1", "effort": "High",
	}))
	if err != nil {
		t.Fatal(err)
	}
	var resp recommend.ReadinessResponse
	if err := json.Unmarshal([]byte(resultText(t, res)), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State.Mood != 5 || resp.State.Fatigue != 1 || resp.State.Effort != 4 {
		t.Errorf("state = %+v", resp.State)
	}
	if resp.Quality.Fallbacks != 0 {
		t.Errorf("fallbacks = %d, want 0", resp.Quality.Fallbacks)
	}
}

// TestAssessReadinessNumericArguments verifies 1-5 numbers pass through
// unchanged instead of falling back to the neutral rating.
func TestAssessReadinessNumericArguments(t *testing.T) {
	h := newHandlers(&fakeSource{})
	res, err := h.assessReadiness(context.Background(), callRequest("assess_readiness", map[string]any{
		"mood": 5, "fatigue": 1, "effort": 3,
	}))
	if err != nil {
		t.Fatal(err)
	}
	var resp recommend.ReadinessResponse
	if err := json.Unmarshal([]byte(resultText(t, res)), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State.Mood != 5 || resp.State.Fatigue != 1 || resp.State.Effort != 3 {
		t.Errorf("state = %+v, want mood 5 fatigue 1 effort 3", resp.State)
	}
	if resp.Quality.Fallbacks != 0 {
		t.Errorf("fallbacks = %d, want 0", resp.Quality.Fallbacks)
	}
	if d := resp.Readiness - 1.18; d > 1e-9 || d < -1e-9 {
		t.Errorf("readiness = %v, want 1.18", resp.Readiness)
	}
}

func TestClassifySuitabilityTool(t *testing.T) {
	h := newHandlers(&fakeSource{})
	res, err := h.classifySuitability(context.Background(), callRequest("classify_suitability", map[string]any{
		"scores": []any{0.97, 0.3},
	}))
	if err != nil {
		t.Fatal(err)
	}
	var resp recommend.ClassifyResponse
	if err := json.Unmarshal([]byte(resultText(t, res)), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[0].Category != "Perfect Fit" || resp.Results[1].Category != "Ineffective" {
		t.Errorf("results = %+v", resp.Results)
	}

	empty, err := h.classifySuitability(context.Background(), callRequest("classify_suitability", map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !empty.IsError {
		t.Error("expected error without scores")
	}
}

// TestDecodeWorkoutOptionalSuitability verifies suitability is only passed
// when the caller supplied it.
func TestDecodeWorkoutOptionalSuitability(t *testing.T) {
	fs := &fakeSource{}
	h := newHandlers(fs)

	if _, err := h.decodeWorkout(context.Background(), callRequest("decode_workout", map[string]any{
		"predicted_value": 100.0, "goal": "endurance",
	})); err != nil {
		t.Fatal(err)
	}
	if fs.decodeReq.Suitability != nil {
		t.Error("suitability should be nil when omitted")
	}

	if _, err := h.decodeWorkout(context.Background(), callRequest("decode_workout", map[string]any{
		"predicted_value": 100.0, "suitability": 0.8,
	})); err != nil {
		t.Fatal(err)
	}
	if fs.decodeReq.Suitability == nil || *fs.decodeReq.Suitability != 0.8 {
		t.Errorf("suitability = %v, want 0.8", fs.decodeReq.Suitability)
	}
}

func TestModelInfoToolError(t *testing.T) {
	h := newHandlers(&fakeSource{err: errors.New("remote down")})
	res, err := h.modelInfo(context.Background(), callRequest("model_info", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error")
	}
}

func TestSuitabilityBandsResource(t *testing.T) {
	h := newHandlers(&fakeSource{})
	var req mcp.ReadResourceRequest
	req.Params.URI = "fitrec://suitability_bands"
	contents, err := h.suitabilityBands(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	var bands []bandInfo
	if err := json.Unmarshal([]byte(text), &bands); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(bands) != 6 || bands[0].Category != "Ineffective" || bands[5].Upper != 1.0 {
		t.Errorf("bands = %+v", bands)
	}
}

func TestNewRegistersTools(t *testing.T) {
	s := New(&fakeSource{}, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if s == nil {
		t.Fatal("New returned nil")
	}
}
