package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitrec/internal/recommend"
)

// --- Tool definitions ---

var toolRecommendExercises = mcp.NewTool("recommend_exercises",
	mcp.WithDescription("Rank candidate exercises for a user. Scores each candidate with the two-stage model, drops those with suitability below 0.4, and returns the top K with suitability category, intensity coefficients and a decoded prescription (weight, reps, sets, rest)."),
	mcp.WithObject("health_profile", mcp.Required(),
		mcp.Description("Physical profile: age (10-100), height_cm, weight_kg, optional bmi and resting_heart_rate"),
		mcp.Properties(map[string]any{
			"age":                map[string]any{"type": "number"},
			"height_cm":          map[string]any{"type": "number"},
			"weight_kg":          map[string]any{"type": "number"},
			"bmi":                map[string]any{"type": "number"},
			"resting_heart_rate": map[string]any{"type": "number"},
		}),
	),
	mcp.WithObject("user_context",
		mcp.Description("Training context: gender, experience_level (Beginner/Intermediate/Advanced/Expert or 1-5), workout_frequency (days per week, 1-7)"),
	),
	mcp.WithObject("current_state",
		mcp.Description("Subjective state: mood, fatigue and effort, each a label (e.g. 'Good', 'Low') or a 1-5 number"),
	),
	mcp.WithString("goal", mcp.Description("Training goal. Defaults to general_fitness."),
		mcp.Enum("strength", "hypertrophy", "endurance", "general_fitness")),
	mcp.WithNumber("estimated_1rm", mcp.Description("Estimated one-rep max in kg. Defaults to 0.8 x body weight.")),
	mcp.WithNumber("max_pace", mcp.Description("Maximum pace baseline. Defaults to 1.0.")),
	mcp.WithArray("candidates", mcp.Required(),
		mcp.Description("Exercises to rank. Each has a name and optional id, met_value and workout string like '10x60x3 | 8x70x3'."),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":        map[string]any{"type": "string"},
				"name":      map[string]any{"type": "string"},
				"met_value": map[string]any{"type": "number"},
				"workout":   map[string]any{"type": "string"},
			},
			"required": []string{"name"},
		}),
	),
	mcp.WithNumber("top_k", mcp.Description("Number of recommendations to return. Defaults to 5.")),
	mcp.WithNumber("duration_min", mcp.Description("Planned session length in minutes. Defaults to 45.")),
)

var toolComputeIntensity = mcp.NewTool("compute_intensity",
	mcp.WithDescription("Parse a workout string ('reps x weight x sets' segments joined by '|') and compute its intensity coefficients: resistance, cardio, volume load, rest density and tempo factor."),
	mcp.WithString("workout", mcp.Required(), mcp.Description("Workout string, e.g. '10x60x3 | 8x70x3'")),
	mcp.WithNumber("estimated_1rm", mcp.Required(), mcp.Description("Estimated one-rep max in kg")),
	mcp.WithNumber("max_pace", mcp.Description("Maximum pace baseline. Defaults to 1.0.")),
)

var toolAssessReadiness = mcp.NewTool("assess_readiness",
	mcp.WithDescription("Map mood, fatigue and effort onto the 1-5 scale and estimate the readiness factor used to scale training load."),
	mcp.WithString("mood", mcp.Description("Mood label (Very Bad .. Very Good) or a 1-5 number")),
	mcp.WithString("fatigue", mcp.Description("Fatigue label (Very Low .. Very High) or a 1-5 number")),
	mcp.WithString("effort", mcp.Description("Effort label (Very Low .. Very High) or a 1-5 number")),
)

var toolClassifySuitability = mcp.NewTool("classify_suitability",
	mcp.WithDescription("Classify suitability scores in [0,1] into categories (Ineffective, Low, Moderate, Good, Very Good, Perfect Fit) with the recommended action."),
	mcp.WithNumber("score", mcp.Description("A single suitability score")),
	mcp.WithArray("scores", mcp.Description("Several suitability scores; the category distribution is included"),
		mcp.Items(map[string]any{"type": "number"})),
)

var toolDecodeWorkout = mcp.NewTool("decode_workout",
	mcp.WithDescription("Turn a predicted 1RM-scale value into a workout prescription for a goal, adjusted by readiness. Optionally grades the prescription against a suitability score."),
	mcp.WithNumber("predicted_value", mcp.Required(), mcp.Description("Predicted load value in kg (intensity x estimated 1RM)")),
	mcp.WithString("goal", mcp.Description("Training goal. Defaults to general_fitness."),
		mcp.Enum("strength", "hypertrophy", "endurance", "general_fitness")),
	mcp.WithNumber("readiness", mcp.Description("Readiness factor in [0.5,1.5]. Defaults to 1.0.")),
	mcp.WithNumber("suitability", mcp.Description("Suitability score used to grade the prescription")),
)

var toolModelInfo = mcp.NewTool("model_info",
	mcp.WithDescription("Describe the loaded scoring model: model and feature schema versions and the input columns of both branches."),
)

// --- Tool handlers ---

func (h *handlers) recommendExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var r recommend.Request
	if err := req.BindArguments(&r); err != nil {
		return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
	}
	resp, err := h.ds.Recommend(ctx, r)
	if err != nil {
		return h.toolError("recommend_exercises", err), nil
	}
	return jsonResult(resp)
}

func (h *handlers) computeIntensity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workout, err := req.RequireString("workout")
	if err != nil {
		return mcp.NewToolResultError("workout parameter is required"), nil
	}
	oneRM, err := req.RequireFloat("estimated_1rm")
	if err != nil {
		return mcp.NewToolResultError("estimated_1rm parameter is required"), nil
	}
	resp, err := h.ds.ComputeIntensity(ctx, recommend.IntensityRequest{
		Workout:      workout,
		Estimated1RM: oneRM,
		MaxPace:      req.GetFloat("max_pace", 0),
	})
	if err != nil {
		return h.toolError("compute_intensity", err), nil
	}
	return jsonResult(resp)
}

func (h *handlers) assessReadiness(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var r recommend.ReadinessRequest
	if err := req.BindArguments(&r); err != nil {
		return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
	}
	resp, err := h.ds.AssessReadiness(ctx, r)
	if err != nil {
		return h.toolError("assess_readiness", err), nil
	}
	return jsonResult(resp)
}

func (h *handlers) classifySuitability(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var r recommend.ClassifyRequest
	if err := req.BindArguments(&r); err != nil {
		return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
	}
	resp, err := h.ds.Classify(ctx, r)
	if err != nil {
		return h.toolError("classify_suitability", err), nil
	}
	return jsonResult(resp)
}

func (h *handlers) decodeWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	predicted, err := req.RequireFloat("predicted_value")
	if err != nil {
		return mcp.NewToolResultError("predicted_value parameter is required"), nil
	}
	r := recommend.DecodeRequest{
		PredictedValue: predicted,
		Goal:           req.GetString("goal", ""),
		Readiness:      req.GetFloat("readiness", 0),
	}
	if _, ok := req.GetArguments()["suitability"]; ok {
		s := req.GetFloat("suitability", 0)
		r.Suitability = &s
	}
	resp, err := h.ds.Decode(ctx, r)
	if err != nil {
		return h.toolError("decode_workout", err), nil
	}
	return jsonResult(resp)
}

func (h *handlers) modelInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := h.ds.ModelInfo(ctx)
	if err != nil {
		return h.toolError("model_info", err), nil
	}
	return jsonResult(info)
}

// toolError reports invalid input back to the caller as-is and logs anything
// else.
func (h *handlers) toolError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, recommend.ErrInvalidRequest) {
		return mcp.NewToolResultError(err.Error())
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("request failed: " + err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
