package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("fitrec", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("fitrec exercise recommendation server. Rank candidate exercises for a user profile and current state, compute workout intensity coefficients, estimate readiness, classify suitability scores and decode predictions into sets, reps, weight and rest."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolRecommendExercises, Handler: h.recommendExercises},
		server.ServerTool{Tool: toolComputeIntensity, Handler: h.computeIntensity},
		server.ServerTool{Tool: toolAssessReadiness, Handler: h.assessReadiness},
		server.ServerTool{Tool: toolClassifySuitability, Handler: h.classifySuitability},
		server.ServerTool{Tool: toolDecodeWorkout, Handler: h.decodeWorkout},
		server.ServerTool{Tool: toolModelInfo, Handler: h.modelInfo},
	)

	s.AddResources(
		server.ServerResource{Resource: resGoalRules, Handler: h.goalRules},
		server.ServerResource{Resource: resSuitabilityBands, Handler: h.suitabilityBands},
		server.ServerResource{Resource: resModel, Handler: h.model},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resGoalRules = mcp.NewResource(
	"fitrec://goal_rules",
	"Goal Rules",
	mcp.WithResourceDescription("Per-goal decoding rules: intensity percentage of 1RM, rep, set and rest ranges"),
	mcp.WithMIMEType("application/json"),
)

var resSuitabilityBands = mcp.NewResource(
	"fitrec://suitability_bands",
	"Suitability Bands",
	mcp.WithResourceDescription("Suitability score bands with their category names and recommended actions"),
	mcp.WithMIMEType("application/json"),
)

var resModel = mcp.NewResource(
	"fitrec://model",
	"Model",
	mcp.WithResourceDescription("Version and feature columns of the loaded scoring model"),
	mcp.WithMIMEType("application/json"),
)
