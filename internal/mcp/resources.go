package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitrec/internal/decoder"
	"github.com/claude/fitrec/internal/suitability"
)

// bandInfo is the serializable form of a suitability band.
type bandInfo struct {
	Category    string             `json:"category"`
	Rank        int                `json:"rank"`
	Lower       float64            `json:"lower"`
	Upper       float64            `json:"upper"`
	Action      suitability.Action `json:"action"`
	Description string             `json:"description"`
}

func (h *handlers) goalRules(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, decoder.Rules())
}

func (h *handlers) suitabilityBands(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	bands := make([]bandInfo, len(suitability.Categories))
	for i, c := range suitability.Categories {
		lo, hi := c.Range()
		bands[i] = bandInfo{
			Category:    c.String(),
			Rank:        int(c),
			Lower:       lo,
			Upper:       hi,
			Action:      c.Action(),
			Description: c.Description(),
		}
	}
	return jsonResource(req.Params.URI, bands)
}

func (h *handlers) model(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	info, err := h.ds.ModelInfo(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, info)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
