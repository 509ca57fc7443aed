package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/fitrec/internal/recommend"
	"github.com/claude/fitrec/internal/scoring"
)

// HTTPClient implements DataSource by calling the fitrec REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the model is served by a remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey
// may be empty when the server does not require one.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// do sends a request and decodes a 200 response into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode %s: %w", path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", recommend.ErrInvalidRequest, apiError(data))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

// apiError extracts the message from an {"error": "..."} body.
func apiError(data []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(data))
}

func (c *HTTPClient) Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
	var resp recommend.Response
	if err := c.do(ctx, http.MethodPost, "/api/v1/recommend", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ModelInfo(ctx context.Context) (scoring.Info, error) {
	var info scoring.Info
	err := c.do(ctx, http.MethodGet, "/api/v1/model", nil, &info)
	return info, err
}

func (c *HTTPClient) ComputeIntensity(ctx context.Context, req recommend.IntensityRequest) (*recommend.IntensityResponse, error) {
	var resp recommend.IntensityResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/coefficients", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) AssessReadiness(ctx context.Context, req recommend.ReadinessRequest) (*recommend.ReadinessResponse, error) {
	var resp recommend.ReadinessResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/readiness", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Classify(ctx context.Context, req recommend.ClassifyRequest) (*recommend.ClassifyResponse, error) {
	var resp recommend.ClassifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/classify", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Decode(ctx context.Context, req recommend.DecodeRequest) (*recommend.DecodeResponse, error) {
	var resp recommend.DecodeResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/decode", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
