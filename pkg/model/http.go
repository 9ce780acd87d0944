package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// HTTPScorer scores records through a remote service exposing
// POST /v1/score and GET /healthz.
type HTTPScorer struct {
	endpoint string
	client   *http.Client
}

// HTTPOption configures the HTTPScorer.
type HTTPOption func(*HTTPScorer)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPScorer) {
		s.client = c
	}
}

// NewHTTPScorer creates a scorer for the service at endpoint.
func NewHTTPScorer(endpoint string, timeout time.Duration, opts ...HTTPOption) *HTTPScorer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &HTTPScorer{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the backend name.
func (*HTTPScorer) Name() string {
	return "http"
}

// ScoreRequest is the body sent to the scoring service. Missing values are
// encoded as null.
type ScoreRequest struct {
	Features domain.NormalizedRecord `json:"features"`
}

// ScoreResponse is the scoring service reply.
type ScoreResponse struct {
	Price *float64 `json:"price"`
	Error string   `json:"error,omitempty"`
}

// Score posts rec to the scoring service.
func (s *HTTPScorer) Score(ctx context.Context, rec domain.NormalizedRecord) (float64, error) {
	body, err := json.Marshal(ScoreRequest{Features: rec})
	if err != nil {
		return 0, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.endpoint+"/v1/score",
		bytes.NewReader(body),
	)
	if err != nil {
		return 0, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling scoring service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf(
			"scoring service error (status %d): %s",
			resp.StatusCode,
			strings.TrimSpace(string(respBody)),
		)
	}

	var out ScoreResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return 0, fmt.Errorf("parsing scoring response: %w", err)
	}
	if out.Error != "" {
		return 0, fmt.Errorf("scoring service: %s", out.Error)
	}
	if out.Price == nil {
		return 0, fmt.Errorf("parsing scoring response: missing price")
	}

	return *out.Price, nil
}

// Probe checks that the scoring service answers its health endpoint.
func (s *HTTPScorer) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("probing scoring service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoring service unhealthy (status %d)", resp.StatusCode)
	}
	return nil
}
