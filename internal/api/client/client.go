// Package client provides a thin HTTP client for the airbuds-price-predictor API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/render"
)

// Client is a thin HTTP client for the airbuds-price-predictor API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client targeting the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// APIError is a non-2xx response. The server answers with RFC 9457 problem
// details; Detail and Messages are filled from them when present.
type APIError struct {
	StatusCode int
	Detail     string
	Messages   []string
	Body       string
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Body
	}
	if len(e.Messages) > 0 {
		msg += ": " + strings.Join(e.Messages, "; ")
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, msg)
}

type problem struct {
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// get performs a GET request and decodes the JSON response into dst.
func (c *Client) get(ctx context.Context, path string, dst any) error {
	return c.do(ctx, http.MethodGet, path, nil, dst)
}

// post performs a POST request with a JSON body and decodes the response into dst.
func (c *Client) post(ctx context.Context, path string, body, dst any) error {
	return c.do(ctx, http.MethodPost, path, body, dst)
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return fmt.Errorf("API server not running at %s", c.baseURL)
		}
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp.StatusCode, respBody)
	}

	if dst != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, dst); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: strings.TrimSpace(string(body))}

	var p problem
	if json.Unmarshal(body, &p) == nil {
		e.Detail = p.Detail
		for _, d := range p.Errors {
			if d.Message != "" {
				e.Messages = append(e.Messages, d.Message)
			}
		}
	}
	return e
}

// predictionError maps the predict endpoint's failure statuses back onto the
// predictor's error taxonomy so callers can render them the same way as a
// local prediction.
func predictionError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	msg := strings.Join(apiErr.Messages, "; ")
	switch {
	case apiErr.StatusCode == http.StatusServiceUnavailable:
		msg = strings.TrimPrefix(msg, predict.ErrScoringUnavailable.Error()+": ")
		if msg == "" {
			return fmt.Errorf("%w: %w", predict.ErrScoringUnavailable, apiErr)
		}
		return fmt.Errorf("%w: %w", predict.ErrScoringUnavailable, errors.New(msg))
	case apiErr.StatusCode == http.StatusUnprocessableEntity && apiErr.Detail == render.Guidance:
		msg = strings.TrimPrefix(msg, predict.ErrScoringFailed.Error()+": ")
		return &predict.ScoringFailedError{Err: errors.New(msg)}
	default:
		return err
	}
}

func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) ||
		strings.Contains(err.Error(), "connection refused")
}
