package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// RecordRequest is the body of normalize and predict requests.
type RecordRequest struct {
	Fields map[string]any `json:"fields"`
}

// NormalizeResponse is the normalize endpoint reply.
type NormalizeResponse struct {
	Normalized domain.NormalizedRecord `json:"normalized"`
	Degraded   []domain.FieldName      `json:"degraded,omitempty"`
	Ignored    []string                `json:"ignored,omitempty"`
	OutOfRange []domain.FieldName      `json:"out_of_range,omitempty"`
}

// PredictResponse is the predict endpoint reply.
type PredictResponse struct {
	NormalizeResponse
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
	Backend   string  `json:"backend"`
}

// Result returns the prediction as a domain result.
func (r *PredictResponse) Result() domain.PredictionResult {
	return domain.PredictionResult{
		Price:    r.Price,
		Currency: r.Currency,
		Backend:  r.Backend,
	}
}

func recordRequest(raw domain.RawRecord) RecordRequest {
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		fields[string(k)] = v
	}
	return RecordRequest{Fields: fields}
}

// ListFields returns the input field schema.
func (c *Client) ListFields(ctx context.Context) ([]domain.FeatureSpec, error) {
	var resp struct {
		Fields []domain.FeatureSpec `json:"fields"`
	}
	if err := c.get(ctx, "/api/v1/fields", &resp); err != nil {
		return nil, err
	}
	return resp.Fields, nil
}

// GetField returns one field by column name or label.
func (c *Client) GetField(ctx context.Context, name string) (*domain.FeatureSpec, error) {
	var spec domain.FeatureSpec
	if err := c.get(ctx, "/api/v1/fields/"+url.PathEscape(name), &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Normalize asks the server to normalize raw.
func (c *Client) Normalize(ctx context.Context, raw domain.RawRecord) (*NormalizeResponse, error) {
	var resp NormalizeResponse
	if err := c.post(ctx, "/api/v1/normalize", recordRequest(raw), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Predict asks the server for a price. Failures are predict.ErrScoringUnavailable,
// a *predict.ScoringFailedError, or an *APIError.
func (c *Client) Predict(ctx context.Context, raw domain.RawRecord) (*PredictResponse, error) {
	var resp PredictResponse
	if err := c.post(ctx, "/api/v1/predict", recordRequest(raw), &resp); err != nil {
		return nil, predictionError(err)
	}
	return &resp, nil
}

// Ready reports whether the server has a loaded model.
func (c *Client) Ready(ctx context.Context) (bool, error) {
	err := c.get(ctx, "/readyz", nil)
	if err == nil {
		return true, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
		return false, nil
	}
	return false, err
}
