package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/airbuds-price-predictor/internal/engine"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/render"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// PredictHandler serves normalization and price prediction.
type PredictHandler struct {
	engine *engine.Engine
}

// NewPredictHandler creates a new PredictHandler.
func NewPredictHandler(eng *engine.Engine) *PredictHandler {
	return &PredictHandler{engine: eng}
}

// RecordInput is the request body shared by normalize and predict.
type RecordInput struct {
	Body struct {
		Fields map[string]any `json:"fields" doc:"Raw field values keyed by column name or label. Missing fields use their fallback."`
	}
}

// NormalizeOutput is the response body for the normalize endpoint.
type NormalizeOutput struct {
	Body struct {
		Normalized map[string]any `json:"normalized"             doc:"Normalized value per field; null marks a missing value"`
		Degraded   []string       `json:"degraded,omitempty"     doc:"Fields whose raw value was not recognized"`
		Ignored    []string       `json:"ignored,omitempty"      doc:"Request keys that name no known field"`
		OutOfRange []string       `json:"out_of_range,omitempty" doc:"Numeric fields outside the form bounds"`
	}
}

// PredictOutput is the response body for the predict endpoint.
type PredictOutput struct {
	Body struct {
		Price      float64        `json:"price"                  example:"1999.5"      doc:"Predicted price, never negative"`
		Currency   string         `json:"currency"               example:"Rs"          doc:"Currency prefix"`
		Formatted  string         `json:"formatted"              example:"Rs 1,999.50" doc:"Price with currency, separators, and two decimals"`
		Backend    string         `json:"backend"                example:"pipeline"    doc:"Scoring backend that produced the price"`
		Normalized map[string]any `json:"normalized"             doc:"The record that was scored"`
		Degraded   []string       `json:"degraded,omitempty"     doc:"Fields whose raw value was not recognized"`
		Ignored    []string       `json:"ignored,omitempty"      doc:"Request keys that name no known field"`
		OutOfRange []string       `json:"out_of_range,omitempty" doc:"Numeric fields outside the form bounds"`
	}
}

// Normalize converts raw field values into the model's encoding without
// scoring. It never fails on field content.
func (h *PredictHandler) Normalize(ctx context.Context, input *RecordInput) (*NormalizeOutput, error) {
	rec, report := h.engine.Normalize(ctx, rawRecord(input.Body.Fields))

	resp := &NormalizeOutput{}
	resp.Body.Normalized = recordBody(rec)
	resp.Body.Degraded = fieldStrings(report.Degraded)
	resp.Body.Ignored = report.Ignored
	resp.Body.OutOfRange = fieldStrings(schema.OutOfRange(rec))
	return resp, nil
}

// Predict normalizes raw field values and scores them.
func (h *PredictHandler) Predict(ctx context.Context, input *RecordInput) (*PredictOutput, error) {
	est, err := h.engine.Estimate(ctx, rawRecord(input.Body.Fields))
	if err != nil {
		switch {
		case errors.Is(err, predict.ErrScoringUnavailable):
			return nil, huma.Error503ServiceUnavailable(render.UnavailableMessage, err)
		case errors.Is(err, predict.ErrScoringFailed):
			return nil, huma.Error422UnprocessableEntity(render.Guidance, err)
		default:
			return nil, huma.Error500InternalServerError("prediction failed", err)
		}
	}

	resp := &PredictOutput{}
	resp.Body.Price = est.Result.Price
	resp.Body.Currency = est.Result.Currency
	resp.Body.Formatted = render.Price(est.Result.Currency, est.Result.Price)
	resp.Body.Backend = est.Result.Backend
	resp.Body.Normalized = recordBody(est.Normalized)
	resp.Body.Degraded = fieldStrings(est.Report.Degraded)
	resp.Body.Ignored = est.Report.Ignored
	resp.Body.OutOfRange = fieldStrings(schema.OutOfRange(est.Normalized))
	return resp, nil
}

// RegisterPredictRoutes registers the normalize and predict endpoints with the Huma API.
func RegisterPredictRoutes(api huma.API, h *PredictHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "normalize-record",
		Method:      http.MethodPost,
		Path:        "/api/v1/normalize",
		Summary:     "Normalize raw specifications",
		Description: "Maps free-form specification strings onto the categorical and numeric encoding the model expects.",
		Tags:        []string{"prediction"},
	}, h.Normalize)

	huma.Register(api, huma.Operation{
		OperationID: "predict-price",
		Method:      http.MethodPost,
		Path:        "/api/v1/predict",
		Summary:     "Predict earbud price",
		Description: "Normalizes the raw specifications and returns the predicted retail price. " +
			"Returns 503 when the model is not loaded and 422 when scoring fails.",
		Tags: []string{"prediction"},
		Errors: []int{
			http.StatusUnprocessableEntity,
			http.StatusServiceUnavailable,
		},
	}, h.Predict)
}

func rawRecord(fields map[string]any) domain.RawRecord {
	raw := make(domain.RawRecord, len(fields))
	for k, v := range fields {
		raw[domain.FieldName(k)] = v
	}
	return raw
}

// recordBody keys the record by column name. Values marshal through
// domain.Value, so missing values become null.
func recordBody(rec domain.NormalizedRecord) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[string(k)] = v
	}
	return out
}

func fieldStrings(names []domain.FieldName) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
