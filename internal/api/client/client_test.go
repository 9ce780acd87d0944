package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/airbuds-price-predictor/internal/api/handlers"
	"github.com/donaldgifford/airbuds-price-predictor/internal/engine"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/logger"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/render"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// newTestServer serves the real handlers over HTTP so the client is
// exercised against the actual wire format.
func newTestServer(t *testing.T, p *predict.Predictor) *httptest.Server {
	t.Helper()

	e := echo.New()
	api := humaecho.New(e, huma.DefaultConfig("test", "0.0.0"))

	eng := engine.NewEngine(p, engine.WithLogger(logger.Discard()), engine.WithCurrency("Rs"))
	health := handlers.NewHealthHandler(eng)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	handlers.RegisterFieldsRoutes(api, handlers.NewFieldsHandler())
	handlers.RegisterPredictRoutes(api, handlers.NewPredictHandler(eng))

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func fixedPrice(price float64) *predict.Predictor {
	return predict.New(predict.ScorerFunc(
		func(context.Context, domain.NormalizedRecord) (float64, error) {
			return price, nil
		},
	))
}

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListFields(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListFields(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
	assert.Contains(t, err.Error(), `{"error":"internal"}`)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestClient_WithHTTPClient(t *testing.T) {
	t.Parallel()

	hc := &http.Client{}
	c := New("http://localhost:8080/", WithHTTPClient(hc))
	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestClient_ListFields(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, fixedPrice(1000))
	c := New(srv.URL)

	fields, err := c.ListFields(context.Background())
	require.NoError(t, err)
	require.Len(t, fields, 14)
	assert.Equal(t, domain.FieldNoiseCancellation, fields[0].Name)
	assert.Equal(t, domain.FieldChargingTime, fields[13].Name)
}

func TestClient_GetField(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, fixedPrice(1000))
	c := New(srv.URL)

	spec, err := c.GetField(context.Background(), "Battery - Playtime")
	require.NoError(t, err)
	assert.Equal(t, domain.FieldPlaytime, spec.Name)
	assert.Equal(t, domain.KindNumeric, spec.Kind)

	_, err = c.GetField(context.Background(), "Colour")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "unknown field: Colour")
}

func TestClient_Normalize(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, fixedPrice(1000))
	c := New(srv.URL)

	resp, err := c.Normalize(context.Background(), domain.RawRecord{
		domain.FieldPlaytime:       "3-4 Hrs",
		domain.FieldWaterResistant: "IPX5",
		domain.FieldBluetoothRange: "N/A",
		domain.FieldName("Colour"): "black",
	})
	require.NoError(t, err)

	playtime, ok := resp.Normalized[domain.FieldPlaytime].Float()
	require.True(t, ok)
	assert.InDelta(t, 3.5, playtime, 1e-9)
	assert.True(t, resp.Normalized[domain.FieldBluetoothRange].IsMissing())
	assert.Equal(t, []domain.FieldName{domain.FieldWaterResistant}, resp.Degraded)
	assert.Equal(t, []string{"Colour"}, resp.Ignored)
}

func TestClient_Predict(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"price":1999.5,"currency":"Rs","formatted":"Rs 1,999.50",` +
			`"backend":"pipeline","normalized":{"Battery - Playtime":3.5}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Predict(context.Background(), domain.RawRecord{domain.FieldPlaytime: "3-4 Hrs"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"fields": map[string]any{"Battery - Playtime": "3-4 Hrs"}}, got)
	assert.Equal(t, domain.PredictionResult{Price: 1999.5, Currency: "Rs", Backend: "pipeline"}, resp.Result())
	assert.Equal(t, "Rs 1,999.50", resp.Formatted)
}

func TestClient_PredictErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		predictor *predict.Predictor
		wantIs    error
		wantMsg   string
	}{
		{
			name:      "model not loaded",
			predictor: predict.NewUnavailable(errors.New("model artifact not found")),
			wantIs:    predict.ErrScoringUnavailable,
			wantMsg:   "scoring unavailable: model artifact not found",
		},
		{
			name: "scorer rejects record",
			predictor: predict.New(predict.ScorerFunc(
				func(context.Context, domain.NormalizedRecord) (float64, error) {
					return 0, errors.New("could not convert string to float")
				},
			)),
			wantIs:  predict.ErrScoringFailed,
			wantMsg: "scoring failed: could not convert string to float",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, tt.predictor)
			c := New(srv.URL)

			_, err := c.Predict(context.Background(), domain.RawRecord{})
			require.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestClient_PredictFailureRendersGuidance(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, predict.New(predict.ScorerFunc(
		func(context.Context, domain.NormalizedRecord) (float64, error) {
			return 0, errors.New("shape mismatch")
		},
	)))

	_, err := New(srv.URL).Predict(context.Background(), domain.RawRecord{})
	require.Error(t, err)

	out := render.Failure(err)
	assert.Contains(t, out, render.Guidance)
	assert.Contains(t, out, "shape mismatch")
}

func TestClient_Ready(t *testing.T) {
	t.Parallel()

	ready, err := New(newTestServer(t, fixedPrice(1)).URL).Ready(context.Background())
	require.NoError(t, err)
	assert.True(t, ready)

	ready, err = New(newTestServer(t, predict.NewUnavailable(errors.New("gone"))).URL).
		Ready(context.Background())
	require.NoError(t, err)
	assert.False(t, ready)
}
