package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiclient "github.com/donaldgifford/airbuds-price-predictor/internal/api/client"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/render"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

func TestPrintFieldsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, printFieldsTable(&buf, schema.Features()))

	out := buf.String()
	assert.Contains(t, out, "LABEL")
	assert.Contains(t, out, "Noise Cancellation")
	assert.Contains(t, out, "Unknown, Yes, No")
	assert.Contains(t, out, "0 to 5000")
	assert.Contains(t, out, "Android & iOS")
}

func TestPrintFieldDetail(t *testing.T) {
	t.Parallel()

	spec, ok := schema.Lookup("Charging Time")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, printFieldDetail(&buf, &spec))

	out := buf.String()
	assert.Contains(t, out, "Battery - Charging Time")
	assert.Contains(t, out, "numeric")
	assert.Contains(t, out, "0 to 5")
	assert.Contains(t, out, "1.5")
	assert.Contains(t, out, "Step:")
}

func TestPrintNormalizedTable(t *testing.T) {
	t.Parallel()

	resp := &apiclient.NormalizeResponse{
		Normalized: domain.NormalizedRecord{
			domain.FieldWaterResistant: domain.Label(domain.CategoryUnknown),
			domain.FieldDriverSize:     domain.Number(42),
			domain.FieldPlaytime:       domain.Missing(),
		},
		Degraded:   []domain.FieldName{domain.FieldWaterResistant},
		OutOfRange: []domain.FieldName{domain.FieldDriverSize},
	}

	var buf bytes.Buffer
	require.NoError(t, printNormalizedTable(&buf, resp))

	out := buf.String()
	assert.Regexp(t, `Water Resistant\s+Unknown\s+unrecognized`, out)
	assert.Regexp(t, `Driver Size\s+42\s+out of range`, out)
	assert.Regexp(t, `Playtime\s+NaN`, out)
	assert.NotContains(t, out, "Mic")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

// The following tests set package-level viper state and must not run in
// parallel.

func TestShowPrediction(t *testing.T) {
	viper.Set("output", "table")
	t.Cleanup(viper.Reset)

	resp := &apiclient.PredictResponse{
		NormalizeResponse: apiclient.NormalizeResponse{
			Degraded: []domain.FieldName{domain.FieldWaterResistant},
			Ignored:  []string{"Colour"},
		},
		Price:    1999.5,
		Currency: "Rs",
		Backend:  "pipeline",
	}

	var out, errOut bytes.Buffer
	require.NoError(t, showPrediction(&out, &errOut, resp, nil))
	assert.Contains(t, out.String(), "Rs 1,999.50")
	assert.Contains(t, out.String(), "Unrecognized values treated as unknown: Water Resistant")
	assert.Contains(t, out.String(), "Ignored unknown fields: Colour")
	assert.Empty(t, errOut.String())
}

func TestShowPrediction_Failures(t *testing.T) {
	t.Cleanup(viper.Reset)

	tests := []struct {
		name       string
		err        error
		wantErrOut string
	}{
		{
			name:       "scoring failed",
			err:        &predict.ScoringFailedError{Err: errors.New("shape mismatch")},
			wantErrOut: render.Guidance,
		},
		{
			name:       "unavailable",
			err:        predict.ErrScoringUnavailable,
			wantErrOut: "Prediction unavailable.",
		},
		{
			name: "transport error is only returned",
			err:  errors.New("API server not running at http://localhost:8080"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			err := showPrediction(&out, &errOut, nil, tt.err)
			require.ErrorIs(t, err, tt.err)
			assert.Empty(t, out.String())
			if tt.wantErrOut == "" {
				assert.Empty(t, errOut.String())
				return
			}
			assert.Contains(t, errOut.String(), tt.wantErrOut)
		})
	}
}

func TestFieldsListCmd_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/fields", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fields":[{"name":"General Features - Mic","label":"Mic","kind":"choice"}]}`))
	}))
	defer srv.Close()

	viper.Set("server", srv.URL)
	viper.Set("output", "json")
	t.Cleanup(viper.Reset)

	var buf bytes.Buffer
	c := fieldsListCmd()
	c.SetOut(&buf)
	c.SetArgs([]string{})
	require.NoError(t, c.Execute())

	assert.Contains(t, buf.String(), `"name": "General Features - Mic"`)
	assert.Contains(t, buf.String(), `"label": "Mic"`)
}
