package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/logger"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
)

func TestRunPredict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     predictOptions
		wantOut  []string
		wantNot  []string
		wantErr  error
		modelArg string
	}{
		{
			name:    "form defaults",
			wantOut: []string{"Predicted Price", "Rs 1,200.00"},
			wantNot: []string{"Feature Guide", "Unrecognized"},
		},
		{
			name:    "labels resolve onto columns",
			opts:    predictOptions{set: []string{"Driver Size=14mm", "noise cancellation=ANC"}},
			wantOut: []string{"Rs 1,900.00"},
		},
		{
			name: "unrecognized and unknown fields are reported",
			opts: predictOptions{set: []string{"Water Resistant=IPX5", "Colour=black"}},
			wantOut: []string{
				"Unrecognized values treated as unknown: Water Resistant",
				"Ignored unknown fields: Colour",
			},
		},
		{
			name:    "guide first",
			opts:    predictOptions{guide: true},
			wantOut: []string{"Feature Guide", "Driver Size", "Predicted Price"},
		},
		{
			name:     "missing model renders unavailable",
			modelArg: "testdata/missing.yaml",
			wantOut:  []string{"Prediction unavailable."},
			wantErr:  predict.ErrScoringUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := "testdata/pipeline.yaml"
			if tt.modelArg != "" {
				path = tt.modelArg
			}

			var out bytes.Buffer
			err := runPredict(context.Background(), &out, testConfig(path), logger.Discard(), tt.opts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
			for _, not := range tt.wantNot {
				assert.NotContains(t, out.String(), not)
			}
		})
	}
}

func TestRunPredict_JSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runPredict(context.Background(), &out, testConfig("testdata/pipeline.yaml"), logger.Discard(),
		predictOptions{set: []string{"Playtime=N/A", "Driver Size=42mm"}, jsonOutput: true})
	require.NoError(t, err)

	var got struct {
		Price      float64        `json:"price"`
		Formatted  string         `json:"formatted"`
		Backend    string         `json:"backend"`
		Normalized map[string]any `json:"normalized"`
		OutOfRange []string       `json:"out_of_range"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))

	// 1000 + 100*(42-10)/2 + 50*4 (imputed playtime)
	assert.InDelta(t, 2800.0, got.Price, 1e-9)
	assert.Equal(t, "Rs 2,800.00", got.Formatted)
	assert.Equal(t, "pipeline", got.Backend)
	assert.Nil(t, got.Normalized["Battery - Playtime"])
	assert.Equal(t, []string{"General Features - Driver Size"}, got.OutOfRange)
}

func TestRunPredict_BadAssignment(t *testing.T) {
	t.Parallel()

	err := runPredict(context.Background(), &bytes.Buffer{}, testConfig("testdata/pipeline.yaml"),
		logger.Discard(), predictOptions{set: []string{"Driver Size"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid field assignment")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := versionCommand()
	c.SetOut(&out)
	c.SetArgs([]string{})
	require.NoError(t, c.Execute())
	assert.Equal(t, "airbuds-price-predictor dev\n", out.String())
}
