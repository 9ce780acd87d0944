package render_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/normalize"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/render"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

func TestAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{5, "5.00"},
		{999.999, "1,000.00"},
		{1999.5, "1,999.50"},
		{12345.678, "12,345.68"},
		{1234567.891, "1,234,567.89"},
		{0.005, "0.01"},
		{-2500.25, "-2,500.25"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, render.Amount(tt.in))
		})
	}
}

func TestPrice(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Rs 1,999.50", render.Price("Rs", 1999.5))
	assert.Equal(t, "Rs 10.00", render.Price("", 10))
	assert.Equal(t, "$ 3,000.00", render.Price("$", 3000))
}

func TestEndToEnd_StubScorer(t *testing.T) {
	t.Parallel()

	rec, report := normalize.Record(schema.Defaults())
	assert.Empty(t, report.Degraded)

	p := predict.New(predict.ScorerFunc(func(context.Context, domain.NormalizedRecord) (float64, error) {
		return 1999.5, nil
	}))

	res, err := p.Predict(context.Background(), rec)
	require.NoError(t, err)
	res.Currency = "Rs"

	assert.Equal(t, "1,999.50", render.Amount(res.Price))
	out := render.Result(res)
	assert.Contains(t, out, "Predicted Price")
	assert.Contains(t, out, "Rs 1,999.50")
}

func TestEndToEnd_ScorerRaises(t *testing.T) {
	t.Parallel()

	rec, _ := normalize.Record(schema.Defaults())
	p := predict.New(predict.ScorerFunc(func(context.Context, domain.NormalizedRecord) (float64, error) {
		panic("could not convert string to float: 'abc'")
	}))

	var out string
	require.NotPanics(t, func() {
		_, err := p.Predict(context.Background(), rec)
		require.ErrorIs(t, err, predict.ErrScoringFailed)
		out = render.Failure(err)
	})

	assert.Contains(t, out, "An error occurred during prediction.")
	assert.Contains(t, out, "could not convert string to float")
	assert.Contains(t, out, "Please check your input values.")
}

func TestMessage(t *testing.T) {
	t.Parallel()

	failed := &predict.ScoringFailedError{Err: errors.New("boom")}
	unavailable := fmt.Errorf("%w: %w", predict.ErrScoringUnavailable, errors.New("no artifact"))

	assert.Equal(t, render.Guidance, render.Message(failed))
	assert.Equal(t, render.UnavailableMessage, render.Message(unavailable))
	assert.Equal(t, "An unexpected error occurred.", render.Message(errors.New("other")))
}

func TestFailure(t *testing.T) {
	t.Parallel()

	assert.Empty(t, render.Failure(nil))

	out := render.Failure(fmt.Errorf("%w: %w", predict.ErrScoringUnavailable, errors.New("no artifact")))
	assert.Contains(t, out, "Prediction unavailable.")
	assert.Contains(t, out, "no artifact")
	assert.NotContains(t, out, "Please check your input values.")

	out = render.Failure(predict.ErrScoringUnavailable)
	assert.Contains(t, out, "Prediction unavailable.")
	assert.NotContains(t, out, "Details:")
}

func TestHelpGuide(t *testing.T) {
	t.Parallel()

	out := render.HelpGuide(schema.Features())
	assert.Contains(t, out, "Feature Guide")
	for _, f := range schema.Features() {
		assert.Contains(t, out, f.Label)
	}
}
