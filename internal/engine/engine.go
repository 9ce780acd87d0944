// Package engine ties normalization and prediction together for one request.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/donaldgifford/airbuds-price-predictor/internal/metrics"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/normalize"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/render"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// Predictor scores normalized records. *predict.Predictor implements it.
type Predictor interface {
	Predict(ctx context.Context, rec domain.NormalizedRecord) (domain.PredictionResult, error)
	Ready() bool
	Backend() string
}

// Engine runs one prediction interaction: normalize, score, record.
type Engine struct {
	predictor Predictor
	currency  string
	log       *slog.Logger
}

// NewEngine creates a new Engine around p.
func NewEngine(p Predictor, opts ...EngineOption) *Engine {
	eng := &Engine{
		predictor: p,
		currency:  render.DefaultCurrency,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	eng.syncModelState()
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithCurrency sets the currency prefix attached to results.
func WithCurrency(c string) EngineOption {
	return func(e *Engine) {
		if c != "" {
			e.currency = c
		}
	}
}

// Estimate is the outcome of one interaction. Normalized and Report are set
// even when scoring fails.
type Estimate struct {
	Result     domain.PredictionResult
	Normalized domain.NormalizedRecord
	Report     normalize.Report
}

// Ready reports whether the model loaded.
func (eng *Engine) Ready() bool {
	return eng.predictor.Ready()
}

// Backend returns the scoring backend name.
func (eng *Engine) Backend() string {
	return eng.predictor.Backend()
}

// Currency returns the configured currency prefix.
func (eng *Engine) Currency() string {
	return eng.currency
}

// Normalize converts raw into a normalized record. Unrecognized values are
// logged at debug and counted, never returned as errors.
func (eng *Engine) Normalize(ctx context.Context, raw domain.RawRecord) (domain.NormalizedRecord, normalize.Report) {
	rec, report := normalize.Record(raw)

	metrics.NormalizationsTotal.Inc()
	for _, f := range report.Degraded {
		metrics.FieldDegradationsTotal.WithLabelValues(string(f)).Inc()
		eng.log.DebugContext(ctx, "field value not recognized",
			"field", f,
			"raw", raw[f],
			"normalized", rec[f].String(),
		)
	}
	if len(report.Ignored) > 0 {
		metrics.IgnoredFieldsTotal.Add(float64(len(report.Ignored)))
		eng.log.DebugContext(ctx, "ignoring unknown fields", "keys", report.Ignored)
	}

	return rec, report
}

// Estimate normalizes raw and scores it. Errors are predict.ErrScoringUnavailable
// or a *predict.ScoringFailedError.
func (eng *Engine) Estimate(ctx context.Context, raw domain.RawRecord) (Estimate, error) {
	rec, report := eng.Normalize(ctx, raw)
	est := Estimate{Normalized: rec, Report: report}

	start := time.Now()
	res, err := eng.predictor.Predict(ctx, rec)
	if err != nil {
		eng.recordFailure(ctx, err)
		return est, err
	}
	metrics.ScoringDuration.Observe(time.Since(start).Seconds())

	res.Currency = eng.currency
	est.Result = res

	metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.PredictedPrice.Observe(res.Price)
	eng.log.InfoContext(ctx, "price predicted",
		"price", res.Price,
		"backend", res.Backend,
		"degraded", len(report.Degraded),
	)

	return est, nil
}

func (eng *Engine) recordFailure(ctx context.Context, err error) {
	if errors.Is(err, predict.ErrScoringUnavailable) {
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		eng.log.WarnContext(ctx, "prediction rejected, model unavailable", "error", err)
		return
	}
	metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	eng.log.ErrorContext(ctx, "scoring failed", "error", err)
}

func (eng *Engine) syncModelState() {
	if eng.predictor.Ready() {
		metrics.ModelReady.Set(1)
		return
	}
	metrics.ModelReady.Set(0)
}
