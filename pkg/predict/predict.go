// Package predict adapts an externally supplied scoring function into a
// price predictor with an explicit Ready/Unavailable lifecycle.
package predict

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// Scorer turns a normalized record into a price estimate.
type Scorer interface {
	Score(ctx context.Context, rec domain.NormalizedRecord) (float64, error)
	Name() string
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(ctx context.Context, rec domain.NormalizedRecord) (float64, error)

// Score calls f.
func (f ScorerFunc) Score(ctx context.Context, rec domain.NormalizedRecord) (float64, error) {
	return f(ctx, rec)
}

// Name returns "func".
func (ScorerFunc) Name() string { return "func" }

// ErrScoringUnavailable is returned for every request once the model failed
// to load at startup.
var ErrScoringUnavailable = errors.New("scoring unavailable")

// ErrScoringFailed matches any *ScoringFailedError via errors.Is.
var ErrScoringFailed = errors.New("scoring failed")

// ScoringFailedError reports a failure of the scoring call itself.
type ScoringFailedError struct {
	Err error
}

func (e *ScoringFailedError) Error() string {
	return "scoring failed: " + e.Err.Error()
}

func (e *ScoringFailedError) Unwrap() error { return e.Err }

// Is reports whether target is ErrScoringFailed.
func (*ScoringFailedError) Is(target error) bool {
	return target == ErrScoringFailed
}

// State is the predictor lifecycle state. It is fixed at construction.
type State int

// Lifecycle states.
const (
	StateReady State = iota
	StateUnavailable
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "unavailable"
}

// Predictor forwards normalized records to a Scorer. It holds no mutable
// state and is safe for concurrent use if the Scorer is.
type Predictor struct {
	scorer   Scorer
	backend  string
	state    State
	cause    error
	validate bool
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithoutValidation skips the schema check before scoring. Intended for
// scorers that accept records outside the fixed schema.
func WithoutValidation() Option {
	return func(p *Predictor) {
		p.validate = false
	}
}

// New returns a Ready predictor backed by scorer.
func New(scorer Scorer, opts ...Option) *Predictor {
	p := &Predictor{
		scorer:   scorer,
		backend:  scorer.Name(),
		state:    StateReady,
		validate: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewUnavailable returns a predictor that rejects every request because the
// model could not be loaded. cause is reported alongside ErrScoringUnavailable.
func NewUnavailable(cause error) *Predictor {
	return &Predictor{state: StateUnavailable, cause: cause}
}

// State returns the lifecycle state.
func (p *Predictor) State() State { return p.state }

// Ready reports whether the predictor can score requests.
func (p *Predictor) Ready() bool { return p.state == StateReady }

// Cause returns the load failure of an Unavailable predictor.
func (p *Predictor) Cause() error { return p.cause }

// Backend returns the scorer name, or "" when Unavailable.
func (p *Predictor) Backend() string { return p.backend }

// Predict scores exactly one record. It never retries and never caches.
// Failures are ErrScoringUnavailable or a *ScoringFailedError.
func (p *Predictor) Predict(
	ctx context.Context,
	rec domain.NormalizedRecord,
) (domain.PredictionResult, error) {
	if p.state != StateReady {
		if p.cause != nil {
			return domain.PredictionResult{}, fmt.Errorf("%w: %w", ErrScoringUnavailable, p.cause)
		}
		return domain.PredictionResult{}, ErrScoringUnavailable
	}

	if p.validate {
		if err := schema.Validate(rec); err != nil {
			return domain.PredictionResult{}, &ScoringFailedError{
				Err: fmt.Errorf("invalid record: %w", err),
			}
		}
	}

	price, err := p.score(ctx, rec)
	if err != nil {
		return domain.PredictionResult{}, &ScoringFailedError{Err: err}
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return domain.PredictionResult{}, &ScoringFailedError{
			Err: fmt.Errorf("non-finite price %v", price),
		}
	}

	return domain.PredictionResult{
		Price:   math.Max(price, 0),
		Backend: p.backend,
	}, nil
}

// score calls the scorer, converting a panic into an error.
func (p *Predictor) score(ctx context.Context, rec domain.NormalizedRecord) (price float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scorer panic: %v", r)
		}
	}()
	return p.scorer.Score(ctx, rec)
}
