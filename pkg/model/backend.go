package model

import (
	"context"
	"fmt"
	"time"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/predict"
)

// Backend names.
const (
	BackendPipeline = "pipeline"
	BackendHTTP     = "http"
)

// Options selects and configures a scoring backend.
type Options struct {
	Backend  string
	Path     string        // pipeline artifact path
	Endpoint string        // scoring service URL
	Timeout  time.Duration // scoring service timeout
}

// Open loads the configured backend. A failure here is a startup load
// failure: the artifact is missing or corrupt, or the scoring service does
// not answer.
func Open(ctx context.Context, opts Options) (predict.Scorer, error) {
	switch opts.Backend {
	case BackendPipeline, "":
		p, err := Load(opts.Path)
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendHTTP:
		s := NewHTTPScorer(opts.Endpoint, opts.Timeout)
		if err := s.Probe(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", opts.Backend)
	}
}
