package main

import "errors"

// KnownMetrics is the set of metric names exported by airbuds-price-predictor
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"abp_http_request_duration_seconds": true,
	"abp_http_requests_total":           true,
	"abp_http_rate_limited_total":       true,

	// Health metrics.
	"abp_healthz_up":  true,
	"abp_readyz_up":   true,
	"abp_model_ready": true,

	// Normalization metrics.
	"abp_normalizations_total":     true,
	"abp_field_degradations_total": true,
	"abp_ignored_fields_total":     true,

	// Prediction metrics.
	"abp_predictions_total":        true,
	"abp_scoring_duration_seconds": true,
	"abp_predicted_price":          true,

	// Recording rules.
	"abp:http_requests:rate5m":       true,
	"abp:http_errors:rate5m":         true,
	"abp:predictions:rate5m":         true,
	"abp:prediction_failures:rate5m": true,
	"abp:field_degradations:rate5m":  true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
