package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// PredictionRate returns a timeseries panel showing predictions per second
// split by outcome.
func PredictionRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Predictions").
		Description("Predictions per second by outcome (success, failed, unavailable)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`abp:predictions:rate5m`, "{{outcome}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ScoringLatency returns a timeseries panel showing model scoring latency
// percentiles.
func ScoringLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Scoring Latency").
		Description("Time spent in the scoring backend per successful prediction").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(quantile("0.50", "abp_scoring_duration_seconds_bucket"), "p50", "A")).
		WithTarget(PromQuery(quantile("0.99", "abp_scoring_duration_seconds_bucket"), "p99", "B")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// FailureRatio returns a timeseries panel showing the share of predictions
// that did not produce a price.
func FailureRatio() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Failure %").
		Description("Failed and unavailable predictions as percentage of all predictions").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`sum(abp:predictions:rate5m{outcome!="success"}) / sum(abp:predictions:rate5m) * 100`,
			"failure %", "A",
		)).
		Unit("percent").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(5, 20)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PriceDistribution returns a bar gauge panel showing the distribution of
// predicted prices across histogram buckets.
func PriceDistribution() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Predicted Price Distribution").
		Description("Predicted prices over the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(FullWidth).
		WithTarget(PromQuery(
			`sum(increase(`+ByJob("abp_predicted_price_bucket")+`[1h])) by (le)`,
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
