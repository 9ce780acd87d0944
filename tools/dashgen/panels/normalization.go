package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// NormalizationRate returns a timeseries panel showing records normalized
// per second.
func NormalizationRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Records Normalized").
		Description("Raw records normalized per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`sum(rate(`+ByJob("abp_normalizations_total")+`[5m]))`, "records/s", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// FieldDegradations returns a timeseries panel showing unrecognized values
// per field.
func FieldDegradations() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Unrecognized Values").
		Description("Raw values that fell back to missing or Unknown, by field").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`abp:field_degradations:rate5m`, "{{field}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// IgnoredFields returns a timeseries panel showing request keys that named
// no known field.
func IgnoredFields() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Ignored Fields").
		Description("Unknown request keys per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`sum(rate(`+ByJob("abp_ignored_fields_total")+`[5m]))`, "keys/s", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
