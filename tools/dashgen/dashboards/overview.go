// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/airbuds-price-predictor/tools/dashgen/panels"
)

// BuildOverview constructs the Airbuds Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Airbuds Overview").
		Uid("abp-overview").
		Tags([]string{"abp", "airbuds-price-predictor"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.ModelReadyStat()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()).
		WithPanel(panels.RateLimited()))

	// Row 3: Predictions.
	b.WithRow(dashboard.NewRowBuilder("Predictions").
		WithPanel(panels.PredictionRate()).
		WithPanel(panels.ScoringLatency()).
		WithPanel(panels.FailureRatio()).
		WithPanel(panels.PriceDistribution()))

	// Row 4: Normalization.
	b.WithRow(dashboard.NewRowBuilder("Normalization").
		WithPanel(panels.NormalizationRate()).
		WithPanel(panels.FieldDegradations()).
		WithPanel(panels.IgnoredFields()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
