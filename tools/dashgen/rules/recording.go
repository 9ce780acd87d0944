package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "abp-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "abp-recording",
					Rules: []Rule{
						{
							Record: "abp:http_requests:rate5m",
							Expr:   `sum(rate(abp_http_requests_total[5m]))`,
						},
						{
							Record: "abp:http_errors:rate5m",
							Expr:   `sum(rate(abp_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "abp:predictions:rate5m",
							Expr:   `sum by (outcome) (rate(abp_predictions_total[5m]))`,
						},
						{
							Record: "abp:prediction_failures:rate5m",
							Expr:   `sum(rate(abp_predictions_total{outcome="failed"}[5m]))`,
						},
						{
							Record: "abp:field_degradations:rate5m",
							Expr:   `sum by (field) (rate(abp_field_degradations_total[5m]))`,
						},
					},
				},
			},
		},
	}
}
