package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// airbuds-price-predictor operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "abp-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "abp-alerts",
					Rules: []Rule{
						{
							Alert: "AbpDown",
							Expr:  `absent(up{job="airbuds-price-predictor"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Airbuds Price Predictor is down",
								"description": "The airbuds-price-predictor job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "AbpReadinessDown",
							Expr:  `abp_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Airbuds Price Predictor readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
							},
						},
						{
							Alert: "AbpModelNotLoaded",
							Expr:  `abp_model_ready == 0`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Price model is not loaded",
								"description": "The service started without a model. Every prediction reports scoring unavailable.",
							},
						},
						{
							Alert: "AbpHighErrorRate",
							Expr:  `abp:http_errors:rate5m / abp:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Airbuds Price Predictor",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "AbpScoringFailures",
							Expr:  `abp:prediction_failures:rate5m > 0.1`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Scoring failure rate is elevated",
								"description": "The model has rejected records at more than 0.1/s for the last 5 minutes.",
							},
						},
						{
							Alert: "AbpRateLimited",
							Expr:  `increase(abp_http_rate_limited_total[5m]) > 100`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "info",
							},
							Annotations: map[string]string{
								"summary":     "Clients are being rate limited",
								"description": "More than 100 requests were rejected with 429 in 5 minutes.",
							},
						},
					},
				},
			},
		},
	}
}
