// Package validate checks generated dashboards and rules for PromQL that
// does not parse or references metrics the service does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/airbuds-price-predictor/tools/dashgen/rules"
)

// Histogram and summary series suffixes that map back to a base metric.
var seriesSuffixes = []string{"_bucket", "_count", "_sum"}

// Result collects problems found during validation. Errors are fatal;
// warnings flag metrics missing from the known set.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) merge(o Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// Expr parses a single PromQL expression and checks every selected metric
// against known.
func Expr(source, expr string, known map[string]bool) Result {
	var res Result

	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: parsing %q: %v", source, expr, err))
		return res
	}

	for _, name := range Metrics(node) {
		if !Known(name, known) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: unknown metric %q", source, name))
		}
	}
	return res
}

// Metrics returns the sorted, distinct metric names selected by node.
func Metrics(node parser.Node) []string {
	seen := make(map[string]bool)
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			seen[vs.Name] = true
		}
		return nil
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name, or its base metric for histogram series, is
// in known.
func Known(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range seriesSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

// Dashboard validates every target expression in a built dashboard. The
// dashboard is walked through its JSON form so row and panel nesting do not
// matter.
func Dashboard(dash any, known map[string]bool) Result {
	var res Result

	data, err := json.Marshal(dash)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("marshaling dashboard: %v", err))
		return res
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return res
	}

	exprs := collectExprs(doc, nil)
	if len(exprs) == 0 {
		res.Errors = append(res.Errors, "dashboard has no query targets")
	}
	for i, expr := range exprs {
		res.merge(Expr(fmt.Sprintf("dashboard target %d", i), expr, known))
	}
	return res
}

func collectExprs(v any, out []string) []string {
	switch t := v.(type) {
	case map[string]any:
		if expr, ok := t["expr"].(string); ok {
			out = append(out, expr)
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = collectExprs(t[k], out)
		}
	case []any:
		for _, item := range t {
			out = collectExprs(item, out)
		}
	}
	return out
}

// Rules validates every expression in a PrometheusRule. Recording rule names
// become known for the rules that follow them.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result

	names := make(map[string]bool, len(known))
	for k, v := range known {
		names[k] = v
	}
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			name := r.Record
			if name == "" {
				name = r.Alert
			}
			if name == "" {
				res.Errors = append(res.Errors, fmt.Sprintf("group %s: rule has neither record nor alert", g.Name))
				continue
			}
			res.merge(Expr(g.Name+"/"+name, r.Expr, names))
			if r.Record != "" {
				names[r.Record] = true
			}
		}
	}
	return res
}
