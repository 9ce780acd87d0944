package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/airbuds-price-predictor/internal/api/client"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/render"
	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printFieldsTable(w io.Writer, specs []domain.FeatureSpec) error {
	tw := newTabWriter(w)
	tw.writef("LABEL\tKIND\tVALUES\tDEFAULT\n")
	for i := range specs {
		tw.writef("%s\t%s\t%s\t%s\n",
			specs[i].Label,
			specs[i].Kind,
			truncate(fieldValues(&specs[i]), 50),
			fieldDefault(&specs[i]),
		)
	}
	return tw.finish()
}

func printFieldDetail(w io.Writer, s *domain.FeatureSpec) error {
	tw := newTabWriter(w)
	tw.writef("Name:\t%s\n", s.Name)
	tw.writef("Label:\t%s\n", s.Label)
	tw.writef("Kind:\t%s\n", s.Kind)
	tw.writef("Rule:\t%s\n", s.Rule)
	tw.writef("Values:\t%s\n", fieldValues(s))
	tw.writef("Default:\t%s\n", fieldDefault(s))
	if s.Kind == domain.KindNumeric {
		tw.writef("Step:\t%s\n", formatNumber(s.Step))
	}
	tw.writef("Help:\t%s\n", s.Help)
	return tw.finish()
}

// printNormalizedTable lists fields in schema order with the normalized value
// and any note about how it was derived.
func printNormalizedTable(w io.Writer, resp *apiclient.NormalizeResponse) error {
	tw := newTabWriter(w)
	tw.writef("FIELD\tVALUE\tNOTE\n")
	for _, name := range schema.Names() {
		v, ok := resp.Normalized[name]
		if !ok {
			continue
		}
		tw.writef("%s\t%s\t%s\n", name.Label(), v, fieldNote(resp, name))
	}
	return tw.finish()
}

func printPrediction(w io.Writer, resp *apiclient.PredictResponse) error {
	if _, err := fmt.Fprintln(w, render.Result(resp.Result())); err != nil {
		return err
	}
	if len(resp.Degraded) > 0 {
		if _, err := fmt.Fprintf(w, "Unrecognized values treated as unknown: %s\n",
			joinLabels(resp.Degraded)); err != nil {
			return err
		}
	}
	if len(resp.Ignored) > 0 {
		if _, err := fmt.Fprintf(w, "Ignored unknown fields: %s\n",
			strings.Join(resp.Ignored, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func fieldNote(resp *apiclient.NormalizeResponse, name domain.FieldName) string {
	var notes []string
	if slices.Contains(resp.Degraded, name) {
		notes = append(notes, "unrecognized")
	}
	if slices.Contains(resp.OutOfRange, name) {
		notes = append(notes, "out of range")
	}
	return strings.Join(notes, ", ")
}

func fieldValues(s *domain.FeatureSpec) string {
	if s.Kind == domain.KindNumeric {
		return formatNumber(s.Min) + " to " + formatNumber(s.Max)
	}
	opts := make([]string, len(s.Options))
	for i, o := range s.Options {
		opts[i] = string(o)
	}
	return strings.Join(opts, ", ")
}

func fieldDefault(s *domain.FeatureSpec) string {
	if s.Kind == domain.KindNumeric {
		return formatNumber(s.Default)
	}
	return string(s.DefaultOption)
}

func joinLabels(names []domain.FieldName) string {
	labels := make([]string, len(names))
	for i, n := range names {
		labels[i] = n.Label()
	}
	return strings.Join(labels, ", ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
