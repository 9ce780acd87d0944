// Package form collects earbud specifications interactively with a huh form.
package form

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// ErrNotInteractive is returned when stdin or stdout is not a terminal.
var ErrNotInteractive = errors.New("interactive form requires a terminal")

// Form is one specification entry session. Each field holds its entered
// value as a string until Record converts it.
type Form struct {
	specs  []domain.FeatureSpec
	values map[domain.FieldName]*string
	form   *huh.Form
}

// New builds a form with a select per choice field and an input per numeric
// field, pre-filled with the field defaults. Values in seed override the
// defaults.
func New(specs []domain.FeatureSpec, seed domain.RawRecord) *Form {
	f := &Form{
		specs:  specs,
		values: make(map[domain.FieldName]*string, len(specs)),
	}

	var choices, numbers []huh.Field
	for i := range specs {
		spec := specs[i]
		v := initialValue(&spec, seed[spec.Name])
		f.values[spec.Name] = &v

		switch spec.Kind {
		case domain.KindChoice:
			choices = append(choices, choiceField(&spec, f.values[spec.Name]))
		case domain.KindNumeric:
			numbers = append(numbers, numericField(&spec, f.values[spec.Name]))
		}
	}

	var groups []*huh.Group
	if len(choices) > 0 {
		groups = append(groups, huh.NewGroup(choices...).
			Title("Features").
			Description("Pick the option that matches the listing."))
	}
	if len(numbers) > 0 {
		groups = append(groups, huh.NewGroup(numbers...).
			Title("Specifications").
			Description("Enter numeric values in the stated units."))
	}
	f.form = huh.NewForm(groups...)

	return f
}

// Run shows the form and returns the entered record.
func (f *Form) Run(ctx context.Context) (domain.RawRecord, error) {
	if !Interactive() {
		return nil, ErrNotInteractive
	}
	if err := f.form.RunWithContext(ctx); err != nil {
		return nil, err
	}
	return f.Record()
}

// Record converts the current form values into a raw record. Numeric fields
// become float64 and choice fields keep their option label.
func (f *Form) Record() (domain.RawRecord, error) {
	rec := make(domain.RawRecord, len(f.specs))
	for i := range f.specs {
		spec := &f.specs[i]
		s := strings.TrimSpace(*f.values[spec.Name])

		if spec.Kind != domain.KindNumeric {
			rec[spec.Name] = s
			continue
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", spec.Label, s)
		}
		rec[spec.Name] = n
	}
	return rec, nil
}

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func choiceField(spec *domain.FeatureSpec, value *string) huh.Field {
	opts := make([]huh.Option[string], len(spec.Options))
	for i, o := range spec.Options {
		opts[i] = huh.NewOption(string(o), string(o))
	}
	return huh.NewSelect[string]().
		Title(spec.Label).
		Description(spec.Help).
		Options(opts...).
		Value(value)
}

func numericField(spec *domain.FeatureSpec, value *string) huh.Field {
	return huh.NewInput().
		Title(spec.Label).
		Description(fmt.Sprintf("%s (%s to %s)", spec.Help, formatNumber(spec.Min), formatNumber(spec.Max))).
		Value(value).
		Validate(ValidateNumber(*spec))
}

// ValidateNumber returns a validator that accepts numbers within the field's
// bounds.
func ValidateNumber(spec domain.FeatureSpec) func(string) error {
	return func(s string) error {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.New("enter a number")
		}
		if !spec.InRange(n) {
			return fmt.Errorf("must be between %s and %s", formatNumber(spec.Min), formatNumber(spec.Max))
		}
		return nil
	}
}

// initialValue picks the seeded value when it is usable, else the default.
func initialValue(spec *domain.FeatureSpec, seed any) string {
	switch spec.Kind {
	case domain.KindChoice:
		if s, ok := seed.(string); ok {
			for _, o := range spec.Options {
				if strings.EqualFold(string(o), strings.TrimSpace(s)) {
					return string(o)
				}
			}
		}
		return string(spec.DefaultOption)
	default:
		switch v := seed.(type) {
		case float64:
			return formatNumber(v)
		case int:
			return strconv.Itoa(v)
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return strings.TrimSpace(v)
			}
		}
		return formatNumber(spec.Default)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseAssignments turns "name=value" pairs into a raw record. Field labels
// resolve to their column names; unknown names are kept as given so
// normalization reports them.
func ParseAssignments(pairs []string) (domain.RawRecord, error) {
	rec := make(domain.RawRecord, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field assignment %q, want name=value", p)
		}
		if field, ok := schema.Resolve(name); ok {
			rec[field] = value
			continue
		}
		rec[domain.FieldName(name)] = value
	}
	return rec, nil
}
