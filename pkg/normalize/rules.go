// Package normalize maps free-form earbud specification values onto the
// numeric and categorical encoding the price model was trained on.
//
// Normalization never fails: a value that cannot be parsed degrades to the
// missing-value marker (numeric fields) or the "Unknown" label (categorical
// fields).
package normalize

import (
	"strconv"
	"strings"

	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

const feetToMeters = 0.3048

// Rule describes how one field's raw text is normalized.
type Rule struct {
	Kind domain.RuleKind

	// Boolean-like fields: closed vocabularies matched against the trimmed,
	// lowercased text.
	Affirmative map[string]struct{}
	Negative    map[string]struct{}

	// Substring fields: evaluated in order, first match wins.
	Matches []Match
	Trim    bool
}

// Match maps text containing every substring in All and, when Any is
// non-empty, at least one substring in Any, to Label.
type Match struct {
	All   []string
	Any   []string
	Label domain.Category
}

func (m Match) matches(text string) bool {
	for _, s := range m.All {
		if !strings.Contains(text, s) {
			return false
		}
	}
	if len(m.Any) == 0 {
		return true
	}
	for _, s := range m.Any {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

var numericRule = Rule{Kind: domain.RuleNumeric}

// The marketing phrasings are taken verbatim from the training data; a
// water-resistance rating such as "ipx5" is deliberately not listed.
var booleanRule = Rule{
	Kind: domain.RuleBoolean,
	Affirmative: set(
		"yes", "y", "true",
		"anc",
		"ai call noise cancelation",
		"enc",
		"dual-mic noise reduction",
		"dust, sweat, and water resistant5",
	),
	Negative: set("no", "n", "false"),
}

var chargingInterfaceRule = Rule{
	Kind: domain.RuleChargingInterface,
	Trim: true,
	Matches: []Match{
		{Any: []string{"type c", "usb-c", "c-type", "type-c"}, Label: domain.CategoryTypeC},
		{Any: []string{"micro usb", "micro"}, Label: domain.CategoryMicroUSB},
		{Any: []string{"lightning"}, Label: domain.CategoryLightning},
	},
}

var compatibilityRule = Rule{
	Kind: domain.RuleCompatibility,
	Matches: []Match{
		{All: []string{"android", "ios"}, Label: domain.CategoryAndroidAndIOS},
		{All: []string{"android"}, Label: domain.CategoryAndroidOnly},
		{All: []string{"ios"}, Label: domain.CategoryIOSOnly},
		{All: []string{"windows"}, Label: domain.CategoryWindowsCompatible},
	},
}

// rules is the per-field dispatch table. Fields absent from it pass through
// unchanged.
var rules = map[domain.FieldName]Rule{
	domain.FieldDriverSize:       numericRule,
	domain.FieldBluetoothVersion: numericRule,
	domain.FieldBluetoothRange:   numericRule,
	domain.FieldBudsCapacity:     numericRule,
	domain.FieldCaseCapacity:     numericRule,
	domain.FieldPlaytime:         numericRule,
	domain.FieldChargingTime:     numericRule,

	domain.FieldNoiseCancellation: booleanRule,
	domain.FieldWaterResistant:    booleanRule,
	domain.FieldAutoPairing:       booleanRule,
	domain.FieldMic:               booleanRule,
	domain.FieldMicrophone:        booleanRule,

	domain.FieldChargingInterface: chargingInterfaceRule,
	domain.FieldCompatibility:     compatibilityRule,
}

// RuleFor returns the rule registered for field.
func RuleFor(field domain.FieldName) (Rule, bool) {
	r, ok := rules[field]
	return r, ok
}

// Fallback is the value a field takes when its raw value is missing or
// unrecognized.
func (r Rule) Fallback() domain.Value {
	if r.Kind == domain.RuleNumeric {
		return domain.Missing()
	}
	return domain.Label(domain.CategoryUnknown)
}

// apply normalizes present (non-missing) raw text. ok is false when the
// value degraded to the fallback.
func (r Rule) apply(text string) (domain.Value, bool) {
	switch r.Kind {
	case domain.RuleNumeric:
		n, ok := parseMeasurement(text)
		if !ok {
			return r.Fallback(), false
		}
		v := domain.Number(n)
		return v, !v.IsMissing()
	case domain.RuleBoolean:
		s := strings.TrimSpace(strings.ToLower(text))
		if _, ok := r.Affirmative[s]; ok {
			return domain.Label(domain.CategoryYes), true
		}
		if _, ok := r.Negative[s]; ok {
			return domain.Label(domain.CategoryNo), true
		}
		return r.Fallback(), false
	default:
		s := strings.ToLower(text)
		if r.Trim {
			s = strings.TrimSpace(s)
		}
		for _, m := range r.Matches {
			if m.matches(s) {
				return domain.Label(m.Label), true
			}
		}
		return r.Fallback(), false
	}
}

// parseMeasurement strips unit suffixes in a fixed order and parses what is
// left. The order matters because the unit tokens overlap: "mm" and "mah"
// both contain "m".
func parseMeasurement(raw string) (float64, bool) {
	text := strings.ToLower(raw)
	text = strings.ReplaceAll(text, "v", "")

	switch {
	case strings.Contains(text, "hrs") || strings.Contains(text, "hours"):
		return parseHours(text)
	case strings.Contains(text, "m") &&
		!strings.Contains(text, "mm") &&
		!strings.Contains(text, "mah"):
		return parseFloat(strings.ReplaceAll(text, "m", ""))
	case strings.Contains(text, "ft"):
		n, ok := parseFloat(strings.ReplaceAll(text, "ft", ""))
		return n * feetToMeters, ok
	case strings.Contains(text, "mah"):
		return parseFloat(strings.ReplaceAll(text, "mah", ""))
	case strings.Contains(text, "mm"):
		return parseFloat(strings.ReplaceAll(text, "mm", ""))
	default:
		return parseFloat(text)
	}
}

// parseHours handles "1.5 hrs" and ranges such as "3-4 hrs", which
// normalize to the midpoint.
func parseHours(text string) (float64, bool) {
	lo, hi, isRange := strings.Cut(text, "-")
	if !isRange {
		return parseFloat(stripHours(text))
	}

	a, ok := parseFloat(stripHours(lo))
	if !ok {
		return 0, false
	}
	b, ok := parseFloat(stripHours(hi))
	if !ok {
		return 0, false
	}
	return (a + b) / 2, true
}

func stripHours(s string) string {
	s = strings.ReplaceAll(s, "hours", "")
	return strings.ReplaceAll(s, "hrs", "")
}

func parseFloat(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
