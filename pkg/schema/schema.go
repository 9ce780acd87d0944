// Package schema defines the fixed set of earbud features the price model was
// trained on, with their input bounds, defaults and help text.
package schema

import (
	"errors"
	"fmt"
	"strings"

	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// Record validation errors.
var (
	ErrMissingField = errors.New("missing field")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("value outside field domain")
)

var yesNo = []domain.Category{
	domain.CategoryUnknown,
	domain.CategoryYes,
	domain.CategoryNo,
}

// features is ordered the way the input form presents them.
var features = []domain.FeatureSpec{
	{
		Name:          domain.FieldNoiseCancellation,
		Kind:          domain.KindChoice,
		Rule:          domain.RuleBoolean,
		Options:       yesNo,
		DefaultOption: domain.CategoryUnknown,
		Help:          "Does the earbud feature Noise Cancellation (ANC/ENC)? Select 'Yes' or 'No'.",
	},
	{
		Name:          domain.FieldWaterResistant,
		Kind:          domain.KindChoice,
		Rule:          domain.RuleBoolean,
		Options:       yesNo,
		DefaultOption: domain.CategoryUnknown,
		Help:          "Is the earbud water resistant (e.g., IPX4, IPX5, IP67)? Select 'Yes' or 'No'.",
	},
	{
		Name: domain.FieldChargingInterface,
		Kind: domain.KindChoice,
		Rule: domain.RuleChargingInterface,
		Options: []domain.Category{
			domain.CategoryUnknown,
			domain.CategoryTypeC,
			domain.CategoryMicroUSB,
			domain.CategoryLightning,
		},
		DefaultOption: domain.CategoryTypeC,
		Help:          "What type of charging interface does the earbud case use? (e.g., Type-C, Micro USB, Lightning)",
	},
	{
		Name:          domain.FieldAutoPairing,
		Kind:          domain.KindChoice,
		Rule:          domain.RuleBoolean,
		Options:       yesNo,
		DefaultOption: domain.CategoryYes,
		Help:          "Does the earbud support automatic pairing with devices? Select 'Yes' or 'No'.",
	},
	{
		Name: domain.FieldCompatibility,
		Kind: domain.KindChoice,
		Rule: domain.RuleCompatibility,
		Options: []domain.Category{
			domain.CategoryUnknown,
			domain.CategoryAndroidAndIOS,
			domain.CategoryAndroidOnly,
			domain.CategoryIOSOnly,
			domain.CategoryWindowsCompatible,
		},
		DefaultOption: domain.CategoryAndroidAndIOS,
		Help:          "What operating systems are the earbuds compatible with?",
	},
	{
		Name:          domain.FieldMic,
		Kind:          domain.KindChoice,
		Rule:          domain.RuleBoolean,
		Options:       yesNo,
		DefaultOption: domain.CategoryYes,
		Help:          "Do the earbuds have a built-in microphone? Select 'Yes' or 'No'.",
	},
	{
		Name:    domain.FieldDriverSize,
		Kind:    domain.KindNumeric,
		Rule:    domain.RuleNumeric,
		Min:     0,
		Max:     20,
		Default: 10,
		Step:    1,
		Help:    "The size of the earbud's audio driver in millimeters (e.g., 10mm, 13mm).",
	},
	{
		Name:    domain.FieldBluetoothVersion,
		Kind:    domain.KindNumeric,
		Rule:    domain.RuleNumeric,
		Min:     3,
		Max:     6,
		Default: 5,
		Step:    0.1,
		Help:    "The Bluetooth version of the earbuds (e.g., 5.0, 5.2, 5.3).",
	},
	{
		Name:    domain.FieldBluetoothRange,
		Kind:    domain.KindNumeric,
		Rule:    domain.RuleNumeric,
		Min:     1,
		Max:     30,
		Default: 10,
		Step:    1,
		Help:    "The effective Bluetooth range in meters (e.g., 10m).",
	},
	{
		Name:          domain.FieldMicrophone,
		Kind:          domain.KindChoice,
		Rule:          domain.RuleBoolean,
		Options:       yesNo,
		DefaultOption: domain.CategoryYes,
		Help: "Does the earbud specifically list a microphone for connectivity features? " +
			"(Often redundant with 'Mic', but good to include if present in data.)",
	},
	{
		Name:    domain.FieldBudsCapacity,
		Kind:    domain.KindNumeric,
		Rule:    domain.RuleNumeric,
		Min:     0,
		Max:     100,
		Default: 40,
		Step:    1,
		Help:    "Battery capacity of each earbud in mAh (e.g., 30mAh, 50mAh).",
	},
	{
		Name:    domain.FieldCaseCapacity,
		Kind:    domain.KindNumeric,
		Rule:    domain.RuleNumeric,
		Min:     0,
		Max:     5000,
		Default: 300,
		Step:    1,
		Help:    "Battery capacity of the charging case in mAh (e.g., 300mAh, 2000mAh).",
	},
	{
		Name:    domain.FieldPlaytime,
		Kind:    domain.KindNumeric,
		Rule:    domain.RuleNumeric,
		Min:     0,
		Max:     60,
		Default: 4,
		Step:    1,
		Help:    "Total playtime on a single charge for earbuds, in hours (e.g., 3-4 Hrs, 5-6 Hours).",
	},
	{
		Name:    domain.FieldChargingTime,
		Kind:    domain.KindNumeric,
		Rule:    domain.RuleNumeric,
		Min:     0,
		Max:     5,
		Default: 1.5,
		Step:    1,
		Help:    "Time required to fully charge the earbuds/case in hours (e.g., 1.5 Hrs, 2 Hours).",
	},
}

var byName = func() map[string]int {
	m := make(map[string]int, len(features)*2)
	for i := range features {
		m[keyOf(string(features[i].Name))] = i
		m[keyOf(features[i].Name.Label())] = i
	}
	return m
}()

func keyOf(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Features returns a copy of the feature table in presentation order.
func Features() []domain.FeatureSpec {
	out := make([]domain.FeatureSpec, len(features))
	for i := range features {
		out[i] = clone(features[i])
	}
	return out
}

// Names returns the training column names in presentation order.
func Names() []domain.FieldName {
	out := make([]domain.FieldName, len(features))
	for i := range features {
		out[i] = features[i].Name
	}
	return out
}

// Lookup returns the spec for a training column name or its short label
// ("Driver Size"), matched case-insensitively.
func Lookup(name string) (domain.FeatureSpec, bool) {
	i, ok := byName[keyOf(name)]
	if !ok {
		return domain.FeatureSpec{}, false
	}
	return clone(features[i]), true
}

// Resolve maps a user-supplied key to its canonical field name.
func Resolve(name string) (domain.FieldName, bool) {
	i, ok := byName[keyOf(name)]
	if !ok {
		return "", false
	}
	return features[i].Name, true
}

// Defaults returns a raw record populated with every field's default, as the
// input form would submit it untouched.
func Defaults() domain.RawRecord {
	rec := make(domain.RawRecord, len(features))
	for i := range features {
		f := &features[i]
		if f.Kind == domain.KindChoice {
			rec[f.Name] = string(f.DefaultOption)
			continue
		}
		rec[f.Name] = f.Default
	}
	return rec
}

// Validate checks that rec holds exactly the schema's fields and that every
// value belongs to its field's domain: a number or the missing marker for
// numeric fields, one of the declared options for choice fields.
func Validate(rec domain.NormalizedRecord) error {
	var errs []error

	for i := range features {
		f := &features[i]
		v, ok := rec[f.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, ErrMissingField))
			continue
		}
		if err := validateValue(f, v); err != nil {
			errs = append(errs, err)
		}
	}

	for name := range rec {
		if !isCanonical(name) {
			errs = append(errs, fmt.Errorf("%s: %w", name, ErrUnknownField))
		}
	}

	return errors.Join(errs...)
}

func validateValue(f *domain.FeatureSpec, v domain.Value) error {
	switch f.Kind {
	case domain.KindNumeric:
		if v.Kind() != domain.ValueNumber && !v.IsMissing() {
			return fmt.Errorf("%s %q: %w (want number)", f.Name, v.String(), ErrInvalidValue)
		}
	case domain.KindChoice:
		c, ok := v.Category()
		if !ok || !f.HasOption(c) {
			return fmt.Errorf("%s %q: %w", f.Name, v.String(), ErrInvalidValue)
		}
	}
	return nil
}

// OutOfRange lists numeric fields whose values fall outside the declared
// input bounds. Missing values are not reported.
func OutOfRange(rec domain.NormalizedRecord) []domain.FieldName {
	var out []domain.FieldName
	for i := range features {
		f := &features[i]
		if f.Kind != domain.KindNumeric {
			continue
		}
		n, ok := rec[f.Name].Float()
		if ok && !f.InRange(n) {
			out = append(out, f.Name)
		}
	}
	return out
}

func isCanonical(name domain.FieldName) bool {
	i, ok := byName[keyOf(string(name))]
	return ok && features[i].Name == name
}

func clone(f domain.FeatureSpec) domain.FeatureSpec {
	f.Label = f.Name.Label()
	if f.Options != nil {
		f.Options = append([]domain.Category(nil), f.Options...)
	}
	return f
}
