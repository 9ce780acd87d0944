// Package domain defines the core business types for the airbuds price predictor.
package domain

import (
	"strings"
)

// FieldName is the training column name of an input feature.
type FieldName string

// Field name constants. Values match the columns the regression pipeline was fit on.
const (
	FieldNoiseCancellation FieldName = "General Features - Noise Cancellation"
	FieldWaterResistant    FieldName = "General Features - Water Resistant"
	FieldChargingInterface FieldName = "General Features - Charging Interface"
	FieldAutoPairing       FieldName = "General Features - Auto Pairing"
	FieldCompatibility     FieldName = "General Features - Compatibility"
	FieldMic               FieldName = "General Features - Mic"
	FieldDriverSize        FieldName = "General Features - Driver Size"
	FieldBluetoothVersion  FieldName = "Connectivity - Bluetooth Version"
	FieldBluetoothRange    FieldName = "Connectivity - Bluetooth Range"
	FieldMicrophone        FieldName = "Connectivity - Microphone"
	FieldBudsCapacity      FieldName = "Battery - Capacity for buds"
	FieldCaseCapacity      FieldName = "Battery - Capacity for Case"
	FieldPlaytime          FieldName = "Battery - Playtime"
	FieldChargingTime      FieldName = "Battery - Charging Time"
)

var fieldGroupPrefixes = []string{
	"General Features - ",
	"Connectivity - ",
	"Battery - ",
}

// Label returns the field name without its group prefix, e.g. "Driver Size".
func (f FieldName) Label() string {
	s := string(f)
	for _, p := range fieldGroupPrefixes {
		s = strings.Replace(s, p, "", 1)
	}
	return s
}

// Category is a canonical categorical label in the model's domain.
type Category string

// Category constants.
const (
	CategoryUnknown           Category = "Unknown"
	CategoryYes               Category = "Yes"
	CategoryNo                Category = "No"
	CategoryTypeC             Category = "Type-C"
	CategoryMicroUSB          Category = "Micro USB"
	CategoryLightning         Category = "Lightning"
	CategoryAndroidAndIOS     Category = "Android & iOS"
	CategoryAndroidOnly       Category = "Android Only"
	CategoryIOSOnly           Category = "iOS Only"
	CategoryWindowsCompatible Category = "Windows Compatible"
)

// FeatureKind describes how a feature is presented and encoded.
type FeatureKind string

// Feature kind constants.
const (
	KindChoice  FeatureKind = "choice"
	KindNumeric FeatureKind = "numeric"
)

// RuleKind names the normalization rule applied to a feature.
type RuleKind string

// Rule kind constants.
const (
	RuleNumeric           RuleKind = "numeric"
	RuleBoolean           RuleKind = "boolean"
	RuleChargingInterface RuleKind = "charging_interface"
	RuleCompatibility     RuleKind = "compatibility"
)

// FeatureSpec is the static description of one input field.
type FeatureSpec struct {
	Name  FieldName   `json:"name"`
	Label string      `json:"label"`
	Kind  FeatureKind `json:"kind"`
	Rule  RuleKind    `json:"rule"`
	Help  string      `json:"help"`

	// Choice fields
	Options       []Category `json:"options,omitempty"`
	DefaultOption Category   `json:"default_option,omitempty"`

	// Numeric fields
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
	Default float64 `json:"default,omitempty"`
	Step    float64 `json:"step,omitempty"`
}

// HasOption reports whether c is one of the field's declared options.
func (s *FeatureSpec) HasOption(c Category) bool {
	for _, o := range s.Options {
		if o == c {
			return true
		}
	}
	return false
}

// InRange reports whether v lies within the field's declared bounds.
func (s *FeatureSpec) InRange(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// RawRecord maps field names to untyped user-entered values.
type RawRecord map[FieldName]any

// NormalizedRecord maps field names to values in the model's expected domain.
type NormalizedRecord map[FieldName]Value

// PredictionResult is a single price estimate.
type PredictionResult struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`
	Backend  string  `json:"backend,omitempty"`
}
