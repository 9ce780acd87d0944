package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// missingText lists the raw strings treated as "no value".
var missingText = []string{"", "N/A", "Unknown"}

// Value normalizes one raw value for field. It never fails.
func Value(field domain.FieldName, raw any) domain.Value {
	v, _ := value(field, raw)
	return v
}

// value reports degraded=true when a present raw value fell back to the
// missing marker or "Unknown".
func value(field domain.FieldName, raw any) (v domain.Value, degraded bool) {
	text, present := rawText(raw)

	rule, known := rules[field]
	if !known {
		if !present {
			return domain.Missing(), false
		}
		return domain.Passthrough(raw), false
	}

	if !present {
		return rule.Fallback(), false
	}

	v, ok := rule.apply(text)
	return v, !ok
}

// Report describes what normalization could not use.
type Report struct {
	// Degraded lists fields whose non-empty raw value was not recognized.
	Degraded []domain.FieldName `json:"degraded,omitempty"`
	// Ignored lists raw keys that name no known field.
	Ignored []string `json:"ignored,omitempty"`
}

// Record normalizes a raw record into one holding exactly the schema's
// fields. Raw keys may be training column names or short labels ("Driver
// Size"); a canonical key wins over a label naming the same field. Absent
// fields take their fallback value.
func Record(raw domain.RawRecord) (domain.NormalizedRecord, Report) {
	resolved := make(map[domain.FieldName]any, len(raw))
	var report Report

	for key, v := range raw {
		name, ok := schema.Resolve(string(key))
		if !ok {
			report.Ignored = append(report.Ignored, string(key))
			continue
		}
		if name == key {
			resolved[name] = v
			continue
		}
		if _, exists := raw[name]; !exists {
			resolved[name] = v
		}
	}

	names := schema.Names()
	out := make(domain.NormalizedRecord, len(names))
	for _, name := range names {
		v, degraded := value(name, resolved[name])
		out[name] = v
		if degraded {
			report.Degraded = append(report.Degraded, name)
		}
	}

	slices.Sort(report.Ignored)
	return out, report
}

// rawText renders a raw value as text. present is false for the missing
// markers: nil, NaN, "", "N/A" and "Unknown".
func rawText(raw any) (text string, present bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		if slices.Contains(missingText, v) {
			return "", false
		}
		return v, true
	case float64:
		return floatText(v)
	case float32:
		return floatText(float64(v))
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case bool:
		return strconv.FormatBool(v), true
	case json.Number:
		return rawText(v.String())
	case domain.Category:
		return rawText(string(v))
	case domain.Value:
		return valueText(v)
	case fmt.Stringer:
		return rawText(v.String())
	default:
		return rawText(fmt.Sprint(v))
	}
}

func floatText(f float64) (string, bool) {
	if math.IsNaN(f) {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

// valueText lets already-normalized values be normalized again unchanged.
func valueText(v domain.Value) (string, bool) {
	switch v.Kind() {
	case domain.ValueNumber:
		n, _ := v.Float()
		return floatText(n)
	case domain.ValueLabel:
		c, _ := v.Category()
		return rawText(string(c))
	case domain.ValuePassthrough:
		return rawText(v.Raw())
	default:
		return "", false
	}
}
