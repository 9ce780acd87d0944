// Package model provides the scoring backends behind the price predictor: a
// serialized regression pipeline loaded from disk, and a client for a remote
// scoring service.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// Artifact load errors.
var (
	ErrArtifactNotFound = errors.New("model artifact not found")
	ErrArtifactInvalid  = errors.New("model artifact invalid")
)

// Pipeline is a fitted linear regression pipeline: median imputation and
// standard scaling for numeric features, one-hot encoding for categorical
// features, and a linear model on top.
type Pipeline struct {
	ModelName   string            `yaml:"name"        json:"name"`
	Version     string            `yaml:"version"     json:"version"`
	Intercept   float64           `yaml:"intercept"   json:"intercept"`
	Numeric     []NumericTerm     `yaml:"numeric"     json:"numeric"`
	Categorical []CategoricalTerm `yaml:"categorical" json:"categorical"`
}

// NumericTerm is the contribution of one numeric feature.
type NumericTerm struct {
	Field  domain.FieldName `yaml:"field"  json:"field"`
	Impute float64          `yaml:"impute" json:"impute"` // used for the missing marker
	Mean   float64          `yaml:"mean"   json:"mean"`
	Scale  float64          `yaml:"scale"  json:"scale"` // 0 means unscaled
	Coef   float64          `yaml:"coef"   json:"coef"`
}

// CategoricalTerm is the one-hot contribution of one categorical feature.
// Labels without a coefficient contribute nothing.
type CategoricalTerm struct {
	Field domain.FieldName            `yaml:"field" json:"field"`
	Coefs map[domain.Category]float64 `yaml:"coefs" json:"coefs"`
}

// Load reads a pipeline artifact. Files ending in .json are decoded as JSON,
// anything else as YAML.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path) //nolint:gosec // artifact path from trusted config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}

	p := &Pipeline{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, p)
	} else {
		err = yaml.Unmarshal(data, p)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrArtifactInvalid, path, err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactInvalid, err)
	}

	return p, nil
}

// Validate checks that every term refers to a known field of the matching
// kind and that categorical coefficients name declared options.
func (p *Pipeline) Validate() error {
	var errs []error
	seen := make(map[domain.FieldName]bool)

	check := func(field domain.FieldName, kind domain.FeatureKind) (domain.FeatureSpec, bool) {
		spec, ok := schema.Lookup(string(field))
		switch {
		case !ok || spec.Name != field:
			errs = append(errs, fmt.Errorf("unknown field %q", field))
			return spec, false
		case spec.Kind != kind:
			errs = append(errs, fmt.Errorf("field %q is %s, not %s", field, spec.Kind, kind))
			return spec, false
		case seen[field]:
			errs = append(errs, fmt.Errorf("field %q listed twice", field))
			return spec, false
		}
		seen[field] = true
		return spec, true
	}

	for _, t := range p.Numeric {
		if _, ok := check(t.Field, domain.KindNumeric); !ok {
			continue
		}
		if t.Scale < 0 {
			errs = append(errs, fmt.Errorf("field %q: negative scale %v", t.Field, t.Scale))
		}
	}

	for _, t := range p.Categorical {
		spec, ok := check(t.Field, domain.KindChoice)
		if !ok {
			continue
		}
		for label := range t.Coefs {
			if !spec.HasOption(label) {
				errs = append(errs, fmt.Errorf("field %q: unknown label %q", t.Field, label))
			}
		}
	}

	return errors.Join(errs...)
}

// Name returns the backend name.
func (*Pipeline) Name() string {
	return "pipeline"
}

// Score computes the linear prediction for rec.
func (p *Pipeline) Score(_ context.Context, rec domain.NormalizedRecord) (float64, error) {
	total := p.Intercept

	for _, t := range p.Numeric {
		v := rec[t.Field]
		x := t.Impute
		if !v.IsMissing() {
			n, ok := v.Float()
			if !ok {
				return 0, fmt.Errorf("could not convert %q to float for %s", v.String(), t.Field)
			}
			x = n
		}
		if t.Scale > 0 {
			x = (x - t.Mean) / t.Scale
		}
		total += t.Coef * x
	}

	for _, t := range p.Categorical {
		v := rec[t.Field]
		label := domain.CategoryUnknown
		if !v.IsMissing() {
			c, ok := v.Category()
			if !ok {
				return 0, fmt.Errorf("expected a category for %s, got %q", t.Field, v.String())
			}
			label = c
		}
		total += t.Coefs[label]
	}

	return total, nil
}
