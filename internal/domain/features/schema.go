package features

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// ErrSchemaNotLoaded indicates the feature schema (or its fitted scaler) was
// missing at startup. The service keeps running in degraded mode and every
// prediction reports the model as unavailable.
var ErrSchemaNotLoaded = errors.New("feature schema not loaded")

// Scaler holds the per-feature (mean, scale) pairs fitted at training time.
// Index i corresponds to the i-th numeric feature of the schema.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Schema declares the exact feature ordering the scoring model expects:
// scaled numeric features first, raw categorical features after. Order is
// load-bearing; the model is order-sensitive and untyped.
type Schema struct {
	NumericFeatures     []string `json:"numeric_features"`
	CategoricalFeatures []string `json:"categorical_features"`
	Scaler              Scaler   `json:"scaler"`
}

// LoadSchema reads a feature schema from a JSON file and validates that the
// scaler matches the numeric feature list.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrSchemaNotLoaded, "read %s: %v", path, err)
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(ErrSchemaNotLoaded, "parse %s: %v", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Schema) validate() error {
	if len(s.NumericFeatures) == 0 {
		return errors.Wrap(ErrSchemaNotLoaded, "schema has no numeric features")
	}
	if len(s.Scaler.Mean) != len(s.NumericFeatures) || len(s.Scaler.Scale) != len(s.NumericFeatures) {
		return errors.Wrapf(ErrSchemaNotLoaded,
			"scaler size mismatch: %d numeric features, %d means, %d scales",
			len(s.NumericFeatures), len(s.Scaler.Mean), len(s.Scaler.Scale))
	}
	for i, sc := range s.Scaler.Scale {
		if sc == 0 {
			return errors.Wrapf(ErrSchemaNotLoaded, "scale for feature %q is zero", s.NumericFeatures[i])
		}
	}
	return nil
}

// TotalFeatures is the length of the encoded vector.
func (s *Schema) TotalFeatures() int {
	return len(s.NumericFeatures) + len(s.CategoricalFeatures)
}
