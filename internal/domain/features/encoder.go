package features

import (
	"github.com/pkg/errors"

	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/domain/prediction"
)

// Encoder maps a validated input record into the ordered numeric vector the
// scoring model expects.
type Encoder struct {
	schema *Schema
}

// NewEncoder builds an encoder for a loaded schema.
func NewEncoder(schema *Schema) (*Encoder, error) {
	if schema == nil {
		return nil, ErrSchemaNotLoaded
	}
	return &Encoder{schema: schema}, nil
}

// Schema returns the schema the encoder was built with.
func (e *Encoder) Schema() *Schema { return e.schema }

// Encode produces the flat feature vector: numeric features in schema order,
// scaled as (value - mean) / scale, followed by categorical features in
// schema order, unscaled. Age is substituted with its value in days before
// extraction. The result is cast to float32 to match the model input dtype.
func (e *Encoder) Encode(in prediction.InputRecord) ([]float32, error) {
	values := map[string]float64{
		"age":         float64(AgeToDays(float64(in.Age))),
		"gender":      float64(in.Gender),
		"height":      in.Height,
		"weight":      in.Weight,
		"ap_hi":       float64(in.ApHi),
		"ap_lo":       float64(in.ApLo),
		"cholesterol": float64(in.Cholesterol),
		"gluc":        float64(in.Gluc),
		"smoke":       float64(in.Smoke),
		"alco":        float64(in.Alco),
		"active":      float64(in.Active),
	}

	vector := make([]float32, 0, e.schema.TotalFeatures())
	for i, name := range e.schema.NumericFeatures {
		v, ok := values[name]
		if !ok {
			return nil, errors.Errorf("schema names unknown numeric feature %q", name)
		}
		scaled := (v - e.schema.Scaler.Mean[i]) / e.schema.Scaler.Scale[i]
		vector = append(vector, float32(scaled))
	}
	for _, name := range e.schema.CategoricalFeatures {
		v, ok := values[name]
		if !ok {
			return nil, errors.Errorf("schema names unknown categorical feature %q", name)
		}
		vector = append(vector, float32(v))
	}
	return vector, nil
}
