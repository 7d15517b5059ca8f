package prediction

import (
	"math"
)

// TimestampLayout is the wall-clock format used for stored records.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultThreshold is the decision boundary between low and high risk.
const DefaultThreshold = 0.5

// Risk labels
const (
	LabelHighRisk = "High Risk"
	LabelLowRisk  = "Low Risk"
)

// InputRecord holds the raw patient attributes as supplied by the client.
// Age is in years; the encoder converts it to days before scoring.
type InputRecord struct {
	Age         int     `json:"age"`
	Gender      int     `json:"gender"`
	Height      float64 `json:"height"`
	Weight      float64 `json:"weight"`
	ApHi        int     `json:"ap_hi"`
	ApLo        int     `json:"ap_lo"`
	Cholesterol int     `json:"cholesterol"`
	Gluc        int     `json:"gluc"`
	Smoke       int     `json:"smoke"`
	Alco        int     `json:"alco"`
	Active      int     `json:"active"`
}

// Validate checks the field constraints of the data model. Presence of the
// fields themselves is checked at the HTTP boundary, where absence is still
// observable.
func (in InputRecord) Validate() error {
	if in.Age < 1 || in.Age > 120 {
		return &ValidationError{Field: "age", Reason: "must be between 1 and 120 years"}
	}
	if in.Gender != 1 && in.Gender != 2 {
		return &ValidationError{Field: "gender", Reason: "must be 1 (female) or 2 (male)"}
	}
	if in.Height <= 0 {
		return &ValidationError{Field: "height", Reason: "must be a positive number of cm"}
	}
	if in.Weight <= 0 {
		return &ValidationError{Field: "weight", Reason: "must be a positive number of kg"}
	}
	if in.Cholesterol < 1 || in.Cholesterol > 3 {
		return &ValidationError{Field: "cholesterol", Reason: "must be 1, 2 or 3"}
	}
	if in.Gluc < 1 || in.Gluc > 3 {
		return &ValidationError{Field: "gluc", Reason: "must be 1, 2 or 3"}
	}
	if in.Smoke != 0 && in.Smoke != 1 {
		return &ValidationError{Field: "smoke", Reason: "must be 0 or 1"}
	}
	if in.Alco != 0 && in.Alco != 1 {
		return &ValidationError{Field: "alco", Reason: "must be 0 or 1"}
	}
	if in.Active != 0 && in.Active != 1 {
		return &ValidationError{Field: "active", Reason: "must be 0 or 1"}
	}
	return nil
}

// PredictionResult is the derived outcome of a single scoring call.
type PredictionResult struct {
	Risk        int     `json:"risk"`
	RiskLabel   string  `json:"risk_label"`
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
}

// NewPredictionResult derives risk, label and confidence from the raw model
// probability. The threshold is the decision boundary (0.5 in production,
// parameterized for tests).
func NewPredictionResult(probability, threshold float64) PredictionResult {
	risk := 0
	if probability > threshold {
		risk = 1
	}
	label := LabelLowRisk
	confidence := (1 - probability) * 100
	if risk == 1 {
		label = LabelHighRisk
		confidence = probability * 100
	}
	return PredictionResult{
		Risk:        risk,
		RiskLabel:   label,
		Probability: Round(probability, 4),
		Confidence:  Round(confidence, 2),
	}
}

// StoredRecord is one persisted request/response pair. Records are
// append-only: ids start at 1, increase with insertion order and are never
// reused.
type StoredRecord struct {
	ID         int              `json:"id"`
	Timestamp  string           `json:"timestamp"`
	Input      InputRecord      `json:"input"`
	Prediction PredictionResult `json:"prediction"`
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	f := math.Pow10(places)
	return math.Round(v*f) / f
}
