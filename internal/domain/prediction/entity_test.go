package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validInput() InputRecord {
	return InputRecord{
		Age: 50, Gender: 2, Height: 168, Weight: 62,
		ApHi: 110, ApLo: 80, Cholesterol: 1, Gluc: 1,
		Smoke: 0, Alco: 0, Active: 1,
	}
}

func TestInputRecord_Validate(t *testing.T) {
	assert.NoError(t, validInput().Validate())
}

func TestInputRecord_Validate_AgeRange(t *testing.T) {
	in := validInput()
	in.Age = 150
	err := in.Validate()
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "age", vErr.Field)

	in.Age = 0
	assert.Error(t, in.Validate())
	in.Age = 1
	assert.NoError(t, in.Validate())
	in.Age = 120
	assert.NoError(t, in.Validate())
}

func TestInputRecord_Validate_Enums(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*InputRecord)
	}{
		{"gender", func(in *InputRecord) { in.Gender = 3 }},
		{"height", func(in *InputRecord) { in.Height = 0 }},
		{"weight", func(in *InputRecord) { in.Weight = -1 }},
		{"cholesterol", func(in *InputRecord) { in.Cholesterol = 4 }},
		{"gluc", func(in *InputRecord) { in.Gluc = 0 }},
		{"smoke", func(in *InputRecord) { in.Smoke = 2 }},
		{"alco", func(in *InputRecord) { in.Alco = -1 }},
		{"active", func(in *InputRecord) { in.Active = 5 }},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		err := in.Validate()
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr, tc.field)
		assert.Equal(t, tc.field, vErr.Field)
	}
}

func TestNewPredictionResult_HighRisk(t *testing.T) {
	res := NewPredictionResult(0.73, DefaultThreshold)
	assert.Equal(t, 1, res.Risk)
	assert.Equal(t, LabelHighRisk, res.RiskLabel)
	assert.Equal(t, 0.73, res.Probability)
	assert.Equal(t, 73.0, res.Confidence)
}

func TestNewPredictionResult_LowRisk(t *testing.T) {
	res := NewPredictionResult(0.2, DefaultThreshold)
	assert.Equal(t, 0, res.Risk)
	assert.Equal(t, LabelLowRisk, res.RiskLabel)
	assert.Equal(t, 0.2, res.Probability)
	assert.Equal(t, 80.0, res.Confidence)
}

func TestNewPredictionResult_ThresholdIsStrict(t *testing.T) {
	// Exactly at the boundary counts as low risk.
	res := NewPredictionResult(0.5, DefaultThreshold)
	assert.Equal(t, 0, res.Risk)
	assert.Equal(t, 50.0, res.Confidence)
}

func TestNewPredictionResult_Rounding(t *testing.T) {
	res := NewPredictionResult(0.123456, DefaultThreshold)
	assert.Equal(t, 0.1235, res.Probability)
	assert.Equal(t, 87.65, res.Confidence)
}

func TestNewPredictionResult_CustomThreshold(t *testing.T) {
	res := NewPredictionResult(0.4, 0.3)
	assert.Equal(t, 1, res.Risk)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 66.67, Round(200.0/3.0, 2))
	assert.Equal(t, 0.6333, Round(1.9/3.0, 4))
}
