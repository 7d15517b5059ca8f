package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgeToDays(t *testing.T) {
	assert.Equal(t, 18250, AgeToDays(50))
	assert.Equal(t, 365, AgeToDays(1))
	assert.Equal(t, 43800, AgeToDays(120))
}

func TestAgeToYears_RoundsToOneDecimal(t *testing.T) {
	assert.Equal(t, 50.0, AgeToYears(18250))
	assert.Equal(t, 1.0, AgeToYears(365))
	assert.Equal(t, 49.9, AgeToYears(18200))
}

func TestAgeConversion_RoundTrip(t *testing.T) {
	for years := 1; years <= 120; years++ {
		days := AgeToDays(float64(years))
		assert.Equal(t, float64(years), AgeToYears(float64(days)), "years=%d", years)
	}
}
