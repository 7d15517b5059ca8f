package features

import "math"

// The model was trained on age expressed in days; clients supply years.

// AgeToDays converts an age in years to days (days = years * 365).
func AgeToDays(years float64) int {
	return int(math.Round(years * 365))
}

// AgeToYears converts an age in days back to years, rounded to one decimal
// for display.
func AgeToYears(days float64) float64 {
	return math.Round(days/365*10) / 10
}
