// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/finmodeler/statement-forge/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for display and logical comparisons, never inside the roll-forward.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance.
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// TieTolerance returns the tolerance for comparing two statement figures,
// scaling with the magnitude of the reference value so large balance sheets
// are not failed on float64 noise.
func TieTolerance(reference float64) float64 {
	return math.Max(constants.BalanceTolerance, constants.BalanceRelativeTolerance*math.Abs(reference))
}

// IsFinite reports whether a computed figure is a usable number.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
