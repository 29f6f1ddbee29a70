package engine

import "fmt"

// NumericOverflowError reports a computed line item whose magnitude exceeded
// the sanity bound, usually caused by pathological compounding inputs.
type NumericOverflowError struct {
	Period int
	Field  string
	Value  float64
}

func (e *NumericOverflowError) Error() string {
	return fmt.Sprintf("numeric overflow in period %d: %s = %g exceeds sanity bound", e.Period, e.Field, e.Value)
}
