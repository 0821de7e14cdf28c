package ledger

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// OverrideSet holds manual replacements for displayed report cells,
// keyed by display row and period.
type OverrideSet map[RowNumber]map[Period]float64

// Override is one (row, period, value) cell replacement.
type Override struct {
	Row    RowNumber `json:"line_number"`
	Period Period    `json:"period"`
	Value  float64   `json:"value"`
}

// ValidateOverride rejects unknown rows, malformed periods and non-finite values.
func ValidateOverride(row RowNumber, period Period, value float64) error {
	if err := ValidateRow(row); err != nil {
		return err
	}
	if _, err := ParsePeriod(string(period)); err != nil {
		return err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %v is not a finite number", ErrInvalidOverride, value)
	}
	return nil
}

// ParseOverrideValue parses a user-supplied override value.
func ParseOverrideValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if v, err = ParseAmount(s); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidOverride, s)
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrInvalidOverride, s)
	}
	return v, nil
}

// Get returns the override for (row, period), if any.
func (o OverrideSet) Get(row RowNumber, period Period) (float64, bool) {
	byPeriod, ok := o[row]
	if !ok {
		return 0, false
	}
	v, ok := byPeriod[period]
	return v, ok
}

// Set stores an override after validating it. The set is untouched on error.
func (o OverrideSet) Set(row RowNumber, period Period, value float64) error {
	if err := ValidateOverride(row, period, value); err != nil {
		return err
	}
	if o[row] == nil {
		o[row] = make(map[Period]float64)
	}
	o[row][period] = value
	return nil
}

// Clear removes one override. Clearing a missing cell is a no-op.
func (o OverrideSet) Clear(row RowNumber, period Period) {
	byPeriod, ok := o[row]
	if !ok {
		return
	}
	delete(byPeriod, period)
	if len(byPeriod) == 0 {
		delete(o, row)
	}
}

// Clone returns a deep copy.
func (o OverrideSet) Clone() OverrideSet {
	out := make(OverrideSet, len(o))
	for row, byPeriod := range o {
		cp := make(map[Period]float64, len(byPeriod))
		for p, v := range byPeriod {
			cp[p] = v
		}
		out[row] = cp
	}
	return out
}

// List flattens the set into a slice ordered by row then period.
func (o OverrideSet) List() []Override {
	var out []Override
	for row, byPeriod := range o {
		for p, v := range byPeriod {
			out = append(out, Override{Row: row, Period: p, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Period < out[j].Period
	})
	return out
}

// Len counts stored cells.
func (o OverrideSet) Len() int {
	n := 0
	for _, byPeriod := range o {
		n += len(byPeriod)
	}
	return n
}
