// Package metrics computes classification rates from confusion-matrix counts.
package metrics

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrZeroDenominator is returned when a rate's denominator is zero.
var ErrZeroDenominator = errors.New("zero denominator")

// Counts holds confusion-matrix totals.
type Counts struct {
	TP int
	FP int
	TN int
	FN int
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.TP += other.TP
	c.FP += other.FP
	c.TN += other.TN
	c.FN += other.FN
}

// Total returns the number of samples counted.
func (c Counts) Total() int {
	return c.TP + c.FP + c.TN + c.FN
}

// Rates holds percentages rounded to two decimal places.
type Rates struct {
	Sensitivity float64
	Specificity float64
	// VME is the very major error (false-negative) rate.
	VME float64
	// ME is the major error (false-positive) rate.
	ME  float64
	PPV float64
	NPV float64
}

// Rates derives all six percentages. Any zero denominator is an error.
func (c Counts) Rates() (Rates, error) {
	var (
		r   Rates
		err error
	)
	fields := []struct {
		name     string
		dst      *float64
		num, den int
	}{
		{"sensitivity", &r.Sensitivity, c.TP, c.TP + c.FN},
		{"specificity", &r.Specificity, c.TN, c.TN + c.FP},
		{"VME", &r.VME, c.FN, c.FN + c.TP},
		{"ME", &r.ME, c.FP, c.FP + c.TN},
		{"PPV", &r.PPV, c.TP, c.TP + c.FP},
		{"NPV", &r.NPV, c.TN, c.TN + c.FN},
	}
	for _, f := range fields {
		var p float64
		p, err = Percent(f.num, f.den)
		if err != nil {
			return Rates{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = Round(p, 2)
	}
	return r, nil
}

// Values returns the rates in table column order.
func (r Rates) Values() []float64 {
	return []float64{r.Sensitivity, r.Specificity, r.VME, r.ME, r.PPV, r.NPV}
}

// Percent returns 100*num/den.
func Percent(num, den int) (float64, error) {
	if den == 0 {
		return 0, ErrZeroDenominator
	}
	return float64(100*num) / float64(den), nil
}

// Round rounds x to the given number of decimal places using the exact
// binary value of x, so 2.675 rounds to 2.67.
func Round(x float64, places int) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// Fixed formats x with exactly places decimals.
func Fixed(x float64, places int) string {
	return strconv.FormatFloat(x, 'f', places, 64)
}
