// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Fluidbench Labs

package pumplink

import (
	"fmt"
	"math"
)

// FlowRate is the controller's native representation of a flow rate in
// ml/min: a decimal mantissa and a base-10 exponent. The wire protocol
// exchanges exactly this decomposition, so the driver never flattens it to a
// float except for display and echo comparison.
type FlowRate struct {
	Mantissa int
	Exponent int
}

// Value returns the logical flow rate, mantissa x 10^exponent.
func (f FlowRate) Value() float64 {
	return float64(f.Mantissa) * math.Pow(10, float64(f.Exponent))
}

// Validate reports whether the flow rate can be encoded on the wire.
// Mantissa must fit four digits and the exponent one signed digit.
func (f FlowRate) Validate() error {
	if f.Mantissa < MinMantissa || f.Mantissa > MaxMantissa {
		return fmt.Errorf("%w: mantissa %d not in [%d,%d]",
			ErrOutOfRange, f.Mantissa, MinMantissa, MaxMantissa)
	}
	if f.Exponent < MinExponent || f.Exponent > MaxExponent {
		return fmt.Errorf("%w: exponent %d not in [%d,%d]",
			ErrOutOfRange, f.Exponent, MinExponent, MaxExponent)
	}
	return nil
}

// Equivalent reports whether two flow rates agree at four decimal digits of
// their logical value. The controller silently clamps unreachable setpoints
// to its nearest achievable value, so an echo that differs beyond rounding
// noise means the requested rate was not actually applied.
func (f FlowRate) Equivalent(other FlowRate) bool {
	return math.Round(f.Value()*1e4) == math.Round(other.Value()*1e4)
}

// String renders the rate the way the controller displays it.
func (f FlowRate) String() string {
	return fmt.Sprintf("%g ml/min", f.Value())
}
