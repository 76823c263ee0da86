package calibrate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/selyco/strata/rootfind"
)

// Value bundles trades, a pricing measure and a provider generator into the
// residual function of a calibration run: given a candidate parameter vector
// it builds a fresh provider and prices every trade against it.
//
// The trio is captured immutably at construction. Residuals holds no state
// across calls, so one Value may serve many concurrent root-finder runs
// without interference.
type Value struct {
	trades    []Trade
	measure   Measure
	generator ProviderGenerator
}

// NewValue validates and captures the calibration trio.
//
// Validation (in order):
//  1. trades must be non-empty (ErrNoTrades) with no nil entry (ErrNilTrade).
//  2. measure must be non-nil (ErrNilMeasure).
//  3. generator must be non-nil (ErrNilGenerator).
func NewValue(trades []Trade, measure Measure, generator ProviderGenerator) (*Value, error) {
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}
	for i, trade := range trades {
		if trade == nil {
			return nil, fmt.Errorf("trade %d: %w", i, ErrNilTrade)
		}
	}
	if measure == nil {
		return nil, ErrNilMeasure
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}

	// Copy the trade list so later caller mutations cannot reach the run.
	return &Value{
		trades:    append([]Trade(nil), trades...),
		measure:   measure,
		generator: generator,
	}, nil
}

// Size returns the residual dimension, one entry per trade.
func (v *Value) Size() int { return len(v.trades) }

// Residuals evaluates the calibration residual at x: a fresh provider is
// generated, then every trade is measured against it. The result length
// equals the trade count; a fresh vector is allocated on every call.
func (v *Value) Residuals(x *mat.VecDense) (*mat.VecDense, error) {
	if x == nil {
		return nil, ErrNilParameters
	}

	provider, err := v.generator.Generate(x)
	if err != nil {
		return nil, fmt.Errorf("Residuals: %w", err)
	}

	out := mat.NewVecDense(len(v.trades), nil)
	for i, trade := range v.trades {
		value, err := v.measure.Value(trade, provider)
		if err != nil {
			return nil, fmt.Errorf("Residuals: trade %q: %w", trade.ID(), err)
		}
		out.SetVec(i, value)
	}

	return out, nil
}

// VectorFunc adapts the Value into the residual signature of the root finder.
func (v *Value) VectorFunc() rootfind.VectorFunc {
	return func(x *mat.VecDense) (*mat.VecDense, error) {
		return v.Residuals(x)
	}
}
