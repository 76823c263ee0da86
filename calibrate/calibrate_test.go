// Package calibrate_test contains unit tests for the calibration value
// adapter, the spline provider generator and the calibrator driver,
// including an end-to-end curve round trip and a parallel-runs check.
package calibrate_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/selyco/strata/calibrate"
	"github.com/selyco/strata/interp"
	"github.com/selyco/strata/rootfind"
)

// zeroCouponTrade is a minimal instrument fixture: it quotes the market
// discount factor observed at its maturity.
type zeroCouponTrade struct {
	id       string
	maturity float64
	marketDF float64
}

func (tr zeroCouponTrade) ID() string { return tr.id }

// discountMeasure prices a zeroCouponTrade as model df minus market df, so a
// zero residual means the curve reprices the quote exactly.
type discountMeasure struct{}

func (discountMeasure) Value(trade calibrate.Trade, provider calibrate.CurveProvider) (float64, error) {
	zc, ok := trade.(zeroCouponTrade)
	if !ok {
		return 0, fmt.Errorf("unexpected trade type %T", trade)
	}
	df, err := provider.DiscountFactor(zc.maturity)
	if err != nil {
		return 0, err
	}

	return df - zc.marketDF, nil
}

var curveTimes = []float64{1, 2, 3, 5, 10}

// marketFixture derives zero-coupon quotes from a known rate vector, so the
// calibration answer is known in advance.
func marketFixture(t *testing.T, rates []float64) []calibrate.Trade {
	t.Helper()
	gen, err := calibrate.NewSplineProviderGenerator("Test-Disc", curveTimes, interp.ProductNaturalSpline())
	require.NoError(t, err)
	provider, err := gen.Generate(mat.NewVecDense(len(rates), rates))
	require.NoError(t, err)

	trades := make([]calibrate.Trade, len(curveTimes))
	for i, maturity := range curveTimes {
		df, err := provider.DiscountFactor(maturity)
		require.NoError(t, err)
		trades[i] = zeroCouponTrade{id: fmt.Sprintf("ZC-%dY", int(maturity)), maturity: maturity, marketDF: df}
	}

	return trades
}

// ------------------------------------------------------------------------
// 1. Validation of the calibration trio and the generator.
// ------------------------------------------------------------------------

func TestNewValue_Validation(t *testing.T) {
	gen, err := calibrate.NewSplineProviderGenerator("Test-Disc", curveTimes, interp.NaturalSpline())
	require.NoError(t, err)
	trades := marketFixture(t, []float64{0.01, 0.015, 0.02, 0.022, 0.025})

	_, err = calibrate.NewValue(nil, discountMeasure{}, gen)
	require.ErrorIs(t, err, calibrate.ErrNoTrades)

	_, err = calibrate.NewValue([]calibrate.Trade{trades[0], nil}, discountMeasure{}, gen)
	require.ErrorIs(t, err, calibrate.ErrNilTrade)

	_, err = calibrate.NewValue(trades, nil, gen)
	require.ErrorIs(t, err, calibrate.ErrNilMeasure)

	_, err = calibrate.NewValue(trades, discountMeasure{}, nil)
	require.ErrorIs(t, err, calibrate.ErrNilGenerator)
}

func TestSplineProviderGenerator_Validation(t *testing.T) {
	_, err := calibrate.NewSplineProviderGenerator("X", nil, interp.NaturalSpline())
	require.ErrorIs(t, err, calibrate.ErrNoKnotTimes)

	_, err = calibrate.NewSplineProviderGenerator("X", curveTimes, nil)
	require.ErrorIs(t, err, calibrate.ErrNilInterpolator)

	gen, err := calibrate.NewSplineProviderGenerator("X", curveTimes, interp.NaturalSpline())
	require.NoError(t, err)

	_, err = gen.Generate(nil)
	require.ErrorIs(t, err, calibrate.ErrNilParameters)

	_, err = gen.Generate(mat.NewVecDense(3, nil))
	require.ErrorIs(t, err, calibrate.ErrDimensionMismatch)
}

func TestProvider_CurveLookup(t *testing.T) {
	gen, err := calibrate.NewSplineProviderGenerator("USD-Disc", curveTimes, interp.NaturalSpline())
	require.NoError(t, err)
	provider, err := gen.Generate(mat.NewVecDense(5, []float64{0.01, 0.012, 0.014, 0.016, 0.02}))
	require.NoError(t, err)

	bound, err := provider.Curve("USD-Disc")
	require.NoError(t, err)
	z, err := bound.Interpolate(2)
	require.NoError(t, err)
	assert.InDelta(t, 0.012, z, 1e-12)

	_, err = provider.Curve("EUR-Disc")
	require.ErrorIs(t, err, calibrate.ErrUnknownCurve)
}

func TestProvider_DomainIsNotExtrapolated(t *testing.T) {
	gen, err := calibrate.NewSplineProviderGenerator("X", curveTimes, interp.NaturalSpline())
	require.NoError(t, err)
	provider, err := gen.Generate(mat.NewVecDense(5, []float64{0.01, 0.012, 0.014, 0.016, 0.02}))
	require.NoError(t, err)

	_, err = provider.DiscountFactor(30)
	require.ErrorIs(t, err, interp.ErrOutOfDomain)
}

// ------------------------------------------------------------------------
// 2. Residual purity: fresh providers, no cross-call state.
// ------------------------------------------------------------------------

func TestValue_ResidualsArePure(t *testing.T) {
	rates := []float64{0.01, 0.015, 0.02, 0.022, 0.025}
	trades := marketFixture(t, rates)
	gen, err := calibrate.NewSplineProviderGenerator("Test-Disc", curveTimes, interp.ProductNaturalSpline())
	require.NoError(t, err)
	value, err := calibrate.NewValue(trades, discountMeasure{}, gen)
	require.NoError(t, err)

	x := mat.NewVecDense(5, []float64{0.02, 0.02, 0.02, 0.02, 0.02})
	first, err := value.Residuals(x)
	require.NoError(t, err)
	second, err := value.Residuals(x)
	require.NoError(t, err)

	require.NotSame(t, first, second, "each call must allocate a fresh residual vector")
	for i := 0; i < first.Len(); i++ {
		assert.Equal(t, first.AtVec(i), second.AtVec(i))
	}

	// At the true rates every residual vanishes.
	zero, err := value.Residuals(mat.NewVecDense(5, rates))
	require.NoError(t, err)
	for i := 0; i < zero.Len(); i++ {
		assert.InDelta(t, 0.0, zero.AtVec(i), 1e-15)
	}
}

func TestValue_CopiesTradeList(t *testing.T) {
	rates := []float64{0.01, 0.015, 0.02, 0.022, 0.025}
	trades := marketFixture(t, rates)
	gen, err := calibrate.NewSplineProviderGenerator("Test-Disc", curveTimes, interp.ProductNaturalSpline())
	require.NoError(t, err)
	value, err := calibrate.NewValue(trades, discountMeasure{}, gen)
	require.NoError(t, err)

	// Clobbering the caller's slice must not disturb the captured trio.
	trades[0] = nil
	_, err = value.Residuals(mat.NewVecDense(5, rates))
	require.NoError(t, err)
}

// ------------------------------------------------------------------------
// 3. End-to-end round trip and explicit failure surfaces.
// ------------------------------------------------------------------------

func TestCalibrator_RoundTrip(t *testing.T) {
	trueRates := []float64{0.010, 0.015, 0.020, 0.022, 0.025}
	trades := marketFixture(t, trueRates)
	gen, err := calibrate.NewSplineProviderGenerator("Test-Disc", curveTimes, interp.ProductNaturalSpline())
	require.NoError(t, err)
	value, err := calibrate.NewValue(trades, discountMeasure{}, gen)
	require.NoError(t, err)

	guess := mat.NewVecDense(5, []float64{0.02, 0.02, 0.02, 0.02, 0.02})
	res, err := calibrate.NewCalibrator().Calibrate(value, guess)
	require.NoError(t, err)

	for i, want := range trueRates {
		assert.InDelta(t, want, res.Root.AtVec(i), 1e-6, "rate knot %d", i)
	}

	// The calibrated curve reprices every instrument within tolerance.
	final, err := value.Residuals(res.Root)
	require.NoError(t, err)
	for i := 0; i < final.Len(); i++ {
		assert.InDelta(t, 0.0, final.AtVec(i), calibrate.DefaultTolerance)
	}
}

func TestCalibrator_Validation(t *testing.T) {
	trades := marketFixture(t, []float64{0.01, 0.015, 0.02, 0.022, 0.025})
	gen, err := calibrate.NewSplineProviderGenerator("Test-Disc", curveTimes, interp.ProductNaturalSpline())
	require.NoError(t, err)
	value, err := calibrate.NewValue(trades, discountMeasure{}, gen)
	require.NoError(t, err)

	_, err = calibrate.NewCalibrator().Calibrate(nil, mat.NewVecDense(5, nil))
	require.ErrorIs(t, err, calibrate.ErrNilValue)

	_, err = calibrate.NewCalibrator().Calibrate(value, nil)
	require.ErrorIs(t, err, calibrate.ErrNilParameters)

	_, err = calibrate.NewCalibrator().Calibrate(value, mat.NewVecDense(3, nil))
	require.ErrorIs(t, err, calibrate.ErrDimensionMismatch)
}

func TestCalibrator_BudgetExhaustionIsExplicit(t *testing.T) {
	trueRates := []float64{0.010, 0.015, 0.020, 0.022, 0.025}
	trades := marketFixture(t, trueRates)
	gen, err := calibrate.NewSplineProviderGenerator("Test-Disc", curveTimes, interp.ProductNaturalSpline())
	require.NoError(t, err)
	value, err := calibrate.NewValue(trades, discountMeasure{}, gen)
	require.NoError(t, err)

	// One iteration cannot close a 10% starting error at 1e-12 tolerance.
	cal := calibrate.NewCalibrator(
		calibrate.WithTolerance(1e-12),
		calibrate.WithMaxIterations(1),
	)
	_, err = cal.Calibrate(value, mat.NewVecDense(5, []float64{0.1, 0.1, 0.1, 0.1, 0.1}))
	require.ErrorIs(t, err, rootfind.ErrMaxIterations)

	var ce *rootfind.ConvergenceError
	require.ErrorAs(t, err, &ce)
	assert.NotNil(t, ce.Best)
}

// ------------------------------------------------------------------------
// 4. Independent calibration runs are embarrassingly parallel.
// ------------------------------------------------------------------------

func TestCalibrator_ParallelRuns(t *testing.T) {
	scenarios := [][]float64{
		{0.010, 0.015, 0.020, 0.022, 0.025},
		{0.005, 0.007, 0.011, 0.014, 0.018},
		{0.030, 0.028, 0.026, 0.024, 0.020},
		{-0.002, 0.001, 0.004, 0.008, 0.012},
	}

	// Fixtures are assembled up front; the goroutines below run only the
	// calibrations themselves.
	values := make([]*calibrate.Value, len(scenarios))
	for idx, rates := range scenarios {
		trades := marketFixture(t, rates)
		gen, err := calibrate.NewSplineProviderGenerator("Test-Disc", curveTimes, interp.ProductNaturalSpline())
		require.NoError(t, err)
		values[idx], err = calibrate.NewValue(trades, discountMeasure{}, gen)
		require.NoError(t, err)
	}

	cal := calibrate.NewCalibrator()
	var wg sync.WaitGroup
	results := make([]*rootfind.Result, len(scenarios))
	errs := make([]error, len(scenarios))

	for idx := range scenarios {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = cal.Calibrate(values[idx],
				mat.NewVecDense(5, []float64{0.02, 0.02, 0.02, 0.02, 0.02}))
		}(idx)
	}
	wg.Wait()

	for idx, rates := range scenarios {
		require.NoError(t, errs[idx], "scenario %d", idx)
		for i, want := range rates {
			assert.InDelta(t, want, results[idx].Root.AtVec(i), 1e-6,
				"scenario %d, rate knot %d", idx, i)
		}
	}
}
