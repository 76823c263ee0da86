// Package calibrate composes trades, a pricing measure and a curve-provider
// generator into the residual function of curve calibration, and drives it
// through the Broyden root finder.
//
// 🚀 What is strata/calibrate?
//
//	The top of the calibration stack:
//	  • Value — the immutable (trades, measure, generator) trio; each call
//	    builds a fresh provider and prices every trade against it
//	  • Calibrator — the driver; wires the Value into rootfind.Broyden
//	    with calibration-grade defaults
//	  • SplineProviderGenerator — a discounting provider built on the
//	    interp curve family, df(t) = exp(−z(t)·t)
//
// ✨ Design guarantees:
//
//   - Purity – Residuals holds no state across calls; the same Value serves
//     concurrent runs without interference
//   - Square systems – one trade per curve parameter, enforced eagerly
//   - Explicit outcomes – a run converges within tolerance or fails with a
//     typed error carrying the best iterate; never a silent "close enough"
//
// ⚙️ Usage:
//
//	import "github.com/selyco/strata/calibrate"
//
//	gen, _ := calibrate.NewSplineProviderGenerator("USD-Disc", times,
//	  interp.ProductNaturalSpline())
//	value, _ := calibrate.NewValue(trades, measure, gen)
//	res, err := calibrate.NewCalibrator().Calibrate(value, guess)
//
// Performance: one residual evaluation reprices the whole trade set; the
// finder evaluates 2n+1 residuals for the initial Jacobian seed and one per
// secant iteration afterwards.
package calibrate
