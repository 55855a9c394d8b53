package sarima

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/seriate/seriate"
)

// Lag polynomials are stored as coefficient slices indexed by power of the
// backshift operator, with index 0 holding the constant term 1.

// polyMul convolves two lag polynomials.
func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// lagPoly builds 1 + sign*c[0]*B^m + sign*c[1]*B^2m + ... from coefficients
// at multiples of the period m. AR polynomials use sign -1, MA use +1.
func lagPoly(coeffs []float64, period int, sign float64) []float64 {
	out := make([]float64, len(coeffs)*period+1)
	out[0] = 1
	for i, c := range coeffs {
		out[(i+1)*period] = sign * c
	}
	return out
}

// diffPoly expands (1-B^period)^order.
func diffPoly(order, period int) []float64 {
	out := []float64{1}
	if order == 0 {
		return out
	}
	base := make([]float64, period+1)
	base[0] = 1
	base[period] = -1
	for i := 0; i < order; i++ {
		out = polyMul(out, base)
	}
	return out
}

// arPolynomial expands phi(B)*PHI(B^m), without the differencing factors.
func (m *Model) arPolynomial() []float64 {
	return polyMul(lagPoly(m.ARCoeffs, 1, -1), lagPoly(m.SARCoeffs, m.Order.Period, -1))
}

// maPolynomial expands theta(B)*THETA(B^m).
func (m *Model) maPolynomial() []float64 {
	return polyMul(lagPoly(m.MACoeffs, 1, 1), lagPoly(m.SMACoeffs, m.Order.Period, 1))
}

// fullARPolynomial folds the differencing operators into the AR side,
// giving the autoregressive polynomial of the integrated process.
func (m *Model) fullARPolynomial() []float64 {
	poly := m.arPolynomial()
	poly = polyMul(poly, diffPoly(m.Order.D, 1))
	return polyMul(poly, diffPoly(m.Order.SD, m.Order.Period))
}

// maxInverseRootModulus returns the largest modulus among the inverse roots
// of a lag polynomial, computed as the spectral radius of its companion
// matrix. A stable polynomial keeps every inverse root strictly inside the
// unit circle.
func maxInverseRootModulus(poly []float64) (float64, error) {
	deg := len(poly) - 1
	for deg > 0 && poly[deg] == 0 {
		deg--
	}
	if deg < 1 {
		return 0, nil
	}

	comp := mat.NewDense(deg, deg, nil)
	for j := 0; j < deg; j++ {
		comp.Set(0, j, -poly[j+1])
	}
	for i := 1; i < deg; i++ {
		comp.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(comp, mat.EigenNone); !ok {
		return 0, fmt.Errorf("sarima: companion eigendecomposition failed: %w",
			seriate.ErrNumericInstability)
	}

	maxMod := 0.0
	for _, v := range eig.Values(nil) {
		if mod := cmplx.Abs(v); mod > maxMod {
			maxMod = mod
		}
	}
	return maxMod, nil
}

// unitRootTol keeps estimates that sit numerically on the unit circle out
// of the admissible region.
const unitRootTol = 1e-8

// checkRoots rejects fitted coefficients outside the stationary and
// invertible region.
func (m *Model) checkRoots() error {
	if m.Order.P > 0 || m.Order.SP > 0 {
		mod, err := maxInverseRootModulus(m.arPolynomial())
		if err != nil {
			return err
		}
		if mod >= 1-unitRootTol {
			return fmt.Errorf("sarima: %s is non-stationary (inverse AR root modulus %.4f): %w",
				m.Order, mod, seriate.ErrModelFit)
		}
	}
	if m.Order.Q > 0 || m.Order.SQ > 0 {
		mod, err := maxInverseRootModulus(m.maPolynomial())
		if err != nil {
			return err
		}
		if mod >= 1-unitRootTol {
			return fmt.Errorf("sarima: %s is non-invertible (inverse MA root modulus %.4f): %w",
				m.Order, mod, seriate.ErrModelFit)
		}
	}
	return nil
}
