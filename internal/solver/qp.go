package solver

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

type pinState uint8

const (
	pinFree pinState = iota
	pinLower
	pinUpper
	pinFixed // degenerate interval, never released
)

// solveQP minimizes ½·dᵀHd + gᵀd subject to A·d = r and dlo ≤ d ≤ dhi.
//
// Bounds are handled with an active-set loop: variables sitting on a violated
// bound are pinned there, the remaining equality-constrained problem is
// re-solved, and pins whose multiplier has the wrong sign are released one at
// a time. Degenerate intervals (width below noise) are pinned to their
// midpoint up front, so equal bounds simply remove a variable instead of
// producing a contradictory system.
//
// Returns the step d and the constraint multipliers.
func solveQP(hess *mat.SymDense, g []float64, a [][]float64, r []float64, dlo, dhi []float64) ([]float64, []float64, error) {
	n := len(g)
	m := len(a)

	state := make([]pinState, n)
	val := make([]float64, n)
	for i := 0; i < n; i++ {
		width := dhi[i] - dlo[i]
		scale := 1 + math.Max(math.Abs(dlo[i]), math.Abs(dhi[i]))
		if width <= 1e-9*scale {
			state[i] = pinFixed
			val[i] = (dlo[i] + dhi[i]) / 2
		}
	}

	gInf := 0.0
	for _, v := range g {
		if math.Abs(v) > gInf {
			gInf = math.Abs(v)
		}
	}
	multTol := 1e-9 * (1 + gInf)

	maxPasses := 6*n + 20
	for pass := 0; pass < maxPasses; pass++ {
		freeIdx := freeIndices(state)
		nf := len(freeIdx)

		// With every variable pinned there is no system to solve: the step is
		// the pinned values and the multipliers are indeterminate (zero is the
		// minimum-norm choice). Pins may still be released below.
		if nf == 0 {
			d := make([]float64, n)
			copy(d, val)
			lam := make([]float64, m)
			mu := stationarity(hess, g, a, d, lam)
			if release := findRelease(state, mu, multTol); release >= 0 {
				state[release] = pinFree
				continue
			}
			return d, lam, nil
		}

		kkt := mat.NewDense(nf+m, nf+m, nil)
		rhs := mat.NewVecDense(nf+m, nil)
		for fi, i := range freeIdx {
			for fj, j := range freeIdx {
				kkt.Set(fi, fj, hess.At(i, j))
			}
			v := -g[i]
			for j := 0; j < n; j++ {
				if state[j] != pinFree {
					v -= hess.At(i, j) * val[j]
				}
			}
			rhs.SetVec(fi, v)
		}
		for k := 0; k < m; k++ {
			for fi, i := range freeIdx {
				kkt.Set(nf+k, fi, a[k][i])
				kkt.Set(fi, nf+k, a[k][i])
			}
			v := r[k]
			for j := 0; j < n; j++ {
				if state[j] != pinFree {
					v -= a[k][j] * val[j]
				}
			}
			rhs.SetVec(nf+k, v)
		}

		sol, err := solveKKT(kkt, rhs)
		if err != nil {
			return nil, nil, err
		}

		d := make([]float64, n)
		for i := 0; i < n; i++ {
			if state[i] != pinFree {
				d[i] = val[i]
			}
		}
		for fi, i := range freeIdx {
			d[i] = sol.AtVec(fi)
		}
		lam := make([]float64, m)
		for k := 0; k < m; k++ {
			lam[k] = sol.AtVec(nf + k)
		}

		// Pin the worst bound violation among the free variables, if any.
		worst, worstViol := -1, 1e-9
		worstAtLower := false
		for _, i := range freeIdx {
			if viol := dlo[i] - d[i]; viol > worstViol {
				worst, worstViol, worstAtLower = i, viol, true
			}
			if viol := d[i] - dhi[i]; viol > worstViol {
				worst, worstViol, worstAtLower = i, viol, false
			}
		}
		if worst >= 0 {
			if worstAtLower {
				state[worst] = pinLower
				val[worst] = dlo[worst]
			} else {
				state[worst] = pinUpper
				val[worst] = dhi[worst]
			}
			continue
		}

		// All bounds hold. Release the pin with the most wrong-signed
		// multiplier, if any; otherwise the KKT conditions are satisfied.
		mu := stationarity(hess, g, a, d, lam)
		if release := findRelease(state, mu, multTol); release >= 0 {
			state[release] = pinFree
			continue
		}

		return d, lam, nil
	}

	return nil, nil, errors.New("active-set iteration limit in quadratic subproblem")
}

// findRelease returns the pinned variable whose bound multiplier has the most
// wrong-signed value, or -1 when every pin is justified. A lower pin needs
// mu ≥ 0 to stay, an upper pin needs mu ≤ 0; pinFixed is never released.
func findRelease(state []pinState, mu []float64, multTol float64) int {
	release, releaseViol := -1, multTol
	for i, s := range state {
		switch s {
		case pinLower:
			if -mu[i] > releaseViol {
				release, releaseViol = i, -mu[i]
			}
		case pinUpper:
			if mu[i] > releaseViol {
				release, releaseViol = i, mu[i]
			}
		}
	}
	return release
}

func freeIndices(state []pinState) []int {
	idx := make([]int, 0, len(state))
	for i, s := range state {
		if s == pinFree {
			idx = append(idx, i)
		}
	}
	return idx
}

// stationarity returns H·d + g + Aᵀλ. It vanishes on free variables; on a
// pinned variable it is the multiplier of that bound (≥ 0 keeps a lower pin,
// ≤ 0 keeps an upper pin).
func stationarity(hess *mat.SymDense, g []float64, a [][]float64, d, lam []float64) []float64 {
	n := len(g)
	mu := make([]float64, n)
	for i := 0; i < n; i++ {
		v := g[i]
		for j := 0; j < n; j++ {
			v += hess.At(i, j) * d[j]
		}
		for k := range a {
			v += a[k][i] * lam[k]
		}
		mu[i] = v
	}
	return mu
}

// solveKKT solves the (possibly singular) KKT system through an SVD
// pseudo-inverse. Redundant constraint rows make plain LU factorization
// unusable here (an account whose variables are all pinned contributes a zero
// row), so rank is determined explicitly and the minimum-norm solution is
// taken.
func solveKKT(kkt *mat.Dense, rhs *mat.VecDense) (*mat.VecDense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(kkt, mat.SVDFull); !ok {
		return nil, errors.New("failed to factorize KKT system")
	}
	const rcond = 1e-12
	rank := svd.Rank(rcond)
	if rank == 0 {
		return nil, errors.New("KKT system has rank zero")
	}
	dim, _ := kkt.Dims()
	sol := mat.NewVecDense(dim, nil)
	svd.SolveVecTo(sol, rhs, rank)
	return sol, nil
}
