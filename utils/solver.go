package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Solver solves the dense system A x = b
type Solver interface {
	Solve(A Matrix, b Vector) (x Vector, err error)
}

// LUSolver keeps the factorization of the last read only matrix it was
// handed, a subdomain's behaviour matrix is factored once per run
type LUSolver struct {
	lu      mat.LU
	factors *mat.Dense
	Count   int // Number of factorizations performed
}

func NewLUSolver() *LUSolver {
	return &LUSolver{}
}

func (s *LUSolver) Solve(A Matrix, b Vector) (x Vector, err error) {
	var (
		nr, nc = A.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("matrix is not square: %d x %d", nr, nc)
		return
	}
	if b.Len() != nr {
		err = fmt.Errorf("rhs length %d does not match matrix dimension %d", b.Len(), nr)
		return
	}
	if !A.IsReadOnly() || s.factors != A.M {
		s.lu.Factorize(A.M)
		s.Count++
		s.factors = nil
		if A.IsReadOnly() {
			s.factors = A.M
		}
	}
	x = NewVector(nr)
	if err = s.lu.SolveVecTo(x.V, false, b.V); err != nil {
		err = fmt.Errorf("LU solve of %d x %d system failed: %w", nr, nc, err)
		return
	}
	if IsNan(x) {
		err = fmt.Errorf("LU solve of %d x %d system produced NaN", nr, nc)
	}
	return
}
