package utils

import (
	"fmt"
)

func NewIdentity(N int) (R Matrix) {
	R = NewMatrix(N, N)
	data := R.Data()
	for i := 0; i < N; i++ {
		data[i*N+i] = 1
	}
	return
}

// Kron is the Kronecker product A ⊗ B, each entry of A scales a copy of B
func Kron(A, B Matrix) (R Matrix) {
	var (
		nrA, ncA = A.Dims()
		nrB, ncB = B.Dims()
		ncR      = ncA * ncB
		dataA    = A.Data()
		dataB    = B.Data()
	)
	R = NewMatrix(nrA*nrB, ncR)
	dataR := R.Data()
	for ia := 0; ia < nrA; ia++ {
		for ja := 0; ja < ncA; ja++ {
			a := dataA[ia*ncA+ja]
			if a == 0 {
				continue
			}
			for ib := 0; ib < nrB; ib++ {
				row := (ia*nrB + ib) * ncR
				for jb := 0; jb < ncB; jb++ {
					dataR[row+ja*ncB+jb] = a * dataB[ib*ncB+jb]
				}
			}
		}
	}
	return
}

// NewDiagonalOffset places val on the diagonal offset by k, k > 0 is above the main diagonal
func NewDiagonalOffset(N, k int, val float64) (R Matrix) {
	if k >= N || k <= -N {
		err := fmt.Errorf("diagonal offset %d out of range for dimension %d", k, N)
		panic(err)
	}
	R = NewMatrix(N, N)
	data := R.Data()
	for i := 0; i < N; i++ {
		j := i + k
		if j < 0 || j >= N {
			continue
		}
		data[i*N+j] = val
	}
	return
}
