package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(N int, dataO ...[]float64) Vector {
	if len(dataO) != 0 {
		if len(dataO[0]) != N {
			err := fmt.Errorf("mismatch in allocation: NewVector N = %v, len(data[0]) = %v\n", N, len(dataO[0]))
			panic(err)
		}
		return Vector{mat.NewVecDense(N, dataO[0])}
	}
	return Vector{mat.NewVecDense(N, make([]float64, N))}
}

func (v Vector) Len() int        { return v.V.Len() }
func (v Vector) Data() []float64 { return v.V.RawVector().Data }

// ToMatrix reshapes the vector row major into nr x nc, sharing storage
func (v Vector) ToMatrix(nr, nc int) Matrix {
	return NewMatrix(nr, nc, v.Data())
}
