package FD2D

import (
	"fmt"

	"github.com/notargets/roomheat/utils"
)

/*
Field holds a temperature solution on a (Rows+2) x (Cols+2) array. The
interior block [1,Rows] x [1,Cols] carries the unknowns, the outer ring the
boundary values the solution was computed against. Row 0 is the south ring,
column 0 the west ring.
*/
type Field struct {
	Grid
	M utils.Matrix
}

func NewField(g Grid) Field {
	return Field{
		Grid: g,
		M:    utils.NewMatrix(g.Rows+2, g.Cols+2),
	}
}

// Dims is the padded shape
func (f Field) Dims() (r, c int) { return f.M.Dims() }

// U is the interior unknown (i,j), 0 <= i < Rows, 0 <= j < Cols
func (f Field) U(i, j int) float64 { return f.M.At(i+1, j+1) }

func (f Field) Copy() Field {
	return Field{
		Grid: f.Grid,
		M:    f.M.Copy(),
	}
}

// Interior strips the padding ring
func (f Field) Interior() utils.Matrix {
	return f.M.Slice(1, f.Rows+1, 1, f.Cols+1)
}

// SetInterior copies a row major solution vector into the interior block
func (f Field) SetInterior(x utils.Vector) {
	if x.Len() != f.NumUnknowns() {
		panic(fmt.Errorf("solution length %d does not match grid %s", x.Len(), f.Grid))
	}
	f.M.SetBlock(1, 1, x.ToMatrix(f.Rows, f.Cols))
}

// InteriorCol returns rows [i0, i0+length) of interior column j
func (f Field) InteriorCol(j, i0, length int) (col []float64) {
	return f.M.Col(j + 1).Data()[i0+1 : i0+1+length]
}

// SetRing writes the four boundary rings, each ring vector runs along its
// edge in increasing index order. Corners take the mean of their two
// neighbouring ring values.
func (f Field) SetRing(south, north, west, east []float64) {
	var (
		R, C = f.Rows, f.Cols
	)
	for j := 0; j < C; j++ {
		f.M.Set(0, j+1, south[j])
		f.M.Set(R+1, j+1, north[j])
	}
	for i := 0; i < R; i++ {
		f.M.Set(i+1, 0, west[i])
		f.M.Set(i+1, C+1, east[i])
	}
	f.M.Set(0, 0, 0.5*(south[0]+west[0]))
	f.M.Set(0, C+1, 0.5*(south[C-1]+east[0]))
	f.M.Set(R+1, 0, 0.5*(north[0]+west[R-1]))
	f.M.Set(R+1, C+1, 0.5*(north[C-1]+east[R-1]))
}
