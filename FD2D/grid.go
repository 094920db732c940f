package FD2D

import "fmt"

// Grid is a rectangle of Rows x Cols interior unknowns with spacing Dx = 1/Cols
type Grid struct {
	Rows, Cols int
	Dx         float64
}

func NewGrid(rows, cols int) Grid {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Errorf("grid dimensions must be positive, have %d x %d", rows, cols))
	}
	return Grid{
		Rows: rows,
		Cols: cols,
		Dx:   1. / float64(cols),
	}
}

// Index is the row major position of unknown (i,j) in the solution vector
func (g Grid) Index(i, j int) int { return i*g.Cols + j }

func (g Grid) NumUnknowns() int { return g.Rows * g.Cols }

func (g Grid) String() string {
	return fmt.Sprintf("%d x %d, dx = %8.5f", g.Rows, g.Cols, g.Dx)
}
