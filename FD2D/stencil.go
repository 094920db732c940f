package FD2D

import (
	"fmt"
	"strings"

	"github.com/notargets/roomheat/utils"
)

// EdgeSet selects which vertical edges of a grid carry a Neumann condition
type EdgeSet uint8

const (
	Left EdgeSet = 1 << iota
	Right

	NoEdges  EdgeSet = 0
	AllEdges         = Left | Right
)

func (e EdgeSet) Has(edge EdgeSet) bool { return e&edge == edge }

func (e EdgeSet) String() string {
	var names []string
	if e.Has(Left) {
		names = append(names, "Left")
	}
	if e.Has(Right) {
		names = append(names, "Right")
	}
	if e&^AllEdges != 0 {
		names = append(names, fmt.Sprintf("Unknown(%#x)", uint8(e&^AllEdges)))
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

/*
NewStencilBlock is the cols x cols tri-diagonal block of the 5 point Laplacian
along one grid row:

	-4  1(2)
	 1 -4  1
	    1 -4  1
	      (2)1 -4

A Neumann edge eliminates the reflected ghost point, doubling the coupling to
the first interior neighbour.
*/
func NewStencilBlock(cols int, edges EdgeSet) (T utils.Matrix) {
	if cols <= 0 {
		panic(fmt.Errorf("stencil block needs a positive column count, have %d", cols))
	}
	if edges&^AllEdges != 0 {
		panic(fmt.Errorf("unknown Neumann edge in set %s", edges))
	}
	if edges != NoEdges && cols < 2 {
		panic(fmt.Errorf("Neumann edges %s need at least two columns, have %d", edges, cols))
	}
	T = utils.NewMatrix(cols, cols)
	for j := 0; j < cols; j++ {
		T.Set(j, j, -4)
		if j > 0 {
			T.Set(j, j-1, 1)
		}
		if j < cols-1 {
			T.Set(j, j+1, 1)
		}
	}
	if edges.Has(Left) {
		T.Set(0, 1, 2)
	}
	if edges.Has(Right) {
		T.Set(cols-1, cols-2, 2)
	}
	return
}

// NewStencil builds the (rows*cols)^2 behaviour matrix of a rows x cols grid
// of unknowns, ordered row major. Rows couple to their vertical neighbours
// through identity blocks offset by ±cols.
func NewStencil(rows, cols int, edges EdgeSet) (A utils.Matrix) {
	if rows <= 0 {
		panic(fmt.Errorf("stencil needs a positive row count, have %d", rows))
	}
	A = utils.Kron(utils.NewIdentity(rows), NewStencilBlock(cols, edges))
	if rows > 1 {
		var (
			I    = utils.NewIdentity(cols)
			Up   = utils.Kron(utils.NewDiagonalOffset(rows, 1, 1), I)
			Down = utils.Kron(utils.NewDiagonalOffset(rows, -1, 1), I)
		)
		A.Add(Up).Add(Down)
	}
	return
}
