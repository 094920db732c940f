package Apartment

import (
	"fmt"

	"github.com/notargets/roomheat/utils"
)

/*
Assemble lays the room interiors out as one 2C x 2C floor plan, C being the
Kitchen width. Before the final flip row 0 is the south edge:

	rows [C+n,2C) | Bathroom | Entry  | LivingRoom |
	rows [C,C+n)  |          | closet |            |
	rows [0,C)    | Kitchen           |            |

The closet has no thermal model and is filled with the wall temperature.
Rows are then flipped so north is row 0.
*/
func Assemble(livingRoom, kitchen, entry, bathroom utils.Matrix, wall float64) (R utils.Matrix, err error) {
	var (
		C, _   = kitchen.Dims()
		n, _   = entry.Dims()
		shapes = []struct {
			name         string
			m            utils.Matrix
			nr, nc, i, j int
		}{
			{"Bathroom", bathroom, 2 * n, n, C, 0},
			{"Entry", entry, n, n, C + n, n},
			{"Kitchen", kitchen, C, C, 0, 0},
			{"LivingRoom", livingRoom, 2 * C, C, 0, C},
		}
	)
	if C != 2*n || n == 0 {
		return R, fmt.Errorf("kitchen width %d must be twice the entry width %d", C, n)
	}
	R = utils.NewMatrix(2*C, 2*C)
	R.SetBlock(C, n, utils.NewMatrixConst(n, n, wall))
	for _, s := range shapes {
		nr, nc := s.m.Dims()
		if nr != s.nr || nc != s.nc {
			return R, fmt.Errorf("field of %s is %dx%d, expected %dx%d", s.name, nr, nc, s.nr, s.nc)
		}
		R.SetBlock(s.i, s.j, s.m)
	}
	R = R.FlipRows()
	return
}
