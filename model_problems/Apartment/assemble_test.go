package Apartment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/roomheat/utils"
)

func TestAssemble(t *testing.T) {
	var (
		C, n = 4, 2
		lr   = utils.NewMatrixConst(2*C, C, 1)
		kit  = utils.NewMatrixConst(C, C, 2)
		en   = utils.NewMatrixConst(n, n, 3)
		bath = utils.NewMatrixConst(2*n, n, 4)
	)
	{ // Test the layout, north up
		R, err := Assemble(lr, kit, en, bath, 9)
		require.NoError(t, err)
		nr, nc := R.Dims()
		require.Equal(t, 8, nr)
		require.Equal(t, 8, nc)
		assert.Equal(t, []float64{
			4, 4, 3, 3, 1, 1, 1, 1,
			4, 4, 3, 3, 1, 1, 1, 1,
			4, 4, 9, 9, 1, 1, 1, 1,
			4, 4, 9, 9, 1, 1, 1, 1,
			2, 2, 2, 2, 1, 1, 1, 1,
			2, 2, 2, 2, 1, 1, 1, 1,
			2, 2, 2, 2, 1, 1, 1, 1,
			2, 2, 2, 2, 1, 1, 1, 1,
		}, R.Data())
	}
	{ // Test the south row of a room lands at the bottom
		k := kit.Copy()
		k.SetRow(0, []float64{5, 5, 5, 5})
		R, err := Assemble(lr, k, en, bath, 9)
		require.NoError(t, err)
		assert.Equal(t, []float64{5, 5, 5, 5, 1, 1, 1, 1}, R.Row(7).Data())
	}
	{ // Test shape errors
		_, err := Assemble(lr, kit, utils.NewMatrix(3, 3), bath, 9)
		assert.Error(t, err)
		_, err = Assemble(utils.NewMatrix(C, C), kit, en, bath, 9)
		assert.Error(t, err)
		_, err = Assemble(lr, kit, en, utils.NewMatrix(n, n), 9)
		assert.Error(t, err)
	}
}

func TestRender(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	R := utils.NewMatrix(8, 8, utils.Linspace(8, 35, 64))
	path, err := Render(R, wall, true, false, dir, 64)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Temperature_open-true_oven-false.png"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	{ // Test a uniform field still renders
		_, err = Render(utils.NewMatrixConst(4, 4, wall), wall, false, true, dir, 16)
		require.NoError(t, err)
	}
	_, err = Render(R, wall, true, true, dir, 1)
	assert.Error(t, err)
	assert.Equal(t, "Temperature_open-false_oven-true.png", PlotFileName(false, true))
}

func TestFloorPlanAdjacency(t *testing.T) {
	for _, cols := range []int{12, 20} {
		var (
			C, n     = cols, cols / 2
			fields   = make(map[RoomID]utils.Matrix)
			profiles = make(map[RoomID]BoundaryProfile)
			// South west corner of each room in the plan before the flip
			origin = map[RoomID][2]int{
				LivingRoom: {0, C},
				Kitchen:    {0, 0},
				Bathroom:   {C, 0},
				Entry:      {C + n, n},
			}
			northUp = func(i int) int { return 2*C - 1 - i }
		)
		for _, room := range Rooms {
			bp, err := NewProfile(room, conditions(true, true), cols)
			require.NoError(t, err)
			profiles[room] = bp
			m := utils.NewMatrix(bp.Rows, bp.Cols)
			for i := 0; i < bp.Rows; i++ {
				for j := 0; j < bp.Cols; j++ {
					m.Set(i, j, float64(1000*int(room)+i))
				}
			}
			fields[room] = m
		}
		R, err := Assemble(fields[LivingRoom], fields[Kitchen], fields[Entry], fields[Bathroom], -1)
		require.NoError(t, err)
		{ // Test every coupled row faces the matching row of its neighbour
			for _, room := range Rooms {
				bp := profiles[room]
				org := origin[room]
				for _, c := range bp.Couplings {
					back, ok := profiles[c.Neighbor].Coupling(room)
					require.True(t, ok)
					j := org[1] - 1
					if c.Side == East {
						j = org[1] + bp.Cols
					}
					for i := 0; i < c.Length; i++ {
						v := int(R.At(northUp(org[0]+c.Offset+i), j))
						assert.Equal(t, int(c.Neighbor), v/1000, "%s row %d, cols %d", room, c.Offset+i, cols)
						assert.Equal(t, back.Offset+i, v%1000, "%s row %d, cols %d", room, c.Offset+i, cols)
					}
				}
			}
		}
		{ // Test Entry sits on the north half of the LivingRoom and Kitchen on the south half
			lr := profiles[LivingRoom]
			e, _ := lr.Coupling(Entry)
			k, _ := lr.Coupling(Kitchen)
			assert.Equal(t, lr.Rows, e.Offset+e.Length)
			assert.GreaterOrEqual(t, e.Offset, lr.Rows/2)
			assert.Equal(t, 0, k.Offset)
			b, _ := profiles[Bathroom].Coupling(Entry)
			assert.Equal(t, profiles[Bathroom].Rows, b.Offset+b.Length)
		}
		{ // Test the outside doors land on the outer edges of the plan
			assert.Equal(t, float64(1000*int(Entry)+n-1), R.At(0, n))
			assert.Equal(t, float64(1000*int(Bathroom)+2*n-1), R.At(0, 0))
			assert.Equal(t, float64(1000*int(Kitchen)), R.At(2*C-1, 0))
			assert.Equal(t, float64(1000*int(LivingRoom)), R.At(2*C-1, C))
			assert.Equal(t, -1., R.At(n, n))
		}
	}
}
