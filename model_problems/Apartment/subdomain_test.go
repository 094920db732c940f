package Apartment

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/roomheat/FD2D"
	"github.com/notargets/roomheat/utils"
)

func newSubdomain(t *testing.T, room RoomID, cond Conditions, cols int) *Subdomain {
	bp, err := NewProfile(room, cond, cols)
	require.NoError(t, err)
	sd, err := NewSubdomain(bp, utils.NewLUSolver())
	require.NoError(t, err)
	return sd
}

// uniformInputs supplies T on every Dirichlet coupling and no flux on every Neumann one
func uniformInputs(sd *Subdomain, T float64) (inputs []Interface) {
	for _, c := range sd.Profile.Couplings {
		in := Interface{From: c.Neighbor, Dx: 0.1}
		if c.Role == utils.BCDirichlet {
			in.Kind = Temperature
			in.Values = utils.ConstArray(c.Length, T)
		} else {
			in.Kind = Flux
			in.Values = make([]float64, c.Length)
		}
		inputs = append(inputs, in)
	}
	return
}

func maxDeviation(m utils.Matrix, T float64) (dev float64) {
	for _, val := range m.Data() {
		dev = math.Max(dev, math.Abs(val-T))
	}
	return
}

func TestSubdomainUniformTemperature(t *testing.T) {
	T := 17.5
	cond := Conditions{Heater: T, Aircon: T, Wall: T, Open: true, OnOff: true}
	for _, cols := range []int{12, 20} {
		for _, room := range Rooms {
			sd := newSubdomain(t, room, cond, cols)
			// The construction solve already sees only T
			assert.Less(t, maxDeviation(sd.Field.Interior(), T), 1.e-9, room.String())
			require.NoError(t, sd.ComputeField(uniformInputs(sd, T)...))
			assert.Less(t, maxDeviation(sd.Field.Interior(), T), 1.e-9, room.String())
			// Ring and corners are T too
			assert.Less(t, maxDeviation(sd.Field.M, T), 1.e-9, room.String())
		}
	}
}

func TestSubdomainShapes(t *testing.T) {
	cond := conditions(true, true)
	for room, shape := range map[RoomID][2]int{
		LivingRoom: {42, 22},
		Kitchen:    {22, 22},
		Entry:      {12, 12},
		Bathroom:   {22, 12},
	} {
		sd := newSubdomain(t, room, cond, 20)
		nr, nc := sd.Field.Dims()
		assert.Equal(t, shape, [2]int{nr, nc}, room.String())
		N := sd.Grid.NumUnknowns()
		ar, ac := sd.A.Dims()
		assert.Equal(t, [2]int{N, N}, [2]int{ar, ac})
		assert.True(t, sd.A.IsReadOnly())
		assert.Equal(t, 1, sd.Solves)
	}
}

func TestSubdomainInterfaces(t *testing.T) {
	cond := conditions(true, true)
	cols := 20
	{ // Test LivingRoom folds Kitchen temperatures into its west ring and returns fluxes
		lr := newSubdomain(t, LivingRoom, cond, cols)
		kt := utils.Linspace(10, 30, cols)
		require.NoError(t, lr.ComputeField(Interface{From: Kitchen, Kind: Temperature, Values: kt}))
		for i := 0; i < cols; i++ {
			assert.Equal(t, kt[i], lr.Field.M.At(i+1, 0))
		}
		for i := cols; i < 2*cols-cols/2; i++ {
			assert.Equal(t, wall, lr.Field.M.At(i+1, 0))
		}
		out, err := lr.InterfaceFlux(Kitchen)
		require.NoError(t, err)
		assert.Equal(t, Flux, out.Kind)
		assert.Equal(t, LivingRoom, out.From)
		assert.Equal(t, 1./20., out.Dx)
		require.Len(t, out.Values, cols)
		for i := 0; i < cols; i++ {
			assert.InDelta(t, (lr.Field.U(i, 0)-kt[i])*lr.Grid.Dx, out.Values[i], 1.e-14)
		}
		out, err = lr.Outbound(Entry)
		require.NoError(t, err)
		assert.Equal(t, Flux, out.Kind)
		assert.Len(t, out.Values, cols/2)
		_, err = lr.InterfaceTemperature(Kitchen)
		assert.Error(t, err)
		_, err = lr.InterfaceFlux(Bathroom)
		assert.Error(t, err)
	}
	{ // Test Kitchen turns a flux into a reflected ghost and returns its boundary column
		kit := newSubdomain(t, Kitchen, cond, cols)
		F := utils.Linspace(-0.05, 0.05, cols)
		dx := 1. / 20.
		require.NoError(t, kit.ComputeField(Interface{From: LivingRoom, Kind: Flux, Values: F, Dx: dx}))
		for i := 0; i < cols; i++ {
			ghost := kit.Field.U(i, cols-2) + 2*F[i]/dx
			assert.InDelta(t, ghost, kit.Field.M.At(i+1, cols+1), 1.e-12)
		}
		out, err := kit.Outbound(LivingRoom)
		require.NoError(t, err)
		assert.Equal(t, Temperature, out.Kind)
		assert.Equal(t, kit.Field.InteriorCol(cols-1, 0, cols), out.Values)
		_, err = kit.InterfaceFlux(LivingRoom)
		assert.Error(t, err)
	}
	{ // Test Entry reads its west column for Bathroom and east column for LivingRoom
		en := newSubdomain(t, Entry, cond, cols)
		n := cols / 2
		w, err := en.InterfaceTemperature(Bathroom)
		require.NoError(t, err)
		e, err := en.InterfaceTemperature(LivingRoom)
		require.NoError(t, err)
		assert.Equal(t, en.Field.InteriorCol(0, 0, n), w.Values)
		assert.Equal(t, en.Field.InteriorCol(n-1, 0, n), e.Values)
	}
	{ // Test malformed interface data is rejected
		kit := newSubdomain(t, Kitchen, cond, cols)
		err := kit.ComputeField(Interface{From: LivingRoom, Kind: Temperature, Values: make([]float64, cols)})
		assert.Error(t, err)
		err = kit.ComputeField(Interface{From: LivingRoom, Kind: Flux, Values: make([]float64, cols-1), Dx: 1})
		assert.Error(t, err)
		err = kit.ComputeField(Interface{From: LivingRoom, Kind: Flux, Values: make([]float64, cols)})
		assert.Error(t, err)
		err = kit.ComputeField(Interface{From: Bathroom, Kind: Flux, Values: make([]float64, cols), Dx: 1})
		assert.Error(t, err)
		assert.Equal(t, 1, kit.Solves)
	}
}

func TestSubdomainRelaxationConverges(t *testing.T) {
	var (
		cond = conditions(false, true)
		cols = 12
		w    = DefaultRelaxation
	)
	for _, room := range []RoomID{Kitchen, Entry} {
		sd := newSubdomain(t, room, cond, cols)
		var inputs []Interface
		for _, c := range sd.Profile.Couplings {
			inputs = append(inputs, Interface{From: c.Neighbor, Kind: Flux,
				Values: utils.Linspace(0.01, -0.02, c.Length), Dx: 1. / 12.})
		}
		// Stable interface data, the relaxed field contracts by 1-w per round
		var change float64
		for round := 0; round < 40; round++ {
			previous := sd.Field.Copy()
			require.NoError(t, sd.ComputeField(inputs...))
			fresh := sd.Field.Copy()
			require.NoError(t, sd.Relax(previous, w))
			for i, val := range sd.Field.M.Data() {
				assert.InDelta(t, w*fresh.M.Data()[i]+(1-w)*previous.M.Data()[i], val, 1.e-12)
			}
			change = utils.MaxAbsDiff(sd.Field.M.Data(), previous.M.Data())
		}
		assert.Less(t, change, 1.e-9, room.String())
		previous := sd.Field.Copy()
		require.NoError(t, sd.ComputeField(inputs...))
		require.NoError(t, sd.Relax(previous, w))
		assert.True(t, mat.EqualApprox(sd.Field.M.M, previous.M.M, 1.e-9))
	}
	{ // Test an unrelaxed room reproduces its field exactly
		lr := newSubdomain(t, LivingRoom, cond, cols)
		before := lr.Field.Copy()
		require.NoError(t, lr.ComputeField())
		assert.True(t, mat.EqualApprox(lr.Field.M.M, before.M.M, 1.e-12))
	}
	{ // Test relaxing against a mismatched field fails
		kit := newSubdomain(t, Kitchen, cond, cols)
		assert.Error(t, kit.Relax(FD2D.NewField(FD2D.NewGrid(2, 2)), w))
	}
}

var errInjected = errors.New("injected solver failure")

// failingSolver succeeds okCalls times before failing
type failingSolver struct {
	utils.Solver
	okCalls int
}

func (fs *failingSolver) Solve(A utils.Matrix, b utils.Vector) (utils.Vector, error) {
	if fs.okCalls == 0 {
		return utils.Vector{}, errInjected
	}
	fs.okCalls--
	return fs.Solver.Solve(A, b)
}

func TestSubdomainFailures(t *testing.T) {
	cond := conditions(true, true)
	{ // Test a solver failure surfaces with the room name
		bp, err := NewKitchenProfile(cond, 12)
		require.NoError(t, err)
		_, err = NewSubdomain(bp, &failingSolver{Solver: utils.NewLUSolver()})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errInjected))
		assert.Contains(t, err.Error(), "Kitchen")
	}
	{ // Test inconsistent profiles are rejected
		bp, err := NewKitchenProfile(cond, 12)
		require.NoError(t, err)
		bp.Couplings[0].Length = 5
		_, err = NewSubdomain(bp, utils.NewLUSolver())
		assert.Error(t, err)

		bp, err = NewLivingRoomProfile(cond, 12)
		require.NoError(t, err)
		bp.Couplings[1].Offset = 8
		_, err = NewSubdomain(bp, utils.NewLUSolver())
		assert.Error(t, err)

		bp, err = NewBathroomProfile(cond, 12)
		require.NoError(t, err)
		bp.Walls[South] = bp.Walls[South][1:]
		_, err = NewSubdomain(bp, utils.NewLUSolver())
		assert.Error(t, err)

		bp, err = NewEntryProfile(cond, 12)
		require.NoError(t, err)
		bp.Couplings[0].Role = utils.BCDirichlet
		_, err = NewSubdomain(bp, utils.NewLUSolver())
		assert.Error(t, err)

		bp, err = NewBathroomProfile(cond, 12)
		require.NoError(t, err)
		bp.Couplings[0].Role = utils.BCNone
		_, err = NewSubdomain(bp, utils.NewLUSolver())
		assert.ErrorContains(t, err, "no Dirichlet/Neumann role")
	}
}
