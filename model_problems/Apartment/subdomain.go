package Apartment

import (
	"fmt"

	"github.com/notargets/roomheat/FD2D"
	"github.com/notargets/roomheat/utils"
)

type InterfaceKind uint8

const (
	Temperature InterfaceKind = iota
	Flux
)

func (k InterfaceKind) String() string {
	switch k {
	case Temperature:
		return "Temperature"
	case Flux:
		return "Flux"
	}
	return fmt.Sprintf("InterfaceKind(%d)", uint8(k))
}

// Interface is the data one room hands a neighbour across their shared edge.
// A flux is (u_adjacent - u_supplied) * Dx, Dx being the sender's spacing.
type Interface struct {
	From   RoomID
	Kind   InterfaceKind
	Values []float64
	Dx     float64
}

type Subdomain struct {
	Profile BoundaryProfile
	Grid    FD2D.Grid
	A       utils.Matrix // Behaviour matrix, read only
	Field   FD2D.Field
	Solves  int
	solver  utils.Solver
	inputs  map[RoomID]Interface // Live interface data, one per coupling
}

// NewSubdomain builds the behaviour matrix and solves once against the
// initial guesses, zero flux on Neumann couplings, so a field exists before
// the first exchange.
func NewSubdomain(bp BoundaryProfile, solver utils.Solver) (sd *Subdomain, err error) {
	sd = &Subdomain{
		Profile: bp,
		Grid:    FD2D.NewGrid(bp.Rows, bp.Cols),
		solver:  solver,
		inputs:  make(map[RoomID]Interface, len(bp.Couplings)),
	}
	if err = sd.checkProfile(); err != nil {
		return nil, err
	}
	sd.A = FD2D.NewStencil(bp.Rows, bp.Cols, bp.Neumann)
	sd.A.SetReadOnly(bp.Room.String())
	sd.Field = FD2D.NewField(sd.Grid)
	for _, c := range bp.Couplings {
		in := Interface{From: c.Neighbor, Values: make([]float64, c.Length), Dx: sd.Grid.Dx}
		switch c.Role {
		case utils.BCDirichlet:
			in.Kind = Temperature
			in.Values = utils.ConstArray(c.Length, c.InitialGuess)
		case utils.BCNeumann:
			in.Kind = Flux
		}
		sd.inputs[c.Neighbor] = in
	}
	if err = sd.ComputeField(); err != nil {
		return nil, err
	}
	return
}

func (sd *Subdomain) String() string { return sd.Profile.Room.String() }

func (sd *Subdomain) edgeLength(s Side) int {
	if s == South || s == North {
		return sd.Grid.Cols
	}
	return sd.Grid.Rows
}

func (sd *Subdomain) isNeumann(s Side) bool {
	return (s == West && sd.Profile.Neumann.Has(FD2D.Left)) ||
		(s == East && sd.Profile.Neumann.Has(FD2D.Right))
}

func (sd *Subdomain) checkProfile() error {
	var (
		bp      = sd.Profile
		covered [4][]bool
	)
	for _, s := range []Side{South, North, West, East} {
		covered[s] = make([]bool, sd.edgeLength(s))
		if sd.isNeumann(s) {
			continue
		}
		if len(bp.Walls[s]) != sd.edgeLength(s) {
			return fmt.Errorf("%s: %s wall has %d values, edge has %d",
				bp.Room, s, len(bp.Walls[s]), sd.edgeLength(s))
		}
	}
	for _, c := range bp.Couplings {
		if c.Role == utils.BCNone {
			return fmt.Errorf("%s: coupling to %s has no %s/%s role", bp.Room, c.Neighbor, utils.BCDirichlet, utils.BCNeumann)
		}
		if c.Side != West && c.Side != East {
			return fmt.Errorf("%s: coupling to %s on unsupported side %s", bp.Room, c.Neighbor, c.Side)
		}
		if c.Offset < 0 || c.Length <= 0 || c.Offset+c.Length > sd.edgeLength(c.Side) {
			return fmt.Errorf("%s: coupling to %s [%d,%d) exceeds %s edge of length %d",
				bp.Room, c.Neighbor, c.Offset, c.Offset+c.Length, c.Side, sd.edgeLength(c.Side))
		}
		if (c.Role == utils.BCNeumann) != sd.isNeumann(c.Side) {
			return fmt.Errorf("%s: %s coupling to %s on %s edge with Neumann edges %s",
				bp.Room, c.Role, c.Neighbor, c.Side, bp.Neumann)
		}
		for i := c.Offset; i < c.Offset+c.Length; i++ {
			if covered[c.Side][i] {
				return fmt.Errorf("%s: overlapping couplings on %s edge at %d", bp.Room, c.Side, i)
			}
			covered[c.Side][i] = true
		}
	}
	for _, s := range []Side{West, East} {
		if !sd.isNeumann(s) {
			continue
		}
		for i, ok := range covered[s] {
			if !ok {
				return fmt.Errorf("%s: Neumann %s edge has no coupling at %d", bp.Room, s, i)
			}
		}
	}
	return nil
}

func (sd *Subdomain) setInput(in Interface) error {
	var (
		room = sd.Profile.Room
	)
	c, ok := sd.Profile.Coupling(in.From)
	if !ok {
		return fmt.Errorf("%s: no coupling with %s", room, in.From)
	}
	switch {
	case c.Role == utils.BCDirichlet && in.Kind != Temperature,
		c.Role == utils.BCNeumann && in.Kind != Flux:
		return fmt.Errorf("%s: %s side of coupling with %s received a %s", room, c.Role, in.From, in.Kind)
	case len(in.Values) != c.Length:
		return fmt.Errorf("%s: interface from %s has %d values, coupling has %d", room, in.From, len(in.Values), c.Length)
	case in.Kind == Flux && in.Dx <= 0:
		return fmt.Errorf("%s: flux from %s has non-positive spacing %g", room, in.From, in.Dx)
	}
	sd.inputs[in.From] = in
	return nil
}

// ringValues returns what sits just outside the interior along each edge.
// Dirichlet edges carry temperatures. Neumann edges carry the ghost offset
// 2F/dx that is added to the reflected interior value.
func (sd *Subdomain) ringValues() (ring [4][]float64) {
	for _, s := range []Side{South, North, West, East} {
		ring[s] = make([]float64, sd.edgeLength(s))
		if !sd.isNeumann(s) {
			copy(ring[s], sd.Profile.Walls[s])
		}
	}
	for _, c := range sd.Profile.Couplings {
		in := sd.inputs[c.Neighbor]
		for i, val := range in.Values {
			if c.Role == utils.BCNeumann {
				val = 2 * val / in.Dx
			}
			ring[c.Side][c.Offset+i] = val
		}
	}
	return
}

// ComputeField merges the supplied interface data into the live inputs,
// assembles the right hand side and replaces the stored field with the solution
func (sd *Subdomain) ComputeField(inputs ...Interface) (err error) {
	var (
		g    = sd.Grid
		R, C = g.Rows, g.Cols
		b    = utils.NewVector(g.NumUnknowns())
		rhs  = b.Data()
		x    utils.Vector
	)
	for _, in := range inputs {
		if err = sd.setInput(in); err != nil {
			return
		}
	}
	ring := sd.ringValues()
	for j := 0; j < C; j++ {
		rhs[g.Index(0, j)] -= ring[South][j]
		rhs[g.Index(R-1, j)] -= ring[North][j]
	}
	for i := 0; i < R; i++ {
		rhs[g.Index(i, 0)] -= ring[West][i]
		rhs[g.Index(i, C-1)] -= ring[East][i]
	}
	if x, err = sd.solver.Solve(sd.A, b); err != nil {
		return fmt.Errorf("%s: %w", sd, err)
	}
	sd.Solves++
	sd.Field.SetInterior(x)
	if sd.isNeumann(West) {
		for i := 0; i < R; i++ {
			ring[West][i] += sd.Field.U(i, 1)
		}
	}
	if sd.isNeumann(East) {
		for i := 0; i < R; i++ {
			ring[East][i] += sd.Field.U(i, C-2)
		}
	}
	sd.Field.SetRing(ring[South], ring[North], ring[West], ring[East])
	return
}

func (sd *Subdomain) adjacentCol(c Coupling) []float64 {
	j := 0
	if c.Side == East {
		j = sd.Grid.Cols - 1
	}
	return sd.Field.InteriorCol(j, c.Offset, c.Length)
}

// InterfaceFlux is what a Dirichlet room returns to a Neumann neighbour
func (sd *Subdomain) InterfaceFlux(neighbor RoomID) (out Interface, err error) {
	c, ok := sd.Profile.Coupling(neighbor)
	switch {
	case !ok:
		err = fmt.Errorf("%s: no coupling with %s", sd, neighbor)
		return
	case c.Role != utils.BCDirichlet:
		err = fmt.Errorf("%s: flux requested across %s coupling with %s", sd, c.Role, neighbor)
		return
	}
	var (
		adjacent = sd.adjacentCol(c)
		supplied = sd.inputs[neighbor].Values
	)
	out = Interface{From: sd.Profile.Room, Kind: Flux, Values: make([]float64, c.Length), Dx: sd.Grid.Dx}
	for i := range out.Values {
		out.Values[i] = (adjacent[i] - supplied[i]) * sd.Grid.Dx
	}
	return
}

// InterfaceTemperature is what a Neumann room returns to a Dirichlet neighbour
func (sd *Subdomain) InterfaceTemperature(neighbor RoomID) (out Interface, err error) {
	c, ok := sd.Profile.Coupling(neighbor)
	switch {
	case !ok:
		err = fmt.Errorf("%s: no coupling with %s", sd, neighbor)
		return
	case c.Role != utils.BCNeumann:
		err = fmt.Errorf("%s: temperature requested across %s coupling with %s", sd, c.Role, neighbor)
		return
	}
	out = Interface{From: sd.Profile.Room, Kind: Temperature, Values: sd.adjacentCol(c), Dx: sd.Grid.Dx}
	return
}

// Outbound picks the interface kind the neighbour expects
func (sd *Subdomain) Outbound(neighbor RoomID) (Interface, error) {
	if c, ok := sd.Profile.Coupling(neighbor); ok && c.Role == utils.BCNeumann {
		return sd.InterfaceTemperature(neighbor)
	}
	return sd.InterfaceFlux(neighbor)
}

// Relax blends the stored field with the previous one, w weighting the stored field
func (sd *Subdomain) Relax(previous FD2D.Field, w float64) error {
	nr, nc := sd.Field.Dims()
	pr, pc := previous.Dims()
	if nr != pr || nc != pc {
		return fmt.Errorf("%s: cannot relax %dx%d field against %dx%d", sd, nr, nc, pr, pc)
	}
	sd.Field.M.Apply2(func(fresh, old float64) float64 {
		return w*fresh + (1-w)*old
	}, previous.M)
	return nil
}
