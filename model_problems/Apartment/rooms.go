package Apartment

import (
	"errors"
	"fmt"

	"github.com/notargets/roomheat/FD2D"
	"github.com/notargets/roomheat/utils"
)

// RoomID doubles as the participant rank, the collector is rank 0
type RoomID int

const (
	Collector RoomID = iota
	LivingRoom
	Kitchen
	Entry
	Bathroom
	NumParticipants
)

var Rooms = []RoomID{LivingRoom, Kitchen, Entry, Bathroom}

func (r RoomID) String() string {
	switch r {
	case Collector:
		return "Collector"
	case LivingRoom:
		return "LivingRoom"
	case Kitchen:
		return "Kitchen"
	case Entry:
		return "Entry"
	case Bathroom:
		return "Bathroom"
	}
	return fmt.Sprintf("Room(%d)", int(r))
}

// Tag identifies the directed edge from -> to
func Tag(from, to RoomID) int { return 10*int(from) + int(to) }

type Side uint8

const (
	South Side = iota
	North
	West
	East
)

func (s Side) String() string {
	return [...]string{"South", "North", "West", "East"}[s]
}

// Conditions are the scalar temperatures and switches of one run
type Conditions struct {
	Heater, Aircon, Wall float64
	Open                 bool // Doors open to the cold outside
	OnOff                bool // Kitchen oven on
}

var ErrColumns = errors.New("grid columns must be even and at least 12")

func CheckColumns(cols int) error {
	if cols < 12 || cols%2 != 0 {
		return fmt.Errorf("%w, have %d", ErrColumns, cols)
	}
	return nil
}

// Coupling is one shared boundary segment between a room and a neighbour.
// Rows [Offset, Offset+Length) of the room's Side edge face the neighbour,
// row 0 being the south end.
type Coupling struct {
	Neighbor       RoomID
	Side           Side
	Offset, Length int
	// BCDirichlet rooms consume neighbour temperatures and return fluxes,
	// BCNeumann rooms consume fluxes and return temperatures
	Role         utils.BCType
	InitialGuess float64 // Dirichlet only, used until the first message arrives
}

// BoundaryProfile is everything that distinguishes one room from another
type BoundaryProfile struct {
	Room       RoomID
	Rows, Cols int
	Neumann    FD2D.EdgeSet
	Walls      [4][]float64 // Indexed by Side, nil on Neumann edges
	Couplings  []Coupling
	Relaxed    bool // Under-relaxed against the previous round
}

func (bp BoundaryProfile) Coupling(neighbor RoomID) (c Coupling, ok bool) {
	for _, c = range bp.Couplings {
		if c.Neighbor == neighbor {
			return c, true
		}
	}
	return Coupling{}, false
}

func segment(v []float64, start, end int, val float64) {
	for i := start; i < end; i++ {
		v[i] = val
	}
}

func choose(flag bool, yes, no float64) float64 {
	if flag {
		return yes
	}
	return no
}

func NewLivingRoomProfile(cond Conditions, cols int) (bp BoundaryProfile, err error) {
	if err = CheckColumns(cols); err != nil {
		return
	}
	var (
		C     = cols
		n     = C / 2
		south = utils.ConstArray(C, cond.Wall)
	)
	// Front door then window
	segment(south, 0, C/4, choose(cond.Open, cond.Aircon, cond.Heater))
	segment(south, C/2, C/2+C/10+1, cond.Heater)
	bp = BoundaryProfile{
		Room: LivingRoom,
		Rows: 2 * C,
		Cols: C,
		Walls: [4][]float64{
			South: south,
			North: utils.ConstArray(C, cond.Wall),
			West:  utils.ConstArray(2*C, cond.Wall),
			East:  utils.ConstArray(2*C, cond.Wall),
		},
		Couplings: []Coupling{
			{Neighbor: Entry, Side: West, Offset: 2*C - n, Length: n, Role: utils.BCDirichlet, InitialGuess: cond.Wall},
			{Neighbor: Kitchen, Side: West, Offset: 0, Length: C, Role: utils.BCDirichlet, InitialGuess: cond.Wall},
		},
	}
	return
}

func NewKitchenProfile(cond Conditions, cols int) (bp BoundaryProfile, err error) {
	if err = CheckColumns(cols); err != nil {
		return
	}
	var (
		C     = cols
		south = utils.ConstArray(C, cond.Wall)
		west  = utils.ConstArray(C, cond.Wall)
	)
	// Back door, stove and oven
	segment(south, C-C/4+2, C, choose(cond.Open, cond.Aircon, cond.Heater))
	segment(south, C/2-3, C/2, cond.Heater)
	segment(west, C/2, C-1, choose(cond.OnOff, cond.Heater, cond.Aircon))
	bp = BoundaryProfile{
		Room:    Kitchen,
		Rows:    C,
		Cols:    C,
		Neumann: FD2D.Right,
		Walls: [4][]float64{
			South: south,
			North: utils.ConstArray(C, cond.Wall),
			West:  west,
		},
		Couplings: []Coupling{
			{Neighbor: LivingRoom, Side: East, Offset: 0, Length: C, Role: utils.BCNeumann},
		},
		Relaxed: true,
	}
	return
}

func NewEntryProfile(cond Conditions, cols int) (bp BoundaryProfile, err error) {
	if err = CheckColumns(cols); err != nil {
		return
	}
	var (
		n     = cols / 2
		north = utils.ConstArray(n, cond.Wall)
	)
	segment(north, n/2-2, n/2+1, cond.Aircon)
	bp = BoundaryProfile{
		Room:    Entry,
		Rows:    n,
		Cols:    n,
		Neumann: FD2D.Left | FD2D.Right,
		Walls: [4][]float64{
			South: utils.ConstArray(n, cond.Wall),
			North: north,
		},
		Couplings: []Coupling{
			{Neighbor: Bathroom, Side: West, Offset: 0, Length: n, Role: utils.BCNeumann},
			{Neighbor: LivingRoom, Side: East, Offset: 0, Length: n, Role: utils.BCNeumann},
		},
		Relaxed: true,
	}
	return
}

func NewBathroomProfile(cond Conditions, cols int) (bp BoundaryProfile, err error) {
	if err = CheckColumns(cols); err != nil {
		return
	}
	var (
		n = cols / 2
	)
	bp = BoundaryProfile{
		Room: Bathroom,
		Rows: 2 * n,
		Cols: n,
		Walls: [4][]float64{
			South: utils.ConstArray(n, cond.Aircon),
			North: utils.ConstArray(n, cond.Wall),
			West:  utils.ConstArray(2*n, cond.Aircon),
			East:  utils.ConstArray(2*n, cond.Wall),
		},
		Couplings: []Coupling{
			{Neighbor: Entry, Side: East, Offset: n, Length: n, Role: utils.BCDirichlet, InitialGuess: cond.Aircon},
		},
	}
	return
}

func NewProfile(room RoomID, cond Conditions, cols int) (BoundaryProfile, error) {
	switch room {
	case LivingRoom:
		return NewLivingRoomProfile(cond, cols)
	case Kitchen:
		return NewKitchenProfile(cond, cols)
	case Entry:
		return NewEntryProfile(cond, cols)
	case Bathroom:
		return NewBathroomProfile(cond, cols)
	}
	return BoundaryProfile{}, fmt.Errorf("no boundary profile for %s", room)
}
