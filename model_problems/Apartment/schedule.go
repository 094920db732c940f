package Apartment

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/notargets/roomheat/utils"
)

type OpKind uint8

const (
	Receive OpKind = iota
	Solve
	Send
	Report
)

func (k OpKind) String() string {
	return [...]string{"Receive", "Solve", "Send", "Report"}[k]
}

// Op is one step of a participant's program
type Op struct {
	Rank  RoomID
	Round int
	Kind  OpKind
	Peer  RoomID // Sender for Receive, receiver for Send and Report
	Tag   int
	id    string
}

func (op Op) String() string {
	switch op.Kind {
	case Solve:
		return fmt.Sprintf("%s[%d] Solve", op.Rank, op.Round)
	case Receive:
		return fmt.Sprintf("%s[%d] Receive %d from %s", op.Rank, op.Round, op.Tag, op.Peer)
	}
	return fmt.Sprintf("%s[%d] %s %d to %s", op.Rank, op.Round, op.Kind, op.Tag, op.Peer)
}

func (op Op) Key() utils.MailKey {
	if op.Kind == Receive {
		return utils.MailKey{From: int(op.Peer), To: int(op.Rank), Tag: op.Tag}
	}
	return utils.MailKey{From: int(op.Rank), To: int(op.Peer), Tag: op.Tag}
}

/*
Schedule unrolls the exchange over all rounds into a dependency graph. Round
0 is the bootstrap, rounds 1..Rounds-1 are steady and round Rounds drains the
last replies before every room reports to the collector.

A room on the Dirichlet side of a coupling sends first within a round, the
Neumann side receives in the same round and its reply is consumed in the
next one. Program order within a rank is a chain of edges, message edges
join a send to its receive. A topological order exists only if no rank can
wait on a message that depends on its own later ops.
*/
type Schedule struct {
	Rounds int
	Graph  *core.Graph
	Order  []Op // Global topological order
	Ops    map[RoomID][]Op
}

type scheduleBuilder struct {
	g      *core.Graph
	ops    map[string]Op
	recvAt map[string]string // Message identity to receive vertex
	chain  map[RoomID]string
	seq    map[RoomID]int
}

func msgKey(from, to RoomID, round int) string {
	return fmt.Sprintf("%d>%d@%d", from, to, round)
}

func (sb *scheduleBuilder) add(op Op) (err error) {
	op.id = fmt.Sprintf("r%d.p%04d.s%02d", op.Rank, op.Round, sb.seq[op.Rank])
	sb.seq[op.Rank]++
	if err = sb.g.AddVertex(op.id); err != nil {
		return
	}
	sb.ops[op.id] = op
	if prev, ok := sb.chain[op.Rank]; ok {
		if _, err = sb.g.AddEdge(prev, op.id, 0); err != nil {
			return
		}
	}
	sb.chain[op.Rank] = op.id
	if op.Kind == Receive {
		sb.recvAt[msgKey(op.Peer, op.Rank, op.Round)] = op.id
	}
	return
}

func NewSchedule(profiles []BoundaryProfile, iterations int) (s *Schedule, err error) {
	if iterations < 1 {
		return nil, fmt.Errorf("at least one round is required, have %d", iterations)
	}
	var (
		byRoom = make(map[RoomID]BoundaryProfile, len(profiles))
		rooms  []RoomID
		sb     = &scheduleBuilder{
			g:      core.NewGraph(core.WithDirected(true)),
			ops:    make(map[string]Op),
			recvAt: make(map[string]string),
			chain:  make(map[RoomID]string),
			seq:    make(map[RoomID]int),
		}
		sends = make(map[string]string) // Send vertex to receive message identity
	)
	for _, bp := range profiles {
		byRoom[bp.Room] = bp
		rooms = append(rooms, bp.Room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i] < rooms[j] })
	if err = checkCouplings(byRoom); err != nil {
		return
	}
	for _, room := range rooms {
		bp := byRoom[room]
		couplings := append([]Coupling{}, bp.Couplings...)
		sort.Slice(couplings, func(i, j int) bool {
			return couplings[i].Neighbor < couplings[j].Neighbor
		})
		for round := 0; round <= iterations; round++ {
			var nRecv int
			for _, c := range couplings {
				inbound := (c.Role == utils.BCNeumann && round < iterations) ||
					(c.Role == utils.BCDirichlet && round > 0)
				if !inbound {
					continue
				}
				nRecv++
				if err = sb.add(Op{Rank: room, Round: round, Kind: Receive, Peer: c.Neighbor,
					Tag: Tag(c.Neighbor, room)}); err != nil {
					return
				}
			}
			if round < iterations || nRecv > 0 {
				if err = sb.add(Op{Rank: room, Round: round, Kind: Solve}); err != nil {
					return
				}
			}
			if round == iterations {
				if err = sb.add(Op{Rank: room, Round: round, Kind: Report, Peer: Collector,
					Tag: Tag(room, Collector)}); err != nil {
					return
				}
				sends[sb.chain[room]] = msgKey(room, Collector, round)
				continue
			}
			for _, c := range couplings {
				if err = sb.add(Op{Rank: room, Round: round, Kind: Send, Peer: c.Neighbor,
					Tag: Tag(room, c.Neighbor)}); err != nil {
					return
				}
				// A Neumann neighbour consumes this round, a Dirichlet one the next
				consumed := round
				if c.Role == utils.BCNeumann {
					consumed++
				}
				sends[sb.chain[room]] = msgKey(room, c.Neighbor, consumed)
			}
		}
	}
	for _, room := range rooms {
		if err = sb.add(Op{Rank: Collector, Round: iterations, Kind: Receive, Peer: room,
			Tag: Tag(room, Collector)}); err != nil {
			return
		}
	}
	for sendID, msg := range sends {
		recvID, ok := sb.recvAt[msg]
		if !ok {
			return nil, fmt.Errorf("%s has no matching receive", sb.ops[sendID])
		}
		if _, err = sb.g.AddEdge(sendID, recvID, 0); err != nil {
			return
		}
	}
	if len(sends) != len(sb.recvAt) {
		return nil, fmt.Errorf("schedule has %d sends for %d receives", len(sends), len(sb.recvAt))
	}
	var order []string
	if order, err = dfs.TopologicalSort(sb.g); err != nil {
		return nil, fmt.Errorf("message schedule: %w", err)
	}
	s = &Schedule{
		Rounds: iterations,
		Graph:  sb.g,
		Ops:    make(map[RoomID][]Op),
	}
	for _, id := range order {
		op := sb.ops[id]
		s.Order = append(s.Order, op)
		s.Ops[op.Rank] = append(s.Ops[op.Rank], op)
	}
	return
}

// MailKeys lists every edge the schedule sends on
func (s *Schedule) MailKeys() (keys []utils.MailKey) {
	seen := make(map[utils.MailKey]bool)
	for _, op := range s.Order {
		if op.Kind == Send || op.Kind == Report {
			if k := op.Key(); !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return
}

func checkCouplings(byRoom map[RoomID]BoundaryProfile) error {
	for room, bp := range byRoom {
		for _, c := range bp.Couplings {
			nb, ok := byRoom[c.Neighbor]
			if !ok {
				return fmt.Errorf("%s couples to %s which is not in the schedule", room, c.Neighbor)
			}
			back, ok := nb.Coupling(room)
			switch {
			case !ok:
				return fmt.Errorf("%s couples to %s but not the reverse", room, c.Neighbor)
			case back.Length != c.Length:
				return fmt.Errorf("%s and %s disagree on the shared edge length: %d != %d",
					room, c.Neighbor, c.Length, back.Length)
			case c.Role == back.Role || (c.Role != utils.BCDirichlet && c.Role != utils.BCNeumann):
				return fmt.Errorf("%s and %s need opposite Dirichlet/Neumann roles, have %s and %s",
					room, c.Neighbor, c.Role, back.Role)
			}
		}
	}
	return nil
}
