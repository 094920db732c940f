package Apartment

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/notargets/roomheat/FD2D"
	"github.com/notargets/roomheat/utils"
)

const DefaultRelaxation = 0.8

type Parameters struct {
	Conditions
	Cols, Iterations int
	Relaxation       float64 // Weight of the fresh field on relaxed rooms
}

func (p Parameters) Validate() error {
	if err := CheckColumns(p.Cols); err != nil {
		return err
	}
	if p.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, have %d", p.Iterations)
	}
	if p.Relaxation <= 0 || p.Relaxation > 1 {
		return fmt.Errorf("relaxation weight must be in (0,1], have %g", p.Relaxation)
	}
	return nil
}

// RoundHook sees every solve. On relaxed rooms stored = w*fresh + (1-w)*previous,
// elsewhere stored is fresh. It is called from each room's goroutine.
type RoundHook func(room RoomID, round int, fresh, previous, stored FD2D.Field)

// Message is the payload of every mailbox edge
type Message struct {
	Interface *Interface
	Report    *RoomReport
}

type RoomReport struct {
	Room    RoomID
	Field   FD2D.Field
	History []float64 // Max |stored - previous| per solve
	Solves  int
}

type Result struct {
	Fields  map[RoomID]FD2D.Field
	History map[RoomID][]float64
	Solves  map[RoomID]int
}

type Coordinator struct {
	// Input parameters
	Parameters
	Profiles  map[RoomID]BoundaryProfile
	Schedule  *Schedule
	NewSolver func(room RoomID) utils.Solver
	Hook      RoundHook
	verbose   bool
}

func NewCoordinator(p Parameters, verbose bool) (c *Coordinator, err error) {
	if err = p.Validate(); err != nil {
		return
	}
	c = &Coordinator{
		Parameters: p,
		Profiles:   make(map[RoomID]BoundaryProfile, len(Rooms)),
		NewSolver:  func(RoomID) utils.Solver { return utils.NewLUSolver() },
		verbose:    verbose,
	}
	var profiles []BoundaryProfile
	for _, room := range Rooms {
		var bp BoundaryProfile
		if bp, err = NewProfile(room, p.Conditions, p.Cols); err != nil {
			return nil, err
		}
		c.Profiles[room] = bp
		profiles = append(profiles, bp)
	}
	if c.Schedule, err = NewSchedule(profiles, p.Iterations); err != nil {
		return nil, err
	}
	if verbose {
		fmt.Printf("Steady Heat Equation in 2 Dimensions, Dirichlet-Neumann coupling of %d rooms\n", len(Rooms))
		fmt.Printf("Heater = %8.3f, Aircon = %8.3f, Wall = %8.3f\n", p.Heater, p.Aircon, p.Wall)
		fmt.Printf("Doors open = %v, Oven on = %v\n", p.Open, p.OnOff)
		for _, room := range Rooms {
			bp := c.Profiles[room]
			fmt.Printf("%-10s %3d x %3d, Neumann edges = %-10s relaxed = %v\n",
				room, bp.Rows, bp.Cols, bp.Neumann, bp.Relaxed)
		}
		fmt.Printf("Rounds = %d, Relaxation = %5.3f, Scheduled ops = %d\n\n", p.Iterations, p.Relaxation, len(c.Schedule.Order))
	}
	return
}

// Run executes every participant's program concurrently. The first failing
// participant cancels the others and its error is returned.
func (c *Coordinator) Run(ctx context.Context) (res *Result, err error) {
	var (
		mb    = utils.NewMailBox[Message](int(NumParticipants), c.Schedule.MailKeys()...)
		start = time.Now()
	)
	if err = ctx.Err(); err != nil {
		return
	}
	res = &Result{
		Fields:  make(map[RoomID]FD2D.Field, len(Rooms)),
		History: make(map[RoomID][]float64, len(Rooms)),
		Solves:  make(map[RoomID]int, len(Rooms)),
	}
	if c.verbose {
		fmt.Printf("Mail edges = %d\n", len(mb.Keys()))
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, room := range Rooms {
		g.Go(func() error { return c.runRoom(gctx, room, mb) })
	}
	g.Go(func() error { return c.collect(gctx, mb, res) })
	if err = g.Wait(); err != nil {
		return nil, err
	}
	if c.verbose {
		for _, room := range Rooms {
			f := res.Fields[room]
			h := res.History[room]
			fmt.Printf("%-10s solves = %4d, final update = %12.6e, Tmin = %8.3f, Tmax = %8.3f\n",
				room, res.Solves[room], h[len(h)-1], f.Interior().Min(), f.Interior().Max())
		}
		fmt.Printf("Elapsed time = %v\n%s\n", time.Since(start), utils.GetMemUsage())
	}
	return
}

func (c *Coordinator) runRoom(ctx context.Context, room RoomID, mb *utils.MailBox[Message]) (err error) {
	var (
		bp           = c.Profiles[room]
		sd           *Subdomain
		pending      []Interface
		history      []float64
		logFrequency = 50
	)
	if sd, err = NewSubdomain(bp, c.NewSolver(room)); err != nil {
		return
	}
	for _, op := range c.Schedule.Ops[room] {
		switch op.Kind {
		case Receive:
			var msg Message
			if msg, err = mb.ReceiveMessage(ctx, op.Key()); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			if msg.Interface == nil {
				return fmt.Errorf("%s: message carries no interface data", op)
			}
			pending = append(pending, *msg.Interface)
		case Solve:
			previous := sd.Field.Copy()
			if err = sd.ComputeField(pending...); err != nil {
				return fmt.Errorf("round %d: %w", op.Round, err)
			}
			pending = pending[:0]
			fresh := sd.Field
			if bp.Relaxed {
				fresh = sd.Field.Copy()
				if err = sd.Relax(previous, c.Relaxation); err != nil {
					return
				}
			}
			if c.Hook != nil {
				c.Hook(room, op.Round, fresh, previous, sd.Field)
			}
			update := utils.MaxAbsDiff(sd.Field.M.Data(), previous.M.Data())
			history = append(history, update)
			if c.verbose && op.Round%logFrequency == 0 {
				fmt.Printf("%-10s round %4d, max update = %12.6e\n", room, op.Round, update)
			}
		case Send:
			var out Interface
			if out, err = sd.Outbound(op.Peer); err != nil {
				return
			}
			if err = mb.PostMessage(ctx, op.Key(), Message{Interface: &out}); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		case Report:
			report := &RoomReport{
				Room:    room,
				Field:   sd.Field.Copy(),
				History: history,
				Solves:  sd.Solves,
			}
			if err = mb.PostMessage(ctx, op.Key(), Message{Report: report}); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}
	return
}

func (c *Coordinator) collect(ctx context.Context, mb *utils.MailBox[Message], res *Result) (err error) {
	for _, op := range c.Schedule.Ops[Collector] {
		var msg Message
		if msg, err = mb.ReceiveMessage(ctx, op.Key()); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if msg.Report == nil || msg.Report.Room != op.Peer {
			return fmt.Errorf("%s: expected the report of %s", op, op.Peer)
		}
		r := msg.Report
		res.Fields[r.Room] = r.Field
		res.History[r.Room] = r.History
		res.Solves[r.Room] = r.Solves
	}
	return
}

// Composite stitches the collected interiors into one floor plan
func (res *Result) Composite(wall float64) (utils.Matrix, error) {
	return Assemble(
		res.Fields[LivingRoom].Interior(),
		res.Fields[Kitchen].Interior(),
		res.Fields[Entry].Interior(),
		res.Fields[Bathroom].Interior(),
		wall,
	)
}
