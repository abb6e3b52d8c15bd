package sim

import (
	"math/rand"
)

// TestSim is a headless harness used by tests and the headless report. It
// wraps a Sim with deterministic seeding, structured logging and an optional
// autopilot standing in for the mouse.
type TestSim struct {
	*Sim
	SimLog *SimLog

	ctx         *GameContext
	autopilot   bool
	pending     []InputEvent
	customBalls bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // field size, seed, rng, verbose — applied first
	simOptEntity                      // balls, obstacles — applied after the field exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithField sets the playfield dimensions.
func WithField(w, h int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.ctx.Width = w
		ts.ctx.Height = h
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.ctx.Seed = seed
		ts.ctx.Rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithRand replaces the random source, e.g. with a scripted one.
func WithRand(rng RandSource) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.ctx.Rng = rng
	}}
}

// WithSpawnInterval sets the spawner period; 0 disables it.
func WithSpawnInterval(n int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.ctx.SpawnInterval = n
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithAutopilot makes the player paddle follow the ball nearest the bottom.
func WithAutopilot(on bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.autopilot = on
	}}
}

// WithBall adds a ball centred on (x,y) with velocity (dx,dy). The first
// WithBall replaces the default centred ball.
func WithBall(x, y, dx, dy int) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		f := ts.Field
		if !ts.customBalls {
			f.Balls = f.Balls[:0]
			ts.customBalls = true
		}
		b := NewBall(f.newID(), x, y, ts.ctx.BallRadius, ts.ctx.BallSpeed, 0, 0)
		b.DX, b.DY = dx, dy
		f.Balls = append(f.Balls, b)
	}}
}

// WithObstacle adds a static obstacle as if the spawner had placed it.
func WithObstacle(x, y, w, h int) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		f := ts.Field
		f.AddObstacle(NewObstacle(f.newID(), x, y, w, h, colorBlack))
	}}
}

// NewTestSim constructs a TestSim from the given options in two ordered passes:
//  1. Infrastructure (field size, seed, rng, spawner, verbose)
//  2. Entities (balls, obstacles)
//
// Defaults: 700x700 field, seed 1, spawner disabled.
func NewTestSim(opts ...SimOption) *TestSim {
	ctx := NewGameContext(1)
	ctx.SpawnInterval = 0
	ts := &TestSim{
		ctx:    ctx,
		SimLog: NewSimLog(false),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.Sim = New(ctx, ts.SimLog)
	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(ts)
		}
	}
	return ts
}

// Ball returns the i-th live ball.
func (ts *TestSim) Ball(i int) *Entity {
	return ts.Field.Balls[i]
}

// Pointer queues a pointer event for the next tick.
func (ts *TestSim) Pointer(x int) {
	ts.pending = append(ts.pending, PointerAt(x))
}

// autopilotEvent aims the player paddle's centre at the lowest ball.
func (ts *TestSim) autopilotEvent() InputEvent {
	var low *Entity
	for _, b := range ts.Field.Balls {
		if low == nil || b.Bottom() > low.Bottom() {
			low = b
		}
	}
	return PointerAt(low.X - ts.Field.Player().W/2)
}

// StepOnce runs a single tick with any queued input.
func (ts *TestSim) StepOnce() (Result, error) {
	events := ts.pending
	ts.pending = nil
	if ts.autopilot {
		events = append(events, ts.autopilotEvent())
	}
	return ts.Step(events)
}

// RunTicks advances the simulation n ticks, stopping at the first error.
func (ts *TestSim) RunTicks(n int) error {
	for i := 0; i < n; i++ {
		if _, err := ts.StepOnce(); err != nil {
			return err
		}
	}
	return nil
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) (int, error) {
	for i := 0; i < maxTicks; i++ {
		if _, err := ts.StepOnce(); err != nil {
			return -1, err
		}
		if predicate(ts) {
			return ts.Tick(), nil
		}
	}
	return -1, nil
}
