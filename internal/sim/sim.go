package sim

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrQuit is returned by Step when a quit event arrives.
var ErrQuit = errors.New("quit requested")

// State is the game loop's state machine.
type State uint8

const (
	StatePlaying State = iota
	StateResetting
)

func (s State) String() string {
	if s == StateResetting {
		return "resetting"
	}
	return "playing"
}

// EventKind distinguishes input events.
type EventKind uint8

const (
	EventPointer EventKind = iota
	EventQuit
)

// InputEvent is one sampled input. X is the pointer's horizontal position in
// field coordinates.
type InputEvent struct {
	Kind EventKind
	X    int
}

// PointerAt is shorthand for a pointer event.
func PointerAt(x int) InputEvent {
	return InputEvent{Kind: EventPointer, X: x}
}

// Result summarises one Step for HUDs and sound cues.
type Result struct {
	Tick    int
	State   State
	Bounces int
	Escaped bool
	Spawn   SpawnEvent
}

// Stats are running totals over the life of a Sim.
type Stats struct {
	Resets           int
	Bounces          int
	ObstaclesSpawned int
	ObstaclesRemoved int
	BallsSpawned     int
	SpawnsSkipped    int
	Rally            int // ticks since the last reset
	LongestRally     int
	Rallies          []int // completed rally lengths
}

// Sim is the fixed-tick simulation: spawner, input, collisions, motion.
type Sim struct {
	Field *Field

	ctx     *GameContext
	tracker *CollisionTracker
	spawner *Spawner
	rec     Recorder

	state State
	tick  int
	stats Stats
}

// New creates a simulation with a fresh field. rec may be nil.
func New(ctx *GameContext, rec Recorder) *Sim {
	return &Sim{
		Field:   NewField(ctx),
		ctx:     ctx,
		tracker: NewCollisionTracker(),
		spawner: NewSpawner(ctx),
		rec:     rec,
	}
}

func (s *Sim) Context() *GameContext { return s.ctx }
func (s *Sim) Tracker() *CollisionTracker { return s.tracker }
func (s *Sim) State() State { return s.state }
func (s *Sim) Tick() int { return s.tick }
func (s *Sim) Stats() Stats { return s.stats }
func (s *Sim) SetRecorder(rec Recorder) { s.rec = rec }

func (s *Sim) record(subject, category, key, value string, numVal float64) {
	if s.rec != nil {
		s.rec.Add(s.tick, subject, category, key, value, numVal)
	}
}

func (s *Sim) recordVerbose(subject, category, key, value string, numVal float64) {
	if s.rec != nil {
		s.rec.AddVerbose(s.tick, subject, category, key, value, numVal)
	}
}

// Step runs one tick: pending reset, spawner, input, escape and collision
// checks for every ball, then motion. Rendering and pacing are the caller's.
func (s *Sim) Step(events []InputEvent) (Result, error) {
	if s.state == StateResetting {
		s.Reset()
	}
	res := Result{Tick: s.tick}

	// 1. SPAWN
	if s.spawner.Due(s.tick) {
		ev, err := s.spawner.Spawn(s.Field)
		if err != nil {
			return res, fmt.Errorf("tick %d: %w", s.tick, err)
		}
		s.noteSpawn(ev)
		res.Spawn = ev
	}

	// 2. INPUT
	for _, ev := range events {
		switch ev.Kind {
		case EventQuit:
			return res, ErrQuit
		case EventPointer:
			MovePlayer(s.Field, ev.X, s.ctx.Width)
			s.recordVerbose("P0", "input", "pointer", fmt.Sprintf("x=%d", ev.X), float64(ev.X))
		}
	}

	// 3. ESCAPE + COLLIDE
	for _, b := range s.Field.Balls {
		if s.escaped(b) {
			res.Escaped = true
			if s.state == StatePlaying {
				s.state = StateResetting
				s.record(b.Label(), "state", "escape",
					fmt.Sprintf("top=%d bottom=%d", b.Top(), b.Bottom()), float64(b.Y))
			}
		}
		flips := Detect(b, s.Field.Objects, s.tracker)
		for i, f := range flips {
			if f.Reverses() {
				s.record(b.Label(), "collision", "bounce",
					fmt.Sprintf("off %s flip=(%d,%d)", s.Field.Objects[i].Label(), f.X, f.Y), 0)
			}
		}
		res.Bounces += ApplyFlips(b, flips)
	}
	s.stats.Bounces += res.Bounces

	// 4. MOVE
	Advance(s.Field, s.ctx.Width)
	for _, b := range s.Field.Balls {
		s.recordVerbose(b.Label(), "move", "position", fmt.Sprintf("(%d,%d)", b.X, b.Y), 0)
	}

	s.tick++
	s.stats.Rally++
	res.State = s.state
	return res, nil
}

// escaped reports whether a ball is past either paddle's defended line.
func (s *Sim) escaped(b *Entity) bool {
	return 2*b.Top() < s.ctx.PaddleHeight || 2*b.Bottom() > 2*s.ctx.Height-s.ctx.PaddleHeight
}

// Reset replaces every ball with a single centred one and returns to
// Playing. Paddles and obstacles are untouched.
func (s *Sim) Reset() {
	s.tracker.Clear()
	s.Field.Balls = []*Entity{s.Field.centredBall(s.ctx, 1)}
	s.state = StatePlaying

	s.stats.Resets++
	s.stats.Rallies = append(s.stats.Rallies, s.stats.Rally)
	if s.stats.Rally > s.stats.LongestRally {
		s.stats.LongestRally = s.stats.Rally
	}
	s.record("--", "state", "reset", fmt.Sprintf("rally=%d", s.stats.Rally), float64(s.stats.Rally))
	s.stats.Rally = 0
}

func (s *Sim) noteSpawn(ev SpawnEvent) {
	switch ev.Outcome {
	case SpawnObstacle:
		o := ev.Entity
		s.stats.ObstaclesSpawned++
		s.record(o.Label(), "spawn", "obstacle",
			fmt.Sprintf("x=%d y=%d w=%d h=%d", o.X, o.Y, o.W, o.H), ev.Draw)
	case SpawnRemove:
		s.stats.ObstaclesRemoved++
		s.tracker.ForgetObject(ev.Entity.ID)
		s.record(ev.Entity.Label(), "spawn", "remove", "oldest obstacle", ev.Draw)
	case SpawnBall:
		s.stats.BallsSpawned++
		s.record(ev.Entity.Label(), "spawn", "ball", fmt.Sprintf("dx=%d", ev.Entity.DX), ev.Draw)
	case SpawnSkipped:
		s.stats.SpawnsSkipped++
		s.record("--", "spawn", "skip", ev.Err.Error(), ev.Draw)
	}
}

// InputSource yields the input events pending at the start of a tick. Poll
// must not block.
type InputSource interface {
	Poll() []InputEvent
}

// Renderer draws a scene. It is called once per tick after the state update.
type Renderer interface {
	Render(sc Scene, res Result) error
}

// Pacer blocks until the next tick is due.
type Pacer interface {
	Wait()
}

// TickerPacer paces ticks off a time.Ticker. Overrun ticks are dropped, not
// caught up.
type TickerPacer struct {
	t *time.Ticker
}

// NewTickerPacer returns a pacer firing every budget.
func NewTickerPacer(budget time.Duration) *TickerPacer {
	return &TickerPacer{t: time.NewTicker(budget)}
}

func (p *TickerPacer) Wait() { <-p.t.C }
func (p *TickerPacer) Stop() { p.t.Stop() }

// Run drives the simulation until ctx is cancelled or a quit event arrives.
// A quit is a normal exit and returns nil.
func (s *Sim) Run(ctx context.Context, in InputSource, out Renderer, pace Pacer) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res, err := s.Step(in.Poll())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := out.Render(s.Scene(), res); err != nil {
			return fmt.Errorf("render tick %d: %w", res.Tick, err)
		}
		pace.Wait()
	}
}
