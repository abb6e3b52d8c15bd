package sim

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
)

var (
	// ErrNoGap means no horizontal gap can fit an obstacle with a ball radius
	// of clearance on both sides.
	ErrNoGap = errors.New("no gap wide enough for an obstacle")
	// ErrBadRange means a random range was empty. It cannot be recovered
	// from: the layout that produced it is deterministic.
	ErrBadRange = errors.New("empty random range")
)

// SpawnOutcome is what one spawner draw did to the field.
type SpawnOutcome uint8

const (
	SpawnNone SpawnOutcome = iota
	SpawnObstacle
	SpawnRemove
	SpawnBall
	SpawnSkipped
)

func (o SpawnOutcome) String() string {
	switch o {
	case SpawnObstacle:
		return "obstacle"
	case SpawnRemove:
		return "remove"
	case SpawnBall:
		return "ball"
	case SpawnSkipped:
		return "skip"
	default:
		return "none"
	}
}

// SpawnEvent reports a spawner draw.
type SpawnEvent struct {
	Outcome SpawnOutcome
	Draw    float64
	Entity  *Entity // spawned or removed entity, nil otherwise
	Err     error   // why a spawn was skipped
}

// Spawner periodically mutates the obstacle and ball population.
type Spawner struct {
	ctx *GameContext
}

// NewSpawner returns a spawner drawing from ctx.Rng.
func NewSpawner(ctx *GameContext) *Spawner {
	return &Spawner{ctx: ctx}
}

// Due reports whether the spawner draws on this tick.
func (s *Spawner) Due(tick int) bool {
	return s.ctx.SpawnInterval > 0 && tick%s.ctx.SpawnInterval == 0
}

// Spawn draws once and applies the matching branch. ErrNoGap is absorbed
// into a SpawnSkipped event; any other placement error is returned.
func (s *Spawner) Spawn(f *Field) (SpawnEvent, error) {
	r := s.ctx.Rng.Float64()
	ev := SpawnEvent{Draw: r}
	switch {
	case r < obstacleBelow:
		o, err := PlaceObstacle(s.ctx, f)
		if errors.Is(err, ErrNoGap) {
			ev.Outcome = SpawnSkipped
			ev.Err = err
			return ev, nil
		}
		if err != nil {
			return ev, fmt.Errorf("place obstacle: %w", err)
		}
		f.AddObstacle(o)
		ev.Outcome = SpawnObstacle
		ev.Entity = o
	case r > removeAbove && len(f.Objects) > permanentObjects:
		ev.Outcome = SpawnRemove
		ev.Entity = f.RemoveOldestObstacle()
	case r > ballAbove && r < ballBelow:
		b := f.centredBall(s.ctx, 2*s.ctx.Rng.Intn(2)-1)
		f.Balls = append(f.Balls, b)
		ev.Outcome = SpawnBall
		ev.Entity = b
	}
	return ev, nil
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rng RandSource, lo, hi int) (int, error) {
	if hi < lo {
		return 0, fmt.Errorf("%w: [%d, %d]", ErrBadRange, lo, hi)
	}
	return lo + rng.Intn(hi-lo+1), nil
}

// WidestGap returns the widest horizontal gap between the walls, spawned
// obstacles and balls. Left and right edges are sorted independently and
// each right edge is paired with the next left edge.
func WidestGap(f *Field) (a, b int) {
	var lefts, rights []int
	for _, o := range f.Objects[LeftWallIndex:] {
		lefts = append(lefts, o.Left())
		rights = append(rights, o.Right())
	}
	for _, ball := range f.Balls {
		lefts = append(lefts, ball.Left())
		rights = append(rights, ball.Right())
	}
	sort.Ints(lefts)
	sort.Ints(rights)

	best := -1
	for i := 0; i+1 < len(lefts); i++ {
		if best < 0 || lefts[i+1]-rights[i] > lefts[best+1]-rights[best] {
			best = i
		}
	}
	if best < 0 {
		return 0, 0
	}
	return rights[best], lefts[best+1]
}

// PlaceObstacle builds a random obstacle inside the widest gap, leaving more
// than a ball radius of clearance on each side.
func PlaceObstacle(ctx *GameContext, f *Field) (*Entity, error) {
	r := ctx.BallRadius
	a, b := WidestGap(f)
	if b-a-2*r < 3 {
		return nil, fmt.Errorf("%w: widest gap [%d, %d]", ErrNoGap, a, b)
	}

	x, err := randInt(ctx.Rng, a+r+1, b-r-2)
	if err != nil {
		return nil, err
	}
	y, err := randInt(ctx.Rng, 4*r, ctx.Height-4*r)
	if err != nil {
		return nil, err
	}
	w, err := randInt(ctx.Rng, 1, b-r-1-x)
	if err != nil {
		return nil, err
	}
	h, err := randInt(ctx.Rng, 3*r, 10*r)
	if err != nil {
		return nil, err
	}

	var rgb [3]uint8
	for i := range rgb {
		v, err := randInt(ctx.Rng, 100, 200)
		if err != nil {
			return nil, err
		}
		rgb[i] = uint8(v)
	}
	c := color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
	return NewObstacle(f.newID(), x, y, w, h, c), nil
}
