package sim

import (
	"errors"
	"math/rand"
	"testing"
)

// scriptedRand replays fixed draws, then falls back to a seeded generator.
type scriptedRand struct {
	floats   []float64
	ints     []int
	fallback *rand.Rand
}

func newScriptedRand(floats []float64, ints []int) *scriptedRand {
	return &scriptedRand{
		floats:   floats,
		ints:     ints,
		fallback: rand.New(rand.NewSource(7)), // #nosec G404 -- test only
	}
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return r.fallback.Float64()
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return r.fallback.Intn(n)
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func spawnerSim(draws ...float64) *TestSim {
	return NewTestSim(
		WithRand(newScriptedRand(draws, nil)),
		WithSpawnInterval(SpawnInterval),
	)
}

func TestSpawner_DueEveryInterval(t *testing.T) {
	ctx := NewGameContext(1)
	s := NewSpawner(ctx)
	for _, tick := range []int{0, 150, 300, 1500} {
		if !s.Due(tick) {
			t.Fatalf("expected spawner due at tick %d", tick)
		}
	}
	for _, tick := range []int{1, 149, 151, 299} {
		if s.Due(tick) {
			t.Fatalf("spawner should not fire at tick %d", tick)
		}
	}
	ctx.SpawnInterval = 0
	if s.Due(0) {
		t.Fatal("interval 0 disables the spawner")
	}
}

func TestSpawner_ObstacleBranch(t *testing.T) {
	ts := spawnerSim(0.1)
	res, err := ts.StepOnce()
	if err != nil {
		t.Fatal(err)
	}
	if res.Spawn.Outcome != SpawnObstacle {
		t.Fatalf("expected obstacle spawn, got %s", res.Spawn.Outcome)
	}
	if n := len(ts.Field.Obstacles()); n != 1 {
		t.Fatalf("expected 1 obstacle, got %d", n)
	}
	if !ts.SimLog.HasEntry("spawn", "obstacle", "") {
		t.Fatal("expected spawn/obstacle log entry")
	}
}

func TestSpawner_RemovesEarliestObstacleOnly(t *testing.T) {
	ts := NewTestSim(
		WithRand(newScriptedRand([]float64{0.9}, nil)),
		WithSpawnInterval(SpawnInterval),
		WithObstacle(100, 200, 50, 30),
		WithObstacle(500, 200, 50, 30),
	)
	permanent := append([]*Entity(nil), ts.Field.Objects[:permanentObjects]...)
	second := ts.Field.Obstacles()[1]

	res, err := ts.StepOnce()
	if err != nil {
		t.Fatal(err)
	}
	if res.Spawn.Outcome != SpawnRemove {
		t.Fatalf("expected removal, got %s", res.Spawn.Outcome)
	}
	if n := len(ts.Field.Objects); n != permanentObjects+1 {
		t.Fatalf("expected %d objects, got %d", permanentObjects+1, n)
	}
	for i, p := range permanent {
		if ts.Field.Objects[i] != p {
			t.Fatalf("permanent object %d was disturbed", i)
		}
	}
	if ts.Field.Obstacles()[0] != second {
		t.Fatal("the later obstacle should survive")
	}
}

func TestSpawner_RemovalNeedsDynamicObstacle(t *testing.T) {
	ts := spawnerSim(0.9)
	res, err := ts.StepOnce()
	if err != nil {
		t.Fatal(err)
	}
	if res.Spawn.Outcome != SpawnNone {
		t.Fatalf("expected no-op with only permanent objects, got %s", res.Spawn.Outcome)
	}
	if len(ts.Field.Objects) != permanentObjects {
		t.Fatalf("permanent objects must never be removed, have %d", len(ts.Field.Objects))
	}
}

func TestSpawner_BallBranch(t *testing.T) {
	ts := NewTestSim(
		WithRand(newScriptedRand([]float64{0.45}, []int{0})),
		WithSpawnInterval(SpawnInterval),
	)
	res, err := ts.StepOnce()
	if err != nil {
		t.Fatal(err)
	}
	if res.Spawn.Outcome != SpawnBall {
		t.Fatalf("expected ball spawn, got %s", res.Spawn.Outcome)
	}
	if n := len(ts.Field.Balls); n != 2 {
		t.Fatalf("expected 2 balls, got %d", n)
	}
	b := res.Spawn.Entity
	if b.DX != -BallSpeed || b.DY != BallSpeed {
		t.Fatalf("expected velocity (-%d,%d), got (%d,%d)", BallSpeed, BallSpeed, b.DX, b.DY)
	}
}

func TestSpawner_DeadZonesDoNothing(t *testing.T) {
	for _, r := range []float64{0.2, 0.3, 0.4, 0.5, 0.6, 0.7} {
		ts := spawnerSim(r)
		res, err := ts.StepOnce()
		if err != nil {
			t.Fatal(err)
		}
		if res.Spawn.Outcome != SpawnNone {
			t.Fatalf("r=%.2f: expected no-op, got %s", r, res.Spawn.Outcome)
		}
		if len(ts.Field.Balls) != 1 || len(ts.Field.Objects) != permanentObjects {
			t.Fatalf("r=%.2f: population changed", r)
		}
	}
}

func TestSpawner_NoGapSkips(t *testing.T) {
	// The only room left is 3px either side of the centred ball.
	ts := NewTestSim(
		WithRand(newScriptedRand([]float64{0.1}, nil)),
		WithSpawnInterval(SpawnInterval),
		WithObstacle(0, 300, 340, 20),
		WithObstacle(360, 300, 340, 20),
	)
	res, err := ts.StepOnce()
	if err != nil {
		t.Fatalf("a missing gap must not be fatal: %v", err)
	}
	if res.Spawn.Outcome != SpawnSkipped {
		t.Fatalf("expected skipped spawn, got %s", res.Spawn.Outcome)
	}
	if !errors.Is(res.Spawn.Err, ErrNoGap) {
		t.Fatalf("expected ErrNoGap, got %v", res.Spawn.Err)
	}
	if len(ts.Field.Obstacles()) != 2 {
		t.Fatal("skipped spawn must not add an obstacle")
	}
	if ts.SimLog.CountCategory("spawn", "skip") != 1 {
		t.Fatal("expected a spawn/skip log entry")
	}
}

func TestWidestGap(t *testing.T) {
	ctx := NewGameContext(1)
	f := NewField(ctx)
	f.AddObstacle(NewObstacle(50, 100, 200, 20, 20, colorBlack))
	// Edges: walls 0|700, obstacle 100..120, ball 343..357. Gaps: 100, 223, 343.
	a, b := WidestGap(f)
	if a != 357 || b != 700 {
		t.Fatalf("expected gap [357,700], got [%d,%d]", a, b)
	}
}

func TestPlaceObstacle_RespectsClearance(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		ctx := NewGameContext(seed)
		f := NewField(ctx)
		r := ctx.BallRadius
		a, b := WidestGap(f)

		o, err := PlaceObstacle(ctx, f)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if o.Left() < a+r+1 || o.Right() > b-r-1 {
			t.Fatalf("seed %d: obstacle [%d..%d] breaks clearance in gap [%d,%d]", seed, o.Left(), o.Right(), a, b)
		}
		if o.W < 1 {
			t.Fatalf("seed %d: empty width", seed)
		}
		if o.Y < 4*r || o.Y > ctx.Height-4*r {
			t.Fatalf("seed %d: y=%d out of range", seed, o.Y)
		}
		if o.H < 3*r || o.H > 10*r {
			t.Fatalf("seed %d: h=%d out of range", seed, o.H)
		}
		for _, c := range []uint8{o.Color.R, o.Color.G, o.Color.B} {
			if c < 100 || c > 200 {
				t.Fatalf("seed %d: colour channel %d not muted", seed, c)
			}
		}
		for _, ball := range f.Balls {
			if ball.Right() > o.Left() && ball.Left() < o.Right() {
				t.Fatalf("seed %d: obstacle placed across a ball's column", seed)
			}
		}
	}
}

func TestRandInt_EmptyRange(t *testing.T) {
	_, err := randInt(rand.New(rand.NewSource(1)), 5, 4) // #nosec G404 -- test only
	if !errors.Is(err, ErrBadRange) {
		t.Fatalf("expected ErrBadRange, got %v", err)
	}
	v, err := randInt(rand.New(rand.NewSource(1)), 3, 3) // #nosec G404 -- test only
	if err != nil || v != 3 {
		t.Fatalf("expected 3, got %d (%v)", v, err)
	}
}
