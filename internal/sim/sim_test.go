package sim

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// checkSingleCentredBall verifies the post-reset ball layout.
func checkSingleCentredBall(t *testing.T, ts *TestSim) {
	t.Helper()
	if n := len(ts.Field.Balls); n != 1 {
		t.Fatalf("expected exactly one ball, got %d", n)
	}
	b := ts.Ball(0)
	w, h := ts.Context().Width, ts.Context().Height
	if b.X != w/2 || b.Y != h/2 {
		t.Fatalf("expected ball at (%d,%d), got (%d,%d)", w/2, h/2, b.X, b.Y)
	}
	if abs(b.DX) != b.Speed || abs(b.DY) != b.Speed {
		t.Fatalf("expected |dx|=|dy|=%d, got (%d,%d)", b.Speed, b.DX, b.DY)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestReset_Idempotent(t *testing.T) {
	ts := NewTestSim(
		WithBall(100, 100, 4, 4),
		WithBall(200, 400, -4, 4),
		WithBall(600, 600, 4, -4),
		WithObstacle(300, 200, 40, 40),
	)
	objects := len(ts.Field.Objects)

	for i := 0; i < 3; i++ {
		ts.Reset()
		checkSingleCentredBall(t, ts)
		if ts.State() != StatePlaying {
			t.Fatalf("reset should return to playing, got %s", ts.State())
		}
		if len(ts.Field.Objects) != objects {
			t.Fatal("reset must not touch paddles or obstacles")
		}
	}
	if ts.Tracker().Len() != 0 {
		t.Fatal("reset should drop every colliding latch")
	}
	if got := ts.Stats().Resets; got != 3 {
		t.Fatalf("expected 3 resets, got %d", got)
	}
}

func TestEscape_TopTriggersResetBeforeNextCollisionCheck(t *testing.T) {
	// Far from the computer paddle (x=310..390, y=5..15), heading up.
	ts := NewTestSim(WithBall(100, 30, 4, -4))
	escaping := ts.Ball(0)

	tick, err := ts.RunUntil(func(ts *TestSim) bool { return ts.State() == StateResetting }, 20)
	if err != nil {
		t.Fatal(err)
	}
	if tick < 0 {
		t.Fatalf("ball never escaped\n%s", ts.SimLog.Format())
	}
	e := ts.SimLog.Filter("state", "escape")
	if len(e) != 1 || !strings.Contains(e[0].Value, "top=3") {
		t.Fatalf("expected one escape at top=3, got %v", e)
	}

	if err := ts.RunTicks(1); err != nil {
		t.Fatal(err)
	}
	if ts.State() != StatePlaying {
		t.Fatalf("expected playing after the reset tick, got %s", ts.State())
	}
	if len(ts.Field.Balls) != 1 || ts.Ball(0) == escaping {
		t.Fatal("escaped ball should be replaced by a fresh one")
	}
	if b := ts.Ball(0); b.X != 354 || b.Y != 354 {
		t.Fatalf("fresh ball should have moved one tick from centre, got (%d,%d)", b.X, b.Y)
	}
	for _, e := range ts.SimLog.FilterSubject(escaping.Label()) {
		if e.Category == "collision" && e.Tick >= tick {
			t.Fatalf("escaped ball collided after the escape: %s", e)
		}
	}
	if ts.Stats().Resets != 1 {
		t.Fatalf("expected 1 reset, got %d", ts.Stats().Resets)
	}
}

func TestEscape_BottomWhenPlayerMisses(t *testing.T) {
	ts := NewTestSim(WithBall(40, 600, 0, 4))
	tick, err := ts.RunUntil(func(ts *TestSim) bool { return ts.State() == StateResetting }, 40)
	if err != nil {
		t.Fatal(err)
	}
	if tick < 0 {
		t.Fatal("expected the ball to get past the player paddle")
	}
	if !ts.SimLog.HasEntry("state", "escape", "bottom=") {
		t.Fatal("expected a state/escape entry")
	}
}

func TestComputerPaddle_ReturnsBall(t *testing.T) {
	ts := NewTestSim(WithBall(350, 30, 0, -4))
	if err := ts.RunTicks(3); err != nil {
		t.Fatal(err)
	}
	if dy := ts.Ball(0).DY; dy != 4 {
		t.Fatalf("expected the computer paddle to send the ball back down, dy=%d\n%s", dy, ts.SimLog.Format())
	}
	if !ts.SimLog.HasEntry("collision", "bounce", "off P1") {
		t.Fatal("expected a bounce off the computer paddle")
	}

	// Straight up and down between both paddles: no one ever misses.
	if err := ts.RunTicks(600); err != nil {
		t.Fatal(err)
	}
	if ts.Stats().Resets != 0 {
		t.Fatalf("expected no resets, got %d\n%s", ts.Stats().Resets, ts.SimLog.Format())
	}
	if n := ts.SimLog.CountCategory("collision", "bounce"); n < 3 {
		t.Fatalf("expected repeated paddle bounces, got %d", n)
	}
}

func TestStep_PointerMovesPlayer(t *testing.T) {
	ts := NewTestSim(WithVerbose(true))
	ts.Pointer(123)
	if err := ts.RunTicks(1); err != nil {
		t.Fatal(err)
	}
	if x := ts.Field.Player().X; x != 123 {
		t.Fatalf("expected player x=123, got %d", x)
	}
	if !ts.SimLog.HasEntry("input", "pointer", "x=123") {
		t.Fatal("expected verbose input entry")
	}
}

func TestStep_QuitStopsTick(t *testing.T) {
	ts := NewTestSim()
	before := ts.Tick()
	_, err := ts.Step([]InputEvent{{Kind: EventQuit}})
	if !errors.Is(err, ErrQuit) {
		t.Fatalf("expected ErrQuit, got %v", err)
	}
	if ts.Tick() != before {
		t.Fatal("a quit tick must not advance the simulation")
	}
}

func TestScene_ShapesMatchEntities(t *testing.T) {
	ts := NewTestSim(
		WithBall(100, 100, 4, 4),
		WithBall(200, 200, 4, 4),
		WithObstacle(300, 300, 20, 20),
	)
	sc := ts.Scene()
	if sc.Background != colorWhite {
		t.Fatalf("expected white background, got %v", sc.Background)
	}
	// Two paddles + one obstacle + two balls; walls are invisible.
	if len(sc.Shapes) != 5 {
		t.Fatalf("expected 5 shapes, got %d", len(sc.Shapes))
	}
	circles := 0
	for _, s := range sc.Shapes {
		if s.Kind == ShapeCircle {
			circles++
			if s.R != BallRadius {
				t.Fatalf("expected radius %d, got %d", BallRadius, s.R)
			}
		}
	}
	if circles != 2 {
		t.Fatalf("expected 2 circles, got %d", circles)
	}
	last := sc.Shapes[len(sc.Shapes)-1]
	if last.Kind != ShapeCircle {
		t.Fatal("balls should draw on top of everything else")
	}
}

type fakeInput struct {
	polls  int
	quitAt int
}

func (f *fakeInput) Poll() []InputEvent {
	f.polls++
	if f.polls == f.quitAt {
		return []InputEvent{{Kind: EventQuit}}
	}
	return []InputEvent{PointerAt(f.polls * 10)}
}

type countingRenderer struct {
	frames int
	last   Scene
}

func (r *countingRenderer) Render(sc Scene, _ Result) error {
	r.frames++
	r.last = sc
	return nil
}

type countingPacer struct{ waits int }

func (p *countingPacer) Wait() { p.waits++ }

func TestRun_StopsOnQuit(t *testing.T) {
	ts := NewTestSim()
	in := &fakeInput{quitAt: 4}
	out := &countingRenderer{}
	pace := &countingPacer{}

	if err := ts.Run(context.Background(), in, out, pace); err != nil {
		t.Fatalf("quit should be a clean exit, got %v", err)
	}
	if out.frames != 3 || pace.waits != 3 {
		t.Fatalf("expected 3 frames and 3 waits, got %d and %d", out.frames, pace.waits)
	}
	if ts.Field.Player().X != 30 {
		t.Fatalf("expected last pointer x=30, got %d", ts.Field.Player().X)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	ts := NewTestSim()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ts.Run(ctx, &fakeInput{}, &countingRenderer{}, &countingPacer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDebugReport_Contents(t *testing.T) {
	ts := NewTestSim(WithSeed(9), WithObstacle(300, 200, 40, 40))
	if err := ts.RunTicks(5); err != nil {
		t.Fatal(err)
	}
	ts.SimLog.Add(ts.Tick(), "--", "state", "note", "marker", 0)
	report := ts.DebugReport(ts.SimLog.Entries())
	for _, want := range []string{ts.Context().RunID, "seed=9", "tick=5", "<- tracked", "obstacle", "marker"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}
