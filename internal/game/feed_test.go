package game

import (
	"strings"
	"testing"

	"github.com/Garsondee/wacky-pong/internal/sim"
)

func TestEventFeed_KeepsNewest(t *testing.T) {
	f := NewEventFeed(4)
	for i := 0; i < 10; i++ {
		f.Add(i, "B4", "collision", "bounce", "off W3", 0)
	}
	if f.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", f.Len())
	}
	recent := f.Recent()
	for i, e := range recent {
		if e.Tick != 6+i {
			t.Fatalf("entry %d: expected tick %d, got %d", i, 6+i, e.Tick)
		}
	}
}

func TestEventFeed_PartialFillInOrder(t *testing.T) {
	f := NewEventFeed(0)
	f.Add(1, "O5", "spawn", "obstacle", "x=1", 0)
	f.Add(2, "--", "state", "reset", "rally=40", 0)
	recent := f.Recent()
	if len(recent) != 2 || recent[0].Tick != 1 || recent[1].Tick != 2 {
		t.Fatalf("unexpected order %+v", recent)
	}
	if recent[1].Message != "reset rally=40" {
		t.Fatalf("unexpected message %q", recent[1].Message)
	}
}

func TestEventFeed_DropsVerbose(t *testing.T) {
	f := NewEventFeed(8)
	f.AddVerbose(1, "B4", "move", "position", "(1,1)", 0)
	if f.Len() != 0 {
		t.Fatal("verbose entries should not reach the feed")
	}
}

func TestEventFeed_RecordsLiveSim(t *testing.T) {
	f := NewEventFeed(16)
	var rec sim.Recorder = f
	ts := sim.NewTestSim(sim.WithBall(693, 350, 4, 4))
	ts.SetRecorder(rec)
	if err := ts.RunTicks(1); err != nil {
		t.Fatal(err)
	}
	if f.Len() != 1 {
		t.Fatalf("expected the wall bounce in the feed, got %d entries", f.Len())
	}
	entries := f.SimEntries()
	if entries[0].Category != "collision" || !strings.Contains(entries[0].Value, "off W3") {
		t.Fatalf("unexpected entry %s", entries[0])
	}
}
