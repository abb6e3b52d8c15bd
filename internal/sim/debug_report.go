package sim

import (
	"fmt"
	"strings"
)

// DebugReport renders the current state as plain text for bug reports:
// run identity, counters, every entity and the given recent events.
func (s *Sim) DebugReport(recent []SimLogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- WackyPong debug report ---\n")
	fmt.Fprintf(&b, "run=%s seed=%d tick=%d state=%s field=%dx%d\n",
		s.ctx.RunID, s.ctx.Seed, s.tick, s.state, s.ctx.Width, s.ctx.Height)

	st := s.stats
	fmt.Fprintf(&b, "resets=%d bounces=%d rally=%d longest=%d\n",
		st.Resets, st.Bounces, st.Rally, st.LongestRally)
	fmt.Fprintf(&b, "spawned: obstacles=%d balls=%d removed=%d skipped=%d latched=%d\n\n",
		st.ObstaclesSpawned, st.BallsSpawned, st.ObstaclesRemoved, st.SpawnsSkipped, s.tracker.Len())

	b.WriteString("== balls ==\n")
	target := TrackingTarget(s.Field.Balls)
	for i, ball := range s.Field.Balls {
		tag := ""
		if i == target {
			tag = "  <- tracked"
		}
		fmt.Fprintf(&b, "%-4s pos=(%d,%d) vel=(%d,%d) box=[%d..%d]x[%d..%d]%s\n",
			ball.Label(), ball.X, ball.Y, ball.DX, ball.DY,
			ball.Left(), ball.Right(), ball.Top(), ball.Bottom(), tag)
	}

	b.WriteString("== objects ==\n")
	for _, o := range s.Field.Objects {
		fmt.Fprintf(&b, "%-4s %-8s box=[%d..%d]x[%d..%d] vel=(%d,%d)\n",
			o.Label(), o.Kind, o.Left(), o.Right(), o.Top(), o.Bottom(), o.DX, o.DY)
	}

	if len(recent) > 0 {
		b.WriteString("== recent events ==\n")
		b.WriteString(formatEntries(recent))
	}
	return b.String()
}
