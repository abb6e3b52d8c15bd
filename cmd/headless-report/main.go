package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/wacky-pong/internal/config"
	"github.com/Garsondee/wacky-pong/internal/sim"
)

type runStats struct {
	runIndex int
	seed     int64
	runID    string
	ticks    int

	firstEscapeTick int
	firstSpawnTick  int

	resets           int
	bounces          int
	paddleBounces    int
	obstacleBounces  int
	obstaclesSpawned int
	obstaclesRemoved int
	ballsSpawned     int
	spawnsSkipped    int
	maxBalls         int
	maxObstacles     int

	rallies      []int
	longestRally int
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var cfgPath string
	var copyOut bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&cfgPath, "config", "", "optional TOML config for field geometry and spawn interval")
	flag.BoolVar(&copyOut, "copy", false, "also copy the report to the clipboard")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	var out strings.Builder
	fmt.Fprintf(&out, "=== Headless Pong Report ===\n")
	fmt.Fprintf(&out, "runs=%d ticks=%d seed_base=%d seed_step=%d field=%dx%d spawn_interval=%d\n\n",
		runs, ticks, seedBase, seedStep, cfg.Width, cfg.Height, cfg.SpawnInterval)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs := runPong(i+1, seed, ticks, cfg)
		all = append(all, rs)
		writeRun(&out, rs)
	}
	writeAggregate(&out, all)

	fmt.Print(out.String())
	if copyOut {
		if err := clipboard.WriteAll(out.String()); err != nil {
			log.Printf("copy report: %v", err)
		}
	}
}

// runPong plays one seeded game with the autopilot on the player paddle.
func runPong(runIndex int, seed int64, ticks int, cfg config.Config) runStats {
	ts := sim.NewTestSim(
		sim.WithField(cfg.Width, cfg.Height),
		sim.WithSeed(seed),
		sim.WithSpawnInterval(cfg.SpawnInterval),
		sim.WithAutopilot(true),
	)
	rs := runStats{
		runIndex: runIndex,
		seed:     seed,
		runID:    ts.Context().RunID,
	}
	for i := 0; i < ticks; i++ {
		if _, err := ts.StepOnce(); err != nil {
			log.Printf("run %d seed %d: %v", runIndex, seed, err)
			break
		}
		rs.ticks++
		if n := len(ts.Field.Balls); n > rs.maxBalls {
			rs.maxBalls = n
		}
		if n := len(ts.Field.Obstacles()); n > rs.maxObstacles {
			rs.maxObstacles = n
		}
	}

	st := ts.Stats()
	rs.resets = st.Resets
	rs.bounces = st.Bounces
	rs.obstaclesSpawned = st.ObstaclesSpawned
	rs.obstaclesRemoved = st.ObstaclesRemoved
	rs.ballsSpawned = st.BallsSpawned
	rs.spawnsSkipped = st.SpawnsSkipped
	rs.rallies = st.Rallies
	rs.longestRally = st.LongestRally

	entries := ts.SimLog.Entries()
	rs.firstEscapeTick = ts.SimLog.FirstTick("state", "escape")
	rs.firstSpawnTick = firstTick(entries, "spawn", "")
	for _, e := range ts.SimLog.Filter("collision", "bounce") {
		switch {
		case strings.Contains(e.Value, "off P"):
			rs.paddleBounces++
		case strings.Contains(e.Value, "off O"):
			rs.obstacleBounces++
		}
	}
	return rs
}

// firstTick returns the tick of the first entry in category whose key
// matches (any key when key is empty), or -1.
func firstTick(entries []sim.SimLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category != category {
			continue
		}
		if key == "" || e.Key == key {
			return e.Tick
		}
	}
	return -1
}

func writeRun(out *strings.Builder, rs runStats) {
	fmt.Fprintf(out, "--- Run %d (seed=%d run=%s) ---\n", rs.runIndex, rs.seed, rs.runID)
	fmt.Fprintf(out, "phase_markers: first_escape=%d first_spawn=%d ticks=%d\n",
		rs.firstEscapeTick, rs.firstSpawnTick, rs.ticks)
	fmt.Fprintf(out, "rallies: resets=%d longest=%d mean=%s median=%s\n",
		rs.resets, rs.longestRally, avgTickString(rs.rallies), medianString(rs.rallies))
	fmt.Fprintf(out, "bounces: total=%d paddle=%d obstacle=%d wall=%d\n",
		rs.bounces, rs.paddleBounces, rs.obstacleBounces, rs.bounces-rs.paddleBounces-rs.obstacleBounces)
	fmt.Fprintf(out, "spawner: obstacles=%d removed=%d balls=%d skipped=%d max_balls=%d max_obstacles=%d\n\n",
		rs.obstaclesSpawned, rs.obstaclesRemoved, rs.ballsSpawned, rs.spawnsSkipped, rs.maxBalls, rs.maxObstacles)
}

func writeAggregate(out *strings.Builder, all []runStats) {
	totalResets := 0
	totalBounces := 0
	totalPaddle := 0
	totalObstacle := 0
	totalSpawned := 0
	totalRemoved := 0
	totalBalls := 0
	totalSkipped := 0
	var rallies []int
	escapeTicks := make([]int, 0, len(all))
	longest := 0

	for _, rs := range all {
		totalResets += rs.resets
		totalBounces += rs.bounces
		totalPaddle += rs.paddleBounces
		totalObstacle += rs.obstacleBounces
		totalSpawned += rs.obstaclesSpawned
		totalRemoved += rs.obstaclesRemoved
		totalBalls += rs.ballsSpawned
		totalSkipped += rs.spawnsSkipped
		rallies = append(rallies, rs.rallies...)
		if rs.firstEscapeTick >= 0 {
			escapeTicks = append(escapeTicks, rs.firstEscapeTick)
		}
		if rs.longestRally > longest {
			longest = rs.longestRally
		}
	}

	n := len(all)
	fmt.Fprintln(out, "=== Aggregate ===")
	fmt.Fprintf(out, "runs=%d\n", n)
	fmt.Fprintf(out, "avg_per_run: resets=%.1f bounces=%.1f paddle=%.1f obstacle=%.1f\n",
		avg(totalResets, n), avg(totalBounces, n), avg(totalPaddle, n), avg(totalObstacle, n))
	fmt.Fprintf(out, "avg_spawner_per_run: obstacles=%.1f removed=%.1f balls=%.1f skipped=%.1f\n",
		avg(totalSpawned, n), avg(totalRemoved, n), avg(totalBalls, n), avg(totalSkipped, n))
	fmt.Fprintf(out, "rallies: count=%d mean=%s median=%s longest=%d\n",
		len(rallies), avgTickString(rallies), medianString(rallies), longest)
	fmt.Fprintf(out, "avg_first_escape_tick=%s\n", avgTickString(escapeTicks))
}

func avg(sum int, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func medianString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return fmt.Sprintf("%d", sorted[mid])
	}
	return fmt.Sprintf("%.1f", float64(sorted[mid-1]+sorted[mid])/2)
}
