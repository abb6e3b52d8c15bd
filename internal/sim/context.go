package sim

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Default game constants.
const (
	GameSpeed     = 60
	WindowWidth   = 700
	WindowHeight  = 700
	BallRadius    = 7
	BallSpeed     = 4
	PaddleHeight  = 10
	PaddleWidth   = 80
	PaddleSpeed   = 5
	WindowMargin  = 5
	SpawnInterval = 150
)

// Spawner thresholds on a uniform draw in [0,1). The gaps between them are
// deliberate no-op bands.
const (
	obstacleBelow = 0.2
	removeAbove   = 0.7
	ballAbove     = 0.4
	ballBelow     = 0.5
)

// RandSource is the slice of *rand.Rand the simulation draws from.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

// GameContext carries everything the simulation would otherwise read from
// process-wide state: field geometry, pacing, the RNG and the run identity.
type GameContext struct {
	RunID string
	Seed  int64

	Width  int
	Height int

	BallRadius   int
	BallSpeed    int
	PaddleWidth  int
	PaddleHeight int
	PaddleSpeed  int
	Margin       int

	SpawnInterval int // 0 disables the spawner
	TickRate      int
	Rng           RandSource
}

// NewGameContext returns a context populated with the default constants and a
// generator seeded from seed (0 picks a time-based seed).
func NewGameContext(seed int64) *GameContext {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &GameContext{
		RunID:         uuid.NewString(),
		Seed:          seed,
		Width:         WindowWidth,
		Height:        WindowHeight,
		BallRadius:    BallRadius,
		BallSpeed:     BallSpeed,
		PaddleWidth:   PaddleWidth,
		PaddleHeight:  PaddleHeight,
		PaddleSpeed:   PaddleSpeed,
		Margin:        WindowMargin,
		SpawnInterval: SpawnInterval,
		TickRate:      GameSpeed,
		Rng:           rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
	}
}

// TickBudget is the wall-clock length of one tick.
func (c *GameContext) TickBudget() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / GameSpeed
	}
	return time.Second / time.Duration(c.TickRate)
}
