package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/Garsondee/wacky-pong/internal/sim"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds everything a frontend needs to build and pace a game.
type Config struct {
	// Field
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Ball
	BallRadius int `toml:"ball_radius"`
	BallSpeed  int `toml:"ball_speed"`

	// Paddles
	PaddleWidth  int `toml:"paddle_width"`
	PaddleHeight int `toml:"paddle_height"`
	PaddleSpeed  int `toml:"paddle_speed"`
	Margin       int `toml:"margin"`

	// Loop
	TickRate      int   `toml:"tick_rate"`
	SpawnInterval int   `toml:"spawn_interval"`
	Seed          int64 `toml:"seed"`

	// Frontends
	Scale       float64 `toml:"scale"`
	Audio       bool    `toml:"audio"`
	FeedEntries int     `toml:"feed_entries"`
}

// Default returns the stock game settings.
func Default() Config {
	return Config{
		Width:         sim.WindowWidth,
		Height:        sim.WindowHeight,
		BallRadius:    sim.BallRadius,
		BallSpeed:     sim.BallSpeed,
		PaddleWidth:   sim.PaddleWidth,
		PaddleHeight:  sim.PaddleHeight,
		PaddleSpeed:   sim.PaddleSpeed,
		Margin:        sim.WindowMargin,
		TickRate:      sim.GameSpeed,
		SpawnInterval: sim.SpawnInterval,
		Scale:         1,
		Audio:         true,
		FeedEntries:   60,
	}
}

// Load builds a Config from defaults, then the TOML file at path (skipped when
// path is empty or the file does not exist), then .env and the environment.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &c); err != nil {
				return c, fmt.Errorf("decode %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return c, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	// Load .env file if it exists
	_ = godotenv.Load()
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	c.Seed = getEnvInt64("PONG_SEED", c.Seed)
	c.Scale = getEnvFloat("PONG_SCALE", c.Scale)
	c.Audio = getEnvBool("PONG_AUDIO", c.Audio)
	c.TickRate = getEnvInt("PONG_TPS", c.TickRate)
}

// Validate rejects geometry the simulation cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: field %dx%d", ErrInvalid, c.Width, c.Height)
	case c.BallRadius <= 0 || c.BallSpeed <= 0:
		return fmt.Errorf("%w: ball radius %d speed %d", ErrInvalid, c.BallRadius, c.BallSpeed)
	case 2*c.BallRadius >= c.Width:
		return fmt.Errorf("%w: ball wider than the field", ErrInvalid)
	case c.PaddleWidth <= 0 || c.PaddleWidth > c.Width:
		return fmt.Errorf("%w: paddle width %d", ErrInvalid, c.PaddleWidth)
	case c.PaddleHeight <= 0 || c.PaddleSpeed < 0 || c.Margin < 0:
		return fmt.Errorf("%w: paddle height %d speed %d margin %d", ErrInvalid, c.PaddleHeight, c.PaddleSpeed, c.Margin)
	case 2*(c.PaddleHeight+c.Margin) >= c.Height:
		return fmt.Errorf("%w: paddles overlap vertically", ErrInvalid)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %d", ErrInvalid, c.TickRate)
	case c.SpawnInterval < 0:
		return fmt.Errorf("%w: spawn interval %d", ErrInvalid, c.SpawnInterval)
	case c.Scale <= 0:
		return fmt.Errorf("%w: scale %g", ErrInvalid, c.Scale)
	case c.FeedEntries < 0:
		return fmt.Errorf("%w: feed entries %d", ErrInvalid, c.FeedEntries)
	}
	return nil
}

// Context builds the simulation context for this configuration.
func (c Config) Context() *sim.GameContext {
	ctx := sim.NewGameContext(c.Seed)
	ctx.Width = c.Width
	ctx.Height = c.Height
	ctx.BallRadius = c.BallRadius
	ctx.BallSpeed = c.BallSpeed
	ctx.PaddleWidth = c.PaddleWidth
	ctx.PaddleHeight = c.PaddleHeight
	ctx.PaddleSpeed = c.PaddleSpeed
	ctx.Margin = c.Margin
	ctx.TickRate = c.TickRate
	ctx.SpawnInterval = c.SpawnInterval
	return ctx
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
