// Package sound plays short synthesized blips for game events.
package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/Garsondee/wacky-pong/internal/sim"
)

const sampleRate = beep.SampleRate(44100)

// Tone is one blip: a sine at Freq for Length.
type Tone struct {
	Freq   float64
	Length time.Duration
	Volume float64 // beep volume, 0 is unchanged, negative is quieter
}

var (
	toneBounce = Tone{Freq: 880, Length: 40 * time.Millisecond, Volume: -1.5}
	toneEscape = Tone{Freq: 220, Length: 220 * time.Millisecond, Volume: -1}
	toneSpawn  = Tone{Freq: 660, Length: 60 * time.Millisecond, Volume: -2}
	toneBall   = Tone{Freq: 990, Length: 90 * time.Millisecond, Volume: -1.5}
)

// Cues maps a tick's result to the tones it should make, at most one each.
func Cues(res sim.Result) []Tone {
	var out []Tone
	if res.Escaped {
		out = append(out, toneEscape)
	}
	if res.Bounces > 0 {
		out = append(out, toneBounce)
	}
	switch res.Spawn.Outcome {
	case sim.SpawnObstacle, sim.SpawnRemove:
		out = append(out, toneSpawn)
	case sim.SpawnBall:
		out = append(out, toneBall)
	}
	return out
}

// Streamer renders the tone at the given sample rate.
func (t Tone) Streamer(sr beep.SampleRate) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, t.Freq)
	if err != nil {
		return nil, fmt.Errorf("tone %.0fHz: %w", t.Freq, err)
	}
	return &effects.Volume{
		Streamer: beep.Take(sr.N(t.Length), sine),
		Base:     2,
		Volume:   t.Volume,
	}, nil
}

// Player owns the speaker. A Player that failed to initialise, or was built
// muted, drops every cue.
type Player struct {
	mu      sync.Mutex
	enabled bool
	mixer   *beep.Mixer
}

// NewPlayer initialises the speaker when enabled is true. A speaker failure
// is returned alongside a usable muted Player; the game runs without sound.
func NewPlayer(enabled bool) (*Player, error) {
	p := &Player{mixer: &beep.Mixer{}}
	if !enabled {
		return p, nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return p, fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.enabled = true
	return p, nil
}

// Enabled reports whether cues reach the speaker.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Play queues the cues for one tick's result.
func (p *Player) Play(res sim.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	cues := Cues(res)
	if len(cues) == 0 {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	for _, t := range cues {
		s, err := t.Streamer(sampleRate)
		if err != nil {
			continue
		}
		p.mixer.Add(s)
	}
}

// Close silences everything still queued.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.enabled = false
}
