package game

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/wacky-pong/internal/config"
	"github.com/Garsondee/wacky-pong/internal/sim"
	"github.com/Garsondee/wacky-pong/internal/sound"
)

// statusTicks is how long a one-off status line (e.g. "report copied") stays up.
const statusTicks = 120

// Game is the windowed frontend: ebiten drives the tick, the simulation
// owns the state.
type Game struct {
	sim   *sim.Sim
	feed  *EventFeed
	sound *sound.Player // nil runs silent

	fieldW int
	fieldH int
	width  int // field plus event panel
	height int

	paused      bool
	lastPointer int
	hasPointer  bool
	prevKeys    map[ebiten.Key]bool
	last        sim.Result

	status      string
	statusUntil int

	hudFace *text.GoXFace
}

// New builds a game from cfg. player may be nil.
func New(cfg config.Config, player *sound.Player) *Game {
	ctx := cfg.Context()
	feed := NewEventFeed(cfg.FeedEntries)
	g := &Game{
		sim:      sim.New(ctx, feed),
		feed:     feed,
		sound:    player,
		fieldW:   ctx.Width,
		fieldH:   ctx.Height,
		width:    ctx.Width + feedPanelWidth,
		height:   ctx.Height,
		prevKeys: make(map[ebiten.Key]bool),
		hudFace:  text.NewGoXFace(basicfont.Face7x13),
	}
	log.Printf("pong: run %s seed %d", ctx.RunID, ctx.Seed)
	return g
}

// Sim exposes the running simulation.
func (g *Game) Sim() *sim.Sim { return g.sim }

// WindowSize is the logical screen size scaled for the OS window.
func (g *Game) WindowSize(scale float64) (int, int) {
	return int(float64(g.width) * scale), int(float64(g.height) * scale)
}

// frameInput is everything Update reads from ebiten in one frame.
type frameInput struct {
	cursorX int
	quit    bool
	pause   bool
	copy    bool
}

func (g *Game) Update() error {
	return g.apply(g.readInput())
}

// readInput samples the cursor and edge-triggered keys.
func (g *Game) readInput() frameInput {
	current := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		current[k] = ebiten.IsKeyPressed(k)
		return current[k] && !g.prevKeys[k]
	}
	cx, _ := ebiten.CursorPosition()
	in := frameInput{
		cursorX: cx,
		quit:    pressed(ebiten.KeyEscape),
		pause:   pressed(ebiten.KeyP),
		copy:    pressed(ebiten.KeyC),
	}
	g.prevKeys = current
	return in
}

// apply runs one frame: key actions, then at most one simulation tick.
func (g *Game) apply(in frameInput) error {
	if in.quit {
		return ebiten.Termination
	}
	if in.pause {
		g.paused = !g.paused
	}
	if in.copy {
		g.copyReport()
	}
	if g.paused {
		return nil
	}

	// The pointer only moves the paddle when it actually moves.
	var events []sim.InputEvent
	if !g.hasPointer || in.cursorX != g.lastPointer {
		events = append(events, sim.PointerAt(in.cursorX))
		g.lastPointer = in.cursorX
		g.hasPointer = true
	}

	res, err := g.sim.Step(events)
	if errors.Is(err, sim.ErrQuit) {
		return ebiten.Termination
	}
	if err != nil {
		return err
	}
	g.last = res
	if g.sound != nil {
		g.sound.Play(res)
	}
	return nil
}

// copyReport puts the debug report on the system clipboard.
func (g *Game) copyReport() {
	report := g.sim.DebugReport(g.feed.SimEntries())
	if err := clipboard.WriteAll(report); err != nil {
		log.Printf("pong: copy report: %v", err)
		g.setStatus("copy failed: " + err.Error())
		return
	}
	g.setStatus(fmt.Sprintf("report copied (%d lines)", strings.Count(report, "\n")))
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusUntil = g.sim.Tick() + statusTicks
}

func (g *Game) Draw(screen *ebiten.Image) {
	sc := g.sim.Scene()
	vector.FillRect(screen, 0, 0, float32(sc.Width), float32(sc.Height), sc.Background, false)
	for _, s := range sc.Shapes {
		switch s.Kind {
		case sim.ShapeCircle:
			vector.FillCircle(screen, float32(s.X), float32(s.Y), float32(s.R), s.Color, true)
		case sim.ShapeRect:
			vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), s.Color, false)
		}
	}
	g.drawHUD(screen)
	g.feed.Draw(screen, g.fieldW, g.height)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
