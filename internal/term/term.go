// Package term runs the game in a terminal: tcell draws the scene as cells
// and the mouse column drives the player paddle.
package term

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/wacky-pong/internal/sim"
	"github.com/Garsondee/wacky-pong/internal/sound"
)

const (
	glyphRect   = '█'
	glyphBall   = '●'
	statusLines = 1
)

// Cell is one rasterized terminal cell.
type Cell struct {
	Rune  rune
	Color color.RGBA
}

// Grid is a scene rasterized onto cols x rows cells. A zero Rune is background.
type Grid struct {
	Cols, Rows int
	Background color.RGBA
	Cells      []Cell
}

func (g *Grid) At(col, row int) Cell { return g.Cells[row*g.Cols+col] }

func (g *Grid) set(col, row int, c Cell) {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return
	}
	g.Cells[row*g.Cols+col] = c
}

// fieldToCell maps a field coordinate onto [0, cells).
func fieldToCell(v, field, cells int) int {
	c := v * cells / field
	if c < 0 {
		return 0
	}
	if c >= cells {
		return cells - 1
	}
	return c
}

// CellToField maps a terminal column back to a field x coordinate.
func CellToField(col, cols, fieldW int) int {
	if cols <= 0 {
		return 0
	}
	return col * fieldW / cols
}

// Rasterize draws the scene onto a cols x rows grid. Every visible shape
// covers at least one cell; later shapes overwrite earlier ones, so balls
// stay on top.
func Rasterize(sc sim.Scene, cols, rows int) *Grid {
	g := &Grid{Cols: cols, Rows: rows, Background: sc.Background, Cells: make([]Cell, cols*rows)}
	if cols <= 0 || rows <= 0 {
		return g
	}
	for _, s := range sc.Shapes {
		switch s.Kind {
		case sim.ShapeRect:
			c0 := fieldToCell(s.X, sc.Width, cols)
			c1 := fieldToCell(s.X+s.W-1, sc.Width, cols)
			r0 := fieldToCell(s.Y, sc.Height, rows)
			r1 := fieldToCell(s.Y+s.H-1, sc.Height, rows)
			for r := r0; r <= r1; r++ {
				for c := c0; c <= c1; c++ {
					g.set(c, r, Cell{Rune: glyphRect, Color: s.Color})
				}
			}
		case sim.ShapeCircle:
			g.set(fieldToCell(s.X, sc.Width, cols), fieldToCell(s.Y, sc.Height, rows), Cell{Rune: glyphBall, Color: s.Color})
		}
	}
	return g
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Frontend is both the input source and the renderer for a terminal game.
type Frontend struct {
	screen tcell.Screen
	events chan tcell.Event
	fieldW int
	sound  *sound.Player // nil runs silent

	cols, rows int
}

// New wraps an initialised screen. player may be nil.
func New(screen tcell.Screen, fieldW int, player *sound.Player) *Frontend {
	f := &Frontend{
		screen: screen,
		events: make(chan tcell.Event, 100),
		fieldW: fieldW,
		sound:  player,
	}
	f.resize()
	return f
}

// Start pumps screen events into the frontend until the screen is finalised.
func (f *Frontend) Start() {
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return
			}
			f.events <- ev
		}
	}()
}

func (f *Frontend) resize() {
	w, h := f.screen.Size()
	f.cols = w
	f.rows = h - statusLines
	if f.rows < 1 {
		f.rows = 1
	}
}

// Poll drains pending terminal events without blocking.
func (f *Frontend) Poll() []sim.InputEvent {
	var out []sim.InputEvent
	for {
		select {
		case ev := <-f.events:
			if in, ok := f.translate(ev); ok {
				out = append(out, in)
			}
		default:
			return out
		}
	}
}

// translate turns one tcell event into a simulation event, if it maps to one.
func (f *Frontend) translate(ev tcell.Event) (sim.InputEvent, bool) {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, _ := ev.Position()
		return sim.PointerAt(CellToField(x, f.cols, f.fieldW)), true
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			return sim.InputEvent{Kind: sim.EventQuit}, true
		}
	case *tcell.EventResize:
		f.resize()
		f.screen.Sync()
	}
	return sim.InputEvent{}, false
}

// Render draws the scene and a status line, then plays the tick's cues.
func (f *Frontend) Render(sc sim.Scene, res sim.Result) error {
	grid := Rasterize(sc, f.cols, f.rows)
	bg := tcellColor(grid.Background)
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			cell := grid.At(c, r)
			style := tcell.StyleDefault.Background(bg)
			ch := ' '
			if cell.Rune != 0 {
				ch = cell.Rune
				style = style.Foreground(tcellColor(cell.Color))
			}
			f.screen.SetContent(c, r, ch, nil, style)
		}
	}
	f.drawStatus(res)
	f.screen.Show()

	if f.sound != nil {
		f.sound.Play(res)
	}
	return nil
}

func (f *Frontend) drawStatus(res sim.Result) {
	line := fmt.Sprintf(" tick %d  %s  spawn %s  q=quit ", res.Tick, res.State, res.Spawn.Outcome)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	row := f.rows
	for c := 0; c < f.cols; c++ {
		ch := ' '
		if c < len(line) {
			ch = rune(line[c])
		}
		f.screen.SetContent(c, row, ch, nil, style)
	}
}
