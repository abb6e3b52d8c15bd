package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/wacky-pong/internal/sim"
)

const (
	hudLineHeight = 15
	hudPadX       = 6
	hudPadY       = 4
)

var (
	hudText   = color.RGBA{R: 40, G: 40, B: 48, A: 255}
	hudPanel  = color.RGBA{R: 235, G: 235, B: 240, A: 200}
	hudBorder = color.RGBA{R: 150, G: 150, B: 170, A: 200}
)

// hudLines builds the stats block shown over the field.
func (g *Game) hudLines() []string {
	st := g.sim.Stats()
	lines := []string{
		fmt.Sprintf("tick %d  balls %d  obstacles %d", g.sim.Tick(), len(g.sim.Field.Balls), len(g.sim.Field.Obstacles())),
		fmt.Sprintf("resets %d  rally %d  best %d", st.Resets, st.Rally, st.LongestRally),
	}
	if g.paused {
		lines = append(lines, "PAUSED  P=resume")
	} else {
		lines = append(lines, "P=pause  C=copy report  Esc=quit")
	}
	if g.status != "" && g.sim.Tick() < g.statusUntil {
		lines = append(lines, g.status)
	}
	return lines
}

// drawHUD renders the stats block in the field's left margin, below the
// computer paddle's row.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	charW := 7 // basicfont.Face7x13 advance
	boxW := float32(maxLen*charW + hudPadX*2)
	boxH := float32(len(lines)*hudLineHeight + hudPadY*2)
	bx, by := float32(4), float32(sim.WindowMargin+sim.PaddleHeight+8)

	vector.FillRect(screen, bx, by, boxW, boxH, hudPanel, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, hudBorder, false)

	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(bx)+hudPadX, float64(by)+hudPadY+float64(i*hudLineHeight))
		op.ColorScale.ScaleWithColor(hudText)
		text.Draw(screen, line, g.hudFace, op)
	}
}
