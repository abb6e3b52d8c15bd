package sim

import (
	"image/color"
	"strconv"
)

// Kind identifies which variant an Entity is. Integration and rendering
// switch on it.
type Kind uint8

const (
	KindBall Kind = iota
	KindPlayerPaddle
	KindComputerPaddle
	KindWall
	KindObstacle
)

func (k Kind) String() string {
	switch k {
	case KindBall:
		return "ball"
	case KindPlayerPaddle:
		return "player"
	case KindComputerPaddle:
		return "computer"
	case KindWall:
		return "wall"
	case KindObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

var (
	colorWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorBlack = color.RGBA{A: 255}
	colorRed   = color.RGBA{R: 255, A: 255}
	colorBlue  = color.RGBA{B: 255, A: 255}
)

// Entity is anything a ball can see: balls, paddles, walls and obstacles.
// Balls are referenced from their centre, everything else from the top-left.
type Entity struct {
	ID   int
	Kind Kind

	X, Y   int
	DX, DY int // signed per-tick velocity, each in {-Speed, 0, +Speed}
	Speed  int

	Radius int // balls only
	W, H   int // paddles, walls, obstacles

	Color   color.RGBA
	Visible bool
}

// NewBall returns a ball centred on (x,y). dirX/dirY are unit directions
// (-1, 0, +1) scaled by speed.
func NewBall(id, x, y, radius, speed, dirX, dirY int) *Entity {
	return &Entity{
		ID:      id,
		Kind:    KindBall,
		X:       x,
		Y:       y,
		DX:      dirX * speed,
		DY:      dirY * speed,
		Speed:   speed,
		Radius:  radius,
		Color:   colorBlack,
		Visible: true,
	}
}

// NewPaddle returns a paddle. The player paddle keeps speed 0; its position
// comes straight from the pointer.
func NewPaddle(id int, kind Kind, x, y, w, h, speed int, c color.RGBA) *Entity {
	return &Entity{
		ID:      id,
		Kind:    kind,
		X:       x,
		Y:       y,
		W:       w,
		H:       h,
		Speed:   speed,
		Color:   c,
		Visible: true,
	}
}

// NewWall returns an invisible zero-width obstacle spanning height.
func NewWall(id, x, height int) *Entity {
	return &Entity{ID: id, Kind: KindWall, X: x, H: height, Color: colorBlack}
}

// NewObstacle returns a visible static rectangle.
func NewObstacle(id, x, y, w, h int, c color.RGBA) *Entity {
	return &Entity{
		ID:      id,
		Kind:    KindObstacle,
		X:       x,
		Y:       y,
		W:       w,
		H:       h,
		Color:   c,
		Visible: true,
	}
}

func (e *Entity) Left() int {
	if e.Kind == KindBall {
		return e.X - e.Radius
	}
	return e.X
}

func (e *Entity) Right() int {
	if e.Kind == KindBall {
		return e.X + e.Radius
	}
	return e.X + e.W
}

func (e *Entity) Top() int {
	if e.Kind == KindBall {
		return e.Y - e.Radius
	}
	return e.Y
}

func (e *Entity) Bottom() int {
	if e.Kind == KindBall {
		return e.Y + e.Radius
	}
	return e.Y + e.H
}

// Integrate applies one tick of velocity.
func (e *Entity) Integrate() {
	e.X += e.DX
	e.Y += e.DY
}

// Track recomputes the computer paddle's horizontal velocity from the target
// ball's left edge and then integrates. The paddle never steps past [0, fieldWidth].
func (e *Entity) Track(targetLeft, fieldWidth int) {
	centre := e.X + e.W/2
	switch {
	case targetLeft > centre && e.Right()+e.Speed <= fieldWidth:
		e.DX = e.Speed
	case targetLeft < centre && e.Left()-e.Speed >= 0:
		e.DX = -e.Speed
	default:
		e.DX = 0
	}
	e.Integrate()
}

// Overlaps reports whether the two bounding boxes share interior area.
// A zero-width wall overlaps anything straddling its x.
func (e *Entity) Overlaps(o *Entity) bool {
	return e.Right() > o.Left() && e.Left() < o.Right() &&
		e.Bottom() > o.Top() && e.Top() < o.Bottom()
}

// Label is the short name used in event logs, e.g. "B3" or "O12".
func (e *Entity) Label() string {
	switch e.Kind {
	case KindBall:
		return "B" + strconv.Itoa(e.ID)
	case KindPlayerPaddle:
		return "P0"
	case KindComputerPaddle:
		return "P1"
	case KindWall:
		return "W" + strconv.Itoa(e.ID)
	default:
		return "O" + strconv.Itoa(e.ID)
	}
}
