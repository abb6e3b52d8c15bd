package sim

import "image/color"

// ShapeKind is how a renderer should draw a Shape.
type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
)

// Shape is one drawable primitive. Rects use X,Y (top-left), W, H; circles
// use X,Y (centre) and R.
type Shape struct {
	Kind  ShapeKind
	X, Y  int
	W, H  int
	R     int
	Color color.RGBA
}

// Scene is everything a renderer needs for one frame.
type Scene struct {
	Width, Height int
	Background    color.RGBA
	Shapes        []Shape
}

// Scene builds the render description for the current state: visible
// objects first, then balls on top.
func (s *Sim) Scene() Scene {
	sc := Scene{
		Width:      s.ctx.Width,
		Height:     s.ctx.Height,
		Background: colorWhite,
		Shapes:     make([]Shape, 0, len(s.Field.Objects)+len(s.Field.Balls)),
	}
	for _, o := range s.Field.Objects {
		if shape, ok := shapeOf(o); ok {
			sc.Shapes = append(sc.Shapes, shape)
		}
	}
	for _, b := range s.Field.Balls {
		if shape, ok := shapeOf(b); ok {
			sc.Shapes = append(sc.Shapes, shape)
		}
	}
	return sc
}

func shapeOf(e *Entity) (Shape, bool) {
	switch e.Kind {
	case KindBall:
		return Shape{Kind: ShapeCircle, X: e.X, Y: e.Y, R: e.Radius, Color: e.Color}, true
	case KindWall:
		return Shape{}, false
	default:
		if !e.Visible {
			return Shape{}, false
		}
		return Shape{Kind: ShapeRect, X: e.X, Y: e.Y, W: e.W, H: e.H, Color: e.Color}, true
	}
}
