package sim

// Fixed slots at the front of Field.Objects.
const (
	PlayerIndex = iota
	ComputerIndex
	LeftWallIndex
	RightWallIndex

	permanentObjects
)

// Field is the live entity collection. Objects holds the two paddles, the two
// walls and then dynamically spawned obstacles in spawn order.
type Field struct {
	Balls   []*Entity
	Objects []*Entity

	nextID int
}

// NewField builds the permanent entities and one centred ball.
func NewField(ctx *GameContext) *Field {
	f := &Field{}
	paddleX := (ctx.Width - ctx.PaddleWidth) / 2
	f.Objects = []*Entity{
		NewPaddle(f.newID(), KindPlayerPaddle, paddleX, ctx.Height-ctx.PaddleHeight-ctx.Margin,
			ctx.PaddleWidth, ctx.PaddleHeight, 0, colorBlue),
		NewPaddle(f.newID(), KindComputerPaddle, paddleX, ctx.Margin,
			ctx.PaddleWidth, ctx.PaddleHeight, ctx.PaddleSpeed, colorRed),
		NewWall(f.newID(), 0, ctx.Height),
		NewWall(f.newID(), ctx.Width, ctx.Height),
	}
	f.Balls = []*Entity{f.centredBall(ctx, 1)}
	return f
}

func (f *Field) newID() int {
	id := f.nextID
	f.nextID++
	return id
}

// centredBall returns a ball in the middle of the field heading down, with the
// given horizontal direction.
func (f *Field) centredBall(ctx *GameContext, dirX int) *Entity {
	return NewBall(f.newID(), ctx.Width/2, ctx.Height/2, ctx.BallRadius, ctx.BallSpeed, dirX, 1)
}

// Player returns the pointer-driven paddle.
func (f *Field) Player() *Entity { return f.Objects[PlayerIndex] }

// Computer returns the heuristic-driven paddle.
func (f *Field) Computer() *Entity { return f.Objects[ComputerIndex] }

// Obstacles returns the dynamically spawned obstacles, oldest first.
func (f *Field) Obstacles() []*Entity { return f.Objects[permanentObjects:] }

// AddObstacle appends a spawned obstacle.
func (f *Field) AddObstacle(o *Entity) {
	f.Objects = append(f.Objects, o)
}

// RemoveOldestObstacle drops the earliest spawned obstacle and returns it, or
// nil when only the permanent entities remain.
func (f *Field) RemoveOldestObstacle() *Entity {
	if len(f.Objects) <= permanentObjects {
		return nil
	}
	removed := f.Objects[permanentObjects]
	copy(f.Objects[permanentObjects:], f.Objects[permanentObjects+1:])
	f.Objects[len(f.Objects)-1] = nil
	f.Objects = f.Objects[:len(f.Objects)-1]
	return removed
}
