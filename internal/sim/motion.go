package sim

// Advance integrates every ball, steers the computer paddle toward the ball
// nearest its side (lowest Top, first on ties) and integrates the remaining
// objects. The player paddle is positioned by MovePlayer, not here.
func Advance(f *Field, fieldWidth int) {
	for _, b := range f.Balls {
		b.Integrate()
	}
	if target := TrackingTarget(f.Balls); target >= 0 {
		f.Computer().Track(f.Balls[target].Left(), fieldWidth)
	}
	for _, o := range f.Objects[LeftWallIndex:] {
		o.Integrate()
	}
}

// TrackingTarget returns the index of the ball the computer paddle follows,
// or -1 when there are no balls.
func TrackingTarget(balls []*Entity) int {
	target := -1
	for i, b := range balls {
		if target < 0 || b.Top() < balls[target].Top() {
			target = i
		}
	}
	return target
}

// MovePlayer sets the player paddle from a pointer x, clamped so the paddle
// stays inside [0, fieldWidth].
func MovePlayer(f *Field, pointerX, fieldWidth int) {
	p := f.Player()
	x := pointerX
	if x > fieldWidth-p.W {
		x = fieldWidth - p.W
	}
	if x < 0 {
		x = 0
	}
	p.X = x
}
