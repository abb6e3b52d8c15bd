package sim

// Flip is the per-axis multiplier a collision applies to a ball's velocity.
// Each component is -1 (reverse) or +1 (keep).
type Flip struct {
	X, Y int
}

var noFlip = Flip{X: 1, Y: 1}

// Reverses reports whether the flip changes the velocity at all.
func (f Flip) Reverses() bool {
	return f.X != 1 || f.Y != 1
}

type pairKey struct {
	ball   int
	object int
}

// CollisionTracker is the colliding latch for every (ball, object) pair.
// While a pair is latched its collisions report no reversal, so a ball that
// sits on a boundary for several ticks bounces exactly once.
type CollisionTracker struct {
	active map[pairKey]bool
}

// NewCollisionTracker returns an empty tracker.
func NewCollisionTracker() *CollisionTracker {
	return &CollisionTracker{active: make(map[pairKey]bool)}
}

// Colliding reports whether the pair is latched.
func (ct *CollisionTracker) Colliding(ballID, objectID int) bool {
	return ct.active[pairKey{ballID, objectID}]
}

// Len returns the number of latched pairs.
func (ct *CollisionTracker) Len() int {
	return len(ct.active)
}

// ForgetBall drops every latch held by a ball.
func (ct *CollisionTracker) ForgetBall(ballID int) {
	for k := range ct.active {
		if k.ball == ballID {
			delete(ct.active, k)
		}
	}
}

// ForgetObject drops every latch held against an object.
func (ct *CollisionTracker) ForgetObject(objectID int) {
	for k := range ct.active {
		if k.object == objectID {
			delete(ct.active, k)
		}
	}
}

// Clear drops every latch.
func (ct *CollisionTracker) Clear() {
	clear(ct.active)
}

// crossing runs the edge-crossing tests for one ball against one object. The
// ball's previous box is reconstructed as current minus velocity.
func crossing(ball, obj *Entity) Flip {
	flip := noFlip

	left, right := ball.Left(), ball.Right()
	top, bottom := ball.Top(), ball.Bottom()
	prevLeft, prevRight := left-ball.DX, right-ball.DX
	prevTop, prevBottom := top-ball.DY, bottom-ball.DY

	objLeft, objRight := obj.Left(), obj.Right()
	objTop, objBottom := obj.Top(), obj.Bottom()

	if bottom > objTop && top < objBottom {
		// Entering from the left.
		if prevRight < objLeft && right >= objLeft {
			flip.X = -flip.X
		}
		// Entering from the right.
		if prevLeft > objRight && left <= objRight {
			flip.X = -flip.X
		}
	}
	// Walls have no width and never deflect vertically.
	if obj.W != 0 && right > objLeft && left < objRight {
		// Entering from above.
		if prevBottom < objTop && bottom >= objTop {
			flip.Y = -flip.Y
		}
		// Entering from below.
		if prevTop > objBottom && top <= objBottom {
			flip.Y = -flip.Y
		}
	}
	return flip
}

// Detect returns one Flip per object, in object order. Latched pairs always
// yield (+1,+1); a latch is set on the first reversing crossing and released
// on a tick with no crossing once the boxes have separated.
func Detect(ball *Entity, objects []*Entity, ct *CollisionTracker) []Flip {
	flips := make([]Flip, len(objects))
	for i, obj := range objects {
		key := pairKey{ball.ID, obj.ID}
		f := crossing(ball, obj)
		if ct.active[key] {
			flips[i] = noFlip
			if !f.Reverses() && !ball.Overlaps(obj) {
				delete(ct.active, key)
			}
			continue
		}
		flips[i] = f
		if f.Reverses() {
			ct.active[key] = true
		}
	}
	return flips
}

// ApplyFlips multiplies the ball's velocity by every flip and returns how
// many of them reversed something.
func ApplyFlips(ball *Entity, flips []Flip) int {
	n := 0
	for _, f := range flips {
		ball.DX *= f.X
		ball.DY *= f.Y
		if f.Reverses() {
			n++
		}
	}
	return n
}
