package game

import "math"

// Vec2 is a 2D vector in world units. The world is y-down like the screen,
// and a rotation of 0 faces +X.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) LenSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Len() float32 {
	return float32(math.Sqrt(float64(v.LenSq())))
}

func (v Vec2) Dist(o Vec2) float32 {
	return o.Sub(v).Len()
}

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Angle returns the direction of v in radians.
func (v Vec2) Angle() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// Rotate turns v by angle radians.
func (v Vec2) Rotate(angle float32) Vec2 {
	sin, cos := math.Sincos(float64(angle))
	s, c := float32(sin), float32(cos)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// FromAngle returns the unit vector facing angle.
func FromAngle(angle float32) Vec2 {
	sin, cos := math.Sincos(float64(angle))
	return Vec2{float32(cos), float32(sin)}
}

// NormalizeAngle wraps an angle into [-π, π].
func NormalizeAngle(angle float32) float32 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// RotateTowards turns from toward to along the shortest arc by at most maxDelta.
func RotateTowards(from, to, maxDelta float32) float32 {
	diff := NormalizeAngle(to - from)
	if float32(math.Abs(float64(diff))) <= maxDelta {
		return NormalizeAngle(from + diff)
	}
	maxDelta = max(maxDelta, 0)
	if diff < 0 {
		maxDelta = -maxDelta
	}
	return NormalizeAngle(from + maxDelta)
}

// MoveTowards steps position toward target by at most maxStep. It returns the
// new position and whether the target is still farther than stopRadius. Once
// inside stopRadius the position is left unchanged.
func MoveTowards(position, target Vec2, maxStep, stopRadius float32) (Vec2, bool) {
	delta := target.Sub(position)
	dist := delta.Len()
	if dist <= stopRadius {
		return position, false
	}

	step := min(maxStep, dist-stopRadius)
	return position.Add(delta.Scale(step / dist)), true
}

// Rect is an axis aligned box given by its center and full size.
type Rect struct {
	Center Vec2
	Size   Vec2
}

// Overlaps reports whether two boxes intersect. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	dx := float32(math.Abs(float64(r.Center.X - o.Center.X)))
	dy := float32(math.Abs(float64(r.Center.Y - o.Center.Y)))
	return dx < (r.Size.X+o.Size.X)/2 && dy < (r.Size.Y+o.Size.Y)/2
}
