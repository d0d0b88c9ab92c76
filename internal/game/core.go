package game

import "math"

type Vec2 struct{ X, Y float64 }

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Dist returns the euclidean distance between two points.
func (a Vec2) Dist(b Vec2) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rect is an axis-aligned world region.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// WorldRect returns the square play field centered on the origin.
func WorldRect() Rect {
	return Rect{MinX: -WorldHalf, MinY: -WorldHalf, MaxX: WorldHalf, MaxY: WorldHalf}
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Inset shrinks the rect by margin on every side. A margin larger than half
// the extent collapses that axis onto its center line.
func (r Rect) Inset(margin float64) Rect {
	out := Rect{MinX: r.MinX + margin, MinY: r.MinY + margin, MaxX: r.MaxX - margin, MaxY: r.MaxY - margin}
	if out.MinX > out.MaxX {
		mid := (r.MinX + r.MaxX) / 2
		out.MinX, out.MaxX = mid, mid
	}
	if out.MinY > out.MaxY {
		mid := (r.MinY + r.MaxY) / 2
		out.MinY, out.MaxY = mid, mid
	}
	return out
}

func (r Rect) ClampPoint(p Vec2) Vec2 {
	return Vec2{X: Clamp(p.X, r.MinX, r.MaxX), Y: Clamp(p.Y, r.MinY, r.MaxY)}
}

func (r Rect) valid() bool {
	return !(math.IsNaN(r.MinX) || math.IsNaN(r.MinY) || math.IsNaN(r.MaxX) || math.IsNaN(r.MaxY) ||
		math.IsInf(r.MinX, 0) || math.IsInf(r.MinY, 0) || math.IsInf(r.MaxX, 0) || math.IsInf(r.MaxY, 0) ||
		r.MaxX < r.MinX || r.MaxY < r.MinY)
}

func unitOrZero(v Vec2) Vec2 {
	l := v.Len()
	if l <= 1e-6 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

func orthogonal(v Vec2) Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

func fromAngle(theta, length float64) Vec2 {
	return Vec2{X: math.Cos(theta) * length, Y: math.Sin(theta) * length}
}

// ticksFor converts a millisecond duration into a whole number of simulation
// ticks, never less than one.
func ticksFor(ms float64) uint64 {
	if ms <= 0 {
		return 1
	}
	n := uint64(math.Ceil(ms / 1000 * SimHz))
	if n == 0 {
		n = 1
	}
	return n
}

func msToSeconds(ms float64) float64 { return ms / 1000 }
