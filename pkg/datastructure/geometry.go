package datastructure

import (
	"math"
)

const (
	EPS = 1e-6
)

// Point. point in a local planar frame (metres)
type Point struct {
	x, y float64
}

func NewPoint(x, y float64) *Point {
	return &Point{x, y}
}

func (p *Point) GetX() float64 {
	return p.x
}

func (p *Point) GetY() float64 {
	return p.y
}

// equal operator
func Eq(a, b float64) bool {
	return math.Abs(a-b) <= EPS
}

// less than operator
func Lt(a, b float64) bool {
	return a+EPS < b
}

// greater than or equal than operator
func Ge(a, b float64) bool {
	return Le(b, a)
}

func Gt(a, b float64) bool {
	return Lt(b, a)
}

// less than or equal operator
func Le(a, b float64) bool {
	return a <= b+EPS
}

type Vector struct {
	x, y float64
}

func NewVector(x, y float64) *Vector {
	return &Vector{x, y}
}

func toVec(a, b *Point) *Vector {
	return NewVector(b.x-a.x, b.y-a.y)
}

// cross product of two vectors a and b
func cross(a, b *Vector) float64 {
	return a.x*b.y - a.y*b.x
}

// return dot product of two vectors a and b
func dot(a, b *Vector) float64 {
	return a.x*b.x + a.y*b.y
}

func normSq(v *Vector) float64 {
	return v.x*v.x + v.y*v.y
}

// LineCircleInterval. parameters [t0, t1] of the line a + t(b-a) that lie inside the disc (c, r).
// ok is false when the line misses the disc.
func LineCircleInterval(a, b, c *Point, r float64) (float64, float64, bool) {
	d := toVec(a, b)
	f := toVec(c, a)
	qa := normSq(d)
	qc := normSq(f) - r*r
	if qa == 0 {
		if qc <= 0 {
			return math.Inf(-1), math.Inf(1), true
		}
		return 0, 0, false
	}
	qb := 2 * dot(f, d)
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	return (-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa), true
}

// clipSlab. restricts [tmin, tmax] to the t where lo <= s0 + t*ds <= hi (liang-barsky)
func clipSlab(s0, ds, lo, hi, tmin, tmax float64) (float64, float64, bool) {
	if math.Abs(ds) < 1e-12 {
		if s0 < lo || s0 > hi {
			return 0, 0, false
		}
		return tmin, tmax, true
	}
	tA := (lo - s0) / ds
	tB := (hi - s0) / ds
	if tA > tB {
		tA, tB = tB, tA
	}
	tmin = math.Max(tmin, tA)
	tmax = math.Min(tmax, tB)
	return tmin, tmax, tmin <= tmax
}

// LineRectangleInterval. parameters of the line a + t(b-a) inside the rectangle of half width r around segment pq.
func LineRectangleInterval(a, b, p, q *Point, r float64) (float64, float64, bool) {
	axis := toVec(p, q)
	length := math.Sqrt(normSq(axis))
	if length == 0 {
		return 0, 0, false
	}
	u := NewVector(axis.x/length, axis.y/length)
	n := NewVector(-u.y, u.x)

	ap := toVec(p, a)
	d := toVec(a, b)

	tmin, tmax := math.Inf(-1), math.Inf(1)
	var ok bool
	tmin, tmax, ok = clipSlab(dot(ap, u), dot(d, u), 0, length, tmin, tmax)
	if !ok {
		return 0, 0, false
	}
	return clipSlab(dot(ap, n), dot(d, n), -r, r, tmin, tmax)
}

// LineCapsuleInterval. parameters t in [0, 1] of segment ab that are within distance r of segment pq.
// the r-neighbourhood of pq is convex (two discs + a rectangle), so the answer is a single interval.
func LineCapsuleInterval(a, b, p, q *Point, r float64) (float64, float64, bool) {
	t0, t1 := math.Inf(1), math.Inf(-1)
	found := false
	merge := func(s0, s1 float64, ok bool) {
		if !ok {
			return
		}
		found = true
		t0 = math.Min(t0, s0)
		t1 = math.Max(t1, s1)
	}

	merge(LineCircleInterval(a, b, p, r))
	merge(LineCircleInterval(a, b, q, r))
	merge(LineRectangleInterval(a, b, p, q, r))
	if !found {
		return 0, 0, false
	}

	t0 = math.Max(t0, 0)
	t1 = math.Min(t1, 1)
	if t0 >= t1 {
		return 0, 0, false
	}
	return t0, t1, true
}

// SegmentDistance. distance of point c to segment ab
func SegmentDistance(a, b, c *Point) float64 {
	ab := toVec(a, b)
	l := normSq(ab)
	if l == 0 {
		return math.Sqrt(normSq(toVec(a, c)))
	}
	t := dot(toVec(a, c), ab) / l
	t = math.Max(0, math.Min(1, t))
	proj := NewPoint(a.x+t*ab.x, a.y+t*ab.y)
	return math.Sqrt(normSq(toVec(proj, c)))
}
