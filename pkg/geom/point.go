package geom

import "math"

// Point is an immutable (x, y) position in board coordinates.
// KiCad's y axis points down.
type Point struct {
	X Coord
	Y Coord
}

// Pt builds a Point from millimetre values.
func Pt(x, y float64) Point {
	return Point{X: MM(x), Y: MM(y)}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rotate rotates p about the origin by deg degrees, using KiCad's
// orientation convention (positive angles appear counter-clockwise on screen).
func (p Point) Rotate(deg float64) Point {
	deg = NormalizeAngle(deg)
	switch deg {
	case 0:
		return p
	case 90:
		return Point{X: p.Y, Y: -p.X}
	case 180:
		return Point{X: -p.X, Y: -p.Y}
	case 270:
		return Point{X: -p.Y, Y: p.X}
	}

	// Negate to match KiCad's y-down frame
	rad := -deg * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	x, y := float64(p.X), float64(p.Y)
	return Point{
		X: Coord(math.Round(x*cos - y*sin)),
		Y: Coord(math.Round(x*sin + y*cos)),
	}
}

// RotateAround rotates p about center by deg degrees.
func (p Point) RotateAround(center Point, deg float64) Point {
	return p.Sub(center).Rotate(deg).Add(center)
}

// Size represents width and height.
type Size struct {
	W Coord
	H Coord
}

// Sz builds a Size from millimetre values.
func Sz(w, h float64) Size {
	return Size{W: MM(w), H: MM(h)}
}

// Valid reports whether both components are non-negative.
func (s Size) Valid() bool {
	return s.W >= 0 && s.H >= 0
}

// Min returns the smaller of the two components.
func (s Size) Min() Coord {
	return minCoord(s.W, s.H)
}

// NormalizeAngle maps deg into [0, 360).
func NormalizeAngle(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -0.0 and tiny negatives rounding to 360
	if deg >= 360 || deg == 0 {
		return 0
	}
	return deg
}
