package geom

import "math"

// ArcBounds returns the bounds of the circular arc that starts at start,
// passes through mid and ends at end. Collinear points fall back to the
// box of the three points.
func ArcBounds(start, mid, end Point) BoundingBox {
	bb := BoxFromPoints(start, mid, end)

	cx, cy, r, ok := circumcircle(start, mid, end)
	if !ok {
		return bb
	}

	as := angleOf(start, cx, cy)
	am := angleOf(mid, cx, cy)
	ae := angleOf(end, cx, cy)

	sweep := wrap(ae - as)
	ccw := wrap(am-as) < sweep
	if !ccw {
		sweep = wrap(as - ae)
	}

	for i := 0; i < 4; i++ {
		t := float64(i) * math.Pi / 2
		var offset float64
		if ccw {
			offset = wrap(t - as)
		} else {
			offset = wrap(as - t)
		}
		if offset <= sweep {
			bb = bb.Expand(Point{
				X: Coord(math.Round(cx + r*math.Cos(t))),
				Y: Coord(math.Round(cy + r*math.Sin(t))),
			})
		}
	}
	return bb
}

// CircleBounds returns the box of a circle given its centre and radius.
func CircleBounds(center Point, radius Coord) BoundingBox {
	radius = radius.Abs()
	return BoundingBox{
		Min: Point{X: center.X - radius, Y: center.Y - radius},
		Max: Point{X: center.X + radius, Y: center.Y + radius},
	}
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) Coord {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return Coord(math.Round(math.Hypot(dx, dy)))
}

func circumcircle(a, b, c Point) (cx, cy, r float64, ok bool) {
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	px, py := float64(c.X), float64(c.Y)

	d := 2 * (ax*(by-py) + bx*(py-ay) + px*(ay-by))
	if math.Abs(d) < 1e-9 {
		return 0, 0, 0, false
	}

	a2 := ax*ax + ay*ay
	b2 := bx*bx + by*by
	c2 := px*px + py*py
	cx = (a2*(by-py) + b2*(py-ay) + c2*(ay-by)) / d
	cy = (a2*(px-bx) + b2*(ax-px) + c2*(bx-ax)) / d
	r = math.Hypot(ax-cx, ay-cy)
	return cx, cy, r, true
}

func angleOf(p Point, cx, cy float64) float64 {
	return math.Atan2(float64(p.Y)-cy, float64(p.X)-cx)
}

// wrap maps a into [0, 2π).
func wrap(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
