package geom

// BoundingBox represents a rectangular boundary.
// Invariant: Min.X <= Max.X and Min.Y <= Max.Y. The zero value is the
// degenerate box at the origin, which is a legal "no geometry" result.
type BoundingBox struct {
	Min Point // Minimum (top-left) corner
	Max Point // Maximum (bottom-right) corner
}

// BoxFromPoints returns the smallest box containing every point.
// With no points it returns the degenerate origin box.
func BoxFromPoints(points ...Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}

	bb := BoundingBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		bb = bb.Expand(p)
	}
	return bb
}

// BoxAround returns the box of the given size centred on c.
func BoxAround(c Point, s Size) BoundingBox {
	hw, hh := s.W/2, s.H/2
	return BoundingBox{
		Min: Point{X: c.X - hw, Y: c.Y - hh},
		Max: Point{X: c.X - hw + s.W, Y: c.Y - hh + s.H},
	}
}

// Expand returns the box grown to include pos.
func (bb BoundingBox) Expand(pos Point) BoundingBox {
	return BoundingBox{
		Min: Point{X: minCoord(bb.Min.X, pos.X), Y: minCoord(bb.Min.Y, pos.Y)},
		Max: Point{X: maxCoord(bb.Max.X, pos.X), Y: maxCoord(bb.Max.Y, pos.Y)},
	}
}

// Union returns the smallest box containing both boxes.
func (bb BoundingBox) Union(other BoundingBox) BoundingBox {
	return bb.Expand(other.Min).Expand(other.Max)
}

// UnionAll folds Union over boxes. ok is false when boxes is empty.
func UnionAll(boxes ...BoundingBox) (bb BoundingBox, ok bool) {
	if len(boxes) == 0 {
		return BoundingBox{}, false
	}
	bb = boxes[0]
	for _, b := range boxes[1:] {
		bb = bb.Union(b)
	}
	return bb, true
}

// Inflate grows the box by margin on every side.
// A negative margin never shrinks the box past its centre line.
func (bb BoundingBox) Inflate(margin Coord) BoundingBox {
	out := BoundingBox{
		Min: Point{X: bb.Min.X - margin, Y: bb.Min.Y - margin},
		Max: Point{X: bb.Max.X + margin, Y: bb.Max.Y + margin},
	}
	if out.Min.X > out.Max.X {
		c := bb.Center().X
		out.Min.X, out.Max.X = c, c
	}
	if out.Min.Y > out.Max.Y {
		c := bb.Center().Y
		out.Min.Y, out.Max.Y = c, c
	}
	return out
}

// Translate moves the box by (dx, dy).
func (bb BoundingBox) Translate(dx, dy Coord) BoundingBox {
	d := Point{X: dx, Y: dy}
	return BoundingBox{Min: bb.Min.Add(d), Max: bb.Max.Add(d)}
}

// RoundOutward snaps Min down and Max up to multiples of grid, so the
// result always encloses the input. A non-positive grid is a no-op.
func (bb BoundingBox) RoundOutward(grid Coord) BoundingBox {
	if grid <= 0 {
		return bb
	}
	return BoundingBox{
		Min: Point{X: floorTo(bb.Min.X, grid), Y: floorTo(bb.Min.Y, grid)},
		Max: Point{X: ceilTo(bb.Max.X, grid), Y: ceilTo(bb.Max.Y, grid)},
	}
}

// Encloses reports whether other lies entirely inside bb (edges included).
func (bb BoundingBox) Encloses(other BoundingBox) bool {
	return bb.Contains(other.Min) && bb.Contains(other.Max)
}

// Intersects checks if two bounding boxes intersect
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return bb.Min.X <= other.Max.X && bb.Max.X >= other.Min.X &&
		bb.Min.Y <= other.Max.Y && bb.Max.Y >= other.Min.Y
}

// Contains checks if a position is within the bounding box
func (bb BoundingBox) Contains(pos Point) bool {
	return pos.X >= bb.Min.X && pos.X <= bb.Max.X &&
		pos.Y >= bb.Min.Y && pos.Y <= bb.Max.Y
}

// IsDegenerate reports whether the box has zero area.
func (bb BoundingBox) IsDegenerate() bool {
	return bb.Width() == 0 || bb.Height() == 0
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() Coord {
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() Coord {
	return bb.Max.Y - bb.Min.Y
}

// Center returns the center point of the bounding box
func (bb BoundingBox) Center() Point {
	return Point{
		X: (bb.Min.X + bb.Max.X) / 2,
		Y: (bb.Min.Y + bb.Max.Y) / 2,
	}
}

// Corners returns the four corners clockwise from Min.
func (bb BoundingBox) Corners() [4]Point {
	return [4]Point{
		bb.Min,
		{X: bb.Max.X, Y: bb.Min.Y},
		bb.Max,
		{X: bb.Min.X, Y: bb.Max.Y},
	}
}
