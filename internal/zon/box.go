package zon

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is an axis-aligned box described by its center and half-extents.
type Box struct {
	Center      r3.Vec
	HalfExtents r3.Vec
}

// NewBox builds the box spanned by two opposite corners given in any order.
func NewBox(c1, c2 r3.Vec) Box {
	return Box{
		Center: r3.Scale(0.5, r3.Add(c1, c2)),
		HalfExtents: r3.Vec{
			X: math.Abs(c2.X-c1.X) / 2,
			Y: math.Abs(c2.Y-c1.Y) / 2,
			Z: math.Abs(c2.Z-c1.Z) / 2,
		},
	}
}

// Min returns the minimum corner.
func (b Box) Min() r3.Vec { return r3.Sub(b.Center, b.HalfExtents) }

// Max returns the maximum corner.
func (b Box) Max() r3.Vec { return r3.Add(b.Center, b.HalfExtents) }

// Size returns the full per-axis edge lengths.
func (b Box) Size() r3.Vec { return r3.Scale(2, b.HalfExtents) }

// Vertices returns the eight corners: bottom ring (z-) counter-clockwise
// from the minimum corner, then the top ring (z+) in the same order.
func (b Box) Vertices() [8]r3.Vec {
	lo, hi := b.Min(), b.Max()
	return [8]r3.Vec{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
}

// boxFaces indexes Vertices() as six quads: bottom, top, front, back, right, left.
var boxFaces = [6][4]int{
	{0, 1, 2, 3},
	{4, 5, 6, 7},
	{0, 1, 5, 4},
	{2, 3, 7, 6},
	{1, 2, 6, 5},
	{0, 3, 7, 4},
}

// Faces returns the quad index list over Vertices().
func Faces() [6][4]int { return boxFaces }

// Contains reports whether p lies inside the box, boundary included.
func (b Box) Contains(p r3.Vec) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

// Bounds returns the per-axis min/max over vs.
// An empty slice yields the zero box.
func Bounds(vs []r3.Vec) r3.Box {
	if len(vs) == 0 {
		return r3.Box{}
	}
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		lo, _ = minMax(lo, v)
		_, hi = minMax(hi, v)
	}
	return r3.Box{Min: lo, Max: hi}
}
