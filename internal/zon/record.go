// Package zon reads and writes .zon zone files: a "zone" header line, one
// comma-separated record per axis-aligned box region, and an "end" footer.
//
//	zone
//	<name>, <zone_type>, <x1>, <y1>, <z1>, <x2>, <y2>, <z2>, <flag>, <parent>
//	end
//
// The package owns only the text format and the box geometry derived from a
// record. Creating boxes in a host scene and collecting live geometry for
// export is delegated to BoxFactory and Source implementations.
package zon

import "gonum.org/v1/gonum/spatial/r3"

// Meta holds the non-geometric fields of a zone entry.
// All four are opaque trimmed tokens; empty values are allowed.
type Meta struct {
	Name     string
	ZoneType string
	Flag     string
	Parent   string
}

// Record is one parsed zone entry.
// Corner1 and Corner2 are opposite box corners in file order, not
// necessarily min/max ordered.
type Record struct {
	Meta
	Corner1 r3.Vec
	Corner2 r3.Vec

	// Line is the 1-based source line, 0 when the record was not read from text.
	Line int
}

// Box returns the box spanned by the record corners.
func (r Record) Box() Box {
	return NewBox(r.Corner1, r.Corner2)
}

// Bounded is a zone entry prepared for writing: metadata plus the
// axis-aligned world-space extent recomputed from live geometry.
type Bounded struct {
	Meta
	Min r3.Vec
	Max r3.Vec
}

// BoundedFrom builds a Bounded from metadata and current geometry.
// Min and Max are re-normalised per axis so a geometry reporting swapped
// extents still produces a min-first line.
func BoundedFrom(meta Meta, g BoxGeometry) Bounded {
	lo, hi := minMax(g.WorldMin(), g.WorldMax())
	return Bounded{Meta: meta, Min: lo, Max: hi}
}

// BoundedFromRecord treats the record corners as the current geometry.
func BoundedFromRecord(r Record) Bounded {
	lo, hi := minMax(r.Corner1, r.Corner2)
	return Bounded{Meta: r.Meta, Min: lo, Max: hi}
}

func minMax(a, b r3.Vec) (lo, hi r3.Vec) {
	lo = r3.Vec{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)}
	hi = r3.Vec{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)}
	return lo, hi
}
