package scene

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/udisondev/zonkit/internal/zon"
)

// Display holds viewport hints attached to an imported zone box.
type Display struct {
	Wire    bool // draw as wireframe
	InFront bool // draw on top of other geometry
}

// Object is a box mesh placed in the scene.
//
// The mesh is stored in local space; the world transform applies scale and
// rotation about the mesh center, then translation. Edits to an Object are
// not synchronised; the Scene only guards membership.
type Object struct {
	id      uuid.UUID
	name    string
	mesh    zon.Box
	zone    *zon.Meta
	display Display

	translation r3.Vec
	scale       r3.Vec
	rotation    r3.Rotation
	rotated     bool
}

func newObject(name string, mesh zon.Box) *Object {
	return &Object{
		id:    uuid.New(),
		name:  name,
		mesh:  mesh,
		scale: r3.Vec{X: 1, Y: 1, Z: 1},
	}
}

// ID returns the object identifier.
func (o *Object) ID() uuid.UUID { return o.id }

// Handle returns the identifier in the form handed back to importers.
func (o *Object) Handle() zon.BoxHandle { return zon.BoxHandle(o.id.String()) }

// Name returns the object name.
func (o *Object) Name() string { return o.name }

// Mesh returns the local-space box.
func (o *Object) Mesh() zon.Box { return o.mesh }

// Display returns the viewport hints.
func (o *Object) Display() Display { return o.display }

// ZoneMeta returns the zone metadata, or false for plain meshes.
// The name always tracks the object name so renames are exported.
func (o *Object) ZoneMeta() (zon.Meta, bool) {
	if o.zone == nil {
		return zon.Meta{}, false
	}
	m := *o.zone
	m.Name = o.name
	return m, true
}

// SetZoneMeta attaches or replaces zone metadata, turning a plain mesh into
// an exportable zone.
func (o *Object) SetZoneMeta(m zon.Meta) {
	o.name = m.Name
	o.zone = &m
}

// Rename changes the object name.
func (o *Object) Rename(name string) { o.name = name }

// Translate moves the object by d.
func (o *Object) Translate(d r3.Vec) {
	o.translation = r3.Add(o.translation, d)
}

// Scale multiplies the per-axis scale by s.
func (o *Object) Scale(s r3.Vec) {
	o.scale = r3.Vec{X: o.scale.X * s.X, Y: o.scale.Y * s.Y, Z: o.scale.Z * s.Z}
}

// SetRotation sets the rotation to angle radians about axis, replacing any
// previous rotation. A zero angle clears it.
func (o *Object) SetRotation(angle float64, axis r3.Vec) {
	if angle == 0 {
		o.rotated = false
		return
	}
	o.rotation = r3.NewRotation(angle, axis)
	o.rotated = true
}

// WorldVertices returns the eight mesh vertices in world space.
func (o *Object) WorldVertices() [8]r3.Vec {
	local := o.mesh.Vertices()
	c := o.mesh.Center

	var out [8]r3.Vec
	for i, v := range local {
		d := r3.Sub(v, c)
		d = r3.Vec{X: d.X * o.scale.X, Y: d.Y * o.scale.Y, Z: d.Z * o.scale.Z}
		if o.rotated {
			d = o.rotation.Rotate(d)
		}
		out[i] = r3.Add(r3.Add(c, d), o.translation)
	}
	return out
}

// WorldBounds returns the axis-aligned extent of the world vertices.
func (o *Object) WorldBounds() r3.Box {
	v := o.WorldVertices()
	return zon.Bounds(v[:])
}

// WorldMin implements zon.BoxGeometry.
func (o *Object) WorldMin() r3.Vec { return o.WorldBounds().Min }

// WorldMax implements zon.BoxGeometry.
func (o *Object) WorldMax() r3.Vec { return o.WorldBounds().Max }
