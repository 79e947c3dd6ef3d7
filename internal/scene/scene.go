// Package scene is an in-memory stand-in for a 3D host application: it
// creates box objects for imported zones and hands their live geometry back
// for export.
package scene

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/udisondev/zonkit/internal/zon"
)

// Scene holds objects in insertion order.
type Scene struct {
	mu      sync.RWMutex
	objects []*Object
	byID    map[uuid.UUID]*Object
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{byID: make(map[uuid.UUID]*Object)}
}

// CreateBox implements zon.BoxFactory. The box is built from the record
// corners and tagged with its zone metadata; it is drawn as a wireframe in
// front of other geometry.
func (s *Scene) CreateBox(rec zon.Record) (zon.BoxHandle, error) {
	obj := newObject(rec.Name, rec.Box())
	meta := rec.Meta
	obj.zone = &meta
	obj.display = Display{Wire: true, InFront: true}

	s.add(obj)
	slog.Debug("zone box created", "name", rec.Name, "type", rec.ZoneType, "id", obj.id)
	return obj.Handle(), nil
}

// AddMesh adds a box without zone metadata. Such objects are not exported.
func (s *Scene) AddMesh(name string, box zon.Box) *Object {
	obj := newObject(name, box)
	s.add(obj)
	return obj
}

func (s *Scene) add(obj *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, obj)
	s.byID[obj.id] = obj
}

// Get returns the object behind a handle returned by CreateBox.
func (s *Scene) Get(h zon.BoxHandle) (*Object, bool) {
	id, err := uuid.Parse(string(h))
	if err != nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.byID[id]
	return obj, ok
}

// MustGet is Get for handles known to be valid.
func (s *Scene) MustGet(h zon.BoxHandle) *Object {
	obj, ok := s.Get(h)
	if !ok {
		panic(fmt.Sprintf("scene: unknown handle %q", h))
	}
	return obj
}

// Lookup finds an object by name. With duplicate names the most recently
// added object wins.
func (s *Scene) Lookup(name string) (*Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.objects) - 1; i >= 0; i-- {
		if s.objects[i].name == name {
			return s.objects[i], true
		}
	}
	return nil, false
}

// Remove deletes the object behind h and reports whether it existed.
func (s *Scene) Remove(h zon.BoxHandle) bool {
	id, err := uuid.Parse(string(h))
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, obj := range s.objects {
		if obj.id == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Objects returns a snapshot of all objects in insertion order.
func (s *Scene) Objects() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Sources returns every object as an export source, in insertion order.
func (s *Scene) Sources() []zon.Source {
	objs := s.Objects()
	out := make([]zon.Source, len(objs))
	for i, o := range objs {
		out[i] = o
	}
	return out
}

// ZoneBounds returns the combined world extent of all zone objects and
// false when the scene holds none.
func (s *Scene) ZoneBounds() (r3.Box, bool) {
	var pts []r3.Vec
	for _, o := range s.Objects() {
		if o.zone == nil {
			continue
		}
		b := o.WorldBounds()
		pts = append(pts, b.Min, b.Max)
	}
	if len(pts) == 0 {
		return r3.Box{}, false
	}
	return zon.Bounds(pts), true
}
