// Package renderer provides the geometry upload and drawable contracts the
// terrain engine renders through. The shipped backend is headless: it owns
// uploaded geometry in CPU memory and hands out opaque handles, which is all
// the demo loop and the tests need.
package renderer

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/whbboyd/gl-demo/internal/engine/terrain"
)

// Instance is one drawable placed in the world, ready to hand to whatever
// draws it.
type Instance struct {
	Drawable terrain.Drawable
	Model    mgl32.Mat4
}

// handle is the headless backend's drawable.
type handle struct {
	id uuid.UUID
}

func (h handle) ID() uuid.UUID {
	return h.id
}

// storedMesh retains an uploaded buffer pair for inspection.
type storedMesh struct {
	vertices []terrain.Vertex
	indices  []uint16
}

// Headless implements terrain.Uploader without a GPU. It retains uploads and
// counts them, so tests can assert exactly how much regeneration a frame
// caused.
type Headless struct {
	meshes  map[uuid.UUID]storedMesh
	uploads int

	// FailNext makes the next Upload return an error, for testing the
	// propagation path.
	FailNext bool
}

// NewHeadless creates an empty headless backend.
func NewHeadless() *Headless {
	return &Headless{meshes: make(map[uuid.UUID]storedMesh)}
}

// Upload implements terrain.Uploader.
func (h *Headless) Upload(vertices []terrain.Vertex, indices []uint16) (terrain.Drawable, error) {
	if h.FailNext {
		h.FailNext = false
		return nil, errors.New("renderer: simulated upload failure")
	}
	id := uuid.New()
	h.meshes[id] = storedMesh{
		vertices: append([]terrain.Vertex(nil), vertices...),
		indices:  append([]uint16(nil), indices...),
	}
	h.uploads++
	return handle{id: id}, nil
}

// Uploads returns how many uploads have succeeded so far.
func (h *Headless) Uploads() int {
	return h.uploads
}

// Mesh returns the retained buffers for a drawable, if it exists.
func (h *Headless) Mesh(d terrain.Drawable) ([]terrain.Vertex, []uint16, bool) {
	m, ok := h.meshes[d.ID()]
	if !ok {
		return nil, nil, false
	}
	return m.vertices, m.indices, true
}
