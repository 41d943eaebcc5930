// Package terrain converts raster height samples into triangulated surfaces,
// answers point-in-triangle collision queries against them, and maintains
// tiled, distance-based level-of-detail meshes as the viewer moves.
package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// RowSpacing is the spacing between rows of a mesh of equilateral triangles
// with sides of length one. This is equal to 0.5 * tan(pi / 3).
const RowSpacing = 0.8660254037844386

// MaxMeshVertices is the largest vertex count a single mesh may carry,
// imposed by 16-bit index buffers.
const MaxMeshVertices = 65536

// RGBA is one texel of a decoded height raster.
type RGBA [4]uint8

// Vertex is a mesh vertex ready for upload.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexUV    [2]float32
}

// Mesh holds generated geometry in CPU memory.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16
}

// Drawable is an opaque handle to geometry owned by the render backend.
type Drawable interface {
	ID() uuid.UUID
}

// Uploader moves generated geometry to the render backend. Upload failures
// propagate to the caller; the terrain code never retries.
type Uploader interface {
	Upload(vertices []Vertex, indices []uint16) (Drawable, error)
}

// Heightmap is the capability surface shared by terrain implementations:
// collision lookup and viewer-driven level-of-detail maintenance.
type Heightmap interface {
	// TriangleAt returns the three vertices of the surface triangle under
	// the given world position.
	TriangleAt(pos mgl32.Vec3) [3]mgl32.Vec3
	// UpdateLOD regenerates geometry as needed for the given viewer position.
	UpdateLOD(pos mgl32.Vec3) error
}

// RenderFunc receives one drawable and its world transform per call during
// render traversal.
type RenderFunc func(drawable Drawable, model mgl32.Mat4)
