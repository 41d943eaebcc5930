package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// SimpleHeightmap keeps the whole grid as a single full-resolution mesh. It
// is the reference implementation of Heightmap: correct, but bounded by the
// 16-bit index ceiling, so large grids belong to TiledHeightmap.
type SimpleHeightmap struct {
	grid     *HeightGrid
	uploader Uploader
	drawable Drawable
}

// NewSimple wraps a grid in a single-mesh heightmap.
func NewSimple(grid *HeightGrid, uploader Uploader) *SimpleHeightmap {
	return &SimpleHeightmap{grid: grid, uploader: uploader}
}

// Grid exposes the underlying height grid.
func (s *SimpleHeightmap) Grid() *HeightGrid {
	return s.grid
}

// TriangleAt implements Heightmap.
func (s *SimpleHeightmap) TriangleAt(pos mgl32.Vec3) [3]mgl32.Vec3 {
	return s.grid.TriangleAt(pos)
}

// UpdateLOD implements Heightmap. The viewer position is ignored; the single
// mesh is generated and uploaded on the first call and reused afterwards.
func (s *SimpleHeightmap) UpdateLOD(pos mgl32.Vec3) error {
	_ = pos
	if s.drawable != nil {
		return nil
	}
	mesh, err := BuildMesh(s.grid, 0, s.grid.Width(), 0, s.grid.Rows(), 1)
	if err != nil {
		return fmt.Errorf("building full-resolution mesh: %w", err)
	}
	drawable, err := s.uploader.Upload(mesh.Vertices, mesh.Indices)
	if err != nil {
		return fmt.Errorf("uploading heightmap mesh: %w", err)
	}
	s.drawable = drawable
	return nil
}

// Render passes the mesh drawable to fn, with an identity world transform.
// It emits nothing before the first successful UpdateLOD.
func (s *SimpleHeightmap) Render(fn RenderFunc) {
	if s.drawable != nil {
		fn(s.drawable, mgl32.Ident4())
	}
}
