package terrain

import (
	"errors"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// HeightGrid stores one height sample per grid vertex, row-major, with odd
// rows shifted by half the resolution on X so that the triangulation tiles
// the plane with equilateral triangles.
//
// Heights are mutated only during initial population; afterwards the grid is
// read-only and safe to share with the render and physics layers within the
// single-threaded frame loop.
type HeightGrid struct {
	width      int
	heights    []float32
	xOffset    float32
	zOffset    float32
	resolution float32
}

// NewGrid allocates a grid of width*rows zero-height samples.
func NewGrid(width, rows int, xOffset, zOffset, resolution float32) *HeightGrid {
	return &HeightGrid{
		width:      width,
		heights:    make([]float32, width*rows),
		xOffset:    xOffset,
		zOffset:    zOffset,
		resolution: resolution,
	}
}

// FromMap builds a grid from a decoded height raster, indexed [x][z]. The
// height of each cell is (r+g+b)/768 remapped linearly into
// [lowest, highest]. All columns must have the length of the first one; that
// is the caller's responsibility and is not checked.
func FromMap(raster [][]RGBA, lowest, highest, xOffset, zOffset, resolution float32) (*HeightGrid, error) {
	if len(raster) == 0 || len(raster[0]) == 0 {
		return nil, errors.New("terrain: empty height raster")
	}
	g := NewGrid(len(raster), len(raster[0]), xOffset, zOffset, resolution)
	for x, column := range raster {
		for z, cell := range column {
			h := (float32(cell[0]) + float32(cell[1]) + float32(cell[2])) / 768.0
			g.SetHeight(x, z, h*(highest-lowest)+lowest)
		}
	}
	return g, nil
}

// Width returns the row length of the grid.
func (g *HeightGrid) Width() int {
	return g.width
}

// Rows returns the number of rows in the grid.
func (g *HeightGrid) Rows() int {
	return len(g.heights) / g.width
}

// Resolution returns the world-space distance between adjacent columns.
func (g *HeightGrid) Resolution() float32 {
	return g.resolution
}

// SetHeight sets the height sample at an x/z coordinate.
func (g *HeightGrid) SetHeight(x, z int, height float32) {
	g.heights[g.Index(x, z)] = height
}

// Index converts an x/z coordinate pair into an index into the sample
// sequence. Coordinates are not bounds-checked; out-of-range access is a
// programming error.
func (g *HeightGrid) Index(x, z int) int {
	return x + z*g.width
}

// Position returns the world-space position of a vertex by index, applying
// the half-resolution shift on odd rows and the equilateral row spacing on Z.
func (g *HeightGrid) Position(index int) mgl32.Vec3 {
	shift := float32(0)
	if (index/g.width)%2 != 0 {
		shift = 0.5
	}
	return mgl32.Vec3{
		(float32(index%g.width)+shift)*g.resolution + g.xOffset,
		g.heights[index],
		float32(index/g.width)*RowSpacing*g.resolution + g.zOffset,
	}
}

// IndexFromPosition returns the index of the nearest vertex north and west of
// the given position. It is the exact inverse of Position for integer
// indices; fractional positions floor, they do not round.
func (g *HeightGrid) IndexFromPosition(pos mgl32.Vec3) int {
	row := floor32((pos.Z() - g.zOffset) / g.resolution / RowSpacing)
	shift := float32(0)
	if int(row)%2 != 0 {
		shift = 0.5
	}
	col := floor32((pos.X()-g.xOffset)/g.resolution - shift)
	return g.Index(int(col), int(row))
}

// AdjacentVertices returns the indices of the vertices sharing an edge with
// (x, z). The up/down neighbors depend on row parity because odd rows are
// shifted east by half a cell. Out-of-range neighbors at the boundary are
// omitted. Emission order is fixed: row above west to east, row below west
// to east, then west, then east.
func (g *HeightGrid) AdjacentVertices(x, z int) []int {
	adjacents := make([]int, 0, 6)

	rowAbove := z - 1
	rowBelow := z + 1
	if z%2 == 0 {
		if rowAbove >= 0 {
			if x-1 >= 0 {
				adjacents = append(adjacents, g.Index(x-1, rowAbove))
			}
			adjacents = append(adjacents, g.Index(x, rowAbove))
		}
		if rowBelow < g.Rows() {
			if x-1 >= 0 {
				adjacents = append(adjacents, g.Index(x-1, rowBelow))
			}
			adjacents = append(adjacents, g.Index(x, rowBelow))
		}
	} else {
		if rowAbove >= 0 {
			adjacents = append(adjacents, g.Index(x, rowAbove))
			if x+1 < g.width {
				adjacents = append(adjacents, g.Index(x+1, rowAbove))
			}
		}
		if rowBelow < g.Rows() {
			adjacents = append(adjacents, g.Index(x, rowBelow))
			if x+1 < g.width {
				adjacents = append(adjacents, g.Index(x+1, rowBelow))
			}
		}
	}
	if x-1 >= 0 {
		adjacents = append(adjacents, g.Index(x-1, z))
	}
	if x+1 < g.width {
		adjacents = append(adjacents, g.Index(x+1, z))
	}

	return adjacents
}

// VertexAt resolves the full mesh vertex at (x, z): world position, a normal
// averaged over all adjacent vertices, and a planar world-space UV.
//
// Each adjacent vertex contributes the normal of the surface between it and
// this vertex: the edge vector is projected onto an axis perpendicular to
// world-up in the XZ plane, and cross plus dot against that axis recover the
// plane normal.
func (g *HeightGrid) VertexAt(x, z int) Vertex {
	index := g.Index(x, z)
	position := g.Position(index)

	adjacents := g.AdjacentVertices(x, z)
	var normal mgl32.Vec3
	for _, adj := range adjacents {
		parallel := position.Sub(g.Position(adj))
		xzNorm := float32(gomath.Sqrt(float64(parallel.X()*parallel.X() + parallel.Z()*parallel.Z())))
		axis := mgl32.Vec3{parallel.Y() / xzNorm, 0, parallel.X() / xzNorm}
		surface := axis.Cross(parallel).Add(axis.Mul(axis.Dot(parallel)))
		normal = normal.Add(surface.Normalize())
	}
	normal = normal.Mul(1 / float32(len(adjacents)))

	return Vertex{
		Position: [3]float32{position.X(), position.Y(), position.Z()},
		Normal:   [3]float32{normal.X(), normal.Y(), normal.Z()},
		TexUV:    [2]float32{position.X(), position.Z()},
	}
}

func floor32(v float32) float32 {
	return float32(gomath.Floor(float64(v)))
}
