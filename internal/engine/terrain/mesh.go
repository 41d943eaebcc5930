package terrain

import (
	"fmt"
)

// BuildMesh rasterizes the grid window [leftX, rightX) x [topZ, bottomZ),
// sampling every lod grid cells, into an indexed triangle mesh. The window is
// clamped to the grid extents.
//
// Each quad of four sampled vertices becomes two triangles. The diagonal is
// chosen by the parity of the un-decimated grid row, not the sampled row, so
// the split stays consistent with the staggered tiling at any stride.
//
// A mesh whose vertex count would exceed the 16-bit index ceiling, or whose
// index buffer does not reference every generated vertex, is reported as an
// error rather than emitted as corrupt geometry.
func BuildMesh(g *HeightGrid, leftX, rightX, topZ, bottomZ, lod int) (*Mesh, error) {
	if lod < 1 {
		return nil, fmt.Errorf("terrain: invalid lod stride %d", lod)
	}
	leftX = max(leftX, 0)
	topZ = max(topZ, 0)
	rightX = min(rightX, g.Width())
	bottomZ = min(bottomZ, g.Rows())

	cols := sampleCount(leftX, rightX, lod)
	rows := sampleCount(topZ, bottomZ, lod)
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("terrain: window [%d,%d)x[%d,%d) at stride %d yields no triangles",
			leftX, rightX, topZ, bottomZ, lod)
	}
	if cols*rows > MaxMeshVertices {
		return nil, fmt.Errorf("terrain: window [%d,%d)x[%d,%d) at stride %d yields %d vertices, above the %d limit",
			leftX, rightX, topZ, bottomZ, lod, cols*rows, MaxMeshVertices)
	}

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, cols*rows),
		Indices:  make([]uint16, 0, (cols-1)*(rows-1)*6),
	}
	for iz, z := 0, topZ; z < bottomZ; iz, z = iz+1, z+lod {
		for ix, x := 0, leftX; x < rightX; ix, x = ix+1, x+lod {
			mesh.Vertices = append(mesh.Vertices, g.VertexAt(x, z))
			if ix == cols-1 || iz == rows-1 {
				continue
			}
			a := uint16(iz*cols + ix) // this sample
			b := a + 1                // east
			south := uint16((iz+1)*cols + ix)
			southeast := south + 1
			if z%2 == 0 {
				mesh.Indices = append(mesh.Indices,
					a, south, b,
					b, south, southeast)
			} else {
				mesh.Indices = append(mesh.Indices,
					a, southeast, b,
					a, south, southeast)
			}
		}
	}

	maxIndex := 0
	for _, i := range mesh.Indices {
		if int(i) > maxIndex {
			maxIndex = int(i)
		}
	}
	if maxIndex != len(mesh.Vertices)-1 {
		return nil, fmt.Errorf("terrain: mesh integrity violation: max index %d with %d vertices",
			maxIndex, len(mesh.Vertices))
	}

	return mesh, nil
}

// sampleCount is the number of samples in [from, to) at the given stride.
func sampleCount(from, to, stride int) int {
	if to <= from {
		return 0
	}
	return (to - from + stride - 1) / stride
}
