package terrain

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Contains reports whether a world position lies inside the area where
// triangle queries are well-defined. The usable area is inset one cell from
// the grid edge so that every queried quad has a full set of neighbors.
func (g *HeightGrid) Contains(pos mgl32.Vec3) bool {
	minX := g.xOffset + g.resolution
	maxX := g.xOffset + float32(g.width-1)*g.resolution
	minZ := g.zOffset + g.resolution*RowSpacing
	maxZ := g.zOffset + float32(g.Rows()-1)*g.resolution*RowSpacing
	return pos.X() >= minX && pos.X() <= maxX && pos.Z() >= minZ && pos.Z() <= maxZ
}

// TriangleAt returns the three vertices of the triangle under the given
// world position.
//
// For reference:
//
//	   A-----B
//	  /|\ 2 /|\
//	 / |1\ /3| \
//	C--k--D--l--E
//
// Vertex A is the nearest vertex north and west of the position and D is its
// southern diagonal neighbor. The query point is classified against the line
// A-D and, if needed, B-D, yielding exactly one of the canonical triangles
// {A,D,C}, {A,B,D} or {B,E,D}.
//
// Positions exactly on the south or east query bound resolve against the
// nearest complete quad, so everything Contains admits yields real geometry.
// Positions outside Contains produce a degenerate triangle at negative
// infinity instead of a panic, so an out-of-bounds character simply finds no
// floor. Callers that need to distinguish the cases should pre-check
// Contains.
func (g *HeightGrid) TriangleAt(pos mgl32.Vec3) [3]mgl32.Vec3 {
	if !g.Contains(pos) {
		return g.sentinelTriangle(pos)
	}

	// Resolve A directly instead of via IndexFromPosition: the inclusive
	// bounds admit positions whose floor lands on the last row or column,
	// where no quad hangs south or east of A. Clamping keeps every one of
	// the A/B/C/D/E fetches inside the grid.
	aZ := int(floor32((pos.Z() - g.zOffset) / g.resolution / RowSpacing))
	if aZ > g.Rows()-2 {
		aZ = g.Rows() - 2
	}
	shift := float32(0)
	dColumn := 0
	maxColumn := g.width - 2
	if aZ%2 != 0 {
		shift = 0.5
		dColumn = 1             // odd rows: the southern diagonal sits one column east
		maxColumn = g.width - 3 // and E two columns east of A
	}
	aX := int(floor32((pos.X()-g.xOffset)/g.resolution - shift))
	if aX > maxColumn {
		aX = maxColumn
	}
	if aX < 0 || aZ < 0 {
		return g.sentinelTriangle(pos)
	}

	vtxA := g.Index(aX, aZ)
	posA := g.Position(vtxA)
	vtxD := g.Index(aX+dColumn, aZ+1)
	posD := g.Position(vtxD)

	// Case 1 or 2/3: are we below A-D?
	m := (posD.Z() - posA.Z()) / (posD.X() - posA.X())
	b := posA.Z() - m*posA.X()
	if pos.Z() > m*pos.X()+b {
		posC := g.Position(vtxD - 1)
		return [3]mgl32.Vec3{posA, posD, posC}
	}

	// Case 2 or 3: are we above B-D?
	posB := g.Position(vtxA + 1)
	m = (posB.Z() - posD.Z()) / (posB.X() - posD.X())
	b = posB.Z() - m*posB.X()
	if pos.Z() < m*pos.X()+b {
		return [3]mgl32.Vec3{posA, posB, posD}
	}
	posE := g.Position(vtxD + 1)
	return [3]mgl32.Vec3{posB, posE, posD}
}

func (g *HeightGrid) sentinelTriangle(pos mgl32.Vec3) [3]mgl32.Vec3 {
	p := mgl32.Vec3{pos.X(), float32(gomath.Inf(-1)), pos.Z()}
	return [3]mgl32.Vec3{p, p, p}
}
