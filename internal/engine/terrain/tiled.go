package terrain

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/whbboyd/gl-demo/internal/logger"
)

// lodTile is one fixed-size tile of the grid with its generated mesh. A tile
// that has never been generated carries built == false rather than a magic
// stride value.
type lodTile struct {
	lod      int
	built    bool
	drawable Drawable
}

// lodZone is the hysteresis dead band: while the viewer stays inside it, no
// per-tile LOD recomputation happens. A nil zone means "never computed" and
// forces the first full pass.
type lodZone struct {
	centerX float32
	centerZ float32
}

// TiledHeightmap is the production Heightmap: the grid is partitioned into
// tileSize x tileSize tiles, each meshed at a decimation stride chosen by
// viewer distance and regenerated lazily when that stride changes.
type TiledHeightmap struct {
	grid     *HeightGrid
	uploader Uploader
	tileSize int
	tilesX   int
	tilesZ   int
	tiles    []lodTile
	zone     *lodZone
}

// NewTiled partitions the grid into tileSize-sized tiles. The grid dimensions
// must be multiples of tileSize so that every tile carries enough samples to
// triangulate.
func NewTiled(grid *HeightGrid, tileSize int, uploader Uploader) (*TiledHeightmap, error) {
	if tileSize < 2 {
		return nil, fmt.Errorf("terrain: tile size %d is too small to triangulate", tileSize)
	}
	if grid.Width()%tileSize != 0 || grid.Rows()%tileSize != 0 {
		return nil, fmt.Errorf("terrain: grid %dx%d is not divisible into %d-sized tiles",
			grid.Width(), grid.Rows(), tileSize)
	}
	tilesX := grid.Width() / tileSize
	tilesZ := grid.Rows() / tileSize
	return &TiledHeightmap{
		grid:     grid,
		uploader: uploader,
		tileSize: tileSize,
		tilesX:   tilesX,
		tilesZ:   tilesZ,
		tiles:    make([]lodTile, tilesX*tilesZ),
	}, nil
}

// Grid exposes the underlying height grid.
func (t *TiledHeightmap) Grid() *HeightGrid {
	return t.grid
}

// TriangleAt implements Heightmap. Collision queries always resolve against
// the full-resolution grid, independent of the decimation the renderer sees.
func (t *TiledHeightmap) TriangleAt(pos mgl32.Vec3) [3]mgl32.Vec3 {
	return t.grid.TriangleAt(pos)
}

// genLOD computes the decimation stride for a tile given the viewer
// position: the squared XZ distance to the tile center, normalized by the
// squared world-space tile diagonal, quantized to floor(log2) and clamped to
// [1, tileSize-1]. Strides are powers of two so that tile boundaries stay
// compatible across neighboring LOD levels.
func (t *TiledHeightmap) genLOD(pos mgl32.Vec3, tx, tz int) int {
	res := t.grid.Resolution()
	centerX := t.grid.xOffset + (float32(tx*t.tileSize)+float32(t.tileSize)/2)*res
	centerZ := t.grid.zOffset + (float32(tz*t.tileSize)+float32(t.tileSize)/2)*res*RowSpacing

	dx := pos.X() - centerX
	dz := pos.Z() - centerZ
	sideX := float32(t.tileSize) * res
	sideZ := sideX * RowSpacing
	normalized := (dx*dx + dz*dz) / (sideX*sideX + sideZ*sideZ)

	lod := 1
	if normalized > 1 {
		// A distance far enough to overflow float32 keeps the coarsest
		// exponent; log2(+Inf) would otherwise shift by a garbage count.
		exp := 16
		if !gomath.IsInf(float64(normalized), 1) {
			if e := int(gomath.Floor(gomath.Log2(float64(normalized)))); e < exp {
				exp = e
			}
		}
		lod = 1 << exp
	}
	if lod > t.tileSize-1 {
		lod = t.tileSize - 1
	}
	return lod
}

// UpdateLOD implements Heightmap. While the viewer stays within the current
// dead band nothing happens. Once the viewer leaves it, the zone re-centers
// on the viewer position snapped to half-zone increments and every tile is
// re-evaluated; only tiles whose computed stride changed are re-meshed and
// re-uploaded, discarding their previous drawable.
func (t *TiledHeightmap) UpdateLOD(pos mgl32.Vec3) error {
	zoneSize := float32(t.tileSize) * t.grid.Resolution()
	if t.zone != nil &&
		abs32(pos.X()-t.zone.centerX) <= zoneSize &&
		abs32(pos.Z()-t.zone.centerZ) <= zoneSize {
		return nil
	}
	half := zoneSize / 2
	t.zone = &lodZone{
		centerX: pos.X() - mod32(pos.X(), half),
		centerZ: pos.Z() - mod32(pos.Z(), half),
	}

	rebuilt := 0
	for tz := 0; tz < t.tilesZ; tz++ {
		for tx := 0; tx < t.tilesX; tx++ {
			lod := t.genLOD(pos, tx, tz)
			tile := &t.tiles[tz*t.tilesX+tx]
			if tile.built && tile.lod == lod {
				continue
			}
			left := tx * t.tileSize
			top := tz * t.tileSize
			right := left + t.tileSize
			bottom := top + t.tileSize
			// Overlap one column and row into the neighbor so adjacent
			// tiles share boundary vertices instead of leaving an
			// un-meshed strip. A full-detail 256 tile sits exactly at the
			// index ceiling, so only those keep the half-open window.
			if sampleCount(left, right+1, lod)*sampleCount(top, bottom+1, lod) <= MaxMeshVertices {
				right++
				bottom++
			}
			mesh, err := BuildMesh(t.grid, left, right, top, bottom, lod)
			if err != nil {
				return fmt.Errorf("meshing tile (%d,%d) at stride %d: %w", tx, tz, lod, err)
			}
			drawable, err := t.uploader.Upload(mesh.Vertices, mesh.Indices)
			if err != nil {
				return fmt.Errorf("uploading tile (%d,%d): %w", tx, tz, err)
			}
			tile.drawable = drawable
			tile.lod = lod
			tile.built = true
			rebuilt++
		}
	}
	if rebuilt > 0 {
		logger.Debug("rebuilt terrain tiles",
			zap.Int("tiles", rebuilt),
			zap.Float32("viewer_x", pos.X()),
			zap.Float32("viewer_z", pos.Z()))
	}
	return nil
}

// Render passes every built tile drawable to fn with an identity world
// transform, in row-major tile order. The caller must have completed
// UpdateLOD for the current frame first.
func (t *TiledHeightmap) Render(fn RenderFunc) {
	for i := range t.tiles {
		if t.tiles[i].built {
			fn(t.tiles[i].drawable, mgl32.Ident4())
		}
	}
}

// TileLOD returns the stride a tile was last built at, and whether it has
// been built at all.
func (t *TiledHeightmap) TileLOD(tx, tz int) (int, bool) {
	tile := t.tiles[tz*t.tilesX+tx]
	return tile.lod, tile.built
}

// Tiles returns the tile grid dimensions.
func (t *TiledHeightmap) Tiles() (int, int) {
	return t.tilesX, t.tilesZ
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func mod32(v, m float32) float32 {
	return float32(gomath.Mod(float64(v), float64(m)))
}
