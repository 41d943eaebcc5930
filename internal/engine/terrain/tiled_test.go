package terrain

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type tileHandle struct {
	id uuid.UUID
}

func (h tileHandle) ID() uuid.UUID {
	return h.id
}

// recordingUploader retains uploaded meshes in order and can be armed to
// fail the next upload.
type recordingUploader struct {
	uploads  int
	failNext bool
	meshes   []Mesh
}

func (u *recordingUploader) Upload(vertices []Vertex, indices []uint16) (Drawable, error) {
	if u.failNext {
		u.failNext = false
		return nil, errors.New("upload failed")
	}
	u.uploads++
	u.meshes = append(u.meshes, Mesh{Vertices: vertices, Indices: indices})
	return tileHandle{id: uuid.New()}, nil
}

func newTestTiled(t *testing.T) (*TiledHeightmap, *recordingUploader) {
	t.Helper()
	up := &recordingUploader{}
	th, err := NewTiled(NewGrid(8, 8, 0, 0, 1.0), 4, up)
	if err != nil {
		t.Fatalf("NewTiled: %v", err)
	}
	return th, up
}

func TestNewTiledRejectsBadDimensions(t *testing.T) {
	up := &recordingUploader{}
	if _, err := NewTiled(NewGrid(8, 8, 0, 0, 1.0), 1, up); err == nil {
		t.Error("expected error for tile size 1")
	}
	if _, err := NewTiled(NewGrid(8, 8, 0, 0, 1.0), 3, up); err == nil {
		t.Error("expected error for grid not divisible into tiles")
	}
}

func TestUpdateLODFirstPassBuildsAllTiles(t *testing.T) {
	th, up := newTestTiled(t)

	center := mgl32.Vec3{4, 0, 4 * RowSpacing}
	if err := th.UpdateLOD(center); err != nil {
		t.Fatalf("UpdateLOD: %v", err)
	}
	if up.uploads != 4 {
		t.Errorf("first pass uploads = %d, want 4", up.uploads)
	}
	for tz := 0; tz < 2; tz++ {
		for tx := 0; tx < 2; tx++ {
			lod, built := th.TileLOD(tx, tz)
			if !built || lod != 1 {
				t.Errorf("tile (%d,%d) = lod %d built %v, want lod 1 built", tx, tz, lod, built)
			}
		}
	}

	rendered := 0
	th.Render(func(d Drawable, model mgl32.Mat4) {
		rendered++
		if model != mgl32.Ident4() {
			t.Errorf("tile model = %v, want identity", model)
		}
	})
	if rendered != 4 {
		t.Errorf("rendered %d tiles, want 4", rendered)
	}
}

func TestUpdateLODDeadBandSkipsRecompute(t *testing.T) {
	th, up := newTestTiled(t)

	center := mgl32.Vec3{4, 0, 4 * RowSpacing}
	if err := th.UpdateLOD(center); err != nil {
		t.Fatalf("UpdateLOD: %v", err)
	}
	baseline := up.uploads

	// Same position and then a sub-zone wiggle: neither leaves the dead
	// band, so no tile may be touched.
	for _, pos := range []mgl32.Vec3{
		center,
		{5, 0, 4 * RowSpacing},
		{4, 0, 4*RowSpacing - 1},
	} {
		if err := th.UpdateLOD(pos); err != nil {
			t.Fatalf("UpdateLOD(%v): %v", pos, err)
		}
	}
	if up.uploads != baseline {
		t.Errorf("uploads after dead-band moves = %d, want %d", up.uploads, baseline)
	}
}

func TestUpdateLODRebuildsOnlyChangedTiles(t *testing.T) {
	th, up := newTestTiled(t)

	center := mgl32.Vec3{4, 0, 4 * RowSpacing}
	if err := th.UpdateLOD(center); err != nil {
		t.Fatalf("UpdateLOD: %v", err)
	}

	var nearID uuid.UUID
	th.Render(func(d Drawable, model mgl32.Mat4) {
		if nearID == uuid.Nil {
			nearID = d.ID() // row-major traversal: first tile is (0,0)
		}
	})

	// Well west of the grid: tile (0,0) keeps stride 1, the eastern column
	// drops detail, tile (1,1) clamps to tileSize-1.
	west := mgl32.Vec3{-4.5, 0, 2 * RowSpacing}
	if err := th.UpdateLOD(west); err != nil {
		t.Fatalf("UpdateLOD: %v", err)
	}
	if up.uploads != 6 {
		t.Errorf("uploads after partial rebuild = %d, want 6", up.uploads)
	}

	expect := map[[2]int]int{
		{0, 0}: 1,
		{0, 1}: 1,
		{1, 0}: 2,
		{1, 1}: 3,
	}
	for coord, want := range expect {
		lod, built := th.TileLOD(coord[0], coord[1])
		if !built || lod != want {
			t.Errorf("tile %v = lod %d built %v, want lod %d", coord, lod, built, want)
		}
	}

	// The unchanged tile must keep its drawable.
	var afterID uuid.UUID
	th.Render(func(d Drawable, model mgl32.Mat4) {
		if afterID == uuid.Nil {
			afterID = d.ID()
		}
	})
	if afterID != nearID {
		t.Errorf("tile (0,0) drawable replaced despite unchanged stride")
	}
}

func TestUpdateLODFarViewerClampsStride(t *testing.T) {
	th, up := newTestTiled(t)

	if err := th.UpdateLOD(mgl32.Vec3{4, 0, 4 * RowSpacing}); err != nil {
		t.Fatalf("UpdateLOD: %v", err)
	}
	if err := th.UpdateLOD(mgl32.Vec3{100, 0, 4 * RowSpacing}); err != nil {
		t.Fatalf("UpdateLOD: %v", err)
	}
	if up.uploads != 8 {
		t.Errorf("uploads after far move = %d, want 8", up.uploads)
	}
	for tz := 0; tz < 2; tz++ {
		for tx := 0; tx < 2; tx++ {
			lod, built := th.TileLOD(tx, tz)
			if !built || lod != 3 {
				t.Errorf("tile (%d,%d) = lod %d, want clamped lod 3", tx, tz, lod)
			}
		}
	}
}

func TestGenLODRangeAndMonotonicity(t *testing.T) {
	th, _ := newTestTiled(t)

	prev := 0
	for dist := float32(0); dist <= 200; dist += 2.5 {
		pos := mgl32.Vec3{2 + dist, 0, 2 * RowSpacing}
		lod := th.genLOD(pos, 0, 0)
		if lod < 1 || lod > 3 {
			t.Fatalf("genLOD at distance %v = %d, want within [1,3]", dist, lod)
		}
		if lod < prev {
			t.Fatalf("genLOD decreased from %d to %d at distance %v", prev, lod, dist)
		}
		prev = lod
	}
	if prev != 3 {
		t.Errorf("genLOD at max distance = %d, want clamped 3", prev)
	}
}

func TestUpdateLODUploadFailure(t *testing.T) {
	th, up := newTestTiled(t)
	up.failNext = true

	if err := th.UpdateLOD(mgl32.Vec3{4, 0, 4 * RowSpacing}); err == nil {
		t.Fatal("expected upload failure to propagate")
	}
}

func TestTiledTriangleAtUsesFullResolution(t *testing.T) {
	th, _ := newTestTiled(t)
	g := th.Grid()
	g.SetHeight(2, 2, 5)

	// Force coarse tiles everywhere, then query: collision must still see
	// the full-resolution sample.
	if err := th.UpdateLOD(mgl32.Vec3{500, 0, 500}); err != nil {
		t.Fatalf("UpdateLOD: %v", err)
	}
	tri := th.TriangleAt(mgl32.Vec3{1.6, 0, 1.3})
	found := false
	for _, v := range tri {
		if v.Y() == 5 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected full-resolution vertex in %v", tri)
	}
}

func TestTilesDimensions(t *testing.T) {
	th, _ := newTestTiled(t)
	tx, tz := th.Tiles()
	if tx != 2 || tz != 2 {
		t.Errorf("Tiles() = %d,%d, want 2,2", tx, tz)
	}
}

func TestNeighboringTilesShareBoundaryVertices(t *testing.T) {
	// Tile windows overlap one column and row into their neighbor, so
	// adjacent meshes share boundary vertices and the surface has no
	// un-meshed strip between tiles.
	th, up := newTestTiled(t)
	if err := th.UpdateLOD(mgl32.Vec3{4, 0, 4 * RowSpacing}); err != nil {
		t.Fatalf("UpdateLOD: %v", err)
	}

	g := th.Grid()
	hasVertex := func(m Mesh, want mgl32.Vec3) bool {
		for _, v := range m.Vertices {
			if v.Position[0] == want.X() && v.Position[2] == want.Z() {
				return true
			}
		}
		return false
	}

	// Build order is row-major: meshes[0] is tile (0,0), [1] is (1,0),
	// [2] is (0,1). Column 4 and row 4 are the shared boundaries.
	sharedColumn := g.Position(g.Index(4, 0))
	if !hasVertex(up.meshes[0], sharedColumn) {
		t.Error("tile (0,0) does not reach the shared boundary column")
	}
	if !hasVertex(up.meshes[1], sharedColumn) {
		t.Error("tile (1,0) does not include its boundary column")
	}
	sharedRow := g.Position(g.Index(0, 4))
	if !hasVertex(up.meshes[0], sharedRow) {
		t.Error("tile (0,0) does not reach the shared boundary row")
	}
	if !hasVertex(up.meshes[2], sharedRow) {
		t.Error("tile (0,1) does not include its boundary row")
	}
}

func TestTileOverlapStopsAtVertexCeiling(t *testing.T) {
	// An overlapped full-detail window on a 256 tile would be 257x257
	// samples, past the 16-bit index ceiling; exactly those tiles keep the
	// half-open window. BuildMesh rejects the overlapped size and accepts
	// the half-open one.
	g := NewGrid(260, 260, 0, 0, 1.0)
	if _, err := BuildMesh(g, 0, 257, 0, 257, 1); err == nil {
		t.Error("expected vertex ceiling error for an overlapped full-detail window")
	}
	if _, err := BuildMesh(g, 0, 256, 0, 256, 1); err != nil {
		t.Errorf("BuildMesh at the ceiling: %v", err)
	}
}

func TestGenLODExtremeDistance(t *testing.T) {
	th, _ := newTestTiled(t)

	// Far enough that the squared distance overflows float32.
	pos := mgl32.Vec3{gomath.MaxFloat32, 0, gomath.MaxFloat32}
	if lod := th.genLOD(pos, 0, 0); lod != 3 {
		t.Errorf("genLOD at extreme distance = %d, want clamped 3", lod)
	}
	if err := th.UpdateLOD(pos); err != nil {
		t.Fatalf("UpdateLOD at extreme distance: %v", err)
	}
}
