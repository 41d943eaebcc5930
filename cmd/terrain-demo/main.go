// Package main runs the terrain demo headlessly: a Perlin-generated height
// grid, the tiled LOD heightmap, and a scripted physics-driven walker. Input
// handling and the GPU are replaced by a movement script and an in-memory
// upload backend.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/whbboyd/gl-demo/internal/config"
	"github.com/whbboyd/gl-demo/internal/engine/camera"
	"github.com/whbboyd/gl-demo/internal/engine/character"
	"github.com/whbboyd/gl-demo/internal/engine/renderer"
	"github.com/whbboyd/gl-demo/internal/engine/terrain"
	"github.com/whbboyd/gl-demo/internal/logger"
)

// fpsMessageInterval is how many frames pass between frame-rate log lines.
const fpsMessageInterval = 500

// cameraHeight is the camera's offset above the character's feet.
const cameraHeight = 0.5

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== terrain demo ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("fatal error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("demo finished")
}

func run(cfg *config.Config) error {
	logger.Info("building world",
		zap.Int("width", cfg.Terrain.Width),
		zap.Int("rows", cfg.Terrain.Rows),
		zap.Int("tile_size", cfg.Terrain.TileSize),
		zap.Int64("seed", cfg.Terrain.Seed))

	grid := terrain.FromNoise(
		cfg.Terrain.Width, cfg.Terrain.Rows,
		cfg.Terrain.Lowest, cfg.Terrain.Highest,
		cfg.Terrain.XOffset, cfg.Terrain.ZOffset, cfg.Terrain.Resolution,
		cfg.Terrain.Seed)

	backend := renderer.NewHeadless()
	floor, err := terrain.NewTiled(grid, cfg.Terrain.TileSize, backend)
	if err != nil {
		return fmt.Errorf("creating tiled heightmap: %w", err)
	}

	// Start in the middle of the grid, a little above it; the first ground
	// query settles the character onto the surface.
	startX := cfg.Terrain.XOffset + float32(cfg.Terrain.Width)/2*cfg.Terrain.Resolution
	startZ := cfg.Terrain.ZOffset + float32(cfg.Terrain.Rows)/2*cfg.Terrain.Resolution*terrain.RowSpacing
	char := character.NewCharacterState(
		mgl32.Vec3{startX, cfg.Terrain.Highest, startZ},
		mgl32.Vec3{},
		cfg.Character.MaxSpeed,
		cfg.Character.Decel,
		cfg.Character.MaxJump,
		cfg.Character.Gravity)

	movement := &character.MovementState{Forward: true}
	dir := mgl32.Vec3{1, 0, 0}
	cam := camera.NewFollowCamera(mgl32.Vec3{0, cameraHeight, 0})
	cam.Follow(char.Loc, dir)

	logger.Info("starting demo loop", zap.Int("frames", cfg.Demo.Frames))
	lastTime := time.Now()
	var drawList []renderer.Instance

	for frame := 1; cfg.Demo.Frames == 0 || frame <= cfg.Demo.Frames; frame++ {
		// Scripted input: hold forward, tap jump for 30 ticks out of every
		// 180, and turn around at the edge of the queryable area.
		wasJumping := movement.Jumping
		movement.Jumping = frame%180 < 30
		if wasJumping && !movement.Jumping {
			movement.CanJump = 0
		}
		ahead := char.Loc.Add(dir.Mul(2 * cfg.Terrain.Resolution))
		if !grid.Contains(ahead) {
			dir = dir.Mul(-1)
		}

		if err := floor.UpdateLOD(cam.Eye()); err != nil {
			return fmt.Errorf("updating terrain LOD: %w", err)
		}

		drawList = drawList[:0]
		floor.Render(func(d terrain.Drawable, model mgl32.Mat4) {
			drawList = append(drawList, renderer.Instance{Drawable: d, Model: model})
		})

		char.Step(dir, movement, floor)
		cam.Follow(char.Loc, dir)

		if frame%fpsMessageInterval == 0 {
			now := time.Now()
			elapsed := now.Sub(lastTime).Seconds()
			lastTime = now
			logger.Info("frame summary",
				zap.Int("frame", frame),
				zap.Float64("fps", fpsMessageInterval/elapsed),
				zap.Int("drawables", len(drawList)),
				zap.Int("uploads", backend.Uploads()),
				zap.Float32("x", char.Loc.X()),
				zap.Float32("y", char.Loc.Y()),
				zap.Float32("z", char.Loc.Z()))
		}
	}

	logger.Info("simulation complete", zap.Int("total_uploads", backend.Uploads()))
	return nil
}
