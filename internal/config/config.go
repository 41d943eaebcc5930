// Package config handles demo configuration loading and management.
package config

// Config holds all demo settings.
type Config struct {
	Terrain   TerrainConfig   `yaml:"terrain"`
	Character CharacterConfig `yaml:"character"`
	Demo      DemoConfig      `yaml:"demo"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TerrainConfig describes the generated height grid and its tiling.
type TerrainConfig struct {
	Width      int     `yaml:"width"`      // grid columns; must be a multiple of tile_size
	Rows       int     `yaml:"rows"`       // grid rows; must be a multiple of tile_size
	Resolution float32 `yaml:"resolution"` // world units between columns
	XOffset    float32 `yaml:"x_offset"`   // world X of column 0 on even rows
	ZOffset    float32 `yaml:"z_offset"`   // world Z of row 0
	Lowest     float32 `yaml:"lowest"`     // lowest terrain height
	Highest    float32 `yaml:"highest"`    // highest terrain height
	TileSize   int     `yaml:"tile_size"`  // LOD tile side in grid cells
	Seed       int64   `yaml:"seed"`       // noise seed
}

// CharacterConfig holds the integrator constants, in world units per tick
// and per tick squared.
type CharacterConfig struct {
	MaxSpeed float32 `yaml:"max_speed"`
	Decel    float32 `yaml:"decel"`
	MaxJump  float32 `yaml:"max_jump"`
	Gravity  float32 `yaml:"gravity"`
}

// DemoConfig holds demo loop settings.
type DemoConfig struct {
	Frames int `yaml:"frames"` // ticks to simulate; 0 means run forever
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values. The character
// constants reach max speed in five ticks and clear roughly one cell per
// jump at the default resolution.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Width:      512,
			Rows:       512,
			Resolution: 1.0,
			XOffset:    -256,
			ZOffset:    -221,
			Lowest:     0,
			Highest:    10,
			TileSize:   256,
			Seed:       1,
		},
		Character: CharacterConfig{
			MaxSpeed: 0.2,
			Decel:    0.05,
			MaxJump:  0.2,
			Gravity:  0.02,
		},
		Demo: DemoConfig{
			Frames: 2000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
