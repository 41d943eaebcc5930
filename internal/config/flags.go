package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagFrames = flag.Int("frames", -1, "Number of ticks to simulate (overrides config)")
	flagSeed   = flag.Int64("seed", 0, "Terrain noise seed (overrides config)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagFrames >= 0 {
		cfg.Demo.Frames = *flagFrames
	}
	if *flagSeed != 0 {
		cfg.Terrain.Seed = *flagSeed
	}
}
