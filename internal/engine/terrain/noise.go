package terrain

import (
	"github.com/aquilax/go-perlin"
)

// Perlin parameters tuned so that features span a couple dozen grid cells.
const (
	noiseAlpha     = 2.0
	noiseBeta      = 2.0
	noiseOctaves   = 3
	noiseFrequency = 0.03
)

// FromNoise builds a grid with Perlin-sourced heights in [lowest, highest].
// The same seed always yields the same terrain, which keeps demo runs and
// tests reproducible without shipping raster assets.
func FromNoise(width, rows int, lowest, highest, xOffset, zOffset, resolution float32, seed int64) *HeightGrid {
	g := NewGrid(width, rows, xOffset, zOffset, resolution)
	p := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)
	for z := 0; z < rows; z++ {
		for x := 0; x < width; x++ {
			n := p.Noise2D(float64(x)*noiseFrequency, float64(z)*noiseFrequency)
			h := lowest + (float32(n)*0.5+0.5)*(highest-lowest)
			if h < lowest {
				h = lowest
			} else if h > highest {
				h = highest
			}
			g.SetHeight(x, z, h)
		}
	}
	return g
}
