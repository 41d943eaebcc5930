package terrain

import "testing"

func TestFromNoiseDeterministic(t *testing.T) {
	a := FromNoise(16, 16, 0, 10, 0, 0, 1.0, 42)
	b := FromNoise(16, 16, 0, 10, 0, 0, 1.0, 42)

	for i := range a.heights {
		if a.heights[i] != b.heights[i] {
			t.Fatalf("height %d differs between identical seeds: %v vs %v",
				i, a.heights[i], b.heights[i])
		}
	}
}

func TestFromNoiseRange(t *testing.T) {
	g := FromNoise(32, 32, 2, 8, 0, 0, 1.0, 7)
	for i, h := range g.heights {
		if h < 2 || h > 8 {
			t.Errorf("height %d = %v, outside [2, 8]", i, h)
		}
	}
}

func TestFromNoiseSeedsDiffer(t *testing.T) {
	a := FromNoise(16, 16, 0, 10, 0, 0, 1.0, 1)
	b := FromNoise(16, 16, 0, 10, 0, 0, 1.0, 2)

	same := true
	for i := range a.heights {
		if a.heights[i] != b.heights[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical terrain")
	}
}
