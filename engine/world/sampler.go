package world

// ChunkSample is the result of sampling a chunk's four corners: per-corner
// biome weights and elevations, plus whether all four corners agree on a
// single primary biome (a "pure" chunk, which skips sector-grid blending).
type ChunkSample struct {
	CornerWeights    [4]Weights
	CornerElevations [4]float64
	Pure             bool
	Primary          Biome
}

// Sampler is the contract the chunk store uses to source biome and
// elevation data. It must be pure in (pos, seed): no clocks, no atomics,
// no hidden state beyond the seed supplied at construction.
type Sampler interface {
	SampleChunk(coord ChunkCoord) ChunkSample
	SampleElevation(pos Pos) float64
	WorldSeed() uint64
}

// MockSampler is a fractal-noise-driven reference Sampler implementation.
// Moisture, temperature and elevation noises classify a primary biome per
// corner; thresholds are carried verbatim from the original classifier.
type MockSampler struct {
	seed uint64
}

// NewMockSampler constructs a MockSampler seeded from worldSeed.
func NewMockSampler(worldSeed uint64) *MockSampler {
	return &MockSampler{seed: worldSeed}
}

func (s *MockSampler) WorldSeed() uint64 { return s.seed }

func (s *MockSampler) SampleElevation(pos Pos) float64 {
	return s.elevation(float64(pos[0]), float64(pos[1]))
}

func (s *MockSampler) elevation(x, y float64) float64 {
	n := FractalNoise2D(x, y, 0.001, s.seed+1, 4, 0.5)
	return n * 100
}

func (s *MockSampler) moisture(x, y float64) float64 {
	return FractalNoise2D(x, y, 0.0002, s.seed+100, 3, 0.5)
}

func (s *MockSampler) temperature(x, y float64) float64 {
	return FractalNoise2D(x, y, 0.0002*0.7, s.seed+200, 2, 0.6)
}

// classify applies the original MockWorldSampler's exact thresholds.
func (s *MockSampler) classify(x, y float64) Biome {
	elevation := s.elevation(x, y) / 100
	moisture := s.moisture(x, y)
	temperature := s.temperature(x, y)

	switch {
	case elevation > 0.8:
		return Mountain
	case moisture < 0.2:
		if temperature > 0.6 {
			return Desert
		}
		return Tundra
	case moisture > 0.7:
		if elevation < 0.2 {
			return Ocean
		}
		return Wetland
	case temperature > 0.5 && moisture > 0.4:
		return Forest
	case elevation < 0.15 && moisture > 0.3:
		return Beach
	default:
		return Grassland
	}
}

func (s *MockSampler) SampleChunk(coord ChunkCoord) ChunkSample {
	var sample ChunkSample
	corners := [4]ChunkCorner{NorthWest, NorthEast, SouthWest, SouthEast}
	for i, corner := range corners {
		p := coord.Corner(corner)
		b := s.classify(float64(p[0]), float64(p[1]))
		sample.CornerWeights[i] = SingleBiome(b)
		sample.CornerElevations[i] = s.elevation(float64(p[0]), float64(p[1]))
	}
	primary := sample.CornerWeights[0].Primary()
	pure := true
	for _, w := range sample.CornerWeights[1:] {
		if w.Primary() != primary {
			pure = false
			break
		}
	}
	sample.Pure = pure
	sample.Primary = primary
	return sample
}
