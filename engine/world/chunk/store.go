package chunk

import (
	"log/slog"

	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// StoreConfig configures a Store's load/unload hysteresis.
type StoreConfig struct {
	Logger       *slog.Logger
	Sampler      worldpkg.Sampler
	LoadRadius   int32 // default 2
	UnloadRadius int32 // default 4
}

// Store loads, caches and evicts chunks around a moving center, with
// hysteresis between LoadRadius and UnloadRadius to prevent thrashing near a
// boundary.
type Store struct {
	log          *slog.Logger
	sampler      worldpkg.Sampler
	loadRadius   int32
	unloadRadius int32

	chunks map[worldpkg.ChunkCoord]*Chunk
	center worldpkg.ChunkCoord
	hasCenter bool
}

// NewStore constructs a Store, defaulting LoadRadius=2 and UnloadRadius=4
// (the original chunk manager's defaults) when unset.
func NewStore(cfg StoreConfig) *Store {
	if cfg.LoadRadius <= 0 {
		cfg.LoadRadius = 2
	}
	if cfg.UnloadRadius <= 0 {
		cfg.UnloadRadius = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{
		log:          cfg.Logger,
		sampler:      cfg.Sampler,
		loadRadius:   cfg.LoadRadius,
		unloadRadius: cfg.UnloadRadius,
		chunks:       make(map[worldpkg.ChunkCoord]*Chunk),
	}
}

// Update loads every chunk within LoadRadius (a square window, not a disc)
// of the chunk containing centerWorldPos, then — only if the center chunk
// actually changed — unloads chunks beyond UnloadRadius.
func (s *Store) Update(centerWorldPos worldpkg.Pos) {
	newCenter := worldpkg.WorldToChunk(centerWorldPos)
	changed := !s.hasCenter || newCenter != s.center

	for dx := -s.loadRadius; dx <= s.loadRadius; dx++ {
		for dy := -s.loadRadius; dy <= s.loadRadius; dy++ {
			coord := worldpkg.ChunkCoord{X: newCenter.X + dx, Y: newCenter.Y + dy}
			if _, ok := s.chunks[coord]; !ok {
				s.load(coord)
			}
		}
	}

	s.center = newCenter
	s.hasCenter = true

	if changed {
		for coord := range s.chunks {
			if coord.ChebyshevDistance(newCenter) > s.unloadRadius {
				delete(s.chunks, coord)
			}
		}
	}
}

func (s *Store) load(coord worldpkg.ChunkCoord) {
	sample := s.sampler.SampleChunk(coord)
	s.chunks[coord] = Generate(coord, s.sampler.WorldSeed(), sample)
}

// GetChunk returns a chunk handle, touching its last-accessed instant, or
// nil if the chunk is not currently loaded (never loaded, or unloaded once
// beyond UnloadRadius).
func (s *Store) GetChunk(coord worldpkg.ChunkCoord) *Chunk {
	c, ok := s.chunks[coord]
	if !ok {
		return nil
	}
	c.Touch()
	return c
}

// VisibleChunks returns every loaded chunk coordinate in the axis-aligned
// chunk rectangle covering the world-space rectangle [min, max], skipping
// unloaded coordinates.
func (s *Store) VisibleChunks(min, max worldpkg.Pos) []worldpkg.ChunkCoord {
	lo := worldpkg.WorldToChunk(min)
	hi := worldpkg.WorldToChunk(max)
	var out []worldpkg.ChunkCoord
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			coord := worldpkg.ChunkCoord{X: x, Y: y}
			if _, ok := s.chunks[coord]; ok {
				out = append(out, coord)
			}
		}
	}
	return out
}

// Loaded reports whether a chunk coordinate is currently loaded.
func (s *Store) Loaded(coord worldpkg.ChunkCoord) bool {
	_, ok := s.chunks[coord]
	return ok
}
