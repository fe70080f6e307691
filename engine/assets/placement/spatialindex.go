// Package placement implements the dependency-ordered, relationship-aware
// static entity placement pipeline: the spatial index, dependency graph,
// per-chunk executor and async worker pool that integrates results back on
// the main thread.
package placement

import (
	"github.com/brentp/intintmap"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// DefaultCellSize is the spatial index's default grid cell edge, in meters.
const DefaultCellSize = 4.0

// PlacedEntity is one statically placed entity.
type PlacedEntity struct {
	DefName  string
	Position worldpkg.Pos

	// Cooldown is game-seconds remaining before a harvested-but-regrowing
	// entity yields again; 0 means ready.
	Cooldown float64
	// ResourceCount is the remaining harvests before a destructive or
	// pooled resource is depleted and removed; 0 means unbounded, matching
	// HarvestableProperties.TotalPool.
	ResourceCount int
}

// SpatialIndex is a grid-hashed per-chunk store of placed entities
// supporting O(1) insert and radius queries. It owns entity storage;
// returned slices are valid until the next mutation.
type SpatialIndex struct {
	cellSize float64
	// cellLookup maps a packed cell key to its slot in buckets. intintmap's
	// open-addressed int64 map keeps the radius-query hot path (one probe
	// per candidate cell in the bounding box) off Go's generic map.
	cellLookup *intintmap.Map
	buckets    [][]PlacedEntity
}

// NewSpatialIndex constructs an index with the given cell size (meters);
// cellSize <= 0 defaults to DefaultCellSize.
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &SpatialIndex{
		cellSize:   cellSize,
		cellLookup: intintmap.New(64, 0.6),
	}
}

func (s *SpatialIndex) cellKey(pos worldpkg.Pos) int64 {
	cx := int64(floorDiv(float64(pos[0]), s.cellSize))
	cy := int64(floorDiv(float64(pos[1]), s.cellSize))
	return (cx << 32) | (cy & 0xFFFFFFFF)
}

func floorDiv(v, d float64) int64 {
	q := v / d
	i := int64(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}

// bucketSlot resolves a cell key to its bucket index, or -1 if the cell
// holds nothing.
func (s *SpatialIndex) bucketSlot(key int64) int {
	slot, ok := s.cellLookup.Get(key)
	if !ok {
		return -1
	}
	return int(slot)
}

// Insert adds an entity to its cell's bucket, allocating the bucket on the
// cell's first entity.
func (s *SpatialIndex) Insert(e PlacedEntity) {
	key := s.cellKey(e.Position)
	slot := s.bucketSlot(key)
	if slot < 0 {
		slot = len(s.buckets)
		s.cellLookup.Put(key, int64(slot))
		s.buckets = append(s.buckets, nil)
	}
	s.buckets[slot] = append(s.buckets[slot], e)
}

// Clear empties the index.
func (s *SpatialIndex) Clear() {
	s.cellLookup = intintmap.New(64, 0.6)
	s.buckets = nil
}

// Size returns the total number of placed entities.
func (s *SpatialIndex) Size() int {
	n := 0
	for _, b := range s.buckets {
		n += len(b)
	}
	return n
}

func (s *SpatialIndex) cellsInRadius(center worldpkg.Pos, radius float64) []int64 {
	minX := floorDiv(float64(center[0])-radius, s.cellSize)
	maxX := floorDiv(float64(center[0])+radius, s.cellSize)
	minY := floorDiv(float64(center[1])-radius, s.cellSize)
	maxY := floorDiv(float64(center[1])+radius, s.cellSize)
	var keys []int64
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			keys = append(keys, (cx<<32)|(cy&0xFFFFFFFF))
		}
	}
	return keys
}

// QueryRadius returns every placed entity within radius of center,
// optionally filtered to a single defName or a set of defNames.
func (s *SpatialIndex) QueryRadius(center worldpkg.Pos, radius float64, defNames ...string) []PlacedEntity {
	var filter map[string]bool
	if len(defNames) > 0 {
		filter = make(map[string]bool, len(defNames))
		for _, n := range defNames {
			filter[n] = true
		}
	}
	r2 := radius * radius
	var out []PlacedEntity
	for _, key := range s.cellsInRadius(center, radius) {
		slot := s.bucketSlot(key)
		if slot < 0 {
			continue
		}
		for _, e := range s.buckets[slot] {
			if filter != nil && !filter[e.DefName] {
				continue
			}
			dx := float64(e.Position[0] - center[0])
			dy := float64(e.Position[1] - center[1])
			if dx*dx+dy*dy <= r2 {
				out = append(out, e)
			}
		}
	}
	return out
}

// HasNearby short-circuits on the first matching entity within radius.
func (s *SpatialIndex) HasNearby(center worldpkg.Pos, radius float64, defName string) bool {
	return s.hasNearbyFilter(center, radius, func(e PlacedEntity) bool { return e.DefName == defName })
}

// HasNearbyGroup short-circuits on the first entity within radius whose
// defName is in the group set.
func (s *SpatialIndex) HasNearbyGroup(center worldpkg.Pos, radius float64, group map[string]bool) bool {
	return s.hasNearbyFilter(center, radius, func(e PlacedEntity) bool { return group[e.DefName] })
}

func (s *SpatialIndex) hasNearbyFilter(center worldpkg.Pos, radius float64, match func(PlacedEntity) bool) bool {
	r2 := radius * radius
	for _, key := range s.cellsInRadius(center, radius) {
		slot := s.bucketSlot(key)
		if slot < 0 {
			continue
		}
		for _, e := range s.buckets[slot] {
			if !match(e) {
				continue
			}
			dx := float64(e.Position[0] - center[0])
			dy := float64(e.Position[1] - center[1])
			if dx*dx+dy*dy <= r2 {
				return true
			}
		}
	}
	return false
}

// setCooldown finds the placed entity at pos with defName and sets its
// regrowth cooldown, returning whether one was found.
func (s *SpatialIndex) setCooldown(pos worldpkg.Pos, defName string, cooldown float64) bool {
	slot := s.bucketSlot(s.cellKey(pos))
	if slot < 0 {
		return false
	}
	bucket := s.buckets[slot]
	for i := range bucket {
		if bucket[i].DefName == defName && bucket[i].Position == pos {
			bucket[i].Cooldown = cooldown
			return true
		}
	}
	return false
}

// decrementResourceCount finds the placed entity at pos with defName and
// decrements its remaining harvest pool by one, returning the new count and
// whether one was found.
func (s *SpatialIndex) decrementResourceCount(pos worldpkg.Pos, defName string) (int, bool) {
	slot := s.bucketSlot(s.cellKey(pos))
	if slot < 0 {
		return 0, false
	}
	bucket := s.buckets[slot]
	for i := range bucket {
		if bucket[i].DefName == defName && bucket[i].Position == pos {
			if bucket[i].ResourceCount > 0 {
				bucket[i].ResourceCount--
			}
			return bucket[i].ResourceCount, true
		}
	}
	return 0, false
}

// RemoveEntity removes the first placed entity at pos with defName,
// returning whether one was found. Used by destructive harvest actions.
// An emptied bucket stays registered so other cells' slots remain stable.
func (s *SpatialIndex) RemoveEntity(pos worldpkg.Pos, defName string) bool {
	slot := s.bucketSlot(s.cellKey(pos))
	if slot < 0 {
		return false
	}
	bucket := s.buckets[slot]
	for i, e := range bucket {
		if e.DefName == defName && e.Position == pos {
			s.buckets[slot] = append(bucket[:i], bucket[i+1:]...)
			return true
		}
	}
	return false
}
