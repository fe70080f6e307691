package chunk

import (
	"testing"

	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// pondChunk generates a pure grassland chunk with a square pond of the
// given half-width punched in at (cx, cy), then re-runs post-processing so
// the mud ring and adjacency reflect the pond.
func pondChunk(t *testing.T, seed uint64, cx, cy, half int) *Chunk {
	t.Helper()
	c := Generate(worldpkg.ChunkCoord{X: 0, Y: 0}, seed, pureSample(worldpkg.Grassland))
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			tile := c.Tile(cx+dx, cy+dy)
			tile.Surface = Water
			c.setTile(cx+dx, cy+dy, tile)
		}
	}
	Postprocess(c, seed)
	return c
}

// TestMudRingSurroundsPond checks scenario: a 5x5 pond grows a mud ring at
// least one tile wide on all four cardinal sides.
func TestMudRingSurroundsPond(t *testing.T) {
	const cx, cy, half = 256, 256, 2
	c := pondChunk(t, 12345, cx, cy, half)

	edges := []struct {
		name   string
		x, y   int
	}{
		{"north", cx, cy - half - 1},
		{"south", cx, cy + half + 1},
		{"west", cx - half - 1, cy},
		{"east", cx + half + 1, cy},
	}
	for _, e := range edges {
		if s := c.Tile(e.x, e.y).Surface; s != Mud {
			t.Errorf("%s edge tile (%d,%d) = %v, want Mud", e.name, e.x, e.y, s)
		}
	}
}

// TestMudContiguity checks every mud tile reaches a water tile through a
// chain of cardinal-adjacent mud or water tiles: the flood fill can't
// produce detached mud or doughnuts.
func TestMudContiguity(t *testing.T) {
	c := pondChunk(t, 999, 128, 300, 2)
	size := worldpkg.ChunkSize

	// Flood outward from every water tile across water/mud.
	reachable := make([]bool, size*size)
	var queue []int
	for ly := 0; ly < size; ly++ {
		for lx := 0; lx < size; lx++ {
			if c.Tile(lx, ly).Surface == Water {
				reachable[idx(lx, ly)] = true
				queue = append(queue, idx(lx, ly))
			}
		}
	}
	offsets := [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		lx, ly := i%size, i/size
		for _, off := range offsets {
			nx, ny := lx+off[0], ly+off[1]
			if nx < 0 || ny < 0 || nx >= size || ny >= size {
				continue
			}
			j := idx(nx, ny)
			if reachable[j] {
				continue
			}
			s := c.Tile(nx, ny).Surface
			if s == Mud || s == Water {
				reachable[j] = true
				queue = append(queue, j)
			}
		}
	}

	for ly := 0; ly < size; ly++ {
		for lx := 0; lx < size; lx++ {
			if c.Tile(lx, ly).Surface == Mud && !reachable[idx(lx, ly)] {
				t.Fatalf("mud tile (%d,%d) unreachable from any water tile", lx, ly)
			}
		}
	}
}

// TestAdjacencyConsistency verifies every tile's packed neighbors match the
// tiles actually stored at the eight offsets, with 0 outside the chunk.
func TestAdjacencyConsistency(t *testing.T) {
	c := pondChunk(t, 777, 256, 256, 2)

	checks := [][2]int{
		{0, 0}, {511, 511}, {0, 511}, {511, 0}, // corners: out-of-chunk neighbors
		{256, 256}, {254, 254}, {258, 253}, // around the pond
		{100, 400}, {1, 1}, {510, 255},
	}
	for _, pos := range checks {
		lx, ly := pos[0], pos[1]
		adj := c.Tile(lx, ly).Adjacency
		for d := Direction(0); d < 8; d++ {
			off := DirectionOffsets[d]
			nx, ny := lx+off[0], ly+off[1]
			want := OutOfChunk
			if nx >= 0 && ny >= 0 && nx < worldpkg.ChunkSize && ny < worldpkg.ChunkSize {
				want = SurfaceCode(c.Tile(nx, ny).Surface)
			}
			if got := adj.Neighbor(d); got != want {
				t.Errorf("tile (%d,%d) direction %d: encoded %d, actual %d", lx, ly, d, got, want)
			}
		}
	}
}

// TestShoreDetection checks the packed adjacency answers the water-shore
// query the renderer and spawn rules use.
func TestShoreDetection(t *testing.T) {
	const cx, cy, half = 256, 256, 2
	c := pondChunk(t, 12345, cx, cy, half)

	// The mud tile directly north of the pond has water as its south
	// neighbor.
	shore := c.Tile(cx, cy-half-1).Adjacency
	if !shore.HasAdjacentSurface(Water) {
		t.Error("tile bordering the pond does not report adjacent water")
	}

	far := c.Tile(10, 10).Adjacency
	if far.HasAdjacentSurface(Water) {
		t.Error("tile far from the pond reports adjacent water")
	}

	// Chunk-edge tiles have out-of-chunk neighbors (encoded 0), which must
	// never read as water.
	for _, corner := range [][2]int{{0, 0}, {511, 0}, {0, 511}, {511, 511}} {
		adj := c.Tile(corner[0], corner[1]).Adjacency
		if adj.HasAdjacentSurface(Water) {
			t.Errorf("corner tile (%d,%d) reports water from an out-of-chunk neighbor", corner[0], corner[1])
		}
	}
}
