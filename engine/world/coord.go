// Package world holds the coordinate system, deterministic noise primitives
// and the biome/elevation sampler that the chunk store builds on.
package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkSize is the number of tiles along one edge of a chunk.
const ChunkSize = 512

// TileSize is the edge length of a tile in meters.
const TileSize = 1.0

// Pos is a continuous world-space position in meters.
type Pos = mgl32.Vec2

// ChunkCorner names one of a chunk's four corners.
type ChunkCorner uint8

const (
	NorthWest ChunkCorner = iota
	NorthEast
	SouthWest
	SouthEast
)

// ChunkCoord identifies a chunk on the integer chunk grid.
type ChunkCoord struct {
	X, Y int32
}

// Origin returns the world-space position of this chunk's north-west corner.
func (c ChunkCoord) Origin() Pos {
	return Pos{float32(c.X) * ChunkSize, float32(c.Y) * ChunkSize}
}

// Center returns the world-space position at the middle of the chunk.
func (c ChunkCoord) Center() Pos {
	o := c.Origin()
	return Pos{o[0] + ChunkSize/2, o[1] + ChunkSize/2}
}

// Corner returns the world-space position of the requested corner.
func (c ChunkCoord) Corner(corner ChunkCorner) Pos {
	o := c.Origin()
	switch corner {
	case NorthEast:
		return Pos{o[0] + ChunkSize, o[1]}
	case SouthWest:
		return Pos{o[0], o[1] + ChunkSize}
	case SouthEast:
		return Pos{o[0] + ChunkSize, o[1] + ChunkSize}
	default:
		return o
	}
}

// ManhattanDistance returns |dx| + |dy| between two chunk coordinates.
func (c ChunkCoord) ManhattanDistance(other ChunkCoord) int32 {
	return abs32(c.X-other.X) + abs32(c.Y-other.Y)
}

// ChebyshevDistance returns max(|dx|, |dy|) between two chunk coordinates.
func (c ChunkCoord) ChebyshevDistance(other ChunkCoord) int32 {
	dx, dy := abs32(c.X-other.X), abs32(c.Y-other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// WorldToChunk returns the chunk coordinate containing a world position.
func WorldToChunk(pos Pos) ChunkCoord {
	return ChunkCoord{
		X: int32(math.Floor(float64(pos[0]) / ChunkSize)),
		Y: int32(math.Floor(float64(pos[1]) / ChunkSize)),
	}
}

// WorldToLocalTile converts a world position into a chunk-local tile index
// pair in [0, ChunkSize), wrapping negative coordinates correctly.
func WorldToLocalTile(pos Pos) (x, y int) {
	x = wrapMod(int(math.Floor(float64(pos[0]))), ChunkSize)
	y = wrapMod(int(math.Floor(float64(pos[1]))), ChunkSize)
	return x, y
}

func wrapMod(v, m int) int {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}
