// Package render extracts per-frame draw state from the simulation. The
// core owns nothing of the renderer: Extract returns plain value
// snapshots a host render pass consumes and discards.
package render

import (
	"github.com/vev-studio/worldcore/engine/assets/placement"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	"github.com/vev-studio/worldcore/engine/selection"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
	"github.com/vev-studio/worldcore/engine/world/chunk"
)

// ChunkDraw is one visible chunk and its placed static entities.
type ChunkDraw struct {
	Coord    worldpkg.ChunkCoord
	Chunk    *chunk.Chunk
	Entities []placement.PlacedEntity
}

// DynamicDraw is one dynamic ECS entity's draw state.
type DynamicDraw struct {
	Entity   ecs.EntityID
	Position worldpkg.Pos
	Radians  float32
	DefName  string
	Scale    float32
	Tint     [4]float32
}

// GhostDraw is a pending placement preview: a packaged entity with a
// target position set but not yet placed.
type GhostDraw struct {
	DefName  string
	Position worldpkg.Pos
	Scale    float32
}

// Frame is everything a render pass reads for one frame.
type Frame struct {
	Chunks   []ChunkDraw
	Dynamics []DynamicDraw
	Ghosts   []GhostDraw

	Selection selection.Selection
}

// Extractor reads simulation state into Frames.
type Extractor struct {
	registry *ecs.Registry
	store    *chunk.Store
	executor *placement.Executor
	resolver *selection.Resolver
}

// NewExtractor constructs an Extractor. resolver may be nil when the host
// has no selection UI.
func NewExtractor(registry *ecs.Registry, store *chunk.Store, executor *placement.Executor, resolver *selection.Resolver) *Extractor {
	return &Extractor{registry: registry, store: store, executor: executor, resolver: resolver}
}

// Extract snapshots draw state for the world rectangle [viewMin, viewMax].
func (x *Extractor) Extract(viewMin, viewMax worldpkg.Pos) Frame {
	var frame Frame

	for _, coord := range x.store.VisibleChunks(viewMin, viewMax) {
		draw := ChunkDraw{Coord: coord, Chunk: x.store.GetChunk(coord)}
		if index := x.executor.GetChunkIndex(coord); index != nil {
			center := coord.Center()
			// A radius covering the whole chunk: half the diagonal.
			draw.Entities = index.QueryRadius(center, worldpkg.ChunkSize*0.7072)
		}
		frame.Chunks = append(frame.Chunks, draw)
	}

	for _, e := range ecs.View3[components.Position, components.Rotation, components.Appearance](x.registry) {
		frame.Dynamics = append(frame.Dynamics, DynamicDraw{
			Entity:   e.Entity,
			Position: e.A.Value,
			Radians:  e.B.Radians,
			DefName:  e.C.DefName,
			Scale:    e.C.Scale,
			Tint:     e.C.ColorTint,
		})
	}

	for _, e := range ecs.View2[components.Packaged, components.Appearance](x.registry) {
		if !e.A.HasTargetPos {
			continue
		}
		frame.Ghosts = append(frame.Ghosts, GhostDraw{
			DefName:  e.A.DefName,
			Position: e.A.TargetPosition,
			Scale:    e.B.Scale,
		})
	}

	if x.resolver != nil {
		frame.Selection = x.resolver.Current()
	}
	return frame
}
