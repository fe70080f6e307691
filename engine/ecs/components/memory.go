package components

import (
	"github.com/segmentio/fasthash/fnv1a"

	"github.com/vev-studio/worldcore/engine/assets"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// knownWorldEntity is what a colonist remembers about a static, placed
// world entity: where it was and what it's called.
type knownWorldEntity struct {
	key         uint64
	Position    worldpkg.Pos
	DefName     string
	Capabilities assets.Capability
}

// knownDynamicEntity is what a colonist remembers about a mobile entity
// (another colonist, a carried item) last seen at a position.
type knownDynamicEntity struct {
	Entity       uint64
	Position     worldpkg.Pos
	Capabilities assets.Capability
}

// Memory is a colonist's recollection of entities it has seen. World
// entities are keyed by a quantized-position+name hash so revisiting the
// same tile updates rather than duplicates the entry. A per-capability
// bucket index lets MemoryQueries filter by capability without scanning
// every remembered entity — an addition over the original, which only
// scanned linearly (MemoryQueries.cpp's findKnownWithCapability), because
// spec.md's decision evaluator calls this once per need per colonist per
// re-evaluation and a linear scan there is the wrong complexity budget.
type Memory struct {
	worldEntities map[uint64]knownWorldEntity
	dynamicEntities map[uint64]knownDynamicEntity

	worldByCapability map[assets.Capability][]uint64

	// SightRadius is how far, in meters, VisionSystem scans for placed
	// entities to remember each tick.
	SightRadius float32
}

// DefaultSightRadius matches the original's colonist vision range.
const DefaultSightRadius float32 = 15.0

// NewMemory constructs an empty Memory with DefaultSightRadius.
func NewMemory() Memory {
	return Memory{
		worldEntities:     make(map[uint64]knownWorldEntity),
		dynamicEntities:   make(map[uint64]knownDynamicEntity),
		worldByCapability: make(map[assets.Capability][]uint64),
		SightRadius:       DefaultSightRadius,
	}
}

// WorldEntityKey quantizes pos to 0.1m steps (position*10, truncated toward
// zero to int32) and combines it with defName's hash, mirroring the original's
// scheme of reducing floating-point position to a stable integer key before
// hashing (Memory.h's hashWorldEntity), ported to fasthash's FNV-1a instead
// of the original's std::hash composition. The same key identifies the
// entity in Memory, the task registry and goal item reservations.
func WorldEntityKey(pos worldpkg.Pos, defName string) uint64 {
	return hashWorldEntity(pos, defName)
}

func hashWorldEntity(pos worldpkg.Pos, defName string) uint64 {
	qx := int32(pos[0] * 10)
	qy := int32(pos[1] * 10)
	h := fnv1a.HashUint64(uint64(uint32(qx))<<32 | uint64(uint32(qy)))
	h = fnv1a.AddString64(h, defName)
	return h
}

// RememberWorldEntity records (or refreshes) a static world entity's
// position, name and capabilities, indexing it under every capability bit
// it carries.
func (m *Memory) RememberWorldEntity(pos worldpkg.Pos, defName string, caps assets.Capability) {
	key := hashWorldEntity(pos, defName)
	if _, exists := m.worldEntities[key]; !exists {
		for bit := assets.Capability(1); bit != 0; bit <<= 1 {
			if caps&bit != 0 {
				m.worldByCapability[bit] = append(m.worldByCapability[bit], key)
			}
		}
	}
	m.worldEntities[key] = knownWorldEntity{key: key, Position: pos, DefName: defName, Capabilities: caps}
}

// KnowsWorldEntity reports whether a world entity at pos named defName is
// remembered.
func (m *Memory) KnowsWorldEntity(pos worldpkg.Pos, defName string) bool {
	_, ok := m.worldEntities[hashWorldEntity(pos, defName)]
	return ok
}

// RememberDynamicEntity records (or refreshes) a mobile entity's last seen
// position and capabilities.
func (m *Memory) RememberDynamicEntity(entity uint64, pos worldpkg.Pos, caps assets.Capability) {
	m.dynamicEntities[entity] = knownDynamicEntity{Entity: entity, Position: pos, Capabilities: caps}
}

// KnowsDynamicEntity reports whether entity is currently remembered.
func (m *Memory) KnowsDynamicEntity(entity uint64) bool {
	_, ok := m.dynamicEntities[entity]
	return ok
}

// WorldEntitiesWithCapability returns every remembered world entity
// carrying the given capability bit, in insertion order.
func (m *Memory) WorldEntitiesWithCapability(cap assets.Capability) []knownWorldEntity {
	keys := m.worldByCapability[cap]
	out := make([]knownWorldEntity, 0, len(keys))
	for _, k := range keys {
		if e, ok := m.worldEntities[k]; ok {
			out = append(out, e)
		}
	}
	return out
}

// DynamicEntities returns every remembered dynamic entity.
func (m *Memory) DynamicEntities() map[uint64]knownDynamicEntity {
	return m.dynamicEntities
}
