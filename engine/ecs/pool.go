package ecs

// componentPool is the type-erased operations a Registry needs from every
// concrete ComponentPool[T] it holds, so destroyEntity can sweep every pool
// without knowing T.
type componentPool interface {
	remove(e EntityID)
	has(e EntityID) bool
	size() int
}

const invalidDenseIndex = ^uint32(0)

type denseEntry[T any] struct {
	entity    EntityID
	component T
}

// ComponentPool is a sparse-set store for one component type: O(1) add,
// remove, has and get, with components packed contiguously in dense for
// cache-friendly iteration. sparse[index] is invalidDenseIndex unless that
// entity currently holds the component, and dense[sparse[index]].entity ==
// entity always holds for a live slot.
type ComponentPool[T any] struct {
	sparse []uint32
	dense  []denseEntry[T]
}

// NewComponentPool constructs an empty pool.
func NewComponentPool[T any]() *ComponentPool[T] {
	return &ComponentPool[T]{}
}

// Add inserts or replaces the component for entity, returning a pointer to
// the stored value valid until the next mutation of this pool.
func (p *ComponentPool[T]) Add(e EntityID, value T) *T {
	idx := e.Index()
	if int(idx) >= len(p.sparse) {
		grown := make([]uint32, idx+1)
		copy(grown, p.sparse)
		for i := len(p.sparse); i < len(grown); i++ {
			grown[i] = invalidDenseIndex
		}
		p.sparse = grown
	}
	if p.sparse[idx] != invalidDenseIndex {
		p.dense[p.sparse[idx]].component = value
		return &p.dense[p.sparse[idx]].component
	}
	denseIdx := uint32(len(p.dense))
	p.sparse[idx] = denseIdx
	p.dense = append(p.dense, denseEntry[T]{entity: e, component: value})
	return &p.dense[denseIdx].component
}

// Get returns a pointer to entity's component, or nil if it has none.
func (p *ComponentPool[T]) Get(e EntityID) *T {
	if !p.has(e) {
		return nil
	}
	idx := e.Index()
	return &p.dense[p.sparse[idx]].component
}

// remove drops entity's component via swap-with-last, updating the moved
// entry's sparse slot. No-op if the entity has no component.
func (p *ComponentPool[T]) remove(e EntityID) {
	if !p.has(e) {
		return
	}
	idx := e.Index()
	denseIdx := p.sparse[idx]
	lastIdx := uint32(len(p.dense) - 1)
	if denseIdx != lastIdx {
		p.dense[denseIdx] = p.dense[lastIdx]
		p.sparse[p.dense[denseIdx].entity.Index()] = denseIdx
	}
	p.dense = p.dense[:lastIdx]
	p.sparse[idx] = invalidDenseIndex
}

// Remove is the exported form of remove for direct pool use outside a
// Registry (e.g. tests constructing a pool standalone).
func (p *ComponentPool[T]) Remove(e EntityID) { p.remove(e) }

func (p *ComponentPool[T]) has(e EntityID) bool {
	idx := e.Index()
	return int(idx) < len(p.sparse) && p.sparse[idx] != invalidDenseIndex &&
		p.dense[p.sparse[idx]].entity == e
}

// Has is the exported form of has.
func (p *ComponentPool[T]) Has(e EntityID) bool { return p.has(e) }

func (p *ComponentPool[T]) size() int { return len(p.dense) }

// Len returns the number of components currently stored.
func (p *ComponentPool[T]) Len() int { return len(p.dense) }

// EntityAt returns the entity at a dense index, for direct iteration.
func (p *ComponentPool[T]) EntityAt(i int) EntityID { return p.dense[i].entity }

// ComponentAt returns a pointer to the component at a dense index.
func (p *ComponentPool[T]) ComponentAt(i int) *T { return &p.dense[i].component }
