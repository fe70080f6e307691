package ecs

import "reflect"

// Registry owns entity lifecycle and every component pool, keyed by the
// component's reflect.Type. It is not safe for concurrent use; per spec.md
// §5, all ECS mutation happens on the main thread.
type Registry struct {
	generations []uint32
	freeList    []uint32
	livingCount int

	pools map[reflect.Type]componentPool
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{pools: make(map[reflect.Type]componentPool)}
}

// CreateEntity reuses a free index with an incremented generation, or
// appends a new index starting at generation 1.
func (r *Registry) CreateEntity() EntityID {
	if n := len(r.freeList); n > 0 {
		index := r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		r.livingCount++
		return MakeEntityID(index, r.generations[index])
	}
	index := uint32(len(r.generations))
	r.generations = append(r.generations, 1)
	r.livingCount++
	return MakeEntityID(index, 1)
}

// IsAlive reports whether entity still refers to a live slot.
func (r *Registry) IsAlive(e EntityID) bool {
	if e == InvalidEntity {
		return false
	}
	idx := e.Index()
	return int(idx) < len(r.generations) && r.generations[idx] == e.Generation()
}

// DestroyEntity verifies e is alive, removes its components from every
// pool, bumps its generation and returns its index to the free list.
func (r *Registry) DestroyEntity(e EntityID) {
	if !r.IsAlive(e) {
		return
	}
	idx := e.Index()
	for _, pool := range r.pools {
		pool.remove(e)
	}
	r.generations[idx]++
	r.freeList = append(r.freeList, idx)
	r.livingCount--
}

// LivingCount returns the number of currently alive entities.
func (r *Registry) LivingCount() int { return r.livingCount }

func poolType[T any]() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

func pool[T any](r *Registry) *ComponentPool[T] {
	t := poolType[T]()
	p, ok := r.pools[t]
	if !ok {
		return nil
	}
	return p.(*ComponentPool[T])
}

func getOrCreatePool[T any](r *Registry) *ComponentPool[T] {
	t := poolType[T]()
	p, ok := r.pools[t]
	if ok {
		return p.(*ComponentPool[T])
	}
	np := NewComponentPool[T]()
	r.pools[t] = np
	return np
}

// AddComponent stores value as entity's T component, returning a pointer to
// the stored copy.
func AddComponent[T any](r *Registry, e EntityID, value T) *T {
	return getOrCreatePool[T](r).Add(e, value)
}

// GetComponent returns a pointer to entity's T component, or nil.
func GetComponent[T any](r *Registry, e EntityID) *T {
	p := pool[T](r)
	if p == nil {
		return nil
	}
	return p.Get(e)
}

// HasComponent reports whether entity currently holds a T component.
func HasComponent[T any](r *Registry, e EntityID) bool {
	p := pool[T](r)
	return p != nil && p.Has(e)
}

// RemoveComponent drops entity's T component, if any.
func RemoveComponent[T any](r *Registry, e EntityID) {
	if p := pool[T](r); p != nil {
		p.Remove(e)
	}
}

// Pool exposes the backing ComponentPool[T] for a type, creating it if
// absent. Systems that need direct dense-array iteration (e.g. the View
// helpers) use this instead of Get/Has per entity.
func Pool[T any](r *Registry) *ComponentPool[T] {
	return getOrCreatePool[T](r)
}
