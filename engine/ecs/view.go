package ecs

// Go generics have no variadic type-parameter packs, so a View is one
// function per arity instead of a single variadic template. Each one picks
// the true smallest of its requested pools as the driving sequence — per
// the spec's smallest-pool requirement, not the original's first-listed-pool
// shortcut (see SPEC_FULL.md's Open Question resolution) — then filters by
// the rest. Iteration order within the driving pool is insertion order
// (dense-array order), undefined across calls only in the sense that it
// reflects add/remove history, which is deterministic within one process run.

// Entry2 is one matched row from a two-component View.
type Entry2[A, B any] struct {
	Entity EntityID
	A      *A
	B      *B
}

func smallest(sizes ...int) int {
	best := -1
	for i, s := range sizes {
		if best == -1 || s < sizes[best] {
			best = i
		}
	}
	return best
}

// View2 iterates entities holding both A and B.
func View2[A, B any](r *Registry) []Entry2[A, B] {
	pa, pb := Pool[A](r), Pool[B](r)
	var out []Entry2[A, B]
	switch smallest(pa.Len(), pb.Len()) {
	case 0:
		for i := 0; i < pa.Len(); i++ {
			e := pa.EntityAt(i)
			if b := pb.Get(e); b != nil {
				out = append(out, Entry2[A, B]{e, pa.ComponentAt(i), b})
			}
		}
	default:
		for i := 0; i < pb.Len(); i++ {
			e := pb.EntityAt(i)
			if a := pa.Get(e); a != nil {
				out = append(out, Entry2[A, B]{e, a, pb.ComponentAt(i)})
			}
		}
	}
	return out
}

// Entry3 is one matched row from a three-component View.
type Entry3[A, B, C any] struct {
	Entity EntityID
	A      *A
	B      *B
	C      *C
}

// View3 iterates entities holding A, B and C.
func View3[A, B, C any](r *Registry) []Entry3[A, B, C] {
	pa, pb, pc := Pool[A](r), Pool[B](r), Pool[C](r)
	var out []Entry3[A, B, C]
	switch smallest(pa.Len(), pb.Len(), pc.Len()) {
	case 0:
		for i := 0; i < pa.Len(); i++ {
			e := pa.EntityAt(i)
			b, c := pb.Get(e), pc.Get(e)
			if b != nil && c != nil {
				out = append(out, Entry3[A, B, C]{e, pa.ComponentAt(i), b, c})
			}
		}
	case 1:
		for i := 0; i < pb.Len(); i++ {
			e := pb.EntityAt(i)
			a, c := pa.Get(e), pc.Get(e)
			if a != nil && c != nil {
				out = append(out, Entry3[A, B, C]{e, a, pb.ComponentAt(i), c})
			}
		}
	default:
		for i := 0; i < pc.Len(); i++ {
			e := pc.EntityAt(i)
			a, b := pa.Get(e), pb.Get(e)
			if a != nil && b != nil {
				out = append(out, Entry3[A, B, C]{e, a, b, pc.ComponentAt(i)})
			}
		}
	}
	return out
}

// Entry4 is one matched row from a four-component View.
type Entry4[A, B, C, D any] struct {
	Entity EntityID
	A      *A
	B      *B
	C      *C
	D      *D
}

// View4 iterates entities holding A, B, C and D.
func View4[A, B, C, D any](r *Registry) []Entry4[A, B, C, D] {
	pa, pb, pc, pd := Pool[A](r), Pool[B](r), Pool[C](r), Pool[D](r)
	var out []Entry4[A, B, C, D]
	switch smallest(pa.Len(), pb.Len(), pc.Len(), pd.Len()) {
	case 0:
		for i := 0; i < pa.Len(); i++ {
			e := pa.EntityAt(i)
			b, c, d := pb.Get(e), pc.Get(e), pd.Get(e)
			if b != nil && c != nil && d != nil {
				out = append(out, Entry4[A, B, C, D]{e, pa.ComponentAt(i), b, c, d})
			}
		}
	case 1:
		for i := 0; i < pb.Len(); i++ {
			e := pb.EntityAt(i)
			a, c, d := pa.Get(e), pc.Get(e), pd.Get(e)
			if a != nil && c != nil && d != nil {
				out = append(out, Entry4[A, B, C, D]{e, a, pb.ComponentAt(i), c, d})
			}
		}
	case 2:
		for i := 0; i < pc.Len(); i++ {
			e := pc.EntityAt(i)
			a, b, d := pa.Get(e), pb.Get(e), pd.Get(e)
			if a != nil && b != nil && d != nil {
				out = append(out, Entry4[A, B, C, D]{e, a, b, pc.ComponentAt(i), d})
			}
		}
	default:
		for i := 0; i < pd.Len(); i++ {
			e := pd.EntityAt(i)
			a, b, c := pa.Get(e), pb.Get(e), pc.Get(e)
			if a != nil && b != nil && c != nil {
				out = append(out, Entry4[A, B, C, D]{e, a, b, c, pd.ComponentAt(i)})
			}
		}
	}
	return out
}

// Entry5 is one matched row from a five-component View.
type Entry5[A, B, C, D, E any] struct {
	Entity EntityID
	A      *A
	B      *B
	C      *C
	D      *D
	E      *E
}

// View5 iterates entities holding A, B, C, D and E. Used by the decision
// evaluator's (Position, Needs, Memory, Task, MovementTarget) query.
func View5[A, B, C, D, E any](r *Registry) []Entry5[A, B, C, D, E] {
	pa, pb, pc, pd, pe := Pool[A](r), Pool[B](r), Pool[C](r), Pool[D](r), Pool[E](r)
	var out []Entry5[A, B, C, D, E]
	switch smallest(pa.Len(), pb.Len(), pc.Len(), pd.Len(), pe.Len()) {
	case 0:
		for i := 0; i < pa.Len(); i++ {
			id := pa.EntityAt(i)
			b, c, d, e := pb.Get(id), pc.Get(id), pd.Get(id), pe.Get(id)
			if b != nil && c != nil && d != nil && e != nil {
				out = append(out, Entry5[A, B, C, D, E]{id, pa.ComponentAt(i), b, c, d, e})
			}
		}
	case 1:
		for i := 0; i < pb.Len(); i++ {
			id := pb.EntityAt(i)
			a, c, d, e := pa.Get(id), pc.Get(id), pd.Get(id), pe.Get(id)
			if a != nil && c != nil && d != nil && e != nil {
				out = append(out, Entry5[A, B, C, D, E]{id, a, pb.ComponentAt(i), c, d, e})
			}
		}
	case 2:
		for i := 0; i < pc.Len(); i++ {
			id := pc.EntityAt(i)
			a, b, d, e := pa.Get(id), pb.Get(id), pd.Get(id), pe.Get(id)
			if a != nil && b != nil && d != nil && e != nil {
				out = append(out, Entry5[A, B, C, D, E]{id, a, b, pc.ComponentAt(i), d, e})
			}
		}
	case 3:
		for i := 0; i < pd.Len(); i++ {
			id := pd.EntityAt(i)
			a, b, c, e := pa.Get(id), pb.Get(id), pc.Get(id), pe.Get(id)
			if a != nil && b != nil && c != nil && e != nil {
				out = append(out, Entry5[A, B, C, D, E]{id, a, b, c, pd.ComponentAt(i), e})
			}
		}
	default:
		for i := 0; i < pe.Len(); i++ {
			id := pe.EntityAt(i)
			a, b, c, d := pa.Get(id), pb.Get(id), pc.Get(id), pd.Get(id)
			if a != nil && b != nil && c != nil && d != nil {
				out = append(out, Entry5[A, B, C, D, E]{id, a, b, c, d, pe.ComponentAt(i)})
			}
		}
	}
	return out
}
