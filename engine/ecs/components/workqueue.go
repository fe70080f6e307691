package components

// CraftingJob is one queued unit of work at a crafting station: produce
// Quantity copies of RecipeName.
type CraftingJob struct {
	RecipeName string
	Quantity   int
	Complete   bool
}

// WorkQueue is a crafting station's pending job list, processed front to
// back. Adding a job for a recipe already queued and incomplete merges
// into it (adds to Quantity) rather than creating a duplicate entry —
// ported from the original's addJob, which checks the queue tail for a
// matching incomplete recipe before appending.
type WorkQueue struct {
	Jobs []CraftingJob

	// Progress is the current job's completion fraction in [0, 1], written
	// by the action system while a colonist works the station.
	Progress float32
}

// AddJob merges quantity into the first incomplete job for recipeName, or
// appends a new job if none matches.
func (w *WorkQueue) AddJob(recipeName string, quantity int) {
	for i := range w.Jobs {
		j := &w.Jobs[i]
		if !j.Complete && j.RecipeName == recipeName {
			j.Quantity += quantity
			return
		}
	}
	w.Jobs = append(w.Jobs, CraftingJob{RecipeName: recipeName, Quantity: quantity})
}

// CurrentJob returns the first incomplete job, or nil if the queue is
// empty or fully complete.
func (w *WorkQueue) CurrentJob() *CraftingJob {
	for i := range w.Jobs {
		if !w.Jobs[i].Complete {
			return &w.Jobs[i]
		}
	}
	return nil
}

// RemoveCompleted drops every job marked Complete.
func (w *WorkQueue) RemoveCompleted() {
	kept := w.Jobs[:0]
	for _, j := range w.Jobs {
		if !j.Complete {
			kept = append(kept, j)
		}
	}
	w.Jobs = kept
}
