package placement

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	worldpkg "github.com/vev-studio/worldcore/engine/world"
	"github.com/vev-studio/worldcore/engine/world/chunk"
)

// asyncResult is one worker's finished placement pass, queued for the main
// thread to notice via PollCompleted or WaitAll.
type asyncResult struct {
	coord worldpkg.ChunkCoord
}

// AsyncProcessor dispatches chunk placement passes onto a worker pool and
// lets the main thread integrate finished results without blocking —
// ported from the original's AsyncChunkProcessor, which used
// std::async/std::future for the same split. Go's Chunk is immutable after
// chunk.Generate (tiles are never mutated post-construction), so unlike the
// original this needs no ChunkDataSnapshot copy step: handing the *chunk.Chunk
// itself to a worker goroutine is already safe.
type AsyncProcessor struct {
	executor *Executor
	log      *slog.Logger

	group errgroup.Group

	mu         sync.Mutex
	inProgress map[worldpkg.ChunkCoord]struct{}
	completed  []asyncResult
}

// NewAsyncProcessor constructs a processor dispatching work through
// executor. A nil logger defaults to slog.Default().
func NewAsyncProcessor(executor *Executor, log *slog.Logger) *AsyncProcessor {
	if log == nil {
		log = slog.Default()
	}
	return &AsyncProcessor{
		executor:   executor,
		log:        log,
		inProgress: make(map[worldpkg.ChunkCoord]struct{}),
	}
}

// LaunchTask starts an async placement pass for target, skipping it if
// already processed or already in flight.
func (p *AsyncProcessor) LaunchTask(target *chunk.Chunk) {
	coord := target.Coord

	p.mu.Lock()
	if p.executor.GetChunkIndex(coord) != nil {
		p.mu.Unlock()
		return
	}
	if _, inFlight := p.inProgress[coord]; inFlight {
		p.mu.Unlock()
		return
	}
	p.inProgress[coord] = struct{}{}
	p.mu.Unlock()

	p.group.Go(func() error {
		p.executor.ProcessChunk(target)

		p.mu.Lock()
		p.completed = append(p.completed, asyncResult{coord: coord})
		p.mu.Unlock()
		return nil
	})
}

// LaunchTasks starts an async placement pass for every chunk in targets.
func (p *AsyncProcessor) LaunchTasks(targets []*chunk.Chunk) {
	for _, t := range targets {
		p.LaunchTask(t)
	}
}

// PollCompleted integrates every task that has finished since the last
// call, without blocking on tasks still in flight. Returns how many
// completed this call.
func (p *AsyncProcessor) PollCompleted() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.completed)
	for _, res := range p.completed {
		delete(p.inProgress, res.coord)
	}
	p.completed = p.completed[:0]
	return n
}

// WaitAll blocks until every in-flight task completes, then integrates all
// of them.
func (p *AsyncProcessor) WaitAll() {
	if err := p.group.Wait(); err != nil {
		p.log.Error("async chunk processor: worker returned error", "err", err)
	}
	p.PollCompleted()
}

// Clear waits for every in-flight task to finish (to avoid a dangling
// write into a chunk the caller is about to discard) and resets in-flight
// bookkeeping.
func (p *AsyncProcessor) Clear() {
	p.WaitAll()
	p.mu.Lock()
	p.inProgress = make(map[worldpkg.ChunkCoord]struct{})
	p.mu.Unlock()
}

// PendingCount returns the number of tasks currently in flight.
func (p *AsyncProcessor) PendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inProgress)
}

// HasPending reports whether any task is currently in flight.
func (p *AsyncProcessor) HasPending() bool { return p.PendingCount() > 0 }

// IsProcessing reports whether coord currently has a task in flight.
func (p *AsyncProcessor) IsProcessing(coord worldpkg.ChunkCoord) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.inProgress[coord]
	return ok
}
