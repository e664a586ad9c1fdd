package renderer

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	TaskID int // Position in the submission order
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
}

// WorkerPool runs tile tasks on a bounded number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool; numWorkers <= 0 means one per CPU
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run executes every task and waits for them. The first error cancels the
// remaining tasks and is returned. onResult, if set, is called once per
// finished task, never concurrently.
func (wp *WorkerPool) Run(ctx context.Context, tasks []TileTask, work func(context.Context, TileTask) (RenderStats, error), onResult func(TileResult)) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(wp.numWorkers)

	var mu sync.Mutex
	for _, task := range tasks {
		task := task
		group.Go(func() error {
			stats, err := work(ctx, task)
			if err != nil {
				return err
			}
			if onResult != nil {
				mu.Lock()
				onResult(TileResult{TaskID: task.TaskID, Stats: stats})
				mu.Unlock()
			}
			return nil
		})
	}

	return group.Wait()
}
