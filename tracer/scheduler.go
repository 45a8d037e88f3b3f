package tracer

import (
	"runtime"
	"sync"
	"time"

	"github.com/bircni/Raytracing/log"
)

// A unit of work that is processed by a render worker: a horizontal
// block of frame rows. Blocks never overlap, so each worker owns a
// disjoint slice of the framebuffer for the duration of a block.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32
}

// Per-worker render statistics for a frame.
type BlockStat struct {
	// Worker index.
	Worker int

	// Total rows rendered by this worker.
	Rows uint32

	// Accumulated render time across the worker's blocks.
	RenderTime time.Duration
}

// ProgressFunc is invoked after each completed block with the block
// bounds. It runs on the scheduler's collector goroutine, never on a
// render worker, so a slow callback cannot stall rendering.
type ProgressFunc func(blockY, blockH uint32)

// Scheduler fans frame blocks out to a fixed pool of workers. All
// scene state reachable from the shader is read-only during a render;
// the framebuffer is the only mutable shared resource and every block
// writes a disjoint row range of it.
type Scheduler struct {
	logger     log.Logger
	shader     *Shader
	numWorkers int
	blockH     uint32
}

// NewScheduler creates a scheduler around a shader. A non-positive
// worker count defaults to the machine's logical CPU count; a zero
// block height defaults to 16 rows.
func NewScheduler(shader *Shader, numWorkers int, blockH uint32) *Scheduler {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if blockH == 0 {
		blockH = 16
	}
	return &Scheduler{
		logger:     log.New("scheduler"),
		shader:     shader,
		numWorkers: numWorkers,
		blockH:     blockH,
	}
}

// NumWorkers returns the pool size.
func (sch *Scheduler) NumWorkers() int {
	return sch.numWorkers
}

// Render fills the framebuffer with spp samples per pixel and returns
// the number of completed rows together with per-worker statistics.
//
// Closing the cancel channel stops dispatch of new blocks; in-flight
// blocks run to completion so no block is ever left half-written.
// Cancellation is a normal early exit, not an error: completed rows
// simply stay below the frame height.
func (sch *Scheduler) Render(fb *Framebuffer, spp uint32, seed uint64, cancel <-chan struct{}, progress ProgressFunc) (uint32, []BlockStat) {
	numBlocks := int((fb.H + sch.blockH - 1) / sch.blockH)

	requests := make(chan BlockRequest)
	type blockDone struct {
		req    BlockRequest
		worker int
		took   time.Duration
	}
	// Buffered so workers never wait on the collector (or a slow
	// progress callback) to report completion.
	done := make(chan blockDone, numBlocks)

	var wg sync.WaitGroup
	for w := 0; w < sch.numWorkers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for req := range requests {
				start := time.Now()
				for y := req.BlockY; y < req.BlockY+req.BlockH; y++ {
					for x := uint32(0); x < fb.W; x++ {
						fb.Set(x, y, sch.shader.RenderPixel(x, y, fb.W, fb.H, spp, seed))
					}
				}
				done <- blockDone{req: req, worker: worker, took: time.Since(start)}
			}
		}(w)
	}

	// Dispatcher. Checks for cancellation before every block handoff.
	go func() {
		defer close(requests)
		for y := uint32(0); y < fb.H; y += sch.blockH {
			h := sch.blockH
			if y+h > fb.H {
				h = fb.H - y
			}

			select {
			case <-cancel:
				sch.logger.Noticef("render cancelled at row %d/%d", y, fb.H)
				return
			default:
			}

			select {
			case <-cancel:
				sch.logger.Noticef("render cancelled at row %d/%d", y, fb.H)
				return
			case requests <- BlockRequest{BlockY: y, BlockH: h}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	stats := make([]BlockStat, sch.numWorkers)
	for w := range stats {
		stats[w].Worker = w
	}

	var rowsDone uint32
	for d := range done {
		rowsDone += d.req.BlockH
		stats[d.worker].Rows += d.req.BlockH
		stats[d.worker].RenderTime += d.took

		if progress != nil {
			progress(d.req.BlockY, d.req.BlockH)
		}
	}

	return rowsDone, stats
}
