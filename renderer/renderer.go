package renderer

import (
	"time"

	"github.com/bircni/Raytracing/log"
	"github.com/bircni/Raytracing/scene"
	"github.com/bircni/Raytracing/tracer"
)

// Number of primitives at which the BVH builder stops partitioning and
// emits a leaf.
const minLeafItems = 4

// ProgressFunc is invoked after each completed block with the block
// bounds; see tracer.ProgressFunc.
type ProgressFunc func(blockY, blockH uint32)

// Renderer binds an immutable scene snapshot to a spatial index and a
// worker pool. Construction performs all fallible work (validation,
// transform baking, BVH build) so that Render itself can only be
// interrupted, never fail.
type Renderer struct {
	logger    log.Logger
	sc        *scene.Scene
	bvh       *tracer.BVH
	scheduler *tracer.Scheduler
	opts      Options

	stats FrameStats
}

// New validates the options, bakes the scene into world space and
// builds the spatial index.
//
// A scene with no objects at all is legal and renders the skybox only.
// A scene whose objects produce zero usable primitives (all geometry
// degenerate) fails with tracer.ErrEmptyScene.
func New(sc *scene.Scene, opts Options) (*Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Exposure == 0 {
		opts.Exposure = 1.0
	}

	logger := log.New("renderer")

	bvh := new(tracer.BVH)
	if len(sc.Objects) > 0 {
		start := time.Now()
		baked := sc.Bake()
		prims := make([]tracer.Triangle, len(baked))
		for i := range baked {
			prims[i] = tracer.NewTriangle(baked[i])
		}

		var err error
		bvh, err = tracer.NewBVH(prims, minLeafItems)
		if err != nil {
			return nil, err
		}
		logger.Infof("baked %d primitives into %d bvh nodes in %s",
			bvh.PrimitiveCount(), bvh.NodeCount(), time.Since(start))
	}

	shader := tracer.NewShader(sc, bvh, opts.NumBounces)

	return &Renderer{
		logger:    logger,
		sc:        sc,
		bvh:       bvh,
		scheduler: tracer.NewScheduler(shader, opts.NumWorkers, opts.BlockH),
		opts:      opts,
	}, nil
}

// Options returns the validated render options, with defaults resolved.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render draws a full frame. Closing the cancel channel stops dispatch
// of new blocks and returns the partially filled framebuffer with a nil
// error; Stats reports whether the frame completed. Both cancel and
// progress may be nil.
func (r *Renderer) Render(cancel <-chan struct{}, progress ProgressFunc) (*tracer.Framebuffer, error) {
	fb := tracer.NewFramebuffer(r.opts.FrameW, r.opts.FrameH)

	start := time.Now()
	rowsDone, blockStats := r.scheduler.Render(fb, r.opts.SamplesPerPixel, r.opts.Seed, cancel, tracer.ProgressFunc(progress))
	elapsed := time.Since(start)

	r.stats = FrameStats{
		Workers:    make([]WorkerStat, len(blockStats)),
		RenderTime: elapsed,
		Completed:  rowsDone == r.opts.FrameH,
	}
	for i, bs := range blockStats {
		r.stats.Workers[i] = WorkerStat{
			Id:           bs.Worker,
			Rows:         bs.Rows,
			FramePercent: 100 * float32(bs.Rows) / float32(r.opts.FrameH),
			RenderTime:   bs.RenderTime,
		}
	}

	r.logger.Noticef("rendered %d/%d rows in %s", rowsDone, r.opts.FrameH, elapsed)
	return fb, nil
}

// Stats returns statistics for the most recent Render call.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}
