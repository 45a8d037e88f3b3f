package cmd

import (
	"image/png"
	"os"
	"os/signal"

	"github.com/bircni/Raytracing/renderer"
	"github.com/urfave/cli"
)

// Render a still frame of a built-in scene and write it out as PNG.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sceneName := ctx.Args().First()
	if sceneName == "" {
		sceneName = "cornell"
	}

	sc, err := BuiltinScene(sceneName)
	if err != nil {
		return err
	}

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		NumBounces:      uint32(ctx.Int("bounces")),
		Exposure:        float32(ctx.Float64("exposure")),
		NumWorkers:      ctx.Int("workers"),
		Seed:            uint64(ctx.Int("seed")),
	}

	r, err := renderer.New(sc, opts)
	if err != nil {
		return err
	}

	logger.Noticef("scene statistics\n%s", sc.Stats())

	// Ctrl-C stops dispatching new blocks; completed rows are still
	// tone-mapped and written out.
	cancel := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		close(cancel)
	}()

	fb, err := r.Render(cancel, func(blockY, blockH uint32) {
		logger.Debugf("completed block: rows %d-%d", blockY, blockY+blockH-1)
	})
	if err != nil {
		return err
	}

	logger.Noticef("frame statistics\n%s", r.Stats().Table())

	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, renderer.ToneMap(fb, r.Options().Exposure)); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	return nil
}
