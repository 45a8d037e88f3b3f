package renderer

import "fmt"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of samples per pixel.
	SamplesPerPixel uint32

	// Maximum number of reflection bounces. Zero disables secondary
	// rays entirely.
	NumBounces uint32

	// Exposure for tonemapping. Zero selects the default of 1.0.
	Exposure float32

	// Worker pool size; non-positive selects one worker per logical CPU.
	NumWorkers int

	// Height of the row blocks handed to workers; zero selects the
	// scheduler default.
	BlockH uint32

	// Seed for the deterministic per-pixel sample sequence.
	Seed uint64
}

// Validate rejects structurally invalid settings before any render work
// starts.
func (o *Options) Validate() error {
	if o.FrameW == 0 || o.FrameH == 0 {
		return fmt.Errorf("%w: frame dimensions must be positive (got %dx%d)", ErrInvalidSettings, o.FrameW, o.FrameH)
	}
	if o.SamplesPerPixel == 0 {
		return fmt.Errorf("%w: samples per pixel must be positive", ErrInvalidSettings)
	}
	if o.Exposure < 0 {
		return fmt.Errorf("%w: exposure must not be negative (got %g)", ErrInvalidSettings, o.Exposure)
	}
	return nil
}
