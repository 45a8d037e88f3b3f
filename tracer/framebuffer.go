package tracer

import "github.com/bircni/Raytracing/types"

// Framebuffer is the accumulation target for a render. Workers write
// disjoint row ranges so the pixel slice needs no synchronization; the
// buffer must only be read by outside collaborators after the render
// (or, per block, from the scheduler's progress callback).
type Framebuffer struct {
	W, H uint32
	Pix  []types.Vec3
}

// NewFramebuffer allocates a zeroed w x h buffer.
func NewFramebuffer(w, h uint32) *Framebuffer {
	return &Framebuffer{
		W:   w,
		H:   h,
		Pix: make([]types.Vec3, int(w)*int(h)),
	}
}

// Set stores a linear color value for a pixel.
func (fb *Framebuffer) Set(x, y uint32, c types.Vec3) {
	fb.Pix[y*fb.W+x] = c
}

// At returns the linear color value of a pixel.
func (fb *Framebuffer) At(x, y uint32) types.Vec3 {
	return fb.Pix[y*fb.W+x]
}
