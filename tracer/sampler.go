package tracer

// Sub-pixel sample offsets must depend only on the frame seed, the pixel
// coordinate and the sample index so that a frame is reproducible across
// runs and worker counts. A counter-based splitmix64 hash gives us that
// without any shared RNG state.

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// sampleJitter returns two independent values in [0, 1) for the given
// pixel and sample index.
func sampleJitter(seed uint64, x, y, sample uint32) (float32, float32) {
	h := splitmix64(seed ^ uint64(x)<<40 ^ uint64(y)<<20 ^ uint64(sample))
	jx := float32(h&0xffffff) / float32(1<<24)
	h = splitmix64(h)
	jy := float32(h&0xffffff) / float32(1<<24)
	return jx, jy
}
