package tracer

import "github.com/bircni/Raytracing/types"

// Self-intersection offset applied to the origin of secondary and shadow
// rays so they cannot re-hit the surface that spawned them.
const rayDelta float32 = 1e-4

// Ray is a half-line with a precomputed inverse direction for the slab
// test. Rays are immutable once constructed; the valid [tMin, tMax]
// interval travels alongside the ray through traversal arguments so the
// far bound can shrink as closer hits are found.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3

	invDir types.Vec3
}

// NewRay constructs a ray from an origin and a direction. The direction
// is expected to be normalized by the caller.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		// IEEE division by zero yields ±Inf which the slab test handles.
		invDir: types.Vec3{1.0 / dir[0], 1.0 / dir[1], 1.0 / dir[2]},
	}
}

// At returns the point at parametric distance t along the ray.
func (r Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
