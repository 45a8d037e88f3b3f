package tracer

import (
	"github.com/bircni/Raytracing/types"
	"github.com/chewxy/math32"
)

// AABB is an axis-aligned bounding box. Min must be component-wise less
// than or equal to Max; zero-volume boxes are legal and occur for
// axis-aligned geometry.
type AABB struct {
	Min types.Vec3
	Max types.Vec3
}

// NewAABB returns an inverted box that unions correctly with any point.
func NewAABB() AABB {
	return AABB{
		Min: types.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: types.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
}

// AddPoint grows the box to contain a point.
func (b AABB) AddPoint(p types.Vec3) AABB {
	return AABB{
		Min: types.MinVec3(b.Min, p),
		Max: types.MaxVec3(b.Max, p),
	}
}

// Union grows the box to contain another box.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: types.MinVec3(b.Min, o.Min),
		Max: types.MaxVec3(b.Max, o.Max),
	}
}

// Center returns the box centroid.
func (b AABB) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Intersect runs the slab test against the ray's [tMin, tMax] interval.
// Zero direction components produce ±Inf slab distances through the
// ray's precomputed inverse direction, which compare correctly here.
func (b AABB) Intersect(r Ray, tMin, tMax float32) bool {
	for axis := 0; axis < 3; axis++ {
		t0 := (b.Min[axis] - r.Origin[axis]) * r.invDir[axis]
		t1 := (b.Max[axis] - r.Origin[axis]) * r.invDir[axis]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax < tMin {
			return false
		}
	}
	return true
}
