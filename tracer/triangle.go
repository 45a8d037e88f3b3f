package tracer

import (
	"github.com/bircni/Raytracing/scene"
	"github.com/bircni/Raytracing/types"
	"github.com/chewxy/math32"
)

// Determinant cutoff below which a ray is treated as parallel to the
// triangle plane.
const triEpsilon float32 = 1e-8

// Triangle is a world-space render primitive with precomputed edge
// vectors, bounding box and centroid. Triangles are immutable once the
// scene is baked.
type Triangle struct {
	p0     types.Vec3
	e1, e2 types.Vec3

	// Per-vertex shading normals and the raw geometric normal.
	n       [3]types.Vec3
	geoNorm types.Vec3

	mat *scene.Material

	bbox   AABB
	center types.Vec3
}

// NewTriangle builds a render primitive from a baked scene triangle.
func NewTriangle(b scene.BakedTriangle) Triangle {
	bbox := NewAABB().AddPoint(b.P[0]).AddPoint(b.P[1]).AddPoint(b.P[2])
	return Triangle{
		p0:      b.P[0],
		e1:      b.P[1].Sub(b.P[0]),
		e2:      b.P[2].Sub(b.P[0]),
		n:       b.N,
		geoNorm: b.GeoNorm,
		mat:     b.Mat,
		bbox:    bbox,
		center:  b.P[0].Add(b.P[1]).Add(b.P[2]).Mul(1.0 / 3.0),
	}
}

// BBox implements BoundedVolume.
func (t *Triangle) BBox() [2]types.Vec3 {
	return [2]types.Vec3{t.bbox.Min, t.bbox.Max}
}

// Center implements BoundedVolume.
func (t *Triangle) Center() types.Vec3 {
	return t.center
}

// Material returns the triangle's material reference; may be nil.
func (t *Triangle) Material() *scene.Material {
	return t.mat
}

// Intersect runs the Moeller-Trumbore test and reports the parametric
// hit distance together with the barycentric coordinates used for
// normal interpolation. Hits outside (tMin, tMax) are rejected.
func (t *Triangle) Intersect(r Ray, tMin, tMax float32) (dist, u, v float32, ok bool) {
	pvec := r.Dir.Cross(t.e2)
	det := t.e1.Dot(pvec)
	if math32.Abs(det) < triEpsilon {
		return 0, 0, 0, false
	}

	invDet := 1.0 / det
	tvec := r.Origin.Sub(t.p0)
	u = tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	qvec := tvec.Cross(t.e1)
	v = r.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	dist = t.e2.Dot(qvec) * invDet
	if dist < tMin || dist > tMax {
		return 0, 0, 0, false
	}
	return dist, u, v, true
}

// ShadingNormal interpolates the per-vertex normals at the given
// barycentric coordinates.
func (t *Triangle) ShadingNormal(u, v float32) types.Vec3 {
	n := t.n[0].Mul(1 - u - v).Add(t.n[1].Mul(u)).Add(t.n[2].Mul(v)).Normalize()
	if n == (types.Vec3{}) {
		return t.geoNorm
	}
	return n
}
