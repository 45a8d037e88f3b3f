package tracer

import (
	"testing"

	"github.com/bircni/Raytracing/scene"
	"github.com/bircni/Raytracing/types"
)

func makeTriangle(a, b, c types.Vec3) Triangle {
	geoNorm := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return NewTriangle(scene.BakedTriangle{
		P:       [3]types.Vec3{a, b, c},
		N:       [3]types.Vec3{geoNorm, geoNorm, geoNorm},
		GeoNorm: geoNorm,
	})
}

func TestTriangleIntersect(t *testing.T) {
	tri := makeTriangle(
		types.Vec3{-1, -1, 0},
		types.Vec3{1, -1, 0},
		types.Vec3{0, 1, 0},
	)

	type spec struct {
		origin  types.Vec3
		dir     types.Vec3
		expHit  bool
		expDist float32
	}
	specs := []spec{
		// Head-on hit through a point known to be inside.
		{types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1}, true, 5},
		// Hit from behind; the intersection test is double sided.
		{types.Vec3{0, 0, -3}, types.Vec3{0, 0, 1}, true, 3},
		// Outside the triangle bounds.
		{types.Vec3{2, 2, 5}, types.Vec3{0, 0, -1}, false, 0},
		// Parallel to the triangle plane.
		{types.Vec3{0, 0, 5}, types.Vec3{1, 0, 0}, false, 0},
		// Triangle behind the ray origin.
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, -1}, false, 0},
	}

	for index, s := range specs {
		dist, _, _, ok := tri.Intersect(NewRay(s.origin, s.dir), 0, 1e30)
		if ok != s.expHit {
			t.Fatalf("[spec %d] expected hit=%t; got %t", index, s.expHit, ok)
		}
		if !ok {
			continue
		}
		if diff := dist - s.expDist; diff < -1e-4 || diff > 1e-4 {
			t.Fatalf("[spec %d] expected hit distance %g; got %g", index, s.expDist, dist)
		}
	}
}

func TestTriangleIntersectInterval(t *testing.T) {
	tri := makeTriangle(
		types.Vec3{-1, -1, 0},
		types.Vec3{1, -1, 0},
		types.Vec3{0, 1, 0},
	)
	r := NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1})

	if _, _, _, ok := tri.Intersect(r, 0, 4.9); ok {
		t.Fatal("expected a hit beyond tMax to be rejected")
	}
	if _, _, _, ok := tri.Intersect(r, 5.1, 1e30); ok {
		t.Fatal("expected a hit before tMin to be rejected")
	}
}

func TestTriangleShadingNormal(t *testing.T) {
	// Distinct per-vertex normals; barycentric interpolation should
	// return each vertex normal at the matching corner.
	tri := NewTriangle(scene.BakedTriangle{
		P: [3]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		N: [3]types.Vec3{
			{0, 0, 1},
			{1, 0, 0},
			{0, 1, 0},
		},
		GeoNorm: types.Vec3{0, 0, 1},
	})

	type spec struct {
		u, v float32
		exp  types.Vec3
	}
	specs := []spec{
		{0, 0, types.Vec3{0, 0, 1}},
		{1, 0, types.Vec3{1, 0, 0}},
		{0, 1, types.Vec3{0, 1, 0}},
	}

	for index, s := range specs {
		got := tri.ShadingNormal(s.u, s.v)
		if got.Sub(s.exp).Len() > 1e-5 {
			t.Fatalf("[spec %d] expected shading normal %v; got %v", index, s.exp, got)
		}
	}
}

func TestTriangleBoundsAndCenter(t *testing.T) {
	tri := makeTriangle(
		types.Vec3{0, 0, 0},
		types.Vec3{3, 0, 0},
		types.Vec3{0, 3, 3},
	)

	bbox := tri.BBox()
	if bbox[0] != (types.Vec3{0, 0, 0}) || bbox[1] != (types.Vec3{3, 3, 3}) {
		t.Fatalf("unexpected bbox: %v", bbox)
	}
	if got := tri.Center(); got != (types.Vec3{1, 1, 1}) {
		t.Fatalf("expected centroid {1 1 1}; got %v", got)
	}
}
