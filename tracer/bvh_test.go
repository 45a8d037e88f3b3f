package tracer

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/bircni/Raytracing/types"
)

type mockVolume struct {
	bbox   [2]types.Vec3
	center types.Vec3
}

func (m *mockVolume) BBox() [2]types.Vec3 {
	return m.bbox
}

func (m *mockVolume) Center() types.Vec3 {
	return m.center
}

func TestLeafCallback(t *testing.T) {
	type volSpec struct {
		min types.Vec3
		max types.Vec3
	}

	volSpecs := []volSpec{
		{types.Vec3{-2, 0, -2}, types.Vec3{-1, 1, -1}},
		{types.Vec3{1, 0, -2}, types.Vec3{2, 1, -1}},
		{types.Vec3{-2, 0, 1}, types.Vec3{-1, 1, 2}},
		{types.Vec3{1, 0, 1}, types.Vec3{2, 1, 2}},
	}

	itemList := make([]BoundedVolume, len(volSpecs))
	for idx, vs := range volSpecs {
		itemList[idx] = &mockVolume{
			bbox:   [2]types.Vec3{vs.min, vs.max},
			center: vs.min.Add(vs.max).Mul(0.5),
		}
	}

	var cbCount = 0
	var expItemListCount = 0
	cb := func(leaf *Node, itemList []BoundedVolume) {
		cbCount++
		if len(itemList) != expItemListCount {
			t.Fatalf("expected leaf callback to be called with %d items; got %d", expItemListCount, len(itemList))
		}
	}

	var expCount = 0

	// Partition each item in a single leaf
	cbCount = 0
	expItemListCount = 1
	treeNodes, err := Build(itemList, 1, cb, SurfaceAreaHeuristic)
	if err != nil {
		t.Fatal(err)
	}

	expCount = 4
	if cbCount != expCount {
		t.Fatalf("expected leaf callback to be called %d times; called %d", expCount, cbCount)
	}
	expCount = 7
	if len(treeNodes) != expCount {
		t.Fatalf("expected bvh tree to have %d nodes; got %d", expCount, len(treeNodes))
	}

	// Partition two items in a single leaf
	cbCount = 0
	expItemListCount = 2
	treeNodes, err = Build(itemList, 2, cb, SurfaceAreaHeuristic)
	if err != nil {
		t.Fatal(err)
	}

	expCount = 2
	if cbCount != expCount {
		t.Fatalf("expected leaf callback to be called %d times; called %d", expCount, cbCount)
	}
	expCount = 3
	if len(treeNodes) != expCount {
		t.Fatalf("expected bvh tree to have %d nodes; got %d", expCount, len(treeNodes))
	}
}

func TestBuildEmptyWorkList(t *testing.T) {
	_, err := Build(nil, 1, func(*Node, []BoundedVolume) {}, SurfaceAreaHeuristic)
	if !errors.Is(err, ErrEmptyScene) {
		t.Fatalf("expected ErrEmptyScene; got %v", err)
	}

	if _, err = NewBVH(nil, 4); !errors.Is(err, ErrEmptyScene) {
		t.Fatalf("expected ErrEmptyScene from NewBVH; got %v", err)
	}
}

func TestZeroValueBVHMisses(t *testing.T) {
	b := new(BVH)
	r := NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1})

	if _, ok := b.Intersect(r, 0, 1e30); ok {
		t.Fatal("expected the empty index to miss everything")
	}
	if b.IntersectAny(r, 0, 1e30) {
		t.Fatal("expected the empty index to report no occlusion")
	}
}

// randomTriangles scatters small triangles inside a cube centered on the
// origin. The generator is seeded so failures are reproducible.
func randomTriangles(rng *rand.Rand, count int, extent float32) []Triangle {
	out := make([]Triangle, 0, count)
	for len(out) < count {
		base := types.Vec3{
			(rng.Float32()*2 - 1) * extent,
			(rng.Float32()*2 - 1) * extent,
			(rng.Float32()*2 - 1) * extent,
		}
		a := base
		b := base.Add(types.Vec3{rng.Float32(), rng.Float32(), rng.Float32()})
		c := base.Add(types.Vec3{rng.Float32(), rng.Float32(), rng.Float32()})
		if b.Sub(a).Cross(c.Sub(a)).Len() < 1e-4 {
			continue
		}
		out = append(out, makeTriangle(a, b, c))
	}
	return out
}

// bruteForceNearest is the reference intersector the BVH must agree with.
func bruteForceNearest(tris []Triangle, r Ray, tMin, tMax float32) (float32, bool) {
	best := tMax
	found := false
	for i := range tris {
		if dist, _, _, ok := tris[i].Intersect(r, tMin, best); ok {
			best = dist
			found = true
		}
	}
	return best, found
}

func TestBVHMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tris := randomTriangles(rng, 200, 4)

	bvh, err := NewBVH(tris, 4)
	if err != nil {
		t.Fatal(err)
	}
	if bvh.PrimitiveCount() != len(tris) {
		t.Fatalf("expected %d partitioned primitives; got %d", len(tris), bvh.PrimitiveCount())
	}

	for i := 0; i < 500; i++ {
		origin := types.Vec3{
			(rng.Float32()*2 - 1) * 8,
			(rng.Float32()*2 - 1) * 8,
			(rng.Float32()*2 - 1) * 8,
		}
		dir := types.Vec3{
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
		}.Normalize()
		if dir == (types.Vec3{}) {
			continue
		}
		r := NewRay(origin, dir)

		expDist, expHit := bruteForceNearest(tris, r, 0, 1e30)
		hit, gotHit := bvh.Intersect(r, 0, 1e30)

		if gotHit != expHit {
			t.Fatalf("[ray %d] expected hit=%t; got %t", i, expHit, gotHit)
		}
		if !gotHit {
			continue
		}
		if diff := hit.T - expDist; diff < -1e-3 || diff > 1e-3 {
			t.Fatalf("[ray %d] expected nearest distance %g; got %g", i, expDist, hit.T)
		}

		if gotAny := bvh.IntersectAny(r, 0, 1e30); !gotAny {
			t.Fatalf("[ray %d] expected IntersectAny to agree with a nearest hit", i)
		}
	}
}

func TestBVHHitRecord(t *testing.T) {
	// Two parallel triangles; the nearer one must win and the normal
	// must face the incoming ray.
	near := makeTriangle(types.Vec3{-1, -1, 1}, types.Vec3{1, -1, 1}, types.Vec3{0, 1, 1})
	far := makeTriangle(types.Vec3{-1, -1, -1}, types.Vec3{1, -1, -1}, types.Vec3{0, 1, -1})

	bvh, err := NewBVH([]Triangle{far, near}, 1)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1})
	hit, ok := bvh.Intersect(r, 0, 1e30)
	if !ok {
		t.Fatal("expected a hit")
	}
	if diff := hit.T - 4; diff < -1e-4 || diff > 1e-4 {
		t.Fatalf("expected nearest hit at t=4; got %g", hit.T)
	}
	if hit.Point.Sub(types.Vec3{0, 0, 1}).Len() > 1e-4 {
		t.Fatalf("expected hit point {0 0 1}; got %v", hit.Point)
	}
	if hit.Normal.Dot(r.Dir) >= 0 {
		t.Fatalf("expected shading normal to face the ray; got %v", hit.Normal)
	}
}

func TestBVHCoincidentPrimitivesTerminate(t *testing.T) {
	// Fifty identical triangles cannot be partitioned by any split
	// point; the builder must still terminate with a leaf.
	tris := make([]Triangle, 50)
	for i := range tris {
		tris[i] = makeTriangle(types.Vec3{0, 0, 0}, types.Vec3{1, 0, 0}, types.Vec3{0, 1, 0})
	}

	bvh, err := NewBVH(tris, 4)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRay(types.Vec3{0.25, 0.25, 5}, types.Vec3{0, 0, -1})
	if _, ok := bvh.Intersect(r, 0, 1e30); !ok {
		t.Fatal("expected coincident primitives to remain hittable")
	}
}

func TestNodePrimitivePacking(t *testing.T) {
	type spec struct {
		first uint32
		count uint32
	}
	specs := []spec{
		{0, 1},
		{3, 9},
		{128, 64},
	}

	for index, s := range specs {
		var n Node
		n.SetPrimitives(s.first, s.count)
		if !n.Leaf() {
			t.Fatalf("[spec %d] expected node to be a leaf", index)
		}
		first, count := n.GetPrimitives()
		if first != s.first || count != s.count {
			t.Fatalf("[spec %d] expected primitives (%d, %d); got (%d, %d)", index, s.first, s.count, first, count)
		}
	}

	var n Node
	n.SetChildNodes(1, 2)
	if n.Leaf() {
		t.Fatal("expected node with children to not be a leaf")
	}
}
