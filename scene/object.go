package scene

import (
	"github.com/bircni/Raytracing/log"
	"github.com/bircni/Raytracing/types"
)

var logger = log.New("scene")

// Vertex is a mesh vertex with an optional shading normal. A zero Normal
// means "use the triangle's geometric normal".
type Vertex struct {
	Position types.Vec3
	Normal   types.Vec3
}

// MeshTriangle indexes nothing; meshes keep their triangles inline since
// the core never re-indexes geometry after the scene is built.
type MeshTriangle struct {
	V [3]Vertex
}

// Mesh is an object-space triangle soup supplied by an external loader.
type Mesh struct {
	Triangles []MeshTriangle
}

// Transform positions a mesh in the world. It is applied exactly once
// when the scene is baked; the render phase only ever sees world-space
// geometry.
type Transform struct {
	Position types.Vec3
	Rotation types.Quat
	Scale    types.Vec3
}

// TransformIdent returns the identity transform.
func TransformIdent() Transform {
	return Transform{
		Rotation: types.QuatIdent(),
		Scale:    types.Vec3{1, 1, 1},
	}
}

// Apply transforms an object-space point to world space:
// scale, then rotate, then translate.
func (t Transform) Apply(p types.Vec3) types.Vec3 {
	scaled := types.Vec3{p[0] * t.Scale[0], p[1] * t.Scale[1], p[2] * t.Scale[2]}
	return t.Rotation.Rotate(scaled).Add(t.Position)
}

// ApplyNormal transforms an object-space normal to world space. Normals
// are rotated only and renormalized; non-uniform scale support would need
// the inverse transpose which the supported transforms do not require.
func (t Transform) ApplyNormal(n types.Vec3) types.Vec3 {
	return t.Rotation.Rotate(n).Normalize()
}

// Object couples a mesh with a world transform and a material.
type Object struct {
	Name      string
	Mesh      Mesh
	Transform Transform
	Material  *Material
}

// BakedTriangle is a world-space triangle produced by Object.Bake.
// Shading normals default to the geometric normal when the mesh carries
// no per-vertex normals.
type BakedTriangle struct {
	P       [3]types.Vec3
	N       [3]types.Vec3
	Mat     *Material
	GeoNorm types.Vec3
}

// Bake applies the object transform to every mesh triangle, producing
// world-space geometry for the spatial index. Degenerate (zero-area)
// triangles are skipped with a warning rather than failing the build.
func (o *Object) Bake() []BakedTriangle {
	out := make([]BakedTriangle, 0, len(o.Mesh.Triangles))
	skipped := 0

	for _, tri := range o.Mesh.Triangles {
		var baked BakedTriangle
		for i := 0; i < 3; i++ {
			baked.P[i] = o.Transform.Apply(tri.V[i].Position)
		}

		geoNorm := baked.P[1].Sub(baked.P[0]).Cross(baked.P[2].Sub(baked.P[0])).Normalize()
		if geoNorm == (types.Vec3{}) {
			skipped++
			continue
		}
		baked.GeoNorm = geoNorm

		for i := 0; i < 3; i++ {
			if tri.V[i].Normal == (types.Vec3{}) {
				baked.N[i] = geoNorm
				continue
			}
			n := o.Transform.ApplyNormal(tri.V[i].Normal)
			if n == (types.Vec3{}) {
				n = geoNorm
			}
			baked.N[i] = n
		}

		baked.Mat = o.Material
		out = append(out, baked)
	}

	if skipped > 0 {
		logger.Warningf("object %q: skipped %d degenerate triangles", o.Name, skipped)
	}
	return out
}
