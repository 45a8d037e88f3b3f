package tracer

import (
	"github.com/bircni/Raytracing/scene"
	"github.com/bircni/Raytracing/types"
	"github.com/chewxy/math32"
)

// Clamp for the inverse-square light attenuation so a light sitting on
// the shaded surface cannot divide by zero.
const minLightDistSq float32 = 1e-6

// Lights whose color reaches a point weaker than this after shadow
// transmission are skipped entirely.
const minLightContribution float32 = 0.01

// Shader evaluates outgoing radiance for camera rays. It holds only
// read-only references (scene, spatial index) and an immutable bounce
// limit, so a single shader is shared by all render workers.
type Shader struct {
	sc         *scene.Scene
	bvh        *BVH
	numBounces uint32
}

// NewShader pairs a read-only scene snapshot with its spatial index.
func NewShader(sc *scene.Scene, bvh *BVH, numBounces uint32) *Shader {
	return &Shader{
		sc:         sc,
		bvh:        bvh,
		numBounces: numBounces,
	}
}

// Trace resolves the surface a ray shades: the closest opaque hit, with
// transmissive surfaces passed through. When a transmissive chain exits
// the scene without reaching anything opaque the furthest transmissive
// surface is shaded instead; only a ray that hits nothing at all is a
// miss.
func (s *Shader) Trace(r Ray) (Hit, bool) {
	var last Hit
	var found bool

	tMin := rayDelta
	for {
		hit, ok := s.bvh.Intersect(r, tMin, math32.MaxFloat32)
		if !ok {
			return last, found
		}
		last, found = hit, true
		if !hit.Material.Transmissive() {
			return hit, true
		}
		tMin = hit.T + rayDelta
	}
}

// lightTransmission returns the fraction of light reaching a point along
// a shadow ray, walking every occluder in (0, maxDist). An opaque
// occluder blocks the light outright; a transmissive occluder tints it
// by its diffuse color scaled by the transmission factor.
func (s *Shader) lightTransmission(r Ray, maxDist float32) types.Vec3 {
	factor := types.Vec3{1, 1, 1}

	tMin := float32(0)
	for {
		hit, ok := s.bvh.Intersect(r, tMin, maxDist)
		if !ok {
			return factor
		}
		if !hit.Material.Transmissive() {
			return types.Vec3{}
		}
		factor = factor.MulVec(hit.Material.DiffuseColor().Mul(hit.Material.Transmission))
		tMin = hit.T + rayDelta
	}
}

func (s *Shader) background(dir types.Vec3) types.Vec3 {
	if s.sc.Skybox == nil {
		return types.Vec3{}
	}
	return s.sc.Skybox.At(dir)
}

// Shade computes the outgoing radiance for a ray. Rays that miss all
// geometry evaluate the skybox; hits accumulate the ambient term, per
// light diffuse and specular contributions attenuated by shadow-ray
// transmission, the material's emission and - while depth < the bounce
// limit - a scaled recursive reflection.
func (s *Shader) Shade(r Ray, depth uint32) types.Vec3 {
	hit, ok := s.Trace(r)
	if !ok {
		return s.background(r.Dir)
	}

	mat := hit.Material
	diffuse := mat.DiffuseColor()

	color := s.sc.AmbientColor.MulVec(diffuse).Mul(s.sc.AmbientIntensity)
	if mat != nil {
		color = color.Add(mat.Emissive)
	}

	for i := range s.sc.Lights {
		light := &s.sc.Lights[i]

		toLight := light.Position.Sub(hit.Point)
		distSq := toLight.LenSq()
		if distSq < minLightDistSq {
			distSq = minLightDistSq
		}
		dist := math32.Sqrt(distSq)

		ldir := toLight.Normalize()
		if ldir == (types.Vec3{}) {
			// Light colocated with the surface point; treat it as
			// arriving along the normal.
			ldir = hit.Normal
		}

		// Shadow ray, offset along the normal to dodge self-intersection.
		shadowOrigin := hit.Point.Add(hit.Normal.Mul(rayDelta))
		lightColor := light.Color.MulVec(s.lightTransmission(NewRay(shadowOrigin, ldir), dist-rayDelta))
		if lightColor.Len() < minLightContribution {
			continue
		}

		lightIntensity := light.Intensity / distSq

		// Diffuse term; back-facing lights contribute nothing.
		if nDotL := hit.Normal.Dot(ldir); nDotL > 0 {
			color = color.Add(diffuse.MulVec(lightColor).Mul(nDotL * lightIntensity))
		}

		// Specular highlight.
		if mat.SpecularHighlight() {
			viewRefl := r.Dir.Reflect(hit.Normal)
			if sDot := ldir.Dot(viewRefl); sDot > 0 {
				color = color.Add(mat.Specular.MulVec(lightColor).Mul(math32.Pow(sDot, mat.SpecularExp) * lightIntensity))
			}
		}
	}

	if mat.Reflective() && depth < s.numBounces {
		reflOrigin := hit.Point.Add(hit.Normal.Mul(rayDelta))
		reflRay := NewRay(reflOrigin, r.Dir.Reflect(hit.Normal))
		color = color.Add(s.Shade(reflRay, depth+1).Mul(mat.Reflectivity))
	}

	return color
}

// RenderPixel averages spp stratified, jittered samples for the pixel at
// (x, y). Sample placement depends only on the seed, the pixel
// coordinate and the sample index, making the result independent of
// worker scheduling.
func (s *Shader) RenderPixel(x, y, frameW, frameH, spp uint32, seed uint64) types.Vec3 {
	aspect := float32(frameW) / float32(frameH)
	sqrtS := uint32(math32.Sqrt(float32(spp)))
	if sqrtS < 1 {
		sqrtS = 1
	}

	var sum types.Vec3
	for i := uint32(0); i < spp; i++ {
		xi := i % sqrtS
		yi := i / sqrtS
		jx, jy := sampleJitter(seed, x, y, i)

		u := (float32(x) + (float32(xi)+jx)/float32(sqrtS)) / float32(frameW)
		v := (float32(y) + (float32(yi)+jy)/float32(sqrtS)) / float32(frameH)

		dir := s.sc.Camera.RayDirection((u*2-1)*aspect, v*2-1)
		sum = sum.Add(s.Shade(NewRay(s.sc.Camera.Position, dir), 0))
	}

	return sum.Mul(1.0 / float32(spp))
}
