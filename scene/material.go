package scene

import "github.com/bircni/Raytracing/types"

// Fallback color for surfaces without an assigned material.
var DefaultDiffuse = types.Vec3{0.9, 0.9, 0.9}

// Material describes the shading response of a surface. Materials are
// shared by reference across all triangles of an object and are never
// mutated while a render is in progress.
type Material struct {
	Name string

	// Base surface color.
	Diffuse types.Vec3

	// Specular highlight color; the highlight is only evaluated when
	// SpecularExp is positive.
	Specular    types.Vec3
	SpecularExp float32

	// Self-emitted radiance, added unconditionally on every hit.
	Emissive types.Vec3

	// Fraction of shaded color contributed by the mirror reflection,
	// in [0, 1]. Zero disables reflection rays entirely.
	Reflectivity float32

	// Fraction of light passing through the surface, in [0, 1]. Zero
	// marks the surface opaque. Transmissive surfaces are skipped by
	// view rays and attenuate shadow rays instead of blocking them.
	Transmission float32
}

// Check if the material spawns reflection rays.
func (m *Material) Reflective() bool {
	return m != nil && m.Reflectivity > 0
}

// Check if the material lets light pass through.
func (m *Material) Transmissive() bool {
	return m != nil && m.Transmission > 0
}

// Check if the material has a specular highlight term.
func (m *Material) SpecularHighlight() bool {
	return m != nil && m.SpecularExp > 0
}

// DiffuseColor returns the material base color, falling back to the
// default surface color for nil materials.
func (m *Material) DiffuseColor() types.Vec3 {
	if m == nil {
		return DefaultDiffuse
	}
	return m.Diffuse
}
