package scene

import "github.com/bircni/Raytracing/types"

// Light is a point light source. Lights are read-only for the duration
// of a render.
type Light struct {
	Position  types.Vec3
	Color     types.Vec3
	Intensity float32
}

// NewLight creates a point light from a position and a non-normalized
// emission color. The emission vector's length becomes the intensity and
// its direction the light color, mirroring how wavefront Ke values are
// commonly encoded.
func NewLight(position, emission types.Vec3) Light {
	return Light{
		Position:  position,
		Color:     emission.Normalize(),
		Intensity: emission.Len(),
	}
}
