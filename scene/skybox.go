package scene

import "github.com/bircni/Raytracing/types"

// Skybox supplies the environment radiance for rays that leave the scene.
// Implementations must be safe for concurrent use; all of them are pure
// lookups over immutable data.
type Skybox interface {
	// At returns the environment color for a world-space direction.
	// The direction does not need to be normalized.
	At(dir types.Vec3) types.Vec3
}

// SolidSkybox is a constant background color.
type SolidSkybox struct {
	Color types.Vec3
}

func (s SolidSkybox) At(types.Vec3) types.Vec3 {
	return s.Color
}

// GradientSkybox blends between a horizon and a zenith color based on the
// elevation of the lookup direction. Directions below the horizon return
// the ground color.
type GradientSkybox struct {
	Horizon types.Vec3
	Zenith  types.Vec3
	Ground  types.Vec3
}

func (s GradientSkybox) At(dir types.Vec3) types.Vec3 {
	elevation := dir.Normalize()[1]
	if elevation < 0 {
		return s.Ground
	}
	return s.Horizon.Lerp(s.Zenith, elevation)
}
