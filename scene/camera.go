package scene

import (
	"github.com/bircni/Raytracing/types"
	"github.com/chewxy/math32"
)

// Camera generates primary rays for the image plane. It is configured
// once per render; RayDirection is a pure function so workers can share
// a single camera without synchronization.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Vertical field of view in degrees.
	FOV float32

	// Cached orthonormal basis, set up by Update.
	forward types.Vec3
	right   types.Vec3
	up      types.Vec3
	tanFov  float32
}

// NewCamera creates a camera looking from position towards lookAt.
func NewCamera(position, lookAt, up types.Vec3, fov float32) *Camera {
	c := &Camera{
		Position: position,
		LookAt:   lookAt,
		Up:       up,
		FOV:      fov,
	}
	c.Update()
	return c
}

// Update recalculates the camera basis vectors. Must be called after
// mutating any of the public fields and before generating rays.
func (c *Camera) Update() {
	c.forward = c.LookAt.Sub(c.Position).Normalize()
	if c.forward == (types.Vec3{}) {
		// Degenerate look-at; fall back to -Z so ray generation stays valid.
		c.forward = types.Vec3{0, 0, -1}
	}
	c.right = c.forward.Cross(c.Up).Normalize()
	if c.right == (types.Vec3{}) {
		// Up is collinear with the view direction; pick a substitute axis.
		c.right = c.forward.Cross(types.Vec3{1, 0, 0}).Normalize()
		if c.right == (types.Vec3{}) {
			c.right = c.forward.Cross(types.Vec3{0, 0, 1}).Normalize()
		}
	}
	c.up = c.right.Cross(c.forward)
	c.tanFov = math32.Tan(c.FOV * math32.Pi / 360.0)
}

// RayDirection maps screen coordinates to a world-space primary ray
// direction. x spans [-aspect, aspect] left to right and y spans [-1, 1]
// top to bottom, matching an image origin at the top-left corner.
func (c *Camera) RayDirection(x, y float32) types.Vec3 {
	return c.forward.
		Add(c.right.Mul(x * c.tanFov)).
		Add(c.up.Mul(-y * c.tanFov)).
		Normalize()
}
