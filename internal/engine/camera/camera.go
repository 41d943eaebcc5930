// Package camera provides the demo's first-person follow camera.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FollowCamera rides a target from a fixed offset and looks along the
// target's facing direction. Its eye position is what terrain level-of-detail
// selection keys off, and ViewMatrix is what a render backend would consume.
type FollowCamera struct {
	// Offset from the target to the eye, in world units.
	Offset mgl32.Vec3

	target mgl32.Vec3
	facing mgl32.Vec3
}

// NewFollowCamera creates a camera with the given eye offset, initially
// facing +X.
func NewFollowCamera(offset mgl32.Vec3) *FollowCamera {
	return &FollowCamera{Offset: offset, facing: mgl32.Vec3{1, 0, 0}}
}

// Follow re-targets the camera. Call once per tick after the character
// moves. A zero facing vector keeps the previous one.
func (c *FollowCamera) Follow(target, facing mgl32.Vec3) {
	c.target = target
	if facing.Len() > 0 {
		c.facing = facing.Normalize()
	}
}

// Eye returns the camera position in world space.
func (c *FollowCamera) Eye() mgl32.Vec3 {
	return c.target.Add(c.Offset)
}

// ViewMatrix returns the world-to-camera transform.
func (c *FollowCamera) ViewMatrix() mgl32.Mat4 {
	eye := c.Eye()
	return mgl32.LookAtV(eye, eye.Add(c.facing), mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns a perspective projection for the given output
// aspect ratio, with the clip range sized for the demo terrain.
func (c *FollowCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(60), aspect, 0.1, 1000)
}
