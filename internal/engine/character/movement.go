// Package character integrates a physics-driven character: directional
// acceleration, friction, jumping, gravity, and collision against the
// terrain surface, one tick per frame.
package character

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// rampTicks is how many ticks of sustained input it takes to reach maximum
// speed, and equally the airborne jump-acceleration budget a fresh jump
// grants.
const rampTicks = 5

// MovementState carries the movement intent supplied by the input layer once
// per tick, plus the remaining jump-acceleration budget.
type MovementState struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jumping  bool
	// CanJump is the number of ticks this character may keep accelerating
	// while airborne and holding jump. The input layer zeroes it when the
	// jump key is released.
	CanJump int
}

// TerrainQuery resolves the surface triangle under a world position.
type TerrainQuery interface {
	TriangleAt(pos mgl32.Vec3) [3]mgl32.Vec3
}

// GroundHeight resolves the surface height at (x, z) via the plane equation
// of the triangle under the point. The second return is false when no ground
// could be resolved: the query returned the out-of-bounds sentinel, or the
// triangle is vertical (plane normal with zero Y). The integrator skips
// grounding and ground clamping for such ticks instead of propagating an
// infinity or a division by zero.
func GroundHeight(q TerrainQuery, x, z float32) (float32, bool) {
	tri := q.TriangleAt(mgl32.Vec3{x, 0, z})
	for _, v := range tri {
		y := float64(v.Y())
		if gomath.IsInf(y, 0) || gomath.IsNaN(y) {
			return float32(gomath.Inf(-1)), false
		}
	}
	n := tri[0].Sub(tri[2]).Cross(tri[0].Sub(tri[1]))
	if n.Y() == 0 {
		return 0, false
	}
	d := n.Dot(tri[0])
	return (d - n.X()*x - n.Z()*z) / n.Y(), true
}

// CharacterState is a character's physical state: location and velocity,
// plus the movement constants. All constants are positive; gravity pulls
// downward by subtraction. Units are world units per tick (speeds) and per
// tick squared (accelerations).
type CharacterState struct {
	Loc mgl32.Vec3
	Vel mgl32.Vec3

	MaxSpeed float32
	Decel    float32
	MaxJump  float32
	Gravity  float32
}

// NewCharacterState creates a character at the given location and velocity.
func NewCharacterState(loc, vel mgl32.Vec3, maxSpeed, decel, maxJump, gravity float32) *CharacterState {
	return &CharacterState{
		Loc:      loc,
		Vel:      vel,
		MaxSpeed: maxSpeed,
		Decel:    decel,
		MaxJump:  maxJump,
		Gravity:  gravity,
	}
}

// Step advances the character by one tick.
//
// dir is the camera direction projected onto the XZ plane; forward/backward
// accelerate along it, left/right along its perpendicular. The flags combine
// additively, so diagonal movement is faster than axis movement; that is
// accepted behavior. Friction rescales planar speed toward MaxSpeed and
// never reverses it. Gravity applies unconditionally; position integrates by
// explicit Euler; finally the character clamps to the resolved ground height.
func (c *CharacterState) Step(dir mgl32.Vec3, movement *MovementState, ground TerrainQuery) {
	groundY, hasGround := GroundHeight(ground, c.Loc.X(), c.Loc.Z())

	// Accelerations sized so sustained input reaches maximum in five ticks.
	accel := c.Decel + c.MaxSpeed/rampTicks
	jumpAccel := c.Gravity + c.MaxJump/rampTicks

	vx, vy, vz := c.Vel.Elem()
	if movement.Forward {
		vx += dir.X() * accel
		vz += dir.Z() * accel
	}
	if movement.Backward {
		vx -= dir.X() * accel
		vz -= dir.Z() * accel
	}
	if movement.Left {
		vx -= dir.Z() * accel
		vz += dir.X() * accel
	}
	if movement.Right {
		vx += dir.Z() * accel
		vz -= dir.X() * accel
	}
	if movement.Jumping {
		if hasGround && c.Loc.Y() <= groundY {
			movement.CanJump = rampTicks
			vy += jumpAccel
		} else if movement.CanJump > 0 {
			movement.CanJump--
			vy += jumpAccel
		}
	}

	// Friction.
	speed := float32(gomath.Hypot(float64(vx), float64(vz)))
	if speed > 0 {
		var multiplier float32
		if speed-c.Decel > c.MaxSpeed {
			multiplier = c.MaxSpeed / speed
		} else {
			multiplier = (speed - c.Decel) / speed
			if multiplier < 0 {
				multiplier = 0
			}
		}
		vx *= multiplier
		vz *= multiplier
	}

	// Gravity.
	vy -= c.Gravity

	c.Vel = mgl32.Vec3{vx, vy, vz}
	c.Loc = c.Loc.Add(c.Vel)

	// Collision with ground.
	if hasGround && c.Loc.Y() <= groundY {
		c.Loc = mgl32.Vec3{c.Loc.X(), groundY, c.Loc.Z()}
		c.Vel = mgl32.Vec3{vx, 0, vz}
	}
}
