// Package camera provides the first-person camera the viewer renders from.
package camera

import (
	gomath "math"

	"github.com/Faultbox/groundwalk/pkg/math"
)

// MaxPitch keeps the view just short of straight up or down, where the
// LookAt basis degenerates.
const MaxPitch = 89 * gomath.Pi / 180

// FirstPerson looks out from a single point. Yaw 0 faces -Z; positive yaw
// turns left.
type FirstPerson struct {
	Position math.Vec3

	Yaw   float32 // Radians
	Pitch float32 // Radians, positive looks up

	// Projection
	FOV  float32 // Vertical, degrees
	Near float32
	Far  float32

	// Mouse
	Sensitivity float32 // Radians per pixel
	InvertY     bool
}

// NewFirstPerson creates a camera with the given vertical FOV in degrees and
// mouse sensitivity in radians per pixel.
func NewFirstPerson(fov, sensitivity float32) *FirstPerson {
	return &FirstPerson{
		FOV:         fov,
		Near:        0.05,
		Far:         1000,
		Sensitivity: sensitivity,
	}
}

// SetPosition moves the eye. The player controller calls it every frame.
func (c *FirstPerson) SetPosition(p math.Vec3) {
	c.Position = p
}

// SetOrientation sets yaw and pitch in radians, clamping pitch.
func (c *FirstPerson) SetOrientation(yaw, pitch float32) {
	c.Yaw = yaw
	c.Pitch = math.Clamp(pitch, -MaxPitch, MaxPitch)
}

// HandleMouse turns the camera by a relative mouse motion in pixels.
func (c *FirstPerson) HandleMouse(dx, dy float32) {
	if c.InvertY {
		dy = -dy
	}
	c.Yaw -= dx * c.Sensitivity
	c.Pitch = math.Clamp(c.Pitch-dy*c.Sensitivity, -MaxPitch, MaxPitch)

	// Keep yaw bounded so float precision does not drift after long sessions.
	c.Yaw = float32(gomath.Remainder(float64(c.Yaw), 2*gomath.Pi))
}

// Forward returns the unit view direction.
func (c *FirstPerson) Forward() math.Vec3 {
	sy, cy := gomath.Sincos(float64(c.Yaw))
	sp, cp := gomath.Sincos(float64(c.Pitch))
	return math.Vec3{
		X: float32(-sy * cp),
		Y: float32(sp),
		Z: float32(-cy * cp),
	}
}

// Right returns the unit right direction on the XZ plane.
func (c *FirstPerson) Right() math.Vec3 {
	sy, cy := gomath.Sincos(float64(c.Yaw))
	return math.Vec3{X: float32(cy), Z: float32(-sy)}
}

// ViewMatrix returns the view matrix for the current pose.
func (c *FirstPerson) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.Forward()), math.Up)
}

// ProjectionMatrix returns the perspective projection for a viewport
// aspect ratio (width / height).
func (c *FirstPerson) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(math.Radians(c.FOV), aspect, c.Near, c.Far)
}
