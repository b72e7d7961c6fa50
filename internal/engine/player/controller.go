package player

import (
	"go.uber.org/zap"

	"github.com/Faultbox/groundwalk/internal/engine/collision"
	"github.com/Faultbox/groundwalk/internal/logger"
	"github.com/Faultbox/groundwalk/pkg/math"
)

// Controller owns the player capsule and its velocity. The view only ever
// reads Pose; it writes back through Place and Respawn.
// A Controller is not safe for concurrent use.
type Controller struct {
	cfg   Config
	world *collision.Octree
	log   *zap.Logger

	spawn    math.Vec3
	capsule  collision.Capsule
	velocity math.Vec3
	onFloor  bool
}

// New creates a controller standing at spawn (the eye position).
func New(cfg Config, world *collision.Octree, spawn math.Vec3) (*Controller, error) {
	if world == nil {
		return nil, ErrNoWorld
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:   cfg,
		world: world,
		log:   logger.Named("player"),
		spawn: spawn,
	}
	c.Place(spawn)
	return c, nil
}

// Update advances the player by dt seconds. forward is the camera's view
// direction; only its horizontal part steers movement.
func (c *Controller) Update(dt float32, in Input, forward math.Vec3) Frame {
	dt = math.Clamp(dt, 0, c.cfg.MaxStep)

	// Horizontal velocity snaps to the input, no acceleration.
	move := moveDirection(in, forward).Scale(c.cfg.WalkSpeed)
	c.velocity.X = move.X
	c.velocity.Z = move.Z

	c.onFloor = false
	if res, hit := collision.Intersect(c.capsule, c.world); hit && res.Normal.Y > 0 {
		c.onFloor = true
		if c.velocity.Y < 0 {
			c.velocity.Y = 0
		}
	}

	if !c.onFloor {
		c.velocity.Y -= c.cfg.Gravity * dt
	}

	c.capsule.Translate(c.velocity.Scale(dt))
	if res, hit := collision.Intersect(c.capsule, c.world); hit {
		c.capsule.Translate(res.Correction())
		if res.Normal.Y > 0 {
			// Pushed up out of the floor: standing on it.
			c.velocity.Y = 0
			c.onFloor = true
		}
	}

	pose := c.capsule.End
	if pose.Y < c.cfg.AbyssY {
		c.log.Warn("fell out of the world, respawning",
			zap.Float32("y", pose.Y),
			zap.Float32("abyss_y", c.cfg.AbyssY))
		c.Respawn()
		return Frame{Pose: c.spawn, Phase: Falling, Respawned: true}
	}

	return Frame{Pose: pose, Phase: c.State().Phase()}
}

// Respawn returns the player to the spawn point at rest.
func (c *Controller) Respawn() {
	c.Place(c.spawn)
}

// Place rebuilds the capsule with its top at eye and clears all motion.
// The capsule is re-derived from the single point so any drift in its
// shape is discarded.
func (c *Controller) Place(eye math.Vec3) {
	c.capsule = collision.Capsule{
		Start:  eye.Sub(math.Vec3{Y: c.cfg.CapsuleHeight}),
		End:    eye,
		Radius: c.cfg.CapsuleRadius,
	}
	c.velocity = math.Vec3{}
	c.onFloor = false
}

// State returns a copy of the physical state.
func (c *Controller) State() State {
	return State{Capsule: c.capsule, Velocity: c.velocity, OnFloor: c.onFloor}
}

// Pose returns the eye position.
func (c *Controller) Pose() math.Vec3 {
	return c.capsule.End
}

// Spawn returns the respawn point.
func (c *Controller) Spawn() math.Vec3 {
	return c.spawn
}

// SetSpawn moves the respawn point without moving the player.
func (c *Controller) SetSpawn(p math.Vec3) {
	c.spawn = p
}

// moveDirection turns the held keys into a unit vector on the XZ plane in
// the camera's basis, or zero when nothing (or opposite keys) is held.
func moveDirection(in Input, forward math.Vec3) math.Vec3 {
	if !in.Moving() {
		return math.Vec3{}
	}
	fwd := forward.Horizontal().Normalize()
	right := fwd.Cross(math.Up)

	var dir math.Vec3
	if in.Forward {
		dir = dir.Add(fwd)
	}
	if in.Back {
		dir = dir.Sub(fwd)
	}
	if in.Right {
		dir = dir.Add(right)
	}
	if in.Left {
		dir = dir.Sub(right)
	}
	return dir.Normalize()
}
