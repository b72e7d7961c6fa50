// Package player integrates the first-person capsule: walking input,
// gravity, collision resolution against the static world and respawn
// after falling out of it.
package player

import (
	"errors"
	"fmt"

	"github.com/Faultbox/groundwalk/internal/engine/collision"
	"github.com/Faultbox/groundwalk/pkg/math"
)

var (
	// ErrNoWorld is returned when a controller is created without a geometry index.
	ErrNoWorld = errors.New("player: world index is nil")

	// ErrInvalidConfig is returned for physically impossible settings.
	ErrInvalidConfig = errors.New("player: invalid config")
)

// Config holds the physical tuning of the player.
type Config struct {
	WalkSpeed     float32 // Horizontal speed in units per second
	Gravity       float32 // Downward acceleration, positive
	CapsuleRadius float32
	CapsuleHeight float32 // Length of the capsule segment; the eye sits at its top
	AbyssY        float32 // Respawn once the eye drops below this height
	MaxStep       float32 // Upper bound on a single update's dt, in seconds
}

// DefaultConfig returns the default player tuning.
func DefaultConfig() Config {
	return Config{
		WalkSpeed:     3,
		Gravity:       30,
		CapsuleRadius: 0.35,
		CapsuleHeight: 1,
		AbyssY:        -20,
		MaxStep:       0.1,
	}
}

// Validate reports the first impossible setting.
func (c Config) Validate() error {
	switch {
	case !(c.CapsuleRadius > 0):
		return fmt.Errorf("%w: capsule radius %v", ErrInvalidConfig, c.CapsuleRadius)
	case c.CapsuleHeight < 0:
		return fmt.Errorf("%w: capsule height %v", ErrInvalidConfig, c.CapsuleHeight)
	case c.Gravity < 0:
		return fmt.Errorf("%w: gravity %v", ErrInvalidConfig, c.Gravity)
	case c.WalkSpeed < 0:
		return fmt.Errorf("%w: walk speed %v", ErrInvalidConfig, c.WalkSpeed)
	case !(c.MaxStep > 0):
		return fmt.Errorf("%w: max step %v", ErrInvalidConfig, c.MaxStep)
	}
	return nil
}

// Input is the set of movement keys held this frame.
type Input struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
}

// Moving reports whether any movement key is held.
func (in Input) Moving() bool {
	return in.Forward || in.Back || in.Left || in.Right
}

// Phase is the per-frame floor classification. It is recomputed every
// update rather than carried between frames.
type Phase int

const (
	Falling Phase = iota
	Grounded
)

func (p Phase) String() string {
	if p == Grounded {
		return "grounded"
	}
	return "falling"
}

// State is a snapshot of the controller's physical state.
type State struct {
	Capsule  collision.Capsule
	Velocity math.Vec3
	OnFloor  bool
}

// Phase derives the floor classification from OnFloor.
func (s State) Phase() Phase {
	if s.OnFloor {
		return Grounded
	}
	return Falling
}

// Frame is what one update hands to the view.
type Frame struct {
	Pose      math.Vec3 // Eye position (capsule end)
	Phase     Phase
	Respawned bool
}
