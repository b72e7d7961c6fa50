package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/groundwalk/internal/config"
	"github.com/Faultbox/groundwalk/internal/engine/camera"
	"github.com/Faultbox/groundwalk/internal/engine/collision"
	"github.com/Faultbox/groundwalk/internal/engine/player"
	"github.com/Faultbox/groundwalk/internal/logger"
	"github.com/Faultbox/groundwalk/internal/world"
)

// Session is everything the frame loop simulates, without a window: the
// scene, its collision index, the player and the camera that follows it.
type Session struct {
	log *zap.Logger

	scene    *world.Scene
	index    *collision.Octree
	player   *player.Controller
	camera   *camera.FirstPerson
	interact float32

	locked bool
}

// PlayerConfig maps the player section of the viewer config.
func PlayerConfig(cfg *config.Config) player.Config {
	p := cfg.Player
	return player.Config{
		WalkSpeed:     p.WalkSpeed,
		Gravity:       p.Gravity,
		CapsuleRadius: p.CapsuleRadius,
		CapsuleHeight: p.CapsuleHeight,
		AbyssY:        p.AbyssY,
		MaxStep:       p.MaxStep,
	}
}

// BuildOptions maps the octree section of the viewer config.
func BuildOptions(cfg *config.Config) collision.BuildOptions {
	return collision.BuildOptions{
		MaxDepth:      cfg.Octree.MaxDepth,
		LeafTriangles: cfg.Octree.LeafTriangles,
	}
}

// NewSession indexes the scene and places the player at its start.
func NewSession(cfg *config.Config, scene *world.Scene) (*Session, error) {
	s := &Session{
		log:      logger.Named("game"),
		scene:    scene,
		index:    scene.BuildIndex(BuildOptions(cfg)),
		camera:   camera.NewFirstPerson(cfg.Graphics.FOV, cfg.Input.MouseSensitivity),
		interact: cfg.Player.InteractDistance,
	}
	s.camera.InvertY = cfg.Input.InvertY

	var err error
	s.player, err = player.New(PlayerConfig(cfg), s.index, scene.Spawn)
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	s.resetView()
	return s, nil
}

func (s *Session) resetView() {
	s.camera.SetOrientation(s.scene.SpawnYaw, s.scene.SpawnPitch)
	s.camera.SetPosition(s.player.Pose())
}

// Step advances one frame. While the pointer is free the world is frozen
// and mouse motion is ignored.
func (s *Session) Step(dt float32, in player.Input, mouseDX, mouseDY float32) player.Frame {
	if !s.locked {
		return player.Frame{Pose: s.player.Pose(), Phase: s.player.State().Phase()}
	}

	s.camera.HandleMouse(mouseDX, mouseDY)
	f := s.player.Update(dt, in, s.camera.Forward())
	if f.Respawned {
		s.resetView()
	} else {
		s.camera.SetPosition(f.Pose)
	}
	return f
}

// SetLocked starts or pauses the simulation.
func (s *Session) SetLocked(locked bool) {
	if s.locked != locked {
		s.log.Debug("simulation lock changed", zap.Bool("locked", locked))
	}
	s.locked = locked
}

// Locked reports whether the simulation is running.
func (s *Session) Locked() bool {
	return s.locked
}

// Respawn puts the player back at the start and restores the start view.
func (s *Session) Respawn() {
	s.player.Respawn()
	s.resetView()
	s.log.Info("player respawned", zap.Float32("x", s.player.Pose().X),
		zap.Float32("y", s.player.Pose().Y), zap.Float32("z", s.player.Pose().Z))
}

// Interact casts a ray along the view and reports the object it hits
// within the interaction distance. Objects without an id are not
// interactive.
func (s *Session) Interact() (world.Object, bool) {
	ray := collision.NewRay(s.camera.Position, s.camera.Forward())
	hit, ok := s.index.Raycast(ray, s.interact)
	if !ok {
		s.log.Debug("interaction missed")
		return world.Object{}, false
	}
	obj, ok := s.scene.ObjectAt(hit.Index)
	if !ok || obj.ID == "" {
		s.log.Debug("nothing to interact with", zap.String("object", obj.Name), zap.Float32("distance", hit.Distance))
		return world.Object{}, false
	}
	s.log.Info("interacted with object",
		zap.String("id", obj.ID),
		zap.String("name", obj.Name),
		zap.Float32("distance", hit.Distance))
	return obj, true
}

// Camera returns the view camera.
func (s *Session) Camera() *camera.FirstPerson {
	return s.camera
}

// Player returns the player controller.
func (s *Session) Player() *player.Controller {
	return s.player
}

// Scene returns the loaded scene.
func (s *Session) Scene() *world.Scene {
	return s.scene
}
