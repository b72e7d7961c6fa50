// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned by Validate for settings the viewer cannot run with.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Player   PlayerConfig   `yaml:"player"`
	Octree   OctreeConfig   `yaml:"octree"`
	Scene    SceneConfig    `yaml:"scene"`
	Input    InputConfig    `yaml:"input"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FPSLimit   int     `yaml:"fps_limit"`
	FOV        float32 `yaml:"fov"` // Vertical field of view in degrees
}

// PlayerConfig holds the capsule dimensions and movement tuning.
type PlayerConfig struct {
	WalkSpeed        float32 `yaml:"walk_speed"`
	Gravity          float32 `yaml:"gravity"`
	CapsuleRadius    float32 `yaml:"capsule_radius"`
	CapsuleHeight    float32 `yaml:"capsule_height"`
	AbyssY           float32 `yaml:"abyss_y"`
	MaxStep          float32 `yaml:"max_step"`
	InteractDistance float32 `yaml:"interact_distance"`
}

// OctreeConfig holds the collision index build limits.
type OctreeConfig struct {
	MaxDepth      int `yaml:"max_depth"`
	LeafTriangles int `yaml:"leaf_triangles"`
}

// SceneConfig holds where the world comes from.
type SceneConfig struct {
	Path     string   `yaml:"path"`      // Scene YAML file
	GRFPaths []string `yaml:"grf_paths"` // Archives searched for ground files
	CacheDir string   `yaml:"cache_dir"` // Baked triangle soups
}

// InputConfig holds mouse look settings.
type InputConfig struct {
	MouseSensitivity float32 `yaml:"mouse_sensitivity"` // Radians per pixel
	InvertY          bool    `yaml:"invert_y"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:    1280,
			Height:   720,
			VSync:    true,
			FPSLimit: 0,
			FOV:      70,
		},
		Player: PlayerConfig{
			WalkSpeed:        3,
			Gravity:          30,
			CapsuleRadius:    0.35,
			CapsuleHeight:    1,
			AbyssY:           -20,
			MaxStep:          0.1,
			InteractDistance: 5,
		},
		Octree: OctreeConfig{
			MaxDepth:      8,
			LeafTriangles: 16,
		},
		Scene: SceneConfig{
			Path: "scenes/demo.yaml",
		},
		Input: InputConfig{
			MouseSensitivity: 0.002,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings that would break the physics or the window.
func (c *Config) Validate() error {
	p := c.Player
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	case c.Graphics.FOV <= 0 || c.Graphics.FOV >= 180:
		return fmt.Errorf("%w: fov %v", ErrInvalid, c.Graphics.FOV)
	case p.CapsuleRadius <= 0:
		return fmt.Errorf("%w: player.capsule_radius must be positive, got %v", ErrInvalid, p.CapsuleRadius)
	case p.CapsuleHeight < 0:
		return fmt.Errorf("%w: player.capsule_height %v", ErrInvalid, p.CapsuleHeight)
	case p.Gravity < 0:
		return fmt.Errorf("%w: player.gravity %v", ErrInvalid, p.Gravity)
	case p.WalkSpeed < 0:
		return fmt.Errorf("%w: player.walk_speed %v", ErrInvalid, p.WalkSpeed)
	case p.MaxStep <= 0:
		return fmt.Errorf("%w: player.max_step %v", ErrInvalid, p.MaxStep)
	case c.Octree.MaxDepth < 0 || c.Octree.LeafTriangles < 1:
		return fmt.Errorf("%w: octree max_depth %d leaf_triangles %d", ErrInvalid, c.Octree.MaxDepth, c.Octree.LeafTriangles)
	}
	return nil
}
