// Package world loads the static scene the player walks through and
// flattens it into one triangle list for the collision index.
package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/groundwalk/internal/engine/collision"
	"github.com/Faultbox/groundwalk/internal/logger"
	"github.com/Faultbox/groundwalk/pkg/math"
)

// Scene errors.
var (
	ErrUnknownType = errors.New("unknown object type")
	ErrMissingFile = errors.New("object needs a file")
	ErrBadSize     = errors.New("object size must be positive")
)

// defaultSpawnHeight is how far above the top of the scene the player
// starts when the file names no player start.
const defaultSpawnHeight = 2

// Object types.
const (
	TypePlane  = "plane"
	TypeBox    = "box"
	TypeRamp   = "ramp"
	TypeMesh   = "mesh"
	TypeGround = "ground"
	TypeSoup   = "soup"
)

type vec3 [3]float32

// File is the YAML layout of a scene.
type File struct {
	Name        string       `yaml:"name"`
	PlayerStart *PlayerStart `yaml:"player_start"`
	Objects     []ObjectSpec `yaml:"objects"`
}

// PlayerStart places the camera. Angles are in degrees.
type PlayerStart struct {
	Position vec3    `yaml:"position"`
	Yaw      float32 `yaml:"yaw"`
	Pitch    float32 `yaml:"pitch"`
}

// ObjectSpec describes one piece of static geometry.
type ObjectSpec struct {
	Name      string       `yaml:"name"`
	ID        string       `yaml:"id"` // Reported when the player interacts with it
	Type      string       `yaml:"type"`
	Position  vec3         `yaml:"position"`
	RotationY float32      `yaml:"rotation_y"` // Degrees
	Scale     *vec3        `yaml:"scale"`
	Size      vec3         `yaml:"size"`
	Triangles [][9]float32 `yaml:"triangles"`
	File      string       `yaml:"file"`
	Archive   string       `yaml:"archive"`
}

// Object is a loaded object and the triangles it contributed.
type Object struct {
	Name  string
	ID    string
	Type  string
	First int // Index of its first triangle in Scene.Triangles
	Count int
}

// Scene is the flattened static world.
type Scene struct {
	Name      string
	Triangles []collision.Triangle
	Owners    []int // Object index for each triangle
	Objects   []Object
	Bounds    collision.AABB

	Spawn      math.Vec3
	SpawnYaw   float32 // Radians
	SpawnPitch float32 // Radians
	HasStart   bool    // False when Spawn was chosen automatically
}

// Options controls where referenced files are looked up.
type Options struct {
	// BaseDir resolves relative object files. Load sets it to the scene's
	// directory when empty.
	BaseDir string
	// GRFPaths are searched, in order, for ground files missing on disk.
	GRFPaths []string
}

// Load reads and builds a scene file.
func Load(path string, opts Options) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}
	s, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse builds a scene from YAML.
func Parse(data []byte, opts Options) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return Build(&f, opts)
}

// Build turns a decoded scene file into triangles.
func Build(f *File, opts Options) (*Scene, error) {
	log := logger.Named("world")
	s := &Scene{Name: f.Name, Bounds: collision.EmptyAABB()}

	for i, o := range f.Objects {
		tris, err := loadObject(o, opts)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, o.Name, err)
		}

		m := math.Compose(math.FromArray(o.Position), math.Radians(o.RotationY), o.scale())
		obj := Object{Name: o.Name, ID: o.ID, Type: o.Type, First: len(s.Triangles), Count: len(tris)}
		for _, t := range tris {
			t = t.Transform(m)
			s.Triangles = append(s.Triangles, t)
			s.Owners = append(s.Owners, len(s.Objects))
			s.Bounds = s.Bounds.Union(t.Bounds())
		}
		s.Objects = append(s.Objects, obj)
		log.Debug("object loaded", zap.String("name", o.Name), zap.String("type", o.Type), zap.Int("triangles", len(tris)))
	}

	if f.PlayerStart != nil {
		s.Spawn = math.FromArray(f.PlayerStart.Position)
		s.SpawnYaw = math.Radians(f.PlayerStart.Yaw)
		s.SpawnPitch = math.Radians(f.PlayerStart.Pitch)
		s.HasStart = true
	} else {
		s.Spawn = defaultSpawn(s.Bounds)
		log.Warn("scene has no player start, using default spawn",
			zap.String("scene", f.Name),
			zap.Float32("x", s.Spawn.X), zap.Float32("y", s.Spawn.Y), zap.Float32("z", s.Spawn.Z))
	}
	return s, nil
}

func defaultSpawn(b collision.AABB) math.Vec3 {
	if b.IsEmpty() {
		return math.Vec3{Y: defaultSpawnHeight}
	}
	c := b.Center()
	return math.Vec3{X: c.X, Y: b.Max.Y + defaultSpawnHeight, Z: c.Z}
}

func (o ObjectSpec) scale() math.Vec3 {
	if o.Scale == nil {
		return math.Vec3{X: 1, Y: 1, Z: 1}
	}
	return math.FromArray(*o.Scale)
}

// loadObject returns the object's triangles in its local frame.
func loadObject(o ObjectSpec, opts Options) ([]collision.Triangle, error) {
	size := math.FromArray(o.Size)
	switch o.Type {
	case TypePlane:
		if size.X <= 0 || size.Z <= 0 {
			return nil, fmt.Errorf("%w: %v", ErrBadSize, o.Size)
		}
		return collision.Plane(size.X, size.Z), nil
	case TypeBox:
		if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
			return nil, fmt.Errorf("%w: %v", ErrBadSize, o.Size)
		}
		half := size.Scale(0.5)
		return collision.Box(collision.AABB{Min: half.Negate(), Max: half}), nil
	case TypeRamp:
		if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
			return nil, fmt.Errorf("%w: %v", ErrBadSize, o.Size)
		}
		return collision.Ramp(size), nil
	case TypeMesh:
		tris := make([]collision.Triangle, len(o.Triangles))
		for i, v := range o.Triangles {
			tris[i] = triangleFromArray(v)
		}
		return tris, nil
	case TypeGround:
		if o.File == "" {
			return nil, ErrMissingFile
		}
		return loadGround(o.File, o.Archive, opts)
	case TypeSoup:
		if o.File == "" {
			return nil, ErrMissingFile
		}
		soup, err := LoadSoup(resolve(opts.BaseDir, o.File))
		if err != nil {
			return nil, err
		}
		return soup.Triangles(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, o.Type)
	}
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// ObjectAt returns the object that owns triangle i.
func (s *Scene) ObjectAt(i int) (Object, bool) {
	if i < 0 || i >= len(s.Owners) {
		return Object{}, false
	}
	return s.Objects[s.Owners[i]], true
}

// BuildIndex builds the collision octree over the scene's triangles.
func (s *Scene) BuildIndex(opts collision.BuildOptions) *collision.Octree {
	start := time.Now()
	o := collision.Build(s.Triangles, opts)
	st := o.Stats()
	logger.Named("world").Info("collision index built",
		zap.String("scene", s.Name),
		zap.Int("triangles", st.Triangles),
		zap.Int("indexed", st.Indexed),
		zap.Int("nodes", st.Nodes),
		zap.Int("leaves", st.Leaves),
		zap.Int("depth", st.Depth),
		zap.Duration("elapsed", time.Since(start)))
	return o
}
