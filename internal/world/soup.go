package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Faultbox/groundwalk/internal/engine/collision"
	"github.com/Faultbox/groundwalk/pkg/math"
)

// soupVersion is bumped whenever the soup layout changes.
const soupVersion = 1

// ErrSoupVersion is returned for soups written by a different version.
var ErrSoupVersion = errors.New("unsupported soup version")

// Soup is a baked, pre-transformed triangle list stored as msgpack.
type Soup struct {
	Version int          `msgpack:"v"`
	Name    string       `msgpack:"name"`
	Tris    [][9]float32 `msgpack:"tris"`
	Objects []SoupObject `msgpack:"objects,omitempty"`
	Start   *[5]float32  `msgpack:"start,omitempty"` // x, y, z, yaw, pitch (radians)
}

// SoupObject keeps interaction ids across a bake.
type SoupObject struct {
	Name  string `msgpack:"name"`
	ID    string `msgpack:"id,omitempty"`
	First int    `msgpack:"first"`
	Count int    `msgpack:"count"`
}

// Triangles converts the stored vertices back to triangles.
func (s *Soup) Triangles() []collision.Triangle {
	tris := make([]collision.Triangle, len(s.Tris))
	for i, v := range s.Tris {
		tris[i] = triangleFromArray(v)
	}
	return tris
}

// NewSoup flattens a loaded scene.
func NewSoup(s *Scene) *Soup {
	soup := &Soup{Version: soupVersion, Name: s.Name, Tris: make([][9]float32, len(s.Triangles))}
	for i, t := range s.Triangles {
		soup.Tris[i] = triangleToArray(t)
	}
	for _, o := range s.Objects {
		soup.Objects = append(soup.Objects, SoupObject{Name: o.Name, ID: o.ID, First: o.First, Count: o.Count})
	}
	if s.HasStart {
		soup.Start = &[5]float32{s.Spawn.X, s.Spawn.Y, s.Spawn.Z, s.SpawnYaw, s.SpawnPitch}
	}
	return soup
}

// Scene rebuilds a scene from a soup written by NewSoup. Triangles not
// covered by any object are attributed to a trailing unnamed object.
func (s *Soup) Scene() *Scene {
	scene := &Scene{Name: s.Name, Triangles: s.Triangles(), Bounds: collision.EmptyAABB()}
	scene.Owners = make([]int, len(scene.Triangles))
	for i := range scene.Owners {
		scene.Owners[i] = -1
	}
	for _, o := range s.Objects {
		idx := len(scene.Objects)
		scene.Objects = append(scene.Objects, Object{Name: o.Name, ID: o.ID, Type: TypeSoup, First: o.First, Count: o.Count})
		for i := o.First; i < o.First+o.Count && i < len(scene.Owners); i++ {
			if i >= 0 {
				scene.Owners[i] = idx
			}
		}
	}
	orphan := -1
	for i, owner := range scene.Owners {
		if owner >= 0 {
			continue
		}
		if orphan < 0 {
			orphan = len(scene.Objects)
			scene.Objects = append(scene.Objects, Object{Type: TypeSoup, First: i})
		}
		scene.Owners[i] = orphan
		scene.Objects[orphan].Count++
	}
	for _, t := range scene.Triangles {
		scene.Bounds = scene.Bounds.Union(t.Bounds())
	}

	if s.Start != nil {
		scene.Spawn = math.Vec3{X: s.Start[0], Y: s.Start[1], Z: s.Start[2]}
		scene.SpawnYaw, scene.SpawnPitch = s.Start[3], s.Start[4]
		scene.HasStart = true
	} else {
		scene.Spawn = defaultSpawn(scene.Bounds)
	}
	return scene
}

// SaveSoup writes a scene's triangles to path.
func SaveSoup(path string, s *Scene) error {
	data, err := msgpack.Marshal(NewSoup(s))
	if err != nil {
		return fmt.Errorf("encoding soup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating soup dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadSoup reads a soup written by SaveSoup.
func LoadSoup(path string) (*Soup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading soup: %w", err)
	}
	var s Soup
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding soup %s: %w", path, err)
	}
	if s.Version != soupVersion {
		return nil, fmt.Errorf("%w: %d", ErrSoupVersion, s.Version)
	}
	return &s, nil
}

func triangleFromArray(v [9]float32) collision.Triangle {
	return collision.Triangle{
		A: math.FromArray([3]float32(v[0:3])),
		B: math.FromArray([3]float32(v[3:6])),
		C: math.FromArray([3]float32(v[6:9])),
	}
}

func triangleToArray(t collision.Triangle) [9]float32 {
	return [9]float32{t.A.X, t.A.Y, t.A.Z, t.B.X, t.B.Y, t.B.Z, t.C.X, t.C.Y, t.C.Z}
}
