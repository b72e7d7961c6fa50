package world

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Faultbox/groundwalk/pkg/math"
)

func TestCachePath(t *testing.T) {
	if got, want := CachePath("cache", "maps/prontera.yaml"), filepath.Join("cache", "prontera.soup"); got != want {
		t.Errorf("CachePath = %q, want %q", got, want)
	}
}

func TestLoadCached(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeFile(t, dir, "demo.yaml", []byte(demoScene))
	cacheDir := filepath.Join(dir, "cache")
	cache := CachePath(cacheDir, scenePath)

	first, err := LoadCached(scenePath, cacheDir, Options{})
	if err != nil {
		t.Fatalf("LoadCached: %v", err)
	}
	if _, err := os.Stat(cache); err != nil {
		t.Fatalf("cache not written: %v", err)
	}

	// A fresh cache is used instead of the scene file.
	marked := NewSoup(first)
	marked.Name = "from-cache"
	data, err := msgpack.Marshal(marked)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cache, data, 0644); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if err := os.Chtimes(scenePath, now.Add(-time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(cache, now, now); err != nil {
		t.Fatal(err)
	}

	cached, err := LoadCached(scenePath, cacheDir, Options{})
	if err != nil {
		t.Fatalf("LoadCached from cache: %v", err)
	}
	if cached.Name != "from-cache" {
		t.Fatalf("scene name = %q, want the cached copy", cached.Name)
	}
	if len(cached.Triangles) != len(first.Triangles) || cached.Spawn != first.Spawn || cached.SpawnYaw != first.SpawnYaw || !cached.HasStart {
		t.Errorf("cached scene differs: %d triangles, spawn %v yaw %v", len(cached.Triangles), cached.Spawn, cached.SpawnYaw)
	}
	if o, ok := cached.ObjectAt(2); !ok || o.ID != "crate-01" {
		t.Errorf("cached ObjectAt(2) = %+v, want the crate", o)
	}

	// Touching the scene makes the cache stale.
	later := now.Add(time.Hour)
	if err := os.Chtimes(scenePath, later, later); err != nil {
		t.Fatal(err)
	}
	rebuilt, err := LoadCached(scenePath, cacheDir, Options{})
	if err != nil {
		t.Fatalf("LoadCached stale: %v", err)
	}
	if rebuilt.Name != "demo" {
		t.Errorf("scene name = %q, want a rebuild", rebuilt.Name)
	}
}

func TestLoadCachedWithoutCacheDir(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeFile(t, dir, "demo.yaml", []byte(demoScene))
	if _, err := LoadCached(scenePath, "", Options{}); err != nil {
		t.Fatalf("LoadCached: %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 1 {
		t.Errorf("expected no cache files, got %d entries", len(entries))
	}
	if _, err := LoadCached(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "cache"), Options{}); err == nil {
		t.Error("expected an error for a missing scene")
	}
}

func TestSoupSceneAttributesOrphans(t *testing.T) {
	s := &Soup{
		Version: soupVersion,
		Tris: [][9]float32{
			{0, 0, 0, 0, 0, 1, 1, 0, 0},
			{0, 1, 0, 0, 1, 1, 1, 1, 0},
			{0, 2, 0, 0, 2, 1, 1, 2, 0},
		},
		Objects: []SoupObject{{Name: "middle", ID: "m", First: 1, Count: 1}},
	}
	scene := s.Scene()
	if len(scene.Objects) != 2 || scene.Objects[1].Count != 2 {
		t.Fatalf("objects = %+v", scene.Objects)
	}
	if o, _ := scene.ObjectAt(1); o.ID != "m" {
		t.Errorf("ObjectAt(1) = %+v", o)
	}
	if o, _ := scene.ObjectAt(2); o.ID != "" {
		t.Errorf("ObjectAt(2) = %+v, want the unnamed rest", o)
	}
	if scene.HasStart {
		t.Error("soup without a start should not claim one")
	}
	if want := (math.Vec3{X: 0.5, Y: 2 + defaultSpawnHeight, Z: 0.5}); scene.Spawn.Distance(want) > 1e-6 {
		t.Errorf("Spawn = %v, want %v", scene.Spawn, want)
	}
}
