package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/groundwalk/internal/logger"
)

// CachePath returns where the baked soup for a scene file lives.
func CachePath(cacheDir, scenePath string) string {
	base := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
	return filepath.Join(cacheDir, base+".soup")
}

// LoadCached loads a scene through a soup cache in cacheDir. A cache that is
// not older than the scene file is used as is; otherwise the scene is built
// and the cache rewritten. An empty cacheDir disables caching.
//
// Only the scene file's time is checked. Edits to referenced ground or soup
// files need the cache removed by hand.
func LoadCached(path, cacheDir string, opts Options) (*Scene, error) {
	if cacheDir == "" {
		return Load(path, opts)
	}
	log := logger.Named("world")
	cache := CachePath(cacheDir, path)

	if fresh, err := cacheFresh(path, cache); err != nil {
		return nil, err
	} else if fresh {
		soup, err := LoadSoup(cache)
		if err == nil {
			log.Info("scene loaded from cache", zap.String("cache", cache), zap.Int("triangles", len(soup.Tris)))
			return soup.Scene(), nil
		}
		log.Warn("ignoring unreadable scene cache", zap.String("cache", cache), zap.Error(err))
	}

	s, err := Load(path, opts)
	if err != nil {
		return nil, err
	}
	if err := SaveSoup(cache, s); err != nil {
		log.Warn("failed to write scene cache", zap.String("cache", cache), zap.Error(err))
	} else {
		log.Debug("scene cache written", zap.String("cache", cache))
	}
	return s, nil
}

func cacheFresh(scenePath, cachePath string) (bool, error) {
	scene, err := os.Stat(scenePath)
	if err != nil {
		return false, fmt.Errorf("reading scene: %w", err)
	}
	cache, err := os.Stat(cachePath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("checking scene cache: %w", err)
	}
	return !cache.ModTime().Before(scene.ModTime()), nil
}
