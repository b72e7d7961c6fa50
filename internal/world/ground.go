package world

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/groundwalk/internal/engine/collision"
	"github.com/Faultbox/groundwalk/internal/engine/terrain"
	"github.com/Faultbox/groundwalk/internal/logger"
	"github.com/Faultbox/groundwalk/pkg/formats"
	"github.com/Faultbox/groundwalk/pkg/grf"
)

// ErrGroundNotFound is returned when a ground file is neither on disk nor
// in any configured archive.
var ErrGroundNotFound = errors.New("ground file not found")

// loadGround reads a GND file and triangulates it in GND units. An explicit
// archive is searched alone; otherwise the disk comes first, then
// opts.GRFPaths in order.
func loadGround(file, archive string, opts Options) ([]collision.Triangle, error) {
	data, source, err := readGround(file, archive, opts)
	if err != nil {
		return nil, err
	}
	g, err := formats.ParseGND(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	tris := terrain.Triangulate(g, 1)
	logger.Named("world").Info("ground loaded",
		zap.String("file", file),
		zap.String("source", source),
		zap.Uint32("width", g.Width),
		zap.Uint32("height", g.Height),
		zap.Int("triangles", len(tris)))
	return tris, nil
}

func readGround(file, archive string, opts Options) (data []byte, source string, err error) {
	if archive != "" {
		path := resolve(opts.BaseDir, archive)
		data, err := readFromArchive(path, file)
		return data, path, err
	}

	path := resolve(opts.BaseDir, file)
	if data, err := os.ReadFile(path); err == nil {
		return data, path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("reading ground: %w", err)
	}

	for _, a := range opts.GRFPaths {
		data, err := readFromArchive(resolve(opts.BaseDir, a), file)
		if errors.Is(err, grf.ErrNotFound) {
			continue
		}
		return data, a, err
	}
	return nil, "", fmt.Errorf("%w: %s", ErrGroundNotFound, file)
}

func readFromArchive(archivePath, file string) ([]byte, error) {
	a, err := grf.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.Read(file)
}
