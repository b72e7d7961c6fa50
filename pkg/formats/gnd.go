// Package formats parses Ragnarok Online ground files into the height
// data the collision world is triangulated from.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/groundwalk/pkg/encoding"
)

// GND format errors.
var (
	ErrInvalidGNDMagic       = errors.New("invalid GND magic: expected 'GRGN'")
	ErrUnsupportedGNDVersion = errors.New("unsupported GND version")
	ErrTruncatedGNDData      = errors.New("truncated GND data")
	ErrInvalidGNDSize        = errors.New("invalid GND dimensions")
)

const (
	gndMaxSide     = 1024
	gndSurfaceSize = 40 // 8 UVs, texture and lightmap ids, BGRA color
)

// GNDVersion represents the GND file version.
type GNDVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v GNDVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// GNDTile is one cell of the ground grid.
type GNDTile struct {
	// Corner heights: bottom-left, bottom-right, top-left, top-right.
	// RO stores altitude growing downward.
	Altitude     [4]float32
	TopSurface   int32 // -1 = no top face
	FrontSurface int32 // Wall toward the next row, -1 = none
	RightSurface int32 // Wall toward the next column, -1 = none
}

// GND holds the geometry part of a ground file. Lightmaps and surface
// UVs are skipped.
type GND struct {
	Version      GNDVersion
	Width        uint32
	Height       uint32
	Zoom         float32 // Tile edge length in world units
	Textures     []string
	SurfaceCount uint32
	Tiles        []GNDTile
}

// GetTile returns the tile at the given coordinates, or nil when out of bounds.
func (g *GND) GetTile(x, y int) *GNDTile {
	if x < 0 || y < 0 || x >= int(g.Width) || y >= int(g.Height) {
		return nil
	}
	return &g.Tiles[y*int(g.Width)+x]
}

// GetAltitudeRange returns the minimum and maximum corner altitude.
func (g *GND) GetAltitudeRange() (lo, hi float32) {
	if len(g.Tiles) == 0 {
		return 0, 0
	}
	lo, hi = g.Tiles[0].Altitude[0], g.Tiles[0].Altitude[0]
	for _, tile := range g.Tiles {
		for _, h := range tile.Altitude {
			lo = min(lo, h)
			hi = max(hi, h)
		}
	}
	return lo, hi
}

// gndReader wraps a byte reader and keeps the first failure, so the parse
// reads straight through and checks once per section.
type gndReader struct {
	r   *bytes.Reader
	err error
}

func (gr *gndReader) read(what string, v any) {
	if gr.err != nil {
		return
	}
	if err := binary.Read(gr.r, binary.LittleEndian, v); err != nil {
		gr.err = fmt.Errorf("%w: reading %s", ErrTruncatedGNDData, what)
	}
}

func (gr *gndReader) skip(what string, n int64) {
	if gr.err != nil {
		return
	}
	if n > int64(gr.r.Len()) {
		gr.err = fmt.Errorf("%w: skipping %s", ErrTruncatedGNDData, what)
		return
	}
	_, _ = gr.r.Seek(n, io.SeekCurrent)
}

// ParseGND parses a GND file from raw bytes.
func ParseGND(data []byte) (*GND, error) {
	if len(data) < 18 {
		return nil, ErrTruncatedGNDData
	}
	if string(data[0:4]) != "GRGN" {
		return nil, ErrInvalidGNDMagic
	}

	g := &GND{Version: GNDVersion{Major: data[4], Minor: data[5]}}
	if g.Version.Major != 1 || g.Version.Minor < 5 || g.Version.Minor > 9 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGNDVersion, g.Version)
	}

	gr := &gndReader{r: bytes.NewReader(data[6:])}
	gr.read("width", &g.Width)
	gr.read("height", &g.Height)
	gr.read("zoom", &g.Zoom)
	if gr.err != nil {
		return nil, gr.err
	}
	if g.Width == 0 || g.Height == 0 || g.Width > gndMaxSide || g.Height > gndMaxSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGNDSize, g.Width, g.Height)
	}

	var texCount, texNameLen uint32
	gr.read("texture count", &texCount)
	gr.read("texture name length", &texNameLen)
	if gr.err == nil && int64(texCount)*int64(texNameLen) > int64(gr.r.Len()) {
		return nil, fmt.Errorf("%w: %d texture names", ErrTruncatedGNDData, texCount)
	}
	for i := uint32(0); i < texCount && gr.err == nil; i++ {
		name := make([]byte, texNameLen)
		gr.read("texture name", name)
		g.Textures = append(g.Textures, encoding.FixedStringToUTF8(name))
	}

	var lmCount, lmWidth, lmHeight, lmCells uint32
	gr.read("lightmap count", &lmCount)
	gr.read("lightmap width", &lmWidth)
	gr.read("lightmap height", &lmHeight)
	gr.read("lightmap cells", &lmCells)
	// Each lightmap is a brightness plane followed by an RGB plane.
	gr.skip("lightmaps", int64(lmCount)*int64(lmWidth)*int64(lmHeight)*int64(lmCells)*4)

	gr.read("surface count", &g.SurfaceCount)
	gr.skip("surfaces", int64(g.SurfaceCount)*gndSurfaceSize)
	if gr.err != nil {
		return nil, gr.err
	}

	g.Tiles = make([]GNDTile, int(g.Width)*int(g.Height))
	for i := range g.Tiles {
		gr.read("tile", &g.Tiles[i])
		if gr.err != nil {
			return nil, fmt.Errorf("parsing tile %d: %w", i, gr.err)
		}
	}
	return g, nil
}

// ParseGNDFile parses a GND file from disk.
func ParseGNDFile(path string) (*GND, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GND file: %w", err)
	}
	return ParseGND(data)
}

// Encode writes g as a version 1.7 ground file with no lightmaps and
// zeroed surfaces.
func (g *GND) Encode() []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("GRGN")
	buf.Write([]byte{1, 7})

	w := func(v any) { _ = binary.Write(buf, binary.LittleEndian, v) }
	w(g.Width)
	w(g.Height)
	w(g.Zoom)

	const nameLen = 80
	w(uint32(len(g.Textures)))
	w(uint32(nameLen))
	for _, tex := range g.Textures {
		buf.Write(encoding.UTF8ToFixedString(tex, nameLen))
	}

	w([4]uint32{0, 8, 8, 1}) // lightmap count, width, height, cells
	w(g.SurfaceCount)
	buf.Write(make([]byte, int(g.SurfaceCount)*gndSurfaceSize))
	w(g.Tiles)
	return buf.Bytes()
}
