package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Faultbox/groundwalk/pkg/encoding"
)

// Create writes files into a new 0x200 archive at path. Names use '/' or
// '\' and are stored EUC-KR encoded with backslashes.
func Create(path string, files map[string][]byte) error {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var body, table bytes.Buffer
	for _, name := range names {
		packed, err := deflate(files[name])
		if err != nil {
			return fmt.Errorf("compressing %s: %w", name, err)
		}
		if len(packed) >= len(files[name]) {
			// Equal sizes mark an entry as stored uncompressed.
			packed = files[name]
		}
		aligned := (len(packed) + 7) &^ 7

		stored := strings.ReplaceAll(name, "/", "\\")
		table.Write(encoding.UTF8ToEUCKR(stored))
		table.WriteByte(0)
		_ = binary.Write(&table, binary.LittleEndian, [3]uint32{
			uint32(len(packed)), uint32(aligned), uint32(len(files[name])),
		})
		table.WriteByte(flagFile)
		_ = binary.Write(&table, binary.LittleEndian, uint32(body.Len()))

		body.Write(packed)
		body.Write(make([]byte, aligned-len(packed)))
	}

	packedTable, err := deflate(table.Bytes())
	if err != nil {
		return fmt.Errorf("compressing file table: %w", err)
	}

	h := Header{
		TableOffset: uint32(body.Len()),
		FileCount:   uint32(len(names)) + 7,
		Version:     version200,
	}
	copy(h.Magic[:], grfMagic)

	var out bytes.Buffer
	_ = binary.Write(&out, binary.LittleEndian, h)
	out.Write(body.Bytes())
	_ = binary.Write(&out, binary.LittleEndian, [2]uint32{uint32(len(packedTable)), uint32(table.Len())})
	out.Write(packedTable)

	return os.WriteFile(path, out.Bytes(), 0644)
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
