package grf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func createTestArchive(t *testing.T, files map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.grf")
	if err := Create(path, files); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return path
}

func openTestArchive(t *testing.T, files map[string][]byte) *Archive {
	t.Helper()
	a, err := Open(createTestArchive(t, files))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchiveRoundTrip(t *testing.T) {
	files := map[string][]byte{
		"data/test.txt":                  []byte("Hello, GRF!"),
		"data/prontera.gnd":              bytes.Repeat([]byte("GRGN"), 500),
		"data/subfolder/nested/file.txt": []byte("Nested file content"),
		"data/empty.txt":                 {},
		`data\texture\유저인터페이스\t.bmp`:     []byte("BM fake bitmap data"),
	}
	a := openTestArchive(t, files)

	want := []string{
		"data/empty.txt",
		"data/prontera.gnd",
		"data/subfolder/nested/file.txt",
		"data/test.txt",
		"data/texture/유저인터페이스/t.bmp",
	}
	if got := a.List(); !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	for name, content := range files {
		got, err := a.Read(name)
		if err != nil {
			t.Errorf("Read(%q): %v", name, err)
			continue
		}
		if !bytes.Equal(got, content) {
			t.Errorf("Read(%q) = %d bytes, want %d", name, len(got), len(content))
		}
	}
}

func TestArchiveLookupIgnoresCaseAndSlashes(t *testing.T) {
	a := openTestArchive(t, map[string][]byte{"data/Prontera.GND": []byte("x")})

	for _, p := range []string{"data/prontera.gnd", `DATA\PRONTERA.GND`, "Data/Prontera.gnd"} {
		if !a.Contains(p) {
			t.Errorf("Contains(%q) = false", p)
		}
	}
	if a.Contains("data/geffen.gnd") {
		t.Error("Contains returned true for a missing file")
	}

	e, err := a.Stat(`data\prontera.gnd`)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if e.UncompressedSize != 1 {
		t.Errorf("UncompressedSize = %d, want 1", e.UncompressedSize)
	}
}

func TestArchiveReadMissing(t *testing.T) {
	a := openTestArchive(t, map[string][]byte{"a.txt": []byte("a")})
	if _, err := a.Read("b.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read missing = %v, want ErrNotFound", err)
	}
	if _, err := a.Stat("b.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Stat missing = %v, want ErrNotFound", err)
	}
}

func TestOpenRejectsBadHeader(t *testing.T) {
	good, err := os.ReadFile(createTestArchive(t, map[string][]byte{"a.txt": []byte("a")}))
	if err != nil {
		t.Fatal(err)
	}

	badMagic := slices.Clone(good)
	copy(badMagic, "Master of Mayhem")

	badVersion := slices.Clone(good)
	badVersion[42] = 0x03

	truncated := good[:headerSize+4]

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"magic", badMagic, ErrInvalidMagic},
		{"version", badVersion, ErrVersion},
		{"truncated table", truncated, ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.grf")
			if err := os.WriteFile(path, tt.data, 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Open(path); !errors.Is(err, tt.want) {
				t.Errorf("Open = %v, want %v", err, tt.want)
			}
		})
	}
}
