package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func initFile(t *testing.T, level string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), level+".log")
	opts := DefaultOptions()
	opts.Level = level
	opts.File = path
	opts.Console = false
	opts.Compress = false
	if err := Init(opts); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	Sync()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := initFile(t, tt.level)

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			content := readLog(t, path)
			for _, exp := range tt.expected {
				if !strings.Contains(content, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(content, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestNamedTagsComponent(t *testing.T) {
	path := initFile(t, "info")

	Named("octree").Info("built")

	if content := readLog(t, path); !strings.Contains(content, "octree") {
		t.Errorf("component name missing from %q", content)
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	opts := DefaultOptions()
	opts.Level = "loud"
	if err := Init(opts); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Level != "info" || !opts.Console {
		t.Errorf("DefaultOptions = %+v, want info to console", opts)
	}
	if opts.MaxSizeMB != 50 || opts.MaxBackups != 3 || opts.MaxAgeDays != 7 || !opts.Compress {
		t.Errorf("unexpected rotation defaults %+v", opts)
	}
}
