package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingFile_RotatesAtLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shell.log")

	rf, err := OpenRotatingFile(RotateConfig{Path: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rf.Close()

	chunk := bytes.Repeat([]byte("x"), 1024*1024)
	if _, err := rf.Write(chunk); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := rf.Write([]byte("after\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	rotated, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	if len(rotated) != len(chunk) {
		t.Fatalf("expected rotated file of %d bytes, got %d", len(chunk), len(rotated))
	}
	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(current) != "after\n" {
		t.Fatalf("unexpected current content %q", current)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestRotatingFile_WriteAfterClose(t *testing.T) {
	rf, err := OpenRotatingFile(RotateConfig{Path: filepath.Join(t.TempDir(), "a.log")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := rf.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := rf.Write([]byte("x")); err == nil {
		t.Fatalf("expected error writing to closed file")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetLogger_NilRestoresSilent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(NewHandler(&buf, "text", slog.LevelDebug)))
	Logger().Info("hello", "k", 1)
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected message in output, got %q", buf.String())
	}

	SetLogger(nil)
	buf.Reset()
	Logger().Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected silent logger, got %q", buf.String())
	}
}
