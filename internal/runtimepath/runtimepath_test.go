package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := filepath.Join(os.TempDir(), fmt.Sprintf("surfshell-runtime-%d", os.Getuid()))
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)
	t.Setenv(SocketEnv, "")

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if !strings.HasSuffix(socket, "/surfshell.sock") {
		t.Fatalf("SocketPath() = %q, missing suffix", socket)
	}

	override := filepath.Join(td, "other.sock")
	t.Setenv(SocketEnv, override)
	if socket, _ := SocketPath(); socket != override {
		t.Fatalf("SocketPath() = %q, want override %q", socket, override)
	}
}

func TestPrivateDir(t *testing.T) {
	uid := os.Getuid()
	base := t.TempDir()

	fresh := filepath.Join(base, "fresh")
	if got, err := privateDir(fresh, uid); err != nil || got != fresh {
		t.Fatalf("privateDir(fresh) = %q, %v", got, err)
	}

	open := filepath.Join(base, "open")
	if err := os.Mkdir(open, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Chmod(open, 0o777); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if _, err := privateDir(open, uid); err == nil || !strings.Contains(err.Error(), "writable") {
		t.Fatalf("privateDir(open) error = %v, want writable error", err)
	}

	if _, err := privateDir(fresh, uid+1); err == nil {
		t.Fatalf("expected error for foreign owner")
	}

	file := filepath.Join(base, "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := privateDir(file, uid); err == nil {
		t.Fatalf("expected error for a regular file")
	}
}
