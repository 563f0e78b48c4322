// Package runtimepath resolves per-user runtime locations such as the
// control socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// SocketEnv overrides the control socket path.
const SocketEnv = "SURFSHELL_SOCKET"

// Dir returns the runtime directory for the control socket: XDG_RUNTIME_DIR
// when set, else /run/user/<uid> when present, else a private directory
// under /tmp.
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	return privateDir(filepath.Join(os.TempDir(), fmt.Sprintf("surfshell-runtime-%d", uid)), uid)
}

// privateDir creates dir with mode 0700 and refuses one that another user
// owns or that others can write to.
func privateDir(dir string, uid int) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	info, err := os.Lstat(dir)
	if err != nil {
		return "", fmt.Errorf("failed to stat runtime dir: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("runtime dir %s is not a directory", dir)
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok && int(st.Uid) != uid {
		return "", fmt.Errorf("runtime dir %s is owned by uid %d", dir, st.Uid)
	}
	if info.Mode().Perm()&0o022 != 0 {
		return "", fmt.Errorf("runtime dir %s is writable by others (mode %v)", dir, info.Mode().Perm())
	}
	return dir, nil
}

// SocketPath returns the control socket path of `surfshell x11 watch`.
func SocketPath() (string, error) {
	if path := os.Getenv(SocketEnv); path != "" {
		return path, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "surfshell.sock"), nil
}
