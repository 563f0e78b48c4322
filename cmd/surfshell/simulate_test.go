package main

import (
	"os"
	"path/filepath"
	"testing"
)

const simScene = `
output: {width: 1280, height: 720}
overview: true
surfaces:
  - name: editor
    geometry: {x: 10, y: 10, width: 800, height: 600}
  - name: term
    geometry: {x: 200, y: 100, width: 640, height: 400}
activate: [term]
`

func TestRunSimulate(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "missing.yaml")
	scenePath := filepath.Join(dir, "desk.yaml")
	if err := os.WriteFile(scenePath, []byte(simScene), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	badPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("surfaces: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"yaml", []string{"--config", cfgPath, scenePath}, 0},
		{"json", []string{"--config", cfgPath, "--json", scenePath}, 0},
		{"invalid scene", []string{"--config", cfgPath, badPath}, 1},
		{"missing scene", []string{"--config", cfgPath, filepath.Join(dir, "nope.yaml")}, 1},
		{"no args", nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runSimulate(tt.args); got != tt.want {
				t.Fatalf("runSimulate(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}
