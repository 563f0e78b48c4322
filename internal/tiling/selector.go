package tiling

import (
	"fmt"
	"sync"

	"github.com/1broseidon/surfshell/internal/config"
	"github.com/1broseidon/surfshell/internal/geom"
)

// Selector tracks the active layout and turns an output area into tiling
// geometry for a number of surfaces.
type Selector struct {
	mu           sync.RWMutex
	config       *config.Config
	activeLayout string
}

// NewSelector creates a selector starting on the configured default layout.
func NewSelector(cfg *config.Config) *Selector {
	return &Selector{config: cfg, activeLayout: cfg.Tiling.DefaultLayout}
}

// ActiveLayoutName returns the layout Plan uses.
func (s *Selector) ActiveLayoutName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeLayout != "" {
		return s.activeLayout
	}
	return s.config.Tiling.DefaultLayout
}

// SetActiveLayout switches to a named layout.
func (s *Selector) SetActiveLayout(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.config.GetLayout(name); err != nil {
		return err
	}
	s.activeLayout = name
	return nil
}

// CycleActiveLayout moves to the next/previous layout in sorted order.
func (s *Selector) CycleActiveLayout(delta int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := s.config.LayoutNames()
	if len(names) == 0 {
		return "", fmt.Errorf("no layouts configured")
	}

	current := s.activeLayout
	if current == "" {
		current = s.config.Tiling.DefaultLayout
	}

	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}

	n := len(names)
	next := (idx + delta) % n
	if next < 0 {
		next += n
	}

	s.activeLayout = names[next]
	return s.activeLayout, nil
}

// UpdateConfig swaps the configuration, falling back to the default
// layout when the active one disappeared.
func (s *Selector) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = cfg
	if s.activeLayout == "" {
		s.activeLayout = cfg.Tiling.DefaultLayout
		return
	}
	if _, err := cfg.GetLayout(s.activeLayout); err == nil {
		return
	}
	s.activeLayout = cfg.Tiling.DefaultLayout
}

// Plan computes tiling geometry for n surfaces on an output: screen
// padding first, then the layout's tile region, then the layout itself.
func (s *Selector) Plan(n int, output geom.Rect) ([]geom.Rect, error) {
	s.mu.RLock()
	cfg := s.config
	name := s.activeLayout
	s.mu.RUnlock()

	if name == "" {
		name = cfg.Tiling.DefaultLayout
	}
	layout, err := cfg.GetLayout(name)
	if err != nil {
		return nil, err
	}

	bounds, err := ApplyPadding(output, cfg.Tiling.ScreenPadding)
	if err != nil {
		return nil, err
	}
	area := ApplyRegion(bounds, layout.TileRegion)
	return CalculatePositionsWithLayout(n, area, layout, float64(cfg.Tiling.Gap))
}
