package shell

import (
	"slices"

	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/surface"
)

// Output is a display of the session. Its geometry is the maximized and
// fullscreen geometry of every surface on it.
type Output struct {
	s        *Shell
	id       surface.OutputID
	name     string
	geometry geom.Rect
	surfaces []*surface.Wrapper
}

func (o *Output) ID() surface.OutputID { return o.id }
func (o *Output) Name() string         { return o.name }
func (o *Output) Geometry() geom.Rect  { return o.geometry }

// Surfaces returns the surfaces placed on the output.
func (o *Output) Surfaces() []*surface.Wrapper {
	return slices.Clone(o.surfaces)
}

// SetGeometry resizes the output. Maximized and fullscreen surfaces follow
// it, and the primary output's change lays out the multitask view again.
func (o *Output) SetGeometry(r geom.Rect) {
	if o.geometry == r {
		return
	}
	o.geometry = r
	for _, w := range o.surfaces {
		w.SetMaximizedGeometry(r)
		w.SetFullscreenGeometry(r)
	}
	if o.s.PrimaryOutput() == o {
		o.s.model.SetLayoutArea(r)
		o.s.refreshOverview()
	}
}

// RemoveSurface implements surface.Output.
func (o *Output) RemoveSurface(w *surface.Wrapper) {
	o.surfaces = slices.DeleteFunc(o.surfaces, func(x *surface.Wrapper) bool { return x == w })
}

func (o *Output) add(w *surface.Wrapper) {
	w.SetOutput(o.id)
	o.surfaces = append(o.surfaces, w)
	w.SetMaximizedGeometry(o.geometry)
	w.SetFullscreenGeometry(o.geometry)
}

// AddOutput attaches a display. The first output becomes primary and
// hosts the multitask view.
func (s *Shell) AddOutput(name string, geometry geom.Rect) *Output {
	o := &Output{s: s, name: name, geometry: geometry}
	o.id = s.reg.AddOutput(o)
	s.outputs = append(s.outputs, o)
	s.logger.Info("output added", "output", name, "geometry", geometry.String())
	if len(s.outputs) == 1 {
		s.model.SetLayoutArea(geometry)
	}
	return o
}

// RemoveOutput detaches o and moves its surfaces to the next primary
// output.
func (s *Shell) RemoveOutput(o *Output) {
	idx := slices.Index(s.outputs, o)
	if idx < 0 {
		return
	}
	s.outputs = slices.Delete(s.outputs, idx, idx+1)
	orphans := o.surfaces
	o.surfaces = nil
	s.reg.RemoveOutput(o.id)

	next := s.PrimaryOutput()
	for _, w := range orphans {
		if next != nil {
			next.add(w)
		} else {
			w.SetOutput(0)
		}
	}
	if next != nil {
		s.model.SetLayoutArea(next.geometry)
	}
	s.logger.Info("output removed", "output", o.name)
	s.refreshOverview()
}

// PrimaryOutput returns the first attached output, or nil.
func (s *Shell) PrimaryOutput() *Output {
	if len(s.outputs) == 0 {
		return nil
	}
	return s.outputs[0]
}

// Outputs returns every attached output.
func (s *Shell) Outputs() []*Output {
	return slices.Clone(s.outputs)
}
