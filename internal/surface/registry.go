package surface

import (
	"cmp"
	"slices"

	"github.com/1broseidon/surfshell/internal/animation"
	"github.com/1broseidon/surfshell/internal/stack"
)

// Registry owns the stacking tree and resolves the handles a Wrapper keeps
// to its relatives, container and output. Nothing behind a handle is
// assumed to be alive.
type Registry struct {
	tree       *stack.Tree
	driver     animation.Driver
	surfaces   map[stack.ID]*Wrapper
	containers map[ContainerID]Container
	outputs    map[OutputID]Output
	nextHandle uint32
	serial     uint64

	// WindowRadius is the fallback corner radius of non-layer surfaces.
	WindowRadius float64
	// TitleBarHeight is the height of server-side title bars.
	TitleBarHeight float64
	// DecorationMargin is how far the decoration extends past the surface.
	DecorationMargin float64
}

// NewRegistry returns an empty registry whose wrappers animate through
// driver.
func NewRegistry(driver animation.Driver) *Registry {
	return &Registry{
		tree:           stack.NewTree(),
		driver:         driver,
		surfaces:       make(map[stack.ID]*Wrapper),
		containers:     make(map[ContainerID]Container),
		outputs:        make(map[OutputID]Output),
		WindowRadius:   18,
		TitleBarHeight: 30,
	}
}

// Tree exposes the shared stacking tree.
func (r *Registry) Tree() *stack.Tree {
	return r.tree
}

// Driver returns the animation driver wrappers use.
func (r *Registry) Driver() animation.Driver {
	return r.driver
}

// AddContainer registers c and returns its handle.
func (r *Registry) AddContainer(c Container) ContainerID {
	r.nextHandle++
	id := ContainerID(r.nextHandle)
	r.containers[id] = c
	return id
}

// RemoveContainer forgets a container; wrappers holding its handle lose
// their HasContainer capability on their next lookup.
func (r *Registry) RemoveContainer(id ContainerID) {
	delete(r.containers, id)
	for _, w := range r.surfaces {
		if w.container == id {
			w.SetContainer(0)
		}
	}
}

// Container resolves a container handle.
func (r *Registry) Container(id ContainerID) (Container, bool) {
	c, ok := r.containers[id]
	return c, ok
}

// AddOutput registers o and returns its handle.
func (r *Registry) AddOutput(o Output) OutputID {
	r.nextHandle++
	id := OutputID(r.nextHandle)
	r.outputs[id] = o
	return id
}

// RemoveOutput forgets an output.
func (r *Registry) RemoveOutput(id OutputID) {
	delete(r.outputs, id)
	for _, w := range r.surfaces {
		if w.output == id {
			w.output = 0
		}
	}
}

// Output resolves an output handle.
func (r *Registry) Output(id OutputID) (Output, bool) {
	o, ok := r.outputs[id]
	return o, ok
}

// Surface resolves a stacking node to its wrapper.
func (r *Registry) Surface(id stack.ID) (*Wrapper, bool) {
	w, ok := r.surfaces[id]
	return w, ok
}

// Surfaces returns every live wrapper in creation order.
func (r *Registry) Surfaces() []*Wrapper {
	out := make([]*Wrapper, 0, len(r.surfaces))
	for _, w := range r.surfaces {
		out = append(out, w)
	}
	slices.SortFunc(out, func(a, b *Wrapper) int {
		return cmp.Compare(a.serial, b.serial)
	})
	return out
}

// Len returns the number of live wrappers.
func (r *Registry) Len() int {
	return len(r.surfaces)
}
