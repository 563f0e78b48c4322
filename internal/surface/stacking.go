package surface

import (
	"github.com/1broseidon/surfshell/internal/stack"
)

// ParentSurface returns the parent wrapper, or nil.
func (w *Wrapper) ParentSurface() *Wrapper {
	p := w.reg.tree.Parent(w.node)
	if p.IsZero() {
		return nil
	}
	parent, _ := w.reg.Surface(p)
	return parent
}

// SubSurfaces returns the children in stacking order.
func (w *Wrapper) SubSurfaces() []*Wrapper {
	ids := w.reg.tree.Children(w.node)
	out := make([]*Wrapper, 0, len(ids))
	for _, id := range ids {
		if c, ok := w.reg.Surface(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// HasChild reports whether other is in w's subtree.
func (w *Wrapper) HasChild(other *Wrapper) bool {
	return w.reg.tree.IsAncestor(w.node, other.node)
}

// AddSubSurface makes child a sub-surface of w. It fails when child
// already has a parent or would become its own ancestor.
func (w *Wrapper) AddSubSurface(child *Wrapper) bool {
	return w.reg.tree.AddChild(w.node, child.node)
}

// RemoveSubSurface detaches child from w.
func (w *Wrapper) RemoveSubSurface(child *Wrapper) bool {
	return w.reg.tree.RemoveChild(w.node, child.node)
}

// StackBefore places w and its subtree directly below target.
func (w *Wrapper) StackBefore(target *Wrapper) error {
	return w.reg.tree.PlaceBefore(w.node, target.node)
}

// StackAfter places w and its subtree directly above target's subtree.
func (w *Wrapper) StackAfter(target *Wrapper) error {
	return w.reg.tree.PlaceAfter(w.node, target.node)
}

// StackBeforeItem and StackAfterItem place w relative to a non-surface
// scene item.
func (w *Wrapper) StackBeforeItem(item stack.ID) error {
	return w.reg.tree.PlaceBefore(w.node, item)
}

func (w *Wrapper) StackAfterItem(item stack.ID) error {
	return w.reg.tree.PlaceAfter(w.node, item)
}

// StackToLast raises w, and its ancestors, to the top of its scene.
func (w *Wrapper) StackToLast() {
	w.reg.tree.StackToLast(w.node)
}

// StackIndex is w's draw position in its scene, or -1 when detached.
func (w *Wrapper) StackIndex() int {
	return w.reg.tree.Index(w.node)
}

func (w *Wrapper) AlwaysOnTop() bool { return w.reg.tree.AlwaysOnTop(w.node) }

func (w *Wrapper) SetAlwaysOnTop(on bool) {
	if w.AlwaysOnTop() == on {
		return
	}
	w.reg.tree.SetAlwaysOnTop(w.node, on)
	w.Events.AlwaysOnTopChanged.Notify()
}

// ExplicitAlwaysOnTop is the own flag plus every ancestor's flag.
func (w *Wrapper) ExplicitAlwaysOnTop() int { return w.reg.tree.ExplicitAlwaysOnTop(w.node) }

func (w *Wrapper) Role() stack.Role          { return w.reg.tree.Role(w.node) }
func (w *Wrapper) SetRole(role stack.Role)   { w.reg.tree.SetRole(w.node, role) }
func (w *Wrapper) EffectiveRole() stack.Role { return w.reg.tree.EffectiveRole(w.node) }

// Z is the elevation layer.
func (w *Wrapper) Z() int { return w.reg.tree.Z(w.node) }
