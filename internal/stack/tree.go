// Package stack keeps the ownership and draw order of surfaces that share a
// drawing parent (a scene). Nodes live in an arena and are addressed by
// generation-checked IDs, so a handle to a destroyed node can never reach a
// reused slot.
//
// Draw order invariant: within a scene, a surface and all of its attached
// descendants form one contiguous block, parent first, children after it in
// child-list order.
package stack

import (
	"errors"
	"fmt"
	"slices"

	"github.com/1broseidon/surfshell/internal/invariant"
	"github.com/1broseidon/surfshell/internal/signal"
)

var (
	ErrStale         = errors.New("stack: stale or unknown node")
	ErrSameItem      = errors.New("stack: cannot place an item relative to itself")
	ErrSceneMismatch = errors.New("stack: items are not attached to the same scene")
	ErrCycle         = errors.New("stack: placement would invert ancestry")
)

// AlwaysOnTopLayer is the elevation of surfaces with a non-zero propagated
// always-on-top count. Roles stack above it.
const AlwaysOnTopLayer = 1

// ID addresses a node. The zero ID is never issued.
type ID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id is the empty handle.
func (id ID) IsZero() bool {
	return id.gen == 0
}

func (id ID) String() string {
	if id.IsZero() {
		return "node(none)"
	}
	return fmt.Sprintf("node(%d/%d)", id.index, id.gen)
}

// SceneID names a drawing parent. Zero means detached.
type SceneID uint32

// Kind distinguishes surfaces from plain scene items (decorations,
// placeholders) that take part in ordering but own no children.
type Kind int

const (
	KindSurface Kind = iota
	KindItem
)

// Role overrides the elevation of a surface subtree.
type Role int

const (
	RoleNormal Role = iota
	RoleOverlay
	RoleFloating
)

func (r Role) String() string {
	switch r {
	case RoleNormal:
		return "normal"
	case RoleOverlay:
		return "overlay"
	case RoleFloating:
		return "floating"
	default:
		return "unknown"
	}
}

type node struct {
	gen         uint32
	alive       bool
	kind        Kind
	scene       SceneID
	parent      ID
	children    []ID
	alwaysOnTop bool
	explicitTop int
	role        Role
	z           int
}

// Tree is the arena plus per-scene draw order.
type Tree struct {
	nodes  []node
	free   []uint32
	scenes map[SceneID][]ID

	// ZChanged fires when a node's elevation layer changes.
	ZChanged signal.Signal[ID]
	// ExplicitAlwaysOnTopChanged fires when a propagated count changes.
	ExplicitAlwaysOnTopChanged signal.Signal[ID]
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{scenes: make(map[SceneID][]ID)}
}

// NewSurface allocates a detached surface node.
func (t *Tree) NewSurface() ID {
	return t.alloc(KindSurface)
}

// NewItem allocates a detached non-surface item.
func (t *Tree) NewItem() ID {
	return t.alloc(KindItem)
}

func (t *Tree) alloc(kind Kind) ID {
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = uint32(len(t.nodes))
		t.nodes = append(t.nodes, node{})
	}
	gen := t.nodes[idx].gen + 1
	t.nodes[idx] = node{gen: gen, alive: true, kind: kind}
	return ID{index: idx, gen: gen}
}

func (t *Tree) get(id ID) *node {
	if id.IsZero() || int(id.index) >= len(t.nodes) {
		return nil
	}
	n := &t.nodes[id.index]
	if !n.alive || n.gen != id.gen {
		return nil
	}
	return n
}

// Alive reports whether id still refers to a live node.
func (t *Tree) Alive(id ID) bool {
	return t.get(id) != nil
}

// Remove destroys a node. Its children become parentless (they are not
// destroyed) and it leaves its parent's child list and its scene.
func (t *Tree) Remove(id ID) {
	n := t.get(id)
	if n == nil {
		return
	}
	children := n.children
	n.children = nil
	for _, c := range children {
		if cn := t.get(c); cn != nil {
			cn.parent = ID{}
			t.updateExplicitAlwaysOnTop(c)
			t.recomputeZ(c)
		}
	}
	if p := t.get(n.parent); p != nil {
		p.children = slices.DeleteFunc(p.children, func(x ID) bool { return x == id })
	}
	t.Detach(id)

	n = t.get(id)
	n.alive = false
	n.parent = ID{}
	t.free = append(t.free, id.index)
}

// Attach appends id to the top of scene, moving it out of any previous
// scene. Attached relatives are re-stacked so blocks stay contiguous.
func (t *Tree) Attach(id ID, scene SceneID) {
	n := t.get(id)
	if n == nil || scene == 0 {
		return
	}
	if n.scene == scene {
		return
	}
	t.Detach(id)
	n.scene = scene
	t.scenes[scene] = append(t.scenes[scene], id)

	top := id
	for p := n.parent; !p.IsZero(); {
		pn := t.get(p)
		if pn == nil || pn.scene != scene {
			break
		}
		top = p
		p = pn.parent
	}
	t.restack(top)
}

// Detach removes id from its scene. Ancestry is untouched.
func (t *Tree) Detach(id ID) {
	n := t.get(id)
	if n == nil || n.scene == 0 {
		return
	}
	order := t.scenes[n.scene]
	t.scenes[n.scene] = slices.DeleteFunc(order, func(x ID) bool { return x == id })
	n.scene = 0
}

// Scene returns the scene id is attached to, or zero.
func (t *Tree) Scene(id ID) SceneID {
	if n := t.get(id); n != nil {
		return n.scene
	}
	return 0
}

// Order returns a copy of the draw order of scene, bottom first.
func (t *Tree) Order(scene SceneID) []ID {
	return slices.Clone(t.scenes[scene])
}

// Index returns the draw position of id within its scene, or -1.
func (t *Tree) Index(id ID) int {
	n := t.get(id)
	if n == nil || n.scene == 0 {
		return -1
	}
	return slices.Index(t.scenes[n.scene], id)
}

// Parent returns the parent surface of id, or the zero ID.
func (t *Tree) Parent(id ID) ID {
	if n := t.get(id); n != nil {
		return n.parent
	}
	return ID{}
}

// Children returns a copy of id's ordered child list.
func (t *Tree) Children(id ID) []ID {
	if n := t.get(id); n != nil {
		return slices.Clone(n.children)
	}
	return nil
}

// IsAncestor reports whether a is a strict ancestor of b.
func (t *Tree) IsAncestor(a, b ID) bool {
	n := t.get(b)
	if n == nil {
		return false
	}
	for p := n.parent; !p.IsZero(); {
		if p == a {
			return true
		}
		pn := t.get(p)
		if pn == nil {
			return false
		}
		p = pn.parent
	}
	return false
}

// AddChild appends child to parent's child list. The child must be a
// parentless surface that is not an ancestor of parent.
func (t *Tree) AddChild(parent, child ID) bool {
	p, c := t.get(parent), t.get(child)
	if !invariant.Check(p != nil && c != nil, "add child: stale node %v or %v", parent, child) {
		return false
	}
	if !invariant.Check(p.kind == KindSurface && c.kind == KindSurface, "add child: only surfaces own children") {
		return false
	}
	if !invariant.Check(c.parent.IsZero(), "add child: %v already has parent %v", child, c.parent) {
		return false
	}
	if !invariant.Check(parent != child && !t.IsAncestor(child, parent), "add child: %v would become its own ancestor", child) {
		return false
	}

	c.parent = parent
	p.children = append(p.children, child)
	t.updateExplicitAlwaysOnTop(child)
	t.recomputeZ(child)
	if p.scene != 0 && p.scene == c.scene {
		t.restack(parent)
	}
	return true
}

// RemoveChild unlinks child from parent. The former child's block is moved
// to sit directly above the parent's block.
func (t *Tree) RemoveChild(parent, child ID) bool {
	p, c := t.get(parent), t.get(child)
	if !invariant.Check(p != nil && c != nil && c.parent == parent, "remove child: %v is not a child of %v", child, parent) {
		return false
	}
	c.parent = ID{}
	p.children = slices.DeleteFunc(p.children, func(x ID) bool { return x == child })
	t.updateExplicitAlwaysOnTop(child)
	t.recomputeZ(child)
	if p.scene != 0 && p.scene == c.scene {
		t.moveBlock(child, parent, false)
	}
	return true
}

// FirstInBlock returns the first node of id's block in draw order, which is
// id itself: parents are drawn below their children.
func (t *Tree) FirstInBlock(id ID) ID {
	return id
}

// LastInBlock returns the last attached node of id's block in draw order.
func (t *Tree) LastInBlock(id ID) ID {
	block := t.block(id)
	if len(block) == 0 {
		return id
	}
	return block[len(block)-1]
}

// block returns id and its descendants attached to id's scene, in draw
// order.
func (t *Tree) block(id ID) []ID {
	n := t.get(id)
	if n == nil {
		return nil
	}
	var out []ID
	var walk func(ID)
	walk = func(x ID) {
		xn := t.get(x)
		if xn == nil || xn.scene != n.scene {
			return
		}
		out = append(out, x)
		for _, c := range xn.children {
			walk(c)
		}
	}
	walk(id)
	return out
}
