package stack

import (
	"slices"
)

// PlaceBefore moves self (with its whole subtree) directly below target in
// draw order.
//
// A surface cannot be placed below one of its ancestors. Placing a surface
// below one of its own descendants is already satisfied by the draw order
// invariant. When self and target are not siblings, target is normalised to
// its ancestor that is a sibling of self; if no such ancestor exists the
// move is delegated to self's parent, so a child never leaves its parent's
// block.
func (t *Tree) PlaceBefore(self, target ID) error {
	return t.place(self, target, true)
}

// PlaceAfter is the mirror of PlaceBefore: self ends up directly above the
// last node of target's block.
func (t *Tree) PlaceAfter(self, target ID) error {
	return t.place(self, target, false)
}

func (t *Tree) place(self, target ID, before bool) error {
	s, tn := t.get(self), t.get(target)
	if s == nil || tn == nil {
		return ErrStale
	}
	if self == target {
		return ErrSameItem
	}
	if s.scene == 0 || s.scene != tn.scene {
		return ErrSceneMismatch
	}

	if tn.kind == KindSurface {
		if before && t.IsAncestor(target, self) || !before && t.IsAncestor(self, target) {
			return ErrCycle
		}
		if before && t.IsAncestor(self, target) {
			// Parents already draw below their descendants.
			t.restack(self)
			return nil
		}
		if !before && t.IsAncestor(target, self) {
			t.raiseChainToFront(target, self)
			t.restack(target)
			return nil
		}
	}

	anchor := target
	if tn.kind == KindSurface {
		anchor = t.siblingAncestor(target, s.parent)
	}

	if anchor.IsZero() {
		// target lives outside the parent's subtree: move the parent.
		return t.place(s.parent, target, before)
	}

	if !s.parent.IsZero() && tn.kind == KindSurface {
		t.moveInSiblings(s.parent, self, anchor, before)
	} else if !s.parent.IsZero() {
		// A plain item outside the family: the whole family moves.
		return t.place(s.parent, target, before)
	}

	t.moveBlock(self, anchor, before)
	return nil
}

// StackToLast raises self above everything in its scene. A child is raised
// to the top of its parent's child list after the parent itself is raised.
func (t *Tree) StackToLast(self ID) {
	s := t.get(self)
	if s == nil || s.scene == 0 {
		return
	}
	if !s.parent.IsZero() {
		t.StackToLast(s.parent)
		p := t.get(s.parent)
		if p == nil {
			return
		}
		p.children = slices.DeleteFunc(p.children, func(x ID) bool { return x == self })
		p.children = append(p.children, self)
		t.restack(s.parent)
		return
	}

	order := t.scenes[s.scene]
	if len(order) == 0 {
		return
	}
	top := order[len(order)-1]
	if top == self || t.IsAncestor(self, top) {
		return
	}
	t.moveBlock(self, top, false)
}

// siblingAncestor walks up from target to the node whose parent is parent
// (the zero parent means a root). It returns the zero ID when target is not
// inside parent's subtree.
func (t *Tree) siblingAncestor(target, parent ID) ID {
	cur := target
	for !cur.IsZero() {
		n := t.get(cur)
		if n == nil {
			return ID{}
		}
		if n.parent == parent {
			return cur
		}
		cur = n.parent
	}
	return ID{}
}

// moveInSiblings reorders self next to sibling in parent's child list.
func (t *Tree) moveInSiblings(parent, self, sibling ID, before bool) {
	p := t.get(parent)
	if p == nil {
		return
	}
	from := slices.Index(p.children, self)
	to := slices.Index(p.children, sibling)
	if from < 0 || to < 0 {
		return
	}
	if before && from == to-1 || !before && from == to+1 {
		return
	}
	p.children = slices.Delete(p.children, from, from+1)
	to = slices.Index(p.children, sibling)
	if !before {
		to++
	}
	p.children = slices.Insert(p.children, to, self)
}

// raiseChainToFront makes every node on the path from ancestor down to self
// the first child of its parent, so self draws as close above ancestor as
// the invariant allows.
func (t *Tree) raiseChainToFront(ancestor, self ID) {
	for cur := self; cur != ancestor; {
		n := t.get(cur)
		if n == nil {
			return
		}
		p := t.get(n.parent)
		if p == nil {
			return
		}
		p.children = slices.DeleteFunc(p.children, func(x ID) bool { return x == cur })
		p.children = slices.Insert(p.children, 0, cur)
		cur = n.parent
	}
}

// moveBlock removes self's block from its scene and re-inserts it directly
// below anchor, or directly above the last node of anchor's block.
func (t *Tree) moveBlock(self, anchor ID, before bool) {
	s := t.get(self)
	if s == nil || s.scene == 0 {
		return
	}
	block := t.block(self)
	members := make(map[ID]struct{}, len(block))
	for _, id := range block {
		members[id] = struct{}{}
	}

	order := t.scenes[s.scene]
	rest := make([]ID, 0, len(order))
	for _, id := range order {
		if _, ok := members[id]; !ok {
			rest = append(rest, id)
		}
	}

	ref := anchor
	if !before {
		ref = t.LastInBlock(anchor)
	}
	at := slices.Index(rest, ref)
	if at < 0 {
		at = len(rest)
	} else if !before {
		at++
	}
	t.scenes[s.scene] = slices.Insert(rest, at, block...)
}

// restack rewrites id's block in a single pass at id's current position:
// every child directly follows its preceding sibling's block.
func (t *Tree) restack(id ID) {
	n := t.get(id)
	if n == nil || n.scene == 0 {
		return
	}
	block := t.block(id)
	members := make(map[ID]struct{}, len(block))
	for _, x := range block {
		members[x] = struct{}{}
	}

	order := t.scenes[n.scene]
	out := make([]ID, 0, len(order))
	for _, x := range order {
		if x == id {
			out = append(out, block...)
			continue
		}
		if _, ok := members[x]; ok {
			continue
		}
		out = append(out, x)
	}
	t.scenes[n.scene] = out
}
