package stack

// SetAlwaysOnTop sets the surface's own flag and cascades the propagated
// count to every descendant.
func (t *Tree) SetAlwaysOnTop(id ID, on bool) {
	n := t.get(id)
	if n == nil || n.alwaysOnTop == on {
		return
	}
	n.alwaysOnTop = on
	t.updateExplicitAlwaysOnTop(id)
}

// AlwaysOnTop returns the surface's own flag.
func (t *Tree) AlwaysOnTop(id ID) bool {
	if n := t.get(id); n != nil {
		return n.alwaysOnTop
	}
	return false
}

// ExplicitAlwaysOnTop returns the own flag plus every ancestor's flag.
func (t *Tree) ExplicitAlwaysOnTop(id ID) int {
	if n := t.get(id); n != nil {
		return n.explicitTop
	}
	return 0
}

// SetRole changes the surface role. The role layer applies to the whole
// subtree and is recomputed for every descendant.
func (t *Tree) SetRole(id ID, role Role) {
	n := t.get(id)
	if n == nil || n.role == role {
		return
	}
	n.role = role
	t.recomputeZ(id)
}

// Role returns the surface's own role.
func (t *Tree) Role(id ID) Role {
	if n := t.get(id); n != nil {
		return n.role
	}
	return RoleNormal
}

// EffectiveRole returns the nearest non-normal role on the path from id to
// its root.
func (t *Tree) EffectiveRole(id ID) Role {
	for cur := id; !cur.IsZero(); {
		n := t.get(cur)
		if n == nil {
			break
		}
		if n.role != RoleNormal {
			return n.role
		}
		cur = n.parent
	}
	return RoleNormal
}

// Z returns the elevation layer of id.
func (t *Tree) Z(id ID) int {
	if n := t.get(id); n != nil {
		return n.z
	}
	return 0
}

func (t *Tree) updateExplicitAlwaysOnTop(id ID) {
	n := t.get(id)
	if n == nil {
		return
	}
	value := 0
	if n.alwaysOnTop {
		value = 1
	}
	if p := t.get(n.parent); p != nil {
		value += p.explicitTop
	}
	if n.explicitTop == value {
		return
	}
	n.explicitTop = value
	t.ExplicitAlwaysOnTopChanged.Emit(id)
	t.setZ(id, t.layerFor(id))
	for _, c := range n.children {
		t.updateExplicitAlwaysOnTop(c)
	}
}

func (t *Tree) layerFor(id ID) int {
	if role := t.EffectiveRole(id); role != RoleNormal {
		return AlwaysOnTopLayer + int(role)
	}
	if n := t.get(id); n != nil && n.explicitTop > 0 {
		return AlwaysOnTopLayer
	}
	return 0
}

// recomputeZ refreshes the layer of id and every descendant unconditionally.
func (t *Tree) recomputeZ(id ID) {
	n := t.get(id)
	if n == nil {
		return
	}
	t.setZ(id, t.layerFor(id))
	for _, c := range n.children {
		t.recomputeZ(c)
	}
}

func (t *Tree) setZ(id ID, z int) {
	n := t.get(id)
	if n == nil || n.z == z {
		return
	}
	n.z = z
	t.ZChanged.Emit(id)
}
