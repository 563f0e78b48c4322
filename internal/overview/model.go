package overview

import (
	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/signal"
	"github.com/1broseidon/surfshell/internal/stack"
	"github.com/1broseidon/surfshell/internal/surface"
)

// Source supplies the surfaces the overview shows.
type Source interface {
	// ReadySurfaces returns the eligible surfaces in presentation order.
	ReadySurfaces() []*surface.Wrapper
	// LastActivated returns an increasing activation stamp; 0 is never.
	LastActivated(w *surface.Wrapper) uint64
}

// IsReady reports whether w belongs in the overview of workspace: mapped,
// a regular window, not opted out, and shown on that workspace.
func IsReady(w *surface.Wrapper, workspace int) bool {
	if w.Destroyed() || !w.Mapped() || w.SkipMultitaskView() {
		return false
	}
	if t := w.Type(); t == surface.TypeLayer || t == surface.TypeInputPopup {
		return false
	}
	return w.ShowOnWorkspace(workspace)
}

// Entry is the overview projection of one surface. The exported fields are
// the committed values; a layout pass only writes the pending ones.
type Entry struct {
	Surface   *surface.Wrapper
	Geometry  geom.Rect
	Padding   bool
	ZOrder    int
	Minimized bool

	pendingGeometry  geom.Rect
	pendingPadding   bool
	pendingZOrder    int
	pendingMinimized bool
}

// PendingGeometry is the geometry of the latest layout pass.
func (e Entry) PendingGeometry() geom.Rect { return e.pendingGeometry }

// PendingZOrder is the elevation of the latest ordering pass.
func (e Entry) PendingZOrder() int { return e.pendingZOrder }

func (e *Entry) commit() bool {
	changed := e.Geometry != e.pendingGeometry ||
		e.Padding != e.pendingPadding ||
		e.ZOrder != e.pendingZOrder ||
		e.Minimized != e.pendingMinimized
	e.Geometry = e.pendingGeometry
	e.Padding = e.pendingPadding
	e.ZOrder = e.pendingZOrder
	e.Minimized = e.pendingMinimized
	return changed
}

// Range is an inclusive span of entry indices.
type Range struct {
	First int
	Last  int
}

// ModelEvents are the model's change notifications.
type ModelEvents struct {
	DataChanged          signal.Signal[Range]
	RowsChanged          signal.Notifier
	ContentHeightChanged signal.Notifier
	CountChanged         signal.Notifier
	ReadyChanged         signal.Notifier
	LayoutAreaChanged    signal.Notifier
}

// Model holds the overview layout of one output.
type Model struct {
	src          Source
	area         geom.Rect
	minRowHeight float64

	entries       []*Entry
	rows          int
	rowHeight     float64
	contentHeight float64
	loadFactor    float64
	forced        bool
	ready         bool

	Events ModelEvents
}

// NewModel creates an empty model fed by src.
func NewModel(src Source, minRowHeight float64) *Model {
	if minRowHeight <= 0 {
		minRowHeight = DefaultMinRowHeight
	}
	return &Model{src: src, minRowHeight: minRowHeight}
}

func (m *Model) LayoutArea() geom.Rect { return m.area }

// SetLayoutArea changes the area and lays out again.
func (m *Model) SetLayoutArea(r geom.Rect) {
	if m.area == r {
		return
	}
	m.area = r
	m.Events.LayoutAreaChanged.Notify()
	m.Relayout()
}

func (m *Model) Len() int               { return len(m.entries) }
func (m *Model) Rows() int              { return m.rows }
func (m *Model) RowHeight() float64     { return m.rowHeight }
func (m *Model) ContentHeight() float64 { return m.contentHeight }
func (m *Model) LoadFactor() float64    { return m.loadFactor }
func (m *Model) Forced() bool           { return m.forced }
func (m *Model) Ready() bool            { return m.ready }

// Entry returns a copy of entry i.
func (m *Model) Entry(i int) Entry { return *m.entries[i] }

// Entries returns copies of every entry.
func (m *Model) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = *e
	}
	return out
}

// IndexOf returns the index of w, or -1.
func (m *Model) IndexOf(w *surface.Wrapper) int {
	for i, e := range m.entries {
		if e.Surface == w {
			return i
		}
	}
	return -1
}

// Relayout snapshots the ready set and recomputes every pending geometry
// and elevation from scratch. Entries of surfaces that stay keep their
// committed values.
func (m *Model) Relayout() {
	surfaces := m.src.ReadySurfaces()
	old := make(map[*surface.Wrapper]*Entry, len(m.entries))
	for _, e := range m.entries {
		old[e.Surface] = e
	}
	entries := make([]*Entry, len(surfaces))
	sizes := make([]geom.Size, len(surfaces))
	for i, w := range surfaces {
		e, ok := old[w]
		if !ok {
			e = &Entry{Surface: w}
		}
		e.pendingMinimized = w.IsMinimized()
		entries[i] = e
		sizes[i] = naturalSize(w)
	}
	countChanged := len(entries) != len(m.entries)
	m.entries = entries

	res := Pack(sizes, m.area, m.minRowHeight)
	for i, e := range m.entries {
		e.pendingGeometry = res.Placements[i].Rect
		e.pendingPadding = res.Placements[i].Padding
	}
	m.rowHeight = res.RowHeight
	m.loadFactor = res.LoadFactor
	m.forced = res.Forced
	if m.rows != res.Rows {
		m.rows = res.Rows
		m.Events.RowsChanged.Notify()
	}
	if m.contentHeight != res.ContentHeight {
		m.contentHeight = res.ContentHeight
		m.Events.ContentHeightChanged.Notify()
	}

	m.UpdateZOrder()

	if countChanged {
		m.Events.CountChanged.Notify()
	}
	if !m.ready {
		m.ready = true
		m.Events.ReadyChanged.Notify()
	}
}

// UpdateZOrder recomputes pending elevations for the current entries.
func (m *Model) UpdateZOrder() {
	keys := make([]ZKey, len(m.entries))
	for i, e := range m.entries {
		w := e.Surface
		keys[i] = ZKey{
			Minimized:     w.IsMinimized(),
			Raised:        w.EffectiveRole() != stack.RoleNormal,
			LastActivated: m.src.LastActivated(w),
			Serial:        w.Serial(),
		}
	}
	for i, z := range AssignZOrder(keys) {
		m.entries[i].pendingZOrder = z
	}
}

// Commit promotes every pending value and returns the inclusive range of
// entries that changed, or (-1, -1) when nothing did. Committing twice in a
// row changes nothing the second time.
func (m *Model) Commit() (first, last int) {
	first, last = -1, -1
	for i, e := range m.entries {
		if e.commit() {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first >= 0 {
		m.Events.DataChanged.Emit(Range{First: first, Last: last})
	}
	return first, last
}

// naturalSize is the size a surface would have outside the overview.
func naturalSize(w *surface.Wrapper) geom.Size {
	if w.IsMinimized() {
		if n := w.NormalGeometry(); n.IsValid() {
			return n.Size()
		}
	}
	return w.Geometry().Size()
}
