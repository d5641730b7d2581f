package itemview

import (
	"testing"
)

type fakeElem struct {
	id   int
	size float64
}

type fakeVisual struct {
	elem     *fakeElem
	attached *Attached
	onBind   func(a *Attached)
}

func (f *fakeVisual) Size() float64 {
	return f.elem.size
}

func (f *fakeVisual) Bind(a *Attached) {
	f.attached = a
	if f.onBind != nil {
		f.onBind(a)
	}
}

// fakeModel is a reference counting adapter over elements with fixed sizes. With async set,
// asynchronous requests are held until complete is called.
type fakeModel struct {
	elems    []*fakeElem
	visuals  map[*fakeElem]*fakeVisual
	refs     map[*fakeVisual]int
	observer Observer
	async    bool
	pending  map[*fakeElem]bool
	bind     func(a *Attached)
	nextID   int
	moveID   int

	created   int
	destroyed int
	cancelled []int
}

func newFakeModel(count int, size float64) *fakeModel {
	m := &fakeModel{
		visuals: make(map[*fakeElem]*fakeVisual),
		refs:    make(map[*fakeVisual]int),
		pending: make(map[*fakeElem]bool),
	}
	for range count {
		m.elems = append(m.elems, m.newElem(size))
	}
	return m
}

func (m *fakeModel) newElem(size float64) *fakeElem {
	m.nextID++
	return &fakeElem{id: m.nextID, size: size}
}

func (m *fakeModel) Count() int {
	return len(m.elems)
}

func (m *fakeModel) IsValid() bool {
	return true
}

func (m *fakeModel) Item(index int, async bool) (Visual, error) {
	if index < 0 || index >= len(m.elems) {
		return nil, ErrInvalidIndex
	}
	elem := m.elems[index]
	if vis, ok := m.visuals[elem]; ok {
		m.refs[vis]++
		return vis, nil
	}
	if async && m.async {
		m.pending[elem] = true
		return nil, ErrPending
	}
	delete(m.pending, elem)
	vis := &fakeVisual{elem: elem, onBind: m.bind}
	m.visuals[elem] = vis
	m.refs[vis] = 1
	m.created++
	return vis, nil
}

func (m *fakeModel) Release(visual Visual) ReleaseResult {
	vis := visual.(*fakeVisual)
	m.refs[vis]--
	if m.refs[vis] > 0 {
		return StillReferenced
	}
	m.destroy(vis)
	return Destroyed
}

func (m *fakeModel) destroy(vis *fakeVisual) {
	if m.observer.OnDestroyingItem != nil {
		m.observer.OnDestroyingItem(vis)
	}
	delete(m.refs, vis)
	delete(m.visuals, vis.elem)
	m.destroyed++
}

func (m *fakeModel) IndexOf(visual Visual) int {
	vis := visual.(*fakeVisual)
	for i, e := range m.elems {
		if e == vis.elem {
			return i
		}
	}
	return -1
}

func (m *fakeModel) SetObserver(o Observer) {
	m.observer = o
}

func (m *fakeModel) Cancel(index int) {
	if index >= 0 && index < len(m.elems) {
		delete(m.pending, m.elems[index])
	}
	m.cancelled = append(m.cancelled, index)
}

// pendingIndexes returns the current indexes of the elements being created asynchronously
func (m *fakeModel) pendingIndexes() []int {
	var indexes []int
	for i, e := range m.elems {
		if m.pending[e] {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// complete finishes the asynchronous creation of index
func (m *fakeModel) complete(index int) {
	elem := m.elems[index]
	delete(m.pending, elem)
	vis := &fakeVisual{elem: elem, onBind: m.bind}
	m.visuals[elem] = vis
	m.refs[vis] = 0
	m.created++
	if m.observer.OnCreatedItem != nil {
		m.observer.OnCreatedItem(index, vis)
	}
}

func (m *fakeModel) notify(cs ChangeSet) {
	if m.observer.OnModelUpdated != nil {
		m.observer.OnModelUpdated(cs, false)
	}
	if m.observer.OnCountChanged != nil && cs.Difference() != 0 {
		m.observer.OnCountChanged()
	}
}

func (m *fakeModel) insert(index, count int, size float64) {
	var elems []*fakeElem
	for range count {
		elems = append(elems, m.newElem(size))
	}
	m.elems = append(m.elems[:index], append(elems, m.elems[index:]...)...)
	m.notify(InsertSet(index, count))
}

func (m *fakeModel) remove(index, count int) {
	for _, e := range m.elems[index : index+count] {
		delete(m.pending, e)
	}
	m.elems = append(m.elems[:index], m.elems[index+count:]...)
	m.notify(RemoveSet(index, count))
}

// move takes count elements at from and puts them at to, an index in the model without them
func (m *fakeModel) move(from, to, count int) {
	moved := append([]*fakeElem(nil), m.elems[from:from+count]...)
	rest := append(append([]*fakeElem(nil), m.elems[:from]...), m.elems[from+count:]...)
	m.elems = append(rest[:to], append(moved, rest[to:]...)...)
	m.moveID++
	m.notify(MoveSet(from, to, count, m.moveID))
}

func (m *fakeModel) reset(count int, size float64) {
	clear(m.pending)
	m.elems = nil
	for range count {
		m.elems = append(m.elems, m.newElem(size))
	}
	if m.observer.OnModelUpdated != nil {
		m.observer.OnModelUpdated(ChangeSet{}, true)
	}
}

// recordingSurface counts position changes
type recordingSurface struct {
	*ScrollSurface
	sets []float64
}

func (r *recordingSurface) SetPosition(pos float64) {
	if pos != r.Position() {
		r.sets = append(r.sets, pos)
	}
	r.ScrollSurface.SetPosition(pos)
}

func newTestView(t *testing.T, m Adapter, size float64, opts ...Option) (*View, *ScrollSurface) {
	t.Helper()
	vp := NewScrollSurface(size)
	return New(m, vp, opts...), vp
}

func polish(v *View) {
	for i := 0; i < 10 && v.NeedsPolish(); i++ {
		v.UpdatePolish()
	}
}

func windowIndexes(v *View) []int {
	var res []int
	for _, item := range v.items {
		res = append(res, item.index)
	}
	return res
}

func requireContiguous(t *testing.T, v *View) {
	t.Helper()
	expected := v.visibleIndex
	for i, item := range v.items {
		if item.index == -1 {
			continue
		}
		if item.index != expected {
			t.Fatalf("window not contiguous at slot %d: got index %d, expected %d (window %v)", i, item.index, expected, windowIndexes(v))
		}
		expected++
		if i > 0 && v.items[i-1].index != -1 && item.Position() < v.items[i-1].EndPosition() {
			t.Fatalf("item %d overlaps the previous item", item.index)
		}
	}
}

func indexRange(from, to int) []int {
	var res []int
	for i := from; i <= to; i++ {
		res = append(res, i)
	}
	return res
}
