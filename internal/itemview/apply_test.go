package itemview

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_ChangesWaitForPolish(t *testing.T) {
	m := newFakeModel(100, 10)
	v, _ := newTestView(t, m, 50)

	m.remove(0, 1)
	assert.True(t, v.NeedsPolish())
	assert.Equal(t, 100, v.itemCount)
	assert.Equal(t, indexRange(0, 5), windowIndexes(v))

	polish(v)
	assert.False(t, v.NeedsPolish())
	assert.Equal(t, 99, v.itemCount)
	requireContiguous(t, v)
}

func TestView_InsertAboveViewportKeepsScreenPosition(t *testing.T) {
	var counts []int
	m := newFakeModel(100, 10)
	v, _ := newTestView(t, m, 100, WithSignals(Signals{CountChanged: func(c int) { counts = append(counts, c) }}))
	v.ScrollBy(100)
	counts = nil

	top := v.visibleItem(10)
	require.NotNil(t, top)
	require.Equal(t, 0., v.ScreenPosition(top))

	m.insert(0, 5, 10)
	polish(v)

	assert.Same(t, top, v.visibleItem(15))
	assert.Equal(t, 0., v.ScreenPosition(top))
	assert.Equal(t, []int{105}, counts)
	assert.Equal(t, 15, v.IndexAt(0))
	assert.Equal(t, 24, v.IndexAt(95))
	requireContiguous(t, v)
}

func TestView_AnchorStability(t *testing.T) {
	tests := []struct {
		name   string
		buffer float64
		change func(m *fakeModel)
	}{
		{"insert outside window", 0, func(m *fakeModel) { m.insert(2, 3, 10) }},
		{"remove outside window", 0, func(m *fakeModel) { m.remove(2, 3) }},
		{"insert in buffer", 30, func(m *fakeModel) { m.insert(8, 2, 10) }},
		{"insert large items in buffer", 30, func(m *fakeModel) { m.insert(9, 1, 25) }},
		{"remove in buffer", 30, func(m *fakeModel) { m.remove(7, 2) }},
		{"remove across window start", 30, func(m *fakeModel) { m.remove(4, 5) }},
		{"insert below viewport", 30, func(m *fakeModel) { m.insert(15, 2, 10) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newFakeModel(100, 10)
			v, _ := newTestView(t, m, 100, WithCacheBuffer(tt.buffer))
			v.ScrollBy(105)

			first := v.ItemAt(0)
			require.NotNil(t, first)
			before := v.ScreenPosition(first)

			tt.change(m)
			polish(v)

			require.True(t, v.inWindow(first))
			assert.InDelta(t, before, v.ScreenPosition(first), 1e-9)
			requireContiguous(t, v)
		})
	}
}

func TestView_RemoveFirstVisibleMovesNextIntoPlace(t *testing.T) {
	m := newFakeModel(100, 10)
	v, _ := newTestView(t, m, 100)
	v.ScrollBy(100)
	next := v.visibleItem(11)

	m.remove(10, 1)
	polish(v)

	assert.Same(t, next, v.visibleItem(10))
	assert.Equal(t, 0., v.ScreenPosition(next))
	requireContiguous(t, v)
}

func TestView_InsertAtTopOfViewportIsShown(t *testing.T) {
	m := newFakeModel(100, 10)
	v, _ := newTestView(t, m, 50)

	m.insert(0, 1, 10)
	polish(v)

	item := v.ItemAt(0)
	require.NotNil(t, item)
	assert.Equal(t, 0, item.Index())
	assert.Equal(t, m.elems[0], item.Visual().(*fakeVisual).elem)
	requireContiguous(t, v)
}

func TestView_RemoveCurrentItem(t *testing.T) {
	m := newFakeModel(100, 10)
	var itemChanges []*ViewItem
	var indexChanges []int
	v, _ := newTestView(t, m, 100, WithSignals(Signals{
		CurrentItemChanged:  func(item *ViewItem) { itemChanges = append(itemChanges, item) },
		CurrentIndexChanged: func(index int) { indexChanges = append(indexChanges, index) },
	}))
	v.SetCurrentIndex(12)
	old := v.CurrentItem().Visual()
	itemChanges, indexChanges = nil, nil

	m.remove(12, 1)
	polish(v)

	assert.Equal(t, 12, v.CurrentIndex())
	require.Len(t, itemChanges, 1)
	require.NotNil(t, itemChanges[0])
	assert.NotEqual(t, old, v.CurrentItem().Visual())
	assert.Empty(t, indexChanges)
	assert.Equal(t, m.elems[12], v.CurrentItem().Visual().(*fakeVisual).elem)
}

func TestView_RemoveLastCurrentItem(t *testing.T) {
	m := newFakeModel(10, 10)
	v, _ := newTestView(t, m, 100)
	v.SetCurrentIndex(9)

	m.remove(9, 1)
	polish(v)
	assert.Equal(t, 8, v.CurrentIndex())

	m.remove(0, 9)
	polish(v)
	assert.Equal(t, -1, v.CurrentIndex())
	assert.Nil(t, v.CurrentItem())
	assert.Empty(t, v.VisibleItems())
	assert.Equal(t, m.created, m.destroyed)
}

func TestView_InsertMovesCurrentIndex(t *testing.T) {
	m := newFakeModel(10, 10)
	v, _ := newTestView(t, m, 100)
	v.SetCurrentIndex(3)
	current := v.CurrentItem().Visual()

	m.insert(1, 2, 10)
	polish(v)

	assert.Equal(t, 5, v.CurrentIndex())
	assert.Equal(t, current, v.CurrentItem().Visual())
	assert.True(t, v.CurrentItem().Attached().IsCurrentItem())
}

func TestView_MoveKeepsItemIdentity(t *testing.T) {
	m := newFakeModel(100, 10)
	v, _ := newTestView(t, m, 100)
	moved := v.visibleItem(2)
	destroyed := m.destroyed

	m.move(2, 5, 1)
	polish(v)

	assert.Same(t, moved, v.visibleItem(5))
	assert.Equal(t, 5, moved.Index())
	assert.Equal(t, destroyed, m.destroyed)
	assert.Equal(t, 50., moved.Position())
	requireContiguous(t, v)
}

func TestView_MoveOutOfWindowReleases(t *testing.T) {
	m := newFakeModel(100, 10)
	v, _ := newTestView(t, m, 50)
	moved := v.visibleItem(2)

	m.move(2, 80, 1)
	polish(v)

	assert.False(t, v.inWindow(moved))
	assert.Equal(t, 1, m.destroyed)
	requireContiguous(t, v)
}

func TestView_MoveCurrentItem(t *testing.T) {
	m := newFakeModel(100, 10)
	v, _ := newTestView(t, m, 100)
	v.SetCurrentIndex(2)
	current := v.CurrentItem().Visual()

	m.move(2, 6, 1)
	polish(v)

	assert.Equal(t, 6, v.CurrentIndex())
	assert.Equal(t, current, v.CurrentItem().Visual())
}

func TestView_BatchedChanges(t *testing.T) {
	m := newFakeModel(100, 10)
	v, _ := newTestView(t, m, 100)
	third := v.visibleItem(3)

	m.insert(0, 2, 10)
	m.remove(1, 1)
	m.move(0, 3, 1)
	require.Len(t, v.changes.Pending(), 3)
	polish(v)

	assert.Same(t, third, v.visibleItem(4))
	assert.Equal(t, 101, v.Count())
	requireContiguous(t, v)
	for i, item := range v.VisibleItems() {
		assert.Equal(t, m.elems[item.Index()], item.Visual().(*fakeVisual).elem, "slot %d", i)
	}
}

func TestView_DelayRemove(t *testing.T) {
	m := newFakeModel(100, 10)
	v, _ := newTestView(t, m, 50)
	vis := v.visibleItem(1).Visual().(*fakeVisual)
	require.NotNil(t, vis.attached)
	vis.attached.OnRemove = func() { vis.attached.SetDelayRemove(true) }

	m.remove(1, 1)
	polish(v)

	assert.Equal(t, []int{0, -1, 1, 2, 3, 4}, windowIndexes(v)[:6])
	assert.Equal(t, 20., v.visibleItem(1).Position())
	assert.Equal(t, 0, m.destroyed)

	vis.attached.SetDelayRemove(false)
	require.True(t, v.NeedsPolish())
	polish(v)

	assert.NotContains(t, windowIndexes(v), -1)
	assert.Equal(t, 10., v.visibleItem(1).Position())
	assert.Equal(t, 1, m.destroyed)
	requireContiguous(t, v)
}

func TestView_ModelReset(t *testing.T) {
	var counts []int
	m := newFakeModel(100, 10)
	v, _ := newTestView(t, m, 50, WithSignals(Signals{CountChanged: func(c int) { counts = append(counts, c) }}))
	v.ScrollBy(300)
	counts = nil
	created := m.created

	m.reset(20, 10)

	assert.Equal(t, created, m.destroyed)
	assert.Equal(t, indexRange(0, 5), windowIndexes(v))
	assert.Equal(t, []int{20}, counts)
	assert.Equal(t, 0, v.CurrentIndex())
	assert.Equal(t, m.elems[0], v.CurrentItem().Visual().(*fakeVisual).elem)
}

func TestView_ModelResetMovesCurrentToFirst(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		count    int
		expected int
		emitted  []int
	}{
		{name: "shrinks past current", current: 5, count: 2, expected: 0, emitted: []int{0}},
		{name: "current still in range", current: 1, count: 5, expected: 0, emitted: []int{0}},
		{name: "current already first", current: 0, count: 3, expected: 0},
		{name: "empties", current: 5, count: 0, expected: -1, emitted: []int{-1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newFakeModel(10, 10)
			var emitted []int
			v, _ := newTestView(t, m, 50, WithSignals(Signals{CurrentIndexChanged: func(i int) { emitted = append(emitted, i) }}))
			v.SetCurrentIndex(tt.current)
			polish(v)
			require.Equal(t, tt.current, v.CurrentIndex())
			emitted = nil

			m.reset(tt.count, 10)
			polish(v)

			assert.Equal(t, tt.expected, v.CurrentIndex())
			assert.Equal(t, tt.emitted, emitted)
			if tt.expected == -1 {
				assert.Nil(t, v.CurrentItem())
				return
			}
			require.NotNil(t, v.CurrentItem())
			assert.Same(t, m.elems[tt.expected], v.CurrentItem().Visual().(*fakeVisual).elem)
		})
	}
}

func TestView_ModelResetDropsOutstandingRequest(t *testing.T) {
	m := newFakeModel(100, 10)
	m.async = true
	v, _ := newTestView(t, m, 50, WithCacheBuffer(50))
	require.Equal(t, 6, v.RequestedIndex())

	m.reset(3, 10)
	polish(v)

	assert.Empty(t, m.cancelled)
	assert.Equal(t, -1, v.RequestedIndex())
	assert.Empty(t, m.pending)
	assert.Equal(t, indexRange(0, 2), windowIndexes(v))
}

func TestView_AddedItemsEmitOnAdd(t *testing.T) {
	m := newFakeModel(10, 10)
	v, _ := newTestView(t, m, 100)
	added := 0
	m.bind = func(a *Attached) { a.OnAdd = func() { added++ } }

	m.insert(2, 2, 10)
	polish(v)
	assert.Equal(t, 2, added)

	// below the window
	m.insert(11, 1, 10)
	polish(v)
	assert.Equal(t, 2, added)
	assert.Equal(t, 13, v.Count())
}

func TestView_RandomChangesKeepWindowContiguous(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	m := newFakeModel(60, 10)
	v, _ := newTestView(t, m, 100, WithCacheBuffer(30))

	for step := range 300 {
		switch op := r.IntN(5); {
		case op == 0 && m.Count() < 200:
			m.insert(r.IntN(m.Count()+1), 1+r.IntN(4), float64(5+r.IntN(20)))
		case op == 1 && m.Count() > 5:
			index := r.IntN(m.Count() - 2)
			m.remove(index, 1+r.IntN(min(3, m.Count()-index)))
		case op == 2 && m.Count() > 5:
			from := r.IntN(m.Count() - 2)
			count := 1 + r.IntN(2)
			m.move(from, r.IntN(m.Count()-count+1), count)
		default:
			v.ScrollBy(float64(r.IntN(301) - 150))
		}
		polish(v)
		requireContiguous(t, v)
		for _, item := range v.VisibleItems() {
			require.Positive(t, m.refs[item.Visual().(*fakeVisual)], "step %d: released visual in window", step)
			require.Equal(t, m.elems[item.Index()], item.Visual().(*fakeVisual).elem, "step %d: window out of sync", step)
		}
		require.Equal(t, m.Count(), v.Count())
		if c := v.CurrentIndex(); c >= 0 {
			require.Less(t, c, m.Count())
			require.Equal(t, m.elems[c], v.CurrentItem().Visual().(*fakeVisual).elem, "step %d: current out of sync", step)
		}
	}
}
