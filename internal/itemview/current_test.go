package itemview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_SetCurrentIndexKeepsHighlightRange(t *testing.T) {
	m := newFakeModel(100, 10)
	vp := &recordingSurface{ScrollSurface: NewScrollSurface(100)}
	v := New(m, vp, WithHighlightRange(StrictlyEnforceRange, 0, 100))
	require.Empty(t, vp.sets)

	v.SetCurrentIndex(50)
	assert.Equal(t, []float64{410}, vp.sets)
	assert.Equal(t, 50, v.CurrentIndex())
	require.NotNil(t, v.visibleItem(50))
	assert.Equal(t, 500., v.visibleItem(50).Position())
	assert.Equal(t, 90., v.ScreenPosition(v.CurrentItem()))

	v.SetCurrentIndex(50)
	assert.Equal(t, []float64{410}, vp.sets)
}

func TestView_SetCurrentIndexScrollsIntoView(t *testing.T) {
	m := newFakeModel(100, 10)
	var indexes []int
	v, vp := newTestView(t, m, 50, WithSignals(Signals{CurrentIndexChanged: func(i int) { indexes = append(indexes, i) }}))
	require.Equal(t, []int{0}, indexes)
	indexes = nil

	v.SetCurrentIndex(10)
	assert.Equal(t, 60., vp.Position())
	assert.Equal(t, 100., v.CurrentItem().Position())
	assert.Equal(t, 40., v.ScreenPosition(v.CurrentItem()))

	v.SetCurrentIndex(2)
	assert.Equal(t, 20., vp.Position())
	assert.Equal(t, 20., v.CurrentItem().Position())
	assert.Equal(t, []int{10, 2}, indexes)
}

func TestView_ClearCurrentIndex(t *testing.T) {
	m := newFakeModel(10, 10)
	var items []*ViewItem
	v, _ := newTestView(t, m, 50, WithSignals(Signals{CurrentItemChanged: func(item *ViewItem) { items = append(items, item) }}))
	require.NotNil(t, v.CurrentItem())
	visual := v.CurrentItem().Visual().(*fakeVisual)
	items = nil

	v.SetCurrentIndex(-1)
	assert.Equal(t, -1, v.CurrentIndex())
	assert.Nil(t, v.CurrentItem())
	assert.False(t, visual.attached.IsCurrentItem())
	require.Len(t, items, 1)
	assert.Nil(t, items[0])

	// a cleared current index is not restored by model changes
	m.insert(0, 1, 10)
	polish(v)
	assert.Equal(t, -1, v.CurrentIndex())
}

func TestView_StartWithoutCurrentItem(t *testing.T) {
	m := newFakeModel(10, 10)
	v, _ := newTestView(t, m, 50, WithCurrentIndex(-1))
	assert.Equal(t, -1, v.CurrentIndex())
	assert.Nil(t, v.CurrentItem())
}

func TestView_IncrementDecrementCurrentIndex(t *testing.T) {
	tests := []struct {
		name     string
		wraps    bool
		steps    []int
		expected []int
	}{
		{"stops at the start", false, []int{-1}, []int{0}},
		{"walks forward", false, []int{1, 1, 1, 1}, []int{1, 2, 3, 4}},
		{"stops at the end", false, []int{1, 1, 1, 1, 1}, []int{1, 2, 3, 4, 4}},
		{"wraps to the end", true, []int{-1}, []int{4}},
		{"wraps to the start", true, []int{1, 1, 1, 1, 1}, []int{1, 2, 3, 4, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newFakeModel(5, 10)
			var opts []Option
			if tt.wraps {
				opts = append(opts, WithKeyNavigationWraps())
			}
			v, _ := newTestView(t, m, 100, opts...)
			var got []int
			for _, step := range tt.steps {
				if step > 0 {
					v.IncrementCurrentIndex()
				} else {
					v.DecrementCurrentIndex()
				}
				got = append(got, v.CurrentIndex())
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestView_HighlightFollowsCurrentItem(t *testing.T) {
	m := newFakeModel(10, 10)
	highlights := 0
	v, _ := newTestView(t, m, 100,
		WithHighlight(func() Visual { return &fakeVisual{elem: &fakeElem{size: 4}} }),
		WithHighlightMoveDuration(100*time.Millisecond),
		WithSignals(Signals{HighlightItemChanged: func(*ViewItem) { highlights++ }}),
	)
	h := v.HighlightItem()
	require.NotNil(t, h)
	assert.Equal(t, 1, highlights)
	assert.Equal(t, 0., h.Position())
	assert.Equal(t, 10., h.Size())

	v.SetCurrentIndex(3)
	assert.True(t, v.IsAnimating())
	assert.True(t, v.Advance(50*time.Millisecond))
	assert.InDelta(t, 22.5, h.Position(), 1e-9)
	assert.False(t, v.Advance(50*time.Millisecond))
	assert.Equal(t, 30., h.Position())
	assert.False(t, v.IsAnimating())
	assert.Equal(t, 1, highlights)
}

func TestView_HighlightWithoutDurationJumps(t *testing.T) {
	m := newFakeModel(10, 10)
	v, _ := newTestView(t, m, 100, WithHighlight(func() Visual { return &fakeVisual{elem: &fakeElem{size: 10}} }))

	v.SetCurrentIndex(6)
	assert.Equal(t, 60., v.HighlightItem().Position())
	assert.False(t, v.IsAnimating())
}

func TestView_StrictRangeUserScrollChangesCurrent(t *testing.T) {
	m := newFakeModel(100, 10)
	v, vp := newTestView(t, m, 50, WithHighlightRange(StrictlyEnforceRange, 0, 10))
	assert.Equal(t, 0., v.MinExtent())
	assert.Equal(t, 990., v.MaxExtent())

	v.ScrollBy(35)
	assert.Equal(t, 3, v.CurrentIndex())
	assert.Equal(t, 30., vp.Position())
}

func TestView_ApplyRangeLetsUserScrollAway(t *testing.T) {
	m := newFakeModel(100, 10)
	v, vp := newTestView(t, m, 50, WithHighlightRange(ApplyRange, 10, 20))

	v.ScrollBy(200)
	assert.Equal(t, 200., vp.Position())
	assert.Equal(t, 0, v.CurrentIndex())
}

func TestView_PositionViewAtIndex(t *testing.T) {
	m := newFakeModel(100, 10)
	v, vp := newTestView(t, m, 50)

	v.PositionViewAtIndex(50, Beginning)
	assert.Equal(t, 500., vp.Position())
	requireContiguous(t, v)

	v.PositionViewAtIndex(50, Center)
	assert.Equal(t, 480., vp.Position())

	v.PositionViewAtIndex(99, End)
	assert.Equal(t, 950., vp.Position())
	assert.Equal(t, 40., v.ScreenPosition(v.visibleItem(99)))

	v.PositionViewAtBeginning()
	assert.Equal(t, 0., vp.Position())
	assert.Equal(t, 2, v.IndexAt(25))
	assert.Equal(t, -1, v.IndexAt(-5))
	requireContiguous(t, v)
}

func TestView_PositionViewAtIndexContain(t *testing.T) {
	for _, mode := range []PositionMode{Visible, Contain} {
		m := newFakeModel(100, 10)
		v, vp := newTestView(t, m, 50)

		v.PositionViewAtIndex(7, mode)
		assert.Equal(t, 30., vp.Position())
		assert.Equal(t, 40., v.ScreenPosition(v.visibleItem(7)))
		requireContiguous(t, v)

		// already in view
		v.PositionViewAtIndex(5, mode)
		assert.Equal(t, 30., vp.Position())
	}
}
