package itemview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestView_ExtentsIncludeHeaderFooterAndMargins(t *testing.T) {
	m := newFakeModel(10, 10)
	v, vp := newTestView(t, m, 50,
		WithHeader(&fakeVisual{elem: &fakeElem{size: 5}}),
		WithFooter(&fakeVisual{elem: &fakeElem{size: 7}}),
		WithMargins(2, 3),
	)

	assert.Equal(t, -7., vp.Position())
	assert.Equal(t, -7., v.MinExtent())
	assert.Equal(t, 60., v.MaxExtent())
	assert.Equal(t, 112., v.ContentSize())
	assert.Equal(t, -5., v.HeaderItem().Position())
	assert.Equal(t, 100., v.FooterItem().Position())
}

func TestView_PositionAtEdgesShowsHeaderAndFooter(t *testing.T) {
	m := newFakeModel(10, 10)
	v, vp := newTestView(t, m, 50,
		WithHeader(&fakeVisual{elem: &fakeElem{size: 5}}),
		WithFooter(&fakeVisual{elem: &fakeElem{size: 7}}),
	)

	v.PositionViewAtEnd()
	assert.Equal(t, 57., vp.Position())
	assert.Equal(t, v.MaxExtent(), vp.Position())
	requireContiguous(t, v)

	v.PositionViewAtBeginning()
	assert.Equal(t, -5., vp.Position())
	assert.Equal(t, v.MinExtent(), vp.Position())
}

func TestView_ExtentsFollowRemovals(t *testing.T) {
	m := newFakeModel(20, 10)
	v, _ := newTestView(t, m, 50)
	assert.Equal(t, 150., v.MaxExtent())

	m.remove(10, 5)
	polish(v)
	assert.Equal(t, 150., v.ContentSize())
	assert.Equal(t, 100., v.MaxExtent())
}

func TestView_ShortContentDoesNotScroll(t *testing.T) {
	m := newFakeModel(3, 10)
	v, vp := newTestView(t, m, 50)

	assert.Equal(t, 0., v.MinExtent())
	assert.Equal(t, 0., v.MaxExtent())
	v.ScrollBy(20)
	assert.Equal(t, 0., vp.Position())
}
