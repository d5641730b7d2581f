package model

import (
	"errors"
	"testing"

	"github.com/robinovitch61/itemview/internal/itemview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	changes   []itemview.ChangeSet
	resets    int
	counts    int
	destroyed []itemview.Visual
}

func (r *recorder) observer() itemview.Observer {
	return itemview.Observer{
		OnCountChanged: func() { r.counts++ },
		OnModelUpdated: func(cs itemview.ChangeSet, reset bool) {
			if reset {
				r.resets++
				return
			}
			r.changes = append(r.changes, cs)
		},
		OnDestroyingItem: func(v itemview.Visual) { r.destroyed = append(r.destroyed, v) },
	}
}

func texts(m *ListModel) []string {
	var res []string
	for i := range m.Count() {
		rec, _ := m.Record(i)
		res = append(res, rec.Text)
	}
	return res
}

func polish(v *itemview.View) {
	for i := 0; i < 10 && v.NeedsPolish(); i++ {
		v.UpdatePolish()
	}
}

func TestListModel_ItemIsReferenceCounted(t *testing.T) {
	m := New(20, []string{"a", "b", "c"})
	r := &recorder{}
	m.SetObserver(r.observer())

	first, err := m.Item(1, false)
	require.NoError(t, err)
	second, err := m.Item(1, false)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "b", first.(*Row).Text())
	assert.Equal(t, 1, m.IndexOf(first))

	assert.Equal(t, itemview.StillReferenced, m.Release(first))
	assert.Empty(t, r.destroyed)
	assert.Equal(t, itemview.Destroyed, m.Release(first))
	assert.Equal(t, []itemview.Visual{first}, r.destroyed)

	third, err := m.Item(1, false)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestListModel_InvalidIndex(t *testing.T) {
	m := New(20, []string{"a"})
	_, err := m.Item(1, false)
	assert.True(t, errors.Is(err, itemview.ErrInvalidIndex))
	_, err = m.Item(-1, false)
	assert.True(t, errors.Is(err, itemview.ErrInvalidIndex))

	assert.True(t, errors.Is(m.Insert(2, "x"), itemview.ErrInvalidIndex))
	assert.True(t, errors.Is(m.Remove(0, 2), itemview.ErrInvalidIndex))
	assert.True(t, errors.Is(m.Move(0, 1, 1), itemview.ErrInvalidIndex))
	assert.Equal(t, []string{"a"}, texts(m))
}

func TestListModel_Wrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		wrap     bool
		expected []string
	}{
		{"fits", "aaa bbb", 10, true, []string{"aaa bbb"}},
		{"breaks between words", "aaa bbb ccc", 7, true, []string{"aaa bbb", "ccc"}},
		{"breaks long words", "abcdefghij", 4, true, []string{"abcd", "efgh", "ij"}},
		{"wrap off", "aaa bbb ccc", 7, false, []string{"aaa bbb ccc"}},
		{"no width", "aaa bbb ccc", 0, true, []string{"aaa bbb ccc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.width, []string{tt.text}, WithWrap(tt.wrap))
			v, err := m.Item(0, false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.(*Row).Lines())
			assert.Equal(t, float64(len(tt.expected)), v.Size())
		})
	}
}

func TestListModel_SetWidthReportsResizedRows(t *testing.T) {
	m := New(7, []string{"aaa bbb ccc", "aaa"})
	long, _ := m.Item(0, false)
	_, _ = m.Item(1, false)

	assert.Equal(t, []itemview.Visual{long}, m.SetWidth(11))
	assert.Equal(t, []string{"aaa bbb ccc"}, long.(*Row).Lines())
	assert.Nil(t, m.SetWidth(11))

	assert.Equal(t, []itemview.Visual{long}, m.SetWidth(3))
	assert.Equal(t, 3., long.Size())
	assert.Equal(t, []itemview.Visual{long}, m.SetWrap(false))
	assert.Equal(t, 1., long.Size())
}

func TestListModel_MutationsNotify(t *testing.T) {
	m := New(20, []string{"a", "b", "c"})
	r := &recorder{}
	m.SetObserver(r.observer())

	require.NoError(t, m.Insert(1, "x", "y"))
	assert.Equal(t, []string{"a", "x", "y", "b", "c"}, texts(m))
	require.NoError(t, m.Remove(0, 1))
	assert.Equal(t, []string{"x", "y", "b", "c"}, texts(m))
	require.NoError(t, m.Move(0, 2, 1))
	assert.Equal(t, []string{"y", "b", "x", "c"}, texts(m))
	require.NoError(t, m.Append("z"))
	assert.Equal(t, []string{"y", "b", "x", "c", "z"}, texts(m))

	assert.Equal(t, []itemview.ChangeSet{
		itemview.InsertSet(1, 2),
		itemview.RemoveSet(0, 1),
		itemview.MoveSet(0, 2, 1, 1),
		itemview.InsertSet(4, 1),
	}, r.changes)
	assert.Equal(t, 3, r.counts)

	m.Reset([]string{"q"})
	assert.Equal(t, 1, r.resets)
	assert.Equal(t, 4, r.counts)
	assert.Equal(t, []string{"q"}, texts(m))
}

func TestListModel_EmptyMutationsAreIgnored(t *testing.T) {
	m := New(20, []string{"a", "b"})
	r := &recorder{}
	m.SetObserver(r.observer())

	require.NoError(t, m.Insert(0))
	require.NoError(t, m.Remove(1, 0))
	require.NoError(t, m.Move(1, 1, 1))
	assert.Empty(t, r.changes)
	assert.Zero(t, r.counts)
}

func TestListModel_RemovedRowsStayUntilReleased(t *testing.T) {
	m := New(20, []string{"a", "b"})
	r := &recorder{}
	m.SetObserver(r.observer())
	row, _ := m.Item(0, false)

	require.NoError(t, m.Remove(0, 1))
	assert.Empty(t, r.destroyed)
	assert.Equal(t, -1, m.IndexOf(row))
	assert.Equal(t, itemview.Destroyed, m.Release(row))
	assert.Equal(t, []itemview.Visual{row}, r.destroyed)
}

func TestListModel_AsyncRequests(t *testing.T) {
	m := New(20, []string{"a", "b", "c"}, WithAsync(0))
	var created []int
	m.SetObserver(itemview.Observer{OnCreatedItem: func(index int, _ itemview.Visual) { created = append(created, index) }})

	_, err := m.Item(1, true)
	require.ErrorIs(t, err, itemview.ErrPending)
	_, err = m.Item(1, true)
	require.ErrorIs(t, err, itemview.ErrPending)
	require.Len(t, m.requests, 1)
	req := m.requests[0]
	assert.NotNil(t, m.Requests())
	assert.Nil(t, m.Requests())

	// a move before completion reports the record's new index
	require.NoError(t, m.Move(1, 0, 1))
	assert.True(t, m.Complete(req))
	assert.Equal(t, []int{0}, created)
	assert.False(t, m.Complete(req))

	row, err := m.Item(0, true)
	require.NoError(t, err)
	assert.Equal(t, "b", row.(*Row).Text())
	assert.Equal(t, 0, m.Pending())
}

func TestListModel_CancelledRequestIsDropped(t *testing.T) {
	m := New(20, []string{"a", "b"}, WithAsync(0))
	_, _ = m.Item(1, true)
	req := m.requests[0]

	m.Cancel(1)
	assert.Equal(t, 0, m.Pending())
	assert.False(t, m.Complete(req))

	_, _ = m.Item(1, true)
	assert.NotEqual(t, req.Token, m.requests[1].Token)
	require.NoError(t, m.Remove(1, 1))
	assert.False(t, m.Complete(m.requests[1]))
}

func TestListModel_SyncCreationWinsOverPendingRequest(t *testing.T) {
	m := New(20, []string{"a"}, WithAsync(0))
	_, _ = m.Item(0, true)
	req := m.requests[0]

	_, err := m.Item(0, false)
	require.NoError(t, err)
	assert.False(t, m.Complete(req))
	assert.Equal(t, 0, m.Pending())
}

func TestListModel_DrivesView(t *testing.T) {
	var all []string
	for i := range 100 {
		all = append(all, string(rune('a'+i%26)))
	}
	m := New(20, all, WithAsync(0))
	vp := itemview.NewScrollSurface(5)
	v := itemview.New(m, vp, itemview.WithCacheBuffer(5))

	assert.Len(t, v.VisibleItems(), 6)
	for range 10 {
		if len(m.requests) == 0 {
			break
		}
		req := m.requests[len(m.requests)-1]
		m.requests = nil
		require.True(t, m.Complete(req))
	}
	assert.Equal(t, 0, m.Pending())
	require.Len(t, v.VisibleItems(), 11)
	for _, item := range v.VisibleItems() {
		rec, _ := m.Record(item.Index())
		assert.Equal(t, rec.Text, item.Visual().(*Row).Text())
	}
	assert.True(t, v.CurrentItem().Visual().(*Row).IsCurrent())
}

func TestListModel_RequestSurvivesMove(t *testing.T) {
	var all []string
	for i := range 100 {
		all = append(all, string(rune('a'+i%26)))
	}
	m := New(20, all, WithAsync(0))
	vp := itemview.NewScrollSurface(10)
	v := itemview.New(m, vp, itemview.WithCacheBuffer(3))
	require.Equal(t, 11, v.RequestedIndex())
	requested, _ := m.Record(11)

	require.NoError(t, m.Move(11, 50, 1))
	moved, _ := m.Record(v.RequestedIndex())
	assert.Equal(t, requested.ID, moved.ID)
	polish(v)
	vp.SetPosition(2)
	polish(v)

	assert.LessOrEqual(t, m.Pending(), 1)
	if v.RequestedIndex() != -1 {
		rec, _ := m.Record(v.RequestedIndex())
		assert.Contains(t, m.pending, rec.ID)
	}
	_, stillPending := m.pending[requested.ID]
	assert.False(t, stillPending)

	for range 20 {
		if len(m.requests) == 0 {
			break
		}
		reqs := m.requests
		m.requests = nil
		for _, req := range reqs {
			m.Complete(req)
		}
		polish(v)
		require.LessOrEqual(t, m.Pending(), 1)
	}
	assert.Equal(t, 0, m.Pending())
	for _, item := range v.VisibleItems() {
		rec, _ := m.Record(item.Index())
		assert.Equal(t, rec.ID, item.Visual().(*Row).id)
	}
}

func TestListModel_GeometryChangeRelaysOut(t *testing.T) {
	m := New(10, []string{"a", "b", "aaa bbb ccc ddd", "c", "d"})
	vp := itemview.NewScrollSurface(10)
	v := itemview.New(m, vp)
	items := v.VisibleItems()
	require.Len(t, items, 5)
	assert.Equal(t, 2., items[2].Size())
	assert.Equal(t, 4., items[3].Position())

	for _, row := range m.SetWidth(20) {
		v.ItemGeometryChanged(row)
	}
	polish(v)
	assert.Equal(t, 1., items[2].Size())
	assert.Equal(t, 3., items[3].Position())
	assert.Equal(t, 5., v.ContentSize())
}

func TestListModel_InitialSection(t *testing.T) {
	m := New(10, []string{"apple", "Banana", "éclair", ""})
	assert.Equal(t, "A", m.InitialSection(0))
	assert.Equal(t, "B", m.InitialSection(1))
	assert.Equal(t, "É", m.InitialSection(2))
	assert.Equal(t, "", m.InitialSection(3))
	assert.Equal(t, "", m.InitialSection(4))
}
