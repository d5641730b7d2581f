package itemview

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// ChangeAccumulator buffers change sets reported by the model between polishes and projects
// where the current index will end up once they are applied
type ChangeAccumulator struct {
	pending []ChangeSet

	// removedItems holds window items taken out by move removals until the matching insertion
	// claims them, keyed by MoveKey
	removedItems *redblacktree.Tree

	// removedPlain holds window items taken out by non-move removals
	removedPlain []*ViewItem

	itemCount       int
	newCurrentIndex int
	active          bool
	currentChanged  bool
	currentRemoved  bool
}

func NewChangeAccumulator() *ChangeAccumulator {
	a := &ChangeAccumulator{removedItems: redblacktree.NewWith(compareMoveKeys)}
	a.Reset()
	return a
}

// Prepare arms the accumulator with the state the view has before any buffered change. It is a
// no-op while the accumulator is already active, so notifications arriving before the next
// application are folded into the same projection.
func (a *ChangeAccumulator) Prepare(currentIndex, itemCount int) {
	if a.active {
		return
	}
	a.active = true
	a.itemCount = itemCount
	a.newCurrentIndex = currentIndex
	a.currentChanged = false
	a.currentRemoved = false
}

// ApplyChanges records a change set and updates the projected current index
func (a *ChangeAccumulator) ApplyChanges(cs ChangeSet) {
	if cs.IsEmpty() {
		return
	}
	a.pending = append(a.pending, cs)

	moveID := NoMove
	moveOffset := 0
	for _, r := range cs.Removes {
		a.itemCount -= r.Count
		if moveID == NoMove && a.newCurrentIndex >= r.End() {
			a.newCurrentIndex -= r.Count
			a.currentChanged = true
		} else if moveID == NoMove && r.Contains(a.newCurrentIndex) {
			if r.IsMove() {
				moveID = r.MoveID
				moveOffset = a.newCurrentIndex - r.Index
			} else {
				a.currentRemoved = true
				a.newCurrentIndex = -1
				if a.itemCount > 0 {
					a.newCurrentIndex = min(r.Index, a.itemCount-1)
				}
			}
			a.currentChanged = true
		}
	}
	for _, i := range cs.Inserts {
		if moveID == NoMove {
			if a.itemCount > 0 && a.newCurrentIndex >= i.Index {
				a.newCurrentIndex += i.Count
				a.currentChanged = true
			} else if a.newCurrentIndex < 0 {
				a.newCurrentIndex = 0
				a.currentChanged = true
			} else if a.newCurrentIndex == 0 && a.itemCount == 0 {
				// current item was the only item and was replaced
				a.currentChanged = true
			}
		} else if moveID == i.MoveID {
			a.newCurrentIndex = i.Index + moveOffset
			moveID = NoMove
		}
		a.itemCount += i.Count
	}
}

// HasPendingChanges is the polish gate: true when there is anything to apply
func (a *ChangeAccumulator) HasPendingChanges() bool {
	return len(a.pending) > 0
}

// Pending returns the buffered change sets in arrival order
func (a *ChangeAccumulator) Pending() []ChangeSet {
	return a.pending
}

func (a *ChangeAccumulator) Active() bool {
	return a.active
}

func (a *ChangeAccumulator) ItemCount() int {
	return a.itemCount
}

func (a *ChangeAccumulator) NewCurrentIndex() int {
	return a.newCurrentIndex
}

func (a *ChangeAccumulator) CurrentChanged() bool {
	return a.currentChanged
}

func (a *ChangeAccumulator) CurrentRemoved() bool {
	return a.currentRemoved
}

// Reset discards all buffered state
func (a *ChangeAccumulator) Reset() {
	a.pending = nil
	a.removedItems.Clear()
	a.removedPlain = nil
	a.itemCount = 0
	a.newCurrentIndex = -1
	a.active = false
	a.currentChanged = false
	a.currentRemoved = false
}

func (a *ChangeAccumulator) addRemoved(key MoveKey, item *ViewItem) {
	if key.MoveID == NoMove {
		a.removedPlain = append(a.removedPlain, item)
		return
	}
	a.removedItems.Put(key, item)
}

func (a *ChangeAccumulator) takeRemoved(key MoveKey) *ViewItem {
	v, found := a.removedItems.Get(key)
	if !found {
		return nil
	}
	a.removedItems.Remove(key)
	return v.(*ViewItem)
}

// remainingRemoved returns every removed item that no insertion claimed, moved ones first in key
// order, and forgets them
func (a *ChangeAccumulator) remainingRemoved() []*ViewItem {
	var res []*ViewItem
	for _, v := range a.removedItems.Values() {
		res = append(res, v.(*ViewItem))
	}
	res = append(res, a.removedPlain...)
	a.removedItems.Clear()
	a.removedPlain = nil
	return res
}

func compareMoveKeys(a, b interface{}) int {
	ka := a.(MoveKey)
	kb := b.(MoveKey)
	switch {
	case ka.MoveID < kb.MoveID:
		return -1
	case ka.MoveID > kb.MoveID:
		return 1
	case ka.Offset < kb.Offset:
		return -1
	case ka.Offset > kb.Offset:
		return 1
	}
	return 0
}
