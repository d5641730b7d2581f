package itemview

import "fmt"

// Change is a contiguous range of inserted or removed model indexes. A removal and an insertion
// that share a MoveID describe the same elements moving within the model.
type Change struct {
	Index  int
	Count  int
	MoveID int
}

// MoveKey identifies a single element of a move by the move it belongs to and its offset within
// the moved range
type MoveKey struct {
	MoveID int
	Offset int
}

// NoMove is the MoveID of a plain insertion or removal
const NoMove = -1

func NewInsert(index, count int) Change {
	return Change{Index: index, Count: count, MoveID: NoMove}
}

func NewRemove(index, count int) Change {
	return Change{Index: index, Count: count, MoveID: NoMove}
}

func (c Change) IsMove() bool {
	return c.MoveID >= 0
}

// End returns the index one past the last element of the change
func (c Change) End() int {
	return c.Index + c.Count
}

// Contains returns true if index falls within the change's range
func (c Change) Contains(index int) bool {
	return index >= c.Index && index < c.End()
}

// MoveKey returns the key of the moved element currently at index
func (c Change) MoveKey(index int) MoveKey {
	return MoveKey{MoveID: c.MoveID, Offset: index - c.Index}
}

func (c Change) String() string {
	if c.IsMove() {
		return fmt.Sprintf("{%d+%d move %d}", c.Index, c.Count, c.MoveID)
	}
	return fmt.Sprintf("{%d+%d}", c.Index, c.Count)
}

// ChangeSet is one batch of structural model changes. Removes are applied before Inserts, and
// Insert indexes refer to the model after all Removes have been applied.
type ChangeSet struct {
	Removes []Change
	Inserts []Change
}

func (cs ChangeSet) IsEmpty() bool {
	return len(cs.Removes) == 0 && len(cs.Inserts) == 0
}

// Difference returns the net change in model count described by the set
func (cs ChangeSet) Difference() int {
	d := 0
	for _, r := range cs.Removes {
		d -= r.Count
	}
	for _, i := range cs.Inserts {
		d += i.Count
	}
	return d
}

// InsertSet returns a change set inserting count elements at index
func InsertSet(index, count int) ChangeSet {
	return ChangeSet{Inserts: []Change{NewInsert(index, count)}}
}

// RemoveSet returns a change set removing count elements starting at index
func RemoveSet(index, count int) ChangeSet {
	return ChangeSet{Removes: []Change{NewRemove(index, count)}}
}

// MoveSet returns a change set moving count elements from index from to index to, where to is
// the destination index in the model after the elements have been taken out
func MoveSet(from, to, count, moveID int) ChangeSet {
	return ChangeSet{
		Removes: []Change{{Index: from, Count: count, MoveID: moveID}},
		Inserts: []Change{{Index: to, Count: count, MoveID: moveID}},
	}
}

// MapIndex follows the element at index through the set, returning its index once the set is
// applied. It returns false if the set removes the element without reinserting it.
func (cs ChangeSet) MapIndex(index int) (int, bool) {
	var key MoveKey
	taken := false
	for _, r := range cs.Removes {
		switch {
		case taken || index < r.Index:
		case index >= r.End():
			index -= r.Count
		case r.IsMove():
			key = r.MoveKey(index)
			taken = true
		default:
			return -1, false
		}
	}
	for _, ins := range cs.Inserts {
		if taken {
			if ins.MoveID == key.MoveID && key.Offset < ins.Count {
				index = ins.Index + key.Offset
				taken = false
			}
			continue
		}
		if index >= ins.Index {
			index += ins.Count
		}
	}
	if taken {
		return -1, false
	}
	return index, true
}
