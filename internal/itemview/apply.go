package itemview

import (
	"slices"

	"github.com/robinovitch61/itemview/internal/dev"
)

// anchor is the first item in view before a batch of changes is applied. Changes before it do not
// move it, so content in view stays still.
type anchor struct {
	item *ViewItem
	pos  float64

	// order and positions are the window before the changes, used to find a replacement when the
	// anchor itself is removed
	order     []*ViewItem
	positions map[*ViewItem]float64
}

func (v *View) captureAnchor() *anchor {
	if len(v.items) == 0 {
		return nil
	}
	a := &anchor{
		order:     slices.Clone(v.items),
		positions: make(map[*ViewItem]float64, len(v.items)),
	}
	viewStart := v.flowPosition()
	for _, item := range v.items {
		a.positions[item] = item.Position()
		if a.item == nil && item.index != -1 && item.EndPosition() > viewStart {
			a.item = item
		}
	}
	if a.item == nil {
		for _, item := range v.items {
			if item.index != -1 {
				a.item = item
				break
			}
		}
	}
	if a.item == nil {
		a.item = v.items[0]
	}
	a.pos = a.positions[a.item]
	return a
}

// resolve replaces a removed anchor with the next item of the old window still in the window, or
// failing that the previous one, which keeps its own position
func (a *anchor) resolve(v *View) {
	if a == nil || v.inWindow(a.item) {
		return
	}
	at := slices.Index(a.order, a.item)
	for _, item := range a.order[at+1:] {
		if item.index != -1 && v.inWindow(item) {
			a.item = item
			return
		}
	}
	for i := at - 1; i >= 0; i-- {
		item := a.order[i]
		if v.inWindow(item) {
			a.item = item
			a.pos = a.positions[item]
			return
		}
	}
	a.item = nil
}

func (v *View) inWindow(item *ViewItem) bool {
	return item != nil && slices.Contains(v.items, item)
}

// settle lays the window out contiguously and shifts it so the anchor is where it was
func (v *View) settle(a *anchor) {
	if len(v.items) == 0 {
		return
	}
	v.layoutStrategy.LayoutVisibleItems(v, 0)
	a.resolve(v)
	if a == nil || a.item == nil {
		return
	}
	delta := a.pos - a.item.Position()
	if delta == 0 {
		return
	}
	for _, item := range v.items {
		item.setPosition(item.Position() + delta)
	}
}

// applyModelChanges applies every pending change set to the window, returning true if there was
// anything to apply
func (v *View) applyModelChanges() bool {
	if !v.complete || !v.changes.HasPendingChanges() || v.disableLayout {
		return false
	}
	v.disableLayout = true
	defer func() { v.disableLayout = false }()

	v.updateUnrequestedIndexes()
	v.moveReason = moveOther

	prevCount := v.itemCount
	a := v.captureAnchor()
	var added []*ViewItem

	pending := v.changes.Pending()
	for i, cs := range pending {
		final := i == len(pending)-1
		dev.Debug("itemview: applying changes", "removes", cs.Removes, "inserts", cs.Inserts)
		for _, r := range cs.Removes {
			v.applyRemoval(r)
		}
		v.updateVisibleIndex()
		if len(v.items) == 0 && a != nil {
			v.visiblePos = a.pos
		}
		a.resolve(v)
		if a != nil && a.item == nil {
			a = nil
		}
		v.settle(a)

		for _, ins := range cs.Inserts {
			added = append(added, v.applyInsertion(ins, a, final)...)
		}
		v.updateVisibleIndex()
		v.settle(a)
	}
	v.itemCount = v.changes.ItemCount()

	for _, item := range v.changes.remainingRemoved() {
		if v.transitions.CanTransition(RemoveTransition, true) {
			item.releaseAfterTransition = true
			item.transitionNextReposition(v.transitions, RemoveTransition, true)
			v.releasePendingTransition = append(v.releasePendingTransition, item)
			continue
		}
		v.releaseItem(item)
	}

	for _, item := range added {
		if item.attached != nil {
			item.attached.emitAdd()
		}
	}

	if v.changes.CurrentChanged() {
		removedCurrent := false
		if v.changes.CurrentRemoved() && v.currentItem != nil {
			if v.currentItem.attached != nil {
				v.currentItem.attached.setIsCurrentItem(false)
			}
			v.releaseItem(v.currentItem)
			v.currentItem = nil
			removedCurrent = true
		}
		if !v.currentIndexCleared {
			v.updateCurrent(v.changes.NewCurrentIndex())
		}
		if removedCurrent && v.currentItem == nil {
			v.emitCurrentItem()
		}
	}

	v.updateSections()
	v.settle(a)
	v.changes.Reset()

	if prevCount != v.itemCount {
		v.emitCountChanged()
	}
	v.markExtentsDirty()
	return true
}

// applyRemoval takes the removed elements out of the window and shifts the indexes after them
func (v *View) applyRemoval(r Change) {
	if v.visibleIndex >= r.End() {
		v.visibleIndex -= r.Count
	} else if v.visibleIndex > r.Index {
		v.visibleIndex = r.Index
	}

	kept := v.items[:0]
	for _, item := range v.items {
		switch {
		case item.index == -1 || item.index < r.Index:
			kept = append(kept, item)
		case item.index >= r.End():
			item.index -= r.Count
			if r.IsMove() {
				item.transitionNextReposition(v.transitions, MoveTransition, false)
			} else {
				item.transitionNextReposition(v.transitions, RemoveTransition, false)
			}
			kept = append(kept, item)
		default:
			if !r.IsMove() && item.attached != nil {
				item.attached.emitRemove()
			}
			if !r.IsMove() && item.attached != nil && item.attached.delayRemove {
				item.index = -1
				kept = append(kept, item)
				continue
			}
			if r.IsMove() {
				v.changes.addRemoved(r.MoveKey(item.index), item)
				item.transitionNextReposition(v.transitions, MoveTransition, true)
			} else {
				v.changes.addRemoved(MoveKey{MoveID: NoMove}, item)
			}
			item.index = -1
		}
	}
	clear(v.items[len(kept):])
	v.items = kept
}

// applyInsertion puts the inserted elements that fall within the window and its buffer into the
// window, returning the newly added items. Unless final is set, later batches are still pending and
// the model's indexes do not match the batch, so no new visuals are created: the window is cut at
// the insertion instead and refilled once every batch is applied.
func (v *View) applyInsertion(ins Change, a *anchor, final bool) []*ViewItem {
	modelIndex := ins.Index
	count := ins.Count
	viewStart := v.flowPosition()
	from := viewStart - v.buffer
	to := viewStart + v.viewport.Size() + v.buffer

	slot := 0
	if len(v.items) > 0 {
		slot = v.mapFromModel(modelIndex)
	}
	if slot < 0 {
		last := len(v.items) - 1
		for last > 0 && v.items[last].index == -1 {
			last--
		}
		switch {
		case v.items[last].index == -1:
			// only items waiting for removal are left
			slot = len(v.items)
		case v.items[last].index+1 == modelIndex && v.items[last].EndPosition() <= to:
			slot = len(v.items)
		default:
			if modelIndex < v.visibleIndex {
				v.visibleIndex += count
				for _, item := range v.items {
					if item.index != -1 && item.index >= modelIndex {
						item.index += count
					}
				}
			}
			return nil
		}
	} else if len(v.items) == 0 {
		if modelIndex < v.visibleIndex {
			v.visibleIndex += count
			return nil
		}
		if modelIndex > v.visibleIndex {
			return nil
		}
	}

	pos := v.visiblePos
	if len(v.items) > 0 {
		if slot < len(v.items) {
			pos = v.items[slot].Position()
		} else {
			pos = v.items[len(v.items)-1].EndPosition() + v.spacing
		}
	}

	typ := AddTransition
	if ins.IsMove() {
		typ = MoveTransition
	}
	for _, item := range v.items {
		if item.index != -1 && item.index >= modelIndex {
			item.index += count
			item.transitionNextReposition(v.transitions, typ, false)
		}
	}

	var added []*ViewItem
	if a != nil && a.item != nil && pos < a.pos {
		// above the anchor: grow the window backwards from the slot
		end := pos
		created := 0
		for i := count - 1; i >= 0 && end > from; i-- {
			item := v.insertedItem(ins, modelIndex+i, final)
			if item == nil {
				break
			}
			v.items = slices.Insert(v.items, slot, item)
			end -= item.Size() + v.spacing
			v.placeInserted(item, end, ins, &added)
			created++
		}
		if created < count && slot > 0 {
			// the window would skip the elements not created
			for _, item := range v.items[:slot] {
				v.releaseOrDefer(item)
			}
			v.items = slices.Delete(v.items, 0, slot)
		}
		return added
	}

	created := 0
	for i := 0; i < count && pos <= to; i++ {
		item := v.insertedItem(ins, modelIndex+i, final)
		if item == nil {
			break
		}
		v.items = slices.Insert(v.items, slot+i, item)
		v.placeInserted(item, pos, ins, &added)
		if i == 0 && a != nil && a.item != nil && slot+1 < len(v.items) && v.items[slot+1] == a.item {
			// the block takes the anchor's place
			a.item = item
		}
		pos += item.Size() + v.spacing
		created++
	}
	if created < count {
		after := slot + created
		if after < len(v.items) && after > 0 {
			for _, item := range v.items[after:] {
				v.releaseOrDefer(item)
			}
			v.items = slices.Delete(v.items, after, len(v.items))
		}
	}
	return added
}

// insertedItem returns the item for an inserted element, the same item when the element moved
// within the window
func (v *View) insertedItem(ins Change, index int, final bool) *ViewItem {
	if ins.IsMove() {
		if item := v.changes.takeRemoved(ins.MoveKey(index)); item != nil {
			item.index = index
			return item
		}
	}
	if !final {
		return nil
	}
	return v.createItem(index, false)
}

func (v *View) placeInserted(item *ViewItem, pos float64, ins Change, added *[]*ViewItem) {
	if ins.IsMove() && item.isTransitionTarget() {
		item.setPosition(pos)
		return
	}
	item.moveTo(pos, true)
	if !ins.IsMove() {
		item.transitionNextReposition(v.transitions, AddTransition, true)
		*added = append(*added, item)
	}
}

// sectionAt is the section of model index, or "" without sections
func (v *View) sectionAt(index int) string {
	if v.sectionCriteria == nil || index < 0 || index >= v.itemCount {
		return ""
	}
	return v.sectionCriteria(index)
}

func (v *View) sectionSizeAt(index int) float64 {
	if v.sectionCriteria == nil || index < 0 {
		return 0
	}
	if index == 0 || v.sectionAt(index) != v.sectionAt(index-1) {
		return v.sectionHeaderSize
	}
	return 0
}

// updateSections refreshes the section metadata of the window and the section headers drawn
// before the first item of each section
func (v *View) updateSections() {
	if v.sectionCriteria == nil || !v.complete {
		return
	}
	prev := v.sectionAt(v.visibleIndex - 1)
	for _, item := range v.items {
		if item.index == -1 {
			continue
		}
		section := v.sectionAt(item.index)
		if item.attached != nil {
			item.attached.setSections(prev, section, v.sectionAt(item.index+1))
		}
		if section != prev || item.index == 0 {
			item.sectionSize = v.sectionHeaderSize
		} else {
			item.sectionSize = 0
		}
		prev = section
	}
	if v.currentItem != nil {
		v.currentItem.sectionSize = v.sectionSizeAt(v.currentItem.index)
	}
}

// updateCurrentSection tracks the section of the first item in view
func (v *View) updateCurrentSection() {
	if v.sectionCriteria == nil || len(v.items) == 0 {
		if v.currentSection != "" {
			v.currentSection = ""
			v.emitCurrentSection()
		}
		return
	}
	viewStart := v.flowPosition()
	section := ""
	for _, item := range v.items {
		if item.index != -1 && item.EndPosition() > viewStart {
			section = v.sectionAt(item.index)
			break
		}
	}
	if section != v.currentSection {
		v.currentSection = section
		v.emitCurrentSection()
	}
}

func (v *View) emitCurrentSection() {
	if v.signals.CurrentSectionChanged != nil {
		v.signals.CurrentSectionChanged(v.currentSection)
	}
}
