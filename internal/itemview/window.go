package itemview

import (
	"errors"
	"slices"

	"github.com/robinovitch61/itemview/internal/dev"
)

// Canceler is implemented by adapters that can abandon an asynchronous creation the view no
// longer waits for
type Canceler interface {
	Cancel(index int)
}

func (v *View) stride() float64 {
	return v.averageSize + v.spacing
}

func (v *View) modelCount() int {
	return v.itemCount
}

// visibleItem returns the window item for model index, or nil
func (v *View) visibleItem(index int) *ViewItem {
	if index < v.visibleIndex {
		return nil
	}
	for _, item := range v.items {
		if item.index == index {
			return item
		}
	}
	return nil
}

// mapFromModel returns the window slot of model index, or -1
func (v *View) mapFromModel(index int) int {
	for i, item := range v.items {
		if item.index == index {
			return i
		}
	}
	return -1
}

func (v *View) lastVisibleIndex(def int) int {
	for i := len(v.items) - 1; i >= 0; i-- {
		if v.items[i].index != -1 {
			return v.items[i].index
		}
	}
	return def
}

func (v *View) updateVisibleIndex() {
	for _, item := range v.items {
		if item.index != -1 {
			v.visibleIndex = item.index
			return
		}
	}
}

func (v *View) layoutVisibleItems(fromIndex int) {
	v.layoutStrategy.LayoutVisibleItems(v, fromIndex)
	v.syncCurrentItem()
}

// refill makes the window cover the viewport plus the cache buffer on the buffered sides, then
// drops items outside the buffer. Calling it again without any change in between does nothing.
func (v *View) refill() {
	from := v.flowPosition()
	v.refillRange(from, from+v.viewport.Size())
}

func (v *View) refillRange(from, to float64) {
	if !v.isValid() || !v.complete {
		return
	}
	if v.changes.HasPendingChanges() && !v.inLayout && !v.disableLayout {
		v.layout()
		return
	}
	if v.buffered.HasPendingChanges() {
		// the window still describes the model before these changes
		return
	}
	v.itemCount = v.model.Count()

	bufferFrom := from - v.buffer
	bufferTo := to + v.buffer
	changed := false
	for range v.itemCount + 1 {
		added := v.layoutStrategy.AddVisibleItems(v, from, to, false)
		removed := v.layoutStrategy.RemoveNonVisibleItems(v, bufferFrom, bufferTo)
		if !added && !removed {
			break
		}
		changed = true
	}

	if v.requestedIndex != -1 && !v.requestAdjacent() {
		dev.Debug("itemview: cancelling request", "index", v.requestedIndex)
		v.cancelRequest()
	}
	if v.buffer > 0 && v.bufferMode != NoBuffer && v.requestedIndex == -1 {
		fillFrom, fillTo := from, to
		if v.bufferMode&BufferAfter != 0 {
			fillTo = bufferTo
		}
		if v.bufferMode&BufferBefore != 0 {
			fillFrom = bufferFrom
		}
		if v.layoutStrategy.AddVisibleItems(v, fillFrom, fillTo, true) {
			changed = true
		}
	}

	if changed {
		v.averageSize = v.computeAverageSize()
		v.markExtentsDirty()
		v.updateSections()
		v.updateCurrentSection()
		v.updateHeader()
		v.updateFooter()
		v.updateViewport()
	}
}

func (v *View) refillOrLayout() {
	if v.changes.HasPendingChanges() {
		v.layout()
		return
	}
	v.refill()
}

func (v *View) computeAverageSize() float64 {
	sum := 0.
	n := 0
	for _, item := range v.items {
		if item.index == -1 {
			continue
		}
		sum += item.Size()
		n++
	}
	if n == 0 {
		return v.averageSize
	}
	return sum / float64(n)
}

// createItem materializes the item for index. It returns nil when the adapter is still creating
// the visual asynchronously, or failed to create it.
func (v *View) createItem(index int, async bool) *ViewItem {
	if v.requestedIndex == index && async {
		return nil
	}
	for i, item := range v.releasePendingTransition {
		if item.index == index && !item.IsPendingRemoval() {
			item.releaseAfterTransition = false
			v.releasePendingTransition = slices.Delete(v.releasePendingTransition, i, i+1)
			return item
		}
	}
	if v.model == nil || index < 0 || index >= v.model.Count() {
		return nil
	}

	v.inRequest = true
	visual, err := v.model.Item(index, async)
	v.inRequest = false
	if err != nil {
		if errors.Is(err, ErrPending) {
			if v.requestedIndex != -1 && v.requestedIndex != index {
				v.cancelRequest()
			}
			v.requestedIndex = index
			v.requestedAsync = async
			return nil
		}
		dev.Debug("itemview: creating item", "index", index, "err", err)
		return nil
	}
	if visual == nil {
		return nil
	}
	if v.requestedIndex == index {
		v.requestedIndex = -1
	}
	item := newViewItem(index, visual, false)
	v.initializeViewItem(item)
	delete(v.unrequested, visual)
	return item
}

func (v *View) cancelRequest() {
	if v.requestedIndex == -1 {
		return
	}
	if c, ok := v.model.(Canceler); ok {
		c.Cancel(v.requestedIndex)
	}
	v.requestedIndex = -1
}

// followRequest keeps the outstanding request on its element while the model changes under it.
// A removed element's request is dropped without cancelling, as the adapter discards it with the
// element.
func (v *View) followRequest(cs ChangeSet) {
	if v.requestedIndex == -1 {
		return
	}
	index, ok := cs.MapIndex(v.requestedIndex)
	if !ok {
		dev.Debug("itemview: requested element removed", "index", v.requestedIndex)
		index = -1
	}
	v.requestedIndex = index
}

// requestAdjacent is true if the outstanding request would extend the window
func (v *View) requestAdjacent() bool {
	last := v.lastVisibleIndex(-1)
	if last == -1 {
		return v.requestedIndex == v.visibleIndex
	}
	return v.requestedIndex == last+1 || v.requestedIndex == v.visibleIndex-1
}

func (v *View) initializeViewItem(item *ViewItem) {
	v.attach(item)
	if v.sectionCriteria != nil {
		item.sectionSize = v.sectionSizeAt(item.index)
	}
}

func (v *View) attach(item *ViewItem) {
	if item.ownsVisual || item.visual == nil {
		return
	}
	a := v.attached[item.visual]
	if a == nil {
		a = &Attached{view: v}
		v.attached[item.visual] = a
		if b, ok := item.visual.(Binder); ok {
			b.Bind(a)
		}
	}
	a.holders = append(a.holders, item)
	item.attached = a
}

func (v *View) detach(item *ViewItem) {
	a := item.attached
	if a == nil {
		return
	}
	item.attached = nil
	a.holders = slices.DeleteFunc(a.holders, func(h *ViewItem) bool { return h == item })
	if len(a.holders) == 0 {
		delete(v.attached, item.visual)
	}
}

// createdItem handles the adapter finishing an asynchronous creation
func (v *View) createdItem(index int, visual Visual) {
	if v.inRequest {
		return
	}
	v.unrequested[visual] = index
	if index != v.requestedIndex {
		return
	}
	v.requestedIndex = -1
	if v.changes.HasPendingChanges() {
		v.layout()
	} else {
		v.refill()
	}
	if index == v.currentIndex && v.currentItem == nil {
		v.updateCurrent(index)
	}
	v.refill()
}

func (v *View) destroyingItem(visual Visual) {
	delete(v.unrequested, visual)
}

// releaseItem gives the item's visual back to the adapter. It returns false if the adapter
// reports the visual is still referenced elsewhere.
func (v *View) releaseItem(item *ViewItem) bool {
	if item == nil {
		return true
	}
	if v.trackedItem == item {
		v.trackedItem = nil
	}
	v.detach(item)
	if item.ownsVisual || item.visual == nil || v.model == nil {
		return true
	}
	res := v.model.Release(item.visual)
	if res == Unreferenced {
		v.unrequested[item.visual] = v.model.IndexOf(item.visual)
	}
	return res != StillReferenced
}

// releaseOrDefer releases an item leaving the window, unless it is transitioning, in which case it
// is released when the transition finishes
func (v *View) releaseOrDefer(item *ViewItem) {
	if item.transitionScheduledOrRunning() {
		item.releaseAfterTransition = true
		v.releasePendingTransition = append(v.releasePendingTransition, item)
		return
	}
	v.releaseItem(item)
}

// updateUnrequestedIndexes refreshes the indexes of visuals the view does not hold
func (v *View) updateUnrequestedIndexes() {
	for visual := range v.unrequested {
		v.unrequested[visual] = v.model.IndexOf(visual)
	}
}

// UnrequestedCount is the number of live visuals the adapter created that the view does not hold
func (v *View) UnrequestedCount() int {
	return len(v.unrequested)
}

// RequestedIndex is the index of the outstanding asynchronous creation, or -1
func (v *View) RequestedIndex() int {
	return v.requestedIndex
}

// destroyRemoved drops removed items whose delayed removal was cleared
func (v *View) destroyRemoved() {
	kept := v.items[:0]
	for _, item := range v.items {
		if item.index != -1 || (item.attached != nil && item.attached.delayRemove) {
			kept = append(kept, item)
			continue
		}
		if v.transitions.CanTransition(RemoveTransition, true) {
			item.releaseAfterTransition = true
			item.transitionNextReposition(v.transitions, RemoveTransition, true)
			v.releasePendingTransition = append(v.releasePendingTransition, item)
			continue
		}
		v.releaseItem(item)
	}
	clear(v.items[len(kept):])
	v.items = kept
	v.runDelayedRemove = false
	v.forceLayout = true
}

// ItemGeometryChanged tells the view visual changed size. Window items are re-laid out on the next
// polish, with content in view kept still when an item above the viewport changes.
func (v *View) ItemGeometryChanged(visual Visual) {
	if v.header != nil && v.header.visual == visual {
		if v.header.refreshSize() {
			v.markExtentsDirty()
			v.updateHeader()
			v.updateViewport()
			v.fixupIfStill()
		}
		return
	}
	if v.footer != nil && v.footer.visual == visual {
		if v.footer.refreshSize() {
			v.markExtentsDirty()
			v.updateFooter()
			v.updateViewport()
			v.fixupIfStill()
		}
		return
	}
	a := v.attached[visual]
	if a == nil {
		return
	}
	changed := false
	for _, item := range a.holders {
		oldSize := item.Size()
		oldEnd := item.EndPosition()
		if !item.refreshSize() {
			continue
		}
		changed = true
		if len(v.items) > 0 && item == v.items[0] && oldEnd <= v.flowPosition() {
			item.setPosition(item.Position() - (item.Size() - oldSize))
		}
	}
	if changed {
		v.forceLayoutPolish()
	}
}

func (v *View) viewportResized() {
	v.markExtentsDirty()
	if !v.complete {
		return
	}
	v.refill()
	v.forceLayoutPolish()
	v.updateViewport()
}
