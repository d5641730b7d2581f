package itemview

import (
	"time"
)

// highlightAnimation moves the highlight towards the current item
type highlightAnimation struct {
	running  bool
	fromPos  float64
	toPos    float64
	fromSize float64
	toSize   float64
	elapsed  time.Duration
}

// CurrentIndex is the index of the current item, or -1
func (v *View) CurrentIndex() int {
	return v.currentIndex
}

// CurrentItem is the current item, nil while it is being created or there is none
func (v *View) CurrentItem() *ViewItem {
	return v.currentItem
}

// HighlightItem is the highlight following the current item, or nil
func (v *View) HighlightItem() *ViewItem {
	return v.highlight
}

// SetCurrentIndex makes index current, moving the viewport to keep it in the highlight range or
// in view. -1 clears the current item. Calls made while the view is creating an item are ignored.
func (v *View) SetCurrentIndex(index int) {
	if v.inRequest {
		return
	}
	v.currentIndexCleared = index == -1
	v.applyPendingChanges()
	if index == v.currentIndex {
		return
	}
	if v.complete && v.isValid() {
		v.moveReason = moveSetIndex
		v.updateCurrent(index)
		return
	}
	v.currentIndex = index
	v.emitCurrentIndex()
}

// IncrementCurrentIndex moves the current index forward, wrapping to the start if navigation wraps
func (v *View) IncrementCurrentIndex() {
	count := v.Count()
	if count == 0 || (v.currentIndex >= count-1 && !v.wraps) {
		return
	}
	v.moveReason = moveSetIndex
	index := v.currentIndex + 1
	if index < 0 || index >= count {
		index = 0
	}
	v.SetCurrentIndex(index)
}

// DecrementCurrentIndex moves the current index back, wrapping to the end if navigation wraps
func (v *View) DecrementCurrentIndex() {
	count := v.Count()
	if count == 0 || (v.currentIndex <= 0 && !v.wraps) {
		return
	}
	v.moveReason = moveSetIndex
	index := v.currentIndex - 1
	if index < 0 || index >= count {
		index = count - 1
	}
	v.SetCurrentIndex(index)
}

func (v *View) emitCurrentIndex() {
	if v.signals.CurrentIndexChanged != nil {
		v.signals.CurrentIndexChanged(v.currentIndex)
	}
}

func (v *View) emitCurrentItem() {
	if v.signals.CurrentItemChanged != nil {
		v.signals.CurrentItemChanged(v.currentItem)
	}
}

// updateCurrent makes index current, creating the current item for it
func (v *View) updateCurrent(index int) {
	v.applyPendingChanges()
	if !v.complete || !v.isValid() || index < 0 || index >= v.model.Count() {
		if v.currentItem != nil {
			if v.currentItem.attached != nil {
				v.currentItem.attached.setIsCurrentItem(false)
			}
			v.releaseItem(v.currentItem)
			v.currentItem = nil
			v.currentIndex = index
			v.emitCurrentIndex()
			v.emitCurrentItem()
			v.updateHighlight()
		} else if v.currentIndex != index {
			v.currentIndex = index
			v.emitCurrentIndex()
		}
		return
	}

	if v.currentItem != nil && v.currentIndex == index {
		v.updateHighlight()
		return
	}

	old := v.currentItem
	oldIndex := v.currentIndex
	v.currentIndex = index
	v.currentItem = v.createItem(index, false)
	sameVisual := old != nil && v.currentItem != nil && old.visual == v.currentItem.visual
	if old != nil && old.attached != nil && !sameVisual {
		old.attached.setIsCurrentItem(false)
	}
	if v.currentItem != nil {
		if v.currentItem.attached != nil {
			v.currentItem.attached.setIsCurrentItem(true)
		}
		v.initializeCurrentItem()
	}

	v.updateHighlight()
	if oldIndex != v.currentIndex {
		v.emitCurrentIndex()
	}
	if old != v.currentItem && !sameVisual {
		v.emitCurrentItem()
	}
	v.releaseItem(old)
}

func (v *View) initializeCurrentItem() {
	if v.currentItem == nil {
		return
	}
	v.syncCurrentItem()
	if len(v.items) == 0 {
		v.averageSize = v.currentItem.Size()
	}
}

// syncCurrentItem positions the current item where its window item is, or where it would be
func (v *View) syncCurrentItem() {
	c := v.currentItem
	if c == nil {
		return
	}
	c.refreshSize()
	if item := v.visibleItem(v.currentIndex); item != nil {
		c.sectionSize = item.sectionSize
		c.moveTo(item.Position(), true)
		return
	}
	if v.sectionCriteria != nil {
		c.sectionSize = v.sectionSizeAt(v.currentIndex)
	}
	if v.currentIndex == v.visibleIndex-1 && len(v.items) > 0 {
		c.moveTo(v.items[0].Position()-c.Size()-v.spacing, true)
		return
	}
	c.moveTo(v.layoutStrategy.PositionAt(v, v.currentIndex), true)
}

// createHighlight rebuilds the highlight for the current item
func (v *View) createHighlight() {
	changed := false
	if v.highlight != nil {
		if v.trackedItem == v.highlight {
			v.trackedItem = nil
		}
		v.highlight = nil
		v.highlightAnim = highlightAnimation{}
		changed = true
	}
	if v.currentItem != nil && v.highlightFactory != nil {
		if visual := v.highlightFactory(); visual != nil {
			v.highlight = newViewItem(-1, visual, true)
			v.highlight.size = v.currentItem.ItemSize()
			v.highlight.pos = v.currentItem.ItemPosition()
			changed = true
		}
	}
	if changed && v.signals.HighlightItemChanged != nil {
		v.signals.HighlightItemChanged(v.highlight)
	}
}

// updateHighlight starts moving the highlight to the current item
func (v *View) updateHighlight() {
	v.applyPendingChanges()
	if (v.currentItem == nil && v.highlight != nil) || (v.currentItem != nil && v.highlight == nil && v.highlightFactory != nil) {
		v.createHighlight()
	}
	v.syncCurrentItem()
	if v.currentItem != nil && v.autoHighlight && v.highlight != nil {
		v.animateHighlightTo(v.currentItem.ItemPosition(), v.currentItem.ItemSize())
	}
	v.updateTrackedItem()
}

func (v *View) animateHighlightTo(pos, size float64) {
	h := v.highlight
	if v.highlightMoveDuration <= 0 {
		v.highlightAnim = highlightAnimation{}
		h.pos = pos
		h.size = size
		return
	}
	if v.highlightAnim.running && v.highlightAnim.toPos == pos && v.highlightAnim.toSize == size {
		return
	}
	if !v.highlightAnim.running && h.pos == pos && h.size == size {
		return
	}
	v.highlightAnim = highlightAnimation{
		running:  true,
		fromPos:  h.pos,
		toPos:    pos,
		fromSize: h.size,
		toSize:   size,
	}
}

// resetHighlightPosition jumps the highlight onto the current item
func (v *View) resetHighlightPosition() {
	if v.highlight == nil || v.currentItem == nil {
		return
	}
	v.syncCurrentItem()
	v.highlightAnim = highlightAnimation{}
	v.highlight.pos = v.currentItem.ItemPosition()
	v.highlight.size = v.currentItem.ItemSize()
}

func (v *View) advanceHighlight(dt time.Duration) bool {
	anim := &v.highlightAnim
	if !anim.running || v.highlight == nil {
		return false
	}
	anim.elapsed += dt
	if anim.elapsed >= v.highlightMoveDuration {
		v.highlight.pos = anim.toPos
		v.highlight.size = anim.toSize
		*anim = highlightAnimation{}
	} else {
		t := OutQuad(float64(anim.elapsed) / float64(v.highlightMoveDuration))
		v.highlight.pos = anim.fromPos + (anim.toPos-anim.fromPos)*t
		v.highlight.size = anim.fromSize + (anim.toSize-anim.fromSize)*t
	}
	v.trackedPositionChanged()
	return anim.running
}

func (v *View) updateTrackedItem() {
	item := v.currentItem
	if v.highlight != nil {
		item = v.highlight
	}
	v.trackedItem = item
	if item != nil {
		v.trackedPositionChanged()
	}
}

func (v *View) updateHaveHighlightRange() {
	v.haveHighlightRange = v.rangeMode != NoHighlightRange && v.rangeStart <= v.rangeEnd
}

// flowRange is the highlight range measured from the flow start edge of the viewport
func (v *View) flowRange() (float64, float64) {
	if v.reversed {
		size := v.viewport.Size()
		return size - v.rangeEnd, size - v.rangeStart
	}
	return v.rangeStart, v.rangeEnd
}

func (v *View) strictRange() bool {
	return v.haveHighlightRange && v.rangeMode == StrictlyEnforceRange
}

// trackedPositionChanged scrolls to keep the tracked item in the highlight range, or in view
// without a range, after the current index was set
func (v *View) trackedPositionChanged() {
	if v.trackedItem == nil || v.currentItem == nil || v.moveReason != moveSetIndex {
		return
	}
	trackedPos := v.trackedItem.Position()
	trackedSize := v.trackedItem.Size()
	size := v.viewport.Size()
	viewPos := v.flowPosition()
	pos := viewPos

	if v.haveHighlightRange {
		rangeStart, rangeEnd := v.flowRange()
		if trackedPos > pos+rangeEnd-trackedSize {
			pos = trackedPos - rangeEnd + trackedSize
		}
		if trackedPos < pos+rangeStart {
			pos = trackedPos - rangeStart
		}
		if v.rangeMode != StrictlyEnforceRange {
			lo, hi := v.flowExtents()
			pos = max(lo, min(pos, hi))
		}
	} else {
		if v.trackedItem != v.currentItem {
			// bring the section header into view too
			trackedPos -= v.currentItem.sectionSize
			trackedSize += v.currentItem.sectionSize
		}
		trackedEnd := v.trackedItem.EndPosition()
		toPos := v.currentItem.Position()
		toEnd := v.currentItem.EndPosition()
		if v.showHeaderForIndex(v.currentIndex) {
			offset := -v.contentStartOffset()
			trackedPos -= offset
			trackedEnd -= offset
			toPos -= offset
			toEnd -= offset
		} else if v.showFooterForIndex(v.currentIndex) {
			offset := v.footerSize() + v.flowEndMargin()
			trackedPos += offset
			trackedEnd += offset
			toPos += offset
			toEnd += offset
		}

		if trackedEnd >= viewPos+size && toEnd >= viewPos+size {
			if trackedEnd <= toEnd {
				pos = trackedEnd - size
				if trackedSize > size {
					pos = trackedPos
				}
			} else {
				pos = toEnd - size
				if v.currentItem.Size() > size {
					pos = v.currentItem.Position()
				}
			}
		}
		if trackedPos < pos && toPos < pos {
			pos = max(trackedPos, toPos)
		}
	}
	if pos != viewPos {
		v.setPosition(pos)
	}
}

func (v *View) showHeaderForIndex(index int) bool {
	return v.header != nil && index == 0
}

func (v *View) showFooterForIndex(index int) bool {
	return v.footer != nil && index == v.Count()-1
}

// ViewportMoved updates the window after the viewport position changed. Viewports built with
// NewScrollSurface call it themselves.
func (v *View) ViewportMoved() {
	if v.inViewportMoved || !v.complete {
		return
	}
	v.inViewportMoved = true
	defer func() { v.inViewportMoved = false }()

	delta := v.position() - v.lastViewportPos
	v.lastViewportPos = v.position()
	if v.reversed {
		delta = -delta
	}
	switch {
	case delta > velocityEpsilon:
		v.bufferMode = BufferAfter
	case delta < -velocityEpsilon:
		v.bufferMode = BufferBefore
	default:
		v.bufferMode = BufferBoth
	}

	v.refillOrLayout()
	v.updateCurrentSection()
	v.updateHeader()
	v.updateFooter()

	if v.strictRange() && v.moveReason == moveUser {
		rangeStart, rangeEnd := v.flowRange()
		viewPos := v.flowPosition()
		pos := viewPos + rangeStart
		if h := v.highlight; h != nil {
			pos = h.Position()
			if pos > viewPos+rangeEnd-h.Size() {
				pos = viewPos + rangeEnd - h.Size()
			}
			if pos < viewPos+rangeStart {
				pos = viewPos + rangeStart
			}
			if pos != h.Position() {
				v.highlightAnim = highlightAnimation{}
				h.pos = pos
			} else {
				v.updateHighlight()
			}
		}
		if snap := v.snapItemAt(pos); snap != nil && snap.index >= 0 && snap.index != v.currentIndex {
			v.updateCurrent(snap.index)
		}
	}
}

const velocityEpsilon = 1e-6

// ScrollBy scrolls the viewport by delta, clamped to the extents, as the user would. In strict
// highlight range mode this changes the current item.
func (v *View) ScrollBy(delta float64) {
	if delta == 0 {
		return
	}
	v.applyPendingChanges()
	v.moveReason = moveUser
	pos := max(v.MinExtent(), min(v.position()+delta, v.MaxExtent()))
	v.viewport.SetPosition(pos)
	v.fixupIfStill()
	v.moveReason = moveOther
}

// snapItemAt returns the item the viewport would snap to at pos
func (v *View) snapItemAt(pos float64) *ViewItem {
	var snap *ViewItem
	prevSize := 0.
	for _, item := range v.items {
		if item.index == -1 {
			continue
		}
		top := item.Position()
		if v.highlight != nil && top >= pos && item.EndPosition() <= pos+v.highlight.Size() {
			return item
		}
		if top+item.Size()/2 >= pos && top-prevSize/2 < pos {
			snap = item
		}
		prevSize = item.ItemSize()
	}
	return snap
}

// PositionViewAtIndex scrolls so index is placed according to mode
func (v *View) PositionViewAtIndex(index int, mode PositionMode) {
	v.positionViewAtIndex(index, mode, false)
}

// PositionViewAtBeginning scrolls to the start of the content, header included
func (v *View) PositionViewAtBeginning() {
	v.positionViewAtIndex(0, Beginning, true)
}

// PositionViewAtEnd scrolls to the end of the content, footer included
func (v *View) PositionViewAtEnd() {
	v.positionViewAtIndex(v.Count()-1, End, true)
}

func (v *View) positionViewAtIndex(index int, mode PositionMode, edge bool) {
	if !v.isValid() || mode < Beginning || mode > SnapPosition {
		return
	}
	v.applyPendingChanges()
	count := v.model.Count()
	idx := max(0, min(index, count-1))

	size := v.viewport.Size()
	pos := v.flowPosition()
	lo, hi := v.flowExtents()
	item := v.visibleItem(idx)
	if item == nil {
		itemPos := v.layoutStrategy.PositionAt(v, idx)
		old := v.items
		v.items = nil
		v.visibleIndex = idx
		v.visiblePos = itemPos
		v.setPosition(min(itemPos, hi))
		v.refill()
		for _, o := range old {
			v.releaseOrDefer(o)
		}
		item = v.visibleItem(idx)
	}
	if item == nil {
		v.fixupPosition()
		return
	}

	itemPos := item.Position()
	switch mode {
	case Beginning:
		pos = itemPos
		if edge && v.header != nil {
			pos -= v.headerSize()
		}
	case Center:
		pos = itemPos - (size-item.Size())/2
	case End:
		pos = itemPos - size + item.Size()
		if edge && v.footer != nil {
			pos += v.footerSize()
		}
	case Visible:
		if itemPos > pos+size {
			pos = item.EndPosition() - size
		} else if item.EndPosition() <= pos {
			pos = itemPos
		}
	case Contain:
		if item.EndPosition() >= pos+size {
			pos = itemPos - size + item.Size()
		}
		if itemPos < pos {
			pos = itemPos
		}
	case SnapPosition:
		rangeStart, _ := v.flowRange()
		pos = itemPos - rangeStart
	}
	lo, hi = v.flowExtents()
	pos = max(lo, min(pos, hi))
	v.moveReason = moveOther
	v.setPosition(pos)
	if v.highlight != nil {
		if v.autoHighlight {
			v.resetHighlightPosition()
		}
		v.updateHighlight()
	}
	v.fixupPosition()
}

// IndexAt returns the model index of the item displayed at offset from the viewport's top edge,
// or -1
func (v *View) IndexAt(offset float64) int {
	if item := v.ItemAt(offset); item != nil {
		return item.index
	}
	return -1
}

func (v *View) ItemAt(offset float64) *ViewItem {
	for _, item := range v.items {
		if item.index == -1 {
			continue
		}
		start := v.ScreenPosition(item)
		if offset >= start && offset < start+item.Size() {
			return item
		}
	}
	return nil
}
