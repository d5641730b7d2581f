package itemview

func (v *View) markExtentsDirty() {
	v.extentsDirty = true
}

func (v *View) headerSize() float64 {
	if v.header == nil {
		return 0
	}
	return v.header.Size()
}

func (v *View) footerSize() float64 {
	if v.footer == nil {
		return 0
	}
	return v.footer.Size()
}

// flowStartMargin is the margin before index 0, which is the end margin of a reversed view
func (v *View) flowStartMargin() float64 {
	if v.reversed {
		return v.endMargin
	}
	return v.startMargin
}

func (v *View) flowEndMargin() float64 {
	if v.reversed {
		return v.startMargin
	}
	return v.endMargin
}

// contentStartOffset is the flow position of the start of the content when index 0 is at 0
func (v *View) contentStartOffset() float64 {
	return -v.headerSize() - v.flowStartMargin()
}

func (v *View) originPosition() float64 {
	return v.layoutStrategy.OriginPosition(v)
}

func (v *View) endPosition() float64 {
	return v.layoutStrategy.LastPosition(v)
}

// flowExtents is the range of flow positions the viewport start may take
func (v *View) flowExtents() (float64, float64) {
	if v.extentsDirty {
		v.computeExtents()
	}
	if v.reversed {
		size := v.viewport.Size()
		return -v.maxExtent - size, -v.minExtent - size
	}
	return v.minExtent, v.maxExtent
}

func (v *View) computeExtents() {
	v.extentsDirty = false
	size := v.viewport.Size()
	count := v.Count()
	origin := v.originPosition()
	end := v.endPosition()

	lo := origin - v.flowStartMargin() - v.headerSize()
	var hi float64
	if v.strictRange() && count > 0 {
		rangeStart, rangeEnd := v.flowRange()
		firstSection := 0.
		if first := v.visibleItem(0); first != nil {
			firstSection = first.sectionSize
		}
		lo = min(lo-rangeStart+firstSection, v.layoutStrategy.EndPositionAt(v, 0)-rangeEnd)
		hi = v.layoutStrategy.PositionAt(v, count-1) - rangeStart
		if rangeEnd != rangeStart {
			hi = max(hi, end-rangeEnd)
		}
	} else {
		hi = end - size
	}
	hi += v.footerSize() + v.flowEndMargin()
	if count == 0 {
		hi = lo
	}
	hi = max(hi, lo)

	if v.reversed {
		v.minExtent, v.maxExtent = -hi-size, -lo-size
	} else {
		v.minExtent, v.maxExtent = lo, hi
	}
	v.contentSize = end - origin + v.headerSize() + v.footerSize()
}

// MinExtent is the smallest viewport position that keeps content in view
func (v *View) MinExtent() float64 {
	if v.extentsDirty {
		v.computeExtents()
	}
	return v.minExtent
}

// MaxExtent is the largest viewport position that keeps content in view
func (v *View) MaxExtent() float64 {
	if v.extentsDirty {
		v.computeExtents()
	}
	return v.maxExtent
}

// updateHeader places the header before index 0
func (v *View) updateHeader() {
	if v.headerVisual == nil {
		v.header = nil
		return
	}
	if v.header == nil {
		v.header = newViewItem(-1, v.headerVisual, true)
		v.markExtentsDirty()
	} else if v.header.refreshSize() {
		v.markExtentsDirty()
	}
	switch {
	case len(v.items) > 0 && v.visibleIndex == 0 && v.items[0].index == 0:
		v.header.moveTo(v.items[0].Position()-v.header.Size(), true)
	case len(v.items) > 0 || v.Count() > 0:
		v.header.moveTo(v.originPosition()-v.header.Size(), true)
	default:
		v.header.moveTo(-v.header.Size(), true)
	}
}

// updateFooter places the footer after the last model item
func (v *View) updateFooter() {
	if v.footerVisual == nil {
		v.footer = nil
		return
	}
	if v.footer == nil {
		v.footer = newViewItem(-1, v.footerVisual, true)
		v.markExtentsDirty()
	} else if v.footer.refreshSize() {
		v.markExtentsDirty()
	}
	if len(v.items) == 0 && v.Count() == 0 {
		v.footer.moveTo(0, true)
		return
	}
	v.footer.moveTo(v.endPosition(), true)
}

func (v *View) updateViewport() {
	v.markExtentsDirty()
	v.computeExtents()
}

// fixupPosition brings the viewport back within its extents, and in strict highlight range mode
// moves it so the current item is within the range
func (v *View) fixupPosition() {
	if v.strictRange() {
		v.moveReason = moveOther
	}
	viewPos := v.flowPosition()
	pos := viewPos
	if v.strictRange() && v.currentItem != nil {
		v.updateHighlight()
		rangeStart, rangeEnd := v.flowRange()
		itemPos := v.currentItem.ItemPosition()
		if pos < itemPos+v.currentItem.ItemSize()-rangeEnd {
			pos = itemPos + v.currentItem.ItemSize() - rangeEnd
		}
		if pos > itemPos-rangeStart {
			pos = itemPos - rangeStart
		}
	}
	lo, hi := v.flowExtents()
	pos = max(lo, min(pos, hi))
	if pos != viewPos {
		v.setPosition(pos)
	}
}

func (v *View) fixupIfStill() {
	if v.complete && !v.viewport.Moving() {
		v.fixupPosition()
	}
}
