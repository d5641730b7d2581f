package itemview

import "github.com/robinovitch61/itemview/internal/dev"

// LinearLayout lays items out one after another along the scroll axis, separated by the view's
// spacing
type LinearLayout struct{}

// type assertion that LinearLayout implements Layout
var _ Layout = LinearLayout{}

func (LinearLayout) OriginPosition(v *View) float64 {
	if len(v.items) == 0 {
		return 0
	}
	pos := v.items[0].Position()
	if v.visibleIndex > 0 {
		pos -= float64(v.visibleIndex) * v.stride()
	}
	return pos
}

func (LinearLayout) LastPosition(v *View) float64 {
	count := v.modelCount()
	if len(v.items) == 0 {
		if count == 0 {
			return 0
		}
		return float64(count)*v.averageSize + float64(count-1)*v.spacing
	}

	invisibleCount := -1
	delayRemoved := 0
	for i := len(v.items) - 1; i >= 0; i-- {
		item := v.items[i]
		if item.index != -1 {
			invisibleCount = count - (item.index + 1 + delayRemoved)
			break
		} else if item.attached != nil && item.attached.delayRemove {
			delayRemoved++
		}
	}
	if invisibleCount == -1 {
		// every window item waits for removal
		invisibleCount = count
	}
	pos := v.items[len(v.items)-1].EndPosition()
	if invisibleCount > 0 {
		pos += float64(invisibleCount) * v.stride()
	}
	return pos
}

func (LinearLayout) PositionAt(v *View, index int) float64 {
	if item := v.visibleItem(index); item != nil {
		return item.Position()
	}
	if len(v.items) == 0 {
		return v.visiblePos + float64(index-v.visibleIndex)*v.stride()
	}
	if index < v.visibleIndex {
		count := v.visibleIndex - index
		cs := 0.
		if index == v.currentIndex && v.currentItem != nil {
			cs = v.currentItem.Size() + v.spacing
			count--
		}
		return v.items[0].Position() - float64(count)*v.stride() - cs
	}
	count := index - v.lastVisibleIndex(v.visibleIndex) - 1
	return v.items[len(v.items)-1].EndPosition() + v.spacing + float64(count)*v.stride()
}

func (l LinearLayout) EndPositionAt(v *View, index int) float64 {
	if item := v.visibleItem(index); item != nil {
		return item.EndPosition()
	}
	size := v.averageSize
	if index == v.currentIndex && v.currentItem != nil {
		size = v.currentItem.Size()
	}
	return l.PositionAt(v, index) + size
}

func (LinearLayout) AddVisibleItems(v *View, fillFrom, fillTo float64, buffering bool) bool {
	count := v.modelCount()
	itemEnd := v.visiblePos
	if len(v.items) > 0 {
		v.visiblePos = v.items[0].Position()
		itemEnd = v.items[len(v.items)-1].EndPosition() + v.spacing
	}
	modelIndex := v.lastVisibleIndex(-1)
	haveValidItems := modelIndex >= 0
	if haveValidItems {
		modelIndex++
	} else {
		modelIndex = v.visibleIndex
	}

	stride := v.stride()
	if haveValidItems && stride > 0 && (fillFrom > itemEnd+stride || fillTo < v.visiblePos-stride) {
		// jumped more than an item past the window: estimate which items are now visible and
		// rebuild the window from there
		jump := int((fillFrom - itemEnd) / stride)
		newModelIndex := max(0, min(modelIndex+jump, count))
		jump = newModelIndex - modelIndex
		if jump != 0 {
			dev.Debug("itemview: window jump", "from", modelIndex, "to", newModelIndex)
			for _, item := range v.items {
				v.releaseOrDefer(item)
			}
			v.items = nil
			modelIndex = newModelIndex
			v.visibleIndex = modelIndex
			v.visiblePos = itemEnd + float64(jump)*stride
			itemEnd = v.visiblePos
		}
	}

	changed := false
	pos := itemEnd
	for modelIndex < count && pos <= fillTo {
		item := v.createItem(modelIndex, buffering)
		if item == nil {
			break
		}
		item.moveTo(pos, true)
		pos += item.Size() + v.spacing
		v.items = append(v.items, item)
		modelIndex++
		changed = true
	}

	if buffering && v.requestedIndex != -1 {
		// already waiting for an item
		return changed
	}

	for v.visibleIndex > 0 && v.visibleIndex <= count && v.visiblePos > fillFrom {
		item := v.createItem(v.visibleIndex-1, buffering)
		if item == nil {
			break
		}
		v.visibleIndex--
		v.visiblePos -= item.Size() + v.spacing
		item.moveTo(v.visiblePos, true)
		v.items = append([]*ViewItem{item}, v.items...)
		changed = true
	}
	return changed
}

func (LinearLayout) RemoveNonVisibleItems(v *View, bufferFrom, bufferTo float64) bool {
	changed := false

	// zero sized items are only removed along with a non-zero sized item after them, otherwise
	// refill would add and remove them forever
	index := 0
	for len(v.items) > 1 && index < len(v.items) {
		item := v.items[index]
		if item.EndPosition() >= bufferFrom || item.IsPendingRemoval() {
			break
		}
		if item.Size() <= 0 {
			index++
			continue
		}
		for {
			if item.index != -1 {
				v.visibleIndex++
			}
			v.items = append(v.items[:index], v.items[index+1:]...)
			v.releaseOrDefer(item)
			if index == 0 {
				break
			}
			index--
			item = v.items[index]
		}
		changed = true
	}

	for len(v.items) > 1 {
		item := v.items[len(v.items)-1]
		if item.Position() <= bufferTo || item.IsPendingRemoval() {
			break
		}
		v.items = v.items[:len(v.items)-1]
		v.releaseOrDefer(item)
		changed = true
	}
	return changed
}

func (LinearLayout) LayoutVisibleItems(v *View, fromIndex int) {
	if len(v.items) == 0 {
		return
	}
	first := v.items[0]
	pos := first.EndPosition() + v.spacing
	for _, item := range v.items[1:] {
		if item.index >= fromIndex {
			item.setPosition(pos)
		}
		pos += item.Size() + v.spacing
	}
}
