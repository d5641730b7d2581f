package itemview

import "fmt"

// Visual is the rendered delegate for one model element. Visuals are compared by identity, so
// implementations should be pointer types.
type Visual interface {
	// Size is the extent of the visual along the scroll axis
	Size() float64
}

// ViewItem pairs a model index with the visual bound to it and tracks where that visual is laid
// out along the scroll axis
type ViewItem struct {
	// index is the model index, or -1 while the item waits to be removed
	index int

	visual     Visual
	ownsVisual bool

	// pos is the displayed start position, including any section header. During a transition
	// it is the interpolated position.
	pos float64

	// size is the visual's size as last read from the visual
	size float64

	// sectionSize is the size of the section header drawn before the visual, or 0
	sectionSize float64

	attached *Attached

	trans itemTransition

	// releaseAfterTransition marks an item that left the window and is released once its
	// running transition finishes
	releaseAfterTransition bool
}

func newViewItem(index int, visual Visual, ownsVisual bool) *ViewItem {
	item := &ViewItem{
		index:      index,
		visual:     visual,
		ownsVisual: ownsVisual,
	}
	item.refreshSize()
	return item
}

func (i *ViewItem) Index() int {
	return i.index
}

func (i *ViewItem) Visual() Visual {
	return i.visual
}

func (i *ViewItem) OwnsVisual() bool {
	return i.ownsVisual
}

// Attached returns the per item metadata shared with the visual, or nil for header, footer and
// highlight items
func (i *ViewItem) Attached() *Attached {
	return i.attached
}

// Position is the laid out start of the item, section header included. While a transition is
// scheduled or running this is the destination rather than the displayed position.
func (i *ViewItem) Position() float64 {
	if i.trans.nextToSet {
		return i.trans.nextTo
	}
	if i.trans.phase == Running {
		return i.trans.to
	}
	return i.pos
}

// DisplayPosition is where the item currently is on screen, which differs from Position while
// the item transitions
func (i *ViewItem) DisplayPosition() float64 {
	return i.pos
}

// ItemPosition is the start of the visual itself, after its section header
func (i *ViewItem) ItemPosition() float64 {
	return i.Position() + i.sectionSize
}

// Size includes the section header
func (i *ViewItem) Size() float64 {
	return i.size + i.sectionSize
}

// ItemSize excludes the section header
func (i *ViewItem) ItemSize() float64 {
	return i.size
}

func (i *ViewItem) SectionSize() float64 {
	return i.sectionSize
}

func (i *ViewItem) EndPosition() float64 {
	return i.Position() + i.Size()
}

// IsPendingRemoval is true for a removed item that is still shown, either because its visual
// asked for a delayed removal or because it runs a remove transition
func (i *ViewItem) IsPendingRemoval() bool {
	if i.trans.typ == RemoveTransition && i.trans.isTarget && i.trans.phase != Idle {
		return true
	}
	return i.attached != nil && i.attached.isPendingRemoval()
}

// setPosition moves the item, deferring to the transition destination when one is scheduled or
// running
func (i *ViewItem) setPosition(pos float64) {
	i.moveTo(pos, false)
}

func (i *ViewItem) moveTo(pos float64, immediate bool) {
	if !immediate && i.trans.phase != Idle {
		i.trans.nextTo = pos
		i.trans.nextToSet = true
		return
	}
	if immediate {
		i.trans.stop()
	}
	i.pos = pos
}

func (i *ViewItem) refreshSize() bool {
	if i.visual == nil {
		return false
	}
	s := max(0, i.visual.Size())
	if s == i.size {
		return false
	}
	i.size = s
	return true
}

// containsPosition is true if pos falls within the item, end exclusive
func (i *ViewItem) containsPosition(pos float64) bool {
	return pos >= i.Position() && pos < i.EndPosition()
}

func (i *ViewItem) String() string {
	return fmt.Sprintf("item(%d @ %.1f+%.1f)", i.index, i.Position(), i.Size())
}
