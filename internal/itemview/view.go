package itemview

import (
	"fmt"
	"time"

	"github.com/robinovitch61/itemview/internal/dev"
)

type moveReason int

const (
	moveOther moveReason = iota
	moveSetIndex
	moveUser
)

// View materializes the items of an Adapter that fall within a Viewport plus a cache buffer,
// applies model changes to the materialized window incrementally, tracks the current item and
// computes the scroll extents. It is driven from a single goroutine: model notifications and
// viewport movement mark it dirty, and UpdatePolish does the deferred work once per frame.
type View struct {
	model          Adapter
	viewport       Viewport
	layoutStrategy Layout
	signals        Signals
	transitions    *Transitions

	// items is the window: materialized items in index order, possibly with removed (-1)
	// items inline
	items []*ViewItem

	// visibleIndex is the model index of the first non-removed window item
	visibleIndex int

	// visiblePos is where the window starts, kept while the window is empty
	visiblePos float64

	averageSize float64
	itemCount   int
	buffer      float64
	bufferMode  BufferMode
	spacing     float64
	startMargin float64
	endMargin   float64
	reversed    bool
	wraps       bool

	// requestedIndex is the index of the single outstanding asynchronous creation, or -1
	requestedIndex int
	requestedAsync bool
	inRequest      bool

	// unrequested tracks visuals the model created or kept alive that the view does not hold
	unrequested map[Visual]int

	releasePendingTransition []*ViewItem

	// attached holds the metadata of every visual held by a window or current item
	attached map[Visual]*Attached

	changes  *ChangeAccumulator
	buffered *ChangeAccumulator

	complete          bool
	inLayout          bool
	disableLayout     bool
	forceLayout       bool
	polishScheduled   bool
	runDelayedRemove  bool
	inViewportMoved   bool
	populating        bool
	lastViewportPos   float64
	moveReason        moveReason
	extentsDirty      bool
	minExtent         float64
	maxExtent         float64
	contentSize       float64
	sectionCriteria   func(index int) string
	sectionHeaderSize float64
	currentSection    string

	currentIndex        int
	currentIndexCleared bool
	currentItem         *ViewItem
	trackedItem         *ViewItem

	highlight             *ViewItem
	highlightFactory      func() Visual
	autoHighlight         bool
	highlightMoveDuration time.Duration
	highlightAnim         highlightAnimation
	rangeMode             HighlightRangeMode
	rangeStart            float64
	rangeEnd              float64
	haveHighlightRange    bool

	headerVisual Visual
	footerVisual Visual
	header       *ViewItem
	footer       *ViewItem
}

// New creates a view over model positioned by viewport and completes it: the initial window is
// materialized and the current item created
func New(model Adapter, viewport Viewport, opts ...Option) *View {
	v := &View{
		viewport:       viewport,
		layoutStrategy: LinearLayout{},
		requestedIndex: -1,
		currentIndex:   -1,
		bufferMode:     BufferBoth,
		autoHighlight:  true,
		unrequested:    make(map[Visual]int),
		attached:       make(map[Visual]*Attached),
		changes:        NewChangeAccumulator(),
		buffered:       NewChangeAccumulator(),
		extentsDirty:   true,
	}
	for _, opt := range opts {
		opt(v)
	}
	viewport.Observe(v.ViewportMoved, v.viewportResized)
	v.setModel(model)
	v.componentComplete()
	return v
}

func (v *View) componentComplete() {
	v.complete = true
	v.updateHeader()
	v.updateFooter()
	v.updateViewport()
	v.setPosition(v.contentStartOffset())
	v.populating = v.transitions.CanTransition(PopulateTransition, true)
	if v.isValid() {
		v.refill()
		v.moveReason = moveSetIndex
		if v.currentIndex < 0 && !v.currentIndexCleared {
			v.updateCurrent(0)
		} else {
			v.updateCurrent(v.currentIndex)
		}
		if v.highlight != nil && v.currentItem != nil {
			if v.autoHighlight {
				v.resetHighlightPosition()
			}
			v.updateTrackedItem()
		}
		v.moveReason = moveOther
		v.fixupPosition()
	}
	if v.model != nil && v.model.Count() > 0 {
		v.emitCountChanged()
	}
	if v.populating {
		v.forceLayoutPolish()
	}
}

// SetModel replaces the adapter, rebuilding the window and resetting the current index
func (v *View) SetModel(model Adapter) {
	if model == v.model {
		return
	}
	v.setModel(model)
	if !v.complete {
		return
	}
	v.refill()
	v.currentIndex = -1
	v.moveReason = moveSetIndex
	if v.model != nil && v.model.Count() > 0 {
		v.updateCurrent(0)
	} else {
		v.updateCurrent(-1)
	}
	v.moveReason = moveOther
	v.updateViewport()
	if v.transitions.CanTransition(PopulateTransition, true) {
		v.populating = true
		v.forceLayoutPolish()
	}
	v.emitCountChanged()
}

func (v *View) setModel(model Adapter) {
	if v.model != nil {
		v.model.SetObserver(Observer{})
		v.clear()
	}
	v.model = model
	if model == nil {
		return
	}
	model.SetObserver(Observer{
		OnCountChanged:   v.modelCountChanged,
		OnModelUpdated:   v.modelUpdated,
		OnCreatedItem:    v.createdItem,
		OnDestroyingItem: v.destroyingItem,
	})
}

func (v *View) Model() Adapter {
	return v.model
}

func (v *View) isValid() bool {
	return v.model != nil && v.model.IsValid() && v.model.Count() > 0
}

// Count is the number of model items the view knows about
func (v *View) Count() int {
	if v.model == nil {
		return 0
	}
	return v.model.Count()
}

// VisibleItems returns the window in index order. Removed items waiting for their exit appear with
// index -1. The slice must not be modified.
func (v *View) VisibleItems() []*ViewItem {
	return v.items
}

// VisibleIndex is the model index of the first item in the window
func (v *View) VisibleIndex() int {
	return v.visibleIndex
}

// ReleasePendingItems returns items that left the window and finish a transition before release
func (v *View) ReleasePendingItems() []*ViewItem {
	return v.releasePendingTransition
}

func (v *View) HeaderItem() *ViewItem {
	return v.header
}

func (v *View) FooterItem() *ViewItem {
	return v.footer
}

func (v *View) IsReversed() bool {
	return v.reversed
}

func (v *View) Spacing() float64 {
	return v.spacing
}

func (v *View) CacheBuffer() float64 {
	return v.buffer
}

func (v *View) SetCacheBuffer(buffer float64) {
	buffer = max(0, buffer)
	if buffer == v.buffer {
		return
	}
	v.buffer = buffer
	if v.complete {
		v.refill()
	}
}

func (v *View) SetSpacing(spacing float64) {
	if spacing == v.spacing {
		return
	}
	v.spacing = spacing
	v.forceLayoutPolish()
}

// SetHeader replaces the header visual, nil removes it
func (v *View) SetHeader(visual Visual) {
	v.headerVisual = visual
	v.header = nil
	v.updateHeader()
	v.markExtentsDirty()
	v.updateViewport()
	v.fixupIfStill()
}

// SetFooter replaces the footer visual, nil removes it
func (v *View) SetFooter(visual Visual) {
	v.footerVisual = visual
	v.footer = nil
	v.updateFooter()
	v.markExtentsDirty()
	v.updateViewport()
	v.fixupIfStill()
}

// ContentSize is the total estimated size of the content, header and footer included
func (v *View) ContentSize() float64 {
	if v.extentsDirty {
		v.computeExtents()
	}
	return v.contentSize
}

// CurrentSection is the section of the first item in the viewport
func (v *View) CurrentSection() string {
	return v.currentSection
}

// NeedsPolish is true when UpdatePolish has deferred work to do
func (v *View) NeedsPolish() bool {
	return v.polishScheduled
}

// UpdatePolish applies pending model changes and layout. Hosts call it once per frame.
func (v *View) UpdatePolish() {
	if !v.polishScheduled {
		return
	}
	v.polishScheduled = false
	v.layout()
}

func (v *View) polish() {
	v.polishScheduled = true
}

func (v *View) forceLayoutPolish() {
	v.forceLayout = true
	v.polish()
}

func (v *View) scheduleDestroyRemoved() {
	v.runDelayedRemove = true
	v.forceLayoutPolish()
}

func (v *View) applyPendingChanges() {
	if v.complete && !v.disableLayout && !v.inLayout && v.changes.HasPendingChanges() {
		v.layout()
	}
}

func (v *View) layout() {
	if v.inLayout {
		return
	}
	v.inLayout = true
	defer func() {
		v.inLayout = false
		v.flushBufferedChanges()
	}()

	if !v.isValid() && len(v.items) == 0 {
		v.clear()
		v.setPosition(v.contentStartOffset())
		v.populating = false
		v.updateHeader()
		v.updateFooter()
		v.updateViewport()
		return
	}

	if v.runDelayedRemove {
		v.destroyRemoved()
	}

	if !v.applyModelChanges() && !v.forceLayout {
		return
	}
	v.forceLayout = false

	if v.populating {
		v.refill()
		for _, item := range v.items {
			if !item.transitionScheduledOrRunning() {
				item.transitionNextReposition(v.transitions, PopulateTransition, true)
			}
		}
	}

	v.updateSections()
	v.layoutVisibleItems(0)
	v.refill()
	v.markExtentsDirty()
	v.updateHighlight()

	if !v.viewport.Moving() {
		v.fixupPosition()
		v.refill()
	}

	v.updateHeader()
	v.updateFooter()
	v.updateViewport()

	v.prepareTransitions()

	if v.currentItem == nil {
		v.updateCurrent(v.currentIndex)
	}
	v.populating = false
	v.runDelayedRemove = false
}

// flushBufferedChanges moves notifications that arrived during layout into the pending batch
func (v *View) flushBufferedChanges() {
	if !v.buffered.HasPendingChanges() {
		return
	}
	pending := v.buffered.Pending()
	v.buffered.Reset()
	v.changes.Prepare(v.currentIndex, v.itemCount)
	for _, cs := range pending {
		v.changes.ApplyChanges(cs)
	}
	v.polish()
}

func (v *View) modelUpdated(cs ChangeSet, reset bool) {
	if reset {
		dev.Debug("itemview: model reset")
		v.populating = v.transitions.CanTransition(PopulateTransition, true)
		v.moveReason = moveSetIndex
		// the adapter drops requests for the elements it replaced
		v.requestedIndex = -1
		v.regenerate()
		if v.highlight != nil && v.currentItem != nil {
			if v.autoHighlight {
				v.resetHighlightPosition()
			}
			v.updateTrackedItem()
		}
		v.moveReason = moveOther
		v.emitCountChanged()
		if v.populating {
			v.forceLayoutPolish()
		}
		return
	}
	v.followRequest(cs)
	if v.inLayout {
		v.buffered.Prepare(v.currentIndex, v.itemCount)
		v.buffered.ApplyChanges(cs)
		return
	}
	v.changes.Prepare(v.currentIndex, v.itemCount)
	v.changes.ApplyChanges(cs)
	v.polish()
}

func (v *View) modelCountChanged() {
	if v.model != nil && v.model.Count() != v.itemCount && !v.changes.HasPendingChanges() {
		v.polish()
	}
}

// regenerate rebuilds the window from the start of a replaced model, with the first element current
func (v *View) regenerate() {
	if !v.complete {
		return
	}
	v.clear()
	v.updateHeader()
	v.updateFooter()
	v.updateViewport()
	v.setPosition(v.contentStartOffset())
	v.refill()
	current := -1
	if v.isValid() {
		current = 0
	}
	v.updateCurrent(current)
}

// clear releases every item the view holds
func (v *View) clear() {
	v.changes.Reset()
	v.buffered.Reset()
	for _, item := range v.items {
		v.releaseItem(item)
	}
	v.items = nil
	v.visibleIndex = 0
	v.visiblePos = 0
	for _, item := range v.releasePendingTransition {
		item.releaseAfterTransition = false
		v.releaseItem(item)
	}
	v.releasePendingTransition = nil
	v.releaseItem(v.currentItem)
	v.currentItem = nil
	v.createHighlight()
	v.trackedItem = nil
	v.cancelRequest()
	v.markExtentsDirty()
	v.itemCount = 0
}

func (v *View) emitCountChanged() {
	if v.signals.CountChanged != nil {
		v.signals.CountChanged(v.Count())
	}
}

// Advance moves running transitions and the highlight forward by dt, returning true while
// anything is still animating
func (v *View) Advance(dt time.Duration) bool {
	animating := false
	for _, item := range v.items {
		if item.trans.phase == Running {
			item.advanceTransition(dt)
			animating = animating || item.trans.phase == Running
		}
	}
	var stillPending []*ViewItem
	for _, item := range v.releasePendingTransition {
		if item.trans.phase == Running {
			item.advanceTransition(dt)
		}
		if item.trans.phase == Idle && item.releaseAfterTransition {
			item.releaseAfterTransition = false
			v.releaseItem(item)
			continue
		}
		animating = animating || item.trans.phase == Running
		stillPending = append(stillPending, item)
	}
	v.releasePendingTransition = stillPending
	if v.advanceHighlight(dt) {
		animating = true
	}
	return animating
}

// IsAnimating is true while a transition or the highlight animation runs
func (v *View) IsAnimating() bool {
	for _, item := range v.items {
		if item.transitionScheduledOrRunning() {
			return true
		}
	}
	return len(v.releasePendingTransition) > 0 || v.highlightAnim.running
}

func (v *View) prepareTransitions() {
	if v.transitions == nil {
		return
	}
	viewFrom := v.flowPosition() - v.buffer
	viewTo := v.flowPosition() + v.viewport.Size() + v.buffer
	for _, item := range v.items {
		item.retarget()
		item.prepareTransition(viewFrom, viewTo)
	}
	var keep []*ViewItem
	for _, item := range v.releasePendingTransition {
		if item.trans.phase == Scheduled && !item.prepareTransition(viewFrom, viewTo) {
			item.releaseAfterTransition = false
			v.releaseItem(item)
			continue
		}
		keep = append(keep, item)
	}
	v.releasePendingTransition = keep
	for _, item := range v.items {
		item.startTransition(v.transitions)
	}
	for _, item := range v.releasePendingTransition {
		item.startTransition(v.transitions)
	}
}

// position is the raw viewport position
func (v *View) position() float64 {
	return v.viewport.Position()
}

// flowPosition is the viewport start in flow coordinates
func (v *View) flowPosition() float64 {
	if v.reversed {
		return -v.viewport.Position() - v.viewport.Size()
	}
	return v.viewport.Position()
}

// setPosition moves the viewport so its start is at pos in flow coordinates
func (v *View) setPosition(pos float64) {
	if v.reversed {
		v.viewport.SetPosition(-pos - v.viewport.Size())
		return
	}
	v.viewport.SetPosition(pos)
}

// ScreenPosition is where item is currently displayed relative to the viewport's top edge
func (v *View) ScreenPosition(item *ViewItem) float64 {
	if v.reversed {
		return -item.DisplayPosition() - item.Size() - v.viewport.Position()
	}
	return item.DisplayPosition() - v.viewport.Position()
}

func (v *View) String() string {
	return fmt.Sprintf("View(count=%d window=%d@%d current=%d pos=%.1f)",
		v.itemCount, len(v.items), v.visibleIndex, v.currentIndex, v.position())
}
