package itemview

import "time"

// HighlightRangeMode controls how the current item is kept within the preferred highlight range
type HighlightRangeMode int

const (
	// NoHighlightRange ignores the range
	NoHighlightRange HighlightRangeMode = iota

	// ApplyRange moves the viewport to bring the current item into range when the current index
	// changes, but lets the user scroll it out of range
	ApplyRange

	// StrictlyEnforceRange never lets the current item leave the range. Scrolling the viewport
	// changes the current item instead.
	StrictlyEnforceRange
)

func (m HighlightRangeMode) String() string {
	switch m {
	case ApplyRange:
		return "apply"
	case StrictlyEnforceRange:
		return "strict"
	}
	return "none"
}

// BufferMode selects which side of the viewport is buffered
type BufferMode int

const (
	NoBuffer     BufferMode = 0
	BufferBefore BufferMode = 1 << 0
	BufferAfter  BufferMode = 1 << 1
	BufferBoth              = BufferBefore | BufferAfter
)

// PositionMode is where PositionViewAtIndex places the item
type PositionMode int

const (
	Beginning PositionMode = iota
	Center
	End
	Visible
	Contain
	SnapPosition
)

// Signals are the view's notifications. Nil callbacks are skipped.
type Signals struct {
	CountChanged          func(count int)
	CurrentIndexChanged   func(index int)
	CurrentItemChanged    func(item *ViewItem)
	HighlightItemChanged  func(item *ViewItem)
	CurrentSectionChanged func(section string)
}

type Option func(*View)

func WithLayout(l Layout) Option {
	return func(v *View) {
		v.layoutStrategy = l
	}
}

// WithCacheBuffer sets how far beyond each edge of the viewport items stay materialized
func WithCacheBuffer(buffer float64) Option {
	return func(v *View) {
		v.buffer = max(0, buffer)
	}
}

func WithSpacing(spacing float64) Option {
	return func(v *View) {
		v.spacing = spacing
	}
}

func WithMargins(start, end float64) Option {
	return func(v *View) {
		v.startMargin = start
		v.endMargin = end
	}
}

// WithHighlightRange sets the preferred range of the viewport the current item is kept in. A
// start past the end disables the range.
func WithHighlightRange(mode HighlightRangeMode, start, end float64) Option {
	return func(v *View) {
		v.rangeMode = mode
		v.rangeStart = start
		v.rangeEnd = end
		v.updateHaveHighlightRange()
	}
}

// WithHighlight sets the factory for the highlight visual that follows the current item
func WithHighlight(factory func() Visual) Option {
	return func(v *View) {
		v.highlightFactory = factory
	}
}

func WithHighlightFollowsCurrentItem(follow bool) Option {
	return func(v *View) {
		v.autoHighlight = follow
	}
}

func WithHighlightMoveDuration(d time.Duration) Option {
	return func(v *View) {
		v.highlightMoveDuration = d
	}
}

func WithHeader(visual Visual) Option {
	return func(v *View) {
		v.headerVisual = visual
	}
}

func WithFooter(visual Visual) Option {
	return func(v *View) {
		v.footerVisual = visual
	}
}

func WithTransitions(t *Transitions) Option {
	return func(v *View) {
		v.transitions = t
	}
}

// WithReversedFlow lays index 0 out at the end of the viewport, growing towards its start
func WithReversedFlow() Option {
	return func(v *View) {
		v.reversed = true
	}
}

func WithKeyNavigationWraps() Option {
	return func(v *View) {
		v.wraps = true
	}
}

// WithSections groups consecutive items with the same criteria result under a section header of
// headerSize drawn before the first item of each group
func WithSections(criteria func(index int) string, headerSize float64) Option {
	return func(v *View) {
		v.sectionCriteria = criteria
		v.sectionHeaderSize = headerSize
	}
}

func WithSignals(s Signals) Option {
	return func(v *View) {
		v.signals = s
	}
}

// WithCurrentIndex sets the current index to use once the view is complete. -1 starts without a
// current item.
func WithCurrentIndex(index int) Option {
	return func(v *View) {
		v.currentIndex = index
		v.currentIndexCleared = index == -1
	}
}
