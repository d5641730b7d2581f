package itemview

// Layout positions items along the scroll axis for one layout family. It reads and grows the
// view's window through the view it is given. Positions are in flow coordinates: for a reversed
// view they grow away from the end of the viewport.
type Layout interface {
	// OriginPosition is the estimated position of model index 0
	OriginPosition(v *View) float64

	// LastPosition is the estimated end of the last model item
	LastPosition(v *View) float64

	// PositionAt is the start of index, exact if it is materialized and estimated otherwise
	PositionAt(v *View, index int) float64

	// EndPositionAt is the end of index, exact if it is materialized and estimated otherwise
	EndPositionAt(v *View, index int) float64

	// AddVisibleItems materializes items until [fillFrom, fillTo] is covered, returning true if
	// the window changed. With buffering set, items are created asynchronously where the model
	// allows it.
	AddVisibleItems(v *View, fillFrom, fillTo float64, buffering bool) bool

	// RemoveNonVisibleItems releases items entirely outside [bufferFrom, bufferTo], always
	// keeping at least one, returning true if the window changed
	RemoveNonVisibleItems(v *View, bufferFrom, bufferTo float64) bool

	// LayoutVisibleItems positions the window items after the first, contiguously, starting from
	// the first item with index >= fromIndex
	LayoutVisibleItems(v *View, fromIndex int)
}
