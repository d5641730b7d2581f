package itemview

import "errors"

var (
	// ErrPending is returned by Adapter.Item when the visual is being created asynchronously.
	// The adapter reports completion through Observer.OnCreatedItem.
	ErrPending = errors.New("item creation pending")

	// ErrInvalidIndex is returned by Adapter.Item for an index outside the model
	ErrInvalidIndex = errors.New("invalid model index")
)

// ReleaseResult is the adapter's answer to releasing a visual
type ReleaseResult int

const (
	// Destroyed means the adapter destroyed the visual
	Destroyed ReleaseResult = iota

	// StillReferenced means something other than the view still uses the visual
	StillReferenced

	// Unreferenced means the visual is alive but nothing references it. The view hides it and
	// keeps track of it until the adapter hands it out again or destroys it.
	Unreferenced
)

func (r ReleaseResult) String() string {
	switch r {
	case Destroyed:
		return "destroyed"
	case StillReferenced:
		return "still referenced"
	case Unreferenced:
		return "unreferenced"
	}
	return "unknown"
}

// Observer receives the model's notifications. Callbacks fire synchronously from the call that
// caused them.
type Observer struct {
	OnCountChanged   func()
	OnModelUpdated   func(cs ChangeSet, reset bool)
	OnCreatedItem    func(index int, visual Visual)
	OnDestroyingItem func(visual Visual)
}

// Adapter is the data model the view materializes visuals from
type Adapter interface {
	Count() int

	// IsValid is false when the adapter cannot produce visuals at all
	IsValid() bool

	// Item returns the visual for index, creating it if needed. Asking again for an index whose
	// visual exists returns the same visual and takes another reference on it. With async set
	// the adapter may return ErrPending.
	Item(index int, async bool) (Visual, error)

	Release(visual Visual) ReleaseResult

	// IndexOf returns the model index of visual, or -1
	IndexOf(visual Visual) int

	// SetObserver registers the view for notifications, replacing any previous observer. A zero
	// Observer unregisters.
	SetObserver(o Observer)
}
