package itemview

// Attached is the metadata the view keeps for each model item it materializes. Visuals that
// implement Binder receive it when they are bound, and may set DelayRemove to keep themselves on
// screen after their model element is removed.
type Attached struct {
	view *View

	// holders are the view items sharing the visual, usually a window item and the current item
	holders []*ViewItem

	isCurrentItem bool
	delayRemove   bool
	section       string
	prevSection   string
	nextSection   string

	// OnAdd is called after the item is added to the view by a model insertion
	OnAdd func()

	// OnRemove is called when the item's model element is removed
	OnRemove func()
}

// Binder is implemented by visuals that want the view's metadata for them
type Binder interface {
	Bind(a *Attached)
}

func (a *Attached) IsCurrentItem() bool {
	return a.isCurrentItem
}

func (a *Attached) DelayRemove() bool {
	return a.delayRemove
}

// SetDelayRemove keeps a removed item on screen while true. Clearing it lets the view destroy the
// item on its next polish.
func (a *Attached) SetDelayRemove(delay bool) {
	if a.delayRemove == delay {
		return
	}
	a.delayRemove = delay
	if item := a.item(); !delay && a.view != nil && item != nil && item.index == -1 {
		a.view.scheduleDestroyRemoved()
	}
}

func (a *Attached) Section() string {
	return a.section
}

func (a *Attached) PrevSection() string {
	return a.prevSection
}

func (a *Attached) NextSection() string {
	return a.nextSection
}

// Index returns the model index of the item, -1 once removed
func (a *Attached) Index() int {
	item := a.item()
	if item == nil {
		return -1
	}
	return item.index
}

// item is the holder that represents the visual in the window. A removed holder wins, since the
// current item is released along with its removal.
func (a *Attached) item() *ViewItem {
	for _, h := range a.holders {
		if h.index == -1 {
			return h
		}
	}
	if len(a.holders) == 0 {
		return nil
	}
	return a.holders[0]
}

func (a *Attached) isPendingRemoval() bool {
	item := a.item()
	return a.delayRemove && item != nil && item.index == -1
}

func (a *Attached) setIsCurrentItem(c bool) {
	a.isCurrentItem = c
}

func (a *Attached) emitAdd() {
	if a.OnAdd != nil {
		a.OnAdd()
	}
}

func (a *Attached) emitRemove() {
	if a.OnRemove != nil {
		a.OnRemove()
	}
}

func (a *Attached) setSections(prev, section, next string) {
	a.prevSection = prev
	a.section = section
	a.nextSection = next
}
