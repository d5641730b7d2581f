package itemview

import (
	"time"
)

// TransitionType is the reason an item moves
type TransitionType int

const (
	NoTransition TransitionType = iota
	PopulateTransition
	AddTransition
	MoveTransition
	RemoveTransition
)

func (t TransitionType) String() string {
	switch t {
	case PopulateTransition:
		return "populate"
	case AddTransition:
		return "add"
	case MoveTransition:
		return "move"
	case RemoveTransition:
		return "remove"
	}
	return "none"
}

// TransitionPhase is the state of an item's transition
type TransitionPhase int

const (
	Idle TransitionPhase = iota
	Scheduled
	Running
)

// Easing maps linear progress in [0,1] to eased progress
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

func OutQuad(t float64) float64 { return t * (2 - t) }

// Transition animates an item from where it is to where it is laid out
type Transition struct {
	Duration time.Duration

	// Offset displaces the start of populate and add transitions, and the end of remove
	// transitions, relative to the item's laid out position
	Offset float64

	Easing Easing
}

// Transitions configures which changes animate. A nil entry disables that transition. The
// Displaced entry is used for any displaced transition without its own entry.
type Transitions struct {
	Populate        *Transition
	Add             *Transition
	AddDisplaced    *Transition
	Move            *Transition
	MoveDisplaced   *Transition
	Remove          *Transition
	RemoveDisplaced *Transition
	Displaced       *Transition
}

func (t *Transitions) get(typ TransitionType, asTarget bool) *Transition {
	if t == nil {
		return nil
	}
	var res *Transition
	switch typ {
	case PopulateTransition:
		if asTarget {
			res = t.Populate
		}
	case AddTransition:
		if asTarget {
			res = t.Add
		} else {
			res = t.AddDisplaced
		}
	case MoveTransition:
		if asTarget {
			res = t.Move
		} else {
			res = t.MoveDisplaced
		}
	case RemoveTransition:
		if asTarget {
			res = t.Remove
		} else {
			res = t.RemoveDisplaced
		}
	}
	if res == nil && !asTarget && typ != PopulateTransition {
		res = t.Displaced
	}
	if res == nil || res.Duration <= 0 {
		return nil
	}
	return res
}

// CanTransition is true if a transition is configured for typ
func (t *Transitions) CanTransition(typ TransitionType, asTarget bool) bool {
	return t.get(typ, asTarget) != nil
}

// itemTransition is the per item transition state machine. An item is Idle, Scheduled with a
// type once a change marks it to move, or Running once its transition started.
type itemTransition struct {
	phase    TransitionPhase
	typ      TransitionType
	isTarget bool

	nextTo    float64
	nextToSet bool

	// interrupted is set when a new transition replaces one that was still running
	interrupted bool

	from     float64
	to       float64
	elapsed  time.Duration
	duration time.Duration
	easing   Easing
}

func (t *itemTransition) stop() {
	t.phase = Idle
	t.typ = NoTransition
	t.isTarget = false
	t.nextToSet = false
	t.interrupted = false
	t.elapsed = 0
}

// TransitionPhase returns the state of the item's transition and the type scheduled or running
func (i *ViewItem) TransitionPhase() (TransitionPhase, TransitionType) {
	return i.trans.phase, i.trans.typ
}

// transitionNextReposition schedules a transition of typ for the item's next position change.
// A scheduled target transition is never downgraded to a displaced one.
func (i *ViewItem) transitionNextReposition(transitions *Transitions, typ TransitionType, asTarget bool) {
	if !transitions.CanTransition(typ, asTarget) {
		return
	}
	if i.trans.phase == Scheduled && i.trans.isTarget && !asTarget {
		return
	}
	if i.trans.phase == Running {
		i.trans.interrupted = true
	}
	if i.trans.phase != Scheduled && !i.trans.nextToSet {
		// destination defaults to where the item is laid out now
		i.trans.nextTo = i.Position()
		i.trans.nextToSet = true
	}
	i.trans.phase = Scheduled
	i.trans.typ = typ
	i.trans.isTarget = asTarget
}

func (i *ViewItem) transitionScheduledOrRunning() bool {
	return i.trans.phase != Idle
}

func (i *ViewItem) isTransitionTarget() bool {
	return i.trans.phase != Idle && i.trans.isTarget
}

// prepareTransition decides whether a scheduled transition is worth running given the visible
// range. When it is not, the item jumps straight to its destination.
func (i *ViewItem) prepareTransition(viewFrom, viewTo float64) bool {
	if i.trans.phase != Scheduled {
		return false
	}
	dest := i.Position()
	destVisible := dest+i.Size() > viewFrom && dest < viewTo
	curVisible := i.pos+i.Size() > viewFrom && i.pos < viewTo

	do := false
	switch i.trans.typ {
	case PopulateTransition, AddTransition:
		if i.trans.isTarget {
			do = destVisible
		} else {
			do = destVisible || curVisible
		}
	case RemoveTransition:
		if i.trans.isTarget {
			do = curVisible
		} else {
			do = destVisible || curVisible
		}
	case MoveTransition:
		do = destVisible || curVisible
	}
	if !do {
		i.moveTo(dest, true)
	}
	return do
}

// startTransition runs a scheduled transition. If another transition is still running the new
// one starts from the current interpolated position, so the item never snaps.
func (i *ViewItem) startTransition(transitions *Transitions) bool {
	if i.trans.phase != Scheduled {
		return false
	}
	cfg := transitions.get(i.trans.typ, i.trans.isTarget)
	if cfg == nil {
		i.moveTo(i.Position(), true)
		return false
	}
	wasRunning := i.trans.interrupted
	to := i.Position()
	from := i.pos
	switch i.trans.typ {
	case PopulateTransition, AddTransition:
		if i.trans.isTarget && !wasRunning {
			from = to + cfg.Offset
		}
	case RemoveTransition:
		if i.trans.isTarget {
			to = i.pos + cfg.Offset
		}
	}
	easing := cfg.Easing
	if easing == nil {
		easing = Linear
	}
	i.pos = from
	i.trans.from = from
	i.trans.to = to
	i.trans.nextToSet = false
	i.trans.interrupted = false
	i.trans.elapsed = 0
	i.trans.duration = cfg.Duration
	i.trans.easing = easing
	i.trans.phase = Running
	return true
}

// advanceTransition moves a running transition forward, returning true when it finished
func (i *ViewItem) advanceTransition(dt time.Duration) bool {
	if i.trans.phase != Running {
		return false
	}
	i.trans.elapsed += dt
	if i.trans.elapsed >= i.trans.duration {
		i.pos = i.trans.to
		i.trans.stop()
		i.trans.from, i.trans.to = 0, 0
		return true
	}
	progress := float64(i.trans.elapsed) / float64(i.trans.duration)
	i.pos = i.trans.from + (i.trans.to-i.trans.from)*i.trans.easing(progress)
	return false
}

// retarget handles a destination change for an item that is already running a transition: the
// running transition is replaced by one of the same type starting from the current position
func (i *ViewItem) retarget() {
	if i.trans.phase != Running || !i.trans.nextToSet {
		return
	}
	i.trans.interrupted = true
	i.trans.phase = Scheduled
}
