package itemview

// Viewport is the scroll surface the view positions. Its position is the scroll offset of the
// top (or left) edge of the visible region in content coordinates.
type Viewport interface {
	Position() float64
	Size() float64
	SetPosition(pos float64)

	// Moving is true while the user drags or the surface animates. The view does not fix up
	// its position while the surface moves.
	Moving() bool

	// Observe registers callbacks for position and size changes
	Observe(moved, resized func())
}

// ScrollSurface is a Viewport without kinetic scrolling. Positions are not clamped; the owner
// clamps against the view's extents.
type ScrollSurface struct {
	pos     float64
	size    float64
	moving  bool
	moved   func()
	resized func()
}

// type assertion that *ScrollSurface implements Viewport
var _ Viewport = (*ScrollSurface)(nil)

func NewScrollSurface(size float64) *ScrollSurface {
	return &ScrollSurface{size: size}
}

func (s *ScrollSurface) Position() float64 {
	return s.pos
}

func (s *ScrollSurface) Size() float64 {
	return s.size
}

func (s *ScrollSurface) SetPosition(pos float64) {
	if pos == s.pos {
		return
	}
	s.pos = pos
	if s.moved != nil {
		s.moved()
	}
}

func (s *ScrollSurface) SetSize(size float64) {
	if size == s.size {
		return
	}
	s.size = size
	if s.resized != nil {
		s.resized()
	}
}

func (s *ScrollSurface) Moving() bool {
	return s.moving
}

// SetMoving marks the surface as being dragged by the user
func (s *ScrollSurface) SetMoving(moving bool) {
	s.moving = moving
}

func (s *ScrollSurface) Observe(moved, resized func()) {
	s.moved = moved
	s.resized = resized
}
