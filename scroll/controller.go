package scroll

// Controller tracks the scroll offset of a virtual page that is Pages viewport
// heights tall and turns scroll and resize events into States.
//
// Scroll samples go through a Throttle. A sample that arrives too early is
// remembered and committed by the next Flush, so the final resting position is
// never lost. Resizes are always committed.
type Controller struct {
	pages    float64
	viewport Viewport
	offset   float64
	throttle *Throttle
	pending  bool
	state    State
}

// NewController returns a controller scrolled to the top of the page.
func NewController(viewport Viewport, pages float64, throttle *Throttle) *Controller {
	if throttle == nil {
		throttle = NewThrottle(DefaultThrottle)
	}
	c := &Controller{
		pages:    pages,
		viewport: viewport,
		throttle: throttle,
	}
	c.commit()
	return c
}

// ScrollHeight is the total page height in CSS pixels.
func (c *Controller) ScrollHeight() float64 {
	return max(c.pages, 1) * c.viewport.Height
}

// MaxOffset is the largest reachable scroll offset.
func (c *Controller) MaxOffset() float64 {
	return max(c.ScrollHeight()-c.viewport.Height, 0)
}

func (c *Controller) Offset() float64     { return c.offset }
func (c *Controller) Viewport() Viewport  { return c.viewport }
func (c *Controller) Current() State      { return c.state }
func (c *Controller) Pending() bool       { return c.pending }
func (c *Controller) Throttle() *Throttle { return c.throttle }

// OnScroll records a new offset. It returns the committed state and whether
// this sample was committed or deferred by the throttle.
func (c *Controller) OnScroll(offset float64, viewport Viewport) (State, bool) {
	c.offset = offset
	c.viewport = viewport
	if !c.throttle.Allow() {
		c.pending = true
		return c.state, false
	}
	c.commit()
	return c.state, true
}

// OnResize commits immediately with the new viewport, keeping the offset within
// the new scrollable range.
func (c *Controller) OnResize(viewport Viewport) State {
	c.viewport = viewport
	c.offset = clamp(c.offset, 0, c.MaxOffset())
	c.commit()
	return c.state
}

// ScrollBy moves the offset by delta pixels, bounded by the page.
func (c *Controller) ScrollBy(delta float64) (State, bool) {
	return c.ScrollTo(c.offset + delta)
}

// ScrollTo moves to an absolute offset, bounded by the page.
func (c *Controller) ScrollTo(offset float64) (State, bool) {
	return c.OnScroll(clamp(offset, 0, c.MaxOffset()), c.viewport)
}

// Flush commits a deferred sample once the throttle allows it.
func (c *Controller) Flush() (State, bool) {
	if !c.pending || !c.throttle.Allow() {
		return c.state, false
	}
	c.commit()
	return c.state, true
}

func (c *Controller) commit() {
	c.pending = false
	h := c.ScrollHeight()
	c.state = Derive(Progress(c.offset, c.viewport.Height, h))
	c.state.Navbar = Navbar(c.offset, c.viewport.Height, h)
}
