package viewport

// Action is a navigation request from the user.
type Action string

const (
	ActionZoomIn    Action = "zoom-in"
	ActionZoomOut   Action = "zoom-out"
	ActionPanLeft   Action = "pan-left"
	ActionPanRight  Action = "pan-right"
	ActionReset     Action = "reset"
	ActionTogglePan Action = "toggle-pan"
)

// Controller owns the current range for a series of a given length, plus the
// pan-mode flag that decides whether pan controls are offered.
type Controller struct {
	rng     Range
	length  int
	panning bool
}

// NewController returns a controller over a series of length n, starting Unbounded.
func NewController(n int) *Controller {
	return &Controller{rng: Unbounded{}, length: n}
}

func (c *Controller) Range() Range   { return c.rng }
func (c *Controller) Length() int    { return c.length }
func (c *Controller) Panning() bool  { return c.panning }
func (c *Controller) IsZoomed() bool { return IsZoomed(c.rng) }

// SetLength points the controller at a new series and resets the view.
func (c *Controller) SetLength(n int) {
	c.length = n
	c.Reset()
}

// Bounds returns the inclusive visible indices.
func (c *Controller) Bounds() (left, right int) {
	return Resolve(c.rng, c.length)
}

func (c *Controller) ZoomIn()   { c.rng = ZoomIn(c.rng, c.length) }
func (c *Controller) ZoomOut()  { c.rng = ZoomOut(c.rng, c.length) }
func (c *Controller) PanLeft()  { c.rng = PanLeft(c.rng, c.length) }
func (c *Controller) PanRight() { c.rng = PanRight(c.rng, c.length) }

// Reset clears the zoom and leaves pan mode.
func (c *Controller) Reset() {
	c.rng = Reset()
	c.panning = false
}

func (c *Controller) TogglePan() { c.panning = !c.panning }

// PanControlsVisible reports whether pan-left/pan-right should be offered:
// pan mode is engaged and the view is zoomed.
func (c *Controller) PanControlsVisible() bool {
	return c.panning && IsZoomed(c.rng)
}

// Apply dispatches an action. It reports false for an unknown action.
func (c *Controller) Apply(a Action) bool {
	switch a {
	case ActionZoomIn:
		c.ZoomIn()
	case ActionZoomOut:
		c.ZoomOut()
	case ActionPanLeft:
		c.PanLeft()
	case ActionPanRight:
		c.PanRight()
	case ActionReset:
		c.Reset()
	case ActionTogglePan:
		c.TogglePan()
	default:
		return false
	}
	return true
}
