// Package carousel drives the hero slideshow: timed autoplay, manual
// navigation with a grace period before autoplay resumes, hover pause,
// swipe and arrow keys.
package carousel

import (
	"sync"
	"time"

	"github.com/joeyaochen/portfolio/internal/clock"
)

const (
	// Interval is the autoplay period.
	Interval = 5 * time.Second
	// RestartDelay is how long autoplay stays paused after a manual action.
	RestartDelay = 3 * time.Second
	// SwipeThreshold is the minimum horizontal travel, in pixels, of a swipe.
	SwipeThreshold = 50
)

// Keys understood by Key.
const (
	KeyLeft  = "ArrowLeft"
	KeyRight = "ArrowRight"
)

type Controller struct {
	clock clock.Clock
	n     int

	mu       sync.Mutex
	index    int
	autoplay clock.Timer
	restart  clock.Timer
	hovered  bool
	stopped  bool
	shown    bool

	swiping bool
	startX  float64
	endX    float64
}

// New returns a controller over n slides showing the first one. Autoplay
// does not run until Start is called.
func New(n int, c clock.Clock) *Controller {
	if n <= 0 {
		panic("carousel: at least one slide is required")
	}
	return &Controller{clock: c, n: n}
}

// Start begins autoplay. It is a no-op while autoplay already runs.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shown = true
	c.stopped = false
	c.startLocked()
}

// Show starts autoplay the first time the carousel is displayed. Later
// calls leave the autoplay state alone.
func (c *Controller) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shown {
		return
	}
	c.shown = true
	c.startLocked()
}

// Stop halts autoplay and drops any pending restart. Timers that were
// already firing become no-ops.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.pauseLocked()
	c.cancelRestartLocked()
}

func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showLocked(c.index + 1)
	c.interruptLocked()
}

func (c *Controller) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showLocked(c.index - 1)
	c.interruptLocked()
}

// Select jumps to slide i (a dot click). Out of range indexes wrap.
func (c *Controller) Select(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showLocked(i)
	c.interruptLocked()
}

// Hover pauses autoplay until Leave, cancelling any pending restart.
func (c *Controller) Hover() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovered = true
	c.pauseLocked()
	c.cancelRestartLocked()
}

// Leave resumes autoplay immediately.
func (c *Controller) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovered = false
	if !c.stopped {
		c.startLocked()
	}
}

func (c *Controller) SwipeStart(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.swiping = true
	c.startX, c.endX = x, x
	c.pauseLocked()
}

func (c *Controller) SwipeMove(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.swiping {
		c.endX = x
	}
}

// SwipeEnd moves forward for a leftward swipe and back for a rightward one
// when the travel exceeds SwipeThreshold. Autoplay restarts after
// RestartDelay whether or not the slide changed.
func (c *Controller) SwipeEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.swiping {
		return
	}
	c.swiping = false
	switch diff := c.startX - c.endX; {
	case diff > SwipeThreshold:
		c.showLocked(c.index + 1)
	case diff < -SwipeThreshold:
		c.showLocked(c.index - 1)
	}
	c.scheduleRestartLocked()
}

// Key handles the left and right arrow keys while the home section is
// showing. It reports whether the key changed the slide.
func (c *Controller) Key(key string, homeActive bool) bool {
	if !homeActive {
		return false
	}
	switch key {
	case KeyLeft:
		c.Prev()
	case KeyRight:
		c.Next()
	default:
		return false
	}
	return true
}

func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Playing reports whether autoplay is running.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoplay != nil
}

func (c *Controller) showLocked(i int) {
	c.index = ((i % c.n) + c.n) % c.n
}

// interruptLocked pauses autoplay for a manual action and (re)arms the
// restart timer.
func (c *Controller) interruptLocked() {
	c.pauseLocked()
	c.scheduleRestartLocked()
}

func (c *Controller) startLocked() {
	if c.autoplay != nil || c.stopped {
		return
	}
	c.armAutoplayLocked()
}

func (c *Controller) armAutoplayLocked() {
	var t clock.Timer
	t = c.clock.AfterFunc(Interval, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.autoplay != t {
			return
		}
		c.showLocked(c.index + 1)
		c.armAutoplayLocked()
	})
	c.autoplay = t
}

func (c *Controller) pauseLocked() {
	if c.autoplay != nil {
		c.autoplay.Stop()
		c.autoplay = nil
	}
}

func (c *Controller) scheduleRestartLocked() {
	c.cancelRestartLocked()
	if c.stopped {
		return
	}
	var t clock.Timer
	t = c.clock.AfterFunc(RestartDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.restart != t {
			return
		}
		c.restart = nil
		if !c.hovered {
			c.startLocked()
		}
	})
	c.restart = t
}

func (c *Controller) cancelRestartLocked() {
	if c.restart != nil {
		c.restart.Stop()
		c.restart = nil
	}
}

// SlideView marks whether a slide and its dot are active.
type SlideView struct {
	Index  int  `json:"index"`
	Active bool `json:"active"`
}

type View struct {
	Index   int         `json:"index"`
	Playing bool        `json:"playing"`
	Slides  []SlideView `json:"slides"`
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Index:   c.index,
		Playing: c.autoplay != nil,
		Slides:  make([]SlideView, c.n),
	}
	for i := range v.Slides {
		v.Slides[i] = SlideView{Index: i, Active: i == c.index}
	}
	return v
}
