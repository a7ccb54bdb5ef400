// Package nav keeps track of which page section is showing and of the
// mobile menu.
package nav

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// RevealStride separates the reveal animation of consecutive cards.
const RevealStride = 100 * time.Millisecond

const (
	// ScrolledOffset is the scroll depth past which the nav bar is compacted.
	ScrolledOffset = 80
	// BackToTopOffset is the scroll depth past which the back-to-top control shows.
	BackToTopOffset = 300
)

var ErrUnknownSection = errors.New("unknown section")

// Section is one logical page. Cards is the number of animated cards it
// contains, in document order.
type Section struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Cards int    `json:"-"`
}

// RevealStep schedules the reveal of the card at Index.
type RevealStep struct {
	Index int           `json:"index"`
	Delay time.Duration `json:"delay"`
}

// Transition describes the side effects of a section change for the view.
type Transition struct {
	Section     string       `json:"section"`
	ScrollToTop bool         `json:"scroll_to_top"`
	Reveal      []RevealStep `json:"reveal"`
}

type Controller struct {
	sections []Section

	mu           sync.Mutex
	active       int
	menuExpanded bool
	scrollY      int
}

// New returns a controller over sections with the first one active.
func New(sections []Section) *Controller {
	if len(sections) == 0 {
		panic("nav: at least one section is required")
	}
	s := make([]Section, len(sections))
	copy(s, sections)
	return &Controller{sections: s}
}

// Select makes id the only active section and collapses the mobile menu.
// Selecting the active section again is allowed and yields the same plan.
func (c *Controller) Select(id string) (Transition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return Transition{}, fmt.Errorf("%w: %q", ErrUnknownSection, id)
	}
	c.active = idx
	c.menuExpanded = false
	c.scrollY = 0

	sec := c.sections[idx]
	steps := make([]RevealStep, sec.Cards)
	for i := range steps {
		steps[i] = RevealStep{Index: i, Delay: time.Duration(i) * RevealStride}
	}
	return Transition{Section: sec.ID, ScrollToTop: true, Reveal: steps}, nil
}

func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sections[c.active].ID
}

func (c *Controller) ToggleMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menuExpanded = !c.menuExpanded
}

// CollapseMenu handles outside clicks and the Escape key.
func (c *Controller) CollapseMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menuExpanded = false
}

// Scroll records the page scroll depth.
func (c *Controller) Scroll(y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if y < 0 {
		y = 0
	}
	c.scrollY = y
}

func (c *Controller) indexOf(id string) int {
	for i, s := range c.sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

type LinkView struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type View struct {
	Active        string     `json:"active"`
	Links         []LinkView `json:"links"`
	MenuExpanded  bool       `json:"menu_expanded"`
	Scrolled      bool       `json:"scrolled"`
	ShowBackToTop bool       `json:"show_back_to_top"`
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Active:        c.sections[c.active].ID,
		Links:         make([]LinkView, len(c.sections)),
		MenuExpanded:  c.menuExpanded,
		Scrolled:      c.scrollY > ScrolledOffset,
		ShowBackToTop: c.scrollY > BackToTopOffset,
	}
	for i, s := range c.sections {
		v.Links[i] = LinkView{ID: s.ID, Label: s.Label, Active: i == c.active}
	}
	return v
}
