// Package filter narrows a collection of cards by category tag and, for
// collections that have a search box, by a case-insensitive substring.
package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/joeyaochen/portfolio/internal/clock"
)

// All is the category that matches every item.
const All = "all"

// SearchDelay is the quiet period before typed search text is applied.
const SearchDelay = 300 * time.Millisecond

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrSearchDisabled  = errors.New("collection has no search")
)

type Item struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Categories  []string `yaml:"categories" json:"categories"`
	Meta        string   `yaml:"meta,omitempty" json:"meta,omitempty"`
	Tech        []string `yaml:"tech,omitempty" json:"tech,omitempty"`
	Link        string   `yaml:"link,omitempty" json:"link,omitempty"`
}

// Tag is a filter button.
type Tag struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

type Options struct {
	// Search enables the search box.
	Search bool
	// Tags lists the category buttons after "all". When empty, the tags are
	// the item categories in first-seen order.
	Tags []Tag
}

type Controller struct {
	items    []Item
	tags     []Tag
	search   bool
	debounce *clock.Debouncer

	mu       sync.Mutex
	category string
	query    string
	pending  string
	visible  []int
}

func New(items []Item, c clock.Clock, opts Options) *Controller {
	f := &Controller{
		items:    slices.Clone(items),
		tags:     opts.Tags,
		search:   opts.Search,
		category: All,
	}
	if len(f.tags) == 0 {
		f.tags = tagsOf(items)
	}
	if f.search {
		f.debounce = clock.NewDebouncer(c, SearchDelay, f.applyPending)
	}
	f.recomputeLocked()
	return f
}

// SetCategory selects a tag. Unknown categories leave the filter unchanged.
func (f *Controller) SetCategory(category string) error {
	category = strings.ToLower(strings.TrimSpace(category))
	if category != All && !slices.ContainsFunc(f.tags, func(t Tag) bool { return t.Value == category }) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.category = category
	f.recomputeLocked()
	return nil
}

// SetSearch applies search text immediately.
func (f *Controller) SetSearch(text string) error {
	if !f.search {
		return ErrSearchDisabled
	}
	f.debounce.Stop()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = strings.ToLower(text)
	f.pending = f.query
	f.recomputeLocked()
	return nil
}

// Input records a keystroke in the search box. The text is applied once
// input has been quiet for SearchDelay; only the last text counts.
func (f *Controller) Input(text string) error {
	if !f.search {
		return ErrSearchDisabled
	}
	f.mu.Lock()
	f.pending = text
	f.mu.Unlock()
	f.debounce.Trigger()
	return nil
}

// Reset clears the category and search and recomputes.
func (f *Controller) Reset() {
	if f.debounce != nil {
		f.debounce.Stop()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.category = All
	f.query = ""
	f.pending = ""
	f.recomputeLocked()
}

// Close drops a pending search.
func (f *Controller) Close() {
	if f.debounce != nil {
		f.debounce.Stop()
	}
}

func (f *Controller) applyPending() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = strings.ToLower(f.pending)
	f.recomputeLocked()
}

// recomputeLocked re-evaluates every item against the current predicate.
func (f *Controller) recomputeLocked() {
	f.visible = f.visible[:0]
	for i, it := range f.items {
		if Matches(it, f.category, f.query) {
			f.visible = append(f.visible, i)
		}
	}
}

// Matches reports whether it passes category and search. search must
// already be lower case.
func Matches(it Item, category, search string) bool {
	if category != All && !slices.Contains(it.Categories, category) {
		return false
	}
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Title), search) ||
		strings.Contains(strings.ToLower(it.Description), search)
}

func tagsOf(items []Item) []Tag {
	var tags []Tag
	seen := map[string]bool{}
	for _, it := range items {
		for _, c := range it.Categories {
			if c == All || seen[c] {
				continue
			}
			seen[c] = true
			tags = append(tags, Tag{Value: c, Label: c})
		}
	}
	return tags
}

type TagView struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type View struct {
	Category  string    `json:"category"`
	Search    string    `json:"search"`
	HasSearch bool      `json:"has_search"`
	Tags      []TagView `json:"tags"`
	Items     []Item    `json:"items"`
	NoResults bool      `json:"no_results"`
}

func (f *Controller) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		Category:  f.category,
		Search:    f.query,
		HasSearch: f.search,
		Tags:      make([]TagView, 0, len(f.tags)+1),
		Items:     make([]Item, 0, len(f.visible)),
	}
	v.Tags = append(v.Tags, TagView{Value: All, Label: "All", Active: f.category == All})
	for _, t := range f.tags {
		v.Tags = append(v.Tags, TagView{Value: t.Value, Label: t.Label, Active: f.category == t.Value})
	}
	for _, i := range f.visible {
		v.Items = append(v.Items, f.items[i])
	}
	v.NoResults = len(v.Items) == 0
	return v
}
