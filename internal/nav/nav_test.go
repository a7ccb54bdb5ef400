package nav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSections() []Section {
	return []Section{
		{ID: "home", Label: "Home"},
		{ID: "about", Label: "About", Cards: 2},
		{ID: "projects", Label: "Projects", Cards: 3},
		{ID: "contact", Label: "Contact"},
	}
}

func activeCount(v View) int {
	n := 0
	for _, l := range v.Links {
		if l.Active {
			n++
		}
	}
	return n
}

func TestNew_FirstSectionActive(t *testing.T) {
	c := New(testSections())
	assert.Equal(t, "home", c.Active())
	assert.Equal(t, 1, activeCount(c.View()))
}

func TestSelect_ExactlyOneActive(t *testing.T) {
	c := New(testSections())

	for _, id := range []string{"projects", "about", "contact", "home", "projects"} {
		tr, err := c.Select(id)
		require.NoError(t, err)
		assert.Equal(t, id, tr.Section)
		assert.True(t, tr.ScrollToTop)

		v := c.View()
		assert.Equal(t, id, v.Active)
		assert.Equal(t, 1, activeCount(v))
	}
}

func TestSelect_StaggeredReveal(t *testing.T) {
	c := New(testSections())

	tr, err := c.Select("projects")
	require.NoError(t, err)
	assert.Equal(t, []RevealStep{
		{Index: 0, Delay: 0},
		{Index: 1, Delay: 100 * time.Millisecond},
		{Index: 2, Delay: 200 * time.Millisecond},
	}, tr.Reveal)
}

func TestSelect_ReselectIsIdempotent(t *testing.T) {
	c := New(testSections())

	first, err := c.Select("about")
	require.NoError(t, err)
	second, err := c.Select("about")
	require.NoError(t, err)

	assert.Equal(t, first, second, "no extra reveal steps on reselect")
	assert.Len(t, second.Reveal, 2)
	assert.Equal(t, 1, activeCount(c.View()))
}

func TestSelect_UnknownLeavesStateAlone(t *testing.T) {
	c := New(testSections())
	_, err := c.Select("about")
	require.NoError(t, err)

	_, err = c.Select("blog")
	assert.ErrorIs(t, err, ErrUnknownSection)
	assert.Equal(t, "about", c.Active())
}

func TestMenu(t *testing.T) {
	c := New(testSections())
	assert.False(t, c.View().MenuExpanded)

	c.ToggleMenu()
	assert.True(t, c.View().MenuExpanded)
	c.CollapseMenu()
	assert.False(t, c.View().MenuExpanded)

	c.ToggleMenu()
	_, err := c.Select("contact")
	require.NoError(t, err)
	assert.False(t, c.View().MenuExpanded, "selecting a section collapses the menu")
}

func TestScroll(t *testing.T) {
	c := New(testSections())

	c.Scroll(50)
	v := c.View()
	assert.False(t, v.Scrolled)
	assert.False(t, v.ShowBackToTop)

	c.Scroll(81)
	v = c.View()
	assert.True(t, v.Scrolled)
	assert.False(t, v.ShowBackToTop)

	c.Scroll(301)
	assert.True(t, c.View().ShowBackToTop)

	_, err := c.Select("about")
	require.NoError(t, err)
	assert.False(t, c.View().Scrolled, "section change scrolls to top")
}
