package responder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeyaochen/portfolio/internal/profile"
)

func newTestResponder(t *testing.T, opts ...Option) *Responder {
	t.Helper()
	p, err := profile.Default()
	require.NoError(t, err)
	return New(p, opts...)
}

func TestRules_PriorityOrder(t *testing.T) {
	var names []string
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"greeting", "projects", "skills", "education", "experience", "contact",
		"about", "research", "achievements", "future-plans", "language-meta", "help",
	}, names)
}

func TestMatch_FirstRuleWins(t *testing.T) {
	r := newTestResponder(t)
	rules := Rules()

	for i, rule := range rules {
		query := rule.Keywords[0]
		if i+1 < len(rules) {
			query += " " + rules[i+1].Keywords[0]
		}
		t.Run(rule.Name, func(t *testing.T) {
			got, ok := r.Rule(query)
			require.True(t, ok, "query %q", query)
			assert.Equal(t, rule.Name, got.Name, "query %q", query)
		})
	}
}

func TestMatch_ProjectsEnumeratedOnceInOrder(t *testing.T) {
	r := newTestResponder(t)
	projects := r.Profile().Projects

	for _, query := range []string{
		"Tell me about Joe's projects",
		"PROJECTS?",
		"Show me his project list",
		"which project is the newest",
	} {
		t.Run(query, func(t *testing.T) {
			resp, ok := r.Match(query)
			require.True(t, ok)

			last := -1
			for _, p := range projects {
				marker := "**" + p.Name + "**"
				assert.Equal(t, 1, strings.Count(resp, marker), "project %q", p.Name)
				idx := strings.Index(resp, marker)
				assert.Greater(t, idx, last, "project %q out of store order", p.Name)
				last = idx
			}
		})
	}
}

func TestMatch_SkillsScenario(t *testing.T) {
	r := newTestResponder(t)
	skills := r.Profile().Skills

	resp, ok := r.Match("What are Joe's skills?")
	require.True(t, ok)
	assert.Contains(t, resp, strings.Join(skills.Programming, ", "))
	assert.Contains(t, resp, strings.Join(skills.Tools, ", "))
	assert.Contains(t, resp, strings.Join(skills.Specializations, ", "))
}

func TestMatch_InterpolatesProfile(t *testing.T) {
	r := newTestResponder(t)
	p := r.Profile()

	tests := []struct {
		query string
		rule  string
		want  []string
	}{
		{"hello there", "greeting", []string{"Joe's AI assistant"}},
		{"Hi!", "greeting", []string{"Hello!"}},
		{"你好", "greeting", []string{"Hello!"}},
		{"Where did he study?", "education", []string{p.Education.Current, p.Education.Previous, p.Education.GPA}},
		{"tell me about his career", "experience", []string{p.Experience[0].Role, p.Experience[0].Company, p.Experience[1].Role}},
		{"How can I reach him?", "contact", []string{p.Personal.Email, p.Personal.Location}},
		{"who is joe", "about", []string{p.Personal.Name, p.Personal.Title, p.Personal.Focus}},
		{"any awards?", "achievements", []string{"Best Paper Award"}},
		{"what are his goals", "future-plans", []string{p.Personal.Email}},
		{"do you speak chinese", "language-meta", []string{p.Personal.Email}},
		{"what can you do", "help", []string{"Try asking"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rule, ok := r.Rule(tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.rule, rule.Name)

			resp, _ := r.Match(tt.query)
			for _, w := range tt.want {
				assert.Contains(t, resp, w)
			}
		})
	}
}

func TestMatch_ShortGreetingNeedsWholeWord(t *testing.T) {
	r := newTestResponder(t)

	rule, ok := r.Rule("What has he been working on this year?")
	require.True(t, ok)
	assert.Equal(t, "projects", rule.Name, "'hi' inside 'this' must not trigger the greeting")
}

func TestMatch_NoMatch(t *testing.T) {
	r := newTestResponder(t)

	for _, query := range []string{"What's the weather like?", "", "   ", "tell me a joke"} {
		_, ok := r.Match(query)
		assert.False(t, ok, "query %q", query)
	}
}

func TestFallback_SetMembership(t *testing.T) {
	r := newTestResponder(t)
	for i := 0; i < 50; i++ {
		got := r.Fallback()
		assert.NotEmpty(t, got)
		assert.Contains(t, Fallbacks, got)
	}
}

func TestFallback_Deterministic(t *testing.T) {
	r := newTestResponder(t, WithPicker(func(int) int { return 2 }))
	assert.Equal(t, Fallbacks[2], r.Fallback())

	r = newTestResponder(t, WithPicker(func(int) int { return 99 }))
	assert.Equal(t, Fallbacks[0], r.Fallback(), "out-of-range pick clamps to the first answer")
}
