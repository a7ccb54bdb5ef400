// Package responder answers visitor questions about the site owner from the
// profile, using an ordered table of keyword rules.
package responder

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/joeyaochen/portfolio/internal/profile"
)

// Fallbacks are the generic answers used when no rule matches and no remote
// backend is configured.
var Fallbacks = []string{
	"That's an interesting question! 🤔 I can help you learn about Joe's projects, skills, experience, and research interests. Try asking me something like:\n\n• \"Tell me about Joe's projects\"\n• \"What are Joe's skills?\"\n• \"How can I contact Joe?\"\n\nOr explore the different sections of this website for more details!",
	"Great question! 💭 While I specialize in sharing information about Joe's background and work, I can tell you about:\n\n• His data science and public health projects\n• His research experience and achievements\n• His technical skills and expertise\n• How to get in touch with him\n\nWhat would you like to know about Joe?",
	"I'd love to help you learn more about Joe! 🌟 I have detailed information about his:\n\n• Academic background (Harvard, UC Berkeley)\n• Professional experience in data science\n• Research in AI ethics and public health\n• Technical skills and achievements\n\nFeel free to ask me anything about Joe's work and background!",
}

type Responder struct {
	profile *profile.Profile
	rules   []Rule
	pick    func(n int) int
}

type Option func(*Responder)

// WithPicker replaces the random fallback choice, e.g. with a fixed index.
func WithPicker(pick func(n int) int) Option {
	return func(r *Responder) { r.pick = pick }
}

func New(p *profile.Profile, opts ...Option) *Responder {
	r := &Responder{
		profile: p,
		rules:   Rules(),
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Match returns the answer of the first rule that matches query. The second
// result is false when no rule matches; that is a normal outcome, not an error.
func (r *Responder) Match(query string) (string, bool) {
	rule, ok := r.Rule(query)
	if !ok {
		return "", false
	}
	return rule.Respond(r.profile), true
}

// Rule reports which rule would answer query.
func (r *Responder) Rule(query string) (Rule, bool) {
	lower := strings.ToLower(query)
	tokens := tokenize(lower)
	for _, rule := range r.rules {
		if rule.matches(lower, tokens) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Fallback returns one of the generic answers.
func (r *Responder) Fallback() string {
	i := r.pick(len(Fallbacks))
	if i < 0 || i >= len(Fallbacks) {
		i = 0
	}
	return Fallbacks[i]
}

// Profile exposes the fact sheet the responder answers from.
func (r *Responder) Profile() *profile.Profile {
	return r.profile
}

func tokenize(lower string) map[string]struct{} {
	fields := strings.FieldsFunc(lower, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c)
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}
