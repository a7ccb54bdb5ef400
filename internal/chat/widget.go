// Package chat holds the conversation widget: its open/closed state, the
// busy flag that serialises sends, and the turn history.
package chat

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the conversation.
type Turn struct {
	Role    Role
	Content string
}

var (
	ErrEmpty = errors.New("message is empty")
	ErrBusy  = errors.New("a response is already in flight")
)

const Welcome = "Hi! I'm Joe's AI assistant. I can help you learn more about his projects, experience, and skills. What would you like to know?"

// Suggestions are the starter questions offered before the first exchange.
var Suggestions = []string{
	"Tell me about Joe's projects",
	"What are Joe's skills?",
	"What is Joe's research focus?",
	"How can I contact Joe?",
}

// Recorder persists turns as they are appended.
type Recorder interface {
	RecordTurn(ctx context.Context, turn Turn) error
}

type Widget struct {
	resolver     Resolver
	contactEmail string
	recorder     Recorder
	logger       *zap.Logger

	mu      sync.Mutex
	open    bool
	busy    bool
	history []Turn
}

type Option func(*Widget)

func WithRecorder(r Recorder) Option {
	return func(w *Widget) { w.recorder = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

// New starts a closed widget whose history holds the welcome turn.
// contactEmail is quoted in the apology shown when resolution fails.
func New(resolver Resolver, contactEmail string, opts ...Option) *Widget {
	w := &Widget{
		resolver:     resolver,
		contactEmail: contactEmail,
		logger:       zap.NewNop(),
		history:      []Turn{{Role: RoleAssistant, Content: Welcome}},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Apology is the fixed answer used when a response cannot be produced.
func Apology(contactEmail string) string {
	return fmt.Sprintf("Sorry, I can't answer your question right now. Please try again later, or contact Joe directly by email: %s", contactEmail)
}

func (w *Widget) Open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = true
}

func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
}

func (w *Widget) Toggle() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = !w.open
}

// ClickOutside closes the widget if it is open.
func (w *Widget) ClickOutside() {
	w.Close()
}

func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Send appends the visitor's message and the assistant's answer, in that
// order. Empty input and sends while another answer is pending are rejected
// without touching the history.
func (w *Widget) Send(ctx context.Context, input string) (Turn, error) {
	msg := strings.TrimSpace(input)
	if msg == "" {
		return Turn{}, ErrEmpty
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return Turn{}, ErrBusy
	}
	prior := make([]Turn, len(w.history))
	copy(prior, w.history)
	user := Turn{Role: RoleUser, Content: msg}
	w.history = append(w.history, user)
	w.busy = true
	w.mu.Unlock()

	w.record(ctx, user)

	answer, err := w.resolver.Resolve(ctx, prior, msg)
	if err != nil {
		w.logger.Warn("chat resolution failed", zap.Error(err))
		answer = Apology(w.contactEmail)
	}
	reply := Turn{Role: RoleAssistant, Content: answer}

	w.mu.Lock()
	w.history = append(w.history, reply)
	w.busy = false
	w.mu.Unlock()

	w.record(ctx, reply)
	return reply, nil
}

// SendSuggestion sends the i-th starter question.
func (w *Widget) SendSuggestion(ctx context.Context, i int) (Turn, error) {
	if i < 0 || i >= len(Suggestions) {
		return Turn{}, fmt.Errorf("suggestion %d: %w", i, ErrEmpty)
	}
	return w.Send(ctx, Suggestions[i])
}

// History returns a copy of the turns in chronological order.
func (w *Widget) History() []Turn {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Turn, len(w.history))
	copy(out, w.history)
	return out
}

func (w *Widget) record(ctx context.Context, t Turn) {
	if w.recorder == nil {
		return
	}
	if err := w.recorder.RecordTurn(context.WithoutCancel(ctx), t); err != nil {
		w.logger.Warn("record chat turn", zap.Error(err))
	}
}

// TurnView is a turn ready for display.
type TurnView struct {
	Role    Role          `json:"role"`
	Content string        `json:"content"`
	HTML    template.HTML `json:"html"`
}

type View struct {
	Open            bool       `json:"open"`
	Busy            bool       `json:"busy"`
	ShowSuggestions bool       `json:"show_suggestions"`
	Suggestions     []string   `json:"suggestions,omitempty"`
	Turns           []TurnView `json:"turns"`
}

func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		Open:            w.open,
		Busy:            w.busy,
		ShowSuggestions: len(w.history) <= 1,
		Turns:           make([]TurnView, len(w.history)),
	}
	if v.ShowSuggestions {
		v.Suggestions = Suggestions
	}
	for i, t := range w.history {
		v.Turns[i] = TurnView{Role: t.Role, Content: t.Content, HTML: FormatMessage(t.Content)}
	}
	return v
}
