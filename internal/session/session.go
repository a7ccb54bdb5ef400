// Package session owns the per-visitor page controllers and expires them
// once a visitor goes idle.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joeyaochen/portfolio/internal/carousel"
	"github.com/joeyaochen/portfolio/internal/chat"
	"github.com/joeyaochen/portfolio/internal/clock"
	"github.com/joeyaochen/portfolio/internal/filter"
	"github.com/joeyaochen/portfolio/internal/form"
	"github.com/joeyaochen/portfolio/internal/nav"
	"github.com/joeyaochen/portfolio/internal/resume"
)

// CookieName is the cookie carrying the session id.
const CookieName = "portfolio_session"

// Session is one visitor's page state.
type Session struct {
	ID       string
	Nav      *nav.Controller
	Carousel *carousel.Controller
	Projects *filter.Controller
	Writing  *filter.Controller
	Form     *form.Form
	Resume   *resume.Controls
	Chat     *chat.Widget

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close stops every timer the session's controllers own.
func (s *Session) Close() {
	if s.Carousel != nil {
		s.Carousel.Stop()
	}
	if s.Projects != nil {
		s.Projects.Close()
	}
	if s.Writing != nil {
		s.Writing.Close()
	}
	if s.Form != nil {
		s.Form.Close()
	}
}

// Factory fills in the controllers of a new session.
type Factory func(s *Session)

type Manager struct {
	clock   clock.Clock
	ttl     time.Duration
	factory Factory
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(c clock.Clock, ttl time.Duration, factory Factory, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		clock:    c,
		ttl:      ttl,
		factory:  factory,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Get returns the live session for id and marks it active.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.touch(m.clock.Now())
	return s, true
}

// Create starts a new session with a fresh id.
func (m *Manager) Create() *Session {
	s := &Session{ID: uuid.NewString()}
	m.factory(s)
	s.touch(m.clock.Now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.logger.Debug("session created", zap.String("session", s.ID))
	return s
}

// GetOrCreate returns the session for id, or a new one when id is unknown
// or expired. created reports which happened.
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes and forgets sessions idle for longer than the TTL. It
// returns the number removed.
func (m *Manager) Sweep() int {
	cutoff := m.clock.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		m.logger.Debug("sessions swept", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// CloseAll closes every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}

// Run sweeps every interval until ctx is done, then closes all sessions.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}
