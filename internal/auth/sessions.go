package auth

import (
	"sync"
	"time"

	"github.com/profedug/GabaritaIF/internal/authoring"
	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/quiz"
)

// Session is one logged-in client. Its draft and quiz run exist only here
// and vanish with it.
type Session struct {
	ID        string
	StartedAt time.Time

	mu    sync.Mutex
	actor Actor
	draft *authoring.Flow
	run   *quiz.Run
}

func (s *Session) Actor() Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actor
}

func (s *Session) SetActor(a Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actor = a
}

// Draft returns the session's authoring flow, creating it on first use.
func (s *Session) Draft(newFlow func() *authoring.Flow) *authoring.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		s.draft = newFlow()
	}
	return s.draft
}

// Run is the attempt in progress, or nil.
func (s *Session) Run() *quiz.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run
}

// SetRun replaces the attempt in progress; nil drops it.
func (s *Session) SetRun(r *quiz.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run = r
}

// Sessions is the in-memory registry of logged-in clients. A restart logs
// everyone out.
type Sessions struct {
	mu  sync.RWMutex
	m   map[string]*Session
	now func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{m: map[string]*Session{}, now: time.Now}
}

func (s *Sessions) Start(a Actor) *Session {
	sess := &Session{ID: portal.NewID(), StartedAt: s.now(), actor: a}
	s.mu.Lock()
	s.m[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.m[id]
	return sess, ok
}

// End forgets the session along with any draft or attempt it held.
func (s *Sessions) End(id string) {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
}
