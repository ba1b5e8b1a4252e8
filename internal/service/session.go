package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"ckdscreen/internal/models"

	"github.com/google/uuid"
)

const defaultSessionTTL = 30 * time.Minute

// ErrSessionNotFound is returned when an operation targets a session that
// never existed, was ended, or has expired.
var ErrSessionNotFound = errors.New("session not found")

// Session is the ephemeral per-login state. Every new session starts with
// no report and no result; nothing in it is ever written to durable
// storage.
type Session struct {
	ID        string                  `json:"id"`
	UserID    int                     `json:"user_id"`
	Username  string                  `json:"username"`
	Report    *models.LabReport       `json:"report,omitempty"`
	Result    *models.ScreeningResult `json:"result,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	LastSeen  time.Time               `json:"last_seen"`
}

// SessionService is an in-memory session registry. All access goes through
// the mutex; callers get copies, never pointers into the map.
type SessionService struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
}

func NewSessionService(ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionService{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

var _ Sessions = (*SessionService)(nil)

// Start creates a fresh session for the user and returns a snapshot of it.
func (s *SessionService) Start(userID int, username string) Session {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		LastSeen:  now,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return *sess
}

// Get returns a snapshot of the session and refreshes its last-seen time.
// An expired session is removed and reported as missing.
func (s *SessionService) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.lookup(id)
	if sess == nil {
		return Session{}, false
	}
	sess.LastSeen = time.Now().UTC()
	return sess.snapshot(), true
}

// Peek returns a snapshot without touching last-seen. Passive observers
// like the websocket stream use it so watching a session does not keep it
// alive past its TTL.
func (s *SessionService) Peek(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.lookup(id)
	if sess == nil {
		return Session{}, false
	}
	return sess.snapshot(), true
}

// SetReport stores the lab report on the session.
func (s *SessionService) SetReport(id string, r models.LabReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.lookup(id)
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.Report = &r
	sess.LastSeen = time.Now().UTC()
	return nil
}

// SetResult stores the latest screening result on the session.
func (s *SessionService) SetResult(id string, res models.ScreeningResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.lookup(id)
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.Result = &res
	sess.LastSeen = time.Now().UTC()
	return nil
}

// End removes the session. Reports whether a live session was ended.
func (s *SessionService) End(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookup(id) == nil {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Run sweeps expired sessions at the given interval until ctx is canceled.
func (s *SessionService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(now.UTC())
		}
	}
}

// snapshot returns a copy detached from the map, including the report and
// result, so callers can never mutate stored state.
func (s *Session) snapshot() Session {
	out := *s
	if s.Report != nil {
		r := *s.Report
		out.Report = &r
	}
	if s.Result != nil {
		res := *s.Result
		out.Result = &res
	}
	return out
}

// lookup returns the live session or nil, dropping it if expired.
// Caller must hold s.mu.
func (s *SessionService) lookup(id string) *Session {
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if time.Since(sess.LastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil
	}
	return sess
}

func (s *SessionService) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
