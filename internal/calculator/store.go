package calculator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// StoreOptions bounds the number and lifetime of sessions.
// Zero values disable the respective limit.
type StoreOptions struct {
	MaxSessions int
	TTL         time.Duration
}

type session struct {
	mu       sync.Mutex
	engine   *Engine
	lastUsed time.Time
	// removed is set under mu once the session leaves the store, so a
	// caller that looked it up earlier sees ErrSessionNotFound.
	removed bool
}

// Store keeps one Engine per session id. Key presses on the same session are
// serialized so each engine keeps a single writer.
type Store struct {
	opts StoreOptions
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewStore(opts StoreOptions) *Store {
	return &Store{
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Create starts a new session with a cleared engine.
func (s *Store) Create() (string, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.MaxSessions > 0 && len(s.sessions) >= s.opts.MaxSessions {
		return "", State{}, ErrTooManySessions
	}

	id := uuid.New().String()
	sess := &session{engine: NewEngine(), lastUsed: s.now()}
	s.sessions[id] = sess

	return id, sess.engine.State(), nil
}

// Get returns the current state of a session.
func (s *Store) Get(id string) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}
	return s.state(sess)
}

// Press applies keys to a session in order. fn, when non-nil, is called with
// the state after every key while the session is locked.
func (s *Store) Press(id string, keys []Key, fn func(i int, k Key, st State)) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}
	return s.press(sess, keys, fn)
}

func (s *Store) state(sess *session) (State, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.removed {
		return State{}, ErrSessionNotFound
	}
	sess.lastUsed = s.now()
	return sess.engine.State(), nil
}

func (s *Store) press(sess *session, keys []Key, fn func(i int, k Key, st State)) (State, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.removed {
		return State{}, ErrSessionNotFound
	}
	sess.lastUsed = s.now()
	return Run(sess.engine, keys, fn), nil
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)

	sess.mu.Lock()
	sess.removed = true
	sess.mu.Unlock()
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.opts.TTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := now.Sub(sess.lastUsed) > s.opts.TTL
		if expired {
			sess.removed = true
		}
		sess.mu.Unlock()

		if expired {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done. onSweep, when
// non-nil, receives the number of sessions removed by each sweep.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			removed := s.Sweep(t)
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

func (s *Store) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Run feeds keys to e and returns the final state. fn, when non-nil, sees
// the state after each key.
func Run(e *Engine, keys []Key, fn func(i int, k Key, st State)) State {
	for i, k := range keys {
		e.Handle(k)
		if fn != nil {
			fn(i, k, e.State())
		}
	}
	return e.State()
}
