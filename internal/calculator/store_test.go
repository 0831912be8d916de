package calculator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStoreCreateAndGet(t *testing.T) {
	s := NewStore(StoreOptions{})

	id, st, err := s.Create()
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected UUID session id, got %q: %v", id, err)
	}
	if st.Display != "0" {
		t.Fatalf("expected display %q, got %q", "0", st.Display)
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("getting session: %v", err)
	}
	if got != st {
		t.Fatalf("expected %+v, got %+v", st, got)
	}
}

func TestStorePressKeepsStateBetweenCalls(t *testing.T) {
	s := NewStore(StoreOptions{})
	id, _, err := s.Create()
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	if _, err := s.Press(id, []Key{Digit5, Add, Digit5}, nil); err != nil {
		t.Fatalf("pressing keys: %v", err)
	}

	var seen []string
	st, err := s.Press(id, []Key{Equals, Equals}, func(i int, k Key, st State) {
		seen = append(seen, st.Display)
	})
	if err != nil {
		t.Fatalf("pressing keys: %v", err)
	}

	if st.Display != "15" {
		t.Fatalf("expected display %q, got %q", "15", st.Display)
	}
	if len(seen) != 2 || seen[0] != "10" || seen[1] != "15" {
		t.Fatalf("expected steps [10 15], got %v", seen)
	}
}

func TestStoreUnknownSession(t *testing.T) {
	s := NewStore(StoreOptions{})

	if _, err := s.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Get: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := s.Press("missing", []Key{Digit1}, nil); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Press: expected ErrSessionNotFound, got %v", err)
	}
	if err := s.Delete("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Delete: expected ErrSessionNotFound, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(StoreOptions{})
	id, _, _ := s.Create()

	if err := s.Delete(id); err != nil {
		t.Fatalf("deleting session: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", s.Len())
	}
	if _, err := s.Get(id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestStoreMaxSessions(t *testing.T) {
	s := NewStore(StoreOptions{MaxSessions: 2})

	for i := 0; i < 2; i++ {
		if _, _, err := s.Create(); err != nil {
			t.Fatalf("creating session %d: %v", i, err)
		}
	}

	if _, _, err := s.Create(); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}
}

func TestStoreSweepRemovesIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(StoreOptions{TTL: time.Minute})
	s.now = func() time.Time { return now }

	stale, _, _ := s.Create()
	now = now.Add(45 * time.Second)
	fresh, _, _ := s.Create()

	now = now.Add(30 * time.Second)
	if removed := s.Sweep(now); removed != 1 {
		t.Fatalf("expected 1 session removed, got %d", removed)
	}

	if _, err := s.Get(stale); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected stale session to be gone, got %v", err)
	}
	if _, err := s.Get(fresh); err != nil {
		t.Fatalf("expected fresh session to survive: %v", err)
	}
}

func TestStoreRejectsPressOnSweptSession(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(StoreOptions{TTL: time.Minute})
	s.now = func() time.Time { return now }

	id, _, _ := s.Create()
	sess, err := s.lookup(id)
	if err != nil {
		t.Fatalf("looking up session: %v", err)
	}

	// The sweep lands between lookup and the session lock.
	if removed := s.Sweep(now.Add(2 * time.Minute)); removed != 1 {
		t.Fatalf("expected 1 session removed, got %d", removed)
	}

	if _, err := s.press(sess, []Key{Digit7}, nil); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("press: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := s.state(sess); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("state: expected ErrSessionNotFound, got %v", err)
	}
	if got := sess.engine.Display(); got != "0" {
		t.Fatalf("expected detached engine untouched, got display %q", got)
	}
}

func TestStoreRejectsPressOnDeletedSession(t *testing.T) {
	s := NewStore(StoreOptions{})
	id, _, _ := s.Create()
	sess, err := s.lookup(id)
	if err != nil {
		t.Fatalf("looking up session: %v", err)
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("deleting session: %v", err)
	}
	if _, err := s.press(sess, []Key{Digit7}, nil); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStoreSweepWithoutTTLKeepsSessions(t *testing.T) {
	s := NewStore(StoreOptions{})
	s.Create()

	if removed := s.Sweep(time.Now().Add(24 * time.Hour)); removed != 0 {
		t.Fatalf("expected nothing removed, got %d", removed)
	}
}

func TestStoreRunStopsOnCancel(t *testing.T) {
	s := NewStore(StoreOptions{TTL: time.Nanosecond})
	s.Create()

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 1)
	done := make(chan struct{})

	go func() {
		s.Run(ctx, time.Millisecond, func(removed int) {
			select {
			case swept <- removed:
			default:
			}
		})
		close(done)
	}()

	select {
	case <-swept:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a sweep to run")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("expected Run to return after cancel")
	}

	if s.Len() != 0 {
		t.Fatalf("expected expired session to be swept, got %d", s.Len())
	}
}

func TestStoreConcurrentPresses(t *testing.T) {
	s := NewStore(StoreOptions{})
	id, _, _ := s.Create()
	s.Press(id, []Key{Digit0, Add, Digit1, Equals}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Press(id, []Key{Equals}, nil)
		}()
	}
	wg.Wait()

	st, err := s.Get(id)
	if err != nil {
		t.Fatalf("getting session: %v", err)
	}
	if st.Display != "51" {
		t.Fatalf("expected display %q, got %q", "51", st.Display)
	}
}
