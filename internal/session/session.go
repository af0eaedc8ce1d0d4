// Package session holds the authentication state consulted by request
// interception: whether the process is authenticated, the credential
// material authorizers derive headers from, and the invalidation side
// effects a 401 triggers.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sessionkit/sessionkit-go/internal/authorize"
)

// Session is the authority over authentication state. It resolves named
// authorizers against its registry, persists state transitions through its
// store, and notifies listeners when the session is invalidated.
//
// Safe for concurrent use from multiple in-flight requests.
type Session struct {
	mu       sync.RWMutex
	state    State
	store    Store
	registry *authorize.Registry

	listenMu     sync.Mutex
	onInvalidate []func()
}

// New builds a Session backed by store, restoring persisted state when
// present. A nil registry gets the built-in strategies.
func New(store Store, registry *authorize.Registry) (*Session, error) {
	if registry == nil {
		registry = authorize.Default()
	}
	st, err := store.Load()
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = &State{ID: uuid.NewString(), UpdatedAt: time.Now().UTC()}
	}
	return &Session{state: *st.clone(), store: store, registry: registry}, nil
}

func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ID
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// Authorize resolves authorizerID and invokes it with the session's current
// credentials. The authorizer runs outside the session lock on a snapshot of
// the credentials, so emit callbacks may call back into the session.
// An id that resolves to nothing emits no headers.
func (s *Session) Authorize(authorizerID string, emit authorize.EmitFunc) {
	a, ok := s.registry.Lookup(authorizerID)
	if !ok {
		slog.Warn("authorize", "id", authorizerID, "err", "unknown authorizer")
		return
	}
	s.mu.RLock()
	creds := make(authorize.Credentials, len(s.state.Credentials))
	for k, v := range s.state.Credentials {
		creds[k] = v
	}
	s.mu.RUnlock()

	a.Authorize(creds, emit)
}

// Authenticate stores creds, marks the session authenticated and persists
// the transition.
func (s *Session) Authenticate(creds authorize.Credentials) error {
	s.mu.Lock()
	s.state.Authenticated = true
	s.state.Credentials = creds
	s.state.UpdatedAt = time.Now().UTC()
	st := s.state.clone()
	s.mu.Unlock()

	if err := s.store.Save(st); err != nil {
		return err
	}
	slog.Info("session", "id", st.ID, "event", "authenticated")
	return nil
}

// Invalidate transitions the session to unauthenticated, clears credentials,
// persists the transition and notifies listeners. Invalidating an already
// unauthenticated session is a no-op and notifies nobody.
func (s *Session) Invalidate() {
	s.mu.Lock()
	if !s.state.Authenticated {
		s.mu.Unlock()
		return
	}
	s.state.Authenticated = false
	s.state.Credentials = nil
	s.state.UpdatedAt = time.Now().UTC()
	st := s.state.clone()
	s.mu.Unlock()

	if err := s.store.Save(st); err != nil {
		slog.Error("session", "id", st.ID, "event", "invalidate_persist", "err", err)
	}
	slog.Info("session", "id", st.ID, "event", "invalidated")
	s.notifyInvalidate()
}

// OnInvalidate registers fn to run after each authenticated->unauthenticated
// transition.
func (s *Session) OnInvalidate(fn func()) {
	s.listenMu.Lock()
	s.onInvalidate = append(s.onInvalidate, fn)
	s.listenMu.Unlock()
}

func (s *Session) notifyInvalidate() {
	s.listenMu.Lock()
	listeners := make([]func(), len(s.onInvalidate))
	copy(listeners, s.onInvalidate)
	s.listenMu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Reload re-reads the store and applies external transitions. A store that
// went away or turned unauthenticated while the in-memory session is
// authenticated counts as an external logout and runs the invalidation path.
func (s *Session) Reload() error {
	st, err := s.store.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	wasAuthed := s.state.Authenticated
	if st == nil {
		s.state.Authenticated = false
		s.state.Credentials = nil
	} else {
		s.state = *st.clone()
	}
	nowAuthed := s.state.Authenticated
	s.mu.Unlock()

	if wasAuthed && !nowAuthed {
		slog.Info("session", "id", s.ID(), "event", "invalidated_externally")
		s.notifyInvalidate()
	}
	return nil
}
