package service

import (
	"context"
	"sync"

	"epub-reader-engine/internal/domain"
)

// RenditionFactory produces a rendition adapter for a book. The concrete
// engine behind it is chosen at wiring time.
type RenditionFactory func(bookKey string) (domain.Rendition, error)

// SessionRegistry tracks one open SessionController per book key.
type SessionRegistry struct {
	deps    SessionDeps
	factory RenditionFactory
	logger  domain.Logger

	mu       sync.Mutex
	sessions map[string]*SessionController
}

// NewSessionRegistry creates a new session registry
func NewSessionRegistry(deps SessionDeps, factory RenditionFactory) *SessionRegistry {
	return &SessionRegistry{
		deps:     deps,
		factory:  factory,
		logger:   deps.Logger,
		sessions: make(map[string]*SessionController),
	}
}

// Open returns the existing session for bookKey or creates, opens and
// registers a new one.
func (r *SessionRegistry) Open(ctx context.Context, bookKey string) (*SessionController, error) {
	r.mu.Lock()
	if session, ok := r.sessions[bookKey]; ok {
		r.mu.Unlock()
		return session, nil
	}
	r.mu.Unlock()

	rendition, err := r.factory(bookKey)
	if err != nil {
		return nil, err
	}

	session := NewSessionController(bookKey, rendition, r.deps)
	if err := session.Open(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[bookKey]; ok {
		// Lost the race to another open; keep the first one.
		session.Close()
		return existing, nil
	}
	r.sessions[bookKey] = session
	return session, nil
}

// Get returns the open session for bookKey, or domain.ErrSessionNotFound.
func (r *SessionRegistry) Get(bookKey string) (*SessionController, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[bookKey]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Close tears down and forgets the session for bookKey. Closing a book that
// is not open is a no-op.
func (r *SessionRegistry) Close(bookKey string) {
	r.mu.Lock()
	session, ok := r.sessions[bookKey]
	delete(r.sessions, bookKey)
	r.mu.Unlock()

	if ok {
		session.Close()
	}
}

// CloseAll tears down every open session, flushing pending progress writes.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*SessionController)
	r.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
