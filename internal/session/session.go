// Package session holds the identity the client acts as.
package session

import (
	"errors"
	"log/slog"
	"sync"

	"inkline/internal/pubsub"
)

// ErrSignedOut is returned by operations that need an identity.
var ErrSignedOut = errors.New("not signed in")

// Identity is the signed-in user and the bearer token issued for them.
type Identity struct {
	UserID string `yaml:"user_id"`
	Email  string `yaml:"email"`
	Token  string `yaml:"token"`
	Server string `yaml:"server,omitempty"`
}

// Persister saves identities across process runs.
type Persister interface {
	Load() (*Identity, error)
	Save(*Identity) error
	Remove() error
}

// Store owns the current identity. Consumers read it or subscribe to
// changes; only sign-in and sign-out flows write it.
type Store struct {
	mu      sync.RWMutex
	current *Identity
	persist Persister
	hub     *pubsub.Hub[*Identity]
	log     *slog.Logger
}

// NewStore creates a store backed by p. p may be nil for an in-memory store.
func NewStore(p Persister, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		persist: p,
		hub:     pubsub.NewHub[*Identity](pubsub.DefaultBuffer, log),
		log:     log,
	}
}

// Restore loads the persisted identity, if any.
func (s *Store) Restore() error {
	if s.persist == nil {
		return nil
	}
	id, err := s.persist.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = id
	s.mu.Unlock()

	if id != nil {
		s.log.Debug("session restored", "user_id", id.UserID)
	}
	return nil
}

// Current returns a copy of the identity, or nil when signed out.
func (s *Store) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Token returns the bearer token of the current identity.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Set replaces the identity and notifies subscribers.
func (s *Store) Set(id Identity) error {
	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.Save(&id); err != nil {
			s.log.Error("failed to persist session", "error", err)
			return err
		}
	}
	s.hub.Publish(&id)
	return nil
}

// Clear signs out and notifies subscribers with nil.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.Remove(); err != nil {
			s.log.Error("failed to remove session", "error", err)
			return err
		}
	}
	s.hub.Publish(nil)
	return nil
}

// Subscribe is the single place consumers learn about identity changes.
func (s *Store) Subscribe() (<-chan *Identity, func()) {
	sub, cancel := s.hub.Subscribe()
	return sub.C, cancel
}

// Close ends every subscription.
func (s *Store) Close() {
	s.hub.Close()
}
