// Package inmemstore keeps sessions in process memory. It backs tests and
// single-instance dev runs; anything else wants the redis store.
package inmemstore

import (
	"context"
	"sync"
	"time"

	"github.com/gradegator/dashboard/core/session"
)

type entry struct {
	sess      session.Session
	expiresAt time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
}

var _ session.Store = (*Store)(nil)

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]entry),
		ttl:      ttl,
	}
}

func (s *Store) GetSession(_ context.Context, id string) (session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.sessions[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	if time.Now().After(ent.expiresAt) {
		delete(s.sessions, id)
		return session.Session{}, session.ErrNotFound
	}
	return ent.sess, nil
}

func (s *Store) SaveSession(_ context.Context, sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = entry{sess: sess, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
