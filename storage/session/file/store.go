// Package filestore persists a single session as a JSON file. It is the CLI
// counterpart of the browser's local storage: the identity blob survives
// process restarts and is reconciled against the server on the next run.
package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core/session"
)

type Store struct {
	path string
}

var _ session.Store = (*Store)(nil)

// NewStore stores the session blob at path, creating parent directories on
// first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted session regardless of id; the CLI keeps at most
// one.
func (s *Store) Load() (session.Session, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, errors.Wrap(err, "reading session file")
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding session file")
	}
	if sess.ID == "" {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *Store) GetSession(_ context.Context, id string) (session.Session, error) {
	sess, err := s.Load()
	if err != nil {
		return session.Session{}, err
	}
	if sess.ID != id {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *Store) SaveSession(_ context.Context, sess session.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return nil
}

func (s *Store) DeleteSession(_ context.Context, _ string) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
