package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/iceinventory/partner-core/session"
	"github.com/pkg/errors"
)

var _ session.Store = (*Store)(nil)

// Store is a durable key-value store backed by a single JSON file. It stands
// in for the mobile platform's key-value storage when the core runs
// headless. Writes rewrite the whole file; there is no transactionality
// across keys.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// New opens (or creates) the store file inside folder.
func New(folder string) (*Store, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, errors.Wrap(err, "[filestore.New] create data folder")
	}
	s := &Store{
		path:   filepath.Join(folder, "session.json"),
		values: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "[filestore.load] read store file")
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return errors.Wrap(err, "[filestore.load] parse store file")
	}
	return nil
}

func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[filestore.flush] marshal values")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[filestore.flush] write store file")
	}
	return nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

// Get returns "" with a nil error for absent keys.
func (s *Store) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *Store) Clear(keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return s.flush()
}
