package repofakes

import (
	"sync"

	"github.com/iceinventory/partner-core/session"
)

var _ session.Store = (*FakeStore)(nil)

// FakeStore is a thread-safe in-memory Store that counts operations so tests
// can assert on read-only paths.
type FakeStore struct {
	lock   sync.RWMutex
	values map[string]string

	SetCalls   int
	GetCalls   int
	ClearCalls int

	SetErr   error
	ClearErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{values: make(map[string]string)}
}

func (s *FakeStore) Set(key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.SetCalls++
	if s.SetErr != nil {
		return s.SetErr
	}
	s.values[key] = value
	return nil
}

func (s *FakeStore) Get(key string) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.GetCalls++
	return s.values[key], nil
}

func (s *FakeStore) Clear(keys []string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.ClearCalls++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Seed writes a value without bumping the call counters.
func (s *FakeStore) Seed(key, value string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values[key] = value
}

// Len returns the number of stored keys.
func (s *FakeStore) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.values)
}
