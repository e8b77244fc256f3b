package redisstore

import (
	"context"

	"github.com/iceinventory/partner-core/session"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ session.Store = (*Store)(nil)

const keyPrefix = "partner_core:"

// Store persists the session record in Redis, for deployments where the core
// runs on a shared gateway rather than a single device.
type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Set(key, value string) error {
	if err := s.rdb.Set(context.Background(), keyPrefix+key, value, 0).Err(); err != nil {
		return errors.Wrap(err, "[redisstore.Set] redis set")
	}
	return nil
}

// Get returns "" with a nil error for absent keys.
func (s *Store) Get(key string) (string, error) {
	value, err := s.rdb.Get(context.Background(), keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "[redisstore.Get] redis get")
	}
	return value, nil
}

func (s *Store) Clear(keys []string) error {
	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, keyPrefix+k)
	}
	if err := s.rdb.Del(context.Background(), prefixed...).Err(); err != nil {
		return errors.Wrap(err, "[redisstore.Clear] redis del")
	}
	return nil
}
