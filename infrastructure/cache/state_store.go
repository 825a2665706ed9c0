package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// stateTTL bounds how long an authorization may sit between the redirect
// and the callback.
const stateTTL = 10 * time.Minute

// StateStore keeps OAuth state tokens in Redis so callbacks can be served
// by any instance. Without Redis it degrades to an in-process map, which is
// fine for a single node.
type StateStore struct {
	client *redis.Client

	mu     sync.Mutex
	states map[string]time.Time // key -> expiry, fallback only
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client, states: map[string]time.Time{}}
}

func stateKey(platform, state string) string {
	return "oauth_state:" + platform + ":" + state
}

func (s *StateStore) Put(ctx context.Context, platform, state string) error {
	if s.client != nil {
		return s.client.Set(ctx, stateKey(platform, state), "1", stateTTL).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[stateKey(platform, state)] = time.Now().Add(stateTTL)
	return nil
}

// Consume reports whether the state was issued by us and removes it, so a
// state can only be redeemed once.
func (s *StateStore) Consume(ctx context.Context, platform, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	key := stateKey(platform, state)
	if s.client != nil {
		n, err := s.client.Del(ctx, key).Result()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[key]
	if !ok {
		return false, nil
	}
	delete(s.states, key)
	return time.Now().Before(exp), nil
}
