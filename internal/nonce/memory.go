package nonce

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps issued tokens in process memory. It is the fallback
// behind the failover wrapper and the default when redis is not
// configured; tokens do not survive a restart.
type MemoryStore struct {
	tokens sync.Map // "scope:token" -> expiry time.Time
	ttl    time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl}
}

func (s *MemoryStore) Issue(ctx context.Context, scope string) (string, error) {
	token := uuid.NewString()
	s.tokens.Store(scope+":"+token, time.Now().Add(s.ttl))
	return token, nil
}

func (s *MemoryStore) Consume(ctx context.Context, scope, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	val, ok := s.tokens.LoadAndDelete(scope + ":" + token)
	if !ok {
		return false, nil
	}
	expiry := val.(time.Time)
	if time.Now().After(expiry) {
		return false, nil
	}
	return true, nil
}
