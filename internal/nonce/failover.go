package nonce

import (
	"context"
	"sync/atomic"
	"time"

	"bookman/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverStore serves nonces from a primary store and falls back to a
// secondary when the primary errors. Tokens issued on one side are not
// visible on the other, so a failover invalidates outstanding tokens;
// forms simply re-render with fresh ones.
type FailoverStore struct {
	primary   domain.NonceStore
	fallback  domain.NonceStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed primary attempt
}

func NewFailoverStore(primary, fallback domain.NonceStore, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverStore) markDown(err error) {
	s.logger.Error().Err(err).Msg("primary nonce store failed, falling back to memory")
	s.isDown.Store(true)
	s.lastCheck.Store(time.Now().UnixNano())
}

// primaryUsable reports whether the primary should be tried. After a
// failure the primary is retried at most once per minute.
func (s *FailoverStore) primaryUsable() bool {
	if !s.isDown.Load() {
		return true
	}
	last := time.Unix(0, s.lastCheck.Load())
	return time.Since(last) > time.Minute
}

func (s *FailoverStore) Issue(ctx context.Context, scope string) (string, error) {
	if s.primaryUsable() {
		token, err := s.primary.Issue(ctx, scope)
		if err == nil {
			s.isDown.Store(false)
			return token, nil
		}
		s.markDown(err)
	}
	return s.fallback.Issue(ctx, scope)
}

func (s *FailoverStore) Consume(ctx context.Context, scope, token string) (bool, error) {
	if s.primaryUsable() {
		ok, err := s.primary.Consume(ctx, scope, token)
		if err == nil {
			s.isDown.Store(false)
			return ok, nil
		}
		s.markDown(err)
	}
	return s.fallback.Consume(ctx, scope, token)
}
