package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Policy document keys.
const (
	PolicyRefund              = "refund_policy"
	PolicyFacilitiesException = "facilities_exception"
)

const policyCachePrefix = "policy:doc:"

// PolicyLoader fetches a policy document from the authoritative store.
type PolicyLoader interface {
	LoadPolicy(ctx context.Context, key string) (string, error)
}

// PolicyStore supplies refund-policy documents by key, caching them with a
// TTL. Stale reads within the TTL are acceptable; policy documents change
// rarely.
type PolicyStore interface {
	GetPolicy(ctx context.Context, key string) (string, error)
}

// CachedPolicyStore is a redis-backed TTL cache in front of a PolicyLoader.
// Last writer wins on refresh.
type CachedPolicyStore struct {
	Loader PolicyLoader
	Cache  *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func (s *CachedPolicyStore) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}

func (s *CachedPolicyStore) GetPolicy(ctx context.Context, key string) (string, error) {
	cacheKey := policyCachePrefix + key

	if s.Cache != nil {
		doc, err := s.Cache.Get(ctx, cacheKey).Result()
		if err == nil {
			return doc, nil
		}
		if err != redis.Nil {
			s.logger().Warn("Policy cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	doc, err := s.Loader.LoadPolicy(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load policy %q: %w", key, err)
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, cacheKey, doc, s.TTL).Err(); err != nil {
			s.logger().Warn("Policy cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return doc, nil
}

// StaticPolicyLoader serves the built-in policy documents. Stands in for the
// external policy store collaborator in development and tests.
type StaticPolicyLoader struct{}

var builtinPolicies = map[string]string{
	PolicyRefund: `Refund eligibility policy:
- Cancellations 7 or more days before the event date are refundable when the
  booking is confirmed and the pass has not been used.
- Bookings whose pass was used (completed or checked out) are not refundable.
- Events already in the past with no usage evidence are not refundable.
- Cancellations inside the 7-day window require case-by-case review of the
  stated circumstances.
- Duplicate bookings: the unused duplicate is refundable once the used (or
  later-starting) booking is identified.`,
	PolicyFacilitiesException: `Facilities exception:
A refund is approved regardless of timing when the customer reports a
facility malfunction: broken gate or barrier, unreadable or rejected pass,
closed garage, equipment failure, or inability to enter or exit the
facility.`,
}

func (StaticPolicyLoader) LoadPolicy(_ context.Context, key string) (string, error) {
	doc, ok := builtinPolicies[key]
	if !ok {
		return "", fmt.Errorf("unknown policy key %q", key)
	}
	return doc, nil
}
