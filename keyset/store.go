package keyset

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/axent-pl/googleidtoken/common"
	"github.com/axent-pl/googleidtoken/common/logx"
	"github.com/axent-pl/googleidtoken/jwk"
)

// cachedSet is one fetched generation of the key set. It is never
// mutated; refresh swaps the whole value.
type cachedSet struct {
	keys       jwk.Set
	fetchedAt  time.Time
	validUntil time.Time
}

// Store serves key lookups from the most recently fetched key set and
// refreshes it through the Fetcher when stale. Concurrent lookups that
// hit a stale cache share a single in-flight fetch.
type Store struct {
	Fetcher Fetcher

	// Now is the clock used for staleness checks. Defaults to time.Now;
	// replaceable in tests.
	Now func() time.Time

	current atomic.Pointer[cachedSet]
	flight  singleflight.Group
}

func NewStore(f Fetcher) *Store {
	return &Store{Fetcher: f}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Get returns the signing key for kid. A fresh cached set is consulted
// without network access; a stale set, or a kid missing from a fresh
// set, triggers exactly one refresh shared by all concurrent callers.
// After a successful refresh the lookup is retried once; a kid still
// missing then is common.ErrUnknownKeyID.
func (s *Store) Get(ctx context.Context, kid string) (jwk.Key, error) {
	if cur := s.current.Load(); cur != nil && s.now().Before(cur.validUntil) {
		if k, ok := cur.keys.Key(kid); ok {
			return k, nil
		}
	}

	if err := s.refresh(ctx); err != nil {
		return jwk.Key{}, err
	}

	if cur := s.current.Load(); cur != nil {
		if k, ok := cur.keys.Key(kid); ok {
			return k, nil
		}
	}
	return jwk.Key{}, fmt.Errorf("%w: %q", common.ErrUnknownKeyID, kid)
}

// refresh fetches a new key set and swaps it in. The fetch runs under
// singleflight so concurrent stale lookups share one network call; a
// caller whose context ends stops waiting without cancelling the fetch
// for the remaining waiters. A failed fetch is returned to every waiter
// and leaves the cache untouched, so the next lookup may try again.
func (s *Store) refresh(ctx context.Context) error {
	ch := s.flight.DoChan("refresh", func() (any, error) {
		// Deliberately not the caller's context: the result is shared.
		// The fetch is bounded by the Fetcher's own timeout.
		set, lifetime, err := s.Fetcher.Fetch(context.Background())
		if err != nil {
			logx.L().Debug("key set refresh failed", "url", s.Fetcher.URL, "error", err)
			return nil, err
		}
		now := s.now()
		s.current.Store(&cachedSet{
			keys:       set,
			fetchedAt:  now,
			validUntil: now.Add(lifetime),
		})
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", common.ErrKeyFetch, ctx.Err())
	}
}
