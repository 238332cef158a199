// Package keyset fetches and caches Google's published signing keys
// according to the Cache-Control lifetime of the certs endpoint.
package keyset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pquerna/cachecontrol/cacheobject"

	"github.com/axent-pl/googleidtoken/common"
	"github.com/axent-pl/googleidtoken/jwk"
)

const (
	// DefaultLifetime is used when the response carries no usable
	// max-age directive. Short on purpose: caching an unknown-lifetime
	// key set indefinitely would defeat key rotation.
	DefaultLifetime = 5 * time.Minute

	// DefaultTimeout bounds a single fetch so a hung endpoint cannot
	// hold single-flight waiters forever.
	DefaultTimeout = 10 * time.Second
)

// Fetcher performs one GET against a certs endpoint and parses the
// response into a key set plus its cache lifetime. It holds no cache
// state itself.
type Fetcher struct {
	URL        string
	HTTPClient *http.Client  // optional; defaults to http.DefaultClient
	Timeout    time.Duration // optional; defaults to DefaultTimeout
}

// Fetch downloads and parses the key-set document. Every failure wraps
// common.ErrKeyFetch.
func (f Fetcher) Fetch(ctx context.Context) (jwk.Set, time.Duration, error) {
	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return jwk.Set{}, 0, fmt.Errorf("%w: request build failed: %v", common.ErrKeyFetch, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return jwk.Set{}, 0, fmt.Errorf("%w: %v", common.ErrKeyFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return jwk.Set{}, 0, fmt.Errorf("%w: unexpected status %s", common.ErrKeyFetch, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return jwk.Set{}, 0, fmt.Errorf("%w: %v", common.ErrKeyFetch, err)
	}

	set, err := jwk.ParseSet(body)
	if err != nil {
		return jwk.Set{}, 0, fmt.Errorf("%w: %v", common.ErrKeyFetch, err)
	}

	return set, lifetimeFromHeader(resp.Header.Get("Cache-Control")), nil
}

// lifetimeFromHeader extracts max-age. An absent or unparsable header
// falls back to DefaultLifetime rather than failing the fetch.
func lifetimeFromHeader(value string) time.Duration {
	if value == "" {
		return DefaultLifetime
	}
	directives, err := cacheobject.ParseResponseCacheControl(value)
	if err != nil || directives.MaxAge <= 0 {
		return DefaultLifetime
	}
	return time.Duration(directives.MaxAge) * time.Second
}
