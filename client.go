package googleidtoken

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/axent-pl/googleidtoken/keyset"
	"github.com/axent-pl/googleidtoken/token"
)

// Client binds a validation policy to a key store and is the single
// entry point for verification. Each Client owns its own key cache;
// independent policies (for example one Sign-In and one Firebase
// client) never share state.
//
// Optional fields must be set before the first Verify call.
type Client struct {
	Policy Policy

	HTTPClient   *http.Client  // optional; defaults to http.DefaultClient
	FetchTimeout time.Duration // optional; bounds one key fetch

	// Now is the clock used for claim validation and cache staleness.
	// Defaults to time.Now; replaceable in tests.
	Now func() time.Time

	initOnce sync.Once
	keys     *keyset.Store
}

// NewGoogleSignIn builds a Client verifying Google Sign-In tokens
// issued for the given OAuth client id.
func NewGoogleSignIn(clientID string) *Client {
	return &Client{Policy: GoogleSignInPolicy(clientID)}
}

// NewFirebase builds a Client verifying Firebase Authentication tokens
// of the given project.
func NewFirebase(projectID string) *Client {
	return &Client{Policy: FirebasePolicy(projectID)}
}

func (c *Client) init() {
	c.initOnce.Do(func() {
		c.keys = keyset.NewStore(keyset.Fetcher{
			URL:        c.Policy.CertsURL,
			HTTPClient: c.HTTPClient,
			Timeout:    c.FetchTimeout,
		})
		c.keys.Now = c.Now
	})
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Verify decodes raw, checks its signature against the currently
// published signing keys, and validates its claims against the policy.
// The call blocks on network I/O only when the key cache is stale; ctx
// bounds that wait.
func (c *Client) Verify(ctx context.Context, raw string) (*IdToken, error) {
	c.init()
	decoded, err := token.Decode(raw)
	if err != nil {
		return nil, err
	}
	return verify(ctx, decoded, c.keys, c.Policy, c.now())
}

// Result carries the outcome of an asynchronous verification.
type Result struct {
	Token *IdToken
	Err   error
}

// VerifyAsync runs Verify off the calling goroutine and delivers the
// outcome on the returned channel. The channel is buffered, so the
// result never blocks on an abandoned receiver.
func (c *Client) VerifyAsync(ctx context.Context, raw string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		t, err := c.Verify(ctx, raw)
		out <- Result{Token: t, Err: err}
	}()
	return out
}
