package googleidtoken

import (
	"encoding/json"
	"time"
)

// IdToken is the result of a successful verification. All fields come
// from the token payload after the signature and claim checks passed.
type IdToken struct {
	Subject         string
	Issuer          string
	Audience        string
	AuthorizedParty string
	Expiry          time.Time
	IssuedAt        time.Time

	// AuthTime is when the end user originally authenticated. Zero for
	// Google Sign-In tokens, which do not carry auth_time.
	AuthTime time.Time

	// Profile fields, present when the corresponding scopes were
	// granted. Empty otherwise.
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
	GivenName     string
	FamilyName    string
	Locale        string
	HostedDomain  string
	PhoneNumber   string

	payload []byte
}

// Claims decodes the full token payload into v, for callers that need
// custom claims beyond the exposed fields.
func (t *IdToken) Claims(v any) error {
	return json.Unmarshal(t.payload, v)
}

// profileClaims is the optional payload subset surfaced on IdToken.
type profileClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Locale        string `json:"locale"`
	HostedDomain  string `json:"hd"`
	PhoneNumber   string `json:"phone_number"`
}
