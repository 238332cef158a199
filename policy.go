// Package googleidtoken verifies ID tokens issued by Google Sign-In and
// Firebase Authentication against Google's published signing keys.
package googleidtoken

import "time"

const (
	// GoogleSignInCertsURL is the JWKS endpoint for Google Sign-In keys.
	GoogleSignInCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

	// FirebaseCertsURL is the JWKS endpoint for the Firebase
	// Authentication token signer.
	FirebaseCertsURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

	firebaseIssuerPrefix = "https://securetoken.google.com/"
)

// DefaultLeeway is the clock-skew tolerance applied to exp and iat when
// the policy does not set one.
const DefaultLeeway = 10 * time.Second

// Policy fixes what a verified token must contain: the audience it was
// issued for, the issuers allowed to have issued it, and the signing
// algorithm the certs endpoint uses.
type Policy struct {
	Audience  string
	Issuers   []string
	Algorithm string
	CertsURL  string

	// Leeway for exp and iat comparisons. Zero means DefaultLeeway.
	Leeway time.Duration

	// CheckAuthTime additionally requires the auth_time claim to not
	// lie in the future. Set by the Firebase policy.
	CheckAuthTime bool
}

// GoogleSignInPolicy is the validation policy for tokens obtained
// through Google Sign-In with the given OAuth client id.
func GoogleSignInPolicy(clientID string) Policy {
	return Policy{
		Audience:  clientID,
		Issuers:   []string{"https://accounts.google.com", "accounts.google.com"},
		Algorithm: "RS256",
		CertsURL:  GoogleSignInCertsURL,
	}
}

// FirebasePolicy is the validation policy for Firebase Authentication
// tokens of the given project.
func FirebasePolicy(projectID string) Policy {
	return Policy{
		Audience:      projectID,
		Issuers:       []string{firebaseIssuerPrefix + projectID},
		Algorithm:     "RS256",
		CertsURL:      FirebaseCertsURL,
		CheckAuthTime: true,
	}
}

func (p Policy) leeway() time.Duration {
	if p.Leeway > 0 {
		return p.Leeway
	}
	return DefaultLeeway
}

func (p Policy) acceptsIssuer(iss string) bool {
	for _, allowed := range p.Issuers {
		if iss == allowed {
			return true
		}
	}
	return false
}
