package googleidtoken

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	jwtx "github.com/golang-jwt/jwt/v5"

	"github.com/axent-pl/googleidtoken/common"
	"github.com/axent-pl/googleidtoken/common/logx"
	"github.com/axent-pl/googleidtoken/keyset"
	"github.com/axent-pl/googleidtoken/token"
)

// verify runs the fixed check sequence: algorithm, key lookup,
// signature, then claims. The order is load-bearing; in particular the
// claims are only trusted once the signature over the decoded token's
// original byte span has verified.
func verify(ctx context.Context, decoded *token.Decoded, keys *keyset.Store, policy Policy, now time.Time) (*IdToken, error) {
	if decoded.Header.Algorithm != policy.Algorithm {
		logx.L().Debug("rejected token algorithm", "alg", decoded.Header.Algorithm, "want", policy.Algorithm)
		return nil, fmt.Errorf("%w: %q", common.ErrAlgorithmMismatch, decoded.Header.Algorithm)
	}
	method := jwtx.GetSigningMethod(policy.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("%w: %q not registered", common.ErrAlgorithmMismatch, policy.Algorithm)
	}

	key, err := keys.Get(ctx, decoded.Header.KeyID)
	if err != nil {
		return nil, err
	}
	pub, err := key.PublicKey()
	if err != nil {
		// ParseSet only admits keys with usable material.
		return nil, fmt.Errorf("%w: %v", common.ErrKeyFetch, err)
	}

	if err := method.Verify(string(decoded.SignedBytes), decoded.Signature, pub); err != nil {
		logx.L().Debug("rejected token signature", "kid", decoded.Header.KeyID, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidSignature, err)
	}

	if err := validateClaims(decoded.Claims, policy, now); err != nil {
		return nil, err
	}

	return buildIdToken(decoded)
}

func validateClaims(claims token.Claims, policy Policy, now time.Time) error {
	if !policy.acceptsIssuer(claims.Issuer) {
		return fmt.Errorf("%w: %q", common.ErrIssuerMismatch, claims.Issuer)
	}

	if !audienceMatches(claims.Audience, policy.Audience) {
		return fmt.Errorf("%w: %q", common.ErrAudienceMismatch, []string(claims.Audience))
	}

	leeway := policy.leeway()
	expiry := time.Unix(claims.Expiry, 0)
	if !now.Before(expiry.Add(leeway)) {
		return fmt.Errorf("%w: at %s", common.ErrTokenExpired, expiry.UTC().Format(time.RFC3339))
	}
	issuedAt := time.Unix(claims.IssuedAt, 0)
	if issuedAt.After(now.Add(leeway)) {
		return fmt.Errorf("%w: iat %s", common.ErrTokenNotYetValid, issuedAt.UTC().Format(time.RFC3339))
	}
	if policy.CheckAuthTime && claims.AuthTime > 0 {
		authTime := time.Unix(claims.AuthTime, 0)
		if authTime.After(now.Add(leeway)) {
			return fmt.Errorf("%w: auth_time %s", common.ErrTokenNotYetValid, authTime.UTC().Format(time.RFC3339))
		}
	}
	return nil
}

func audienceMatches(aud []string, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}

func buildIdToken(decoded *token.Decoded) (*IdToken, error) {
	var profile profileClaims
	if err := json.Unmarshal(decoded.Payload, &profile); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", common.ErrMalformedToken, err)
	}

	t := &IdToken{
		Subject:         decoded.Claims.Subject,
		Issuer:          decoded.Claims.Issuer,
		AuthorizedParty: decoded.Claims.AuthorizedParty,
		Expiry:          time.Unix(decoded.Claims.Expiry, 0),
		IssuedAt:        time.Unix(decoded.Claims.IssuedAt, 0),
		Email:           profile.Email,
		EmailVerified:   profile.EmailVerified,
		Name:            profile.Name,
		Picture:         profile.Picture,
		GivenName:       profile.GivenName,
		FamilyName:      profile.FamilyName,
		Locale:          profile.Locale,
		HostedDomain:    profile.HostedDomain,
		PhoneNumber:     profile.PhoneNumber,
		payload:         decoded.Payload,
	}
	if len(decoded.Claims.Audience) > 0 {
		t.Audience = decoded.Claims.Audience[0]
	}
	if decoded.Claims.AuthTime > 0 {
		t.AuthTime = time.Unix(decoded.Claims.AuthTime, 0)
	}
	return t, nil
}
