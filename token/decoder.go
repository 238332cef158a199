// Package token splits and decodes a compact ID token into its header,
// claims, and signature without verifying anything.
package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	jwtx "github.com/golang-jwt/jwt/v5"

	"github.com/axent-pl/googleidtoken/common"
)

type Header struct {
	Algorithm string `json:"alg"`
	KeyID     string `json:"kid"`
	Type      string `json:"typ,omitempty"`
}

// Claims are the registered claims read out of the payload. They are
// untrusted until the signature over Decoded.SignedBytes has verified.
type Claims struct {
	Issuer          string            `json:"iss"`
	Subject         string            `json:"sub"`
	Audience        jwtx.ClaimStrings `json:"aud"`
	AuthorizedParty string            `json:"azp,omitempty"`
	IssuedAt        int64             `json:"iat"`
	Expiry          int64             `json:"exp"`
	AuthTime        int64             `json:"auth_time,omitempty"`
}

// Decoded is the structural decomposition of a token. SignedBytes is
// the verbatim `header "." payload` span of the input; signatures are
// checked against it and never against a re-serialized payload.
type Decoded struct {
	Header      Header
	Claims      Claims
	Payload     []byte
	SignedBytes []byte
	Signature   []byte
}

func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "="))
}

// Decode splits raw into its three segments and decodes each. Every
// failure wraps common.ErrMalformedToken.
func Decode(raw string) (*Decoded, error) {
	segments := strings.Split(raw, ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", common.ErrMalformedToken, len(segments))
	}

	headerBytes, err := decodeSegment(segments[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", common.ErrMalformedToken, err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", common.ErrMalformedToken, err)
	}
	if header.Algorithm == "" {
		return nil, fmt.Errorf("%w: header missing alg", common.ErrMalformedToken)
	}
	if header.KeyID == "" {
		return nil, fmt.Errorf("%w: header missing kid", common.ErrMalformedToken)
	}

	payload, err := decodeSegment(segments[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", common.ErrMalformedToken, err)
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", common.ErrMalformedToken, err)
	}

	signature, err := decodeSegment(segments[2])
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %v", common.ErrMalformedToken, err)
	}

	return &Decoded{
		Header:      header,
		Claims:      claims,
		Payload:     payload,
		SignedBytes: []byte(raw[:len(segments[0])+1+len(segments[1])]),
		Signature:   signature,
	}, nil
}
