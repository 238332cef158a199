// Package jwk models the public signing keys Google publishes as a JSON
// Web Key Set document.
package jwk

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/axent-pl/googleidtoken/common/logx"
)

// Key is a single published signing key. Immutable once parsed.
type Key struct {
	ID        string `json:"kid"`
	Type      string `json:"kty"`
	Algorithm string `json:"alg,omitempty"`
	Use       string `json:"use,omitempty"`

	// RSA
	N string `json:"n,omitempty"`
	E string `json:"e,omitempty"`

	// EC
	Curve string `json:"crv,omitempty"`
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
}

func b64uToBigInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, errors.New("empty base64url")
	}
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// PublicKey reconstructs the crypto.PublicKey from the JWK fields.
func (k Key) PublicKey() (crypto.PublicKey, error) {
	switch strings.ToUpper(k.Type) {
	case "RSA":
		n, err := b64uToBigInt(k.N)
		if err != nil {
			return nil, fmt.Errorf("rsa n: %w", err)
		}
		eBig, err := b64uToBigInt(k.E)
		if err != nil {
			return nil, fmt.Errorf("rsa e: %w", err)
		}
		if !eBig.IsInt64() || eBig.Int64() > int64(^uint32(0)>>1) {
			return nil, errors.New("rsa exponent too large")
		}
		return &rsa.PublicKey{N: n, E: int(eBig.Int64())}, nil

	case "EC":
		var curve elliptic.Curve
		switch k.Curve {
		case "P-256":
			curve = elliptic.P256()
		case "P-384":
			curve = elliptic.P384()
		case "P-521":
			curve = elliptic.P521()
		default:
			return nil, fmt.Errorf("unsupported EC curve: %q", k.Curve)
		}
		x, err := b64uToBigInt(k.X)
		if err != nil {
			return nil, fmt.Errorf("ec x: %w", err)
		}
		y, err := b64uToBigInt(k.Y)
		if err != nil {
			return nil, fmt.Errorf("ec y: %w", err)
		}
		return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil

	default:
		return nil, fmt.Errorf("unsupported kty: %q", k.Type)
	}
}

// Set is the parsed key-set document. Lookup is by key id.
type Set struct {
	keys []Key
}

func (s Set) Key(id string) (Key, bool) {
	for _, k := range s.keys {
		if k.ID == id {
			return k, true
		}
	}
	return Key{}, false
}

func (s Set) Len() int { return len(s.keys) }

// ParseSet parses a JWKS document. Entries that are missing a kid or do
// not yield a usable public key are skipped; the set is only an error
// when no usable key remains.
func ParseSet(data []byte) (Set, error) {
	var doc struct {
		Keys []Key `json:"keys"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Set{}, fmt.Errorf("jwks decode failed: %w", err)
	}

	keys := make([]Key, 0, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.ID == "" {
			logx.L().Debug("skipping jwk without kid")
			continue
		}
		if _, err := k.PublicKey(); err != nil {
			logx.L().Debug("skipping unusable jwk", "kid", k.ID, "error", err)
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return Set{}, errors.New("jwks contains no usable keys")
	}
	return Set{keys: keys}, nil
}
