package jwk

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
)

// FromPublicKey builds the JWK record for a public key, for example to
// serve a key-set document from a test server.
func FromPublicKey(kid, alg string, pub crypto.PublicKey) (Key, error) {
	jwk := Key{
		ID:        kid,
		Algorithm: alg,
		Use:       "sig",
	}

	switch pk := pub.(type) {
	case *rsa.PublicKey:
		jwk.Type = "RSA"
		jwk.N = base64.RawURLEncoding.EncodeToString(pk.N.Bytes())
		jwk.E = base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pk.E)).Bytes())

	case *ecdsa.PublicKey:
		crv, size := curveNameAndSize(pk.Curve)
		if crv == "" {
			return Key{}, fmt.Errorf("unsupported elliptic curve: %T", pk.Curve)
		}
		jwk.Type = "EC"
		jwk.Curve = crv
		jwk.X = base64.RawURLEncoding.EncodeToString(leftPad(pk.X.Bytes(), size))
		jwk.Y = base64.RawURLEncoding.EncodeToString(leftPad(pk.Y.Bytes(), size))

	default:
		return Key{}, fmt.Errorf("unsupported key type: %T", pk)
	}

	return jwk, nil
}

func curveNameAndSize(c elliptic.Curve) (name string, sizeBytes int) {
	switch c {
	case elliptic.P256():
		return "P-256", 32
	case elliptic.P384():
		return "P-384", 48
	case elliptic.P521():
		return "P-521", 66
	default:
		return "", 0
	}
}

func leftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	return append(make([]byte, size-len(b)), b...)
}
