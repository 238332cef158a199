// Package common defines the error taxonomy shared by every package in
// this module. Each failure mode is a distinct sentinel so callers can
// branch with errors.Is without parsing messages.
package common

import "errors"

var (
	// ErrMalformedToken marks a structural decode failure: wrong segment
	// count, undecodable base64, or a header/payload that is not the
	// expected JSON shape.
	ErrMalformedToken = errors.New("malformed token")

	// ErrAlgorithmMismatch marks a token whose header names an algorithm
	// other than the one the policy requires. Never coerced.
	ErrAlgorithmMismatch = errors.New("unexpected signing algorithm")

	// ErrUnknownKeyID marks a key id that is absent even after a
	// successful key refresh.
	ErrUnknownKeyID = errors.New("unknown key id")

	// ErrKeyFetch marks a network or parse failure while refreshing the
	// signing keys. Transient; the cached set is left untouched.
	ErrKeyFetch = errors.New("could not fetch signing keys")

	ErrInvalidSignature = errors.New("invalid signature")
	ErrIssuerMismatch   = errors.New("invalid issuer")
	ErrAudienceMismatch = errors.New("invalid audience")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenNotYetValid = errors.New("token issued in the future")
)
