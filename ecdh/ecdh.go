// keystretch-go: session key stretching and wrappers
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ecdh provides ephemeral elliptic curve Diffie-Hellman key exchange
// over the NIST and Montgomery curves, producing the shared secrets that
// session keys are stretched from.
//
// https://www.secg.org/sec1-v2.pdf
// https://datatracker.ietf.org/doc/html/rfc7748
package ecdh

import (
	"bytes"
	stdecdh "crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"slices"

	"github.com/cloudflare/circl/dh/x448"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/curve25519"
)

// Supported curve identifiers.
const (
	P256   = "P-256"
	P384   = "P-384"
	P521   = "P-521"
	X25519 = "X25519"
	X448   = "X448"
)

// Error types for key exchange failures
var (
	ErrUnknownCurve     = errors.New("ecdh: unknown curve")
	ErrInvalidPoint     = errors.New("ecdh: invalid public key encoding")
	ErrInvalidSecretKey = errors.New("ecdh: invalid secret key")
	ErrCurveMismatch    = errors.New("ecdh: keys on different curves")
	ErrInvalidSharedKey = errors.New("ecdh: degenerate shared secret")
)

// curve contains the parameters of a supported curve.
type curve struct {
	name string
	size int           // Width of a coordinate (NIST) or of a whole key (Montgomery)
	nist stdecdh.Curve // Implementation for the NIST curves, nil otherwise
}

var curves = map[string]*curve{
	P256:   {name: P256, size: 32, nist: stdecdh.P256()},
	P384:   {name: P384, size: 48, nist: stdecdh.P384()},
	P521:   {name: P521, size: 66, nist: stdecdh.P521()},
	X25519: {name: X25519, size: curve25519.ScalarSize},
	X448:   {name: X448, size: x448.Size},
}

func lookup(name string) (*curve, error) {
	c, ok := curves[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
	return c, nil
}

// Curves returns the supported curve identifiers in sorted order.
func Curves() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SecretKey contains an ephemeral private key for a single key exchange.
type SecretKey struct {
	curve  *curve
	nist   *stdecdh.PrivateKey // Set for the NIST curves
	scalar []byte              // Set for the Montgomery curves
	public *PublicKey
}

// GenerateKey creates a new, random private key on the named curve.
func GenerateKey(name string) (*SecretKey, error) {
	c, err := lookup(name)
	if err != nil {
		return nil, err
	}
	if c.nist != nil {
		key, err := c.nist.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		return newNISTSecretKey(c, key), nil
	}
	scalar := make([]byte, c.size)
	if _, err := rand.Read(scalar); err != nil {
		return nil, err
	}
	defer clear(scalar)
	return ParseSecretKey(name, scalar)
}

// ParseSecretKey creates a private key on the named curve from its raw scalar
// encoding.
func ParseSecretKey(name string, b []byte) (*SecretKey, error) {
	c, err := lookup(name)
	if err != nil {
		return nil, err
	}
	if c.nist != nil {
		key, err := c.nist.NewPrivateKey(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSecretKey, err)
		}
		return newNISTSecretKey(c, key), nil
	}
	if len(b) != c.size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSecretKey, len(b), c.size)
	}
	scalar := bytes.Clone(b)

	var point []byte
	switch c.name {
	case X25519:
		if point, err = curve25519.X25519(scalar, curve25519.Basepoint); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSecretKey, err)
		}
	case X448:
		var sk, pk x448.Key
		copy(sk[:], scalar)
		x448.KeyGen(&pk, &sk)
		clear(sk[:])
		point = pk[:]
	}
	return &SecretKey{
		curve:  c,
		scalar: scalar,
		public: &PublicKey{curve: c, point: point},
	}, nil
}

func newNISTSecretKey(c *curve, key *stdecdh.PrivateKey) *SecretKey {
	return &SecretKey{
		curve:  c,
		nist:   key,
		public: &PublicKey{curve: c, point: key.PublicKey().Bytes()},
	}
}

// Curve returns the identifier of the key's curve.
func (k *SecretKey) Curve() string {
	return k.curve.name
}

// Marshal converts a secret key into its raw scalar encoding.
func (k *SecretKey) Marshal() []byte {
	if k.nist != nil {
		return k.nist.Bytes()
	}
	return bytes.Clone(k.scalar)
}

// PublicKey retrieves the public counterpart of the secret key.
func (k *SecretKey) PublicKey() *PublicKey {
	return k.public
}

// SharedKey computes the shared secret with a peer's public key. The result is
// the x-coordinate of the shared point, suitable as the secret to stretch.
func (k *SecretKey) SharedKey(peer *PublicKey) ([]byte, error) {
	if peer.curve != k.curve {
		return nil, fmt.Errorf("%w: %s and %s", ErrCurveMismatch, k.curve.name, peer.curve.name)
	}
	switch {
	case k.nist != nil:
		pub, err := k.curve.nist.NewPublicKey(peer.point)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPoint, err)
		}
		secret, err := k.nist.ECDH(pub)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSharedKey, err)
		}
		return secret, nil

	case k.curve.name == X25519:
		// X25519 rejects the all-zero output of low order points
		secret, err := curve25519.X25519(k.scalar, peer.point)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSharedKey, err)
		}
		return secret, nil

	default:
		var sk, pk, secret x448.Key
		copy(sk[:], k.scalar)
		copy(pk[:], peer.point)
		defer clear(sk[:])

		if !x448.Shared(&secret, &sk, &pk) {
			return nil, ErrInvalidSharedKey
		}
		return secret[:], nil
	}
}

// PublicKey contains an ephemeral public key for a single key exchange.
type PublicKey struct {
	curve *curve
	point []byte
}

// ParsePublicKey decodes a public key on the named curve. NIST curve points
// must use the uncompressed SEC 1 encoding 0x04 || X || Y with fixed width
// coordinates; Montgomery points use their raw RFC 7748 encoding.
func ParsePublicKey(name string, b []byte) (*PublicKey, error) {
	c, err := lookup(name)
	if err != nil {
		return nil, err
	}
	in := cryptobyte.String(b)
	if c.nist != nil {
		var form uint8
		if !in.ReadUint8(&form) || form != 4 || !in.Skip(2*c.size) || !in.Empty() {
			return nil, fmt.Errorf("%w: want %d byte uncompressed point", ErrInvalidPoint, 1+2*c.size)
		}
		// Layout is fine, make sure the point is on the curve too
		if _, err := c.nist.NewPublicKey(b); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPoint, err)
		}
	} else {
		if !in.Skip(c.size) || !in.Empty() {
			return nil, fmt.Errorf("%w: want %d bytes", ErrInvalidPoint, c.size)
		}
	}
	return &PublicKey{curve: c, point: bytes.Clone(b)}, nil
}

// MustParsePublicKey decodes a public key on the named curve.
// It panics if the parsing fails.
func MustParsePublicKey(name string, b []byte) *PublicKey {
	key, err := ParsePublicKey(name, b)
	if err != nil {
		panic(err)
	}
	return key
}

// Curve returns the identifier of the key's curve.
func (k *PublicKey) Curve() string {
	return k.curve.name
}

// Marshal converts a public key into its wire encoding.
func (k *PublicKey) Marshal() []byte {
	return bytes.Clone(k.point)
}

// Fingerprint returns a 256-bit unique identifier for this key.
func (k *PublicKey) Fingerprint() [32]byte {
	return sha256.Sum256(k.point)
}
