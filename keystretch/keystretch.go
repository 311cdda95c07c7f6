// keystretch-go: session key stretching and wrappers
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keystretch derives a pair of directional session key bundles from a
// shared secret using an HMAC based pseudorandom expansion.
//
// The expansion is the P_hash construction of TLS 1.0, seeded with the label
// "key expansion":
//
//	A(0) = HMAC(secret, seed)
//	A(i) = HMAC(secret, A(i-1))
//	P    = HMAC(secret, A(0) || seed) || HMAC(secret, A(1) || seed) || ...
//
// The first 2*(iv+key+20) bytes of P are split in half, and each half is cut
// into an initialization vector, a cipher key and a 20 byte MAC key. The exact
// byte layout must match the peer's, so none of it is configurable.
//
// https://datatracker.ietf.org/doc/html/rfc2246#section-5
package keystretch

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dark-bio/keystretch-go/cipherspec"
	"github.com/dark-bio/keystretch-go/hmac"
)

const (
	// Seed is the label mixed into every step of the expansion.
	Seed = "key expansion"

	// MACKeySize is the size of the derived MAC keys in bytes. It is fixed
	// regardless of the digest size of the hash used for stretching.
	MACKeySize = 20
)

// Error types for key stretching failures
var (
	ErrInvalidCipher    = errors.New("keystretch: unknown cipher type")
	ErrInvalidHash      = errors.New("keystretch: unknown hash algorithm")
	ErrHashConstruction = errors.New("keystretch: failed to construct hmac")
	ErrHashComputation  = errors.New("keystretch: failed to compute hmac")
)

// MAC is a keyed digest context the expansion runs on. A single context is
// used for every step of one derivation, sequentially. Returned digests are
// owned by the caller.
type MAC interface {
	Digest(message []byte) ([]byte, error)
}

// MACFunc creates a keyed digest context over the named hash algorithm.
type MACFunc func(hash string, key []byte) (MAC, error)

// Keys is the key material for one direction of a channel.
type Keys struct {
	IV        []byte // Initialization vector, sized for the cipher
	CipherKey []byte // Symmetric cipher key, sized for the cipher
	MACKey    []byte // MAC key, always MACKeySize bytes
}

// Wipe zeroes all the key material.
func (k *Keys) Wipe() {
	clear(k.IV)
	clear(k.CipherKey)
	clear(k.MACKey)
}

// Result is the pair of key bundles derived from one secret. K1 is cut from the
// first half of the expansion, K2 from the second.
type Result struct {
	K1 Keys
	K2 Keys
}

// Split assigns the two bundles to the local and remote side of a channel. The
// peer that is first in the handshake's ordering uses K1 for its own traffic,
// the other one K2, so both sides must pass opposite values.
func (r *Result) Split(first bool) (local, remote *Keys) {
	if first {
		return &r.K1, &r.K2
	}
	return &r.K2, &r.K1
}

// Wipe zeroes both key bundles.
func (r *Result) Wipe() {
	r.K1.Wipe()
	r.K2.Wipe()
}

// Stretch derives the two key bundles for the given cipher from the secret,
// running the expansion over HMAC with the named hash algorithm.
func Stretch(cipher, hash string, secret []byte) (*Result, error) {
	return StretchWith(newMAC, cipher, hash, secret)
}

// StretchWith is like Stretch, but builds the keyed digest context through the
// given constructor instead of the built in HMAC implementation.
func StretchWith(newMAC MACFunc, cipher, hash string, secret []byte) (*Result, error) {
	// Reject anything unknown before touching the secret
	spec, err := cipherspec.Lookup(cipher)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCipher, cipher)
	}
	if hash == "" || !hmac.Supported(hash) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHash, hash)
	}
	mac, err := newMAC(hash, secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHashConstruction, err)
	}
	// Expand the secret and cut it into the two directional bundles
	half := spec.IVSize + spec.KeySize + MACKeySize

	stream, err := expand(mac, []byte(Seed), 2*half)
	if err != nil {
		return nil, err
	}
	defer wipe(stream)

	return &Result{
		K1: slice(stream[:half], spec),
		K2: slice(stream[half:], spec),
	}, nil
}

// expand runs the P_hash construction until at least n bytes are produced and
// returns the first n of them. Whole digests are accumulated, the overshoot of
// the last one is only dropped at the end.
func expand(mac MAC, seed []byte, n int) ([]byte, error) {
	a, err := mac.Digest(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHashComputation, err)
	}
	out := make([]byte, 0, n+len(a))

	for j := 0; j < n; {
		msg := make([]byte, 0, len(a)+len(seed))
		msg = append(append(msg, a...), seed...)

		b, err := mac.Digest(msg)
		wipe(msg)
		if err != nil {
			wipe(a)
			wipe(out)
			return nil, fmt.Errorf("%w: %w", ErrHashComputation, err)
		}
		if len(b) == 0 {
			wipe(a)
			wipe(out)
			return nil, fmt.Errorf("%w: empty digest", ErrHashComputation)
		}
		out = append(out, b...)
		j += min(len(b), n-j)
		wipe(b)

		next, err := mac.Digest(a)
		wipe(a)
		if err != nil {
			wipe(out)
			return nil, fmt.Errorf("%w: %w", ErrHashComputation, err)
		}
		a = next
	}
	wipe(a)
	return out[:n], nil
}

// slice cuts one half of the expansion into a key bundle. The fields are
// copies, so the expansion buffer can be wiped afterwards.
func slice(half []byte, spec cipherspec.Spec) Keys {
	return Keys{
		IV:        bytes.Clone(half[:spec.IVSize]),
		CipherKey: bytes.Clone(half[spec.IVSize : spec.IVSize+spec.KeySize]),
		MACKey:    bytes.Clone(half[spec.IVSize+spec.KeySize:]),
	}
}

// wipe zeroes the entire backing array of a buffer.
func wipe(b []byte) {
	clear(b[:cap(b)])
}

// newMAC is the default MACFunc, backed by the hmac package.
func newMAC(hash string, key []byte) (MAC, error) {
	mac, err := hmac.New(hash, key)
	if err != nil {
		return nil, err
	}
	return mac, nil
}
