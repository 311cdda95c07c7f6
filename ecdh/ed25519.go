// keystretch-go: session key stretching and wrappers
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecdh

import (
	"crypto/ed25519"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
)

// PublicKeyFromEd25519 maps an Ed25519 public key onto the birationally
// equivalent X25519 public key, so identity keys can take part in a key
// exchange.
//
// https://datatracker.ietf.org/doc/html/rfc7748#section-4.1
func PublicKeyFromEd25519(pub ed25519.PublicKey) (*PublicKey, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPoint, len(pub), ed25519.PublicKeySize)
	}
	point, err := new(edwards25519.Point).SetBytes(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPoint, err)
	}
	return &PublicKey{curve: curves[X25519], point: point.BytesMontgomery()}, nil
}

// SecretKeyFromEd25519 converts an Ed25519 private key into the X25519 private
// key matching PublicKeyFromEd25519 of its public half. The scalar is the
// first half of the SHA-512 of the seed, same as Ed25519 signing uses.
func SecretKeyFromEd25519(priv ed25519.PrivateKey) (*SecretKey, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSecretKey, len(priv), ed25519.PrivateKeySize)
	}
	digest := sha512.Sum512(priv.Seed())
	defer clear(digest[:])

	return ParseSecretKey(X25519, digest[:32])
}
