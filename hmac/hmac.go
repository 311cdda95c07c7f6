// keystretch-go: session key stretching and wrappers
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hmac provides reusable keyed digests over a set of named hash
// algorithms.
//
// https://datatracker.ietf.org/doc/html/rfc2104
package hmac

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"hash"
	"slices"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Supported hash algorithm identifiers.
const (
	SHA1       = "SHA1"
	SHA256     = "SHA256"
	SHA512     = "SHA512"
	SHA3_256   = "SHA3-256"
	SHA3_512   = "SHA3-512"
	BLAKE2b512 = "BLAKE2b-512"
)

// ErrUnsupportedHash is returned when a hash algorithm is not in the registry.
var ErrUnsupportedHash = errors.New("hmac: unsupported hash algorithm")

var hashes = map[string]func() hash.Hash{
	SHA1:     sha1.New,
	SHA256:   sha256.New,
	SHA512:   sha512.New,
	SHA3_256: sha3.New256,
	SHA3_512: sha3.New512,
	BLAKE2b512: func() hash.Hash {
		h, err := blake2b.New512(nil)
		if err != nil {
			panic(err) // cannot fail without a key
		}
		return h
	},
}

// Supported reports whether the named hash algorithm can be used.
func Supported(name string) bool {
	_, ok := hashes[name]
	return ok
}

// Names returns the supported hash algorithm identifiers in sorted order.
func Names() []string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// MAC is a keyed digest context. It may be used for any number of sequential
// digests, but it is not safe for concurrent use.
type MAC struct {
	inner hash.Hash
}

// New creates a keyed digest context over the named hash algorithm.
func New(name string, key []byte) (*MAC, error) {
	fn, ok := hashes[name]
	if !ok {
		return nil, ErrUnsupportedHash
	}
	return &MAC{inner: hmac.New(fn, key)}, nil
}

// Digest computes the keyed digest of a single message. Previous calls have no
// effect on the result.
func (m *MAC) Digest(message []byte) ([]byte, error) {
	m.inner.Reset()
	m.inner.Write(message)
	return m.inner.Sum(nil), nil
}

// Size returns the length of the digests in bytes.
func (m *MAC) Size() int {
	return m.inner.Size()
}
