// keystretch-go: session key stretching and wrappers
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stream provides CTR mode stream ciphers keyed from stretched session
// keys.
//
// https://nvlpubs.nist.gov/nistpubs/Legacy/SP/nistspecialpublication800-38a.pdf
package stream

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/dark-bio/keystretch-go/cipherspec"
	"github.com/dark-bio/keystretch-go/keystretch"
	"golang.org/x/crypto/blowfish"
)

var (
	// ErrInvalidKeySize is returned when the key does not match the cipher.
	ErrInvalidKeySize = errors.New("stream: invalid key size")

	// ErrInvalidIVSize is returned when the IV does not match the cipher.
	ErrInvalidIVSize = errors.New("stream: invalid iv size")
)

// Stream is a pair of CTR keystreams, one for each direction of processing.
// Both continue where the previous call left off, so messages must be
// decrypted in the order they were encrypted.
type Stream struct {
	enc cipher.Stream
	dec cipher.Stream
}

// New creates a stream cipher of the named type from a key and an IV sized as
// the cipher table demands.
func New(name string, key, iv []byte) (*Stream, error) {
	spec, err := cipherspec.Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(key) != spec.KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), spec.KeySize)
	}
	if len(iv) != spec.IVSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIVSize, len(iv), spec.IVSize)
	}
	var block cipher.Block
	switch name {
	case cipherspec.Blowfish:
		block, err = blowfish.NewCipher(key)
	default:
		block, err = aes.NewCipher(key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return &Stream{
		enc: cipher.NewCTR(block, iv),
		dec: cipher.NewCTR(block, iv),
	}, nil
}

// FromKeys creates a stream cipher of the named type from a stretched key
// bundle.
func FromKeys(name string, keys *keystretch.Keys) (*Stream, error) {
	return New(name, keys.CipherKey, keys.IV)
}

// Encrypt encrypts the next chunk of data.
func (s *Stream) Encrypt(data []byte) []byte {
	out := make([]byte, len(data))
	s.enc.XORKeyStream(out, data)
	return out
}

// Decrypt decrypts the next chunk of data.
func (s *Stream) Decrypt(data []byte) []byte {
	out := make([]byte, len(data))
	s.dec.XORKeyStream(out, data)
	return out
}
