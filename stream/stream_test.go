// keystretch-go: session key stretching and wrappers
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stream

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/dark-bio/keystretch-go/cipherspec"
	"github.com/dark-bio/keystretch-go/keystretch"
)

// Test vector from NIST SP 800-38A F.5.1 (CTR-AES128.Encrypt), split over two
// calls to check the keystream continues across them.
func TestEncryptAES128(t *testing.T) {
	key, _ := hex.DecodeString("2b7e151628aed2a6abf7158809cf4f3c")
	iv, _ := hex.DecodeString("f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff")
	plain1, _ := hex.DecodeString("6bc1bee22e409f96e93d7e117393172a")
	plain2, _ := hex.DecodeString("ae2d8a571e03ac9c9eb76fac45af8e51")
	want1, _ := hex.DecodeString("874d6191b620e3261bef6864990db6ce")
	want2, _ := hex.DecodeString("9806f66b7970fdff8617187bb9fffdff")

	s, err := New(cipherspec.AES128, key, iv)
	if err != nil {
		t.Fatalf("failed to create stream: %v", err)
	}
	if got := s.Encrypt(plain1); !bytes.Equal(got, want1) {
		t.Errorf("block 1 mismatch: have %x, want %x", got, want1)
	}
	if got := s.Encrypt(plain2); !bytes.Equal(got, want2) {
		t.Errorf("block 2 mismatch: have %x, want %x", got, want2)
	}
	if got := s.Decrypt(append(want1, want2...)); !bytes.Equal(got, append(plain1, plain2...)) {
		t.Errorf("decryption mismatch: have %x", got)
	}
}

// Tests that two peers stretching the same secret can talk to each other in
// both directions with every supported cipher.
func TestStretchedChannel(t *testing.T) {
	for _, name := range cipherspec.Names() {
		res, err := keystretch.Stretch(name, "SHA256", []byte("shared secret"))
		if err != nil {
			t.Fatalf("%s: failed to stretch: %v", name, err)
		}
		aliceLocal, aliceRemote := res.Split(true)
		bobLocal, bobRemote := res.Split(false)

		aliceOut, err := FromKeys(name, aliceLocal)
		if err != nil {
			t.Fatalf("%s: failed to create stream: %v", name, err)
		}
		aliceIn, _ := FromKeys(name, aliceRemote)
		bobOut, _ := FromKeys(name, bobLocal)
		bobIn, _ := FromKeys(name, bobRemote)

		for _, msg := range []string{"hello bob", "a second, somewhat longer message"} {
			ct := aliceOut.Encrypt([]byte(msg))
			if bytes.Equal(ct, []byte(msg)) {
				t.Fatalf("%s: ciphertext equals plaintext", name)
			}
			if got := bobIn.Decrypt(ct); string(got) != msg {
				t.Fatalf("%s: bob decrypted %q, want %q", name, got, msg)
			}
		}
		msg := "hello alice"
		if got := aliceIn.Decrypt(bobOut.Encrypt([]byte(msg))); string(got) != msg {
			t.Fatalf("%s: alice decrypted %q, want %q", name, got, msg)
		}
	}
}

// Tests that the two directions use different keystreams.
func TestDirectionsDiffer(t *testing.T) {
	res, err := keystretch.Stretch(cipherspec.AES256, "SHA512", []byte("shared secret"))
	if err != nil {
		t.Fatalf("failed to stretch: %v", err)
	}
	s1, _ := FromKeys(cipherspec.AES256, &res.K1)
	s2, _ := FromKeys(cipherspec.AES256, &res.K2)

	msg := make([]byte, 32)
	if bytes.Equal(s1.Encrypt(msg), s2.Encrypt(msg)) {
		t.Fatal("directional keystreams are identical")
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  int
		iv   int
		err  error
	}{
		{name: "DES", key: 8, iv: 8, err: cipherspec.ErrUnknownCipher},
		{name: cipherspec.AES128, key: 32, iv: 16, err: ErrInvalidKeySize},
		{name: cipherspec.AES256, key: 16, iv: 16, err: ErrInvalidKeySize},
		{name: cipherspec.AES128, key: 16, iv: 8, err: ErrInvalidIVSize},
		{name: cipherspec.Blowfish, key: 32, iv: 16, err: ErrInvalidIVSize},
		{name: cipherspec.Blowfish, key: 16, iv: 8, err: ErrInvalidKeySize},
	}
	for _, tt := range tests {
		_, err := New(tt.name, make([]byte, tt.key), make([]byte, tt.iv))
		if !errors.Is(err, tt.err) {
			t.Errorf("%s key=%d iv=%d: error mismatch: have %v, want %v", tt.name, tt.key, tt.iv, err, tt.err)
		}
	}
}
