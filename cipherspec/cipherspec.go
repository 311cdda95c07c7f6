// keystretch-go: session key stretching and wrappers
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cipherspec provides the initialization vector and key sizes of the
// symmetric ciphers session keys can be stretched for.
package cipherspec

import (
	"errors"
	"slices"
)

// Supported cipher identifiers.
const (
	AES128   = "AES-128"
	AES256   = "AES-256"
	Blowfish = "Blowfish"
)

// ErrUnknownCipher is returned when a cipher identifier is not in the table.
var ErrUnknownCipher = errors.New("cipherspec: unknown cipher")

// Spec contains the byte sizes a cipher needs to be instantiated.
type Spec struct {
	IVSize  int // Size of the initialization vector in bytes
	KeySize int // Size of the symmetric key in bytes
}

var specs = map[string]Spec{
	AES128:   {IVSize: 16, KeySize: 16},
	AES256:   {IVSize: 16, KeySize: 32},
	Blowfish: {IVSize: 8, KeySize: 32},
}

// Lookup returns the sizes of the named cipher.
func Lookup(name string) (Spec, error) {
	spec, ok := specs[name]
	if !ok {
		return Spec{}, ErrUnknownCipher
	}
	return spec, nil
}

// Names returns the supported cipher identifiers in sorted order.
func Names() []string {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
