// keystretch-go: session key stretching and wrappers
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"strings"
	"testing"

	"github.com/dark-bio/keystretch-go/keystretch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var zeroSecret = strings.Repeat("00", 32)

func TestRunText(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-secret", zeroSecret}, &out, zap.NewNop())
	require.NoError(t, err)

	want := "" +
		"k1.iv        67903cc75591ef474fc655a420358fcd\n" +
		"k1.cipherKey 3230990a25205501e23dc1019a78cf50\n" +
		"k1.macKey    8402be709e4876026f10a8c3dd98720031286f47\n" +
		"k2.iv        3da9dafda677d60c86bc03aa271f7202\n" +
		"k2.cipherKey 66de5a0e1dc3f48ac99b11e5ff6e57e0\n" +
		"k2.macKey    53b2b8a249a82d2841379c78b8cf40f8139e38e3\n"
	assert.Equal(t, want, out.String())
}

func TestRunJSON(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-cipher", "Blowfish", "-hash", "SHA1", "-secret", zeroSecret, "-json"}, &out, zap.NewNop())
	require.NoError(t, err)

	var res output
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))

	assert.Equal(t, "Blowfish", res.Cipher)
	assert.Equal(t, "SHA1", res.Hash)
	for _, b := range []bundle{res.K1, res.K2} {
		assert.Len(t, b.IV, 2*8)
		assert.Len(t, b.CipherKey, 2*32)
		assert.Len(t, b.MACKey, 2*keystretch.MACKeySize)
	}
	assert.NotEqual(t, res.K1.MACKey, res.K2.MACKey)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		args []string
		err  error
	}{
		{args: nil, err: errMissingSecret},
		{args: []string{"-cipher", "DES", "-secret", zeroSecret}, err: keystretch.ErrInvalidCipher},
		{args: []string{"-hash", "", "-secret", zeroSecret}, err: keystretch.ErrInvalidHash},
		{args: []string{"-hash", "MD5", "-secret", zeroSecret}, err: keystretch.ErrInvalidHash},
		{args: []string{"-h"}, err: flag.ErrHelp},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		err := run(tt.args, &out, zap.NewNop())
		assert.ErrorIs(t, err, tt.err, "args: %v", tt.args)
	}
	var out bytes.Buffer
	err := run([]string{"-secret", "not hex"}, &out, zap.NewNop())
	assert.ErrorContains(t, err, "invalid -secret")
}

// Tests that the secret itself never ends up in the logs.
func TestRunLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	var out bytes.Buffer
	secret := strings.Repeat("ab", 32)
	require.NoError(t, run([]string{"-secret", secret}, &out, zap.New(core)))

	entries := logs.FilterMessage("stretching secret").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "AES-128", fields["cipher"])
	assert.Equal(t, "SHA256", fields["hash"])
	assert.EqualValues(t, 32, fields["secret_len"])
	for _, v := range fields {
		assert.NotContains(t, fmt.Sprint(v), secret)
	}
}
