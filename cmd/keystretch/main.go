// keystretch-go: session key stretching and wrappers
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command keystretch derives the two directional session key bundles for a
// hex encoded shared secret and prints them.
//
//	keystretch -cipher AES-256 -hash SHA256 -secret 00112233...
package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dark-bio/keystretch-go/cipherspec"
	"github.com/dark-bio/keystretch-go/hmac"
	"github.com/dark-bio/keystretch-go/keystretch"
	"go.uber.org/zap"
)

var errMissingSecret = errors.New("missing -secret")

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Error("key stretching failed", zap.Error(err))
		os.Exit(1)
	}
}

// bundle is the printable form of a keystretch.Keys.
type bundle struct {
	IV        string `json:"iv"`
	CipherKey string `json:"cipherKey"`
	MACKey    string `json:"macKey"`
}

func newBundle(k *keystretch.Keys) bundle {
	return bundle{
		IV:        hex.EncodeToString(k.IV),
		CipherKey: hex.EncodeToString(k.CipherKey),
		MACKey:    hex.EncodeToString(k.MACKey),
	}
}

// output is the printable form of a keystretch.Result.
type output struct {
	Cipher string `json:"cipher"`
	Hash   string `json:"hash"`
	K1     bundle `json:"k1"`
	K2     bundle `json:"k2"`
}

func run(args []string, stdout io.Writer, logger *zap.Logger) error {
	flags := flag.NewFlagSet("keystretch", flag.ContinueOnError)
	flags.SetOutput(stdout)

	var (
		cipher = flags.String("cipher", cipherspec.AES128, "Cipher to size the keys for ("+strings.Join(cipherspec.Names(), ", ")+")")
		hash   = flags.String("hash", hmac.SHA256, "Hash algorithm to stretch with ("+strings.Join(hmac.Names(), ", ")+")")
		secret = flags.String("secret", "", "Hex encoded shared secret")
		asJSON = flags.Bool("json", false, "Print the keys as JSON")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *secret == "" {
		return errMissingSecret
	}
	blob, err := hex.DecodeString(*secret)
	if err != nil {
		return fmt.Errorf("invalid -secret: %w", err)
	}
	defer clear(blob)

	logger.Debug("stretching secret", zap.String("cipher", *cipher), zap.String("hash", *hash), zap.Int("secret_len", len(blob)))

	res, err := keystretch.Stretch(*cipher, *hash, blob)
	if err != nil {
		return err
	}
	defer res.Wipe()

	out := output{
		Cipher: *cipher,
		Hash:   *hash,
		K1:     newBundle(&res.K1),
		K2:     newBundle(&res.K2),
	}
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, k := range []struct {
		name string
		b    bundle
	}{{"k1", out.K1}, {"k2", out.K2}} {
		fmt.Fprintf(stdout, "%s.iv        %s\n", k.name, k.b.IV)
		fmt.Fprintf(stdout, "%s.cipherKey %s\n", k.name, k.b.CipherKey)
		fmt.Fprintf(stdout, "%s.macKey    %s\n", k.name, k.b.MACKey)
	}
	return nil
}
