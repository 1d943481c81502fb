// keyutils.go: Encoding, zeroization and fingerprinting helpers for derived material.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// KeyToBase64 encodes derived material with standard base64.
//
// This is the encoding login flows use to transmit the master password hash.
//
// Example:
//
//	id, _ := identity.New(email, pw, identity.KdfPBKDF2, 600000, nil, nil)
//	defer id.Destroy()
//	wire := identity.KeyToBase64(id.MasterPasswordHash.Bytes())
func KeyToBase64(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

// KeyFromBase64 decodes standard base64, typically a stored or received
// master password hash.
func KeyFromBase64(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, goerrors.Wrap(err, "BASE64_DECODE_ERROR", "failed to decode base64 value")
	}
	return key, nil
}

// Zeroize overwrites b with zeros.
//
// The KDF libraries return freshly allocated slices; the pipeline copies them
// into locked memory and then wipes the heap copy with Zeroize.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GetKeyFingerprint returns the first 8 bytes of SHA-256(key) as 16 hex
// characters, or "" for an empty key. It identifies material in logs without
// revealing it.
func GetKeyFingerprint(key []byte) string {
	if len(key) == 0 {
		return ""
	}
	hash := sha256.Sum256(key)
	return fmt.Sprintf("%016x", hash[:8])
}
