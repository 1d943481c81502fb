// Package identity derives a user's cryptographic identity from an email and
// master password.
//
// An Identity carries:
//   - a 32-byte encryption key and a 32-byte MAC key, expanded with HKDF-SHA256
//     from a password-stretched key
//   - a 32-byte master password hash that confirms the password without
//     storing it or the stretched key
//
// Stretching uses either PBKDF2-HMAC-SHA256 salted with the email or Argon2id
// v1.3 salted with SHA-256 of the email. The derivation is byte-compatible
// with Bitwarden-style clients and servers, so keys and hashes match those
// computed by compliant peer implementations.
//
// The package never chooses KDF parameters; they come from the caller or a
// prelogin response. It performs no I/O and keeps no state between calls,
// so concurrent derivations with independent inputs do not interfere.
//
// # Quick Start
//
//	pw := identity.NewPassword([]byte("correct-password"))
//	defer pw.Destroy()
//
//	id, err := identity.New("test@example.com", pw, identity.KdfPBKDF2, 600000, nil, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer id.Destroy()
//
//	encKey := id.Keys.EncKey()
//	macKey := id.Keys.MacKey()
//	loginHash := id.MasterPasswordHash.Base64()
//
// # Argon2id
//
// Argon2id needs memory (MiB) and parallelism (lanes). Leaving either out is
// reported as ErrMissingParameter rather than defaulted:
//
//	cfg := identity.Argon2idConfig(3, 64, 4)
//	id, err := identity.NewFromConfig(email, pw, cfg)
//
// # KDF Policy
//
// Parameters can be decoded from YAML or from a JSON prelogin body:
//
//	cfg, err := identity.ParseKdfConfig([]byte(`{"kdf":1,"kdfIterations":3,"kdfMemory":64,"kdfParallelism":4}`))
//	if err != nil {
//		log.Fatal(err)
//	}
//	ok, err := identity.VerifyBase64(email, pw, cfg, storedHash)
//
// # Errors
//
// Every error wraps one sentinel (ErrZeroIterations, ErrMissingParameter,
// ErrStretchFailure, ErrExpansionFailure, ErrUnsupportedKdf,
// ErrInvalidKdfConfig, ErrInvalidHash) for errors.Is, joined with a
// github.com/agilira/go-errors value carrying a stable code. None of them is
// transient.
//
// # Memory
//
// Passwords, stretched keys, key material and hashes are held in
// github.com/awnumar/memguard buffers, which are locked in RAM and
// overwritten with zeros on Destroy. Applications should call
// memguard.CatchInterrupt and defer memguard.Purge in main.
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra library
// SPDX-License-Identifier: MPL-2.0
package identity
