// errors.go: Error taxonomy for identity derivation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"errors"
)

// Public sentinel errors. Every error returned by this package wraps exactly
// one of them, so callers can branch with errors.Is. None of them is
// transient: retrying with the same inputs fails the same way.
var (
	// ErrZeroIterations is returned when the iteration count is zero.
	ErrZeroIterations = errors.New("identity: iterations must be non-zero")

	// ErrMissingParameter is returned when Argon2id is selected without
	// memory or parallelism.
	ErrMissingParameter = errors.New("identity: missing KDF parameter")

	// ErrStretchFailure is returned when the stretching algorithm rejects its
	// parameters.
	ErrStretchFailure = errors.New("identity: key stretching failed")

	// ErrExpansionFailure is returned when HKDF expansion receives malformed
	// key material.
	ErrExpansionFailure = errors.New("identity: key expansion failed")

	// ErrUnsupportedKdf is returned for a KdfType outside the known set.
	ErrUnsupportedKdf = errors.New("identity: unsupported KDF")

	// ErrInvalidKdfConfig is returned when a KDF policy document cannot be decoded.
	ErrInvalidKdfConfig = errors.New("identity: invalid KDF configuration")

	// ErrInvalidHash is returned when an expected master password hash cannot be decoded.
	ErrInvalidHash = errors.New("identity: invalid master password hash")
)

// Error codes for rich error handling
const (
	ErrCodeZeroIterations   = "IDENTITY_ZERO_ITERATIONS"
	ErrCodeMissingParameter = "IDENTITY_MISSING_PARAMETER"
	ErrCodeStretch          = "IDENTITY_STRETCH"
	ErrCodeExpansion        = "IDENTITY_EXPANSION"
	ErrCodeUnsupportedKdf   = "IDENTITY_UNSUPPORTED_KDF"
	ErrCodeInvalidConfig    = "IDENTITY_INVALID_CONFIG"
	ErrCodeInvalidHash      = "IDENTITY_INVALID_HASH"
)

// errorCode maps an error back to its code for logging.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrZeroIterations):
		return ErrCodeZeroIterations
	case errors.Is(err, ErrMissingParameter):
		return ErrCodeMissingParameter
	case errors.Is(err, ErrStretchFailure):
		return ErrCodeStretch
	case errors.Is(err, ErrExpansionFailure):
		return ErrCodeExpansion
	case errors.Is(err, ErrUnsupportedKdf):
		return ErrCodeUnsupportedKdf
	case errors.Is(err, ErrInvalidKdfConfig):
		return ErrCodeInvalidConfig
	case errors.Is(err, ErrInvalidHash):
		return ErrCodeInvalidHash
	default:
		return "UNKNOWN"
	}
}
