// identity.go: Identity assembly from email and master password.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"fmt"
	"log/slog"
	"time"

	goerrors "github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
)

// Identity is the key material derived from one email and master password.
//
// Keys protect the vault; MasterPasswordHash confirms the password and is
// never used as a key. Both live in locked memory until Destroy.
type Identity struct {
	Email              string        // Account email, also the KDF salt source
	Keys               *Keys         // Encryption key [0,32) and MAC key [32,64)
	MasterPasswordHash *PasswordHash // Verification hash
	Kdf                KdfType       // Algorithm the keys were stretched with
	DerivedAt          time.Time     // Derivation timestamp
}

// Destroy wipes both secret buffers. It is safe to call more than once.
func (id *Identity) Destroy() {
	if id == nil {
		return
	}
	id.Keys.Destroy()
	id.MasterPasswordHash.Destroy()
}

// Option configures a derivation.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger for derivation events. Only the KDF, iteration
// count, duration, error code and hash fingerprint are logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the clock used for Identity.DerivedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.DiscardHandler),
		now:    timecache.CachedTime,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New derives an Identity from an email and master password.
//
// memory (MiB) and parallelism (lanes) are required for KdfArgon2id and
// ignored for KdfPBKDF2. The password is only borrowed: it is neither
// retained nor destroyed.
//
// Errors wrap one of ErrZeroIterations, ErrMissingParameter,
// ErrStretchFailure, ErrExpansionFailure or ErrUnsupportedKdf. On error no
// Identity is returned and every intermediate buffer has been wiped.
//
// Example:
//
//	pw := identity.NewPassword([]byte("correct-password"))
//	defer pw.Destroy()
//
//	id, err := identity.New("test@example.com", pw, identity.KdfPBKDF2, 600000, nil, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer id.Destroy()
func New(email string, password *Password, kdf KdfType, iterations uint32, memory, parallelism *uint32, opts ...Option) (*Identity, error) {
	cfg := KdfConfig{
		Type:        kdf,
		Iterations:  iterations,
		Memory:      memory,
		Parallelism: parallelism,
	}
	return NewFromConfig(email, password, cfg, opts...)
}

// NewFromConfig is New with the parameters taken from a KdfConfig, such as
// one returned by ParseKdfConfig.
func NewFromConfig(email string, password *Password, cfg KdfConfig, opts ...Option) (*Identity, error) {
	o := buildOptions(opts)
	logger := o.logger.With("kdf", cfg.Type.String(), "iterations", cfg.Iterations)

	start := time.Now()
	id, err := derive(email, password.Bytes(), cfg)
	if err != nil {
		logger.Warn("identity derivation failed", "code", errorCode(err), "error", err)
		return nil, err
	}
	id.DerivedAt = o.now().UTC()

	logger.Debug("identity derived",
		"duration", time.Since(start),
		"hash_fingerprint", id.MasterPasswordHash.Fingerprint())
	return id, nil
}

// derive runs stretch, expansion and hashing in order. The stretched key is
// destroyed on every path.
func derive(email string, password []byte, cfg KdfConfig) (*Identity, error) {
	stretched, err := stretch(password, email, cfg)
	if err != nil {
		return nil, err
	}
	defer stretched.Destroy()

	keys, err := expandKeys(stretched.Bytes())
	if err != nil {
		return nil, err
	}

	hash, err := masterPasswordHash(stretched.Bytes(), password)
	if err != nil {
		keys.Destroy()
		return nil, err
	}

	return &Identity{
		Email:              email,
		Keys:               keys,
		MasterPasswordHash: hash,
		Kdf:                cfg.Type,
	}, nil
}

// Verify derives the identity for email and password and compares its
// master password hash with expected in constant time. The derived identity
// is destroyed before returning.
func Verify(email string, password *Password, cfg KdfConfig, expected []byte, opts ...Option) (bool, error) {
	id, err := NewFromConfig(email, password, cfg, opts...)
	if err != nil {
		return false, err
	}
	defer id.Destroy()
	return id.MasterPasswordHash.Equal(expected), nil
}

// VerifyBase64 is Verify with the expected hash in standard base64.
func VerifyBase64(email string, password *Password, cfg KdfConfig, expected string, opts ...Option) (bool, error) {
	raw, err := KeyFromBase64(expected)
	if err != nil {
		richErr := goerrors.Wrap(err, ErrCodeInvalidHash, "expected hash is not valid base64")
		return false, fmt.Errorf("%w: %w", ErrInvalidHash, richErr)
	}
	defer Zeroize(raw)
	if len(raw) != HashSize {
		richErr := goerrors.New(ErrCodeInvalidHash, fmt.Sprintf("expected hash must be %d bytes (got %d)", HashSize, len(raw)))
		return false, fmt.Errorf("%w: %w", ErrInvalidHash, richErr)
	}
	return Verify(email, password, cfg, raw, opts...)
}
