// kdf.go: Key stretching, expansion and master password hashing.
//
// The pipeline is byte-compatible with Bitwarden-style clients:
//
//	stretched = PBKDF2-SHA256(password, email, iterations)          (KdfPBKDF2)
//	stretched = Argon2id(password, SHA256(email), t, m*1024, p)     (KdfArgon2id)
//	encKey    = HKDF-Expand(stretched, "enc", 32)
//	macKey    = HKDF-Expand(stretched, "mac", 32)
//	hash      = PBKDF2-SHA256(stretched, password, 1)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math"

	goerrors "github.com/agilira/go-errors"
	"github.com/awnumar/memguard"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	pbkdf2 "golang.org/x/crypto/pbkdf2"
)

// KdfType selects the password stretching algorithm. The numeric values are
// the ones used on the wire by prelogin responses.
type KdfType int

const (
	// KdfPBKDF2 is PBKDF2-HMAC-SHA256 salted with the raw email.
	KdfPBKDF2 KdfType = 0

	// KdfArgon2id is Argon2id v1.3 salted with SHA-256 of the email.
	KdfArgon2id KdfType = 1
)

// Argon2id bounds enforced before calling into golang.org/x/crypto/argon2,
// which panics or silently clamps outside them.
const (
	// MaxArgon2Parallelism is the largest lane count the argon2 package accepts.
	MaxArgon2Parallelism = math.MaxUint8

	// MaxArgon2Memory is the largest memory parameter (MiB) whose KiB cost fits in uint32.
	MaxArgon2Memory = math.MaxUint32 / 1024

	// argon2MinBlocksPerLane is the minimum memory cost (KiB) per lane.
	argon2MinBlocksPerLane = 8
)

var (
	infoEnc = []byte("enc")
	infoMac = []byte("mac")
)

// KdfConfig carries the caller-supplied stretching parameters.
//
// Memory (MiB) and Parallelism (lanes) are optional pointers so that an
// absent value can be told apart from zero: Argon2id without them fails with
// ErrMissingParameter, Argon2id with zero fails with ErrStretchFailure.
// PBKDF2 ignores both.
type KdfConfig struct {
	Type        KdfType `json:"kdf" yaml:"kdf"`
	Iterations  uint32  `json:"kdfIterations" yaml:"kdfIterations"`
	Memory      *uint32 `json:"kdfMemory,omitempty" yaml:"kdfMemory,omitempty"`
	Parallelism *uint32 `json:"kdfParallelism,omitempty" yaml:"kdfParallelism,omitempty"`
}

// PBKDF2Config returns a PBKDF2-HMAC-SHA256 configuration.
func PBKDF2Config(iterations uint32) KdfConfig {
	return KdfConfig{Type: KdfPBKDF2, Iterations: iterations}
}

// Argon2idConfig returns an Argon2id configuration with memory in MiB and
// parallelism in lanes.
func Argon2idConfig(iterations, memory, parallelism uint32) KdfConfig {
	return KdfConfig{
		Type:        KdfArgon2id,
		Iterations:  iterations,
		Memory:      &memory,
		Parallelism: &parallelism,
	}
}

// Validate runs the checks New performs before any stretching work starts.
func (c KdfConfig) Validate() error {
	if c.Iterations == 0 {
		richErr := goerrors.New(ErrCodeZeroIterations, "iteration count must be positive")
		return fmt.Errorf("%w: %w", ErrZeroIterations, richErr)
	}

	switch c.Type {
	case KdfPBKDF2:
		if uint64(c.Iterations) > math.MaxInt {
			richErr := goerrors.New(ErrCodeStretch, fmt.Sprintf("PBKDF2 iteration count %d exceeds platform limit", c.Iterations))
			return fmt.Errorf("%w: %w", ErrStretchFailure, richErr)
		}
		return nil
	case KdfArgon2id:
		if c.Memory == nil {
			richErr := goerrors.New(ErrCodeMissingParameter, "Argon2id requires a memory parameter")
			return fmt.Errorf("%w: %w", ErrMissingParameter, richErr)
		}
		if c.Parallelism == nil {
			richErr := goerrors.New(ErrCodeMissingParameter, "Argon2id requires a parallelism parameter")
			return fmt.Errorf("%w: %w", ErrMissingParameter, richErr)
		}
		_, _, err := argon2Cost(*c.Memory, *c.Parallelism)
		return err
	default:
		richErr := goerrors.New(ErrCodeUnsupportedKdf, fmt.Sprintf("unknown KDF type %d", int(c.Type)))
		return fmt.Errorf("%w: %w", ErrUnsupportedKdf, richErr)
	}
}

// argon2Cost converts memory (MiB) and parallelism into the argon2 package's
// units, rejecting anything the algorithm would not accept as given.
func argon2Cost(memory, parallelism uint32) (uint32, uint8, error) {
	if parallelism == 0 || parallelism > MaxArgon2Parallelism {
		richErr := goerrors.New(ErrCodeStretch, fmt.Sprintf("Argon2id parallelism must be between 1 and %d (got %d)", MaxArgon2Parallelism, parallelism))
		return 0, 0, fmt.Errorf("%w: %w", ErrStretchFailure, richErr)
	}
	if memory == 0 || memory > MaxArgon2Memory {
		richErr := goerrors.New(ErrCodeStretch, fmt.Sprintf("Argon2id memory must be between 1 and %d MiB (got %d)", MaxArgon2Memory, memory))
		return 0, 0, fmt.Errorf("%w: %w", ErrStretchFailure, richErr)
	}
	memoryKiB := memory * 1024
	if memoryKiB < argon2MinBlocksPerLane*parallelism {
		richErr := goerrors.New(ErrCodeStretch, fmt.Sprintf("Argon2id memory cost %d KiB is below %d KiB per lane", memoryKiB, argon2MinBlocksPerLane))
		return 0, 0, fmt.Errorf("%w: %w", ErrStretchFailure, richErr)
	}
	return memoryKiB, uint8(parallelism), nil // #nosec G115 -- bounded above
}

// stretch turns the password into the 32-byte stretched key. The returned
// buffer belongs to the caller.
func stretch(password []byte, email string, cfg KdfConfig) (*memguard.LockedBuffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var out []byte
	switch cfg.Type {
	case KdfPBKDF2:
		out = pbkdf2Key(password, []byte(email), cfg.Iterations)
	case KdfArgon2id:
		memoryKiB, lanes, _ := argon2Cost(*cfg.Memory, *cfg.Parallelism)
		salt := sha256.Sum256([]byte(email))
		out = argon2idKey(password, salt[:], cfg.Iterations, memoryKiB, lanes)
	}
	defer Zeroize(out)

	if len(out) != KeySize {
		richErr := goerrors.New(ErrCodeStretch, fmt.Sprintf("stretched key has unexpected length %d", len(out)))
		return nil, fmt.Errorf("%w: %w", ErrStretchFailure, richErr)
	}

	key := memguard.NewBuffer(KeySize)
	copy(key.Bytes(), out)
	return key, nil
}

// pbkdf2Key is PBKDF2-HMAC-SHA256 with a 32-byte output.
func pbkdf2Key(secret, salt []byte, iterations uint32) []byte {
	return pbkdf2.Key(secret, salt, int(iterations), KeySize, sha256.New)
}

// argon2idKey is Argon2id v1.3 with no secret or associated data, memory in
// KiB, and lanes filled concurrently.
func argon2idKey(password, salt []byte, time, memoryKiB uint32, lanes uint8) []byte {
	return argon2.IDKey(password, salt, time, memoryKiB, lanes, KeySize)
}

// expandKeys splits the stretched key into encryption and MAC keys using
// HKDF-Expand with the stretched key as PRK. "enc" fills bytes [0,32) and is
// expanded before "mac", which fills [32,64).
func expandKeys(prk []byte) (*Keys, error) {
	if len(prk) < sha256.Size {
		richErr := goerrors.New(ErrCodeExpansion, fmt.Sprintf("pseudorandom key must be at least %d bytes (got %d)", sha256.Size, len(prk)))
		return nil, fmt.Errorf("%w: %w", ErrExpansionFailure, richErr)
	}

	keys := newKeys()
	slots := []struct {
		info []byte
		dst  []byte
	}{
		{infoEnc, keys.EncKey()},
		{infoMac, keys.MacKey()},
	}
	for _, slot := range slots {
		if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, slot.info), slot.dst); err != nil {
			keys.Destroy()
			richErr := goerrors.Wrap(err, ErrCodeExpansion, fmt.Sprintf("HKDF expand %q failed", slot.info))
			return nil, fmt.Errorf("%w: %w", ErrExpansionFailure, richErr)
		}
	}
	return keys, nil
}

// masterPasswordHash computes the verification hash: one PBKDF2 round keyed
// with the stretched key and salted with the password. The role swap against
// stretching is part of the compatibility contract.
func masterPasswordHash(stretched, password []byte) (*PasswordHash, error) {
	if len(stretched) != KeySize {
		richErr := goerrors.New(ErrCodeStretch, fmt.Sprintf("stretched key must be %d bytes (got %d)", KeySize, len(stretched)))
		return nil, fmt.Errorf("%w: %w", ErrStretchFailure, richErr)
	}

	out := pbkdf2.Key(stretched, password, 1, HashSize, sha256.New)
	defer Zeroize(out)

	hash := newPasswordHash()
	copy(hash.Bytes(), out)
	return hash, nil
}
