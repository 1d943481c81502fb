// config.go: KDF type names and KDF policy decoding.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	goerrors "github.com/agilira/go-errors"
	"gopkg.in/yaml.v3"
)

// String returns the canonical lower-case name of the KDF.
func (k KdfType) String() string {
	switch k {
	case KdfPBKDF2:
		return "pbkdf2"
	case KdfArgon2id:
		return "argon2id"
	default:
		return "kdf(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKdfType accepts a KDF name ("pbkdf2", "argon2id", case-insensitive) or
// its wire number ("0", "1").
func ParseKdfType(s string) (KdfType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pbkdf2", "pbkdf2-sha256", "pbkdf2_sha256", "0":
		return KdfPBKDF2, nil
	case "argon2id", "argon2", "1":
		return KdfArgon2id, nil
	}
	richErr := goerrors.New(ErrCodeUnsupportedKdf, fmt.Sprintf("unknown KDF %q", s))
	return 0, fmt.Errorf("%w: %w", ErrUnsupportedKdf, richErr)
}

// MarshalText encodes the KDF by name.
func (k KdfType) MarshalText() ([]byte, error) {
	if k != KdfPBKDF2 && k != KdfArgon2id {
		richErr := goerrors.New(ErrCodeUnsupportedKdf, fmt.Sprintf("unknown KDF type %d", int(k)))
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedKdf, richErr)
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a name or wire number.
func (k *KdfType) UnmarshalText(text []byte) error {
	parsed, err := ParseKdfType(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalJSON encodes the wire number, as prelogin responses do.
func (k KdfType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(k))), nil
}

// UnmarshalJSON accepts either the wire number or a name.
func (k *KdfType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return k.UnmarshalText([]byte(s))
	}
	return k.UnmarshalText(data)
}

// UnmarshalYAML accepts either the wire number or a name.
func (k *KdfType) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		richErr := goerrors.New(ErrCodeInvalidConfig, fmt.Sprintf("line %d: kdf must be a scalar", value.Line))
		return fmt.Errorf("%w: %w", ErrInvalidKdfConfig, richErr)
	}
	return k.UnmarshalText([]byte(value.Value))
}

// MarshalYAML encodes the KDF by name.
func (k KdfType) MarshalYAML() (interface{}, error) {
	text, err := k.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// ParseKdfConfig decodes a KDF policy document. Both YAML and JSON (including
// a raw prelogin response body) are accepted:
//
//	kdf: argon2id
//	kdfIterations: 3
//	kdfMemory: 64
//	kdfParallelism: 4
//
// The result is not validated; New and KdfConfig.Validate do that.
func ParseKdfConfig(data []byte) (KdfConfig, error) {
	var cfg KdfConfig
	if len(bytes.TrimSpace(data)) == 0 {
		richErr := goerrors.New(ErrCodeInvalidConfig, "KDF configuration is empty")
		return cfg, fmt.Errorf("%w: %w", ErrInvalidKdfConfig, richErr)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		richErr := goerrors.Wrap(err, ErrCodeInvalidConfig, "failed to decode KDF configuration")
		return KdfConfig{}, fmt.Errorf("%w: %w", ErrInvalidKdfConfig, richErr)
	}
	return cfg, nil
}
