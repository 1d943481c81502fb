// locked.go: Locked-memory containers for passwords, keys and hashes.
//
// All secret bytes handled by this package live in memguard buffers: the pages
// are mlocked, guarded and overwritten with zeros on Destroy. Heap copies made
// by the underlying KDF libraries are wiped with Zeroize before they are
// dropped.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"crypto/subtle"

	"github.com/awnumar/memguard"
)

const (
	// KeySize is the size in bytes of the stretched key and of each subkey.
	KeySize = 32

	// KeyMaterialSize is the size of the combined encryption and MAC keys.
	KeyMaterialSize = 2 * KeySize

	// HashSize is the size of the master password hash.
	HashSize = 32
)

// Password holds a master password in locked memory.
//
// The derivation functions only borrow a Password; the caller owns it and
// must call Destroy when done.
type Password struct {
	buf *memguard.LockedBuffer
}

// NewPassword moves b into locked memory. The caller's slice is wiped.
//
// Example:
//
//	pw := identity.NewPassword([]byte("correct horse battery staple"))
//	defer pw.Destroy()
func NewPassword(b []byte) *Password {
	return &Password{buf: memguard.NewBufferFromBytes(b)}
}

// PasswordFromBuffer adopts an existing memguard buffer. Ownership moves to
// the returned Password.
func PasswordFromBuffer(buf *memguard.LockedBuffer) *Password {
	return &Password{buf: buf}
}

// Bytes returns the password bytes. The slice is only valid until Destroy.
func (p *Password) Bytes() []byte {
	if p == nil || p.buf == nil {
		return nil
	}
	return p.buf.Bytes()
}

// Destroy wipes and releases the password. It is safe to call more than once.
func (p *Password) Destroy() {
	if p != nil && p.buf != nil {
		p.buf.Destroy()
	}
}

// Keys is the 64-byte key material: encryption key in bytes [0,32), MAC key
// in bytes [32,64). The accessors must not be called after Destroy.
type Keys struct {
	buf *memguard.LockedBuffer
}

func newKeys() *Keys {
	return &Keys{buf: memguard.NewBuffer(KeyMaterialSize)}
}

// EncKey returns the 32-byte encryption key.
func (k *Keys) EncKey() []byte {
	return k.buf.Bytes()[:KeySize]
}

// MacKey returns the 32-byte MAC key.
func (k *Keys) MacKey() []byte {
	return k.buf.Bytes()[KeySize:KeyMaterialSize]
}

// Bytes returns all 64 bytes of key material.
func (k *Keys) Bytes() []byte {
	return k.buf.Bytes()
}

// IsAlive reports whether the key material has not been destroyed.
func (k *Keys) IsAlive() bool {
	return k != nil && k.buf.IsAlive()
}

// Destroy wipes and releases the key material.
func (k *Keys) Destroy() {
	if k != nil {
		k.buf.Destroy()
	}
}

// PasswordHash is the 32-byte master password hash used to confirm a
// password without storing it. It is never used as a key.
type PasswordHash struct {
	buf *memguard.LockedBuffer
}

func newPasswordHash() *PasswordHash {
	return &PasswordHash{buf: memguard.NewBuffer(HashSize)}
}

// Bytes returns the raw hash.
func (h *PasswordHash) Bytes() []byte {
	return h.buf.Bytes()
}

// Base64 returns the hash in the standard base64 form sent by login flows.
func (h *PasswordHash) Base64() string {
	return KeyToBase64(h.buf.Bytes())
}

// Fingerprint returns a short identifier safe to log.
func (h *PasswordHash) Fingerprint() string {
	return GetKeyFingerprint(h.buf.Bytes())
}

// Equal compares the hash with other in constant time.
func (h *PasswordHash) Equal(other []byte) bool {
	if !h.IsAlive() {
		return false
	}
	return subtle.ConstantTimeCompare(h.buf.Bytes(), other) == 1
}

// IsAlive reports whether the hash has not been destroyed.
func (h *PasswordHash) IsAlive() bool {
	return h != nil && h.buf.IsAlive()
}

// Destroy wipes and releases the hash.
func (h *PasswordHash) Destroy() {
	if h != nil {
		h.buf.Destroy()
	}
}
