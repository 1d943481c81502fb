// locked_test.go: Test cases for locked-memory containers.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"testing"

	"github.com/awnumar/memguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPassword_WipesSource(t *testing.T) {
	src := []byte("correct-password")
	pw := NewPassword(src)
	defer pw.Destroy()

	assert.Equal(t, []byte("correct-password"), pw.Bytes())
	assert.Equal(t, make([]byte, len(src)), src, "caller slice must be wiped")
}

func TestPassword_Destroy(t *testing.T) {
	pw := NewPassword([]byte("pw"))
	pw.Destroy()
	assert.False(t, pw.buf.IsAlive())
	assert.NotPanics(t, pw.Destroy)

	var nilPW *Password
	assert.Nil(t, nilPW.Bytes())
	assert.NotPanics(t, nilPW.Destroy)
}

func TestPasswordFromBuffer(t *testing.T) {
	buf := memguard.NewBufferFromBytes([]byte("from-enclave"))
	pw := PasswordFromBuffer(buf)
	defer pw.Destroy()

	assert.Equal(t, []byte("from-enclave"), pw.Bytes())
}

func TestKeys_Layout(t *testing.T) {
	keys := newKeys()
	defer keys.Destroy()

	require.Len(t, keys.Bytes(), KeyMaterialSize)
	assert.Equal(t, make([]byte, KeyMaterialSize), keys.Bytes(), "new key material must be zero-filled")

	for i := range keys.EncKey() {
		keys.EncKey()[i] = 0xAA
	}
	for i := range keys.MacKey() {
		keys.MacKey()[i] = 0xBB
	}
	for i, b := range keys.Bytes() {
		want := byte(0xAA)
		if i >= KeySize {
			want = 0xBB
		}
		assert.Equal(t, want, b, "byte %d", i)
	}

	keys.Destroy()
	assert.False(t, keys.IsAlive())
	assert.NotPanics(t, keys.Destroy)
}

func TestPasswordHash_Equal(t *testing.T) {
	hash := newPasswordHash()
	defer hash.Destroy()
	copy(hash.Bytes(), []byte("0123456789abcdef0123456789abcdef"))

	assert.True(t, hash.Equal([]byte("0123456789abcdef0123456789abcdef")))
	assert.False(t, hash.Equal([]byte("0123456789abcdef0123456789abcdeX")))
	assert.False(t, hash.Equal([]byte("0123456789abcdef")))
	assert.False(t, hash.Equal(nil))

	assert.Equal(t, "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=", hash.Base64())
	assert.Len(t, hash.Fingerprint(), 16)
}

func TestIdentityFailurePathsLeaveNoIdentity(t *testing.T) {
	id, err := derive("a@b.c", []byte("pw"), KdfConfig{Type: KdfArgon2id, Iterations: 1, Memory: u32(1)})
	assert.ErrorIs(t, err, ErrMissingParameter)
	assert.Nil(t, id)
}
