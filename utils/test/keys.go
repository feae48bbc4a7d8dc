/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package test

import (
	"crypto/rsa"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
)

var (
	sharedKeyOnce sync.Once
	sharedKey     *rsa.PrivateKey
	sharedKeyErr  error
)

// SharedPrivateKey returns a process-wide 2048-bit key.
// RSA generation is slow, so tests that do not care about key identity share one.
func SharedPrivateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	sharedKeyOnce.Do(func() {
		sharedKey, sharedKeyErr = signature.GenerateKeyPair(signature.DefaultKeyBits)
	})
	require.NoError(t, sharedKeyErr)
	return sharedKey
}

// KeyPairFiles writes the shared key pair as PEM files into a temporary directory.
func KeyPairFiles(t *testing.T) *signature.KeyConfig {
	t.Helper()
	dir := t.TempDir()
	c := &signature.KeyConfig{
		PrivateKeyPath: filepath.Join(dir, "private.pem"),
		PublicKeyPath:  filepath.Join(dir, "public.pem"),
	}
	require.NoError(t, signature.WriteKeyPair(c, SharedPrivateKey(t), false))
	return c
}

// KeyStore returns an available key store backed by the shared key.
func KeyStore(t *testing.T) *signature.KeyStore {
	t.Helper()
	return signature.NewKeyStore(SharedPrivateKey(t))
}
