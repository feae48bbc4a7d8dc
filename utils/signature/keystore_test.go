/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
	"github.com/decentralized-trust-research/tiered-verifier/utils/test"
)

func TestLoadKeyStore(t *testing.T) {
	t.Parallel()
	c := test.KeyPairFiles(t)
	ks := signature.LoadKeyStore(c)
	require.True(t, ks.Available())
	require.NoError(t, ks.Err())

	pubPEM, err := ks.PublicKeyPEM()
	require.NoError(t, err)
	onDisk, err := os.ReadFile(c.PublicKeyPath)
	require.NoError(t, err)
	require.Equal(t, onDisk, pubPEM)

	// A loaded store verifies what the in-memory store signs.
	sig, err := signature.NewAuthenticator(test.KeyStore(t)).Sign([]byte(originalMessage))
	require.NoError(t, err)
	require.NoError(t, signature.NewAuthenticator(ks).Verify([]byte(originalMessage), sig))
}

func TestLoadKeyStorePKCS8(t *testing.T) {
	t.Parallel()
	c := test.KeyPairFiles(t)
	der, err := x509.MarshalPKCS8PrivateKey(test.SharedPrivateKey(t))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.PrivateKeyPath, pem.EncodeToMemory(&pem.Block{
		Type: "PRIVATE KEY", Bytes: der,
	}), 0o600))
	require.True(t, signature.LoadKeyStore(c).Available())
}

func TestLoadKeyStoreUnavailable(t *testing.T) {
	t.Parallel()

	otherKey, err := signature.GenerateKeyPair(signature.DefaultKeyBits)
	require.NoError(t, err)
	otherPub, err := signature.EncodePublicKey(&otherKey.PublicKey)
	require.NoError(t, err)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	ecDer, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
	require.NoError(t, err)
	ecPub := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: ecDer})

	for _, tc := range []struct {
		name   string
		modify func(t *testing.T, c *signature.KeyConfig)
	}{
		{
			name: "missing private key",
			modify: func(t *testing.T, c *signature.KeyConfig) {
				t.Helper()
				require.NoError(t, os.Remove(c.PrivateKeyPath))
			},
		},
		{
			name: "missing public key",
			modify: func(t *testing.T, c *signature.KeyConfig) {
				t.Helper()
				require.NoError(t, os.Remove(c.PublicKeyPath))
			},
		},
		{
			name: "unconfigured path",
			modify: func(t *testing.T, c *signature.KeyConfig) {
				t.Helper()
				c.PublicKeyPath = ""
			},
		},
		{
			name: "private key not PEM",
			modify: func(t *testing.T, c *signature.KeyConfig) {
				t.Helper()
				require.NoError(t, os.WriteFile(c.PrivateKeyPath, []byte("garbage"), 0o600))
			},
		},
		{
			name: "public key wrong PEM type",
			modify: func(t *testing.T, c *signature.KeyConfig) {
				t.Helper()
				require.NoError(t, os.WriteFile(c.PublicKeyPath, signature.EncodePrivateKey(otherKey), 0o600))
			},
		},
		{
			name: "public key not RSA",
			modify: func(t *testing.T, c *signature.KeyConfig) {
				t.Helper()
				require.NoError(t, os.WriteFile(c.PublicKeyPath, ecPub, 0o600))
			},
		},
		{
			name: "mismatched pair",
			modify: func(t *testing.T, c *signature.KeyConfig) {
				t.Helper()
				require.NoError(t, os.WriteFile(c.PublicKeyPath, otherPub, 0o600))
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := test.KeyPairFiles(t)
			tc.modify(t, c)
			ks := signature.LoadKeyStore(c)
			require.False(t, ks.Available())
			require.Error(t, ks.Err())
			_, err := ks.PublicKeyPEM()
			require.ErrorIs(t, err, signature.ErrKeyUnavailable)
		})
	}
}

func TestWriteKeyPair(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &signature.KeyConfig{
		PrivateKeyPath: filepath.Join(dir, "sender", "private.pem"),
		PublicKeyPath:  filepath.Join(dir, "public.pem"),
	}
	key := test.SharedPrivateKey(t)
	require.NoError(t, signature.WriteKeyPair(c, key, false))

	info, err := os.Stat(c.PrivateKeyPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	privPEM, err := os.ReadFile(c.PrivateKeyPath)
	require.NoError(t, err)
	block, _ := pem.Decode(privPEM)
	require.NotNil(t, block)
	require.Equal(t, "RSA PRIVATE KEY", block.Type)

	// Existing files are kept unless forced.
	require.Error(t, signature.WriteKeyPair(c, key, false))
	require.NoError(t, signature.WriteKeyPair(c, key, true))
	require.True(t, signature.LoadKeyStore(c).Available())

	require.Error(t, signature.WriteKeyPair(nil, key, false))
}

func TestGenerateKeyPair(t *testing.T) {
	t.Parallel()
	_, err := signature.GenerateKeyPair(1024)
	require.Error(t, err)

	key, err := signature.GenerateKeyPair(0)
	require.NoError(t, err)
	require.Equal(t, signature.DefaultKeyBits, key.N.BitLen())
	require.Equal(t, 65537, key.E)
}
