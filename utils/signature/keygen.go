/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// DefaultKeyBits is the RSA modulus size of generated keys.
const DefaultKeyBits = 2048

const (
	privateKeyFileMode = 0o600
	publicKeyFileMode  = 0o644
	keyDirMode         = 0o750
)

// GenerateKeyPair generates a new RSA key with public exponent 65537.
// Zero bits selects DefaultKeyBits.
func GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	if bits == 0 {
		bits = DefaultKeyBits
	}
	if bits < DefaultKeyBits {
		return nil, errors.Newf("key size %d is below the minimum of %d bits", bits, DefaultKeyBits)
	}
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	return priv, errors.Wrap(err, "failed to generate RSA key")
}

// EncodePrivateKey returns the PKCS#1 PEM encoding of the key.
func EncodePrivateKey(priv *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  pkcs1PrivateKeyType,
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
}

// EncodePublicKey returns the SubjectPublicKeyInfo PEM encoding of the key.
func EncodePublicKey(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize public key")
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  publicKeyType,
		Bytes: der,
	}), nil
}

// WriteKeyPair persists the key pair to the configured locations.
// Existing files are kept unless force is set.
func WriteKeyPair(c *KeyConfig, priv *rsa.PrivateKey, force bool) error {
	if c == nil || c.PrivateKeyPath == "" || c.PublicKeyPath == "" {
		return errors.New("key paths are not configured")
	}
	pubPEM, err := EncodePublicKey(&priv.PublicKey)
	if err != nil {
		return err
	}
	if err = writeKeyFile(c.PrivateKeyPath, EncodePrivateKey(priv), privateKeyFileMode, force); err != nil {
		return err
	}
	if err = writeKeyFile(c.PublicKeyPath, pubPEM, publicKeyFileMode, force); err != nil {
		return err
	}
	logger.Infof("Wrote key pair: private [%s] public [%s]", c.PrivateKeyPath, c.PublicKeyPath)
	return nil
}

func writeKeyFile(path string, content []byte, mode os.FileMode, force bool) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), keyDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, mode)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", path)
	}
	_, err = f.Write(content)
	return errors.Wrapf(errors.Join(err, f.Close()), "failed writing %s", path)
}
