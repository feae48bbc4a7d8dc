/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// PEM block types.
const (
	pkcs1PrivateKeyType = "RSA PRIVATE KEY"
	pkcs8PrivateKeyType = "PRIVATE KEY"
	publicKeyType       = "PUBLIC KEY"
)

// KeyConfig describes where the key pair is stored.
type KeyConfig struct {
	PrivateKeyPath string `mapstructure:"private-key-path" yaml:"private-key-path"`
	PublicKeyPath  string `mapstructure:"public-key-path"  yaml:"public-key-path"`
}

// KeyStore holds the process-lifetime key pair.
// It is immutable after construction and safe for concurrent use.
// A store without keys is Unavailable and reports the cause via Err.
type KeyStore struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	err        error
}

// LoadKeyStore loads the key pair from the configured locations.
// It never fails. If either key cannot be loaded, the returned store is Unavailable.
func LoadKeyStore(c *KeyConfig) *KeyStore {
	ks, err := loadKeyPair(c)
	if err != nil {
		logger.Warnf("Could not load the key pair; the signature tier is unavailable: %v", err)
		return &KeyStore{err: err}
	}
	logger.Infof("Loaded %d-bit RSA key pair", ks.publicKey.N.BitLen())
	return ks
}

// NewKeyStore returns an available store of the given private key.
func NewKeyStore(priv *rsa.PrivateKey) *KeyStore {
	if priv == nil {
		return &KeyStore{err: ErrKeyUnavailable}
	}
	return &KeyStore{privateKey: priv, publicKey: &priv.PublicKey}
}

func loadKeyPair(c *KeyConfig) (*KeyStore, error) {
	if c == nil || c.PrivateKeyPath == "" || c.PublicKeyPath == "" {
		return nil, errors.New("key paths are not configured")
	}
	privPEM, err := os.ReadFile(filepath.Clean(c.PrivateKeyPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read private key")
	}
	pubPEM, err := os.ReadFile(filepath.Clean(c.PublicKeyPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read public key")
	}
	priv, err := ParsePrivateKey(privPEM)
	if err != nil {
		return nil, err
	}
	pub, err := ParsePublicKey(pubPEM)
	if err != nil {
		return nil, err
	}
	if !priv.PublicKey.Equal(pub) {
		return nil, errors.New("public key does not match the private key")
	}
	return &KeyStore{privateKey: priv, publicKey: pub}, nil
}

// Available returns true if the key pair was loaded.
func (k *KeyStore) Available() bool {
	return k != nil && k.privateKey != nil && k.publicKey != nil
}

// Err returns the reason the store is unavailable, or nil.
func (k *KeyStore) Err() error {
	if k == nil {
		return ErrKeyUnavailable
	}
	return k.err
}

// PublicKeyPEM returns the SubjectPublicKeyInfo PEM encoding of the public key.
func (k *KeyStore) PublicKeyPEM() ([]byte, error) {
	if !k.Available() {
		return nil, ErrKeyUnavailable
	}
	return EncodePublicKey(k.publicKey)
}

// ParsePrivateKey decodes a PKCS#1 or PKCS#8 PEM encoded RSA private key.
func ParsePrivateKey(keyContent []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(keyContent)
	if block == nil {
		return nil, errors.New("failed to decode PEM block containing private key")
	}
	switch block.Type {
	case pkcs1PrivateKeyType:
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		return key, errors.Wrap(err, "cannot parse private key")
	case pkcs8PrivateKeyType:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "cannot parse private key")
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.Newf("private key is %T, not RSA", key)
		}
		return rsaKey, nil
	default:
		return nil, errors.Newf("unknown private key block type: %s", block.Type)
	}
}

// ParsePublicKey decodes a SubjectPublicKeyInfo PEM encoded RSA public key.
func ParsePublicKey(key []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(key)
	if block == nil || block.Type != publicKeyType {
		return nil, errors.New("failed to decode PEM block containing public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse public key")
	}
	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.Newf("public key is %T, not RSA", pub)
	}
	return rsaKey, nil
}
