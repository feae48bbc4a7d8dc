/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signature

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"

	"github.com/cockroachdb/errors"
)

// Authenticator signs and verifies messages with RSA PKCS#1 v1.5 over SHA-256.
type Authenticator struct {
	keys *KeyStore
}

// NewAuthenticator instantiate an authenticator over the given key store.
func NewAuthenticator(keys *KeyStore) *Authenticator {
	return &Authenticator{keys: keys}
}

// Available returns true if the underlying key pair is loaded.
func (a *Authenticator) Available() bool {
	return a.keys.Available()
}

// Sign returns the signature of the message.
// PKCS#1 v1.5 is deterministic, so the same message and key always yield the same signature.
func (a *Authenticator) Sign(message []byte) (Signature, error) {
	if !a.keys.Available() {
		return nil, ErrKeyUnavailable
	}
	d := sha256.Sum256(message)
	sig, err := rsa.SignPKCS1v15(nil, a.keys.privateKey, crypto.SHA256, d[:])
	return sig, errors.Wrap(err, "failed to sign message")
}

// SignEncoded returns the base64 form of the message signature.
func (a *Authenticator) SignEncoded(message []byte) (string, error) {
	sig, err := a.Sign(message)
	if err != nil {
		return "", err
	}
	return EncodeSignature(sig), nil
}

// Verify returns nil if the signature matches the message.
// Every verification failure is reported as ErrSignatureMismatch.
func (a *Authenticator) Verify(message []byte, sig Signature) error {
	if !a.keys.Available() {
		return ErrKeyUnavailable
	}
	d := sha256.Sum256(message)
	if err := rsa.VerifyPKCS1v15(a.keys.publicKey, crypto.SHA256, d[:], sig); err != nil {
		logger.Debugf("Verification failure: %v", err)
		return ErrSignatureMismatch
	}
	return nil
}

// VerifyEncoded decodes a base64 signature and verifies it.
// A decoding failure is reported as ErrSignatureMismatch.
func (a *Authenticator) VerifyEncoded(message []byte, sigB64 string) error {
	if !a.keys.Available() {
		return ErrKeyUnavailable
	}
	sig, err := DecodeSignature(sigB64)
	if err != nil {
		logger.Debugf("Malformed signature: %v", err)
		return ErrSignatureMismatch
	}
	return a.Verify(message, sig)
}

// EncodeSignature returns the standard base64 form of a signature.
func EncodeSignature(sig Signature) string {
	return base64.StdEncoding.EncodeToString(sig)
}

// DecodeSignature parses a standard base64 signature.
func DecodeSignature(sigB64 string) (Signature, error) {
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	return sig, errors.Wrap(err, "malformed base64 signature")
}
