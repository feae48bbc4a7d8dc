/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"github.com/cockroachdb/errors"

	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
)

// protection implements the sender and receiver sides of a single tier.
// The receiver side never trusts the sender and always recomputes the credential.
type protection interface {
	originate(message string) (Envelope, error)
	accept(req Envelope) (Receipt, error)
}

type (
	plaintextProtection struct{}
	hashProtection      struct{}
	signatureProtection struct {
		auth *signature.Authenticator
	}
)

func (plaintextProtection) originate(message string) (Envelope, error) {
	return Envelope{Message: message}, nil
}

func (plaintextProtection) accept(req Envelope) (Receipt, error) {
	return Receipt{Status: Accepted, Message: req.Message, Detail: DetailNoSecurity}, nil
}

func (hashProtection) originate(message string) (Envelope, error) {
	return Envelope{
		Message: message,
		Hash:    signature.EncodeDigest(signature.ComputeDigest([]byte(message))),
	}, nil
}

func (hashProtection) accept(req Envelope) (Receipt, error) {
	if signature.VerifyDigest([]byte(req.Message), req.Hash) {
		return Receipt{Status: Accepted, Message: req.Message, Detail: DetailHashValid}, nil
	}
	return Receipt{Status: Rejected, Message: req.Message, Detail: DetailHashInvalid}, nil
}

func (p *signatureProtection) originate(message string) (Envelope, error) {
	sig, err := p.auth.SignEncoded([]byte(message))
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Message: message, Signature: sig}, nil
}

func (p *signatureProtection) accept(req Envelope) (Receipt, error) {
	err := p.auth.VerifyEncoded([]byte(req.Message), req.Signature)
	switch {
	case err == nil:
		return Receipt{Status: Accepted, Message: req.Message, Detail: DetailSignatureValid}, nil
	case errors.Is(err, signature.ErrKeyUnavailable):
		return Receipt{Status: Rejected, Message: req.Message, Error: err.Error()}, err
	default:
		return Receipt{Status: Rejected, Message: req.Message, Detail: DetailSignatureInvalid}, nil
	}
}
