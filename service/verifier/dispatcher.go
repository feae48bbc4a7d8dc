/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"github.com/cockroachdb/errors"

	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
)

// Dispatcher routes sender and receiver calls to the protection of the requested tier.
// It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	tiers map[Tier]protection
	auth  *signature.Authenticator
}

// NewDispatcher instantiate a dispatcher of all tiers.
// The signature tier uses the given authenticator.
func NewDispatcher(auth *signature.Authenticator) *Dispatcher {
	if auth == nil {
		auth = signature.NewAuthenticator(nil)
	}
	return &Dispatcher{
		tiers: map[Tier]protection{
			Plaintext: plaintextProtection{},
			Hash:      hashProtection{},
			Signature: &signatureProtection{auth: auth},
		},
		auth: auth,
	}
}

// Send produces the envelope of the message for the given tier.
// Only the message field of the request is used.
func (d *Dispatcher) Send(t Tier, req Envelope) (Envelope, error) {
	p, err := d.protection(t)
	if err != nil {
		return Envelope{}, err
	}
	resp, err := p.originate(req.Message)
	if err != nil {
		logger.Warnf("Sender %s failed: %v", t, err)
		return Envelope{}, err
	}
	logger.Debugf("Sender %s - Outgoing message: '%s'", t, resp.Message)
	return resp, nil
}

// Receive verifies the envelope according to the given tier.
// A verification failure is not an error. It is reported as a rejected receipt.
func (d *Dispatcher) Receive(t Tier, req Envelope) (Receipt, error) {
	p, err := d.protection(t)
	if err != nil {
		return Receipt{}, err
	}
	logger.Debugf("Receiver %s - Incoming message: '%s'", t, req.Message)
	r, err := p.accept(req)
	if err != nil {
		logger.Warnf("Receiver %s failed: %v", t, err)
		return r, err
	}
	logger.Debugf("Receiver %s - %s: %s", t, r.Status, r.Detail)
	return r, nil
}

// SignatureAvailable returns true if the signature tier has a loaded key pair.
func (d *Dispatcher) SignatureAvailable() bool {
	return d.auth.Available()
}

func (d *Dispatcher) protection(t Tier) (protection, error) {
	p, ok := d.tiers[t]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTier, "%d", t)
	}
	return p, nil
}
