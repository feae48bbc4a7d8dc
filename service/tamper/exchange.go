/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tamper

import (
	"context"

	"github.com/decentralized-trust-research/tiered-verifier/service/verifier"
	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
)

// Exchange carries envelopes between the sender and the receiver of a tier.
// The harness sits in the middle of the exchange.
type Exchange interface {
	Send(ctx context.Context, t verifier.Tier, req verifier.Envelope) (verifier.Envelope, error)
	Receive(ctx context.Context, t verifier.Tier, req verifier.Envelope) (verifier.Receipt, error)
}

// Local is an in-process exchange over a dispatcher.
type Local struct {
	dispatcher *verifier.Dispatcher
}

// NewLocal instantiate an in-process exchange.
func NewLocal(dispatcher *verifier.Dispatcher) *Local {
	return &Local{dispatcher: dispatcher}
}

// Send invokes the dispatcher sender side.
func (l *Local) Send(ctx context.Context, t verifier.Tier, req verifier.Envelope) (verifier.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return verifier.Envelope{}, err
	}
	return l.dispatcher.Send(t, req)
}

// Receive invokes the dispatcher receiver side.
func (l *Local) Receive(ctx context.Context, t verifier.Tier, req verifier.Envelope) (verifier.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return verifier.Receipt{}, err
	}
	return l.dispatcher.Receive(t, req)
}

// NewExchange returns a client of the configured receiver,
// or an in-process receiver over the configured keys if no endpoint is set.
func NewExchange(c *Config) Exchange {
	if c.Receiver.Endpoint.Empty() {
		logger.Info("No receiver endpoint configured; using an in-process receiver")
		keys := signature.LoadKeyStore(&c.Keys)
		return NewLocal(verifier.NewDispatcher(signature.NewAuthenticator(keys)))
	}
	logger.Infof("Using receiver at %s", c.Receiver.Endpoint.String())
	return NewClient(&c.Receiver)
}
