/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tamper

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/onsi/gomega"
	"github.com/stretchr/testify/require"

	"github.com/decentralized-trust-research/tiered-verifier/service/verifier"
	"github.com/decentralized-trust-research/tiered-verifier/utils/connection"
	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
	"github.com/decentralized-trust-research/tiered-verifier/utils/test"
)

func startVerifier(t *testing.T, keys *signature.KeyConfig) *ReceiverConfig {
	t.Helper()
	s := verifier.New(&verifier.Config{
		Server: connection.NewLocalHostServer(),
		Keys:   *keys,
	})
	test.StartServiceForTest(t.Context(), t, s)
	return &ReceiverConfig{
		Endpoint:  s.Endpoint(),
		Timeout:   5 * time.Second,
		Reconnect: connection.RetryProfile{MaxElapsedTime: 10 * time.Second},
	}
}

func newTestClient(t *testing.T, c *ReceiverConfig) *Client {
	t.Helper()
	client := NewClient(c)
	t.Cleanup(client.Close)

	g := gomega.NewWithT(t)
	g.Eventually(func() bool {
		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()
		return client.WaitForReady(ctx)
	}).WithTimeout(30 * time.Second).WithPolling(100 * time.Millisecond).Should(gomega.BeTrue())
	return client
}

func TestClientHarnessEndToEnd(t *testing.T) {
	t.Parallel()
	receiver := startVerifier(t, test.KeyPairFiles(t))
	client := newTestClient(t, receiver)

	h := NewHarness(&Config{Receiver: *receiver, Rounds: 4, Seed: 11, RateLimit: 100}, client)
	report, err := h.Run(t.Context())
	require.NoError(t, err)
	require.True(t, report.Passed(), "failures: %v", report.Failures())
	require.Equal(t, receiver.Endpoint.String(), report.Receiver)
	require.Len(t, report.Results, 12)

	for _, res := range report.Results {
		if res.Round != 1 {
			continue
		}
		require.Equal(t, tamperedMessage, res.Tampered)
		switch res.Tier {
		case verifier.Plaintext:
			require.Equal(t, verifier.DetailNoSecurity, res.Detail)
		case verifier.Hash:
			require.Equal(t, verifier.DetailHashInvalid, res.Detail)
		case verifier.Signature:
			require.Equal(t, verifier.DetailSignatureInvalid, res.Detail)
		}
	}
}

func TestClientHarnessLargeMessage(t *testing.T) {
	t.Parallel()
	receiver := startVerifier(t, test.KeyPairFiles(t))
	client := newTestClient(t, receiver)

	message := strings.Repeat("Pay $1000 to Ali. ", 120_000)
	require.Greater(t, len(message), 2<<20)

	h := NewHarness(&Config{Receiver: *receiver, Message: message, Rounds: 2, Seed: 5}, client)
	report, err := h.Run(t.Context())
	require.NoError(t, err)
	require.True(t, report.Passed())
	require.Len(t, report.Results, 6)
	for _, res := range report.Results {
		require.Len(t, res.Original, len(message))
	}
}

func TestClientExchange(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, startVerifier(t, test.KeyPairFiles(t)))

	env, err := client.Send(t.Context(), verifier.Signature, verifier.Envelope{Message: originalMessage})
	require.NoError(t, err)
	require.NotEmpty(t, env.Signature)

	r, err := client.Receive(t.Context(), verifier.Signature, env)
	require.NoError(t, err)
	require.Equal(t, verifier.Accepted, r.Status)
	require.Equal(t, verifier.DetailSignatureValid, r.Detail)

	_, err = client.Send(t.Context(), verifier.Tier(8), verifier.Envelope{Message: originalMessage})
	require.ErrorIs(t, err, verifier.ErrUnknownTier)
}

func TestClientKeyUnavailable(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, startVerifier(t, &signature.KeyConfig{}))

	_, err := client.Send(t.Context(), verifier.Signature, verifier.Envelope{Message: originalMessage})
	require.ErrorIs(t, err, signature.ErrKeyUnavailable)

	r, err := client.Receive(t.Context(), verifier.Signature, verifier.Envelope{Message: originalMessage, Signature: "YWJj"})
	require.ErrorIs(t, err, signature.ErrKeyUnavailable)
	require.Equal(t, verifier.Rejected, r.Status)
	require.Equal(t, "key not loaded", r.Error)

	env, err := client.Send(t.Context(), verifier.Hash, verifier.Envelope{Message: originalMessage})
	require.NoError(t, err)
	require.NotEmpty(t, env.Hash)
}

func TestClientUnreachable(t *testing.T) {
	t.Parallel()
	client := NewClient(&ReceiverConfig{
		Endpoint:  *connection.CreateEndpoint("localhost:1"),
		Reconnect: connection.RetryProfile{InitialInterval: 10 * time.Millisecond, MaxElapsedTime: 200 * time.Millisecond},
	})
	t.Cleanup(client.Close)

	require.False(t, client.WaitForReady(t.Context()))
	_, err := client.Send(t.Context(), verifier.Hash, verifier.Envelope{Message: originalMessage})
	require.Error(t, err)
}
