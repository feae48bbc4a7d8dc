/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tamper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/decentralized-trust-research/tiered-verifier/service/verifier"
	"github.com/decentralized-trust-research/tiered-verifier/utils/connection"
	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
)

// Longer error bodies are truncated in the returned error.
const maxErrorBodySize = 512

// Client is an exchange with a remote tier verifier service.
// Connection failures are retried with the reconnect profile.
// HTTP level failures are not.
type Client struct {
	endpoint connection.Endpoint
	http     *http.Client
	retry    *connection.RetryProfile
}

// NewClient instantiate a client of the remote receiver.
func NewClient(c *ReceiverConfig) *Client {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: c.Endpoint,
		http:     &http.Client{Timeout: timeout},
		retry:    &c.Reconnect,
	}
}

// Send asks the remote sender to originate an envelope.
func (c *Client) Send(ctx context.Context, t verifier.Tier, req verifier.Envelope) (verifier.Envelope, error) {
	var resp verifier.Envelope
	err := c.post(ctx, t, "send", &req, &resp)
	return resp, err
}

// Receive forwards an envelope to the remote receiver.
func (c *Client) Receive(ctx context.Context, t verifier.Tier, req verifier.Envelope) (verifier.Receipt, error) {
	var resp verifier.Receipt
	err := c.post(ctx, t, "receive", &req, &resp)
	return resp, err
}

// WaitForReady waits for the remote health check to succeed.
// If the context ended before the service is ready, returns false.
func (c *Client) WaitForReady(ctx context.Context) bool {
	url, err := c.endpoint.URL("healthz")
	if err != nil {
		return false
	}
	err = c.retry.Execute(ctx, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if reqErr != nil {
			return errors.Mark(reqErr, connection.ErrNonRetryable)
		}
		var health verifier.Health
		return c.do(req, &health)
	})
	if err != nil {
		logger.Warnf("Receiver is not ready: %v", err)
	}
	return err == nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) post(ctx context.Context, t verifier.Tier, action string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "failed to encode request")
	}
	url, err := c.endpoint.URL("tiers", t.String(), action)
	if err != nil {
		return err
	}
	return c.retry.Execute(ctx, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if reqErr != nil {
			return errors.Mark(reqErr, connection.ErrNonRetryable)
		}
		req.Header.Set("Content-Type", "application/json")
		return c.do(req, out)
	})
}

// do returns a retryable error only if the request did not reach the server.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to reach %s", req.URL)
	}
	defer connection.CloseConnectionsLog(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		err = errors.Wrap(json.Unmarshal(raw, out), "failed to decode response")
	case http.StatusServiceUnavailable:
		// The receiver reports its rejection receipt along with the error.
		_ = json.Unmarshal(raw, out)
		err = errors.Wrap(signature.ErrKeyUnavailable, "receiver")
	case http.StatusNotFound:
		err = errors.Wrapf(verifier.ErrUnknownTier, "%s", req.URL.Path)
	default:
		raw = bytes.TrimSpace(raw)
		if len(raw) > maxErrorBodySize {
			raw = raw[:maxErrorBodySize]
		}
		err = errors.Newf("unexpected status %d: %s", resp.StatusCode, raw)
	}
	if err != nil {
		return errors.Mark(err, connection.ErrNonRetryable)
	}
	return nil
}
