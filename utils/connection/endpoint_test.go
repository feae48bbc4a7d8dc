/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEndpoint(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		value    string
		expected *Endpoint
		err      bool
	}{
		{value: "", expected: &Endpoint{}},
		{value: "localhost:8000", expected: &Endpoint{Host: "localhost", Port: 8000}},
		{value: ":8000", expected: &Endpoint{Port: 8000}},
		{value: "[::1]:8000", expected: &Endpoint{Host: "::1", Port: 8000}},
		{value: "localhost", err: true},
		{value: "localhost:abc", err: true},
		{value: "localhost:70000", err: true},
	} {
		t.Run(tc.value, func(t *testing.T) {
			t.Parallel()
			e, err := NewEndpoint(tc.value)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, e)
		})
	}
}

func TestEndpointAddressAndURL(t *testing.T) {
	t.Parallel()
	e := &Endpoint{Host: "localhost", Port: 8000}
	require.Equal(t, "localhost:8000", e.Address())
	require.False(t, e.Empty())
	u, err := e.URL("level2", "verify")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000/level2/verify", u)

	var nilEndpoint *Endpoint
	require.True(t, nilEndpoint.Empty())
	require.True(t, NewLocalHost().Empty())
}

func TestServeHTTP(t *testing.T) {
	t.Parallel()
	c := NewLocalHostServer()
	l, err := c.Listener()
	require.NoError(t, err)
	require.NotZero(t, c.Endpoint.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- ServeHTTP(ctx, c.NewHTTPServer(mux), l)
	}()

	url, err := c.Endpoint.URL("ping")
	require.NoError(t, err)
	require.EventuallyWithT(t, func(ct *assert.CollectT) {
		resp, reqErr := http.Get(url) //nolint:noctx // test.
		require.NoError(ct, reqErr)
		require.NoError(ct, resp.Body.Close())
		require.Equal(ct, http.StatusNoContent, resp.StatusCode)
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRetryExecute(t *testing.T) {
	t.Parallel()
	p := &RetryProfile{InitialInterval: time.Millisecond, MaxElapsedTime: 5 * time.Second}

	attempts := 0
	require.NoError(t, p.Execute(t.Context(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}))
	require.Equal(t, 3, attempts)

	attempts = 0
	err := p.Execute(t.Context(), func() error {
		attempts++
		return errors.Wrap(ErrNonRetryable, "bad request")
	})
	require.ErrorIs(t, err, ErrNonRetryable)
	require.Equal(t, 1, attempts)
}
