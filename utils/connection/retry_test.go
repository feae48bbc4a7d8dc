/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestNewBackoff(t *testing.T) {
	t.Parallel()
	var nilProfile *RetryProfile
	b := nilProfile.NewBackoff()
	require.Equal(t, defaultInitialInterval, b.InitialInterval)
	require.InDelta(t, defaultMultiplier, b.Multiplier, 1e-9)
	require.Equal(t, defaultMaxElapsedTime, b.MaxElapsedTime)

	b = (&RetryProfile{InitialInterval: time.Second, MaxElapsedTime: time.Minute}).NewBackoff()
	require.Equal(t, time.Second, b.InitialInterval)
	require.Equal(t, defaultMaxInterval, b.MaxInterval)
	require.Equal(t, time.Minute, b.MaxElapsedTime)
}

func TestExecute(t *testing.T) {
	t.Parallel()
	p := &RetryProfile{InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}

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
	errPermanent := errors.New("bad request")
	err := p.Execute(t.Context(), func() error {
		attempts++
		return errors.Mark(errPermanent, ErrNonRetryable)
	})
	require.ErrorIs(t, err, errPermanent)
	require.Equal(t, 1, attempts)
}

func TestExecuteGivesUp(t *testing.T) {
	t.Parallel()
	errTransient := errors.New("connection refused")
	p := &RetryProfile{InitialInterval: time.Millisecond, MaxElapsedTime: 50 * time.Millisecond}
	require.ErrorIs(t, p.Execute(t.Context(), func() error { return errTransient }), errTransient)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.Error(t, (&RetryProfile{}).Execute(ctx, func() error { return errTransient }))
}
