/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentralized-trust-research/tiered-verifier/utils/connection"
)

const serviceReadyTimeout = time.Minute

// StartServiceForTest runs the service in the background until the test ends, and waits for it
// to be ready. The test fails if the service returns an error.
// Returns a channel that is closed once the service returned.
func StartServiceForTest(ctx context.Context, tb testing.TB, service connection.Service) <-chan struct{} {
	tb.Helper()
	sCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	// Cleanups run last added first, so the service is canceled before we wait for it.
	tb.Cleanup(func() { <-done })
	tb.Cleanup(cancel)

	go func() {
		defer close(done)
		// assert, since require must not be called outside the test goroutine.
		assert.NoError(tb, service.Run(sCtx), "service %T ended with an error", service)
	}()

	readyCtx, readyCancel := context.WithTimeout(sCtx, serviceReadyTimeout)
	defer readyCancel()
	require.True(tb, service.WaitForReady(readyCtx), "service %T is not ready", service)
	return done
}
