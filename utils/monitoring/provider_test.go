/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentralized-trust-research/tiered-verifier/utils/connection"
	"github.com/decentralized-trust-research/tiered-verifier/utils/monitoring/promutil"
	"github.com/decentralized-trust-research/tiered-verifier/utils/test"
)

type metricsProviderTestEnv struct {
	provider *Provider
	url      string
}

func newMetricsProviderTestEnv(t *testing.T) *metricsProviderTestEnv {
	t.Helper()
	p := NewProvider()
	require.Empty(t, p.URL())

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Minute)
	done := make(chan struct{})
	t.Cleanup(func() { <-done })
	t.Cleanup(cancel)
	go func() {
		defer close(done)
		assert.NoError(t, p.StartPrometheusServer(ctx, connection.NewLocalHostServer()))
	}()

	url, ok := p.WaitForURL(ctx)
	require.True(t, ok)
	require.Equal(t, url, p.URL())
	return &metricsProviderTestEnv{provider: p, url: url}
}

func TestCounterVec(t *testing.T) {
	t.Parallel()
	env := newMetricsProviderTestEnv(t)

	cv := env.provider.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tier_service",
		Name:      "requests_total",
		Help:      "The total number of requests",
	}, []string{"tier"})

	promutil.IncCounterVec(cv, "hash")
	promutil.IncCounterVec(cv, "hash")
	test.CheckMetrics(t, env.url, `tier_service_requests_total{tier="hash"} 2`)
}

func TestGauge(t *testing.T) {
	t.Parallel()
	env := newMetricsProviderTestEnv(t)

	g := env.provider.NewGauge(prometheus.GaugeOpts{
		Namespace: "tier_service",
		Name:      "key_available",
		Help:      "Whether the signing key pair is loaded",
	})
	promutil.SetGaugeBool(g, true)
	test.CheckMetrics(t, env.url, "tier_service_key_available 1")
}

func TestHistogramVec(t *testing.T) {
	t.Parallel()
	env := newMetricsProviderTestEnv(t)

	hv := env.provider.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tier_service",
		Name:      "request_duration_seconds",
		Help:      "Request latency",
		Buckets:   []float64{0.5, 1},
	}, []string{"tier"})
	hv.WithLabelValues("signature").Observe(0.25)
	test.CheckMetrics(t, env.url,
		`tier_service_request_duration_seconds_bucket{tier="signature",le="0.5"} 1`,
		`tier_service_request_duration_seconds_count{tier="signature"} 1`,
	)
}

func TestWaitForURLCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	url, ok := NewProvider().WaitForURL(ctx)
	require.False(t, ok)
	require.Empty(t, url)
}

func TestNoServerConfig(t *testing.T) {
	t.Parallel()
	require.NoError(t, NewProvider().StartPrometheusServer(t.Context(), nil))
}
