/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package monitoring

import (
	"context"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/decentralized-trust-research/tiered-verifier/utils/connection"
	"github.com/decentralized-trust-research/tiered-verifier/utils/logging"
)

const metricsSubPath = "metrics"

var logger = logging.New("monitoring")

// Provider holds the metrics of a single service and optionally exposes them over HTTP.
// Each service instance owns a registry, so instances in the same process do not collide.
type Provider struct {
	registry *prometheus.Registry

	url        string
	serving    chan struct{}
	servingOne sync.Once
}

// NewProvider creates a new prometheus metrics provider.
func NewProvider() *Provider {
	return &Provider{
		registry: prometheus.NewRegistry(),
		serving:  make(chan struct{}),
	}
}

// StartPrometheusServer serves the registry at /metrics until the context ends.
// A nil server config disables serving and returns immediately.
func (p *Provider) StartPrometheusServer(ctx context.Context, serverConfig *connection.ServerConfig) error {
	if serverConfig == nil {
		logger.Info("No monitoring server configured")
		return nil
	}
	l, err := serverConfig.Listener()
	if err != nil {
		return errors.Wrap(err, "failed to start prometheus server")
	}
	defer connection.CloseConnectionsLog(l)

	url, err := serverConfig.Endpoint.URL(metricsSubPath)
	if err != nil {
		return err
	}
	p.servingOne.Do(func() {
		p.url = url
		close(p.serving)
	})

	mux := http.NewServeMux()
	mux.Handle("/"+metricsSubPath, promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry}))
	logger.Infof("Prometheus serving on URL: %s", url)
	defer logger.Info("Prometheus stopped serving")
	return connection.ServeHTTP(ctx, serverConfig.NewHTTPServer(mux), l)
}

// URL returns the prometheus server URL, or empty if it is not serving yet.
func (p *Provider) URL() string {
	select {
	case <-p.serving:
		return p.url
	default:
		return ""
	}
}

// WaitForURL waits until the prometheus server listens and returns its URL.
// It returns false if the context ended first.
func (p *Provider) WaitForURL(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case <-p.serving:
		return p.url, true
	}
}

// NewCounterVec creates and registers a counter vector.
func (p *Provider) NewCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	return register(p, prometheus.NewCounterVec(opts, labels))
}

// NewGauge creates and registers a gauge.
func (p *Provider) NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	return register(p, prometheus.NewGauge(opts))
}

// NewHistogramVec creates and registers a histogram vector.
func (p *Provider) NewHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	return register(p, prometheus.NewHistogramVec(opts, labels))
}

func register[T prometheus.Collector](p *Provider, c T) T {
	p.registry.MustRegister(c)
	return c
}
