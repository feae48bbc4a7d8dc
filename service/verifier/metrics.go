/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/decentralized-trust-research/tiered-verifier/utils/monitoring"
)

// Operation label values.
const (
	opSend    = "send"
	opReceive = "receive"
)

// Send outcome label values. Receive outcomes use the receipt status.
const (
	statusOK    = "ok"
	statusError = "error"
)

type metrics struct {
	Provider        *monitoring.Provider
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	KeyAvailable    prometheus.Gauge
}

func newMonitoring() *metrics {
	p := monitoring.NewProvider()
	return &metrics{
		Provider: p,
		Requests: p.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tier_service",
			Name:      "requests_total",
			Help:      "The total number of tier requests by tier, operation, and outcome",
		}, []string{"tier", "operation", "status"}),
		RequestDuration: p.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tier_service",
			Name:      "request_duration_seconds",
			Help:      "Tier request processing time in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"tier", "operation"}),
		KeyAvailable: p.NewGauge(prometheus.GaugeOpts{
			Namespace: "tier_service",
			Name:      "key_available",
			Help:      "Whether the signature tier key pair is loaded (1) or not (0)",
		}),
	}
}
