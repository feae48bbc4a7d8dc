/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tamper

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/decentralized-trust-research/tiered-verifier/utils/monitoring"
)

const (
	resultPass = "pass"
	resultFail = "fail"
)

type metrics struct {
	Provider  *monitoring.Provider
	Scenarios *prometheus.CounterVec
}

func newMonitoring() *metrics {
	p := monitoring.NewProvider()
	return &metrics{
		Provider: p,
		Scenarios: p.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tamper_harness",
			Name:      "scenarios_total",
			Help:      "The total number of tamper scenarios by tier and result",
		}, []string{"tier", "result"}),
	}
}
