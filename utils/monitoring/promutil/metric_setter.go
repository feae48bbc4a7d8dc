/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package promutil

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncCounterVec increments the counter of the given labels.
func IncCounterVec(c *prometheus.CounterVec, labels ...string) {
	c.WithLabelValues(labels...).Inc()
}

// SetGaugeBool sets a gauge to 1 if the flag is set, 0 otherwise.
func SetGaugeBool(g prometheus.Gauge, flag bool) {
	if flag {
		g.Set(1)
		return
	}
	g.Set(0)
}

// ObserveVecSince observes the time elapsed since start on the histogram of the given labels.
func ObserveVecSince(h *prometheus.HistogramVec, start time.Time, labels ...string) {
	h.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
}
