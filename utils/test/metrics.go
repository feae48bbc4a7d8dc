/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package test

import (
	"io"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	promgo "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CheckMetrics scrapes the prometheus URL until every expected line appears in the exposition.
func CheckMetrics(t *testing.T, url string, expectedMetrics ...string) {
	t.Helper()
	client := &http.Client{Timeout: 5 * time.Second}
	defer client.CloseIdleConnections()
	require.EventuallyWithT(t, func(ct *assert.CollectT) {
		exposition, err := scrape(client, url)
		require.NoError(ct, err)
		for _, expected := range expectedMetrics {
			assert.Contains(ct, exposition, expected)
		}
	}, 30*time.Second, 100*time.Millisecond, "metrics of %s", url)
}

func scrape(client *http.Client, url string) (string, error) {
	resp, err := client.Get(url) //nolint:noctx // test helper with client timeout.
	if err != nil {
		return "", errors.Wrap(err, "failed to scrape")
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("scrape returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	return string(body), errors.Wrap(err, "failed to read the exposition")
}

// MetricValue returns the value of a single prometheus metric.
// A histogram yields the sum of its samples.
func MetricValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var pm promgo.Metric
	require.NoError(t, m.Write(&pm))
	switch {
	case pm.Counter != nil:
		return pm.GetCounter().GetValue()
	case pm.Gauge != nil:
		return pm.GetGauge().GetValue()
	case pm.Histogram != nil:
		return pm.GetHistogram().GetSampleSum()
	}
	require.Failf(t, "unsupported metric", "%s", m.Desc())
	return 0
}

// RequireIntMetricValue fails the test if the rounded metric value differs from the expected.
func RequireIntMetricValue(t *testing.T, expected int, m prometheus.Metric) {
	t.Helper()
	require.Equal(t, expected, int(math.Round(MetricValue(t, m))))
}
