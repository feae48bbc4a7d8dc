/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tamper

import "go.uber.org/ratelimit"

func newLimiter(limit int) ratelimit.Limiter {
	if limit < 1 {
		logger.Debugf("Setting to unlimited (value passed: %d).", limit)
		return ratelimit.NewUnlimited()
	}
	logger.Infof("Setting limit to %d scenarios per second.", limit)
	return ratelimit.New(limit)
}
