/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
)

// RetryProfile defines the exponential backoff of a retried operation.
// Zero fields take the defaults below.
type RetryProfile struct {
	InitialInterval     time.Duration `mapstructure:"initial-interval"     yaml:"initial-interval"`
	RandomizationFactor float64       `mapstructure:"randomization-factor" yaml:"randomization-factor"`
	Multiplier          float64       `mapstructure:"multiplier"           yaml:"multiplier"`
	MaxInterval         time.Duration `mapstructure:"max-interval"         yaml:"max-interval"`
	// MaxElapsedTime bounds the total retry time.
	MaxElapsedTime time.Duration `mapstructure:"max-elapsed-time" yaml:"max-elapsed-time"`
}

const (
	defaultInitialInterval     = 100 * time.Millisecond
	defaultRandomizationFactor = 0.5
	defaultMultiplier          = 1.5
	defaultMaxInterval         = 2 * time.Second
	defaultMaxElapsedTime      = 30 * time.Second
)

// ErrNonRetryable marks an error that should stop the retry loop.
var ErrNonRetryable = errors.New("cannot recover from error")

// Execute runs the operation until it succeeds, the profile gives up, or the context ends.
// It returns the last error of the operation.
// An error marked with ErrNonRetryable is returned immediately.
func (p *RetryProfile) Execute(ctx context.Context, o backoff.Operation) error {
	return backoff.RetryNotify(
		func() error {
			err := o()
			if errors.Is(err, ErrNonRetryable) {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(p.NewBackoff(), ctx),
		func(err error, next time.Duration) {
			logger.Debugf("Retrying in %s after error: %v", next, err)
		},
	)
}

// NewBackoff creates a [backoff.ExponentialBackOff] of this profile.
// A nil profile yields the defaults.
func (p *RetryProfile) NewBackoff() *backoff.ExponentialBackOff {
	if p == nil {
		p = &RetryProfile{}
	}
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(orDefault(p.InitialInterval, defaultInitialInterval)),
		backoff.WithRandomizationFactor(orDefault(p.RandomizationFactor, defaultRandomizationFactor)),
		backoff.WithMultiplier(orDefault(p.Multiplier, defaultMultiplier)),
		backoff.WithMaxInterval(orDefault(p.MaxInterval, defaultMaxInterval)),
		backoff.WithMaxElapsedTime(orDefault(p.MaxElapsedTime, defaultMaxElapsedTime)),
	)
}

func orDefault[T comparable](value, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}
