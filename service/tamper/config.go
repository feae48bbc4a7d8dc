/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tamper

import (
	"time"

	"github.com/decentralized-trust-research/tiered-verifier/utils/connection"
	"github.com/decentralized-trust-research/tiered-verifier/utils/monitoring"
	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
)

type (
	// Config describes the tamper harness parameters.
	Config struct {
		// Receiver is the tier service under test. An empty endpoint runs an in-process receiver.
		Receiver ReceiverConfig `mapstructure:"receiver" yaml:"receiver"`
		// Message is the sender original message.
		Message  string         `mapstructure:"message"  yaml:"message"`
		Mutation MutationConfig `mapstructure:"mutation" yaml:"mutation"`
		// Rounds is the number of rounds. The first round applies the configured mutation.
		// The following rounds apply a random single byte mutation.
		Rounds int `mapstructure:"rounds" yaml:"rounds"`
		// Seed of the random mutations. Zero picks a time based seed.
		Seed int64 `mapstructure:"seed" yaml:"seed"`
		// RateLimit is the maximal number of scenarios per second. Non-positive means unlimited.
		RateLimit  int                 `mapstructure:"rate-limit"  yaml:"rate-limit"`
		ReportPath string              `mapstructure:"report-path" yaml:"report-path"`
		Keys       signature.KeyConfig `mapstructure:"keys"        yaml:"keys"`
		Monitoring monitoring.Config   `mapstructure:"monitoring"  yaml:"monitoring"`
	}

	// ReceiverConfig describes how to reach a remote receiver.
	ReceiverConfig struct {
		Endpoint  connection.Endpoint     `mapstructure:"endpoint"  yaml:"endpoint"`
		Timeout   time.Duration           `mapstructure:"timeout"   yaml:"timeout"`
		Reconnect connection.RetryProfile `mapstructure:"reconnect" yaml:"reconnect"`
	}

	// MutationConfig describes the first round substitution.
	MutationConfig struct {
		From string `mapstructure:"from" yaml:"from"`
		To   string `mapstructure:"to"   yaml:"to"`
	}
)

// Defaults of the named "Pay $1000 to Ali" scenario.
const (
	DefaultMessage      = "Pay $1000 to Ali"
	DefaultMutationFrom = "$1000"
	DefaultMutationTo   = "$9000"

	defaultTimeout = 10 * time.Second
)

var defaultMutation = MutationConfig{From: DefaultMutationFrom, To: DefaultMutationTo}

func (c *Config) message() string {
	if c.Message == "" {
		return DefaultMessage
	}
	return c.Message
}

func (c *Config) mutation() MutationConfig {
	if c.Mutation.From == "" && c.Mutation.To == "" {
		return defaultMutation
	}
	return c.Mutation
}

func (c *Config) rounds() int {
	return max(c.Rounds, 1)
}
