/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/decentralized-trust-research/tiered-verifier/service/tamper"
	"github.com/decentralized-trust-research/tiered-verifier/utils/logging"
)

// Default key pair locations.
const (
	DefaultPrivateKeyPath = "private.pem"
	DefaultPublicKeyPath  = "public.pem"
)

// NewViperWithVerifierDefaults returns a viper instance with the tier verifier default values.
func NewViperWithVerifierDefaults() *viper.Viper {
	v := NewViperWithServiceDefault(8000, 2110)
	v.SetDefault("server.read-timeout", 30*time.Second)
	v.SetDefault("server.write-timeout", 30*time.Second)
	defaultKeyFlags(v)
	return v
}

// NewViperWithTamperDefaults returns a viper instance with the tamper harness default values.
// The receiver endpoint is empty by default, which runs the receiver in-process.
func NewViperWithTamperDefaults() *viper.Viper {
	v := NewViperWithLoggingDefault()
	defaultKeyFlags(v)
	v.SetDefault("receiver.endpoint", "")
	v.SetDefault("receiver.timeout", 10*time.Second)
	v.SetDefault("receiver.reconnect.max-elapsed-time", 30*time.Second)
	v.SetDefault("message", tamper.DefaultMessage)
	v.SetDefault("mutation.from", tamper.DefaultMutationFrom)
	v.SetDefault("mutation.to", tamper.DefaultMutationTo)
	v.SetDefault("rounds", 1)
	v.SetDefault("seed", 0)
	v.SetDefault("rate-limit", 0)
	v.SetDefault("report-path", "")
	return v
}

// NewViperWithKeygenDefaults returns a viper instance with the key generation default values.
func NewViperWithKeygenDefaults() *viper.Viper {
	v := NewViperWithLoggingDefault()
	defaultKeyFlags(v)
	return v
}

// NewViperWithServiceDefault returns a viper instance with a service default values.
func NewViperWithServiceDefault(servicePort, monitoringPort int) *viper.Viper {
	v := NewViperWithLoggingDefault()
	v.SetDefault("server.endpoint", localEndpoint(servicePort))
	v.SetDefault("monitoring.server.endpoint", localEndpoint(monitoringPort))
	return v
}

// NewViperWithLoggingDefault returns a viper instance with the logging default values.
func NewViperWithLoggingDefault() *viper.Viper {
	v := viper.New()
	v.SetDefault("logging.development", "false")
	v.SetDefault("logging.enabled", "true")
	v.SetDefault("logging.level", logging.Info)
	return v
}

func defaultKeyFlags(v *viper.Viper) {
	v.SetDefault("keys.private-key-path", DefaultPrivateKeyPath)
	v.SetDefault("keys.public-key-path", DefaultPublicKeyPath)
}

func localEndpoint(port int) string {
	return net.JoinHostPort("localhost", strconv.Itoa(port))
}
