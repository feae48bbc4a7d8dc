/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"github.com/decentralized-trust-research/tiered-verifier/utils/connection"
	"github.com/decentralized-trust-research/tiered-verifier/utils/monitoring"
	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
)

// Config describes the tier verifier service parameters.
type Config struct {
	Server     *connection.ServerConfig `mapstructure:"server"     yaml:"server"`
	Monitoring monitoring.Config        `mapstructure:"monitoring" yaml:"monitoring"`
	Keys       signature.KeyConfig      `mapstructure:"keys"       yaml:"keys"`
}
