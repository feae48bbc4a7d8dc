/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"bytes"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/decentralized-trust-research/tiered-verifier/service/tamper"
	"github.com/decentralized-trust-research/tiered-verifier/service/verifier"
	"github.com/decentralized-trust-research/tiered-verifier/utils"
	"github.com/decentralized-trust-research/tiered-verifier/utils/logging"
	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
)

var logger = logging.New("config reader")

// ReadVerifierYamlAndSetupLogging reading the YAML config file of the tier verifier.
func ReadVerifierYamlAndSetupLogging(v *viper.Viper, configPath string) (*verifier.Config, error) {
	c := &verifier.Config{}
	return c, ReadYamlAndSetupLogging(v, configPath, "VERIFIER", c)
}

// ReadTamperYamlAndSetupLogging reading the YAML config file of the tamper harness.
func ReadTamperYamlAndSetupLogging(v *viper.Viper, configPath string) (*tamper.Config, error) {
	c := &tamper.Config{}
	return c, ReadYamlAndSetupLogging(v, configPath, "TAMPER", c)
}

// ReadKeygenYamlAndSetupLogging reading the key locations for key generation.
func ReadKeygenYamlAndSetupLogging(v *viper.Viper, configPath string) (*signature.KeyConfig, error) {
	c := &struct {
		Keys signature.KeyConfig `mapstructure:"keys"`
	}{}
	return &c.Keys, ReadYamlAndSetupLogging(v, configPath, "KEYGEN", c)
}

// ReadYamlAndSetupLogging reading the YAML config files of a service.
// Without a config path, only the defaults, the environment, and the flags apply.
func ReadYamlAndSetupLogging(v *viper.Viper, configPath, servicePrefix string, c any) error {
	if configPath != "" {
		content, err := MergeYamlConfigs(strings.Split(configPath, ",")...)
		if err != nil {
			return err
		}
		if err = readYamlConfigsFromIO(v, bytes.NewReader(content)); err != nil {
			return err
		}
	}
	setupEnv(v, servicePrefix)

	loggingWrapper := struct {
		Logging *logging.Config `mapstructure:"logging"`
	}{}
	if err := unmarshal(v, &loggingWrapper); err != nil {
		return err
	}
	logging.SetupWithConfig(loggingWrapper.Logging)
	return unmarshal(v, c)
}

// unmarshal populate a config object.
func unmarshal(v *viper.Viper, c any) error {
	defer logger.Debugf("Decoded config: %s", &utils.LazyJSON{O: c})
	return errors.Wrap(v.Unmarshal(c, decoderHook()), "error decoding config")
}

// setupEnv enables setting configuration via environment variables.
// E.g. SC_VERIFIER_LOGGING_ENABLED=false, but not SC_VERIFIER_VERBOSE=false (does not work with aliases).
func setupEnv(v *viper.Viper, servicePrefix string) {
	v.SetEnvPrefix("SC_" + strings.ToUpper(servicePrefix))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
}

// readYamlConfigsFromIO reads configurations from IO.
func readYamlConfigsFromIO(v *viper.Viper, in io.Reader) error {
	v.SetConfigType("yaml")
	return errors.Wrap(v.ReadConfig(in), "failed to read config")
}
