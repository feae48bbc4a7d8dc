/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CobraFlag parameters.
type CobraFlag struct {
	Name  string
	Usage string
	Key   string
}

// SetDefaultFlags setting useful Cobra flags for the cmd parameter.
func SetDefaultFlags(v *viper.Viper, cmd *cobra.Command, configPath *string) error {
	cmd.PersistentFlags().StringVarP(configPath, "config", "c", "",
		"set the config file path (comma separated files are merged in order)")
	return errors.Join(
		CobraString(v, cmd, CobraFlag{
			Name:  "endpoint",
			Usage: "Determine the endpoint of the server",
			Key:   "server.endpoint",
		}),
		CobraString(v, cmd, CobraFlag{
			Name:  "metrics-endpoint",
			Usage: "Where prometheus listens for incoming connections",
			Key:   "monitoring.server.endpoint",
		}),
		SetLoggingFlags(v, cmd),
	)
}

// SetLoggingFlags sets the flags that control logging.
func SetLoggingFlags(v *viper.Viper, cmd *cobra.Command) error {
	return CobraBool(v, cmd, CobraFlag{
		Name:  "verbose",
		Usage: "Turn on verbose mode",
		Key:   "logging.enabled",
	})
}

// SetKeyFlags sets the flags of the key pair locations.
func SetKeyFlags(v *viper.Viper, cmd *cobra.Command) error {
	return errors.Join(
		CobraString(v, cmd, CobraFlag{
			Name:  "private-key",
			Usage: "Path of the PEM encoded RSA private key",
			Key:   "keys.private-key-path",
		}),
		CobraString(v, cmd, CobraFlag{
			Name:  "public-key",
			Usage: "Path of the PEM encoded RSA public key",
			Key:   "keys.public-key-path",
		}),
	)
}

// CobraInt creates a flag of type integer for the cmd parameter.
func CobraInt(v *viper.Viper, cmd *cobra.Command, c CobraFlag) error {
	cmd.PersistentFlags().Int(c.Name, v.GetInt(c.Key), c.Usage)
	return bindFlag(v, cmd, c)
}

// CobraInt64 creates a flag of type int64 for the cmd parameter.
func CobraInt64(v *viper.Viper, cmd *cobra.Command, c CobraFlag) error {
	cmd.PersistentFlags().Int64(c.Name, v.GetInt64(c.Key), c.Usage)
	return bindFlag(v, cmd, c)
}

// CobraString creates a flag of type string for the cmd parameter.
func CobraString(v *viper.Viper, cmd *cobra.Command, c CobraFlag) error {
	cmd.PersistentFlags().String(c.Name, v.GetString(c.Key), c.Usage)
	return bindFlag(v, cmd, c)
}

// CobraBool creates a flag of type boolean for the cmd parameter.
func CobraBool(v *viper.Viper, cmd *cobra.Command, c CobraFlag) error {
	cmd.PersistentFlags().Bool(c.Name, v.GetBool(c.Key), c.Usage)
	return bindFlag(v, cmd, c)
}

// CobraDuration creates a flag of type Duration for the cmd parameter.
func CobraDuration(v *viper.Viper, cmd *cobra.Command, c CobraFlag) error {
	cmd.PersistentFlags().Duration(c.Name, v.GetDuration(c.Key), c.Usage)
	return bindFlag(v, cmd, c)
}

func bindFlag(v *viper.Viper, cmd *cobra.Command, c CobraFlag) error {
	return errors.Wrap(v.BindPFlag(c.Key, cmd.PersistentFlags().Lookup(c.Name)), "failed to bind flag")
}
