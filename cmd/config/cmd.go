/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/decentralized-trust-research/tiered-verifier/service/tamper"
	"github.com/decentralized-trust-research/tiered-verifier/service/verifier"
	"github.com/decentralized-trust-research/tiered-verifier/utils"
	"github.com/decentralized-trust-research/tiered-verifier/utils/signature"
)

// Service names and version.
const (
	TieredVerifierVersion = "0.1.0"

	TieredVerifierName = "tieredverifier"
	VerifierName       = "Tier-Verifier"
	TamperName         = "Tamper-Harness"
)

// ErrTamperFailed is returned when at least one tamper scenario failed.
var ErrTamperFailed = errors.New("tamper scenarios failed")

// VersionCmd creates a version command.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "version",
		Short:        fmt.Sprintf("print %s version", TieredVerifierName),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("%s\n", FullVersion())
			return nil
		},
	}
}

// FullVersion returns the version string.
func FullVersion() string {
	return fmt.Sprintf("%s version %s %s/%s", TieredVerifierName, TieredVerifierVersion, runtime.GOOS, runtime.GOARCH)
}

// StartCMD creates a tier verifier command.
func StartCMD(use string) *cobra.Command {
	v := NewViperWithVerifierDefaults()
	var configPath string
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Starts %v.", VerifierName),
		Long:  fmt.Sprintf("%v serves the plaintext, hash, and signature tiers.", VerifierName),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := ReadVerifierYamlAndSetupLogging(v, configPath)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			cmd.Printf("Starting %v\n", VerifierName)
			defer cmd.Printf("%v ended\n", VerifierName)

			return verifier.New(conf).Run(cmd.Context())
		},
	}
	utils.Must(SetDefaultFlags(v, cmd, &configPath))
	utils.Must(SetKeyFlags(v, cmd))
	return cmd
}

// KeygenCMD creates a key generation command.
func KeygenCMD(use string) *cobra.Command {
	v := NewViperWithKeygenDefaults()
	var configPath string
	var bits int
	var force bool
	cmd := &cobra.Command{
		Use:   use,
		Short: "Generates an RSA key pair for the signature tier.",
		Long:  "Generates an RSA key pair offline and writes it as PEM files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := ReadKeygenYamlAndSetupLogging(v, configPath)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			priv, err := signature.GenerateKeyPair(bits)
			if err != nil {
				return err
			}
			if err = signature.WriteKeyPair(keys, priv, force); err != nil {
				return err
			}
			cmd.Printf("Generated %d-bit RSA key pair\n", priv.N.BitLen())
			cmd.Printf("- Private: %s\n", keys.PrivateKeyPath)
			cmd.Printf("- Public: %s\n", keys.PublicKeyPath)
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "set the config file path")
	cmd.PersistentFlags().IntVar(&bits, "bits", signature.DefaultKeyBits, "RSA modulus size in bits")
	cmd.PersistentFlags().BoolVar(&force, "force", false, "overwrite existing key files")
	utils.Must(SetKeyFlags(v, cmd))
	utils.Must(SetLoggingFlags(v, cmd))
	return cmd
}

// TamperCMD creates a tamper harness command.
// It fails if any tier did not behave as advertised.
func TamperCMD(use string) *cobra.Command {
	v := NewViperWithTamperDefaults()
	var configPath string
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Runs %v.", TamperName),
		Long: fmt.Sprintf("%v intercepts and modifies messages of every tier, "+
			"and checks that the receiver detects it.", TamperName),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := ReadTamperYamlAndSetupLogging(v, configPath)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			cmd.Printf("Starting %v\n", TamperName)
			defer cmd.Printf("%v ended\n", TamperName)

			exchange := tamper.NewExchange(conf)
			if client, ok := exchange.(*tamper.Client); ok {
				defer client.Close()
				if !client.WaitForReady(cmd.Context()) {
					return errors.Newf("receiver %s is not ready", conf.Receiver.Endpoint.String())
				}
			}

			report, err := tamper.NewHarness(conf, exchange).Run(cmd.Context())
			if err != nil {
				return err
			}
			printReport(cmd, report)
			if conf.ReportPath != "" {
				if err = report.Write(conf.ReportPath); err != nil {
					return err
				}
				cmd.Printf("Report written to %s\n", conf.ReportPath)
			}
			if !report.Passed() {
				return errors.Wrapf(ErrTamperFailed, "%d of %d", len(report.Failures()), len(report.Results))
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"set the config file path (comma separated files are merged in order)")
	utils.Must(errors.Join(
		CobraString(v, cmd, CobraFlag{
			Name:  "receiver",
			Usage: "Endpoint of a running tier verifier. Empty runs the receiver in-process",
			Key:   "receiver.endpoint",
		}),
		CobraDuration(v, cmd, CobraFlag{
			Name:  "timeout",
			Usage: "Timeout of a single request to the receiver",
			Key:   "receiver.timeout",
		}),
		CobraString(v, cmd, CobraFlag{
			Name:  "message",
			Usage: "The sender original message",
			Key:   "message",
		}),
		CobraString(v, cmd, CobraFlag{
			Name:  "mutation-from",
			Usage: "Substring replaced in the first round",
			Key:   "mutation.from",
		}),
		CobraString(v, cmd, CobraFlag{
			Name:  "mutation-to",
			Usage: "Replacement of the first round substring",
			Key:   "mutation.to",
		}),
		CobraInt(v, cmd, CobraFlag{
			Name:  "rounds",
			Usage: "Number of rounds. Rounds after the first apply a random byte mutation",
			Key:   "rounds",
		}),
		CobraInt64(v, cmd, CobraFlag{
			Name:  "seed",
			Usage: "Seed of the random mutations. Zero picks a time based seed",
			Key:   "seed",
		}),
		CobraInt(v, cmd, CobraFlag{
			Name:  "rate-limit",
			Usage: "Maximal scenarios per second. Zero is unlimited",
			Key:   "rate-limit",
		}),
		CobraString(v, cmd, CobraFlag{
			Name:  "report",
			Usage: "Write a YAML report to this path",
			Key:   "report-path",
		}),
		SetKeyFlags(v, cmd),
		SetLoggingFlags(v, cmd),
	))
	return cmd
}

func printReport(cmd *cobra.Command, report *tamper.Report) {
	for _, res := range report.Results {
		verdict := "PASS"
		if !res.Passed {
			verdict = "FAIL"
		}
		cmd.Printf("[%s] round %d %-9s expected %-8s got %s\n",
			verdict, res.Round, res.Tier, res.Expected, statusText(&res))
	}
	tiers := make([]string, 0, len(report.Summary))
	for t := range report.Summary {
		tiers = append(tiers, t)
	}
	sort.Strings(tiers)
	for _, t := range tiers {
		s := report.Summary[t]
		cmd.Printf("%s: %d passed, %d failed\n", t, s.Passed, s.Failed)
	}
}

func statusText(res *tamper.Result) string {
	if res.Error != "" {
		return fmt.Sprintf("error (%s)", res.Error)
	}
	return string(res.Actual)
}
