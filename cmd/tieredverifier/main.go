/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/decentralized-trust-research/tiered-verifier/cmd/config"
)

func main() {
	cmd := tieredVerifierCMD()
	// On failure, Cobra prints the usage message and error string, so we only
	// need to exit with a non-0 status
	if cmd.Execute() != nil {
		os.Exit(1)
	}
}

func tieredVerifierCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.TieredVerifierName,
		Short: "Tiered message verification: plaintext, hash, and signature.",
	}
	cmd.AddCommand(config.VersionCmd())
	cmd.AddCommand(config.StartCMD("start"))
	cmd.AddCommand(config.KeygenCMD("keygen"))
	cmd.AddCommand(config.TamperCMD("tamper"))
	return cmd
}
