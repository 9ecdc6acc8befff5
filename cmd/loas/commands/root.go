// SPDX-License-Identifier: AGPL-3.0-or-later

/*
LOAS - Living Off AppleScript.
LOAS converts declarative YAML test definitions into executable OSAScript
artifacts: interpreted AppleScript/JXA scripts and compiled Swift wrappers,
with corpus-wide identity validation and GUID assignment.

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package commands contains the Cobra subcommands for the LOAS CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the LOAS root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("LOAS_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "loas",
		Short:         "LOAS - Convert YAML test definitions to OSAScript artifacts",
		Long:          "LOAS (Living Off AppleScript) converts YAML test definitions into runnable AppleScript/JXA scripts and Swift wrappers, and keeps test identity consistent across the corpus.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of LOAS",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "LOAS version %s\n", version)
		},
	})

	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewConvertCommand())
	cmd.AddCommand(NewAssignGUIDsCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewStatsCommand())

	return cmd
}
