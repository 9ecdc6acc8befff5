// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/loasdev/loas/cmd/loas/internal/clierr"
	"github.com/loasdev/loas/internal/bind"
	"github.com/loasdev/loas/internal/corpus"
	"github.com/loasdev/loas/internal/emit"
	"github.com/loasdev/loas/internal/identity"
)

// NewValidateCommand returns the `loas validate` command: schema validation,
// corpus-wide identity validation, filename-collision detection, and
// unresolved-placeholder warnings.
func NewValidateCommand() *cobra.Command {
	var yamlDir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate YAML test definition files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), yamlDir)
		},
	}

	cmd.Flags().StringVarP(&yamlDir, "yaml-dir", "y", "yaml", "Directory containing YAML files")

	return cmd
}

func runValidate(out io.Writer, yamlDir string) error {
	if _, err := os.Stat(yamlDir); err != nil {
		return clierr.Newf(clierr.ExitFailure, "YAML directory %q does not exist", yamlDir)
	}

	res, err := corpus.Load(yamlDir)
	if err != nil {
		return clierr.Wrap(clierr.ExitFailure, "loading corpus", err)
	}

	for _, f := range res.Files {
		fmt.Fprintf(out, "✓ Validated %s\n", f.Path)
	}
	for _, fe := range res.Errors {
		fmt.Fprintf(out, "✗ Error validating %s: %v\n", fe.Path, fe.Err)
	}

	report := identity.Validate(res.Files, res.Raw)
	printViolations(out, report.Violations)

	collisions := emit.CheckFilenameCollisions(res.Files)
	for _, c := range collisions {
		fmt.Fprintf(out, "✗ %s: %s filename %q collides for tests %v\n", c.File, c.Kind, c.Filename, c.Tests)
	}

	// Unresolved placeholders pass through to emission unchanged; surface
	// them here so operators see the gap without breaking the build.
	for _, f := range res.Files {
		for _, t := range f.Tests {
			bound := bind.Bind(t, bind.ScriptStyle())
			if unresolved := bound.Unresolved(); len(unresolved) > 0 {
				fmt.Fprintf(out, "⚠ %s: test %q references undeclared arguments %v\n", f.Path, t.Name, unresolved)
			}
		}
	}

	if !report.OK() {
		return clierr.Newf(clierr.ExitDuplicateIdentity, "identity validation failed with %d violation(s)", len(report.Violations))
	}
	if len(res.Errors) > 0 {
		return clierr.Newf(clierr.ExitFailure, "validation failed with %d error(s)", len(res.Errors))
	}
	if len(collisions) > 0 {
		return clierr.Newf(clierr.ExitFailure, "validation failed with %d filename collision(s)", len(collisions))
	}

	fmt.Fprintf(out, "\n✓ All %d YAML files validated successfully (%d distinct test names)\n", report.FilesValidated, report.DistinctNames)
	return nil
}

func printViolations(out io.Writer, violations []identity.Violation) {
	for _, v := range violations {
		fmt.Fprintf(out, "✗ %s: %q appears in:\n", v.Kind, v.Value)
		for _, loc := range v.Locations {
			switch {
			case loc.Line > 0:
				fmt.Fprintf(out, "    - %s:%d\n", loc.File, loc.Line)
			case loc.Occurrence > 0:
				fmt.Fprintf(out, "    - %s (test %d)\n", loc.File, loc.Occurrence)
			default:
				fmt.Fprintf(out, "    - %s\n", loc.File)
			}
		}
	}
}
