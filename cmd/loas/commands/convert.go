// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/loasdev/loas/cmd/loas/internal/clierr"
	"github.com/loasdev/loas/internal/artifact"
	"github.com/loasdev/loas/internal/corpus"
	"github.com/loasdev/loas/internal/emit"
	"github.com/loasdev/loas/internal/identity"
)

// NewConvertCommand returns the `loas convert` command: render every test
// into its interpreted-script artifact, and optionally its Swift wrapper.
// Emission refuses to run over a corpus with colliding identities.
func NewConvertCommand() *cobra.Command {
	var (
		yamlDir    string
		outputDir  string
		wrapperDir string
		wrappers   bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert YAML test definitions to script artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.OutOrStdout(), yamlDir, outputDir, wrapperDir, wrappers)
		},
	}

	cmd.Flags().StringVarP(&yamlDir, "yaml-dir", "y", "yaml", "Directory containing YAML files")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "osascripts", "Output directory for script artifacts")
	cmd.Flags().StringVar(&wrapperDir, "wrapper-dir", "wrappers", "Output directory for Swift wrapper artifacts")
	cmd.Flags().BoolVar(&wrappers, "wrappers", false, "Also emit Swift wrapper artifacts")

	return cmd
}

func runConvert(out io.Writer, yamlDir, outputDir, wrapperDir string, wrappers bool) error {
	if _, err := os.Stat(yamlDir); err != nil {
		return clierr.Newf(clierr.ExitFailure, "YAML directory %q does not exist", yamlDir)
	}

	res, err := corpus.Load(yamlDir)
	if err != nil {
		return clierr.Wrap(clierr.ExitFailure, "loading corpus", err)
	}
	for _, fe := range res.Errors {
		fmt.Fprintf(out, "✗ Error validating %s: %v\n", fe.Path, fe.Err)
	}
	if len(res.Errors) > 0 {
		return clierr.Newf(clierr.ExitFailure, "conversion aborted: %d file(s) failed validation", len(res.Errors))
	}

	// Colliding identities would produce artifacts that disagree with the
	// identity contract, so emission halts here.
	report := identity.Validate(res.Files, res.Raw)
	if !report.OK() {
		printViolations(out, report.Violations)
		return clierr.Newf(clierr.ExitDuplicateIdentity, "conversion aborted: %d identity violation(s)", len(report.Violations))
	}
	if collisions := emit.CheckFilenameCollisions(res.Files); len(collisions) > 0 {
		for _, c := range collisions {
			fmt.Fprintf(out, "✗ %s: %s filename %q collides for tests %v\n", c.File, c.Kind, c.Filename, c.Tests)
		}
		return clierr.Newf(clierr.ExitFailure, "conversion aborted: %d filename collision(s)", len(collisions))
	}

	type target struct {
		kind   emit.ArtifactKind
		layout artifact.Layout
	}
	targets := []target{{kind: emit.Script, layout: artifact.Layout{Root: outputDir}}}
	if wrappers {
		targets = append(targets, target{kind: emit.Wrapper, layout: artifact.Layout{Root: wrapperDir}})
	}

	converted := 0
	for _, f := range res.Files {
		for _, t := range f.Tests {
			for _, k := range targets {
				backend, err := emit.For(k.kind, t.Language)
				if err != nil {
					return clierr.Wrap(clierr.ExitFailure, "selecting backend", err)
				}
				text, err := backend.Emit(t)
				if err != nil {
					return clierr.Wrap(clierr.ExitFailure, fmt.Sprintf("emitting %q", t.Name), err)
				}
				path := k.layout.Path(f.TechniqueID, backend.Filename(t))
				if err := artifact.AtomicWrite(path, []byte(text)); err != nil {
					return clierr.Wrap(clierr.ExitFailure, "writing artifact", err)
				}
				fmt.Fprintf(out, "✓ Created %s\n", path)
				converted++
			}
		}
	}

	fmt.Fprintf(out, "\n✓ Successfully converted %d artifact(s)\n", converted)
	return nil
}
