// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/loasdev/loas/cmd/loas/internal/clierr"
	"github.com/loasdev/loas/internal/artifact"
	"github.com/loasdev/loas/internal/attack"
	"github.com/loasdev/loas/internal/corpus"
	"github.com/loasdev/loas/internal/export"
)

// NewExportCommand returns the `loas export` command: dump the corpus as a
// flat JSON array for web consumption.
func NewExportCommand() *cobra.Command {
	var (
		yamlDir    string
		outputFile string
		bundlePath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump all scripts as a JSON array",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.OutOrStdout(), yamlDir, outputFile, bundlePath)
		},
	}

	cmd.Flags().StringVarP(&yamlDir, "yaml-dir", "y", "yaml", "Directory containing YAML files")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "docs/public/data/scripts.json", "Output JSON file path")
	cmd.Flags().StringVar(&bundlePath, "attack-bundle", "", "Local ATT&CK STIX bundle used to attach technique descriptions")

	return cmd
}

func runExport(out io.Writer, yamlDir, outputFile, bundlePath string) error {
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
		return clierr.Newf(clierr.ExitFailure, "export aborted: %d file(s) failed validation", len(res.Errors))
	}

	var desc attack.Describer
	if bundlePath != "" {
		bundle, err := attack.LoadBundle(bundlePath)
		if err != nil {
			return clierr.Wrap(clierr.ExitFailure, "loading ATT&CK bundle", err)
		}
		desc = bundle
	}

	records := export.Records(res.Files, desc)
	data, err := export.MarshalRecords(records)
	if err != nil {
		return clierr.Wrap(clierr.ExitFailure, "rendering JSON", err)
	}
	if err := artifact.AtomicWrite(outputFile, data); err != nil {
		return clierr.Wrap(clierr.ExitFailure, "writing JSON", err)
	}

	fmt.Fprintf(out, "✓ JSON dump created at %s\n", outputFile)
	fmt.Fprintf(out, "Total scripts: %d\n", len(records))
	return nil
}
