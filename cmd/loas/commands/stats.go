// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/loasdev/loas/cmd/loas/internal/clierr"
	"github.com/loasdev/loas/internal/corpus"
)

// NewStatsCommand returns the `loas stats` command: corpus counts by
// technique and language.
func NewStatsCommand() *cobra.Command {
	var yamlDir string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics about the definition corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.OutOrStdout(), yamlDir)
		},
	}

	cmd.Flags().StringVarP(&yamlDir, "yaml-dir", "y", "yaml", "Directory containing YAML files")

	return cmd
}

func runStats(out io.Writer, yamlDir string) error {
	if _, err := os.Stat(yamlDir); err != nil {
		return clierr.Newf(clierr.ExitFailure, "YAML directory %q does not exist", yamlDir)
	}

	res, err := corpus.Load(yamlDir)
	if err != nil {
		return clierr.Wrap(clierr.ExitFailure, "loading corpus", err)
	}

	techniques := make(map[string]bool)
	languages := make(map[string]int)
	tests := 0
	for _, f := range res.Files {
		techniques[f.TechniqueID] = true
		for _, t := range f.Tests {
			languages[t.Language]++
			tests++
		}
	}

	fmt.Fprintf(out, "%-16s %d\n", "YAML files:", len(res.Files))
	fmt.Fprintf(out, "%-16s %d\n", "Techniques:", len(techniques))
	fmt.Fprintf(out, "%-16s %d\n", "Tests:", tests)
	langs := make([]string, 0, len(languages))
	for l := range languages {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	for _, l := range langs {
		fmt.Fprintf(out, "  %-14s %d\n", l+":", languages[l])
	}
	if len(res.Errors) > 0 {
		fmt.Fprintf(out, "%-16s %d\n", "Invalid files:", len(res.Errors))
	}

	if len(techniques) > 0 {
		fmt.Fprintln(out, "\nTechniques found:")
		ids := make([]string, 0, len(techniques))
		for id := range techniques {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(out, "  • %s\n", id)
		}
	}
	return nil
}
