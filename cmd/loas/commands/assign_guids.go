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
	"github.com/loasdev/loas/internal/identity"
)

// NewAssignGUIDsCommand returns the `loas assign-guids` command: fill in a
// missing time-ordered GUID for every test entry, corpus-wide unique. Meant
// to run in CI before merge; a nonzero exit signals either modified files
// (commit them) or duplicate GUIDs (fix them).
func NewAssignGUIDsCommand() *cobra.Command {
	var yamlDir string

	cmd := &cobra.Command{
		Use:   "assign-guids",
		Short: "Add GUIDs to tests that lack them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignGUIDs(cmd.OutOrStdout(), yamlDir, identity.NewV7)
		},
	}

	cmd.Flags().StringVarP(&yamlDir, "yaml-dir", "y", "yaml", "Directory containing YAML files")

	return cmd
}

func runAssignGUIDs(out io.Writer, yamlDir string, gen func() string) error {
	if _, err := os.Stat(yamlDir); err != nil {
		return clierr.Newf(clierr.ExitFailure, "YAML directory %q does not exist", yamlDir)
	}

	paths, err := corpus.Discover(yamlDir)
	if err != nil {
		return clierr.Wrap(clierr.ExitFailure, "discovering corpus", err)
	}

	texts := make(map[string]string, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return clierr.Wrap(clierr.ExitFailure, fmt.Sprintf("reading %s", path), err)
		}
		texts[path] = string(data)
	}

	// Phase 1: seed the seen-set from the whole corpus so new GUIDs are
	// globally unique regardless of file processing order.
	seen := make(map[string]struct{})
	for _, path := range paths {
		identity.CollectGUIDs(texts[path], seen)
	}

	// Phase 2: assign per file.
	updated := 0
	raw := make(map[string][]byte, len(paths))
	for _, path := range paths {
		fmt.Fprintf(out, "Processing %s...\n", path)
		newText, changed := identity.AssignGUIDs(texts[path], seen, gen)
		raw[path] = []byte(newText)
		if !changed {
			continue
		}
		if err := artifact.AtomicWrite(path, []byte(newText)); err != nil {
			return clierr.Wrap(clierr.ExitFailure, fmt.Sprintf("writing %s", path), err)
		}
		fmt.Fprintf(out, "  ✓ Updated %s\n", path)
		updated++
	}

	fmt.Fprintf(out, "\nTotal files processed: %d\n", len(paths))
	fmt.Fprintf(out, "Files updated with GUIDs: %d\n", updated)

	if dups := identity.DuplicateGUIDs(raw); len(dups) > 0 {
		printViolations(out, dups)
		return clierr.Newf(clierr.ExitDuplicateIdentity, "duplicate GUIDs found in %d value(s)", len(dups))
	}

	if updated > 0 {
		return clierr.Newf(clierr.ExitFailure, "%d file(s) modified with new GUIDs; commit these changes", updated)
	}

	fmt.Fprintf(out, "\n✓ All tests already have GUIDs.\n")
	return nil
}
