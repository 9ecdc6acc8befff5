// SPDX-License-Identifier: AGPL-3.0-or-later

// Package artifact handles output placement for generated text artifacts.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout maps generated artifacts into an output tree, one subdirectory per
// technique.
type Layout struct {
	Root string
}

// Path returns the output path for filename within techniqueID's directory.
func (l Layout) Path(techniqueID, filename string) string {
	return filepath.Join(l.Root, techniqueID, filename)
}

// AtomicWrite writes content to path via a temp file and rename, creating
// parent directories as needed.
func AtomicWrite(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "loas-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving temp file to %s: %w", path, err)
	}
	return nil
}
