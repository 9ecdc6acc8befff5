// SPDX-License-Identifier: AGPL-3.0-or-later

// Package corpus discovers and loads the YAML definition corpus. Schema
// errors accumulate per file; one malformed file never hides problems in the
// rest of the corpus.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/loasdev/loas/internal/model"
)

// FileError records a per-file load or schema failure.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e FileError) Unwrap() error { return e.Err }

// Result is a loaded corpus: parsed files, their raw bytes, and every error
// encountered along the way.
type Result struct {
	Files  []*model.TechniqueFile
	Raw    map[string][]byte
	Errors []FileError
}

// Discover returns every .yaml/.yml file under dir, sorted for deterministic
// processing order.
func Discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Load discovers and parses the corpus under dir. Parse and schema errors are
// collected into the result, not returned; the returned error covers only
// failures to enumerate the directory itself.
func Load(dir string) (*Result, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	res := &Result{Raw: make(map[string][]byte, len(paths))}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			res.Errors = append(res.Errors, FileError{Path: path, Err: err})
			continue
		}
		res.Raw[path] = data

		var tf model.TechniqueFile
		if err := yaml.Unmarshal(data, &tf); err != nil {
			res.Errors = append(res.Errors, FileError{Path: path, Err: err})
			continue
		}
		if err := tf.Validate(); err != nil {
			res.Errors = append(res.Errors, FileError{Path: path, Err: err})
			continue
		}
		tf.Path = path
		tf.TechniqueID = filepath.Base(filepath.Dir(path))
		res.Files = append(res.Files, &tf)
	}
	return res, nil
}
