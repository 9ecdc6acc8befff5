// SPDX-License-Identifier: AGPL-3.0-or-later

package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodYAML = `name: Example Technique
tests:
  - name: List Files
    command: do shell script "ls"
    language: AppleScript
`

const badYAML = `name: Broken Technique
tests:
  - name: No Command
    language: AppleScript
`

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiscover_SortedYAMLOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "T1059/b.yaml", goodYAML)
	writeFile(t, dir, "T1059/a.yml", goodYAML)
	writeFile(t, dir, "T1059/notes.txt", "ignored")

	paths, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "T1059", "a.yml"), paths[0])
	assert.Equal(t, filepath.Join(dir, "T1059", "b.yaml"), paths[1])
}

func TestLoad_AccumulatesErrorsAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "T1001/bad.yaml", badYAML)
	writeFile(t, dir, "T1059/good.yaml", goodYAML)
	writeFile(t, dir, "T1059/mangled.yaml", "tests: [unclosed")

	res, err := Load(dir)
	require.NoError(t, err)

	// The good file loads even though earlier and later files fail.
	require.Len(t, res.Files, 1)
	assert.Equal(t, "Example Technique", res.Files[0].Name)
	assert.Equal(t, "T1059", res.Files[0].TechniqueID)

	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0].Path, "bad.yaml")
	assert.Contains(t, res.Errors[1].Path, "mangled.yaml")
}

func TestLoad_KeepsRawBytes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "T1059/good.yaml", goodYAML)

	res, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, goodYAML, string(res.Raw[path]))
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
