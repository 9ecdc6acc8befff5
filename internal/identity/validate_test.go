// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loasdev/loas/internal/model"
)

func techniqueFile(path string, names ...string) *model.TechniqueFile {
	f := &model.TechniqueFile{Name: path, Path: path}
	for _, n := range names {
		f.Tests = append(f.Tests, &model.TestDefinition{
			Name:     n,
			Command:  "ls",
			Language: model.LanguageAppleScript,
		})
	}
	return f
}

func TestValidate_CleanCorpus(t *testing.T) {
	files := []*model.TechniqueFile{
		techniqueFile("a.yaml", "Alpha", "Beta"),
		techniqueFile("b.yaml", "Gamma"),
	}
	report := Validate(files, nil)

	assert.True(t, report.OK())
	assert.Equal(t, 2, report.FilesValidated)
	assert.Equal(t, 3, report.DistinctNames)
}

func TestValidate_CrossFileDuplicateName(t *testing.T) {
	files := []*model.TechniqueFile{
		techniqueFile("a.yaml", "Alpha", "Beta"),
		techniqueFile("b.yaml", "Beta", "Gamma"),
	}
	report := Validate(files, nil)

	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, DuplicateNameCrossFile, v.Kind)
	assert.Equal(t, "Beta", v.Value)
	require.Len(t, v.Locations, 2)
	assert.Equal(t, Location{File: "a.yaml", Occurrence: 2}, v.Locations[0])
	assert.Equal(t, Location{File: "b.yaml", Occurrence: 1}, v.Locations[1])
}

func TestValidate_DuplicateNameWithinFile(t *testing.T) {
	files := []*model.TechniqueFile{
		techniqueFile("a.yaml", "Same", "Same"),
	}
	report := Validate(files, nil)

	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, DuplicateNameInFile, v.Kind)
	assert.Equal(t, "Same", v.Value)
	assert.Equal(t, []Location{
		{File: "a.yaml", Occurrence: 1},
		{File: "a.yaml", Occurrence: 2},
	}, v.Locations)
}

func TestValidate_DuplicateGUIDSameFile(t *testing.T) {
	raw := map[string][]byte{
		"a.yaml": []byte(`name: Example
tests:
  - name: First
    guid: 11111111-1111-7111-8111-111111111111
    command: ls
    language: AppleScript
  - name: Second
    guid: 11111111-1111-7111-8111-111111111111
    command: pwd
    language: AppleScript
`),
	}
	report := Validate(nil, raw)

	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, DuplicateGUID, v.Kind)
	assert.Equal(t, "11111111-1111-7111-8111-111111111111", v.Value)
	assert.Equal(t, []Location{
		{File: "a.yaml", Line: 4},
		{File: "a.yaml", Line: 8},
	}, v.Locations)
}

func TestDuplicateGUIDs_CaseInsensitiveAcrossFiles(t *testing.T) {
	raw := map[string][]byte{
		"a.yaml": []byte("  - name: X\n    guid: ABCDEF01-2345-7678-89AB-CDEF01234567\n"),
		"b.yaml": []byte("  - name: Y\n    guid: abcdef01-2345-7678-89ab-cdef01234567\n"),
	}
	dups := DuplicateGUIDs(raw)

	require.Len(t, dups, 1)
	assert.Equal(t, "abcdef01-2345-7678-89ab-cdef01234567", dups[0].Value)
	require.Len(t, dups[0].Locations, 2)
}

func TestValidate_ReadOnly(t *testing.T) {
	files := []*model.TechniqueFile{techniqueFile("a.yaml", "Alpha")}
	raw := map[string][]byte{"a.yaml": []byte("name: Example\n")}
	before := string(raw["a.yaml"])

	Validate(files, raw)

	assert.Equal(t, before, string(raw["a.yaml"]))
	assert.Equal(t, "Alpha", files[0].Tests[0].Name)
}
