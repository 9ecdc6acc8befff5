// SPDX-License-Identifier: AGPL-3.0-or-later

package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loasdev/loas/internal/model"
)

func TestFor_CoversEveryKindAndDialect(t *testing.T) {
	for _, tc := range []struct {
		kind     ArtifactKind
		language string
	}{
		{Script, model.LanguageAppleScript},
		{Script, model.LanguageJavaScript},
		{Wrapper, model.LanguageAppleScript},
		{Wrapper, model.LanguageJavaScript},
	} {
		b, err := For(tc.kind, tc.language)
		require.NoError(t, err)
		assert.Equal(t, tc.kind, b.Kind())
		assert.Equal(t, tc.language, b.Language())
	}
}

func TestFor_UnknownDialect(t *testing.T) {
	_, err := For(Script, "Perl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Perl")
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	require.Len(t, all, 4)
	all[0] = nil
	assert.NotNil(t, All()[0])
}

func TestArtifactKindString(t *testing.T) {
	assert.Equal(t, "script", Script.String())
	assert.Equal(t, "wrapper", Wrapper.String())
}

func TestCheckFilenameCollisions_SameKind(t *testing.T) {
	f := &model.TechniqueFile{
		Path: "t1059/t1059.yaml",
		Name: "Scripting",
		Tests: []*model.TestDefinition{
			{Name: "List Files", Language: model.LanguageAppleScript},
			{Name: "List: Files!", Language: model.LanguageAppleScript},
		},
	}

	collisions := CheckFilenameCollisions([]*model.TechniqueFile{f})
	require.Len(t, collisions, 2) // one per artifact kind

	assert.Equal(t, "t1059/t1059.yaml", collisions[0].File)
	assert.Equal(t, Script, collisions[0].Kind)
	assert.Equal(t, "list_files.scpt", collisions[0].Filename)
	assert.Equal(t, []string{"List Files", "List: Files!"}, collisions[0].Tests)

	assert.Equal(t, Wrapper, collisions[1].Kind)
	assert.Equal(t, "list_files.swift", collisions[1].Filename)
}

func TestCheckFilenameCollisions_WrapperOnlyAcrossDialects(t *testing.T) {
	// Distinct script extensions keep the interpreted artifacts apart, but
	// both wrappers land on the same .swift filename.
	f := &model.TechniqueFile{
		Path: "t1059/t1059.yaml",
		Tests: []*model.TestDefinition{
			{Name: "List Files", Language: model.LanguageAppleScript},
			{Name: "List-Files", Language: model.LanguageJavaScript},
		},
	}

	collisions := CheckFilenameCollisions([]*model.TechniqueFile{f})
	require.Len(t, collisions, 1)
	assert.Equal(t, Wrapper, collisions[0].Kind)
	assert.Equal(t, "list_files.swift", collisions[0].Filename)
}

func TestCheckFilenameCollisions_CleanCorpus(t *testing.T) {
	f := &model.TechniqueFile{
		Path: "t1059/t1059.yaml",
		Tests: []*model.TestDefinition{
			{Name: "List Files", Language: model.LanguageAppleScript},
			{Name: "Count Files", Language: model.LanguageAppleScript},
		},
	}
	assert.Empty(t, CheckFilenameCollisions([]*model.TechniqueFile{f}))
}
