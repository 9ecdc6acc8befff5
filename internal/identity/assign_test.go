// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedGen returns a generator handing out the given values in order.
func fixedGen(values ...string) func() string {
	i := 0
	return func() string {
		v := values[i]
		i++
		return v
	}
}

const (
	guidA = "00000000-0000-7000-8000-000000000001"
	guidB = "00000000-0000-7000-8000-000000000002"
)

func TestAssignGUIDs_InsertsAfterNamePreservingIndent(t *testing.T) {
	src := `name: Example
tests:
  - name: First Test
    command: ls
    language: AppleScript
`
	seen := make(map[string]struct{})
	out, changed := AssignGUIDs(src, seen, fixedGen(guidA))

	require.True(t, changed)
	want := `name: Example
tests:
  - name: First Test
    guid: ` + guidA + `
    command: ls
    language: AppleScript
`
	assert.Equal(t, want, out)
	_, recorded := seen[guidA]
	assert.True(t, recorded)
}

func TestAssignGUIDs_Idempotent(t *testing.T) {
	src := `name: Example
tests:
  - name: First Test
    guid: ` + guidA + `
    command: ls
    language: AppleScript
`
	seen := make(map[string]struct{})
	CollectGUIDs(src, seen)
	out, changed := AssignGUIDs(src, seen, func() string {
		t.Fatal("generator must not be called for a complete file")
		return ""
	})

	assert.False(t, changed)
	assert.Equal(t, src, out)
}

func TestAssignGUIDs_SecondRunIsNoop(t *testing.T) {
	src := "name: Example\ntests:\n  - name: A Test\n    command: ls\n    language: AppleScript\n"
	seen := make(map[string]struct{})
	first, changed := AssignGUIDs(src, seen, fixedGen(guidA))
	require.True(t, changed)

	second, changed := AssignGUIDs(first, seen, fixedGen(guidB))
	assert.False(t, changed)
	assert.Equal(t, first, second)
}

func TestAssignGUIDs_RetriesOnCollision(t *testing.T) {
	src := "tests:\n  - name: A Test\n    command: ls\n"
	seen := map[string]struct{}{guidA: {}}
	out, changed := AssignGUIDs(src, seen, fixedGen(guidA, guidA, guidB))

	require.True(t, changed)
	assert.Contains(t, out, "guid: "+guidB)
	assert.NotContains(t, out, "guid: "+guidA)
}

func TestAssignGUIDs_ReplacesMalformedValue(t *testing.T) {
	// Version-4 value: structurally a UUID but not time-ordered.
	src := "tests:\n  - name: A Test\n    guid: 123e4567-e89b-42d3-a456-426614174000\n    command: ls\n"
	seen := make(map[string]struct{})
	CollectGUIDs(src, seen)
	out, changed := AssignGUIDs(src, seen, fixedGen(guidA))

	require.True(t, changed)
	assert.Contains(t, out, "guid: "+guidA)
	assert.NotContains(t, out, "123e4567")
}

func TestAssignGUIDs_FillsEmptyKey(t *testing.T) {
	src := "tests:\n  - name: A Test\n    guid:\n    command: ls\n"
	out, changed := AssignGUIDs(src, make(map[string]struct{}), fixedGen(guidA))

	require.True(t, changed)
	assert.Contains(t, out, "    guid: "+guidA)
}

func TestAssignGUIDs_OnlyTouchesGUIDLines(t *testing.T) {
	src := "name: Example   \ntests:\n  - name: A Test\n    command: |\n      ls -la\n      pwd\n    language: AppleScript\n"
	out, _ := AssignGUIDs(src, make(map[string]struct{}), fixedGen(guidA))

	// Every original line survives untouched, in order.
	var kept []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "guid:") {
			continue
		}
		kept = append(kept, line)
	}
	assert.Equal(t, strings.Split(src, "\n"), kept)
}

func TestCollectGUIDs_SeedsLowercase(t *testing.T) {
	seen := make(map[string]struct{})
	CollectGUIDs("  guid: ABCDEF01-2345-7678-89AB-CDEF01234567\n", seen)
	_, ok := seen["abcdef01-2345-7678-89ab-cdef01234567"]
	assert.True(t, ok)
}

func TestIsValidV7(t *testing.T) {
	assert.True(t, IsValidV7("11111111-1111-7111-8111-111111111111"))
	assert.True(t, IsValidV7(NewV7()))
	// Wrong version nibble.
	assert.False(t, IsValidV7("123e4567-e89b-42d3-a456-426614174000"))
	// Wrong variant nibble.
	assert.False(t, IsValidV7("11111111-1111-7111-7111-111111111111"))
	assert.False(t, IsValidV7("not-a-guid"))
}

func TestNewV7_UniqueAndWellFormed(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		g := NewV7()
		require.True(t, IsValidV7(g))
		_, dup := seen[g]
		require.False(t, dup)
		seen[g] = struct{}{}
	}
}
