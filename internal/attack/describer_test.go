// SPDX-License-Identifier: AGPL-3.0-or-later

package attack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticDescribe(t *testing.T) {
	got := Static{}.Describe("T1059.002")
	assert.Equal(t, "This technique demonstrates various methods for T1059.002 using AppleScript and JavaScript.", got)
}

func TestBundleDescribe(t *testing.T) {
	bundle := `{
  "objects": [
    {
      "type": "attack-pattern",
      "description": "Adversaries may abuse AppleScript for execution.",
      "external_references": [
        {"source_name": "mitre-attack", "external_id": "T1059.002"}
      ]
    },
    {
      "type": "intrusion-set",
      "description": "not a technique",
      "external_references": [
        {"source_name": "mitre-attack", "external_id": "G0001"}
      ]
    }
  ]
}`
	path := filepath.Join(t.TempDir(), "enterprise-attack.json")
	require.NoError(t, os.WriteFile(path, []byte(bundle), 0o644))

	b, err := LoadBundle(path)
	require.NoError(t, err)

	assert.Equal(t, "Adversaries may abuse AppleScript for execution.", b.Describe("T1059.002"))
	// Unknown IDs fall back to the static text; non-attack-pattern objects
	// are not indexed.
	assert.Equal(t, Static{}.Describe("T9999"), b.Describe("T9999"))
	assert.Equal(t, Static{}.Describe("G0001"), b.Describe("G0001"))
}

func TestLoadBundle_Errors(t *testing.T) {
	_, err := LoadBundle(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = LoadBundle(path)
	require.Error(t, err)
}
