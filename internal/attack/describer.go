// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attack supplies technique descriptions to callers that want them.
// The lookup is an injected collaborator: the core never knows where
// descriptions come from or whether they are cached.
package attack

import (
	"encoding/json"
	"fmt"
	"os"
)

// Describer resolves an ATT&CK technique ID to a human-readable description.
type Describer interface {
	Describe(techniqueID string) string
}

// Static is the always-available fallback describer.
type Static struct{}

// Describe returns the generic fallback text for any technique ID.
func (Static) Describe(techniqueID string) string {
	return fmt.Sprintf("This technique demonstrates various methods for %s using AppleScript and JavaScript.", techniqueID)
}

// Bundle resolves descriptions from a local STIX bundle snapshot
// (enterprise-attack.json). Unknown IDs fall back to the static text.
type Bundle struct {
	descriptions map[string]string
}

type stixBundle struct {
	Objects []stixObject `json:"objects"`
}

type stixObject struct {
	Type               string          `json:"type"`
	Description        string          `json:"description"`
	ExternalReferences []stixReference `json:"external_references"`
}

type stixReference struct {
	SourceName string `json:"source_name"`
	ExternalID string `json:"external_id"`
}

// LoadBundle reads a STIX bundle from path and indexes attack-pattern
// descriptions by external technique ID.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle: %w", err)
	}
	var raw stixBundle
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing bundle %s: %w", path, err)
	}

	b := &Bundle{descriptions: make(map[string]string)}
	for _, obj := range raw.Objects {
		if obj.Type != "attack-pattern" || obj.Description == "" {
			continue
		}
		for _, ref := range obj.ExternalReferences {
			if ref.SourceName == "mitre-attack" && ref.ExternalID != "" {
				b.descriptions[ref.ExternalID] = obj.Description
			}
		}
	}
	return b, nil
}

// Describe returns the bundled description for techniqueID, or the static
// fallback when the bundle has none.
func (b *Bundle) Describe(techniqueID string) string {
	if d, ok := b.descriptions[techniqueID]; ok {
		return d
	}
	return Static{}.Describe(techniqueID)
}
