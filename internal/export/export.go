// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders the loaded corpus as a flat JSON array for web
// consumption.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/loasdev/loas/internal/attack"
	"github.com/loasdev/loas/internal/model"
)

// ScriptRecord is one test flattened for export.
type ScriptRecord struct {
	Name              string `json:"name"`
	GUID              string `json:"guid,omitempty"`
	Command           string `json:"command"`
	Language          string `json:"language"`
	ElevationRequired bool   `json:"elevation_required"`
	TCCRequired       bool   `json:"tcc_required"`
	TechniqueID       string `json:"technique_id"`
	TechniqueName     string `json:"technique_name"`
	TestNumber        int    `json:"test_number"`
	Description       string `json:"description,omitempty"`
}

// Records flattens the corpus in file and declaration order. When desc is
// non-nil each record carries its technique description.
func Records(files []*model.TechniqueFile, desc attack.Describer) []ScriptRecord {
	var out []ScriptRecord
	for _, f := range files {
		for i, t := range f.Tests {
			rec := ScriptRecord{
				Name:              t.Name,
				GUID:              t.GUID,
				Command:           t.Command,
				Language:          t.Language,
				ElevationRequired: t.ElevationRequired,
				TCCRequired:       t.TCCRequired,
				TechniqueID:       f.TechniqueID,
				TechniqueName:     f.Name,
				TestNumber:        i + 1,
			}
			if desc != nil {
				rec.Description = desc.Describe(f.TechniqueID)
			}
			out = append(out, rec)
		}
	}
	return out
}

// MarshalRecords renders records as indented JSON.
func MarshalRecords(records []ScriptRecord) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling records: %w", err)
	}
	return append(data, '\n'), nil
}
