// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity manages corpus-wide test identity: duplicate-name and
// duplicate-GUID detection, and idempotent assignment of missing GUIDs.
package identity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/loasdev/loas/internal/model"
)

// ViolationKind classifies an identity violation.
type ViolationKind string

const (
	DuplicateNameInFile    ViolationKind = "duplicate-name-in-file"
	DuplicateNameCrossFile ViolationKind = "duplicate-name-cross-file"
	DuplicateGUID          ViolationKind = "duplicate-guid"
)

// Location pinpoints one occurrence of an offending value.
type Location struct {
	File string `json:"file"`
	// Line is set for GUID scans, which work on raw text.
	Line int `json:"line,omitempty"`
	// Occurrence is the 1-based test index within the file, set for name scans.
	Occurrence int `json:"occurrence,omitempty"`
}

// Violation is one duplicate value with every known location.
type Violation struct {
	Kind      ViolationKind `json:"kind"`
	Value     string        `json:"value"`
	Locations []Location    `json:"locations"`
}

// Report is the outcome of a corpus validation pass.
type Report struct {
	FilesValidated int
	DistinctNames  int
	Violations     []Violation
}

// OK reports whether the pass found no violations.
func (r *Report) OK() bool { return len(r.Violations) == 0 }

// guidLine matches a guid key holding any UUID-shaped value; duplicate
// detection must see malformed-but-colliding values too, so it does not
// insist on version 7.
var guidLine = regexp.MustCompile(`(?i)^[ \t]*guid:[ \t]*([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})[ \t]*$`)

// Validate builds the corpus-wide name and GUID multimaps and reports every
// duplicate. It never mutates source files; GUIDs are scanned from the raw
// text so occurrences carry line numbers.
func Validate(files []*model.TechniqueFile, raw map[string][]byte) *Report {
	report := &Report{FilesValidated: len(files)}

	type nameOcc struct {
		file string
		occ  int
	}
	names := make(map[string][]nameOcc)
	var nameOrder []string
	for _, f := range files {
		for i, t := range f.Tests {
			if _, seen := names[t.Name]; !seen {
				nameOrder = append(nameOrder, t.Name)
			}
			names[t.Name] = append(names[t.Name], nameOcc{file: f.Path, occ: i + 1})
		}
	}
	report.DistinctNames = len(names)

	for _, name := range nameOrder {
		occs := names[name]
		if len(occs) < 2 {
			continue
		}

		perFile := make(map[string][]Location)
		distinctFiles := make([]string, 0, 2)
		for _, o := range occs {
			if _, seen := perFile[o.file]; !seen {
				distinctFiles = append(distinctFiles, o.file)
			}
			perFile[o.file] = append(perFile[o.file], Location{File: o.file, Occurrence: o.occ})
		}
		for _, file := range distinctFiles {
			if locs := perFile[file]; len(locs) > 1 {
				report.Violations = append(report.Violations, Violation{
					Kind:      DuplicateNameInFile,
					Value:     name,
					Locations: locs,
				})
			}
		}
		if len(distinctFiles) > 1 {
			var locs []Location
			for _, o := range occs {
				locs = append(locs, Location{File: o.file, Occurrence: o.occ})
			}
			report.Violations = append(report.Violations, Violation{
				Kind:      DuplicateNameCrossFile,
				Value:     name,
				Locations: locs,
			})
		}
	}

	report.Violations = append(report.Violations, DuplicateGUIDs(raw)...)

	return report
}

// DuplicateGUIDs scans raw file text for GUID values appearing more than once
// anywhere in the corpus, regardless of file.
func DuplicateGUIDs(raw map[string][]byte) []Violation {
	guids := make(map[string][]Location)
	var guidOrder []string
	paths := make([]string, 0, len(raw))
	for p := range raw {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, path := range paths {
		for lineNo, line := range strings.Split(string(raw[path]), "\n") {
			m := guidLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			guid := strings.ToLower(m[1])
			if _, seen := guids[guid]; !seen {
				guidOrder = append(guidOrder, guid)
			}
			guids[guid] = append(guids[guid], Location{File: path, Line: lineNo + 1})
		}
	}

	var out []Violation
	for _, guid := range guidOrder {
		if locs := guids[guid]; len(locs) > 1 {
			out = append(out, Violation{
				Kind:      DuplicateGUID,
				Value:     guid,
				Locations: locs,
			})
		}
	}
	return out
}
