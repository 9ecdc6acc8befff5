// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// The assigner works on raw serialized text, not the parsed model, so a file
// with every GUID already present round-trips byte-for-byte.

var (
	// validV7 matches a structurally well-formed time-ordered UUID: version
	// nibble fixed to 7, variant nibble in [89ab].
	validV7 = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	// entryName matches the "- name:" line opening a test entry, capturing
	// the indentation and dash prefix.
	entryName = regexp.MustCompile(`(?i)^([ \t]*-[ \t]*)name:`)
	// guidKey matches a guid key line, capturing the key prefix and value.
	guidKey = regexp.MustCompile(`(?i)^([ \t]*guid:)(.*)$`)
)

// NewV7 generates a fresh time-ordered UUID string. It is the production
// generator for AssignGUIDs.
func NewV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// IsValidV7 reports whether s is a structurally well-formed version-7 UUID.
func IsValidV7(s string) bool {
	if !validV7.MatchString(s) {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// CollectGUIDs adds every well-formed GUID found on guid key lines of text to
// seen, lowercased. Run over the entire corpus before assigning anything so
// global uniqueness holds regardless of file processing order.
func CollectGUIDs(text string, seen map[string]struct{}) {
	for _, line := range strings.Split(text, "\n") {
		m := guidLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		seen[strings.ToLower(m[1])] = struct{}{}
	}
}

// AssignGUIDs fills in a missing or malformed GUID for every test entry in
// text, drawing fresh values from gen and retrying on seen-set collisions.
// The guid key is spliced immediately after the entry's name line with the
// entry's own indentation; nothing else is touched. Returns the rewritten
// text and whether anything changed; an already-complete file comes back
// byte-for-byte identical.
func AssignGUIDs(text string, seen map[string]struct{}, gen func() string) (string, bool) {
	lines := strings.Split(text, "\n")

	// Pass 1: ensure every "- name:" entry is followed by a guid key.
	var withKeys []string
	for i, line := range lines {
		withKeys = append(withKeys, line)
		m := entryName.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if !guidKeyFollows(lines, i+1) {
			indent := strings.Replace(m[1], "-", " ", 1)
			withKeys = append(withKeys, indent+"guid:")
		}
	}

	// Pass 2: fill guid keys that do not already hold a well-formed value.
	out := make([]string, len(withKeys))
	for i, line := range withKeys {
		m := guidKey.FindStringSubmatch(line)
		if m == nil || IsValidV7(strings.TrimSpace(m[2])) {
			out[i] = line
			continue
		}
		fresh := gen()
		for {
			if _, dup := seen[strings.ToLower(fresh)]; !dup {
				break
			}
			fresh = gen()
		}
		seen[strings.ToLower(fresh)] = struct{}{}
		out[i] = m[1] + " " + fresh
	}

	result := strings.Join(out, "\n")
	return result, result != text
}

// guidKeyFollows reports whether the next non-blank line at or after index i
// introduces a guid key.
func guidKeyFollows(lines []string, i int) bool {
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		return len(trimmed) >= 5 && strings.EqualFold(trimmed[:5], "guid:")
	}
	return false
}
