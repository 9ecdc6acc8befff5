// SPDX-License-Identifier: AGPL-3.0-or-later

// Package emit renders bound test definitions into executable text artifacts.
// One backend exists per (artifact kind, dialect) pair; adding a dialect means
// adding a backend value to the registry, not branching in existing emitters.
package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/loasdev/loas/internal/model"
)

// ArtifactKind distinguishes the two artifact families every test is
// rendered into.
type ArtifactKind int

const (
	// Script is the interpreted-script form, runnable with osascript.
	Script ArtifactKind = iota
	// Wrapper is the compiled-language form hosting the original body
	// through the OSA scripting bridge.
	Wrapper
)

func (k ArtifactKind) String() string {
	if k == Wrapper {
		return "wrapper"
	}
	return "script"
}

// Backend renders one artifact kind for one dialect.
type Backend interface {
	Kind() ArtifactKind
	Language() string
	// Filename derives the artifact filename for def (safe name + extension).
	Filename(def *model.TestDefinition) string
	// Emit renders def into a self-contained text artifact. No side effects;
	// writing is the caller's job.
	Emit(def *model.TestDefinition) (string, error)
}

var backends = []Backend{
	&appleScriptBackend{},
	&jxaBackend{},
	newSwiftBackend(model.LanguageAppleScript),
	newSwiftBackend(model.LanguageJavaScript),
}

// For returns the backend for the given kind and dialect.
func For(kind ArtifactKind, language string) (Backend, error) {
	for _, b := range backends {
		if b.Kind() == kind && b.Language() == language {
			return b, nil
		}
	}
	return nil, fmt.Errorf("no %s backend for language %q", kind, language)
}

// All returns every registered backend in a stable order.
func All() []Backend {
	out := make([]Backend, len(backends))
	copy(out, backends)
	return out
}

// Collision reports two or more distinct test names inside one technique that
// normalize to the same artifact filename. Name uniqueness does not imply
// filename uniqueness, so this runs as its own check.
type Collision struct {
	File     string
	Kind     ArtifactKind
	Filename string
	Tests    []string
}

// CheckFilenameCollisions scans the corpus for post-normalization filename
// clashes per technique file and artifact kind.
func CheckFilenameCollisions(files []*model.TechniqueFile) []Collision {
	var out []Collision
	for _, f := range files {
		for _, kind := range []ArtifactKind{Script, Wrapper} {
			byName := make(map[string][]string)
			for _, t := range f.Tests {
				b, err := For(kind, t.Language)
				if err != nil {
					continue
				}
				fn := b.Filename(t)
				byName[fn] = append(byName[fn], t.Name)
			}
			names := make([]string, 0, len(byName))
			for fn := range byName {
				names = append(names, fn)
			}
			sort.Strings(names)
			for _, fn := range names {
				if len(byName[fn]) > 1 {
					out = append(out, Collision{File: f.Path, Kind: kind, Filename: fn, Tests: byName[fn]})
				}
			}
		}
	}
	return out
}

// usageRow is one example-invocation line in generated help text.
type usageRow struct {
	cmd  string
	note string
}

// renderUsageRows pads the invocations so the trailing comments line up.
func renderUsageRows(rows []usageRow) []string {
	width := 0
	for _, r := range rows {
		if len(r.cmd) > width {
			width = len(r.cmd)
		}
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprintf("  %-*s  # %s", width, r.cmd, r.note)
	}
	return out
}

// usageExamples builds the zero-, one-, and many-argument example
// invocations shown by every backend's help routine.
func usageExamples(invocation string, args model.ArgumentList) []string {
	rows := []usageRow{{cmd: invocation, note: "Use all defaults"}}
	if len(args) == 1 {
		rows = append(rows, usageRow{
			cmd:  invocation + " [value]",
			note: "Set " + args[0].Name,
		})
	} else {
		rows = append(rows,
			usageRow{cmd: invocation + " [arg1]", note: "Set first argument"},
			usageRow{cmd: invocation + " [arg1] [arg2] ...", note: "Set all arguments"},
		)
	}
	return renderUsageRows(rows)
}

// argHelpLines renders the numbered "name: kind (default: value)" list.
func argHelpLines(args model.ArgumentList) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = fmt.Sprintf("  %d. %s: %s (default: %s)", i+1, a.Name, a.Default.Kind, a.Default.Raw())
	}
	return out
}

// escapeDoubleQuoted escapes a value for inclusion inside a double-quoted
// string literal (shared by the AppleScript, JXA and Swift help routines).
func escapeDoubleQuoted(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
