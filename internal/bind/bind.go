// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bind resolves #{name} placeholders in a command body against the
// declared argument list of a test definition.
package bind

import (
	"regexp"
	"strings"

	"github.com/loasdev/loas/internal/model"
)

// PreambleKeyword marks body lines that declare an external-framework
// dependency. They are hoisted above the rest of the body and never
// parameter-substituted.
const PreambleKeyword = "use framework"

// RefStyle controls how a backend spells a parameter reference inside the
// substituted body.
type RefStyle struct {
	// Ref renders a reference for a bare #{name} occurrence.
	Ref func(name string) string
	// QuotedRef renders a reference for a quote-wrapped "#{name}" occurrence.
	// The surrounding source quotes are consumed; the reference supplies its
	// own quoting at the call site.
	QuotedRef func(name string) string
	// Escape, when set, is applied to each body line before substitution so
	// backends embedding the body in a host-language string can escape it
	// without touching the inserted references.
	Escape func(line string) string
}

// ScriptStyle replaces placeholders with the bare parameter name, the form
// used by interpreted-script backends.
func ScriptStyle() RefStyle {
	ident := func(name string) string { return name }
	return RefStyle{Ref: ident, QuotedRef: ident}
}

// Binding is the result of resolving one test definition.
type Binding struct {
	// Params holds the parameter names in declaration order; empty when the
	// test declares no arguments.
	Params []string
	// Preamble holds hoisted framework-declaration lines, in source order.
	Preamble []string
	// Body holds the substituted command, one entry per non-blank source line.
	Body []string
	// Examples holds the default values rendered as target-syntax literals,
	// in declaration order.
	Examples []string
}

var placeholderPattern = regexp.MustCompile(`#\{([A-Za-z0-9_]+)\}`)

// Bind resolves def's command body using style. Placeholders naming an
// undeclared argument survive verbatim; Unresolved reports them.
func Bind(def *model.TestDefinition, style RefStyle) Binding {
	b := Binding{
		Params:   def.Args.Names(),
		Examples: make([]string, 0, len(def.Args)),
	}
	for _, arg := range def.Args {
		b.Examples = append(b.Examples, arg.Default.Literal())
	}

	var bodyLines []string
	for _, line := range strings.Split(def.Command, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, PreambleKeyword) {
			b.Preamble = append(b.Preamble, trimmed)
			continue
		}
		bodyLines = append(bodyLines, trimmed)
	}

	for _, line := range bodyLines {
		if style.Escape != nil {
			line = style.Escape(line)
		}
		for _, arg := range def.Args {
			quoted := `"#{` + arg.Name + `}"`
			bare := `#{` + arg.Name + `}`
			line = strings.ReplaceAll(line, quoted, style.QuotedRef(arg.Name))
			line = strings.ReplaceAll(line, bare, style.Ref(arg.Name))
		}
		b.Body = append(b.Body, line)
	}
	return b
}

// Unresolved returns the distinct placeholder names that survived
// substitution, in first-occurrence order. A non-empty result means the
// command referenced arguments it never declared.
func (b Binding) Unresolved() []string {
	var names []string
	seen := make(map[string]bool)
	for _, line := range b.Body {
		for _, m := range placeholderPattern.FindAllStringSubmatch(line, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				names = append(names, m[1])
			}
		}
	}
	return names
}
