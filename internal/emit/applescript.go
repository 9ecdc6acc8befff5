// SPDX-License-Identifier: AGPL-3.0-or-later

package emit

import (
	"fmt"
	"strings"

	"github.com/loasdev/loas/internal/bind"
	"github.com/loasdev/loas/internal/model"
)

// appleScriptBackend emits the interpreted AppleScript artifact: a help
// handler, a parameterized main handler holding the substituted body, and an
// `on run argv` dispatcher with positional-argument coercion.
type appleScriptBackend struct{}

func (b *appleScriptBackend) Kind() ArtifactKind { return Script }

func (b *appleScriptBackend) Language() string { return model.LanguageAppleScript }

func (b *appleScriptBackend) Filename(def *model.TestDefinition) string {
	return model.SafeName(def.Name) + ".scpt"
}

func (b *appleScriptBackend) Emit(def *model.TestDefinition) (string, error) {
	if def.Language != model.LanguageAppleScript {
		return "", fmt.Errorf("applescript backend cannot emit %q test %q", def.Language, def.Name)
	}
	bound := bind.Bind(def, bind.ScriptStyle())

	var lines []string
	lines = append(lines, bound.Preamble...)
	if len(bound.Preamble) > 0 {
		lines = append(lines, "")
	}

	lines = append(lines, b.helpHandler(def)...)
	lines = append(lines, "")

	if len(bound.Params) > 0 {
		lines = append(lines, fmt.Sprintf("on main(%s)", strings.Join(bound.Params, ", ")))
		for _, l := range bound.Body {
			lines = append(lines, "    "+l)
		}
		lines = append(lines, "end main", "")

		lines = append(lines,
			"-- Example usage with default values:",
			fmt.Sprintf("-- main(%s)", strings.Join(bound.Examples, ", ")),
			"",
		)

		lines = append(lines,
			"-- Handle command line arguments",
			"on run argv",
			`    if (count of argv) > 0 and item 1 of argv is "-h" then`,
			"        show_help()",
			"        return",
			"    end if",
			"",
		)
		for i, arg := range def.Args {
			lines = append(lines, b.parseArg(i, arg)...)
			lines = append(lines, "")
		}
		lines = append(lines, fmt.Sprintf("    main(%s)", strings.Join(bound.Params, ", ")))
		lines = append(lines, "end run")
	} else {
		lines = append(lines, "on main()")
		for _, l := range bound.Body {
			lines = append(lines, "    "+l)
		}
		lines = append(lines, "end main", "")

		// No positional parsing for zero-argument tests; the dispatcher
		// still honors the help flag.
		lines = append(lines,
			"on run argv",
			`    if (count of argv) > 0 and item 1 of argv is "-h" then`,
			"        show_help()",
			"        return",
			"    end if",
			"",
			"    main()",
			"end run",
		)
	}

	return strings.Join(lines, "\n") + "\n", nil
}

func (b *appleScriptBackend) helpHandler(def *model.TestDefinition) []string {
	logLine := func(s string) string {
		return fmt.Sprintf(`    log "%s"`, escapeDoubleQuoted(s))
	}

	lines := []string{
		"on show_help()",
		logLine(def.Name),
		logLine(""),
		logLine("Usage: Run this script to execute the command."),
	}
	if len(def.Args) > 0 {
		lines = append(lines, logLine(""), logLine("Available arguments (in order):"))
		for _, h := range argHelpLines(def.Args) {
			lines = append(lines, logLine(h))
		}
		lines = append(lines, logLine(""), logLine("Usage examples:"))
		invocation := "osascript " + b.Filename(def)
		for _, u := range usageExamples(invocation, def.Args) {
			lines = append(lines, logLine(u))
		}
	}
	lines = append(lines, "end show_help")
	return lines
}

// parseArg renders the positional take-or-default block for one argument,
// coercing the CLI string to the argument's inferred kind.
func (b *appleScriptBackend) parseArg(i int, arg model.ArgumentSpec) []string {
	name := arg.Name
	item := fmt.Sprintf("item %d of argv", i+1)
	def := arg.Default.Literal()

	lines := []string{
		fmt.Sprintf("    -- Parse %s (argument %d)", name, i+1),
		fmt.Sprintf("    if (count of argv) > %d then", i),
	}
	switch arg.Default.Kind {
	case model.KindBoolean:
		// AppleScript string comparison is case-insensitive, which gives
		// the case-insensitive "true" parse for free.
		lines = append(lines, fmt.Sprintf(`        set %s to ((%s) is "true")`, name, item))
	case model.KindInteger:
		lines = append(lines,
			"        try",
			fmt.Sprintf("            set %s to (%s) as integer", name, item),
			"        on error",
			fmt.Sprintf("            set %s to %s", name, def),
			"        end try",
		)
	case model.KindFloat:
		lines = append(lines,
			"        try",
			fmt.Sprintf("            set %s to (%s) as real", name, item),
			"        on error",
			fmt.Sprintf("            set %s to %s", name, def),
			"        end try",
		)
	default:
		lines = append(lines, fmt.Sprintf("        set %s to %s", name, item))
	}
	lines = append(lines,
		"    else",
		fmt.Sprintf("        set %s to %s", name, def),
		"    end if",
	)
	return lines
}
