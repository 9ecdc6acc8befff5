// SPDX-License-Identifier: AGPL-3.0-or-later

package emit

import (
	"fmt"
	"strings"

	"github.com/loasdev/loas/internal/bind"
	"github.com/loasdev/loas/internal/model"
)

// jxaBackend emits the interpreted JavaScript-for-Automation artifact. Same
// contract as the AppleScript backend, rendered in JXA syntax: osascript
// calls the top-level run(argv) handler.
type jxaBackend struct{}

func (b *jxaBackend) Kind() ArtifactKind { return Script }

func (b *jxaBackend) Language() string { return model.LanguageJavaScript }

func (b *jxaBackend) Filename(def *model.TestDefinition) string {
	return model.SafeName(def.Name) + ".js"
}

func (b *jxaBackend) Emit(def *model.TestDefinition) (string, error) {
	if def.Language != model.LanguageJavaScript {
		return "", fmt.Errorf("jxa backend cannot emit %q test %q", def.Language, def.Name)
	}
	bound := bind.Bind(def, bind.ScriptStyle())

	var lines []string
	lines = append(lines, bound.Preamble...)
	if len(bound.Preamble) > 0 {
		lines = append(lines, "")
	}

	lines = append(lines, b.helpFunction(def)...)
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("function main(%s) {", strings.Join(bound.Params, ", ")))
	for _, l := range bound.Body {
		lines = append(lines, "    "+l)
	}
	lines = append(lines, "}", "")

	if len(bound.Params) > 0 {
		lines = append(lines,
			"// Example usage with default values:",
			fmt.Sprintf("// main(%s);", strings.Join(bound.Examples, ", ")),
			"",
		)
	}

	lines = append(lines,
		"function run(argv) {",
		`    if (argv.length > 0 && argv[0] === "-h") {`,
		"        showHelp();",
		"        return;",
		"    }",
	)
	if len(bound.Params) > 0 {
		for i, arg := range def.Args {
			lines = append(lines, b.parseArg(i, arg)...)
		}
		lines = append(lines, fmt.Sprintf("    main(%s);", strings.Join(bound.Params, ", ")))
	} else {
		lines = append(lines, "    main();")
	}
	lines = append(lines, "}")

	return strings.Join(lines, "\n") + "\n", nil
}

func (b *jxaBackend) helpFunction(def *model.TestDefinition) []string {
	logLine := func(s string) string {
		return fmt.Sprintf(`    console.log("%s");`, escapeDoubleQuoted(s))
	}

	lines := []string{
		"function showHelp() {",
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
		invocation := "osascript -l JavaScript " + b.Filename(def)
		for _, u := range usageExamples(invocation, def.Args) {
			lines = append(lines, logLine(u))
		}
	}
	lines = append(lines, "}")
	return lines
}

// parseArg renders the positional take-or-default statement for one
// argument, coercing to the inferred kind.
func (b *jxaBackend) parseArg(i int, arg model.ArgumentSpec) []string {
	name := arg.Name
	item := fmt.Sprintf("argv[%d]", i)
	def := arg.Default.Literal()

	lines := []string{fmt.Sprintf("    var %s = %s;", name, def)}
	switch arg.Default.Kind {
	case model.KindBoolean:
		lines = append(lines,
			fmt.Sprintf("    if (argv.length > %d) {", i),
			fmt.Sprintf(`        %s = String(%s).toLowerCase() === "true";`, name, item),
			"    }",
		)
	case model.KindInteger:
		lines = append(lines,
			fmt.Sprintf("    if (argv.length > %d) {", i),
			fmt.Sprintf("        var parsed%d = parseInt(%s, 10);", i, item),
			fmt.Sprintf("        if (!isNaN(parsed%d)) {", i),
			fmt.Sprintf("            %s = parsed%d;", name, i),
			"        }",
			"    }",
		)
	case model.KindFloat:
		lines = append(lines,
			fmt.Sprintf("    if (argv.length > %d) {", i),
			fmt.Sprintf("        var parsed%d = parseFloat(%s);", i, item),
			fmt.Sprintf("        if (!isNaN(parsed%d)) {", i),
			fmt.Sprintf("            %s = parsed%d;", name, i),
			"        }",
			"    }",
		)
	default:
		lines = append(lines,
			fmt.Sprintf("    if (argv.length > %d) {", i),
			fmt.Sprintf("        %s = %s;", name, item),
			"    }",
		)
	}
	return lines
}
