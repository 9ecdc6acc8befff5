// SPDX-License-Identifier: AGPL-3.0-or-later

package emit

import (
	"fmt"
	"strings"

	"github.com/loasdev/loas/internal/bind"
	"github.com/loasdev/loas/internal/model"
)

// swiftBackend emits the compiled-wrapper artifact: a Swift source file that
// hosts the original command body and executes it through the OSA scripting
// bridge. The wrapper never reinterprets the body; arguments reach it via
// string interpolation into the embedded source.
type swiftBackend struct {
	language string
}

func newSwiftBackend(language string) *swiftBackend {
	return &swiftBackend{language: language}
}

func (b *swiftBackend) Kind() ArtifactKind { return Wrapper }

func (b *swiftBackend) Language() string { return b.language }

func (b *swiftBackend) Filename(def *model.TestDefinition) string {
	return model.SafeName(def.Name) + ".swift"
}

// swiftType maps an inferred primitive kind to the nearest Swift type.
func swiftType(k model.Kind) string {
	switch k {
	case model.KindBoolean:
		return "Bool"
	case model.KindInteger:
		return "Int"
	case model.KindFloat:
		return "Double"
	default:
		return "String"
	}
}

func (b *swiftBackend) refStyle() bind.RefStyle {
	return bind.RefStyle{
		Ref:       func(name string) string { return `\(` + name + `)` },
		QuotedRef: func(name string) string { return `\(quoted(` + name + `))` },
		Escape: func(line string) string {
			// The body lands inside a Swift multiline string literal; its own
			// backslashes must not read as Swift escapes.
			return strings.ReplaceAll(line, `\`, `\\`)
		},
	}
}

func (b *swiftBackend) Emit(def *model.TestDefinition) (string, error) {
	if def.Language != b.language {
		return "", fmt.Errorf("swift wrapper backend for %s cannot emit %q test %q", b.language, def.Language, def.Name)
	}
	bound := bind.Bind(def, b.refStyle())

	var lines []string
	lines = append(lines,
		"import Foundation",
		"import OSAKit",
		"",
	)

	lines = append(lines, b.helpFunction(def)...)
	lines = append(lines, "")

	if len(bound.Params) > 0 {
		lines = append(lines,
			"func quoted(_ value: Any) -> String {",
			"    let text = String(describing: value)",
			"    let escaped = text",
			`        .replacingOccurrences(of: "\\", with: "\\\\")`,
			`        .replacingOccurrences(of: "\"", with: "\\\"")`,
			`    return "\"\(escaped)\""`,
			"}",
			"",
		)
	}

	lines = append(lines, b.entryFunction(def, bound)...)
	lines = append(lines, "")

	if len(bound.Params) > 0 {
		lines = append(lines,
			"// Example usage with default values:",
			fmt.Sprintf("// runTest(%s)", strings.Join(bound.Examples, ", ")),
			"",
		)
	}

	lines = append(lines, b.dispatch(def, bound)...)

	return strings.Join(lines, "\n") + "\n", nil
}

func (b *swiftBackend) helpFunction(def *model.TestDefinition) []string {
	printLine := func(s string) string {
		return fmt.Sprintf(`    print("%s")`, escapeDoubleQuoted(s))
	}

	lines := []string{
		"func showHelp() {",
		printLine(def.Name),
		printLine(""),
		printLine(fmt.Sprintf("Usage: Run this wrapper to execute the embedded %s command.", b.language)),
	}
	if len(def.Args) > 0 {
		lines = append(lines, printLine(""), printLine("Available arguments (in order):"))
		for _, h := range argHelpLines(def.Args) {
			lines = append(lines, printLine(h))
		}
		lines = append(lines, printLine(""), printLine("Usage examples:"))
		invocation := "./" + model.SafeName(def.Name)
		for _, u := range usageExamples(invocation, def.Args) {
			lines = append(lines, printLine(u))
		}
	}
	lines = append(lines, "}")
	return lines
}

// entryFunction renders the typed entry routine embedding the substituted
// body and executing it through OSAKit.
func (b *swiftBackend) entryFunction(def *model.TestDefinition, bound bind.Binding) []string {
	params := make([]string, len(def.Args))
	for i, arg := range def.Args {
		params[i] = fmt.Sprintf("_ %s: %s", arg.Name, swiftType(arg.Default.Kind))
	}

	lines := []string{
		fmt.Sprintf("func runTest(%s) {", strings.Join(params, ", ")),
		`    let source = """`,
	}
	for _, p := range bound.Preamble {
		lines = append(lines, "    "+p)
	}
	for _, l := range bound.Body {
		lines = append(lines, "    "+l)
	}
	lines = append(lines,
		`    """`,
		fmt.Sprintf(`    guard let language = OSALanguage(forName: "%s") else {`, b.language),
		fmt.Sprintf(`        FileHandle.standardError.write(Data("OSA language %s is unavailable\n".utf8))`, b.language),
		"        exit(1)",
		"    }",
		"    let script = OSAScript(source: source, language: language)",
		"    var errorInfo: NSDictionary?",
		"    script.executeAndReturnError(&errorInfo)",
		"    if let errorInfo = errorInfo {",
		`        FileHandle.standardError.write(Data("script error: \(errorInfo)\n".utf8))`,
		"        exit(1)",
		"    }",
		"}",
	)
	return lines
}

func (b *swiftBackend) dispatch(def *model.TestDefinition, bound bind.Binding) []string {
	lines := []string{
		"let argv = Array(CommandLine.arguments.dropFirst())",
		`if argv.first == "-h" {`,
		"    showHelp()",
		"    exit(0)",
		"}",
	}
	for i, arg := range def.Args {
		lines = append(lines, b.parseArg(i, arg)...)
	}
	lines = append(lines, fmt.Sprintf("runTest(%s)", strings.Join(bound.Params, ", ")))
	return lines
}

// parseArg renders the typed take-or-default block for one argument.
func (b *swiftBackend) parseArg(i int, arg model.ArgumentSpec) []string {
	name := arg.Name
	item := fmt.Sprintf("argv[%d]", i)
	def := arg.Default.Literal()

	lines := []string{fmt.Sprintf("var %s: %s = %s", name, swiftType(arg.Default.Kind), def)}
	switch arg.Default.Kind {
	case model.KindBoolean:
		lines = append(lines,
			fmt.Sprintf("if argv.count > %d {", i),
			fmt.Sprintf(`    %s = %s.lowercased() == "true"`, name, item),
			"}",
		)
	case model.KindInteger:
		lines = append(lines,
			fmt.Sprintf("if argv.count > %d {", i),
			fmt.Sprintf("    %s = Int(%s) ?? %s", name, item, def),
			"}",
		)
	case model.KindFloat:
		lines = append(lines,
			fmt.Sprintf("if argv.count > %d {", i),
			fmt.Sprintf("    %s = Double(%s) ?? %s", name, item, def),
			"}",
		)
	default:
		lines = append(lines,
			fmt.Sprintf("if argv.count > %d {", i),
			fmt.Sprintf("    %s = %s", name, item),
			"}",
		)
	}
	return lines
}
