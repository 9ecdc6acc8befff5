// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model holds the in-memory representation of a technique file and
// its test definitions as loaded from YAML source.
package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LanguageAppleScript and LanguageJavaScript are the supported command dialects.
const (
	LanguageAppleScript = "AppleScript"
	LanguageJavaScript  = "JavaScript"
)

// Kind is the inferred primitive kind of an argument default.
type Kind int

const (
	KindString Kind = iota
	KindBoolean
	KindInteger
	KindFloat
)

// String returns the kind name used in generated help text.
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// ArgValue is an argument default tagged with its inferred kind.
type ArgValue struct {
	Kind  Kind
	Str   string
	Bool  bool
	Int   int64
	Float float64
}

// Literal renders the value in script-literal form: quoted string, lowercase
// boolean keyword, bare number.
func (v ArgValue) Literal() string {
	switch v.Kind {
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	default:
		return strconv.Quote(v.Str)
	}
}

// Raw renders the value without quoting, for help "(default: ...)" lines.
func (v ArgValue) Raw() string {
	if v.Kind == KindString {
		return v.Str
	}
	return v.Literal()
}

// ArgumentSpec is one declared argument: a name plus its typed default.
type ArgumentSpec struct {
	Name    string
	Default ArgValue
}

// ArgumentList preserves the declaration order of the YAML args mapping.
// Order is significant: it fixes positional CLI-argument order in every
// emitted backend.
type ArgumentList []ArgumentSpec

// UnmarshalYAML decodes the args mapping while keeping key order, which the
// default map decoding would lose.
func (l *ArgumentList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("args: expected a mapping, got %s", nodeKindName(node.Kind))
	}
	seen := make(map[string]bool)
	out := make(ArgumentList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var name string
		if err := keyNode.Decode(&name); err != nil {
			return fmt.Errorf("args: invalid key at line %d: %w", keyNode.Line, err)
		}
		if seen[name] {
			return fmt.Errorf("args: duplicate argument %q at line %d", name, keyNode.Line)
		}
		seen[name] = true
		val, err := decodeArgValue(valNode)
		if err != nil {
			return fmt.Errorf("args: %s: %w", name, err)
		}
		out = append(out, ArgumentSpec{Name: name, Default: val})
	}
	*l = out
	return nil
}

// Names returns the argument names in declaration order.
func (l ArgumentList) Names() []string {
	names := make([]string, len(l))
	for i, a := range l {
		names[i] = a.Name
	}
	return names
}

// Lookup returns the spec for name, if declared.
func (l ArgumentList) Lookup(name string) (ArgumentSpec, bool) {
	for _, a := range l {
		if a.Name == name {
			return a, true
		}
	}
	return ArgumentSpec{}, false
}

func decodeArgValue(n *yaml.Node) (ArgValue, error) {
	if n.Kind != yaml.ScalarNode {
		return ArgValue{}, fmt.Errorf("default must be a scalar, got %s at line %d", nodeKindName(n.Kind), n.Line)
	}
	switch n.Tag {
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return ArgValue{}, err
		}
		return ArgValue{Kind: KindBoolean, Bool: b}, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return ArgValue{}, err
		}
		return ArgValue{Kind: KindInteger, Int: i}, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return ArgValue{}, err
		}
		return ArgValue{Kind: KindFloat, Float: f}, nil
	case "!!str", "":
		return ArgValue{Kind: KindString, Str: n.Value}, nil
	default:
		return ArgValue{}, fmt.Errorf("unsupported default type %s at line %d", n.Tag, n.Line)
	}
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}

// TestDefinition is one named, parameterizable command with metadata.
// Instances are read-only after loading; GUID assignment rewrites the
// serialized source text, never this struct.
type TestDefinition struct {
	Name              string       `yaml:"name"`
	GUID              string       `yaml:"guid,omitempty"`
	Command           string       `yaml:"command"`
	Language          string       `yaml:"language"`
	ElevationRequired bool         `yaml:"elevation_required,omitempty"`
	TCCRequired       bool         `yaml:"tcc_required,omitempty"`
	Args              ArgumentList `yaml:"args,omitempty"`
	Description       string       `yaml:"description,omitempty"`
	References        []string     `yaml:"references,omitempty"`
}

// Validate checks the shape constraints the YAML schema cannot express.
func (t *TestDefinition) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("test is missing a name")
	}
	if strings.TrimSpace(t.Command) == "" {
		return fmt.Errorf("test %q is missing a command", t.Name)
	}
	switch t.Language {
	case LanguageAppleScript, LanguageJavaScript:
	default:
		return fmt.Errorf("test %q has unsupported language %q", t.Name, t.Language)
	}
	return nil
}

// TechniqueFile is one source definition file: a display name plus its tests.
type TechniqueFile struct {
	Name  string            `yaml:"name"`
	Tests []*TestDefinition `yaml:"tests"`

	// Filled by the loader, not part of the schema.
	Path        string `yaml:"-"`
	TechniqueID string `yaml:"-"`
}

// Validate checks the file and every test it owns.
func (f *TechniqueFile) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("file is missing a name")
	}
	if len(f.Tests) == 0 {
		return fmt.Errorf("file %q declares no tests", f.Name)
	}
	for i, t := range f.Tests {
		if t == nil {
			return fmt.Errorf("file %q test %d is empty", f.Name, i+1)
		}
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

var (
	unsafeRunes   = regexp.MustCompile(`[^a-zA-Z0-9_\s-]`)
	separatorRuns = regexp.MustCompile(`[-\s]+`)
)

// SafeName derives a filesystem-safe base name from a test name: strip
// everything outside alphanumerics/underscore/hyphen/space, collapse
// hyphen/whitespace runs to a single underscore, lowercase. Distinct names
// can normalize to the same safe name; emit.CheckFilenameCollisions guards
// that separately.
func SafeName(name string) string {
	s := unsafeRunes.ReplaceAllString(name, "")
	s = separatorRuns.ReplaceAllString(s, "_")
	return strings.ToLower(s)
}
