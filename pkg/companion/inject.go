// SPDX-License-Identifier: MPL-2.0

package companion

import "strings"

const (
	// chainSeparator separates and terminates loader identifiers.
	chainSeparator = "!"
	// chainWildcard is replaced by chainSeparator inside an identifier.
	chainWildcard = "*"
)

// Line is one rendered injection statement together with the companion it
// was rendered for.
type Line struct {
	Text   string
	Origin Resolved
}

// LoaderPrefix renders a loader chain as a specifier prefix. ["a", "b"]
// becomes "a!b!", and a nil or empty chain becomes "".
func LoaderPrefix(loaders []string) string {
	if len(loaders) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, l := range loaders {
		sb.WriteString(strings.ReplaceAll(l, chainWildcard, chainSeparator))
		sb.WriteString(chainSeparator)
	}
	return sb.String()
}

// SplitLoaders parses the single-string loader form ("a*b" or "a!b") into
// its identifiers. Empty identifiers are dropped.
func SplitLoaders(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '*' || r == '!'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Render produces the statement that pulls r into a module using syntax.
// The specifier is always written as "./" followed by the relative path.
func Render(r Resolved, syntax Syntax) string {
	specifier := "'" + r.LoaderPrefix + "./" + r.RelativePath + "'"

	var sb strings.Builder
	if syntax == CommonJS {
		if r.VarName != "" {
			sb.WriteString("const " + r.VarName + " = ")
		}
		sb.WriteString("require(" + specifier + ");\n")
		return sb.String()
	}

	sb.WriteString("import ")
	if r.VarName != "" {
		sb.WriteString(r.VarName + " from ")
	}
	sb.WriteString(specifier + ";\n")
	return sb.String()
}

// RenderLine is Render wrapped into a Line.
func RenderLine(r Resolved, syntax Syntax) Line {
	return Line{Text: Render(r, syntax), Origin: r}
}
