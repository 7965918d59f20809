// SPDX-License-Identifier: MPL-2.0

package companion

import "testing"

func TestDetectSyntax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Syntax
	}{
		{name: "module.exports assignment", text: "module.exports = {};\n", want: CommonJS},
		{name: "indented require", text: "const x =\n  require('x');\n", want: CommonJS},
		{name: "require with space before paren", text: "var a = require ('a');", want: CommonJS},
		{name: "import statement", text: "import a from './a';\nexport default a;\n", want: ESModule},
		{name: "require at start of text has no leading whitespace", text: "require('a');", want: ESModule},
		{name: "require inside a comment still counts", text: "export {};\n// const a = require('a')\n", want: CommonJS},
		{name: "require inside a string still counts", text: "export const s = \" require(\";\n", want: CommonJS},
		{name: "identifier ending in require", text: "export const x = myrequire('a');", want: ESModule},
		{name: "empty", text: "", want: ESModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DetectSyntax(tt.text); got != tt.want {
				t.Errorf("DetectSyntax(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
