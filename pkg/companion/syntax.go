// SPDX-License-Identifier: MPL-2.0

package companion

import "regexp"

// Syntax selects the statement form of injected lines.
type Syntax int

const (
	// ESModule renders import statements.
	ESModule Syntax = iota
	// CommonJS renders require calls.
	CommonJS
)

// String returns "commonjs" or "esm".
func (s Syntax) String() string {
	if s == CommonJS {
		return "commonjs"
	}
	return "esm"
}

// commonJSMarkers matches a whitespace-preceded require( call or a
// module.exports reference. It is a textual heuristic: matches inside comments
// and string literals count too.
var commonJSMarkers = regexp.MustCompile(`(\s+require\s*\()|(module\.exports)`)

// HasCommonJSMarkers reports whether text looks like a CommonJS module.
func HasCommonJSMarkers(text string) bool {
	return commonJSMarkers.MatchString(text)
}

// DetectSyntax picks CommonJS when text has CommonJS markers and ESModule
// otherwise.
func DetectSyntax(text string) Syntax {
	if HasCommonJSMarkers(text) {
		return CommonJS
	}
	return ESModule
}
