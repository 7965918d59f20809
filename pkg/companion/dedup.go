// SPDX-License-Identifier: MPL-2.0

package companion

import "strings"

// Dedupe drops every line whose text already occurs verbatim in text, so that
// transforming already-transformed output adds nothing. Order is preserved.
func Dedupe(lines []Line, text string) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if strings.Contains(text, l.Text) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Texts returns the rendered text of each line.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
