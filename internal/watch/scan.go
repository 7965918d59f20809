// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"fmt"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Scan returns the files below baseDir that match patterns and none of the
// ignores, default ignores included. Paths are slash-separated, relative to
// baseDir and sorted. Empty patterns select every file.
func Scan(baseDir string, patterns, ignore []string) ([]string, error) {
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(ignore, "ignore"); err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		patterns = []string{"**/*"}
	}
	ignores := append(slices.Clone(defaultIgnores), ignore...)

	fsys := os.DirFS(baseDir)
	var out []string
	for _, pat := range patterns {
		matches, err := doublestar.Glob(fsys, pat, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("watch: scan %q: %w", pat, err)
		}
		for _, m := range matches {
			if !matchAny(ignores, m) {
				out = append(out, m)
			}
		}
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}
