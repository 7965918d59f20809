// SPDX-License-Identifier: MPL-2.0

package companion

import (
	"errors"
	"io/fs"

	"github.com/spf13/afero"
)

// Existence is the outcome of probing a companion path.
type Existence int

// The zero value is NotFound, so an unset Existence never admits a companion.
const (
	// NotFound means nothing is present at the path.
	NotFound Existence = iota
	// Exists means a regular file is present.
	Exists
	// OtherError covers stat failures and non-regular files.
	OtherError
)

// String returns a lowercase label for log output.
func (e Existence) String() string {
	switch e {
	case Exists:
		return "exists"
	case NotFound:
		return "not found"
	default:
		return "error"
	}
}

// Probe reports whether a regular file exists at path. It never fails: a
// missing companion is the common case, and any other stat problem is
// reported as OtherError so the caller can skip the companion.
func Probe(fsys afero.Fs, path string) Existence {
	e, _ := ProbeErr(fsys, path)
	return e
}

// ProbeErr is Probe that also returns the underlying stat error, if any, for
// diagnostics.
func ProbeErr(fsys afero.Fs, path string) (Existence, error) {
	info, err := fsys.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NotFound, err
	case err != nil:
		return OtherError, err
	case !info.Mode().IsRegular():
		return OtherError, nil
	}
	return Exists, nil
}
