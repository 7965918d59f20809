// SPDX-License-Identifier: MPL-2.0

package companion

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/spf13/afero"
)

// statErrFs fails every Stat with a fixed error.
type statErrFs struct {
	afero.Fs
	err error
}

func (s statErrFs) Stat(string) (os.FileInfo, error) { return nil, s.err }

func TestProbe(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	if err := afero.WriteFile(mem, "/src/a.scss", []byte("a{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := mem.MkdirAll("/src/dir.scss", 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		fs   afero.Fs
		path string
		want Existence
	}{
		{name: "regular file", fs: mem, path: "/src/a.scss", want: Exists},
		{name: "missing", fs: mem, path: "/src/b.scss", want: NotFound},
		{name: "directory", fs: mem, path: "/src/dir.scss", want: OtherError},
		{name: "permission denied", fs: statErrFs{Fs: mem, err: fs.ErrPermission}, path: "/src/a.scss", want: OtherError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Probe(tt.fs, tt.path); got != tt.want {
				t.Errorf("Probe(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestProbeErr_KeepsCause(t *testing.T) {
	t.Parallel()

	got, err := ProbeErr(statErrFs{Fs: afero.NewMemMapFs(), err: fs.ErrPermission}, "/x")
	if got != OtherError {
		t.Fatalf("ProbeErr() = %v, want %v", got, OtherError)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("ProbeErr() error = %v, want ErrPermission", err)
	}
}

func TestExistence_ZeroValueIsNotFound(t *testing.T) {
	t.Parallel()

	var e Existence
	if e != NotFound {
		t.Errorf("zero Existence = %v, want %v", e, NotFound)
	}
	if e == Exists {
		t.Error("zero Existence must not read as Exists")
	}
}
