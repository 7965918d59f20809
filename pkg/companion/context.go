// SPDX-License-Identifier: MPL-2.0

package companion

import (
	"path/filepath"
	"strings"
)

// ModuleContext describes the module being transformed. It is built once per
// transform and never modified afterwards.
type ModuleContext struct {
	// AbsolutePath is the module's file path, e.g. /foo/bar/file.js.
	AbsolutePath string
	// BaseName is the file name without extension, e.g. file.
	BaseName string
	// DirPath is the containing directory, e.g. /foo/bar.
	DirPath string
	// DirName is the last segment of DirPath, e.g. bar.
	DirName string
	// Text is the module's original source.
	Text string
	// CommonJS records whether Text carries CommonJS markers.
	CommonJS bool
}

// NewModuleContext derives the names used by placeholder substitution from
// path and detects the module syntax of text.
func NewModuleContext(path, text string) ModuleContext {
	base := filepath.Base(path)
	dir := filepath.Dir(path)

	return ModuleContext{
		AbsolutePath: path,
		BaseName:     strings.TrimSuffix(base, filepath.Ext(base)),
		DirPath:      dir,
		DirName:      filepath.Base(dir),
		Text:         text,
		CommonJS:     HasCommonJSMarkers(text),
	}
}

// Syntax returns the statement form used for every injection into the module.
func (mc ModuleContext) Syntax() Syntax {
	if mc.CommonJS {
		return CommonJS
	}
	return ESModule
}
