// SPDX-License-Identifier: MPL-2.0

package companion

import (
	"path/filepath"
	"strings"
)

const (
	// DefaultDirToken expands to the name of the module's containing directory.
	DefaultDirToken = "[dir]"
	// DefaultFileToken expands to the module's file name without extension.
	DefaultFileToken = "[file]"
)

type (
	// Placeholders holds the token spellings recognised in path and variable
	// name templates.
	Placeholders struct {
		Dir  string
		File string
	}

	// Spec is one configured companion entry.
	Spec struct {
		// PathTemplate is the companion path relative to the module directory,
		// with placeholders, e.g. "[file].scss".
		PathTemplate string
		// VarNameTemplate optionally binds the companion to a variable.
		VarNameTemplate string
		// Loaders is the loader chain prepended to the specifier.
		Loaders []string
	}

	// Resolved is a Spec evaluated against one module.
	Resolved struct {
		RelativePath string
		AbsolutePath string
		VarName      string
		LoaderPrefix string
	}
)

// DefaultPlaceholders returns the [dir] and [file] tokens.
func DefaultPlaceholders() Placeholders {
	return Placeholders{Dir: DefaultDirToken, File: DefaultFileToken}
}

// Apply substitutes every occurrence of the directory and file tokens in
// template. An empty token is never substituted.
func (p Placeholders) Apply(template, dirName, baseName string) string {
	if template == "" {
		return ""
	}
	pairs := make([]string, 0, 4)
	if p.Dir != "" {
		pairs = append(pairs, p.Dir, dirName)
	}
	if p.File != "" {
		pairs = append(pairs, p.File, baseName)
	}
	if len(pairs) == 0 {
		return template
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Resolve evaluates spec for the module described by mc.
func Resolve(mc ModuleContext, spec Spec, p Placeholders) Resolved {
	rel := p.Apply(spec.PathTemplate, mc.DirName, mc.BaseName)

	abs := filepath.FromSlash(rel)
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(mc.DirPath, abs)
	}

	return Resolved{
		RelativePath: rel,
		AbsolutePath: filepath.Clean(abs),
		VarName:      p.Apply(spec.VarNameTemplate, mc.DirName, mc.BaseName),
		LoaderPrefix: LoaderPrefix(spec.Loaders),
	}
}
