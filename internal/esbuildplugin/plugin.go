// SPDX-License-Identifier: MPL-2.0

// Package esbuildplugin runs the companion transform inside esbuild.
//
// Plugin hooks esbuild's OnLoad for JavaScript and TypeScript modules in the
// file namespace. esbuild hands plugins no incoming source map, so the
// transform runs without one; esbuild maps the loaded contents itself.
package esbuildplugin

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"baggage-cli/pkg/baggage"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
)

// ModuleFilter selects the modules the plugin transforms.
const ModuleFilter = `\.[cm]?[jt]sx?$`

// Name is the plugin name esbuild reports in messages.
const Name = "baggage"

// Plugin returns an esbuild plugin that injects companions into every loaded
// module outside node_modules. ctx bounds each transform.
func Plugin(ctx context.Context, t *baggage.Transformer) api.Plugin {
	return api.Plugin{
		Name: Name,
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: ModuleFilter, Namespace: "file"}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				return load(ctx, t, args.Path)
			})
		},
	}
}

func load(ctx context.Context, t *baggage.Transformer, path string) (api.OnLoadResult, error) {
	result := api.OnLoadResult{
		ResolveDir: filepath.Dir(path),
		Loader:     LoaderFor(path),
	}

	src, err := afero.ReadFile(t.Fs(), path)
	if err != nil {
		return result, fmt.Errorf("read module: %w", err)
	}

	contents := string(src)
	if isDependency(path) {
		result.Contents = &contents
		return result, nil
	}

	res, err := t.Transform(ctx, baggage.Input{Path: path, Source: src, Request: Name + "!" + path})
	if err != nil {
		return result, err
	}
	contents = string(res.Code)
	result.Contents = &contents
	for _, l := range res.Injected {
		result.WatchFiles = append(result.WatchFiles, l.Origin.AbsolutePath)
	}
	return result, nil
}

// LoaderFor picks the esbuild loader from a module's extension.
func LoaderFor(path string) api.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return api.LoaderTS
	case ".tsx":
		return api.LoaderTSX
	case ".jsx":
		return api.LoaderJSX
	default:
		return api.LoaderJS
	}
}

func isDependency(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == "node_modules" {
			return true
		}
	}
	return false
}

// ParseLoader maps a loader name such as "css" or "file" to its esbuild
// value.
func ParseLoader(name string) (api.Loader, error) {
	switch strings.ToLower(name) {
	case "js":
		return api.LoaderJS, nil
	case "jsx":
		return api.LoaderJSX, nil
	case "ts":
		return api.LoaderTS, nil
	case "tsx":
		return api.LoaderTSX, nil
	case "json":
		return api.LoaderJSON, nil
	case "css":
		return api.LoaderCSS, nil
	case "text":
		return api.LoaderText, nil
	case "file":
		return api.LoaderFile, nil
	case "dataurl":
		return api.LoaderDataURL, nil
	case "empty":
		return api.LoaderEmpty, nil
	default:
		return api.LoaderNone, fmt.Errorf("unknown esbuild loader %q", name)
	}
}
