// SPDX-License-Identifier: MPL-2.0

// Package companion decides which companion files get injected into a module.
//
// A companion is a file that sits next to a module by naming convention (for
// example "button.scss" next to "button.js") and is not otherwise referenced.
// The package resolves configured path templates against a module's location,
// checks which companions exist, picks require or import syntax for the whole
// module and renders one statement per companion:
//
//	mc := companion.NewModuleContext("/src/ui/button.js", text)
//	r := companion.Resolve(mc, spec, companion.DefaultPlaceholders())
//	if companion.Probe(fs, r.AbsolutePath) == companion.Exists {
//	    line := companion.Render(r, mc.Syntax())
//	}
package companion
