// SPDX-License-Identifier: MPL-2.0

// Package baggage runs the companion injection transform for one module.
//
// A Transformer is configured once with the companion entries and then
// invoked per module. Each invocation probes every companion concurrently,
// renders and de-duplicates the injections, prepends them to the source and
// shifts the incoming source map, if any, to match. A transform of a module
// that already carries its injections returns it unchanged, which keeps watch
// mode rebuilds from stacking duplicate statements.
package baggage
