// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for baggage.
//
// This package implements the Cobra command hierarchy for the baggage CLI:
// the root command, the one-shot transform, watch mode, the esbuild bundle
// command and configuration management.
package cmd
