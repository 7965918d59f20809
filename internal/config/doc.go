// SPDX-License-Identifier: MPL-2.0

// Package config loads baggage configuration using Viper with CUE or TOML as
// the file format.
//
// Configuration is read from baggage.cue (or baggage.toml) in the working
// directory, or from the file named by --config. CUE files are validated
// against an embedded schema (config_schema.cue).
//
// The companion entries are ordered: their declaration order is the order in
// which injections are written. Viper lowercases keys and does not keep map
// order, so companions are read straight from the CUE value (field order) or
// from the TOML [[companion]] array, and only the scalar settings go through
// Viper. The STORE_BAGGAGE_LOADER_CHANGES environment variable is read once
// here and handed to the transformer as a plain value.
package config
