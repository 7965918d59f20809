// SPDX-License-Identifier: MPL-2.0

// Package sourcemap reads, shifts and writes revision 3 source maps.
//
// Mappings are handled as a flat table of segments rather than a node tree:
// Decode turns the base64 VLQ "mappings" string into a Table, the table is
// adjusted in place, and Encode renders it back. Prepend combines the three
// steps for the one edit a companion injection needs, inserting unmapped
// leading text before the code a map describes.
package sourcemap
