// SPDX-License-Identifier: MPL-2.0

package sourcemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
)

// Version is the only source map revision this package understands.
const Version = 3

var (
	// ErrUnsupportedVersion is returned for maps whose version is not 3.
	ErrUnsupportedVersion = errors.New("unsupported source map version")
	// ErrIndexMap is returned for sectioned (index) maps.
	ErrIndexMap = errors.New("index source maps are not supported")
)

// Map is the JSON form of a revision 3 source map.
type Map struct {
	Version        int             `json:"version"`
	File           string          `json:"file,omitempty"`
	SourceRoot     string          `json:"sourceRoot,omitempty"`
	Sources        []string        `json:"sources"`
	SourcesContent []*string       `json:"sourcesContent,omitempty"`
	Names          []string        `json:"names"`
	Mappings       string          `json:"mappings"`
	Sections       json.RawMessage `json:"sections,omitempty"`
}

// Parse decodes a source map and checks that its mappings are well formed.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse source map: %w", err)
	}
	if len(m.Sections) > 0 {
		return nil, ErrIndexMap
	}
	if m.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.Version)
	}
	if _, err := m.Decode(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Decode returns the segment table of m.
func (m *Map) Decode() (Table, error) {
	return Decode(m.Mappings, len(m.Sources), len(m.Names))
}

// Marshal encodes m as JSON. Nil slices are written as empty arrays.
func (m *Map) Marshal() ([]byte, error) {
	out := *m
	if out.Sources == nil {
		out.Sources = []string{}
	}
	if out.Names == nil {
		out.Names = []string{}
	}
	return json.Marshal(&out)
}

// Prepend returns a copy of m describing prefix followed by the code m
// describes. The prefix carries no segments; every existing segment moves
// down by the number of line breaks in prefix, and segments on the first
// original line also move right by the length of prefix's last line.
// file becomes the new map's file.
func Prepend(m *Map, prefix, file string) (*Map, error) {
	table, err := m.Decode()
	if err != nil {
		return nil, err
	}

	lines, columns := extent(prefix)

	out := &Map{
		Version:        Version,
		File:           file,
		SourceRoot:     m.SourceRoot,
		Sources:        append([]string(nil), m.Sources...),
		SourcesContent: append([]*string(nil), m.SourcesContent...),
		Names:          append([]string(nil), m.Names...),
		Mappings:       Encode(table.Shift(lines, columns)),
	}
	return out, nil
}

// extent counts the line breaks in s and the UTF-16 length of the text after
// the last one. Columns in source maps are UTF-16 code units.
func extent(s string) (lines, columns int) {
	lines = strings.Count(s, "\n")
	last := s
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		last = s[i+1:]
	}
	for _, r := range last {
		columns += utf16.RuneLen(r)
	}
	return lines, columns
}
