// SPDX-License-Identifier: MPL-2.0

package sourcemap

import (
	"fmt"
	"strings"
)

type (
	// Segment maps one generated position to an original position. Lines and
	// columns are zero-based. A segment without a source marks generated text
	// that has no original counterpart.
	Segment struct {
		GenLine   int
		GenColumn int

		HasSource bool
		Source    int
		SrcLine   int
		SrcColumn int

		HasName bool
		Name    int
	}

	// Table lists segments in generated order.
	Table []Segment
)

// Decode parses mappings into a Table. sources and names bound the indices a
// segment may reference.
func Decode(mappings string, sources, names int) (Table, error) {
	var table Table
	var line, col, pos int
	var source, srcLine, srcColumn, name int
	var fields [5]int

	for pos < len(mappings) {
		switch mappings[pos] {
		case ';':
			line++
			col = 0
			pos++
			continue
		case ',':
			pos++
			continue
		}

		n := 0
		for pos < len(mappings) && mappings[pos] != ',' && mappings[pos] != ';' {
			if n == len(fields) {
				return nil, fmt.Errorf("%w: segment with more than 5 fields on line %d", ErrMalformedMappings, line)
			}
			v, next, err := readVLQ(mappings, pos)
			if err != nil {
				return nil, err
			}
			fields[n] = v
			n++
			pos = next
		}

		if n != 1 && n != 4 && n != 5 {
			return nil, fmt.Errorf("%w: segment with %d fields on line %d", ErrMalformedMappings, n, line)
		}

		col += fields[0]
		if col < 0 {
			return nil, fmt.Errorf("%w: negative generated column on line %d", ErrMalformedMappings, line)
		}
		seg := Segment{GenLine: line, GenColumn: col}

		if n >= 4 {
			source += fields[1]
			srcLine += fields[2]
			srcColumn += fields[3]
			if source < 0 || source >= sources {
				return nil, fmt.Errorf("%w: source index %d out of range on line %d", ErrMalformedMappings, source, line)
			}
			if srcLine < 0 || srcColumn < 0 {
				return nil, fmt.Errorf("%w: negative original position on line %d", ErrMalformedMappings, line)
			}
			seg.HasSource = true
			seg.Source = source
			seg.SrcLine = srcLine
			seg.SrcColumn = srcColumn
		}
		if n == 5 {
			name += fields[4]
			if name < 0 || name >= names {
				return nil, fmt.Errorf("%w: name index %d out of range on line %d", ErrMalformedMappings, name, line)
			}
			seg.HasName = true
			seg.Name = name
		}

		table = append(table, seg)
	}

	return table, nil
}

// Encode renders t as a mappings string. Segments must be sorted by
// generated line and column.
func Encode(t Table) string {
	var sb strings.Builder
	var line, col int
	var source, srcLine, srcColumn, name int
	first := true

	for _, seg := range t {
		if seg.GenLine > line {
			sb.WriteString(strings.Repeat(";", seg.GenLine-line))
			line = seg.GenLine
			col = 0
			first = true
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false

		appendVLQ(&sb, seg.GenColumn-col)
		col = seg.GenColumn

		if !seg.HasSource {
			continue
		}
		appendVLQ(&sb, seg.Source-source)
		appendVLQ(&sb, seg.SrcLine-srcLine)
		appendVLQ(&sb, seg.SrcColumn-srcColumn)
		source, srcLine, srcColumn = seg.Source, seg.SrcLine, seg.SrcColumn

		if seg.HasName {
			appendVLQ(&sb, seg.Name-name)
			name = seg.Name
		}
	}

	return sb.String()
}

// Lookup returns the segment covering the generated position: the last
// segment on genLine whose column is at or before genColumn.
func (t Table) Lookup(genLine, genColumn int) (Segment, bool) {
	var (
		found Segment
		ok    bool
	)
	for _, seg := range t {
		if seg.GenLine > genLine {
			break
		}
		if seg.GenLine == genLine && seg.GenColumn <= genColumn {
			found, ok = seg, true
		}
	}
	return found, ok
}

// OnLine returns the segments on one generated line.
func (t Table) OnLine(genLine int) Table {
	var out Table
	for _, seg := range t {
		if seg.GenLine == genLine {
			out = append(out, seg)
		}
	}
	return out
}

// Shift moves every segment down by lines. Segments on the first line also
// move right by columns, which accounts for inserted text that does not end
// in a line break.
func (t Table) Shift(lines, columns int) Table {
	out := make(Table, len(t))
	for i, seg := range t {
		if seg.GenLine == 0 {
			seg.GenColumn += columns
		}
		seg.GenLine += lines
		out[i] = seg
	}
	return out
}
